package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newIngestCmd creates the one-shot ingestion subcommand.
func newIngestCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Run one ingestion pass over all sources and exit",
		Long: `Fetches every registered source once, persists the new documents and
sweeps pending notifications. Individual source failures are reported but do
not fail the run; only an unreachable document store at startup does.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadEnvironment()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			env, err := buildEnvironment(cmd.Context(), cfg, logger, dryRun)
			if err != nil {
				return err
			}
			defer env.close()

			run, err := env.orchestrator.Run(cmd.Context(), "manual")
			if err != nil {
				return fmt.Errorf("ingestion run: %w", err)
			}

			logger.Info("ingestion finished",
				zap.String("run_id", run.ID),
				zap.Int("new", run.TotalNew),
				zap.Int("duplicates", run.TotalDuplicates),
				zap.Int("failed_inserts", run.TotalFailed),
				zap.Int("source_errors", run.TotalErrors),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "%d new documents (%d duplicates, %d failed inserts, %d source errors)\n",
				run.TotalNew, run.TotalDuplicates, run.TotalFailed, run.TotalErrors)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "use an in-memory store and log notifications instead of persisting")
	return cmd
}
