package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/radarlegislativo/ingest/internal/source"
)

// newSourcesCmd creates the source registry inspection subcommands.
func newSourcesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "Inspect the source registry",
	}
	cmd.AddCommand(newSourcesListCmd())
	cmd.AddCommand(newSourcesValidateCmd())
	return cmd
}

func newSourcesListCmd() *cobra.Command {
	var family string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered sources",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadEnvironment()
			if err != nil {
				return err
			}
			sources, err := source.Resolve(cfg.Sources.File)
			if err != nil {
				return fmt.Errorf("resolve sources: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tFAMILY\tCHANNEL\tURL")
			for _, src := range sources {
				if family != "" && string(src.Family) != family {
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", src.ID, src.Family, src.Channel, src.URL)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&family, "family", "", "only show sources of this family")
	return cmd
}

func newSourcesValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the source registry file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadEnvironment()
			if err != nil {
				return err
			}
			sources, err := source.Resolve(cfg.Sources.File)
			if err != nil {
				return fmt.Errorf("source registry invalid: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d sources OK\n", len(sources))
			return nil
		},
	}
}
