// Package ingest orchestrates a full ingestion run: fetch every registered
// source, extract and normalize its records, persist the new ones and sweep
// pending notifications.
package ingest

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radarlegislativo/ingest/internal/clock"
	"github.com/radarlegislativo/ingest/internal/document"
	"github.com/radarlegislativo/ingest/internal/extract"
	"github.com/radarlegislativo/ingest/internal/fetch"
	"github.com/radarlegislativo/ingest/internal/metrics"
	"github.com/radarlegislativo/ingest/internal/normalize"
	"github.com/radarlegislativo/ingest/internal/source"
)

const (
	defaultInterSourcePause = 2 * time.Second
	defaultNotifyBatchSize  = 100
)

// PageFetcher retrieves one source page and classifies the outcome.
type PageFetcher interface {
	Fetch(ctx context.Context, src source.Source) fetch.Result
}

// PageArchiver stores a raw copy of a fetched page.
type PageArchiver interface {
	ArchivePage(ctx context.Context, sourceID string, fetchedAt time.Time, body []byte) (string, error)
}

// Config controls orchestrator behavior.
type Config struct {
	InterSourcePause time.Duration
	NotifyBatchSize  int
}

// Orchestrator runs the ingestion pipeline over the source registry.
type Orchestrator struct {
	cfg        Config
	sources    []source.Source
	fetcher    PageFetcher
	normalizer *normalize.Normalizer
	store      document.Store
	notifier   document.Notifier
	archiver   PageArchiver
	clk        clock.Clock
	logger     *zap.Logger

	mu      sync.Mutex
	running bool
}

// New builds an Orchestrator. notifier and archiver may be nil.
func New(
	cfg Config,
	sources []source.Source,
	fetcher PageFetcher,
	store document.Store,
	notifier document.Notifier,
	archiver PageArchiver,
	clk clock.Clock,
	logger *zap.Logger,
) *Orchestrator {
	if cfg.InterSourcePause <= 0 {
		cfg.InterSourcePause = defaultInterSourcePause
	}
	if cfg.NotifyBatchSize <= 0 {
		cfg.NotifyBatchSize = defaultNotifyBatchSize
	}
	return &Orchestrator{
		cfg:        cfg,
		sources:    sources,
		fetcher:    fetcher,
		normalizer: normalize.New(clk),
		store:      store,
		notifier:   notifier,
		archiver:   archiver,
		clk:        clk,
		logger:     logger.Named("ingest"),
	}
}

// ErrRunInProgress is returned when a run is requested while another is
// still executing.
var ErrRunInProgress = errors.New("ingestion run already in progress")

// Run executes one full ingestion pass. Families fan out concurrently;
// sources within a family run sequentially with a politeness pause. A run
// always completes: per-source failures are recorded, never propagated.
func (o *Orchestrator) Run(ctx context.Context, tier string) (Run, error) {
	o.mu.Lock()
	if o.running {
		o.mu.Unlock()
		return Run{}, ErrRunInProgress
	}
	o.running = true
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		o.running = false
		o.mu.Unlock()
	}()

	run := Run{
		ID:        uuid.NewString(),
		Tier:      tier,
		StartedAt: o.clk.Now(),
	}
	o.logger.Info("run started",
		zap.String("run_id", run.ID),
		zap.String("tier", tier),
		zap.Int("sources", len(o.sources)),
	)

	families := source.GroupByFamily(o.sources)
	var (
		wg      sync.WaitGroup
		reports = make(chan SourceReport, len(o.sources))
	)
	for family, sources := range families {
		wg.Add(1)
		go func(family source.Family, sources []source.Source) {
			defer wg.Done()
			o.runFamily(ctx, run.ID, family, sources, reports)
		}(family, sources)
	}
	wg.Wait()
	close(reports)

	for report := range reports {
		run.Reports = append(run.Reports, report)
		run.TotalNew += report.New
		run.TotalDuplicates += report.Duplicates
		run.TotalFailed += report.Failed
		if report.Err != nil {
			run.TotalErrors++
		}
	}
	run.FinishedAt = o.clk.Now()

	if run.TotalNew > 0 {
		o.sweepNotifications(ctx, run.ID)
	}

	metrics.ObserveRun(tier, run.FinishedAt.Sub(run.StartedAt), run.TotalNew)
	o.logger.Info("run finished",
		zap.String("run_id", run.ID),
		zap.Int("new", run.TotalNew),
		zap.Int("duplicates", run.TotalDuplicates),
		zap.Int("failed", run.TotalFailed),
		zap.Int("errors", run.TotalErrors),
		zap.Duration("took", run.FinishedAt.Sub(run.StartedAt)),
	)
	return run, nil
}

// runFamily walks one family's sources in order, pausing between them so the
// same host is never hammered back to back. When the context is canceled
// mid-family, every remaining source still gets a report so the run summary
// accounts for what was skipped.
func (o *Orchestrator) runFamily(ctx context.Context, runID string, family source.Family, sources []source.Source, out chan<- SourceReport) {
	for i, src := range sources {
		if i > 0 {
			if err := pause(ctx, o.cfg.InterSourcePause); err != nil {
				for _, skipped := range sources[i:] {
					out <- SourceReport{SourceID: skipped.ID, Family: family, Err: err}
				}
				return
			}
		}
		out <- o.runSource(ctx, runID, src)
	}
}

func (o *Orchestrator) runSource(ctx context.Context, runID string, src source.Source) SourceReport {
	report := SourceReport{SourceID: src.ID, Family: src.Family}
	log := o.logger.With(zap.String("run_id", runID), zap.String("source", src.ID))

	result := o.fetcher.Fetch(ctx, src)
	report.FetchStatus = result.Status
	metrics.ObserveFetch(src.ID, string(result.Status))
	if result.Status != fetch.StatusSuccess {
		report.Err = result.Err
		log.Warn("fetch failed",
			zap.String("status", string(result.Status)),
			zap.Int("attempts", result.Attempts),
			zap.Error(result.Err),
		)
		return report
	}

	if o.archiver != nil {
		if _, err := o.archiver.ArchivePage(ctx, src.ID, o.clk.Now(), result.Body); err != nil {
			log.Warn("raw page archive failed", zap.Error(err))
		}
	}

	extracted, err := extract.Extract(result.Body, src)
	if err != nil {
		report.Err = err
		log.Warn("extraction failed", zap.Error(err))
		return report
	}
	report.Strategy = extracted.Strategy
	report.Extracted = len(extracted.Records)
	if len(extracted.Records) == 0 {
		log.Debug("no records extracted", zap.String("strategy", extracted.Strategy))
		return report
	}

	for _, rec := range extracted.Records {
		doc := o.normalizer.Normalize(rec, src)
		switch err := o.store.Insert(ctx, &doc); {
		case err == nil:
			report.New++
			metrics.ObserveDocument(src.ID, "new")
		case errors.Is(err, document.ErrAlreadyExists):
			report.Duplicates++
			metrics.ObserveDocument(src.ID, "duplicate")
		default:
			report.Failed++
			metrics.ObserveDocument(src.ID, "failed")
			log.Warn("insert failed", zap.String("url", doc.URL), zap.Error(err))
		}
	}
	log.Info("source processed",
		zap.String("strategy", extracted.Strategy),
		zap.Int("extracted", report.Extracted),
		zap.Int("new", report.New),
		zap.Int("duplicates", report.Duplicates),
	)
	return report
}

// sweepNotifications delivers pending documents and marks them notified.
// Notifier failures are absorbed: the documents stay pending for the next
// sweep and the run itself still succeeds.
func (o *Orchestrator) sweepNotifications(ctx context.Context, runID string) {
	if o.notifier == nil {
		return
	}
	log := o.logger.With(zap.String("run_id", runID))

	pending, err := o.store.ListUnnotified(ctx, o.cfg.NotifyBatchSize)
	if err != nil {
		log.Warn("listing unnotified documents failed", zap.Error(err))
		return
	}
	if len(pending) == 0 {
		return
	}
	if err := o.notifier.NotifyNewDocuments(ctx, pending); err != nil {
		log.Warn("notification delivery failed, will retry next run", zap.Error(err))
		return
	}
	urls := make([]string, 0, len(pending))
	for _, doc := range pending {
		urls = append(urls, doc.URL)
	}
	if err := o.store.MarkNotified(ctx, urls); err != nil {
		log.Warn("marking documents notified failed", zap.Error(err))
		return
	}
	log.Info("notifications sent", zap.Int("count", len(pending)))
}

func pause(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
