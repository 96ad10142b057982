package cmd

import (
	"context"
	"fmt"

	gcstorage "cloud.google.com/go/storage"
	"go.uber.org/zap"

	"github.com/radarlegislativo/ingest/internal/archive"
	"github.com/radarlegislativo/ingest/internal/clock/system"
	"github.com/radarlegislativo/ingest/internal/config"
	"github.com/radarlegislativo/ingest/internal/document"
	"github.com/radarlegislativo/ingest/internal/fetch"
	"github.com/radarlegislativo/ingest/internal/fetch/headless"
	"github.com/radarlegislativo/ingest/internal/ingest"
	"github.com/radarlegislativo/ingest/internal/metrics"
	"github.com/radarlegislativo/ingest/internal/notify"
	"github.com/radarlegislativo/ingest/internal/source"
	"github.com/radarlegislativo/ingest/internal/store/memory"
	"github.com/radarlegislativo/ingest/internal/store/postgres"
)

// environment bundles the wired pipeline pieces a command needs.
type environment struct {
	sources      []source.Source
	store        document.Store
	orchestrator *ingest.Orchestrator
	cleanup      []func()
}

func (e *environment) close() {
	for i := len(e.cleanup) - 1; i >= 0; i-- {
		e.cleanup[i]()
	}
}

// buildEnvironment wires the full pipeline. With dryRun set the in-memory
// store and log notifier replace Postgres and Pub/Sub. A store that cannot be
// reached at boot is the one fatal condition.
func buildEnvironment(ctx context.Context, cfg config.Config, logger *zap.Logger, dryRun bool) (*environment, error) {
	metrics.Init()
	env := &environment{}

	sources, err := source.Resolve(cfg.Sources.File)
	if err != nil {
		return nil, fmt.Errorf("resolve sources: %w", err)
	}
	env.sources = sources

	store, err := buildStore(ctx, cfg, dryRun)
	if err != nil {
		return nil, err
	}
	env.store = store
	env.cleanup = append(env.cleanup, store.Close)

	fetcher, err := buildFetcher(cfg, logger, env)
	if err != nil {
		env.close()
		return nil, err
	}

	notifier, err := buildNotifier(ctx, cfg, logger, dryRun, env)
	if err != nil {
		env.close()
		return nil, err
	}

	archiver, err := buildArchiver(ctx, cfg, env)
	if err != nil {
		env.close()
		return nil, err
	}

	env.orchestrator = ingest.New(
		ingest.Config{
			InterSourcePause: cfg.InterSourcePause(),
			NotifyBatchSize:  cfg.Ingest.NotifyBatchSize,
		},
		sources,
		fetcher,
		store,
		notifier,
		archiver,
		system.New(),
		logger,
	)
	return env, nil
}

func buildStore(ctx context.Context, cfg config.Config, dryRun bool) (document.Store, error) {
	if dryRun {
		return memory.New(), nil
	}
	store, err := postgres.New(ctx, postgres.Config{
		DSN:      cfg.DB.DSN,
		MaxConns: int32(cfg.DB.MaxConns),
		MinConns: int32(cfg.DB.MinConns),
	})
	if err != nil {
		return nil, fmt.Errorf("connect document store: %w", err)
	}
	if err := store.Ping(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("document store unreachable: %w", err)
	}
	return store, nil
}

func buildFetcher(cfg config.Config, logger *zap.Logger, env *environment) (*fetch.Fetcher, error) {
	var renderer fetch.Renderer
	if cfg.Headless.Enabled {
		r, err := headless.New(headless.Config{
			MaxParallel:       cfg.Headless.MaxParallel,
			NavigationTimeout: cfg.NavTimeout(),
		})
		if err != nil {
			return nil, fmt.Errorf("init headless renderer: %w", err)
		}
		renderer = r
		env.cleanup = append(env.cleanup, r.Close)
	}
	return fetch.New(fetch.Config{
		Timeout:        cfg.FetchTimeout(),
		MaxRetries:     cfg.Fetch.MaxRetries,
		BackoffInitial: cfg.BackoffInitial(),
		BackoffMax:     cfg.BackoffMax(),
		UserAgents:     cfg.Fetch.UserAgents,
	}, renderer, logger), nil
}

func buildNotifier(ctx context.Context, cfg config.Config, logger *zap.Logger, dryRun bool, env *environment) (document.Notifier, error) {
	if dryRun || cfg.PubSub.ProjectID == "" {
		return notify.NewLog(logger), nil
	}
	notifier, err := notify.NewPubSub(ctx, cfg.PubSub.ProjectID, cfg.PubSub.TopicName)
	if err != nil {
		return nil, fmt.Errorf("init pubsub notifier: %w", err)
	}
	env.cleanup = append(env.cleanup, notifier.Close)
	return notifier, nil
}

func buildArchiver(ctx context.Context, cfg config.Config, env *environment) (*archive.Archiver, error) {
	switch {
	case cfg.Archive.GCSBucket != "":
		client, err := gcstorage.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("init storage client: %w", err)
		}
		env.cleanup = append(env.cleanup, func() { _ = client.Close() })
		blobs, err := archive.NewGCS(client, cfg.Archive.GCSBucket)
		if err != nil {
			return nil, fmt.Errorf("init gcs archive: %w", err)
		}
		return archive.New(blobs), nil
	case cfg.Archive.LocalDir != "":
		blobs, err := archive.NewLocal(cfg.Archive.LocalDir)
		if err != nil {
			return nil, fmt.Errorf("init local archive: %w", err)
		}
		return archive.New(blobs), nil
	default:
		return nil, nil
	}
}
