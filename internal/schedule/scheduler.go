// Package schedule drives ingestion runs on a tiered cron calendar: dense
// polling during parliamentary business hours, sparse polling off hours and
// on weekends.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/radarlegislativo/ingest/internal/clock"
	"github.com/radarlegislativo/ingest/internal/ingest"
)

// Scheduler tiers.
const (
	TierBusinessHours = "business_hours"
	TierOffHours      = "off_hours"
	TierWeekend       = "weekend"
)

// Default tier specs. Business hours track the parliamentary working day in
// local Lisbon time.
const (
	defaultBusinessSpec = "*/15 9-19 * * 1-5"
	defaultOffHoursSpec = "0 */2 * * *"
	defaultWeekendSpec  = "0 10 * * 0,6"
	defaultResetSpec    = "0 0 * * *"
	defaultLocation     = "Europe/Lisbon"
)

// Runner executes one ingestion run for a tier.
type Runner interface {
	Run(ctx context.Context, tier string) (ingest.Run, error)
}

// Config controls the cron calendar.
type Config struct {
	BusinessSpec string
	OffHoursSpec string
	WeekendSpec  string
	ResetSpec    string
	Location     string
}

// Status is a point-in-time view of scheduler state.
type Status struct {
	LastRunID  string    `json:"last_run_id,omitempty"`
	LastRunAt  time.Time `json:"last_run_at,omitempty"`
	LastTier   string    `json:"last_tier,omitempty"`
	LastRunNew int       `json:"last_run_new"`
	RunsToday  int       `json:"runs_today"`
	NextRunAt  time.Time `json:"next_run_at,omitempty"`
	StartedAt  time.Time `json:"started_at"`
}

// Scheduler owns the cron instance and the run counters behind /status.
type Scheduler struct {
	cfg    Config
	cron   *cron.Cron
	runner Runner
	clk    clock.Clock
	loc    *time.Location
	logger *zap.Logger

	mu         sync.Mutex
	lastRunID  string
	lastRunAt  time.Time
	lastTier   string
	lastRunNew int
	runsToday  int
	startedAt  time.Time
}

// New builds a Scheduler. Empty spec fields fall back to the default
// calendar.
func New(cfg Config, runner Runner, clk clock.Clock, logger *zap.Logger) (*Scheduler, error) {
	if cfg.BusinessSpec == "" {
		cfg.BusinessSpec = defaultBusinessSpec
	}
	if cfg.OffHoursSpec == "" {
		cfg.OffHoursSpec = defaultOffHoursSpec
	}
	if cfg.WeekendSpec == "" {
		cfg.WeekendSpec = defaultWeekendSpec
	}
	if cfg.ResetSpec == "" {
		cfg.ResetSpec = defaultResetSpec
	}
	if cfg.Location == "" {
		cfg.Location = defaultLocation
	}
	loc, err := time.LoadLocation(cfg.Location)
	if err != nil {
		return nil, fmt.Errorf("load scheduler location %q: %w", cfg.Location, err)
	}
	return &Scheduler{
		cfg:    cfg,
		cron:   cron.New(cron.WithLocation(loc)),
		runner: runner,
		clk:    clk,
		loc:    loc,
		logger: logger.Named("schedule"),
	}, nil
}

// Start registers the tier entries and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	entries := []struct {
		spec string
		job  func()
	}{
		{s.cfg.BusinessSpec, func() { s.trigger(ctx, TierBusinessHours) }},
		{s.cfg.OffHoursSpec, func() { s.triggerOffHours(ctx) }},
		{s.cfg.WeekendSpec, func() { s.trigger(ctx, TierWeekend) }},
		{s.cfg.ResetSpec, s.resetDailyCounter},
	}
	for _, entry := range entries {
		if _, err := s.cron.AddFunc(entry.spec, entry.job); err != nil {
			return fmt.Errorf("register cron spec %q: %w", entry.spec, err)
		}
	}
	s.mu.Lock()
	s.startedAt = s.clk.Now()
	s.mu.Unlock()
	s.cron.Start()
	s.logger.Info("scheduler started",
		zap.String("business", s.cfg.BusinessSpec),
		zap.String("off_hours", s.cfg.OffHoursSpec),
		zap.String("weekend", s.cfg.WeekendSpec),
		zap.String("location", s.cfg.Location),
	)
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// triggerOffHours fires the off-hours tier unless the business-hours tier
// already covers the current slot.
func (s *Scheduler) triggerOffHours(ctx context.Context) {
	if s.withinBusinessHours(s.clk.Now()) {
		s.logger.Debug("off-hours tick inside business hours, skipping")
		return
	}
	s.trigger(ctx, TierOffHours)
}

// withinBusinessHours reports whether t falls in the weekday 9-19h window
// the business tier polls.
func (s *Scheduler) withinBusinessHours(t time.Time) bool {
	local := t.In(s.loc)
	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return local.Hour() >= 9 && local.Hour() <= 19
}

func (s *Scheduler) trigger(ctx context.Context, tier string) {
	run, err := s.runner.Run(ctx, tier)
	if err != nil {
		if errors.Is(err, ingest.ErrRunInProgress) {
			s.logger.Info("previous run still active, skipping tick", zap.String("tier", tier))
			return
		}
		s.logger.Error("scheduled run failed", zap.String("tier", tier), zap.Error(err))
		return
	}
	s.mu.Lock()
	s.lastRunID = run.ID
	s.lastRunAt = run.FinishedAt
	s.lastTier = tier
	s.lastRunNew = run.TotalNew
	s.runsToday++
	s.mu.Unlock()
}

func (s *Scheduler) resetDailyCounter() {
	s.mu.Lock()
	s.runsToday = 0
	s.mu.Unlock()
	s.logger.Debug("daily run counter reset")
}

// Snapshot returns the current scheduler state.
func (s *Scheduler) Snapshot() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := Status{
		LastRunID:  s.lastRunID,
		LastRunAt:  s.lastRunAt,
		LastTier:   s.lastTier,
		LastRunNew: s.lastRunNew,
		RunsToday:  s.runsToday,
		StartedAt:  s.startedAt,
	}
	if entries := s.cron.Entries(); len(entries) > 0 {
		next := entries[0].Next
		for _, entry := range entries[1:] {
			if !entry.Next.IsZero() && (next.IsZero() || entry.Next.Before(next)) {
				next = entry.Next
			}
		}
		status.NextRunAt = next
	}
	return status
}
