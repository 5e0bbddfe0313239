// Package scheduler runs collection schedules on cron expressions. Each
// trigger runs a full collection, archives the snapshot and publishes it as
// the live dashboard snapshot.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/geoscope/geoscope/internal/collector"
	"github.com/geoscope/geoscope/internal/db"
	"github.com/geoscope/geoscope/internal/logger"
	"github.com/geoscope/geoscope/internal/models"
	"github.com/geoscope/geoscope/internal/snapshot"
)

// Scheduler manages scheduled collection runs
type Scheduler struct {
	db        db.Database
	collector *collector.Collector
	store     *snapshot.Store
	cron      *cron.Cron
	entries   map[string]cron.EntryID
	running   bool
	mu        sync.RWMutex
}

// New creates a new scheduler
func New(database db.Database, c *collector.Collector, store *snapshot.Store) *Scheduler {
	return &Scheduler{
		db:        database,
		collector: c,
		store:     store,
		cron:      cron.New(),
		entries:   make(map[string]cron.EntryID),
	}
}

// Start loads the enabled schedules and starts the cron loop
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	schedules, err := s.db.ListSchedules(ctx, boolPtr(true))
	if err != nil {
		return fmt.Errorf("failed to load schedules: %w", err)
	}

	for _, schedule := range schedules {
		if err := s.registerSchedule(schedule); err != nil {
			logger.Error("Failed to register schedule %s: %v", schedule.ID, err)
		}
	}

	s.cron.Start()
	s.running = true

	logger.Info("Scheduler started with %d schedules", len(s.entries))
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cron.Stop()
	s.running = false

	logger.Info("Scheduler stopped")
}

// Running reports whether the cron loop is active
func (s *Scheduler) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Reload drops all registered jobs and re-registers the currently enabled
// schedules. Call after schedules change through the API or CLI.
func (s *Scheduler) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return fmt.Errorf("scheduler not running")
	}

	for id, entry := range s.entries {
		s.cron.Remove(entry)
		delete(s.entries, id)
	}

	schedules, err := s.db.ListSchedules(ctx, boolPtr(true))
	if err != nil {
		return fmt.Errorf("failed to load schedules: %w", err)
	}

	for _, schedule := range schedules {
		if err := s.registerSchedule(schedule); err != nil {
			logger.Error("Failed to register schedule %s: %v", schedule.ID, err)
		}
	}

	logger.Info("Scheduler reloaded with %d schedules", len(s.entries))
	return nil
}

// ExecuteNow runs a schedule immediately, outside its cron expression
func (s *Scheduler) ExecuteNow(ctx context.Context, scheduleID string) error {
	schedule, err := s.db.GetSchedule(ctx, scheduleID)
	if err != nil {
		return fmt.Errorf("failed to get schedule: %w", err)
	}
	return s.executeSchedule(ctx, schedule)
}

func (s *Scheduler) registerSchedule(schedule *models.CollectionSchedule) error {
	entry, err := s.cron.AddFunc(schedule.CronExpr, func() {
		// cron fires without a caller context; collection runs own their own
		if err := s.executeSchedule(context.Background(), schedule); err != nil {
			logger.Error("Failed to execute schedule %s: %v", schedule.ID, err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.entries[schedule.ID] = entry
	logger.Info("Registered schedule %s with cron expression: %s", schedule.ID, schedule.CronExpr)
	return nil
}

func (s *Scheduler) executeSchedule(ctx context.Context, schedule *models.CollectionSchedule) error {
	logger.Info("Executing schedule: %s (%s)", schedule.Name, schedule.ID)
	started := time.Now()

	snap, err := s.collector.CollectWithTemperature(ctx, schedule.LLMIDs, schedule.Temperature)
	if err != nil {
		return fmt.Errorf("collection failed: %w", err)
	}

	if err := s.db.SaveSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("failed to archive snapshot: %w", err)
	}
	s.store.Set(snap)

	now := time.Now()
	schedule.LastRun = &now
	if err := s.db.UpdateSchedule(ctx, schedule); err != nil {
		logger.Warning("Failed to record last run for schedule %s: %v", schedule.ID, err)
	}

	logger.Info("Schedule %s completed in %s, snapshot %s archived",
		schedule.ID, time.Since(started).Round(time.Millisecond), snap.ID)
	return nil
}

func boolPtr(b bool) *bool {
	return &b
}
