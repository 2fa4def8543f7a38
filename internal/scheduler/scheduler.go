// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultRetentionSchedule runs the event retention job daily at 03:00.
const DefaultRetentionSchedule = "0 3 * * *"

// JobFunc is the body of a scheduled job.
type JobFunc func(ctx context.Context) error

// EventPruner deletes events older than a given age.
type EventPruner interface {
	DeleteOldEvents(ctx context.Context, olderThan time.Duration) error
}

// Scheduler runs named jobs.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger

	mu   sync.Mutex
	jobs map[string]JobFunc
}

// New creates a new scheduler instance.
func New(logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cron.DefaultLogger),
			cron.SkipIfStillRunning(cron.DefaultLogger),
		)),
		logger: logger,
		jobs:   make(map[string]JobFunc),
	}
}

// Register adds a job under name, run on the standard five-field cron spec.
func (s *Scheduler) Register(name, spec string, fn JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %q already registered", name)
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("job %q: invalid schedule %q: %w", name, spec, err)
	}
	if _, err := s.cron.AddFunc(spec, func() { s.run(name, fn) }); err != nil {
		return fmt.Errorf("job %q: %w", name, err)
	}
	s.jobs[name] = fn
	return nil
}

// RegisterEventRetention prunes events older than retentionDays on spec.
// A non-positive retentionDays disables the job.
func (s *Scheduler) RegisterEventRetention(pruner EventPruner, retentionDays int, spec string) error {
	if retentionDays <= 0 {
		s.logger.Info("event retention disabled")
		return nil
	}
	if spec == "" {
		spec = DefaultRetentionSchedule
	}
	maxAge := time.Duration(retentionDays) * 24 * time.Hour
	return s.Register("event-retention", spec, func(ctx context.Context) error {
		return pruner.DeleteOldEvents(ctx, maxAge)
	})
}

// RunNow runs a registered job synchronously.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	fn, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("job %q not registered", name)
	}
	return fn(ctx)
}

// Jobs returns the registered job names in sorted order.
func (s *Scheduler) Jobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (s *Scheduler) run(name string, fn JobFunc) {
	start := time.Now()
	if err := fn(context.Background()); err != nil {
		s.logger.Error("scheduled job failed", "job", name, "error", err)
		return
	}
	s.logger.Debug("scheduled job finished", "job", name, "duration", time.Since(start))
}

// Start starts running registered jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}
