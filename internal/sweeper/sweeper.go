// Package sweeper wires up the cron job that periodically expires paid
// postings older than their site's configured lifetime.
package sweeper

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/haoran-tse/tramcar/prometheus"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Expirer is the single job-service operation the sweeper drives.
type Expirer interface {
	ExpireOverdue(ctx context.Context) (int, error)
}

// Sweeper wraps robfig/cron and manages the expiration loop.
type Sweeper struct {
	cron    *cron.Cron
	jobs    Expirer
	spec    string // cron spec, e.g. "@every 6h"
	running atomic.Bool
	log     *zap.Logger
}

// New creates a Sweeper that fires every interval.
func New(jobs Expirer, interval time.Duration, log *zap.Logger) *Sweeper {
	return &Sweeper{
		cron: cron.New(),
		jobs: jobs,
		spec: "@every " + interval.String(),
		log:  log,
	}
}

// Start registers the job and starts the scheduler. Also runs one sweep
// immediately so overdue postings do not linger until the first tick.
func (s *Sweeper) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.run(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.log.Info("sweeper started", zap.String("spec", s.spec))

	// Run immediately on startup (non-blocking)
	go s.run(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Sweeper) Stop() {
	s.cron.Stop()
	s.log.Info("sweeper stopped")
}

// run performs a single sweep. Runs never overlap: if the previous sweep
// is still walking the sites when the next tick fires, the tick is skipped.
func (s *Sweeper) run(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		s.log.Warn("previous sweep still running, skipping")
		return
	}
	defer s.running.Store(false)

	prometheus.SweeperRunsCounter.Inc()

	expired, err := s.jobs.ExpireOverdue(ctx)
	if err != nil {
		s.log.Error("sweep failed", zap.Int("expired_before_error", expired), zap.Error(err))
		return
	}
	if expired > 0 {
		prometheus.SweeperExpiredCounter.Add(float64(expired))
	}
	s.log.Info("sweep complete", zap.Int("expired", expired))
}
