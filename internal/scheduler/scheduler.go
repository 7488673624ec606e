// Package scheduler keeps the query endpoint warm. The hosted API sleeps when
// idle, so the first submission after a quiet period would otherwise pay the
// cold start.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"aivs/query-service/internal/submission"
)

// Pinger is satisfied by *submission.HTTPPoster.
type Pinger interface {
	Ping(ctx context.Context) (submission.Response, error)
}

// Scheduler wraps robfig/cron and fires a ping on every tick.
type Scheduler struct {
	cron   *cron.Cron
	pinger Pinger
	spec   string
	log    *slog.Logger

	ok     atomic.Int64
	failed atomic.Int64
}

// New creates a Scheduler that pings every interval (rounded down to whole
// minutes, minimum one).
func New(pinger Pinger, interval time.Duration, log *slog.Logger) *Scheduler {
	minutes := int(interval / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{
		cron:   cron.New(),
		pinger: pinger,
		spec:   fmt.Sprintf("@every %dm", minutes),
		log:    log,
	}
}

// Spec returns the cron spec in use.
func (s *Scheduler) Spec() string { return s.spec }

// Start registers the job, starts the scheduler and fires one ping right away.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.log.Info("warm-up pinger started", "spec", s.spec)

	go s.RunOnce(ctx)
	return nil
}

// Stop halts the scheduler and waits for a running ping to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("warm-up pinger stopped")
}

// RunOnce pings the endpoint a single time. Failures are only logged.
func (s *Scheduler) RunOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	start := time.Now()
	resp, err := s.pinger.Ping(ctx)
	if err != nil {
		s.failed.Add(1)
		s.log.Warn("endpoint ping failed", "err", err, "elapsed", time.Since(start))
		return
	}
	s.ok.Add(1)
	s.log.Info("endpoint ping ok", "message", resp.Message, "elapsed", time.Since(start))
}

// Counts returns the number of successful and failed pings so far.
func (s *Scheduler) Counts() (ok, failed int64) {
	return s.ok.Load(), s.failed.Load()
}
