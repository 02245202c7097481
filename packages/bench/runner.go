package bench

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// RequestFunc performs one request and returns the response status, or 0
// when no response was received.
type RequestFunc func(ctx context.Context) (int, error)

// Runner executes bench runs
type Runner struct {
	config    *Config
	scheduler *Scheduler
	metrics   *Metrics
	logger    *slog.Logger
}

// RunnerOption configures the runner
type RunnerOption func(*Runner)

// WithLogger sets the logger used for per-request debug output
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRunner creates a runner for config.
func NewRunner(config *Config, opts ...RunnerOption) (*Runner, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	r := &Runner{
		config:    config,
		scheduler: NewScheduler(config),
		metrics:   NewMetrics(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Metrics returns the collector for the run
func (r *Runner) Metrics() *Metrics {
	return r.metrics
}

// Run issues config.Total calls to fn, paced by the scheduler. Errors from
// fn are counted, not returned. Cancelling ctx, or a deadline the rate limit
// cannot meet, stops scheduling new calls; the summary then covers only the
// calls that were made.
func (r *Runner) Run(ctx context.Context, fn RequestFunc) *Summary {
	var g errgroup.Group

	r.metrics.Start()

	for i := 0; i < r.config.Total; i++ {
		if err := r.scheduler.Wait(ctx); err != nil {
			r.logger.Debug("bench stopped", "sent", i, "reason", err)
			break
		}
		if err := r.scheduler.Acquire(ctx); err != nil {
			r.logger.Debug("bench stopped", "sent", i, "reason", err)
			break
		}

		seq := i
		g.Go(func() error {
			defer r.scheduler.Release()

			start := time.Now()
			status, err := fn(ctx)
			elapsed := time.Since(start)

			r.metrics.Record(elapsed, status, err)
			r.logger.Debug("bench request", "seq", seq, "status", status, "duration", elapsed, "error", err)
			return nil
		})
	}

	_ = g.Wait()
	r.metrics.Stop()

	return r.metrics.GetSummary()
}
