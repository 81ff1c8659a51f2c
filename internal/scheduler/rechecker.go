package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/calebmun/extcheck/internal/notify"
	"github.com/calebmun/extcheck/internal/runner"
)

// Suite builds a fresh, fully registered runner for one pass.
type Suite func() (*runner.Runner, error)

// Rechecker re-runs the diagnostic suite on an interval and notifies
// when checks are failing. Interval 0 disables it.
type Rechecker struct {
	Logger   *zap.Logger
	Suite    Suite
	Notifier notify.Notifier
	Publish  func(runner.Report) // hands completed reports to the API server; may be nil
	Interval time.Duration
}

func NewRechecker(
	logger *zap.Logger,
	suite Suite,
	notifier notify.Notifier,
	publish func(runner.Report),
	interval time.Duration,
) *Rechecker {
	if interval < 0 {
		interval = 0
	}
	return &Rechecker{
		Logger:   logger,
		Suite:    suite,
		Notifier: notifier,
		Publish:  publish,
		Interval: interval,
	}
}

// Run starts the loop. It does an immediate pass, then runs each tick.
// Stops when ctx is cancelled.
func (r *Rechecker) Run(ctx context.Context) {
	if r.Interval == 0 {
		r.Logger.Info("rechecker_disabled")
		return
	}
	t := time.NewTicker(r.Interval)
	defer t.Stop()

	r.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			r.Logger.Info("rechecker_stopped")
			return
		case <-t.C:
			r.runOnce(ctx)
		}
	}
}

func (r *Rechecker) runOnce(ctx context.Context) {
	run, err := r.Suite()
	if err != nil {
		r.Logger.Warn("rechecker_suite_error", zap.Error(err))
		return
	}

	run.RunAll(ctx)
	rep, err := run.Report()
	if err != nil {
		r.Logger.Warn("rechecker_report_error", zap.Error(err))
		return
	}

	if r.Publish != nil {
		r.Publish(rep)
	}

	r.Logger.Info("rechecker_pass",
		zap.String("run_id", rep.RunID),
		zap.Int("passed", rep.Passed),
		zap.Int("failed", rep.Failed),
	)

	if rep.Failed > 0 && r.Notifier != nil {
		title := fmt.Sprintf("🔴 Extension diagnostics: %d of %d checks failing", rep.Failed, rep.Total)
		// Best-effort send
		if err := r.Notifier.Send(ctx, title, rep.Render()); err != nil {
			r.Logger.Warn("rechecker_notify_error", zap.Error(err))
		}
	}
}
