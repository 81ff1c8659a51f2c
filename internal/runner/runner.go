package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/calebmun/extcheck/internal/probe"
)

// ErrIncompleteRun is returned by Report before RunAll has finished.
var ErrIncompleteRun = errors.New("diagnostics run not complete")

type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
)

// Record is the outcome of one probe for one run.
type Record struct {
	Name      string        `json:"name"`
	Status    Status        `json:"status"`
	Payload   probe.Payload `json:"payload,omitempty"`
	Message   string        `json:"message,omitempty"`
	ElapsedMS float64       `json:"elapsed_ms"`
}

// Runner executes registered probes sequentially, in registration
// order, isolating each failure so the rest of the suite still runs.
type Runner struct {
	logger  *zap.Logger
	timeout time.Duration

	probes []probe.Probe
	names  map[string]struct{}

	runID     string
	startedAt time.Time
	records   []Record
	done      bool
}

type Option func(*Runner)

// WithTimeout sets the per-probe deadline.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

func New(logger *zap.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Runner{
		logger:  logger,
		timeout: 10 * time.Second,
		names:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register appends a probe. Duplicate names are a configuration
// defect and are rejected here, before anything runs.
func (r *Runner) Register(p probe.Probe) error {
	name := p.Name()
	if name == "" {
		return errors.New("probe name must not be empty")
	}
	if _, dup := r.names[name]; dup {
		return fmt.Errorf("duplicate probe name %q", name)
	}
	r.names[name] = struct{}{}
	r.probes = append(r.probes, p)
	return nil
}

// RunAll executes every registered probe once, in order. A failing or
// panicking probe never stops the probes after it.
func (r *Runner) RunAll(ctx context.Context) {
	r.runID = ulid.Make().String()
	r.startedAt = time.Now().UTC()
	r.records = make([]Record, 0, len(r.probes))
	r.done = false

	for _, p := range r.probes {
		rec := r.runOne(ctx, p)
		r.records = append(r.records, rec)

		if rec.Status == StatusPass {
			r.logger.Info("probe_passed",
				zap.String("probe", rec.Name),
				zap.Float64("elapsed_ms", rec.ElapsedMS),
			)
		} else {
			r.logger.Warn("probe_failed",
				zap.String("probe", rec.Name),
				zap.String("message", rec.Message),
				zap.Float64("elapsed_ms", rec.ElapsedMS),
			)
		}
	}
	r.done = true
}

func (r *Runner) runOne(ctx context.Context, p probe.Probe) (rec Record) {
	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	rec = Record{Name: p.Name()}
	defer func() {
		rec.ElapsedMS = time.Since(start).Seconds() * 1000
		if v := recover(); v != nil {
			rec.Status = StatusFail
			rec.Message = fmt.Sprintf("probe panicked: %v", v)
			rec.Payload = nil
		}
	}()

	payload, err := p.Run(cctx)
	if err != nil {
		rec.Status = StatusFail
		rec.Message = err.Error()
		if rec.Message == "" {
			rec.Message = "probe failed"
		}
		return rec
	}
	rec.Status = StatusPass
	rec.Payload = payload
	return rec
}

// Report derives the aggregate view of the last completed run. It is
// pure: calling it repeatedly yields identical counts.
func (r *Runner) Report() (Report, error) {
	if !r.done {
		return Report{}, ErrIncompleteRun
	}

	records := make([]Record, len(r.records))
	copy(records, r.records)

	passed := 0
	for _, rec := range records {
		if rec.Status == StatusPass {
			passed++
		}
	}
	total := len(records)

	return Report{
		RunID:       r.runID,
		StartedAt:   r.startedAt,
		Records:     records,
		Total:       total,
		Passed:      passed,
		Failed:      total - passed,
		SuccessRate: successRate(passed, total),
	}, nil
}

// successRate rounds half-up; an empty run reports 0.
func successRate(passed, total int) int {
	if total == 0 {
		return 0
	}
	return (passed*100*2 + total) / (total * 2)
}
