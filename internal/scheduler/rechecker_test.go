package scheduler

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/calebmun/extcheck/internal/probe"
	"github.com/calebmun/extcheck/internal/runner"
)

type memNotifier struct{ n int }

func (m *memNotifier) Send(ctx context.Context, title, text string) error {
	m.n++
	return nil
}

func suiteWith(probes ...probe.Probe) Suite {
	return func() (*runner.Runner, error) {
		r := runner.New(zap.NewNop())
		for _, p := range probes {
			if err := r.Register(p); err != nil {
				return nil, err
			}
		}
		return r, nil
	}
}

func pass(name string) probe.Probe {
	return probe.Func{ProbeName: name, Fn: func(ctx context.Context) (probe.Payload, error) {
		return probe.Payload{}, nil
	}}
}

func fail(name string) probe.Probe {
	return probe.Func{ProbeName: name, Fn: func(ctx context.Context) (probe.Payload, error) {
		return nil, errors.New("down")
	}}
}

func TestRechecker_NotifiesOnFailure(t *testing.T) {
	nt := &memNotifier{}
	var published *runner.Report
	rc := NewRechecker(zap.NewNop(), suiteWith(pass("a"), fail("b")), nt,
		func(rep runner.Report) { published = &rep }, 0)

	rc.runOnce(context.Background())

	if nt.n != 1 {
		t.Fatalf("want 1 notification, got %d", nt.n)
	}
	if published == nil || published.Failed != 1 {
		t.Fatalf("report not published: %+v", published)
	}
}

func TestRechecker_SilentWhenAllPass(t *testing.T) {
	nt := &memNotifier{}
	rc := NewRechecker(zap.NewNop(), suiteWith(pass("a"), pass("b")), nt, nil, 0)

	rc.runOnce(context.Background())

	if nt.n != 0 {
		t.Fatalf("unexpected notification: %d", nt.n)
	}
}

func TestRechecker_SuiteErrorIsSwallowed(t *testing.T) {
	nt := &memNotifier{}
	broken := func() (*runner.Runner, error) { return nil, errors.New("bad wiring") }
	rc := NewRechecker(zap.NewNop(), broken, nt, nil, 0)

	rc.runOnce(context.Background()) // must not panic

	if nt.n != 0 {
		t.Fatalf("unexpected notification: %d", nt.n)
	}
}
