package probe

import "context"

// Payload carries probe-specific detail fields for a successful check.
type Payload map[string]any

// Probe is a single named capability check. A nil error marks the
// check as passed with the returned payload; a non-nil error marks it
// as failed, with err.Error() as the recorded message.
type Probe interface {
	Name() string
	Run(ctx context.Context) (Payload, error)
}

// Func adapts a bare function to the Probe interface.
type Func struct {
	ProbeName string
	Fn        func(ctx context.Context) (Payload, error)
}

func (f Func) Name() string { return f.ProbeName }

func (f Func) Run(ctx context.Context) (Payload, error) { return f.Fn(ctx) }
