package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/calebmun/extcheck/internal/host"
)

const storageProbeKey = "extcheck_probe"

// Storage round-trips a timestamped marker through the key-value
// store: write, read back, compare, then remove. Removal runs even
// when the comparison fails so no marker is left behind.
type Storage struct {
	Store host.Storage
}

type storageMarker struct {
	Key       string    `json:"key"`
	CheckedAt time.Time `json:"checkedAt"`
}

func (p *Storage) Name() string { return "storage" }

func (p *Storage) Run(ctx context.Context) (Payload, error) {
	marker := storageMarker{Key: storageProbeKey, CheckedAt: time.Now().UTC()}
	raw, err := json.Marshal(marker)
	if err != nil {
		return nil, err
	}
	if err := p.Store.Set(ctx, storageProbeKey, raw); err != nil {
		return nil, fmt.Errorf("storage set: %w", err)
	}

	var runErr error
	got, err := p.Store.Get(ctx, storageProbeKey)
	if err != nil {
		runErr = fmt.Errorf("storage get: %w", err)
	} else {
		var back storageMarker
		if err := json.Unmarshal(got, &back); err != nil {
			runErr = fmt.Errorf("storage decode: %w", err)
		} else if back.Key != marker.Key {
			runErr = fmt.Errorf("storage round-trip mismatch: wrote key %q, read key %q", marker.Key, back.Key)
		}
	}

	// Cleanup happens regardless of the outcome above.
	if err := p.Store.Remove(ctx, storageProbeKey); err != nil {
		runErr = multierr.Append(runErr, fmt.Errorf("storage remove: %w", err))
	}
	if runErr != nil {
		return nil, runErr
	}
	return Payload{"storageWorking": true}, nil
}
