package probe

import (
	"context"
	"strings"
	"testing"

	"github.com/calebmun/extcheck/internal/host"
)

// corruptStorage returns a record with the wrong key field on Get and
// records whether Remove ran.
type corruptStorage struct {
	inner   host.Storage
	removed bool
}

func (c *corruptStorage) Set(ctx context.Context, key string, value []byte) error {
	return c.inner.Set(ctx, key, value)
}

func (c *corruptStorage) Get(ctx context.Context, key string) ([]byte, error) {
	return []byte(`{"key":"something_else","checkedAt":"2026-01-01T00:00:00Z"}`), nil
}

func (c *corruptStorage) Remove(ctx context.Context, key string) error {
	c.removed = true
	return c.inner.Remove(ctx, key)
}

func TestStorage_RoundTrip(t *testing.T) {
	store := host.NewMemStorage()
	p := &Storage{Store: store}

	got, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got["storageWorking"] != true {
		t.Fatalf("unexpected payload: %+v", got)
	}
	// the marker must be gone afterwards
	if _, err := store.Get(context.Background(), "extcheck_probe"); err == nil {
		t.Fatal("marker left behind after successful run")
	}
}

func TestStorage_MismatchStillCleansUp(t *testing.T) {
	cs := &corruptStorage{inner: host.NewMemStorage()}
	p := &Storage{Store: cs}

	_, err := p.Run(context.Background())
	if err == nil {
		t.Fatal("want mismatch error")
	}
	if !strings.Contains(err.Error(), "mismatch") {
		t.Fatalf("want mismatch in message, got %q", err.Error())
	}
	if !cs.removed {
		t.Fatal("cleanup did not run on the failure path")
	}
}
