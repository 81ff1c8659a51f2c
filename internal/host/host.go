package host

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound is returned by Storage.Get when the key is absent.
var ErrNotFound = errors.New("key not found")

// Storage is the extension's key-value store.
type Storage interface {
	Set(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Remove(ctx context.Context, key string) error
}

// Tab identifies one open browser page.
type Tab struct {
	ID           string
	Title        string
	URL          string
	WebSocketURL string
}

// Messaging reaches content scripts in open tabs.
type Messaging interface {
	// ActiveTab returns (nil, nil) when the browser has no page open.
	ActiveTab(ctx context.Context) (*Tab, error)
	Send(ctx context.Context, tab *Tab, request map[string]any) (map[string]any, error)
}

// Menu is one context-menu entry.
type Menu struct {
	ID       string
	Title    string
	Contexts []string
}

// MenuRegistry manages the extension's context-menu entries.
type MenuRegistry interface {
	RemoveAll(ctx context.Context) error
	Create(ctx context.Context, m Menu) error
	Remove(ctx context.Context, id string) error
}

// ManifestSource exposes the extension's own manifest.
type ManifestSource interface {
	Manifest(ctx context.Context) (map[string]json.RawMessage, error)
}

// Capabilities bundles the host facilities the probes talk to.
// It is built once at startup and handed to the suite explicitly;
// nothing in this package sniffs the ambient environment.
type Capabilities struct {
	Storage  Storage
	Tabs     Messaging
	Menus    MenuRegistry
	Manifest ManifestSource
}

// Validate reports a missing capability. A nil member is a wiring
// defect, not a probe outcome.
func (c Capabilities) Validate() error {
	switch {
	case c.Storage == nil:
		return errors.New("host: storage capability not configured")
	case c.Tabs == nil:
		return errors.New("host: messaging capability not configured")
	case c.Menus == nil:
		return errors.New("host: menu capability not configured")
	case c.Manifest == nil:
		return errors.New("host: manifest capability not configured")
	}
	return nil
}
