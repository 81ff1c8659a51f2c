package probe

import (
	"context"
	"fmt"

	"github.com/calebmun/extcheck/internal/host"
)

const (
	menuProbeID    = "extcheck_menu_probe"
	menuProbeTitle = "Extension Diagnostic"
)

// ContextMenu exercises the menu registry lifecycle: clear, create
// one entry, remove it again.
type ContextMenu struct {
	Menus host.MenuRegistry
}

func (p *ContextMenu) Name() string { return "contextmenu" }

func (p *ContextMenu) Run(ctx context.Context) (Payload, error) {
	if err := p.Menus.RemoveAll(ctx); err != nil {
		return nil, fmt.Errorf("context menu API failed: %w", err)
	}
	entry := host.Menu{ID: menuProbeID, Title: menuProbeTitle, Contexts: []string{"page"}}
	if err := p.Menus.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("context menu API failed: %w", err)
	}
	if err := p.Menus.Remove(ctx, menuProbeID); err != nil {
		return nil, fmt.Errorf("context menu API failed: %w", err)
	}
	return Payload{"contextMenuWorking": true}, nil
}
