package probe

import (
	"context"
	"fmt"

	"github.com/calebmun/extcheck/internal/host"
)

// Messaging sends a page-info request to the active tab's content
// script and records the reply. A browser with no page open passes
// with activeTab=false; messaging itself is not at fault then.
type Messaging struct {
	Tabs host.Messaging
}

func (p *Messaging) Name() string { return "messaging" }

func (p *Messaging) Run(ctx context.Context) (Payload, error) {
	tab, err := p.Tabs.ActiveTab(ctx)
	if err != nil {
		return nil, fmt.Errorf("query active tab: %w", err)
	}
	if tab == nil {
		return Payload{"messagingWorking": true, "activeTab": false}, nil
	}

	reply, err := p.Tabs.Send(ctx, tab, map[string]any{"type": "getPageInfo"})
	if err != nil {
		return nil, fmt.Errorf("content script not responding: %w", err)
	}

	out := Payload{"messagingWorking": true, "activeTab": true}
	for k, v := range reply {
		out[k] = v
	}
	return out, nil
}
