package probe

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/calebmun/extcheck/internal/host"
)

// requiredManifestFields are checked in order; the first absent one
// fails the probe.
var requiredManifestFields = []string{"name", "version", "description", "permissions"}

// Manifest validates the extension's own manifest.
type Manifest struct {
	Source host.ManifestSource
}

func (p *Manifest) Name() string { return "manifest" }

func (p *Manifest) Run(ctx context.Context) (Payload, error) {
	m, err := p.Source.Manifest(ctx)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	for _, field := range requiredManifestFields {
		if _, ok := m[field]; !ok {
			return nil, fmt.Errorf("Missing required field: %s", field)
		}
	}

	var name, version string
	_ = json.Unmarshal(m["name"], &name)
	_ = json.Unmarshal(m["version"], &version)
	var perms []json.RawMessage
	_ = json.Unmarshal(m["permissions"], &perms)

	return Payload{
		"manifestValid": true,
		"name":          name,
		"version":       version,
		"permissions":   len(perms),
	}, nil
}
