package main

import (
	"go.uber.org/zap"

	"github.com/calebmun/extcheck/internal/config"
	"github.com/calebmun/extcheck/internal/host"
	"github.com/calebmun/extcheck/internal/probe"
	"github.com/calebmun/extcheck/internal/runner"
)

// buildCapabilities assembles the host handle the suite runs against.
// The returned cleanup closes the sqlite store when one is in use.
func buildCapabilities(cfg config.Config) (host.Capabilities, func(), error) {
	cleanup := func() {}

	var storage host.Storage
	if cfg.StoragePath != "" {
		s, err := host.NewSQLiteStorage(cfg.StoragePath)
		if err != nil {
			return host.Capabilities{}, cleanup, err
		}
		storage = s
		cleanup = func() { _ = s.Close() }
	} else {
		storage = host.NewMemStorage()
	}

	caps := host.Capabilities{
		Storage:  storage,
		Tabs:     host.NewDevTools(cfg.DevToolsURL, cfg.ProbeTimeout),
		Menus:    host.NewMemMenus(),
		Manifest: host.NewFileManifest(cfg.ExtensionDir),
	}
	if err := caps.Validate(); err != nil {
		cleanup()
		return host.Capabilities{}, func() {}, err
	}
	return caps, cleanup, nil
}

// buildSuite registers the six probes in their fixed order.
func buildSuite(cfg config.Config, caps host.Capabilities, logger *zap.Logger) (*runner.Runner, error) {
	r := runner.New(logger, runner.WithTimeout(cfg.ProbeTimeout))
	probes := []probe.Probe{
		probe.NewInference(cfg.InferenceURL, cfg.ProbeTimeout),
		probe.NewSearch(cfg.SearchURL, cfg.ProbeTimeout),
		&probe.Storage{Store: caps.Storage},
		&probe.Messaging{Tabs: caps.Tabs},
		&probe.ContextMenu{Menus: caps.Menus},
		&probe.Manifest{Source: caps.Manifest},
	}
	for _, p := range probes {
		if err := r.Register(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}
