package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr            string        // API bind address for serve mode, e.g., "127.0.0.1:8080"
	LogDir          string        // logs directory
	InferenceURL    string        // local inference server base URL
	SearchURL       string        // search endpoint base URL
	DevToolsURL     string        // browser DevTools base URL, used for tab messaging
	ExtensionDir    string        // directory containing the extension's manifest.json
	StoragePath     string        // sqlite file for the storage capability; empty means in-memory
	ProbeTimeout    time.Duration // per-probe deadline
	RecheckInterval time.Duration // periodic re-run interval in serve mode; 0 disables
	SlackWebhook    string        // failure notifications; empty disables
	PublicAPIKeys   []string
	AdminAPIKeys    []string
}

func FromEnv() Config {
	addr := os.Getenv("EXTCHECK_ADDR")
	if addr == "" {
		addr = "127.0.0.1:8080"
	}

	logDir := os.Getenv("EXTCHECK_LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	inference := os.Getenv("EXTCHECK_INFERENCE_URL")
	if inference == "" {
		inference = "http://localhost:11434"
	}

	search := os.Getenv("EXTCHECK_SEARCH_URL")
	if search == "" {
		search = "https://api.duckduckgo.com/"
	}

	devtools := os.Getenv("EXTCHECK_DEVTOOLS_URL")
	if devtools == "" {
		devtools = "http://127.0.0.1:9222"
	}

	extDir := os.Getenv("EXTCHECK_EXTENSION_DIR")
	if extDir == "" {
		extDir = "."
	}

	probeTimeout := 10 * time.Second
	if v := os.Getenv("EXTCHECK_PROBE_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			probeTimeout = time.Duration(ms) * time.Millisecond
		}
	}

	recheck := time.Duration(0)
	if v := os.Getenv("EXTCHECK_RECHECK_INTERVAL_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			recheck = time.Duration(ms) * time.Millisecond
		}
	}

	return Config{
		Addr:            addr,
		LogDir:          logDir,
		InferenceURL:    inference,
		SearchURL:       search,
		DevToolsURL:     devtools,
		ExtensionDir:    extDir,
		StoragePath:     os.Getenv("EXTCHECK_STORAGE_PATH"),
		ProbeTimeout:    probeTimeout,
		RecheckInterval: recheck,
		SlackWebhook:    os.Getenv("EXTCHECK_SLACK_WEBHOOK"),
		PublicAPIKeys:   splitKeys(os.Getenv("EXTCHECK_PUBLIC_API_KEYS")),
		AdminAPIKeys:    splitKeys(os.Getenv("EXTCHECK_ADMIN_API_KEYS")),
	}
}

func splitKeys(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
