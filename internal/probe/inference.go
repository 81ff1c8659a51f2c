package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Inference checks that the local inference server is reachable by
// listing its installed models.
type Inference struct {
	Endpoint string
	Client   *http.Client
}

func NewInference(endpoint string, timeout time.Duration) *Inference {
	return &Inference{
		Endpoint: strings.TrimRight(endpoint, "/"),
		Client:   &http.Client{Timeout: timeout},
	}
}

func (p *Inference) Name() string { return "inference" }

func (p *Inference) Run(ctx context.Context) (Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.Endpoint+"/api/tags", nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("inference server returned %s", resp.Status)
	}

	var body struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode model list: %w", err)
	}

	return Payload{
		"connected": true,
		"models":    len(body.Models),
		"endpoint":  p.Endpoint,
	}, nil
}
