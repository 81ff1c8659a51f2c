package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// searchTestQuery is the literal phrase sent on every search check.
const searchTestQuery = "golang programming language"

// Search checks that the external search endpoint answers instant
// answer queries.
type Search struct {
	Endpoint string
	Client   *http.Client
}

func NewSearch(endpoint string, timeout time.Duration) *Search {
	return &Search{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: timeout},
	}
}

func (p *Search) Name() string { return "search" }

func (p *Search) Run(ctx context.Context) (Payload, error) {
	u, err := url.Parse(p.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("bad search endpoint: %w", err)
	}
	q := u.Query()
	q.Set("q", searchTestQuery)
	q.Set("format", "json")
	q.Set("no_html", "1")
	q.Set("skip_disambig", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("search endpoint returned %s", resp.Status)
	}

	var body struct {
		Abstract      string            `json:"Abstract"`
		RelatedTopics []json.RawMessage `json:"RelatedTopics"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	return Payload{
		"searchWorking": true,
		"hasResults":    body.Abstract != "" || len(body.RelatedTopics) > 0,
	}, nil
}
