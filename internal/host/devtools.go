package host

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// DevTools is a Messaging adapter that talks to a browser's remote
// debugging endpoint. Tabs come from /json/list; messages are mapped
// to one-shot Runtime.evaluate calls over the tab's debugger socket.
type DevTools struct {
	BaseURL string
	Client  *http.Client
	Dialer  *websocket.Dialer
}

func NewDevTools(baseURL string, timeout time.Duration) *DevTools {
	return &DevTools{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
		Dialer:  websocket.DefaultDialer,
	}
}

type devtoolsTarget struct {
	ID                   string `json:"id"`
	Type                 string `json:"type"`
	Title                string `json:"title"`
	URL                  string `json:"url"`
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
}

func (d *DevTools) ActiveTab(ctx context.Context) (*Tab, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.BaseURL+"/json/list", nil)
	if err != nil {
		return nil, err
	}
	resp, err := d.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("devtools returned %s", resp.Status)
	}

	var targets []devtoolsTarget
	if err := json.NewDecoder(resp.Body).Decode(&targets); err != nil {
		return nil, fmt.Errorf("decode target list: %w", err)
	}
	// The list is ordered most-recently-focused first; the first page
	// target is the active tab.
	for _, t := range targets {
		if t.Type != "page" || t.WebSocketDebuggerURL == "" {
			continue
		}
		return &Tab{ID: t.ID, Title: t.Title, URL: t.URL, WebSocketURL: t.WebSocketDebuggerURL}, nil
	}
	return nil, nil
}

// expressions maps message types to the script evaluated in the tab.
var expressions = map[string]string{
	"getPageInfo": `({ title: document.title, url: location.href, readyState: document.readyState })`,
}

func (d *DevTools) Send(ctx context.Context, tab *Tab, request map[string]any) (map[string]any, error) {
	msgType, _ := request["type"].(string)
	expr, ok := expressions[msgType]
	if !ok {
		return nil, fmt.Errorf("unsupported message type %q", msgType)
	}

	conn, _, err := d.Dialer.DialContext(ctx, tab.WebSocketURL, nil)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	if dl, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(dl)
		_ = conn.SetWriteDeadline(dl)
	}

	call := map[string]any{
		"id":     1,
		"method": "Runtime.evaluate",
		"params": map[string]any{"expression": expr, "returnByValue": true},
	}
	if err := conn.WriteJSON(call); err != nil {
		return nil, err
	}

	// The socket also carries unsolicited events; skip until our id
	// comes back.
	for {
		var reply struct {
			ID     int `json:"id"`
			Result struct {
				Result struct {
					Value map[string]any `json:"value"`
				} `json:"result"`
			} `json:"result"`
			Error *struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := conn.ReadJSON(&reply); err != nil {
			return nil, err
		}
		if reply.ID != 1 {
			continue
		}
		if reply.Error != nil {
			return nil, fmt.Errorf("devtools: %s", reply.Error.Message)
		}
		return reply.Result.Result.Value, nil
	}
}
