package api

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/yndnr/hwdesk-go/internal/cli/connection"
)

// Health is the response of GET /health.
type Health struct {
	Status    string `json:"status"`
	Database  string `json:"database,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Healthy reports whether the server says it is healthy.
func (h *Health) Healthy() bool {
	return h != nil && h.Status == "healthy"
}

// Health fetches the server health.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.get(ctx, "/health", nil, nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// Status fetches the free-form server status document.
func (c *Client) Status(ctx context.Context) (map[string]any, error) {
	out := map[string]any{}
	if err := c.get(ctx, "/status", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Constants fetches the application constants (limits, languages, ...).
func (c *Client) Constants(ctx context.Context) (map[string]any, error) {
	out := map[string]any{}
	if err := c.get(ctx, "/app/constants", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListSessions returns the live sessions of the current account.
// Servers answer either with a bare list or with {"sessions": [...]}.
func (c *Client) ListSessions(ctx context.Context) ([]connection.ActiveSessionSummary, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/auth/sessions", nil, nil, &raw); err != nil {
		return nil, err
	}

	var list []connection.ActiveSessionSummary
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var wrapped struct {
		Sessions       []connection.ActiveSessionSummary `json:"sessions"`
		ActiveSessions []connection.ActiveSessionSummary `json:"active_sessions"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, err
	}
	if wrapped.Sessions != nil {
		return wrapped.Sessions, nil
	}
	if wrapped.ActiveSessions != nil {
		return wrapped.ActiveSessions, nil
	}
	return nil, errors.New("api: unexpected sessions response")
}

// RevokeSession ends one session of the current account.
func (c *Client) RevokeSession(ctx context.Context, key connection.SessionKey) error {
	return c.delete(ctx, "/auth/sessions/{session_id}", map[string]string{"session_id": key.String()})
}
