package auth

import (
	"context"
	"net/http"
	"time"
)

// DefaultMonitorInterval is how often Monitor checks the server.
const DefaultMonitorInterval = 5 * time.Minute

const healthyStatus = "healthy"

// Monitor periodically checks server health while a session is active
// and logs out locally when the server reports unhealthy or cannot be
// reached.
type Monitor struct {
	manager  *Manager
	interval time.Duration
}

// NewMonitor creates a monitor for m. A non-positive interval uses
// DefaultMonitorInterval.
func NewMonitor(m *Manager, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = DefaultMonitorInterval
	}
	return &Monitor{manager: m, interval: interval}
}

// Run checks every interval until ctx is done.
func (mon *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(mon.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			mon.Check(ctx)
		}
	}
}

// Check performs one health check. It returns false if the session was
// ended because of it.
func (mon *Monitor) Check(ctx context.Context) bool {
	m := mon.manager
	if m.State() != StateAuthenticated {
		return true
	}

	resp, err := m.transport.Request(ctx, http.MethodGet, "/health", nil, nil)
	if ctx.Err() != nil {
		return true
	}

	status := ""
	if err == nil {
		var health struct {
			Status string `json:"status"`
		}
		if resp.Decode(&health) == nil {
			status = health.Status
		}
	}
	if err == nil && status == healthyStatus {
		return true
	}

	m.logger.Warn("server health check failed, ending session", "status", status, "error", err)
	if lerr := m.Logout(ctx); lerr != nil {
		m.logger.Warn("logout after failed health check", "error", lerr)
	}
	return false
}
