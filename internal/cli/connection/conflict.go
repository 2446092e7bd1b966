package connection

import (
	"bytes"
	"encoding/json"
	"slices"
	"strconv"

	"github.com/yndnr/hwdesk-go/internal/core/domain"
)

// SessionKey identifies a server-side session. Servers have sent both
// numeric ids and string keys, so it decodes either and is always
// handled as an opaque string.
type SessionKey string

// UnmarshalJSON accepts a JSON string or number.
func (k *SessionKey) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*k = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*k = SessionKey(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*k = SessionKey(n.String())
	return nil
}

// String returns the key.
func (k SessionKey) String() string {
	return string(k)
}

// ActiveSessionSummary describes one live session of an account.
type ActiveSessionSummary struct {
	SessionID    SessionKey       `json:"session_id"`
	DeviceName   string           `json:"device_name"`
	IPAddress    string           `json:"ip_address,omitempty"`
	Location     string           `json:"location,omitempty"`
	LastActivity domain.Timestamp `json:"last_activity"`
	ExpiresAt    domain.Timestamp `json:"expires_at"`
	IsCurrent    bool             `json:"is_current,omitempty"`
}

// UnmarshalJSON also accepts "id" and "device_fingerprint" as the key.
func (s *ActiveSessionSummary) UnmarshalJSON(data []byte) error {
	type plain ActiveSessionSummary
	var aux struct {
		plain
		ID          SessionKey `json:"id"`
		Fingerprint SessionKey `json:"device_fingerprint"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*s = ActiveSessionSummary(aux.plain)
	if s.SessionID == "" {
		s.SessionID = aux.ID
	}
	if s.SessionID == "" {
		s.SessionID = aux.Fingerprint
	}
	return nil
}

// ConflictInfo is the payload of a 409 "too many sessions" rejection.
type ConflictInfo struct {
	Message        string                 `json:"message"`
	Username       string                 `json:"username,omitempty"`
	HelpText       string                 `json:"help_text,omitempty"`
	CurrentDevices int                    `json:"current_devices"`
	MaxDevices     int                    `json:"max_devices"`
	ActiveSessions []ActiveSessionSummary `json:"active_sessions"`

	// Raw holds the response body when it did not have the expected shape.
	Raw json.RawMessage `json:"-"`
}

// Clone returns a deep copy of c.
func (c *ConflictInfo) Clone() *ConflictInfo {
	if c == nil {
		return nil
	}
	out := *c
	out.ActiveSessions = slices.Clone(c.ActiveSessions)
	out.Raw = slices.Clone(c.Raw)
	return &out
}

// Session returns the active session with the given key.
func (c *ConflictInfo) Session(key SessionKey) (ActiveSessionSummary, bool) {
	if c == nil {
		return ActiveSessionSummary{}, false
	}
	for _, s := range c.ActiveSessions {
		if s.SessionID == key {
			return s, true
		}
	}
	return ActiveSessionSummary{}, false
}

// Summary returns "current/max" device usage, e.g. "3/3".
func (c *ConflictInfo) Summary() string {
	if c == nil {
		return ""
	}
	return strconv.Itoa(c.CurrentDevices) + "/" + strconv.Itoa(c.MaxDevices)
}

// parseConflict decodes a 409 body. It prefers the "detail" object,
// then the body itself, then keeps the raw body with its text as message.
func parseConflict(body []byte) *ConflictInfo {
	info := &ConflictInfo{}

	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Detail) > 0 {
		if envelope.Detail[0] == '{' && json.Unmarshal(envelope.Detail, info) == nil && info.hasShape() {
			return info
		}
		var msg string
		if json.Unmarshal(envelope.Detail, &msg) == nil {
			info = &ConflictInfo{Message: msg}
		}
	}

	if info.Message == "" {
		var direct ConflictInfo
		if err := json.Unmarshal(body, &direct); err == nil && direct.hasShape() {
			return &direct
		}
	}

	info.Raw = append(json.RawMessage(nil), body...)
	if info.Message == "" {
		info.Message = string(bytes.TrimSpace(body))
	}
	return info
}

func (c *ConflictInfo) hasShape() bool {
	return c.ActiveSessions != nil || c.MaxDevices > 0 || c.CurrentDevices > 0
}
