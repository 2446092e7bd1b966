package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yndnr/hwdesk-go/internal/cli/auth"
	"github.com/yndnr/hwdesk-go/internal/cli/connection"
)

// Humanize turns an error into the message shown to the user.
func Humanize(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, auth.ErrNotAuthenticated):
		return "Not logged in. Run 'hwdesk-cli login' first."
	case errors.Is(err, auth.ErrAlreadyAuthenticated):
		return "Already logged in. Run 'hwdesk-cli logout' first."
	}

	apiErr, ok := connection.AsAPIError(err)
	if !ok {
		return err.Error()
	}

	switch apiErr.Kind {
	case connection.KindAuthRequired:
		return "Session expired. Please login again."
	case connection.KindForbidden:
		return "You do not have permission to perform this action."
	case connection.KindNotFound:
		return "The requested resource was not found."
	case connection.KindServerError:
		return "Server error. Please try again later."
	case connection.KindValidationFailed:
		return validationMessage(apiErr)
	case connection.KindSessionConflict:
		return conflictMessage(apiErr.Conflict)
	case connection.KindTransport:
		if apiErr.Reason == connection.ReasonTimeout {
			return "The server did not respond in time. Please try again."
		}
		return "Cannot reach the server. Check the address and your network connection."
	default:
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fmt.Sprintf("Request failed with status %d.", apiErr.Status)
	}
}

func validationMessage(e *connection.APIError) string {
	if len(e.Fields) == 0 {
		if e.Message != "" {
			return "Invalid input: " + e.Message
		}
		return "Invalid input."
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Field == "" {
			parts = append(parts, f.Message)
			continue
		}
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "Invalid input: " + strings.Join(parts, "; ")
}

func conflictMessage(info *connection.ConflictInfo) string {
	if info == nil {
		return "Too many active sessions for this account."
	}
	msg := info.Message
	if msg == "" {
		msg = "Too many active sessions for this account"
	}
	msg = strings.TrimSuffix(msg, ".")
	if info.MaxDevices > 0 {
		msg += fmt.Sprintf(" (%s devices)", info.Summary())
	}
	return msg + ". Run 'hwdesk-cli login --evict SESSION_ID' to end one of them."
}
