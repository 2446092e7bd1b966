package connection

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"
)

// ErrEmptyResponse is returned by Response.Decode when there is no JSON payload.
var ErrEmptyResponse = errors.New("connection: empty response")

// Response is a successful (2xx) API response.
type Response struct {
	Status int
	Header http.Header

	// Body holds the JSON payload, if the server sent one.
	Body json.RawMessage

	// Text holds a non-JSON payload.
	Text string
}

// Empty reports whether the response carried no payload (e.g. 204).
func (r *Response) Empty() bool {
	return r == nil || (len(r.Body) == 0 && r.Text == "")
}

// Decode unmarshals the JSON payload into v.
func (r *Response) Decode(v any) error {
	if r == nil || len(r.Body) == 0 {
		return ErrEmptyResponse
	}
	return json.Unmarshal(r.Body, v)
}

// Message returns a human-readable message from the payload, if any.
func (r *Response) Message() string {
	if r == nil {
		return ""
	}
	if len(r.Body) > 0 {
		return messageFromJSON(r.Body)
	}
	return r.Text
}

// classify turns a completed exchange into a Response or an *APIError.
func classify(status int, header http.Header, body []byte) (*Response, error) {
	if status == http.StatusNoContent {
		return &Response{Status: status, Header: header}, nil
	}

	if status >= 200 && status < 300 {
		resp := &Response{Status: status, Header: header}
		trimmed := bytes.TrimSpace(body)
		switch {
		case len(trimmed) == 0:
		case isJSON(header) && json.Valid(trimmed):
			resp.Body = json.RawMessage(trimmed)
		default:
			resp.Text = string(trimmed)
		}
		return resp, nil
	}

	apiErr := &APIError{
		Kind:   kindForStatus(status),
		Status: status,
	}

	switch apiErr.Kind {
	case KindSessionConflict:
		apiErr.Conflict = parseConflict(body)
		apiErr.Message = apiErr.Conflict.Message
	case KindValidationFailed:
		apiErr.Fields, apiErr.Message = parseValidation(body)
	default:
		apiErr.Message = errorMessage(body)
	}

	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return nil, apiErr
}

func isJSON(header http.Header) bool {
	ct := header.Get("Content-Type")
	if ct == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

// errorMessage extracts "detail" or "message" from an error body, falling
// back to the raw text.
func errorMessage(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}
	if json.Valid(trimmed) {
		if msg := messageFromJSON(trimmed); msg != "" {
			return msg
		}
	}
	if trimmed[0] == '<' {
		// HTML error page from a proxy.
		return ""
	}
	return string(trimmed)
}

func messageFromJSON(data []byte) string {
	var m struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return ""
	}

	if len(m.Detail) > 0 {
		var s string
		if json.Unmarshal(m.Detail, &s) == nil && s != "" {
			return s
		}
		var obj struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(m.Detail, &obj) == nil && obj.Message != "" {
			return obj.Message
		}
	}
	if m.Message != "" {
		return m.Message
	}
	return m.Error
}

// parseValidation reads a 422 body of the form
// {"detail": [{"loc": ["body", "title"], "msg": "field required"}]}.
func parseValidation(body []byte) ([]FieldError, string) {
	var v struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &v); err != nil || len(v.Detail) == 0 {
		return nil, errorMessage(body)
	}

	var items []struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(v.Detail, &items); err != nil {
		return nil, errorMessage(body)
	}

	fields := make([]FieldError, 0, len(items))
	msgs := make([]string, 0, len(items))
	for _, item := range items {
		field := locField(item.Loc)
		fields = append(fields, FieldError{Field: field, Message: item.Msg})
		if field != "" {
			msgs = append(msgs, field+": "+item.Msg)
		} else {
			msgs = append(msgs, item.Msg)
		}
	}
	return fields, strings.Join(msgs, "; ")
}

// locField renders a FastAPI "loc" path without its leading "body"/"query".
func locField(loc []any) string {
	parts := make([]string, 0, len(loc))
	for i, p := range loc {
		s, ok := p.(string)
		if !ok {
			if f, isNum := p.(float64); isNum {
				parts = append(parts, strconv.FormatFloat(f, 'f', -1, 64))
			}
			continue
		}
		if i == 0 && (s == "body" || s == "query" || s == "path") {
			continue
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ".")
}
