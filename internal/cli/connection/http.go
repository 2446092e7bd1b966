package connection

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/oklog/ulid/v2"

	"github.com/yndnr/hwdesk-go/internal/telemetry/logger"
)

// maxBodySize bounds how much of a response body is read.
const maxBodySize = 8 << 20

// requestState is shared by the attempts of one logical request.
type requestState struct {
	ctx       context.Context
	log       logger.Logger
	method    string
	path      string
	target    string
	payload   []byte
	requestID string
	timeout   time.Duration
	attempts  int
}

// Request performs method on path and classifies the result.
//
// {name} placeholders in path are replaced with the percent-encoded
// pathParams[name]. A body is sent as JSON for POST, PUT and PATCH.
// Transport failures are retried with exponential backoff; every HTTP
// error status is returned as an *APIError on first occurrence. A 401
// clears the stored token before returning.
func (c *Client) Request(ctx context.Context, method, path string, body any, pathParams map[string]string) (*Response, error) {
	method = strings.ToUpper(method)

	expanded, err := ExpandPath(path, pathParams)
	if err != nil {
		return nil, err
	}

	var payload []byte
	if body != nil && sendsBody(method) {
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("connection: encode request body: %w", err)
		}
	}

	c.mu.RLock()
	target := joinURL(c.baseURL, expanded)
	timeout := c.timeout
	maxRetries := c.maxRetries
	c.mu.RUnlock()

	requestID := ulid.Make().String()
	ctx = logger.WithAttrs(ctx, "request_id", requestID)

	r := &requestState{
		ctx:       ctx,
		log:       c.logger.WithContext(ctx).With("request_id", requestID),
		method:    method,
		path:      pathTemplate(path),
		target:    target,
		payload:   payload,
		requestID: requestID,
		timeout:   timeout,
	}

	resp, err := retry.DoWithData(func() (*Response, error) {
		return c.attempt(r)
	}, c.retryOptions(r, maxRetries)...)

	if err != nil {
		// retry-go returns the bare context error when cancelled while waiting.
		if _, ok := AsAPIError(err); !ok && ctx.Err() != nil {
			err = transportError(ReasonNetwork, err)
		}

		outcome := "error"
		if apiErr, ok := AsAPIError(err); ok {
			outcome = string(apiErr.Kind)
		}
		c.metrics.ObserveRequest(method, r.path, outcome)
		r.log.Debug("request failed", "method", method, "path", r.path, "attempts", r.attempts, "error", err)

		if IsKind(err, KindAuthRequired) {
			c.handleAuthRequired(ctx)
		}
		return nil, err
	}

	c.metrics.ObserveRequest(method, r.path, "ok")
	r.log.Debug("request completed", "method", method, "path", r.path, "status", resp.Status, "attempts", r.attempts)
	return resp, nil
}

// attempt performs one HTTP exchange under its own timeout.
func (c *Client) attempt(r *requestState) (*Response, error) {
	r.attempts++

	if c.limiter != nil {
		if err := c.limiter.Wait(r.ctx); err != nil {
			return nil, transportError(ReasonNetwork, err)
		}
	}

	ctx, cancel := context.WithTimeout(r.ctx, r.timeout)
	defer cancel()

	var reader io.Reader
	if r.payload != nil {
		reader = bytes.NewReader(r.payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, r.target, reader)
	if err != nil {
		return nil, fmt.Errorf("connection: build request: %w", err)
	}
	c.setHeaders(req, r.requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveAttempt(r.method, 0, time.Since(start))
		return nil, c.classifyTransport(r.ctx, ctx, err)
	}
	defer resp.Body.Close()

	data, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	c.metrics.ObserveAttempt(r.method, resp.StatusCode, time.Since(start))

	if readErr != nil {
		// The status line arrived, so the status still decides the outcome.
		r.log.Debug("read response body failed", "status", resp.StatusCode, "error", readErr)
	}

	return classify(resp.StatusCode, resp.Header, data)
}

func (c *Client) classifyTransport(parent, attemptCtx context.Context, err error) error {
	if parent.Err() != nil {
		return transportError(ReasonNetwork, parent.Err())
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		return transportError(ReasonTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return transportError(ReasonTimeout, err)
	}
	return transportError(ReasonNetwork, err)
}

func (c *Client) setHeaders(req *http.Request, requestID string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Client-ID", c.ClientID(req.Context()))
	req.Header.Set("X-Request-ID", requestID)

	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func sendsBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	default:
		return false
	}
}
