package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/yndnr/hwdesk-go/internal/cli/connection"
)

// Requester performs API requests. *connection.Client implements it.
type Requester interface {
	Request(ctx context.Context, method, path string, body any, pathParams map[string]string) (*connection.Response, error)
}

// Client exposes the homework API by resource.
type Client struct {
	r Requester
}

// New creates a Client on top of r.
func New(r Requester) *Client {
	return &Client{r: r}
}

// call performs a request and decodes the JSON payload into out when
// out is non-nil. An empty payload leaves out untouched.
func (c *Client) call(ctx context.Context, method, path string, params map[string]string, query url.Values, body, out any) error {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	resp, err := c.r.Request(ctx, method, path, body, params)
	if err != nil {
		return err
	}
	if out == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := resp.Decode(out); err != nil {
		return fmt.Errorf("api: decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, params map[string]string, query url.Values, out any) error {
	return c.call(ctx, http.MethodGet, path, params, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, params map[string]string, body, out any) error {
	return c.call(ctx, http.MethodPost, path, params, nil, body, out)
}

func (c *Client) put(ctx context.Context, path string, params map[string]string, body, out any) error {
	return c.call(ctx, http.MethodPut, path, params, nil, body, out)
}

func (c *Client) delete(ctx context.Context, path string, params map[string]string) error {
	return c.call(ctx, http.MethodDelete, path, params, nil, nil, nil)
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}
