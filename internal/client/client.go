// Package client is the HTTP boundary to the reviewd backend. It performs no
// caching and no local state mutation; the backend stays the single source of
// truth, so a caller resynchronizes by fetching again after each action.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"reviewdeck/internal/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultBaseAddr is used when no backend address is configured.
const DefaultBaseAddr = "http://localhost:8080"

// Config carries the client's only tunable: where the backend lives.
type Config struct {
	BaseAddr string `env:"BACKEND_ADDR" envDefault:"http://localhost:8080"`
}

// Client talks to the review backend over HTTP.
type Client struct {
	base string
	http *http.Client
}

// New returns a client against the given base address. An empty address
// falls back to DefaultBaseAddr.
func New(baseAddr string) *Client {
	if baseAddr == "" {
		baseAddr = DefaultBaseAddr
	}
	return &Client{
		base: strings.TrimRight(baseAddr, "/"),
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

// List fetches the full current snapshot of review items, in the order the
// backend returns them.
func (c *Client) List(ctx context.Context) ([]model.Review, error) {
	const op = "list reviews"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/reviews", nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: op, Cause: err}
	}
	defer resp.Body.Close()

	if !success(resp.StatusCode) {
		return nil, &BackendError{Op: op, StatusCode: resp.StatusCode, Body: readBody(resp.Body)}
	}

	var reviews []model.Review
	if err := json.NewDecoder(resp.Body).Decode(&reviews); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", op, err)
	}
	return reviews, nil
}

// Approve asks the backend to approve the review with the given id. The
// side effect (posting the feedback upstream) happens entirely backend-side.
func (c *Client) Approve(ctx context.Context, id int64) error {
	return c.mutate(ctx, "approve review", id, "approve")
}

// Reject asks the backend to reject the review with the given id.
func (c *Client) Reject(ctx context.Context, id int64) error {
	return c.mutate(ctx, "reject review", id, "reject")
}

func (c *Client) mutate(ctx context.Context, op string, id int64, action string) error {
	url := fmt.Sprintf("%s/reviews/%d/%s", c.base, id, action)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Cause: err}
	}
	defer resp.Body.Close()

	switch {
	case success(resp.StatusCode):
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %d: %w", op, id, ErrNotFound)
	default:
		return &BackendError{Op: op, StatusCode: resp.StatusCode, Body: readBody(resp.Body)}
	}
}

func success(code int) bool { return code >= 200 && code < 300 }

// readBody grabs a bounded chunk of the response body for error messages.
func readBody(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, 512))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}
