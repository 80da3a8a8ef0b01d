// Package http wraps retryablehttp.Client for outbound requests.
package http

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	defaultRetryMax = 2
	defaultTimeout  = 10 * time.Second
)

type Doer interface {
	Do(*retryablehttp.Request) (*http.Response, error)
}

type Client struct {
	*retryablehttp.Client
}

var _ Doer = (*retryablehttp.Client)(nil)

// New returns an outbound HTTP client with a bounded retry policy and the
// retry chatter routed away from stdout.
func New() *Client {
	c := retryablehttp.NewClient()
	c.RetryMax = defaultRetryMax
	c.HTTPClient.Timeout = defaultTimeout
	c.Logger = nil
	return &Client{Client: c}
}

// ExpectStatus2xx drains and closes the body on a non-2xx response so the
// error carries the upstream payload.
func ExpectStatus2xx(resp *http.Response) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
