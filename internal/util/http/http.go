// Package http fetches remote sources with a fixed timeout and User-Agent.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jmylchreest/spritetint/internal/security"
	"github.com/jmylchreest/spritetint/internal/version"
)

const (
	// UserAgentName is the application name used in the User-Agent header.
	UserAgentName = "spritetint"

	// DefaultTimeout is the per-request timeout.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxBodySize bounds a downloaded body.
	DefaultMaxBodySize = 16 * 1024 * 1024

	// acceptImages is sent unless the caller overrides Accept.
	acceptImages = "image/svg+xml,image/*;q=0.9,*/*;q=0.5"
)

// ErrStatus is wrapped by Fetch for non-200 responses.
var ErrStatus = errors.New("unexpected HTTP status")

// FetchOptions configures a fetch.
type FetchOptions struct {
	// Timeout specifies the request timeout. If zero, DefaultTimeout is used.
	Timeout time.Duration

	// MaxBodySize bounds the response body. If zero, DefaultMaxBodySize is used.
	MaxBodySize int64

	// Headers specifies additional HTTP headers to send with the request.
	Headers map[string]string
}

// UserAgent returns the User-Agent sent with every request.
func UserAgent() string {
	return UserAgentName + "/" + version.Version + " (sprite builder)"
}

// Fetch retrieves the body of url. Redirects are followed; any final status
// other than 200 is an error wrapping ErrStatus.
func Fetch(ctx context.Context, url string, opts FetchOptions) ([]byte, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxBody := opts.MaxBodySize
	if maxBody <= 0 {
		maxBody = DefaultMaxBodySize
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent())
	req.Header.Set("Accept", acceptImages)
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}

	data, err := io.ReadAll(security.NewLimitedReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return data, nil
}
