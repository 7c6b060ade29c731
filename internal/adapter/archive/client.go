// Package archive retrieves binary payloads from the remote reanalysis
// archive, one blocking GET per source.
package archive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"
)

// FetchError reports a failed retrieval for one source. StatusCode is zero
// for transport-level failures.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client downloads archive payloads to local scratch files.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an archive client. A zero timeout leaves the transport
// defaults in place, so a hung source blocks until the server gives up.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Fetch performs exactly one GET of rawURL and streams the body to destPath.
// Any non-2xx status or transport error fails the fetch; a partially written
// destination file is removed before returning.
func (c *Client) Fetch(ctx context.Context, rawURL, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &FetchError{URL: rawURL, Err: fmt.Errorf("create request: %w", err)}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &FetchError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	f, err := os.Create(destPath)
	if err != nil {
		return &FetchError{URL: rawURL, Err: fmt.Errorf("create artifact: %w", err)}
	}

	n, err := io.Copy(f, resp.Body)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(destPath)
		return &FetchError{URL: rawURL, Err: fmt.Errorf("write artifact: %w", err)}
	}

	c.logger.Debug("fetched source", "url", rawURL, "bytes", n, "artifact", destPath)
	return nil
}
