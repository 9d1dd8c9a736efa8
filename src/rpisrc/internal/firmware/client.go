// Package firmware resolves a Raspberry Pi firmware build identifier to
// its kernel source commit and the set of per-architecture kernel
// releases shipped with that build.
package firmware

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bitswalk/rpisrc/src/common/errors"
)

const (
	// DefaultBaseURL is the raw-content root of the firmware repository
	DefaultBaseURL = "https://raw.githubusercontent.com/raspberrypi/rpi-firmware"

	// DefaultArchiveBaseURL is the root for kernel source archives
	DefaultArchiveBaseURL = "https://github.com/raspberrypi/linux/archive"

	// maxTextSize bounds small metadata fetches (hashes, uname strings)
	maxTextSize = 1 << 20
)

// Client fetches firmware build metadata over HTTP.
type Client struct {
	BaseURL        string
	ArchiveBaseURL string
	HTTPClient     *http.Client
}

// New creates a new firmware metadata client.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:        strings.TrimSuffix(baseURL, "/"),
		ArchiveBaseURL: DefaultArchiveBaseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchText fetches a small upstream text resource and returns its
// trimmed contents. A 404 maps to errors.ErrResourceNotFound so callers
// can distinguish "this variant does not exist" from a real failure.
func (c *Client) FetchText(ctx context.Context, path string) (string, error) {
	url := c.BaseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "rpisrc/1.0")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", errors.ErrResourceNotFound.WithMessagef("upstream resource %s not found", url)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("unexpected status code %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTextSize))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	return strings.TrimSpace(string(body)), nil
}
