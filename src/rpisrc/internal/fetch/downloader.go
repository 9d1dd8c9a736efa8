// Package fetch downloads upstream artifacts (kernel archives, symbol
// version files, packaged configurations) to the local filesystem.
package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bitswalk/rpisrc/src/common/errors"
	"github.com/bitswalk/rpisrc/src/common/logs"
)

// Downloader streams HTTP resources to disk.
type Downloader struct {
	httpClient *http.Client
	log        *logs.Logger
}

// Result describes a completed download.
type Result struct {
	// JobID identifies the download in log output
	JobID string

	// Path is the final location of the downloaded file
	Path string

	// Checksum is the hex-encoded SHA-256 of the file contents
	Checksum string

	// Size is the file size in bytes
	Size int64

	// Cached is true when an existing file was reused instead of
	// re-downloading
	Cached bool

	// Duration is the wall-clock time spent downloading
	Duration time.Duration
}

// NewDownloader creates a downloader. A nil httpClient gets a client
// without timeout, since kernel archives can take long to transfer.
func NewDownloader(httpClient *http.Client, log *logs.Logger) *Downloader {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 0}
	}
	return &Downloader{
		httpClient: httpClient,
		log:        log,
	}
}

// FetchFile downloads url to destPath. The file is written to a temp
// name in the destination directory and renamed into place on success,
// so a partial download never shows up under the final name.
//
// When destPath already exists and its size matches the remote
// Content-Length, the existing file is reused.
func (d *Downloader) FetchFile(ctx context.Context, url, destPath string) (*Result, error) {
	jobID := uuid.NewString()

	if res, ok := d.reuseExisting(ctx, jobID, url, destPath); ok {
		return res, nil
	}

	start := time.Now()
	d.log.Info("Downloading", "job_id", jobID, "url", url, "dest", destPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "rpisrc/1.0")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, errors.ErrDownloadFailed.WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.ErrDownloadFailed.WithMessagef("unexpected status code %d for %s", resp.StatusCode, url)
	}

	totalBytes := resp.ContentLength

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create destination directory: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(destPath), ".rpisrc-download-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()
	defer os.Remove(tempPath)
	defer tempFile.Close()

	hash := sha256.New()
	writer := io.MultiWriter(tempFile, hash)

	var bytesReceived int64
	buf := make([]byte, 32*1024)

	// Throttle progress logging; archives run into hundreds of MB
	lastProgress := time.Now()
	progressInterval := 2 * time.Second

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := writer.Write(buf[:n]); writeErr != nil {
				return nil, fmt.Errorf("failed to write to temp file: %w", writeErr)
			}
			bytesReceived += int64(n)

			if now := time.Now(); now.Sub(lastProgress) >= progressInterval {
				d.log.Debug("Download progress",
					"job_id", jobID, "received", bytesReceived, "total", totalBytes)
				lastProgress = now
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, errors.ErrDownloadFailed.WithCause(readErr)
		}
	}

	if err := tempFile.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tempPath, destPath); err != nil {
		return nil, fmt.Errorf("failed to move download into place: %w", err)
	}

	result := &Result{
		JobID:    jobID,
		Path:     destPath,
		Checksum: hex.EncodeToString(hash.Sum(nil)),
		Size:     bytesReceived,
		Duration: time.Since(start),
	}

	d.log.Info("Download completed",
		"job_id", jobID, "size", result.Size, "sha256", result.Checksum,
		"duration", result.Duration.Round(time.Millisecond))

	return result, nil
}

// FetchFileCached behaves like FetchFile but additionally records the
// completed size in a sidecar file next to the download, so later runs
// can reuse it without the remote advertising a Content-Length. GitHub
// archive endpoints stream chunked responses without one, which would
// otherwise defeat reuse for the largest download of the run.
func (d *Downloader) FetchFileCached(ctx context.Context, url, destPath string) (*Result, error) {
	if res, ok := d.reuseRecorded(destPath); ok {
		return res, nil
	}

	res, err := d.FetchFile(ctx, url, destPath)
	if err != nil {
		return nil, err
	}

	sizeData := []byte(strconv.FormatInt(res.Size, 10) + "\n")
	if err := os.WriteFile(sidecarPath(destPath), sizeData, 0644); err != nil {
		d.log.Warn("Failed to record download size", "dest", destPath, "error", err)
	}
	return res, nil
}

// reuseRecorded reuses destPath when its size matches the sidecar
// recorded by a previous completed download.
func (d *Downloader) reuseRecorded(destPath string) (*Result, bool) {
	data, err := os.ReadFile(sidecarPath(destPath))
	if err != nil {
		return nil, false
	}
	expected, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil || expected <= 0 {
		return nil, false
	}

	stat, err := os.Stat(destPath)
	if err != nil || !stat.Mode().IsRegular() || stat.Size() != expected {
		return nil, false
	}

	checksum, err := checksumFile(destPath)
	if err != nil {
		return nil, false
	}

	jobID := uuid.NewString()
	d.log.Info("Reusing cached download",
		"job_id", jobID, "dest", destPath, "size", stat.Size(), "sha256", checksum)

	return &Result{
		JobID:    jobID,
		Path:     destPath,
		Checksum: checksum,
		Size:     stat.Size(),
		Cached:   true,
	}, true
}

func sidecarPath(destPath string) string {
	return destPath + ".size"
}

// reuseExisting checks whether destPath already holds a complete copy of
// the remote resource, comparing its size against the remote
// Content-Length. Any failure along the way falls back to a fresh
// download.
func (d *Downloader) reuseExisting(ctx context.Context, jobID, url, destPath string) (*Result, bool) {
	stat, err := os.Stat(destPath)
	if err != nil || !stat.Mode().IsRegular() {
		return nil, false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return nil, false
	}
	req.Header.Set("User-Agent", "rpisrc/1.0")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, false
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK || resp.ContentLength <= 0 || resp.ContentLength != stat.Size() {
		return nil, false
	}

	checksum, err := checksumFile(destPath)
	if err != nil {
		return nil, false
	}

	d.log.Info("Reusing cached download",
		"job_id", jobID, "dest", destPath, "size", stat.Size(), "sha256", checksum)

	return &Result{
		JobID:    jobID,
		Path:     destPath,
		Checksum: checksum,
		Size:     stat.Size(),
		Cached:   true,
	}, true
}

func checksumFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
