package binary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 5 * time.Minute
	// DefaultRetries is the default number of download retries
	DefaultRetries = 0
	// DefaultUserAgent is the User-Agent header sent with requests
	DefaultUserAgent = "openfang-install/1.0"
	// maxRedirects bounds GitHub's release-asset redirect chain
	maxRedirects = 10
)

// DownloaderOptions configures a Downloader. Zero values select the defaults.
type DownloaderOptions struct {
	// Timeout bounds each request. Negative disables the limit.
	Timeout   time.Duration
	Retries   int
	UserAgent string
	// Client replaces the HTTP client entirely; Timeout is then ignored.
	Client *http.Client
}

// Downloader handles HTTP downloads with retry logic
type Downloader struct {
	client    *http.Client
	userAgent string
	retries   int
	// backoff returns the delay before the given retry attempt (1-based).
	backoff func(attempt int) time.Duration
}

// NewDownloader creates a new downloader
func NewDownloader(opts DownloaderOptions) *Downloader {
	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		switch {
		case timeout == 0:
			timeout = DefaultTimeout
		case timeout < 0:
			timeout = 0
		}
		client = &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		}
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}

	retries := opts.Retries
	if retries < 0 {
		retries = DefaultRetries
	}

	return &Downloader{
		client:    client,
		userAgent: ua,
		retries:   retries,
		backoff: func(attempt int) time.Duration {
			// 1s, 2s, 4s, ...
			return time.Duration(1<<uint(attempt-1)) * time.Second
		},
	}
}

// StatusError is a non-200 HTTP response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.Code)
}

// DownloadToFile downloads a URL to a specific file path
func (d *Downloader) DownloadToFile(ctx context.Context, url, destPath string) error {
	var lastErr error

	for attempt := 0; attempt <= d.retries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if attempt > 0 {
			select {
			case <-time.After(d.backoff(attempt)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := d.downloadOnce(ctx, url, destPath)
		if err == nil {
			return nil
		}

		lastErr = err

		if ctx.Err() != nil {
			return ctx.Err()
		}

		// A 404 will not change on retry.
		var se *StatusError
		if errors.As(err, &se) && se.Code == http.StatusNotFound {
			break
		}
	}

	if d.retries == 0 {
		return lastErr
	}
	return fmt.Errorf("download failed after %d retries: %w", d.retries, lastErr)
}

// downloadOnce performs a single download attempt
func (d *Downloader) downloadOnce(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode}
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}

	tmpPath := destPath + ".tmp"
	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	cleanupNeeded := true
	defer func() {
		tmpFile.Close()
		if cleanupNeeded {
			os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		return fmt.Errorf("copy response body: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	cleanupNeeded = false
	return nil
}

// FetchArtifact downloads the release archive. Any failure is a *DownloadError.
func (d *Downloader) FetchArtifact(ctx context.Context, url, destPath string) (string, error) {
	if err := d.DownloadToFile(ctx, url, destPath); err != nil {
		return "", &DownloadError{URL: url, Err: err}
	}
	return destPath, nil
}

// FetchChecksum downloads the checksum file. Failure is soft: the caller warns
// and continues without checksum verification.
func (d *Downloader) FetchChecksum(ctx context.Context, url, destPath string) (string, error) {
	if url == "" {
		return "", fmt.Errorf("no checksum URL available")
	}
	if err := d.DownloadToFile(ctx, url, destPath); err != nil {
		return "", fmt.Errorf("download checksum: %w", err)
	}
	return destPath, nil
}

// FetchSignature downloads the detached signature. Whether its absence is
// fatal is decided by the Verifier.
func (d *Downloader) FetchSignature(ctx context.Context, url, destPath string) (string, error) {
	if url == "" {
		return "", fmt.Errorf("no signature URL available")
	}
	if err := d.DownloadToFile(ctx, url, destPath); err != nil {
		return "", fmt.Errorf("download signature: %w", err)
	}
	return destPath, nil
}
