package client

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/pdfcourier/api/internal/config"
)

// ArtifactFetcher defines the interface for downloading rendered artifacts
type ArtifactFetcher interface {
	Fetch(ctx context.Context, artifactURL, localPath string) error
}

// Fetcher implements ArtifactFetcher over plain HTTP. The renderer
// hands out artifact URLs that may be moved once (a storage-layer
// 301/302); a second redirect or any other status is treated as a
// failure.
type Fetcher struct {
	httpClient *http.Client
}

// NewFetcher creates a new artifact fetcher. The configured timeout
// bounds the whole transfer, not just the dial.
func NewFetcher(cfg *config.FetchConfig) *Fetcher {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if cfg.Timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) > 1 {
					return fmt.Errorf("more than one redirect")
				}
				status := req.Response.StatusCode
				if status != http.StatusMovedPermanently && status != http.StatusFound {
					// Surface the 3xx itself so the status check fails it
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
	}
}

// Fetch streams an artifact to localPath. On any failure the partial
// file is removed before the error is returned, so a path either
// holds a complete artifact or nothing.
func (f *Fetcher) Fetch(ctx context.Context, artifactURL, localPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, artifactURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	log.Printf("[Fetcher] → GET %s", artifactURL)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		log.Printf("[Fetcher] ✗ GET %s — request failed: %v", artifactURL, err)
		return fmt.Errorf("failed to download artifact: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[Fetcher] ✗ GET %s — status %d", artifactURL, resp.StatusCode)
		return fmt.Errorf("artifact download failed (status %d)", resp.StatusCode)
	}

	out, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", localPath, err)
	}

	written, err := io.Copy(out, resp.Body)
	if err != nil {
		out.Close()
		os.Remove(localPath)
		log.Printf("[Fetcher] ✗ GET %s — transfer aborted after %d bytes: %v", artifactURL, written, err)
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(localPath)
		return fmt.Errorf("failed to finish %s: %w", localPath, err)
	}

	log.Printf("[Fetcher] ← 200 GET %s (%d bytes)", artifactURL, written)
	return nil
}
