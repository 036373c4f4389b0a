package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/pdfcourier/api/internal/config"
)

// PDFRenderer defines the interface for URL-to-PDF conversion
type PDFRenderer interface {
	Convert(ctx context.Context, req *ConvertRequest) (string, error)
	IsConfigured() bool
}

// RenderClient implements PDFRenderer for the headless rendering service
type RenderClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	delayMs    int
	viewport   Viewport
}

// ConvertRequest represents one URL-to-PDF conversion request
type ConvertRequest struct {
	URL      string   `json:"url"`
	FileName string   `json:"fileName"`
	Delay    int      `json:"delay"`
	Viewport Viewport `json:"viewport"`
}

// Viewport is the page size the renderer lays the document out with
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// convertResponse represents the rendering service's reply
type convertResponse struct {
	Success bool   `json:"success"`
	FileURL string `json:"fileUrl"`
	Error   string `json:"error,omitempty"`
}

// NewRenderClient creates a new rendering service client
func NewRenderClient(cfg *config.RendererConfig) *RenderClient {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if cfg.Timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &RenderClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		delayMs: cfg.DelayMs,
		viewport: Viewport{
			Width:  cfg.ViewportWidth,
			Height: cfg.ViewportHeight,
		},
	}
}

// Convert renders one URL to a PDF and returns the artifact URL the
// renderer stored it at. Zero Delay or Viewport fields fall back to
// the configured defaults. Every failure mode comes back as a plain
// error; the caller decides what a failed item means.
func (c *RenderClient) Convert(ctx context.Context, req *ConvertRequest) (string, error) {
	if req.Delay == 0 {
		req.Delay = c.delayMs
	}
	if req.Viewport.Width == 0 || req.Viewport.Height == 0 {
		req.Viewport = c.viewport
	}

	var result convertResponse
	if err := c.post(ctx, "/api/render", req, &result); err != nil {
		return "", err
	}

	if !result.Success {
		if result.Error != "" {
			return "", fmt.Errorf("conversion rejected: %s", result.Error)
		}
		return "", fmt.Errorf("conversion rejected")
	}
	if result.FileURL == "" {
		return "", fmt.Errorf("renderer returned no file URL")
	}
	return result.FileURL, nil
}

// post sends a POST request with JSON body
func (c *RenderClient) post(ctx context.Context, endpoint string, body interface{}, result interface{}) error {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	return c.doRequest(req, result)
}

// doRequest executes an HTTP request and parses the response
func (c *RenderClient) doRequest(req *http.Request, result interface{}) error {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	log.Printf("[Renderer] → %s %s", req.Method, req.URL.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[Renderer] ✗ %s %s — request failed: %v", req.Method, req.URL.String(), err)
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("[Renderer] ✗ %s %s — failed to read response: %v", req.Method, req.URL.String(), err)
		return fmt.Errorf("failed to read response: %w", err)
	}

	log.Printf("[Renderer] ← %d %s %s", resp.StatusCode, req.Method, req.URL.String())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("renderer error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		log.Printf("[Renderer] ✗ unmarshal error for %s %s: %v (body: %s)", req.Method, req.URL.String(), err, string(respBody))
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

// IsConfigured returns true if the client has valid configuration
func (c *RenderClient) IsConfigured() bool {
	return c.baseURL != ""
}
