// Package extractor is the HTTP client for the resume text-extraction
// service, which turns uploaded PDF/DOCX files into plain text.
package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/candidex/internal/domain"
	"github.com/kailas-cloud/candidex/internal/metrics"
)

// Client talks to the text-extraction service.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// Config holds the extraction service settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewClient creates an extraction service client.
func NewClient(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// extractResponse mirrors the extraction service wire format.
type extractResponse struct {
	OK    bool   `json:"ok"`
	Text  string `json:"text"`
	Pages int    `json:"pages"`
	Error string `json:"error,omitempty"`
}

// ExtractText uploads one resume file and returns its plain text.
func (c *Client) ExtractText(ctx context.Context, filename string, file io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("build multipart form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("copy file into form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("finalize multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/extract", &buf)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ExtractionRequestsTotal.WithLabelValues("file", "error").Inc()
		return "", fmt.Errorf("call extraction service: %w: %w", domain.ErrExtractorError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		metrics.ExtractionRequestsTotal.WithLabelValues("file", "error").Inc()
		return "", fmt.Errorf("read extraction response: %w: %w", domain.ErrExtractorError, err)
	}

	if resp.StatusCode != http.StatusOK {
		metrics.ExtractionRequestsTotal.WithLabelValues("file", "error").Inc()
		return "", fmt.Errorf("extraction service returned %d: %s: %w",
			resp.StatusCode, truncate(body, 256), domain.ErrExtractorError)
	}

	var parsed extractResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		metrics.ExtractionRequestsTotal.WithLabelValues("file", "error").Inc()
		return "", fmt.Errorf("decode extraction response: %w: %w", domain.ErrExtractorError, err)
	}
	if !parsed.OK {
		metrics.ExtractionRequestsTotal.WithLabelValues("file", "error").Inc()
		return "", fmt.Errorf("extraction failed: %s: %w", parsed.Error, domain.ErrExtractorError)
	}

	metrics.ExtractionRequestsTotal.WithLabelValues("file", "success").Inc()
	metrics.ExtractionDuration.WithLabelValues("file").Observe(time.Since(start).Seconds())

	c.logger.Debug("resume text extracted",
		zap.String("filename", filename),
		zap.Int("pages", parsed.Pages),
		zap.Int("chars", len(parsed.Text)),
	)

	return parsed.Text, nil
}

// HealthCheck verifies the extraction service is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call extraction service: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("extraction service unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
