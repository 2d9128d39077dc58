// Package openai extracts structured candidate fields from resume text via
// an OpenAI-compatible chat completion API (e.g. Nebius, DeepSeek).
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/candidex/internal/domain"
	"github.com/kailas-cloud/candidex/internal/domain/candidate"
	"github.com/kailas-cloud/candidex/internal/metrics"
)

const systemPrompt = `You are a resume parser. Extract structured fields from the resume text.
Respond with a single JSON object and nothing else, using exactly these keys:
name, email, phone, education, school, major, graduation_date, work_years (number or null),
skills (array of strings), projects (array of strings).
Use empty strings and empty arrays for fields the resume does not mention; use null for unknown work_years.`

// Extractor turns raw resume text into a candidate record using an LLM.
type Extractor struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// Config holds the LLM provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  *zap.Logger
}

// NewExtractor creates an OpenAI-compatible field extractor.
func NewExtractor(cfg *Config) *Extractor {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: logger,
	}
}

// Extract parses resume text into a candidate record. RawText is always the
// input text verbatim, so keyword rules keep working even when the model
// drops details.
func (e *Extractor) Extract(ctx context.Context, text string) (candidate.Record, error) {
	req := openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	start := time.Now()
	resp, err := e.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.ExtractionRequestsTotal.WithLabelValues("llm", "error").Inc()
		return candidate.Record{}, parseAPIError(err)
	}
	if len(resp.Choices) == 0 {
		metrics.ExtractionRequestsTotal.WithLabelValues("llm", "error").Inc()
		return candidate.Record{}, fmt.Errorf("empty completion response: %w", domain.ErrExtractorError)
	}

	rec, err := decodeRecord(resp.Choices[0].Message.Content)
	if err != nil {
		metrics.ExtractionRequestsTotal.WithLabelValues("llm", "error").Inc()
		return candidate.Record{}, fmt.Errorf("decode completion: %w: %w", domain.ErrExtractorError, err)
	}
	rec.RawText = text

	metrics.ExtractionRequestsTotal.WithLabelValues("llm", "success").Inc()
	metrics.ExtractionDuration.WithLabelValues("llm").Observe(duration.Seconds())

	e.logger.Debug("resume fields extracted",
		zap.String("model", e.model),
		zap.Int("skills", len(rec.Skills)),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)

	return rec, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (e *Extractor) HealthCheck(ctx context.Context) error {
	if _, err := e.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// decodeRecord parses the model output, tolerating markdown code fences some
// models wrap JSON in despite the response format hint.
func decodeRecord(content string) (candidate.Record, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var rec candidate.Record
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &rec); err != nil {
		return candidate.Record{}, err
	}
	return rec, nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrExtractorError for correct 502 mapping.
func parseAPIError(err error) error {
	wrap := domain.ErrExtractorError

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail != "" {
			return fmt.Errorf("extraction API error %d: %s: %w",
				reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("extraction API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("extraction API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("extraction request failed: %w", wrap)
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
