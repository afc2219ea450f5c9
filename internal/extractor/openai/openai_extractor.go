package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/phuslu/log"
	"golang.org/x/time/rate"

	"docverify/internal/config"
	"docverify/internal/domain"
	"docverify/internal/extractor"
	"docverify/internal/port"
)

const (
	providerName      = "openai"
	defaultModel      = "gpt-4o"
	classifyMaxTokens = 50
)

// Extractor implements port.FieldExtractor against an OpenAI-compatible
// Chat Completions endpoint with vision input.
type Extractor struct {
	apiKey      string
	model       string
	endpoint    string
	temperature float64
	maxTokens   int
	schema      extractor.Schema
	limiter     *rate.Limiter
	client      *http.Client
}

var _ port.FieldExtractor = (*Extractor)(nil)

func init() {
	extractor.RegisterProvider(providerName, func(cfg *config.ExtractorConfig) (port.FieldExtractor, error) {
		return NewExtractor(cfg, extractor.DefaultSchema()), nil
	})
}

// NewExtractor creates an extractor from config. RatePerMin of zero disables throttling.
func NewExtractor(cfg *config.ExtractorConfig, schema extractor.Schema) *Extractor {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RatePerMin > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RatePerMin)), 1)
	}
	return &Extractor{
		apiKey:      cfg.APIKey,
		model:       model,
		endpoint:    cfg.BaseURL,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		schema:      schema,
		limiter:     limiter,
		client:      &http.Client{Timeout: timeout},
	}
}

// Classify asks the model which kind of document the upload is. Answers
// outside the known set resolve to DocumentTypeUnknown.
func (e *Extractor) Classify(ctx context.Context, input port.ExtractInput) (domain.DocumentType, error) {
	text, err := e.complete(ctx, input, extractor.ClassifyPrompt, 0, classifyMaxTokens)
	if err != nil {
		return domain.DocumentTypeUnknown, fmt.Errorf("openai.Classify: %w", err)
	}
	dt := domain.ParseDocumentType(text)
	log.Debug().Str("answer", truncate(text, 50)).Str("document_type", string(dt)).Msg("openai.Classify: classified upload")
	return dt, nil
}

// Extract reads the schema fields of docType from the upload and returns
// them normalized.
func (e *Extractor) Extract(ctx context.Context, input port.ExtractInput, docType domain.DocumentType) (map[string]string, error) {
	specs := e.schema.Fields(docType)
	if len(specs) == 0 {
		return nil, fmt.Errorf("openai.Extract: no field schema for %q", docType)
	}

	prompt := extractor.BuildExtractPrompt(docType, specs)
	text, err := e.complete(ctx, input, prompt, e.temperature, e.maxTokens)
	if err != nil {
		return nil, fmt.Errorf("openai.Extract: %w", err)
	}

	raw, err := extractor.ParseFields(text)
	if err != nil {
		return nil, fmt.Errorf("openai.Extract: %w", err)
	}
	return extractor.NormalizeFields(e.schema, docType, raw), nil
}

func (e *Extractor) complete(ctx context.Context, input port.ExtractInput, prompt string, temperature float64, maxTokens int) (string, error) {
	block, err := fileBlock(input)
	if err != nil {
		return "", err
	}

	reqBody := chatRequest{
		Model: e.model,
		Messages: []chatMessage{{
			Role: "user",
			Content: []map[string]any{
				{"type": "text", "text": prompt},
				block,
			},
		}},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("waiting for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	start := time.Now()
	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling openai API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	log.Debug().Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("openai.complete: response received")

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("openai API error (status %d): %s", resp.StatusCode, truncate(string(respBody), 500))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := extractor.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return "", extractor.NewRateLimitError(providerName, baseErr, retryAfter)
		}
		return "", baseErr
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("unmarshaling response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("empty response from API: no choices")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

func fileBlock(input port.ExtractInput) (map[string]any, error) {
	dataURI := "data:" + input.ContentType + ";base64," + base64.StdEncoding.EncodeToString(input.FileBytes)
	switch input.ContentType {
	case "application/pdf":
		return map[string]any{
			"type": "file",
			"file": map[string]any{"filename": "document.pdf", "file_data": dataURI},
		}, nil
	case "image/jpeg", "image/png":
		return map[string]any{
			"type":      "image_url",
			"image_url": map[string]any{"url": dataURI},
		}, nil
	default:
		return nil, fmt.Errorf("unsupported content type for extraction: %s", input.ContentType)
	}
}

type chatMessage struct {
	Role    string           `json:"role"`
	Content []map[string]any `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
