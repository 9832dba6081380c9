package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/refind-app/refind/internal/domain"
	"github.com/refind-app/refind/internal/metrics"
)

// Embedder is an embedding provider using the OpenAI-compatible API.
// Transient failures are retried with exponential backoff; the final error
// wraps domain.ErrEmbeddingProviderError so callers can degrade gracefully.
type Embedder struct {
	client      *openai.Client
	model       openai.EmbeddingModel
	dimensions  int
	configured  bool
	maxAttempts int
	baseDelay   time.Duration
	callTimeout time.Duration
	logger      *zap.Logger
}

// Config holds the embedding provider settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Dimensions  int
	MaxAttempts int
	BaseDelay   time.Duration
	CallTimeout time.Duration
	Logger      *zap.Logger
}

// NewEmbedder creates an OpenAI-compatible embedding provider.
func NewEmbedder(cfg *Config) *Embedder {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	baseDelay := cfg.BaseDelay
	if baseDelay <= 0 {
		baseDelay = time.Second
	}
	callTimeout := cfg.CallTimeout
	if callTimeout <= 0 {
		callTimeout = 30 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Embedder{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       openai.EmbeddingModel(cfg.Model),
		dimensions:  cfg.Dimensions,
		configured:  cfg.APIKey != "",
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		callTimeout: callTimeout,
		logger:      logger,
	}
}

// Embed implements domain.Embedder. Retries transient failures with the
// delay doubling per attempt; after the attempt budget is exhausted the
// last underlying error is returned wrapped in ErrEmbeddingProviderError.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if !e.configured {
		return domain.EmbeddingResult{}, fmt.Errorf("embedding api key missing: %w", domain.ErrNotConfigured)
	}
	if strings.TrimSpace(text) == "" {
		return domain.EmbeddingResult{}, fmt.Errorf("text is empty: %w", domain.ErrInvalidInput)
	}

	req := openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          e.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}
	if e.dimensions > 0 {
		req.Dimensions = e.dimensions
	}

	delay := e.baseDelay
	var lastErr error

	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		result, err := e.createEmbeddings(ctx, req)
		if err == nil {
			if len(result.Embeddings) == 0 {
				lastErr = errors.New("empty embedding response")
			} else {
				return domain.EmbeddingResult{
					Embedding:    result.Embeddings[0],
					PromptTokens: result.PromptTokens,
					TotalTokens:  result.TotalTokens,
				}, nil
			}
		} else {
			lastErr = err
		}

		if attempt == e.maxAttempts {
			break
		}

		e.logger.Warn("Embedding request failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("backoff", delay),
			zap.Error(lastErr),
		)
		metrics.EmbeddingRetriesTotal.WithLabelValues(string(e.model)).Inc()

		select {
		case <-ctx.Done():
			return domain.EmbeddingResult{}, fmt.Errorf("embed canceled: %w: %w", ctx.Err(), domain.ErrEmbeddingProviderError)
		case <-time.After(delay):
		}
		delay *= 2
	}

	return domain.EmbeddingResult{}, fmt.Errorf("embed after %d attempts: %w: %w",
		e.maxAttempts, lastErr, domain.ErrEmbeddingProviderError)
}

// BatchEmbed vectorizes multiple texts in one API call. No retries, no
// partial results: any failure fails the whole batch.
func (e *Embedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if !e.configured {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("embedding api key missing: %w", domain.ErrNotConfigured)
	}
	if len(texts) == 0 {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("no texts: %w", domain.ErrInvalidInput)
	}
	for i, t := range texts {
		if strings.TrimSpace(t) == "" {
			return domain.BatchEmbeddingResult{}, fmt.Errorf("text [%d] is empty: %w", i, domain.ErrInvalidInput)
		}
	}

	req := openai.EmbeddingRequest{
		Input:          texts,
		Model:          e.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}
	if e.dimensions > 0 {
		req.Dimensions = e.dimensions
	}

	result, err := e.createEmbeddings(ctx, req)
	if err != nil {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed: %w: %w", err, domain.ErrEmbeddingProviderError)
	}
	if len(result.Embeddings) != len(texts) {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("got %d vectors for %d texts: %w",
			len(result.Embeddings), len(texts), domain.ErrEmbeddingProviderError)
	}

	return domain.BatchEmbeddingResult(result), nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (e *Embedder) HealthCheck(ctx context.Context) error {
	if !e.configured {
		return nil
	}
	if _, err := e.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

type rawResult struct {
	Embeddings   [][]float32
	PromptTokens int
	TotalTokens  int
}

// createEmbeddings performs one API call with the per-call timeout and
// transport-level metrics.
func (e *Embedder) createEmbeddings(ctx context.Context, req openai.EmbeddingRequest) (rawResult, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()

	start := time.Now()
	resp, err := e.client.CreateEmbeddings(callCtx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues(string(e.model), "error").Inc()
		return rawResult{}, parseAPIError(err)
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues(string(e.model), "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(string(e.model)).Observe(duration.Seconds())

	embeddings := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		embeddings[i] = d.Embedding
	}

	return rawResult{
		Embeddings:   embeddings,
		PromptTokens: resp.Usage.PromptTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}, nil
}

// parseAPIError extracts a human-readable error from the API response.
func parseAPIError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("embedding API error %d: %s", reqErr.HTTPStatusCode, string(reqErr.Body))
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("embedding API error %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
	}

	return fmt.Errorf("embedding request failed: %w", err)
}
