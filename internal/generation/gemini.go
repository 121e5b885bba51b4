package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	genai "google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.5-flash"

var ErrEmptyResponse = errors.New("generation: empty model response")

// GeminiModel is a thin wrapper around the official genai client.
type GeminiModel struct {
	cli      *genai.Client
	model    string
	logger   *zap.Logger
	attempts int
	backoff  time.Duration
}

func NewGeminiModel(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GeminiModel, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultGeminiModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}
	return &GeminiModel{cli: cli, model: model, logger: logger, attempts: 3, backoff: 300 * time.Millisecond}, nil
}

func (g *GeminiModel) Name() string { return "Gemini:" + g.model }

func (g *GeminiModel) Complete(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	cfg := &genai.GenerateContentConfig{}
	if jsonMode {
		cfg.ResponseMIMEType = "application/json"
	}
	var lastErr error
	for attempt := 0; attempt < g.attempts; attempt++ {
		resp, err := g.cli.Models.GenerateContent(ctx, g.model,
			[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
			cfg,
		)
		switch {
		case err != nil:
			lastErr = err
		case resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0:
			lastErr = ErrEmptyResponse
		default:
			var b strings.Builder
			for _, part := range resp.Candidates[0].Content.Parts {
				b.WriteString(part.Text)
			}
			return b.String(), nil
		}
		g.logger.Warn("gemini request failed", zap.Int("attempt", attempt+1), zap.Error(lastErr))
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(g.backoff * time.Duration(1<<attempt)):
		}
	}
	return "", lastErr
}
