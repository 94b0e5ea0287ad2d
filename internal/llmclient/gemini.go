// internal/llmclient/gemini.go
package llmclient

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/visor-ai/visor/internal/config"
)

// Gemini is a Client over the Google GenAI API.
type Gemini struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	limiter *rate.Limiter
	logger  *zap.Logger
}

var _ Client = (*Gemini)(nil)

// NewGemini initializes the Gemini client. The API key is required.
func NewGemini(ctx context.Context, cfg config.ModelConfig, logger *zap.Logger) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llmclient: gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("llmclient: creating gemini client: %w", err)
	}
	return &Gemini{
		client:  client,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		logger:  logger.Named("llmclient.gemini"),
	}, nil
}

// Predict sends the instruction prompt and the current screenshot and
// returns the model's raw prediction text.
func (g *Gemini) Predict(ctx context.Context, prompt string, screenshot []byte) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	if len(screenshot) > 0 {
		parts = append(parts, genai.NewPartFromBytes(screenshot, "image/png"))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("llmclient: gemini request failed: %w", err)
	}
	text := resp.Text()
	g.logger.Debug("Model responded",
		zap.Duration("duration", time.Since(start)),
		zap.Int("response_chars", len(text)))
	if text == "" {
		return "", fmt.Errorf("llmclient: gemini returned an empty response")
	}
	return text, nil
}
