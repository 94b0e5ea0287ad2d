// internal/llmclient/client.go
package llmclient

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/visor-ai/visor/internal/config"
)

// Client asks a vision-language model for the next action. The response is
// the model's raw prediction text; parsing it is the vlm package's job.
type Client interface {
	Predict(ctx context.Context, prompt string, screenshot []byte) (string, error)
}

// New builds a client for the configured provider.
func New(ctx context.Context, cfg config.ModelConfig, logger *zap.Logger) (Client, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGemini(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("llmclient: unknown provider %q", cfg.Provider)
	}
}
