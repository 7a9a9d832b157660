package classifier

import (
	"context"
	"os"
	"strings"

	"stock-sentiment/internal/logger"
	"stock-sentiment/internal/store"
)

// New selects the classification backend from configuration. An OPENAI
// provider without an API key falls back to the keyword classifier rather
// than failing the run.
func New(ctx context.Context, cfg *store.Config) Classifier {
	switch strings.ToUpper(cfg.Classifier.Provider) {
	case "OPENAI":
		c, err := NewOpenAIClassifier(os.Getenv("OPENAI_API_KEY"), cfg.Classifier.Model, cfg.Classifier.BatchSize)
		if err != nil {
			logger.Warn(ctx, "OpenAI classifier unavailable, using keyword fallback", "error", err)
			return NewKeywordClassifier()
		}
		return c
	default:
		return NewKeywordClassifier()
	}
}
