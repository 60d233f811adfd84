package classifier

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

type Options struct {
	Backend      string
	ModelPath    string
	GeminiAPIKey string
	GeminiModel  string
	MaxRetries   int
}

// New builds the classifier selected by opts.Backend. The tree backend never
// fails: a missing or broken model file falls back to Placeholder.
func New(ctx context.Context, opts Options, logger *zap.Logger) (Classifier, error) {
	switch opts.Backend {
	case "", "tree":
		return LoadOrPlaceholder(opts.ModelPath, logger), nil
	case "gemini":
		generator, err := NewGeminiGenerator(ctx, opts.GeminiAPIKey, opts.GeminiModel)
		if err != nil {
			return nil, err
		}
		return NewGemini(generator, opts.MaxRetries, logger), nil
	default:
		return nil, fmt.Errorf("unknown classifier backend %q", opts.Backend)
	}
}
