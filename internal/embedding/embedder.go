// Package embedding provides vector embeddings for the similarity router.
package embedding

import (
	"context"
	"fmt"
	"strings"

	"github.com/thecodingmage/smartsift/internal/config"
)

// Embedder turns text into a fixed-length vector. Implementations must be
// stable within a process lifetime: the router caches anchor vectors at
// startup and compares request vectors against them for the rest of the run.
type Embedder interface {
	Name() string
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// New creates an embedder from configuration.
func New(cfg *config.EmbeddingConfig) (Embedder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch strings.ToLower(cfg.Provider) {
	case "ollama":
		return NewOllamaEmbedder(cfg.OllamaBaseURL, cfg.OllamaModel, cfg.Timeout), nil
	case "openai":
		return NewOpenAIEmbedder(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}
