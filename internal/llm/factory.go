package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/zaracky/POC-RAG-System/internal/config"
)

const mistralBaseURL = "https://api.mistral.ai/v1"

// NewClient builds the generation and embedding clients for the configured
// provider. Providers without embedding support return a nil EmbedderClient
// so callers can detect the missing capability.
func NewClient(ctx context.Context, cfg config.LLMConfig) (LLMClient, EmbedderClient, error) {
	provider := strings.ToLower(cfg.Provider)

	switch provider {
	case "", "mistral":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = mistralBaseURL
		}
		c := NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.EmbeddingModel, baseURL)
		return c, c, nil

	case "openai":
		c := NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.EmbeddingModel, cfg.BaseURL)
		return c, c, nil

	case "gemini":
		c, err := NewGeminiClient(ctx, cfg.APIKey, cfg.Model, cfg.EmbeddingModel)
		if err != nil {
			return nil, nil, err
		}
		return c, c, nil

	case "claude":
		c := NewClaudeClient(cfg.APIKey, cfg.Model, cfg.BaseURL)
		return c, nil, nil

	case "ollama":
		baseURL := cfg.BaseURL
		if !strings.HasSuffix(baseURL, "/v1") {
			baseURL = fmt.Sprintf("%s/v1", strings.TrimRight(baseURL, "/"))
		}
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = "ollama" // ignored by Ollama but required by the client config
		}
		c := NewOpenAIClient(apiKey, cfg.Model, cfg.EmbeddingModel, baseURL)
		return c, c, nil

	default:
		return nil, nil, fmt.Errorf("unsupported llm provider: %s", provider)
	}
}
