package llm

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type GeminiClient struct {
	client         *genai.Client
	model          string
	embeddingModel string
}

func NewGeminiClient(ctx context.Context, apiKey, model, embeddingModel string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if embeddingModel == "" {
		embeddingModel = "text-embedding-004"
	}
	return &GeminiClient{
		client:         client,
		model:          model,
		embeddingModel: embeddingModel,
	}, nil
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	model := c.client.GenerativeModel(c.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	return geminiText(resp)
}

// geminiText extracts the first text part. Safety-blocked responses carry a
// candidate with no content, so every level is checked before indexing.
func geminiText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) > 0 {
		if content := resp.Candidates[0].Content; content != nil && len(content.Parts) > 0 {
			if txt, ok := content.Parts[0].(genai.Text); ok {
				return string(txt), nil
			}
		}
	}
	return "", fmt.Errorf("no response candidates or content")
}

func (c *GeminiClient) Embed(ctx context.Context, text string) ([]float32, error) {
	em := c.client.EmbeddingModel(c.embeddingModel)
	res, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, err
	}
	if res.Embedding != nil {
		return res.Embedding.Values, nil
	}
	return nil, fmt.Errorf("no embedding values")
}
