package embedding

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"
)

const defaultGeminiModel = "text-embedding-004"

type GeminiEmbedder struct {
	client  *genai.Client
	model   string
	dim     int
	timeout time.Duration
}

func NewGeminiEmbedder(ctx context.Context, apiKey, model string, dim int, timeout time.Duration) (*GeminiEmbedder, error) {
	if model == "" {
		model = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiEmbedder{client: client, model: model, dim: dim, timeout: timeout}, nil
}

func (g *GeminiEmbedder) Dimension() int {
	return g.dim
}

func (g *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	cfg := &genai.EmbedContentConfig{}
	if g.dim > 0 {
		cfg.OutputDimensionality = genai.Ptr[int32](int32(g.dim))
	}

	resp, err := g.client.Models.EmbedContent(ctx, g.model, genai.Text(text), cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini embed content: %w", err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, ErrEmptyEmbedding
	}
	return resp.Embeddings[0].Values, nil
}
