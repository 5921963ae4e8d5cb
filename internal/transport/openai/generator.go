package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/atelier-cloud/brandgen/internal/domain"
)

// Generator produces content variants via the OpenAI-compatible chat API.
// The pipeline treats it as opaque text-in/text-out.
type Generator struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

// GeneratorConfig holds the generative provider settings.
type GeneratorConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration
	Logger      *zap.Logger
}

// NewGenerator creates an OpenAI-compatible content generator.
func NewGenerator(cfg *GeneratorConfig) *Generator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Generator{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		logger:      cfg.Logger,
	}
}

// Generate requests count completions for the prompt and returns the
// non-empty choice texts. Fewer than count results is not an error; the
// pipeline scores whatever survives.
func (g *Generator) Generate(ctx context.Context, prompt string, count int) ([]string, error) {
	if count <= 0 {
		return nil, nil
	}

	start := time.Now()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		N:           count,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: chat completion: %w", domain.ErrGenerationProviderError, err)
	}

	variants := make([]string, 0, len(resp.Choices))
	for _, choice := range resp.Choices {
		content := strings.TrimSpace(choice.Message.Content)
		if content != "" {
			variants = append(variants, content)
		}
	}

	g.logger.Debug("Generation request completed",
		zap.String("model", g.model),
		zap.Duration("duration", time.Since(start)),
		zap.Int("requested", count),
		zap.Int("returned", len(variants)),
	)

	return variants, nil
}
