package backend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/renatogalera/smart-commit/pkg/ai"
	"github.com/renatogalera/smart-commit/pkg/config"
	"github.com/renatogalera/smart-commit/pkg/httpx"
)

func init() {
	Register("openai", func(cfg config.AISettings) (ai.Backend, error) {
		return newOpenAICompat(cfg, "openai", "", "https://api.openai.com/v1")
	})
	// llama-server exposes an OpenAI-compatible chat endpoint under /v1.
	Register("llamacpp", func(cfg config.AISettings) (ai.Backend, error) {
		return newOpenAICompat(cfg, "llamacpp", "/v1", llamacppDefaultURL+"/v1")
	})
}

// openaiCompat speaks the OpenAI chat completions protocol, which covers
// both the hosted API and llama.cpp's server.
type openaiCompat struct {
	client   openai.Client
	name     string
	model    string
	probeURL string
}

func newOpenAICompat(cfg config.AISettings, name, pathSuffix, defaultBase string) (ai.Backend, error) {
	base := defaultBase
	if cfg.APIURL != "" {
		base = strings.TrimRight(cfg.APIURL, "/") + pathSuffix
	}
	if name == "openai" && cfg.APIKey == "" {
		return nil, fmt.Errorf("openai backend requires ai.apiKey (or SC_AI_API_KEY)")
	}

	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	opts := []option.RequestOption{
		option.WithBaseURL(base),
		option.WithHTTPClient(httpx.NewClient(timeout)),
	}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	} else {
		opts = append(opts, option.WithAPIKey("unused"))
	}

	return &openaiCompat{
		client:   openai.NewClient(opts...),
		name:     name,
		model:    cfg.Model,
		probeURL: strings.TrimSuffix(base, "/v1") + "/health",
	}, nil
}

func (b *openaiCompat) Name() string { return b.name }

func (b *openaiCompat) Available(ctx context.Context) bool {
	if b.name == "openai" {
		return true
	}
	return httpx.ProbeHealth(ctx, httpx.NewClient(5*time.Second), b.probeURL)
}

func (b *openaiCompat) ListModels(ctx context.Context) ([]string, error) {
	page, err := b.client.Models.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s models: %w", b.name, err)
	}
	names := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		names = append(names, m.ID)
	}
	return names, nil
}

func (b *openaiCompat) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := b.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(b.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature:         openai.Float(0.3),
		MaxCompletionTokens: openai.Int(256),
	})
	if err != nil {
		return "", fmt.Errorf("%s generation failed: %w", b.name, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s returned no choices", b.name)
	}
	return resp.Choices[0].Message.Content, nil
}
