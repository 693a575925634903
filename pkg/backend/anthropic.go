package backend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/renatogalera/smart-commit/pkg/ai"
	"github.com/renatogalera/smart-commit/pkg/config"
	"github.com/renatogalera/smart-commit/pkg/httpx"
)

func init() {
	Register("anthropic", newAnthropic)
}

type anthropicBackend struct {
	client anthropic.Client
	model  string
}

func newAnthropic(cfg config.AISettings) (ai.Backend, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic backend requires ai.apiKey (or SC_AI_API_KEY)")
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpx.NewClient(timeout)),
	}
	if cfg.APIURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.APIURL))
	}
	return &anthropicBackend{
		client: anthropic.NewClient(opts...),
		model:  cfg.Model,
	}, nil
}

func (b *anthropicBackend) Name() string { return "anthropic" }

func (b *anthropicBackend) Available(context.Context) bool { return true }

func (b *anthropicBackend) ListModels(ctx context.Context) ([]string, error) {
	page, err := b.client.Models.List(ctx, anthropic.ModelListParams{})
	if err != nil {
		return nil, fmt.Errorf("failed to list anthropic models: %w", err)
	}
	names := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		names = append(names, m.ID)
	}
	return names, nil
}

func (b *anthropicBackend) Generate(ctx context.Context, prompt string) (string, error) {
	msg, err := b.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(b.model),
		MaxTokens: 256,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic generation failed: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}
