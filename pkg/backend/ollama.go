package backend

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	ollama "github.com/ollama/ollama/api"

	"github.com/renatogalera/smart-commit/pkg/ai"
	"github.com/renatogalera/smart-commit/pkg/config"
	"github.com/renatogalera/smart-commit/pkg/httpx"
)

func init() {
	Register("ollama", newOllama)
}

type ollamaBackend struct {
	client *ollama.Client
	model  string
}

func newOllama(cfg config.AISettings) (ai.Backend, error) {
	base := cfg.APIURL
	if base == "" {
		base = config.DefaultAPIURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama URL %q: %w", base, err)
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	return &ollamaBackend{
		client: ollama.NewClient(u, httpx.NewClient(timeout)),
		model:  cfg.Model,
	}, nil
}

func (b *ollamaBackend) Name() string { return "ollama" }

func (b *ollamaBackend) Available(ctx context.Context) bool {
	return b.client.Heartbeat(ctx) == nil
}

func (b *ollamaBackend) ListModels(ctx context.Context) ([]string, error) {
	resp, err := b.client.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ollama models: %w", err)
	}
	names := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

func (b *ollamaBackend) Generate(ctx context.Context, prompt string) (string, error) {
	stream := false
	req := &ollama.GenerateRequest{
		Model:  b.model,
		Prompt: prompt,
		Stream: &stream,
		Options: map[string]any{
			"temperature": 0.3,
			"num_predict": 256,
		},
	}

	var sb strings.Builder
	err := b.client.Generate(ctx, req, func(resp ollama.GenerateResponse) error {
		sb.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama generation failed: %w", err)
	}
	return sb.String(), nil
}
