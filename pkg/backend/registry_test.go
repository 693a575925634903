package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renatogalera/smart-commit/pkg/config"
)

func TestRegistry(t *testing.T) {
	t.Run("providers registered", func(t *testing.T) {
		names := Names()
		assert.Contains(t, names, "ollama")
		assert.Contains(t, names, "llamacpp")
		assert.Contains(t, names, "openai")
		assert.Contains(t, names, "anthropic")
	})

	t.Run("unknown backend rejected", func(t *testing.T) {
		_, err := New(context.Background(), config.AISettings{Backend: "gpt9"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown backend")
	})

	t.Run("ollama built from settings", func(t *testing.T) {
		b, err := New(context.Background(), config.AISettings{
			Backend:     "ollama",
			APIURL:      "http://localhost:11434",
			Model:       "qwen3:8b",
			TimeoutSecs: 60,
		})
		require.NoError(t, err)
		assert.Equal(t, "ollama", b.Name())
	})

	t.Run("llamacpp does not need a key", func(t *testing.T) {
		b, err := New(context.Background(), config.AISettings{
			Backend:     "llamacpp",
			APIURL:      "http://localhost:8080",
			Model:       "qwen3",
			TimeoutSecs: 60,
		})
		require.NoError(t, err)
		assert.Equal(t, "llamacpp", b.Name())
	})

	t.Run("openai requires a key", func(t *testing.T) {
		_, err := New(context.Background(), config.AISettings{Backend: "openai", Model: "gpt-4o-mini"})
		require.Error(t, err)
	})

	t.Run("anthropic requires a key", func(t *testing.T) {
		_, err := New(context.Background(), config.AISettings{Backend: "anthropic", Model: "claude-sonnet-4-5"})
		require.Error(t, err)
	})
}
