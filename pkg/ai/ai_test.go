package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedBackend struct {
	outputs []string
	errs    []error
	calls   int
}

func (b *scriptedBackend) Name() string                   { return "scripted" }
func (b *scriptedBackend) Available(context.Context) bool { return true }

func (b *scriptedBackend) ListModels(context.Context) ([]string, error) {
	return []string{"scripted-model"}, nil
}

func (b *scriptedBackend) Generate(_ context.Context, _ string) (string, error) {
	i := b.calls
	b.calls++
	if i < len(b.errs) && b.errs[i] != nil {
		return "", b.errs[i]
	}
	if i < len(b.outputs) {
		return b.outputs[i], nil
	}
	return "", errors.New("script exhausted")
}

func newTestGenerator(b Backend, retries int) *Generator {
	g := NewGenerator(b, 72, retries)
	g.baseDelay = time.Millisecond
	return g
}

func TestCommitMessage(t *testing.T) {
	t.Run("success on first attempt", func(t *testing.T) {
		b := &scriptedBackend{outputs: []string{"feat(ai): add retrying generator"}}
		resp, err := newTestGenerator(b, 3).CommitMessage(context.Background(), "prompt")
		require.NoError(t, err)
		assert.Equal(t, "feat(ai): add retrying generator", resp.Message)
		assert.Equal(t, 1, resp.Attempts)
		assert.Equal(t, "scripted", resp.Backend)
	})

	t.Run("retries transient errors", func(t *testing.T) {
		b := &scriptedBackend{
			outputs: []string{"", "", "fix: handle timeout"},
			errs:    []error{errors.New("connection refused"), errors.New("connection refused"), nil},
		}
		resp, err := newTestGenerator(b, 3).CommitMessage(context.Background(), "prompt")
		require.NoError(t, err)
		assert.Equal(t, "fix: handle timeout", resp.Message)
		assert.Equal(t, 3, resp.Attempts)
	})

	t.Run("empty extraction counts as failure", func(t *testing.T) {
		b := &scriptedBackend{outputs: []string{"I cannot help with that.", "chore: tidy imports"}}
		resp, err := newTestGenerator(b, 3).CommitMessage(context.Background(), "prompt")
		require.NoError(t, err)
		assert.Equal(t, "chore: tidy imports", resp.Message)
		assert.Equal(t, 2, resp.Attempts)
	})

	t.Run("exhausted retries return last error", func(t *testing.T) {
		b := &scriptedBackend{errs: []error{
			errors.New("boom"), errors.New("boom"), errors.New("boom"),
		}}
		_, err := newTestGenerator(b, 3).CommitMessage(context.Background(), "prompt")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "after 3 attempts")
		assert.Equal(t, 3, b.calls)
	})

	t.Run("cancelled context stops retrying", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		b := &scriptedBackend{errs: []error{errors.New("boom"), errors.New("boom")}}
		_, err := newTestGenerator(b, 3).CommitMessage(ctx, "prompt")
		require.ErrorIs(t, err, context.Canceled)
	})
}
