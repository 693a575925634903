// Package ai defines the backend abstraction and the retrying commit
// message generator built on top of it.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/renatogalera/smart-commit/pkg/msgextract"
)

// Backend is implemented by every AI provider.
type Backend interface {
	// Name identifies the backend in logs and error messages.
	Name() string
	// Generate sends the prompt and returns the raw model output.
	Generate(ctx context.Context, prompt string) (string, error)
	// Available reports whether the backend can be reached right now.
	Available(ctx context.Context) bool
	// ListModels returns the model names the backend offers, for the
	// connectivity test command. Providers without a listing API return
	// an error.
	ListModels(ctx context.Context) ([]string, error)
}

// Response is the outcome of one successful generation.
type Response struct {
	Message  string
	Backend  string
	Attempts int
	Duration time.Duration
}

// ErrEmptyMessage is returned when the model output yields no usable
// commit message after extraction.
var ErrEmptyMessage = errors.New("model returned no usable commit message")

// Generator turns prompts into clean commit messages, retrying transient
// backend failures with exponential backoff.
type Generator struct {
	backend    Backend
	extractor  *msgextract.Extractor
	maxRetries int
	baseDelay  time.Duration
}

func NewGenerator(backend Backend, subjectLimit, maxRetries int) *Generator {
	return &Generator{
		backend:    backend,
		extractor:  msgextract.New(subjectLimit),
		maxRetries: maxRetries,
		baseDelay:  time.Second,
	}
}

// CommitMessage generates and extracts a commit message for prompt. An empty
// extraction counts as a failed attempt, since small models occasionally
// return pure chatter.
func (g *Generator) CommitMessage(ctx context.Context, prompt string) (Response, error) {
	start := time.Now()
	var lastErr error

	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		if attempt > 1 {
			delay := g.baseDelay * time.Duration(1<<(attempt-2))
			log.Debug().Int("attempt", attempt).Dur("delay", delay).Msg("retrying generation")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return Response{}, ctx.Err()
			}
		}

		raw, err := g.backend.Generate(ctx, prompt)
		if err != nil {
			if ctx.Err() != nil {
				return Response{}, ctx.Err()
			}
			lastErr = err
			log.Warn().Err(err).Str("backend", g.backend.Name()).Int("attempt", attempt).
				Msg("generation attempt failed")
			continue
		}

		message := g.extractor.Extract(raw)
		if message == "" {
			lastErr = ErrEmptyMessage
			log.Warn().Str("backend", g.backend.Name()).Int("attempt", attempt).
				Str("raw", firstLine(raw)).Msg("no commit message in model output")
			continue
		}

		return Response{
			Message:  message,
			Backend:  g.backend.Name(),
			Attempts: attempt,
			Duration: time.Since(start),
		}, nil
	}

	return Response{}, fmt.Errorf("generation failed after %d attempts: %w", g.maxRetries, lastErr)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if line, _, found := strings.Cut(s, "\n"); found {
		return line
	}
	return s
}
