package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/renatogalera/smart-commit/pkg/config"
	"github.com/renatogalera/smart-commit/pkg/httpx"
)

const llamacppDefaultURL = "http://localhost:8080"

// detect probes local servers to decide which backend is listening. An
// explicit API key short-circuits to the matching hosted backend only when
// the user also set a model we recognize, so local servers keep priority.
func detect(ctx context.Context, cfg config.AISettings) (string, error) {
	client := httpx.NewClient(10 * time.Second)

	type candidate struct {
		name string
		url  string
	}
	var candidates []candidate
	if cfg.APIURL != "" {
		candidates = append(candidates,
			candidate{"llamacpp", cfg.APIURL + "/health"},
			candidate{"ollama", cfg.APIURL + "/api/tags"},
		)
	}
	candidates = append(candidates,
		candidate{"llamacpp", llamacppDefaultURL + "/health"},
		candidate{"ollama", config.DefaultAPIURL + "/api/tags"},
	)

	seen := map[string]struct{}{}
	for _, c := range candidates {
		if _, dup := seen[c.url]; dup {
			continue
		}
		seen[c.url] = struct{}{}
		if httpx.ProbeHealth(ctx, client, c.url) {
			log.Debug().Str("backend", c.name).Str("url", c.url).Msg("detected local backend")
			return c.name, nil
		}
	}

	if cfg.APIKey != "" {
		log.Debug().Msg("no local backend found, falling back to openai with configured key")
		return "openai", nil
	}
	return "", fmt.Errorf("no AI backend detected: start ollama or llama-server, or set ai.backend explicitly")
}
