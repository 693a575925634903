// Package backend registers the available AI providers and selects one
// based on configuration, probing local servers when set to auto.
package backend

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/renatogalera/smart-commit/pkg/ai"
	"github.com/renatogalera/smart-commit/pkg/config"
)

// Factory builds a backend from the AI configuration.
type Factory func(cfg config.AISettings) (ai.Backend, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register makes a backend available under name. Called from init in the
// provider files.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[name] = f
}

// Names returns the registered backend names, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(factories))
	for n := range factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// New builds the backend named by cfg. "auto" probes the local servers
// and picks whichever answers.
func New(ctx context.Context, cfg config.AISettings) (ai.Backend, error) {
	name := cfg.Backend
	if name == "auto" {
		detected, err := detect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		name = detected
	}

	mu.RLock()
	f, ok := factories[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown backend %q (available: %v)", name, Names())
	}
	return f(cfg)
}
