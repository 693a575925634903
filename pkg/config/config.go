package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBackend = "auto"
	DefaultAPIURL  = "http://localhost:11434"
	DefaultModel   = "qwen3:8b"

	appDirName = "smart-commit"
)

var (
	DefaultAuthorName  = "smart-commit"
	DefaultAuthorEmail = "smart-commit@localhost"
)

// AISettings configures the language-model backend.
type AISettings struct {
	APIURL      string `yaml:"apiUrl,omitempty" validate:"omitempty,url"`
	Model       string `yaml:"model,omitempty"`
	Backend     string `yaml:"backend,omitempty" validate:"omitempty,oneof=ollama llamacpp openai anthropic auto"`
	APIKey      string `yaml:"apiKey,omitempty"`
	TimeoutSecs int    `yaml:"timeout,omitempty" validate:"omitempty,min=10,max=600"`
	MaxRetries  int    `yaml:"maxRetries,omitempty" validate:"omitempty,min=1,max=10"`
}

// GitSettings configures repository operations.
type GitSettings struct {
	AutoStage    bool `yaml:"autoStage"`
	AutoPush     bool `yaml:"autoPush"`
	MaxDiffLines int  `yaml:"maxDiffLines,omitempty" validate:"omitempty,min=50,max=2000"`
	AtomicMode   bool `yaml:"atomicMode"`
}

// UISettings configures console behavior.
type UISettings struct {
	UseColors   bool   `yaml:"useColors"`
	Interactive bool   `yaml:"interactive"`
	LogLevel    string `yaml:"logLevel,omitempty" validate:"omitempty,oneof=debug info warn error"`
}

// Limits bounds generated message and prompt sizes.
type Limits struct {
	SubjectChars int `yaml:"subjectChars,omitempty" validate:"omitempty,min=50,max=300"`
}

type Config struct {
	AI     AISettings  `yaml:"ai,omitempty"`
	Git    GitSettings `yaml:"git,omitempty"`
	UI     UISettings  `yaml:"ui,omitempty"`
	Limits Limits      `yaml:"limits,omitempty"`

	AuthorName  string `yaml:"authorName,omitempty"`
	AuthorEmail string `yaml:"authorEmail,omitempty"`
}

// Default returns the configuration written on first run.
func Default() *Config {
	return &Config{
		AI: AISettings{
			APIURL:      DefaultAPIURL,
			Model:       DefaultModel,
			Backend:     DefaultBackend,
			TimeoutSecs: 120,
			MaxRetries:  3,
		},
		Git: GitSettings{
			AutoStage:    true,
			AutoPush:     true,
			MaxDiffLines: 500,
		},
		UI: UISettings{
			UseColors:   true,
			Interactive: true,
			LogLevel:    "info",
		},
		Limits:      Limits{SubjectChars: 150},
		AuthorName:  DefaultAuthorName,
		AuthorEmail: DefaultAuthorEmail,
	}
}

// Path returns the config file location, honoring XDG_CONFIG_HOME.
func Path() (string, error) {
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, appDirName, "config.yaml"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", appDirName, "config.yaml"), nil
}

// CacheDir returns the cache directory, honoring XDG_CACHE_HOME.
func CacheDir() (string, error) {
	if base := os.Getenv("XDG_CACHE_HOME"); base != "" {
		return filepath.Join(base, appDirName), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".cache", appDirName), nil
}

// LoadOrCreate reads the config file, creating it with defaults when missing.
// Environment overrides are applied after the file is read.
func LoadOrCreate(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return nil, err
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		if err := Save(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		cfg.applyEnv()
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.applyEnv()
	return cfg, nil
}

// Save writes the config to path, creating parent directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// applyEnv layers SC_* environment variables over file values.
func (cfg *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("SC_AI_URL")); v != "" {
		cfg.AI.APIURL = v
	}
	if v := strings.TrimSpace(os.Getenv("SC_AI_MODEL")); v != "" {
		cfg.AI.Model = v
	}
	if v := strings.TrimSpace(os.Getenv("SC_AI_BACKEND")); v != "" {
		cfg.AI.Backend = v
	}
	if v := strings.TrimSpace(os.Getenv("SC_AI_API_KEY")); v != "" {
		cfg.AI.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("SC_AI_TIMEOUT")); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			cfg.AI.TimeoutSecs = secs
		}
	}
}

func (cfg *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
