// Package config loads promptcraft settings from an optional YAML or TOML
// file, a .env file and the process environment, in that order of increasing
// precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Providers understood by package llm.
const (
	ProviderGroq   = "groq"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

var (
	// ErrMissingCredential is returned by Validate when the selected provider
	// needs an API key and none was configured.
	ErrMissingCredential = errors.New("missing LLM API credential")
	ErrUnknownProvider   = errors.New("unknown LLM provider")
)

// Config holds all promptcraft configuration.
type Config struct {
	LLM     LLMConfig     `yaml:"llm" toml:"llm"`
	Graph   GraphConfig   `yaml:"graph" toml:"graph"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// LLMConfig selects and configures the completion client.
type LLMConfig struct {
	Provider    string  `yaml:"provider" toml:"provider"` // groq, openai, gemini, ollama
	APIKey      string  `yaml:"api_key" toml:"api_key"`
	Model       string  `yaml:"model" toml:"model"`
	BaseURL     string  `yaml:"base_url" toml:"base_url"`
	Temperature float64 `yaml:"temperature" toml:"temperature"`
	Timeout     string  `yaml:"timeout" toml:"timeout"`

	// Prices in dollars per million tokens, used for Result.Cost.
	InputCostPerMTok  float64 `yaml:"input_cost_per_mtok" toml:"input_cost_per_mtok"`
	OutputCostPerMTok float64 `yaml:"output_cost_per_mtok" toml:"output_cost_per_mtok"`
}

// GraphConfig tunes the critique loop.
type GraphConfig struct {
	MaxCycles int     `yaml:"max_cycles" toml:"max_cycles"` // -1 removes the cap
	Threshold float64 `yaml:"threshold" toml:"threshold"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level" toml:"level"` // debug, info, warn, error
	Debug bool   `yaml:"debug" toml:"debug"` // log full prompts and responses
}

// Default returns the built-in configuration, which targets Groq.
func Default() Config {
	return Config{
		LLM: LLMConfig{
			Provider: ProviderGroq,
			Timeout:  "2m",
		},
		Graph: GraphConfig{
			MaxCycles: 3,
			Threshold: 0.7,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads .env from the working directory (if present), then the config
// file at path (if non-empty), then environment overrides.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		if err := readFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	applyEnv(&cfg)
	cfg.fillDefaults()
	return cfg, nil
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("config %s: unsupported format (want .yaml, .yml or .toml)", path)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PROMPTCRAFT_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("PROMPTCRAFT_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("PROMPTCRAFT_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("PROMPTCRAFT_TIMEOUT"); v != "" {
		cfg.LLM.Timeout = v
	}
	if v := os.Getenv("PROMPTCRAFT_MAX_CYCLES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Graph.MaxCycles = n
		}
	}
	if v := os.Getenv("PROMPTCRAFT_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if cfg.LLM.APIKey == "" {
		if name := providerKeyEnv(cfg.LLM.Provider); name != "" {
			cfg.LLM.APIKey = os.Getenv(name)
		}
	}
}

func providerKeyEnv(provider string) string {
	switch strings.ToLower(provider) {
	case ProviderGroq:
		return "GROQ_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderGemini:
		return "GEMINI_API_KEY"
	}
	return ""
}

func (c *Config) fillDefaults() {
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	if c.LLM.Provider == "" {
		c.LLM.Provider = ProviderGroq
	}
	if c.LLM.Model == "" {
		c.LLM.Model = defaultModel(c.LLM.Provider)
	}
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultBaseURL(c.LLM.Provider)
	}
	if c.LLM.Timeout == "" {
		c.LLM.Timeout = "2m"
	}
	if c.Graph.Threshold <= 0 {
		c.Graph.Threshold = 0.7
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

func defaultModel(provider string) string {
	switch provider {
	case ProviderGroq:
		return "llama-3.1-8b-instant"
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderGemini:
		return "gemini-2.5-flash"
	case ProviderOllama:
		return "llama3.1"
	}
	return ""
}

func defaultBaseURL(provider string) string {
	switch provider {
	case ProviderGroq:
		return "https://api.groq.com/openai/v1"
	case ProviderOpenAI:
		return "https://api.openai.com/v1"
	case ProviderOllama:
		return "http://localhost:11434"
	}
	return ""
}

// Validate reports configuration errors that must stop a front end before
// it serves any request.
func (c Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderGroq, ProviderOpenAI, ProviderGemini:
		if strings.TrimSpace(c.LLM.APIKey) == "" {
			return fmt.Errorf("%w: set %s or PROMPTCRAFT_API_KEY", ErrMissingCredential, providerKeyEnv(c.LLM.Provider))
		}
	case ProviderOllama:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.LLM.Provider)
	}
	if _, err := c.LLM.TimeoutDuration(); err != nil {
		return err
	}
	return nil
}

// TimeoutDuration parses the per-completion timeout.
func (c LLMConfig) TimeoutDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid llm timeout %q: %w", c.Timeout, err)
	}
	return d, nil
}
