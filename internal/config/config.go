// Package config loads service configuration from defaults, an optional YAML
// file, a .env file and the process environment, in increasing precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Vasu1712/vibe-rooms-backend/internal/completion"
	"github.com/Vasu1712/vibe-rooms-backend/internal/logging"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the top-level configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Completion CompletionConfig `yaml:"completion"`
	Cache      CacheConfig      `yaml:"cache"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type ServerConfig struct {
	Addr              string   `yaml:"addr"`
	AllowedOrigins    []string `yaml:"allowed_origins"`
	ShutdownTimeoutMS int      `yaml:"shutdown_timeout_ms"`
}

type CompletionConfig struct {
	Provider  string `yaml:"provider"` // openai, gemini, none; empty infers from API key env vars
	APIKey    string `yaml:"api_key"`
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url"`
	TimeoutMS int    `yaml:"timeout_ms"`
}

type CacheConfig struct {
	ValkeyAddr string `yaml:"valkey_addr"` // empty selects the in-process cache
	TTLSec     int    `yaml:"ttl_sec"`
	Enabled    bool   `yaml:"enabled"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a fully-populated Config with defaults.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:              ":8000",
			AllowedOrigins:    []string{"http://localhost:3000", "http://127.0.0.1:3000"},
			ShutdownTimeoutMS: 5000,
		},
		Completion: CompletionConfig{
			TimeoutMS: 8000,
		},
		Cache: CacheConfig{
			TTLSec:  3600,
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration. path names a YAML file; when empty,
// VIBE_CONFIG is consulted, and with neither set only defaults and the
// environment apply. dotenv names a .env file whose absence is not an error.
func Load(path, dotenv string) (Config, error) {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", dotenv, err)
		}
	}

	cfg := DefaultConfig()
	if path == "" {
		path = os.Getenv("VIBE_CONFIG")
	}
	if path != "" {
		var err error
		if cfg, err = LoadFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile reads a YAML config file over the defaults. Unknown fields are
// rejected.
func LoadFile(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config yaml: %w", err)
	}
	return cfg, nil
}

func envInt(name string, dst *int) error {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalid, name, v)
	}
	*dst = n
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("VIBE_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("VIBE_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.Server.AllowedOrigins = origins
	}
	if err := envInt("VIBE_COMPLETION_TIMEOUT_MS", &c.Completion.TimeoutMS); err != nil {
		return err
	}
	if v := os.Getenv("VALKEY_ADDR"); v != "" {
		c.Cache.ValkeyAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}

	// API keys from the environment; an explicit provider keeps its choice.
	openaiKey, geminiKey := os.Getenv("OPENAI_API_KEY"), os.Getenv("GEMINI_API_KEY")
	switch strings.ToLower(c.Completion.Provider) {
	case "":
		switch {
		case openaiKey != "":
			c.Completion.Provider, c.Completion.APIKey = completion.ProviderOpenAI, openaiKey
		case geminiKey != "":
			c.Completion.Provider, c.Completion.APIKey = completion.ProviderGemini, geminiKey
		case c.Completion.APIKey != "":
			return fmt.Errorf("%w: completion.api_key is set but completion.provider is empty", ErrInvalid)
		default:
			c.Completion.Provider = completion.ProviderNone
		}
	case completion.ProviderOpenAI:
		if openaiKey != "" {
			c.Completion.APIKey = openaiKey
		}
	case completion.ProviderGemini:
		if geminiKey != "" {
			c.Completion.APIKey = geminiKey
		}
	}
	return nil
}

// Validate checks the whole configuration. Errors wrap ErrInvalid.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("%w: server.addr is empty", ErrInvalid)
	}
	if c.Server.ShutdownTimeoutMS <= 0 {
		return fmt.Errorf("%w: server.shutdown_timeout_ms must be > 0", ErrInvalid)
	}
	switch strings.ToLower(c.Completion.Provider) {
	case "", completion.ProviderNone:
	case completion.ProviderOpenAI, completion.ProviderGemini:
		if c.Completion.APIKey == "" {
			return fmt.Errorf("%w: completion.provider %s: %w", ErrInvalid, c.Completion.Provider, completion.ErrMissingKey)
		}
	default:
		return fmt.Errorf("%w: unknown completion.provider %q", ErrInvalid, c.Completion.Provider)
	}
	if c.Completion.TimeoutMS <= 0 {
		return fmt.Errorf("%w: completion.timeout_ms must be > 0", ErrInvalid)
	}
	if c.Cache.TTLSec < 0 {
		return fmt.Errorf("%w: cache.ttl_sec must be >= 0", ErrInvalid)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// ShutdownTimeout bounds graceful server shutdown.
func (c Config) ShutdownTimeout() time.Duration { return ms(c.Server.ShutdownTimeoutMS) }

// CompletionTimeout bounds each remote completion call.
func (c Config) CompletionTimeout() time.Duration { return ms(c.Completion.TimeoutMS) }

// CacheTTL is how long cached completions live.
func (c Config) CacheTTL() time.Duration { return time.Duration(c.Cache.TTLSec) * time.Second }

// CompletionOptions maps the completion section onto provider options.
func (c Config) CompletionOptions() completion.Options {
	return completion.Options{
		Provider: c.Completion.Provider,
		APIKey:   c.Completion.APIKey,
		Model:    c.Completion.Model,
		BaseURL:  c.Completion.BaseURL,
		Timeout:  c.CompletionTimeout(),
	}
}
