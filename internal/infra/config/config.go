// Package config loads and validates the todochat configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file location when none is given.
const DefaultPath = "~/.config/todochat/config.yaml"

// PassphraseEnv names the environment variable holding the passphrase for
// "enc:" secret values.
const PassphraseEnv = "TODOCHAT_PASSPHRASE"

// TokenEnv names the environment variable that overrides the configured
// bearer token.
const TokenEnv = "TODOCHAT_TOKEN"

// ServerConfig holds connection settings for the todo assistant service.
type ServerConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// AuthConfig holds bearer credential settings. Token may be a plain value or
// an "enc:" encrypted one; TokenFile points at a file whose trimmed contents
// are the token. TODOCHAT_TOKEN wins over both.
type AuthConfig struct {
	Token     string `yaml:"token,omitempty"`
	TokenFile string `yaml:"token_file,omitempty"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
	Output string `yaml:"output"` // stdout, stderr, or a file path
}

// TracerConfig holds tracing settings.
type TracerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"` // stdout, noop
}

// UIConfig holds chat surface settings.
type UIConfig struct {
	AssistantName string `yaml:"assistant_name"`
	MaxMessages   int    `yaml:"max_messages"` // transcript render cap, 0 = unlimited
	HistoryLimit  int    `yaml:"history_limit"`
}

// Config is the top-level application configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Auth   AuthConfig   `yaml:"auth"`
	Logger LoggerConfig `yaml:"logger"`
	Tracer TracerConfig `yaml:"tracer"`
	UI     UIConfig     `yaml:"ui"`
}

// Default returns the baseline configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL: "http://localhost:8000",
			Timeout: 60 * time.Second,
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Tracer: TracerConfig{
			Enabled:  false,
			Exporter: "noop",
		},
		UI: UIConfig{
			AssistantName: "AI Todo Assistant",
			MaxMessages:   1000,
			HistoryLimit:  50,
		},
	}
}

// Load reads the config file at path, applies defaults, decrypts "enc:"
// secrets, and validates the result. A missing file is not an error; the
// defaults are returned so the client works with env-supplied credentials.
func Load(path string) (*Config, error) {
	cfg := Default()

	path = expandHome(path)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.decryptSecrets(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks invariants that would otherwise surface as confusing
// runtime failures.
func (c *Config) Validate() error {
	if c.Server.BaseURL == "" {
		return fmt.Errorf("config: server.base_url is required")
	}
	if !strings.HasPrefix(c.Server.BaseURL, "http://") && !strings.HasPrefix(c.Server.BaseURL, "https://") {
		return fmt.Errorf("config: server.base_url must be an http(s) URL, got %q", c.Server.BaseURL)
	}
	if c.Server.Timeout < 0 {
		return fmt.Errorf("config: server.timeout must not be negative")
	}
	switch strings.ToLower(c.Logger.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("config: unknown logger.level %q", c.Logger.Level)
	}
	if c.UI.HistoryLimit < 0 || c.UI.HistoryLimit > 100 {
		return fmt.Errorf("config: ui.history_limit must be within 0-100")
	}
	return nil
}

// decryptSecrets resolves "enc:" values using the passphrase from the
// environment.
func (c *Config) decryptSecrets() error {
	if !strings.HasPrefix(c.Auth.Token, "enc:") {
		return nil
	}
	passphrase := os.Getenv(PassphraseEnv)
	if passphrase == "" {
		return fmt.Errorf("config: auth.token is encrypted but %s is not set", PassphraseEnv)
	}
	plain, err := DecryptValue(strings.TrimPrefix(c.Auth.Token, "enc:"), passphrase)
	if err != nil {
		return fmt.Errorf("config: decrypt auth.token: %w", err)
	}
	c.Auth.Token = plain
	return nil
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
