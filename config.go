package ghostwriter

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	defaults "github.com/greyskein/ghostwriter/default"
)

// Config represents the user's ghostwriter configuration.
type Config struct {
	Version    int              `toml:"version" json:"version"`
	Completion CompletionConfig `toml:"completion" json:"completion"`
	Surfaces   SurfacesConfig   `toml:"surfaces" json:"surfaces"`
}

// CompletionConfig holds settings for the completion API.
type CompletionConfig struct {
	BaseURL     string  `toml:"base_url" json:"base_url"`
	APIKey      string  `toml:"api_key" json:"api_key"`
	Model       string  `toml:"model" json:"model"`
	MaxTokens   int     `toml:"max_tokens" json:"max_tokens,omitempty"`
	Temperature float64 `toml:"temperature" json:"temperature,omitempty"`
}

// SurfacesConfig holds display surface settings.
type SurfacesConfig struct {
	// TTLMinutes is the idle lifetime of a display surface in the daemon.
	// A surface untouched for this long is dropped; late responses aimed at
	// a dropped surface are discarded.
	TTLMinutes int `toml:"ttl_minutes" json:"ttl_minutes,omitempty"`
}

// ConfigDir returns the config directory path.
// Resolution order: $GHOSTWRITER_CONFIG_DIR > $XDG_CONFIG_HOME/ghostwriter > ~/.config/ghostwriter
func ConfigDir() string {
	if dir := os.Getenv("GHOSTWRITER_CONFIG_DIR"); dir != "" {
		return dir
	}
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "ghostwriter")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("/tmp", "ghostwriter-config")
	}
	return filepath.Join(home, ".config", "ghostwriter")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// InstructionsPath returns the custom instructions file path.
func InstructionsPath() string {
	return filepath.Join(ConfigDir(), "instructions.toml")
}

// EnvPath returns the path to the optional .env file loaded at daemon startup.
func EnvPath() string {
	return filepath.Join(ConfigDir(), ".env")
}

// DefaultConfig returns the default configuration from the embedded default_config.toml.
func DefaultConfig() *Config {
	var cfg Config
	if err := toml.Unmarshal(defaults.DefaultConfigTOML, &cfg); err != nil {
		panic("ghostwriter: invalid embedded default_config.toml: " + err.Error())
	}
	return &cfg
}

// LoadConfig loads config from disk or returns defaults if not found.
func LoadConfig() (*Config, error) {
	path := ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Apply defaults for missing fields
	def := DefaultConfig()
	if cfg.Completion.BaseURL == "" {
		cfg.Completion.BaseURL = def.Completion.BaseURL
	}
	if cfg.Completion.Model == "" {
		cfg.Completion.Model = def.Completion.Model
	}
	if cfg.Completion.MaxTokens == 0 {
		cfg.Completion.MaxTokens = def.Completion.MaxTokens
	}
	if cfg.Surfaces.TTLMinutes == 0 {
		cfg.Surfaces.TTLMinutes = def.Surfaces.TTLMinutes
	}

	return &cfg, nil
}

// ResolveBaseURL returns the completion API base URL.
// Priority: $GHOSTWRITER_BASE_URL env > config value.
func ResolveBaseURL(cfg *Config) string {
	if url := os.Getenv("GHOSTWRITER_BASE_URL"); url != "" {
		return url
	}
	if cfg != nil {
		return cfg.Completion.BaseURL
	}
	return ""
}

// ResolveAPIKey returns the completion API key.
// Priority: $GHOSTWRITER_API_KEY env > config value.
func ResolveAPIKey(cfg *Config) string {
	if key := os.Getenv("GHOSTWRITER_API_KEY"); key != "" {
		return key
	}
	if cfg != nil {
		return cfg.Completion.APIKey
	}
	return ""
}

// ResolveModel returns the completion model name.
// Priority: $GHOSTWRITER_MODEL env > config value.
func ResolveModel(cfg *Config) string {
	if model := os.Getenv("GHOSTWRITER_MODEL"); model != "" {
		return model
	}
	if cfg != nil {
		return cfg.Completion.Model
	}
	return ""
}

// Configured returns true when an API key is available from the environment
// or the config file.
func Configured(cfg *Config) bool {
	return ResolveAPIKey(cfg) != ""
}
