package shared

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Platforms lists every platform id a draft can target, in display order.
var Platforms = []string{"instagram", "facebook", "twitter", "linkedin"}

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API      APIConfig      `toml:"api"`
	Database DatabaseConfig `toml:"database"`
	Composer ComposerConfig `toml:"composer"`
	Sandbox  SandboxConfig  `toml:"sandbox"`
	Log      LogConfig      `toml:"log"`
}

// APIConfig contains the backend origin.
type APIConfig struct {
	BaseURL string `toml:"base_url"`
}

// DatabaseConfig contains session store connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ComposerConfig contains post composer defaults.
type ComposerConfig struct {
	DefaultPlatforms []string `toml:"default_platforms"`
	ClearDelayMS     int      `toml:"clear_delay_ms"`
	ToastMS          int      `toml:"toast_ms"`
}

// ClearDelay returns the configured draft clear delay.
func (c ComposerConfig) ClearDelay() time.Duration {
	return time.Duration(c.ClearDelayMS) * time.Millisecond
}

// ToastTTL returns how long a success notification stays visible.
func (c ComposerConfig) ToastTTL() time.Duration {
	return time.Duration(c.ToastMS) * time.Millisecond
}

// SandboxConfig contains settings for the local development backend.
type SandboxConfig struct {
	Host            string  `toml:"host"`
	Port            int     `toml:"port"`
	DatabasePath    string  `toml:"database_path"`
	JWTSecret       string  `toml:"jwt_secret"`
	TokenTTLMinutes int     `toml:"token_ttl_minutes"`
	OTPTTLMinutes   int     `toml:"otp_ttl_minutes"`
	RateLimit       float64 `toml:"rate_limit"`
}

// Addr returns the host:port the sandbox listens on.
func (s SandboxConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level   string `toml:"level"`
	TUIPath string `toml:"tui_path"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// Validate checks values a typo could make unusable.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("%w: api.base_url is empty", ErrInvalidConfig)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("%w: database.path is empty", ErrInvalidConfig)
	}
	for _, p := range c.Composer.DefaultPlatforms {
		if !slices.Contains(Platforms, p) {
			return fmt.Errorf("%w: composer.default_platforms contains %q", ErrInvalidConfig, p)
		}
	}
	if c.Composer.ClearDelayMS < 0 || c.Composer.ToastMS < 0 {
		return fmt.Errorf("%w: composer delays must not be negative", ErrInvalidConfig)
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ResolveConfig loads path when it exists and falls back to the defaults otherwise.
//
// A file that exists but fails to parse is reported rather than silently ignored.
func ResolveConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	if _, err := os.Stat(path); err != nil {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}
