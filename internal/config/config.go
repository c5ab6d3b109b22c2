package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const appName = "gobooks"

// Defaults used when neither the config file nor the environment set a value.
const (
	DefaultBaseURL    = "https://www.googleapis.com/books/v1"
	DefaultMaxResults = 12
	DefaultDebounce   = 500 * time.Millisecond
	DefaultQuery      = "top books"
	DefaultTimeout    = 15 * time.Second
	DefaultLogLevel   = "info"
)

type Config struct {
	APIKey       string        `mapstructure:"api_key"`
	BaseURL      string        `mapstructure:"base_url"`
	MaxResults   int           `mapstructure:"max_results"`
	Debounce     time.Duration `mapstructure:"debounce"`
	DefaultQuery string        `mapstructure:"default_query"`
	Timeout      time.Duration `mapstructure:"timeout"`
	Debug        bool          `mapstructure:"debug"`
	LogLevel     string        `mapstructure:"log_level"`
	LogFile      string        `mapstructure:"log_file"`
	MetricsAddr  string        `mapstructure:"metrics_addr"`

	path string
}

// Load loads the configuration from the user config directory and environment variables
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from path, which may not exist.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()

	// Bind environment variables with GOBOOKS_ prefix
	v.SetEnvPrefix("GOBOOKS")
	v.AutomaticEnv()
	if err := v.BindEnv("api_key", "GOBOOKS_API_KEY", "GOOGLE_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind api key env: %w", err)
	}

	v.SetDefault("api_key", "")
	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("max_results", DefaultMaxResults)
	v.SetDefault("debounce", DefaultDebounce)
	v.SetDefault("default_query", DefaultQuery)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("debug", false)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_file", "")
	v.SetDefault("metrics_addr", "")

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	c := &Config{path: path}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// DefaultPath returns the location of config.yaml under the user config directory.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(configDir, appName, "config.yaml"), nil
}

// Path is the file this configuration was loaded from.
func (c *Config) Path() string { return c.path }

// Validate rejects values the search controller cannot work with.
// A missing API key is allowed: requests then fail at the HTTP layer.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url must not be empty")
	}
	if c.MaxResults < 1 || c.MaxResults > 40 {
		return fmt.Errorf("max_results must be between 1 and 40, got %d", c.MaxResults)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("debounce must not be negative, got %s", c.Debounce)
	}
	if c.DefaultQuery == "" {
		return fmt.Errorf("default_query must not be empty")
	}
	return nil
}

// SaveAPIKey persists key to the config file, keeping other keys already in it.
// An empty key removes the stored value.
func (c *Config) SaveAPIKey(key string) error {
	if c.path == "" {
		return fmt.Errorf("config has no file path")
	}

	v := viper.New()
	v.SetConfigFile(c.path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error reading config file: %w", err)
	}

	settings := v.AllSettings()
	if key == "" {
		delete(settings, "api_key")
	} else {
		settings["api_key"] = key
	}

	out := viper.New()
	out.SetConfigType("yaml")
	for k, val := range settings {
		out.Set(k, val)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := out.WriteConfigAs(c.path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Chmod(c.path, 0o600); err != nil {
		return fmt.Errorf("failed to restrict config permissions: %w", err)
	}

	c.APIKey = key
	return nil
}
