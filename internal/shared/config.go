package shared

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API     APIConfig     `toml:"api"`
	Storage StorageConfig `toml:"storage"`
	Preview PreviewConfig `toml:"preview"`
	Export  ExportConfig  `toml:"export"`
	Log     LogConfig     `toml:"log"`
}

// APIConfig points the client at the movie catalog API.
type APIConfig struct {
	BaseURL  string `toml:"base_url"`
	PageSize int    `toml:"page_size"`
}

// StorageConfig contains settings for the local session database.
type StorageConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// PreviewConfig controls poster preview thumbnails.
type PreviewConfig struct {
	Dir     string `toml:"dir"`
	MaxSize uint   `toml:"max_size"`
}

// ExportConfig controls catalog exports.
type ExportConfig struct {
	RateLimit float64 `toml:"rate_limit"`
	Workers   int     `toml:"workers"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
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

// Validate reports configuration values the client cannot work with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: api.base_url %q is not an absolute URL", ErrInvalidConfig, c.API.BaseURL)
	}
	if c.API.PageSize <= 0 {
		return fmt.Errorf("%w: api.page_size must be positive", ErrInvalidConfig)
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("%w: storage.path is required", ErrInvalidConfig)
	}
	return nil
}

// SetBaseURL overrides the API base URL, dropping any trailing slash.
func (c *Config) SetBaseURL(baseURL string) {
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		c.API.BaseURL = strings.TrimRight(baseURL, "/")
	}
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
