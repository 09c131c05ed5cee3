package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables that override values read from the config file.
const (
	EnvAPIBaseURL  = "REELX_API_BASE_URL"
	EnvStoragePath = "REELX_STORAGE_PATH"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API     APIConfig     `toml:"api"`
	Storage StorageConfig `toml:"storage"`
	TUI     TUIConfig     `toml:"tui"`
	Mock    MockConfig    `toml:"mock"`
}

// APIConfig contains settings for the movies REST service client.
type APIConfig struct {
	BaseURL        string  `toml:"base_url"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	RateLimit      float64 `toml:"rate_limit"`
}

// StorageConfig contains durable key-value storage settings.
type StorageConfig struct {
	Path         string `toml:"path"`
	Namespace    string `toml:"namespace"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// TUIConfig contains terminal UI settings.
type TUIConfig struct {
	LogPath string `toml:"log_path"`
}

// MockConfig contains settings for the local mock backend.
type MockConfig struct {
	Addr string `toml:"addr"`
}

// Timeout returns the configured request timeout, defaulting to 10 seconds.
func (c APIConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
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

// ApplyEnv loads dotenv files (missing files are ignored) and overrides config values
// with any REELX_* variables present in the process environment.
func (c *Config) ApplyEnv(files ...string) {
	existing := []string{}
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) > 0 {
		// Load never overrides variables that are already set.
		_ = godotenv.Load(existing...)
	}

	if v := strings.TrimSpace(os.Getenv(EnvAPIBaseURL)); v != "" {
		c.API.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvStoragePath)); v != "" {
		c.Storage.Path = v
	}
}

// ResolveConfig loads the config at path when it exists, falls back to defaults otherwise,
// and applies environment overrides.
func ResolveConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := LoadConfig(path)
			if err != nil {
				return nil, err
			}
			config = loaded
		}
	}
	config.ApplyEnv(".env")
	return config, nil
}
