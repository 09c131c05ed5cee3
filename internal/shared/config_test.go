package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Storage.Path != "./reelx.db" {
			t.Errorf("expected storage path ./reelx.db, got %s", config.Storage.Path)
		}

		if config.Storage.Namespace != "reelx-storage" {
			t.Errorf("expected namespace reelx-storage, got %s", config.Storage.Namespace)
		}

		if config.API.BaseURL != "http://localhost:3000" {
			t.Errorf("expected base URL http://localhost:3000, got %s", config.API.BaseURL)
		}

		if config.API.Timeout() != 10*time.Second {
			t.Errorf("expected 10s timeout, got %v", config.API.Timeout())
		}
	})

	t.Run("Timeout defaults when unset", func(t *testing.T) {
		c := APIConfig{}
		if c.Timeout() != 10*time.Second {
			t.Errorf("expected 10s default, got %v", c.Timeout())
		}

		c.TimeoutSeconds = 3
		if c.Timeout() != 3*time.Second {
			t.Errorf("expected 3s, got %v", c.Timeout())
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Storage.Path != defaultConfig.Storage.Path {
			t.Errorf("created config storage path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[api]
base_url = "https://movies.example.com"
timeout_seconds = 5
rate_limit = 2.5

[storage]
path = "/custom/path.db"
namespace = "custom"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.API.BaseURL != "https://movies.example.com" {
			t.Errorf("expected custom base URL, got %s", config.API.BaseURL)
		}
		if config.API.RateLimit != 2.5 {
			t.Errorf("expected rate limit 2.5, got %v", config.API.RateLimit)
		}
		if config.Storage.Path != "/custom/path.db" {
			t.Errorf("expected storage path /custom/path.db, got %s", config.Storage.Path)
		}
		if config.Mock.Addr != "127.0.0.1:3000" {
			t.Errorf("expected unset sections to keep defaults, got mock addr %q", config.Mock.Addr)
		}
	})

	t.Run("LoadConfig with invalid TOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[api\nbase_url ="), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		t.Setenv(EnvAPIBaseURL, "http://env.example.com")
		t.Setenv(EnvStoragePath, "/env/reelx.db")

		config := DefaultConfig()
		config.ApplyEnv(filepath.Join(t.TempDir(), "missing.env"))

		if config.API.BaseURL != "http://env.example.com" {
			t.Errorf("expected env base URL, got %s", config.API.BaseURL)
		}
		if config.Storage.Path != "/env/reelx.db" {
			t.Errorf("expected env storage path, got %s", config.Storage.Path)
		}
	})

	t.Run("ApplyEnv reads dotenv file", func(t *testing.T) {
		t.Setenv(EnvAPIBaseURL, "")
		envPath := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(envPath, []byte("REELX_STORAGE_PATH=/dotenv/reelx.db\n"), 0644); err != nil {
			t.Fatalf("failed to write env file: %v", err)
		}
		t.Cleanup(func() { os.Unsetenv(EnvStoragePath) })

		config := DefaultConfig()
		config.ApplyEnv(envPath)

		if config.Storage.Path != "/dotenv/reelx.db" {
			t.Errorf("expected dotenv storage path, got %s", config.Storage.Path)
		}
		if config.API.BaseURL != "http://localhost:3000" {
			t.Errorf("expected default base URL to survive empty env, got %s", config.API.BaseURL)
		}
	})
}
