package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.API.BaseURL != "http://localhost:3000" {
			t.Errorf("expected base URL http://localhost:3000, got %s", config.API.BaseURL)
		}

		if config.API.PageSize != 8 {
			t.Errorf("expected page size 8, got %d", config.API.PageSize)
		}

		if config.Storage.Path != "./reel.db" {
			t.Errorf("expected storage path ./reel.db, got %s", config.Storage.Path)
		}

		if config.Preview.MaxSize != 320 {
			t.Errorf("expected preview max size 320, got %d", config.Preview.MaxSize)
		}

		if config.Export.RateLimit != 5.0 {
			t.Errorf("expected export rate limit 5, got %v", config.Export.RateLimit)
		}

		if config.Export.Workers != 2 {
			t.Errorf("expected 2 export workers, got %d", config.Export.Workers)
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should be valid: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Storage.Path != DefaultConfig().Storage.Path {
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
page_size = 12

[storage]
path = "/custom/reel.db"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.API.BaseURL != "https://movies.example.com" {
			t.Errorf("expected base URL https://movies.example.com, got %s", config.API.BaseURL)
		}

		if config.API.PageSize != 12 {
			t.Errorf("expected page size 12, got %d", config.API.PageSize)
		}

		if config.Storage.Path != "/custom/reel.db" {
			t.Errorf("expected storage path /custom/reel.db, got %s", config.Storage.Path)
		}

		if config.Log.Level != "info" {
			t.Errorf("expected unset log level to keep default, got %q", config.Log.Level)
		}
	})

	t.Run("LoadConfig Rejects Invalid Values", func(t *testing.T) {
		tt := []struct {
			name string
			body string
		}{
			{name: "relative base url", body: "[api]\nbase_url = \"localhost\"\n"},
			{name: "zero page size", body: "[api]\npage_size = 0\n"},
			{name: "malformed toml", body: "[api\nbase_url = 1"},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				configPath := filepath.Join(t.TempDir(), "config.toml")
				if err := os.WriteFile(configPath, []byte(tc.body), 0644); err != nil {
					t.Fatalf("failed to write test config: %v", err)
				}

				_, err := LoadConfig(configPath)
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
			})
		}
	})

	t.Run("SetBaseURL", func(t *testing.T) {
		config := DefaultConfig()

		config.SetBaseURL("  https://api.example.com/ ")
		if config.API.BaseURL != "https://api.example.com" {
			t.Errorf("expected trimmed base URL, got %s", config.API.BaseURL)
		}

		config.SetBaseURL("")
		if config.API.BaseURL != "https://api.example.com" {
			t.Errorf("empty override should keep base URL, got %s", config.API.BaseURL)
		}
	})
}
