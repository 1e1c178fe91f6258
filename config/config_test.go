package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/masmgr/worklog-go/internal/errdefs"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Chunking.Size != 4000 {
		t.Errorf("Chunking.Size = %d, expected 4000", cfg.Chunking.Size)
	}
	if cfg.Chunking.Overlap != 200 {
		t.Errorf("Chunking.Overlap = %d, expected 200", cfg.Chunking.Overlap)
	}
	if cfg.Oracle.Model != "gpt-4-turbo" {
		t.Errorf("Oracle.Model = %q, expected %q", cfg.Oracle.Model, "gpt-4-turbo")
	}
	if cfg.Oracle.Temperature != 0.3 {
		t.Errorf("Oracle.Temperature = %f, expected 0.3", cfg.Oracle.Temperature)
	}
	if cfg.Oracle.Timeout != 2*time.Minute {
		t.Errorf("Oracle.Timeout = %s, expected 2m", cfg.Oracle.Timeout)
	}
	if cfg.Oracle.Concurrency != 4 {
		t.Errorf("Oracle.Concurrency = %d, expected 4", cfg.Oracle.Concurrency)
	}
	if cfg.Output.Format != "console" {
		t.Errorf("Output.Format = %q, expected console", cfg.Output.Format)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestLoadConfig_YAMLMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worklog.yaml")
	content := `
extract:
  author: me@example.com
chunking:
  size: 1000
oracle:
  model: gpt-4o
  timeout: 90s
filters:
  exclude:
    - "vendor/**"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Extract.Author != "me@example.com" {
		t.Errorf("Extract.Author = %q", cfg.Extract.Author)
	}
	if cfg.Chunking.Size != 1000 {
		t.Errorf("Chunking.Size = %d, expected 1000", cfg.Chunking.Size)
	}
	if cfg.Chunking.Overlap != 200 {
		t.Errorf("Chunking.Overlap = %d, expected default 200", cfg.Chunking.Overlap)
	}
	if cfg.Oracle.Model != "gpt-4o" {
		t.Errorf("Oracle.Model = %q", cfg.Oracle.Model)
	}
	if cfg.Oracle.Timeout != 90*time.Second {
		t.Errorf("Oracle.Timeout = %s, expected 90s", cfg.Oracle.Timeout)
	}
	if cfg.Oracle.Temperature != 0.3 {
		t.Errorf("Oracle.Temperature = %f, expected default 0.3", cfg.Oracle.Temperature)
	}
	if len(cfg.Filters.Exclude) != 1 || cfg.Filters.Exclude[0] != "vendor/**" {
		t.Errorf("Filters.Exclude = %v", cfg.Filters.Exclude)
	}
}

func TestLoadConfig_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worklog.json")
	content := `{"oracle": {"concurrency": 2}, "output": {"format": "markdown"}}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Oracle.Concurrency != 2 {
		t.Errorf("Oracle.Concurrency = %d, expected 2", cfg.Oracle.Concurrency)
	}
	if cfg.Output.Format != "markdown" {
		t.Errorf("Output.Format = %q, expected markdown", cfg.Output.Format)
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Chunking.Size != 4000 {
		t.Errorf("Chunking.Size = %d, expected default", cfg.Chunking.Size)
	}
}

func TestLoadConfig_Candidates(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())

	if err := os.WriteFile(filepath.Join(home, ".worklog.json"), []byte(`{"chunking": {"size": 500}}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Chunking.Size != 500 {
		t.Fatalf("Chunking.Size = %d, expected value from home config", cfg.Chunking.Size)
	}

	// A file in the working directory wins over the home directory.
	if err := os.WriteFile(".worklog.yaml", []byte("chunking:\n  size: 700\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Chunking.Size != 700 {
		t.Fatalf("Chunking.Size = %d, expected value from working directory", cfg.Chunking.Size)
	}
}

func TestLoadConfig_MalformedIsConfigurationError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("chunking: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadConfig(path)
	if !errors.Is(err, errdefs.ErrConfiguration) {
		t.Fatalf("LoadConfig error = %v, want configuration error", err)
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")
	cfg := DefaultConfig()
	cfg.Issue.Key = "owner/repo#7"
	cfg.Oracle.APIKey = "secret"

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) == "" {
		t.Fatal("saved config is empty")
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Issue.Key != "owner/repo#7" {
		t.Errorf("Issue.Key = %q", loaded.Issue.Key)
	}
	if loaded.Oracle.Timeout != 2*time.Minute {
		t.Errorf("Oracle.Timeout = %s", loaded.Oracle.Timeout)
	}
	if loaded.Oracle.APIKey != "" {
		t.Error("API key must not be persisted")
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvAPIKey, EnvBaseURL, EnvModel, EnvGitHubToken, EnvDisableSummary} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Run("EnvironmentVariables", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvAPIKey, "sk-test")
		t.Setenv(EnvModel, "gpt-4o-mini")
		t.Setenv(EnvGitHubToken, "ghp-test")

		cfg := DefaultConfig()
		if err := ApplyEnv(cfg, ""); err != nil {
			t.Fatalf("ApplyEnv: %v", err)
		}
		if cfg.Oracle.APIKey != "sk-test" {
			t.Errorf("APIKey = %q", cfg.Oracle.APIKey)
		}
		if cfg.Oracle.Model != "gpt-4o-mini" {
			t.Errorf("Model = %q", cfg.Oracle.Model)
		}
		if cfg.Issue.Token != "ghp-test" {
			t.Errorf("Token = %q", cfg.Issue.Token)
		}
		if cfg.Oracle.Disabled {
			t.Error("summary should stay enabled")
		}
	})

	t.Run("DotEnvFileBelowEnvironment", func(t *testing.T) {
		clearEnv(t)
		envFile := filepath.Join(t.TempDir(), ".env")
		content := "OPENAI_API_KEY=from-file\nOPENAI_BASE_URL=http://localhost:8080/v1\nDISABLE_SUMMARY=1\n"
		if err := os.WriteFile(envFile, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		t.Setenv(EnvAPIKey, "from-env")

		cfg := DefaultConfig()
		if err := ApplyEnv(cfg, envFile); err != nil {
			t.Fatalf("ApplyEnv: %v", err)
		}
		if cfg.Oracle.APIKey != "from-env" {
			t.Errorf("APIKey = %q, expected environment to win", cfg.Oracle.APIKey)
		}
		if cfg.Oracle.BaseURL != "http://localhost:8080/v1" {
			t.Errorf("BaseURL = %q", cfg.Oracle.BaseURL)
		}
		if !cfg.Oracle.Disabled {
			t.Error("DISABLE_SUMMARY should disable the model")
		}
		if _, ok := os.LookupEnv(EnvBaseURL); ok {
			t.Error("ApplyEnv must not modify the process environment")
		}
	})

	t.Run("MissingDotEnvIsIgnored", func(t *testing.T) {
		clearEnv(t)
		cfg := DefaultConfig()
		if err := ApplyEnv(cfg, filepath.Join(t.TempDir(), ".env")); err != nil {
			t.Fatalf("ApplyEnv: %v", err)
		}
		if cfg.Oracle.Model != "gpt-4-turbo" {
			t.Errorf("Model = %q, expected default", cfg.Oracle.Model)
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "Defaults", mutate: func(*Config) {}},
		{name: "ZeroSize", mutate: func(c *Config) { c.Chunking.Size = 0 }, wantErr: true},
		{name: "NegativeOverlap", mutate: func(c *Config) { c.Chunking.Overlap = -1 }, wantErr: true},
		{name: "OverlapEqualsSize", mutate: func(c *Config) { c.Chunking.Size = 100; c.Chunking.Overlap = 100 }, wantErr: true},
		{name: "ZeroConcurrency", mutate: func(c *Config) { c.Oracle.Concurrency = 0 }, wantErr: true},
		{name: "TemperatureTooHigh", mutate: func(c *Config) { c.Oracle.Temperature = 2.5 }, wantErr: true},
		{name: "TemperatureBoundary", mutate: func(c *Config) { c.Oracle.Temperature = 2 }},
		{name: "NegativeTimeout", mutate: func(c *Config) { c.Oracle.Timeout = -time.Second }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if !errors.Is(err, errdefs.ErrConfiguration) {
					t.Fatalf("Validate() = %v, want configuration error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestRequireAPIKey(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.RequireAPIKey(); !errors.Is(err, errdefs.ErrConfiguration) {
		t.Fatalf("RequireAPIKey() = %v, want configuration error", err)
	}
	cfg.Oracle.Disabled = true
	if err := cfg.RequireAPIKey(); err != nil {
		t.Fatalf("RequireAPIKey() with model disabled = %v", err)
	}
	cfg.Oracle.Disabled = false
	cfg.Oracle.APIKey = "sk-test"
	if err := cfg.RequireAPIKey(); err != nil {
		t.Fatalf("RequireAPIKey() with key = %v", err)
	}
}
