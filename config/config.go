package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/masmgr/worklog-go/internal/chunk"
	"github.com/masmgr/worklog-go/internal/errdefs"
	"github.com/masmgr/worklog-go/internal/summarize"
)

// Environment variables read by ApplyEnv.
const (
	EnvAPIKey         = "OPENAI_API_KEY"
	EnvBaseURL        = "OPENAI_BASE_URL"
	EnvModel          = "WORKLOG_MODEL"
	EnvGitHubToken    = "GITHUB_TOKEN"
	EnvDisableSummary = "DISABLE_SUMMARY"
)

// Config is the root configuration structure.
type Config struct {
	Extract  ExtractConfig  `yaml:"extract"`
	Chunking ChunkingConfig `yaml:"chunking"`
	Oracle   OracleConfig   `yaml:"oracle"`
	Issue    IssueConfig    `yaml:"issue"`
	Filters  FilterConfig   `yaml:"filters"`
	Output   OutputConfig   `yaml:"output"`
}

// ExtractConfig holds commit extraction defaults.
type ExtractConfig struct {
	Author string `yaml:"author"` // Falls back to the repository's user.email
}

// ChunkingConfig holds text splitting options.
type ChunkingConfig struct {
	Size       int      `yaml:"size"`
	Overlap    int      `yaml:"overlap"`
	Separators []string `yaml:"separators"` // Empty uses the built-in hierarchy
}

// OracleConfig holds language model options.
type OracleConfig struct {
	Model       string        `yaml:"model"`
	BaseURL     string        `yaml:"baseURL"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
	Concurrency int           `yaml:"concurrency"` // Branches summarized in parallel
	Disabled    bool          `yaml:"disabled"`    // Echo commit text instead of calling the model

	APIKey string `yaml:"-"` // Environment only
}

// IssueConfig holds issue tracker options.
type IssueConfig struct {
	Key string `yaml:"key"` // Default owner/repo#N to comment on

	Token string `yaml:"-"` // Environment only
}

// FilterConfig holds file path filtering options.
type FilterConfig struct {
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

// OutputConfig holds summary report options.
type OutputConfig struct {
	Format string `yaml:"format"`
	Path   string `yaml:"path"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Chunking: ChunkingConfig{
			Size:    chunk.DefaultChunkSize,
			Overlap: chunk.DefaultChunkOverlap,
		},
		Oracle: OracleConfig{
			Model:       summarize.DefaultModel,
			Temperature: summarize.DefaultTemperature,
			Timeout:     summarize.DefaultCallTimeout,
			Concurrency: summarize.DefaultConcurrency,
		},
		Filters: FilterConfig{
			Include: []string{},
			Exclude: []string{},
		},
		Output: OutputConfig{
			Format: "console",
		},
	}
}

// candidatePaths lists the files LoadConfig looks for when no path is given.
func candidatePaths() []string {
	names := []string{".worklog.yaml", ".worklog.json"}
	candidates := append([]string{}, names...)

	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = os.Getenv("HOME")
	}
	if home != "" {
		for _, name := range names {
			candidates = append(candidates, filepath.Join(home, name))
		}
	}
	return candidates
}

// LoadConfig loads configuration from a file, merging with defaults.
// YAML and JSON files are both accepted.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		for _, p := range candidatePaths() {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, errdefs.New(errdefs.KindConfiguration, "read config "+path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errdefs.New(errdefs.KindConfiguration, "parse config "+path, err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to a file as YAML.
func SaveConfig(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overlays credentials and model settings from the environment.
// A .env file at envFile is read when present; real environment variables
// take precedence over it. The process environment is not modified.
func ApplyEnv(cfg *Config, envFile string) error {
	fileVars := map[string]string{}
	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			fileVars = vars
		case errors.Is(err, fs.ErrNotExist):
		default:
			return errdefs.New(errdefs.KindConfiguration, "read "+envFile, err)
		}
	}

	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return fileVars[key]
	}

	if v := lookup(EnvAPIKey); v != "" {
		cfg.Oracle.APIKey = v
	}
	if v := lookup(EnvBaseURL); v != "" {
		cfg.Oracle.BaseURL = v
	}
	if v := lookup(EnvModel); v != "" {
		cfg.Oracle.Model = v
	}
	if v := lookup(EnvGitHubToken); v != "" {
		cfg.Issue.Token = v
	}
	if lookup(EnvDisableSummary) != "" {
		cfg.Oracle.Disabled = true
	}
	return nil
}

// Validate checks option ranges.
func (c *Config) Validate() error {
	const op = "validate config"
	switch {
	case c.Chunking.Size <= 0:
		return errdefs.Newf(errdefs.KindConfiguration, op, "chunking.size must be positive, got %d", c.Chunking.Size)
	case c.Chunking.Overlap < 0:
		return errdefs.Newf(errdefs.KindConfiguration, op, "chunking.overlap must not be negative, got %d", c.Chunking.Overlap)
	case c.Chunking.Overlap >= c.Chunking.Size:
		return errdefs.Newf(errdefs.KindConfiguration, op, "chunking.overlap (%d) must be smaller than chunking.size (%d)", c.Chunking.Overlap, c.Chunking.Size)
	case c.Oracle.Concurrency < 1:
		return errdefs.Newf(errdefs.KindConfiguration, op, "oracle.concurrency must be at least 1, got %d", c.Oracle.Concurrency)
	case c.Oracle.Temperature < 0 || c.Oracle.Temperature > 2:
		return errdefs.Newf(errdefs.KindConfiguration, op, "oracle.temperature must be within [0, 2], got %g", c.Oracle.Temperature)
	case c.Oracle.Timeout < 0:
		return errdefs.Newf(errdefs.KindConfiguration, op, "oracle.timeout must not be negative, got %s", c.Oracle.Timeout)
	}
	return nil
}

// RequireAPIKey reports a configuration error when the model is enabled
// without credentials.
func (c *Config) RequireAPIKey() error {
	if c.Oracle.Disabled || c.Oracle.APIKey != "" {
		return nil
	}
	return errdefs.Newf(errdefs.KindConfiguration, "configure oracle", "%s environment variable is required (or pass --no-ai)", EnvAPIKey)
}
