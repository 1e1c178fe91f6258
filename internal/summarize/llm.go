package summarize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/masmgr/worklog-go/internal/diag"
	"github.com/masmgr/worklog-go/internal/errdefs"
)

const (
	DefaultModel       = "gpt-4-turbo"
	DefaultTemperature = 0.3
	DefaultCallTimeout = 2 * time.Minute
)

// OracleConfig configures an OpenAI-compatible chat model.
type OracleConfig struct {
	APIKey      string
	BaseURL     string // empty uses the OpenAI endpoint
	Model       string
	Temperature float64
	Timeout     time.Duration // per call
}

// LLMOracle implements Oracle on a langchaingo model.
type LLMOracle struct {
	model       llms.Model
	name        string
	temperature float64
	timeout     time.Duration
	logger      *slog.Logger
}

// NewOpenAIOracle creates an oracle backed by the OpenAI chat completions API.
func NewOpenAIOracle(cfg OracleConfig, logger *slog.Logger) (*LLMOracle, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errdefs.New(errdefs.KindConfiguration, "openai oracle", errors.New("OPENAI_API_KEY is not set"))
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	model, err := openai.New(opts...)
	if err != nil {
		return nil, errdefs.New(errdefs.KindConfiguration, "openai oracle", err)
	}
	return NewLLMOracle(model, cfg.Model, cfg.Temperature, cfg.Timeout, logger), nil
}

// NewLLMOracle wraps an existing langchaingo model.
func NewLLMOracle(model llms.Model, name string, temperature float64, timeout time.Duration, logger *slog.Logger) *LLMOracle {
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	return &LLMOracle{
		model:       model,
		name:        name,
		temperature: temperature,
		timeout:     timeout,
		logger:      diag.OrDiscard(logger),
	}
}

// Complete sends prompt to the model and returns the trimmed completion.
func (o *LLMOracle) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	o.logger.Debug("Oracle request", "model", o.name, "temperature", o.temperature, "promptLength", len(prompt))

	start := time.Now()
	out, err := llms.GenerateFromSinglePrompt(ctx, o.model, prompt, llms.WithTemperature(o.temperature))
	if err != nil {
		o.logger.Debug("Oracle request failed", "model", o.name, "error", err)
		return "", fmt.Errorf("%s completion failed: %w", o.name, err)
	}

	out = strings.TrimSpace(out)
	o.logger.Debug("Oracle request succeeded", "model", o.name, "elapsed", time.Since(start), "outputLength", len(out))
	return out, nil
}
