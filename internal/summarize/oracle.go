// Package summarize reduces commit chunks into one work-log summary per branch.
package summarize

import (
	"context"
	"strings"
)

// Oracle turns a prompt into generated text.
type Oracle interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// OracleFunc adapts a function to Oracle.
type OracleFunc func(ctx context.Context, prompt string) (string, error)

// Complete calls f.
func (f OracleFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// echoer is implemented by oracles that reproduce chunk text instead of
// summarizing it. Their refine prompts carry only the fresh part of a chunk.
type echoer interface {
	echoesInput()
}

// NoopOracle provides a fallback implementation that returns the raw commit text
// of each prompt without calling a model. Refinements append the new text to the
// running summary on a new line.
type NoopOracle struct{}

// NewNoopOracle creates a new no-op oracle.
func NewNoopOracle() *NoopOracle {
	return &NoopOracle{}
}

// Complete returns the text sections of the prompt.
func (n *NoopOracle) Complete(_ context.Context, prompt string) (string, error) {
	if existing, text, ok := parseRefinePrompt(prompt); ok {
		return strings.TrimSpace(existing + "\n" + text), nil
	}
	if text, ok := parseInitialPrompt(prompt); ok {
		return strings.TrimSpace(text), nil
	}
	return strings.TrimSpace(prompt), nil
}

func (n *NoopOracle) echoesInput() {}

var (
	_ echoer = (*NoopOracle)(nil)
	_ Oracle = OracleFunc(nil)
	_ Oracle = (*NoopOracle)(nil)
	_ Oracle = (*LLMOracle)(nil)
)
