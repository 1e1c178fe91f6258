// Package diag builds the per-run diagnostics logger handed to each pipeline component.
package diag

import (
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// Options controls logger verbosity and destination.
type Options struct {
	Verbose bool
	Quiet   bool
	Writer  io.Writer // defaults to os.Stderr
	RunID   string    // generated when empty
}

// New creates a logger for a single run. Quiet wins over Verbose.
func New(opts Options) *slog.Logger {
	if opts.Quiet {
		return Discard()
	}

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}

	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Progress output reads better without timestamps.
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	})
	return slog.New(handler).With("run_id", runID)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
