package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/masmgr/worklog-go/internal/chunk"
	"github.com/masmgr/worklog-go/internal/diag"
	"github.com/masmgr/worklog-go/internal/errdefs"
)

// DefaultConcurrency is the number of branches reduced at the same time.
const DefaultConcurrency = 4

// Reducer folds each branch's chunks into a summary: the first chunk seeds it and
// every later chunk refines it, one oracle call per chunk.
type Reducer struct {
	oracle      Oracle
	concurrency int
	logger      *slog.Logger
}

// Option configures a Reducer.
type Option func(*Reducer)

// WithConcurrency bounds how many branches are reduced at once. Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(r *Reducer) {
		if n >= 1 {
			r.concurrency = n
		}
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reducer) { r.logger = diag.OrDiscard(l) }
}

// NewReducer creates a reducer calling oracle.
func NewReducer(oracle Oracle, opts ...Option) *Reducer {
	r := &Reducer{
		oracle:      oracle,
		concurrency: DefaultConcurrency,
		logger:      diag.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type branchChunks struct {
	name   string
	chunks []chunk.Chunk
}

// Summarize reduces chunks branch by branch. Branches run concurrently; the steps
// within a branch run in order. Any failure aborts the run and no summary is kept.
func (r *Reducer) Summarize(ctx context.Context, chunks []chunk.Chunk) (Result, error) {
	if len(chunks) == 0 {
		r.logger.Info("Nothing to summarize")
		return Result{Kind: ResultEmpty}, nil
	}

	branches := partition(chunks)
	r.logger.Debug("Summarizing", "branches", len(branches), "chunks", len(chunks), "concurrency", r.concurrency)

	var (
		mu        sync.Mutex
		summaries = make(map[string]BranchSummary, len(branches))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for _, b := range branches {
		g.Go(func() error {
			summary, err := r.reduceBranch(gctx, b)
			if err != nil {
				return err
			}
			mu.Lock()
			summaries[b.name] = summary
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		err = errdefs.New(errdefs.KindSummarization, "summarize", err)
		r.logger.Error("Summarization failed", "error", err)
		return Result{Kind: ResultFailed, Err: err}, err
	}

	return Result{Kind: ResultSummaries, Summaries: summaries}, nil
}

func (r *Reducer) reduceBranch(ctx context.Context, b branchChunks) (BranchSummary, error) {
	logger := r.logger.With("branch", b.name)

	prompt, err := InitialPrompt(b.chunks[0].Text)
	if err != nil {
		return BranchSummary{}, fmt.Errorf("branch %s: render initial prompt: %w", b.name, err)
	}
	running, err := r.complete(ctx, b.name, 0, prompt)
	if err != nil {
		return BranchSummary{}, err
	}
	logger.Debug("Seeded summary", "step", 1, "of", len(b.chunks))

	_, echo := r.oracle.(echoer)
	for i, c := range b.chunks[1:] {
		text := c.Text
		if echo {
			text = c.Fresh()
		}
		prompt, err := RefinePrompt(running, text)
		if err != nil {
			return BranchSummary{}, fmt.Errorf("branch %s: render refine prompt: %w", b.name, err)
		}
		running, err = r.complete(ctx, b.name, i+1, prompt)
		if err != nil {
			return BranchSummary{}, err
		}
		logger.Debug("Refined summary", "step", i+2, "of", len(b.chunks))
	}

	return BranchSummary{Branch: b.name, Summary: running, Chunks: len(b.chunks)}, nil
}

func (r *Reducer) complete(ctx context.Context, branch string, step int, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	out, err := r.oracle.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("branch %s step %d: %w", branch, step+1, err)
	}
	if strings.TrimSpace(out) == "" {
		return "", fmt.Errorf("branch %s step %d: oracle returned an empty summary", branch, step+1)
	}
	return out, nil
}

// partition groups chunks by branch, keeping first-seen branch order and input
// order within a branch.
func partition(chunks []chunk.Chunk) []branchChunks {
	index := make(map[string]int)
	var out []branchChunks
	for _, c := range chunks {
		name := c.Metadata.Branch
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, branchChunks{name: name})
		}
		out[i].chunks = append(out[i].chunks, c)
	}
	return out
}
