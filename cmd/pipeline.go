package cmd

import (
	"context"
	"time"

	"github.com/masmgr/worklog-go/internal/chunk"
	"github.com/masmgr/worklog-go/internal/document"
	"github.com/masmgr/worklog-go/internal/git"
	"github.com/masmgr/worklog-go/internal/issue"
	"github.com/masmgr/worklog-go/internal/store"
	"github.com/masmgr/worklog-go/internal/summarize"
)

// resolveWindow pins Since and Until to the day window extraction will use,
// so the report names the days that were actually read.
func (ctx *CommandContext) resolveWindow(now time.Time) error {
	window, err := git.DayWindow(ctx.Since, ctx.Until, now)
	if err != nil {
		return err
	}
	ctx.Since, ctx.Until = &window.Start, &window.End
	return nil
}

// extractCommits reads the repository at repoPath and writes the artifact.
func (ctx *CommandContext) extractCommits(c context.Context, repoPath, artifact string) (git.CommitStore, error) {
	if err := ctx.resolveWindow(time.Now()); err != nil {
		return nil, err
	}

	src, err := git.OpenRepository(repoPath)
	if err != nil {
		return nil, err
	}

	extractor := git.NewExtractor(ctx.Logger, git.WithExporter(store.FileExporter{}))
	return extractor.Extract(c, src, git.ExtractOptions{
		Author:      ctx.Config.Extract.Author,
		Since:       ctx.Since,
		Until:       ctx.Until,
		Destination: artifact,
		Include:     ctx.Config.Filters.Include,
		Exclude:     ctx.Config.Filters.Exclude,
	})
}

// summarizeArtifact loads the artifact and reduces it to per-branch summaries.
func (ctx *CommandContext) summarizeArtifact(c context.Context, artifact string) (summarize.Result, error) {
	docs, err := document.NewLoader(artifact).Load()
	if err != nil {
		return summarize.Result{}, err
	}

	splitter, err := ctx.newSplitter()
	if err != nil {
		return summarize.Result{}, err
	}
	chunks := splitter.Split(docs)
	ctx.Logger.Debug("Artifact chunked", "path", artifact, "chunks", len(chunks))

	oracle, err := ctx.newOracle()
	if err != nil {
		return summarize.Result{}, err
	}

	reducer := summarize.NewReducer(oracle,
		summarize.WithConcurrency(ctx.Config.Oracle.Concurrency),
		summarize.WithLogger(ctx.Logger))
	return reducer.Summarize(c, chunks)
}

func (ctx *CommandContext) newSplitter() (*chunk.Splitter, error) {
	opts := []chunk.Option{
		chunk.WithChunkSize(ctx.Config.Chunking.Size),
		chunk.WithChunkOverlap(ctx.Config.Chunking.Overlap),
	}
	if seps := ctx.Config.Chunking.Separators; len(seps) > 0 {
		opts = append(opts, chunk.WithSeparators(seps...))
	}
	return chunk.NewSplitter(opts...)
}

func (ctx *CommandContext) newOracle() (summarize.Oracle, error) {
	if ctx.Config.Oracle.Disabled {
		ctx.Logger.Debug("Model disabled, echoing commit text")
		return summarize.NewNoopOracle(), nil
	}
	return summarize.NewOpenAIOracle(summarize.OracleConfig{
		APIKey:      ctx.Config.Oracle.APIKey,
		BaseURL:     ctx.Config.Oracle.BaseURL,
		Model:       ctx.Config.Oracle.Model,
		Temperature: ctx.Config.Oracle.Temperature,
		Timeout:     ctx.Config.Oracle.Timeout,
	}, ctx.Logger)
}

// newGitHubClient is replaced in tests to target a local server.
var newGitHubClient = issue.NewGitHubClient

func (ctx *CommandContext) newCommenter() issue.Commenter {
	client := newGitHubClient(ctx.Config.Issue.Token)
	return issue.NewGitHubCommenter(client, ctx.Logger)
}
