package git

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/masmgr/worklog-go/internal/diag"
	"github.com/masmgr/worklog-go/internal/errdefs"
)

// Exporter persists a CommitStore to a destination, replacing any previous content.
type Exporter interface {
	Export(store CommitStore, destination string) error
}

// ExporterFunc adapts a function to Exporter.
type ExporterFunc func(store CommitStore, destination string) error

// Export calls f.
func (f ExporterFunc) Export(store CommitStore, destination string) error {
	return f(store, destination)
}

// Extractor selects a developer's commits on every branch within a day window.
type Extractor struct {
	logger   *slog.Logger
	exporter Exporter
	now      func() time.Time
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithExporter sets the exporter used when ExtractOptions.Destination is set.
func WithExporter(exp Exporter) ExtractorOption {
	return func(e *Extractor) { e.exporter = exp }
}

// WithClock overrides the clock used to resolve the default window.
func WithClock(now func() time.Time) ExtractorOption {
	return func(e *Extractor) { e.now = now }
}

// NewExtractor creates an extractor logging to logger.
func NewExtractor(logger *slog.Logger, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		logger: diag.OrDiscard(logger),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract walks every branch of src and returns the commits authored by the resolved
// author within the resolved window. Every branch gets an entry, possibly empty.
func (e *Extractor) Extract(ctx context.Context, src RepositorySource, opts ExtractOptions) (CommitStore, error) {
	author, err := e.resolveAuthor(src, opts.Author)
	if err != nil {
		return nil, err
	}

	window, err := DayWindow(opts.Since, opts.Until, e.now())
	if err != nil {
		return nil, err
	}

	filter, err := newPathFilter(opts.Include, opts.Exclude)
	if err != nil {
		return nil, errdefs.New(errdefs.KindConfiguration, "path filters", err)
	}

	e.logger.Debug("Extracting commits",
		"author", author,
		"since", window.Start.Format(time.RFC3339),
		"until", window.End.Format(time.RFC3339))

	branches, err := src.Branches(ctx)
	if err != nil {
		return nil, errdefs.New(errdefs.KindIO, "list branches", err)
	}

	authorKey := AuthorInfo{Email: author}.ContributorKey()
	store := make(CommitStore, len(branches))

	for _, branch := range branches {
		e.logger.Debug("Branch", "branch", branch)

		infos, err := src.Commits(ctx, branch, window)
		if err != nil {
			return nil, errdefs.New(errdefs.KindIO, "read branch "+branch, err)
		}

		commits := make([]Commit, 0, len(infos))
		for _, info := range infos {
			if info.Author.ContributorKey() != authorKey || !window.Contains(info.When) {
				continue
			}

			commit, err := e.extractCommit(ctx, src, filter, author, info)
			if err != nil {
				return nil, err
			}
			commits = append(commits, commit)
		}

		e.logger.Debug("Branch extracted", "branch", branch, "commits", len(commits))
		store[branch] = commits
	}

	if opts.Destination != "" {
		if e.exporter == nil {
			return nil, errdefs.Newf(errdefs.KindConfiguration, "export", "no exporter configured for %s", opts.Destination)
		}
		if err := e.exporter.Export(store, opts.Destination); err != nil {
			return nil, err
		}
		e.logger.Debug("Commit data exported", "path", opts.Destination, "commits", store.TotalCommits())
	}

	return store, nil
}

func (e *Extractor) resolveAuthor(src RepositorySource, author string) (string, error) {
	author = strings.TrimSpace(author)
	if author != "" {
		return author, nil
	}

	configured, err := src.DefaultAuthor()
	if err != nil {
		return "", errdefs.New(errdefs.KindConfiguration, "resolve author", err)
	}
	if configured == "" {
		return "", errdefs.New(errdefs.KindConfiguration, "resolve author",
			errors.New("no author email given and user.email is not configured"))
	}
	return configured, nil
}

// extractCommit records info under the resolved author, whatever casing the commit used.
func (e *Extractor) extractCommit(ctx context.Context, src RepositorySource, filter *pathFilter, author string, info CommitInfo) (Commit, error) {
	details, err := src.Diff(ctx, info.SHA)
	if err != nil {
		return Commit{}, errdefs.New(errdefs.KindIO, "diff commit "+info.SHA, err)
	}

	details, err = filter.apply(details)
	if err != nil {
		return Commit{}, errdefs.New(errdefs.KindConfiguration, "path filters", err)
	}
	if details == nil {
		details = []DiffDetail{}
	}

	commit := Commit{
		Timestamp:   Timestamp{Time: info.When.In(time.Local)},
		Author:      author,
		Comment:     strings.TrimSpace(info.Message),
		DiffDetails: details,
	}

	e.logger.Debug("Commit",
		"sha", info.SHA,
		"timestamp", commit.Timestamp.String(),
		"comment", firstLine(commit.Comment),
		"changes", len(details))
	for _, d := range details {
		e.logger.Debug("Change", "type", string(d.ChangeType), "path", d.Path(), "diffBytes", len(d.Diff))
	}

	return commit, nil
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx != -1 {
		return s[:idx]
	}
	return s
}
