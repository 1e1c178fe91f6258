package git

import "context"

// RepositorySource is a read-only view of a Git repository.
// This abstraction allows the extractor to be tested without a real repository.
type RepositorySource interface {
	// Branches returns the local branch names.
	Branches(ctx context.Context) ([]string, error)

	// Commits returns the commits reachable from branch whose commit time lies in w, newest first.
	Commits(ctx context.Context, branch string, w Window) ([]CommitInfo, error)

	// Diff returns the changes of the commit against its first parent.
	// A commit without parents has no changes.
	Diff(ctx context.Context, sha string) ([]DiffDetail, error)

	// DefaultAuthor returns the configured user.email, or "" if none is set.
	DefaultAuthor() (string, error)
}

// Compile-time interface conformance check.
var _ RepositorySource = (*GoGitSource)(nil)
