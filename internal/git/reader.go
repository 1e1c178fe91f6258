package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/format/diff"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"

	"github.com/masmgr/worklog-go/internal/errdefs"
)

// GoGitSource reads a repository through go-git.
type GoGitSource struct {
	repo *git.Repository
}

// OpenRepository opens the repository at path, searching parent directories for .git.
func OpenRepository(path string) (*GoGitSource, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errdefs.New(errdefs.KindIO, "open repository "+path, err)
	}
	return NewGoGitSource(repo), nil
}

// NewGoGitSource wraps an already opened repository.
func NewGoGitSource(repo *git.Repository) *GoGitSource {
	return &GoGitSource{repo: repo}
}

// Branches returns the local branch names in sorted order.
func (s *GoGitSource) Branches(ctx context.Context) ([]string, error) {
	iter, err := s.repo.Branches()
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	defer iter.Close()

	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		names = append(names, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(names)
	return names, nil
}

// Commits returns the commits of branch committed within w, newest first.
func (s *GoGitSource) Commits(ctx context.Context, branch string, w Window) ([]CommitInfo, error) {
	ref, err := s.repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	if err != nil {
		return nil, fmt.Errorf("resolve branch %s: %w", branch, err)
	}

	since, until := w.Start, w.End
	cIter, err := s.repo.Log(&git.LogOptions{
		From:  ref.Hash(),
		Order: git.LogOrderCommitterTime,
		Since: &since,
		Until: &until,
	})
	if err != nil {
		return nil, fmt.Errorf("log branch %s: %w", branch, err)
	}
	defer cIter.Close()

	var results []CommitInfo
	err = cIter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		results = append(results, CommitInfo{
			SHA:     c.Hash.String(),
			When:    c.Committer.When,
			Author:  AuthorInfo{Name: c.Author.Name, Email: c.Author.Email},
			Message: c.Message,
			Parents: c.NumParents(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return results, nil
}

// Diff returns one DiffDetail per path changed between the commit and its first parent.
func (s *GoGitSource) Diff(ctx context.Context, sha string) ([]DiffDetail, error) {
	c, err := s.repo.CommitObject(plumbing.NewHash(sha))
	if err != nil {
		return nil, fmt.Errorf("load commit %s: %w", sha, err)
	}

	// Root commits have nothing to diff against.
	if c.NumParents() == 0 {
		return nil, nil
	}

	parent, err := c.Parent(0)
	if err != nil {
		return nil, fmt.Errorf("load parent of %s: %w", sha, err)
	}
	parentTree, err := parent.Tree()
	if err != nil {
		return nil, err
	}
	tree, err := c.Tree()
	if err != nil {
		return nil, err
	}

	changes, err := object.DiffTreeWithOptions(ctx, parentTree, tree, object.DefaultDiffTreeOptions)
	if err != nil {
		return nil, fmt.Errorf("diff %s: %w", sha, err)
	}

	details := make([]DiffDetail, 0, len(changes))
	for _, change := range changes {
		detail, err := diffDetail(ctx, change)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}

	return details, nil
}

// DefaultAuthor returns user.email merged from local, global and system config.
func (s *GoGitSource) DefaultAuthor() (string, error) {
	cfg, err := s.repo.ConfigScoped(gitconfig.SystemScope)
	if err != nil {
		return "", fmt.Errorf("read git config: %w", err)
	}
	return strings.TrimSpace(cfg.User.Email), nil
}

func diffDetail(ctx context.Context, change *object.Change) (DiffDetail, error) {
	action, err := change.Action()
	if err != nil {
		return DiffDetail{}, err
	}

	detail := DiffDetail{
		ChangeType: changeTypeOf(action, change.From, change.To),
		OldPath:    pathPtr(change.From.Name),
		NewPath:    pathPtr(change.To.Name),
	}

	patch, err := change.PatchContext(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return DiffDetail{}, err
		}
		// A patch that cannot be produced degrades to empty diff text.
		return detail, nil
	}
	detail.Diff = encodePatch(patch)

	return detail, nil
}

func changeTypeOf(action merkletrie.Action, from, to object.ChangeEntry) ChangeType {
	switch action {
	case merkletrie.Insert:
		return ChangeTypeAdded
	case merkletrie.Delete:
		return ChangeTypeDeleted
	}

	if from.Name != to.Name {
		return ChangeTypeRenamed
	}
	if isSymlink(from.TreeEntry.Mode) != isSymlink(to.TreeEntry.Mode) ||
		isSubmodule(from.TreeEntry.Mode) != isSubmodule(to.TreeEntry.Mode) {
		return ChangeTypeTypeChanged
	}
	return ChangeTypeModified
}

func isSymlink(m filemode.FileMode) bool   { return m == filemode.Symlink }
func isSubmodule(m filemode.FileMode) bool { return m == filemode.Submodule }

// encodePatch renders the hunks of a patch as unified diff text.
// Binary and non UTF-8 content yield "".
func encodePatch(patch diff.Patch) string {
	for _, fp := range patch.FilePatches() {
		if fp.IsBinary() {
			return ""
		}
	}

	var buf bytes.Buffer
	if err := diff.NewUnifiedEncoder(&buf, diff.DefaultContextLines).Encode(patch); err != nil {
		return ""
	}

	text := stripDiffHeader(buf.String())
	if !utf8.ValidString(text) {
		return ""
	}
	return text
}

// stripDiffHeader drops the "diff --git", index and ---/+++ lines, which carry paths.
func stripDiffHeader(s string) string {
	if strings.HasPrefix(s, "@@") {
		return s
	}
	idx := strings.Index(s, "\n@@")
	if idx == -1 {
		return ""
	}
	return s[idx+1:]
}
