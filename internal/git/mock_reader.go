package git

import (
	"context"
	"fmt"
	"sort"
)

// MockCommit is a commit served by MockSource.
type MockCommit struct {
	Info  CommitInfo
	Diffs []DiffDetail
}

// MockSource is a test double for GoGitSource.
// It allows tests to provide predefined commit data without needing a real Git repository.
type MockSource struct {
	// BranchCommits lists each branch's commits, newest first.
	BranchCommits map[string][]MockCommit
	Author        string
	Error         error

	// DiffCalls counts Diff invocations per SHA.
	DiffCalls map[string]int
}

// NewMockSource creates a new MockSource with the given data.
func NewMockSource(branches map[string][]MockCommit, author string) *MockSource {
	return &MockSource{
		BranchCommits: branches,
		Author:        author,
		DiffCalls:     make(map[string]int),
	}
}

// Branches returns the branch names in sorted order.
func (m *MockSource) Branches(_ context.Context) ([]string, error) {
	if m.Error != nil {
		return nil, m.Error
	}
	names := make([]string, 0, len(m.BranchCommits))
	for name := range m.BranchCommits {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Commits returns the branch's commits that fall within w.
func (m *MockSource) Commits(_ context.Context, branch string, w Window) ([]CommitInfo, error) {
	commits, ok := m.BranchCommits[branch]
	if !ok {
		return nil, fmt.Errorf("unknown branch %q", branch)
	}
	var infos []CommitInfo
	for _, c := range commits {
		if w.Contains(c.Info.When) {
			infos = append(infos, c.Info)
		}
	}
	return infos, nil
}

// Diff returns the predefined diffs of the commit with the given SHA.
func (m *MockSource) Diff(_ context.Context, sha string) ([]DiffDetail, error) {
	if m.DiffCalls == nil {
		m.DiffCalls = make(map[string]int)
	}
	m.DiffCalls[sha]++
	for _, commits := range m.BranchCommits {
		for _, c := range commits {
			if c.Info.SHA == sha {
				return c.Diffs, nil
			}
		}
	}
	return nil, fmt.Errorf("unknown commit %q", sha)
}

// DefaultAuthor returns the predefined author.
func (m *MockSource) DefaultAuthor() (string, error) {
	return m.Author, nil
}

// Compile-time interface conformance check.
var _ RepositorySource = (*MockSource)(nil)
