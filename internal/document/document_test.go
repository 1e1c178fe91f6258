package document

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masmgr/worklog-go/internal/errdefs"
	"github.com/masmgr/worklog-go/internal/git"
	"github.com/masmgr/worklog-go/internal/store"
)

func strPtr(s string) *string { return &s }

func commitAt(hour int, comment string, details ...git.DiffDetail) git.Commit {
	if details == nil {
		details = []git.DiffDetail{}
	}
	return git.Commit{
		Timestamp:   git.Timestamp{Time: time.Date(2024, time.May, 2, hour, 0, 0, 0, time.Local)},
		Author:      "me@example.com",
		Comment:     comment,
		DiffDetails: details,
	}
}

func writeArtifact(t *testing.T, s git.CommitStore) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "commits.json")
	require.NoError(t, store.Export(s, path))
	return path
}

func TestLoader_SingleCommit(t *testing.T) {
	path := writeArtifact(t, git.CommitStore{
		"main": {commitAt(10, "fix bug", git.DiffDetail{
			ChangeType: git.ChangeTypeModified,
			OldPath:    strPtr("f.py"),
			NewPath:    strPtr("f.py"),
			Diff:       "@@ -1 +1 @@\n-1\n+2\n",
		})},
	})

	docs, err := NewLoader(path).LoadAll()
	require.NoError(t, err)
	require.Len(t, docs, 1)

	doc := docs[0]
	assert.Equal(t, "Timestamp: 2024-05-02 10:00\nComment: fix bug\nDiffs:\nChange Type: M\nDiff:\n@@ -1 +1 @@\n-1\n+2\n\n", doc.Content)
	assert.Contains(t, doc.Content, "fix bug")
	assert.Contains(t, doc.Content, "Change Type: M")
	assert.NotContains(t, doc.Content, "f.py")
	assert.Equal(t, Metadata{Source: path, Branch: "main", Index: 0}, doc.Metadata)
}

func TestLoader_EmptyStore(t *testing.T) {
	path := writeArtifact(t, git.CommitStore{"main": {}, "develop": {}})

	docs, err := NewLoader(path).LoadAll()
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestLoader_IndicesAndOrder(t *testing.T) {
	path := writeArtifact(t, git.CommitStore{
		"main":    {commitAt(12, "m0"), commitAt(11, "m1"), commitAt(10, "m2")},
		"develop": {commitAt(9, "d0"), commitAt(8, "d1")},
	})

	docs, err := NewLoader(path).LoadAll()
	require.NoError(t, err)
	require.Len(t, docs, 5)

	expected := []Metadata{
		{Source: path, Branch: "develop", Index: 0},
		{Source: path, Branch: "develop", Index: 1},
		{Source: path, Branch: "main", Index: 0},
		{Source: path, Branch: "main", Index: 1},
		{Source: path, Branch: "main", Index: 2},
	}
	for i, doc := range docs {
		assert.Equal(t, expected[i], doc.Metadata, "document %d", i)
	}
	assert.Contains(t, docs[2].Content, "Comment: m0")
}

func TestLoader_SequenceIsRestartable(t *testing.T) {
	path := writeArtifact(t, git.CommitStore{
		"main": {commitAt(12, "a"), commitAt(11, "b")},
	})

	seq, err := NewLoader(path).Load()
	require.NoError(t, err)

	var first, second []Document
	for d := range seq {
		first = append(first, d)
	}
	for d := range seq {
		second = append(second, d)
	}
	assert.Equal(t, first, second)

	// Early exit stops the walk.
	n := 0
	for range seq {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestLoader_MissingArtifact(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "absent.json")).Load()
	require.ErrorIs(t, err, errdefs.ErrNotFound)
}

func TestRender_MultipleDiffs(t *testing.T) {
	c := commitAt(10, "rename and add",
		git.DiffDetail{ChangeType: git.ChangeTypeRenamed, OldPath: strPtr("old.go"), NewPath: strPtr("new.go")},
		git.DiffDetail{ChangeType: git.ChangeTypeAdded, NewPath: strPtr("logo.png")},
	)

	got := Render(c)
	assert.Equal(t, "Timestamp: 2024-05-02 10:00\nComment: rename and add\nDiffs:\n"+
		"Change Type: R\nDiff:\n\n"+
		"Change Type: A\nDiff:\n\n", got)
	assert.NotContains(t, got, "old.go")
	assert.NotContains(t, got, "logo.png")
}
