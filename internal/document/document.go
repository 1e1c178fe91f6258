// Package document renders persisted commit data into plain-text documents.
package document

import (
	"iter"
	"strings"

	"github.com/masmgr/worklog-go/internal/git"
	"github.com/masmgr/worklog-go/internal/store"
)

// Metadata identifies where a document came from.
type Metadata struct {
	Source string // artifact path
	Branch string
	Index  int // position of the commit within its branch
}

// Document is one commit rendered as text. Content never contains file paths.
type Document struct {
	Content  string
	Metadata Metadata
}

// Loader turns a commit data artifact into documents.
type Loader struct {
	path string
}

// NewLoader creates a loader reading the artifact at path.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Path returns the artifact path.
func (l *Loader) Path() string { return l.path }

// Load reads the artifact and returns its documents as a lazy sequence, branch by
// branch in sorted order and commit by commit in stored order. Each call re-reads
// the artifact; the returned sequence can be ranged over more than once.
func (l *Loader) Load() (iter.Seq[Document], error) {
	s, err := store.Load(l.path)
	if err != nil {
		return nil, err
	}
	return FromStore(s, l.path), nil
}

// LoadAll reads every document of the artifact into a slice.
func (l *Loader) LoadAll() ([]Document, error) {
	seq, err := l.Load()
	if err != nil {
		return nil, err
	}
	var docs []Document
	for d := range seq {
		docs = append(docs, d)
	}
	return docs, nil
}

// FromStore returns the documents of an in-memory commit store.
func FromStore(s git.CommitStore, source string) iter.Seq[Document] {
	return func(yield func(Document) bool) {
		for _, branch := range s.Branches() {
			for i, c := range s[branch] {
				doc := Document{
					Content:  Render(c),
					Metadata: Metadata{Source: source, Branch: branch, Index: i},
				}
				if !yield(doc) {
					return
				}
			}
		}
	}
}

// Render formats a commit as document text.
func Render(c git.Commit) string {
	var sb strings.Builder
	sb.WriteString("Timestamp: ")
	sb.WriteString(c.Timestamp.String())
	sb.WriteString("\nComment: ")
	sb.WriteString(c.Comment)
	sb.WriteString("\nDiffs:\n")
	for _, d := range c.DiffDetails {
		sb.WriteString("Change Type: ")
		sb.WriteString(string(d.ChangeType))
		sb.WriteString("\nDiff:\n")
		sb.WriteString(d.Diff)
		sb.WriteByte('\n')
	}
	return sb.String()
}
