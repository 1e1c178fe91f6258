// Package store persists extracted commit data as a JSON artifact.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/masmgr/worklog-go/internal/errdefs"
	"github.com/masmgr/worklog-go/internal/git"
)

const indent = "    "

// Export writes s to path as indented JSON, replacing any previous content.
func Export(s git.CommitStore, path string) error {
	if s == nil {
		s = git.CommitStore{}
	}

	file, err := os.Create(path)
	if err != nil {
		return errdefs.New(errdefs.KindIO, "export commit data", err)
	}
	defer file.Close()

	if err := encode(file, s); err != nil {
		return errdefs.New(errdefs.KindIO, "export commit data", err)
	}
	if err := file.Close(); err != nil {
		return errdefs.New(errdefs.KindIO, "export commit data", err)
	}
	return nil
}

func encode(w io.Writer, s git.CommitStore) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", indent)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(s); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// Load reads the artifact at path. A missing, unreadable or malformed artifact
// is reported as a NotFound error.
func Load(path string) (git.CommitStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errdefs.New(errdefs.KindNotFound, "load commit data", err)
	}

	s, err := decode(data)
	if err != nil {
		return nil, errdefs.New(errdefs.KindNotFound, "load commit data "+path, err)
	}
	return s, nil
}

func decode(data []byte) (git.CommitStore, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	var s git.CommitStore
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("malformed artifact: %w", err)
	}
	if decoder.More() {
		return nil, errors.New("malformed artifact: trailing data")
	}
	if s == nil {
		return nil, errors.New("malformed artifact: root must be an object")
	}
	for branch, commits := range s {
		for i, c := range commits {
			if c.Timestamp.IsZero() {
				return nil, fmt.Errorf("malformed artifact: %s[%d] has no timestamp", branch, i)
			}
			for _, d := range c.DiffDetails {
				if !d.ChangeType.Valid() {
					return nil, fmt.Errorf("malformed artifact: %s[%d] has a change without change_type", branch, i)
				}
			}
		}
	}
	return s, nil
}

// FileExporter exports commit data to the local filesystem.
type FileExporter struct{}

// Export implements git.Exporter.
func (FileExporter) Export(s git.CommitStore, destination string) error {
	return Export(s, destination)
}

var _ git.Exporter = FileExporter{}
