package git

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// TimestampLayout is the minute-precision layout used for persisted commit timestamps.
const TimestampLayout = "2006-01-02 15:04"

// CommitInfo represents minimal information about a Git commit.
type CommitInfo struct {
	SHA     string
	When    time.Time
	Author  AuthorInfo
	Message string
	Parents int
}

// AuthorInfo represents commit author information.
type AuthorInfo struct {
	Name  string
	Email string
}

// ContributorKey returns a normalized identifier for matching authors.
func (a AuthorInfo) ContributorKey() string {
	return strings.ToLower(strings.TrimSpace(a.Email))
}

// ChangeType is the git status letter of a file change.
type ChangeType string

const (
	ChangeTypeAdded       ChangeType = "A"
	ChangeTypeModified    ChangeType = "M"
	ChangeTypeDeleted     ChangeType = "D"
	ChangeTypeRenamed     ChangeType = "R"
	ChangeTypeCopied      ChangeType = "C"
	ChangeTypeTypeChanged ChangeType = "T"
)

// String returns a string representation of the change type.
func (c ChangeType) String() string {
	switch c {
	case ChangeTypeAdded:
		return "added"
	case ChangeTypeModified:
		return "modified"
	case ChangeTypeDeleted:
		return "deleted"
	case ChangeTypeRenamed:
		return "renamed"
	case ChangeTypeCopied:
		return "copied"
	case ChangeTypeTypeChanged:
		return "type-changed"
	default:
		return "unknown"
	}
}

// Valid reports whether c is one of the known status letters.
func (c ChangeType) Valid() bool {
	return c.String() != "unknown"
}

// ParseChangeType converts a git status (e.g. "M", "R100") to a ChangeType.
func ParseChangeType(status string) (ChangeType, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return "", fmt.Errorf("empty change type")
	}
	ct := ChangeType(strings.ToUpper(status[:1]))
	if !ct.Valid() {
		return "", fmt.Errorf("unknown change type %q", status)
	}
	return ct, nil
}

// UnmarshalJSON rejects unknown status letters.
func (c *ChangeType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	ct, err := ParseChangeType(s)
	if err != nil {
		return err
	}
	*c = ct
	return nil
}

// DiffDetail is one changed path of a commit.
type DiffDetail struct {
	ChangeType ChangeType `json:"change_type"`
	OldPath    *string    `json:"a_path"`
	NewPath    *string    `json:"b_path"`
	Diff       string     `json:"diff"`
}

// Path returns the most specific path of the change.
func (d DiffDetail) Path() string {
	if d.NewPath != nil && *d.NewPath != "" {
		return *d.NewPath
	}
	if d.OldPath != nil {
		return *d.OldPath
	}
	return ""
}

// Timestamp is a commit time persisted with minute precision.
type Timestamp struct {
	time.Time
}

// MarshalJSON writes the timestamp in TimestampLayout.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(TimestampLayout))
}

// UnmarshalJSON parses a TimestampLayout string in local time.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.ParseInLocation(TimestampLayout, s, time.Local)
	if err != nil {
		return fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

// String returns the persisted form of the timestamp.
func (t Timestamp) String() string {
	return t.Format(TimestampLayout)
}

// Commit is an extracted commit ready to be persisted.
type Commit struct {
	Timestamp   Timestamp    `json:"timestamp"`
	Author      string       `json:"author"`
	Comment     string       `json:"comment"`
	DiffDetails []DiffDetail `json:"diff_details"`
}

// CommitStore maps branch names to their selected commits, newest first.
type CommitStore map[string][]Commit

// Branches returns the branch names in sorted order.
func (s CommitStore) Branches() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TotalCommits returns the number of commits across all branches.
func (s CommitStore) TotalCommits() int {
	n := 0
	for _, commits := range s {
		n += len(commits)
	}
	return n
}

// ExtractOptions configures a commit extraction run.
type ExtractOptions struct {
	Author      string     // Defaults to the repository's configured user.email
	Since       *time.Time // Start of window; start of day is applied
	Until       *time.Time // End of window; end of day is applied
	Destination string     // Artifact path; empty skips the export
	Include     []string   // Glob patterns for diff paths to keep
	Exclude     []string   // Glob patterns for diff paths to drop
}

func pathPtr(p string) *string {
	if p == "" {
		return nil
	}
	return &p
}
