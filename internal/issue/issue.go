// Package issue posts work-log summaries as comments on tracked issues.
package issue

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/masmgr/worklog-go/internal/errdefs"
)

// Commenter adds a comment to an issue.
type Commenter interface {
	Comment(ctx context.Context, issueKey, body string) error
}

// Ref identifies a GitHub issue.
type Ref struct {
	Owner  string
	Repo   string
	Number int
}

// String returns the owner/repo#number form of the reference.
func (r Ref) String() string {
	return fmt.Sprintf("%s/%s#%d", r.Owner, r.Repo, r.Number)
}

var (
	shortKeyRegex = regexp.MustCompile(`^([\w.-]+)/([\w.-]+)#(\d+)$`)
	issueURLRegex = regexp.MustCompile(`^https://github\.com/([^/]+)/([^/]+)/issues/(\d+)(?:[/?#].*)?$`)
)

// ParseIssueKey parses "owner/repo#123" or an issue URL of the form
// https://github.com/owner/repo/issues/123.
func ParseIssueKey(key string) (Ref, error) {
	key = strings.TrimSpace(key)

	matches := shortKeyRegex.FindStringSubmatch(key)
	if matches == nil {
		matches = issueURLRegex.FindStringSubmatch(key)
	}
	if matches == nil {
		return Ref{}, errdefs.Newf(errdefs.KindConfiguration, "parse issue key",
			"invalid issue key %q, expected owner/repo#number", key)
	}

	number, err := strconv.Atoi(matches[3])
	if err != nil || number <= 0 {
		return Ref{}, errdefs.Newf(errdefs.KindConfiguration, "parse issue key", "invalid issue number in %q", key)
	}
	return Ref{Owner: matches[1], Repo: matches[2], Number: number}, nil
}
