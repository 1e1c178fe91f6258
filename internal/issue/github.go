package issue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"

	"github.com/masmgr/worklog-go/internal/diag"
	"github.com/masmgr/worklog-go/internal/errdefs"
)

const (
	userAgent         = "worklog/1.0"
	requestTimeoutSec = 30
)

// NewGitHubClient creates a GitHub client authenticating with token.
func NewGitHubClient(token string) *github.Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})

	httpClient := &http.Client{
		Timeout: requestTimeoutSec * time.Second,
		Transport: &oauth2.Transport{
			Source: ts,
			Base:   http.DefaultTransport,
		},
	}

	client := github.NewClient(httpClient)
	client.UserAgent = userAgent
	return client
}

// GitHubCommenter posts comments on GitHub issues.
type GitHubCommenter struct {
	client *github.Client
	logger *slog.Logger
}

// NewGitHubCommenter creates a commenter using client.
func NewGitHubCommenter(client *github.Client, logger *slog.Logger) *GitHubCommenter {
	return &GitHubCommenter{client: client, logger: diag.OrDiscard(logger)}
}

// Comment posts body on the issue named by issueKey. Failures are not retried.
func (c *GitHubCommenter) Comment(ctx context.Context, issueKey, body string) error {
	ref, err := ParseIssueKey(issueKey)
	if err != nil {
		return err
	}
	if strings.TrimSpace(body) == "" {
		return errdefs.Newf(errdefs.KindConfiguration, "comment "+ref.String(), "comment body is empty")
	}

	c.logger.Debug("Posting issue comment", "issue", ref.String(), "bodyLength", len(body))

	comment, _, err := c.client.Issues.CreateComment(ctx, ref.Owner, ref.Repo, ref.Number, &github.IssueComment{
		Body: github.String(body),
	})
	if err != nil {
		c.logger.Debug("GitHub API comment failed", "issue", ref.String(), "error", err)
		return errdefs.New(errdefs.KindIO, "comment "+ref.String(), describeGitHubError(err, ref))
	}

	c.logger.Debug("Issue comment posted", "issue", ref.String(), "url", comment.GetHTMLURL())
	return nil
}

func describeGitHubError(err error, ref Ref) error {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		switch ghErr.Response.StatusCode {
		case http.StatusUnauthorized:
			return fmt.Errorf("GitHub API authentication failed for %s; check that GITHUB_TOKEN is valid: %w", ref, err)
		case http.StatusForbidden:
			return fmt.Errorf("GitHub API access denied for %s; the token may lack issue write permission: %w", ref, err)
		case http.StatusNotFound:
			return fmt.Errorf("GitHub issue %s not found or not accessible: %w", ref, err)
		}
	}
	return err
}

var _ Commenter = (*GitHubCommenter)(nil)
