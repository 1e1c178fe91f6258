package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/worklog-go/config"
	"github.com/masmgr/worklog-go/internal/errdefs"
	"github.com/masmgr/worklog-go/internal/issue"
	"github.com/masmgr/worklog-go/internal/summarize"
)

const runUsage = "<repository path> <artifact path>"

// RunCmd returns the run command, which extracts, summarizes and optionally posts.
func RunCmd() *cli.Command {
	flags := append(windowFlags(), summaryFlags()...)
	flags = append(flags,
		&cli.BoolFlag{
			Name:    "edit",
			Aliases: []string{"e"},
			Usage:   "Edit the comment in $EDITOR before posting",
		},
		&cli.StringFlag{
			Name:    "issue",
			Aliases: []string{"i"},
			Usage:   "GitHub issue to comment on (owner/repo#123 or issue URL)",
		},
	)

	return &cli.Command{
		Name:      "run",
		Aliases:   []string{"r"},
		Usage:     "Extract, summarize and optionally post your work log",
		ArgsUsage: runUsage,
		Flags:     flags,
		Action:    runAction,
	}
}

func runAction(c *cli.Context) error {
	if err := requireArgs(c, runUsage); err != nil {
		return err
	}
	ctx, err := NewCommandContext(c)
	if err != nil {
		return err
	}
	if err := ctx.Config.RequireAPIKey(); err != nil {
		return err
	}

	issueKey := ctx.Config.Issue.Key
	if issueKey != "" {
		if _, err := issue.ParseIssueKey(issueKey); err != nil {
			return err
		}
		if ctx.Config.Issue.Token == "" {
			return errdefs.Newf(errdefs.KindConfiguration, "configure issue tracker",
				"%s environment variable is required to post to %s", config.EnvGitHubToken, issueKey)
		}
	}

	repoPath, artifact := c.Args().Get(0), c.Args().Get(1)

	stop := ctx.startSpinner("Extracting commit data...")
	_, err = ctx.extractCommits(c.Context, repoPath, artifact)
	stop()
	if err != nil {
		return err
	}

	stop = ctx.startSpinner("Interpreting commit data...")
	result, err := ctx.summarizeArtifact(c.Context, artifact)
	stop()
	if err != nil {
		return err
	}

	if result.Kind == summarize.ResultEmpty {
		fmt.Fprintln(ctx.Out, "No commits found. Aborting...")
		return nil
	}

	if err := ctx.writeSummaryReport(artifact, result); err != nil {
		return err
	}

	comment := result.Combined()
	if c.Bool("edit") {
		comment, err = editText(c.Context, comment)
		if err != nil {
			return err
		}
	}

	if issueKey == "" {
		return nil
	}
	if strings.TrimSpace(comment) == "" {
		fmt.Fprintln(ctx.Out, "Comment is empty. Nothing posted.")
		return nil
	}

	if err := ctx.newCommenter().Comment(c.Context, issueKey, comment); err != nil {
		color.New(color.FgRed).Fprintf(ctx.Err, "Failed to post the work log to %s\n", issueKey)
		return err
	}
	fmt.Fprintf(ctx.Out, "Posted work log to %s\n", color.GreenString(issueKey))
	return nil
}
