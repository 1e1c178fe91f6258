package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

const extractUsage = "<repository path> <artifact path>"

// ExtractCmd returns the extract command.
func ExtractCmd() *cli.Command {
	return &cli.Command{
		Name:      "extract",
		Aliases:   []string{"x"},
		Usage:     "Write your commits on every branch to a JSON artifact",
		ArgsUsage: extractUsage,
		Flags:     windowFlags(),
		Action:    extractAction,
	}
}

func extractAction(c *cli.Context) error {
	if err := requireArgs(c, extractUsage); err != nil {
		return err
	}
	ctx, err := NewCommandContext(c)
	if err != nil {
		return err
	}

	repoPath, artifact := c.Args().Get(0), c.Args().Get(1)

	stop := ctx.startSpinner("Extracting commit data...")
	commits, err := ctx.extractCommits(c.Context, repoPath, artifact)
	stop()
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.Out, "Extracted %s across %s to %s\n",
		color.GreenString(pluralize(commits.TotalCommits(), "commit", "commits")),
		pluralize(len(commits), "branch", "branches"),
		artifact)
	return nil
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
