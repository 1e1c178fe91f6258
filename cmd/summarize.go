package cmd

import (
	"github.com/urfave/cli/v2"
)

const summarizeUsage = "<artifact path>"

// SummarizeCmd returns the summarize command.
func SummarizeCmd() *cli.Command {
	return &cli.Command{
		Name:      "summarize",
		Aliases:   []string{"s"},
		Usage:     "Summarize an existing commit artifact per branch",
		ArgsUsage: summarizeUsage,
		Flags:     summaryFlags(),
		Action:    summarizeAction,
	}
}

func summarizeAction(c *cli.Context) error {
	if err := requireArgs(c, summarizeUsage); err != nil {
		return err
	}
	ctx, err := NewCommandContext(c)
	if err != nil {
		return err
	}
	if err := ctx.Config.RequireAPIKey(); err != nil {
		return err
	}

	artifact := c.Args().Get(0)

	stop := ctx.startSpinner("Interpreting commit data...")
	result, err := ctx.summarizeArtifact(c.Context, artifact)
	stop()
	if err != nil {
		return err
	}

	return ctx.writeSummaryReport(artifact, result)
}
