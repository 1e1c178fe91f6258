package output

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/masmgr/worklog-go/internal/summarize"
)

// ConsoleSummaryWriter writes summary reports to the console.
type ConsoleSummaryWriter struct{}

// Write outputs the summary report to the console.
func (w *ConsoleSummaryWriter) Write(report *SummaryReport, options OutputOptions) error {
	stdout := options.Stdout
	if stdout == nil {
		stdout = color.Output
	}
	out, file, err := openOutputWriter(options.OutputPath, stdout)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	header := color.New(color.FgGreen, color.Bold)
	branch := color.New(color.FgCyan, color.Bold)

	header.Fprintln(out, "Work Log Summary")
	fmt.Fprintf(out, "Artifact: %s\n", report.Artifact)
	if label, value, ok := dateRangeLabelAndValue(report.Since, report.Until); ok {
		fmt.Fprintf(out, "%s: %s\n", label, value)
	}

	switch report.Result.Kind {
	case summarize.ResultEmpty:
		color.New(color.FgYellow).Fprintln(out, "\nNo commits found.")
		return nil
	case summarize.ResultFailed:
		color.New(color.FgRed).Fprintf(out, "\nSummarization failed: %v\n", report.Result.Err)
		return nil
	}

	fmt.Fprintf(out, "Branches summarized: %d\n", len(report.Result.Summaries))
	for _, name := range report.Result.Branches() {
		s := report.Result.Summaries[name]
		fmt.Fprintln(out)
		branch.Fprintf(out, "%s", name)
		fmt.Fprintf(out, " (%s)\n", pluralize(s.Chunks, "chunk"))
		fmt.Fprintln(out, strings.TrimSpace(s.Summary))
	}

	return nil
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
