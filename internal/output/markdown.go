package output

import (
	"fmt"
	"strings"

	"github.com/masmgr/worklog-go/internal/summarize"
)

// MarkdownSummaryWriter writes summary reports as Markdown.
type MarkdownSummaryWriter struct{}

// Write outputs the summary report as Markdown.
func (w *MarkdownSummaryWriter) Write(report *SummaryReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath, options.Stdout)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	fmt.Fprintln(out, "# Work Log Summary")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "**Artifact:** `%s`\n\n", report.Artifact)
	if label, value, ok := dateRangeLabelAndValue(report.Since, report.Until); ok {
		fmt.Fprintf(out, "**%s:** %s\n\n", label, value)
	}

	switch report.Result.Kind {
	case summarize.ResultEmpty:
		fmt.Fprintln(out, "_No commits found._")
		return nil
	case summarize.ResultFailed:
		fmt.Fprintf(out, "**Summarization failed:** %s\n", escapeMarkdown(fmt.Sprint(report.Result.Err)))
		return nil
	}

	for _, name := range report.Result.Branches() {
		s := report.Result.Summaries[name]
		fmt.Fprintf(out, "## %s\n\n", escapeMarkdown(name))
		fmt.Fprintln(out, strings.TrimSpace(s.Summary))
		fmt.Fprintln(out)
	}

	return nil
}

func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"|", "\\|",
		"*", "\\*",
		"_", "\\_",
		"`", "\\`",
	)
	return replacer.Replace(s)
}
