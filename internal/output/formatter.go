package output

import (
	"io"
	"time"

	"github.com/masmgr/worklog-go/internal/summarize"
)

// Compile-time interface conformance checks.
var (
	_ SummaryWriter = (*ConsoleSummaryWriter)(nil)
	_ SummaryWriter = (*JSONSummaryWriter)(nil)
	_ SummaryWriter = (*MarkdownSummaryWriter)(nil)
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatConsole  OutputFormat = "console"
	FormatJSON     OutputFormat = "json"
	FormatMarkdown OutputFormat = "markdown"
)

// ParseFormat returns the format named s, and false for unknown names.
func ParseFormat(s string) (OutputFormat, bool) {
	switch f := OutputFormat(s); f {
	case FormatConsole, FormatJSON, FormatMarkdown:
		return f, true
	case "":
		return FormatConsole, true
	default:
		return "", false
	}
}

// OutputOptions controls output behavior.
type OutputOptions struct {
	Format     OutputFormat
	OutputPath string    // empty writes to Stdout
	Stdout     io.Writer // defaults to os.Stdout (color.Output for the console)
}

// SummaryReport holds the outcome of summarizing one commit data artifact.
type SummaryReport struct {
	Artifact    string
	Since       *time.Time
	Until       *time.Time
	GeneratedAt time.Time
	Result      summarize.Result
}

// SummaryWriter writes summary reports.
type SummaryWriter interface {
	Write(report *SummaryReport, options OutputOptions) error
}

// NewSummaryWriter creates a report writer for the specified format.
func NewSummaryWriter(format OutputFormat) SummaryWriter {
	switch format {
	case FormatJSON:
		return &JSONSummaryWriter{}
	case FormatMarkdown:
		return &MarkdownSummaryWriter{}
	default:
		return &ConsoleSummaryWriter{}
	}
}
