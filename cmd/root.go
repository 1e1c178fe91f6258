package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/worklog-go/config"
	"github.com/masmgr/worklog-go/internal/errdefs"
	"github.com/masmgr/worklog-go/internal/output"
)

const dateLayout = "2006-01-02"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "worklog",
		Usage:   "Summarize your Git commits into a work log comment",
		Version: "1.0.0",
		Commands: []*cli.Command{
			ExtractCmd(),
			SummarizeCmd(),
			RunCmd(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Path to a .env file with credentials",
				Value: ".env",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Suppress logging and progress output",
			},
		},
		Action: legacyAction,
	}
}

// windowFlags are the commit window flags shared by extract and run.
func windowFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "author",
			Aliases: []string{"a"},
			Usage:   "Author email to collect commits for (default: git user.email)",
		},
		&cli.StringFlag{
			Name:  "since",
			Usage: "First day of the window (YYYY-MM-DD)",
		},
		&cli.StringFlag{
			Name:  "until",
			Usage: "Last day of the window (YYYY-MM-DD)",
		},
		&cli.StringFlag{
			Name:    "date",
			Aliases: []string{"d"},
			Usage:   "Single day to collect (YYYY-MM-DD), same as --since D --until D",
		},
		&cli.StringSliceFlag{
			Name:  "include",
			Usage: "Glob patterns of diff paths to include (can be specified multiple times)",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "Glob patterns of diff paths to exclude (can be specified multiple times)",
		},
	}
}

// summaryFlags are the summarization flags shared by summarize and run.
func summaryFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (console, json, markdown)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
		&cli.IntFlag{
			Name:  "chunk-size",
			Usage: "Maximum characters per chunk sent to the model",
		},
		&cli.IntFlag{
			Name:  "chunk-overlap",
			Usage: "Characters shared between consecutive chunks",
		},
		&cli.StringFlag{
			Name:    "model",
			Aliases: []string{"m"},
			Usage:   "Chat model name",
		},
		&cli.IntFlag{
			Name:  "concurrency",
			Usage: "Branches summarized in parallel",
		},
		&cli.BoolFlag{
			Name:  "no-ai",
			Usage: "Skip the model and echo commit text",
		},
	}
}

// parseDateFlag parses a date string flag as a local calendar day.
func parseDateFlag(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", s)
	}
	return &t, nil
}

// parseWindowFlags resolves --since, --until and the --date shorthand.
func parseWindowFlags(c *cli.Context) (since, until *time.Time, err error) {
	const op = "parse date flags"

	if date := c.String("date"); date != "" {
		if c.String("since") != "" || c.String("until") != "" {
			return nil, nil, errdefs.Newf(errdefs.KindConfiguration, op, "--date cannot be combined with --since or --until")
		}
		day, err := parseDateFlag(date)
		if err != nil {
			return nil, nil, errdefs.New(errdefs.KindConfiguration, op, err)
		}
		return day, day, nil
	}

	since, err = parseDateFlag(c.String("since"))
	if err != nil {
		return nil, nil, errdefs.New(errdefs.KindConfiguration, op, err)
	}
	until, err = parseDateFlag(c.String("until"))
	if err != nil {
		return nil, nil, errdefs.New(errdefs.KindConfiguration, op, err)
	}
	return since, until, nil
}

// getOutputFormat parses the output format flag.
func getOutputFormat(s string) output.OutputFormat {
	if s == "md" {
		return output.FormatMarkdown
	}
	if format, ok := output.ParseFormat(s); ok {
		return format
	}
	return output.FormatConsole
}

// loadConfig loads configuration and applies environment and flag overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.ApplyEnv(cfg, c.String("env-file")); err != nil {
		return nil, err
	}

	if author := c.String("author"); author != "" {
		cfg.Extract.Author = author
	}
	if includes := c.StringSlice("include"); len(includes) > 0 {
		cfg.Filters.Include = includes
	}
	if excludes := c.StringSlice("exclude"); len(excludes) > 0 {
		cfg.Filters.Exclude = excludes
	}
	if c.IsSet("chunk-size") {
		cfg.Chunking.Size = c.Int("chunk-size")
	}
	if c.IsSet("chunk-overlap") {
		cfg.Chunking.Overlap = c.Int("chunk-overlap")
	}
	if model := c.String("model"); model != "" {
		cfg.Oracle.Model = model
	}
	if c.IsSet("concurrency") {
		cfg.Oracle.Concurrency = c.Int("concurrency")
	}
	if c.Bool("no-ai") {
		cfg.Oracle.Disabled = true
	}
	if format := c.String("format"); format != "" {
		cfg.Output.Format = format
	}
	if path := c.String("output"); path != "" {
		cfg.Output.Path = path
	}
	if key := c.String("issue"); key != "" {
		cfg.Issue.Key = key
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// legacyAction keeps the original "worklog <repo> <artifact>" form working
// by running the full pipeline with default options.
func legacyAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.ShowAppHelp(c)
	}
	return runAction(c)
}

// Execute runs the CLI with args and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	app := App()
	app.Writer = stdout
	app.ErrWriter = stderr
	app.ExitErrHandler = func(*cli.Context, error) {}

	if err := app.Run(args); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return errdefs.ExitCode(err)
	}
	return 0
}

// Run executes the CLI application.
func Run() {
	os.Exit(Execute(os.Args, os.Stdout, os.Stderr))
}
