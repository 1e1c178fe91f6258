package cmd

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/worklog-go/config"
	"github.com/masmgr/worklog-go/internal/diag"
	"github.com/masmgr/worklog-go/internal/errdefs"
	"github.com/masmgr/worklog-go/internal/output"
)

// CommandContext holds common state for command execution.
type CommandContext struct {
	Config *config.Config
	Logger *slog.Logger
	Since  *time.Time
	Until  *time.Time
	Out    io.Writer
	Err    io.Writer
	Quiet  bool
}

// NewCommandContext creates a context from CLI flags.
// It performs configuration loading, date parsing and logger setup.
func NewCommandContext(c *cli.Context) (*CommandContext, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	since, until, err := parseWindowFlags(c)
	if err != nil {
		return nil, err
	}

	out, errOut := c.App.Writer, c.App.ErrWriter
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}

	quiet := c.Bool("quiet")
	logger := diag.New(diag.Options{
		Verbose: c.Bool("verbose"),
		Quiet:   quiet,
		Writer:  errOut,
	})

	return &CommandContext{
		Config: cfg,
		Logger: logger,
		Since:  since,
		Until:  until,
		Out:    out,
		Err:    errOut,
		Quiet:  quiet,
	}, nil
}

// OutputOptions creates OutputOptions from the resolved configuration.
func (ctx *CommandContext) OutputOptions() output.OutputOptions {
	return output.OutputOptions{
		Format:     getOutputFormat(ctx.Config.Output.Format),
		OutputPath: ctx.Config.Output.Path,
		Stdout:     ctx.Out,
	}
}

// startSpinner shows progress on stderr until the returned stop is called.
// Nothing is drawn in quiet mode or when stderr is not a terminal.
func (ctx *CommandContext) startSpinner(message string) (stop func()) {
	f, ok := ctx.Err.(*os.File)
	if ctx.Quiet || !ok {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriterFile(f))
	s.Suffix = " " + message
	_ = s.Color("green")
	s.Start()
	return s.Stop
}

// requireArgs checks that c received one argument per <placeholder> in usage.
func requireArgs(c *cli.Context, usage string) error {
	if want := strings.Count(usage, "<"); c.NArg() != want {
		return errdefs.Newf(errdefs.KindConfiguration, "parse arguments", "expected %s, got %d argument(s)", usage, c.NArg())
	}
	return nil
}
