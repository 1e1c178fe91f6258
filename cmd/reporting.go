package cmd

import (
	"time"

	"github.com/masmgr/worklog-go/internal/output"
	"github.com/masmgr/worklog-go/internal/summarize"
)

func (ctx *CommandContext) writeSummaryReport(artifact string, result summarize.Result) error {
	report := &output.SummaryReport{
		Artifact:    artifact,
		Since:       ctx.Since,
		Until:       ctx.Until,
		GeneratedAt: time.Now(),
		Result:      result,
	}

	opts := ctx.OutputOptions()
	writer := output.NewSummaryWriter(opts.Format)
	return writer.Write(report, opts)
}
