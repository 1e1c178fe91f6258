package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/masmgr/worklog-go/internal/summarize"
)

// JSONSummaryWriter writes summary reports as JSON.
type JSONSummaryWriter struct{}

// JSONSummaryReport is the JSON output structure for a summary report.
type JSONSummaryReport struct {
	Artifact    string              `json:"artifact"`
	Since       *string             `json:"since,omitempty"`
	Until       *string             `json:"until,omitempty"`
	GeneratedAt string              `json:"generatedAt"`
	Status      string              `json:"status"`
	Error       string              `json:"error,omitempty"`
	Branches    []JSONBranchSummary `json:"branches"`
}

// JSONBranchSummary is the JSON output structure for a single branch.
type JSONBranchSummary struct {
	Branch  string `json:"branch"`
	Summary string `json:"summary"`
	Chunks  int    `json:"chunks"`
}

// Write outputs the summary report as JSON.
func (w *JSONSummaryWriter) Write(report *SummaryReport, options OutputOptions) error {
	branches := make([]JSONBranchSummary, 0, len(report.Result.Summaries))
	for _, name := range report.Result.Branches() {
		s := report.Result.Summaries[name]
		branches = append(branches, JSONBranchSummary{
			Branch:  name,
			Summary: s.Summary,
			Chunks:  s.Chunks,
		})
	}

	jsonReport := JSONSummaryReport{
		Artifact:    report.Artifact,
		Since:       formatDate(report.Since),
		Until:       formatDate(report.Until),
		GeneratedAt: report.GeneratedAt.Format(reportDateTimeLayout),
		Status:      report.Result.Kind.String(),
		Branches:    branches,
	}
	if report.Result.Kind == summarize.ResultFailed && report.Result.Err != nil {
		jsonReport.Error = report.Result.Err.Error()
	}

	out, file, err := openOutputWriter(options.OutputPath, options.Stdout)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}
	return writeJSON(out, jsonReport)
}

func writeJSON(out io.Writer, data interface{}) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
