package output

import (
	"io"
	"os"
	"time"
)

const (
	reportDateLayout     = "2006-01-02"
	reportDateTimeLayout = "2006-01-02T15:04:05"
)

// dateRangeLabelAndValue describes the extraction window of a report.
// ok is false when the report carries no window.
func dateRangeLabelAndValue(since, until *time.Time) (label, value string, ok bool) {
	switch {
	case since != nil && until != nil:
		if since.Format(reportDateLayout) == until.Format(reportDateLayout) {
			return "Date", since.Format(reportDateLayout), true
		}
		return "Period", since.Format(reportDateLayout) + " to " + until.Format(reportDateLayout), true
	case since != nil:
		return "Since", since.Format(reportDateLayout), true
	case until != nil:
		return "Until", until.Format(reportDateLayout), true
	default:
		return "", "", false
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(reportDateLayout)
	return &formatted
}

func openOutputWriter(outputPath string, stdout io.Writer) (io.Writer, *os.File, error) {
	if outputPath == "" {
		if stdout == nil {
			stdout = os.Stdout
		}
		return stdout, nil, nil
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, nil, err
	}
	return file, file, nil
}
