package summarize

import (
	"sort"
	"strings"
)

// ResultKind discriminates the outcome of a summarization run.
type ResultKind int

const (
	// ResultEmpty means there was nothing to summarize.
	ResultEmpty ResultKind = iota
	// ResultSummaries means every branch produced a summary.
	ResultSummaries
	// ResultFailed means the run aborted; no summaries are kept.
	ResultFailed
)

// String returns a string representation of the result kind.
func (k ResultKind) String() string {
	switch k {
	case ResultEmpty:
		return "empty"
	case ResultSummaries:
		return "summaries"
	case ResultFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// BranchSummary is the final summary of one branch.
type BranchSummary struct {
	Branch  string
	Summary string
	Chunks  int // oracle calls spent on the branch
}

// Result is the outcome of Reducer.Summarize.
type Result struct {
	Kind      ResultKind
	Summaries map[string]BranchSummary
	Err       error
}

// Branches returns the summarized branch names in sorted order.
func (r Result) Branches() []string {
	names := make([]string, 0, len(r.Summaries))
	for name := range r.Summaries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Combined joins every branch summary as "<branch>:\n<summary>" blocks.
func (r Result) Combined() string {
	blocks := make([]string, 0, len(r.Summaries))
	for _, name := range r.Branches() {
		blocks = append(blocks, name+":\n"+r.Summaries[name].Summary)
	}
	return strings.Join(blocks, "\n\n")
}
