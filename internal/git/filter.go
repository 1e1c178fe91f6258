package git

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// pathFilter applies include/exclude glob patterns to diff paths.
type pathFilter struct {
	include     []string
	exclude     []string
	filterCache map[string]bool
}

func newPathFilter(include, exclude []string) (*pathFilter, error) {
	for _, p := range append(append([]string{}, include...), exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid glob pattern %q", p)
		}
	}
	return &pathFilter{
		include:     include,
		exclude:     exclude,
		filterCache: make(map[string]bool),
	}, nil
}

func (f *pathFilter) empty() bool {
	return len(f.include) == 0 && len(f.exclude) == 0
}

// matches checks if a path passes the include/exclude filters.
func (f *pathFilter) matches(path string) (bool, error) {
	if cached, ok := f.filterCache[path]; ok {
		return cached, nil
	}

	// Normalize path separators
	normalized := strings.ReplaceAll(path, "\\", "/")

	// Check exclude patterns first
	for _, pattern := range f.exclude {
		matched, err := doublestar.Match(pattern, normalized)
		if err != nil {
			return false, fmt.Errorf("exclude pattern %q: %w", pattern, err)
		}
		if matched {
			f.filterCache[path] = false
			return false, nil
		}
	}

	// If no include patterns, accept all
	if len(f.include) == 0 {
		f.filterCache[path] = true
		return true, nil
	}

	for _, pattern := range f.include {
		matched, err := doublestar.Match(pattern, normalized)
		if err != nil {
			return false, fmt.Errorf("include pattern %q: %w", pattern, err)
		}
		if matched {
			f.filterCache[path] = true
			return true, nil
		}
	}

	f.filterCache[path] = false
	return false, nil
}

// apply keeps the details whose old or new path passes the filter.
func (f *pathFilter) apply(details []DiffDetail) ([]DiffDetail, error) {
	if f.empty() {
		return details, nil
	}

	kept := details[:0:0]
	for _, d := range details {
		ok, err := f.matchesAny(d.OldPath, d.NewPath)
		if err != nil {
			return nil, err
		}
		if ok {
			kept = append(kept, d)
		}
	}
	return kept, nil
}

func (f *pathFilter) matchesAny(paths ...*string) (bool, error) {
	for _, p := range paths {
		if p == nil || *p == "" {
			continue
		}
		ok, err := f.matches(*p)
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}
