package watch

import (
	"path/filepath"
)

// NameFilter selects files by base name using glob patterns.
type NameFilter struct {
	Include []string
	Exclude []string
}

// NewNameFilter creates a filter. An empty include list accepts every
// name not excluded.
func NewNameFilter(include, exclude []string) *NameFilter {
	return &NameFilter{Include: include, Exclude: exclude}
}

// SnapshotFilter accepts the snapshot file and rejects the temp files
// written while it is replaced.
func SnapshotFilter(stateFile string) *NameFilter {
	return NewNameFilter([]string{stateFile}, []string{".*.tmp"})
}

// Matches reports whether path passes the filter.
func (f *NameFilter) Matches(path string) bool {
	base := filepath.Base(path)

	for _, pattern := range f.Exclude {
		if matched, _ := filepath.Match(pattern, base); matched {
			return false
		}
	}
	if len(f.Include) == 0 {
		return true
	}
	for _, pattern := range f.Include {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}
