package planning

import (
	"fmt"

	"github.com/felixgeelhaar/learnpath/pkg/domain/catalog"
)

// FilterAll matches every stage or status.
const FilterAll = "all"

// StatusFilter selects tasks by completion.
type StatusFilter string

const (
	StatusAll    StatusFilter = FilterAll
	StatusActive StatusFilter = "active"
	StatusDone   StatusFilter = "done"
)

// ParseStatusFilter parses all|active|done; empty means all.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch f := StatusFilter(s); f {
	case "":
		return StatusAll, nil
	case StatusAll, StatusActive, StatusDone:
		return f, nil
	default:
		return "", fmt.Errorf("invalid status filter: %q (want all, active or done)", s)
	}
}

// StageFilter selects tasks by stage; FilterAll matches every stage.
type StageFilter string

// ParseStageFilter parses all|cloud|docker|k8s; empty means all.
func ParseStageFilter(s string) (StageFilter, error) {
	if s == "" || s == FilterAll {
		return FilterAll, nil
	}
	stage, err := catalog.ParseStage(s)
	if err != nil {
		return "", err
	}
	return StageFilter(stage), nil
}

// Filter returns the tasks matching both filters in their original order.
// The input slice is not modified.
func Filter(tasks []Task, stage StageFilter, status StatusFilter) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if stage != "" && stage != FilterAll && catalog.Stage(stage) != t.Stage {
			continue
		}
		switch status {
		case StatusActive:
			if t.Done {
				continue
			}
		case StatusDone:
			if !t.Done {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}
