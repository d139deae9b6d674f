package library

import (
	"errors"
	"fmt"
)

// ErrInvalidStatus indicates an unknown watch status.
var ErrInvalidStatus = errors.New("invalid resource status")

// WatchStatus tracks how far the user got with a resource.
type WatchStatus string

const (
	StatusTodo  WatchStatus = "todo"
	StatusDoing WatchStatus = "doing"
	StatusDone  WatchStatus = "done"
)

// IsValid returns true for todo, doing and done.
func (s WatchStatus) IsValid() bool {
	switch s {
	case StatusTodo, StatusDoing, StatusDone:
		return true
	default:
		return false
	}
}

// ParseWatchStatus parses a string into a WatchStatus.
func ParseWatchStatus(s string) (WatchStatus, error) {
	status := WatchStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q (want todo, doing or done)", ErrInvalidStatus, s)
	}
	return status, nil
}

// ResourceStatus maps resource ids to their watch status.
type ResourceStatus struct {
	Statuses map[string]WatchStatus `json:"statuses"`
}

// NewResourceStatus returns an empty status map.
func NewResourceStatus() *ResourceStatus {
	return &ResourceStatus{Statuses: make(map[string]WatchStatus)}
}

// Get returns the status of a resource, todo when unset.
func (r *ResourceStatus) Get(resourceID string) WatchStatus {
	if s, ok := r.Statuses[resourceID]; ok && s.IsValid() {
		return s
	}
	return StatusTodo
}

// Set records the status of a resource.
func (r *ResourceStatus) Set(resourceID string, status WatchStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if r.Statuses == nil {
		r.Statuses = make(map[string]WatchStatus)
	}
	r.Statuses[resourceID] = status
	return nil
}

// BulkSet merges several statuses at once. Nothing is applied if any
// status is invalid.
func (r *ResourceStatus) BulkSet(statuses map[string]WatchStatus) error {
	for id, s := range statuses {
		if !s.IsValid() {
			return fmt.Errorf("%w: %q for %s", ErrInvalidStatus, s, id)
		}
	}
	for id, s := range statuses {
		_ = r.Set(id, s)
	}
	return nil
}
