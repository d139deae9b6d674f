// Package events defines the notifications emitted by the tracker after a
// state transition, and the dispatcher that delivers them.
package events

import (
	"time"

	"github.com/felixgeelhaar/learnpath/pkg/domain/catalog"
	"github.com/felixgeelhaar/learnpath/pkg/domain/library"
	"github.com/felixgeelhaar/learnpath/pkg/domain/progress"
)

// DomainEvent is the base interface for all domain events.
type DomainEvent interface {
	EventType() string
	SubjectID() string
	OccurredAt() time.Time
}

// Event types.
const (
	EventTypeMilestoneReached      = "milestone.reached"
	EventTypeTaskAdded             = "task.added"
	EventTypeTaskUpdated           = "task.updated"
	EventTypeTaskCompleted         = "task.completed"
	EventTypeTaskReopened          = "task.reopened"
	EventTypeTaskRemoved           = "task.removed"
	EventTypeFavoriteToggled       = "favorite.toggled"
	EventTypeLessonToggled         = "lesson.toggled"
	EventTypeResourceStatusChanged = "resource.status_changed"
	EventTypeThemeChanged          = "ui.theme_changed"
	EventTypeStateSaveFailed       = "state.save_failed"
)

// BaseEvent carries the fields shared by every event.
type BaseEvent struct {
	Type      string    `json:"type"`
	Subject   string    `json:"subject"`
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) SubjectID() string     { return e.Subject }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// NewBase builds a BaseEvent.
func NewBase(eventType, subject string, at time.Time) BaseEvent {
	return BaseEvent{Type: eventType, Subject: subject, Timestamp: at}
}

// MilestoneReached is emitted once per newly crossed stage threshold.
type MilestoneReached struct {
	BaseEvent
	Milestone progress.Milestone `json:"milestone"`
	Percent   float64            `json:"percent"`
}

// NewMilestoneReached builds the event for m.
func NewMilestoneReached(m progress.Milestone, pct float64, at time.Time) *MilestoneReached {
	return &MilestoneReached{
		BaseEvent: NewBase(EventTypeMilestoneReached, string(m.Stage), at),
		Milestone: m,
		Percent:   pct,
	}
}

// TaskChanged covers add, update, complete, reopen and remove.
type TaskChanged struct {
	BaseEvent
	Title string        `json:"title"`
	Stage catalog.Stage `json:"stage"`
}

// NewTaskChanged builds a task event of the given type.
func NewTaskChanged(eventType, taskID, title string, stage catalog.Stage, at time.Time) *TaskChanged {
	return &TaskChanged{
		BaseEvent: NewBase(eventType, taskID, at),
		Title:     title,
		Stage:     stage,
	}
}

// FavoriteToggled is emitted when an item is added to or removed from favorites.
type FavoriteToggled struct {
	BaseEvent
	ItemType catalog.ItemType `json:"itemType"`
	Title    string           `json:"title"`
	Added    bool             `json:"added"`
}

// LessonToggled is emitted when a lesson checkbox flips.
type LessonToggled struct {
	BaseEvent
	LessonKey string `json:"lessonKey"`
	Completed bool   `json:"completed"`
	Percent   int    `json:"percent"`
}

// ResourceStatusChanged is emitted when a resource's watch status is set.
type ResourceStatusChanged struct {
	BaseEvent
	Status library.WatchStatus `json:"status"`
}

// ThemeChanged is emitted when the theme toggles.
type ThemeChanged struct {
	BaseEvent
	Theme library.Theme `json:"theme"`
}

// StateSaveFailed is emitted when a snapshot could not be written.
type StateSaveFailed struct {
	BaseEvent
	Err error `json:"-"`
}
