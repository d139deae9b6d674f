package events

import (
	"context"
	"fmt"
	"log/slog"
)

// Notifier shows a short message to the user.
type Notifier interface {
	Notify(ctx context.Context, level NotificationLevel, title, message string) error
}

// NotificationLevel represents the severity of a notification.
type NotificationLevel string

const (
	NotificationLevelInfo    NotificationLevel = "info"
	NotificationLevelSuccess NotificationLevel = "success"
	NotificationLevelWarning NotificationLevel = "warning"
)

// MilestoneHandler turns MilestoneReached events into toasts.
type MilestoneHandler struct {
	notifier Notifier
	logger   *slog.Logger
}

// NewMilestoneHandler creates a new MilestoneHandler.
func NewMilestoneHandler(notifier Notifier, logger *slog.Logger) *MilestoneHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &MilestoneHandler{notifier: notifier, logger: logger}
}

// Handle notifies about the reached milestone.
func (h *MilestoneHandler) Handle(ctx context.Context, event DomainEvent) error {
	reached, ok := event.(*MilestoneReached)
	if !ok {
		return nil
	}

	h.logger.Info("milestone reached",
		"stage", reached.Milestone.Stage,
		"threshold", reached.Milestone.Threshold,
		"percent", reached.Percent)

	if h.notifier == nil {
		return nil
	}
	return h.notifier.Notify(ctx, NotificationLevelSuccess,
		"Milestone reached",
		FormatMilestoneMessage(reached))
}

// Registration returns the HandlerRegistration for this handler.
func (h *MilestoneHandler) Registration() HandlerRegistration {
	return HandlerRegistration{
		Name:       "MilestoneHandler",
		Handler:    h.Handle,
		EventTypes: []string{EventTypeMilestoneReached},
	}
}

// TaskCompletionHandler announces completed tasks.
type TaskCompletionHandler struct {
	notifier Notifier
	logger   *slog.Logger
}

// NewTaskCompletionHandler creates a new TaskCompletionHandler.
func NewTaskCompletionHandler(notifier Notifier, logger *slog.Logger) *TaskCompletionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskCompletionHandler{notifier: notifier, logger: logger}
}

// Handle notifies about a completed task.
func (h *TaskCompletionHandler) Handle(ctx context.Context, event DomainEvent) error {
	task, ok := event.(*TaskChanged)
	if !ok || task.EventType() != EventTypeTaskCompleted {
		return nil
	}

	h.logger.Info("task completed", "task_id", task.SubjectID(), "stage", task.Stage)

	if h.notifier == nil {
		return nil
	}
	return h.notifier.Notify(ctx, NotificationLevelInfo,
		"Task completed",
		fmt.Sprintf("%q is done.", task.Title))
}

// Registration returns the HandlerRegistration for this handler.
func (h *TaskCompletionHandler) Registration() HandlerRegistration {
	return HandlerRegistration{
		Name:       "TaskCompletionHandler",
		Handler:    h.Handle,
		EventTypes: []string{EventTypeTaskCompleted},
	}
}

// SaveFailureHandler logs snapshot write failures at warn level.
type SaveFailureHandler struct {
	logger *slog.Logger
}

// NewSaveFailureHandler creates a new SaveFailureHandler.
func NewSaveFailureHandler(logger *slog.Logger) *SaveFailureHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SaveFailureHandler{logger: logger}
}

// Handle logs the failure.
func (h *SaveFailureHandler) Handle(_ context.Context, event DomainEvent) error {
	failed, ok := event.(*StateSaveFailed)
	if !ok {
		return nil
	}
	h.logger.Warn("state snapshot not saved", "error", failed.Err)
	return nil
}

// Registration returns the HandlerRegistration for this handler.
func (h *SaveFailureHandler) Registration() HandlerRegistration {
	return HandlerRegistration{
		Name:       "SaveFailureHandler",
		Handler:    h.Handle,
		EventTypes: []string{EventTypeStateSaveFailed},
	}
}

// LoggingHandler is a catch-all handler that logs all events.
type LoggingHandler struct {
	logger *slog.Logger
}

// NewLoggingHandler creates a new LoggingHandler.
func NewLoggingHandler(logger *slog.Logger) *LoggingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingHandler{logger: logger}
}

// Handle logs the event details.
func (h *LoggingHandler) Handle(_ context.Context, event DomainEvent) error {
	h.logger.Debug("domain event",
		"event_type", event.EventType(),
		"subject", event.SubjectID(),
		"occurred_at", event.OccurredAt())
	return nil
}

// Registration returns the HandlerRegistration for this handler.
func (h *LoggingHandler) Registration() HandlerRegistration {
	return HandlerRegistration{
		Name:       "LoggingHandler",
		Handler:    h.Handle,
		EventTypes: []string{Wildcard},
	}
}

// FormatMilestoneMessage renders the toast text, e.g. "Docker reached 75%".
func FormatMilestoneMessage(e *MilestoneReached) string {
	if e.Milestone.Threshold == 100 {
		return fmt.Sprintf("%s completed!", e.Milestone.Stage.DisplayName())
	}
	return fmt.Sprintf("%s reached %d%%", e.Milestone.Stage.DisplayName(), e.Milestone.Threshold)
}
