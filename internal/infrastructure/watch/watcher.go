package watch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when no window is given.
const DefaultDebounce = 300 * time.Millisecond

// ChangeType names the kind of filesystem change.
type ChangeType string

const (
	ChangeCreate ChangeType = "create"
	ChangeWrite  ChangeType = "write"
	ChangeRemove ChangeType = "remove"
	ChangeRename ChangeType = "rename"
)

// ChangeEvent is the last change seen in a debounce window.
type ChangeEvent struct {
	Path string
	Type ChangeType
}

// Watcher watches one directory for changes to files passing its filter.
// The directory is watched rather than the file itself so that atomic
// replacement by rename keeps being observed.
type Watcher struct {
	watcher  *fsnotify.Watcher
	filter   *NameFilter
	debounce time.Duration
	onChange func(ChangeEvent)
	logger   *slog.Logger
}

// Config configures a Watcher.
type Config struct {
	Dir      string
	Filter   *NameFilter
	Debounce time.Duration
	OnChange func(ChangeEvent)
	Logger   *slog.Logger
}

// New creates a watcher on cfg.Dir.
func New(cfg Config) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fw.Add(cfg.Dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", cfg.Dir, err)
	}

	w := &Watcher{
		watcher:  fw,
		filter:   cfg.Filter,
		debounce: cfg.Debounce,
		onChange: cfg.OnChange,
		logger:   cfg.Logger,
	}
	if w.filter == nil {
		w.filter = NewNameFilter(nil, nil)
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	return w, nil
}

// Run delivers debounced changes until ctx is cancelled. It closes the
// underlying watcher on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	debouncer := NewDebouncer(w.debounce, func(e ChangeEvent) {
		if w.onChange != nil {
			w.onChange(e)
		}
	})
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			changeType := opToChangeType(event.Op)
			if changeType == "" || !w.filter.Matches(event.Name) {
				continue
			}
			w.logger.Debug("fs event", "path", event.Name, "op", changeType)
			debouncer.Trigger(ChangeEvent{Path: event.Name, Type: changeType})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

func opToChangeType(op fsnotify.Op) ChangeType {
	switch {
	case op.Has(fsnotify.Create):
		return ChangeCreate
	case op.Has(fsnotify.Write):
		return ChangeWrite
	case op.Has(fsnotify.Remove):
		return ChangeRemove
	case op.Has(fsnotify.Rename):
		return ChangeRename
	default:
		return ""
	}
}
