package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/felixgeelhaar/learnpath/pkg/domain/catalog"
	"github.com/felixgeelhaar/learnpath/pkg/domain/events"
	"github.com/felixgeelhaar/learnpath/pkg/domain/library"
	"github.com/felixgeelhaar/learnpath/pkg/domain/planning"
	"github.com/felixgeelhaar/learnpath/pkg/domain/progress"
	"github.com/felixgeelhaar/learnpath/pkg/domain/state"
)

// ErrInvalidItem is returned for catalog items without an id or with an
// unknown type.
var ErrInvalidItem = errors.New("invalid catalog item")

// Tracker owns the learner state. Every mutating method applies one
// reducer, runs milestone detection when stage percentages may have moved,
// saves the snapshot and then dispatches notifications. Transitions are
// serialized; notifications run after the lock is released.
type Tracker struct {
	mu         sync.Mutex
	repo       state.Repository
	state      *state.State
	loadErr    error
	dispatcher *events.EventDispatcher
	logger     *slog.Logger
	now        func() time.Time
}

// TrackerOption customizes a Tracker.
type TrackerOption func(*Tracker)

// WithLogger sets the logger; nil keeps slog.Default.
func WithLogger(l *slog.Logger) TrackerOption {
	return func(t *Tracker) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// WithDispatcher sets the event dispatcher notifications go to.
func WithDispatcher(d *events.EventDispatcher) TrackerOption {
	return func(t *Tracker) {
		if d != nil {
			t.dispatcher = d
		}
	}
}

// NewTracker loads the stored snapshot and seeds the tracker with it. Load
// failures are not fatal: the tracker starts from defaults and the error is
// kept for LoadWarning.
func NewTracker(repo state.Repository, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		repo:       repo,
		dispatcher: events.NewEventDispatcher(),
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}

	s, err := repo.LoadState()
	if s == nil {
		s = state.Default()
	}
	s.Normalize()
	if err != nil {
		t.loadErr = err
		t.logger.Warn("state snapshot unusable, starting from defaults", "error", err)
	}
	t.state = s
	return t
}

// LoadWarning returns the non-fatal error met while loading, if any.
func (t *Tracker) LoadWarning() error {
	return t.loadErr
}

// Dispatcher returns the dispatcher used for notifications.
func (t *Tracker) Dispatcher() *events.EventDispatcher {
	return t.dispatcher
}

// change is what a reducer reports back to apply.
type change struct {
	events          []events.DomainEvent
	progressChanged bool
	noop            bool
}

func (t *Tracker) apply(ctx context.Context, reduce func(s *state.State, now time.Time) (change, error)) ([]progress.Milestone, error) {
	t.mu.Lock()
	now := t.now()
	c, err := reduce(t.state, now)
	if err != nil || c.noop {
		t.mu.Unlock()
		return nil, err
	}

	var reached []progress.Milestone
	if c.progressChanged {
		percents := progress.StagePercents(t.state.Progress.Items)
		reached = t.state.UI.MilestonesSeen.Detect(percents)
		for _, m := range reached {
			c.events = append(c.events, events.NewMilestoneReached(m, percents[m.Stage], now))
		}
	}

	if err := t.repo.SaveState(t.state); err != nil {
		t.logger.Warn("failed to save state", "error", err)
		c.events = append(c.events, &events.StateSaveFailed{
			BaseEvent: events.NewBase(events.EventTypeStateSaveFailed, "state", now),
			Err:       err,
		})
	}
	t.mu.Unlock()

	if err := t.dispatcher.DispatchAll(ctx, c.events...); err != nil {
		t.logger.Warn("notification failed", "error", err)
	}
	return reached, nil
}

// ToggleFavorite adds the item to favorites or removes it. It reports
// whether the item is a favorite afterwards.
func (t *Tracker) ToggleFavorite(ctx context.Context, item catalog.Item, itemType catalog.ItemType) (bool, error) {
	if item.ID == "" || !itemType.IsValid() {
		return false, fmt.Errorf("%w: id=%q type=%q", ErrInvalidItem, item.ID, itemType)
	}
	var added bool
	_, err := t.apply(ctx, func(s *state.State, now time.Time) (change, error) {
		added = s.Favorites.Toggle(item, itemType)
		return change{events: []events.DomainEvent{&events.FavoriteToggled{
			BaseEvent: events.NewBase(events.EventTypeFavoriteToggled, item.ID, now),
			ItemType:  itemType,
			Title:     item.Title,
			Added:     added,
		}}}, nil
	})
	return added, err
}

// ClearFavorites removes every favorite.
func (t *Tracker) ClearFavorites(ctx context.Context) error {
	_, err := t.apply(ctx, func(s *state.State, _ time.Time) (change, error) {
		if s.Favorites.Count() == 0 {
			return change{noop: true}, nil
		}
		s.Favorites.Clear()
		return change{}, nil
	})
	return err
}

// AddTask validates the draft and inserts a new task at the front.
func (t *Tracker) AddTask(ctx context.Context, d planning.Draft) (planning.Task, error) {
	var task planning.Task
	_, err := t.apply(ctx, func(s *state.State, now time.Time) (change, error) {
		var err error
		task, err = s.Plan.Add(d, now)
		if err != nil {
			return change{}, err
		}
		task = task.Clone()
		evts := []events.DomainEvent{events.NewTaskChanged(events.EventTypeTaskAdded, task.ID, task.Title, task.Stage, now)}
		if task.Done {
			evts = append(evts, events.NewTaskChanged(events.EventTypeTaskCompleted, task.ID, task.Title, task.Stage, now))
		}
		return change{events: evts}, nil
	})
	return task, err
}

// UpdateTask applies a partial edit. Unknown ids are a silent no-op; the
// boolean reports whether a task was updated.
func (t *Tracker) UpdateTask(ctx context.Context, id string, c planning.Changes) (bool, error) {
	var found bool
	_, err := t.apply(ctx, func(s *state.State, now time.Time) (change, error) {
		before, _ := s.Plan.Find(id)
		var err error
		found, err = s.Plan.Update(id, c, now)
		if err != nil || !found {
			return change{noop: true}, err
		}
		after, _ := s.Plan.Find(id)
		evts := []events.DomainEvent{events.NewTaskChanged(events.EventTypeTaskUpdated, id, after.Title, after.Stage, now)}
		if !before.Done && after.Done {
			evts = append(evts, events.NewTaskChanged(events.EventTypeTaskCompleted, id, after.Title, after.Stage, now))
		}
		return change{events: evts}, nil
	})
	return found, err
}

// ToggleTask flips a task between active and done. Unknown ids are a
// silent no-op.
func (t *Tracker) ToggleTask(ctx context.Context, id string) (planning.Task, bool, error) {
	var (
		task  planning.Task
		found bool
	)
	_, err := t.apply(ctx, func(s *state.State, now time.Time) (change, error) {
		var err error
		task, found, err = s.Plan.ToggleDone(id, now)
		if err != nil || !found {
			return change{noop: true}, err
		}
		task = task.Clone()
		eventType := events.EventTypeTaskReopened
		if task.Done {
			eventType = events.EventTypeTaskCompleted
		}
		return change{events: []events.DomainEvent{events.NewTaskChanged(eventType, id, task.Title, task.Stage, now)}}, nil
	})
	return task, found, err
}

// RemoveTask deletes a task; it reports whether one was removed.
func (t *Tracker) RemoveTask(ctx context.Context, id string) bool {
	var removed bool
	_, _ = t.apply(ctx, func(s *state.State, now time.Time) (change, error) {
		task, ok := s.Plan.Find(id)
		if !ok {
			return change{noop: true}, nil
		}
		removed = s.Plan.Remove(id)
		return change{events: []events.DomainEvent{events.NewTaskChanged(events.EventTypeTaskRemoved, id, task.Title, task.Stage, now)}}, nil
	})
	return removed
}

// LessonResult describes the outcome of ToggleLesson.
type LessonResult struct {
	Completed  bool
	Percent    int
	Milestones []progress.Milestone
}

// ToggleLesson flips a lesson checkbox. With total > 0 the track percentage
// is recomputed in the same transition and milestone detection runs.
func (t *Tracker) ToggleLesson(ctx context.Context, trackID, lessonKey string, total int) (LessonResult, error) {
	if trackID == "" || lessonKey == "" {
		return LessonResult{}, fmt.Errorf("%w: track and lesson are required", ErrInvalidItem)
	}
	var res LessonResult
	reached, err := t.apply(ctx, func(s *state.State, now time.Time) (change, error) {
		res.Completed = s.Progress.ToggleLesson(trackID, lessonKey, total)
		res.Percent = s.Progress.TrackPercent(trackID, total)
		return change{
			events: []events.DomainEvent{&events.LessonToggled{
				BaseEvent: events.NewBase(events.EventTypeLessonToggled, trackID, now),
				LessonKey: lessonKey,
				Completed: res.Completed,
				Percent:   res.Percent,
			}},
			progressChanged: total > 0,
		}, nil
	})
	res.Milestones = reached
	return res, err
}

// SetProgress stores a track percentage directly, clamped to [0,100].
func (t *Tracker) SetProgress(ctx context.Context, trackID string, pct int) ([]progress.Milestone, error) {
	if trackID == "" {
		return nil, fmt.Errorf("%w: track id is required", ErrInvalidItem)
	}
	return t.apply(ctx, func(s *state.State, _ time.Time) (change, error) {
		s.Progress.Set(trackID, pct)
		return change{progressChanged: true}, nil
	})
}

// SetResourceStatus records the watch status of a resource.
func (t *Tracker) SetResourceStatus(ctx context.Context, resourceID string, status library.WatchStatus) error {
	_, err := t.apply(ctx, func(s *state.State, now time.Time) (change, error) {
		if err := s.ResourceStatus.Set(resourceID, status); err != nil {
			return change{}, err
		}
		return change{events: []events.DomainEvent{&events.ResourceStatusChanged{
			BaseEvent: events.NewBase(events.EventTypeResourceStatusChanged, resourceID, now),
			Status:    status,
		}}}, nil
	})
	return err
}

// BulkSetResourceStatus sets several statuses at once, all or nothing.
func (t *Tracker) BulkSetResourceStatus(ctx context.Context, statuses map[string]library.WatchStatus) error {
	_, err := t.apply(ctx, func(s *state.State, now time.Time) (change, error) {
		if err := s.ResourceStatus.BulkSet(statuses); err != nil {
			return change{}, err
		}
		evts := make([]events.DomainEvent, 0, len(statuses))
		for id, st := range statuses {
			evts = append(evts, &events.ResourceStatusChanged{
				BaseEvent: events.NewBase(events.EventTypeResourceStatusChanged, id, now),
				Status:    st,
			})
		}
		return change{events: evts}, nil
	})
	return err
}

// AddRecentView records a visited item at the front of the history.
func (t *Tracker) AddRecentView(ctx context.Context, v library.RecentView) error {
	if v.ID == "" || !v.Type.IsValid() {
		return fmt.Errorf("%w: id=%q type=%q", ErrInvalidItem, v.ID, v.Type)
	}
	_, err := t.apply(ctx, func(s *state.State, _ time.Time) (change, error) {
		s.UI.RecentViews = library.PushRecentView(s.UI.RecentViews, v)
		return change{}, nil
	})
	return err
}

// ClearRecentViews empties the history.
func (t *Tracker) ClearRecentViews(ctx context.Context) error {
	_, err := t.apply(ctx, func(s *state.State, _ time.Time) (change, error) {
		if len(s.UI.RecentViews) == 0 {
			return change{noop: true}, nil
		}
		s.UI.RecentViews = []library.RecentView{}
		return change{}, nil
	})
	return err
}

// AddRecentSearch records a keyword for a list page. Blank keywords are
// ignored and reported as false.
func (t *Tracker) AddRecentSearch(ctx context.Context, page library.SearchPage, keyword string) bool {
	if _, err := library.ParseSearchPage(string(page)); err != nil {
		return false
	}
	var recorded bool
	_, _ = t.apply(ctx, func(s *state.State, _ time.Time) (change, error) {
		recorded = s.UI.RecentSearches.Push(page, keyword)
		return change{noop: !recorded}, nil
	})
	return recorded
}

// ToggleTheme switches between light and dark and returns the new theme.
func (t *Tracker) ToggleTheme(ctx context.Context) library.Theme {
	var theme library.Theme
	_, _ = t.apply(ctx, func(s *state.State, now time.Time) (change, error) {
		s.UI.Theme = s.UI.Theme.Toggle()
		theme = s.UI.Theme
		return change{events: []events.DomainEvent{&events.ThemeChanged{
			BaseEvent: events.NewBase(events.EventTypeThemeChanged, "ui", now),
			Theme:     theme,
		}}}, nil
	})
	return theme
}
