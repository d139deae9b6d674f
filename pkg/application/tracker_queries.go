package application

import (
	"maps"
	"slices"

	"github.com/felixgeelhaar/learnpath/pkg/domain/catalog"
	"github.com/felixgeelhaar/learnpath/pkg/domain/library"
	"github.com/felixgeelhaar/learnpath/pkg/domain/planning"
	"github.com/felixgeelhaar/learnpath/pkg/domain/progress"
	"github.com/felixgeelhaar/learnpath/pkg/domain/recommend"
	"github.com/felixgeelhaar/learnpath/pkg/domain/state"
)

// Snapshot returns a deep copy of the current state.
func (t *Tracker) Snapshot() *state.State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Clone()
}

// Favorites returns copies of the favorite collections.
func (t *Tracker) Favorites() library.Favorites {
	t.mu.Lock()
	defer t.mu.Unlock()
	c := t.state.Clone()
	return *c.Favorites
}

// IsFavorite reports whether an item is favorited.
func (t *Tracker) IsFavorite(id string, itemType catalog.ItemType) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Favorites.Contains(id, itemType)
}

// Tasks returns the tasks matching both filters, newest first.
func (t *Tracker) Tasks(stage planning.StageFilter, status planning.StatusFilter) []planning.Task {
	t.mu.Lock()
	defer t.mu.Unlock()
	tasks := planning.Filter(t.state.Plan.Tasks, stage, status)
	for i := range tasks {
		tasks[i] = tasks[i].Clone()
	}
	return tasks
}

// Task returns a task by id.
func (t *Tracker) Task(id string) (planning.Task, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	task, ok := t.state.Plan.Find(id)
	return task.Clone(), ok
}

// LinkedTask returns an existing task linked to the given catalog item.
func (t *Tracker) LinkedTask(linkType planning.LinkType, linkedID string) (planning.Task, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	task, ok := t.state.Plan.FindLinked(linkType, linkedID)
	return task.Clone(), ok
}

// TaskStats computes the plan statistics at the tracker's current time.
func (t *Tracker) TaskStats() planning.Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return planning.ComputeStats(t.state.Plan.Tasks, t.now())
}

// TrackPercent returns the completion of a track; total is its lesson
// count, 0 when unknown.
func (t *Tracker) TrackPercent(trackID string, total int) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Progress.TrackPercent(trackID, total)
}

// LessonDone reports whether a lesson is checked.
func (t *Tracker) LessonDone(trackID, lessonKey string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Progress.Lessons(trackID)[lessonKey]
}

// ProgressItems returns a copy of the stored per-track percentages.
func (t *Tracker) ProgressItems() map[string]int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return maps.Clone(t.state.Progress.Items)
}

// AverageProgress returns the rounded mean of all track percentages.
func (t *Tracker) AverageProgress() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Progress.Average()
}

// StagePercents returns the averaged percentage of each stage.
func (t *Tracker) StagePercents() map[catalog.Stage]float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return progress.StagePercents(t.state.Progress.Items)
}

// SeenMilestones lists the announced milestones, stages in display order
// and thresholds ascending.
func (t *Tracker) SeenMilestones() []progress.Milestone {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []progress.Milestone
	for _, stage := range catalog.AllStages() {
		for _, threshold := range progress.Thresholds {
			if t.state.UI.MilestonesSeen.Seen(stage, threshold) {
				out = append(out, progress.Milestone{Stage: stage, Threshold: threshold})
			}
		}
	}
	return out
}

// ResourceStatus returns the watch status of a resource, todo when unset.
func (t *Tracker) ResourceStatus(resourceID string) library.WatchStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.ResourceStatus.Get(resourceID)
}

// ResourceStatuses returns a copy of every recorded status.
func (t *Tracker) ResourceStatuses() map[string]library.WatchStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return maps.Clone(t.state.ResourceStatus.Statuses)
}

// RecentViews returns the history, most recent first.
func (t *Tracker) RecentViews() []library.RecentView {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.state.UI.RecentViews)
}

// RecentSearches returns the keywords recorded for a page, newest first.
func (t *Tracker) RecentSearches(page library.SearchPage) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.state.UI.RecentSearches[page])
}

// Theme returns the current theme.
func (t *Tracker) Theme() library.Theme {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.UI.Theme
}

// Profile derives the recommendation profile from favorites and history.
func (t *Tracker) Profile() recommend.Profile {
	t.mu.Lock()
	defer t.mu.Unlock()

	var lastViewed string
	if len(t.state.UI.RecentViews) > 0 {
		lastViewed = t.state.UI.RecentViews[0].ID
	}
	return recommend.BuildProfile(t.state.Favorites.Tracks, t.state.Favorites.Resources, lastViewed)
}
