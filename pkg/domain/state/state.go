// Package state defines the single durable record of a learner: favorites,
// progress, UI preferences, the study plan and resource statuses.
package state

import (
	"maps"
	"slices"

	"github.com/felixgeelhaar/learnpath/pkg/domain/catalog"
	"github.com/felixgeelhaar/learnpath/pkg/domain/library"
	"github.com/felixgeelhaar/learnpath/pkg/domain/planning"
	"github.com/felixgeelhaar/learnpath/pkg/domain/progress"
)

// State is the persisted snapshot.
type State struct {
	Favorites      *library.Favorites      `json:"favorites"`
	Progress       *progress.Progress      `json:"progress"`
	UI             UI                      `json:"ui"`
	Plan           *planning.Plan          `json:"plan"`
	ResourceStatus *library.ResourceStatus `json:"resourceStatus"`
}

// UI holds presentation preferences and history.
type UI struct {
	Theme          library.Theme          `json:"theme"`
	RecentViews    []library.RecentView   `json:"recentViews"`
	MilestonesSeen progress.Milestones    `json:"milestonesSeen"`
	RecentSearches library.RecentSearches `json:"recentSearches"`
}

// Default returns a fresh state with every collection present.
func Default() *State {
	return &State{
		Favorites: library.NewFavorites(),
		Progress:  progress.NewProgress(),
		UI: UI{
			Theme:          library.ThemeLight,
			RecentViews:    []library.RecentView{},
			MilestonesSeen: progress.NewMilestones(),
			RecentSearches: library.NewRecentSearches(),
		},
		Plan:           planning.NewPlan(),
		ResourceStatus: library.NewResourceStatus(),
	}
}

// Normalize replaces nil sections with their defaults so a decoded
// snapshot can be used without nil checks.
func (s *State) Normalize() {
	d := Default()
	if s.Favorites == nil {
		s.Favorites = d.Favorites
	}
	if s.Favorites.Tracks == nil {
		s.Favorites.Tracks = []catalog.Item{}
	}
	if s.Favorites.Resources == nil {
		s.Favorites.Resources = []catalog.Item{}
	}
	if s.Progress == nil {
		s.Progress = d.Progress
	}
	if s.Progress.Items == nil {
		s.Progress.Items = map[string]int{}
	}
	if s.Progress.CompletedLessons == nil {
		s.Progress.CompletedLessons = map[string]map[string]bool{}
	}
	if s.UI.Theme == "" {
		s.UI.Theme = d.UI.Theme
	}
	if s.UI.RecentViews == nil {
		s.UI.RecentViews = d.UI.RecentViews
	}
	if s.UI.MilestonesSeen == nil {
		s.UI.MilestonesSeen = d.UI.MilestonesSeen
	}
	if s.UI.RecentSearches == nil {
		s.UI.RecentSearches = d.UI.RecentSearches
	}
	if s.Plan == nil {
		s.Plan = d.Plan
	}
	if s.Plan.Tasks == nil {
		s.Plan.Tasks = []planning.Task{}
	}
	if s.ResourceStatus == nil {
		s.ResourceStatus = d.ResourceStatus
	}
	if s.ResourceStatus.Statuses == nil {
		s.ResourceStatus.Statuses = map[string]library.WatchStatus{}
	}
}

// Clone returns a deep copy that shares no maps or slices with s.
func (s *State) Clone() *State {
	out := &State{
		Favorites: &library.Favorites{
			Tracks:    cloneItems(s.Favorites.Tracks),
			Resources: cloneItems(s.Favorites.Resources),
		},
		Progress: &progress.Progress{
			Items:            maps.Clone(s.Progress.Items),
			CompletedLessons: make(map[string]map[string]bool, len(s.Progress.CompletedLessons)),
		},
		UI: UI{
			Theme:          s.UI.Theme,
			RecentViews:    slices.Clone(s.UI.RecentViews),
			MilestonesSeen: make(progress.Milestones, len(s.UI.MilestonesSeen)),
			RecentSearches: make(library.RecentSearches, len(s.UI.RecentSearches)),
		},
		Plan:           &planning.Plan{Tasks: make([]planning.Task, len(s.Plan.Tasks))},
		ResourceStatus: &library.ResourceStatus{Statuses: maps.Clone(s.ResourceStatus.Statuses)},
	}
	for id, lessons := range s.Progress.CompletedLessons {
		out.Progress.CompletedLessons[id] = maps.Clone(lessons)
	}
	for stage, seen := range s.UI.MilestonesSeen {
		out.UI.MilestonesSeen[stage] = maps.Clone(seen)
	}
	for page, keywords := range s.UI.RecentSearches {
		out.UI.RecentSearches[page] = slices.Clone(keywords)
	}
	for i, t := range s.Plan.Tasks {
		out.Plan.Tasks[i] = t.Clone()
	}
	return out
}

func cloneItems(items []catalog.Item) []catalog.Item {
	out := make([]catalog.Item, len(items))
	for i, it := range items {
		it.Tags = slices.Clone(it.Tags)
		out[i] = it
	}
	return out
}
