// Package recommend ranks catalog items against what the user has
// favorited and recently viewed.
package recommend

import (
	"slices"

	"github.com/felixgeelhaar/learnpath/pkg/domain/catalog"
)

const (
	baseScore   = 1
	tagWeight   = 2
	levelWeight = 3
	stageWeight = 2
)

// Candidate is the subset of a catalog record the scorer reads.
type Candidate struct {
	ID    string
	Tags  []string
	Level string
}

// Profile captures the user's preferences.
type Profile struct {
	FavoriteTags   map[string]bool
	FavoriteLevels map[string]bool
	RecentStage    catalog.Stage // empty when unknown
}

// Score returns the rank score of a candidate. Missing fields simply
// contribute nothing beyond the base score.
func Score(c Candidate, p Profile) int {
	score := baseScore

	for _, tag := range c.Tags {
		if p.FavoriteTags[tag] {
			score += tagWeight
		}
	}

	if c.Level != "" && p.FavoriteLevels[c.Level] {
		score += levelWeight
	}

	if p.RecentStage != "" && catalog.InferStage(c.ID) == p.RecentStage {
		score += stageWeight
	}

	return score
}

// TrackCandidate adapts a track for scoring.
func TrackCandidate(t catalog.Track) Candidate {
	return Candidate{ID: t.ID, Tags: t.Tags, Level: t.Level}
}

// ResourceCandidate adapts a resource for scoring. Resources carry no level.
func ResourceCandidate(r catalog.Resource) Candidate {
	return Candidate{ID: r.ID, Tags: r.Tags}
}

// Rank returns a copy of items sorted by descending score. The sort is
// stable so equal scores keep catalog order.
func Rank[T any](items []T, p Profile, candidate func(T) Candidate) []T {
	type scored struct {
		item  T
		score int
	}
	list := make([]scored, len(items))
	for i, it := range items {
		list[i] = scored{item: it, score: Score(candidate(it), p)}
	}

	slices.SortStableFunc(list, func(a, b scored) int {
		return b.score - a.score
	})

	out := make([]T, len(list))
	for i, s := range list {
		out[i] = s.item
	}
	return out
}
