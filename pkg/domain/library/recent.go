package library

import (
	"fmt"
	"slices"
	"strings"

	"github.com/felixgeelhaar/learnpath/pkg/domain/catalog"
)

const (
	// RecentViewLimit bounds the recently viewed list.
	RecentViewLimit = 6
	// RecentSearchLimit bounds each recent search list.
	RecentSearchLimit = 5
)

// RecentView is a lightweight pointer to a viewed item.
type RecentView struct {
	ID    string           `json:"id"`
	Title string           `json:"title"`
	Type  catalog.ItemType `json:"type"`
}

// PushRecentView moves the view to the front, dropping any older entry with
// the same id and trimming to RecentViewLimit.
func PushRecentView(views []RecentView, v RecentView) []RecentView {
	out := make([]RecentView, 0, min(len(views)+1, RecentViewLimit))
	out = append(out, v)
	for _, old := range views {
		if len(out) == RecentViewLimit {
			break
		}
		if old.ID != v.ID {
			out = append(out, old)
		}
	}
	return out
}

// SearchPage names a list page that records searches.
type SearchPage string

const (
	SearchTracks    SearchPage = "tracks"
	SearchResources SearchPage = "resources"
)

// ParseSearchPage parses tracks|resources.
func ParseSearchPage(s string) (SearchPage, error) {
	switch p := SearchPage(s); p {
	case SearchTracks, SearchResources:
		return p, nil
	default:
		return "", fmt.Errorf("invalid search page: %q (want tracks or resources)", s)
	}
}

// RecentSearches keeps the latest keywords per page.
type RecentSearches map[SearchPage][]string

// NewRecentSearches returns empty lists for every page.
func NewRecentSearches() RecentSearches {
	return RecentSearches{
		SearchTracks:    []string{},
		SearchResources: []string{},
	}
}

// Push records a keyword at the front of the page's list. Blank keywords
// are ignored; it returns false in that case.
func (r *RecentSearches) Push(page SearchPage, keyword string) bool {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return false
	}
	if *r == nil {
		*r = NewRecentSearches()
	}

	list := slices.DeleteFunc(slices.Clone((*r)[page]), func(k string) bool { return k == keyword })
	list = slices.Insert(list, 0, keyword)
	if len(list) > RecentSearchLimit {
		list = list[:RecentSearchLimit]
	}
	(*r)[page] = list
	return true
}
