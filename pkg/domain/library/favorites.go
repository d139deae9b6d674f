// Package library holds the user's personal registries: favorites, recently
// viewed items, recent searches, per-resource watch status and the theme.
package library

import (
	"slices"

	"github.com/felixgeelhaar/learnpath/pkg/domain/catalog"
)

// Favorites keeps snapshot copies of favorited tracks and resources.
type Favorites struct {
	Tracks    []catalog.Item `json:"tracks"`
	Resources []catalog.Item `json:"resources"`
}

// NewFavorites returns empty collections.
func NewFavorites() *Favorites {
	return &Favorites{Tracks: []catalog.Item{}, Resources: []catalog.Item{}}
}

// Toggle adds the item if no entry with its id exists, otherwise removes
// that entry. It returns true when the item is now a favorite.
func (f *Favorites) Toggle(item catalog.Item, itemType catalog.ItemType) bool {
	list := f.list(itemType)
	if i := indexOf(*list, item.ID); i >= 0 {
		*list = slices.Delete(slices.Clone(*list), i, i+1)
		return false
	}
	*list = append(*list, item)
	return true
}

// Contains reports whether an id is favorited.
func (f *Favorites) Contains(id string, itemType catalog.ItemType) bool {
	return indexOf(*f.list(itemType), id) >= 0
}

// Clear removes every favorite.
func (f *Favorites) Clear() {
	f.Tracks = []catalog.Item{}
	f.Resources = []catalog.Item{}
}

// Count returns the total number of favorites.
func (f *Favorites) Count() int {
	return len(f.Tracks) + len(f.Resources)
}

func (f *Favorites) list(itemType catalog.ItemType) *[]catalog.Item {
	if itemType == catalog.ItemTrack {
		return &f.Tracks
	}
	return &f.Resources
}

func indexOf(items []catalog.Item, id string) int {
	return slices.IndexFunc(items, func(it catalog.Item) bool { return it.ID == id })
}
