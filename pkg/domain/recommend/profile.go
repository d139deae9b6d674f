package recommend

import "github.com/felixgeelhaar/learnpath/pkg/domain/catalog"

// BuildProfile derives a profile from favorites and the id of the most
// recently viewed item (empty if nothing was viewed yet).
func BuildProfile(favoriteTracks, favoriteResources []catalog.Item, lastViewedID string) Profile {
	p := Profile{
		FavoriteTags:   make(map[string]bool),
		FavoriteLevels: make(map[string]bool),
	}

	for _, t := range favoriteTracks {
		for _, tag := range t.Tags {
			p.FavoriteTags[tag] = true
		}
		if t.Level != "" {
			p.FavoriteLevels[t.Level] = true
		}
	}
	for _, r := range favoriteResources {
		for _, tag := range r.Tags {
			p.FavoriteTags[tag] = true
		}
	}

	if lastViewedID != "" {
		p.RecentStage = catalog.InferStage(lastViewedID)
	}
	return p
}
