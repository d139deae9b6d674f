// Package catalog defines the read-only catalog records (tracks, resources)
// served by the catalog API and the snapshot copies the client keeps of them.
package catalog

import (
	"fmt"
	"slices"
)

// ItemType distinguishes tracks from resources.
type ItemType string

const (
	ItemTrack    ItemType = "track"
	ItemResource ItemType = "resource"
)

// IsValid returns true if the item type is known.
func (t ItemType) IsValid() bool {
	return t == ItemTrack || t == ItemResource
}

// ParseItemType parses a string into an ItemType.
func ParseItemType(s string) (ItemType, error) {
	t := ItemType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid item type: %q (want track or resource)", s)
	}
	return t, nil
}

// Chapter groups the lessons of a track.
type Chapter struct {
	Title   string   `json:"title"`
	Lessons []string `json:"lessons"`
}

// Track is a structured course with chapters, lessons and labs.
type Track struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Summary            string    `json:"summary"`
	Level              string    `json:"level,omitempty"`
	Tags               []string  `json:"tags"`
	Chapters           []Chapter `json:"chapters,omitempty"`
	Labs               []string  `json:"labs,omitempty"`
	RelatedResourceIDs []string  `json:"relatedResourceIds,omitempty"`
}

// Resource is a standalone learning artifact.
type Resource struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Tags        []string `json:"tags"`
	Difficulty  string   `json:"difficulty,omitempty"`
	URL         string   `json:"url,omitempty"`
}

// TrackDetail is a track together with its related resources.
type TrackDetail struct {
	Track
	RelatedResources []Resource `json:"relatedResources"`
}

// ResourceDetail is a resource together with resources sharing a tag.
type ResourceDetail struct {
	Resource
	Related []Resource `json:"related"`
}

// Page is one page of a filtered list.
type Page[T any] struct {
	List     []T `json:"list"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// Recommendations is the unfiltered cold-start selection.
type Recommendations struct {
	Tracks    []Track    `json:"tracks"`
	Resources []Resource `json:"resources"`
}

// RoadmapStep is one phase of the learning roadmap.
type RoadmapStep struct {
	Key         string   `json:"key"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	TrackIDs    []string `json:"trackIds"`
}

// Paths is the roadmap together with every track.
type Paths struct {
	Roadmap []RoadmapStep `json:"roadmap"`
	Tracks  []Track       `json:"tracks"`
}

// Item is a snapshot copy of a track or resource, taken when the user
// favorites it. It never references the fetched record.
type Item struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Summary     string   `json:"summary,omitempty"`
	Description string   `json:"description,omitempty"`
	Level       string   `json:"level,omitempty"`
	Type        string   `json:"type,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Difficulty  string   `json:"difficulty,omitempty"`
	URL         string   `json:"url,omitempty"`
}

// Item returns a snapshot copy of the track.
func (t Track) Item() Item {
	return Item{
		ID:      t.ID,
		Title:   t.Title,
		Summary: t.Summary,
		Level:   t.Level,
		Tags:    slices.Clone(t.Tags),
	}
}

// LessonCount returns the number of lessons across all chapters.
func (t Track) LessonCount() int {
	n := 0
	for _, c := range t.Chapters {
		n += len(c.Lessons)
	}
	return n
}

// Item returns a snapshot copy of the resource.
func (r Resource) Item() Item {
	return Item{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Type:        r.Type,
		Tags:        slices.Clone(r.Tags),
		Difficulty:  r.Difficulty,
		URL:         r.URL,
	}
}

// Stage returns the inferred stage of the item.
func (i Item) Stage() Stage {
	return InferStage(i.ID)
}
