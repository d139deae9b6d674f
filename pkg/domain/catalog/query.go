package catalog

import "context"

// TrackQuery filters the track list. Zero values mean "no filter" and the
// server's default paging.
type TrackQuery struct {
	Q        string
	Level    string
	Tag      string
	Page     int
	PageSize int
}

// ResourceQuery filters the resource list.
type ResourceQuery struct {
	Q        string
	Type     string
	Tag      string
	Page     int
	PageSize int
}

// Source is the read-only catalog API.
type Source interface {
	ListTracks(ctx context.Context, q TrackQuery) (Page[Track], error)
	GetTrack(ctx context.Context, id string) (TrackDetail, error)
	ListResources(ctx context.Context, q ResourceQuery) (Page[Resource], error)
	GetResource(ctx context.Context, id string) (ResourceDetail, error)
	Recommendations(ctx context.Context) (Recommendations, error)
	Paths(ctx context.Context) (Paths, error)
}
