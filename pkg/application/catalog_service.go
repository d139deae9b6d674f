package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/felixgeelhaar/learnpath/pkg/domain/catalog"
	"github.com/felixgeelhaar/learnpath/pkg/domain/library"
	"github.com/felixgeelhaar/learnpath/pkg/domain/recommend"
	"golang.org/x/sync/errgroup"
)

// ErrStale is returned when a newer request for the same view was started
// before this one finished. Its result must not be shown.
var ErrStale = errors.New("superseded by a newer request")

// Page sizes used by the list views and the plan editor.
const (
	TrackPageSize        = 6
	ResourcePageSize     = 8
	PlanTrackOptions     = 50
	PlanResourceOptions  = 80
	RecommendedTracks    = 4
	RecommendedResources = 6
)

// View keys guarded by request generations.
const (
	ViewTracks          = "tracks"
	ViewResources       = "resources"
	ViewTrackDetail     = "track-detail"
	ViewResourceDetail  = "resource-detail"
	ViewRecommendations = "recommendations"
	ViewPaths           = "paths"
	ViewPlanOptions     = "plan-options"
)

// CatalogService fetches catalog data for the views and feeds the
// tracker with the side effects of browsing: recent views, recent
// searches and the profile used for ranking.
type CatalogService struct {
	source  catalog.Source
	tracker *Tracker
	logger  *slog.Logger

	mu          sync.Mutex
	generations map[string]uint64
}

// NewCatalogService creates a CatalogService.
func NewCatalogService(source catalog.Source, tracker *Tracker, logger *slog.Logger) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{
		source:      source,
		tracker:     tracker,
		logger:      logger,
		generations: make(map[string]uint64),
	}
}

// Begin starts a request for a view and returns its generation token.
func (s *CatalogService) Begin(view string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generations[view]++
	return s.generations[view]
}

// Current reports whether gen is still the latest request for view.
func (s *CatalogService) Current(view string, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[view] == gen
}

func guarded[T any](ctx context.Context, s *CatalogService, view string, fetch func(context.Context) (T, error)) (T, error) {
	gen := s.Begin(view)
	out, err := fetch(ctx)
	if !s.Current(view, gen) {
		var zero T
		s.logger.Debug("dropping stale response", "view", view, "generation", gen)
		return zero, ErrStale
	}
	return out, err
}

// Tracks lists tracks and records a non-blank keyword as a recent search.
func (s *CatalogService) Tracks(ctx context.Context, q catalog.TrackQuery) (catalog.Page[catalog.Track], error) {
	if q.PageSize == 0 {
		q.PageSize = TrackPageSize
	}
	if strings.TrimSpace(q.Q) != "" {
		s.tracker.AddRecentSearch(ctx, library.SearchTracks, q.Q)
	}
	return guarded(ctx, s, ViewTracks, func(ctx context.Context) (catalog.Page[catalog.Track], error) {
		return s.source.ListTracks(ctx, q)
	})
}

// Resources lists resources and records a non-blank keyword as a recent search.
func (s *CatalogService) Resources(ctx context.Context, q catalog.ResourceQuery) (catalog.Page[catalog.Resource], error) {
	if q.PageSize == 0 {
		q.PageSize = ResourcePageSize
	}
	if strings.TrimSpace(q.Q) != "" {
		s.tracker.AddRecentSearch(ctx, library.SearchResources, q.Q)
	}
	return guarded(ctx, s, ViewResources, func(ctx context.Context) (catalog.Page[catalog.Resource], error) {
		return s.source.ListResources(ctx, q)
	})
}

// Track fetches a track and records it as recently viewed.
func (s *CatalogService) Track(ctx context.Context, id string) (catalog.TrackDetail, error) {
	detail, err := guarded(ctx, s, ViewTrackDetail, func(ctx context.Context) (catalog.TrackDetail, error) {
		return s.source.GetTrack(ctx, id)
	})
	if err != nil {
		return detail, err
	}
	if err := s.tracker.AddRecentView(ctx, library.RecentView{ID: detail.ID, Title: detail.Title, Type: catalog.ItemTrack}); err != nil {
		s.logger.Warn("recent view not recorded", "id", detail.ID, "error", err)
	}
	return detail, nil
}

// Resource fetches a resource and records it as recently viewed.
func (s *CatalogService) Resource(ctx context.Context, id string) (catalog.ResourceDetail, error) {
	detail, err := guarded(ctx, s, ViewResourceDetail, func(ctx context.Context) (catalog.ResourceDetail, error) {
		return s.source.GetResource(ctx, id)
	})
	if err != nil {
		return detail, err
	}
	if err := s.tracker.AddRecentView(ctx, library.RecentView{ID: detail.ID, Title: detail.Title, Type: catalog.ItemResource}); err != nil {
		s.logger.Warn("recent view not recorded", "id", detail.ID, "error", err)
	}
	return detail, nil
}

// Ranked is a recommendation set ordered for the current learner.
type Ranked struct {
	Tracks    []catalog.Track
	Resources []catalog.Resource
	// Fallback is set when the built-in offline set was used.
	Fallback bool
	// Err is the fetch error that caused the fallback.
	Err error
}

// Recommend fetches the cold-start selection and orders it by the
// learner's profile. Fetch failures fall back to the built-in set.
func (s *CatalogService) Recommend(ctx context.Context) (Ranked, error) {
	recs, err := guarded(ctx, s, ViewRecommendations, s.source.Recommendations)
	if errors.Is(err, ErrStale) {
		return Ranked{}, err
	}

	out := Ranked{}
	if err != nil {
		s.logger.Warn("recommendations unavailable, using offline set", "error", err)
		recs = catalog.FallbackRecommendations()
		out.Fallback = true
		out.Err = err
	}

	profile := s.tracker.Profile()
	out.Tracks = recommend.Rank(recs.Tracks, profile, recommend.TrackCandidate)
	out.Resources = recommend.Rank(recs.Resources, profile, recommend.ResourceCandidate)
	return out, nil
}

// Paths fetches the roadmap.
func (s *CatalogService) Paths(ctx context.Context) (catalog.Paths, error) {
	return guarded(ctx, s, ViewPaths, s.source.Paths)
}

// PlanOptions are the items a task can be linked to.
type PlanOptions struct {
	Tracks    []catalog.Track
	Resources []catalog.Resource
}

// PlanOptions loads tracks and resources concurrently for the task editor.
func (s *CatalogService) PlanOptions(ctx context.Context) (PlanOptions, error) {
	return guarded(ctx, s, ViewPlanOptions, func(ctx context.Context) (PlanOptions, error) {
		var opts PlanOptions
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			page, err := s.source.ListTracks(gctx, catalog.TrackQuery{PageSize: PlanTrackOptions})
			opts.Tracks = page.List
			return err
		})
		g.Go(func() error {
			page, err := s.source.ListResources(gctx, catalog.ResourceQuery{PageSize: PlanResourceOptions})
			opts.Resources = page.List
			return err
		})
		if err := g.Wait(); err != nil {
			return PlanOptions{}, err
		}
		return opts, nil
	})
}

// SearchResult holds one page of each list for a keyword.
type SearchResult struct {
	Tracks    catalog.Page[catalog.Track]
	Resources catalog.Page[catalog.Resource]
}

// Search queries tracks and resources concurrently and records the
// keyword for both pages.
func (s *CatalogService) Search(ctx context.Context, keyword string) (SearchResult, error) {
	var res SearchResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page, err := s.Tracks(gctx, catalog.TrackQuery{Q: keyword})
		res.Tracks = page
		return err
	})
	g.Go(func() error {
		page, err := s.Resources(gctx, catalog.ResourceQuery{Q: keyword})
		res.Resources = page
		return err
	})
	if err := g.Wait(); err != nil {
		return SearchResult{}, err
	}
	return res, nil
}
