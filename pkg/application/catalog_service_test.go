package application_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/felixgeelhaar/learnpath/pkg/application"
	"github.com/felixgeelhaar/learnpath/pkg/domain/catalog"
	"github.com/felixgeelhaar/learnpath/pkg/domain/library"
)

var errNotFound = errors.New("not found")

// fakeSource is an in-memory catalog.Source. Calls to GetTrack for an id
// present in gates block until the gate is closed.
type fakeSource struct {
	mu        sync.Mutex
	tracks    []catalog.Track
	resources []catalog.Resource
	recErr    error
	gates     map[string]chan struct{}
	queries   []catalog.TrackQuery
}

func (f *fakeSource) ListTracks(ctx context.Context, q catalog.TrackQuery) (catalog.Page[catalog.Track], error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()
	return catalog.Page[catalog.Track]{List: f.tracks, Total: len(f.tracks), Page: 1, PageSize: q.PageSize}, nil
}

func (f *fakeSource) GetTrack(ctx context.Context, id string) (catalog.TrackDetail, error) {
	if gate, ok := f.gates[id]; ok {
		<-gate
	}
	for _, t := range f.tracks {
		if t.ID == id {
			return catalog.TrackDetail{Track: t}, nil
		}
	}
	return catalog.TrackDetail{}, errNotFound
}

func (f *fakeSource) ListResources(ctx context.Context, q catalog.ResourceQuery) (catalog.Page[catalog.Resource], error) {
	return catalog.Page[catalog.Resource]{List: f.resources, Total: len(f.resources), Page: 1, PageSize: q.PageSize}, nil
}

func (f *fakeSource) GetResource(ctx context.Context, id string) (catalog.ResourceDetail, error) {
	for _, r := range f.resources {
		if r.ID == id {
			return catalog.ResourceDetail{Resource: r}, nil
		}
	}
	return catalog.ResourceDetail{}, errNotFound
}

func (f *fakeSource) Recommendations(ctx context.Context) (catalog.Recommendations, error) {
	if f.recErr != nil {
		return catalog.Recommendations{}, f.recErr
	}
	return catalog.Recommendations{Tracks: f.tracks, Resources: f.resources}, nil
}

func (f *fakeSource) Paths(ctx context.Context) (catalog.Paths, error) {
	return catalog.Paths{Tracks: f.tracks}, nil
}

func sampleSource() *fakeSource {
	return &fakeSource{
		tracks: []catalog.Track{
			{ID: "track-basic-1", Title: "Cloud", Level: "基础", Tags: []string{"cloud"}},
			{ID: "track-k8s-1", Title: "K8s", Level: "进阶", Tags: []string{"k8s"}},
			{ID: "track-docker-1", Title: "Docker", Level: "基础", Tags: []string{"docker", "容器"}},
		},
		resources: []catalog.Resource{
			{ID: "res-1", Title: "Intro", Type: "article", Tags: []string{"cloud"}},
			{ID: "res-2", Title: "Dockerfile", Type: "video", Tags: []string{"docker"}},
		},
	}
}

func newCatalogService(t *testing.T, src *fakeSource) (*application.CatalogService, *application.Tracker) {
	t.Helper()
	tr, _ := newTracker(t, &MockRepo{})
	return application.NewCatalogService(src, tr, quietLogger()), tr
}

func TestCatalogService_TrackRecordsRecentView(t *testing.T) {
	svc, tr := newCatalogService(t, sampleSource())

	detail, err := svc.Track(context.Background(), "track-docker-1")
	if err != nil {
		t.Fatal(err)
	}
	if detail.Title != "Docker" {
		t.Errorf("unexpected detail %+v", detail)
	}
	views := tr.RecentViews()
	if len(views) != 1 || views[0] != (library.RecentView{ID: "track-docker-1", Title: "Docker", Type: catalog.ItemTrack}) {
		t.Errorf("unexpected recent views %v", views)
	}

	if _, err := svc.Track(context.Background(), "missing"); !errors.Is(err, errNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
	if len(tr.RecentViews()) != 1 {
		t.Error("failed fetch must not record a view")
	}
}

func TestCatalogService_StaleResponseDropped(t *testing.T) {
	src := sampleSource()
	slow := make(chan struct{})
	src.gates = map[string]chan struct{}{"track-basic-1": slow}
	svc, tr := newCatalogService(t, src)
	ctx := context.Background()

	errCh := make(chan error, 1)
	started := make(chan struct{})
	go func() {
		close(started)
		_, err := svc.Track(ctx, "track-basic-1")
		errCh <- err
	}()
	<-started
	// wait until the slow request holds its generation
	for svc.Current(application.ViewTrackDetail, 0) {
		select {
		case err := <-errCh:
			t.Fatalf("slow request finished early: %v", err)
		default:
		}
	}

	if _, err := svc.Track(ctx, "track-k8s-1"); err != nil {
		t.Fatal(err)
	}
	close(slow)

	if err := <-errCh; !errors.Is(err, application.ErrStale) {
		t.Errorf("expected ErrStale for the superseded request, got %v", err)
	}
	views := tr.RecentViews()
	if len(views) != 1 || views[0].ID != "track-k8s-1" {
		t.Errorf("stale response must not be recorded, got %v", views)
	}
}

func TestCatalogService_GenerationTokens(t *testing.T) {
	svc, _ := newCatalogService(t, sampleSource())

	first := svc.Begin(application.ViewTracks)
	second := svc.Begin(application.ViewTracks)
	other := svc.Begin(application.ViewResources)

	if svc.Current(application.ViewTracks, first) {
		t.Error("first token should be stale")
	}
	if !svc.Current(application.ViewTracks, second) || !svc.Current(application.ViewResources, other) {
		t.Error("latest tokens should be current per view")
	}
}

func TestCatalogService_RecommendRanksByProfile(t *testing.T) {
	svc, tr := newCatalogService(t, sampleSource())
	ctx := context.Background()

	if _, err := tr.ToggleFavorite(ctx, catalog.Item{ID: "track-docker-1", Level: "基础", Tags: []string{"docker"}}, catalog.ItemTrack); err != nil {
		t.Fatal(err)
	}
	if err := tr.AddRecentView(ctx, library.RecentView{ID: "track-docker-1", Type: catalog.ItemTrack}); err != nil {
		t.Fatal(err)
	}

	ranked, err := svc.Recommend(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if ranked.Fallback {
		t.Error("unexpected fallback")
	}
	// docker: 1+2+3+2=8, basic: 1+3=4, k8s: 1
	gotIDs := []string{ranked.Tracks[0].ID, ranked.Tracks[1].ID, ranked.Tracks[2].ID}
	want := []string{"track-docker-1", "track-basic-1", "track-k8s-1"}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, gotIDs)
		}
	}
	if ranked.Resources[0].ID != "res-2" {
		t.Errorf("expected docker resource first, got %s", ranked.Resources[0].ID)
	}
}

func TestCatalogService_RecommendFallsBack(t *testing.T) {
	src := sampleSource()
	src.recErr = errors.New("connection refused")
	svc, _ := newCatalogService(t, src)

	ranked, err := svc.Recommend(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !ranked.Fallback || ranked.Err == nil {
		t.Error("expected fallback with cause")
	}
	fallback := catalog.FallbackRecommendations()
	if len(ranked.Tracks) != len(fallback.Tracks) || len(ranked.Resources) != len(fallback.Resources) {
		t.Errorf("expected the offline set, got %+v", ranked)
	}
}

func TestCatalogService_SearchRecordsKeyword(t *testing.T) {
	src := sampleSource()
	svc, tr := newCatalogService(t, src)

	res, err := svc.Search(context.Background(), "docker")
	if err != nil {
		t.Fatal(err)
	}
	if res.Tracks.Total != 3 || res.Resources.Total != 2 {
		t.Errorf("unexpected result %+v", res)
	}
	if got := tr.RecentSearches(library.SearchTracks); len(got) != 1 || got[0] != "docker" {
		t.Errorf("expected track search recorded, got %v", got)
	}
	if got := tr.RecentSearches(library.SearchResources); len(got) != 1 || got[0] != "docker" {
		t.Errorf("expected resource search recorded, got %v", got)
	}
	if src.queries[0].PageSize != application.TrackPageSize {
		t.Errorf("expected default page size, got %d", src.queries[0].PageSize)
	}
}

func TestCatalogService_PlanOptions(t *testing.T) {
	src := sampleSource()
	svc, _ := newCatalogService(t, src)

	opts, err := svc.PlanOptions(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(opts.Tracks) != 3 || len(opts.Resources) != 2 {
		t.Errorf("unexpected options %+v", opts)
	}
	if src.queries[0].PageSize != application.PlanTrackOptions {
		t.Errorf("expected page size %d, got %d", application.PlanTrackOptions, src.queries[0].PageSize)
	}
}
