package catalogapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/felixgeelhaar/learnpath/pkg/domain/catalog"
	"github.com/google/go-cmp/cmp"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tracks", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("q") != "docker" || q.Get("level") != "基础" || q.Get("page") != "2" || q.Get("pageSize") != "6" || q.Has("tag") {
			http.Error(w, `{"message":"bad query"}`, http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(catalog.Page[catalog.Track]{
			List:     []catalog.Track{{ID: "track-docker-1", Title: "Docker", Tags: []string{"docker"}}},
			Total:    7,
			Page:     2,
			PageSize: 6,
		})
	})
	mux.HandleFunc("/api/tracks/track-docker-1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"track-docker-1","title":"Docker","chapters":[{"title":"c1","lessons":["a","b"]}],"relatedResources":[{"id":"res-1","title":"Intro"}]}`))
	})
	mux.HandleFunc("/api/tracks/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Track not found"}`))
	})
	mux.HandleFunc("/api/resources/res-1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"res-1","title":"Intro","type":"video","tags":["docker"],"related":[{"id":"res-2","title":"More"}]}`))
	})
	mux.HandleFunc("/api/resources", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("type") != "video" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"list":[{"id":"res-1","title":"Intro","type":"video"}],"total":1,"page":1,"pageSize":8}`))
	})
	mux.HandleFunc("/api/recommendations", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"boom"}`))
	})
	mux.HandleFunc("/api/paths", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"roadmap":[{"key":"Docker","title":"容器与Docker","trackIds":["track-docker-1"]}],"tracks":[]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_ListTracks(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL + "/")

	page, err := c.ListTracks(context.Background(), catalog.TrackQuery{Q: "docker", Level: "基础", Page: 2, PageSize: 6})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 7 || page.Page != 2 || len(page.List) != 1 || page.List[0].ID != "track-docker-1" {
		t.Errorf("unexpected page %+v", page)
	}
}

func TestClient_GetTrack(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL)

	detail, err := c.GetTrack(context.Background(), "track-docker-1")
	if err != nil {
		t.Fatal(err)
	}
	if detail.LessonCount() != 2 || len(detail.RelatedResources) != 1 {
		t.Errorf("unexpected detail %+v", detail)
	}

	_, err = c.GetTrack(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_Resources(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL)
	ctx := context.Background()

	page, err := c.ListResources(ctx, catalog.ResourceQuery{Type: "video"})
	if err != nil || page.Total != 1 {
		t.Fatalf("unexpected list %+v err=%v", page, err)
	}
	detail, err := c.GetResource(ctx, "res-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(detail.Related) != 1 || detail.Related[0].ID != "res-2" {
		t.Errorf("unexpected related %+v", detail.Related)
	}
}

func TestClient_ServerError(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL)

	_, err := c.Recommendations(context.Background())
	var serverErr *ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("expected ServerError, got %v", err)
	}
	if serverErr.StatusCode != http.StatusInternalServerError || serverErr.Message != "boom" {
		t.Errorf("unexpected server error %+v", serverErr)
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("expected status in message, got %q", err.Error())
	}
}

func TestClient_Paths(t *testing.T) {
	srv := newTestServer(t)
	paths, err := NewClient(srv.URL).Paths(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := []catalog.RoadmapStep{{Key: "Docker", Title: "容器与Docker", TrackIDs: []string{"track-docker-1"}}}
	if diff := cmp.Diff(want, paths.Roadmap); diff != "" {
		t.Errorf("roadmap mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_Timeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(block) })

	c := NewClient(srv.URL, WithTimeout(50*time.Millisecond))
	start := time.Now()
	_, err := c.Recommendations(context.Background())
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if time.Since(start) > 5*time.Second {
		t.Errorf("call was not bounded by the timeout")
	}
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	u := srv.URL
	srv.Close()

	_, err := NewClient(u).Paths(context.Background())
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("expected transport error, got %v", err)
	}
}
