package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/felixgeelhaar/learnpath/pkg/domain/catalog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r)
		done <- buf.String()
	}()

	fn()

	_ = w.Close()
	os.Stdout = old
	return <-done
}

func withTempDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	old, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
	t.Setenv("LEARNPATH_API", "")
	t.Setenv("LEARNPATH_LOG_LEVEL", "")
	return dir
}

// resetFlags restores every flag in the tree to its default, since the
// command tree is shared between tests.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// runCLI executes the root command against the project in root and the
// catalog at api.
func runCLI(t *testing.T, root, api string, args ...string) (string, error) {
	t.Helper()
	resetFlags(RootCmd)
	full := append([]string{"--project", root, "--api", api}, args...)
	RootCmd.SetArgs(full)

	var err error
	out := captureStdout(t, func() {
		err = RootCmd.Execute()
	})
	return out, err
}

var testTracks = []catalog.Track{
	{
		ID: "track-docker-1", Title: "Docker Essentials", Level: "基础", Tags: []string{"docker"},
		Chapters: []catalog.Chapter{
			{Title: "Images", Lessons: []string{"Layers", "Dockerfile"}},
			{Title: "Containers", Lessons: []string{"Run", "Volumes"}},
		},
	},
	{ID: "track-k8s-1", Title: "Kubernetes 101", Level: "进阶", Tags: []string{"k8s"}},
	{ID: "track-basic-1", Title: "Cloud Basics", Level: "基础", Tags: []string{"cloud"}},
}

var testResources = []catalog.Resource{
	{ID: "res-docker-1", Title: "Compose in practice", Type: "video", Tags: []string{"docker"}},
	{ID: "res-k8s-1", Title: "Pods explained", Type: "article", Tags: []string{"k8s"}},
}

// newCatalogServer serves a small fixed catalog. recommendations fails
// with 500 when failRecs is set.
func newCatalogServer(t *testing.T, failRecs bool) *httptest.Server {
	t.Helper()
	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/tracks", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, catalog.Page[catalog.Track]{List: testTracks, Total: len(testTracks), Page: 1, PageSize: 6})
	})
	mux.HandleFunc("/api/tracks/", func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Path[len("/api/tracks/"):]
		for _, tr := range testTracks {
			if tr.ID == id {
				writeJSON(w, catalog.TrackDetail{Track: tr, RelatedResources: testResources[:1]})
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Track not found"}`))
	})
	mux.HandleFunc("/api/resources", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, catalog.Page[catalog.Resource]{List: testResources, Total: len(testResources), Page: 1, PageSize: 8})
	})
	mux.HandleFunc("/api/resources/", func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Path[len("/api/resources/"):]
		for _, res := range testResources {
			if res.ID == id {
				writeJSON(w, catalog.ResourceDetail{Resource: res})
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/api/recommendations", func(w http.ResponseWriter, r *http.Request) {
		if failRecs {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message":"boom"}`))
			return
		}
		writeJSON(w, catalog.Recommendations{Tracks: testTracks, Resources: testResources})
	})
	mux.HandleFunc("/api/paths", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, catalog.Paths{
			Roadmap: []catalog.RoadmapStep{{Key: "Docker", Title: "Containers", TrackIDs: []string{"track-docker-1"}}},
			Tracks:  testTracks,
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}
