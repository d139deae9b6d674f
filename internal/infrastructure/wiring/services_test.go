package wiring

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/felixgeelhaar/learnpath/internal/infrastructure/config"
	"github.com/felixgeelhaar/learnpath/pkg/domain/catalog"
	"github.com/felixgeelhaar/learnpath/pkg/domain/events"
	"github.com/felixgeelhaar/learnpath/pkg/domain/planning"
	"github.com/felixgeelhaar/learnpath/pkg/storage"
)

type captureNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *captureNotifier) Notify(_ context.Context, _ events.NotificationLevel, _ string, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	return nil
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func initProject(t *testing.T) string {
	t.Helper()
	t.Setenv(config.EnvAPI, "")
	t.Setenv(config.EnvLogLevel, "")
	tempDir := t.TempDir()
	if err := storage.NewFilesystemRepository(tempDir).Initialize(); err != nil {
		t.Fatal(err)
	}
	return tempDir
}

func TestBuildAppServicesDefaults(t *testing.T) {
	services, err := BuildAppServices(initProject(t), WithLogger(quiet()))
	if err != nil {
		t.Fatalf("build services failed: %v", err)
	}
	if services.Workspace == nil || services.Tracker == nil || services.Catalog == nil || services.Source == nil {
		t.Fatalf("expected non-nil services, got %+v", services)
	}
	for _, typ := range []string{events.EventTypeMilestoneReached, events.EventTypeTaskCompleted, events.EventTypeStateSaveFailed} {
		if services.Dispatcher.HandlerCount(typ) < 2 {
			t.Errorf("expected handler plus logger for %s", typ)
		}
	}
}

func TestBuildAppServicesCorruptStateIsWarning(t *testing.T) {
	root := initProject(t)
	if err := os.WriteFile(filepath.Join(root, ".learnpath", "state.json"), []byte("{nope"), 0600); err != nil {
		t.Fatal(err)
	}

	services, err := BuildAppServices(root, WithLogger(quiet()))
	if err == nil {
		t.Fatal("expected warning for corrupt state")
	}
	if !errors.Is(err, storage.ErrCorruptState) {
		t.Errorf("expected ErrCorruptState in chain, got %v", err)
	}
	if services == nil || services.Tracker.Theme() != "light" {
		t.Fatal("expected usable services with default state")
	}
}

func TestBuildAppServicesNotifiesMilestones(t *testing.T) {
	n := &captureNotifier{}
	services, err := BuildAppServices(initProject(t), WithLogger(quiet()), WithNotifier(n))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if _, err := services.Tracker.SetProgress(ctx, "track-docker-1", 50); err != nil {
		t.Fatal(err)
	}
	task, err := services.Tracker.AddTask(ctx, planning.Draft{Title: "Read notes", Stage: catalog.StageDocker})
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := services.Tracker.ToggleTask(ctx, task.ID); err != nil {
		t.Fatal(err)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	// the seeded cloud track already sits at 40%
	want := []string{"Cloud Basics reached 25%", "Docker reached 25%", "Docker reached 50%", `"Read notes" is done.`}
	if len(n.messages) != len(want) {
		t.Fatalf("expected %v, got %v", want, n.messages)
	}
	for i := range want {
		if n.messages[i] != want[i] {
			t.Errorf("message %d: expected %q, got %q", i, want[i], n.messages[i])
		}
	}
}

func TestBuildAppServicesUsesConfiguredAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(catalog.Paths{Roadmap: []catalog.RoadmapStep{{Key: "Docker"}}})
	}))
	t.Cleanup(srv.Close)

	services, err := BuildAppServices(initProject(t),
		WithLogger(quiet()),
		WithOverrides(config.Overrides{APIBaseURL: srv.URL}))
	if err != nil {
		t.Fatal(err)
	}
	paths, err := services.Catalog.Paths(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(paths.Roadmap) != 1 || paths.Roadmap[0].Key != "Docker" {
		t.Errorf("unexpected paths %+v", paths)
	}
}
