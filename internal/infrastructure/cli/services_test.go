package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/felixgeelhaar/learnpath/pkg/storage"
)

func clearGlobalFlags(t *testing.T) {
	t.Helper()
	resetFlags(RootCmd)
	logLevel, apiBaseURL = "", ""
}

func TestLoadServicesSucceeds(t *testing.T) {
	withTempDir(t)
	clearGlobalFlags(t)
	tempDir := t.TempDir()
	repo := storage.NewFilesystemRepository(tempDir)
	if err := repo.Initialize(); err != nil {
		t.Fatalf("initialize repo: %v", err)
	}

	services, err := loadServices(tempDir)
	if err != nil {
		t.Fatalf("load services: %v", err)
	}
	if services == nil || services.Tracker == nil || services.Catalog == nil {
		t.Fatalf("expected services, got %+v", services)
	}
}

func TestLoadServicesCorruptStateStillUsable(t *testing.T) {
	tempDir := withTempDir(t)
	clearGlobalFlags(t)
	if err := os.MkdirAll(filepath.Join(tempDir, ".learnpath"), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tempDir, ".learnpath", "state.json"), []byte("{nope"), 0600); err != nil {
		t.Fatal(err)
	}

	services, err := loadServices(tempDir)
	if err != nil {
		t.Fatalf("corrupt state must only warn: %v", err)
	}
	if services.Tracker.LoadWarning() == nil {
		t.Error("expected a load warning")
	}
}

func TestLoadServicesForCurrentDir(t *testing.T) {
	tempDir := withTempDir(t)
	clearGlobalFlags(t)
	old := projectPath
	defer func() { projectPath = old }()
	projectPath = ""

	services, err := loadServicesForCurrentDir()
	if err != nil {
		t.Fatalf("load services for current dir: %v", err)
	}
	cwd, _ := filepath.EvalSymlinks(tempDir)
	root, _ := filepath.EvalSymlinks(services.Workspace.Root)
	if root != cwd {
		t.Fatalf("expected root %s, got %s", cwd, root)
	}
}

func TestGetProjectRoot_DefaultToCwd(t *testing.T) {
	old := projectPath
	defer func() { projectPath = old }()
	projectPath = ""

	got, err := getProjectRoot()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cwd, _ := os.Getwd()
	if got != cwd {
		t.Fatalf("expected %s, got %s", cwd, got)
	}
}

func TestGetProjectRoot_WithFlag(t *testing.T) {
	tmpDir := t.TempDir()

	old := projectPath
	defer func() { projectPath = old }()
	projectPath = tmpDir

	got, err := getProjectRoot()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	abs, _ := filepath.Abs(tmpDir)
	if got != abs {
		t.Fatalf("expected %s, got %s", abs, got)
	}
}

func TestGetProjectRoot_InvalidPath(t *testing.T) {
	old := projectPath
	defer func() { projectPath = old }()
	projectPath = filepath.Join(t.TempDir(), "does-not-exist")

	_, err := getProjectRoot()
	if err == nil || !strings.Contains(err.Error(), "does-not-exist") {
		t.Fatalf("expected error naming the path, got %v", err)
	}
}
