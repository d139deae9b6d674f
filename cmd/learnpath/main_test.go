package main

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestRun_Help(t *testing.T) {
	var stderr bytes.Buffer
	if code := run([]string{"--help"}, &stderr); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	var stderr bytes.Buffer
	if code := run([]string{"invalid-cmd-999"}, &stderr); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
}

func TestRun_PrintsHint(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LEARNPATH_API", "")
	t.Setenv("LEARNPATH_LOG_LEVEL", "")

	var stderr bytes.Buffer
	code := run([]string{"--project", dir, "task", "done", "missing-id"}, &stderr)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "learnpath task list") {
		t.Errorf("expected hint on stderr, got %q", stderr.String())
	}
	if _, err := os.Stat(dir + "/.learnpath/state.json"); !os.IsNotExist(err) {
		t.Errorf("a failed toggle must not create a snapshot")
	}
}
