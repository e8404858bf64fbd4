package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReportsMatchingFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := New([]string{".yaml", ".JSON"}, dir)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	scene := filepath.Join(dir, "desk.json")
	if err := os.WriteFile(scene, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-w.Events:
		if got != scene {
			t.Errorf("event for %q, want %q", got, scene)
		}
	case err := <-w.Errors:
		t.Fatalf("watch error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no event received")
	}
}

func TestWatcherWatchesFileThroughDirectory(t *testing.T) {
	dir := t.TempDir()
	scene := filepath.Join(dir, "desk.yaml")
	if err := os.WriteFile(scene, []byte("items: []\n"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := New([]string{".yaml"}, scene, scene)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(scene, []byte("items: []\ncanvas: {}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-w.Events:
		if got != scene {
			t.Errorf("event for %q, want %q", got, scene)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no event received")
	}
}

func TestWatcherCloseClosesChannels(t *testing.T) {
	w, err := New([]string{".json"}, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error: %v", err)
	}
	if _, ok := <-w.Events; ok {
		t.Error("Events should be closed")
	}
	if _, ok := <-w.Errors; ok {
		t.Error("Errors should be closed")
	}
}

func TestNewMissingDirectory(t *testing.T) {
	if _, err := New([]string{".json"}, filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("New() should fail for a missing directory")
	}
}

func TestMatches(t *testing.T) {
	w := &Watcher{exts: []string{".json", ".yml"}}
	tests := map[string]bool{
		"a.json":     true,
		"a.JSON":     true,
		"dir/b.yml":  true,
		"c.yaml":     false,
		"noext":      false,
		"json":       false,
		"a.json.bak": false,
	}
	for path, want := range tests {
		if got := w.matches(path); got != want {
			t.Errorf("matches(%q) = %v, want %v", path, got, want)
		}
	}
}
