package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReportsPrefabEdits(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(nil, dir)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	write := func(name string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("name: x\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	write("notes.txt")
	write("asteroid.yaml")

	timeout := time.After(2 * time.Second)
	for {
		select {
		case change := <-w.Events:
			if filepath.Base(change.Name) == "notes.txt" {
				t.Fatalf("non-prefab file reported")
			}
			if filepath.Base(change.Name) != "asteroid.yaml" || change.Script {
				t.Fatalf("unexpected change %+v", change)
			}
			return
		case err := <-w.Errors:
			t.Fatalf("watcher error: %v", err)
		case <-timeout:
			t.Fatalf("no change reported for asteroid.yaml")
		}
	}
}

func TestWatcherCloseClosesChannels(t *testing.T) {
	w, err := NewWatcher(nil, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close should be a no-op, got %v", err)
	}

	select {
	case _, ok := <-w.Events:
		if ok {
			t.Fatalf("Events should be closed")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Events not closed after Close")
	}
}

func TestNewWatcherMissingDir(t *testing.T) {
	if _, err := NewWatcher(nil, filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("watching a missing directory should fail")
	}
}

func TestIsSpecFile(t *testing.T) {
	cases := []struct {
		path         string
		spec, script bool
	}{
		{"a/asteroid.yaml", true, false},
		{"a/ASTEROID.YML", true, false},
		{"scripts/sandbox.tengo", false, true},
		{"notes.txt", false, false},
	}
	for _, c := range cases {
		t.Run(c.path, func(t *testing.T) {
			if isSpecFile(c.path) != c.spec || isScriptFile(c.path) != c.script {
				t.Fatalf("classification wrong for %s", c.path)
			}
		})
	}
}
