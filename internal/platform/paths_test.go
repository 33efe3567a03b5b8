package platform

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestPathsForLayout(t *testing.T) {
	paths := pathsFor("/home/u/.config", "/home/u/.local/share", "worklens")
	if paths.ConfigPath != filepath.Join("/home/u/.config", "worklens", "config.toml") {
		t.Fatalf("unexpected config path %q", paths.ConfigPath)
	}
	if paths.DataDir != filepath.Join("/home/u/.local/share", "worklens") {
		t.Fatalf("unexpected data dir %q", paths.DataDir)
	}
	if paths.DBPath != filepath.Join(paths.DataDir, "worklens.db") {
		t.Fatalf("unexpected db path %q", paths.DBPath)
	}
}

func TestDefaultPathsDevModeSuffix(t *testing.T) {
	paths, err := DefaultPaths(Options{AppName: "worklens", DevMode: true})
	if err != nil {
		t.Fatalf("DefaultPaths() error = %v", err)
	}
	if !strings.Contains(paths.DBPath, "worklens-dev") {
		t.Fatalf("expected dev-mode suffix in %q", paths.DBPath)
	}
}

func TestDefaultPathsEmptyAppNameFallsBack(t *testing.T) {
	paths, err := DefaultPaths(Options{})
	if err != nil {
		t.Fatalf("DefaultPaths() error = %v", err)
	}
	if !strings.Contains(paths.ConfigPath, "worklens") {
		t.Fatalf("expected default app name in %q", paths.ConfigPath)
	}
}
