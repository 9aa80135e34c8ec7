package project

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[package]
name = "demo"
version = "0.2.0"

[lower]
jobs = 4
out = "build"
max-diagnostics = 50
timings = true
`)
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Package.Name != "demo" || m.Package.Version != "0.2.0" {
		t.Errorf("package = %+v", m.Package)
	}
	if m.Lower.Jobs != 4 || m.Lower.Out != "build" || m.Lower.MaxDiagnostics != 50 || !m.Lower.Timings {
		t.Errorf("lower = %+v", m.Lower)
	}
}

func TestLoadManifestDefaults(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "")
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m != (Manifest{}) {
		t.Errorf("empty manifest = %+v, want zero values", m)
	}
}

func TestLoadManifestRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"negative jobs", "[lower]\njobs = -1\n"},
		{"negative max-diagnostics", "[lower]\nmax-diagnostics = -5\n"},
		{"broken toml", "[lower\njobs = 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tt.body)
			if _, err := Load(path); err == nil {
				t.Error("Load accepted an invalid manifest")
			}
		})
	}
}

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeManifest(t, root, "[package]\nname = \"demo\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, ok, err := FindManifest(nested)
	if err != nil {
		t.Fatalf("FindManifest: %v", err)
	}
	if !ok || got != want {
		t.Errorf("FindManifest = %q ok=%v, want %q", got, ok, want)
	}
}

func TestFindManifestMissing(t *testing.T) {
	_, ok, err := FindManifest(t.TempDir())
	if err != nil {
		t.Fatalf("FindManifest: %v", err)
	}
	if ok {
		t.Error("found a manifest in an empty tree")
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[package]\nname = \"demo\"\n")
	nested := filepath.Join(root, "sub")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	m, gotRoot, found, err := Discover(nested)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if !found || m.Package.Name != "demo" {
		t.Errorf("Discover = %+v found=%v", m, found)
	}
	if gotRoot != root {
		t.Errorf("root = %q, want %q", gotRoot, root)
	}

	if _, _, found, err := Discover(t.TempDir()); err != nil || found {
		t.Errorf("Discover on empty tree = found=%v err=%v", found, err)
	}
}
