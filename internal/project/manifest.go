// Package project locates and reads the tarn.toml manifest. The
// manifest is optional: every setting has a flag or built-in default,
// so only a malformed file is an error, never an absent one.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file name the walk-up discovery looks for.
const ManifestName = "tarn.toml"

// Manifest mirrors tarn.toml.
type Manifest struct {
	Package PackageSection `toml:"package"`
	Lower   LowerSection   `toml:"lower"`
}

// PackageSection is the [package] table.
type PackageSection struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// LowerSection is the [lower] table. Zero values mean "not set"; the
// CLI layers flags and built-in defaults on top.
type LowerSection struct {
	Jobs           int    `toml:"jobs"`
	Out            string `toml:"out"`
	MaxDiagnostics int    `toml:"max-diagnostics"`
	Timings        bool   `toml:"timings"`
}

// FindManifest walks up from startDir to locate tarn.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load parses the manifest at path.
func Load(path string) (Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return Manifest{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if m.Lower.Jobs < 0 {
		return Manifest{}, fmt.Errorf("%s: [lower].jobs must not be negative", path)
	}
	if m.Lower.MaxDiagnostics < 0 {
		return Manifest{}, fmt.Errorf("%s: [lower].max-diagnostics must not be negative", path)
	}
	return m, nil
}

// Discover walks up from startDir and loads the nearest manifest. A
// missing manifest yields the zero Manifest with found=false and a nil
// error.
func Discover(startDir string) (m Manifest, root string, found bool, err error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return Manifest{}, "", false, err
	}
	m, err = Load(path)
	if err != nil {
		return Manifest{}, "", false, err
	}
	return m, filepath.Dir(path), true, nil
}
