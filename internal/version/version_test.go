package version

import (
	"strings"
	"testing"
)

func TestVersionDefault(t *testing.T) {
	if Version == "" {
		t.Fatal("Version should have a default value")
	}
	// The default is 0.1.0-dev with optional color escapes around the
	// numeric parts.
	for _, part := range []string{"0", "1", "-dev"} {
		if !strings.Contains(Version, part) {
			t.Errorf("Version = %q, missing %q", Version, part)
		}
	}
}

func TestVersionOverride(t *testing.T) {
	origVersion := Version
	origCommit := GitCommit
	origMessage := GitMessage
	origDate := BuildDate
	defer func() {
		Version = origVersion
		GitCommit = origCommit
		GitMessage = origMessage
		BuildDate = origDate
	}()

	Version = "1.2.3"
	GitCommit = "abc123def456"
	GitMessage = "tighten detag checks"
	BuildDate = "2026-08-23T10:30:00Z"

	if Version != "1.2.3" {
		t.Errorf("Version = %q, want %q", Version, "1.2.3")
	}
	if GitCommit != "abc123def456" {
		t.Errorf("GitCommit = %q, want %q", GitCommit, "abc123def456")
	}
	if GitMessage != "tighten detag checks" {
		t.Errorf("GitMessage = %q, want %q", GitMessage, "tighten detag checks")
	}
	if BuildDate != "2026-08-23T10:30:00Z" {
		t.Errorf("BuildDate = %q, want %q", BuildDate, "2026-08-23T10:30:00Z")
	}
}

func TestOptionalFieldsDefaultEmpty(t *testing.T) {
	// Commit, message and date are only set by release builds.
	if GitCommit != "" || GitMessage != "" || BuildDate != "" {
		t.Errorf("optional fields should default to empty, got commit=%q message=%q date=%q",
			GitCommit, GitMessage, BuildDate)
	}
}
