package fuzztests

import (
	"os"
	"path/filepath"
	"testing"

	"tarn/internal/driver"
	"tarn/internal/testkit"
)

const maxFuzzInput = 1 << 16 // 64 KiB

func FuzzLoadCore(f *testing.F) {
	addSnapshotSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		if len(input) > maxFuzzInput {
			input = input[:maxFuzzInput]
		}
		path := filepath.Join(t.TempDir(), "fuzz"+driver.CoreExt)
		if err := os.WriteFile(path, input, 0o600); err != nil {
			t.Fatalf("write input: %v", err)
		}

		prog, facts, err := driver.LoadCore(path)
		if err != nil {
			return
		}
		if prog == nil || facts == nil {
			t.Fatal("loader accepted a snapshot but returned nil contents")
		}
	})
}

func FuzzLoadIR(f *testing.F) {
	addSnapshotSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		if len(input) > maxFuzzInput {
			input = input[:maxFuzzInput]
		}
		path := filepath.Join(t.TempDir(), "fuzz"+driver.IRExt)
		if err := os.WriteFile(path, input, 0o600); err != nil {
			t.Fatalf("write input: %v", err)
		}

		prog, err := driver.LoadIR(path)
		if err != nil {
			return
		}
		// Whatever the loader accepts must also hold the structural
		// invariants backends rely on.
		if err := testkit.CheckProgramInvariants(prog); err != nil {
			t.Fatalf("loader accepted a malformed program: %v", err)
		}
	})
}
