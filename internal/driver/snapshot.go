package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"tarn/internal/analysis"
	"tarn/internal/core"
	"tarn/internal/diag"
	"tarn/internal/ir"
	"tarn/internal/names"
)

// Snapshot file extensions: .tarnc carries the front end's typed core
// and analysis facts, .tarni the lowered program.
const (
	CoreExt = ".tarnc"
	IRExt   = ".tarni"
)

const (
	coreMagic = "tarn:core"
	irMagic   = "tarn:ir"

	// Bump when the payload format changes.
	coreSchema uint16 = 1
	irSchema   uint16 = 1
)

// envelope frames every snapshot: the magic and schema are decoded
// before the body, so a wrong file or a stale format is reported as
// such instead of as garbage.
type envelope struct {
	Magic  string
	Schema uint16
	Body   msgpack.RawMessage
}

type corePayload struct {
	Program *core.Program
	Facts   *analysis.WireFacts
}

type irPayload struct {
	Program *ir.Program
}

// LoadCore reads a typed-core snapshot. Format problems come back as
// snapshot diagnostics; I/O problems as plain errors.
func LoadCore(path string) (*core.Program, *analysis.Facts, error) {
	env, err := readEnvelope(path)
	if err != nil {
		return nil, nil, err
	}
	if err := checkEnvelope(env, path, coreMagic, coreSchema); err != nil {
		return nil, nil, err
	}
	var p corePayload
	if err := msgpack.Unmarshal(env.Body, &p); err != nil {
		return nil, nil, snapErr(diag.SnapCorrupt, path, "cannot decode core payload: "+err.Error())
	}
	if p.Program == nil {
		return nil, nil, snapErr(diag.SnapCorrupt, path, "core payload carries no program")
	}
	facts := analysis.NewFacts()
	if p.Facts != nil {
		facts = p.Facts.Facts()
	}
	return p.Program, facts, nil
}

// SaveCore writes a typed-core snapshot atomically. Front ends and
// tests use it to hand programs to the lowering tier.
func SaveCore(path string, prog *core.Program, facts *analysis.Facts) error {
	var wire *analysis.WireFacts
	if facts != nil {
		wire = facts.Wire()
	}
	body, err := msgpack.Marshal(&corePayload{Program: prog, Facts: wire})
	if err != nil {
		return fmt.Errorf("driver: encode core snapshot: %w", err)
	}
	return writeEnvelope(path, &envelope{Magic: coreMagic, Schema: coreSchema, Body: body})
}

// LoadIR reads a lowered-program snapshot.
func LoadIR(path string) (*ir.Program, error) {
	env, err := readEnvelope(path)
	if err != nil {
		return nil, err
	}
	if err := checkEnvelope(env, path, irMagic, irSchema); err != nil {
		return nil, err
	}
	var p irPayload
	if err := msgpack.Unmarshal(env.Body, &p); err != nil {
		return nil, snapErr(diag.SnapCorrupt, path, "cannot decode program payload: "+err.Error())
	}
	if p.Program == nil {
		return nil, snapErr(diag.SnapCorrupt, path, "payload carries no program")
	}
	return p.Program, nil
}

// SaveIR writes the lowered program atomically.
func SaveIR(path string, prog *ir.Program) error {
	body, err := msgpack.Marshal(&irPayload{Program: prog})
	if err != nil {
		return fmt.Errorf("driver: encode program snapshot: %w", err)
	}
	return writeEnvelope(path, &envelope{Magic: irMagic, Schema: irSchema, Body: body})
}

func readEnvelope(path string) (*envelope, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("driver: %w", err)
		}
		return nil, fmt.Errorf("driver: open snapshot: %w", err)
	}
	defer f.Close()

	var env envelope
	if err := msgpack.NewDecoder(f).Decode(&env); err != nil {
		return nil, snapErr(diag.SnapCorrupt, path, "cannot decode envelope: "+err.Error())
	}
	return &env, nil
}

func checkEnvelope(env *envelope, path, magic string, schema uint16) error {
	if env.Magic != magic {
		return snapErr(diag.SnapBadMagic, path,
			fmt.Sprintf("magic %q, want %q", env.Magic, magic))
	}
	if env.Schema != schema {
		return snapErr(diag.SnapSchemaMismatch, path,
			fmt.Sprintf("schema %d, this build reads %d", env.Schema, schema))
	}
	return nil
}

func snapErr(code diag.Code, path, msg string) error {
	return diag.NewError(code, names.Name{}, filepath.Base(path)+": "+msg)
}

func writeEnvelope(path string, env *envelope) error {
	f, err := os.CreateTemp(filepath.Dir(path), ".tarn-*")
	if err != nil {
		return fmt.Errorf("driver: write snapshot: %w", err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if err := msgpack.NewEncoder(f).Encode(env); err != nil {
		f.Close()
		return fmt.Errorf("driver: encode snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("driver: write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("driver: write snapshot: %w", err)
	}
	return nil
}
