package fuzztests

import (
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"tarn/internal/analysis"
	"tarn/internal/core"
	"tarn/internal/ir"
	"tarn/internal/names"
)

// seedEnvelope mirrors the snapshot envelope layout.
type seedEnvelope struct {
	Magic  string
	Schema uint16
	Body   msgpack.RawMessage
}

// addSnapshotSeeds loads a corpus spanning the interesting decode paths:
// well-formed snapshots of both kinds, the failure taxonomy (bad magic,
// future schema, corrupt body), and raw garbage.
func addSnapshotSeeds(f *testing.F) {
	f.Helper()

	corePayload := corePayloadSeed()
	irPayload := irPayloadSeed()

	f.Add([]byte{})
	f.Add([]byte("not a snapshot"))
	f.Add(envelopeSeed("tarn:core", 1, corePayload))
	f.Add(envelopeSeed("tarn:ir", 1, irPayload))
	f.Add(envelopeSeed("tarn:ir", 1, corePayload))
	f.Add(envelopeSeed("tarn:core", 99, corePayload))
	f.Add(envelopeSeed("tarn:core", 1, msgpack.RawMessage{0xc0}))

	truncated := envelopeSeed("tarn:core", 1, corePayload)
	f.Add(truncated[:len(truncated)/2])
}

func envelopeSeed(magic string, schema uint16, body msgpack.RawMessage) []byte {
	data, err := msgpack.Marshal(&seedEnvelope{Magic: magic, Schema: schema, Body: body})
	if err != nil {
		panic(err)
	}
	return data
}

func corePayloadSeed() msgpack.RawMessage {
	n := names.New("Fuzz", "id")
	prog := core.NewProgram()
	prog.Add(&core.Def{Name: n, Kind: core.DefFun, Data: core.FunData{
		Arity: 1,
		Body:  core.Lam(names.Local("x"), core.Local(0)),
	}})
	facts := analysis.NewFacts()
	facts.Usage.Write(n, analysis.UsageOf(0))

	payload := struct {
		Program *core.Program
		Facts   *analysis.WireFacts
	}{Program: prog, Facts: facts.Wire()}
	data, err := msgpack.Marshal(&payload)
	if err != nil {
		panic(err)
	}
	return data
}

func irPayloadSeed() msgpack.RawMessage {
	x := names.Local("x")
	prog := ir.NewProgram()
	prog.Add(ir.NewFun(names.New("Fuzz", "id"), []names.Name{x}, ir.Var(x)))
	prog.Add(ir.NewCon(names.New("Fuzz", "Box"), 0, 1))

	payload := struct{ Program *ir.Program }{Program: prog}
	data, err := msgpack.Marshal(&payload)
	if err != nil {
		panic(err)
	}
	return data
}
