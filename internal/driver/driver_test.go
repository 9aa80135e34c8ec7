package driver_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"tarn/internal/analysis"
	"tarn/internal/constant"
	"tarn/internal/core"
	"tarn/internal/diag"
	"tarn/internal/driver"
	"tarn/internal/ir"
	"tarn/internal/names"
	"tarn/internal/observ"
	"tarn/internal/testkit"
)

var (
	incName   = names.New("Main", "inc")
	boxName   = names.New("Main", "Box")
	natName   = names.New("Main", "Nat")
	axiomName = names.New("Main", "axiom")
	addName   = names.New("prim", "add.int")
	badName   = names.New("Main", "bad")
	extName   = names.New("Main", "ext")
)

// fixture builds a small program covering every definition kind, with
// the usage records lowering needs.
func fixture() (*core.Program, *analysis.Facts) {
	prog := core.NewProgram()
	facts := analysis.NewFacts()

	prog.Add(&core.Def{Name: incName, Kind: core.DefFun, Data: core.FunData{
		Arity: 1,
		Body: core.Lam(names.Local("x"),
			core.App(core.Ref(addName), core.Local(0), core.Lit(constant.IntVal(1)))),
	}})
	facts.Usage.Write(incName, analysis.UsageOf(0))

	prog.Add(&core.Def{Name: boxName, Kind: core.DefCon, Data: core.ConData{Tag: 0, Arity: 2}})
	facts.Usage.Write(boxName, analysis.UsageOf(1))

	prog.Add(&core.Def{Name: natName, Kind: core.DefTypeCon, Data: core.TypeConData{Arity: 0}})
	prog.Add(&core.Def{Name: axiomName, Kind: core.DefPostulate, Data: core.PostulateData{Arity: 1}})

	prog.Add(&core.Def{Name: addName, Kind: core.DefPrim, Data: core.PrimData{Arity: 2}})
	facts.Usage.Write(addName, analysis.UsageOf(0, 1))

	return prog, facts
}

// addBadDef registers a function whose body is missing its binders, which
// trips the malformed-function invariant.
func addBadDef(prog *core.Program, facts *analysis.Facts) {
	prog.Add(&core.Def{Name: badName, Kind: core.DefFun, Data: core.FunData{
		Arity: 2,
		Body:  core.Lit(constant.IntVal(0)),
	}})
	facts.Usage.Write(badName, analysis.UsageOf(0, 1))
}

// addForeignDef registers a nullary function whose foreign call uses a
// descriptor outside the known set.
func addForeignDef(prog *core.Program, facts *analysis.Facts) {
	prog.Add(&core.Def{Name: extName, Kind: core.DefFun, Data: core.FunData{
		Arity: 0,
		Body: core.App(core.Ref(core.MarkForeign),
			core.Ref(names.New("FFI_JS", "JS_Object")),
			core.Lit(constant.StrVal("alert")),
			core.App(core.Ref(core.ListNil), core.Erased()),
			core.Lit(constant.WorldVal())),
	}})
	facts.Usage.Write(extName, analysis.UsageOf())
}

func dump(t *testing.T, p *ir.Program) string {
	t.Helper()
	var sb strings.Builder
	if err := ir.Dump(&sb, p); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	return sb.String()
}

func TestLowerProducesDeclarations(t *testing.T) {
	prog, facts := fixture()
	res, err := driver.Lower(context.Background(), prog, facts, driver.Options{Jobs: 1})
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	if res.Failed() {
		t.Fatalf("Failed() = true, diagnostics: %s", diag.FormatDiagnostics(res.Bag.Items()))
	}
	if err := testkit.CheckProgramInvariants(res.Program); err != nil {
		t.Fatalf("lowered program is malformed: %v", err)
	}

	inc := res.Program.Decl(incName)
	if inc == nil || inc.Kind != ir.DeclFun {
		t.Fatalf("inc decl = %v, want a function", inc)
	}
	if got := ir.FormatExp(inc.Fun().Body); got != "(add.int x 1)" {
		t.Errorf("inc body = %s, want (add.int x 1)", got)
	}

	box := res.Program.Decl(boxName)
	if box == nil || box.Kind != ir.DeclCon {
		t.Fatalf("Box decl = %v, want a constructor", box)
	}
	if c := box.Data.(ir.ConDecl); c.Tag != 0 || c.Arity != 1 {
		t.Errorf("Box = tag %d arity %d, want tag 0 arity 1", c.Tag, c.Arity)
	}

	if nat := res.Program.Decl(natName); nat == nil {
		t.Error("type constructor produced no declaration")
	}
	if axiom := res.Program.Decl(axiomName); axiom == nil || axiom.Kind != ir.DeclFun {
		t.Error("postulate produced no crash stub")
	}
	if prim := res.Program.Decl(addName); prim != nil {
		t.Errorf("primitive produced a declaration: %v", prim)
	}
}

func TestLowerCollectsFailuresIndependently(t *testing.T) {
	prog, facts := fixture()
	addBadDef(prog, facts)

	res, err := driver.Lower(context.Background(), prog, facts, driver.Options{Jobs: 2})
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	if !res.Failed() {
		t.Fatal("Failed() = false with a malformed definition in the program")
	}

	items := res.Bag.Items()
	if len(items) != 1 {
		t.Fatalf("bag has %d diagnostics, want 1: %s", len(items), diag.FormatDiagnostics(items))
	}
	d := items[0]
	if d.Code != diag.IceMalformedFun {
		t.Errorf("code = %v, want IceMalformedFun", d.Code)
	}
	if d.Name != badName {
		t.Errorf("diagnostic name = %s, want %s", d.Name, badName)
	}
	if d.Severity != diag.SevBug {
		t.Errorf("severity = %v, want SevBug", d.Severity)
	}

	if res.Program.Decl(badName) != nil {
		t.Error("malformed definition still produced a declaration")
	}
	if res.Program.Decl(incName) == nil {
		t.Error("healthy definition was not lowered")
	}
}

func TestLowerSurfacesWarnings(t *testing.T) {
	prog, facts := fixture()
	addForeignDef(prog, facts)

	res, err := driver.Lower(context.Background(), prog, facts, driver.Options{Jobs: 2})
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	if res.Failed() {
		t.Fatalf("Failed() = true on warnings alone: %s", diag.FormatDiagnostics(res.Bag.Items()))
	}

	items := res.Bag.Items()
	if len(items) != 1 {
		t.Fatalf("bag has %d diagnostics, want 1: %s", len(items), diag.FormatDiagnostics(items))
	}
	d := items[0]
	if d.Severity != diag.SevWarning || d.Code != diag.LowForeignAny {
		t.Errorf("entry = %s %s, want %s %s", d.Severity, d.Code.ID(), diag.SevWarning, diag.LowForeignAny.ID())
	}
	if d.Name != extName {
		t.Errorf("diagnostic name = %s, want %s", d.Name, extName)
	}
	if res.Program.Decl(extName) == nil {
		t.Error("warned definition was not lowered")
	}
}

func TestLowerIsDeterministicAcrossWorkers(t *testing.T) {
	build := func() (*core.Program, *analysis.Facts) {
		prog, facts := fixture()
		for i := 0; i < 24; i++ {
			n := names.New("Main", fmt.Sprintf("f%02d", i))
			prog.Add(&core.Def{Name: n, Kind: core.DefFun, Data: core.FunData{
				Arity: 1,
				Body:  core.Lam(names.Local("x"), core.Local(0)),
			}})
			facts.Usage.Write(n, analysis.UsageOf(0))
		}
		return prog, facts
	}

	prog1, facts1 := build()
	serial, err := driver.Lower(context.Background(), prog1, facts1, driver.Options{Jobs: 1})
	if err != nil {
		t.Fatalf("Lower jobs=1: %v", err)
	}
	prog8, facts8 := build()
	parallel, err := driver.Lower(context.Background(), prog8, facts8, driver.Options{Jobs: 8})
	if err != nil {
		t.Fatalf("Lower jobs=8: %v", err)
	}

	if a, b := dump(t, serial.Program), dump(t, parallel.Program); a != b {
		t.Errorf("worker count changed the output\njobs=1:\n%s\njobs=8:\n%s", a, b)
	}
}

func TestLowerObserverSeesEveryDefinition(t *testing.T) {
	prog, facts := fixture()
	addBadDef(prog, facts)

	var mu sync.Mutex
	events := make(map[int]driver.Event)
	_, err := driver.Lower(context.Background(), prog, facts, driver.Options{
		Jobs: 4,
		Observe: func(ev driver.Event) {
			mu.Lock()
			events[ev.Index] = ev
			mu.Unlock()
		},
	})
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}

	total := len(prog.Names())
	if len(events) != total {
		t.Fatalf("observer saw %d definitions, want %d", len(events), total)
	}
	for i := 0; i < total; i++ {
		ev, ok := events[i]
		if !ok {
			t.Fatalf("no event for index %d", i)
		}
		if ev.Total != total {
			t.Errorf("event %d total = %d, want %d", i, ev.Total, total)
		}
		if ev.Failed != (ev.Name == badName) {
			t.Errorf("event for %s: failed = %v", ev.Name, ev.Failed)
		}
	}
}

func TestLowerHonorsCancellation(t *testing.T) {
	prog, facts := fixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := driver.Lower(ctx, prog, facts, driver.Options{Jobs: 1})
	if err == nil {
		t.Fatal("Lower with a canceled context returned nil error")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestLowerRecordsTimerPhase(t *testing.T) {
	prog, facts := fixture()
	timer := observ.NewTimer()
	if _, err := driver.Lower(context.Background(), prog, facts, driver.Options{Jobs: 1, Timer: timer}); err != nil {
		t.Fatalf("Lower: %v", err)
	}

	report := timer.Report()
	if len(report.Phases) != 1 {
		t.Fatalf("timer recorded %d phases, want 1", len(report.Phases))
	}
	phase := report.Phases[0]
	if phase.Name != "lower" {
		t.Errorf("phase name = %q, want %q", phase.Name, "lower")
	}
	if phase.Note != "4 of 5 defs" {
		t.Errorf("phase note = %q, want %q", phase.Note, "4 of 5 defs")
	}
}

func TestAppendTimings(t *testing.T) {
	timer := observ.NewTimer()
	idx := timer.Begin("lower")
	timer.End(idx, "3 of 3 defs")

	bag := diag.NewBag(8)
	driver.AppendTimings(bag, timer, "lower", "app.tarnc")
	if bag.Len() != 1 {
		t.Fatalf("bag has %d entries, want 1", bag.Len())
	}
	d := bag.Items()[0]
	if d.Code != diag.ObsTimings || d.Severity != diag.SevInfo {
		t.Errorf("entry = %v %v, want SevInfo ObsTimings", d.Severity, d.Code)
	}
	if !strings.Contains(d.Message, "timings (lower)") {
		t.Errorf("message = %q, want a timings header", d.Message)
	}
	var payload struct {
		Kind   string `json:"kind"`
		Path   string `json:"path"`
		Phases []struct {
			Name string `json:"name"`
			Note string `json:"note"`
		} `json:"phases"`
	}
	if err := json.Unmarshal([]byte(d.Detail), &payload); err != nil {
		t.Fatalf("detail is not JSON: %v", err)
	}
	if payload.Kind != "lower" || payload.Path != "app.tarnc" {
		t.Errorf("payload = kind %q path %q", payload.Kind, payload.Path)
	}
	if len(payload.Phases) != 1 || payload.Phases[0].Name != "lower" {
		t.Errorf("payload phases = %+v", payload.Phases)
	}
}

func TestAppendTimingsSurvivesFullBag(t *testing.T) {
	timer := observ.NewTimer()
	timer.End(timer.Begin("lower"), "")

	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.LowConstMatch, incName, "placeholder"))
	driver.AppendTimings(bag, timer, "", "")
	if bag.Len() != 2 {
		t.Fatalf("bag has %d entries, want the finding plus the timings", bag.Len())
	}
	last := bag.Items()[1]
	if last.Code != diag.ObsTimings {
		t.Errorf("appended entry code = %v, want ObsTimings", last.Code)
	}
	if !strings.Contains(last.Message, "timings (pipeline)") {
		t.Errorf("message = %q, want the pipeline default kind", last.Message)
	}
}
