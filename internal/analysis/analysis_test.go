package analysis_test

import (
	"slices"
	"sync"
	"testing"

	"tarn/internal/analysis"
	"tarn/internal/names"
)

func TestStoreDefaults(t *testing.T) {
	zero := analysis.NewStore[string, int](nil)
	if got := zero.Read("missing"); got != 0 {
		t.Errorf("Read on empty store = %d, want 0", got)
	}
	if zero.Has("missing") {
		t.Error("Has should be false for never-written keys")
	}

	withDef := analysis.NewStore[string, int](func(k string) int { return len(k) })
	if got := withDef.Read("four"); got != 4 {
		t.Errorf("defaulted Read = %d, want 4", got)
	}
	withDef.Write("four", 99)
	if got := withDef.Read("four"); got != 99 {
		t.Errorf("Read after Write = %d, want 99", got)
	}
	if withDef.Len() != 1 {
		t.Errorf("Len = %d, want 1", withDef.Len())
	}
}

func TestStoreModifyIsAtomic(t *testing.T) {
	store := analysis.NewStore[names.Name, analysis.Usage](nil)
	key := names.New("Main", "Box")

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(pos int) {
			defer wg.Done()
			analysis.Modify(store, key, func(u analysis.Usage) analysis.Usage {
				return u.Mark(pos)
			})
		}(i)
	}
	wg.Wait()

	u := store.Read(key)
	if !u.Known {
		t.Fatal("record should be known after marking")
	}
	for i := 0; i < 32; i++ {
		if !u.Uses(i) {
			t.Errorf("position %d lost in concurrent marking", i)
		}
	}
}

// flatAccessor lacks Modify, forcing the read-then-write fallback.
type flatAccessor struct{ m map[string]int }

func (a *flatAccessor) Read(k string) int     { return a.m[k] }
func (a *flatAccessor) Write(k string, v int) { a.m[k] = v }

func TestModifyFallsBackToReadWrite(t *testing.T) {
	acc := &flatAccessor{m: make(map[string]int)}
	analysis.Modify(acc, "n", func(v int) int { return v + 5 })
	analysis.Modify(acc, "n", func(v int) int { return v * 2 })
	if acc.m["n"] != 10 {
		t.Errorf("fallback Modify result = %d, want 10", acc.m["n"])
	}
}

func TestUsageKept(t *testing.T) {
	u := analysis.UsageOf(3, 0, 2)
	if got := u.Kept(4); !slices.Equal(got, []int{0, 2, 3}) {
		t.Errorf("Kept(4) = %v, want [0 2 3]", got)
	}
	// Positions at or beyond the arity are not retained slots.
	if got := u.Kept(2); !slices.Equal(got, []int{0}) {
		t.Errorf("Kept(2) = %v, want [0]", got)
	}

	var zero analysis.Usage
	if zero.Known {
		t.Error("zero usage should not be known")
	}
	if zero.Uses(0) {
		t.Error("zero usage should use nothing")
	}
	if zero.Kept(3) != nil {
		t.Error("zero usage should keep nothing")
	}

	empty := analysis.UsageOf()
	if !empty.Known {
		t.Error("an explicitly empty record is still known")
	}
	if got := empty.Kept(3); len(got) != 0 {
		t.Errorf("empty record Kept(3) = %v, want none", got)
	}
}

func TestMarkRecordsReasons(t *testing.T) {
	var u analysis.Usage
	u = u.Mark(1, "field read")
	u = u.Mark(1, "case binder")
	u = u.Mark(0)
	if !u.Uses(0) || !u.Uses(1) {
		t.Fatalf("marked positions missing: %v", u.Kept(2))
	}
	if got := u.Reasons[1]; !slices.Equal(got, []string{"field read", "case binder"}) {
		t.Errorf("reasons for 1 = %v", got)
	}
	if len(u.Reasons[0]) != 0 {
		t.Errorf("bare mark should record no reason, got %v", u.Reasons[0])
	}
}

func TestWireRoundTrip(t *testing.T) {
	boxName := names.New("Main", "Box")
	wrapName := names.New("Main", "Wrap")

	facts := analysis.NewFacts()
	facts.Usage.Write(boxName, analysis.UsageOf(0, 2))
	facts.Usage.Write(wrapName, analysis.UsageOf(1))
	facts.Opt.Write(wrapName, analysis.Opt{Detaggable: true})

	wire := facts.Wire()
	if len(wire.Usage) != 2 || len(wire.Opt) != 1 {
		t.Fatalf("wire sizes = %d usage, %d opt", len(wire.Usage), len(wire.Opt))
	}
	// Records are name-sorted for byte-stable snapshots.
	if wire.Usage[0].Name != boxName || wire.Usage[1].Name != wrapName {
		t.Errorf("usage order = %v, %v", wire.Usage[0].Name, wire.Usage[1].Name)
	}
	if !slices.Equal(wire.Usage[0].Positions, []int{0, 2}) {
		t.Errorf("Box positions = %v, want [0 2]", wire.Usage[0].Positions)
	}

	back := wire.Facts()
	if got := back.Usage.Read(boxName).Kept(3); !slices.Equal(got, []int{0, 2}) {
		t.Errorf("rebuilt Box Kept = %v, want [0 2]", got)
	}
	if !back.Opt.Read(wrapName).Detaggable {
		t.Error("rebuilt Wrap lost its detag flag")
	}
	if back.Opt.Has(boxName) {
		t.Error("rebuilt facts invented an opt record for Box")
	}
}
