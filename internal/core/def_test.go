package core_test

import (
	"slices"
	"testing"

	"tarn/internal/core"
	"tarn/internal/names"
)

func TestDefArity(t *testing.T) {
	tests := []struct {
		name string
		def  *core.Def
		want int
	}{
		{"fun", &core.Def{Kind: core.DefFun, Data: core.FunData{Arity: 2}}, 2},
		{"match counts its argument list", &core.Def{Kind: core.DefMatch, Data: core.MatchData{
			Args: []names.Name{names.Local("x"), names.Local("y")},
		}}, 2},
		{"con", &core.Def{Kind: core.DefCon, Data: core.ConData{Arity: 3}}, 3},
		{"type con", &core.Def{Kind: core.DefTypeCon, Data: core.TypeConData{Arity: 1}}, 1},
		{"postulate", &core.Def{Kind: core.DefPostulate, Data: core.PostulateData{Arity: 1}}, 1},
		{"prim", &core.Def{Kind: core.DefPrim, Data: core.PrimData{Arity: 2}}, 2},
		{"missing", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.def.Arity(); got != tt.want {
				t.Errorf("arity is %d, want %d", got, tt.want)
			}
		})
	}
}

func TestConAccessor(t *testing.T) {
	show := names.New("Prelude.Show", "Show")
	def := &core.Def{Name: names.New("Main", "ShowD"), Kind: core.DefCon, Data: core.ConData{
		Tag: 0, Arity: 1, FieldArity: []int{2}, Instance: true, Class: show,
	}}
	c := def.Con()
	if c == nil {
		t.Fatal("constructor payload not returned")
	}
	if !c.Instance || c.Class != show || !slices.Equal(c.FieldArity, []int{2}) {
		t.Errorf("payload %+v lost fields", *c)
	}

	fun := &core.Def{Kind: core.DefFun, Data: core.FunData{Arity: 1}}
	if fun.Con() != nil {
		t.Error("non-constructor definition returned a constructor payload")
	}
	var missing *core.Def
	if missing.Con() != nil {
		t.Error("nil definition returned a constructor payload")
	}
}

func TestProgramNamesSorted(t *testing.T) {
	prog := core.NewProgram()
	for _, n := range []names.Name{
		names.New("Main", "b"),
		names.Local("z"),
		names.New("Main", "a").WithGen(2),
		names.New("Main", "a"),
	} {
		prog.Add(&core.Def{Name: n, Kind: core.DefPrim, Data: core.PrimData{}})
	}

	// Namespace-less names sort first, generations break ident ties.
	want := []names.Name{
		names.Local("z"),
		names.New("Main", "a"),
		names.New("Main", "a").WithGen(2),
		names.New("Main", "b"),
	}
	if got := prog.Names(); !slices.Equal(got, want) {
		t.Errorf("names are %v, want %v", got, want)
	}
}

func TestProgramLookup(t *testing.T) {
	n := names.New("Main", "f")
	prog := core.NewProgram()
	prog.Add(&core.Def{Name: n, Kind: core.DefPrim, Data: core.PrimData{Arity: 1}})
	prog.Add(&core.Def{Name: n, Kind: core.DefPrim, Data: core.PrimData{Arity: 2}})
	if got := prog.Def(n).Arity(); got != 2 {
		t.Errorf("lookup found arity %d, want the replacement arity 2", got)
	}
	if prog.Def(names.New("Main", "missing")) != nil {
		t.Error("unknown name returned a definition")
	}

	var missing *core.Program
	if missing.Def(n) != nil {
		t.Error("nil table returned a definition")
	}
}
