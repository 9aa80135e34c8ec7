package core_test

import (
	"strings"
	"testing"

	"tarn/internal/constant"
	"tarn/internal/core"
	"tarn/internal/names"
)

func TestFormatTerm(t *testing.T) {
	x := names.Local("x")
	add := names.New("Main", "add")

	tests := []struct {
		name string
		term *core.Term
		want string
	}{
		{"local", core.Local(2), "@2"},
		{"ref", core.Ref(add), "Main.add"},
		{"application", core.App(core.Ref(add), core.Local(0), core.Lit(constant.IntVal(1))), "(Main.add @0 1)"},
		{"lambda", core.Lam(x, core.Local(0)), `(\x -> @0)`},
		{"pi", core.Pi(x, core.Universe()), "(pi x -> type)"},
		{"let", core.Let(x, core.Lit(constant.IntVal(1)), core.Local(0)), "(let x = 1 in @0)"},
		{"projection", core.Prj(core.Local(0), -1), "(prj @0 -1)"},
		{"string literal", core.Lit(constant.StrVal("hi")), `"hi"`},
		{"erased", core.Erased(), "erased"},
		{"impossible", core.Impossible(), "impossible"},
		{"universe", core.Universe(), "type"},
		{"missing", nil, "<term?>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := core.FormatTerm(tt.term); got != tt.want {
				t.Errorf("rendered %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFormatTree(t *testing.T) {
	xs := names.Local("xs")
	h := names.Local("h")
	tl := names.Local("t")
	k := names.Local("k")

	full := core.Case(xs,
		core.ConAlt(core.ListNil, 0, nil, core.Terminal(core.Lit(constant.IntVal(0)))),
		core.ConAlt(core.ListCons, 1, []names.Name{h, tl}, core.Terminal(core.Ref(h))),
		core.ConstAlt(constant.IntVal(9), core.Terminal(core.Lit(constant.IntVal(1)))),
		core.SucAlt(k, core.Terminal(core.Ref(k))),
		core.DefaultAlt(core.Terminal(core.Erased())),
	)
	want := "(case xs [Prelude.List.Nil/0 -> 0] [Prelude.List.Cons/1 h t -> h] [9 -> 1] [suc k -> k] [_ -> erased])"
	if got := core.FormatTree(full); got != want {
		t.Errorf("rendered %s, want %s", got, want)
	}

	proj := core.ProjCase(core.Prj(core.Ref(xs), 0),
		core.DefaultAlt(core.Unmatched("no clause")))
	want = `(pcase (prj xs 0) [_ -> (unmatched "no clause")])`
	if got := core.FormatTree(proj); got != want {
		t.Errorf("rendered %s, want %s", got, want)
	}

	if got := core.FormatTree(nil); got != "<tree?>" {
		t.Errorf("rendered %s for a missing tree, want <tree?>", got)
	}
}

func TestDumpListing(t *testing.T) {
	x := names.Local("x")
	prog := core.NewProgram()
	prog.Add(&core.Def{Name: names.New("Main", "MkBox"), Kind: core.DefCon, Data: core.ConData{Tag: 0, Arity: 2}})
	prog.Add(&core.Def{Name: names.New("Main", "Nat"), Kind: core.DefTypeCon, Data: core.TypeConData{Tag: 1, Arity: 0}})
	prog.Add(&core.Def{Name: names.New("Main", "add"), Kind: core.DefPrim, Data: core.PrimData{Arity: 2}})
	prog.Add(&core.Def{Name: names.New("Main", "axiom"), Kind: core.DefPostulate, Data: core.PostulateData{Arity: 1}})
	prog.Add(&core.Def{Name: names.New("Main", "f"), Kind: core.DefMatch, Data: core.MatchData{
		Args: []names.Name{x},
		Tree: core.Case(x, core.DefaultAlt(core.Terminal(core.Ref(x)))),
	}})
	prog.Add(&core.Def{Name: names.New("Main", "id"), Kind: core.DefFun, Data: core.FunData{
		Arity: 1,
		Body:  core.Lam(x, core.Local(0)),
	}})

	var buf strings.Builder
	if err := core.Dump(&buf, prog); err != nil {
		t.Fatalf("dump failed: %v", err)
	}
	want := `defs=6
con       Main.MkBox  tag=0 arity=2
tycon     Main.Nat    arity=0
prim      Main.add    arity=2
postulate Main.axiom  arity=1

match Main.f(x):
  (case x [_ -> x])

fn Main.id/1:
  (\x -> @0)
`
	if got := buf.String(); got != want {
		t.Errorf("listing mismatch:\n--- got ---\n%s--- want ---\n%s", got, want)
	}
}

func TestDumpInstanceCon(t *testing.T) {
	prog := core.NewProgram()
	prog.Add(&core.Def{Name: names.New("Main", "ShowD"), Kind: core.DefCon, Data: core.ConData{
		Tag: 0, Arity: 1, FieldArity: []int{1}, Instance: true,
		Class: names.New("Prelude.Show", "Show"),
	}})

	var buf strings.Builder
	if err := core.Dump(&buf, prog); err != nil {
		t.Fatalf("dump failed: %v", err)
	}
	want := "defs=1\ncon       Main.ShowD  tag=0 arity=1 instance of Prelude.Show.Show\n"
	if got := buf.String(); got != want {
		t.Errorf("listing %q, want %q", got, want)
	}
}
