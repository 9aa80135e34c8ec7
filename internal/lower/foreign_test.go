package lower_test

import (
	"strings"
	"testing"

	"tarn/internal/analysis"
	"tarn/internal/constant"
	"tarn/internal/core"
	"tarn/internal/diag"
	"tarn/internal/ir"
	"tarn/internal/lower"
	"tarn/internal/names"
)

// flist builds the term-encoded foreign argument list; each entry is a
// (descriptor, value) pair on a cons spine with leading type arguments,
// the shape the elaborator emits.
func flist(pairs ...[2]*core.Term) *core.Term {
	out := core.App(core.Ref(core.ListNil), core.Erased())
	for i := len(pairs) - 1; i >= 0; i-- {
		pair := core.App(core.Ref(core.PairCon),
			core.Erased(), core.Erased(), pairs[i][0], pairs[i][1])
		out = core.App(core.Ref(core.ListCons), core.Erased(), pair, out)
	}
	return out
}

func foreignTerm(ret, target, list *core.Term) *core.Term {
	return core.App(core.Ref(core.MarkForeign),
		ret, target, list, core.Lit(constant.WorldVal()))
}

func TestForeignCall(t *testing.T) {
	term := foreignTerm(
		core.App(core.Ref(core.FCIntT), core.Ref(core.FCIntNat)),
		core.Lit(constant.StrVal("putStr")),
		flist([2]*core.Term{core.Ref(core.FCStr), core.Ref(names.Local("s"))}),
	)
	got := lowerBody(t, locals("s"), term)
	if want := `(foreign int "putStr" (string s))`; got != want {
		t.Errorf("lowered to %s, want %s", got, want)
	}
}

func TestForeignDescriptors(t *testing.T) {
	tests := []struct {
		name string
		desc *core.Term
		want string
	}{
		{
			name: "string",
			desc: core.Ref(core.FCStr),
			want: "string",
		},
		{
			name: "sized integer",
			desc: core.App(core.Ref(core.FCIntT), core.Ref(core.FCIntB32)),
			want: "bits32",
		},
		{
			name: "unit",
			desc: core.Ref(core.FCUnit),
			want: "unit",
		},
		{
			name: "pure function",
			desc: core.App(core.Ref(core.FCFnT), core.Erased(),
				core.App(core.Ref(core.FCFn), core.Ref(core.FCStr), core.Ref(core.FCFnBase))),
			want: "fun",
		},
		{
			name: "effectful function",
			desc: core.App(core.Ref(core.FCFnT), core.Erased(),
				core.App(core.Ref(core.FCFn), core.Ref(core.FCStr),
					core.App(core.Ref(core.FCFnIO), core.Ref(core.FCUnit)))),
			want: "fun.io",
		},
		{
			name: "unrecognized descriptor falls back",
			desc: core.Erased(),
			want: "any",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term := foreignTerm(tt.desc, core.Lit(constant.StrVal("cb")), core.Ref(core.ListNil))
			got := lowerBody(t, nil, term)
			if want := `(foreign ` + tt.want + ` "cb")`; got != want {
				t.Errorf("lowered to %s, want %s", got, want)
			}
		})
	}
}

func TestForeignUnknownDescriptorWarns(t *testing.T) {
	prog, facts := fixture()
	objDesc := names.New("FFI_JS", "JS_Object")

	// The unknown descriptor appears in return and argument position;
	// dedup collapses the repeats into one warning.
	term := foreignTerm(
		core.Ref(objDesc),
		core.Lit(constant.StrVal("document")),
		flist([2]*core.Term{core.Ref(objDesc), core.Ref(names.Local("o"))}),
	)
	name := names.New("Main", "test")
	facts.Usage.Write(name, analysis.UsageOf(0))
	def := &core.Def{Name: name, Kind: core.DefMatch, Data: core.MatchData{
		Args: locals("o"),
		Tree: core.Terminal(term),
	}}

	bag := diag.NewBag(8)
	rep := diag.NewDedupReporter(diag.BagReporter{Bag: bag})
	decl, err := lower.New(prog, facts).ReportTo(rep).Def(def)
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	got := ir.FormatExp(decl.Fun().Body)
	if want := `(foreign any "document" (any o))`; got != want {
		t.Errorf("lowered to %s, want %s", got, want)
	}

	if bag.Len() != 1 {
		t.Fatalf("collected %d diagnostics, want 1 after dedup", bag.Len())
	}
	d := bag.Items()[0]
	if d.Severity != diag.SevWarning || d.Code != diag.LowForeignAny {
		t.Errorf("reported %s %s, want %s %s", d.Severity, d.Code.ID(), diag.SevWarning, diag.LowForeignAny.ID())
	}
	if !strings.Contains(d.Message, objDesc.String()) {
		t.Errorf("warning message %q does not name %s", d.Message, objDesc)
	}
}

func TestForeignTargetRendering(t *testing.T) {
	term := foreignTerm(core.Ref(core.FCUnit),
		core.Ref(names.Local("printf")), core.Ref(core.ListNil))
	got := lowerBody(t, nil, term)
	if want := `(foreign unit "printf")`; got != want {
		t.Errorf("lowered to %s, want %s", got, want)
	}
}

func TestForeignMalformed(t *testing.T) {
	str := core.Lit(constant.StrVal("f"))

	tests := []struct {
		name string
		term *core.Term
		code diag.Code
	}{
		{
			name: "too few descriptor arguments",
			term: core.App(core.Ref(core.MarkForeign), core.Ref(core.FCUnit), str),
			code: diag.LowForeignArity,
		},
		{
			name: "argument list is not a list",
			term: foreignTerm(core.Ref(core.FCUnit), str, core.Ref(names.Local("s"))),
			code: diag.LowForeignArgs,
		},
		{
			name: "list entry is not a pair",
			term: foreignTerm(core.Ref(core.FCUnit), str,
				core.App(core.Ref(core.ListCons), lit(5), core.Ref(core.ListNil))),
			code: diag.LowForeignPair,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, facts := fixture()
			_, err := matchDecl(prog, facts, locals("s"), core.Terminal(tt.term))
			wantDiag(t, err, diag.SevError, tt.code)
		})
	}
}
