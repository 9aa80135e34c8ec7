package ir_test

import (
	"strings"
	"testing"

	"tarn/internal/constant"
	"tarn/internal/ir"
	"tarn/internal/names"
)

func TestFormatExp(t *testing.T) {
	x := names.Local("x")
	y := names.Local("y")
	h := names.Local("h")
	cons := names.New("Prelude.List", "Cons")

	tests := []struct {
		name string
		exp  *ir.Exp
		want string
	}{
		{"var", ir.Var(x), "x"},
		{"application", ir.App(ir.Var(names.New("Main", "f")), ir.Var(x), ir.Lit(constant.IntVal(1))), "(Main.f x 1)"},
		{"lambda", ir.Lam([]names.Name{x, y}, ir.Var(x)), `(\x y -> x)`},
		{"let", ir.Let(x, ir.Lit(constant.IntVal(1)), ir.Var(x)), "(let x = 1 in x)"},
		{"con", ir.Con(cons, 1, ir.Var(h), ir.Var(x)), "(con Prelude.List.Cons/1 h x)"},
		{"nullary con", ir.Con(names.New("Prelude.List", "Nil"), 0), "(con Prelude.List.Nil/0)"},
		{"projection", ir.Prj(ir.Var(x), 0), "(prj x 0)"},
		{"operator", ir.NewOp(ir.OpAddInt, ir.Var(x), ir.Lit(constant.IntVal(1))), "(add.int x 1)"},
		{"foreign", ir.Foreign(ir.FInt, "putchar", ir.ForeignArg{Type: ir.FChar, Exp: ir.Var(x)}), `(foreign int "putchar" (char x))`},
		{"constant", ir.Lit(constant.StrVal("hi")), `"hi"`},
		{
			"case",
			ir.Case(ir.Var(x),
				ir.ConAlt(cons, 1, []names.Name{h}, ir.Var(h)),
				ir.ConstAlt(constant.IntVal(0), ir.Erased()),
				ir.DefaultAlt(ir.Crash("no match"))),
			`(case x [Prelude.List.Cons/1 h -> h] [0 -> erased] [_ -> (crash "no match")])`,
		},
		{"lazy", ir.Lazy(ir.Var(x)), "(lazy x)"},
		{"force", ir.Force(ir.Var(x)), "(force x)"},
		{"erased", ir.Erased(), "erased"},
		{"crash", ir.Crash("boom"), `(crash "boom")`},
		{"missing", nil, "<exp?>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ir.FormatExp(tt.exp); got != tt.want {
				t.Errorf("rendered %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDumpListing(t *testing.T) {
	x := names.Local("x")
	y := names.Local("y")

	prog := ir.NewProgram()
	prog.Add(ir.NewCon(names.New("Main", "MkBox"), 0, 1))
	prog.Add(ir.NewCon(names.New("Main", "Nat"), -1, 0))
	prog.Add(ir.NewFun(names.New("Main", "add"), []names.Name{x, y},
		ir.NewOp(ir.OpAddInt, ir.Var(x), ir.Var(y))))

	var buf strings.Builder
	if err := ir.Dump(&buf, prog); err != nil {
		t.Fatalf("dump failed: %v", err)
	}
	want := `decls=3
con Main.MkBox  tag=0 arity=1
con Main.Nat    tag=-1 arity=0

fn Main.add(x, y):
  (add.int x y)
`
	if got := buf.String(); got != want {
		t.Errorf("listing mismatch:\n--- got ---\n%s--- want ---\n%s", got, want)
	}
}
