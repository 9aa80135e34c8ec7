package ir_test

import (
	"testing"

	"tarn/internal/ir"
	"tarn/internal/names"
)

func TestLamWithoutParamsIsBody(t *testing.T) {
	body := ir.Erased()
	if got := ir.Lam(nil, body); got != body {
		t.Errorf("parameterless abstraction built %s, want the body unchanged", ir.FormatExp(got))
	}
}

func TestAppKeepsZeroArgumentCalls(t *testing.T) {
	// A nullary global is forced at reference time, so the call node must
	// survive even with no arguments.
	call := ir.App(ir.Var(names.New("Main", "z")))
	if call.Kind != ir.ExpApp {
		t.Fatalf("built a %s node, want App", call.Kind)
	}
	if got, want := ir.FormatExp(call), "(Main.z)"; got != want {
		t.Errorf("rendered %s, want %s", got, want)
	}
}

func TestDeclFunAccessor(t *testing.T) {
	x := names.Local("x")
	fun := ir.NewFun(names.New("Main", "id"), []names.Name{x}, ir.Var(x))
	f := fun.Fun()
	if f == nil {
		t.Fatal("function payload not returned")
	}
	if len(f.Params) != 1 || f.Params[0] != x || f.Body == nil {
		t.Errorf("payload %+v lost fields", *f)
	}

	con := ir.NewCon(names.New("Main", "MkBox"), 0, 1)
	if con.Fun() != nil {
		t.Error("constructor marker returned a function payload")
	}
	var missing *ir.Decl
	if missing.Fun() != nil {
		t.Error("nil declaration returned a function payload")
	}
}

func TestProgramLookup(t *testing.T) {
	n := names.New("Main", "Box")
	prog := ir.NewProgram()
	prog.Add(ir.NewCon(n, 0, 2))
	prog.Add(ir.NewCon(n, 1, 3))
	d := prog.Decl(n)
	if d == nil || d.Data.(ir.ConDecl).Tag != 1 {
		t.Error("lookup did not return the replacement declaration")
	}
	if prog.Decl(names.New("Main", "missing")) != nil {
		t.Error("unknown name returned a declaration")
	}

	var missing *ir.Program
	if missing.Decl(n) != nil {
		t.Error("nil program returned a declaration")
	}
}
