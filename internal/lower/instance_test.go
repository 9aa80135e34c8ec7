package lower_test

import (
	"testing"

	"tarn/internal/core"
	"tarn/internal/names"
)

// cmpEta is the eta-expanded method body \a b -> cmp a b the front end
// produces for a two-argument method slot.
func cmpEta() *core.Term {
	return core.Lam(names.Local("a"), core.Lam(names.Local("b"),
		core.App(core.Ref(cmpName), core.Local(1), core.Local(0))))
}

func g1Eta() *core.Term {
	return core.Lam(names.Local("v"), core.App(core.Ref(g1Name), core.Local(0)))
}

func TestInstanceConstructionPrunesMethods(t *testing.T) {
	got := lowerBody(t, nil, core.App(core.Ref(ordName), cmpEta(), g1Eta()))
	// Method 0 keeps only its first parameter; the stored closure takes
	// exactly the kept parameters while the inner call stays saturated.
	want := `(con Main.OrdD/0 (\a -> (Main.cmp a)) (\v -> (Main.g1 v)))`
	if got != want {
		t.Errorf("lowered to %s, want %s", got, want)
	}
}

func TestInstanceConstructionKeepsOpaqueMethods(t *testing.T) {
	// Arguments in the wrong order are not an eta shape: the closure
	// keeps both binders, though the inner call still erases.
	swapped := core.Lam(names.Local("a"), core.Lam(names.Local("b"),
		core.App(core.Ref(cmpName), core.Local(0), core.Local(1))))
	got := lowerBody(t, nil, core.App(core.Ref(ordName), swapped, g1Eta()))
	want := `(con Main.OrdD/0 (\a -> (\b -> (Main.cmp b))) (\v -> (Main.g1 v)))`
	if got != want {
		t.Errorf("lowered to %s, want %s", got, want)
	}
}

func TestInstanceMethodCallErases(t *testing.T) {
	d := names.Local("d")
	le := names.Local("le")
	tree := core.Case(d, core.ConAlt(ordName, 0, locals("le", "sh"),
		core.Terminal(core.App(core.Ref(le),
			core.Ref(names.Local("x")), core.Ref(names.Local("y"))))))
	got := lowerTreeBody(t, locals("d", "x", "y"), tree)
	// A call through the bound method drops the erased second argument.
	want := "(case d [Main.OrdD/0 le sh -> (le x)])"
	if got != want {
		t.Errorf("lowered to %s, want %s", got, want)
	}
}

func TestInstanceMethodWithoutRecord(t *testing.T) {
	d := names.Local("d")
	sh := names.Local("sh")
	tree := core.Case(d, core.ConAlt(ordName, 0, locals("le", "sh"),
		core.Terminal(core.App(core.Ref(sh), core.Ref(names.Local("x"))))))
	got := lowerTreeBody(t, locals("d", "x"), tree)
	if want := "(case d [Main.OrdD/0 le sh -> sh])"; got != want {
		t.Errorf("lowered to %s, want %s", got, want)
	}
}

func TestInstanceMethodUnderApplied(t *testing.T) {
	d := names.Local("d")
	le := names.Local("le")
	tree := core.Case(d, core.ConAlt(ordName, 0, locals("le", "sh"),
		core.Terminal(core.App(core.Ref(le), core.Ref(names.Local("x"))))))
	got := lowerTreeBody(t, locals("d", "x"), tree)
	// The missing second argument is erased, so the call eta-expands.
	want := `(case d [Main.OrdD/0 le sh -> (\p -> (le x))])`
	if got != want {
		t.Errorf("lowered to %s, want %s", got, want)
	}
}

func TestNewtypeInstanceMethod(t *testing.T) {
	d := names.Local("d")
	s := names.Local("s")
	tree := core.Case(d, core.ConAlt(showName, 0, locals("s"),
		core.Terminal(core.App(core.Ref(s), core.Ref(names.Local("x"))))))
	got := lowerTreeBody(t, locals("d", "x"), tree)
	// The dictionary IS the single method: calling the binder calls the
	// scrutinee directly, with the method's own erasure.
	if want := "(d x)"; got != want {
		t.Errorf("lowered to %s, want %s", got, want)
	}
}
