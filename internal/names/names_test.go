package names_test

import (
	"slices"
	"testing"

	"tarn/internal/names"
)

func TestStringForms(t *testing.T) {
	cases := []struct {
		name names.Name
		want string
	}{
		{names.New("Main", "inc"), "Main.inc"},
		{names.New("Data.List", "map"), "Data.List.map"},
		{names.Local("x"), "x"},
		{names.Local("x").WithGen(3), "x$3"},
		{names.New("Main", "go").WithGen(12), "Main.go$12"},
	}
	for _, tc := range cases {
		if got := tc.name.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestNewNormalizesToNFC(t *testing.T) {
	// U+00E9 precomposed vs e + U+0301 combining acute.
	precomposed := names.New("Café", "café")
	decomposed := names.New("Café", "café")
	if precomposed != decomposed {
		t.Errorf("spelling variants stayed distinct: %#v vs %#v", precomposed, decomposed)
	}
}

func TestFieldDerivation(t *testing.T) {
	con := names.New("Main", "OrdDict").WithGen(2)
	field := names.Field(con, 1)
	if field.Space != "Main" {
		t.Errorf("field space = %q, want Main", field.Space)
	}
	if field.Ident != "OrdDict#1" {
		t.Errorf("field ident = %q, want OrdDict#1", field.Ident)
	}
	if field.Gen != 2 {
		t.Errorf("field gen = %d, want the constructor's 2", field.Gen)
	}
	if names.Field(con, 1) != field {
		t.Error("field derivation is not stable")
	}
}

func TestCompareOrders(t *testing.T) {
	sorted := []names.Name{
		names.Local("a"),
		names.Local("a").WithGen(1),
		names.Local("b"),
		names.New("A", "z"),
		names.New("B", "a"),
		names.New("B", "a").WithGen(7),
	}
	if !slices.IsSortedFunc(sorted, names.Compare) {
		t.Fatalf("expected order is not sorted under Compare: %v", sorted)
	}
	for i, a := range sorted {
		for j, b := range sorted {
			got := names.Compare(a, b)
			switch {
			case i < j && got >= 0:
				t.Errorf("Compare(%s, %s) = %d, want negative", a, b, got)
			case i > j && got <= 0:
				t.Errorf("Compare(%s, %s) = %d, want positive", a, b, got)
			case i == j && got != 0:
				t.Errorf("Compare(%s, %s) = %d, want 0", a, b, got)
			}
		}
	}
}

func TestZeroAndGenerated(t *testing.T) {
	var zero names.Name
	if !zero.IsZero() {
		t.Error("zero Name should report IsZero")
	}
	if names.Local("x").IsZero() {
		t.Error("named value should not report IsZero")
	}
	if names.Local("x").IsGenerated() {
		t.Error("gen 0 should not count as generated")
	}
	if !names.Local("x").WithGen(1).IsGenerated() {
		t.Error("gen 1 should count as generated")
	}
}
