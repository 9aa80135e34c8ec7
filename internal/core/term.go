// Package core defines the typed input of the lowering tier: elaborated
// core terms, compiled case-trees, and the per-name definition table the
// front end hands over. Everything here is read-only during lowering.
package core

import (
	"tarn/internal/constant"
	"tarn/internal/names"
)

// TermKind enumerates core term kinds.
type TermKind uint8

const (
	// TermLocal is a de Bruijn reference to an enclosing binder.
	TermLocal TermKind = iota
	// TermRef is a reference by name: a global, or a pattern/let binder
	// referenced from a case-tree body.
	TermRef
	// TermApp is an application of a head term to argument terms.
	TermApp
	// TermLam is a single-binder lambda.
	TermLam
	// TermPi is the dependent function space. Carries no run-time value.
	TermPi
	// TermLet binds a value in a body.
	TermLet
	// TermPrj projects a constructor field by index; field -1 selects the
	// predecessor of a unary-encoded number.
	TermPrj
	// TermConst is a literal constant.
	TermConst
	// TermErased marks a subterm removed by the erasure analysis.
	TermErased
	// TermImpossible marks a case the type checker proved unreachable.
	TermImpossible
	// TermUniverse is the type-of-types marker.
	TermUniverse
)

// String returns a human-readable name for the term kind.
func (k TermKind) String() string {
	switch k {
	case TermLocal:
		return "Local"
	case TermRef:
		return "Ref"
	case TermApp:
		return "App"
	case TermLam:
		return "Lam"
	case TermPi:
		return "Pi"
	case TermLet:
		return "Let"
	case TermPrj:
		return "Prj"
	case TermConst:
		return "Const"
	case TermErased:
		return "Erased"
	case TermImpossible:
		return "Impossible"
	case TermUniverse:
		return "Universe"
	default:
		return "Unknown"
	}
}

// Term is one typed core term node. Data holds the kind-specific payload;
// the marker kinds (Erased, Impossible, Universe) carry none.
type Term struct {
	Kind TermKind
	Data TermData
}

// TermData is the interface for term-specific payloads.
type TermData interface {
	termData()
}

// LocalData holds data for TermLocal.
type LocalData struct {
	Index int
}

func (LocalData) termData() {}

// RefData holds data for TermRef.
type RefData struct {
	Name names.Name
}

func (RefData) termData() {}

// AppData holds data for TermApp.
type AppData struct {
	Fn   *Term
	Args []*Term
}

func (AppData) termData() {}

// LamData holds data for TermLam.
type LamData struct {
	Binder names.Name
	Body   *Term
}

func (LamData) termData() {}

// PiData holds data for TermPi.
type PiData struct {
	Binder names.Name
	Body   *Term
}

func (PiData) termData() {}

// LetData holds data for TermLet.
type LetData struct {
	Binder names.Name
	Value  *Term
	Body   *Term
}

func (LetData) termData() {}

// PrjData holds data for TermPrj.
type PrjData struct {
	Value *Term
	Field int
}

func (PrjData) termData() {}

// ConstData holds data for TermConst.
type ConstData struct {
	Value constant.Value
}

func (ConstData) termData() {}

// Local returns a de Bruijn reference to binder index i.
func Local(i int) *Term {
	return &Term{Kind: TermLocal, Data: LocalData{Index: i}}
}

// Ref returns a reference to name n.
func Ref(n names.Name) *Term {
	return &Term{Kind: TermRef, Data: RefData{Name: n}}
}

// App applies fn to args. With no args it returns fn unchanged.
func App(fn *Term, args ...*Term) *Term {
	if len(args) == 0 {
		return fn
	}
	return &Term{Kind: TermApp, Data: AppData{Fn: fn, Args: args}}
}

// Lam abstracts body over one binder.
func Lam(binder names.Name, body *Term) *Term {
	return &Term{Kind: TermLam, Data: LamData{Binder: binder, Body: body}}
}

// Pi is the function-space binder.
func Pi(binder names.Name, body *Term) *Term {
	return &Term{Kind: TermPi, Data: PiData{Binder: binder, Body: body}}
}

// Let binds value as binder inside body.
func Let(binder names.Name, value, body *Term) *Term {
	return &Term{Kind: TermLet, Data: LetData{Binder: binder, Value: value, Body: body}}
}

// Prj projects field of value; field -1 is the predecessor projection.
func Prj(value *Term, field int) *Term {
	return &Term{Kind: TermPrj, Data: PrjData{Value: value, Field: field}}
}

// Lit returns a constant term.
func Lit(v constant.Value) *Term {
	return &Term{Kind: TermConst, Data: ConstData{Value: v}}
}

// Erased returns the erased-subterm marker.
func Erased() *Term { return &Term{Kind: TermErased} }

// Impossible returns the unreachable-case marker.
func Impossible() *Term { return &Term{Kind: TermImpossible} }

// Universe returns the type-of-types marker.
func Universe() *Term { return &Term{Kind: TermUniverse} }

// Spine unrolls nested applications, returning the ultimate head and the
// flattened argument list in application order.
func (t *Term) Spine() (*Term, []*Term) {
	if t == nil || t.Kind != TermApp {
		return t, nil
	}
	d := t.Data.(AppData)
	head, outer := d.Fn.Spine()
	if len(outer) == 0 {
		return head, d.Args
	}
	args := make([]*Term, 0, len(outer)+len(d.Args))
	args = append(args, outer...)
	args = append(args, d.Args...)
	return head, args
}

// RefersTo reports whether n occurs as a Ref anywhere in t. De Bruijn
// locals never alias names, so they are ignored.
func (t *Term) RefersTo(n names.Name) bool {
	if t == nil {
		return false
	}
	switch d := t.Data.(type) {
	case RefData:
		return d.Name == n
	case AppData:
		if d.Fn.RefersTo(n) {
			return true
		}
		for _, a := range d.Args {
			if a.RefersTo(n) {
				return true
			}
		}
	case LamData:
		return d.Body.RefersTo(n)
	case PiData:
		return d.Body.RefersTo(n)
	case LetData:
		return d.Value.RefersTo(n) || d.Body.RefersTo(n)
	case PrjData:
		return d.Value.RefersTo(n)
	}
	return false
}
