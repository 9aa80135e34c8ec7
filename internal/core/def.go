package core

import (
	"slices"

	"tarn/internal/names"
)

// DefKind enumerates the typed definition kinds the front end produces.
type DefKind uint8

const (
	// DefFun is a term-bodied function. The body arrives fully
	// eta-expanded: its leading binder nest matches the declared arity.
	DefFun DefKind = iota
	// DefMatch is a compiled pattern-match function: argument names plus
	// a case-tree body.
	DefMatch
	// DefCon is a value constructor.
	DefCon
	// DefTypeCon is a type constructor.
	DefTypeCon
	// DefPostulate is a typed assumption with no body.
	DefPostulate
	// DefPrim is a built-in primitive implemented by the backend.
	DefPrim
)

// String returns a human-readable name for the definition kind.
func (k DefKind) String() string {
	switch k {
	case DefFun:
		return "Fun"
	case DefMatch:
		return "Match"
	case DefCon:
		return "Con"
	case DefTypeCon:
		return "TypeCon"
	case DefPostulate:
		return "Postulate"
	case DefPrim:
		return "Prim"
	default:
		return "Unknown"
	}
}

// Def is one named typed definition.
type Def struct {
	Name names.Name
	Kind DefKind
	Data DefData
}

// DefData is the interface for definition-specific payloads.
type DefData interface {
	defData()
}

// FunData holds data for DefFun.
type FunData struct {
	Arity int
	Body  *Term
}

func (FunData) defData() {}

// MatchData holds data for DefMatch.
type MatchData struct {
	Args []names.Name
	Tree *Tree
}

func (MatchData) defData() {}

// ConData holds data for DefCon. For auto-generated instance/class value
// constructors Instance is set, Class names the owning class, and
// FieldArity carries each method field's declared arity (derived from
// its field type by the front end).
type ConData struct {
	Tag        int
	Arity      int
	FieldArity []int
	Instance   bool
	Class      names.Name
}

func (ConData) defData() {}

// TypeConData holds data for DefTypeCon.
type TypeConData struct {
	Tag   int
	Arity int
}

func (TypeConData) defData() {}

// PostulateData holds data for DefPostulate.
type PostulateData struct {
	Arity int
}

func (PostulateData) defData() {}

// PrimData holds data for DefPrim.
type PrimData struct {
	Arity int
}

func (PrimData) defData() {}

// Arity returns the declared argument or field count of the definition.
func (d *Def) Arity() int {
	if d == nil {
		return 0
	}
	switch data := d.Data.(type) {
	case FunData:
		return data.Arity
	case MatchData:
		return len(data.Args)
	case ConData:
		return data.Arity
	case TypeConData:
		return data.Arity
	case PostulateData:
		return data.Arity
	case PrimData:
		return data.Arity
	default:
		return 0
	}
}

// Con returns the constructor payload, or nil for other kinds.
func (d *Def) Con() *ConData {
	if d == nil || d.Kind != DefCon {
		return nil
	}
	c := d.Data.(ConData)
	return &c
}

// Program is the definition table handed over by the front end.
type Program struct {
	Defs map[names.Name]*Def
}

// NewProgram returns an empty definition table.
func NewProgram() *Program {
	return &Program{Defs: make(map[names.Name]*Def)}
}

// Add registers d, replacing any previous definition of the same name.
func (p *Program) Add(d *Def) {
	p.Defs[d.Name] = d
}

// Def returns the definition of n, or nil when n is not a global.
func (p *Program) Def(n names.Name) *Def {
	if p == nil {
		return nil
	}
	return p.Defs[n]
}

// Names returns all defined names in deterministic order.
func (p *Program) Names() []names.Name {
	out := make([]names.Name, 0, len(p.Defs))
	for n := range p.Defs {
		out = append(out, n)
	}
	slices.SortFunc(out, names.Compare)
	return out
}
