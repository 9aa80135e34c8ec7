package ir

import (
	"slices"

	"tarn/internal/names"
)

// DeclKind enumerates output declaration kinds.
type DeclKind uint8

const (
	// DeclFun is a function with erased parameters and an IR body.
	DeclFun DeclKind = iota
	// DeclCon is a constructor marker: tag plus retained field count.
	// Type constructors carry tag -1.
	DeclCon
)

// String returns a human-readable name for the declaration kind.
func (k DeclKind) String() string {
	switch k {
	case DeclFun:
		return "Fun"
	case DeclCon:
		return "Con"
	default:
		return "Unknown"
	}
}

// Decl is one lowered top-level declaration.
type Decl struct {
	Name names.Name
	Kind DeclKind
	Data DeclData
}

// DeclData is the interface for declaration-specific payloads.
type DeclData interface {
	declData()
}

// FunDecl holds data for DeclFun.
type FunDecl struct {
	Params []names.Name
	Body   *Exp
}

func (FunDecl) declData() {}

// ConDecl holds data for DeclCon.
type ConDecl struct {
	Tag   int
	Arity int
}

func (ConDecl) declData() {}

// NewFun returns a function declaration.
func NewFun(name names.Name, params []names.Name, body *Exp) *Decl {
	return &Decl{Name: name, Kind: DeclFun, Data: FunDecl{Params: params, Body: body}}
}

// NewCon returns a constructor marker.
func NewCon(name names.Name, tag, arity int) *Decl {
	return &Decl{Name: name, Kind: DeclCon, Data: ConDecl{Tag: tag, Arity: arity}}
}

// Fun returns the function payload, or nil for other kinds.
func (d *Decl) Fun() *FunDecl {
	if d == nil || d.Kind != DeclFun {
		return nil
	}
	f := d.Data.(FunDecl)
	return &f
}

// Program is the lowered output: one declaration per processed name.
type Program struct {
	Decls map[names.Name]*Decl
}

// NewProgram returns an empty lowered program.
func NewProgram() *Program {
	return &Program{Decls: make(map[names.Name]*Decl)}
}

// Add registers d, replacing any previous declaration of the same name.
func (p *Program) Add(d *Decl) {
	p.Decls[d.Name] = d
}

// Decl returns the declaration of n, or nil.
func (p *Program) Decl(n names.Name) *Decl {
	if p == nil {
		return nil
	}
	return p.Decls[n]
}

// Names returns all declared names in deterministic order.
func (p *Program) Names() []names.Name {
	out := make([]names.Name, 0, len(p.Decls))
	for n := range p.Decls {
		out = append(out, n)
	}
	slices.SortFunc(out, names.Compare)
	return out
}
