// Package lower rewrites typed core definitions into the untyped,
// erasure-optimized IR. Per definition it runs the term engine, the
// erasure-aware call builder, and the case-tree simplifier over the
// analysis facts computed ahead of time; all three must agree on which
// argument and field positions survive.
package lower

import (
	"fmt"

	"tarn/internal/analysis"
	"tarn/internal/core"
	"tarn/internal/diag"
	"tarn/internal/ir"
	"tarn/internal/names"
)

// Lowerer lowers definitions against one program and one set of
// analysis facts. It is safe for concurrent use: per-definition state
// lives in defLowerer, and the shared constructor-shape memo goes
// through a locked store.
type Lowerer struct {
	prog   *core.Program
	facts  *analysis.Facts
	shapes *analysis.Store[names.Name, conShape]
	report diag.Reporter
}

// New returns a Lowerer over prog and facts.
func New(prog *core.Program, facts *analysis.Facts) *Lowerer {
	return &Lowerer{
		prog:   prog,
		facts:  facts,
		shapes: analysis.NewStore[names.Name, conShape](nil),
	}
}

// ReportTo routes non-fatal findings to r and returns l. Callers with
// concurrent workers must hand over a concurrency-safe reporter. A nil
// reporter discards findings.
func (l *Lowerer) ReportTo(r diag.Reporter) *Lowerer {
	l.report = r
	return l
}

// conShape is the erasure shape of one constructor: the retained field
// positions and whether newtype elimination applies. Shapes derive from
// the frozen facts on first demand and are memoized, so every
// construction and match site of a constructor sees the same answer.
type conShape struct {
	known   bool
	kept    []int
	newtype bool
}

// shapeOf returns the memoized erasure shape of constructor name with
// arity declared fields.
func (l *Lowerer) shapeOf(name names.Name, arity int) conShape {
	if s := l.shapes.Read(name); s.known {
		return s
	}
	kept := l.facts.Usage.Read(name).Kept(arity)
	s := conShape{
		known:   true,
		kept:    kept,
		newtype: l.facts.Opt.Read(name).Detaggable && len(kept) == 1,
	}
	l.shapes.Write(name, s)
	return s
}

// methodBind marks a local as a projected instance-method value, so
// calls through it erase with the method's own usage and arity instead
// of conservative full usage.
type methodBind struct {
	Con   names.Name
	Class names.Name
	Field int
}

// defLowerer is the per-definition lowering state: the de Bruijn frame,
// the names in scope (for freshening), the newtype substitution, and
// the method-projection binding context.
type defLowerer struct {
	l    *Lowerer
	name names.Name

	env   []names.Name
	taken map[names.Name]struct{}
	binds map[names.Name]methodBind
	subst map[names.Name]names.Name
}

func (l *Lowerer) newDefLowerer(name names.Name) *defLowerer {
	return &defLowerer{
		l:     l,
		name:  name,
		taken: make(map[names.Name]struct{}),
		binds: make(map[names.Name]methodBind),
		subst: make(map[names.Name]names.Name),
	}
}

// Def lowers one definition to its IR declaration. Primitives produce
// no declaration (nil, nil): backends implement them directly. Any
// returned error is a *diag.Diagnostic and aborts this definition.
func (l *Lowerer) Def(def *core.Def) (*ir.Decl, error) {
	if def == nil {
		return nil, nil
	}
	dl := l.newDefLowerer(def.Name)
	switch data := def.Data.(type) {
	case core.MatchData:
		return dl.matchDef(def.Name, data)
	case core.FunData:
		return dl.funDef(def.Name, data)
	case core.ConData:
		return ir.NewCon(def.Name, data.Tag, len(l.shapeOf(def.Name, data.Arity).kept)), nil
	case core.TypeConData:
		return ir.NewCon(def.Name, -1, data.Arity), nil
	case core.PostulateData:
		return ir.NewFun(def.Name, nil, ir.Crash("unimplemented postulate "+def.Name.String())), nil
	case core.PrimData:
		return nil, nil
	default:
		return nil, dl.bugf(diag.IceUnknownKind, "cannot lower definition kind %s", def.Kind)
	}
}

// matchDef lowers a compiled pattern-match function. The full argument
// list seeds the de Bruijn frame; the declaration keeps only the used
// positions.
func (dl *defLowerer) matchDef(name names.Name, data core.MatchData) (*ir.Decl, error) {
	for _, a := range data.Args {
		dl.mark(a)
		dl.env = append(dl.env, a)
	}
	kept := dl.l.facts.Usage.Read(name).Kept(len(data.Args))
	params := make([]names.Name, len(kept))
	for i, p := range kept {
		params[i] = data.Args[p]
	}
	body, err := dl.tree(data.Tree)
	if err != nil {
		return nil, err
	}
	return ir.NewFun(name, params, body), nil
}

// funDef lowers a term-bodied function. The body arrives eta-expanded:
// peeling fewer binders than the declared arity is a front-end bug.
func (dl *defLowerer) funDef(name names.Name, data core.FunData) (*ir.Decl, error) {
	binders := make([]names.Name, 0, data.Arity)
	body := data.Body
	for i := 0; i < data.Arity; i++ {
		if body == nil || body.Kind != core.TermLam {
			return nil, dl.bugf(diag.IceMalformedFun, "arity %d but only %d leading binders", data.Arity, i).
				WithDetail(core.FormatTerm(data.Body))
		}
		ld := body.Data.(core.LamData)
		binder := dl.fresh(ld.Binder)
		dl.env = append(dl.env, binder)
		binders = append(binders, binder)
		body = ld.Body
	}
	kept := dl.l.facts.Usage.Read(name).Kept(data.Arity)
	params := make([]names.Name, len(kept))
	for i, p := range kept {
		params[i] = binders[p]
	}
	low, err := dl.term(body)
	if err != nil {
		return nil, err
	}
	return ir.NewFun(name, params, low), nil
}

// mark reserves n in the current scope without renaming it.
func (dl *defLowerer) mark(n names.Name) {
	dl.taken[n] = struct{}{}
}

// fresh returns n, bumping its generation until it collides with
// nothing in scope, and reserves the result. Names stay reserved for
// the rest of the definition, which keeps synthesized names stable
// regardless of sibling scopes.
func (dl *defLowerer) fresh(n names.Name) names.Name {
	for {
		if _, ok := dl.taken[n]; !ok {
			break
		}
		n = n.WithGen(n.Gen + 1)
	}
	dl.taken[n] = struct{}{}
	return n
}

// setSubst maps from to to and returns the restore function for the
// enclosing alternative's scope.
func (dl *defLowerer) setSubst(from, to names.Name) func() {
	prev, had := dl.subst[from]
	dl.subst[from] = to
	return func() {
		if had {
			dl.subst[from] = prev
		} else {
			delete(dl.subst, from)
		}
	}
}

// setBind registers a method-projection entry for n and returns the
// restore function for the enclosing alternative's scope.
func (dl *defLowerer) setBind(n names.Name, mb methodBind) func() {
	prev, had := dl.binds[n]
	dl.binds[n] = mb
	return func() {
		if had {
			dl.binds[n] = prev
		} else {
			delete(dl.binds, n)
		}
	}
}

// resolveName follows the newtype substitution chain from n to the name
// that actually denotes the value at run time.
func (dl *defLowerer) resolveName(n names.Name) names.Name {
	for {
		next, ok := dl.subst[n]
		if !ok {
			return n
		}
		n = next
	}
}

// usageOf reads the usage record governing calls through n: a method
// projection erases with the usage recorded under its field identity.
func (dl *defLowerer) usageOf(n names.Name) (analysis.Usage, names.Name) {
	if mb, ok := dl.binds[n]; ok {
		key := names.Field(mb.Con, mb.Field)
		return dl.l.facts.Usage.Read(key), key
	}
	return dl.l.facts.Usage.Read(n), n
}

func (dl *defLowerer) errorf(code diag.Code, format string, args ...any) *diag.Diagnostic {
	return diag.NewError(code, dl.name, fmt.Sprintf(format, args...))
}

func (dl *defLowerer) bugf(code diag.Code, format string, args ...any) *diag.Diagnostic {
	return diag.NewBug(code, dl.name, fmt.Sprintf(format, args...))
}

// warnf reports a non-fatal finding and lets lowering continue.
func (dl *defLowerer) warnf(code diag.Code, format string, args ...any) {
	if dl.l.report == nil {
		return
	}
	dl.l.report.Report(diag.NewWarning(code, dl.name, fmt.Sprintf(format, args...)))
}
