package lower

import (
	"tarn/internal/constant"
	"tarn/internal/core"
	"tarn/internal/diag"
	"tarn/internal/ir"
	"tarn/internal/names"
)

// tree lowers one case-tree node to an IR expression.
func (dl *defLowerer) tree(t *core.Tree) (*ir.Exp, error) {
	if t == nil {
		return ir.Erased(), nil
	}
	switch d := t.Data.(type) {
	case core.TerminalData:
		return dl.term(d.Term)
	case core.UnmatchedData:
		return ir.Crash(d.Message), nil
	case core.CaseData:
		return dl.caseNode(t, d.Subject, d.Alts)
	case core.ProjData:
		// Dispatch over a computed subject: bind it, then dispatch over
		// the binding.
		bound := dl.fresh(names.Local("pv"))
		subj, err := dl.term(d.Subject)
		if err != nil {
			return nil, err
		}
		body, err := dl.caseNode(t, bound, d.Alts)
		if err != nil {
			return nil, err
		}
		return ir.Let(bound, subj, body), nil
	default:
		return ir.Erased(), nil
	}
}

// caseNode lowers a dispatch over the named subject.
func (dl *defLowerer) caseNode(t *core.Tree, subject names.Name, alts []*core.Alt) (*ir.Exp, error) {
	if len(alts) == 0 {
		return nil, dl.bugf(diag.IceEmptyCase, "dispatch on %s carries no alternatives", subject).
			WithDetail(core.FormatTree(t))
	}
	if len(alts) == 1 {
		return dl.singleAlt(subject, alts[0])
	}

	// One detaggable constructor plus a default: after erasure the
	// family has a single representation, so the default can never be
	// taken. Reduce to the single-branch form.
	if len(alts) == 2 {
		if con, dflt := splitConDefault(alts); con != nil && dflt != nil && dl.detaggable(con) {
			return dl.singleAlt(subject, con)
		}
	}

	// A detaggable constructor inside a real multi-way dispatch cannot
	// be discriminated at run time; the earlier passes promised this
	// shape never reaches us.
	for _, a := range alts {
		if dl.detaggable(a) {
			return nil, dl.bugf(diag.IceDetagOverlap, "dispatch on %s includes a tag-free constructor", subject).
				WithDetail(core.FormatTree(t))
		}
	}

	subjExp, err := dl.buildCall(subject, nil)
	if err != nil {
		return nil, err
	}
	irAlts := make([]*ir.Alt, 0, len(alts))
	for _, a := range alts {
		ia, err := dl.alt(subject, a)
		if err != nil {
			return nil, err
		}
		irAlts = append(irAlts, ia)
	}
	return ir.Case(subjExp, irAlts...), nil
}

// singleAlt lowers a one-branch dispatch, in order: the delay wrapper,
// newtype elimination, the vacuous-binding collapse, then the general
// single-alternative node.
func (dl *defLowerer) singleAlt(subject names.Name, a *core.Alt) (*ir.Exp, error) {
	if ca, ok := a.Data.(core.ConAltData); ok {
		// The delay wrapper is never materialized: bind the forced
		// scrutinee to the payload name and lower the body under it.
		if ca.Con == core.MarkDelay && len(ca.Binders) > 0 {
			for _, b := range ca.Binders {
				dl.mark(b)
			}
			payload := ca.Binders[len(ca.Binders)-1]
			subjExp, err := dl.buildCall(subject, nil)
			if err != nil {
				return nil, err
			}
			body, err := dl.tree(ca.Sub)
			if err != nil {
				return nil, err
			}
			return ir.Let(payload, ir.Force(subjExp), body), nil
		}

		// Newtype match: the scrutinee already IS the retained field.
		// Substitute it for the binder; no projection, no dispatch.
		if con := dl.l.prog.Def(ca.Con).Con(); con != nil {
			s := dl.l.shapeOf(ca.Con, con.Arity)
			if s.newtype && s.kept[0] < len(ca.Binders) {
				retained := s.kept[0]
				target := dl.resolveName(subject)
				restoreSubst := dl.setSubst(ca.Binders[retained], target)
				restoreBind := func() {}
				if con.Instance {
					restoreBind = dl.setBind(target, methodBind{Con: ca.Con, Class: con.Class, Field: retained})
				}
				body, err := dl.tree(ca.Sub)
				restoreBind()
				restoreSubst()
				return body, err
			}
		}
	}

	// A lone branch that binds nothing its body reads collapses to the
	// body, dropping the decision wrapper.
	if !dl.altBindersUsed(a) {
		return dl.tree(a.Sub())
	}

	subjExp, err := dl.buildCall(subject, nil)
	if err != nil {
		return nil, err
	}
	ia, err := dl.alt(subject, a)
	if err != nil {
		return nil, err
	}
	return ir.Case(subjExp, ia), nil
}

// alt lowers one alternative of a general dispatch.
func (dl *defLowerer) alt(subject names.Name, a *core.Alt) (*ir.Alt, error) {
	switch d := a.Data.(type) {
	case core.ConAltData:
		arity := len(d.Binders)
		tag := d.Tag
		con := dl.l.prog.Def(d.Con).Con()
		if con != nil {
			arity = con.Arity
			tag = con.Tag
		}
		for _, b := range d.Binders {
			dl.mark(b)
		}
		var kept []int
		if con != nil {
			kept = dl.l.shapeOf(d.Con, con.Arity).kept
		} else {
			kept = dl.l.facts.Usage.Read(d.Con).Kept(arity)
		}
		binders := make([]names.Name, 0, len(kept))
		var restores []func()
		for _, p := range kept {
			if p >= len(d.Binders) {
				continue
			}
			binders = append(binders, d.Binders[p])
			if con != nil && con.Instance {
				restores = append(restores, dl.setBind(d.Binders[p], methodBind{Con: d.Con, Class: con.Class, Field: p}))
			}
		}
		body, err := dl.tree(d.Sub)
		for i := len(restores) - 1; i >= 0; i-- {
			restores[i]()
		}
		if err != nil {
			return nil, err
		}
		return ir.ConAlt(d.Con, tag, binders, body), nil

	case core.ConstAltData:
		if !d.Value.Kind.Matchable() {
			return nil, dl.errorf(diag.LowConstMatch, "constant of kind %s cannot be a dispatch key", d.Value.Kind)
		}
		body, err := dl.tree(d.Sub)
		if err != nil {
			return nil, err
		}
		return ir.ConstAlt(d.Value, body), nil

	case core.SucAltData:
		// Successor match: a default branch binding the decremented
		// subject.
		dl.mark(d.Binder)
		subjExp, err := dl.buildCall(subject, nil)
		if err != nil {
			return nil, err
		}
		body, err := dl.tree(d.Sub)
		if err != nil {
			return nil, err
		}
		dec := ir.NewOp(ir.OpSubBig, subjExp, ir.Lit(constant.BigIntVal(1)))
		return ir.DefaultAlt(ir.Let(d.Binder, dec, body)), nil

	case core.DefaultAltData:
		body, err := dl.tree(d.Sub)
		if err != nil {
			return nil, err
		}
		return ir.DefaultAlt(body), nil

	default:
		return nil, dl.bugf(diag.IceUnknownKind, "cannot lower alternative kind %s", a.Kind)
	}
}

// altBindersUsed reports whether any name the alternative binds occurs
// in its own subtree. Constant and default branches bind nothing.
func (dl *defLowerer) altBindersUsed(a *core.Alt) bool {
	switch d := a.Data.(type) {
	case core.ConAltData:
		for _, b := range d.Binders {
			if d.Sub.RefersTo(b) {
				return true
			}
		}
		return false
	case core.SucAltData:
		return d.Sub.RefersTo(d.Binder)
	default:
		return false
	}
}

// detaggable reports whether a is a constructor branch of a detaggable
// family.
func (dl *defLowerer) detaggable(a *core.Alt) bool {
	d, ok := a.Data.(core.ConAltData)
	if !ok {
		return false
	}
	return dl.l.facts.Opt.Read(d.Con).Detaggable
}

// splitConDefault splits a two-branch list into its constructor and
// default members, in either order, or returns nils for other shapes.
func splitConDefault(alts []*core.Alt) (con, dflt *core.Alt) {
	for _, a := range alts {
		switch a.Kind {
		case core.AltCon:
			con = a
		case core.AltDefault:
			dflt = a
		default:
			return nil, nil
		}
	}
	if con == nil || dflt == nil {
		return nil, nil
	}
	return con, dflt
}
