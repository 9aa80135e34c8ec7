package lower

import (
	"tarn/internal/core"
	"tarn/internal/diag"
	"tarn/internal/ir"
	"tarn/internal/names"
)

// buildCall is the erasure-aware call builder. It decides which of the
// supplied arguments survive, how the application count relates to the
// callee's erased arity, and whether newtype elimination applies, then
// emits the one correctly shaped IR node for that combination. Term
// lowering and the case-tree simplifier both call it, so every decision
// here is made from the analysis facts alone.
func (dl *defLowerer) buildCall(name names.Name, args []*core.Term) (*ir.Exp, error) {
	name = dl.resolveName(name)
	mb, isMethod := dl.binds[name]
	usage, _ := dl.usageOf(name)
	def := dl.l.prog.Def(name)

	// No usage record at all.
	if !usage.Known {
		switch {
		case isMethod:
			// Nothing recorded for the method: nothing used.
			return ir.Var(name), nil
		case def == nil:
			// An ordinary local: assume full usage.
			return dl.fullApply(name, args)
		case def.Kind == core.DefCon:
			return nil, dl.bugf(diag.IceMissingUsage, "constructor %s applied without a usage record", name)
		default:
			// A known global nothing reads: bare reference.
			return ir.Var(name), nil
		}
	}

	// Erased arity and constructor identity.
	var (
		arity int
		isCon bool
		tag   int
	)
	switch {
	case isMethod:
		con := dl.l.prog.Def(mb.Con).Con()
		if con == nil || mb.Field < 0 || mb.Field >= len(con.FieldArity) {
			return nil, dl.bugf(diag.IceUnknownKind, "method projection of %s field %d has no declared arity", mb.Con, mb.Field)
		}
		arity = con.FieldArity[mb.Field]
	case def == nil:
		// A record without a definition declares no arity; fall back to
		// ordinary-local full usage.
		return dl.fullApply(name, args)
	default:
		switch data := def.Data.(type) {
		case core.ConData:
			arity, isCon, tag = data.Arity, true, data.Tag
		case core.TypeConData:
			return ir.Erased(), nil
		case core.FunData:
			arity = data.Arity
		case core.MatchData:
			arity = len(data.Args)
		case core.PostulateData:
			arity = data.Arity
		case core.PrimData:
			arity = data.Arity
		default:
			return nil, dl.bugf(diag.IceUnknownKind, "cannot derive the erased arity of %s definition %s", def.Kind, name)
		}
	}

	var (
		kept    []int
		newtype bool
	)
	if isCon {
		s := dl.l.shapeOf(name, arity)
		kept, newtype = s.kept, s.newtype
	} else {
		kept = usage.Kept(arity)
		newtype = dl.l.facts.Opt.Read(name).Detaggable && len(kept) == 1
	}
	got := len(args)

	switch {
	case got > arity:
		// Over-applied: call at erased arity, then apply the rest of
		// the arguments to the result.
		if isCon {
			return nil, dl.bugf(diag.IceOverAppliedCon, "constructor %s takes %d arguments, got %d", name, arity, got)
		}
		keptArgs, err := dl.keptArgs(args[:arity], kept)
		if err != nil {
			return nil, err
		}
		extras, err := dl.terms(args[arity:])
		if err != nil {
			return nil, err
		}
		return ir.App(dl.mkCall(name, isCon, tag, keptArgs), extras...), nil

	case got == arity:
		if newtype {
			// Saturated newtype: the single retained argument IS the
			// value, no construction or call node.
			return dl.term(args[kept[0]])
		}
		keptArgs, err := dl.keptArgs(args, kept)
		if err != nil {
			return nil, err
		}
		return dl.mkCall(name, isCon, tag, keptArgs), nil

	default: // under-applied
		if newtype {
			retained := kept[0]
			pads := dl.padParams(got, arity)
			if retained < got {
				inner, err := dl.term(args[retained])
				if err != nil {
					return nil, err
				}
				return ir.Lam(pads, inner), nil
			}
			return ir.Lam(pads, ir.Var(pads[retained-got])), nil
		}

		allRemainingUsed := true
		for p := got; p < arity; p++ {
			if !usage.Uses(p) {
				allRemainingUsed = false
				break
			}
		}
		if allRemainingUsed && !isCon {
			// Every missing position survives erasure, so the partial
			// application stays partial: supplying the retained prefix
			// now and the rest later reassembles the saturated call.
			var supplied []*ir.Exp
			for _, p := range kept {
				if p >= got {
					break
				}
				e, err := dl.term(args[p])
				if err != nil {
					return nil, err
				}
				supplied = append(supplied, e)
			}
			if len(supplied) == 0 {
				return ir.Var(name), nil
			}
			return ir.App(ir.Var(name), supplied...), nil
		}

		// Erased positions remain among the missing arguments (or this
		// is a constructor, which cannot exist under-applied): build
		// the saturated call under synthesized binders for the missing
		// parameters, wiring each kept missing position to its binder.
		pads := dl.padParams(got, arity)
		full := make([]*ir.Exp, 0, len(kept))
		for _, p := range kept {
			if p < got {
				e, err := dl.term(args[p])
				if err != nil {
					return nil, err
				}
				full = append(full, e)
			} else {
				full = append(full, ir.Var(pads[p-got]))
			}
		}
		return ir.Lam(pads, dl.mkCall(name, isCon, tag, full)), nil
	}
}

// fullApply applies name to every argument unmodified, the treatment of
// locals with no analysis record.
func (dl *defLowerer) fullApply(name names.Name, args []*core.Term) (*ir.Exp, error) {
	low, err := dl.terms(args)
	if err != nil {
		return nil, err
	}
	if len(low) == 0 {
		return ir.Var(name), nil
	}
	return ir.App(ir.Var(name), low...), nil
}

// keptArgs lowers the used positions of args in ascending order. Erased
// arguments are discarded unevaluated.
func (dl *defLowerer) keptArgs(args []*core.Term, kept []int) ([]*ir.Exp, error) {
	out := make([]*ir.Exp, 0, len(kept))
	for _, p := range kept {
		e, err := dl.term(args[p])
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// mkCall emits the saturated node for name over the retained arguments.
// A zero-argument application is a real call, never a bare reference.
func (dl *defLowerer) mkCall(name names.Name, isCon bool, tag int, args []*ir.Exp) *ir.Exp {
	if isCon {
		return ir.Con(name, tag, args...)
	}
	return ir.App(ir.Var(name), args...)
}

// padParams synthesizes binder names for the missing trailing
// parameters of an under-applied call.
func (dl *defLowerer) padParams(got, arity int) []names.Name {
	pads := make([]names.Name, arity-got)
	for i := range pads {
		pads[i] = dl.fresh(names.Local("p"))
	}
	return pads
}
