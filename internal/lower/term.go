package lower

import (
	"tarn/internal/constant"
	"tarn/internal/core"
	"tarn/internal/diag"
	"tarn/internal/ir"
	"tarn/internal/names"
)

// term lowers one core term to an IR expression.
func (dl *defLowerer) term(t *core.Term) (*ir.Exp, error) {
	if t == nil {
		return ir.Erased(), nil
	}
	switch d := t.Data.(type) {
	case core.LocalData:
		name, err := dl.local(d.Index)
		if err != nil {
			return nil, err
		}
		return dl.nameApp(name, nil)
	case core.RefData:
		return dl.nameApp(d.Name, nil)
	case core.AppData:
		head, args := t.Spine()
		return dl.appTerm(head, args)
	case core.LamData:
		binder := dl.fresh(d.Binder)
		dl.env = append(dl.env, binder)
		body, err := dl.term(d.Body)
		dl.env = dl.env[:len(dl.env)-1]
		if err != nil {
			return nil, err
		}
		return ir.Lam([]names.Name{binder}, body), nil
	case core.PiData:
		// The function space carries no run-time value.
		return ir.Erased(), nil
	case core.LetData:
		value, err := dl.term(d.Value)
		if err != nil {
			return nil, err
		}
		binder := dl.fresh(d.Binder)
		dl.env = append(dl.env, binder)
		body, err := dl.term(d.Body)
		dl.env = dl.env[:len(dl.env)-1]
		if err != nil {
			return nil, err
		}
		return ir.Let(binder, value, body), nil
	case core.PrjData:
		value, err := dl.term(d.Value)
		if err != nil {
			return nil, err
		}
		if d.Field == -1 {
			// Predecessor of a unary-encoded number.
			return ir.NewOp(ir.OpSubBig, value, ir.Lit(constant.BigIntVal(1))), nil
		}
		return ir.Prj(value, d.Field), nil
	case core.ConstData:
		return ir.Lit(d.Value), nil
	case nil:
		// Erased, Impossible, Universe.
		return ir.Erased(), nil
	default:
		return ir.Erased(), nil
	}
}

// terms lowers a term slice in order.
func (dl *defLowerer) terms(ts []*core.Term) ([]*ir.Exp, error) {
	if len(ts) == 0 {
		return nil, nil
	}
	out := make([]*ir.Exp, len(ts))
	for i, t := range ts {
		e, err := dl.term(t)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

// local resolves de Bruijn index i against the current frame.
func (dl *defLowerer) local(i int) (names.Name, error) {
	if i < 0 || i >= len(dl.env) {
		return names.Name{}, dl.bugf(diag.IceDeBruijn, "index %d at binding depth %d", i, len(dl.env))
	}
	return dl.env[len(dl.env)-1-i], nil
}

// appTerm lowers an application with a flattened spine.
func (dl *defLowerer) appTerm(head *core.Term, args []*core.Term) (*ir.Exp, error) {
	if head == nil {
		return ir.Erased(), nil
	}
	switch d := head.Data.(type) {
	case core.RefData:
		return dl.nameApp(d.Name, args)
	case core.LocalData:
		name, err := dl.local(d.Index)
		if err != nil {
			return nil, err
		}
		return dl.nameApp(name, args)
	case core.PiData:
		return ir.Erased(), nil
	case nil:
		// Applying a no-value head produces no value.
		return ir.Erased(), nil
	default:
		// A redex the front end left behind; keep the shape.
		fn, err := dl.term(head)
		if err != nil {
			return nil, err
		}
		low, err := dl.terms(args)
		if err != nil {
			return nil, err
		}
		return ir.App(fn, low...), nil
	}
}

// nameApp lowers an application of name to args. Compiler-internal head
// markers take priority; then type constructors vanish, instance
// constructors get their method arguments pruned, exactly saturated
// primitives become operator nodes, and everything else goes through
// the call builder.
func (dl *defLowerer) nameApp(name names.Name, args []*core.Term) (*ir.Exp, error) {
	name = dl.resolveName(name)
	if len(args) > 0 {
		switch name {
		case core.MarkForeign:
			if len(args) < 3 {
				return nil, dl.errorf(diag.LowForeignArity, "foreign call carries %d of 3 descriptor arguments", len(args))
			}
			return dl.foreign(args[0], args[1], args[2])
		case core.MarkRunUnsafe, core.MarkAssertTotal, core.MarkAssertSmaller, core.MarkAlloc, core.MarkTraceAlloc:
			return dl.term(args[len(args)-1])
		case core.MarkDelay:
			e, err := dl.term(args[len(args)-1])
			if err != nil {
				return nil, err
			}
			return ir.Lazy(e), nil
		case core.MarkForce:
			e, err := dl.term(args[len(args)-1])
			if err != nil {
				return nil, err
			}
			return ir.Force(e), nil
		case core.MarkPar:
			e, err := dl.lazyArg(args[len(args)-1])
			if err != nil {
				return nil, err
			}
			return ir.NewOp(ir.OpPar, e), nil
		case core.MarkIfThenElse:
			if len(args) == 4 {
				return dl.ifThenElse(args[1], args[2], args[3])
			}
		}
	}
	if def := dl.l.prog.Def(name); def != nil {
		switch data := def.Data.(type) {
		case core.TypeConData:
			return ir.Erased(), nil
		case core.ConData:
			if data.Instance {
				args = dl.pruneMethods(name, data, args)
			}
		case core.PrimData:
			if spec, ok := primOps[name]; ok && len(args) == spec.arity {
				low, err := dl.terms(args)
				if err != nil {
					return nil, err
				}
				return ir.NewOp(spec.op, low...), nil
			}
		}
	}
	return dl.buildCall(name, args)
}

// lazyArg lowers t into exactly one lazily-wrapped operand, reusing a
// syntactic delay wrapper instead of double-wrapping.
func (dl *defLowerer) lazyArg(t *core.Term) (*ir.Exp, error) {
	if payload, ok := delayPayload(t); ok {
		e, err := dl.term(payload)
		if err != nil {
			return nil, err
		}
		return ir.Lazy(e), nil
	}
	e, err := dl.term(t)
	if err != nil {
		return nil, err
	}
	return ir.Lazy(e), nil
}

// ifThenElse hand-inlines boolean elimination over two delayed branches
// into a two-way decision node with strict arms.
func (dl *defLowerer) ifThenElse(cond, thenT, elseT *core.Term) (*ir.Exp, error) {
	c, err := dl.term(cond)
	if err != nil {
		return nil, err
	}
	thenE, err := dl.strictArg(thenT)
	if err != nil {
		return nil, err
	}
	elseE, err := dl.strictArg(elseT)
	if err != nil {
		return nil, err
	}
	return ir.Case(c,
		ir.ConAlt(core.FalseName, core.FalseTag, nil, elseE),
		ir.ConAlt(core.TrueName, core.TrueTag, nil, thenE),
	), nil
}

// strictArg undoes the delay wrapping of a decision arm: a syntactic
// delay lowers to its payload, anything else is forced.
func (dl *defLowerer) strictArg(t *core.Term) (*ir.Exp, error) {
	if payload, ok := delayPayload(t); ok {
		return dl.term(payload)
	}
	e, err := dl.term(t)
	if err != nil {
		return nil, err
	}
	return ir.Force(e), nil
}

// delayPayload matches a syntactic delay application and returns its
// suspended term.
func delayPayload(t *core.Term) (*core.Term, bool) {
	head, args := t.Spine()
	if head == nil || head.Kind != core.TermRef || len(args) == 0 {
		return nil, false
	}
	if head.Data.(core.RefData).Name != core.MarkDelay {
		return nil, false
	}
	return args[len(args)-1], true
}

// pruneMethods rewrites the eta-expanded method arguments of an
// instance constructor application over only their used parameters, so
// each stored closure matches the erased calling convention later
// projections of that field will use.
func (dl *defLowerer) pruneMethods(conName names.Name, con core.ConData, args []*core.Term) []*core.Term {
	var out []*core.Term
	for i := range args {
		if i >= len(con.FieldArity) {
			break
		}
		arity := con.FieldArity[i]
		usage := dl.l.facts.Usage.Read(names.Field(conName, i))
		if !usage.Known || arity == 0 {
			continue
		}
		kept := usage.Kept(arity)
		if len(kept) == 0 || len(kept) == arity {
			continue
		}
		pruned, ok := etaPrune(args[i], arity, kept)
		if !ok {
			continue
		}
		if out == nil {
			out = append([]*core.Term(nil), args...)
		}
		out[i] = pruned
	}
	if out == nil {
		return args
	}
	return out
}

// etaPrune matches \x1..xk -> h x1..xk and rebuilds it over the kept
// positions only, padding the dropped arguments of the still-saturated
// inner call with erased terms. Any other shape is left alone.
func etaPrune(t *core.Term, arity int, kept []int) (*core.Term, bool) {
	binders := make([]names.Name, 0, arity)
	body := t
	for i := 0; i < arity; i++ {
		if body == nil || body.Kind != core.TermLam {
			return nil, false
		}
		ld := body.Data.(core.LamData)
		binders = append(binders, ld.Binder)
		body = ld.Body
	}
	head, spine := body.Spine()
	if head == nil || head.Kind != core.TermRef || len(spine) != arity {
		return nil, false
	}
	for i, a := range spine {
		if a == nil || a.Kind != core.TermLocal {
			return nil, false
		}
		if a.Data.(core.LocalData).Index != arity-1-i {
			return nil, false
		}
	}
	rank := make(map[int]int, len(kept))
	for j, p := range kept {
		rank[p] = j
	}
	newSpine := make([]*core.Term, arity)
	for p := 0; p < arity; p++ {
		if j, ok := rank[p]; ok {
			newSpine[p] = core.Local(len(kept) - 1 - j)
		} else {
			newSpine[p] = core.Erased()
		}
	}
	rebuilt := core.App(head, newSpine...)
	for j := len(kept) - 1; j >= 0; j-- {
		rebuilt = core.Lam(binders[kept[j]], rebuilt)
	}
	return rebuilt, true
}
