// Package testkit holds structural checks shared by tests across the
// repository. The checks validate what every consumer of lowered IR may
// assume without re-verifying.
package testkit

import (
	"fmt"

	"tarn/internal/ir"
	"tarn/internal/names"
)

// CheckProgramInvariants runs CheckDeclInvariants on every declaration
// of a lowered program and reports the first violation.
func CheckProgramInvariants(p *ir.Program) error {
	if p == nil {
		return fmt.Errorf("nil program")
	}
	for _, name := range p.Names() {
		d := p.Decl(name)
		if d == nil {
			return fmt.Errorf("%s: listed but missing", name)
		}
		if err := CheckDeclInvariants(d); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// CheckDeclInvariants runs a minimal set of structural invariants on one
// lowered declaration:
//  1. kind and payload agree, and no subtree is nil
//  2. every Lam binds at least one parameter, and function parameters
//     are pairwise distinct
//  3. constructor tags are -1 (type constructors) or non-negative, and
//     projections index retained positions (field >= 0)
//  4. every Case carries at least one alternative and at most one default
func CheckDeclInvariants(d *ir.Decl) error {
	if d == nil {
		return fmt.Errorf("nil declaration")
	}
	switch d.Kind {
	case ir.DeclFun:
		fun, ok := d.Data.(ir.FunDecl)
		if !ok {
			return fmt.Errorf("Fun declaration with %T payload", d.Data)
		}
		seen := make(map[names.Name]struct{}, len(fun.Params))
		for _, p := range fun.Params {
			if _, dup := seen[p]; dup {
				return fmt.Errorf("duplicate parameter %s", p)
			}
			seen[p] = struct{}{}
		}
		if fun.Body == nil {
			return fmt.Errorf("Fun declaration with nil body")
		}
		return checkExp(fun.Body)
	case ir.DeclCon:
		con, ok := d.Data.(ir.ConDecl)
		if !ok {
			return fmt.Errorf("Con declaration with %T payload", d.Data)
		}
		if con.Tag < -1 {
			return fmt.Errorf("Con declaration with tag %d", con.Tag)
		}
		if con.Arity < 0 {
			return fmt.Errorf("Con declaration with arity %d", con.Arity)
		}
		return nil
	default:
		return fmt.Errorf("unknown declaration kind %d", d.Kind)
	}
}

func checkExp(e *ir.Exp) error {
	if e == nil {
		return fmt.Errorf("nil expression")
	}
	switch e.Kind {
	case ir.ExpVar:
		if _, ok := e.Data.(ir.VarData); !ok {
			return fmt.Errorf("Var with %T payload", e.Data)
		}
		return nil
	case ir.ExpApp:
		d, ok := e.Data.(ir.AppData)
		if !ok {
			return fmt.Errorf("App with %T payload", e.Data)
		}
		if d.Fn == nil {
			return fmt.Errorf("App with nil callee")
		}
		if err := checkExp(d.Fn); err != nil {
			return err
		}
		return checkExps(d.Args)
	case ir.ExpLam:
		d, ok := e.Data.(ir.LamData)
		if !ok {
			return fmt.Errorf("Lam with %T payload", e.Data)
		}
		if len(d.Params) == 0 {
			return fmt.Errorf("Lam with no parameters")
		}
		return checkExp(d.Body)
	case ir.ExpLet:
		d, ok := e.Data.(ir.LetData)
		if !ok {
			return fmt.Errorf("Let with %T payload", e.Data)
		}
		if err := checkExp(d.Value); err != nil {
			return err
		}
		return checkExp(d.Body)
	case ir.ExpCon:
		d, ok := e.Data.(ir.ConData)
		if !ok {
			return fmt.Errorf("Con with %T payload", e.Data)
		}
		if d.Tag < -1 {
			return fmt.Errorf("Con %s with tag %d", d.Con, d.Tag)
		}
		return checkExps(d.Args)
	case ir.ExpPrj:
		d, ok := e.Data.(ir.PrjData)
		if !ok {
			return fmt.Errorf("Prj with %T payload", e.Data)
		}
		if d.Field < 0 {
			return fmt.Errorf("Prj with field %d", d.Field)
		}
		return checkExp(d.Exp)
	case ir.ExpOp:
		d, ok := e.Data.(ir.OpData)
		if !ok {
			return fmt.Errorf("Op with %T payload", e.Data)
		}
		return checkExps(d.Args)
	case ir.ExpForeign:
		d, ok := e.Data.(ir.ForeignData)
		if !ok {
			return fmt.Errorf("Foreign with %T payload", e.Data)
		}
		if d.Target == "" {
			return fmt.Errorf("Foreign with empty target")
		}
		for _, arg := range d.Args {
			if err := checkExp(arg.Exp); err != nil {
				return err
			}
		}
		return nil
	case ir.ExpConst:
		if _, ok := e.Data.(ir.ConstData); !ok {
			return fmt.Errorf("Const with %T payload", e.Data)
		}
		return nil
	case ir.ExpCase:
		d, ok := e.Data.(ir.CaseData)
		if !ok {
			return fmt.Errorf("Case with %T payload", e.Data)
		}
		if err := checkExp(d.Subject); err != nil {
			return err
		}
		if len(d.Alts) == 0 {
			return fmt.Errorf("Case with no alternatives")
		}
		defaults := 0
		for _, alt := range d.Alts {
			if alt == nil {
				return fmt.Errorf("nil alternative")
			}
			if alt.Kind == ir.AltDefault {
				defaults++
			}
			if err := checkAlt(alt); err != nil {
				return err
			}
		}
		if defaults > 1 {
			return fmt.Errorf("Case with %d default alternatives", defaults)
		}
		return nil
	case ir.ExpLazy:
		d, ok := e.Data.(ir.LazyData)
		if !ok {
			return fmt.Errorf("Lazy with %T payload", e.Data)
		}
		return checkExp(d.Exp)
	case ir.ExpForce:
		d, ok := e.Data.(ir.ForceData)
		if !ok {
			return fmt.Errorf("Force with %T payload", e.Data)
		}
		return checkExp(d.Exp)
	case ir.ExpErased:
		return nil
	case ir.ExpCrash:
		if _, ok := e.Data.(ir.CrashData); !ok {
			return fmt.Errorf("Crash with %T payload", e.Data)
		}
		return nil
	default:
		return fmt.Errorf("unknown expression kind %d", e.Kind)
	}
}

func checkAlt(alt *ir.Alt) error {
	switch alt.Kind {
	case ir.AltCon:
		d, ok := alt.Data.(ir.ConAltData)
		if !ok {
			return fmt.Errorf("Con alternative with %T payload", alt.Data)
		}
		if d.Tag < 0 {
			return fmt.Errorf("Con alternative %s with tag %d", d.Con, d.Tag)
		}
		return checkExp(d.Body)
	case ir.AltConst:
		d, ok := alt.Data.(ir.ConstAltData)
		if !ok {
			return fmt.Errorf("Const alternative with %T payload", alt.Data)
		}
		return checkExp(d.Body)
	case ir.AltDefault:
		d, ok := alt.Data.(ir.DefaultAltData)
		if !ok {
			return fmt.Errorf("default alternative with %T payload", alt.Data)
		}
		return checkExp(d.Body)
	default:
		return fmt.Errorf("unknown alternative kind %d", alt.Kind)
	}
}

func checkExps(exps []*ir.Exp) error {
	for _, e := range exps {
		if err := checkExp(e); err != nil {
			return err
		}
	}
	return nil
}
