package lower

import (
	"tarn/internal/constant"
	"tarn/internal/core"
	"tarn/internal/diag"
	"tarn/internal/ir"
)

// foreign lowers a foreign-call construction from its return
// descriptor, target term, and term-encoded argument list.
func (dl *defLowerer) foreign(ret, target, list *core.Term) (*ir.Exp, error) {
	fargs, err := dl.foreignArgs(list)
	if err != nil {
		return nil, err
	}
	return ir.Foreign(dl.descriptorType(ret), renderTarget(target), fargs...), nil
}

// foreignArgs walks the literal list spine of descriptor/value pairs.
// List cells may carry leading type arguments; the payload is always
// the trailing pair of head and tail.
func (dl *defLowerer) foreignArgs(list *core.Term) ([]ir.ForeignArg, error) {
	var out []ir.ForeignArg
	for {
		head, args := list.Spine()
		if head == nil || head.Kind != core.TermRef {
			return nil, dl.errorf(diag.LowForeignArgs, "argument list is not a literal list").
				WithDetail(core.FormatTerm(list))
		}
		switch n := head.Data.(core.RefData).Name; n {
		case core.ListNil:
			return out, nil
		case core.ListCons:
			if len(args) < 2 {
				return nil, dl.errorf(diag.LowForeignArgs, "list cell carries %d arguments, want at least 2", len(args))
			}
			farg, err := dl.foreignPair(args[len(args)-2])
			if err != nil {
				return nil, err
			}
			out = append(out, farg)
			list = args[len(args)-1]
		default:
			return nil, dl.errorf(diag.LowForeignArgs, "argument list spine reaches %s", n).
				WithDetail(core.FormatTerm(list))
		}
	}
}

// foreignPair reads one (descriptor, value) pair, tolerating leading
// type arguments on the pair constructor.
func (dl *defLowerer) foreignPair(pair *core.Term) (ir.ForeignArg, error) {
	head, args := pair.Spine()
	if head == nil || head.Kind != core.TermRef ||
		head.Data.(core.RefData).Name != core.PairCon || len(args) < 2 {
		return ir.ForeignArg{}, dl.errorf(diag.LowForeignPair, "argument entry is not a descriptor pair").
			WithDetail(core.FormatTerm(pair))
	}
	e, err := dl.term(args[len(args)-1])
	if err != nil {
		return ir.ForeignArg{}, err
	}
	return ir.ForeignArg{Type: dl.descriptorType(args[len(args)-2]), Exp: e}, nil
}

// descriptorType maps a foreign type descriptor term onto the closed IR
// set. Unrecognized but well-formed descriptors fall back to FAny; when
// the descriptor names a constructor outside the known set, the
// fallback carries a warning so silent Any coercions stay visible.
func (dl *defLowerer) descriptorType(t *core.Term) ir.FType {
	head, args := t.Spine()
	if head == nil || head.Kind != core.TermRef {
		return ir.FAny
	}
	switch n := head.Data.(core.RefData).Name; n {
	case core.FCStr:
		return ir.FString
	case core.FCFloat:
		return ir.FFloat
	case core.FCPtr:
		return ir.FPtr
	case core.FCMPtr:
		return ir.FMPtr
	case core.FCCData:
		return ir.FCData
	case core.FCUnit:
		return ir.FUnit
	case core.FCAny:
		return ir.FAny
	case core.FCIntT:
		if len(args) == 0 {
			return ir.FAny
		}
		return dl.intDescriptor(args[len(args)-1])
	case core.FCFnT:
		if len(args) > 0 && containsFnIO(args[len(args)-1]) {
			return ir.FFunIO
		}
		return ir.FFun
	default:
		dl.warnf(diag.LowForeignAny, "unrecognized foreign descriptor %s, passing the value as opaque", n)
		return ir.FAny
	}
}

// intDescriptor maps the width argument of an integer descriptor.
func (dl *defLowerer) intDescriptor(t *core.Term) ir.FType {
	head, _ := t.Spine()
	if head == nil || head.Kind != core.TermRef {
		return ir.FAny
	}
	switch n := head.Data.(core.RefData).Name; n {
	case core.FCIntNat:
		return ir.FInt
	case core.FCIntB8:
		return ir.FBits8
	case core.FCIntB16:
		return ir.FBits16
	case core.FCIntB32:
		return ir.FBits32
	case core.FCIntB64:
		return ir.FBits64
	case core.FCIntChar:
		return ir.FChar
	case core.FCIntBig:
		return ir.FBigInt
	default:
		dl.warnf(diag.LowForeignAny, "unrecognized integer width %s in foreign descriptor, passing the value as opaque", n)
		return ir.FAny
	}
}

// containsFnIO walks a function-shape spine looking for the effectful
// step marker.
func containsFnIO(t *core.Term) bool {
	head, args := t.Spine()
	if head == nil || head.Kind != core.TermRef {
		return false
	}
	switch head.Data.(core.RefData).Name {
	case core.FCFnIO:
		return true
	case core.FCFn:
		for _, a := range args {
			if containsFnIO(a) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// renderTarget flattens the foreign target term into the symbol string
// handed to backends. A string literal is used verbatim; anything else
// keeps its term rendering.
func renderTarget(t *core.Term) string {
	if t != nil && t.Kind == core.TermConst {
		if v := t.Data.(core.ConstData).Value; v.Kind == constant.String {
			return v.Str
		}
	}
	if t != nil && t.Kind == core.TermRef {
		return t.Data.(core.RefData).Name.String()
	}
	return core.FormatTerm(t)
}
