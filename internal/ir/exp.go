// Package ir defines the untyped, erasure-optimized output of the
// lowering tier. Expressions reference pruned-away positions nowhere:
// every application to a global matches that global's erased arity, and
// constructor nodes carry only retained fields. Backends consume this
// form unchanged.
package ir

import (
	"tarn/internal/constant"
	"tarn/internal/names"
)

// ExpKind enumerates IR expression kinds.
type ExpKind uint8

const (
	// ExpVar references a local or global by name.
	ExpVar ExpKind = iota
	// ExpApp applies a callee to arguments. Structural over-application
	// nests: the outer App's callee is itself an App at erased arity.
	ExpApp
	// ExpLam is a multi-parameter abstraction.
	ExpLam
	// ExpLet binds a value in a body.
	ExpLet
	// ExpCon constructs a value: tag plus retained fields only.
	ExpCon
	// ExpPrj reads one retained field of a constructed value by
	// post-erasure index.
	ExpPrj
	// ExpOp applies a primitive operator.
	ExpOp
	// ExpForeign calls out through the FFI.
	ExpForeign
	// ExpConst is a literal constant.
	ExpConst
	// ExpCase dispatches on constructor tags and constants.
	ExpCase
	// ExpLazy suspends its operand.
	ExpLazy
	// ExpForce evaluates a suspension.
	ExpForce
	// ExpErased is the no-value leaf left where a term was erased.
	ExpErased
	// ExpCrash aborts with diagnostic text (match failure, postulate).
	ExpCrash
)

// String returns a human-readable name for the expression kind.
func (k ExpKind) String() string {
	switch k {
	case ExpVar:
		return "Var"
	case ExpApp:
		return "App"
	case ExpLam:
		return "Lam"
	case ExpLet:
		return "Let"
	case ExpCon:
		return "Con"
	case ExpPrj:
		return "Prj"
	case ExpOp:
		return "Op"
	case ExpForeign:
		return "Foreign"
	case ExpConst:
		return "Const"
	case ExpCase:
		return "Case"
	case ExpLazy:
		return "Lazy"
	case ExpForce:
		return "Force"
	case ExpErased:
		return "Erased"
	case ExpCrash:
		return "Crash"
	default:
		return "Unknown"
	}
}

// Exp is one IR expression node. The Erased leaf carries no payload.
type Exp struct {
	Kind ExpKind
	Data ExpData
}

// ExpData is the interface for expression-specific payloads.
type ExpData interface {
	expData()
}

// VarData holds data for ExpVar.
type VarData struct {
	Name names.Name
}

func (VarData) expData() {}

// AppData holds data for ExpApp.
type AppData struct {
	Fn   *Exp
	Args []*Exp
}

func (AppData) expData() {}

// LamData holds data for ExpLam.
type LamData struct {
	Params []names.Name
	Body   *Exp
}

func (LamData) expData() {}

// LetData holds data for ExpLet.
type LetData struct {
	Name  names.Name
	Value *Exp
	Body  *Exp
}

func (LetData) expData() {}

// ConData holds data for ExpCon.
type ConData struct {
	Con  names.Name
	Tag  int
	Args []*Exp
}

func (ConData) expData() {}

// PrjData holds data for ExpPrj. Field indexes into the retained
// fields of the constructed value.
type PrjData struct {
	Exp   *Exp
	Field int
}

func (PrjData) expData() {}

// OpData holds data for ExpOp.
type OpData struct {
	Op   Op
	Args []*Exp
}

func (OpData) expData() {}

// ForeignArg pairs a foreign type with its argument expression.
type ForeignArg struct {
	Type FType
	Exp  *Exp
}

// ForeignData holds data for ExpForeign. Target is the external symbol
// descriptor, opaque to this tier.
type ForeignData struct {
	Ret    FType
	Target string
	Args   []ForeignArg
}

func (ForeignData) expData() {}

// ConstData holds data for ExpConst.
type ConstData struct {
	Value constant.Value
}

func (ConstData) expData() {}

// CaseData holds data for ExpCase.
type CaseData struct {
	Subject *Exp
	Alts    []*Alt
}

func (CaseData) expData() {}

// LazyData holds data for ExpLazy.
type LazyData struct {
	Exp *Exp
}

func (LazyData) expData() {}

// ForceData holds data for ExpForce.
type ForceData struct {
	Exp *Exp
}

func (ForceData) expData() {}

// CrashData holds data for ExpCrash.
type CrashData struct {
	Message string
}

func (CrashData) expData() {}

// AltKind enumerates decision-node alternatives.
type AltKind uint8

const (
	// AltCon matches a constructor tag, binding retained fields.
	AltCon AltKind = iota
	// AltConst matches a literal constant.
	AltConst
	// AltDefault matches anything.
	AltDefault
)

// String returns a human-readable name for the alternative kind.
func (k AltKind) String() string {
	switch k {
	case AltCon:
		return "Con"
	case AltConst:
		return "Const"
	case AltDefault:
		return "Default"
	default:
		return "Unknown"
	}
}

// Alt is one alternative of a decision node.
type Alt struct {
	Kind AltKind
	Data AltData
}

// AltData is the interface for alternative-specific payloads.
type AltData interface {
	altData()
}

// ConAltData holds data for AltCon. Binders name exactly the retained
// fields, in ascending original-position order.
type ConAltData struct {
	Con     names.Name
	Tag     int
	Binders []names.Name
	Body    *Exp
}

func (ConAltData) altData() {}

// ConstAltData holds data for AltConst.
type ConstAltData struct {
	Value constant.Value
	Body  *Exp
}

func (ConstAltData) altData() {}

// DefaultAltData holds data for AltDefault.
type DefaultAltData struct {
	Body *Exp
}

func (DefaultAltData) altData() {}

// Var references n.
func Var(n names.Name) *Exp {
	return &Exp{Kind: ExpVar, Data: VarData{Name: n}}
}

// App applies fn to args. A zero-argument App is a call (a nullary
// global forced at reference time) and is never collapsed to fn.
func App(fn *Exp, args ...*Exp) *Exp {
	return &Exp{Kind: ExpApp, Data: AppData{Fn: fn, Args: args}}
}

// Lam abstracts body over params. With no params it returns body.
func Lam(params []names.Name, body *Exp) *Exp {
	if len(params) == 0 {
		return body
	}
	return &Exp{Kind: ExpLam, Data: LamData{Params: params, Body: body}}
}

// Let binds value as name inside body.
func Let(name names.Name, value, body *Exp) *Exp {
	return &Exp{Kind: ExpLet, Data: LetData{Name: name, Value: value, Body: body}}
}

// Con constructs con (tag) over the retained args.
func Con(con names.Name, tag int, args ...*Exp) *Exp {
	return &Exp{Kind: ExpCon, Data: ConData{Con: con, Tag: tag, Args: args}}
}

// Prj reads retained field i of e.
func Prj(e *Exp, i int) *Exp {
	return &Exp{Kind: ExpPrj, Data: PrjData{Exp: e, Field: i}}
}

// NewOp applies a primitive operator.
func NewOp(op Op, args ...*Exp) *Exp {
	return &Exp{Kind: ExpOp, Data: OpData{Op: op, Args: args}}
}

// Foreign calls target through the FFI.
func Foreign(ret FType, target string, args ...ForeignArg) *Exp {
	return &Exp{Kind: ExpForeign, Data: ForeignData{Ret: ret, Target: target, Args: args}}
}

// Lit returns a constant expression.
func Lit(v constant.Value) *Exp {
	return &Exp{Kind: ExpConst, Data: ConstData{Value: v}}
}

// Case dispatches on subject.
func Case(subject *Exp, alts ...*Alt) *Exp {
	return &Exp{Kind: ExpCase, Data: CaseData{Subject: subject, Alts: alts}}
}

// Lazy suspends e.
func Lazy(e *Exp) *Exp {
	return &Exp{Kind: ExpLazy, Data: LazyData{Exp: e}}
}

// Force evaluates the suspension e.
func Force(e *Exp) *Exp {
	return &Exp{Kind: ExpForce, Data: ForceData{Exp: e}}
}

// Erased is the no-value leaf.
func Erased() *Exp { return &Exp{Kind: ExpErased} }

// Crash aborts with msg.
func Crash(msg string) *Exp {
	return &Exp{Kind: ExpCrash, Data: CrashData{Message: msg}}
}

// ConAlt matches con (tag), binding the retained fields.
func ConAlt(con names.Name, tag int, binders []names.Name, body *Exp) *Alt {
	return &Alt{Kind: AltCon, Data: ConAltData{Con: con, Tag: tag, Binders: binders, Body: body}}
}

// ConstAlt matches the literal v.
func ConstAlt(v constant.Value, body *Exp) *Alt {
	return &Alt{Kind: AltConst, Data: ConstAltData{Value: v, Body: body}}
}

// DefaultAlt matches anything.
func DefaultAlt(body *Exp) *Alt {
	return &Alt{Kind: AltDefault, Data: DefaultAltData{Body: body}}
}
