package core

import (
	"tarn/internal/constant"
	"tarn/internal/names"
)

// TreeKind enumerates case-tree node kinds.
type TreeKind uint8

const (
	// TreeTerminal evaluates a term.
	TreeTerminal TreeKind = iota
	// TreeUnmatched reports that no clause matched.
	TreeUnmatched
	// TreeCase dispatches on a bound variable.
	TreeCase
	// TreeProj dispatches on a projected subject term.
	TreeProj
)

// String returns a human-readable name for the tree kind.
func (k TreeKind) String() string {
	switch k {
	case TreeTerminal:
		return "Terminal"
	case TreeUnmatched:
		return "Unmatched"
	case TreeCase:
		return "Case"
	case TreeProj:
		return "ProjCase"
	default:
		return "Unknown"
	}
}

// Tree is one decision node of a compiled pattern match.
type Tree struct {
	Kind TreeKind
	Data TreeData
}

// TreeData is the interface for tree-specific payloads.
type TreeData interface {
	treeData()
}

// TerminalData holds data for TreeTerminal.
type TerminalData struct {
	Term *Term
}

func (TerminalData) treeData() {}

// UnmatchedData holds data for TreeUnmatched.
type UnmatchedData struct {
	Message string
}

func (UnmatchedData) treeData() {}

// CaseData holds data for TreeCase.
type CaseData struct {
	Subject names.Name
	Alts    []*Alt
}

func (CaseData) treeData() {}

// ProjData holds data for TreeProj.
type ProjData struct {
	Subject *Term
	Alts    []*Alt
}

func (ProjData) treeData() {}

// AltKind enumerates case alternatives.
type AltKind uint8

const (
	// AltCon matches a constructor and binds its fields.
	AltCon AltKind = iota
	// AltConst matches a literal constant.
	AltConst
	// AltSuc matches a successor, binding the decremented value.
	AltSuc
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
	case AltSuc:
		return "Suc"
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

// ConAltData holds data for AltCon.
type ConAltData struct {
	Con     names.Name
	Tag     int
	Binders []names.Name
	Sub     *Tree
}

func (ConAltData) altData() {}

// ConstAltData holds data for AltConst.
type ConstAltData struct {
	Value constant.Value
	Sub   *Tree
}

func (ConstAltData) altData() {}

// SucAltData holds data for AltSuc.
type SucAltData struct {
	Binder names.Name
	Sub    *Tree
}

func (SucAltData) altData() {}

// DefaultAltData holds data for AltDefault.
type DefaultAltData struct {
	Sub *Tree
}

func (DefaultAltData) altData() {}

// Terminal returns a terminal node evaluating t.
func Terminal(t *Term) *Tree {
	return &Tree{Kind: TreeTerminal, Data: TerminalData{Term: t}}
}

// Unmatched returns a match-failure node with diagnostic text.
func Unmatched(msg string) *Tree {
	return &Tree{Kind: TreeUnmatched, Data: UnmatchedData{Message: msg}}
}

// Case returns a dispatch over the named subject.
func Case(subject names.Name, alts ...*Alt) *Tree {
	return &Tree{Kind: TreeCase, Data: CaseData{Subject: subject, Alts: alts}}
}

// ProjCase returns a dispatch over a projected subject term.
func ProjCase(subject *Term, alts ...*Alt) *Tree {
	return &Tree{Kind: TreeProj, Data: ProjData{Subject: subject, Alts: alts}}
}

// ConAlt matches constructor con with the given tag, binding fields.
func ConAlt(con names.Name, tag int, binders []names.Name, sub *Tree) *Alt {
	return &Alt{Kind: AltCon, Data: ConAltData{Con: con, Tag: tag, Binders: binders, Sub: sub}}
}

// ConstAlt matches the literal v.
func ConstAlt(v constant.Value, sub *Tree) *Alt {
	return &Alt{Kind: AltConst, Data: ConstAltData{Value: v, Sub: sub}}
}

// SucAlt matches any successor, binding its predecessor.
func SucAlt(binder names.Name, sub *Tree) *Alt {
	return &Alt{Kind: AltSuc, Data: SucAltData{Binder: binder, Sub: sub}}
}

// DefaultAlt matches anything.
func DefaultAlt(sub *Tree) *Alt {
	return &Alt{Kind: AltDefault, Data: DefaultAltData{Sub: sub}}
}

// RefersTo reports whether n occurs free-form anywhere under t: as a term
// reference, a dispatch subject, or inside a nested alternative.
func (t *Tree) RefersTo(n names.Name) bool {
	if t == nil {
		return false
	}
	switch d := t.Data.(type) {
	case TerminalData:
		return d.Term.RefersTo(n)
	case CaseData:
		if d.Subject == n {
			return true
		}
		for _, alt := range d.Alts {
			if alt.Sub().RefersTo(n) {
				return true
			}
		}
	case ProjData:
		if d.Subject.RefersTo(n) {
			return true
		}
		for _, alt := range d.Alts {
			if alt.Sub().RefersTo(n) {
				return true
			}
		}
	}
	return false
}

// Sub returns the alternative's subtree.
func (a *Alt) Sub() *Tree {
	if a == nil {
		return nil
	}
	switch d := a.Data.(type) {
	case ConAltData:
		return d.Sub
	case ConstAltData:
		return d.Sub
	case SucAltData:
		return d.Sub
	case DefaultAltData:
		return d.Sub
	default:
		return nil
	}
}
