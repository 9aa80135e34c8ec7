package core

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Dump writes a deterministic human-readable listing of the definition
// table: constructors, primitives and postulates first as one-liners,
// then bodied definitions, all name-sorted.
func Dump(w io.Writer, p *Program) error {
	if w == nil || p == nil {
		return nil
	}
	order := p.Names()
	fmt.Fprintf(w, "defs=%d\n", len(order))

	nameCol := 0
	for _, n := range order {
		switch p.Defs[n].Kind {
		case DefCon, DefTypeCon, DefPostulate, DefPrim:
			if w := runewidth.StringWidth(n.String()); w > nameCol {
				nameCol = w
			}
		}
	}
	for _, n := range order {
		d := p.Defs[n]
		s := n.String()
		pad := strings.Repeat(" ", nameCol-runewidth.StringWidth(s))
		switch data := d.Data.(type) {
		case ConData:
			rest := fmt.Sprintf("tag=%d arity=%d", data.Tag, data.Arity)
			if data.Instance {
				rest += " instance of " + data.Class.String()
			}
			fmt.Fprintf(w, "con       %s%s  %s\n", s, pad, rest)
		case TypeConData:
			fmt.Fprintf(w, "tycon     %s%s  arity=%d\n", s, pad, data.Arity)
		case PostulateData:
			fmt.Fprintf(w, "postulate %s%s  arity=%d\n", s, pad, data.Arity)
		case PrimData:
			fmt.Fprintf(w, "prim      %s%s  arity=%d\n", s, pad, data.Arity)
		}
	}

	for _, n := range order {
		switch data := p.Defs[n].Data.(type) {
		case FunData:
			fmt.Fprintf(w, "\nfn %s/%d:\n  %s\n", n, data.Arity, FormatTerm(data.Body))
		case MatchData:
			args := make([]string, len(data.Args))
			for i, a := range data.Args {
				args[i] = a.String()
			}
			fmt.Fprintf(w, "\nmatch %s(%s):\n  %s\n", n, strings.Join(args, ", "), FormatTree(data.Tree))
		}
	}
	return nil
}

// FormatTerm renders a term as a single compact line. Diagnostics embed
// these dumps, so the syntax favors density over prettiness.
func FormatTerm(t *Term) string {
	if t == nil {
		return "<term?>"
	}
	switch d := t.Data.(type) {
	case LocalData:
		return fmt.Sprintf("@%d", d.Index)
	case RefData:
		return d.Name.String()
	case AppData:
		out := "(" + FormatTerm(d.Fn)
		for _, a := range d.Args {
			out += " " + FormatTerm(a)
		}
		return out + ")"
	case LamData:
		return fmt.Sprintf("(\\%s -> %s)", d.Binder.String(), FormatTerm(d.Body))
	case PiData:
		return fmt.Sprintf("(pi %s -> %s)", d.Binder.String(), FormatTerm(d.Body))
	case LetData:
		return fmt.Sprintf("(let %s = %s in %s)", d.Binder.String(), FormatTerm(d.Value), FormatTerm(d.Body))
	case PrjData:
		return fmt.Sprintf("(prj %s %d)", FormatTerm(d.Value), d.Field)
	case ConstData:
		return d.Value.String()
	case nil:
		switch t.Kind {
		case TermErased:
			return "erased"
		case TermImpossible:
			return "impossible"
		case TermUniverse:
			return "type"
		}
		return "<term?>"
	default:
		return "<term?>"
	}
}

// FormatTree renders a case-tree as a single compact line.
func FormatTree(t *Tree) string {
	if t == nil {
		return "<tree?>"
	}
	switch d := t.Data.(type) {
	case TerminalData:
		return FormatTerm(d.Term)
	case UnmatchedData:
		return fmt.Sprintf("(unmatched %q)", d.Message)
	case CaseData:
		out := "(case " + d.Subject.String()
		for _, a := range d.Alts {
			out += " " + formatTreeAlt(a)
		}
		return out + ")"
	case ProjData:
		out := "(pcase " + FormatTerm(d.Subject)
		for _, a := range d.Alts {
			out += " " + formatTreeAlt(a)
		}
		return out + ")"
	default:
		return "<tree?>"
	}
}

func formatTreeAlt(a *Alt) string {
	if a == nil {
		return "[<alt?>]"
	}
	switch d := a.Data.(type) {
	case ConAltData:
		head := fmt.Sprintf("%s/%d", d.Con.String(), d.Tag)
		binders := make([]string, len(d.Binders))
		for i, b := range d.Binders {
			binders[i] = b.String()
		}
		if len(binders) > 0 {
			head += " " + strings.Join(binders, " ")
		}
		return fmt.Sprintf("[%s -> %s]", head, FormatTree(d.Sub))
	case ConstAltData:
		return fmt.Sprintf("[%s -> %s]", d.Value.String(), FormatTree(d.Sub))
	case SucAltData:
		return fmt.Sprintf("[suc %s -> %s]", d.Binder.String(), FormatTree(d.Sub))
	case DefaultAltData:
		return fmt.Sprintf("[_ -> %s]", FormatTree(d.Sub))
	default:
		return "[<alt?>]"
	}
}
