package ir

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Dump writes a deterministic human-readable listing of the lowered
// program: constructor markers first, then functions, both name-sorted.
// The output is stable across runs and diffable, which is what the
// golden tests and the CLI dump command rely on.
func Dump(w io.Writer, p *Program) error {
	if w == nil || p == nil {
		return nil
	}
	order := p.Names()
	fmt.Fprintf(w, "decls=%d\n", len(order))

	nameCol := 0
	for _, n := range order {
		if p.Decls[n].Kind == DeclCon {
			if w := runewidth.StringWidth(n.String()); w > nameCol {
				nameCol = w
			}
		}
	}
	for _, n := range order {
		d := p.Decls[n]
		if d.Kind != DeclCon {
			continue
		}
		c := d.Data.(ConDecl)
		s := n.String()
		pad := strings.Repeat(" ", nameCol-runewidth.StringWidth(s))
		fmt.Fprintf(w, "con %s%s  tag=%d arity=%d\n", s, pad, c.Tag, c.Arity)
	}

	for _, n := range order {
		d := p.Decls[n]
		if d.Kind != DeclFun {
			continue
		}
		f := d.Data.(FunDecl)
		params := make([]string, len(f.Params))
		for i, prm := range f.Params {
			params[i] = prm.String()
		}
		fmt.Fprintf(w, "\nfn %s(%s):\n", n.String(), strings.Join(params, ", "))
		fmt.Fprintf(w, "  %s\n", FormatExp(f.Body))
	}
	return nil
}

// FormatExp renders an expression as a single compact line.
func FormatExp(e *Exp) string {
	if e == nil {
		return "<exp?>"
	}
	switch d := e.Data.(type) {
	case VarData:
		return d.Name.String()
	case AppData:
		out := "(" + FormatExp(d.Fn)
		for _, a := range d.Args {
			out += " " + FormatExp(a)
		}
		return out + ")"
	case LamData:
		params := make([]string, len(d.Params))
		for i, p := range d.Params {
			params[i] = p.String()
		}
		return fmt.Sprintf("(\\%s -> %s)", strings.Join(params, " "), FormatExp(d.Body))
	case LetData:
		return fmt.Sprintf("(let %s = %s in %s)", d.Name.String(), FormatExp(d.Value), FormatExp(d.Body))
	case ConData:
		out := fmt.Sprintf("(con %s/%d", d.Con.String(), d.Tag)
		for _, a := range d.Args {
			out += " " + FormatExp(a)
		}
		return out + ")"
	case PrjData:
		return fmt.Sprintf("(prj %s %d)", FormatExp(d.Exp), d.Field)
	case OpData:
		out := "(" + d.Op.String()
		for _, a := range d.Args {
			out += " " + FormatExp(a)
		}
		return out + ")"
	case ForeignData:
		out := fmt.Sprintf("(foreign %s %q", d.Ret, d.Target)
		for _, a := range d.Args {
			out += fmt.Sprintf(" (%s %s)", a.Type, FormatExp(a.Exp))
		}
		return out + ")"
	case ConstData:
		return d.Value.String()
	case CaseData:
		out := "(case " + FormatExp(d.Subject)
		for _, a := range d.Alts {
			out += " " + formatAlt(a)
		}
		return out + ")"
	case LazyData:
		return "(lazy " + FormatExp(d.Exp) + ")"
	case ForceData:
		return "(force " + FormatExp(d.Exp) + ")"
	case CrashData:
		return fmt.Sprintf("(crash %q)", d.Message)
	case nil:
		if e.Kind == ExpErased {
			return "erased"
		}
		return "<exp?>"
	default:
		return "<exp?>"
	}
}

func formatAlt(a *Alt) string {
	if a == nil {
		return "[<alt?>]"
	}
	switch d := a.Data.(type) {
	case ConAltData:
		head := fmt.Sprintf("%s/%d", d.Con.String(), d.Tag)
		for _, b := range d.Binders {
			head += " " + b.String()
		}
		return fmt.Sprintf("[%s -> %s]", head, FormatExp(d.Body))
	case ConstAltData:
		return fmt.Sprintf("[%s -> %s]", d.Value.String(), FormatExp(d.Body))
	case DefaultAltData:
		return fmt.Sprintf("[_ -> %s]", FormatExp(d.Body))
	default:
		return "[<alt?>]"
	}
}
