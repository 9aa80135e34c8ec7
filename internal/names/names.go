// Package names defines the global and local identifiers used across the
// lowering pipeline. Names are plain comparable values so they can key maps
// and analysis records directly; equality is exact match, never fuzzy.
package names

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Name is a fully qualified, disambiguated identifier: a function, a
// constructor, or a synthetic binding introduced by the compiler.
//
// Space is the dot-separated namespace ("" for locals and root names).
// Gen disambiguates machine-generated names; user-written names have Gen 0.
type Name struct {
	Space string
	Ident string
	Gen   uint32
}

// New returns the global name Space.Ident. Both parts are normalized to
// NFC so that equality does not depend on how the front end spelled them.
func New(space, ident string) Name {
	return Name{Space: norm.NFC.String(space), Ident: norm.NFC.String(ident)}
}

// Local returns a namespace-less name, as used for binders and other
// definition-local identifiers.
func Local(ident string) Name {
	return Name{Ident: norm.NFC.String(ident)}
}

// WithGen returns a copy of n carrying the given generation counter.
func (n Name) WithGen(gen uint32) Name {
	n.Gen = gen
	return n
}

// IsGenerated reports whether n was produced by the compiler rather than
// written by the user.
func (n Name) IsGenerated() bool { return n.Gen != 0 }

// IsZero reports whether n is the zero Name.
func (n Name) IsZero() bool { return n == Name{} }

// Field derives the identity of field idx of constructor con. For
// instance/class value constructors this is the name under which the
// analysis records the projected method's usage and arity.
func Field(con Name, idx int) Name {
	return Name{Space: con.Space, Ident: con.Ident + "#" + strconv.Itoa(idx), Gen: con.Gen}
}

// String renders n for dumps and diagnostics: Space.Ident, with a $Gen
// suffix on generated names.
func (n Name) String() string {
	var b strings.Builder
	b.Grow(len(n.Space) + len(n.Ident) + 4)
	if n.Space != "" {
		b.WriteString(n.Space)
		b.WriteByte('.')
	}
	b.WriteString(n.Ident)
	if n.Gen != 0 {
		b.WriteByte('$')
		b.WriteString(strconv.FormatUint(uint64(n.Gen), 10))
	}
	return b.String()
}

// Compare orders names by namespace, then identifier, then generation.
// It is the sort order of every deterministic listing in this module.
func Compare(a, b Name) int {
	if c := strings.Compare(a.Space, b.Space); c != 0 {
		return c
	}
	if c := strings.Compare(a.Ident, b.Ident); c != 0 {
		return c
	}
	switch {
	case a.Gen < b.Gen:
		return -1
	case a.Gen > b.Gen:
		return 1
	default:
		return 0
	}
}
