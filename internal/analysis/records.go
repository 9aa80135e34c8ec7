package analysis

import (
	"sort"

	"github.com/hashicorp/go-set/v3"

	"tarn/internal/names"
)

// Usage records which argument or field positions of a name are read at
// run time. The zero Usage means the analysis recorded nothing for the
// name, which is distinct from a written record with no positions:
// Known separates "no record" from "explicitly zero positions used".
type Usage struct {
	Known     bool
	Positions *set.Set[int]
	Reasons   map[int][]string
}

// UsageOf builds a known usage record over the given positions. Handy for
// drivers and tests populating a store by hand.
func UsageOf(positions ...int) Usage {
	u := Usage{Known: true, Positions: set.New[int](len(positions))}
	u.Positions.InsertSlice(positions)
	return u
}

// Mark returns u with pos added to the used set, tagged with the given
// reasons. Intended for use with Store.Modify.
func (u Usage) Mark(pos int, reasons ...string) Usage {
	u.Known = true
	if u.Positions == nil {
		u.Positions = set.New[int](1)
	}
	u.Positions.Insert(pos)
	if len(reasons) > 0 {
		if u.Reasons == nil {
			u.Reasons = make(map[int][]string)
		}
		u.Reasons[pos] = append(u.Reasons[pos], reasons...)
	}
	return u
}

// Uses reports whether position i is in the used set.
func (u Usage) Uses(i int) bool {
	return u.Positions != nil && u.Positions.Contains(i)
}

// Kept returns the used positions below arity, ascending. This is the
// retained-position list shared by construction-side and match-side
// lowering; both must see the identical set and order.
func (u Usage) Kept(arity int) []int {
	if u.Positions == nil {
		return nil
	}
	kept := make([]int, 0, u.Positions.Size())
	for i := 0; i < arity; i++ {
		if u.Positions.Contains(i) {
			kept = append(kept, i)
		}
	}
	return kept
}

// Opt is the per-name optimisation record. Detaggable marks a family
// with a single run-time representation (no discriminant tag needed);
// Inaccessible lists structurally inaccessible positions. The zero Opt
// means no optimisation opportunity.
type Opt struct {
	Detaggable   bool
	Inaccessible *set.Set[int]
}

// Facts bundles the two analysis stores threaded through the pipeline.
// There is no process-global instance; the driver owns one and passes it
// down explicitly.
type Facts struct {
	Usage *Store[names.Name, Usage]
	Opt   *Store[names.Name, Opt]
}

// NewFacts returns empty analysis stores with zero-value defaults.
func NewFacts() *Facts {
	return &Facts{
		Usage: NewStore[names.Name, Usage](nil),
		Opt:   NewStore[names.Name, Opt](nil),
	}
}

// sortedPositions renders a position set as an ascending slice.
func sortedPositions(s *set.Set[int]) []int {
	if s == nil {
		return nil
	}
	out := s.Slice()
	sort.Ints(out)
	return out
}
