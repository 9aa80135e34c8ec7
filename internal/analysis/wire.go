package analysis

import (
	"slices"

	"github.com/hashicorp/go-set/v3"

	"tarn/internal/names"
)

// WireFacts is the serialized form of Facts: name-sorted record lists,
// msgpack-friendly and byte-stable for identical inputs.
type WireFacts struct {
	Usage []WireUsage
	Opt   []WireOpt
}

// WireUsage is one serialized usage record.
type WireUsage struct {
	Name      names.Name
	Known     bool
	Positions []int
	Reasons   map[int][]string `msgpack:",omitempty"`
}

// WireOpt is one serialized optimisation record.
type WireOpt struct {
	Name         names.Name
	Detaggable   bool
	Inaccessible []int
}

// Wire converts the stores to their serialized form.
func (f *Facts) Wire() *WireFacts {
	w := &WireFacts{}
	ukeys := f.Usage.Keys()
	slices.SortFunc(ukeys, names.Compare)
	for _, n := range ukeys {
		u := f.Usage.Read(n)
		w.Usage = append(w.Usage, WireUsage{
			Name:      n,
			Known:     u.Known,
			Positions: sortedPositions(u.Positions),
			Reasons:   u.Reasons,
		})
	}
	okeys := f.Opt.Keys()
	slices.SortFunc(okeys, names.Compare)
	for _, n := range okeys {
		o := f.Opt.Read(n)
		w.Opt = append(w.Opt, WireOpt{
			Name:         n,
			Detaggable:   o.Detaggable,
			Inaccessible: sortedPositions(o.Inaccessible),
		})
	}
	return w
}

// Facts rebuilds live stores from the serialized form.
func (w *WireFacts) Facts() *Facts {
	f := NewFacts()
	for _, wu := range w.Usage {
		u := Usage{Known: wu.Known, Positions: set.New[int](len(wu.Positions)), Reasons: wu.Reasons}
		u.Positions.InsertSlice(wu.Positions)
		f.Usage.Write(wu.Name, u)
	}
	for _, wo := range w.Opt {
		o := Opt{Detaggable: wo.Detaggable}
		if len(wo.Inaccessible) > 0 {
			o.Inaccessible = set.New[int](len(wo.Inaccessible))
			o.Inaccessible.InsertSlice(wo.Inaccessible)
		}
		f.Opt.Write(wo.Name, o)
	}
	return f
}
