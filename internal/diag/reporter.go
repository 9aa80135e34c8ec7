package diag

import "sync"

// Reporter is the minimal contract for receiving diagnostics from
// pipeline phases. Implementations: BagReporter (collects into a Bag),
// DedupReporter (suppresses repeats before forwarding), LockedReporter
// (serializes concurrent producers).
type Reporter interface {
	Report(d *Diagnostic)
}

// BagReporter writes every diagnostic into a Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d *Diagnostic) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(d)
}

// LockedReporter serializes Report calls before forwarding, so a
// reporter chain with unguarded state can sit behind a worker pool.
type LockedReporter struct {
	mu   sync.Mutex
	next Reporter
}

// NewLockedReporter returns a Reporter that forwards to next under a
// lock.
func NewLockedReporter(next Reporter) *LockedReporter {
	return &LockedReporter{next: next}
}

func (r *LockedReporter) Report(d *Diagnostic) {
	if r == nil || r.next == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next.Report(d)
}
