// Package driver orchestrates the lowering pipeline: load a typed-core
// snapshot, lower every definition in parallel, collect diagnostics,
// and persist the lowered program. Definitions are independent, so the
// driver farms them out to a bounded worker pool and never lets one
// failure hide another.
package driver

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"tarn/internal/analysis"
	"tarn/internal/core"
	"tarn/internal/diag"
	"tarn/internal/ir"
	"tarn/internal/lower"
	"tarn/internal/observ"
)

// Options configure a lowering run.
type Options struct {
	// Jobs caps the worker count; zero or negative means GOMAXPROCS.
	Jobs int
	// MaxDiagnostics caps the collected bag; zero or negative picks a
	// default.
	MaxDiagnostics int
	// Timer, when set, records the run's phases.
	Timer *observ.Timer
	// Observe, when set, is called after each definition completes. It
	// may be called from several workers at once.
	Observe Observer
}

// Result is the outcome of lowering one program.
type Result struct {
	// Program holds the declarations that lowered cleanly. When Failed
	// reports true it is incomplete and must not be persisted.
	Program *ir.Program
	// Bag holds every diagnostic the run produced, in definition order
	// after Sort.
	Bag *diag.Bag
}

// Failed reports whether any definition was refused or tripped an
// internal check.
func (r *Result) Failed() bool {
	return r == nil || r.Bag == nil || r.Bag.HasErrors() || r.Bag.HasBugs()
}

// Lower lowers every definition of prog against facts. Definitions fail
// independently: a diagnostic in one does not stop the others, and all
// of them end up in the result bag. The returned error reports only
// infrastructure failures such as cancellation; refusal to lower is
// reported through the bag.
func Lower(ctx context.Context, prog *core.Program, facts *analysis.Facts, opts Options) (*Result, error) {
	order := prog.Names()

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	maxDiag := opts.MaxDiagnostics
	if maxDiag <= 0 {
		maxDiag = 256
	}

	// Warnings stream in from all workers at once; refusals travel as
	// errors and land in per-definition slots instead.
	warns := diag.NewBag(maxDiag)
	l := lower.New(prog, facts).
		ReportTo(diag.NewLockedReporter(diag.NewDedupReporter(diag.BagReporter{Bag: warns})))

	var phase int
	if opts.Timer != nil {
		phase = opts.Timer.Begin("lower")
	}

	// Per-definition slots: index i belongs to exactly one worker, so
	// no locking is needed around the result arrays.
	decls := make([]*ir.Decl, len(order))
	fails := make([]*diag.Diagnostic, len(order))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, max(len(order), 1)))
	for i, name := range order {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			decl, err := l.Def(prog.Def(name))
			switch {
			case err != nil:
				d, ok := diag.FromError(err)
				if !ok {
					return fmt.Errorf("driver: lower %s: %w", name, err)
				}
				fails[i] = d
			default:
				decls[i] = decl
			}
			if opts.Observe != nil {
				opts.Observe(Event{Name: name, Index: i, Total: len(order), Failed: fails[i] != nil})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Refusals go into the bag first: when the cap bites, warnings are
	// what gets dropped.
	bag := diag.NewBag(maxDiag)
	for _, d := range fails {
		bag.Add(d)
	}
	for _, d := range warns.Items() {
		bag.Add(d)
	}
	out := ir.NewProgram()
	lowered := 0
	for _, d := range decls {
		if d != nil {
			out.Add(d)
			lowered++
		}
	}
	if opts.Timer != nil {
		opts.Timer.End(phase, fmt.Sprintf("%d of %d defs", lowered, len(order)))
	}
	bag.Sort()
	return &Result{Program: out, Bag: bag}, nil
}
