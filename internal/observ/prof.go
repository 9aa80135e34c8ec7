package observ

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	rtrace "runtime/trace"
)

// ProfileConfig names the output files for the run-wide profilers. An
// empty path leaves the corresponding profiler off.
type ProfileConfig struct {
	CPUPath   string
	MemPath   string
	TracePath string
}

// Profile owns the profilers started for one run. The zero value is
// inert; Stop is safe to call more than once.
type Profile struct {
	cpu     *os.File
	trace   *os.File
	memPath string
	stopped bool
}

// StartProfile enables the profilers selected by cfg. On error every
// already-started profiler is wound back down.
func StartProfile(cfg ProfileConfig) (*Profile, error) {
	p := &Profile{memPath: cfg.MemPath}
	if cfg.CPUPath != "" {
		f, err := os.Create(cfg.CPUPath)
		if err != nil {
			return nil, fmt.Errorf("observ: create cpu profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("observ: start cpu profile: %w", err)
		}
		p.cpu = f
	}
	if cfg.TracePath != "" {
		f, err := os.Create(cfg.TracePath)
		if err != nil {
			p.stopCPU()
			return nil, fmt.Errorf("observ: create runtime trace: %w", err)
		}
		if err := rtrace.Start(f); err != nil {
			_ = f.Close()
			p.stopCPU()
			return nil, fmt.Errorf("observ: start runtime trace: %w", err)
		}
		p.trace = f
	}
	return p, nil
}

// Stop flushes and closes every active profiler. The heap profile is
// written last so it sees the run's final allocation state.
func (p *Profile) Stop() error {
	if p == nil || p.stopped {
		return nil
	}
	p.stopped = true

	var firstErr error
	if p.trace != nil {
		rtrace.Stop()
		if err := p.trace.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("observ: close runtime trace: %w", err)
		}
		p.trace = nil
	}
	p.stopCPU()
	if p.memPath != "" {
		if err := writeHeapProfile(p.memPath); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (p *Profile) stopCPU() {
	if p.cpu == nil {
		return
	}
	pprof.StopCPUProfile()
	_ = p.cpu.Close()
	p.cpu = nil
}

func writeHeapProfile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("observ: create heap profile: %w", err)
	}
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("observ: write heap profile: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("observ: close heap profile: %w", err)
	}
	return nil
}
