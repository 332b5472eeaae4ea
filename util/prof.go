// util/prof.go
// Copyright(c) 2022-2025 sixdof contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/flightdyn/sixdof/log"
)

// Profiler collects an optional CPU profile for the lifetime of the
// program and an optional heap profile at exit. Callers are responsible
// for calling Cleanup, including on interrupt, so that the profiles are
// written out.
type Profiler struct {
	cpu, mem *os.File
	lg       *log.Logger
}

func CreateProfiler(cpu, mem string, lg *log.Logger) (Profiler, error) {
	p := Profiler{lg: lg}

	var err error
	if cpu != "" {
		if p.cpu, err = os.Create(cpu); err != nil {
			return Profiler{}, fmt.Errorf("%s: unable to create CPU profile file: %w", cpu, err)
		} else if err = pprof.StartCPUProfile(p.cpu); err != nil {
			p.cpu.Close()
			return Profiler{}, fmt.Errorf("unable to start CPU profile: %w", err)
		}
		lg.Info("CPU profiling", slog.String("file", cpu))
	}

	if mem != "" {
		if p.mem, err = os.Create(mem); err != nil {
			p.Cleanup()
			return Profiler{}, fmt.Errorf("%s: unable to create memory profile file: %w", mem, err)
		}
	}

	return p, nil
}

func (p *Profiler) Cleanup() {
	if p.cpu != nil {
		pprof.StopCPUProfile()
		p.cpu.Close()
		p.cpu = nil
	}
	if p.mem != nil {
		runtime.GC() // up-to-date heap statistics
		if err := pprof.WriteHeapProfile(p.mem); err != nil {
			p.lg.Errorf("%s: unable to write memory profile file: %v", p.mem.Name(), err)
		}
		p.mem.Close()
		p.mem = nil
	}
}
