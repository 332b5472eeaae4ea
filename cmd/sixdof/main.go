// cmd/sixdof/main.go
// Copyright(c) 2022-2025 sixdof contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// sixdof runs flight-dynamics sessions from the command line and writes
// their flight logs for analysis.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/apenwarr/fixconsole"
	"github.com/goforj/godump"

	"github.com/flightdyn/sixdof/aviation"
	"github.com/flightdyn/sixdof/fdm"
	"github.com/flightdyn/sixdof/log"
	"github.com/flightdyn/sixdof/math"
	"github.com/flightdyn/sixdof/sim"
	"github.com/flightdyn/sixdof/util"
)

var (
	aircraftName = flag.String("aircraft", "navion", "built-in aircraft name or path to an aircraft JSON file")
	configFile   = flag.String("config", "", "JSON run configuration")
	dt           = flag.Float64("dt", 0, "integration step in seconds (overrides the configuration)")
	duration     = flag.Float64("duration", 0, "length of the run in seconds (overrides the configuration)")
	realtime     = flag.Bool("realtime", false, "pace the run to wall-clock time")
	continuous   = flag.Bool("continuous", false, "run until interrupted")
	doublet      = flag.String("doublet", "", "scripted doublet, channel:start:duration:amplitude (e.g. elevator:1:0.5:0.02)")
	singlet      = flag.String("singlet", "", "scripted singlet, channel:start:duration:amplitude")
	output       = flag.String("o", "", "write the flight log to this file (.csv, .jsonl, or .msgpack.zst)")
	batch        = flag.String("batch", "", "comma-separated run configurations to run concurrently")
	dump         = flag.Bool("dump", false, "print the aircraft and trim solution before running")
	listAircraft = flag.Bool("list", false, "list the built-in aircraft")
	logLevel     = flag.String("loglevel", "info", "logging level: debug, info, warn, error")
	logDir       = flag.String("logdir", "", "log file directory")
	cpuprofile   = flag.String("cpuprofile", "", "write CPU profile to file")
	memprofile   = flag.String("memprofile", "", "write memory profile to this file")
)

func main() {
	flag.Parse()

	if err := fixconsole.FixConsoleIfNeeded(); err != nil {
		fmt.Printf("FixConsole: %v\n", err)
	}

	lg := log.New(*logLevel, *logDir)
	defer lg.CatchAndReportCrash()

	if *listAircraft {
		for _, name := range aviation.BuiltinAircraftNames() {
			fmt.Println(name)
		}
		return
	}

	profiler, err := util.CreateProfiler(*cpuprofile, *memprofile, lg)
	if err != nil {
		lg.Errorf("%v", err)
	}

	// Interrupting a run cancels it; the log recorded so far is still
	// written out.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err = run(ctx, lg)

	stop()
	profiler.Cleanup()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		lg.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, lg *log.Logger) error {
	ac, err := aviation.LoadAircraft(*aircraftName)
	if err != nil {
		return err
	}
	if *dump {
		fmt.Println(godump.DumpStr(ac))
	}

	if *batch != "" {
		return runBatch(ctx, ac, strings.Split(*batch, ","), *output, lg)
	}

	cfg, err := buildConfig(*configFile)
	if err != nil {
		return err
	}
	return runSession(ctx, ac, cfg, *output, lg)
}

// buildConfig loads the run configuration, if any, and applies the
// command-line overrides.
func buildConfig(fn string) (sim.Config, error) {
	cfg := sim.DefaultConfig()
	if fn != "" {
		var err error
		if cfg, err = sim.LoadConfigFile(fn); err != nil {
			return sim.Config{}, err
		}
	}

	if *dt > 0 {
		cfg.DT = *dt
	}
	if *duration > 0 {
		cfg.EndTime = cfg.StartTime + *duration
	}
	if *realtime {
		cfg.Mode = sim.RealTimeMode
	}
	if *continuous {
		cfg.Continuous = true
	}
	for _, in := range []struct {
		flag string
		kind sim.InputKind
	}{{*doublet, sim.Doublet}, {*singlet, sim.Singlet}} {
		if in.flag == "" {
			continue
		}
		input, err := parseInput(in.flag, in.kind)
		if err != nil {
			return sim.Config{}, err
		}
		cfg.Inputs = append(cfg.Inputs, input)
	}

	return cfg, cfg.Check()
}

func runSession(ctx context.Context, ac aviation.Aircraft, cfg sim.Config, outFn string, lg *log.Logger) error {
	s, err := sim.NewSession(ac, cfg, sim.WithLogger(lg))
	if err != nil {
		return err
	}
	if tr, ok := s.Trim(); ok && *dump {
		fmt.Println(godump.DumpStr(tr))
	}

	sub := s.Events().Subscribe()
	defer sub.Unsubscribe()

	runErr := s.Run(ctx)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	nerr := 0
	for _, e := range sub.Get() {
		if e.Type == sim.StepErrorEvent {
			nerr++
		}
	}
	printSummary(s, nerr)

	if outFn != "" {
		if err := writeLog(outFn, s); err != nil {
			return err
		}
		fmt.Printf("wrote %d records to %s\n", s.Log().Len(), outFn)
	}
	return nil
}

func printSummary(s *sim.Session, stepErrors int) {
	r, ok := s.Latest()
	if !ok {
		fmt.Printf("%s: no steps completed\n", s.Aircraft().Name)
		return
	}
	fmt.Printf("%s: t=%.2fs alt=%.1fft tas=%.1fft/s alpha=%.2f° beta=%.2f° phi=%.2f° theta=%.2f° psi=%.2f°",
		s.Aircraft().Name, r.Time, r.Altitude(), r.Wind.TrueAirspeed,
		math.Degrees(r.Wind.Alpha), math.Degrees(r.Wind.Beta), math.Degrees(r.State[fdm.Phi]),
		math.Degrees(r.State[fdm.Theta]), math.Degrees(r.State[fdm.Psi]))
	if stepErrors > 0 {
		fmt.Printf(" (%d failed steps)", stepErrors)
	}
	fmt.Println()
}
