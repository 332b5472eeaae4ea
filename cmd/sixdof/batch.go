// cmd/sixdof/batch.go
// Copyright(c) 2022-2025 sixdof contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/flightdyn/sixdof/aviation"
	"github.com/flightdyn/sixdof/export"
	"github.com/flightdyn/sixdof/log"
	"github.com/flightdyn/sixdof/sim"
)

// runBatch runs one session per configuration file concurrently. Each
// session's log goes to its own file, derived from outFn and the
// configuration's name.
func runBatch(ctx context.Context, ac aviation.Aircraft, configs []string, outFn string, lg *log.Logger) error {
	cfgs := make([]sim.Config, len(configs))
	for i, fn := range configs {
		var err error
		if cfgs[i], err = buildConfig(fn); err != nil {
			return err
		}
	}

	eg, ctx := errgroup.WithContext(ctx)
	for i, cfg := range cfgs {
		eg.Go(func() error {
			fn := batchOutputName(outFn, configs[i])
			slg := lg.With(slog.String("config", configs[i]))
			if err := runSession(ctx, ac, cfg, fn, slg); err != nil {
				return fmt.Errorf("%s: %w", configs[i], err)
			}
			return nil
		})
	}
	return eg.Wait()
}

// batchOutputName inserts the configuration's base name before the
// output file's extension: "out.csv" with "climb.json" gives
// "out-climb.csv".
func batchOutputName(outFn, configFn string) string {
	if outFn == "" {
		return ""
	}
	name := strings.TrimSuffix(filepath.Base(configFn), filepath.Ext(configFn))

	ext := filepath.Ext(outFn)
	if strings.HasSuffix(outFn, ".msgpack.zst") {
		ext = ".msgpack.zst"
	}
	return strings.TrimSuffix(outFn, ext) + "-" + name + ext
}

// parseInput parses a scripted input given as
// channel:start:duration:amplitude.
func parseInput(s string, kind sim.InputKind) (sim.ScriptedInput, error) {
	f := strings.Split(s, ":")
	if len(f) != 4 {
		return sim.ScriptedInput{}, fmt.Errorf("%q: expected channel:start:duration:amplitude", s)
	}

	ch, err := aviation.ParseControlChannel(f[0])
	if err != nil {
		return sim.ScriptedInput{}, err
	}
	in := sim.ScriptedInput{Channel: ch, Kind: kind}
	for i, v := range []*float64{&in.Start, &in.Duration, &in.Amplitude} {
		if *v, err = strconv.ParseFloat(f[i+1], 64); err != nil {
			return sim.ScriptedInput{}, fmt.Errorf("%q: %w", s, err)
		}
	}
	return in, nil
}

func writeLog(fn string, s *sim.Session) error {
	format, err := export.FormatForFile(fn)
	if err != nil {
		return err
	}

	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	if err := export.Write(f, format, s.Log().All()); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", fn, err)
	}
	return f.Close()
}
