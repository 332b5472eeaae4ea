// sim/pacer.go
// Copyright(c) 2022-2025 sixdof contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer decides how much wall-clock time passes between steps. Simulated
// time always advances by exactly dt per step regardless of the pacer.
type Pacer interface {
	Wait(ctx context.Context) error
}

// AnalysisPacer never waits.
type AnalysisPacer struct{}

func (AnalysisPacer) Wait(ctx context.Context) error { return nil }

// RealTimePacer releases one step per dt of wall-clock time.
type RealTimePacer struct {
	limiter *rate.Limiter
}

func NewRealTimePacer(dt float64) *RealTimePacer {
	interval := time.Duration(dt * float64(time.Second))
	return &RealTimePacer{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

func (p *RealTimePacer) Wait(ctx context.Context) error {
	err := p.limiter.Wait(ctx)
	if err != nil && ctx.Err() == nil {
		if _, ok := ctx.Deadline(); ok {
			// The limiter refuses up front to wait past the context's
			// deadline; there's nothing to do but wait for it.
			<-ctx.Done()
			return ctx.Err()
		}
	}
	return err
}

// NewPacer returns the pacer for the given run mode.
func NewPacer(mode RunMode, dt float64) Pacer {
	if mode == RealTimeMode {
		return NewRealTimePacer(dt)
	}
	return AnalysisPacer{}
}
