// fdm/saturation_test.go
// Copyright(c) 2022-2025 sixdof contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package fdm

import (
	gomath "math"
	"math/rand/v2"
	"testing"

	"github.com/flightdyn/sixdof/aviation"
	"github.com/flightdyn/sixdof/util"
)

func TestClampStateIdempotent(t *testing.T) {
	lim := DefaultLimits()
	r := rand.New(rand.NewPCG(5, 6))
	for range 10000 {
		var s State
		for i := range s {
			// Mostly out of range; occasionally exact boundary values.
			switch r.IntN(10) {
			case 0:
				s[i] = 0
			case 1:
				s[i] = gomath.Pi
			case 2:
				s[i] = -gomath.Pi / 2
			default:
				s[i] = (r.Float64()*2 - 1) * 1e6
			}
		}

		once := ClampState(s, lim)
		if twice := ClampState(once, lim); twice != once {
			t.Fatalf("ClampState not idempotent:\n%v\n%v", once, twice)
		}

		if once[U] < 0.5 || once[U] > 1000 || gomath.Abs(once[V]) > 1000 || gomath.Abs(once[W]) > 1000 {
			t.Fatalf("velocity out of bounds: %v", once)
		}
		if once[Phi] < -gomath.Pi || once[Phi] >= gomath.Pi || once[Psi] < 0 || once[Psi] >= 2*gomath.Pi {
			t.Fatalf("angles not wrapped: %v", once)
		}
		if gomath.Abs(once[Theta]) >= gomath.Pi/2 {
			t.Fatalf("theta reached gimbal lock: %v", once)
		}
		if once.Altitude() < 0 || once.Altitude() > 100000 {
			t.Fatalf("altitude out of bounds: %v", once)
		}
		for _, i := range []int{P, Q, R} {
			if gomath.Abs(once[i]) > 10 {
				t.Fatalf("rates out of bounds: %v", once)
			}
		}

		d := ClampDerivative(s, lim)
		if ClampDerivative(d, lim) != d {
			t.Fatalf("ClampDerivative not idempotent")
		}

		w := aviation.WindParameters{TrueAirspeed: s[0], Alpha: s[1], Beta: s[2]}
		cw := ClampWind(w, lim)
		if ClampWind(cw, lim) != cw {
			t.Fatalf("ClampWind not idempotent")
		}
	}
}

func TestClampStateInRange(t *testing.T) {
	// States already inside the envelope are untouched.
	s := State{150, -3, 4, 1000, -2000, -5000, 0.1, -0.2, 3, 0.01, -0.02, 0.03}
	if c := ClampState(s, DefaultLimits()); c != s {
		t.Errorf("in-range state modified: %v -> %v", s, c)
	}
}

func TestLimitsValidate(t *testing.T) {
	var e util.ErrorLogger
	DefaultLimits().Validate(&e)
	if e.HaveErrors() {
		t.Errorf("default limits invalid: %s", e.String())
	}

	lim := DefaultLimits()
	lim.MinU = 2000
	lim.MaxRate = 0
	lim.ThetaMargin = 2
	e = util.ErrorLogger{}
	lim.Validate(&e)
	if len(e.Errors()) != 3 {
		t.Errorf("expected 3 errors, got %q", e.Errors())
	}
}
