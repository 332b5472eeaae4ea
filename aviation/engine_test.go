// aviation/engine_test.go
// Copyright(c) 2022-2025 sixdof contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/flightdyn/sixdof/math"
	"github.com/flightdyn/sixdof/wx"
)

func testEngineSpec() EngineSpec {
	return EngineSpec{
		Number:       1,
		Kind:         FixedPitch,
		Position:     math.Vec3{5, 0, 0},
		MaxBHP:       200,
		MaxRPM:       2700,
		PropDiameter: 6.5,
	}
}

func TestStaticThrust(t *testing.T) {
	eng, err := NewEngine(testEngineSpec())
	if err != nil {
		t.Fatal(err)
	}

	c := DefaultControls()
	c.Throttle[0] = 1
	atm := wx.Atmosphere{Density: 0.002377}
	out := eng.Update(c, atm, WindParameters{})

	area := gomath.Pi * 3.25 * 3.25
	expected := gomath.Pow(200*550, 2./3.) * gomath.Pow(2*0.002377*area, 1./3.)
	if gomath.Abs(out.Thrust[0]-expected)/expected > 0.01 {
		t.Errorf("static thrust %f, expected %f", out.Thrust[0], expected)
	}
	if out.Thrust[1] != 0 || out.Thrust[2] != 0 {
		t.Errorf("thrust not along body x: %v", out.Thrust)
	}
	if out.RPM != 2700 {
		t.Errorf("full throttle RPM %f, expected 2700", out.RPM)
	}
	if gomath.Abs(out.FuelFlow-15.7) > 1e-9 {
		t.Errorf("fuel flow %f, expected 15.7", out.FuelFlow)
	}
	if eng.Output() != out {
		t.Errorf("Output() does not match last Update")
	}
}

func TestThrustRegimes(t *testing.T) {
	spec := testEngineSpec()
	area := spec.PropDiskArea()
	rho := wx.SeaLevelDensity

	// Forward-flight thrust falls off with airspeed.
	t100 := PropellerThrust(200, rho, 100, area, 0.85, 65)
	t200 := PropellerThrust(200, rho, 200, area, 0.85, 65)
	if gomath.Abs(t100-2*t200) > 1e-9 {
		t.Errorf("forward thrust not inversely proportional to V: %f %f", t100, t200)
	}
	expected := 200 * 550 * 1.0 * 0.85 / 100
	if gomath.Abs(t100-expected) > 1e-6 {
		t.Errorf("forward thrust %f, expected %f", t100, expected)
	}

	// Static regime ignores airspeed up to the threshold.
	if PropellerThrust(200, rho, 0, area, 0.85, 65) != PropellerThrust(200, rho, 65, area, 0.85, 65) {
		t.Errorf("static thrust depends on airspeed")
	}

	// Very thin air drives the density correction negative; thrust is
	// clamped.
	if th := PropellerThrust(200, 0.0001, 150, area, 0.85, 65); th != 0 {
		t.Errorf("expected thrust clamped to zero, got %f", th)
	}
	if th := PropellerThrust(0, rho, 0, area, 0.85, 65); th != 0 {
		t.Errorf("expected zero thrust at zero power, got %f", th)
	}
}

func TestThrottleForThrust(t *testing.T) {
	spec := testEngineSpec()
	rho := wx.SeaLevelDensity
	for _, v := range []float64{0, 30, 100, 176, 250} {
		for _, thr := range []float64{0.2, 0.5, 0.9} {
			th := PropellerThrust(thr*spec.MaxBHP, rho, v, spec.PropDiskArea(), spec.efficiency(), spec.staticThreshold())
			got := ThrottleForThrust(spec, th, rho, v)
			if gomath.Abs(got-thr) > 1e-9 {
				t.Errorf("v=%f: throttle %f round-tripped to %f", v, thr, got)
			}
		}
	}
}

func TestEngineControlMapping(t *testing.T) {
	for n := 1; n <= MaxEngines; n++ {
		spec := testEngineSpec()
		spec.Number = n
		eng, err := NewEngine(spec)
		if err != nil {
			t.Fatal(err)
		}

		thrCh, _, mixCh, err := EngineChannels(n)
		if err != nil {
			t.Fatal(err)
		}
		c := DefaultControls()
		c.Set(thrCh, 1)
		c.Set(mixCh, 0.5)
		out := eng.Update(c, wx.StandardAtmosphere(0), WindParameters{})
		if out.RPM != 2700 {
			t.Errorf("engine %d: not driven by %s", n, thrCh)
		}
		if gomath.Abs(out.FuelFlow-15.7*0.5) > 1e-9 {
			t.Errorf("engine %d: not driven by %s", n, mixCh)
		}

		// Other engines' throttles have no effect.
		c = DefaultControls()
		for m := 1; m <= MaxEngines; m++ {
			if m != n {
				c.Throttle[m-1] = 1
			}
		}
		if out := eng.Update(c, wx.StandardAtmosphere(0), WindParameters{}); out.RPM != 500 {
			t.Errorf("engine %d: RPM %f driven by another engine's throttle", n, out.RPM)
		}
	}

	for _, n := range []int{0, 5, -1} {
		if _, _, _, err := EngineChannels(n); !errors.Is(err, ErrInvalidEngineNumber) {
			t.Errorf("engine %d: expected ErrInvalidEngineNumber, got %v", n, err)
		}
	}
}

func TestEngineMoment(t *testing.T) {
	spec := testEngineSpec()
	spec.Position = math.Vec3{2, 6, 0}
	eng, _ := NewEngine(spec)
	c := DefaultControls()
	c.Throttle[0] = 1
	out := eng.Update(c, wx.StandardAtmosphere(0), WindParameters{TrueAirspeed: 150})

	// A right-wing engine yaws the nose left.
	if out.Moment[2] >= 0 {
		t.Errorf("expected negative yaw moment from right engine, got %v", out.Moment)
	}
	if gomath.Abs(out.Moment[2]+6*out.Thrust[0]) > 1e-9 {
		t.Errorf("yaw moment %f, expected %f", out.Moment[2], -6*out.Thrust[0])
	}

	// Same moment written as thrust crossed with the engine-to-CG vector.
	alt := math.Cross3(out.Thrust, math.Scale3(spec.Position, -1))
	for i := range 3 {
		if gomath.Abs(alt[i]-out.Moment[i]) > 1e-9 {
			t.Errorf("moment[%d] %f, expected %f", i, out.Moment[i], alt[i])
		}
	}
}

func TestUnimplementedEngineKinds(t *testing.T) {
	for _, kind := range []EngineKind{ConstantSpeed, Turboprop, Jet, Electric, "warp"} {
		spec := testEngineSpec()
		spec.Kind = kind
		if _, err := NewEngine(spec); err == nil {
			t.Errorf("%s: expected error", kind)
		}
	}
}
