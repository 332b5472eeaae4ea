// wx/atmos_test.go
// Copyright(c) 2022-2025 sixdof contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package wx

import (
	"math"
	"testing"
)

func TestSeaLevel(t *testing.T) {
	a := StandardAtmosphere(0)
	if a.Temperature != SeaLevelTemperature {
		t.Errorf("sea level temperature %f, expected %f", a.Temperature, SeaLevelTemperature)
	}
	if math.Abs(a.Pressure-SeaLevelPressure) > 1e-9 {
		t.Errorf("sea level pressure %f, expected %f", a.Pressure, SeaLevelPressure)
	}
	if math.Abs(a.Density-SeaLevelDensity) > 1e-12 {
		t.Errorf("sea level density %f, expected %f", a.Density, SeaLevelDensity)
	}
	// ~1116 ft/s at sea level
	if math.Abs(a.SpeedOfSound-1116.4) > 1 {
		t.Errorf("sea level speed of sound %f, expected ~1116.4", a.SpeedOfSound)
	}
}

func TestReferenceAltitudes(t *testing.T) {
	testCases := []struct {
		alt         float64
		temperature float64
		pressure    float64
		density     float64
	}{
		// Values from standard atmosphere tables.
		{10000, 483.01, 1455.6, 0.0017556},
		{30000, 411.69, 629.66, 0.00089068},
		{50000, 389.97, 243.6, 0.00036392},
	}

	for _, tc := range testCases {
		a := StandardAtmosphere(tc.alt)
		if math.Abs(a.Temperature-tc.temperature) > 0.1 {
			t.Errorf("%.0f ft: temperature %f, expected %f", tc.alt, a.Temperature, tc.temperature)
		}
		if math.Abs(a.Pressure-tc.pressure)/tc.pressure > 0.01 {
			t.Errorf("%.0f ft: pressure %f, expected %f", tc.alt, a.Pressure, tc.pressure)
		}
		if math.Abs(a.Density-tc.density)/tc.density > 0.01 {
			t.Errorf("%.0f ft: density %f, expected %f", tc.alt, a.Density, tc.density)
		}
	}
}

func TestMonotonicity(t *testing.T) {
	prev := StandardAtmosphere(0)
	for alt := 250.0; alt <= 100000; alt += 250 {
		a := StandardAtmosphere(alt)
		if a.Density >= prev.Density {
			t.Errorf("density not strictly decreasing at %.0f ft: %g >= %g", alt, a.Density, prev.Density)
		}
		if a.Pressure >= prev.Pressure {
			t.Errorf("pressure not strictly decreasing at %.0f ft: %g >= %g", alt, a.Pressure, prev.Pressure)
		}
		if alt <= TropopauseAltitude {
			if a.Temperature > prev.Temperature {
				t.Errorf("temperature increasing at %.0f ft", alt)
			}
		} else if a.Temperature != tropopauseTemperature {
			t.Errorf("temperature %f at %.0f ft, expected isothermal %f", a.Temperature, alt, tropopauseTemperature)
		}
		prev = a
	}
}

func TestTropopauseContinuity(t *testing.T) {
	below := StandardAtmosphere(TropopauseAltitude - 1e-6)
	above := StandardAtmosphere(TropopauseAltitude)
	if math.Abs(below.Pressure-above.Pressure)/above.Pressure > 1e-6 {
		t.Errorf("pressure discontinuity at tropopause: %f vs %f", below.Pressure, above.Pressure)
	}
	if math.Abs(below.Density-above.Density)/above.Density > 1e-6 {
		t.Errorf("density discontinuity at tropopause: %g vs %g", below.Density, above.Density)
	}
}

func TestGravity(t *testing.T) {
	g := GravityVector()
	if g[0] != 0 || g[1] != 0 || g[2] != 32.17 {
		t.Errorf("unexpected gravity vector %v", g)
	}
}

func TestDensityRatio(t *testing.T) {
	if s := DensityRatio(0); math.Abs(s-1) > 1e-12 {
		t.Errorf("sea level density ratio %f, expected 1", s)
	}
	// Standard tables give σ = 0.8617 at 5000 ft and 0.7385 at 10000 ft.
	for _, tc := range []struct{ alt, sigma float64 }{{5000, 0.8617}, {10000, 0.7385}} {
		if s := DensityRatio(tc.alt); math.Abs(s-tc.sigma) > 2e-3 {
			t.Errorf("density ratio at %.0f ft: %f, expected %f", tc.alt, s, tc.sigma)
		}
	}
}
