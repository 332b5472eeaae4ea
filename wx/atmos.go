// wx/atmos.go
// Copyright(c) 2022-2025 sixdof contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package wx

import (
	"log/slog"
	gomath "math"

	"github.com/flightdyn/sixdof/math"
)

// 1976 U.S. Standard Atmosphere constants in imperial units (ft, slug,
// lbf, degrees Rankine).
const (
	SeaLevelTemperature = 518.67     // °R
	SeaLevelPressure    = 2116.22    // lbf/ft^2
	SeaLevelDensity     = 0.00237691 // slug/ft^3
	LapseRate           = 0.00356616 // °R/ft
	GasConstant         = 1716.49    // ft·lbf/(slug·°R)
	Gamma               = 1.4        // ratio of specific heats for air
	TropopauseAltitude  = 36089.0    // ft
	Gravity             = 32.17      // ft/s^2
)

var (
	// Exponent of the barometric power law in the troposphere.
	pressureExponent = Gravity / (LapseRate * GasConstant)

	tropopauseTemperature = SeaLevelTemperature - LapseRate*TropopauseAltitude
	tropopausePressure    = SeaLevelPressure * gomath.Pow(tropopauseTemperature/SeaLevelTemperature, pressureExponent)
	tropopauseDensity     = SeaLevelDensity * gomath.Pow(tropopauseTemperature/SeaLevelTemperature, pressureExponent-1)
)

// Atmosphere holds the properties of the air at a given altitude.
type Atmosphere struct {
	Temperature  float64 `json:"temperature"`     // °R
	Density      float64 `json:"density"`         // slug/ft^3
	Pressure     float64 `json:"static_pressure"` // lbf/ft^2
	SpeedOfSound float64 `json:"speed_of_sound"`  // ft/s
}

func (a Atmosphere) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("temperature", a.Temperature),
		slog.Float64("density", a.Density),
		slog.Float64("pressure", a.Pressure),
		slog.Float64("speed_of_sound", a.SpeedOfSound))
}

// StandardAtmosphere returns the atmospheric properties at the given
// geometric altitude in feet. Below the tropopause the temperature falls
// linearly and pressure and density follow the barometric power law;
// above it the layer is isothermal and they decay exponentially. The
// formulas are evaluated for any altitude; keeping the altitude within
// the flight envelope is the caller's business.
func StandardAtmosphere(alt float64) Atmosphere {
	var a Atmosphere
	if alt < TropopauseAltitude {
		theta := 1 - LapseRate*alt/SeaLevelTemperature
		a.Temperature = SeaLevelTemperature * theta
		a.Pressure = SeaLevelPressure * gomath.Pow(theta, pressureExponent)
		a.Density = SeaLevelDensity * gomath.Pow(theta, pressureExponent-1)
	} else {
		decay := gomath.Exp(-Gravity * (alt - TropopauseAltitude) / (GasConstant * tropopauseTemperature))
		a.Temperature = tropopauseTemperature
		a.Pressure = tropopausePressure * decay
		a.Density = tropopauseDensity * decay
	}
	a.SpeedOfSound = gomath.Sqrt(Gamma * GasConstant * a.Temperature)
	return a
}

// DensityRatio returns σ = ρ/ρ0 at the given altitude.
func DensityRatio(alt float64) float64 {
	return StandardAtmosphere(alt).Density / SeaLevelDensity
}

// GravityVector returns the gravitational acceleration in the NED frame.
// The model assumes a flat Earth with constant gravity for the whole run.
func GravityVector() math.Vec3 {
	return math.Vec3{0, 0, Gravity}
}
