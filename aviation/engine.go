// aviation/engine.go
// Copyright(c) 2022-2025 sixdof contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"fmt"
	"log/slog"
	gomath "math"

	"github.com/flightdyn/sixdof/math"
	"github.com/flightdyn/sixdof/util"
	"github.com/flightdyn/sixdof/wx"
)

type EngineKind string

const (
	FixedPitch    EngineKind = "fixed_pitch"
	ConstantSpeed EngineKind = "constant_speed"
	Turboprop     EngineKind = "turboprop"
	Jet           EngineKind = "jet"
	Electric      EngineKind = "electric"
)

const (
	DefaultPropEfficiency        = 0.85
	DefaultStaticThrustThreshold = 65 // ft/s

	// Empirical density correction for piston engine power output.
	powerDensityA = 1.132
	powerDensityB = 0.132

	hpToFtLbfPerSec = 550
	idleRPM         = 500
	idleFuelFlow    = 0.9  // gal/hr
	fuelFlowPerThr  = 14.8 // gal/hr at full throttle
)

// EngineSpec is the static description of one engine as it appears in
// an aircraft definition.
type EngineSpec struct {
	Number int        `json:"number"`
	Kind   EngineKind `json:"kind"`
	// Position is the thrust line's point of application in ft, body
	// axes, measured from the CG to the engine. The engine moment is
	// M = Position × T, which is T × r_engine with r_engine taken from
	// the engine back to the CG.
	Position math.Vec3 `json:"position"`

	MaxBHP       float64 `json:"max_bhp"`
	MaxRPM       float64 `json:"max_rpm"`
	PropDiameter float64 `json:"prop_diameter"` // ft

	// Optional; zero selects the default.
	PropEfficiency        float64 `json:"prop_efficiency,omitempty"`
	StaticThrustThreshold float64 `json:"static_thrust_threshold,omitempty"` // ft/s
}

func (s EngineSpec) efficiency() float64 {
	return util.Select(s.PropEfficiency > 0, s.PropEfficiency, DefaultPropEfficiency)
}

func (s EngineSpec) staticThreshold() float64 {
	return util.Select(s.StaticThrustThreshold > 0, s.StaticThrustThreshold, DefaultStaticThrustThreshold)
}

// PropDiskArea returns the propeller disk area in ft^2.
func (s EngineSpec) PropDiskArea() float64 {
	return gomath.Pi * math.Sqr(s.PropDiameter/2)
}

func (s EngineSpec) Validate(e *util.ErrorLogger) {
	e.Push(fmt.Sprintf("Engine %d", s.Number))
	defer e.Pop()

	if s.Number < 1 || s.Number > MaxEngines {
		e.Error(ErrInvalidEngineNumber)
	}
	switch s.Kind {
	case FixedPitch:
	case ConstantSpeed, Turboprop, Jet, Electric:
		e.ErrorString("%q: %v", s.Kind, ErrEngineNotImplemented)
	default:
		e.ErrorString("%q: %v", s.Kind, ErrUnsupportedEngine)
	}
	if s.MaxBHP <= 0 {
		e.ErrorString("\"max_bhp\" must be positive")
	}
	if s.MaxRPM <= idleRPM {
		e.ErrorString("\"max_rpm\" must be greater than %d", idleRPM)
	}
	if s.PropDiameter <= 0 {
		e.ErrorString("\"prop_diameter\" must be positive")
	}
	if s.PropEfficiency < 0 || s.PropEfficiency > 1 {
		e.ErrorString("\"prop_efficiency\" must be in [0,1]")
	}
	if s.StaticThrustThreshold < 0 {
		e.ErrorString("\"static_thrust_threshold\" must be non-negative")
	}
	if !math.IsFinite3(s.Position) {
		e.ErrorString("\"position\" must be finite")
	}
}

// EngineOutput is the result of one engine update. Thrust and Moment are
// body-axis vectors; Moment is taken about the CG.
type EngineOutput struct {
	Number   int       `json:"number"`
	Thrust   math.Vec3 `json:"thrust"`
	Moment   math.Vec3 `json:"moment"`
	RPM      float64   `json:"rpm"`
	FuelFlow float64   `json:"fuel_flow"`
}

func (o EngineOutput) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("number", o.Number),
		slog.Float64("thrust", o.Thrust[0]),
		slog.Float64("rpm", o.RPM),
		slog.Float64("fuel_flow", o.FuelFlow))
}

type Engine interface {
	Spec() EngineSpec
	// Update computes thrust, moment, RPM, and fuel flow for the given
	// controls and flight condition and stores the result.
	Update(c Controls, atm wx.Atmosphere, wind WindParameters) EngineOutput
	// Output returns the result of the most recent Update.
	Output() EngineOutput
}

// NewEngine returns the engine model for spec; unimplemented kinds are
// reported as errors here rather than during integration.
func NewEngine(spec EngineSpec) (Engine, error) {
	var e util.ErrorLogger
	spec.Validate(&e)
	if e.HaveErrors() {
		return nil, e.Err(ErrInvalidAircraft)
	}
	return &FixedPitchEngine{spec: spec, diskArea: spec.PropDiskArea()}, nil
}

// FixedPitchEngine models a piston engine driving a fixed-pitch
// propeller using momentum theory at low speed and a constant
// propulsive efficiency above the static threshold.
type FixedPitchEngine struct {
	spec     EngineSpec
	diskArea float64
	out      EngineOutput
}

func (e *FixedPitchEngine) Spec() EngineSpec     { return e.spec }
func (e *FixedPitchEngine) Output() EngineOutput { return e.out }

func (e *FixedPitchEngine) Update(c Controls, atm wx.Atmosphere, wind WindParameters) EngineOutput {
	i := e.spec.Number - 1
	throttle := math.Clamp(c.Throttle[i], 0, 1)
	mixture := math.Clamp(c.Mixture[i], 0, 1)

	thrust := PropellerThrust(throttle*e.spec.MaxBHP, atm.Density, wind.TrueAirspeed,
		e.diskArea, e.spec.efficiency(), e.spec.staticThreshold())

	t := math.Vec3{thrust, 0, 0}
	e.out = EngineOutput{
		Number:   e.spec.Number,
		Thrust:   t,
		Moment:   math.Cross3(e.spec.Position, t),
		RPM:      idleRPM + throttle*(e.spec.MaxRPM-idleRPM),
		FuelFlow: (idleFuelFlow + throttle*fuelFlowPerThr) * mixture,
	}
	return e.out
}

// PropellerThrust returns the thrust in lbf produced by bhp brake
// horsepower at density rho (slug/ft^3) and true airspeed v (ft/s).
// Below the static threshold the momentum-theory static thrust is used.
func PropellerThrust(bhp, rho, v, diskArea, efficiency, staticThreshold float64) float64 {
	power := bhp * hpToFtLbfPerSec
	var thrust float64
	if v <= staticThreshold {
		thrust = gomath.Cbrt(power*power) * gomath.Cbrt(2*rho*diskArea)
	} else {
		thrust = power * (powerDensityA*rho/wx.SeaLevelDensity - powerDensityB) * efficiency / v
	}
	return max(0, thrust)
}

// ThrottleForThrust inverts PropellerThrust for the given engine spec,
// returning the throttle setting that produces thrust lbf. The result is
// not clamped.
func ThrottleForThrust(spec EngineSpec, thrust, rho, v float64) float64 {
	if thrust <= 0 || spec.MaxBHP <= 0 {
		return 0
	}
	full := spec.MaxBHP * hpToFtLbfPerSec
	if v <= spec.staticThreshold() {
		// thrust = P^(2/3) (2 rho A)^(1/3)
		p := gomath.Pow(thrust/gomath.Cbrt(2*rho*spec.PropDiskArea()), 1.5)
		return p / full
	}
	k := (powerDensityA*rho/wx.SeaLevelDensity - powerDensityB) * spec.efficiency() / v
	if k <= 0 {
		return gomath.Inf(1)
	}
	return thrust / (full * k)
}
