// fdm/saturation.go
// Copyright(c) 2022-2025 sixdof contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package fdm

import (
	gomath "math"

	"github.com/flightdyn/sixdof/aviation"
	"github.com/flightdyn/sixdof/math"
	"github.com/flightdyn/sixdof/util"
)

// Limits is the envelope that keeps the integration numerically well
// behaved. The values are not physical; they are guard rails.
type Limits struct {
	MinU            float64 `json:"min_u"`             // ft/s
	MaxU            float64 `json:"max_u"`             // ft/s
	MaxVW           float64 `json:"max_vw"`            // |v|,|w| ft/s
	MaxRate         float64 `json:"max_rate"`          // |p|,|q|,|r| rad/s
	ThetaMargin     float64 `json:"theta_margin"`      // θ stays this far from ±π/2
	MinAltitude     float64 `json:"min_altitude"`      // ft
	MaxAltitude     float64 `json:"max_altitude"`      // ft
	MaxAcceleration float64 `json:"max_acceleration"`  // per axis, ft/s^2
	MaxAngularAccel float64 `json:"max_angular_accel"` // per axis, rad/s^2
	MaxMoment       float64 `json:"max_moment"`        // per axis, ft·lbf

	MinAirspeed float64 `json:"min_airspeed"` // ft/s
	MaxBeta     float64 `json:"max_beta"`     // rad
	MaxAlpha    float64 `json:"max_alpha"`    // rad
}

func DefaultLimits() Limits {
	return Limits{
		MinU:            0.5,
		MaxU:            1000,
		MaxVW:           1000,
		MaxRate:         10,
		ThetaMargin:     1e-3,
		MinAltitude:     0,
		MaxAltitude:     100000,
		MaxAcceleration: 1000,
		MaxAngularAccel: 1000,
		MaxMoment:       1e7,

		MinAirspeed: 0.5,
		MaxBeta:     gomath.Pi / 4,
		MaxAlpha:    gomath.Pi / 16,
	}
}

func (l Limits) Validate(e *util.ErrorLogger) {
	e.Push("limits")
	defer e.Pop()

	for _, v := range []struct {
		name string
		v    float64
	}{
		{"max_u", l.MaxU}, {"max_vw", l.MaxVW}, {"max_rate", l.MaxRate},
		{"theta_margin", l.ThetaMargin}, {"max_acceleration", l.MaxAcceleration},
		{"max_angular_accel", l.MaxAngularAccel}, {"max_moment", l.MaxMoment},
		{"min_airspeed", l.MinAirspeed}, {"max_beta", l.MaxBeta}, {"max_alpha", l.MaxAlpha},
	} {
		if !(v.v > 0) {
			e.ErrorString("%q must be positive", v.name)
		}
	}
	if l.MinU < 0 || l.MinU >= l.MaxU {
		e.ErrorString("\"min_u\" must be in [0, max_u)")
	}
	if l.MinAltitude >= l.MaxAltitude {
		e.ErrorString("\"min_altitude\" must be less than \"max_altitude\"")
	}
	if l.ThetaMargin >= gomath.Pi/2 {
		e.ErrorString("\"theta_margin\" must be less than π/2")
	}
}

// ClampState bounds velocities and rates, wraps φ to [-π,π) and ψ to
// [0,2π), keeps θ off the ±π/2 singularity, and keeps altitude inside
// the limits. Applying it twice gives the same result as applying it once.
func ClampState(s State, l Limits) State {
	s[U] = math.Clamp(s[U], l.MinU, l.MaxU)
	s[V] = math.ClampSymmetric(s[V], l.MaxVW)
	s[W] = math.ClampSymmetric(s[W], l.MaxVW)

	s[Down] = math.Clamp(s[Down], -l.MaxAltitude, -l.MinAltitude)

	s[Phi] = math.WrapPi(s[Phi])
	s[Theta] = math.ClampSymmetric(s[Theta], gomath.Pi/2-l.ThetaMargin)
	s[Psi] = math.Wrap2Pi(s[Psi])

	s[P] = math.ClampSymmetric(s[P], l.MaxRate)
	s[Q] = math.ClampSymmetric(s[Q], l.MaxRate)
	s[R] = math.ClampSymmetric(s[R], l.MaxRate)
	return s
}

// ClampDerivative caps the linear and angular accelerations in a state
// derivative.
func ClampDerivative(d State, l Limits) State {
	for _, i := range []int{U, V, W} {
		d[i] = math.ClampSymmetric(d[i], l.MaxAcceleration)
	}
	for _, i := range []int{P, Q, R} {
		d[i] = math.ClampSymmetric(d[i], l.MaxAngularAccel)
	}
	return d
}

func ClampMoment(m math.Vec3, l Limits) math.Vec3 {
	return math.ClampComponents3(m, l.MaxMoment)
}

func ClampWind(w aviation.WindParameters, l Limits) aviation.WindParameters {
	w.TrueAirspeed = max(w.TrueAirspeed, l.MinAirspeed)
	w.Beta = math.ClampSymmetric(w.Beta, l.MaxBeta)
	w.Alpha = math.ClampSymmetric(w.Alpha, l.MaxAlpha)
	return w
}
