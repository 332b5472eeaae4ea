// fdm/forces.go
// Copyright(c) 2022-2025 sixdof contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package fdm

import (
	"log/slog"
	gomath "math"

	"github.com/flightdyn/sixdof/aviation"
	"github.com/flightdyn/sixdof/math"
	"github.com/flightdyn/sixdof/wx"
)

// Evaluation is everything computed while evaluating the forces acting
// on the aircraft at a single state.
type Evaluation struct {
	Wind         aviation.WindParameters `json:"wind"`
	Atmosphere   wx.Atmosphere           `json:"atmosphere"`
	Coefficients AeroCoefficients        `json:"coefficients"`
	AeroForce    math.Vec3               `json:"aero_force"`
	AeroMoment   math.Vec3               `json:"aero_moment"`
	Engines      []aviation.EngineOutput `json:"engines"`

	// Totals in body axes about the CG.
	Force  math.Vec3 `json:"force"`
	Moment math.Vec3 `json:"moment"`

	// State derivative implied by Force and Moment; set by
	// Integrator.Evaluate.
	Derivative State `json:"derivative"`
}

func (e Evaluation) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("wind", e.Wind),
		slog.Any("coefficients", e.Coefficients),
		slog.Any("force", e.Force),
		slog.Any("moment", e.Moment))
}

// Aggregate evaluates aerodynamics and every engine at state s and sums
// them into the total body force and the total moment about the CG.
// Engine outputs are stored in the engines as a side effect.
func Aggregate(ac *aviation.Aircraft, engines []aviation.Engine, s State, c aviation.Controls,
	alphaDot float64, lim Limits) Evaluation {
	var ev Evaluation
	ev.Atmosphere = wx.StandardAtmosphere(s.Altitude())
	ev.Wind = WindParametersFromBody(s.Velocity(), lim)

	ev.Coefficients = ComputeAeroCoefficients(ac.Derivatives, ac.Wing, c, ev.Wind, s.Rates(), alphaDot)
	qbar := DynamicPressure(ev.Atmosphere.Density, ev.Wind.TrueAirspeed)
	ev.AeroForce, ev.AeroMoment = AeroForces(ev.Coefficients, qbar, ac.Wing, ev.Wind)

	// Aerodynamic force acts at the reference point, offset from the CG.
	ev.Force = ev.AeroForce
	ev.Moment = math.Add3(ev.AeroMoment, math.Cross3(ac.Wing.ACOffset, ev.AeroForce))

	ev.Engines = make([]aviation.EngineOutput, len(engines))
	for i, eng := range engines {
		out := eng.Update(c, ev.Atmosphere, ev.Wind)
		ev.Engines[i] = out
		ev.Force = math.Add3(ev.Force, out.Thrust)
		ev.Moment = math.Add3(ev.Moment, out.Moment)
	}

	ev.Moment = ClampMoment(ev.Moment, lim)
	return ev
}

// Dynamics returns the state derivative for the given total body force
// and moment: translational and rotational rigid-body dynamics, the
// navigation equation, and Euler kinematics.
func Dynamics(s State, force, moment math.Vec3, mass float64, ic InertiaCoefficients, lim Limits) State {
	u, v, w := s[U], s[V], s[W]
	p, q, r := s[P], s[Q], s[R]

	cnb := Body2NED(s[Phi], s[Theta], s[Psi])
	gBody := math.TransformTranspose(cnb, wx.GravityVector())

	var d State
	d[U] = r*v - q*w + gBody[0] + force[0]/mass
	d[V] = p*w - r*u + gBody[1] + force[1]/mass
	d[W] = q*u - p*v + gBody[2] + force[2]/mass

	ned := math.Transform(cnb, s.Velocity())
	d[North], d[East], d[Down] = ned[0], ned[1], ned[2]

	ek := EulerRates(s[Phi], s[Theta], p, q, r)
	d[Phi], d[Theta], d[Psi] = ek[0], ek[1], ek[2]

	pqr := ic.AngularAcceleration(s.Rates(), moment)
	d[P], d[Q], d[R] = pqr[0], pqr[1], pqr[2]

	return ClampDerivative(d, lim)
}

// EulerRates returns (φ̇, θ̇, ψ̇) for the given attitude and body rates.
// θ must be kept away from ±π/2.
func EulerRates(phi, theta, p, q, r float64) math.Vec3 {
	sphi, cphi := gomath.Sincos(phi)
	sth, cth := gomath.Sincos(theta)
	tth := sth / cth
	return math.Vec3{
		p + tth*(q*sphi+r*cphi),
		q*cphi - r*sphi,
		(q*sphi + r*cphi) / cth,
	}
}

// AlphaDot returns the rate of change of angle of attack implied by the
// body velocity and its derivative.
func AlphaDot(s, d State) float64 {
	u, w := s[U], s[W]
	den := u*u + w*w
	if den == 0 {
		return 0
	}
	return (u*d[W] - w*d[U]) / den
}
