// fdm/aero.go
// Copyright(c) 2022-2025 sixdof contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package fdm

import (
	"log/slog"
	gomath "math"

	"github.com/flightdyn/sixdof/aviation"
	"github.com/flightdyn/sixdof/math"
)

// AeroCoefficients are the non-dimensional force coefficients in wind
// axes and the moment coefficients in body axes.
type AeroCoefficients struct {
	CL    float64 `json:"cl"`
	CD    float64 `json:"cd"`
	CY    float64 `json:"cy"`
	CRoll float64 `json:"croll"`
	CM    float64 `json:"cm"`
	CN    float64 `json:"cn"`
}

func (c AeroCoefficients) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("cl", c.CL), slog.Float64("cd", c.CD), slog.Float64("cy", c.CY),
		slog.Float64("croll", c.CRoll), slog.Float64("cm", c.CM), slog.Float64("cn", c.CN))
}

// ComputeAeroCoefficients evaluates the linear derivative model. rates
// are the body rates (p, q, r) and alphaDot the rate of change of angle
// of attack in rad/s.
func ComputeAeroCoefficients(d aviation.StabilityDerivatives, wing aviation.WingGeometry,
	c aviation.Controls, wind aviation.WindParameters, rates math.Vec3, alphaDot float64) AeroCoefficients {
	alpha, beta := wind.Alpha, wind.Beta
	p, q, r := rates[0], rates[1], rates[2]

	// Rotary time constants.
	tc := wing.Chord / (2 * wind.TrueAirspeed)
	tb := wing.Span / (2 * wind.TrueAirspeed)

	return AeroCoefficients{
		CL: d.CL0 + d.CLAlpha*alpha + d.CLQ*q*tc + d.CLAlphaDot*alphaDot*tc +
			d.CLElevator*c.Elevator + d.CLFlaps*c.Flaps,
		CD: d.CD0 + d.CDAlpha*gomath.Abs(alpha) + d.CDFlaps*c.Flaps + d.CDGear*c.Gear,
		CY: d.CYBeta*beta + d.CYRudder*c.Rudder,

		CRoll: d.CRollBeta*beta + d.CRollP*p*tb + d.CRollR*r*tb +
			d.CRollAileron*c.Aileron + d.CRollRudder*c.Rudder,
		CM: d.CM0 + d.CMAlpha*alpha + d.CMQ*q*tc + d.CMAlphaDot*alphaDot*tc +
			d.CMElevator*c.Elevator + d.CMFlaps*c.Flaps,
		CN: d.CNBeta*beta + d.CNP*p*tb + d.CNR*r*tb +
			d.CNAileron*c.Aileron + d.CNRudder*c.Rudder,
	}
}

// DynamicPressure returns ½ρV² in lbf/ft^2.
func DynamicPressure(rho, v float64) float64 {
	return 0.5 * rho * v * v
}

// AeroForces dimensionalizes the coefficients. The force is returned in
// body axes; the moment is about the aerodynamic reference point.
func AeroForces(coeff AeroCoefficients, qbar float64, wing aviation.WingGeometry,
	wind aviation.WindParameters) (force, moment math.Vec3) {
	qs := qbar * wing.Area

	windForce := math.Vec3{-coeff.CD * qs, coeff.CY * qs, -coeff.CL * qs}
	force = math.Transform(Wind2Body(wind.Alpha, wind.Beta), windForce)

	moment = math.Vec3{
		qs * wing.Span * coeff.CRoll,
		qs * wing.Chord * coeff.CM,
		qs * wing.Span * coeff.CN,
	}
	return
}
