// fdm/frames.go
// Copyright(c) 2022-2025 sixdof contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package fdm

import (
	"errors"
	gomath "math"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"gonum.org/v1/gonum/mat"

	"github.com/flightdyn/sixdof/aviation"
	"github.com/flightdyn/sixdof/math"
)

var ErrSingularInertia = errors.New("Inertia tensor is singular")

// Body2NED returns the direction cosine matrix that takes body-axis
// vectors to the NED frame for the ZYX Euler sequence (ψ, θ, φ).
func Body2NED(phi, theta, psi float64) *mat.Dense {
	sphi, cphi := gomath.Sincos(phi)
	sth, cth := gomath.Sincos(theta)
	spsi, cpsi := gomath.Sincos(psi)

	return math.NewMatrix3(
		cth*cpsi, sphi*sth*cpsi-cphi*spsi, cphi*sth*cpsi+sphi*spsi,
		cth*spsi, sphi*sth*spsi+cphi*cpsi, cphi*sth*spsi-sphi*cpsi,
		-sth, sphi*cth, cphi*cth)
}

// Wind2Body returns the matrix that takes wind-axis vectors (drag
// negative along x, lift negative along z) to body axes.
func Wind2Body(alpha, beta float64) *mat.Dense {
	sa, ca := gomath.Sincos(alpha)
	sb, cb := gomath.Sincos(beta)

	return math.NewMatrix3(
		ca*cb, -ca*sb, -sa,
		sb, cb, 0,
		sa*cb, -sa*sb, ca)
}

// WindParametersFromBody computes true airspeed, sideslip, and angle of
// attack from body velocities. The results are bounded by lim so that
// the trigonometry is always defined.
func WindParametersFromBody(vel math.Vec3, lim Limits) aviation.WindParameters {
	vt := max(math.Length3(vel), lim.MinAirspeed)
	return ClampWind(aviation.WindParameters{
		TrueAirspeed: vt,
		Beta:         gomath.Asin(math.Clamp(vel[1]/vt, -1, 1)),
		Alpha:        gomath.Atan2(vel[2], vel[0]),
	}, lim)
}

// InertiaCoefficients are the constants of the rigid-body rotational
// equations for an airframe symmetric about the xz plane.
type InertiaCoefficients struct {
	C1, C2, C3, C4, C5, C6, C7, C8, C9 float64
}

func NewInertiaCoefficients(m aviation.MassProperties) (InertiaCoefficients, error) {
	gamma := m.Ix*m.Iz - m.Ixz*m.Ixz
	if gamma <= 0 || m.Iy <= 0 {
		return InertiaCoefficients{}, ErrSingularInertia
	}
	return InertiaCoefficients{
		C1: ((m.Iy-m.Iz)*m.Iz - m.Ixz*m.Ixz) / gamma,
		C2: (m.Ix - m.Iy + m.Iz) * m.Ixz / gamma,
		C3: m.Iz / gamma,
		C4: m.Ixz / gamma,
		C5: (m.Iz - m.Ix) / m.Iy,
		C6: m.Ixz / m.Iy,
		C7: 1 / m.Iy,
		C8: (m.Ix*(m.Ix-m.Iy) + m.Ixz*m.Ixz) / gamma,
		C9: m.Ix / gamma,
	}, nil
}

// AngularAcceleration returns (ṗ, q̇, ṙ) for the given body rates and
// total moment about the CG.
func (c InertiaCoefficients) AngularAcceleration(rates, moment math.Vec3) math.Vec3 {
	p, q, r := rates[0], rates[1], rates[2]
	l, m, n := moment[0], moment[1], moment[2]
	return math.Vec3{
		(c.C1*r+c.C2*p)*q + c.C3*l + c.C4*n,
		c.C5*p*r - c.C6*(p*p-r*r) + c.C7*m,
		(c.C8*p-c.C2*r)*q + c.C4*l + c.C9*n,
	}
}

// Mass properties never change during a run, so entries don't expire.
var inertiaCache = expirable.NewLRU[aviation.MassProperties, InertiaCoefficients](64, nil, 0)

// CachedInertiaCoefficients returns the coefficients for m, computing
// them only the first time a given set of mass properties is seen.
func CachedInertiaCoefficients(m aviation.MassProperties) (InertiaCoefficients, error) {
	if c, ok := inertiaCache.Get(m); ok {
		return c, nil
	}
	c, err := NewInertiaCoefficients(m)
	if err != nil {
		return c, err
	}
	inertiaCache.Add(m, c)
	return c, nil
}
