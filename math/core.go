// math/core.go
// Copyright(c) 2022-2025 sixdof contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"

	"golang.org/x/exp/constraints"
)

const Pi = gomath.Pi

// Degrees converts an angle expressed in radians to degrees
func Degrees(r float64) float64 {
	return r * 180 / gomath.Pi
}

// Radians converts an angle expressed in degrees to radians
func Radians(d float64) float64 {
	return d / 180 * gomath.Pi
}

func Abs[V constraints.Integer | constraints.Float](x V) V {
	if x < 0 {
		return -x
	}
	return x
}

func Sqr[V constraints.Integer | constraints.Float](v V) V { return v * v }

func Clamp[T constraints.Ordered](x T, low T, high T) T {
	if x < low {
		return low
	} else if x > high {
		return high
	}
	return x
}

// ClampSymmetric clamps x to [-limit, limit].
func ClampSymmetric[T constraints.Float](x T, limit T) T {
	return Clamp(x, -limit, limit)
}

func Sign(v float64) float64 {
	if v > 0 {
		return 1
	} else if v < 0 {
		return -1
	}
	return 0
}

// IsFinite reports whether v is neither NaN nor an infinity.
func IsFinite(v float64) bool {
	return !gomath.IsNaN(v) && !gomath.IsInf(v, 0)
}

// WrapPi maps an angle in radians to [-π, π). Angles already in range are
// returned unchanged so that wrapping is idempotent.
func WrapPi(a float64) float64 {
	if a >= -gomath.Pi && a < gomath.Pi {
		return a
	}
	r := gomath.Mod(a+gomath.Pi, 2*gomath.Pi)
	if r < 0 {
		r += 2 * gomath.Pi
	}
	r -= gomath.Pi
	if r >= gomath.Pi {
		r = -gomath.Pi
	}
	return r
}

// Wrap2Pi maps an angle in radians to [0, 2π).
func Wrap2Pi(a float64) float64 {
	if a >= 0 && a < 2*gomath.Pi {
		return a
	}
	r := gomath.Mod(a, 2*gomath.Pi)
	if r < 0 {
		r += 2 * gomath.Pi
	}
	if r >= 2*gomath.Pi {
		r = 0
	}
	return r
}
