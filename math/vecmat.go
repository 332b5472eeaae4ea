// math/vecmat.go
// Copyright(c) 2022-2025 sixdof contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"

	"gonum.org/v1/gonum/mat"
)

///////////////////////////////////////////////////////////////////////////
// Vec3

// Vec3 is a 3-vector; in the flight model it is usually expressed in the
// body frame (x forward, y right, z down) or the NED frame.
// Names of the functions below are brief in order to avoid clutter when
// they're used in the equations of motion.
type Vec3 [3]float64

// a+b
func Add3(a, b Vec3) Vec3 {
	return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// a-b
func Sub3(a, b Vec3) Vec3 {
	return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// a*s
func Scale3(a Vec3, s float64) Vec3 {
	return Vec3{s * a[0], s * a[1], s * a[2]}
}

func Dot3(a, b Vec3) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// a×b
func Cross3(a, b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func Length3(v Vec3) float64 {
	return gomath.Sqrt(Dot3(v, v))
}

// ClampLength3 scales v so that its length is at most limit.
func ClampLength3(v Vec3, limit float64) Vec3 {
	l := Length3(v)
	if l <= limit || l == 0 {
		return v
	}
	return Scale3(v, limit/l)
}

// ClampComponents3 clamps each component of v to [-limit, limit].
func ClampComponents3(v Vec3, limit float64) Vec3 {
	return Vec3{ClampSymmetric(v[0], limit), ClampSymmetric(v[1], limit), ClampSymmetric(v[2], limit)}
}

func IsFinite3(v Vec3) bool {
	return IsFinite(v[0]) && IsFinite(v[1]) && IsFinite(v[2])
}

///////////////////////////////////////////////////////////////////////////
// 3x3 rotation matrices

// NewMatrix3 returns a 3x3 matrix with the given elements in row-major
// order.
func NewMatrix3(m00, m01, m02, m10, m11, m12, m20, m21, m22 float64) *mat.Dense {
	return mat.NewDense(3, 3, []float64{m00, m01, m02, m10, m11, m12, m20, m21, m22})
}

func Identity3() *mat.Dense {
	return NewMatrix3(1, 0, 0, 0, 1, 0, 0, 0, 1)
}

// Transform returns m·v for a 3x3 matrix m.
func Transform(m mat.Matrix, v Vec3) Vec3 {
	var r Vec3
	for i := range 3 {
		r[i] = m.At(i, 0)*v[0] + m.At(i, 1)*v[1] + m.At(i, 2)*v[2]
	}
	return r
}

// TransformTranspose returns mᵀ·v for a 3x3 matrix m; for a rotation
// matrix this is the inverse rotation.
func TransformTranspose(m mat.Matrix, v Vec3) Vec3 {
	var r Vec3
	for i := range 3 {
		r[i] = m.At(0, i)*v[0] + m.At(1, i)*v[1] + m.At(2, i)*v[2]
	}
	return r
}

// IsOrthonormal reports whether mᵀ·m is the identity to within tol.
func IsOrthonormal(m mat.Matrix, tol float64) bool {
	var p mat.Dense
	p.Mul(m.T(), m)
	return mat.EqualApprox(&p, Identity3(), tol)
}
