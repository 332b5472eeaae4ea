// fdm/frames_test.go
// Copyright(c) 2022-2025 sixdof contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package fdm

import (
	"errors"
	gomath "math"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/flightdyn/sixdof/aviation"
	"github.com/flightdyn/sixdof/math"
)

func TestBody2NEDOrthonormal(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for range 1000 {
		phi := (r.Float64()*2 - 1) * gomath.Pi
		theta := (r.Float64()*2 - 1) * gomath.Pi / 2
		psi := r.Float64() * 2 * gomath.Pi

		m := Body2NED(phi, theta, psi)
		if !math.IsOrthonormal(m, 1e-12) {
			t.Fatalf("Body2NED(%f, %f, %f) is not orthonormal: %v", phi, theta, psi, mat.Formatted(m))
		}
		if det := mat.Det(m); gomath.Abs(det-1) > 1e-12 {
			t.Fatalf("Body2NED(%f, %f, %f) determinant %f", phi, theta, psi, det)
		}

		v := math.Vec3{r.Float64(), r.Float64(), r.Float64()}
		rt := math.TransformTranspose(m, math.Transform(m, v))
		if math.Length3(math.Sub3(rt, v)) > 1e-12 {
			t.Fatalf("round trip %v -> %v", v, rt)
		}
	}
}

func TestBody2NEDAxes(t *testing.T) {
	for _, test := range []struct {
		phi, theta, psi float64
		body, ned       math.Vec3
	}{
		{0, 0, 0, math.Vec3{1, 0, 0}, math.Vec3{1, 0, 0}},
		{0, 0, gomath.Pi / 2, math.Vec3{1, 0, 0}, math.Vec3{0, 1, 0}},           // heading east
		{0, gomath.Pi / 6, 0, math.Vec3{1, 0, 0}, math.Vec3{0.866025, 0, -0.5}}, // nose up
		{gomath.Pi / 2, 0, 0, math.Vec3{0, 1, 0}, math.Vec3{0, 0, 1}},           // right wing down
	} {
		got := math.Transform(Body2NED(test.phi, test.theta, test.psi), test.body)
		if math.Length3(math.Sub3(got, test.ned)) > 1e-6 {
			t.Errorf("Body2NED(%f, %f, %f) * %v = %v, expected %v", test.phi, test.theta, test.psi,
				test.body, got, test.ned)
		}
	}
}

func TestWind2Body(t *testing.T) {
	if !mat.EqualApprox(Wind2Body(0, 0), math.Identity3(), 1e-15) {
		t.Errorf("Wind2Body(0, 0) is not the identity")
	}

	r := rand.New(rand.NewPCG(3, 4))
	for range 100 {
		m := Wind2Body(r.Float64()-0.5, r.Float64()-0.5)
		if !math.IsOrthonormal(m, 1e-12) {
			t.Fatalf("Wind2Body not orthonormal: %v", mat.Formatted(m))
		}
	}

	// Drag opposes the relative wind, which comes from below at
	// positive α.
	alpha := 0.1
	drag := math.Transform(Wind2Body(alpha, 0), math.Vec3{-1, 0, 0})
	expected := math.Vec3{-gomath.Cos(alpha), 0, -gomath.Sin(alpha)}
	if math.Length3(math.Sub3(drag, expected)) > 1e-12 {
		t.Errorf("drag in body axes %v, expected %v", drag, expected)
	}
}

func TestWindParametersFromBody(t *testing.T) {
	lim := DefaultLimits()
	for _, test := range []struct {
		name string
		vel  math.Vec3
		w    aviation.WindParameters
	}{
		{"zero", math.Vec3{}, aviation.WindParameters{TrueAirspeed: 0.5}},
		{"straight", math.Vec3{100, 0, 0}, aviation.WindParameters{TrueAirspeed: 100}},
		{"alpha", math.Vec3{100, 0, 10}, aviation.WindParameters{TrueAirspeed: gomath.Sqrt(10100), Alpha: gomath.Atan(0.1)}},
		{"beta", math.Vec3{100, 10, 0}, aviation.WindParameters{TrueAirspeed: gomath.Sqrt(10100), Beta: gomath.Asin(10 / gomath.Sqrt(10100))}},
		{"alpha clamped", math.Vec3{10, 0, 100}, aviation.WindParameters{TrueAirspeed: gomath.Sqrt(10100), Alpha: gomath.Pi / 16}},
		{"beta clamped", math.Vec3{1, -100, 0}, aviation.WindParameters{TrueAirspeed: gomath.Sqrt(10001), Beta: -gomath.Pi / 4}},
	} {
		w := WindParametersFromBody(test.vel, lim)
		if gomath.Abs(w.TrueAirspeed-test.w.TrueAirspeed) > 1e-9 || gomath.Abs(w.Alpha-test.w.Alpha) > 1e-9 ||
			gomath.Abs(w.Beta-test.w.Beta) > 1e-9 {
			t.Errorf("%s: got %+v, expected %+v", test.name, w, test.w)
		}
	}
}

func TestInertiaCoefficients(t *testing.T) {
	m := aviation.MassProperties{Mass: 80, Ix: 1000, Iy: 3000, Iz: 3500}
	ic, err := NewInertiaCoefficients(m)
	if err != nil {
		t.Fatal(err)
	}
	// With no product of inertia the equations decouple.
	expected := InertiaCoefficients{
		C1: (3000. - 3500.) / 1000., C3: 1. / 1000., C5: 2500. / 3000., C7: 1. / 3000.,
		C8: (1000. - 3000.) / 3500., C9: 1. / 3500.,
	}
	for i, pair := range [][2]float64{
		{ic.C1, expected.C1}, {ic.C2, 0}, {ic.C3, expected.C3}, {ic.C4, 0}, {ic.C5, expected.C5},
		{ic.C6, 0}, {ic.C7, expected.C7}, {ic.C8, expected.C8}, {ic.C9, expected.C9},
	} {
		if gomath.Abs(pair[0]-pair[1]) > 1e-12 {
			t.Errorf("c%d = %g, expected %g", i+1, pair[0], pair[1])
		}
	}

	// A pure pitching moment gives only pitch acceleration.
	acc := ic.AngularAcceleration(math.Vec3{}, math.Vec3{0, 300, 0})
	if acc[0] != 0 || acc[2] != 0 || gomath.Abs(acc[1]-0.1) > 1e-15 {
		t.Errorf("angular acceleration %v, expected [0 0.1 0]", acc)
	}

	// The coupled equations must agree with solving I·ω̇ = M directly.
	m.Ixz = 120
	ic, _ = NewInertiaCoefficients(m)
	mom := math.Vec3{50, -20, 80}
	acc = ic.AngularAcceleration(math.Vec3{}, mom)
	inertia := mat.NewDense(3, 3, []float64{m.Ix, 0, -m.Ixz, 0, m.Iy, 0, -m.Ixz, 0, m.Iz})
	var sol mat.VecDense
	if err := sol.SolveVec(inertia, mat.NewVecDense(3, mom[:])); err != nil {
		t.Fatal(err)
	}
	for i := range 3 {
		if gomath.Abs(acc[i]-sol.AtVec(i)) > 1e-12 {
			t.Errorf("axis %d: %g, expected %g", i, acc[i], sol.AtVec(i))
		}
	}

	if _, err := NewInertiaCoefficients(aviation.MassProperties{Ix: 1, Iy: 1, Iz: 1, Ixz: 2}); !errors.Is(err, ErrSingularInertia) {
		t.Errorf("expected ErrSingularInertia, got %v", err)
	}

	c1, err := CachedInertiaCoefficients(m)
	if err != nil {
		t.Fatal(err)
	}
	c2, _ := CachedInertiaCoefficients(m)
	if c1 != c2 || c1 != ic {
		t.Errorf("cached coefficients differ: %+v %+v %+v", c1, c2, ic)
	}
	if !inertiaCache.Contains(m) {
		t.Errorf("mass properties not cached")
	}
}
