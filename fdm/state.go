// fdm/state.go
// Copyright(c) 2022-2025 sixdof contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package fdm

import (
	"fmt"
	"log/slog"

	"github.com/flightdyn/sixdof/math"
)

// Indices into State.
const (
	U = iota // body velocity, ft/s
	V
	W
	North // NED position, ft
	East
	Down
	Phi // Euler angles, rad
	Theta
	Psi
	P // body rates, rad/s
	Q
	R
	StateSize
)

var stateNames = [StateSize]string{"u", "v", "w", "north", "east", "down", "phi", "theta", "psi", "p", "q", "r"}

func StateName(i int) string {
	if i < 0 || i >= StateSize {
		return fmt.Sprintf("state[%d]", i)
	}
	return stateNames[i]
}

// State is the 12-element rigid-body state [u v w N E D φ θ ψ p q r].
// Down is positive toward the earth; use Altitude for height.
type State [StateSize]float64

// NewState returns a state at the given altitude (ft) moving straight
// ahead at airspeed (ft/s) with level wings and heading psi.
func NewState(airspeed, altitude, psi float64) State {
	var s State
	s[U] = airspeed
	s[Down] = -altitude
	s[Psi] = psi
	return s
}

func (s State) Velocity() math.Vec3 { return math.Vec3{s[U], s[V], s[W]} }
func (s State) Position() math.Vec3 { return math.Vec3{s[North], s[East], s[Down]} }
func (s State) Euler() math.Vec3    { return math.Vec3{s[Phi], s[Theta], s[Psi]} }
func (s State) Rates() math.Vec3    { return math.Vec3{s[P], s[Q], s[R]} }
func (s State) Altitude() float64   { return -s[Down] }

// Add returns s + k·d.
func (s State) Add(d State, k float64) State {
	for i := range s {
		s[i] += k * d[i]
	}
	return s
}

func (s State) IsFinite() bool {
	for _, v := range s {
		if !math.IsFinite(v) {
			return false
		}
	}
	return true
}

func (s State) LogValue() slog.Value {
	attrs := make([]slog.Attr, StateSize)
	for i, v := range s {
		attrs[i] = slog.Float64(stateNames[i], v)
	}
	return slog.GroupValue(attrs...)
}
