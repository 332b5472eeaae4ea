// fdm/integrator.go
// Copyright(c) 2022-2025 sixdof contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package fdm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/flightdyn/sixdof/aviation"
)

var (
	ErrNonFiniteState = errors.New("Integration produced a non-finite state")
	ErrInvalidStep    = errors.New("Step size must be positive")
)

// EvaluationMode selects how often forces are evaluated within an RK4
// step.
type EvaluationMode int

const (
	// EvaluationMultiStage re-evaluates aerodynamics and engines at each
	// of the four stages.
	EvaluationMultiStage EvaluationMode = iota
	// EvaluationSingle evaluates the body force and moment once at the
	// start of the step and holds them for all four stages; only the
	// kinematic, Coriolis, and gravity terms follow the stage state.
	EvaluationSingle
)

func (m EvaluationMode) String() string {
	switch m {
	case EvaluationMultiStage:
		return "multistage"
	case EvaluationSingle:
		return "single"
	default:
		return fmt.Sprintf("EvaluationMode(%d)", int(m))
	}
}

func ParseEvaluationMode(s string) (EvaluationMode, error) {
	switch strings.ToLower(s) {
	case "", "multistage", "multi-stage":
		return EvaluationMultiStage, nil
	case "single":
		return EvaluationSingle, nil
	default:
		return 0, fmt.Errorf("%q: unknown evaluation mode", s)
	}
}

func (m EvaluationMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *EvaluationMode) UnmarshalText(b []byte) error {
	mode, err := ParseEvaluationMode(string(b))
	if err == nil {
		*m = mode
	}
	return err
}

// Integrator advances an aircraft's state with fixed-step fourth-order
// Runge-Kutta. It is not safe for concurrent use; each session owns one.
type Integrator struct {
	aircraft aviation.Aircraft
	engines  []aviation.Engine
	inertia  InertiaCoefficients
	limits   Limits
	mode     EvaluationMode

	// From the most recent derivative evaluation.
	alphaDot float64
}

func NewIntegrator(ac aviation.Aircraft, lim Limits, mode EvaluationMode) (*Integrator, error) {
	if err := ac.Check(); err != nil {
		return nil, err
	}
	engines, err := ac.NewEngines()
	if err != nil {
		return nil, err
	}
	ic, err := CachedInertiaCoefficients(ac.Mass)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ac.Name, err)
	}
	return &Integrator{
		aircraft: ac,
		engines:  engines,
		inertia:  ic,
		limits:   lim,
		mode:     mode,
	}, nil
}

func (in *Integrator) Aircraft() *aviation.Aircraft { return &in.aircraft }
func (in *Integrator) Engines() []aviation.Engine   { return in.engines }
func (in *Integrator) Inertia() InertiaCoefficients { return in.inertia }
func (in *Integrator) Limits() Limits               { return in.limits }
func (in *Integrator) Mode() EvaluationMode         { return in.mode }
func (in *Integrator) AlphaDot() float64            { return in.alphaDot }

// Reset forgets the α̇ history, as at the start of a run.
func (in *Integrator) Reset() {
	in.alphaDot = 0
}

// Evaluate computes forces at s and the resulting state derivative,
// which is stored in the returned Evaluation.
func (in *Integrator) Evaluate(s State, c aviation.Controls) Evaluation {
	ev := Aggregate(&in.aircraft, in.engines, s, c, in.alphaDot, in.limits)
	ev.Derivative = Dynamics(s, ev.Force, ev.Moment, in.aircraft.Mass.Mass, in.inertia, in.limits)
	in.alphaDot = AlphaDot(s, ev.Derivative)
	return ev
}

// Step advances s by dt under controls c. It returns the new saturated
// state and the evaluation at the start of the step. If the result is
// not finite, s is returned unchanged along with ErrNonFiniteState.
func (in *Integrator) Step(s State, c aviation.Controls, dt float64) (State, Evaluation, error) {
	if !(dt > 0) {
		return s, Evaluation{}, ErrInvalidStep
	}
	c = c.Clamped()
	s = ClampState(s, in.limits)

	ev := in.Evaluate(s, c)
	k1 := ev.Derivative

	deriv := func(st State) State {
		st = ClampState(st, in.limits)
		if in.mode == EvaluationSingle {
			return Dynamics(st, ev.Force, ev.Moment, in.aircraft.Mass.Mass, in.inertia, in.limits)
		}
		return in.Evaluate(st, c).Derivative
	}
	k2 := deriv(s.Add(k1, dt/2))
	k3 := deriv(s.Add(k2, dt/2))
	k4 := deriv(s.Add(k3, dt))

	next := s
	for i := range next {
		next[i] += dt / 6 * (k1[i] + 2*k2[i] + 2*k3[i] + k4[i])
	}
	if !next.IsFinite() {
		return s, ev, fmt.Errorf("%w: %v", ErrNonFiniteState, next)
	}
	return ClampState(next, in.limits), ev, nil
}
