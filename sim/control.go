// sim/control.go
// Copyright(c) 2022-2025 sixdof contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"fmt"
	"log/slog"
	gomath "math"
	"slices"
	"sync"

	"github.com/flightdyn/sixdof/aviation"
	"github.com/flightdyn/sixdof/math"
	"github.com/flightdyn/sixdof/util"
)

// ControlSource supplies the control vector for each step. Controls is
// only called from the session's run loop.
type ControlSource interface {
	Controls(t float64) (aviation.Controls, error)
}

// ControlSources that hold state between steps implement Resetter so
// that Session.Reset can return them to their initial condition.
type Resetter interface {
	Reset()
}

///////////////////////////////////////////////////////////////////////////
// Scripted inputs

type InputKind int

const (
	Doublet InputKind = iota
	Singlet
)

func (k InputKind) String() string {
	switch k {
	case Doublet:
		return "doublet"
	case Singlet:
		return "singlet"
	default:
		return fmt.Sprintf("InputKind(%d)", int(k))
	}
}

func (k InputKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *InputKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "doublet":
		*k = Doublet
	case "singlet":
		*k = Singlet
	default:
		return fmt.Errorf("%q: %w", string(b), ErrUnknownInputKind)
	}
	return nil
}

// ScriptedInput offsets one control channel from its trim value. A
// doublet applies +Amplitude for Duration and then -Amplitude for
// Duration; a singlet holds +Amplitude for Duration. Both start at
// Start and leave the channel at its trim value afterward.
type ScriptedInput struct {
	Channel   aviation.ControlChannel `json:"channel"`
	Kind      InputKind               `json:"kind"`
	Start     float64                 `json:"start"`
	Duration  float64                 `json:"duration"`
	Amplitude float64                 `json:"amplitude"`
}

func (in ScriptedInput) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("channel", in.Channel.String()),
		slog.String("kind", in.Kind.String()),
		slog.Float64("start", in.Start),
		slog.Float64("duration", in.Duration),
		slog.Float64("amplitude", in.Amplitude))
}

// End returns the time at which the input is finished.
func (in ScriptedInput) End() float64 {
	if in.Kind == Doublet {
		return in.Start + 2*in.Duration
	}
	return in.Start + in.Duration
}

// Offset returns the deflection added to the trim value at time t.
func (in ScriptedInput) Offset(t float64) float64 {
	switch {
	case t < in.Start:
		return 0
	case t < in.Start+in.Duration:
		return in.Amplitude
	case in.Kind == Doublet && t < in.Start+2*in.Duration:
		return -in.Amplitude
	default:
		return 0
	}
}

func (in ScriptedInput) Validate(e *util.ErrorLogger) {
	if in.Channel < 0 || in.Channel >= aviation.NumControlChannels {
		e.Error(fmt.Errorf("%d: %w", int(in.Channel), aviation.ErrUnknownControl))
	}
	if in.Kind != Doublet && in.Kind != Singlet {
		e.Error(fmt.Errorf("%d: %w", int(in.Kind), ErrUnknownInputKind))
	}
	if !(in.Duration > 0) {
		e.ErrorString("\"duration\" must be positive")
	}
	if in.Start < 0 || gomath.IsNaN(in.Start) {
		e.ErrorString("\"start\" must be non-negative")
	}
	if gomath.IsNaN(in.Amplitude) || gomath.IsInf(in.Amplitude, 0) {
		e.ErrorString("\"amplitude\" must be finite")
	}
}

// ScriptedSource produces the trim controls plus any scheduled inputs.
// It is deterministic and stateless. Overlapping inputs on the same
// channel add.
type ScriptedSource struct {
	Trim   aviation.Controls
	Inputs []ScriptedInput
}

func NewScriptedSource(trim aviation.Controls, inputs ...ScriptedInput) *ScriptedSource {
	return &ScriptedSource{Trim: trim, Inputs: slices.Clone(inputs)}
}

func (s *ScriptedSource) Controls(t float64) (aviation.Controls, error) {
	c := s.Trim
	for _, in := range s.Inputs {
		if in.Channel < 0 || in.Channel >= aviation.NumControlChannels {
			return c, fmt.Errorf("%d: %w", int(in.Channel), aviation.ErrUnknownControl)
		}
		if off := in.Offset(t); off != 0 {
			c.Set(in.Channel, c.Get(in.Channel)+off)
		}
	}
	return c.Clamped(), nil
}

// End returns the time when the last scripted input finishes.
func (s *ScriptedSource) End() float64 {
	var end float64
	for _, in := range s.Inputs {
		end = max(end, in.End())
	}
	return end
}

///////////////////////////////////////////////////////////////////////////
// Interactive input

// InputDevice is a joystick, throttle quadrant, or similar. Poll updates
// whichever channels the device provides and leaves the rest alone.
type InputDevice interface {
	Poll(c *aviation.Controls) error
}

// InteractiveSource merges device input with controls set directly
// (for example from a keyboard or UI) and clamps the result to the
// physical limits of each channel. Set may be called from any goroutine.
type InteractiveSource struct {
	mu      sync.Mutex
	initial aviation.Controls
	current aviation.Controls
	devices []InputDevice
}

func NewInteractiveSource(initial aviation.Controls, devices ...InputDevice) *InteractiveSource {
	return &InteractiveSource{
		initial: initial.Clamped(),
		current: initial.Clamped(),
		devices: devices,
	}
}

func (s *InteractiveSource) Set(ch aviation.ControlChannel, v float64) error {
	if ch < 0 || ch >= aviation.NumControlChannels {
		return fmt.Errorf("%d: %w", int(ch), aviation.ErrUnknownControl)
	}
	lim := aviation.ControlLimits[ch]

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.Set(ch, math.Clamp(v, lim.Min, lim.Max))
	return nil
}

func (s *InteractiveSource) Controls(t float64) (aviation.Controls, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.current
	for _, dev := range s.devices {
		if err := dev.Poll(&c); err != nil {
			// Keep the last good controls.
			return s.current, fmt.Errorf("polling input device: %w", err)
		}
	}
	s.current = c.Clamped()
	return s.current, nil
}

func (s *InteractiveSource) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = s.initial
}
