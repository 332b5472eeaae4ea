// aviation/controls.go
// Copyright(c) 2022-2025 sixdof contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/flightdyn/sixdof/math"
)

// MaxEngines is the largest number of engines an aircraft may have.
const MaxEngines = 4

// ControlChannel identifies a single control input.
type ControlChannel int

const (
	Elevator ControlChannel = iota
	Aileron
	Rudder
	Throttle1
	Throttle2
	Throttle3
	Throttle4
	Propeller1
	Propeller2
	Propeller3
	Propeller4
	Mixture1
	Mixture2
	Mixture3
	Mixture4
	Flaps
	Gear
	Brakes
	NumControlChannels
)

var controlChannelNames = [NumControlChannels]string{
	"elevator", "aileron", "rudder",
	"throttle_1", "throttle_2", "throttle_3", "throttle_4",
	"propeller_1", "propeller_2", "propeller_3", "propeller_4",
	"mixture_1", "mixture_2", "mixture_3", "mixture_4",
	"flaps", "gear", "brakes",
}

func (c ControlChannel) String() string {
	if c < 0 || c >= NumControlChannels {
		return fmt.Sprintf("ControlChannel(%d)", int(c))
	}
	return controlChannelNames[c]
}

func ParseControlChannel(s string) (ControlChannel, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range controlChannelNames {
		if n == s {
			return ControlChannel(i), nil
		}
	}
	return 0, fmt.Errorf("%s: %w", s, ErrUnknownControl)
}

func (c ControlChannel) MarshalText() ([]byte, error) {
	if c < 0 || c >= NumControlChannels {
		return nil, fmt.Errorf("%d: %w", int(c), ErrUnknownControl)
	}
	return []byte(c.String()), nil
}

func (c *ControlChannel) UnmarshalText(b []byte) error {
	ch, err := ParseControlChannel(string(b))
	if err == nil {
		*c = ch
	}
	return err
}

// EngineChannels returns the throttle, propeller, and mixture channels
// that drive the given engine number (1-based).
func EngineChannels(engine int) (throttle, propeller, mixture ControlChannel, err error) {
	if engine < 1 || engine > MaxEngines {
		return 0, 0, 0, fmt.Errorf("engine %d: %w", engine, ErrInvalidEngineNumber)
	}
	i := ControlChannel(engine - 1)
	return Throttle1 + i, Propeller1 + i, Mixture1 + i, nil
}

// ControlLimit gives the physical range of a control channel. Surface
// deflections are in radians; the remaining channels are fractions.
type ControlLimit struct {
	Min, Max float64
}

var ControlLimits = [NumControlChannels]ControlLimit{
	Elevator:   {-math.Radians(25), math.Radians(25)},
	Aileron:    {-math.Radians(15), math.Radians(15)},
	Rudder:     {-math.Radians(15), math.Radians(15)},
	Throttle1:  {0, 1},
	Throttle2:  {0, 1},
	Throttle3:  {0, 1},
	Throttle4:  {0, 1},
	Propeller1: {0, 1},
	Propeller2: {0, 1},
	Propeller3: {0, 1},
	Propeller4: {0, 1},
	Mixture1:   {0, 1},
	Mixture2:   {0, 1},
	Mixture3:   {0, 1},
	Mixture4:   {0, 1},
	Flaps:      {0, math.Radians(30)},
	Gear:       {0, 1}, // 0: up, 1: down
	Brakes:     {0, 1},
}

// Controls is the full control vector for one integration step.
type Controls struct {
	Elevator  float64             `json:"elevator"`
	Aileron   float64             `json:"aileron"`
	Rudder    float64             `json:"rudder"`
	Throttle  [MaxEngines]float64 `json:"throttle"`
	Propeller [MaxEngines]float64 `json:"propeller"`
	Mixture   [MaxEngines]float64 `json:"mixture"`
	Flaps     float64             `json:"flaps"`
	Gear      float64             `json:"gear"`
	Brakes    float64             `json:"brakes"`
}

// DefaultControls returns neutral surfaces with full propeller and
// mixture and idle throttle on every engine.
func DefaultControls() Controls {
	var c Controls
	for i := range MaxEngines {
		c.Propeller[i] = 1
		c.Mixture[i] = 1
	}
	return c
}

func (c *Controls) ptr(ch ControlChannel) *float64 {
	switch {
	case ch == Elevator:
		return &c.Elevator
	case ch == Aileron:
		return &c.Aileron
	case ch == Rudder:
		return &c.Rudder
	case ch >= Throttle1 && ch <= Throttle4:
		return &c.Throttle[ch-Throttle1]
	case ch >= Propeller1 && ch <= Propeller4:
		return &c.Propeller[ch-Propeller1]
	case ch >= Mixture1 && ch <= Mixture4:
		return &c.Mixture[ch-Mixture1]
	case ch == Flaps:
		return &c.Flaps
	case ch == Gear:
		return &c.Gear
	case ch == Brakes:
		return &c.Brakes
	default:
		return nil
	}
}

// Get returns the value of the given channel; it panics if the channel
// is not valid, which indicates a programming error.
func (c Controls) Get(ch ControlChannel) float64 {
	p := c.ptr(ch)
	if p == nil {
		panic(fmt.Sprintf("%s: %v", ch, ErrUnknownControl))
	}
	return *p
}

func (c *Controls) Set(ch ControlChannel, v float64) {
	p := c.ptr(ch)
	if p == nil {
		panic(fmt.Sprintf("%s: %v", ch, ErrUnknownControl))
	}
	*p = v
}

// Clamped returns a copy of the controls with every channel limited to
// its physical range.
func (c Controls) Clamped() Controls {
	for ch := range NumControlChannels {
		lim := ControlLimits[ch]
		c.Set(ch, math.Clamp(c.Get(ch), lim.Min, lim.Max))
	}
	return c
}

func (c Controls) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, NumControlChannels)
	for ch := range NumControlChannels {
		attrs = append(attrs, slog.Float64(ch.String(), c.Get(ch)))
	}
	return slog.GroupValue(attrs...)
}
