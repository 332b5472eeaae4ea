// aviation/aircraft.go
// Copyright(c) 2022-2025 sixdof contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/flightdyn/sixdof/math"
	"github.com/flightdyn/sixdof/util"
	"github.com/flightdyn/sixdof/wx"
)

// MassProperties holds the mass in slugs and the moments and product of
// inertia in slug·ft^2 about body axes through the CG.
type MassProperties struct {
	Mass float64 `json:"mass"`
	Ix   float64 `json:"ix"`
	Iy   float64 `json:"iy"`
	Iz   float64 `json:"iz"`
	Ixz  float64 `json:"ixz"`
}

func (m MassProperties) Weight() float64 { return m.Mass * wx.Gravity }

// WingGeometry gives the reference chord, span, and area (ft, ft^2)
// used to dimensionalize aerodynamic coefficients. ACOffset is the
// aerodynamic reference point relative to the CG in body axes.
type WingGeometry struct {
	Chord    float64   `json:"chord"`
	Span     float64   `json:"span"`
	Area     float64   `json:"area"`
	ACOffset math.Vec3 `json:"ac_offset"`
}

// StabilityDerivatives are the non-dimensional coefficients of the
// linear aerodynamic model. Angle derivatives are per radian; rate
// derivatives are with respect to the non-dimensional rates
// q·c/2V, p·b/2V, and r·b/2V.
type StabilityDerivatives struct {
	// Lift
	CL0        float64 `json:"cl_0"`
	CLAlpha    float64 `json:"cl_alpha"`
	CLQ        float64 `json:"cl_q"`
	CLAlphaDot float64 `json:"cl_alpha_dot"`
	CLElevator float64 `json:"cl_elevator"`
	CLFlaps    float64 `json:"cl_flaps"`

	// Drag
	CD0     float64 `json:"cd_0"`
	CDAlpha float64 `json:"cd_alpha"`
	CDFlaps float64 `json:"cd_flaps"`
	CDGear  float64 `json:"cd_gear"`

	// Side force
	CYBeta   float64 `json:"cy_beta"`
	CYRudder float64 `json:"cy_rudder"`

	// Rolling moment
	CRollBeta    float64 `json:"croll_beta"`
	CRollP       float64 `json:"croll_p"`
	CRollR       float64 `json:"croll_r"`
	CRollAileron float64 `json:"croll_aileron"`
	CRollRudder  float64 `json:"croll_rudder"`

	// Pitching moment
	CM0        float64 `json:"cm_0"`
	CMAlpha    float64 `json:"cm_alpha"`
	CMQ        float64 `json:"cm_q"`
	CMAlphaDot float64 `json:"cm_alpha_dot"`
	CMElevator float64 `json:"cm_elevator"`
	CMFlaps    float64 `json:"cm_flaps"`

	// Yawing moment
	CNBeta    float64 `json:"cn_beta"`
	CNP       float64 `json:"cn_p"`
	CNR       float64 `json:"cn_r"`
	CNAileron float64 `json:"cn_aileron"`
	CNRudder  float64 `json:"cn_rudder"`
}

type Aircraft struct {
	Name        string               `json:"name"`
	Mass        MassProperties       `json:"mass_properties"`
	Wing        WingGeometry         `json:"wing"`
	Derivatives StabilityDerivatives `json:"derivatives"`
	Engines     []EngineSpec         `json:"engines"`
}

func (ac Aircraft) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", ac.Name),
		slog.Float64("mass", ac.Mass.Mass),
		slog.Int("engines", len(ac.Engines)))
}

func (ac *Aircraft) Validate(e *util.ErrorLogger) {
	e.Push("Aircraft " + util.Select(ac.Name != "", ac.Name, "(unnamed)"))
	defer e.Pop()

	m := ac.Mass
	if m.Mass <= 0 {
		e.ErrorString("\"mass\" must be positive")
	}
	if m.Ix <= 0 || m.Iy <= 0 || m.Iz <= 0 {
		e.ErrorString("moments of inertia must be positive")
	} else if m.Ix*m.Iz-m.Ixz*m.Ixz <= 0 {
		e.ErrorString("inertia tensor is singular: Ix·Iz must exceed Ixz²")
	}

	if ac.Wing.Chord <= 0 || ac.Wing.Span <= 0 || ac.Wing.Area <= 0 {
		e.ErrorString("wing chord, span, and area must be positive")
	}
	if !math.IsFinite3(ac.Wing.ACOffset) {
		e.ErrorString("\"ac_offset\" must be finite")
	}

	if len(ac.Engines) == 0 {
		e.ErrorString("at least one engine is required")
	} else if len(ac.Engines) > MaxEngines {
		e.ErrorString("at most %d engines are supported; %d given", MaxEngines, len(ac.Engines))
	}
	seen := make(map[int]bool)
	for _, spec := range ac.Engines {
		if seen[spec.Number] {
			e.ErrorString("engine %d is defined more than once", spec.Number)
		}
		seen[spec.Number] = true
		spec.Validate(e)
	}
}

// Check validates the aircraft and returns an error wrapping
// ErrInvalidAircraft if anything is wrong.
func (ac *Aircraft) Check() error {
	var e util.ErrorLogger
	ac.Validate(&e)
	return e.Err(ErrInvalidAircraft)
}

// NewEngines instantiates the engine models in engine-number order.
func (ac *Aircraft) NewEngines() ([]Engine, error) {
	specs := slices.SortedFunc(slices.Values(ac.Engines), func(a, b EngineSpec) int { return a.Number - b.Number })
	engines := make([]Engine, 0, len(specs))
	for _, spec := range specs {
		eng, err := NewEngine(spec)
		if err != nil {
			return nil, err
		}
		engines = append(engines, eng)
	}
	return engines, nil
}

// TotalMaxBHP returns the summed rated power of all engines.
func (ac *Aircraft) TotalMaxBHP() float64 {
	var p float64
	for _, e := range ac.Engines {
		p += e.MaxBHP
	}
	return p
}

///////////////////////////////////////////////////////////////////////////
// Built-in aircraft

var builtinAircraft = map[string]func() Aircraft{
	"navion":      Navion,
	"twin-navion": TwinNavion,
}

func BuiltinAircraftNames() []string {
	return slices.Sorted(maps.Keys(builtinAircraft))
}

// LookupAircraft returns a built-in aircraft by (case-insensitive) name.
func LookupAircraft(name string) (Aircraft, error) {
	if f, ok := builtinAircraft[strings.ToLower(name)]; ok {
		return f(), nil
	}
	return Aircraft{}, fmt.Errorf("%s: %w (available: %s)", name, ErrUnknownAircraft,
		strings.Join(BuiltinAircraftNames(), ", "))
}

// ReadAircraft decodes and validates a JSON aircraft definition.
func ReadAircraft(r io.Reader) (Aircraft, error) {
	var ac Aircraft
	if err := util.UnmarshalJSON(r, &ac); err != nil {
		return Aircraft{}, fmt.Errorf("%w: %v", ErrInvalidAircraft, err)
	}
	if err := ac.Check(); err != nil {
		return Aircraft{}, err
	}
	return ac, nil
}

// LoadAircraft resolves nameOrPath first as a built-in aircraft name
// and then as a path to a JSON definition.
func LoadAircraft(nameOrPath string) (Aircraft, error) {
	if ac, err := LookupAircraft(nameOrPath); err == nil {
		return ac, nil
	}
	f, err := os.Open(nameOrPath)
	if errors.Is(err, fs.ErrNotExist) {
		return Aircraft{}, fmt.Errorf("%s: %w: %w", nameOrPath, ErrUnknownAircraft, err)
	} else if err != nil {
		return Aircraft{}, fmt.Errorf("%s: %w", nameOrPath, err)
	}
	defer f.Close()
	return ReadAircraft(f)
}

// Navion returns a single-engine general aviation aircraft with
// sea-level derivatives for the North American Navion.
func Navion() Aircraft {
	return Aircraft{
		Name: "Navion",
		Mass: MassProperties{
			Mass: 85.48, // 2750 lb
			Ix:   1048,
			Iy:   3000,
			Iz:   3530,
		},
		Wing: WingGeometry{
			Chord: 5.7,
			Span:  33.4,
			Area:  184,
		},
		Derivatives: navionDerivatives,
		Engines: []EngineSpec{{
			Number:       1,
			Kind:         FixedPitch,
			Position:     math.Vec3{5.5, 0, 0},
			MaxBHP:       200,
			MaxRPM:       2700,
			PropDiameter: 6.5,
		}},
	}
}

// TwinNavion is the Navion airframe with two wing-mounted engines and a
// correspondingly heavier mass and roll inertia.
func TwinNavion() Aircraft {
	ac := Navion()
	ac.Name = "Twin Navion"
	ac.Mass.Mass = 99.47 // 3200 lb
	ac.Mass.Ix = 1450
	ac.Mass.Iz = 3900
	ac.Engines = []EngineSpec{
		{Number: 1, Kind: FixedPitch, Position: math.Vec3{2.5, -6, 0}, MaxBHP: 150, MaxRPM: 2700, PropDiameter: 6},
		{Number: 2, Kind: FixedPitch, Position: math.Vec3{2.5, 6, 0}, MaxBHP: 150, MaxRPM: 2700, PropDiameter: 6},
	}
	return ac
}

var navionDerivatives = StabilityDerivatives{
	CL0:        0.25,
	CLAlpha:    4.44,
	CLQ:        3.8,
	CLAlphaDot: 0,
	CLElevator: 0.355,
	CLFlaps:    0.7,

	CD0:     0.05,
	CDAlpha: 0.33,
	CDFlaps: 0.06,
	CDGear:  0.02,

	CYBeta:   -0.564,
	CYRudder: 0.157,

	CRollBeta:    -0.074,
	CRollP:       -0.410,
	CRollR:       0.107,
	CRollAileron: -0.134,
	CRollRudder:  0.107,

	CM0:        0.04,
	CMAlpha:    -0.683,
	CMQ:        -9.96,
	CMAlphaDot: -4.36,
	CMElevator: -0.923,
	CMFlaps:    -0.05,

	CNBeta:    0.071,
	CNP:       -0.0575,
	CNR:       -0.125,
	CNAileron: -0.0035,
	CNRudder:  -0.072,
}
