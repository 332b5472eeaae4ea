// sim/config.go
// Copyright(c) 2022-2025 sixdof contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"fmt"
	"io"
	gomath "math"
	"os"

	"github.com/flightdyn/sixdof/aviation"
	"github.com/flightdyn/sixdof/fdm"
	"github.com/flightdyn/sixdof/util"
)

// Config describes a single run. Times are in seconds.
type Config struct {
	DT         float64            `json:"dt"`
	StartTime  float64            `json:"start_time"`
	EndTime    float64            `json:"end_time"`
	Mode       RunMode            `json:"mode"`
	Continuous bool               `json:"continuous"`
	Evaluation fdm.EvaluationMode `json:"evaluation"`

	// LogWindow limits the flight log to the most recent LogWindow
	// seconds of records; zero keeps every record.
	LogWindow float64 `json:"log_window"`

	// The initial state comes from InitialState if given and otherwise
	// from trimming at Trim. The initial controls likewise come from
	// InitialControls or the trim solution.
	Trim            *fdm.TrimCondition `json:"trim,omitempty"`
	InitialState    []float64          `json:"initial_state,omitempty"`
	InitialControls *aviation.Controls `json:"initial_controls,omitempty"`

	Limits *fdm.Limits     `json:"limits,omitempty"`
	Inputs []ScriptedInput `json:"inputs,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		DT:         0.05,
		EndTime:    60,
		Mode:       AnalysisMode,
		Evaluation: fdm.EvaluationMultiStage,
		Trim:       &fdm.TrimCondition{Airspeed: 176, Altitude: 5000},
	}
}

// LoadConfig decodes a JSON configuration on top of DefaultConfig and
// validates it.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	if err := util.UnmarshalJSON(r, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, cfg.Check()
}

func LoadConfigFile(fn string) (Config, error) {
	f, err := os.Open(fn)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	cfg, err := LoadConfig(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", fn, err)
	}
	return cfg, nil
}

func (c *Config) Validate(e *util.ErrorLogger) {
	e.Push("config")
	defer e.Pop()

	if !(c.DT > 0) || gomath.IsInf(c.DT, 0) {
		e.ErrorString("\"dt\" must be positive: %v", c.DT)
	}
	if !gomath.IsNaN(c.StartTime) && !gomath.IsInf(c.StartTime, 0) {
		if !c.Continuous && (!(c.EndTime > c.StartTime) || gomath.IsInf(c.EndTime, 0)) {
			e.ErrorString("\"end_time\" (%v) must be after \"start_time\" (%v)", c.EndTime, c.StartTime)
		}
	} else {
		e.ErrorString("\"start_time\" must be finite: %v", c.StartTime)
	}
	if !(c.LogWindow >= 0) || gomath.IsInf(c.LogWindow, 0) {
		e.ErrorString("\"log_window\" must be finite and non-negative: %v", c.LogWindow)
	}
	if c.Mode != AnalysisMode && c.Mode != RealTimeMode {
		e.Error(fmt.Errorf("%d: %w", int(c.Mode), ErrUnknownRunMode))
	}
	if c.Evaluation != fdm.EvaluationMultiStage && c.Evaluation != fdm.EvaluationSingle {
		e.ErrorString("unknown evaluation mode %s", c.Evaluation)
	}

	if c.InitialState != nil {
		if len(c.InitialState) != fdm.StateSize {
			e.ErrorString("\"initial_state\" must have %d elements; got %d", fdm.StateSize, len(c.InitialState))
		}
		for i, v := range c.InitialState {
			if gomath.IsNaN(v) || gomath.IsInf(v, 0) {
				e.ErrorString("\"initial_state\" element %d (%s) is not finite", i, fdm.StateName(i))
			}
		}
	} else if c.Trim == nil {
		e.ErrorString("one of \"trim\" or \"initial_state\" must be given")
	}
	if c.Trim != nil && c.Trim.Airspeed <= 0 {
		e.ErrorString("trim airspeed must be positive")
	}

	if c.Limits != nil {
		c.Limits.Validate(e)
	}

	for i, in := range c.Inputs {
		e.Push(fmt.Sprintf("input %d", i))
		in.Validate(e)
		e.Pop()
	}
}

func (c *Config) Check() error {
	var e util.ErrorLogger
	c.Validate(&e)
	return e.Err(ErrInvalidConfig)
}

func (c *Config) limits() fdm.Limits {
	if c.Limits != nil {
		return *c.Limits
	}
	return fdm.DefaultLimits()
}

// NumSteps returns the number of steps in a fixed-duration run.
func (c *Config) NumSteps() int {
	return int(gomath.Round((c.EndTime - c.StartTime) / c.DT))
}

// LogCapacity returns the number of records retained by the flight log;
// zero means unbounded.
func (c *Config) LogCapacity() int {
	if c.LogWindow == 0 {
		return 0
	}
	return int(gomath.Ceil(c.LogWindow/c.DT - 1e-9))
}
