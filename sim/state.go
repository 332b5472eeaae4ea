// sim/state.go
// Copyright(c) 2022-2025 sixdof contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import "fmt"

// RunState is the lifecycle state of a Session. A session starts
// Stopped, moves to Running when Run is called, may alternate between
// Running and Paused, and returns to Stopped permanently when the run
// ends.
type RunState int

const (
	Stopped RunState = iota
	Running
	Paused
)

func (r RunState) String() string {
	switch r {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return fmt.Sprintf("RunState(%d)", int(r))
	}
}

// RunMode selects whether steps are paced against the wall clock.
type RunMode int

const (
	AnalysisMode RunMode = iota
	RealTimeMode
)

func (m RunMode) String() string {
	switch m {
	case AnalysisMode:
		return "analysis"
	case RealTimeMode:
		return "realtime"
	default:
		return fmt.Sprintf("RunMode(%d)", int(m))
	}
}

func ParseRunMode(s string) (RunMode, error) {
	switch s {
	case "analysis", "":
		return AnalysisMode, nil
	case "realtime", "normal":
		return RealTimeMode, nil
	default:
		return 0, fmt.Errorf("%q: %w", s, ErrUnknownRunMode)
	}
}

func (m RunMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *RunMode) UnmarshalText(b []byte) error {
	mode, err := ParseRunMode(string(b))
	if err == nil {
		*m = mode
	}
	return err
}
