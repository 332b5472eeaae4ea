// sim/record.go
// Copyright(c) 2022-2025 sixdof contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"fmt"
	"log/slog"

	"github.com/iancoleman/orderedmap"

	"github.com/flightdyn/sixdof/aviation"
	"github.com/flightdyn/sixdof/fdm"
	"github.com/flightdyn/sixdof/math"
	"github.com/flightdyn/sixdof/wx"
)

// Record is the output of one completed step. State, Wind, and
// Atmosphere are valid at Time; the forces, moments, coefficients,
// accelerations, and engine outputs are those evaluated at the start of
// the step (Time - dt) and applied over it. Records are never modified
// after they are added to the log.
type Record struct {
	Time         float64                 `msgpack:"t" json:"time"`
	State        fdm.State               `msgpack:"s" json:"state"`
	Wind         aviation.WindParameters `msgpack:"w" json:"wind"`
	Atmosphere   wx.Atmosphere           `msgpack:"a" json:"atmosphere"`
	Coefficients fdm.AeroCoefficients    `msgpack:"c" json:"coefficients"`
	Force        math.Vec3               `msgpack:"f" json:"force"`
	Moment       math.Vec3               `msgpack:"m" json:"moment"`
	Derivative   fdm.State               `msgpack:"d" json:"derivative"`
	Engines      []aviation.EngineOutput `msgpack:"e" json:"engines"`
	Controls     aviation.Controls       `msgpack:"u" json:"controls"`
}

func makeRecord(t float64, s fdm.State, ev fdm.Evaluation, c aviation.Controls, lim fdm.Limits) Record {
	return Record{
		Time:         t,
		State:        s,
		Wind:         fdm.WindParametersFromBody(s.Velocity(), lim),
		Atmosphere:   wx.StandardAtmosphere(s.Altitude()),
		Coefficients: ev.Coefficients,
		Force:        ev.Force,
		Moment:       ev.Moment,
		Derivative:   ev.Derivative,
		Engines:      ev.Engines,
		Controls:     c,
	}
}

func (r Record) Altitude() float64 { return r.State.Altitude() }

func (r Record) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("time", r.Time),
		slog.Any("state", r.State),
		slog.Any("wind", r.Wind))
}

// Columns returns the record flattened to named scalar values in a fixed
// order: time, the state vector, derived air data, coefficients, forces
// and moments, accelerations, per-engine outputs, and controls.
func (r Record) Columns() *orderedmap.OrderedMap {
	m := orderedmap.New()
	m.Set("time", r.Time)
	for i, v := range r.State {
		m.Set(fdm.StateName(i), v)
	}
	m.Set("altitude", r.Altitude())

	m.Set("tas", r.Wind.TrueAirspeed)
	m.Set("alpha", r.Wind.Alpha)
	m.Set("beta", r.Wind.Beta)
	m.Set("density", r.Atmosphere.Density)
	m.Set("pressure", r.Atmosphere.Pressure)
	m.Set("temperature", r.Atmosphere.Temperature)
	m.Set("speed_of_sound", r.Atmosphere.SpeedOfSound)
	m.Set("mach", r.Wind.TrueAirspeed/r.Atmosphere.SpeedOfSound)

	m.Set("cl", r.Coefficients.CL)
	m.Set("cd", r.Coefficients.CD)
	m.Set("cy", r.Coefficients.CY)
	m.Set("croll", r.Coefficients.CRoll)
	m.Set("cm", r.Coefficients.CM)
	m.Set("cn", r.Coefficients.CN)

	for i, axis := range []string{"x", "y", "z"} {
		m.Set("f"+axis, r.Force[i])
	}
	for i, axis := range []string{"l", "m", "n"} {
		m.Set("moment_"+axis, r.Moment[i])
	}
	for _, i := range []int{fdm.U, fdm.V, fdm.W, fdm.P, fdm.Q, fdm.R} {
		m.Set(fdm.StateName(i)+"_dot", r.Derivative[i])
	}

	for _, e := range r.Engines {
		m.Set(fmt.Sprintf("thrust_%d", e.Number), e.Thrust[0])
		m.Set(fmt.Sprintf("rpm_%d", e.Number), e.RPM)
		m.Set(fmt.Sprintf("fuel_flow_%d", e.Number), e.FuelFlow)
	}

	for ch := range aviation.NumControlChannels {
		m.Set(ch.String(), r.Controls.Get(ch))
	}
	return m
}
