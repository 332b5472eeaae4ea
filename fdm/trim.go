// fdm/trim.go
// Copyright(c) 2022-2025 sixdof contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package fdm

import (
	"errors"
	"fmt"
	"log/slog"
	gomath "math"

	"github.com/flightdyn/sixdof/aviation"
	"github.com/flightdyn/sixdof/wx"
)

var ErrTrimFailed = errors.New("Unable to trim aircraft")

// TrimCondition specifies steady, wings-level flight.
type TrimCondition struct {
	Airspeed float64 `json:"airspeed"` // ft/s
	Altitude float64 `json:"altitude"` // ft
	Heading  float64 `json:"heading"`  // rad
}

type TrimResult struct {
	State    State             `json:"state"`
	Controls aviation.Controls `json:"controls"`
	Alpha    float64           `json:"alpha"`
	Elevator float64           `json:"elevator"`
	Throttle []float64         `json:"throttle"`
	Lift     float64           `json:"lift"`
	Drag     float64           `json:"drag"`
	Thrust   float64           `json:"thrust"`
}

func (t TrimResult) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("alpha", t.Alpha),
		slog.Float64("elevator", t.Elevator),
		slog.Any("throttle", t.Throttle),
		slog.Float64("thrust", t.Thrust))
}

// Trim finds the angle of attack, elevator, and throttle settings for
// level, unaccelerated flight with flaps and gear up. Lift and pitching
// moment are linear in α and δe, so each iteration solves a 2x2 system;
// iteration is needed only for the small coupling through drag and
// engine pitching moments. The aerodynamic reference point is assumed
// to coincide with the CG.
func Trim(ac *aviation.Aircraft, cond TrimCondition, lim Limits) (TrimResult, error) {
	if err := ac.Check(); err != nil {
		return TrimResult{}, err
	}
	if cond.Airspeed <= lim.MinAirspeed {
		return TrimResult{}, fmt.Errorf("%w: airspeed %.1f ft/s too low", ErrTrimFailed, cond.Airspeed)
	}

	d := ac.Derivatives
	atm := wx.StandardAtmosphere(cond.Altitude)
	qs := DynamicPressure(atm.Density, cond.Airspeed) * ac.Wing.Area
	weight := ac.Mass.Weight()
	totalBHP := ac.TotalMaxBHP()

	det := d.CLAlpha*d.CMElevator - d.CLElevator*d.CMAlpha
	if gomath.Abs(det) < 1e-9 {
		return TrimResult{}, fmt.Errorf("%w: lift and pitching moment are not independent in α and δe", ErrTrimFailed)
	}

	var (
		alpha, elev, lift, drag, thrust float64
		throttle                        = make([]float64, len(ac.Engines))
	)
	for range 100 {
		drag = (d.CD0 + d.CDAlpha*gomath.Abs(alpha)) * qs
		lift = weight - drag*gomath.Tan(alpha)
		thrust = drag / gomath.Cos(alpha)

		// Thrust is shared in proportion to rated power; engines above or
		// below the CG contribute a pitching moment.
		var engineCM float64
		for i, e := range ac.Engines {
			share := thrust * e.MaxBHP / totalBHP
			throttle[i] = aviation.ThrottleForThrust(e, share, atm.Density, cond.Airspeed)
			engineCM += e.Position[2] * share / (qs * ac.Wing.Chord)
		}

		cl := lift/qs - d.CL0
		cm := -d.CM0 - engineCM
		a := (cl*d.CMElevator - d.CLElevator*cm) / det
		elev = (d.CLAlpha*cm - d.CMAlpha*cl) / det

		converged := gomath.Abs(a-alpha) < 1e-12
		alpha = a
		if converged {
			break
		}
	}

	if gomath.Abs(alpha) > lim.MaxAlpha {
		return TrimResult{}, fmt.Errorf("%w: trim α %.2f° exceeds the %.2f° limit", ErrTrimFailed,
			alpha*180/gomath.Pi, lim.MaxAlpha*180/gomath.Pi)
	}
	if el := aviation.ControlLimits[aviation.Elevator]; elev < el.Min || elev > el.Max {
		return TrimResult{}, fmt.Errorf("%w: trim elevator %.3f rad out of range", ErrTrimFailed, elev)
	}

	c := aviation.DefaultControls()
	c.Elevator = elev
	for i, e := range ac.Engines {
		if throttle[i] > 1 || gomath.IsNaN(throttle[i]) || gomath.IsInf(throttle[i], 0) {
			return TrimResult{}, fmt.Errorf("%w: engine %d cannot produce the required thrust", ErrTrimFailed, e.Number)
		}
		c.Throttle[e.Number-1] = throttle[i]
	}

	s := NewState(cond.Airspeed, cond.Altitude, cond.Heading)
	sa, ca := gomath.Sincos(alpha)
	s[U] = cond.Airspeed * ca
	s[W] = cond.Airspeed * sa
	s[Theta] = alpha

	return TrimResult{
		State:    ClampState(s, lim),
		Controls: c,
		Alpha:    alpha,
		Elevator: elev,
		Throttle: throttle,
		Lift:     lift,
		Drag:     drag,
		Thrust:   thrust,
	}, nil
}
