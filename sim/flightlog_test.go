// sim/flightlog_test.go
// Copyright(c) 2022-2025 sixdof contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"fmt"
	"testing"

	"github.com/flightdyn/sixdof/aviation"
	"github.com/flightdyn/sixdof/fdm"
)

func TestFlightLogWindow(t *testing.T) {
	l := NewFlightLog(3, nil)
	if _, ok := l.Latest(); ok {
		t.Errorf("empty log has a latest record")
	}
	for i := range 5 {
		l.Append(Record{Time: float64(i)})
	}

	if l.Len() != 3 || l.Total() != 5 || l.Capacity() != 3 {
		t.Errorf("len %d total %d cap %d", l.Len(), l.Total(), l.Capacity())
	}
	var times []float64
	for _, r := range l.All() {
		times = append(times, r.Time)
	}
	if fmt.Sprint(times) != "[2 3 4]" {
		t.Errorf("window holds %v", times)
	}
	if r, ok := l.Latest(); !ok || r.Time != 4 {
		t.Errorf("latest %v %v", r.Time, ok)
	}

	l.Clear()
	if l.Len() != 0 || l.Total() != 0 {
		t.Errorf("Clear left %d records", l.Len())
	}
}

func TestFlightLogUnbounded(t *testing.T) {
	l := NewFlightLog(0, nil)
	for i := range 1000 {
		l.Append(Record{Time: float64(i)})
	}
	snap := l.Snapshot()
	if len(snap) != 1000 || snap[0].Time != 0 || snap[999].Time != 999 {
		t.Errorf("unbounded log lost records")
	}

	// Snapshots are copies.
	snap[0].Time = -1
	if r := l.Snapshot()[0]; r.Time != 0 {
		t.Errorf("snapshot aliases the log")
	}
}

func TestRecordColumns(t *testing.T) {
	ac := aviation.TwinNavion()
	it, err := fdm.NewIntegrator(ac, fdm.DefaultLimits(), fdm.EvaluationMultiStage)
	if err != nil {
		t.Fatal(err)
	}
	s := fdm.NewState(176, 5000, 0)
	c := aviation.DefaultControls()
	c.Throttle = [aviation.MaxEngines]float64{0.8, 0.8}
	next, ev, err := it.Step(s, c, 0.05)
	if err != nil {
		t.Fatal(err)
	}

	r := makeRecord(0.05, next, ev, c, fdm.DefaultLimits())
	cols := r.Columns()
	keys := cols.Keys()
	if keys[0] != "time" || keys[1] != "u" {
		t.Errorf("unexpected leading columns %v", keys[:2])
	}
	for _, k := range []string{"altitude", "tas", "mach", "thrust_1", "thrust_2", "rpm_2", "elevator", "throttle_4"} {
		if _, ok := cols.Get(k); !ok {
			t.Errorf("missing column %q", k)
		}
	}
	if alt, _ := cols.Get("altitude"); alt.(float64) != next.Altitude() {
		t.Errorf("altitude column %v, expected %v", alt, next.Altitude())
	}
	if len(keys) != len(r.Columns().Keys()) {
		t.Errorf("column count is not stable")
	}
}
