// export/export_test.go
// Copyright(c) 2022-2025 sixdof contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package export

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/iancoleman/orderedmap"

	"github.com/flightdyn/sixdof/aviation"
	"github.com/flightdyn/sixdof/sim"
)

func runSession(t *testing.T, ac aviation.Aircraft) *sim.Session {
	t.Helper()
	cfg := sim.DefaultConfig()
	cfg.EndTime = 2
	cfg.Inputs = []sim.ScriptedInput{{Channel: aviation.Elevator, Kind: sim.Doublet, Start: 0.5, Duration: 0.5, Amplitude: 0.02}}
	s, err := sim.NewSession(ac, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestWriteCSV(t *testing.T) {
	s := runSession(t, aviation.Navion())

	var buf bytes.Buffer
	if err := WriteCSV(&buf, s.Log().All()); err != nil {
		t.Fatal(err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 41 {
		t.Fatalf("got %d rows, expected header + 40", len(rows))
	}
	header := rows[0]
	if header[0] != "time" || !slices.Contains(header, "thrust_1") || !slices.Contains(header, "elevator") {
		t.Errorf("unexpected header %v", header)
	}

	recs := s.Log().Snapshot()
	for i, row := range rows[1:] {
		if len(row) != len(header) {
			t.Fatalf("row %d has %d fields", i, len(row))
		}
		tm, err := strconv.ParseFloat(row[0], 64)
		if err != nil || tm != recs[i].Time {
			t.Errorf("row %d: time %q, expected %v", i, row[0], recs[i].Time)
		}
	}
}

func TestWriteCSVInconsistent(t *testing.T) {
	a := runSession(t, aviation.Navion()).Log().Snapshot()
	b := runSession(t, aviation.TwinNavion()).Log().Snapshot()

	var buf bytes.Buffer
	err := WriteCSV(&buf, slices.All(append(a[:1:1], b[0])))
	if !errors.Is(err, ErrInconsistentShape) {
		t.Errorf("expected ErrInconsistentShape, got %v", err)
	}
}

func TestWriteJSONLines(t *testing.T) {
	s := runSession(t, aviation.TwinNavion())

	var buf bytes.Buffer
	if err := Write(&buf, JSONLines, s.Log().All()); err != nil {
		t.Fatal(err)
	}

	recs := s.Log().Snapshot()
	sc := bufio.NewScanner(&buf)
	sc.Buffer(nil, 1<<20)
	n := 0
	for sc.Scan() {
		m := orderedmap.New()
		if err := json.Unmarshal(sc.Bytes(), m); err != nil {
			t.Fatalf("line %d: %v", n, err)
		}
		if !slices.Equal(m.Keys(), recs[n].Columns().Keys()) {
			t.Fatalf("line %d: key order differs from columns", n)
		}
		if v, _ := m.Get("thrust_2"); v.(float64) != recs[n].Engines[1].Thrust[0] {
			t.Errorf("line %d: thrust_2 %v, expected %v", n, v, recs[n].Engines[1].Thrust[0])
		}
		n++
	}
	if n != len(recs) {
		t.Errorf("got %d lines, expected %d", n, len(recs))
	}
}

func TestMsgpackRoundTrip(t *testing.T) {
	s := runSession(t, aviation.TwinNavion())
	recs := s.Log().Snapshot()

	var buf bytes.Buffer
	if err := Write(&buf, Msgpack, s.Log().All()); err != nil {
		t.Fatal(err)
	}
	back, err := ReadMsgpack(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(recs, back) {
		t.Errorf("records changed in msgpack round trip")
	}

	if _, err := ReadMsgpack(strings.NewReader("not zstd")); err == nil {
		t.Errorf("expected error reading garbage")
	}
}

func TestFormatForFile(t *testing.T) {
	for _, tc := range []struct {
		fn string
		f  Format
	}{
		{"out.csv", CSV},
		{"run/out.CSV", CSV},
		{"out.jsonl", JSONLines},
		{"out.json", JSONLines},
		{"out.msgpack.zst", Msgpack},
	} {
		f, err := FormatForFile(tc.fn)
		if err != nil || f != tc.f {
			t.Errorf("%s: got %s, %v; expected %s", tc.fn, f, err, tc.f)
		}
	}
	if _, err := FormatForFile("out.xlsx"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}
