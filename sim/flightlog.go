// sim/flightlog.go
// Copyright(c) 2022-2025 sixdof contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"iter"
	"log/slog"

	"github.com/flightdyn/sixdof/log"
	"github.com/flightdyn/sixdof/util"
)

// FlightLog is the ordered sequence of step records. A session's run
// loop appends to it while any number of readers take snapshots or read
// the latest record. When created with a nonzero capacity only the most
// recent records are kept.
type FlightLog struct {
	mu      util.LoggingMutex
	records *util.RingBuffer[Record]
	lg      *log.Logger
}

func NewFlightLog(capacity int, lg *log.Logger) *FlightLog {
	return &FlightLog{
		records: util.NewRingBuffer[Record](capacity),
		lg:      lg,
	}
}

func (l *FlightLog) Append(r Record) {
	l.mu.Lock(l.lg)
	defer l.mu.Unlock(l.lg)
	l.records.Add(r)
}

// Len returns the number of records currently held.
func (l *FlightLog) Len() int {
	l.mu.Lock(l.lg)
	defer l.mu.Unlock(l.lg)
	return l.records.Size()
}

// Total returns the number of records appended since the log was created
// or last cleared, including any that have been dropped from the window.
func (l *FlightLog) Total() int {
	l.mu.Lock(l.lg)
	defer l.mu.Unlock(l.lg)
	return l.records.Total()
}

// Capacity returns the maximum number of records retained; zero means
// unbounded.
func (l *FlightLog) Capacity() int {
	return l.records.Cap()
}

// Latest returns the most recent record without copying the rest of the
// log.
func (l *FlightLog) Latest() (Record, bool) {
	l.mu.Lock(l.lg)
	defer l.mu.Unlock(l.lg)
	return l.records.Last()
}

// Snapshot returns a copy of the records, oldest first.
func (l *FlightLog) Snapshot() []Record {
	l.mu.Lock(l.lg)
	defer l.mu.Unlock(l.lg)
	return l.records.Clone()
}

// All iterates over a snapshot of the log taken when iteration begins,
// so records appended during iteration are not seen and the log is not
// locked while the caller's loop body runs.
func (l *FlightLog) All() iter.Seq2[int, Record] {
	return func(yield func(int, Record) bool) {
		for i, r := range l.Snapshot() {
			if !yield(i, r) {
				return
			}
		}
	}
}

func (l *FlightLog) Clear() {
	l.mu.Lock(l.lg)
	defer l.mu.Unlock(l.lg)
	l.records.Clear()
}

func (l *FlightLog) LogValue() slog.Value {
	l.mu.Lock(l.lg)
	defer l.mu.Unlock(l.lg)
	return slog.GroupValue(
		slog.Int("len", l.records.Size()),
		slog.Int("cap", l.records.Cap()),
		slog.Int("total", l.records.Total()))
}
