// export/export.go
// Copyright(c) 2022-2025 sixdof contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package export writes flight logs for use by plotting and analysis
// tools. It only reads the public record sequence of a session.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/flightdyn/sixdof/sim"
)

var (
	ErrUnknownFormat     = errors.New("unknown export format")
	ErrInconsistentShape = errors.New("records have differing columns")
)

type Format int

const (
	CSV Format = iota
	JSONLines
	Msgpack
)

func (f Format) String() string {
	switch f {
	case CSV:
		return "csv"
	case JSONLines:
		return "jsonl"
	case Msgpack:
		return "msgpack"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "csv":
		return CSV, nil
	case "jsonl", "json":
		return JSONLines, nil
	case "msgpack", "msgpack.zst":
		return Msgpack, nil
	default:
		return 0, fmt.Errorf("%q: %w", s, ErrUnknownFormat)
	}
}

// FormatForFile picks the format from a filename's extension.
func FormatForFile(fn string) (Format, error) {
	if strings.HasSuffix(fn, ".msgpack.zst") {
		return Msgpack, nil
	}
	return ParseFormat(strings.TrimPrefix(filepath.Ext(fn), "."))
}

// Write writes the records in the given format.
func Write(w io.Writer, f Format, records iter.Seq2[int, sim.Record]) error {
	switch f {
	case CSV:
		return WriteCSV(w, records)
	case JSONLines:
		return WriteJSONLines(w, records)
	case Msgpack:
		var recs []sim.Record
		for _, r := range records {
			recs = append(recs, r)
		}
		return WriteMsgpack(w, recs)
	default:
		return fmt.Errorf("%s: %w", f, ErrUnknownFormat)
	}
}

// WriteCSV writes a header row naming the columns of the first record
// followed by one row per record.
func WriteCSV(w io.Writer, records iter.Seq2[int, sim.Record]) error {
	cw := csv.NewWriter(w)

	var header []string
	var row []string
	for i, r := range records {
		cols := r.Columns()
		if header == nil {
			header = cols.Keys()
			if err := cw.Write(header); err != nil {
				return err
			}
		} else if !slices.Equal(header, cols.Keys()) {
			return fmt.Errorf("record %d: %w", i, ErrInconsistentShape)
		}

		row = row[:0]
		for _, k := range header {
			v, _ := cols.Get(k)
			row = append(row, strconv.FormatFloat(v.(float64), 'g', -1, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSONLines writes each record's columns as a JSON object on its own
// line, with keys in column order.
func WriteJSONLines(w io.Writer, records iter.Seq2[int, sim.Record]) error {
	enc := json.NewEncoder(w)
	for i, r := range records {
		if err := enc.Encode(r.Columns()); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nil
}

// WriteMsgpack writes the full records, msgpack-encoded and compressed
// with zstd.
func WriteMsgpack(w io.Writer, records []sim.Record) error {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	defer zw.Close()

	if err := msgpack.NewEncoder(zw).Encode(records); err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to close zstd writer: %w", err)
	}
	return nil
}

func ReadMsgpack(r io.Reader) ([]sim.Record, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer zr.Close()

	var records []sim.Record
	if err := msgpack.NewDecoder(zr).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}
	return records, nil
}
