// util/util_test.go
// Copyright(c) 2022-2025 sixdof contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestRingBuffer(t *testing.T) {
	rb := NewRingBuffer[int](10)

	if rb.Size() != 0 {
		t.Errorf("empty should have zero size")
	}
	if _, ok := rb.Last(); ok {
		t.Errorf("empty buffer should not have a last element")
	}

	rb.Add(0, 1, 2, 3, 4)
	if rb.Size() != 5 {
		t.Errorf("expected size 5; got %d", rb.Size())
	}
	for i := 0; i < 5; i++ {
		if rb.Get(i) != i {
			t.Errorf("returned unexpected value")
		}
	}

	for i := 5; i < 18; i++ {
		rb.Add(i)
	}
	if rb.Size() != 10 {
		t.Errorf("expected size 10")
	}
	for i := 0; i < 10; i++ {
		if rb.Get(i) != 8+i {
			t.Errorf("after filling, at %d got %d, expected %d", i, rb.Get(i), 8+i)
		}
	}
	if last, ok := rb.Last(); !ok || last != 17 {
		t.Errorf("expected last element 17, got %d", last)
	}
	if rb.Total() != 18 {
		t.Errorf("expected 18 total additions, got %d", rb.Total())
	}

	c := rb.Clone()
	if len(c) != 10 || c[0] != 8 || c[9] != 17 {
		t.Errorf("unexpected clone %v", c)
	}

	rb.Clear()
	if rb.Size() != 0 || rb.Total() != 0 {
		t.Errorf("expected empty buffer after Clear")
	}
	rb.Add(42)
	if rb.Get(0) != 42 {
		t.Errorf("expected 42 after Clear/Add, got %d", rb.Get(0))
	}
}

func TestRingBufferUnbounded(t *testing.T) {
	rb := NewRingBuffer[int](0)
	for i := range 1000 {
		rb.Add(i)
	}
	if rb.Size() != 1000 || rb.Cap() != 0 {
		t.Errorf("expected 1000 elements in unbounded buffer, got %d (cap %d)", rb.Size(), rb.Cap())
	}
	n := 0
	for i, v := range rb.All() {
		if v != i {
			t.Errorf("at %d got %d", i, v)
		}
		n++
	}
	if n != 1000 {
		t.Errorf("iterated over %d elements, expected 1000", n)
	}
}

func TestErrorLogger(t *testing.T) {
	var e ErrorLogger
	if e.HaveErrors() || e.Err(nil) != nil {
		t.Errorf("fresh ErrorLogger should not have errors")
	}

	e.Push("aircraft")
	e.Push("engine 1")
	e.ErrorString("max BHP %g must be positive", -1.0)
	e.Pop()
	e.Error(errors.New("mass must be positive"))
	e.Pop()
	if e.CurrentDepth() != 0 {
		t.Errorf("expected depth 0, got %d", e.CurrentDepth())
	}

	if !e.HaveErrors() || len(e.Errors()) != 2 {
		t.Fatalf("expected two errors, got %v", e.Errors())
	}
	if e.Errors()[0] != "aircraft / engine 1: max BHP -1 must be positive" {
		t.Errorf("unexpected error string %q", e.Errors()[0])
	}

	sentinel := errors.New("invalid")
	err := e.Err(sentinel)
	if !errors.Is(err, sentinel) {
		t.Errorf("expected error to wrap the sentinel")
	}
	if !strings.Contains(err.Error(), "aircraft: mass must be positive") {
		t.Errorf("unexpected error text %q", err.Error())
	}
}

func TestUnmarshalJSONBytes(t *testing.T) {
	type cfg struct {
		DT  float64 `json:"dt"`
		End float64 `json:"end_time"`
	}

	var c cfg
	if err := UnmarshalJSONBytes([]byte(`{"dt": 0.05, "end_time": 10}`), &c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.DT != 0.05 || c.End != 10 {
		t.Errorf("unexpected decode %+v", c)
	}

	err := UnmarshalJSONBytes([]byte("{\n  \"dt\": \"fast\"\n}"), &c)
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("expected line information in error, got %v", err)
	}

	if err := UnmarshalJSONBytes([]byte(`{"dtt": 1}`), &c); err == nil {
		t.Errorf("expected an error for an unknown field")
	}
}

func TestLoggingMutex(t *testing.T) {
	var mu LoggingMutex
	var wg sync.WaitGroup
	n := 0
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				mu.Lock(nil)
				n++
				mu.Unlock(nil)
			}
		}()
	}
	wg.Wait()
	if n != 800 {
		t.Errorf("expected 800 increments, got %d", n)
	}
}
