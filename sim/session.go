// sim/session.go
// Copyright(c) 2022-2025 sixdof contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/brunoga/deep"
	"github.com/goforj/godump"

	"github.com/flightdyn/sixdof/aviation"
	"github.com/flightdyn/sixdof/fdm"
	"github.com/flightdyn/sixdof/log"
	"github.com/flightdyn/sixdof/util"
)

// Session is one simulated flight: an aircraft, its integrator, a
// control source, and the log of completed steps. Sessions are
// independent of one another and may run concurrently.
type Session struct {
	cfg        Config
	aircraft   aviation.Aircraft
	integrator *fdm.Integrator
	limits     fdm.Limits
	source     ControlSource
	pacer      Pacer
	flightLog  *FlightLog
	events     *EventStream
	ownsEvents bool // events was created by NewSession
	lg         *log.Logger

	initialState    fdm.State
	initialControls aviation.Controls
	trim            *fdm.TrimResult

	// Everything below is protected by mu.
	mu       util.LoggingMutex
	runState RunState
	started  bool
	state    fdm.State
	steps    int // steps attempted since start or the last reset
	epoch    int // incremented by Reset

	// The run loop's copy of epoch; only touched by the run loop.
	integratorEpoch int

	// Run blocks on wake while paused.
	wake chan struct{}
}

type SessionOption func(*Session)

func WithControlSource(src ControlSource) SessionOption {
	return func(s *Session) { s.source = src }
}

func WithPacer(p Pacer) SessionOption {
	return func(s *Session) { s.pacer = p }
}

func WithLogger(lg *log.Logger) SessionOption {
	return func(s *Session) { s.lg = lg }
}

func WithEventStream(es *EventStream) SessionOption {
	return func(s *Session) { s.events = es }
}

// NewSession validates the configuration and aircraft and prepares a
// session in the Stopped state. Both are copied, so later changes by the
// caller do not affect the run.
func NewSession(ac aviation.Aircraft, cfg Config, opts ...SessionOption) (*Session, error) {
	if err := cfg.Check(); err != nil {
		return nil, err
	}
	if err := ac.Check(); err != nil {
		return nil, err
	}

	s := &Session{
		cfg:      deep.MustCopy(cfg),
		aircraft: deep.MustCopy(ac),
		limits:   cfg.limits(),
		wake:     make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.lg != nil {
		s.lg = s.lg.With(slog.String("aircraft", ac.Name))
	}

	var err error
	if s.integrator, err = fdm.NewIntegrator(s.aircraft, s.limits, s.cfg.Evaluation); err != nil {
		return nil, err
	}

	s.initialControls = aviation.DefaultControls()
	if s.cfg.Trim != nil {
		tr, err := fdm.Trim(&s.aircraft, *s.cfg.Trim, s.limits)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		s.trim = &tr
		s.initialState = tr.State
		s.initialControls = tr.Controls
		s.lg.Info("trimmed", slog.Any("trim", tr))
	}
	if s.cfg.InitialState != nil {
		copy(s.initialState[:], s.cfg.InitialState)
		s.initialState = fdm.ClampState(s.initialState, s.limits)
	}
	if s.cfg.InitialControls != nil {
		s.initialControls = s.cfg.InitialControls.Clamped()
	}
	s.state = s.initialState

	if s.source == nil {
		s.source = NewScriptedSource(s.initialControls, s.cfg.Inputs...)
	}
	if s.pacer == nil {
		s.pacer = NewPacer(s.cfg.Mode, s.cfg.DT)
	}
	if s.events == nil {
		s.events = NewEventStream(s.lg)
		s.ownsEvents = true
	}
	s.flightLog = NewFlightLog(s.cfg.LogCapacity(), s.lg)

	return s, nil
}

func (s *Session) Config() Config                     { return s.cfg }
func (s *Session) Aircraft() aviation.Aircraft        { return s.aircraft }
func (s *Session) Log() *FlightLog                    { return s.flightLog }
func (s *Session) Events() *EventStream               { return s.events }
func (s *Session) InitialState() fdm.State            { return s.initialState }
func (s *Session) InitialControls() aviation.Controls { return s.initialControls }
func (s *Session) Integrator() *fdm.Integrator        { return s.integrator }

// Trim returns the trim solution used for the initial condition, if the
// configuration requested one.
func (s *Session) Trim() (fdm.TrimResult, bool) {
	if s.trim == nil {
		return fdm.TrimResult{}, false
	}
	return *s.trim, true
}

// Latest returns the most recent record.
func (s *Session) Latest() (Record, bool) {
	return s.flightLog.Latest()
}

func (s *Session) RunState() RunState {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)
	return s.runState
}

// Time returns the current simulation time.
func (s *Session) Time() float64 {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)
	return s.timeAt(s.steps)
}

// State returns the current committed state.
func (s *Session) State() fdm.State {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)
	return s.state
}

// timeAt computes time from the step count so that it doesn't
// accumulate rounding error.
func (s *Session) timeAt(steps int) float64 {
	return s.cfg.StartTime + float64(steps)*s.cfg.DT
}

func (s *Session) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Session) post(t EventType, err error) {
	s.events.Post(Event{Type: t, Time: s.timeAt(s.steps), Err: err})
}

// Pause stops stepping at the start of the next step.
func (s *Session) Pause() error {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)

	if s.runState != Running {
		return fmt.Errorf("%s: %w", s.runState, ErrNotRunning)
	}
	s.runState = Paused
	s.lg.Info("paused", slog.Float64("time", s.timeAt(s.steps)))
	s.post(PausedEvent, nil)
	return nil
}

func (s *Session) Resume() error {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)

	if s.runState != Paused {
		return fmt.Errorf("%s: %w", s.runState, ErrNotPaused)
	}
	s.runState = Running
	s.lg.Info("resumed", slog.Float64("time", s.timeAt(s.steps)))
	s.post(ResumedEvent, nil)
	s.signal()
	return nil
}

// Reset returns a paused session to its initial state and time, clears
// the flight log, and resumes running. It is an error to reset a session
// that is not paused.
func (s *Session) Reset() error {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)

	if s.runState != Paused {
		return fmt.Errorf("%s: %w", s.runState, ErrNotPaused)
	}

	s.state = s.initialState
	s.steps = 0
	s.epoch++
	s.flightLog.Clear()
	if r, ok := s.source.(Resetter); ok {
		r.Reset()
	}

	s.runState = Running
	s.lg.Info("reset", slog.Any("state", s.state))
	s.post(ResetEvent, nil)
	s.signal()
	return nil
}

// Stop ends the run permanently.
func (s *Session) Stop() {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)

	if s.runState != Stopped {
		s.runState = Stopped
		s.lg.Info("stopped", slog.Float64("time", s.timeAt(s.steps)))
		s.post(StoppedEvent, nil)
	}
	if !s.started {
		// Stop before Run means Run should return immediately, and
		// there's no run to release the event stream.
		s.started = true
		s.releaseEvents()
	}
	s.signal()
}

// releaseEvents stops the event stream's monitor if the session created
// the stream. Subscribers can still read the events already posted.
func (s *Session) releaseEvents() {
	if s.ownsEvents {
		s.events.Destroy()
	}
}

// Run steps the session until it reaches the configured end time, is
// stopped, or ctx is canceled, in which case ctx's error is returned. A
// session may only be run once.
func (s *Session) Run(ctx context.Context) error {
	s.mu.Lock(s.lg)
	if s.started {
		s.mu.Unlock(s.lg)
		return ErrAlreadyStarted
	}
	s.started = true
	s.runState = Running
	s.post(StartedEvent, nil)
	s.mu.Unlock(s.lg)

	defer s.releaseEvents()

	s.lg.Info("run started", slog.String("mode", s.cfg.Mode.String()),
		slog.Float64("dt", s.cfg.DT), slog.Bool("continuous", s.cfg.Continuous))
	start := time.Now()

	nsteps := s.cfg.NumSteps()
	for {
		if err := ctx.Err(); err != nil {
			s.finish(StoppedEvent)
			s.lg.Info("run canceled", slog.Any("err", err))
			return err
		}

		s.mu.Lock(s.lg)
		rs, steps := s.runState, s.steps
		s.mu.Unlock(s.lg)

		switch rs {
		case Stopped:
			return nil
		case Paused:
			select {
			case <-s.wake:
			case <-ctx.Done():
			}
			continue
		}

		if !s.cfg.Continuous && steps >= nsteps {
			s.finish(CompletedEvent)
			s.lg.Info("run complete", slog.Int("steps", steps),
				slog.Duration("elapsed", time.Since(start)), slog.Any("log", s.flightLog))
			return nil
		}

		s.step()

		if err := s.pacer.Wait(ctx); err != nil && ctx.Err() == nil {
			s.lg.Warn("pacing interrupted", slog.Any("err", err))
			s.mu.Lock(s.lg)
			s.post(PacingErrorEvent, err)
			s.mu.Unlock(s.lg)
		}
	}
}

func (s *Session) finish(ev EventType) {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)
	if s.runState != Stopped {
		s.runState = Stopped
		s.post(ev, nil)
	}
}

// step advances the simulation by one dt. Failures of any kind are
// logged and posted as events; time still advances but the state is
// left as it was.
func (s *Session) step() {
	s.mu.Lock(s.lg)
	state, steps, epoch := s.state, s.steps, s.epoch
	s.mu.Unlock(s.lg)

	if epoch != s.integratorEpoch {
		s.integrator.Reset()
		s.integratorEpoch = epoch
	}

	t := s.timeAt(steps)
	next, rec, err := s.integrate(state, t)

	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)

	if s.epoch != epoch {
		// Reset while this step was in flight.
		return
	}
	s.steps++
	if err != nil {
		s.lg.Error("step failed", slog.Float64("time", t), slog.Any("err", err),
			slog.String("state", godump.DumpStr(state)))
		s.post(StepErrorEvent, err)
		return
	}
	s.state = next
	s.flightLog.Append(rec)
}

func (s *Session) integrate(state fdm.State, t float64) (next fdm.State, rec Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrStepPanic, r)
			s.lg.Error("step panic", slog.Any("panic", r), slog.String("stack", string(debug.Stack())))
		}
	}()

	c, err := s.source.Controls(t)
	if err != nil {
		return state, Record{}, fmt.Errorf("%w: %w", ErrControlSource, err)
	}

	next, ev, err := s.integrator.Step(state, c, s.cfg.DT)
	if err != nil {
		s.lg.Debug("integration failed", slog.String("controls", godump.DumpStr(c)))
		return state, Record{}, err
	}
	return next, makeRecord(t+s.cfg.DT, next, ev, c, s.limits), nil
}

func (s *Session) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("aircraft", s.aircraft.Name),
		slog.String("run_state", s.RunState().String()),
		slog.Float64("time", s.Time()))
}
