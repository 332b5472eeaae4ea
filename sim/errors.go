// sim/errors.go
// Copyright(c) 2022-2025 sixdof contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"errors"
)

var (
	ErrAlreadyStarted   = errors.New("Session has already been started")
	ErrControlSource    = errors.New("Control source failed")
	ErrInvalidConfig    = errors.New("Invalid configuration")
	ErrNotPaused        = errors.New("Session is not paused")
	ErrNotRunning       = errors.New("Session is not running")
	ErrSessionStopped   = errors.New("Session has been stopped")
	ErrStepPanic        = errors.New("Panic during integration step")
	ErrUnknownInputKind = errors.New("Unknown scripted input kind")
	ErrUnknownRunMode   = errors.New("Unknown run mode")
)
