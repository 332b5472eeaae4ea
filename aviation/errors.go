// aviation/errors.go
// Copyright(c) 2022-2025 sixdof contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import "errors"

var (
	ErrInvalidAircraft      = errors.New("Invalid aircraft definition")
	ErrInvalidEngineNumber  = errors.New("Engine number must be between 1 and 4")
	ErrUnknownAircraft      = errors.New("Unknown aircraft")
	ErrUnknownControl       = errors.New("Unknown control channel")
	ErrUnsupportedEngine    = errors.New("Unsupported engine kind")
	ErrEngineNotImplemented = errors.New("Engine kind is not implemented")
)
