// aviation/wind.go
// Copyright(c) 2022-2025 sixdof contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import "log/slog"

// WindParameters describes the relative wind: true airspeed in ft/s and
// sideslip and angle of attack in radians.
type WindParameters struct {
	TrueAirspeed float64 `json:"tas"`
	Beta         float64 `json:"beta"`
	Alpha        float64 `json:"alpha"`
}

func (w WindParameters) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("tas", w.TrueAirspeed),
		slog.Float64("beta", w.Beta),
		slog.Float64("alpha", w.Alpha))
}
