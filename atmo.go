// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.11.8
//

// Implements the layered atmosphere model (piecewise linear temperature,
// hydrostatic pressure) and the US 1976 standard atmosphere.

package goray

import (
	"math"
)

//-------------------------------------------------------------------
// Atmosphere
//-------------------------------------------------------------------

// Atmosphere is a layered atmosphere: temperature is piecewise linear
// between nodes and pressure follows the hydrostatic equation within each
// constant-lapse segment. Below the first node and above the last one the
// edge segments are extrapolated.
type Atmosphere struct {
	alts  []float64 // node altitudes, ascending [m]
	temps []float64 // node temperatures [K]
	press []float64 // node pressures [Pa]
	lapse []float64 // per-segment temperature lapse [K/m]
}

// NewAtmosphere builds a layered atmosphere from temperature profile nodes
// and a pressure anchor (basePress at baseAlt). Node altitudes must be
// strictly ascending; validation is the caller's job (see AtmosphereFromDef).
func NewAtmosphere(alts, temps []float64, baseAlt, basePress float64) *Atmosphere {

	a := &Atmosphere{
		alts:  alts,
		temps: temps,
		press: make([]float64, len(alts)),
		lapse: make([]float64, 0, len(alts)),
	}
	for i := 0; i+1 < len(alts); i++ {
		a.lapse = append(a.lapse, (temps[i+1]-temps[i])/(alts[i+1]-alts[i]))
	}

	// Pressure at the node of the anchor's segment
	i0 := a.seg(baseAlt)
	t0 := temps[i0] + a.lapseAt(i0)*(baseAlt-alts[i0])
	a.press[i0] = baro(basePress, t0, a.lapseAt(i0), alts[i0]-baseAlt)

	// Propagate hydrostatically to the remaining nodes
	for i := i0 + 1; i < len(alts); i++ {
		a.press[i] = baro(a.press[i-1], temps[i-1], a.lapseAt(i-1), alts[i]-alts[i-1])
	}
	for i := i0 - 1; i >= 0; i-- {
		a.press[i] = baro(a.press[i+1], temps[i+1], a.lapseAt(i), alts[i]-alts[i+1])
	}
	return a
}

// Temperature returns the temperature at altitude h [K]
func (a *Atmosphere) Temperature(h float64) float64 {
	i := a.seg(h)
	return a.temps[i] + a.lapseAt(i)*(h-a.alts[i])
}

// Pressure returns the hydrostatic pressure at altitude h [Pa]
func (a *Atmosphere) Pressure(h float64) float64 {
	i := a.seg(h)
	return baro(a.press[i], a.temps[i], a.lapseAt(i), h-a.alts[i])
}

// Segment index for altitude h (index of the segment's lower node,
// edge segments extend beyond the profile ends)
func (a *Atmosphere) seg(h float64) int {
	n := len(a.alts)
	if n == 1 {
		return 0
	}
	i := n - 2
	for j := 1; j < n; j++ {
		if h < a.alts[j] {
			i = j - 1
			break
		}
	}
	return i
}

func (a *Atmosphere) lapseAt(i int) float64 {
	if i >= len(a.lapse) {
		return 0.0
	}
	return a.lapse[i]
}

// Barometric formula: pressure dh above a point with pressure p0,
// temperature t0 and constant temperature lapse
func baro(p0, t0, lapse, dh float64) float64 {
	if lapse == 0.0 {
		return p0 * math.Exp(-G0*Mair*dh/(Rgas*t0))
	}
	return p0 * math.Pow((t0+lapse*dh)/t0, -G0*Mair/(Rgas*lapse))
}

//-------------------------------------------------------------------
// US 1976 standard atmosphere
//-------------------------------------------------------------------

// US76Atmosphere returns the 1976 US standard atmosphere. The last layer
// continues isothermally so that the model stays defined through the
// 200 km astronomical boundary, where refractivity is negligible anyway.
func US76Atmosphere() *Atmosphere {
	alts := []float64{0, 11000, 20000, 32000, 47000, 51000, 71000, 84852, 200000}
	temps := []float64{288.15, 216.65, 216.65, 228.65, 270.65, 270.65, 214.65, 186.946, 186.946}
	return NewAtmosphere(alts, temps, 0.0, 101325.0)
}
