// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.11.8
//

// Implements the empirical refractive index model of air.

package goray

import (
	"math"

	"gonum.org/v1/gonum/diff/fd"
)

// AtmoModel supplies the thermodynamic state of the atmosphere at a given
// altitude. Altitudes are meters above the reference level and may be
// negative. Implementations must be cheap and deterministic: the ray
// integrator queries them at every step and finite-difference probe.
type AtmoModel interface {
	Pressure(h float64) float64    // [Pa]
	Temperature(h float64) float64 // [K]
}

// AirIndexMinus1 returns n-1 of air for the given wavelength [m],
// pressure [Pa], temperature [K] and relative humidity (0-1).
// Modified Edlen equation (Birch and Downs, 1994).
func AirIndexMinus1(wavelength, pressure, temperature, rh float64) float64 {

	// Wavenumber squared [1/um^2]
	s2 := 1e-12 / (wavelength * wavelength)

	// Refractivity of standard air (15 degC, 101325 Pa, dry)
	ns1 := 1e-8 * (8342.54 + 2406147.0/(130.0-s2) + 15998.0/(38.9-s2))

	// Density scaling to the actual pressure and temperature
	tc := temperature - 273.15
	ntp1 := ns1 * pressure / 96095.43 *
		(1.0 + 1e-8*(0.601-0.00972*tc)*pressure) / (1.0 + 0.0036610*tc)

	// Water vapour correction
	pv := 100.0 * 6.108 * rh * math.Exp((17.15*temperature-4684.0)/(temperature-38.45))
	return ntp1 - pv*(3.7345-0.0401*s2)*1e-10
}

func (env *Environment) nMinus1(h float64) float64 {
	return AirIndexMinus1(env.Wavelength, env.Atm.Pressure(h), env.Atm.Temperature(h), 0.0)
}

// N returns the refractive index at altitude h
func (env *Environment) N(h float64) float64 {
	return 1.0 + env.nMinus1(h)
}

// DN returns d(n)/dh at altitude h, estimated by a centered finite
// difference with a fixed small offset
func (env *Environment) DN(h float64) float64 {
	return fd.Derivative(env.nMinus1, h, &fd.Settings{
		Formula: fd.Central,
		Step:    EPS_DN,
	})
}
