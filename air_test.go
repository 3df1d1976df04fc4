// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.11.16
//

package goray

import (
	"math"
	"testing"
)

// uniformAtmo has constant pressure and temperature, so the refractive
// index has no altitude gradient
type uniformAtmo struct{}

func (uniformAtmo) Pressure(h float64) float64    { return 101325.0 }
func (uniformAtmo) Temperature(h float64) float64 { return 288.15 }

func TestAirIndexMinus1(t *testing.T) {
	tests := []struct {
		name        string
		wavelength  float64
		pressure    float64
		temperature float64
		rh          float64
		wantMin     float64
		wantMax     float64
	}{
		{
			name:       "green light, standard air",
			wavelength: 530e-9, pressure: 101325.0, temperature: 288.15, rh: 0.0,
			wantMin: 2.75e-4, wantMax: 2.82e-4,
		},
		{
			name:       "half pressure, roughly half refractivity",
			wavelength: 530e-9, pressure: 50662.5, temperature: 288.15, rh: 0.0,
			wantMin: 1.35e-4, wantMax: 1.45e-4,
		},
		{
			name:       "cold air is denser",
			wavelength: 530e-9, pressure: 101325.0, temperature: 248.15, rh: 0.0,
			wantMin: 3.1e-4, wantMax: 3.4e-4,
		},
		{
			name:       "near vacuum at 84 km",
			wavelength: 530e-9, pressure: 0.4, temperature: 187.0, rh: 0.0,
			wantMin: 0.0, wantMax: 1e-8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AirIndexMinus1(tt.wavelength, tt.pressure, tt.temperature, tt.rh)
			if got < tt.wantMin || got > tt.wantMax {
				t.Errorf("AirIndexMinus1() = %g, want in [%g, %g]", got, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestAirIndexHumidity(t *testing.T) {
	dry := AirIndexMinus1(530e-9, 101325.0, 288.15, 0.0)
	wet := AirIndexMinus1(530e-9, 101325.0, 288.15, 1.0)
	if wet >= dry {
		t.Errorf("humid air must have lower refractivity: dry=%g wet=%g", dry, wet)
	}
	if dry-wet > 1e-5 {
		t.Errorf("water vapour correction too large: %g", dry-wet)
	}
}

func TestRefractiveIndexGradient(t *testing.T) {
	env := NewEnvironment(EarthShape{Type: SPHERICAL, Radius: Re}, US76Atmosphere())

	if n := env.N(0.0); n < 1.0002 || n > 1.0003 {
		t.Errorf("N(0) = %g, want about 1.000278", n)
	}

	// Density decreases with altitude, so dn/dh is negative near the surface
	dn := env.DN(0.0)
	if dn > -1e-8 || dn < -4e-8 {
		t.Errorf("DN(0) = %g, want in [-4e-8, -1e-8]", dn)
	}

	// Uniform atmosphere has no gradient
	envU := NewEnvironment(EarthShape{Type: FLAT}, uniformAtmo{})
	if dn := envU.DN(1000.0); dn != 0.0 {
		t.Errorf("DN() = %g for a uniform atmosphere, want 0", dn)
	}
}

func TestRefractiveIndexVanishesAloft(t *testing.T) {
	env := NewEnvironment(EarthShape{Type: SPHERICAL, Radius: Re}, US76Atmosphere())
	if nm1 := env.N(ATMO_TOP) - 1.0; math.Abs(nm1) > 1e-9 {
		t.Errorf("refractivity at %g km = %g, want negligible", ATMO_TOP/1e3, nm1)
	}
}
