// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.11.16
//

package goray

import (
	"errors"
	"math"
	"testing"
)

func TestStraightPathFlat(t *testing.T) {
	env := NewEnvironment(EarthShape{Type: FLAT}, US76Atmosphere())
	ray := env.CastRay(100.0, ToRad(1.0), true)

	h, err := ray.HAtDist(10e3)
	if err != nil {
		t.Fatalf("HAtDist() failed: %v", err)
	}
	want := 100.0 + 10e3*math.Tan(ToRad(1.0))
	if math.Abs(h-want) > 1e-9 {
		t.Errorf("HAtDist(10 km) = %g, want %g", h, want)
	}

	ang, err := ray.AngleAtDist(123e3)
	if err != nil {
		t.Fatalf("AngleAtDist() failed: %v", err)
	}
	if ang != ToRad(1.0) {
		t.Errorf("AngleAtDist() = %g, want constant launch angle", ang)
	}
}

func TestStraightPathSpherical(t *testing.T) {
	env := NewEnvironment(EarthShape{Type: SPHERICAL, Radius: Re}, US76Atmosphere())
	a := 0.01
	ray := env.CastRay(100.0, a, true)

	dist := 50e3
	phi := dist / Re
	wantH := (100.0+Re)*math.Cos(a)/math.Cos(phi+a) - Re
	h, err := ray.HAtDist(dist)
	if err != nil {
		t.Fatalf("HAtDist() failed: %v", err)
	}
	if math.Abs(h-wantH) > 1e-9 {
		t.Errorf("HAtDist(%g) = %g, want %g", dist, h, wantH)
	}

	ang, err := ray.AngleAtDist(dist)
	if err != nil {
		t.Fatalf("AngleAtDist() failed: %v", err)
	}
	if math.Abs(ang-(a+phi)) > 1e-15 {
		t.Errorf("AngleAtDist(%g) = %g, want %g", dist, ang, a+phi)
	}

	// Past the vertical the chord never comes back down
	h, err = ray.HAtDist(Re * 2.0)
	if err != nil {
		t.Fatalf("HAtDist() failed: %v", err)
	}
	if !math.IsInf(h, 1) {
		t.Errorf("HAtDist past the vertical = %g, want +Inf", h)
	}
}

func TestFreeRayFlatNoGradient(t *testing.T) {
	env := NewEnvironment(EarthShape{Type: FLAT}, uniformAtmo{})

	// Zero gradient, zero launch angle: the ray stays at its altitude
	ray := env.CastRay(100.0, 0.0, false)
	h, err := ray.HAtDist(10000.0)
	if err != nil {
		t.Fatalf("HAtDist() failed: %v", err)
	}
	if math.Abs(h-100.0) > 1e-9 {
		t.Errorf("HAtDist(10 km) = %g, want 100", h)
	}

	// Non-zero angle: a straight line within integration tolerance
	ray = env.CastRay(100.0, ToRad(0.5), false)
	for _, dist := range []float64{1e3, 10e3, 100e3} {
		h, err := ray.HAtDist(dist)
		if err != nil {
			t.Fatalf("HAtDist(%g) failed: %v", dist, err)
		}
		want := 100.0 + dist*math.Tan(ToRad(0.5))
		if math.Abs(h-want) > 1e-6 {
			t.Errorf("HAtDist(%g) = %g, want %g", dist, h, want)
		}
	}
}

func TestFreeRaySphericalNoGradient(t *testing.T) {
	env := NewEnvironment(EarthShape{Type: SPHERICAL, Radius: Re}, uniformAtmo{})

	// With dn = 0 the integrated ray must match the straight chord
	// expressed in the curved coordinate
	a := 0.005
	free := env.CastRay(50.0, a, false)
	chord := env.CastRay(50.0, a, true)

	for _, dist := range []float64{1e3, 20e3, 100e3} {
		got, err := free.HAtDist(dist)
		if err != nil {
			t.Fatalf("HAtDist(%g) failed: %v", dist, err)
		}
		want, err := chord.HAtDist(dist)
		if err != nil {
			t.Fatalf("HAtDist(%g) failed: %v", dist, err)
		}
		if math.Abs(got-want) > 1e-4 {
			t.Errorf("HAtDist(%g) = %.6f, chord gives %.6f", dist, got, want)
		}

		gotA, err := free.AngleAtDist(dist)
		if err != nil {
			t.Fatalf("AngleAtDist(%g) failed: %v", dist, err)
		}
		wantA, err := chord.AngleAtDist(dist)
		if err != nil {
			t.Fatalf("AngleAtDist(%g) failed: %v", dist, err)
		}
		if math.Abs(gotA-wantA) > 1e-7 {
			t.Errorf("AngleAtDist(%g) = %g, chord gives %g", dist, gotA, wantA)
		}
	}
}

func TestMonotonicLaunchAngle(t *testing.T) {
	shapes := []struct {
		name  string
		shape EarthShape
	}{
		{name: "flat", shape: EarthShape{Type: FLAT}},
		{name: "spherical", shape: EarthShape{Type: SPHERICAL, Radius: Re}},
	}

	for _, ts := range shapes {
		t.Run(ts.name, func(t *testing.T) {
			env := NewEnvironment(ts.shape, US76Atmosphere())
			prev := math.Inf(-1)
			for _, deg := range []float64{0.0, 0.5, 1.0, 2.0} {
				h, err := env.CastRay(1.0, ToRad(deg), false).HAtDist(10e3)
				if err != nil {
					t.Fatalf("HAtDist() failed for angle %g: %v", deg, err)
				}
				if h <= prev {
					t.Errorf("h at 10 km for angle %g deg is %g, not above %g", deg, h, prev)
				}
				prev = h
			}
		})
	}
}

func TestRayPathDomainFailure(t *testing.T) {
	env := NewEnvironment(EarthShape{Type: SPHERICAL, Radius: Re}, uniformAtmo{})

	// A start below the planet center is invalid from the first sample
	ray := env.CastRay(-(Re + 100.0), 0.0, false)
	if _, err := ray.HAtDist(1.0); !errors.Is(err, ErrDomain) {
		t.Errorf("HAtDist() = %v, want ErrDomain", err)
	}
}

func TestRayPathRepeatedQueries(t *testing.T) {
	env := NewEnvironment(EarthShape{Type: SPHERICAL, Radius: Re}, US76Atmosphere())
	ray := env.CastRay(1.0, ToRad(0.1), false)

	// Queries are answered from memoized samples: asking again, or for a
	// shorter distance, must reproduce the value exactly
	h1, err := ray.HAtDist(50e3)
	if err != nil {
		t.Fatalf("HAtDist() failed: %v", err)
	}
	if _, err := ray.HAtDist(80e3); err != nil {
		t.Fatalf("HAtDist() failed: %v", err)
	}
	h2, err := ray.HAtDist(50e3)
	if err != nil {
		t.Fatalf("HAtDist() failed: %v", err)
	}
	if h1 != h2 {
		t.Errorf("repeated query differs: %g vs %g", h1, h2)
	}
}
