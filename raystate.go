// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.11.12
//

// Implements the ray state and its curvature equation for the flat and
// spherical planet shapes.

package goray

import (
	"fmt"
	"math"
)

//-------------------------------------------------------------------
// EarthShape
//-------------------------------------------------------------------

// Planet shape (0: spherical, 1: flat)
type ShapeType int

const (
	SPHERICAL ShapeType = iota
	FLAT
)

type EarthShape struct {
	Type   ShapeType
	Radius float64 // Planet radius [m], used for SPHERICAL
}

func (s EarthShape) String() string {
	switch s.Type {
	case SPHERICAL:
		return fmt.Sprintf("spherical with radius %g km", s.Radius/1e3)
	case FLAT:
		return "flat"
	default:
		return "UNKNOWN!"
	}
}

//-------------------------------------------------------------------
// RayState
//-------------------------------------------------------------------

// RayState is the evolving state of a light ray. X is the integration
// parameter: ground distance [m] for the flat shape, polar angle [rad]
// for the spherical one. H is the altitude above the reference level [m]
// and Dr the slope dh/dx.
type RayState struct {
	X  float64
	H  float64
	Dr float64
}

// Shift moves the state along a derivative direction by the given amount
func (s RayState) Shift(dir RayStateDerivative, amount float64) RayState {
	return RayState{
		X:  s.X + dir.Dx*amount,
		H:  s.H + dir.Dr*amount,
		Dr: s.Dr + dir.D2r*amount,
	}
}

//-------------------------------------------------------------------
// RayStateDerivative
//-------------------------------------------------------------------

// RayStateDerivative is d(RayState)/dx. Dx is 1 by construction since x is
// the integration parameter itself. The type forms a vector space so the
// integrator can combine weighted stage evaluations.
type RayStateDerivative struct {
	Dx  float64
	Dr  float64
	D2r float64
}

func (d RayStateDerivative) Add(o RayStateDerivative) RayStateDerivative {
	return RayStateDerivative{Dx: d.Dx + o.Dx, Dr: d.Dr + o.Dr, D2r: d.D2r + o.D2r}
}

func (d RayStateDerivative) Sub(o RayStateDerivative) RayStateDerivative {
	return RayStateDerivative{Dx: d.Dx - o.Dx, Dr: d.Dr - o.Dr, D2r: d.D2r - o.D2r}
}

func (d RayStateDerivative) Scale(k float64) RayStateDerivative {
	return RayStateDerivative{Dx: d.Dx * k, Dr: d.Dr * k, D2r: d.D2r * k}
}

func (d RayStateDerivative) Neg() RayStateDerivative {
	return RayStateDerivative{Dx: -d.Dx, Dr: -d.Dr, D2r: -d.D2r}
}

func (d RayStateDerivative) Norm() float64 {
	return EucNorm3(d.Dx, d.Dr, d.D2r)
}

//-------------------------------------------------------------------
// Curvature equation
//-------------------------------------------------------------------

// Derivative evaluates the curvature equation of the environment's shape.
// Spherical (x is the polar angle, r = h + R):
//
//	d2r = dr^2 dn/n + r^2 dn/n + 2 dr^2 / r + r
//
// The 2 dr^2/r and trailing r terms are the geometric part: with dn = 0
// they reproduce a straight line expressed in polar coordinates.
// Flat (x is the ground distance):
//
//	d2r = dn/n (1 + dr^2)
func (env *Environment) Derivative(s RayState) (RayStateDerivative, error) {

	nr := env.N(s.H)
	if math.IsNaN(nr) || math.IsInf(nr, 0) || nr <= 0.0 {
		return RayStateDerivative{}, fmt.Errorf("refractive index %g at h=%g m: %w", nr, s.H, ErrDomain)
	}
	dnr := env.DN(s.H)

	if env.Shape.Type == FLAT {
		return RayStateDerivative{Dx: 1.0, Dr: s.Dr, D2r: dnr / nr * (1.0 + s.Dr*s.Dr)}, nil
	}

	r := s.H + env.Shape.Radius
	if r <= 0.0 {
		return RayStateDerivative{}, fmt.Errorf("ray at r=%g m reached the planet center: %w", r, ErrDomain)
	}
	d2r := s.Dr*s.Dr*dnr/nr + r*r*dnr/nr + 2.0*s.Dr*s.Dr/r + r
	return RayStateDerivative{Dx: 1.0, Dr: s.Dr, D2r: d2r}, nil
}
