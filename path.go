// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.11.15
//

// Implements the queryable light ray path over an environment.

package goray

import (
	"math"

	"gonum.org/v1/gonum/interp"
)

//-------------------------------------------------------------------
// Environment
//-------------------------------------------------------------------

// Environment is the model a ray propagates in: the planet shape, the
// atmosphere and the wavelength the refractive index is evaluated at.
// Immutable for the duration of a run.
type Environment struct {
	Shape      EarthShape
	Atm        AtmoModel
	Wavelength float64 // [m]
}

func NewEnvironment(shape EarthShape, atm AtmoModel) *Environment {
	return &Environment{
		Shape:      shape,
		Atm:        atm,
		Wavelength: WAVELEN,
	}
}

//-------------------------------------------------------------------
// Path
//-------------------------------------------------------------------

// Path is a light ray trajectory queryable at any ground distance.
// Distances are meters along the ground from the starting point,
// angles are radians above the local horizontal, positive ascending.
type Path interface {
	HAtDist(dist float64) (float64, error)
	AngleAtDist(dist float64) (float64, error)
}

// CastRay casts a ray from the given altitude at the given angle
// [radians above horizontal]. With straight set the ray is a geometric
// straight line, not subject to refraction.
func (env *Environment) CastRay(startH, angle float64, straight bool) Path {
	if straight {
		return &straightPath{env: env, startH: startH, angle: angle}
	}
	return newRayPath(env, startH, angle)
}

//-------------------------------------------------------------------
// Straight line path
//-------------------------------------------------------------------

type straightPath struct {
	env    *Environment
	startH float64
	angle  float64
}

// For the spherical shape a straight chord through (r0, phi=0) with local
// elevation a is r = r0 cos(a) / cos(phi + a) in polar coordinates.
func (p *straightPath) HAtDist(dist float64) (float64, error) {
	if p.env.Shape.Type == FLAT {
		return p.startH + dist*math.Tan(p.angle), nil
	}
	radius := p.env.Shape.Radius
	c := math.Cos(dist/radius + p.angle)
	if c <= 0.0 {
		// Past the vertical: the line never comes back down
		return math.Inf(1), nil
	}
	return (p.startH+radius)*math.Cos(p.angle)/c - radius, nil
}

func (p *straightPath) AngleAtDist(dist float64) (float64, error) {
	if p.env.Shape.Type == FLAT {
		return p.angle, nil
	}
	// The local horizontal rotates with the polar angle
	return p.angle + dist/p.env.Shape.Radius, nil
}

//-------------------------------------------------------------------
// Integrated ray path
//-------------------------------------------------------------------

// rayPath integrates the curvature equation on demand and memoizes the
// accepted integrator samples. Queries are answered from piecewise cubic
// Hermite fits of h(x) (slope dr) and dr(x) (slope d2r); a query beyond
// the last sample continues integrating forward, never from zero.
type rayPath struct {
	env   *Environment
	scale float64 // integration parameter units per meter of distance
	ig    *Integrator[RayState, RayStateDerivative]

	xs   []float64
	hs   []float64
	drs  []float64
	d2rs []float64

	hFit  interp.PiecewiseCubic
	drFit interp.PiecewiseCubic
	dirty bool
	fail  error
}

func newRayPath(env *Environment, startH, angle float64) *rayPath {

	// For the spherical shape the integration parameter is the polar
	// angle and the slope is dh/dphi = r tan(a)
	scale := 1.0
	dr0 := math.Tan(angle)
	if env.Shape.Type == SPHERICAL {
		scale = 1.0 / env.Shape.Radius
		dr0 = (startH + env.Shape.Radius) * math.Tan(angle)
	}

	p := &rayPath{env: env, scale: scale}
	init := RayState{X: 0.0, H: startH, Dr: dr0}
	p.ig = NewIntegrator(env.Derivative, init, NewIntegOpt().Scaled(scale))
	if err := p.push(init); err != nil {
		p.fail = err
	}
	return p
}

// push appends an accepted sample together with its curvature
func (p *rayPath) push(st RayState) error {
	d, err := p.env.Derivative(st)
	if err != nil {
		return err
	}
	p.xs = append(p.xs, st.X)
	p.hs = append(p.hs, st.H)
	p.drs = append(p.drs, st.Dr)
	p.d2rs = append(p.d2rs, d.D2r)
	p.dirty = true
	return nil
}

// ensureTo integrates forward until the samples cover parameter t
func (p *rayPath) ensureTo(t float64) error {
	if p.fail != nil {
		return p.fail
	}
	for p.xs[len(p.xs)-1] < t || len(p.xs) < 2 {
		st, err := p.ig.Advance()
		if err != nil {
			return err
		}
		if err := p.push(st); err != nil {
			return err
		}
	}
	return nil
}

// query interpolates altitude and slope at parameter t
func (p *rayPath) query(dist float64) (h, dr float64, err error) {
	t := dist * p.scale
	if err := p.ensureTo(t); err != nil {
		return 0, 0, err
	}
	if p.dirty {
		// ensureTo leaves at least two strictly increasing samples, the
		// precondition FitWithDerivatives panics on
		p.hFit.FitWithDerivatives(p.xs, p.hs, p.drs)
		p.drFit.FitWithDerivatives(p.xs, p.drs, p.d2rs)
		p.dirty = false
	}
	return p.hFit.Predict(t), p.drFit.Predict(t), nil
}

func (p *rayPath) HAtDist(dist float64) (float64, error) {
	h, _, err := p.query(dist)
	return h, err
}

func (p *rayPath) AngleAtDist(dist float64) (float64, error) {
	h, dr, err := p.query(dist)
	if err != nil {
		return 0, err
	}
	if p.env.Shape.Type == FLAT {
		return math.Atan(dr), nil
	}
	return math.Atan(dr / (h + p.env.Shape.Radius)), nil
}
