// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.11.15
//

// Implements the inverse searches over ray paths: distance for a given
// altitude, launch angle for a given target, and the derived horizon and
// astronomical refraction quantities.

package goray

import (
	"errors"
	"fmt"
	"math"
)

// Shooting solver constants
const (
	MAX_SHOOT_ANGLE = 1.5   // Launch angle search bracket [rad]
	SHOOT_ANGLE_TOL = 1e-12 // Launch angle bisection tolerance [rad]
)

// FindDistForH searches [0, MAX_DIST] for the distance at which the path
// altitude crosses tgtH and returns the bracket midpoint once the bracket
// is narrower than DIST_TOL. Assumes altitude is monotonic over the
// bracket; a non-monotonic path converges to some crossing, not
// necessarily the intended one.
func FindDistForH(ray Path, tgtH float64) (float64, error) {

	minDist, maxDist := 0.0, MAX_DIST

	for maxDist-minDist > DIST_TOL {
		cur := 0.5 * (minDist + maxDist)
		h, err := ray.HAtDist(cur)
		if err != nil {
			return 0, fmt.Errorf("FindDistForH() failed at dist=%g m: %w", cur, err)
		}
		if h > tgtH {
			maxDist = cur
		} else {
			minDist = cur
		}
	}
	return 0.5 * (minDist + maxDist), nil
}

// CastRayTarget finds the launch angle whose ray passes through altitude
// tgtH at distance tgtDist [m] and returns the resulting path. The angle
// is found by bisection on the altitude residual at tgtDist; every probe
// costs one full cast. An unbracketed target reports ErrNonConvergence.
func (env *Environment) CastRayTarget(startH, tgtH, tgtDist float64, straight bool) (Path, error) {

	resid := func(a float64) (float64, error) {
		h, err := env.CastRay(startH, a, straight).HAtDist(tgtDist)
		if errors.Is(err, ErrDomain) {
			// The probe ray crashed before reaching the target
			// distance, so it passed below the target
			return math.Inf(-1), nil
		}
		if err != nil {
			return 0, err
		}
		return h - tgtH, nil
	}

	lo, hi := -MAX_SHOOT_ANGLE, MAX_SHOOT_ANGLE
	flo, err := resid(lo)
	if err != nil {
		return nil, fmt.Errorf("CastRayTarget() failed at angle=%g: %w", lo, err)
	}
	fhi, err := resid(hi)
	if err != nil {
		return nil, fmt.Errorf("CastRayTarget() failed at angle=%g: %w", hi, err)
	}
	if flo > 0.0 || fhi < 0.0 {
		return nil, fmt.Errorf("target h=%g m at dist=%g m not bracketed by launch angles +-%g rad: %w",
			tgtH, tgtDist, MAX_SHOOT_ANGLE, ErrNonConvergence)
	}

	for hi-lo > SHOOT_ANGLE_TOL {
		mid := 0.5 * (lo + hi)
		fm, err := resid(mid)
		if err != nil {
			return nil, fmt.Errorf("CastRayTarget() failed at angle=%g: %w", mid, err)
		}
		if fm > 0.0 {
			hi = mid
		} else {
			lo = mid
		}
	}
	return env.CastRay(startH, 0.5*(lo+hi), straight), nil
}

// Horizon returns the distance [m] and the local ray angle [rad] of the
// apparent horizon seen from altitude startH. The grazing ray is cast
// from the reference level at zero angle and followed up to the observer
// altitude; the dip below the observer's horizontal is the negated angle.
func Horizon(env *Environment, startH float64, straight bool) (dist, angle float64, err error) {
	return HorizonOnRay(env.CastRay(0.0, 0.0, straight), startH)
}

// HorizonOnRay is Horizon over an already cast grazing ray, so a caller
// holding the ray reuses its memoized samples across several outputs
func HorizonOnRay(ray Path, startH float64) (dist, angle float64, err error) {

	dist, err = FindDistForH(ray, startH)
	if err != nil {
		return 0, 0, fmt.Errorf("HorizonOnRay() failed: %w", err)
	}
	angle, err = ray.AngleAtDist(dist)
	if err != nil {
		return 0, 0, fmt.Errorf("HorizonOnRay() failed: %w", err)
	}
	return dist, angle, nil
}

// AstroRefraction returns the angular deflection [rad] accumulated by the
// ray between its start and the upper atmosphere boundary at ATMO_TOP:
// the starting angle minus the final angle, corrected by the traversed
// polar angle for the spherical shape. A straight ray deflects by zero.
func AstroRefraction(env *Environment, ray Path) (float64, error) {

	dist, err := FindDistForH(ray, ATMO_TOP)
	if err != nil {
		return 0, fmt.Errorf("AstroRefraction() failed: %w", err)
	}
	a0, err := ray.AngleAtDist(0.0)
	if err != nil {
		return 0, fmt.Errorf("AstroRefraction() failed: %w", err)
	}
	aTop, err := ray.AngleAtDist(dist)
	if err != nil {
		return 0, fmt.Errorf("AstroRefraction() failed: %w", err)
	}

	defl := a0 - aTop
	if env.Shape.Type == SPHERICAL {
		defl += dist / env.Shape.Radius
	}
	return defl, nil
}
