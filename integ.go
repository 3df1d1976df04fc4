// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.11.12
//

// Implements an adaptive embedded Runge-Kutta integrator (Cash-Karp 4/5)
// generic over a small state/derivative vector space abstraction.

package goray

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrDomain reports a ray state outside the physically valid region
	ErrDomain = errors.New("ray outside physical domain")
	// ErrNonConvergence reports an exhausted iteration or step budget
	ErrNonConvergence = errors.New("numerical non-convergence")
)

// State is a value advanced by the integrator
type State[S, D any] interface {
	// Shift returns the state moved along dir by the given amount
	Shift(dir D, amount float64) S
}

// Derivative is the vector space the integrator combines stage
// evaluations in. Norm is the Euclidean magnitude used for the local
// error estimate.
type Derivative[D any] interface {
	Add(o D) D
	Sub(o D) D
	Scale(k float64) D
	Neg() D
	Norm() float64
}

// DerivFunc evaluates the governing equation at a state
type DerivFunc[S, D any] func(s S) (D, error)

// Integration control constants
const (
	STEP_SAFETY    = 0.9 // Safety factor for step size control
	MAX_STEP_RETRY = 40  // Maximum rejected attempts per step
	MAX_STEP_GROW  = 5.0 // Maximum step growth factor per step
	MIN_STEP_SHRNK = 0.1 // Minimum step shrink factor per rejection
)

// IntegOpt contains the integrator's error control parameters.
// Step sizes are in units of the integration parameter.
type IntegOpt struct {
	Tol      float64 // Local error tolerance per step (state norm units)
	InitStep float64 // Initial step size
	MinStep  float64 // Minimum step size; reaching it reports non-convergence
	MaxStep  float64 // Maximum step size
}

// NewIntegOpt creates an IntegOpt with default values, tuned for a
// parameter measured in meters
func NewIntegOpt() *IntegOpt {
	return &IntegOpt{
		Tol:      1e-9, // Local tolerance
		InitStep: 50.0, // [m]
		MinStep:  1e-6, // [m]
		MaxStep:  5e3,  // [m]
	}
}

// Scaled returns a copy with all step sizes multiplied by k, for
// integration parameters in other units than meters
func (opt *IntegOpt) Scaled(k float64) *IntegOpt {
	return &IntegOpt{
		Tol:      opt.Tol,
		InitStep: opt.InitStep * k,
		MinStep:  opt.MinStep * k,
		MaxStep:  opt.MaxStep * k,
	}
}

//-------------------------------------------------------------------
// Integrator
//-------------------------------------------------------------------

// Integrator advances a state along its governing equation with
// adaptive step size control
type Integrator[S State[S, D], D Derivative[D]] struct {
	f    DerivFunc[S, D]
	opt  IntegOpt
	cur  S
	step float64
}

func NewIntegrator[S State[S, D], D Derivative[D]](f DerivFunc[S, D], init S, opt *IntegOpt) *Integrator[S, D] {
	return &Integrator[S, D]{
		f:    f,
		opt:  *opt,
		cur:  init,
		step: opt.InitStep,
	}
}

// Cur returns the current state
func (ig *Integrator[S, D]) Cur() S {
	return ig.cur
}

// Cash-Karp tableau
const (
	ckB21, ckB31, ckB32 = 1.0 / 5.0, 3.0 / 40.0, 9.0 / 40.0
	ckB41, ckB42, ckB43 = 3.0 / 10.0, -9.0 / 10.0, 6.0 / 5.0
	ckB51, ckB52, ckB53 = -11.0 / 54.0, 5.0 / 2.0, -70.0 / 27.0
	ckB54               = 35.0 / 27.0
	ckB61, ckB62, ckB63 = 1631.0 / 55296.0, 175.0 / 512.0, 575.0 / 13824.0
	ckB64, ckB65        = 44275.0 / 110592.0, 253.0 / 4096.0

	ckC1, ckC3, ckC4, ckC6 = 37.0 / 378.0, 250.0 / 621.0, 125.0 / 594.0, 512.0 / 1771.0

	ckD1, ckD3, ckD4 = 2825.0 / 27648.0, 18575.0 / 48384.0, 13525.0 / 55296.0
	ckD5, ckD6       = 277.0 / 14336.0, 1.0 / 4.0
)

// Advance takes one accepted adaptive step and returns the new state.
// The step is retried with a smaller size while the embedded error
// estimate exceeds the tolerance; hitting the minimum step reports
// ErrNonConvergence (or the underlying domain error when a stage
// evaluation left the valid region).
func (ig *Integrator[S, D]) Advance() (S, error) {

	var zero S

	k1, err := ig.f(ig.cur)
	if err != nil {
		return zero, err
	}

	h := ig.step
	for retry := 0; retry < MAX_STEP_RETRY; retry++ {

		d5, errEst, stageErr := ig.stages(k1, h)
		if stageErr != nil {
			// A stage probe left the valid region; retry with a
			// smaller step, give up at the minimum step
			h *= MIN_STEP_SHRNK
			if h < ig.opt.MinStep {
				return zero, stageErr
			}
			continue
		}

		if math.IsNaN(errEst) || errEst > ig.opt.Tol {
			fac := MIN_STEP_SHRNK
			if !math.IsNaN(errEst) && errEst > 0.0 {
				fac = math.Max(MIN_STEP_SHRNK, STEP_SAFETY*math.Pow(ig.opt.Tol/errEst, 0.25))
			}
			h *= fac
			if h < ig.opt.MinStep {
				return zero, fmt.Errorf("step size underflow at tol=%g: %w", ig.opt.Tol, ErrNonConvergence)
			}
			continue
		}

		// Accept the 5th order solution
		ig.cur = ig.cur.Shift(d5, h)

		// Grow the next step on low error
		fac := MAX_STEP_GROW
		if errEst > 0.0 {
			fac = math.Min(MAX_STEP_GROW, STEP_SAFETY*math.Pow(ig.opt.Tol/errEst, 0.2))
		}
		ig.step = math.Max(ig.opt.MinStep, math.Min(h*fac, ig.opt.MaxStep))
		return ig.cur, nil
	}

	return zero, fmt.Errorf("step control rejected %d attempts: %w", MAX_STEP_RETRY, ErrNonConvergence)
}

// stages evaluates the Cash-Karp stages for step size h, returning the
// 5th order combined derivative and the local error estimate
func (ig *Integrator[S, D]) stages(k1 D, h float64) (d5 D, errEst float64, err error) {

	var zero D

	k2, err := ig.f(ig.cur.Shift(k1, ckB21*h))
	if err != nil {
		return zero, 0, err
	}
	k3, err := ig.f(ig.cur.Shift(k1.Scale(ckB31).Add(k2.Scale(ckB32)), h))
	if err != nil {
		return zero, 0, err
	}
	k4, err := ig.f(ig.cur.Shift(k1.Scale(ckB41).Add(k2.Scale(ckB42)).Add(k3.Scale(ckB43)), h))
	if err != nil {
		return zero, 0, err
	}
	k5, err := ig.f(ig.cur.Shift(k1.Scale(ckB51).Add(k2.Scale(ckB52)).Add(k3.Scale(ckB53)).Add(k4.Scale(ckB54)), h))
	if err != nil {
		return zero, 0, err
	}
	k6, err := ig.f(ig.cur.Shift(k1.Scale(ckB61).Add(k2.Scale(ckB62)).Add(k3.Scale(ckB63)).Add(k4.Scale(ckB64)).Add(k5.Scale(ckB65)), h))
	if err != nil {
		return zero, 0, err
	}

	d5 = k1.Scale(ckC1).Add(k3.Scale(ckC3)).Add(k4.Scale(ckC4)).Add(k6.Scale(ckC6))
	d4 := k1.Scale(ckD1).Add(k3.Scale(ckD3)).Add(k4.Scale(ckD4)).Add(k5.Scale(ckD5)).Add(k6.Scale(ckD6))

	// Local error: magnitude of the 4th/5th order difference over the step
	errEst = d5.Sub(d4).Scale(h).Norm()
	return d5, errEst, nil
}
