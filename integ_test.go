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

func TestIntegratorLinearMotion(t *testing.T) {
	// dr is constant when d2r = 0: h must advance linearly with x
	f := func(s RayState) (RayStateDerivative, error) {
		return RayStateDerivative{Dx: 1, Dr: s.Dr, D2r: 0}, nil
	}
	ig := NewIntegrator(f, RayState{X: 0, H: 100, Dr: 0.5}, NewIntegOpt())

	var st RayState
	for i := 0; i < 200; i++ {
		var err error
		st, err = ig.Advance()
		if err != nil {
			t.Fatalf("Advance() failed: %v", err)
		}
		if st.X > 50e3 {
			break
		}
	}
	if st.X <= 50e3 {
		t.Fatalf("integrator did not reach 50 km, at x=%g", st.X)
	}
	want := 100.0 + 0.5*st.X
	if math.Abs(st.H-want) > 1e-6 {
		t.Errorf("h at x=%g is %g, want %g", st.X, st.H, want)
	}
}

func TestIntegratorStepBounds(t *testing.T) {
	opt := NewIntegOpt()
	f := func(s RayState) (RayStateDerivative, error) {
		return RayStateDerivative{Dx: 1, Dr: s.Dr, D2r: 0}, nil
	}
	ig := NewIntegrator(f, RayState{}, opt)

	prev := 0.0
	for i := 0; i < 50; i++ {
		st, err := ig.Advance()
		if err != nil {
			t.Fatalf("Advance() failed: %v", err)
		}
		if step := st.X - prev; step > opt.MaxStep*(1.0+1e-12) {
			t.Errorf("step %g exceeds MaxStep %g", step, opt.MaxStep)
		}
		prev = st.X
	}
}

func TestIntegratorStepUnderflow(t *testing.T) {
	// A derivative that never yields a finite error estimate forces the
	// step below the floor; the integrator must report it, not loop
	f := func(s RayState) (RayStateDerivative, error) {
		return RayStateDerivative{Dx: 1, Dr: math.NaN(), D2r: 0}, nil
	}
	ig := NewIntegrator(f, RayState{}, NewIntegOpt())

	_, err := ig.Advance()
	if !errors.Is(err, ErrNonConvergence) {
		t.Errorf("Advance() = %v, want ErrNonConvergence", err)
	}
}

func TestIntegratorPropagatesDomainError(t *testing.T) {
	env := NewEnvironment(EarthShape{Type: SPHERICAL, Radius: Re}, uniformAtmo{})
	ig := NewIntegrator(env.Derivative, RayState{X: 0, H: -(Re + 10.0), Dr: 0}, NewIntegOpt().Scaled(1.0/Re))

	_, err := ig.Advance()
	if !errors.Is(err, ErrDomain) {
		t.Errorf("Advance() = %v, want ErrDomain", err)
	}
}

func TestIntegOptScaled(t *testing.T) {
	opt := NewIntegOpt().Scaled(1.0 / Re)
	if opt.MaxStep != 5e3/Re || opt.InitStep != 50.0/Re {
		t.Errorf("Scaled() = %+v", opt)
	}
	if opt.Tol != NewIntegOpt().Tol {
		t.Errorf("Scaled() must not change the tolerance")
	}
}
