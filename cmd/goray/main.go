// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.11.16
//

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	m "github.com/mkhts/goray"
)

func main() {

	// Parse command line arguments
	args, err := parseArgs()
	if err != nil {
		m.PrintE(err)
		flag.Usage()
		os.Exit(1)
	}

	// Run the main application
	if err := runApplication(args); err != nil {
		m.PrintE(err)
		os.Exit(1)
	}
}

// Ray direction (0: fixed launch angle, 1: target point, 2: horizon grazing)
type rayDir int

const (
	dirAngle rayDir = iota
	dirTarget
	dirHorizon
)

// Requested output kinds
type outKind int

const (
	outHAtDist outKind = iota
	outAngle
	outAstro
	outHorAngle
	outHorDist
)

// Main application processing
func runApplication(args cmdOpt) error {

	m.DBG_ = args.dbg

	// Build the environment
	env, err := setupEnvironment(args)
	if err != nil {
		return fmt.Errorf("failed to set up environment: %w", err)
	}

	if args.verbose {
		fmt.Println("Ray parameters chosen:")
		fmt.Printf("Earth: %s\n", env.Shape)
		fmt.Printf("Starting altitude: %g m ASL\n", args.startH)
	}

	// Create the ray path
	ray, err := createPath(args, env)
	if err != nil {
		return fmt.Errorf("failed to create ray path: %w", err)
	}

	if args.straight && args.verbose {
		fmt.Println("Straight-line calculation chosen.")
	}
	if args.verbose {
		fmt.Println()
	}

	// Compute and print the requested outputs
	for _, out := range args.output {
		if err := printOutput(args, env, ray, out); err != nil {
			return err
		}
	}
	return nil
}

// Build the environment from the shape and atmosphere options
func setupEnvironment(args cmdOpt) (*m.Environment, error) {

	shape := m.EarthShape{Type: m.SPHERICAL, Radius: args.radius * 1e3}
	if args.flat {
		shape = m.EarthShape{Type: m.FLAT}
	}

	var atm m.AtmoModel
	if len(args.atmoFn) > 0 {
		a, err := m.LoadAtmosphere(args.atmoFn)
		if err != nil {
			return nil, err
		}
		atm = a
		m.PrintD(1, "atmosphere loaded from %s\n", args.atmoFn)
	} else {
		atm = m.US76Atmosphere()
	}

	return m.NewEnvironment(shape, atm), nil
}

// Create the ray path for the chosen direction mode
func createPath(args cmdOpt, env *m.Environment) (m.Path, error) {
	switch args.dir {
	case dirTarget:
		return env.CastRayTarget(args.startH, args.tgtH, args.tgtDist, args.straight)
	case dirHorizon:
		// The horizon grazing ray starts at the reference level
		return env.CastRay(0.0, 0.0, args.straight), nil
	default:
		return env.CastRay(args.startH, m.ToRad(args.startAng), args.straight), nil
	}
}

// Compute and print one requested output
func printOutput(args cmdOpt, env *m.Environment, ray m.Path, out outKind) error {
	switch out {
	case outHAtDist:
		h, err := ray.HAtDist(args.outDist * 1e3)
		if err != nil {
			return fmt.Errorf("altitude query failed: %w", err)
		}
		if args.verbose {
			fmt.Printf("Altitude at distance %g km: %g m\n", args.outDist, h)
		} else {
			fmt.Printf("%g\n", h)
		}
	case outAngle:
		ang, err := ray.AngleAtDist(0.0)
		if err != nil {
			return fmt.Errorf("angle query failed: %w", err)
		}
		if args.verbose {
			fmt.Printf("Starting angle: %g degrees\n", m.ToDeg(ang))
		} else {
			fmt.Printf("%g\n", m.ToDeg(ang))
		}
	case outAstro:
		defl, err := m.AstroRefraction(env, ray)
		if err != nil {
			return fmt.Errorf("astronomical refraction failed: %w", err)
		}
		if args.verbose {
			fmt.Printf("Astronomical refraction angle: %g degrees\n", m.ToDeg(defl))
		} else {
			fmt.Printf("%g\n", m.ToDeg(defl))
		}
	case outHorAngle:
		_, ang, err := m.HorizonOnRay(ray, args.startH)
		if err != nil {
			return fmt.Errorf("horizon search failed: %w", err)
		}
		if args.verbose {
			fmt.Printf("Angle to the horizon: %g degrees\n", -m.ToDeg(ang))
		} else {
			fmt.Printf("%g\n", -m.ToDeg(ang))
		}
	case outHorDist:
		dist, _, err := m.HorizonOnRay(ray, args.startH)
		if err != nil {
			return fmt.Errorf("horizon search failed: %w", err)
		}
		if args.verbose {
			fmt.Printf("Distance to the horizon: %g m\n", dist)
		} else {
			fmt.Printf("%g\n", dist)
		}
	}
	return nil
}

// Structure to hold command line argument information
type cmdOpt struct {
	startH   float64
	startAng float64
	tgtH     float64
	tgtDist  float64 // [m]
	dir      rayDir
	radius   float64 // [km]
	flat     bool
	atmoFn   string
	outDist  float64 // [km]
	output   []outKind
	straight bool
	verbose  bool
	dbg      int
}

// Parse command line arguments
func parseArgs() (a cmdOpt, err error) {
	flag.Usage = func() {
		m.PrintA(`
[Usage]
	%s [Options]

Calculates paths of light in a planet's atmosphere.

[Options]
`, filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Float64Var(&a.startH, "start-h", 1.0, "Starting point altitude [m]")
	flag.Float64Var(&a.startAng, "start-angle", 0.0, "Starting direction, angle relative to horizontal [deg]. Conflicts with -tgt-h and -tgt-dist.")
	flag.Float64Var(&a.tgtH, "tgt-h", 0.0, "Target point altitude [m]. Conflicts with -start-angle.")
	var tgtDistKm float64
	flag.Float64Var(&tgtDistKm, "tgt-dist", 0.0, "Target point distance [km]. Conflicts with -start-angle.")
	flag.Float64Var(&a.radius, "radius", 6378.0, "Planet radius [km]. Conflicts with -flat.")
	flag.BoolVar(&a.flat, "flat", false, "Simulate a flat planet. Conflicts with -radius.")
	flag.StringVar(&a.atmoFn, "atmosphere", "", "Atmosphere definition file (YAML). Omit for the US76 standard atmosphere.")
	flag.Float64Var(&a.outDist, "output-dist", 0.0, "Distance at which to output the ray altitude [km]")
	outAngF := flag.Bool("output-ang", false, "Output the starting angle of the ray")
	outHorizonF := flag.Bool("output-horizon", false, "Output the angle to the horizon")
	outHorizonDistF := flag.Bool("output-horizon-dist", false, "Output the distance to the horizon")
	outAstroF := flag.Bool("output-astronomical", false, "Output the angle of deflection of rays from celestial objects")
	flag.BoolVar(&a.straight, "straight", false, "Calculation for a straight-line ray")
	flag.BoolVar(&a.verbose, "v", false, "Be verbose")
	flag.IntVar(&a.dbg, "x", 0, "Debug information display. Specify level value. 0(OFF), 1(display), 2(detailed display)")
	flag.Parse()

	a.tgtDist = tgtDistKm * 1e3

	// Flags given on the command line
	seen := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { seen[f.Name] = true })

	if a.flat && seen["radius"] {
		return a, fmt.Errorf("conflicting planet shape options chosen (-flat, -radius)")
	}

	// Choose the ray direction mode
	switch {
	case *outHorizonF || *outHorizonDistF:
		a.dir = dirHorizon
	case seen["start-angle"] && (seen["tgt-h"] || seen["tgt-dist"]):
		return a, fmt.Errorf("conflicting options detected (-start-angle, -tgt-h, -tgt-dist)")
	case seen["tgt-h"] != seen["tgt-dist"]:
		return a, fmt.Errorf("both -tgt-h and -tgt-dist must be given for a target ray")
	case seen["tgt-h"]:
		a.dir = dirTarget
	case seen["start-angle"]:
		a.dir = dirAngle
	default:
		return a, fmt.Errorf("no ray direction chosen (-start-angle, -tgt-h/-tgt-dist or a horizon output)")
	}

	// Collect the requested outputs; the horizon outputs replace the rest
	if seen["output-dist"] {
		a.output = append(a.output, outHAtDist)
	}
	if *outAngF {
		a.output = append(a.output, outAngle)
	}
	if *outAstroF {
		a.output = append(a.output, outAstro)
	}
	if *outHorizonF {
		a.output = []outKind{outHorAngle}
	}
	if *outHorizonDistF {
		a.output = []outKind{outHorDist}
	}
	if len(a.output) == 0 {
		return a, fmt.Errorf("no output requested")
	}
	return a, nil
}
