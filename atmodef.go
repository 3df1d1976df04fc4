// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.11.8
//

// Implements loading of declarative atmosphere definitions.

package goray

import (
	"fmt"
	"os"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// AtmosphereDef is the file format of a user-supplied atmosphere: a
// pressure anchor and a piecewise linear temperature profile.
//
//	base_altitude: 0.0
//	base_pressure: 101325.0
//	temperature:
//	  - { altitude: 0.0, temperature: 288.15 }
//	  - { altitude: 11000.0, temperature: 216.65 }
type AtmosphereDef struct {
	BaseAltitude float64    `yaml:"base_altitude"`
	BasePressure float64    `yaml:"base_pressure"`
	Temperature  []TempNode `yaml:"temperature"`
}

// TempNode is one temperature profile node
type TempNode struct {
	Altitude    float64 `yaml:"altitude"`
	Temperature float64 `yaml:"temperature"`
}

// AtmosphereFromDef validates a definition and builds the layered model
func AtmosphereFromDef(def *AtmosphereDef) (*Atmosphere, error) {

	if len(def.Temperature) == 0 {
		return nil, fmt.Errorf("atmosphere definition has no temperature nodes")
	}
	if def.BasePressure <= 0.0 {
		return nil, fmt.Errorf("base_pressure must be positive, got %g", def.BasePressure)
	}
	if i := slices.IndexFunc(def.Temperature, func(n TempNode) bool { return n.Temperature <= 0.0 }); i >= 0 {
		return nil, fmt.Errorf("temperature node %d is not positive: %g K", i, def.Temperature[i].Temperature)
	}
	if !slices.IsSortedFunc(def.Temperature, func(a, b TempNode) int {
		switch {
		case a.Altitude < b.Altitude:
			return -1
		case a.Altitude > b.Altitude:
			return 1
		}
		return 0
	}) {
		return nil, fmt.Errorf("temperature node altitudes must be ascending")
	}
	for i := 0; i+1 < len(def.Temperature); i++ {
		if def.Temperature[i].Altitude == def.Temperature[i+1].Altitude {
			return nil, fmt.Errorf("duplicate temperature node altitude %g m", def.Temperature[i].Altitude)
		}
	}

	alts := make([]float64, len(def.Temperature))
	temps := make([]float64, len(def.Temperature))
	for i, n := range def.Temperature {
		alts[i] = n.Altitude
		temps[i] = n.Temperature
	}
	return NewAtmosphere(alts, temps, def.BaseAltitude, def.BasePressure), nil
}

// LoadAtmosphere reads an atmosphere definition file
func LoadAtmosphere(path string) (*Atmosphere, error) {

	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read atmosphere file: %w", err)
	}
	def := &AtmosphereDef{}
	if err := yaml.Unmarshal(buf, def); err != nil {
		return nil, fmt.Errorf("failed to parse atmosphere file: %w", err)
	}
	atm, err := AtmosphereFromDef(def)
	if err != nil {
		return nil, fmt.Errorf("invalid atmosphere definition %s: %w", path, err)
	}
	return atm, nil
}
