// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.11.2
//

package goray

const (
	PI = 3.1415926535897932 // Pi
	Re = 6378000.0          // Default Earth's radius [m]

	G0   = 9.80665   // Standard gravity [m/s^2]
	Mair = 0.0289644 // Molar mass of dry air [kg/mol]
	Rgas = 8.31432   // Universal gas constant [J/(mol K)]

	WAVELEN = 530e-9 // Wavelength used for refractivity [m]
	EPS_DN  = 0.01   // Finite difference step for dn/dh [m]

	MAX_DIST = 5000e3 // Search range for distance bisection [m]
	DIST_TOL = 1e-5   // Distance bisection tolerance [m]
	ATMO_TOP = 200e3  // Upper boundary for astronomical refraction [m]
)
