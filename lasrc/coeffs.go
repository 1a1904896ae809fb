/*
Copyright © 2020 the LaSRC authors.
This file is part of LaSRC.

LaSRC is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

LaSRC is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with LaSRC.  If not, see <http://www.gnu.org/licenses/>.
*/

package lasrc

import "math"

// NCoef is the number of polynomial coefficients fitted per band for
// the semi-empirical atmospheric terms.
const NCoef = 5

// denomFloor is the smallest denominator the Lambertian inversion will
// divide by. Below this, the division is clamped rather than allowed to
// produce a non-finite surface reflectance.
const denomFloor = 1e-12

// BandCoefficientSet holds one band's semi-empirical coefficients,
// loaded once per scene and read-only thereafter.
type BandCoefficientSet struct {
	// Tgo is the scalar gaseous transmittance for this band.
	Tgo float64
	// RoatmCoef, TtatmgCoef, and SatmCoef are polynomial coefficients,
	// lowest order first, for intrinsic atmospheric reflectance, total
	// atmospheric transmittance (including other-gas absorption), and
	// spherical albedo as functions of AOT-550nm.
	RoatmCoef  [NCoef]float64
	TtatmgCoef [NCoef]float64
	SatmCoef   [NCoef]float64
	// NormextP0A3 is the normalized extinction coefficient at the
	// reference pressure-layer-0, AOT-index-3 slice.
	NormextP0A3 float64
	// RoatmIAMax is the AOT grid index above which polynomial
	// extrapolation is clamped.
	RoatmIAMax int
}

// evalPoly evaluates a degree-(NCoef-1) polynomial with coefficients
// ordered lowest-degree first, using Horner's method.
func evalPoly(c [NCoef]float64, x float64) float64 {
	v := c[NCoef-1]
	for i := NCoef - 2; i >= 0; i-- {
		v = v*x + c[i]
	}
	return v
}

// SemiEmpiricalKernel implements Kernel by evaluating per-band
// polynomial coefficients against a clamped, Ångström-adjusted AOT. It
// never fails: Correct's error return is always nil.
type SemiEmpiricalKernel struct {
	// Coeffs holds one BandCoefficientSet per band, indexed by
	// BandIndex.
	Coeffs []BandCoefficientSet
	// Wavelengths holds the nominal center wavelength, in nanometers,
	// of each band in Coeffs — typically a BandConfig.Wavelengths
	// slice.
	Wavelengths []float64
}

// AotGrid returns the package's shared AOT-550nm grid.
func (k *SemiEmpiricalKernel) AotGrid() AotGrid { return aotGrid }

// Correct implements Kernel. It never returns a non-nil error.
func (k *SemiEmpiricalKernel) Correct(band BandIndex, aot550nm float64, px PixelInputs) (CorrectionResult, error) {
	c := k.Coeffs[band]

	x := aotGrid.Clamp(aot550nm, c.RoatmIAMax)
	x *= math.Pow(referenceWavelengthNM/k.Wavelengths[band], px.Eps)

	roatm := evalPoly(c.RoatmCoef, x)
	ttatmg := evalPoly(c.TtatmgCoef, x)
	satm := evalPoly(c.SatmCoef, x)

	y := px.Troatm[band]/c.Tgo - roatm
	denom := ttatmg + satm*y
	if denom < denomFloor {
		denom = denomFloor
	}
	roslamb := y / denom
	if !finite(roslamb) {
		roslamb = 0
	}
	return CorrectionResult{Roslamb: roslamb}, nil
}
