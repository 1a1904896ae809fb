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

import (
	"testing"

	"github.com/gonum/floats"
)

func constantKernel(roatm, ttatmg, satm, tgo float64) *SemiEmpiricalKernel {
	return &SemiEmpiricalKernel{
		Coeffs: []BandCoefficientSet{{
			Tgo:        tgo,
			RoatmCoef:  [NCoef]float64{roatm, 0, 0, 0, 0},
			TtatmgCoef: [NCoef]float64{ttatmg, 0, 0, 0, 0},
			SatmCoef:   [NCoef]float64{satm, 0, 0, 0, 0},
			RoatmIAMax: NumAOTValues - 1,
		}},
		Wavelengths: []float64{referenceWavelengthNM},
	}
}

// TestKernelRoundTrip checks invariant 6: the semi-empirical kernel
// recovers a chosen surface reflectance from the forward model to
// within 1e-9.
func TestKernelRoundTrip(t *testing.T) {
	const roatm, ttatmg, satm, tgo = 0.05, 0.8, 0.1, 0.95
	k := constantKernel(roatm, ttatmg, satm, tgo)

	for _, rho := range []float64{0.0, 0.05, 0.3, 0.6, 0.95, 1.0} {
		y := ttatmg * rho / (1 - satm*rho)
		troatm := tgo * (roatm + y)

		px := PixelInputs{Troatm: []float64{troatm}, Eps: 0}
		cr, err := k.Correct(0, 0.2, px)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !floats.EqualWithinAbs(cr.Roslamb, rho, 1e-9) {
			t.Errorf("rho=%v: kernel recovered %v, want within 1e-9", rho, cr.Roslamb)
		}
	}
}

// TestKernelClampsAboveRoatmIAMax checks scenario E: pushing AOT to 5.0
// with roatm_iaMax[b]=17 (grid value 3.0) evaluates the polynomial at
// 3.0, matching a reference computation at the clamp point exactly.
func TestKernelClampsAboveRoatmIAMax(t *testing.T) {
	k := &SemiEmpiricalKernel{
		Coeffs: []BandCoefficientSet{{
			Tgo:        1,
			RoatmCoef:  [NCoef]float64{0, 1, 0, 0, 0}, // roatm(x) = x
			TtatmgCoef: [NCoef]float64{1, 0, 0, 0, 0},
			SatmCoef:   [NCoef]float64{0, 0, 0, 0, 0},
			RoatmIAMax: 17, // grid[17] == 3.0
		}},
		Wavelengths: []float64{referenceWavelengthNM},
	}
	px := PixelInputs{Troatm: []float64{0}, Eps: 0}

	atClamp, err := k.Correct(0, 3.0, px)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	atFive, err := k.Correct(0, 5.0, px)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !floats.EqualWithinAbs(atClamp.Roslamb, atFive.Roslamb, 1e-12) {
		t.Errorf("AOT=5.0 was not clamped to grid[17]=3.0: roslamb(3.0)=%v roslamb(5.0)=%v", atClamp.Roslamb, atFive.Roslamb)
	}
}

func TestEvalPolyHorner(t *testing.T) {
	c := [NCoef]float64{1, 2, 3, 0, 0} // 1 + 2x + 3x^2
	if got, want := evalPoly(c, 2.0), 1+2*2.0+3*4.0; got != want {
		t.Errorf("evalPoly = %v, want %v", got, want)
	}
}

func TestKernelNeverFails(t *testing.T) {
	k := constantKernel(0.05, 1e-13, 0.99, 1)
	px := PixelInputs{Troatm: []float64{1.0}, Eps: 2.0}
	cr, err := k.Correct(0, 5.0, px)
	if err != nil {
		t.Fatalf("semi-empirical kernel returned an error: %v", err)
	}
	if !finite(cr.Roslamb) {
		t.Errorf("kernel produced a non-finite roslamb: %v", cr.Roslamb)
	}
}
