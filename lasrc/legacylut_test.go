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

	"github.com/ctessum/sparse"
	"github.com/gonum/floats"
)

// buildTestLegacyTables constructs a minimal, one-band legacy table set
// with values chosen so every interpolation this test exercises can be
// checked by hand: Rolutt/Transt vary linearly in (pressure, aot),
// Sphalbt varies linearly in the same two axes, and every azimuth-bin
// count is clamped to one so solarPosition always resolves to its
// cumulative offset regardless of relative azimuth.
func buildTestLegacyTables() *LegacyLutTables {
	const nPres, nAot, nSolar = 2, NumAOTValues, 2

	rolutt := sparse.ZerosDense(1, nPres, nAot, nSolar)
	transt := sparse.ZerosDense(1, nPres, nAot, nSolar)
	for ip := 0; ip < nPres; ip++ {
		for ia := 0; ia < nAot; ia++ {
			idx := (ip*nAot+ia)*nSolar + 0
			rolutt.Elements[idx] = float64(ip*10 + ia)
			transt.Elements[idx] = float64(ip*100 + ia*10)
		}
	}

	sphalbt := sparse.ZerosDense(1, nPres, nAot)
	for ip := 0; ip < nPres; ip++ {
		for ia := 0; ia < nAot; ia++ {
			sphalbt.Elements[ip*nAot+ia] = float64(ip) + 0.1*float64(ia)
		}
	}

	angular := sparse.ZerosDense(2, 2) // [view-zenith, solar-zenith]
	nbfi := sparse.ZerosDense(2, 2)
	for i := range nbfi.Elements {
		nbfi.Elements[i] = 1 // forces solarPosition's early return
	}

	return &LegacyLutTables{
		Rolutt:    rolutt,
		Transt:    transt,
		Sphalbt:   sphalbt,
		Tsmax:     angular,
		Tsmin:     angular,
		Nbfic:     sparse.ZerosDense(2, 2),
		Nbfi:      nbfi,
		Pres:      []float64{900, 1000},
		Tauray:    []float64{0},
		Ogtransa1: []float64{0},
		Ogtransb0: []float64{1},
		Ogtransb1: []float64{0},
		Wvtransa:  []float64{0},
		Wvtransb:  []float64{1},
		Oztransa:  []float64{0},
		XtsStep:   50,
		XtsMin:    0,
		XtvStep:   50,
		XtvMin:    0,
	}
}

// TestLegacyKernelCorrect checks the full pressure/AOT/geometry
// interpolation chain against a hand-computed expected value: with
// surface pressure at the table's midpoint and AOT halfway between the
// grid's first two nodes, the pressure and AOT interpolation weights
// are both 0.5, the zero solar and view zenith angles put the angular
// weights at 0, and the zeroed gas-transmittance coefficients make
// tgo=1.
func TestLegacyKernelCorrect(t *testing.T) {
	k := &LegacyKernel{Tables: buildTestLegacyTables()}
	px := PixelInputs{
		Troatm: []float64{60.5},
		Geom: Geometry{
			SolarZenithDeg:  0,
			ViewZenithDeg:   0,
			RelativeAzimuth: 30,
			SurfacePressure: 950,
		},
	}
	// aot = 0.03 sits halfway between grid nodes 0.01 and 0.05.
	cr, err := k.Correct(0, 0.03, px)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	const want = 55.0 / 85.25
	if !floats.EqualWithinAbs(cr.Roslamb, want, 1e-9) {
		t.Errorf("Roslamb = %v, want %v", cr.Roslamb, want)
	}
	if cr.Xrorayp != 0 {
		t.Errorf("Xrorayp = %v, want 0 (Tauray was zeroed)", cr.Xrorayp)
	}
}

// TestLegacyKernelOutOfRangeBand checks that a band index beyond the
// table's shape returns ErrLUTOutOfRange rather than panicking.
func TestLegacyKernelOutOfRangeBand(t *testing.T) {
	k := &LegacyKernel{Tables: buildTestLegacyTables()}
	px := PixelInputs{Troatm: []float64{0, 0, 0, 0, 0}}
	_, err := k.Correct(4, 0.03, px)
	if err != ErrLUTOutOfRange {
		t.Errorf("err = %v, want ErrLUTOutOfRange", err)
	}
}

// TestLegacyKernelMissingAngularGrid checks that an unconfigured
// angular step (the zero value a scene forgot to populate) is reported
// as ErrLUTOutOfRange rather than dividing by zero.
func TestLegacyKernelMissingAngularGrid(t *testing.T) {
	tables := buildTestLegacyTables()
	tables.XtsStep = 0
	k := &LegacyKernel{Tables: tables}
	px := PixelInputs{Troatm: []float64{60.5}}
	_, err := k.Correct(0, 0.03, px)
	if err != ErrLUTOutOfRange {
		t.Errorf("err = %v, want ErrLUTOutOfRange", err)
	}
}

func TestBracket(t *testing.T) {
	xs := []float64{0, 10, 20, 30}
	cases := []struct {
		x      float64
		lo, hi int
		w      float64
	}{
		{-5, 0, 0, 0},
		{0, 0, 0, 0},
		{5, 0, 1, 0.5},
		{30, 3, 3, 0},
		{100, 3, 3, 0},
	}
	for _, c := range cases {
		lo, hi, w := bracket(xs, c.x)
		if lo != c.lo || hi != c.hi || !floats.EqualWithinAbs(w, c.w, 1e-12) {
			t.Errorf("bracket(%v) = (%d,%d,%v), want (%d,%d,%v)", c.x, lo, hi, w, c.lo, c.hi, c.w)
		}
	}
}

func TestSolarPositionFlatBin(t *testing.T) {
	tables := buildTestLegacyTables()
	tables.Nbfic.Elements[0] = 7
	got := solarPosition(tables, 0, 0, 0.5)
	if got != 7 {
		t.Errorf("solarPosition = %v, want 7 (Nbfi<=1 forces the cumulative-offset shortcut)", got)
	}
}
