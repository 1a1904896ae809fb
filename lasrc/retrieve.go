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

// evaluateResidual runs the kernel over bc's band range for one
// candidate AOT-550nm and reduces the per-band corrections to a single
// RMS residual, following the land/water definitions: land excludes
// iband1 from the sum and compares every other band against
// erelc[b]*ros1, where ros1 is iband1's own corrected reflectance;
// water includes iband1 and sums roslamb_b^2 directly.
//
// stop reports that either testth fired on some band, or a
// denominator collapsed to a non-finite point error; both are treated
// identically by the caller, as a signal that AOT expansion should not
// continue past this candidate. err is non-nil only for
// ErrLUTOutOfRange, which the caller must propagate unchanged.
func evaluateResidual(kernel Kernel, bc BandConfig, px PixelInputs, aot550nm float64) (residual float64, stop bool, err error) {
	tth := bc.Tth(px.Water)

	res1, err := kernel.Correct(px.IBand1, aot550nm, px)
	if err != nil {
		return 0, false, err
	}
	ros1 := res1.Roslamb
	if int(px.IBand1) < len(tth) && ros1-tth[px.IBand1] < 0 {
		stop = true
	}

	var sumSq float64
	var n int
	for b := bc.StartBand; b <= bc.EndBand; b++ {
		if int(b) >= len(px.Erelc) || px.Erelc[b] <= 0 {
			continue
		}
		if !px.Water && b == px.IBand1 {
			continue
		}

		roslamb := ros1
		if b != px.IBand1 {
			cr, err := kernel.Correct(b, aot550nm, px)
			if err != nil {
				return 0, false, err
			}
			roslamb = cr.Roslamb
			if int(b) < len(tth) && roslamb-tth[b] < 0 {
				stop = true
			}
		}

		var pointErr float64
		if px.Water {
			pointErr = roslamb
		} else {
			pointErr = roslamb - px.Erelc[b]*ros1
		}
		if !finite(pointErr) {
			return math.Inf(1), true, nil
		}
		sumSq += pointErr * pointErr
		n++
	}
	if n == 0 {
		return 0, stop, nil
	}
	residual = math.Sqrt(sumSq) / float64(n)
	if !finite(residual) {
		return math.Inf(1), true, nil
	}
	return residual, stop, nil
}

// Retrieve runs the bracketed AOT-550nm line search described for the
// core loop: it sweeps kernel evaluations forward across the AOT grid
// from the iaots warm-start index while the residual keeps improving,
// then refines the result with a three-point parabolic fit.
//
// iaots is both the search's starting grid index and, via the returned
// RetrievalResult.IAots, the warm-start hint for the next pixel in
// sequence. Retrieve never fails on its own account: the only error it
// can return is ErrLUTOutOfRange surfacing from a legacy Kernel.
//
// iaot is advanced once immediately after the initial evaluation, before
// the loop below ever runs, so that iaot/iaot1/iaot2 always carry a
// one-ahead, post-increment convention. The refinement branch below
// tests iaot==1 on this absolute index: for a search that starts at
// grid index 0, iaot==1 means no step beyond the initial index was
// taken; a search that starts at a later index always reaches the
// refinement branch, even when no step was taken.
func Retrieve(kernel Kernel, bc BandConfig, px PixelInputs, iaots int) (RetrievalResult, Diagnostics, error) {
	grid := kernel.AotGrid()
	n := grid.Len()

	iaot := clampInt(iaots, 0, n-1)
	raot550 := grid.Index(iaot)

	residual, testthFired, err := evaluateResidual(kernel, bc, px, raot550)
	if err != nil {
		return RetrievalResult{}, Diagnostics{}, err
	}

	raot1, raot2 := 1e-4, 1e-6
	residual1, residual2 := 2000.0, 1000.0
	iaot1, iaot2 := 0, 0

	iaot++
	steps := 0
	for iaot < n && residual < residual1 && !testthFired {
		residual2, raot2, iaot2 = residual1, raot1, iaot1
		residual1, raot1, iaot1 = residual, raot550, iaot

		raot550 = grid.Index(iaot)
		residual, testthFired, err = evaluateResidual(kernel, bc, px, raot550)
		if err != nil {
			return RetrievalResult{}, Diagnostics{}, err
		}
		iaot++
		steps++
	}

	var raot float64
	var refined bool
	if iaot == 1 {
		raot = raot550
	} else {
		refined = true
		raotSaved := raot550
		raotMin, ok := parabolicMinimum(raot2, residual2, raot1, residual1, raot550, residual)
		if !ok || raotMin < 0.01 || raotMin > 4.0 {
			raot = raotSaved
		} else {
			residualm, _, err := evaluateResidual(kernel, bc, px, raotMin)
			if err != nil {
				return RetrievalResult{}, Diagnostics{}, err
			}
			raot = raotMin
			if residualm > residual {
				residualm, raot = residual, raotSaved
			}
			if residualm > residual1 {
				residualm, raot = residual1, raot1
			}
			if residualm > residual2 {
				residualm, raot = residual2, raot2
			}
			residual = residualm
		}
	}
	raot = clampf(raot, 0.01, 5.0)
	if !finite(residual) || residual < 0 {
		residual = 0
	}

	var iaotsOut int
	if px.Water && iaot == 1 {
		iaotsOut = 0
	} else {
		iaotsOut = iaot2 - 3
		if iaotsOut < 0 {
			iaotsOut = 0
		}
	}

	return RetrievalResult{
			Raot:     raot,
			Residual: residual,
			IAots:    iaotsOut,
		}, Diagnostics{
			TestthFired: testthFired,
			StepsTaken:  steps,
			Refined:     refined,
		}, nil
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
