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

// NumAOTValues is the number of nodes on the AOT-550nm search grid.
const NumAOTValues = 22

// AotGrid is a fixed, monotonically increasing, non-uniformly spaced
// sequence of AOT-550nm values. The spacing is deliberately uneven —
// denser near zero, where the retrieval spends most of its steps — and
// must never be resampled.
type AotGrid [NumAOTValues]float64

// aotGrid is the one shared instance of AotGrid. Every Kernel and every
// call to Retrieve indexes into this same sequence so that AOT grid
// indices mean the same thing everywhere in the package.
var aotGrid = AotGrid{
	0.01, 0.05, 0.10, 0.15, 0.20, 0.30, 0.40, 0.60,
	0.80, 1.00, 1.20, 1.40, 1.60, 1.80, 2.00, 2.30,
	2.60, 3.00, 3.50, 4.00, 4.50, 5.00,
}

// DefaultAotGrid returns the AOT-550nm grid shared by every Kernel
// implementation in this package.
func DefaultAotGrid() AotGrid { return aotGrid }

// Index returns the grid value at i. It panics if i is out of range,
// the same way a slice index does.
func (g AotGrid) Index(i int) float64 { return g[i] }

// Len returns the number of grid points.
func (g AotGrid) Len() int { return len(g) }

// Clamp returns x capped at the grid value at index iaMax (itself
// clamped to the grid's index range), used to cap semi-empirical
// polynomial evaluation before it is allowed to extrapolate past a
// band's fitted range.
func (g AotGrid) Clamp(x float64, iaMax int) float64 {
	if iaMax < 0 {
		iaMax = 0
	}
	if iaMax >= len(g) {
		iaMax = len(g) - 1
	}
	if x > g[iaMax] {
		return g[iaMax]
	}
	return x
}
