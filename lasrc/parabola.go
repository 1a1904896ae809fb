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

// parabolicMinimum fits a quadratic r(x) = a*x^2 + b*x + c through the
// three points (x0, y0), (x1, y1), (x2, y2) and returns the x
// coordinate of its minimum.
//
// The fit eliminates c from the three residual equations and solves for
// the minimum directly rather than recovering a and b individually:
//
//	xa = (y1 - y0) * (x2 - x0)
//	xb = (y2 - y0) * (x1 - x0)
//	xmin = 0.5 * (xa*(x2+x0) - xb*(x1+x0)) / (xa - xb)
//
// ok is false, and xmin is meaningless, when xa-xb is exactly zero
// (a flat or degenerate bracket) or the result is non-finite. Callers
// must fall back to one of the three input points in that case.
func parabolicMinimum(x0, y0, x1, y1, x2, y2 float64) (xmin float64, ok bool) {
	xa := (y1 - y0) * (x2 - x0)
	xb := (y2 - y0) * (x1 - x0)
	denom := xa - xb
	if denom == 0 {
		return 0, false
	}
	xmin = 0.5 * (xa*(x2+x0) - xb*(x1+x0)) / denom
	if !finite(xmin) {
		return 0, false
	}
	return xmin, true
}
