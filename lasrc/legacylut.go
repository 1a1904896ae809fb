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
	"math"

	"github.com/ctessum/sparse"
)

// LegacyLutTables holds the traditional table-interpolation LUTs and
// the angular-geometry and per-band gas-transmittance constants the
// legacy Kernel needs. All fields are immutable after a scene loads
// them; every retrieval for that scene reads the same *LegacyLutTables.
type LegacyLutTables struct {
	// Rolutt is the intrinsic reflectance table, shaped
	// [band, pressure, aot, solar-position].
	Rolutt *sparse.DenseArray
	// Transt is the transmission table, shaped
	// [band, pressure, aot, sun-angle].
	Transt *sparse.DenseArray
	// Sphalbt is the spherical albedo table, shaped [band, pressure, aot].
	Sphalbt *sparse.DenseArray

	// Tsmax and Tsmin bound the cosine of the scattering angle, and
	// Nbfic/Nbfi give the cumulative and per-cell azimuth bin counts,
	// all shaped [view-zenith, solar-zenith]. Together they locate the
	// solar-position slice of Rolutt/Transt that corresponds to a given
	// (view zenith, solar zenith, relative azimuth) triple.
	Tsmax, Tsmin *sparse.DenseArray
	Nbfic, Nbfi  *sparse.DenseArray

	// Pres is the surface pressure axis backing the pressure dimension
	// of every table above.
	Pres []float64

	// Per-band gas-transmittance and Rayleigh coefficients.
	Tauray    []float64
	Ogtransa1 []float64
	Ogtransb0 []float64
	Ogtransb1 []float64
	Wvtransa  []float64
	Wvtransb  []float64
	Oztransa  []float64

	// XtsStep/XtsMin and XtvStep/XtvMin describe the regular angular
	// grid Tsmax/Tsmin/Nbfic/Nbfi are indexed on.
	XtsStep, XtsMin float64
	XtvStep, XtvMin float64
}

// LegacyKernel implements Kernel using LegacyLutTables multilinear
// interpolation, the pre-semi-empirical retrieval path.
type LegacyKernel struct {
	Tables *LegacyLutTables
}

// AotGrid returns the package's shared AOT-550nm grid; the legacy
// tables' AOT axis is this same grid.
func (k *LegacyKernel) AotGrid() AotGrid { return aotGrid }

// bracket finds the pair of indices in xs (assumed sorted ascending)
// that bound x, clamping at the ends rather than extrapolating, and
// returns the linear interpolation weight for the upper index.
func bracket(xs []float64, x float64) (lo, hi int, w float64) {
	n := len(xs)
	if n == 0 {
		return 0, 0, 0
	}
	if x <= xs[0] {
		return 0, 0, 0
	}
	if x >= xs[n-1] {
		return n - 1, n - 1, 0
	}
	for i := 1; i < n; i++ {
		if x <= xs[i] {
			span := xs[i] - xs[i-1]
			if span == 0 {
				return i - 1, i, 0
			}
			return i - 1, i, (x - xs[i-1]) / span
		}
	}
	return n - 1, n - 1, 0
}

func lerp(a, b, w float64) float64 { return a + w*(b-a) }

// solarPosition locates the fractional index into Rolutt/Transt's last
// axis for one (view-zenith, solar-zenith) table cell, interpolating
// the relative azimuth within the cell's [Tsmin, Tsmax] scattering-angle
// bound and mapping it onto the cell's azimuth-bin count (Nbfi) starting
// at its cumulative offset (Nbfic).
func solarPosition(t *LegacyLutTables, iv, is int, cosRelAz float64) float64 {
	tsmin := t.Tsmin.Get(iv, is)
	tsmax := t.Tsmax.Get(iv, is)
	nb := t.Nbfi.Get(iv, is)
	cfac := t.Nbfic.Get(iv, is)
	if tsmax <= tsmin || nb <= 1 {
		return cfac
	}
	frac := clampf((cosRelAz-tsmin)/(tsmax-tsmin), 0, 1)
	return cfac + frac*(nb-1)
}

// interp4D bilinearly interpolates table along (pressure, aot) for a
// fixed band and a fractional solar-position index, at one (view, solar)
// geometry corner.
func interp4D(table *sparse.DenseArray, band, ip0, ip1 int, wp float64, ia0, ia1 int, wa float64, solarIdx float64) float64 {
	is0 := int(math.Floor(solarIdx))
	is1 := is0 + 1
	maxIdx := table.Shape[3] - 1
	if is0 < 0 {
		is0 = 0
	}
	if is0 > maxIdx {
		is0 = maxIdx
	}
	if is1 > maxIdx {
		is1 = maxIdx
	}
	ws := solarIdx - float64(is0)

	get := func(ip, ia, is int) float64 { return table.Get(band, ip, ia, is) }
	v00 := lerp(get(ip0, ia0, is0), get(ip0, ia0, is1), ws)
	v01 := lerp(get(ip0, ia1, is0), get(ip0, ia1, is1), ws)
	v10 := lerp(get(ip1, ia0, is0), get(ip1, ia0, is1), ws)
	v11 := lerp(get(ip1, ia1, is0), get(ip1, ia1, is1), ws)
	v0 := lerp(v00, v01, wa)
	v1 := lerp(v10, v11, wa)
	return lerp(v0, v1, wp)
}

func interp3D(table *sparse.DenseArray, band, ip0, ip1 int, wp float64, ia0, ia1 int, wa float64) float64 {
	v0 := lerp(table.Get(band, ip0, ia0), table.Get(band, ip0, ia1), wa)
	v1 := lerp(table.Get(band, ip1, ia0), table.Get(band, ip1, ia1), wa)
	return lerp(v0, v1, wp)
}

// Correct implements Kernel using multilinear interpolation into the
// legacy LUTs, following the pressure/AOT/geometry branch structure
// spec'd for the traditional retrieval path. It returns ErrLUTOutOfRange
// if band or a table's shape cannot support the lookup at all (rather
// than merely needing a clamp).
func (k *LegacyKernel) Correct(band BandIndex, aot550nm float64, px PixelInputs) (CorrectionResult, error) {
	t := k.Tables
	b := int(band)

	if b < 0 || b >= t.Rolutt.Shape[0] || b >= len(t.Tauray) {
		return CorrectionResult{}, ErrLUTOutOfRange
	}

	ip0, ip1, wp := bracket(t.Pres, clampf(px.Geom.SurfacePressure, t.Pres[0], t.Pres[len(t.Pres)-1]))
	ia0, ia1, wa := bracket(aotGrid[:], clampf(aot550nm, aotGrid[0], aotGrid[len(aotGrid)-1]))

	xts := px.Geom.SolarZenithDeg
	xtv := px.Geom.ViewZenithDeg
	if t.XtsStep == 0 || t.XtvStep == 0 {
		return CorrectionResult{}, ErrLUTOutOfRange
	}
	nSolar := t.Tsmax.Shape[1]
	nView := t.Tsmax.Shape[0]
	isF := clampf((xts-t.XtsMin)/t.XtsStep, 0, float64(nSolar-1))
	ivF := clampf((xtv-t.XtvMin)/t.XtvStep, 0, float64(nView-1))
	iv0 := int(math.Floor(ivF))
	iv1 := iv0 + 1
	if iv1 > nView-1 {
		iv1 = nView - 1
	}
	wv := ivF - float64(iv0)
	is0 := int(math.Floor(isF))
	is1 := is0 + 1
	if is1 > nSolar-1 {
		is1 = nSolar - 1
	}
	ws := isF - float64(is0)

	cosRelAz := cosDeg(px.Geom.RelativeAzimuth)
	sp00 := solarPosition(t, iv0, is0, cosRelAz)
	sp01 := solarPosition(t, iv0, is1, cosRelAz)
	sp10 := solarPosition(t, iv1, is0, cosRelAz)
	sp11 := solarPosition(t, iv1, is1, cosRelAz)

	ro00 := interp4D(t.Rolutt, b, ip0, ip1, wp, ia0, ia1, wa, sp00)
	ro01 := interp4D(t.Rolutt, b, ip0, ip1, wp, ia0, ia1, wa, sp01)
	ro10 := interp4D(t.Rolutt, b, ip0, ip1, wp, ia0, ia1, wa, sp10)
	ro11 := interp4D(t.Rolutt, b, ip0, ip1, wp, ia0, ia1, wa, sp11)
	roatm := lerp(lerp(ro00, ro01, ws), lerp(ro10, ro11, ws), wv)

	tr00 := interp4D(t.Transt, b, ip0, ip1, wp, ia0, ia1, wa, sp00)
	tr01 := interp4D(t.Transt, b, ip0, ip1, wp, ia0, ia1, wa, sp01)
	tr10 := interp4D(t.Transt, b, ip0, ip1, wp, ia0, ia1, wa, sp10)
	tr11 := interp4D(t.Transt, b, ip0, ip1, wp, ia0, ia1, wa, sp11)
	ttatm := lerp(lerp(tr00, tr01, ws), lerp(tr10, tr11, ws), wv)

	satm := interp3D(t.Sphalbt, b, ip0, ip1, wp, ia0, ia1, wa)

	xmus := px.Geom.CosSolarZenith()
	xmuv := px.Geom.CosViewZenith()
	if xmus == 0 || xmuv == 0 {
		return CorrectionResult{}, ErrLUTOutOfRange
	}
	airmass := 1/xmus + 1/xmuv

	xrorayp := t.Tauray[b] * airmass / 4 // molecular (Rayleigh) contribution, diagnostic only

	tO3 := math.Exp(-t.Oztransa[b] * px.Geom.ColumnOzone * airmass)
	tWV := math.Exp(-t.Wvtransa[b] * math.Pow(px.Geom.ColumnWaterVapor*airmass, t.Wvtransb[b]))
	tOG := math.Exp(-t.Ogtransa1[b] * math.Pow(airmass, t.Ogtransb0[b]+t.Ogtransb1[b]))
	tgo := tO3 * tWV * tOG

	ttatmg := ttatm * tgo

	y := px.Troatm[b]/tgo - roatm
	denom := ttatmg + satm*y
	if denom < denomFloor {
		denom = denomFloor
	}
	roslamb := y / denom
	if !finite(roslamb) {
		roslamb = 0
	}
	return CorrectionResult{Roslamb: roslamb, Xrorayp: xrorayp}, nil
}
