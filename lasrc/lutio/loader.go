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

// Package lutio loads the per-scene LUT coefficient packets and legacy
// interpolation tables lasrc.Retrieve needs from a NetCDF container,
// the format the upstream auxiliary data ships in.
package lutio

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"bitbucket.org/ctessum/cdf"
	"github.com/cenkalti/backoff"
	"github.com/ctessum/requestcache"
	"github.com/ctessum/sparse"
	"github.com/usgs-eros/lasrc-core/lasrc"
)

// variable names expected in the LUT NetCDF container, one dataset per
// satellite/kernel-variant combination.
const (
	varTgo        = "tgo"
	varRoatmCoef  = "roatm_coef"
	varTtatmgCoef = "ttatmg_coef"
	varSatmCoef   = "satm_coef"
	varNormextP0A3 = "normext_p0a3"
	varRoatmIAMax = "roatm_iamax"
	varWavelength = "wavelength"

	varRolutt  = "rolutt"
	varTranst  = "transt"
	varSphalbt = "sphalbt"
	varTsmax   = "tsmax"
	varTsmin   = "tsmin"
	varNbfic   = "nbfic"
	varNbfi    = "nbfi"
	varPres    = "pres"
	varTauray  = "tauray"
	varOgtransa1 = "ogtransa1"
	varOgtransb0 = "ogtransb0"
	varOgtransb1 = "ogtransb1"
	varWvtransa  = "wvtransa"
	varWvtransb  = "wvtransb"
	varOztransa  = "oztransa"
	varXtsMin    = "xts_min"
	varXtsStep   = "xts_step"
	varXtvMin    = "xtv_min"
	varXtvStep   = "xtv_step"
)

// SceneLUT bundles everything one scene's retrieval needs, built ready
// to hand to either Kernel implementation in package lasrc.
type SceneLUT struct {
	Coeffs      []lasrc.BandCoefficientSet
	Wavelengths []float64
	Legacy      *lasrc.LegacyLutTables
}

// SemiEmpiricalKernel returns a lasrc.Kernel backed by l's coefficient
// packets.
func (l *SceneLUT) SemiEmpiricalKernel() *lasrc.SemiEmpiricalKernel {
	return &lasrc.SemiEmpiricalKernel{Coeffs: l.Coeffs, Wavelengths: l.Wavelengths}
}

// LegacyKernel returns a lasrc.Kernel backed by l's interpolation
// tables. It panics if l was loaded without the legacy tables (see
// Load's legacy argument).
func (l *SceneLUT) LegacyKernel() *lasrc.LegacyKernel {
	if l.Legacy == nil {
		panic("lutio: scene was loaded without legacy tables")
	}
	return &lasrc.LegacyKernel{Tables: l.Legacy}
}

// Loader reads SceneLUT values from a NetCDF-formatted LUT container,
// caching recently-read table slabs the way sr.Reader caches
// source-receptor records: a band's full interpolation tables are
// large enough, and re-requested often enough within one scene, to be
// worth keeping warm in memory rather than re-read from disk.
type Loader struct {
	// CacheSize is the number of distinct variable reads to keep in
	// memory. The default, used when CacheSize is zero, is 32.
	CacheSize int

	cacheInit sync.Once
	cache     *requestcache.Cache
}

func (l *Loader) cacheSize() int {
	if l.CacheSize > 0 {
		return l.CacheSize
	}
	return 32
}

// Open opens a NetCDF LUT container, retrying transient I/O failures
// with exponential backoff — the only fallible boundary this package
// touches, mirroring sr.SR's retry around job submission.
func Open(r cdf.ReaderWriterAt) (*cdf.File, error) {
	var f *cdf.File
	err := backoff.RetryNotify(
		func() error {
			var err error
			f, err = cdf.Open(r)
			return err
		},
		backoff.NewExponentialBackOff(),
		func(err error, d time.Duration) {
			fmt.Printf("lutio: retrying LUT open in %v: %v\n", d, err)
		},
	)
	return f, err
}

// Load reads a full SceneLUT from f. If legacy is false, the legacy
// interpolation tables are skipped — most scenes run the
// semi-empirical kernel and there is no reason to pay for reading the
// much larger 4-D tables.
func (l *Loader) Load(ctx context.Context, f *cdf.File, nBands int, legacy bool) (*SceneLUT, error) {
	out := &SceneLUT{}

	var err error
	out.Wavelengths, err = l.readVec(ctx, f, varWavelength, nBands)
	if err != nil {
		return nil, fmt.Errorf("lutio: reading %s: %w", varWavelength, err)
	}

	tgo, err := l.readVec(ctx, f, varTgo, nBands)
	if err != nil {
		return nil, fmt.Errorf("lutio: reading %s: %w", varTgo, err)
	}
	normextP0A3, err := l.readVec(ctx, f, varNormextP0A3, nBands)
	if err != nil {
		return nil, fmt.Errorf("lutio: reading %s: %w", varNormextP0A3, err)
	}
	iaMax, err := l.readIntVec(ctx, f, varRoatmIAMax, nBands)
	if err != nil {
		return nil, fmt.Errorf("lutio: reading %s: %w", varRoatmIAMax, err)
	}
	roatmCoef, err := l.readMat(ctx, f, varRoatmCoef, nBands, lasrc.NCoef)
	if err != nil {
		return nil, fmt.Errorf("lutio: reading %s: %w", varRoatmCoef, err)
	}
	ttatmgCoef, err := l.readMat(ctx, f, varTtatmgCoef, nBands, lasrc.NCoef)
	if err != nil {
		return nil, fmt.Errorf("lutio: reading %s: %w", varTtatmgCoef, err)
	}
	satmCoef, err := l.readMat(ctx, f, varSatmCoef, nBands, lasrc.NCoef)
	if err != nil {
		return nil, fmt.Errorf("lutio: reading %s: %w", varSatmCoef, err)
	}

	out.Coeffs = make([]lasrc.BandCoefficientSet, nBands)
	for b := 0; b < nBands; b++ {
		c := lasrc.BandCoefficientSet{
			Tgo:         tgo[b],
			NormextP0A3: normextP0A3[b],
			RoatmIAMax:  iaMax[b],
		}
		copy(c.RoatmCoef[:], roatmCoef[b])
		copy(c.TtatmgCoef[:], ttatmgCoef[b])
		copy(c.SatmCoef[:], satmCoef[b])
		out.Coeffs[b] = c
	}

	if !legacy {
		return out, nil
	}

	lt := &lasrc.LegacyLutTables{}
	if lt.Rolutt, err = l.readDense(ctx, f, varRolutt); err != nil {
		return nil, fmt.Errorf("lutio: reading %s: %w", varRolutt, err)
	}
	if lt.Transt, err = l.readDense(ctx, f, varTranst); err != nil {
		return nil, fmt.Errorf("lutio: reading %s: %w", varTranst, err)
	}
	if lt.Sphalbt, err = l.readDense(ctx, f, varSphalbt); err != nil {
		return nil, fmt.Errorf("lutio: reading %s: %w", varSphalbt, err)
	}
	if lt.Tsmax, err = l.readDense(ctx, f, varTsmax); err != nil {
		return nil, fmt.Errorf("lutio: reading %s: %w", varTsmax, err)
	}
	if lt.Tsmin, err = l.readDense(ctx, f, varTsmin); err != nil {
		return nil, fmt.Errorf("lutio: reading %s: %w", varTsmin, err)
	}
	if lt.Nbfic, err = l.readDense(ctx, f, varNbfic); err != nil {
		return nil, fmt.Errorf("lutio: reading %s: %w", varNbfic, err)
	}
	if lt.Nbfi, err = l.readDense(ctx, f, varNbfi); err != nil {
		return nil, fmt.Errorf("lutio: reading %s: %w", varNbfi, err)
	}
	if lt.Pres, err = l.readFullVar64(f, varPres); err != nil {
		return nil, fmt.Errorf("lutio: reading %s: %w", varPres, err)
	}
	for _, v := range []struct {
		name string
		dst  *[]float64
	}{
		{varTauray, &lt.Tauray},
		{varOgtransa1, &lt.Ogtransa1},
		{varOgtransb0, &lt.Ogtransb0},
		{varOgtransb1, &lt.Ogtransb1},
		{varWvtransa, &lt.Wvtransa},
		{varWvtransb, &lt.Wvtransb},
		{varOztransa, &lt.Oztransa},
	} {
		*v.dst, err = l.readVec(ctx, f, v.name, nBands)
		if err != nil {
			return nil, fmt.Errorf("lutio: reading %s: %w", v.name, err)
		}
	}

	scalars, err := l.readScalars(ctx, f, varXtsMin, varXtsStep, varXtvMin, varXtvStep)
	if err != nil {
		return nil, err
	}
	lt.XtsMin, lt.XtsStep, lt.XtvMin, lt.XtvStep = scalars[0], scalars[1], scalars[2], scalars[3]

	out.Legacy = lt
	return out, nil
}

// cacheRequest identifies one cached variable read.
type cacheRequest struct {
	f    *cdf.File
	name string
}

func (l *Loader) init() {
	l.cacheInit.Do(func() {
		l.cache = requestcache.NewCache(func(ctx context.Context, request interface{}) (interface{}, error) {
			r := request.(cacheRequest)
			return readRaw(r.f, r.name)
		}, runtime.GOMAXPROCS(-1),
			requestcache.Deduplicate(), requestcache.Memory(l.cacheSize()))
	})
}

func (l *Loader) read(ctx context.Context, f *cdf.File, name string) ([]float64, error) {
	l.init()
	req := l.cache.NewRequest(ctx, cacheRequest{f: f, name: name}, name)
	result, err := req.Result()
	if err != nil {
		return nil, err
	}
	return result.([]float64), nil
}

func readRaw(f *cdf.File, name string) ([]float64, error) {
	r := f.Reader(name, nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		return nil, err
	}
	switch v := buf.(type) {
	case []float64:
		return v, nil
	case []float32:
		out := make([]float64, len(v))
		for i, x := range v {
			out[i] = float64(x)
		}
		return out, nil
	case []int32:
		out := make([]float64, len(v))
		for i, x := range v {
			out[i] = float64(x)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("lutio: unsupported variable type for %s", name)
	}
}

// readFullVar64 bypasses the cache for one-time axis reads.
func (l *Loader) readFullVar64(f *cdf.File, name string) ([]float64, error) {
	return readRaw(f, name)
}

func (l *Loader) readVec(ctx context.Context, f *cdf.File, name string, n int) ([]float64, error) {
	v, err := l.read(ctx, f, name)
	if err != nil {
		return nil, err
	}
	if len(v) < n {
		return nil, fmt.Errorf("lutio: %s has %d elements, want at least %d", name, len(v), n)
	}
	return v[:n], nil
}

func (l *Loader) readIntVec(ctx context.Context, f *cdf.File, name string, n int) ([]int, error) {
	v, err := l.readVec(ctx, f, name, n)
	if err != nil {
		return nil, err
	}
	out := make([]int, n)
	for i, x := range v {
		out[i] = int(x)
	}
	return out, nil
}

// readMat reads a flat, row-major (rows x cols) variable into a slice
// of row slices.
func (l *Loader) readMat(ctx context.Context, f *cdf.File, name string, rows, cols int) ([][]float64, error) {
	flat, err := l.read(ctx, f, name)
	if err != nil {
		return nil, err
	}
	if len(flat) < rows*cols {
		return nil, fmt.Errorf("lutio: %s has %d elements, want %d", name, len(flat), rows*cols)
	}
	out := make([][]float64, rows)
	for r := 0; r < rows; r++ {
		out[r] = flat[r*cols : (r+1)*cols]
	}
	return out, nil
}

// readDense reads a flat, row-major N-D variable into a
// sparse.DenseArray shaped per the container's declared dimensions.
func (l *Loader) readDense(ctx context.Context, f *cdf.File, name string) (*sparse.DenseArray, error) {
	shape := f.Header.Lengths(name)
	if shape == nil {
		return nil, fmt.Errorf("lutio: variable %s not found", name)
	}
	flat, err := l.read(ctx, f, name)
	if err != nil {
		return nil, err
	}
	arr := sparse.ZerosDense(shape...)
	if len(arr.Elements) != len(flat) {
		return nil, fmt.Errorf("lutio: %s has %d elements, shape %v wants %d", name, len(flat), shape, len(arr.Elements))
	}
	copy(arr.Elements, flat)
	return arr, nil
}

func (l *Loader) readScalars(ctx context.Context, f *cdf.File, names ...string) ([]float64, error) {
	out := make([]float64, len(names))
	for i, name := range names {
		v, err := l.read(ctx, f, name)
		if err != nil {
			return nil, fmt.Errorf("lutio: reading %s: %w", name, err)
		}
		if len(v) == 0 {
			return nil, fmt.Errorf("lutio: %s is empty", name)
		}
		out[i] = v[0]
	}
	return out, nil
}
