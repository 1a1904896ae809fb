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

// Package sceneio runs lasrc.Retrieve across every pixel of a scene,
// tiling the work across a bounded worker pool the way the teacher's
// Calculations fans CellManipulators out across a grid.
package sceneio

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"github.com/usgs-eros/lasrc-core/lasrc"
)

// Scene holds one image's worth of per-pixel inputs, column-major: all
// slices are indexed by the same pixel index.
type Scene struct {
	Satellite        lasrc.Satellite
	AllSentinelBands bool
	WaterTthVariant  lasrc.SentinelWaterTthVariant
	UseSemiEmpirical bool

	Kernel lasrc.Kernel

	Pixels []lasrc.PixelInputs

	// NumWorkers overrides the worker pool size. Zero means use
	// NumWorkers(), one goroutine per logical CPU.
	NumWorkers int
}

// Result holds sceneio.Run's output: one RetrievalResult per pixel, in
// the same order as Scene.Pixels.
type Result struct {
	Retrieved   []lasrc.RetrievalResult
	Diagnostics []lasrc.Diagnostics

	// LUTErrors counts pixels that failed with ErrLUTOutOfRange. Those
	// pixels' Retrieved/Diagnostics entries are left at the zero value.
	LUTErrors int64
}

// NumWorkers is the default worker pool size, one goroutine per
// logical CPU, mirroring inmap.Calculations's runtime.GOMAXPROCS(0)
// fan-out.
func NumWorkers() int { return runtime.GOMAXPROCS(0) }

// Run retrieves AOT and surface reflectance for every pixel in s,
// striping pixel indices across NumWorkers() goroutines. Each worker
// carries its own iaots warm-start scalar sequentially through the
// pixels it owns, exactly as the core's concurrency model requires:
// the warm-start hint is thread-local, never shared across workers.
//
// ctx is checked between tiles (every tileSize pixels); a cancelled
// context stops dispatching new tiles but lets in-flight ones finish.
// A per-pixel ErrLUTOutOfRange does not abort the run: it is counted in
// Result.LUTErrors and the pixel is left at its zero RetrievalResult.
// Any other error aborts the run and is returned.
func Run(ctx context.Context, s *Scene, log *logrus.Logger) (*Result, error) {
	if log == nil {
		log = logrus.New()
	}
	bc := s.Satellite.Bands(s.AllSentinelBands, s.WaterTthVariant)

	n := len(s.Pixels)
	out := &Result{
		Retrieved:   make([]lasrc.RetrievalResult, n),
		Diagnostics: make([]lasrc.Diagnostics, n),
	}

	nworkers := s.NumWorkers
	if nworkers <= 0 {
		nworkers = NumWorkers()
	}
	if nworkers > n && n > 0 {
		nworkers = n
	}
	const tileSize = 256

	var wg sync.WaitGroup
	var firstErr error
	var errOnce sync.Once

	wg.Add(nworkers)
	for w := 0; w < nworkers; w++ {
		go func(w int) {
			defer wg.Done()
			iaots := 0
			for j, i := 0, w; i < n; j, i = j+1, i+nworkers {
				if j%tileSize == 0 {
					select {
					case <-ctx.Done():
						return
					default:
					}
				}
				res, diag, err := lasrc.Retrieve(s.Kernel, bc, s.Pixels[i], iaots)
				if err != nil {
					if err == lasrc.ErrLUTOutOfRange {
						atomic.AddInt64(&out.LUTErrors, 1)
						log.WithFields(logrus.Fields{"pixel": i}).Warn("lut out of range")
						continue
					}
					errOnce.Do(func() { firstErr = fmt.Errorf("sceneio: pixel %d: %w", i, err) })
					return
				}
				out.Retrieved[i] = res
				out.Diagnostics[i] = diag
				iaots = res.IAots
			}
		}(w)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}
