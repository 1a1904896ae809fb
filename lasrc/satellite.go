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

import "fmt"

// BandIndex identifies a reflective band within a satellite's band set.
type BandIndex int

// Satellite is a tagged variant identifying the sensor a pixel came
// from. It determines band count, band index semantics, and residual
// threshold tables.
type Satellite int

const (
	// Landsat8 is the OLI sensor on Landsat-8.
	Landsat8 Satellite = iota
	// Landsat9 is the OLI-2 sensor on Landsat-9; it shares Landsat8's
	// band layout and thresholds.
	Landsat9
	// Sentinel2 is the MSI sensor on Sentinel-2A/B.
	Sentinel2
)

func (s Satellite) String() string {
	switch s {
	case Landsat8:
		return "Landsat8"
	case Landsat9:
		return "Landsat9"
	case Sentinel2:
		return "Sentinel2"
	default:
		return fmt.Sprintf("Satellite(%d)", int(s))
	}
}

// referenceWavelengthNM is the Ångström reference wavelength used by the
// semi-empirical kernel's spectral adjustment.
const referenceWavelengthNM = 550.0

// Nominal band-center wavelengths, in nanometers. Landsat8/9 OLI bands
// are indexed 0..7 (coastal aerosol, blue, green, red, NIR, SWIR1,
// SWIR2, cirrus); only indices 0..6 are ever corrected.
var landsatWavelengthsNM = []float64{443, 482, 561.5, 654.5, 865, 1608.5, 2200.5, 1373.5}

// sentinelWavelengths13NM covers all thirteen Sentinel-2 MSI bands,
// B1..B12 including B8A, in acquisition order.
var sentinelWavelengths13NM = []float64{443, 492, 560, 665, 704, 740, 783, 833, 865, 945, 1375, 1610, 2190}

// sentinelWavelengths11NM is sentinelWavelengths13NM with the water-vapor
// (B9) and cirrus (B10) bands removed, matching the default eleven-band
// layout.
var sentinelWavelengths11NM = []float64{443, 492, 560, 665, 704, 740, 783, 833, 865, 1610, 2190}

// Landsat tth tables, indexed 0..7 (spec.md §4.4).
var (
	landsatTthLand  = []float64{1.0e-3, 1.0e-3, 0, 1.0e-3, 0, 0, 1.0e-4, 0}
	landsatTthWater = []float64{1.0e-3, 1.0e-3, 0, 1.0e-3, 1.0e-3, 0, 1.0e-4, 0}
)

// Sentinel-2 tth tables in the default, eleven-band layout (bands 9 and
// 10 excluded).
var (
	sentinelTthLand11  = []float64{1.0e-3, 1.0e-3, 0, 1.0e-3, 0, 0, 0, 0, 0, 0, 1.0e-4}
	sentinelTthWater11 = []float64{1.0e-3, 0, 0, 1.0e-3, 0, 0, 0, 0, 1.0e-3, 0, 1.0e-4}
)

// Sentinel-2 tth tables in the full, thirteen-band layout.
var (
	sentinelTthLand13  = []float64{1.0e-3, 1.0e-3, 0, 1.0e-3, 0, 0, 0, 0, 0, 0, 0, 0, 1.0e-4}
	sentinelTthWater13 = []float64{1.0e-3, 0, 0, 1.0e-3, 0, 0, 0, 0, 1.0e-3, 0, 0, 0, 1.0e-4}
)

// sentinelTthWater13Alt is the alternate thirteen-band water threshold
// table carried, commented out, in the upstream source next to a note
// doubting the shipped values above. SentinelWaterTthVariant selects it.
var sentinelTthWater13Alt = []float64{1.0e-3, 1.0e-3, 0, 1.0e-3, 1.0e-3, 0, 1.0e-4, 0, 0, 0, 0, 0, 0}

// SentinelWaterTthVariant selects between the shipped Sentinel-2 water
// tth table and the alternate one a source comment proposed instead.
// This module preserves the shipped values as the default; the
// alternate is reachable only through this flag (spec.md §9 open
// question).
type SentinelWaterTthVariant int

const (
	// SentinelWaterTthShipped is the table this module produces by default.
	SentinelWaterTthShipped SentinelWaterTthVariant = iota
	// SentinelWaterTthAlternate selects the alternate table. It only
	// changes anything when BandConfig is computed with
	// allSentinelBands=true; the eleven-band layout has no alternate.
	SentinelWaterTthAlternate
)

// BandConfig is the pure function of (Satellite, water, band-count
// option) spec.md §4.4 describes: the band range to iterate during
// retrieval and the two tth tables (land, water) to pick between.
type BandConfig struct {
	StartBand   BandIndex
	EndBand     BandIndex
	TthLand     []float64
	TthWater    []float64
	Wavelengths []float64
}

// Bands resolves the band range, threshold tables, and nominal
// wavelengths for s. allSentinelBands has no effect for Landsat
// satellites; it selects the thirteen- vs eleven-band Sentinel-2 layout
// (spec.md §6, process_all_sentinel_bands). waterTthVariant has no
// effect unless s is Sentinel2 and allSentinelBands is true.
func (s Satellite) Bands(allSentinelBands bool, waterTthVariant SentinelWaterTthVariant) BandConfig {
	switch s {
	case Landsat8, Landsat9:
		return BandConfig{
			StartBand:   0,
			EndBand:     6,
			TthLand:     landsatTthLand,
			TthWater:    landsatTthWater,
			Wavelengths: landsatWavelengthsNM,
		}
	case Sentinel2:
		if allSentinelBands {
			tthWater := sentinelTthWater13
			if waterTthVariant == SentinelWaterTthAlternate {
				tthWater = sentinelTthWater13Alt
			}
			return BandConfig{
				StartBand:   0,
				EndBand:     12,
				TthLand:     sentinelTthLand13,
				TthWater:    tthWater,
				Wavelengths: sentinelWavelengths13NM,
			}
		}
		return BandConfig{
			StartBand:   0,
			EndBand:     10,
			TthLand:     sentinelTthLand11,
			TthWater:    sentinelTthWater11,
			Wavelengths: sentinelWavelengths11NM,
		}
	default:
		return BandConfig{}
	}
}

// Tth returns the threshold table matching water.
func (bc BandConfig) Tth(water bool) []float64 {
	if water {
		return bc.TthWater
	}
	return bc.TthLand
}
