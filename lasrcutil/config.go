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

// Package lasrcutil reads the TOML configuration file the cmd/lasrc
// driver uses to configure one scene run.
package lasrcutil

import (
	"bufio"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/usgs-eros/lasrc-core/lasrc"
)

// Config holds one scene run's configuration, decoded from a TOML
// file.
type Config struct {
	// LUTFile is the path to the NetCDF LUT container. Can include
	// environment variables.
	LUTFile string

	// Satellite selects the sensor: "Landsat8", "Landsat9", or
	// "Sentinel2".
	Satellite string

	// ProcessAllSentinelBands includes Sentinel-2 bands 9 and 10 in the
	// retrieval range when true. Has no effect for Landsat. Default
	// false.
	ProcessAllSentinelBands bool

	// UseSemiEmpiricalKernel selects the semi-empirical correction form
	// over the legacy table-interpolation form when true. Default true.
	UseSemiEmpiricalKernel bool

	// UseAlternateSentinelWaterTth selects the alternate Sentinel-2
	// water tth table instead of the shipped one (spec's open question
	// in §9). Default false.
	UseAlternateSentinelWaterTth bool

	// NumWorkers overrides the default worker pool size for
	// sceneio.Run. Zero means use the default (one per logical CPU).
	NumWorkers int

	// LogFile is a log file path. Can include environment variables.
	// cmd/lasrc does not read it: its logger always writes to stderr.
	LogFile string
}

// ReadFile reads and parses a TOML configuration file.
func ReadFile(filename string) (*Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("lasrcutil: the configuration file you have specified, %v, does not "+
			"appear to exist. Please check the file name and location and try again: %w", filename, err)
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	b, err := ioutil.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("lasrcutil: problem reading configuration file: %w", err)
	}

	config := &Config{UseSemiEmpiricalKernel: true}
	if _, err := toml.Decode(string(b), config); err != nil {
		return nil, fmt.Errorf("lasrcutil: error parsing configuration file: %w", err)
	}
	config.LUTFile = os.ExpandEnv(config.LUTFile)
	config.LogFile = os.ExpandEnv(config.LogFile)
	return config, nil
}

// ResolveSatellite parses c.Satellite into a lasrc.Satellite.
func (c *Config) ResolveSatellite() (lasrc.Satellite, error) {
	switch c.Satellite {
	case "Landsat8":
		return lasrc.Landsat8, nil
	case "Landsat9":
		return lasrc.Landsat9, nil
	case "Sentinel2":
		return lasrc.Sentinel2, nil
	default:
		return 0, fmt.Errorf("lasrcutil: unrecognized Satellite %q, want Landsat8, Landsat9, or Sentinel2", c.Satellite)
	}
}

// WaterTthVariant resolves c.UseAlternateSentinelWaterTth to the
// corresponding lasrc.SentinelWaterTthVariant.
func (c *Config) WaterTthVariant() lasrc.SentinelWaterTthVariant {
	if c.UseAlternateSentinelWaterTth {
		return lasrc.SentinelWaterTthAlternate
	}
	return lasrc.SentinelWaterTthShipped
}
