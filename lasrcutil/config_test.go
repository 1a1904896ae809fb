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

package lasrcutil

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/usgs-eros/lasrc-core/lasrc"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	dir, err := ioutil.TempDir("", "lasrcutil")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	path := filepath.Join(dir, "config.toml")
	if err := ioutil.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadFileDefaultsAndExpansion(t *testing.T) {
	os.Setenv("LASRC_TEST_LUT_DIR", "/data/lut")
	defer os.Unsetenv("LASRC_TEST_LUT_DIR")

	path := writeTempConfig(t, `
LUTFile = "$LASRC_TEST_LUT_DIR/l8.nc"
Satellite = "Landsat8"
NumWorkers = 4
`)
	cfg, err := ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LUTFile != "/data/lut/l8.nc" {
		t.Errorf("LUTFile = %q, want expanded path", cfg.LUTFile)
	}
	if !cfg.UseSemiEmpiricalKernel {
		t.Errorf("UseSemiEmpiricalKernel = false, want true (the documented default)")
	}
	if cfg.NumWorkers != 4 {
		t.Errorf("NumWorkers = %d, want 4", cfg.NumWorkers)
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile("/no/such/file.toml"); err == nil {
		t.Errorf("ReadFile succeeded on a nonexistent path, want an error")
	}
}

func TestReadFileMalformed(t *testing.T) {
	path := writeTempConfig(t, "this is not [ valid toml")
	if _, err := ReadFile(path); err == nil {
		t.Errorf("ReadFile succeeded on malformed TOML, want an error")
	}
}

func TestResolveSatellite(t *testing.T) {
	cases := []struct {
		name string
		want lasrc.Satellite
		ok   bool
	}{
		{"Landsat8", lasrc.Landsat8, true},
		{"Landsat9", lasrc.Landsat9, true},
		{"Sentinel2", lasrc.Sentinel2, true},
		{"Landsat5", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		cfg := &Config{Satellite: c.name}
		got, err := cfg.ResolveSatellite()
		if c.ok {
			if err != nil {
				t.Errorf("ResolveSatellite(%q): unexpected error %v", c.name, err)
			}
			if got != c.want {
				t.Errorf("ResolveSatellite(%q) = %v, want %v", c.name, got, c.want)
			}
		} else if err == nil {
			t.Errorf("ResolveSatellite(%q) succeeded, want an error", c.name)
		}
	}
}

func TestWaterTthVariant(t *testing.T) {
	if got := (&Config{}).WaterTthVariant(); got != lasrc.SentinelWaterTthShipped {
		t.Errorf("default WaterTthVariant = %v, want SentinelWaterTthShipped", got)
	}
	cfg := &Config{UseAlternateSentinelWaterTth: true}
	if got := cfg.WaterTthVariant(); got != lasrc.SentinelWaterTthAlternate {
		t.Errorf("WaterTthVariant = %v, want SentinelWaterTthAlternate", got)
	}
}
