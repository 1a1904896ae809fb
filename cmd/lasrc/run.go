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

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/usgs-eros/lasrc-core/lasrc"
	"github.com/usgs-eros/lasrc-core/lasrc/lutio"
	"github.com/usgs-eros/lasrc-core/lasrc/sceneio"
)

var (
	processAllSentinelBands bool
	semiEmpirical            bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Retrieve AOT and surface reflectance for one scene.",
	Long:  "Load a scene's LUT as configured, build the correction kernel, run the retrieval, and report a summary. Pixel inputs are not loaded, so the retrieval covers no pixels.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScene()
	},
}

func runScene() error {
	sat, err := config.ResolveSatellite()
	if err != nil {
		return err
	}
	bc := sat.Bands(processAllSentinelBands || config.ProcessAllSentinelBands, config.WaterTthVariant())
	useSemiEmpirical := config.UseSemiEmpiricalKernel
	if semiEmpirical {
		useSemiEmpirical = true
	}

	f, err := os.Open(config.LUTFile)
	if err != nil {
		return fmt.Errorf("lasrc: opening LUT file: %w", err)
	}
	defer f.Close()

	cf, err := lutio.Open(f)
	if err != nil {
		return fmt.Errorf("lasrc: opening LUT container: %w", err)
	}

	loader := &lutio.Loader{}
	ctx := context.Background()
	nBands := int(bc.EndBand) + 1
	scene, err := loader.Load(ctx, cf, nBands, !useSemiEmpirical)
	if err != nil {
		return fmt.Errorf("lasrc: loading LUT: %w", err)
	}

	var kernel lasrc.Kernel
	if useSemiEmpirical {
		kernel = scene.SemiEmpiricalKernel()
	} else {
		kernel = scene.LegacyKernel()
	}

	logger.Info("lasrc: LUT loaded, retrieval ready")

	// Pixel inputs come from image I/O and geolocation, which this
	// module does not implement: sc.Pixels is left empty, so this
	// command loads the LUT and builds the kernel but retrieves no
	// pixels.
	sc := &sceneio.Scene{
		Satellite:        sat,
		AllSentinelBands: processAllSentinelBands || config.ProcessAllSentinelBands,
		WaterTthVariant:  config.WaterTthVariant(),
		UseSemiEmpirical: useSemiEmpirical,
		Kernel:           kernel,
		NumWorkers:       config.NumWorkers,
	}

	result, err := sceneio.Run(ctx, sc, logger)
	if err != nil {
		return fmt.Errorf("lasrc: retrieval failed: %w", err)
	}

	logger.WithFields(map[string]interface{}{
		"pixels":    len(result.Retrieved),
		"lutErrors": result.LUTErrors,
	}).Info("lasrc: retrieval complete")
	return nil
}
