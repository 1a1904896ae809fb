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
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/usgs-eros/lasrc-core/lasrcutil"
)

var (
	configFile string

	// config holds the configuration read at startup.
	config *lasrcutil.Config

	logger = logrus.New()
)

// rootCmd is the main command.
var rootCmd = &cobra.Command{
	Use:   "lasrc",
	Short: "Aerosol retrieval and Lambertian atmospheric correction for Landsat/Sentinel-2.",
	Long: `lasrc retrieves per-pixel aerosol optical thickness and inverts the
Lambertian atmospheric correction model to produce surface reflectance.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		config, err = lasrcutil.ReadFile(configFile)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./lasrc.toml", "configuration file location")
	rootCmd.PersistentFlags().BoolVar(&processAllSentinelBands, "process-all-sentinel-bands", false,
		"include Sentinel-2 bands 9 and 10 in the retrieval range, overriding the configuration file")
	rootCmd.PersistentFlags().BoolVar(&semiEmpirical, "semi-empirical", false,
		"force the semi-empirical kernel, overriding the configuration file")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

var version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of lasrc",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("lasrc v" + version)
	},
}
