/*
Copyright © 2025 the SWY authors.
This file is part of SWY.

SWY is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

SWY is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with SWY.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package swycmd holds the commands of the swy command-line interface.
package swycmd

import (
	"fmt"

	"github.com/spatialmodel/swy"
	"github.com/spf13/cobra"
)

// Config holds the parsed configuration of the current run.
var Config *ConfigData

var configFile string

// RootCmd is the main command.
var RootCmd = &cobra.Command{
	Use:   "swy",
	Short: "A seasonal water yield model.",
	Long: `A seasonal water yield model estimating per-pixel local water
recharge and baseflow from land cover, soils, terrain, and monthly
climate, aggregated into watershed totals.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return Startup(configFile)
	},
}

// Startup reads the configuration file.
func Startup(configFile string) error {
	var err error
	Config, err = ReadConfigFile(configFile)
	return err
}

func init() {
	RootCmd.AddCommand(versionCmd, runCmd)

	RootCmd.PersistentFlags().StringVar(&configFile, "config", "./swy.toml",
		"configuration file location")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of SWY",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("SWY v%s\n", swy.Version)
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the model",
	Long: "Run the seasonal water yield model as specified in the " +
		"configuration file and write the output rasters and the aggregated " +
		"results vector to the workspace.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(Config)
	},
}
