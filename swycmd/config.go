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

package swycmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ctessum/geom/proj"
)

// ConfigData holds the configuration of a model run.
type ConfigData struct {
	// Workspace is the directory where output files are written. It is
	// created if it does not exist. The path can include environment
	// variables.
	Workspace string

	// AOIPath is the path to the aggregation zone (area of interest)
	// polygon shapefile. The path can include environment variables.
	AOIPath string

	// BiophysicalTablePath is the path to the CSV table mapping land
	// cover codes to curve numbers and monthly crop coefficients.
	BiophysicalTablePath string

	// DEMPath, LandCoverPath, and SoilGroupPath are the paths to the
	// elevation, land cover code, and soil group rasters. All rasters
	// must be aligned to a common resolution and extent.
	DEMPath       string
	LandCoverPath string
	SoilGroupPath string

	// PrecipDir and ET0Dir are directories holding twelve monthly
	// precipitation and reference evapotranspiration rasters each, named
	// with a trailing month number (for example precip_mm_3.asc).
	PrecipDir string
	ET0Dir    string

	// RasterExt is the file extension of the rasters in PrecipDir and
	// ET0Dir. The default is ".asc".
	RasterExt string

	// RainEventsTablePath is the path to the CSV table of monthly rain
	// event counts, used when neither climate zone nor user-defined
	// recharge mode is selected.
	RainEventsTablePath string

	// UserDefinedClimateZones selects the climate zone input mode, in
	// which rain event counts vary by climate zone.
	UserDefinedClimateZones bool

	// ClimateZoneRasterPath and ClimateZoneTablePath supply the climate
	// zone codes and the per-zone monthly rain event counts for climate
	// zone mode.
	ClimateZoneRasterPath string
	ClimateZoneTablePath  string

	// UserDefinedLocalRecharge selects the user-defined recharge input
	// mode, in which the water balance is bypassed and the local
	// recharge raster at LocalRechargePath is used verbatim.
	UserDefinedLocalRecharge bool
	LocalRechargePath        string

	// MonthlyAlpha selects whether the monthly alpha table at
	// MonthlyAlphaPath redistributes the annual recharge coefficient by
	// month. When false, AlphaM is spread uniformly over the year.
	MonthlyAlpha     bool
	MonthlyAlphaPath string

	// AlphaM is the annual recharge coefficient, written as a decimal or
	// a fraction such as "1/12".
	AlphaM string

	// BetaI is the annual baseflow recession coefficient and Gamma the
	// baseflow shape exponent.
	BetaI float64
	Gamma float64

	// ThresholdFlowAccumulation is the flow accumulation count (pixels)
	// at or above which a pixel is classified as a stream.
	ThresholdFlowAccumulation float64

	// ResultsSuffix is appended to every output file name, allowing
	// several runs to share a workspace.
	ResultsSuffix string

	// GridProj is the Proj4 specification of the raster grid projection.
	// When set, the aggregation zone vector is reprojected into it
	// before aggregation; when empty, the vector is assumed to share the
	// grid projection already.
	GridProj string

	sr *proj.SR
}

// ReadConfigFile reads and parses a TOML configuration file.
func ReadConfigFile(filename string) (config *ConfigData, err error) {
	var (
		file  *os.File
		bytes []byte
	)
	file, err = os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("the configuration file you have specified, %v, does not "+
			"appear to exist. Please check the file name and location and "+
			"try again", filename)
	}
	reader := bufio.NewReader(file)
	bytes, err = io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("problem reading configuration file: %v", err)
	}

	config = new(ConfigData)
	if _, err = toml.Decode(string(bytes), config); err != nil {
		return nil, fmt.Errorf(
			"there has been an error parsing the configuration file: %v", err)
	}

	config.Workspace = os.ExpandEnv(config.Workspace)
	config.AOIPath = os.ExpandEnv(config.AOIPath)
	config.BiophysicalTablePath = os.ExpandEnv(config.BiophysicalTablePath)
	config.DEMPath = os.ExpandEnv(config.DEMPath)
	config.LandCoverPath = os.ExpandEnv(config.LandCoverPath)
	config.SoilGroupPath = os.ExpandEnv(config.SoilGroupPath)
	config.PrecipDir = os.ExpandEnv(config.PrecipDir)
	config.ET0Dir = os.ExpandEnv(config.ET0Dir)
	config.RainEventsTablePath = os.ExpandEnv(config.RainEventsTablePath)
	config.ClimateZoneRasterPath = os.ExpandEnv(config.ClimateZoneRasterPath)
	config.ClimateZoneTablePath = os.ExpandEnv(config.ClimateZoneTablePath)
	config.LocalRechargePath = os.ExpandEnv(config.LocalRechargePath)
	config.MonthlyAlphaPath = os.ExpandEnv(config.MonthlyAlphaPath)

	if config.Workspace == "" {
		return nil, fmt.Errorf("you need to specify an output workspace directory " +
			"in the Workspace configuration variable")
	}
	if config.AOIPath == "" {
		return nil, fmt.Errorf("you need to specify the aggregation zone shapefile " +
			"in the AOIPath configuration variable")
	}
	if config.DEMPath == "" {
		return nil, fmt.Errorf("you need to specify the elevation raster in the " +
			"DEMPath configuration variable")
	}
	if config.UserDefinedClimateZones && config.UserDefinedLocalRecharge {
		return nil, fmt.Errorf("the UserDefinedClimateZones and " +
			"UserDefinedLocalRecharge configuration variables select mutually " +
			"exclusive climate input modes; at most one of them may be true")
	}
	if config.RasterExt == "" {
		config.RasterExt = ".asc"
	}
	if config.AlphaM == "" {
		config.AlphaM = "1/12"
	}

	if config.GridProj != "" {
		config.sr, err = proj.Parse(config.GridProj)
		if err != nil {
			return nil, fmt.Errorf("the following error occurred while parsing the "+
				"grid projection (the GridProj variable): %v", err)
		}
	}

	if err = os.MkdirAll(config.Workspace, os.ModePerm); err != nil {
		return nil, fmt.Errorf("problem creating the workspace directory: %v", err)
	}
	return config, nil
}

// OutputVectorPath returns the path of the aggregated results shapefile,
// including the results suffix.
func (c *ConfigData) OutputVectorPath() string {
	return filepath.Join(c.Workspace, "aggregated_results"+c.suffix()+".shp")
}

// OutputRasterPath returns the workspace path for the named output
// raster, including the results suffix.
func (c *ConfigData) OutputRasterPath(name string) string {
	return filepath.Join(c.Workspace, name+c.suffix()+".asc")
}

func (c *ConfigData) suffix() string {
	if c.ResultsSuffix == "" {
		return ""
	}
	return "_" + c.ResultsSuffix
}

// parseFraction parses a number written either as a decimal or as a
// fraction such as "1/12".
func parseFraction(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a number or fraction", s)
		}
		d, err := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if err != nil || d == 0 {
			return 0, fmt.Errorf("%q is not a number or fraction", s)
		}
		return n / d, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number or fraction", s)
	}
	return v, nil
}
