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
	"fmt"
	"log"

	"github.com/spatialmodel/swy"
	"github.com/spatialmodel/swy/swyio"
)

// Run executes a full model run from the given configuration: it
// validates the inputs, runs the water balance, flow routing, and
// baseflow passes, and writes the output rasters and the aggregated
// results vector to the workspace.
func Run(cfg *ConfigData) error {
	outVector := cfg.OutputVectorPath()
	if err := swy.ValidateOutputVector(cfg.AOIPath, outVector); err != nil {
		return err
	}

	alphaAnnual, err := parseFraction(cfg.AlphaM)
	if err != nil {
		return fmt.Errorf("problem parsing the AlphaM configuration variable: %v", err)
	}

	log.Println("Loading terrain")
	dem, err := swyio.ReadRaster(cfg.DEMPath)
	if err != nil {
		return err
	}

	modelCfg := swy.Config{
		Elevation:       dem,
		AlphaAnnual:     alphaAnnual,
		Beta:            cfg.BetaI,
		Gamma:           cfg.Gamma,
		StreamThreshold: cfg.ThresholdFlowAccumulation,
	}

	if modelCfg.Climate, err = loadClimate(cfg); err != nil {
		return err
	}

	if !cfg.UserDefinedLocalRecharge {
		log.Println("Loading land cover and soils")
		if modelCfg.LandCover, err = swyio.ReadIntRaster(cfg.LandCoverPath); err != nil {
			return err
		}
		if modelCfg.SoilGroups, err = swyio.ReadIntRaster(cfg.SoilGroupPath); err != nil {
			return err
		}
		if modelCfg.Biophysical, err = swyio.ReadBiophysicalTable(cfg.BiophysicalTablePath); err != nil {
			return err
		}
	}

	if cfg.MonthlyAlpha {
		if modelCfg.Alpha, err = swyio.ReadMonthlyAlpha(cfg.MonthlyAlphaPath); err != nil {
			return err
		}
	}

	log.Println("Loading aggregation zones")
	zones, prj, err := swyio.ReadAOI(cfg.AOIPath, cfg.sr)
	if err != nil {
		return err
	}

	log.Println("Running the model")
	model := swy.NewModel(modelCfg)
	if err := model.Run(); err != nil {
		return err
	}

	log.Println("Writing outputs")
	if err := swyio.WriteRaster(cfg.OutputRasterPath("L"), model.L); err != nil {
		return err
	}
	if err := swyio.WriteRaster(cfg.OutputRasterPath("B"), model.B); err != nil {
		return err
	}
	totals, err := model.Aggregate(zones)
	if err != nil {
		return err
	}
	return swyio.WriteAggregateVector(outVector, zones, totals, prj)
}

// loadClimate assembles the climate input for whichever of the three
// modes the configuration selects. The mutual exclusion of the mode
// flags has already been checked when the configuration was read.
func loadClimate(cfg *ConfigData) (*swy.ClimateInput, error) {
	if cfg.UserDefinedLocalRecharge {
		log.Println("Loading user-defined local recharge")
		recharge, err := swyio.ReadRaster(cfg.LocalRechargePath)
		if err != nil {
			return nil, err
		}
		return swy.UserRecharge(recharge), nil
	}

	log.Println("Loading monthly climate rasters")
	precip, err := swyio.ReadMonthlyRasters(cfg.PrecipDir, cfg.RasterExt, "precipitation")
	if err != nil {
		return nil, err
	}
	et0, err := swyio.ReadMonthlyRasters(cfg.ET0Dir, cfg.RasterExt, "evapotranspiration")
	if err != nil {
		return nil, err
	}

	if cfg.UserDefinedClimateZones {
		zones, err := swyio.ReadIntRaster(cfg.ClimateZoneRasterPath)
		if err != nil {
			return nil, err
		}
		events, err := swyio.ReadClimateZoneEvents(cfg.ClimateZoneTablePath)
		if err != nil {
			return nil, err
		}
		return swy.ZonedClimate(precip, et0, zones, events), nil
	}

	events, err := swyio.ReadRainEvents(cfg.RainEventsTablePath)
	if err != nil {
		return nil, err
	}
	return swy.GriddedClimate(precip, et0, events), nil
}
