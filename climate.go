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

package swy

import "fmt"

// climateMode enumerates the three mutually exclusive climate input modes.
type climateMode int

const (
	modeGridded climateMode = iota // monthly precipitation and ET0 rasters plus a rain events table
	modeZoned                      // monthly rasters plus a climate zone raster and per-zone events
	modeUserRecharge               // precomputed local recharge supplied directly
)

func (m climateMode) String() string {
	switch m {
	case modeGridded:
		return "gridded"
	case modeZoned:
		return "climate zones"
	case modeUserRecharge:
		return "user-defined recharge"
	}
	return fmt.Sprintf("climateMode(%d)", int(m))
}

// ClimateInput holds the climate forcing for a model run. Exactly one of
// the three input modes is active; the constructors below are the only way
// to build one, so inconsistent mode combinations cannot reach the
// computation core.
type ClimateInput struct {
	mode climateMode

	// gridded and zoned modes
	precip, et0 [12]*Raster

	// gridded mode: rain events per month, uniform over the domain
	events [12]float64

	// zoned mode: climate zone codes and per-zone monthly rain events
	zones      *IntRaster
	zoneEvents map[int][12]float64

	// user-defined recharge mode
	recharge *Raster
}

// GriddedClimate creates a climate input from twelve monthly precipitation
// rasters, twelve monthly reference evapotranspiration rasters, and a
// domain-wide rain events count for each month. Index 0 of each argument
// corresponds to January.
func GriddedClimate(precip, et0 [12]*Raster, events [12]float64) *ClimateInput {
	return &ClimateInput{mode: modeGridded, precip: precip, et0: et0, events: events}
}

// ZonedClimate creates a climate input in which monthly rain event counts
// vary by climate zone: zones maps each pixel to a zone code, and
// zoneEvents maps each zone code to its twelve monthly event counts.
func ZonedClimate(precip, et0 [12]*Raster, zones *IntRaster, zoneEvents map[int][12]float64) *ClimateInput {
	return &ClimateInput{mode: modeZoned, precip: precip, et0: et0,
		zones: zones, zoneEvents: zoneEvents}
}

// UserRecharge creates a climate input that bypasses the water balance
// entirely: the supplied raster is used verbatim as the annual local
// recharge surface.
func UserRecharge(recharge *Raster) *ClimateInput {
	return &ClimateInput{mode: modeUserRecharge, recharge: recharge}
}

// Precip returns the precipitation raster for month (1–12).
func (c *ClimateInput) Precip(month int) *Raster { return c.precip[month-1] }

// ET0 returns the reference evapotranspiration raster for month (1–12).
func (c *ClimateInput) ET0(month int) *Raster { return c.et0[month-1] }

// rainEvents returns the number of rain events at pixel (row, col) in
// month (1–12).
func (c *ClimateInput) rainEvents(row, col, month int) (float64, error) {
	switch c.mode {
	case modeGridded:
		return c.events[month-1], nil
	case modeZoned:
		zone := c.zones.Get(row, col)
		ev, ok := c.zoneEvents[zone]
		if !ok {
			return 0, fmt.Errorf("swy: climate zone %d at pixel (%d,%d) has no entry "+
				"in the rain events table", zone, row, col)
		}
		return ev[month-1], nil
	}
	return 0, fmt.Errorf("swy: rain events are not defined in %v mode", c.mode)
}

// validate checks that the active mode carries a complete input set
// aligned with grid g.
func (c *ClimateInput) validate(g GridDef) error {
	switch c.mode {
	case modeGridded, modeZoned:
		for m := 0; m < 12; m++ {
			if c.precip[m] == nil {
				return fmt.Errorf("swy: no precipitation raster was supplied for month %d", m+1)
			}
			if c.et0[m] == nil {
				return fmt.Errorf("swy: no evapotranspiration raster was supplied for month %d", m+1)
			}
			if err := g.alignedWith(c.precip[m].GridDef, fmt.Sprintf("precipitation month %d", m+1)); err != nil {
				return err
			}
			if err := g.alignedWith(c.et0[m].GridDef, fmt.Sprintf("evapotranspiration month %d", m+1)); err != nil {
				return err
			}
		}
		if c.mode == modeZoned {
			if c.zones == nil {
				return fmt.Errorf("swy: climate zones mode requires a climate zone raster")
			}
			if len(c.zoneEvents) == 0 {
				return fmt.Errorf("swy: climate zones mode requires a zone rain events table")
			}
			if err := g.alignedWith(c.zones.GridDef, "climate zones"); err != nil {
				return err
			}
		}
	case modeUserRecharge:
		if c.recharge == nil {
			return fmt.Errorf("swy: user-defined recharge mode requires a recharge raster")
		}
		if err := g.alignedWith(c.recharge.GridDef, "local recharge"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("swy: unknown climate input mode %v", c.mode)
	}
	return nil
}
