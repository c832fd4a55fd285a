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

/*
Package swy implements a seasonal water yield model: a monthly
water balance coupled to a terrain-derived flow routing network that
propagates local recharge downslope into a baseflow estimate, followed by
zonal aggregation into watershed polygons.

The model consumes rasters and tables as already-decoded arrays (see
package swyio for the file format collaborators) and emits arrays and
per-zone aggregates. Execution is single-threaded and deterministic:
identical inputs always produce identical outputs.
*/
package swy

// Version gives the model version number.
const Version = "0.1.0"

// Config holds all inputs for a model run. All rasters must be aligned to
// the grid of the elevation raster.
type Config struct {
	// Biophysical maps land cover codes to curve numbers and crop
	// coefficients. Ignored in user-defined recharge mode.
	Biophysical BiophysicalTable

	// Climate selects one of the three climate input modes.
	Climate *ClimateInput

	// LandCover and SoilGroups code each pixel. Ignored in user-defined
	// recharge mode.
	LandCover  *IntRaster
	SoilGroups *IntRaster

	// Elevation is the terrain raster from which the flow routing network
	// is derived.
	Elevation *Raster

	// Alpha optionally supplies per-month recharge weighting
	// coefficients; when nil, AlphaAnnual is used for every month.
	Alpha *MonthlyAlpha

	// AlphaAnnual is the recharge weighting coefficient applied to
	// every month when no monthly table is supplied (typically 1/12).
	AlphaAnnual float64

	// Beta is the annual baseflow recession coefficient bounding the
	// baseflow index.
	Beta float64

	// Gamma is the shape exponent controlling how strongly upstream
	// accumulation dampens the baseflow index.
	Gamma float64

	// StreamThreshold is the flow accumulation count (pixels, including
	// self) at or above which a pixel is classified as a stream.
	StreamThreshold float64
}

// A ModelPass performs one full deterministic pass over the model domain.
type ModelPass func(*Model) error

// Model holds the state of a model run.
type Model struct {
	Config
	Grid GridDef

	// Network is the flow routing network, derived once from the
	// elevation raster and reused across the recharge and baseflow
	// phases.
	Network *FlowNetwork

	// L0 is annual local recharge before baseflow adjustment and
	// QuickFlow is annual quickflow, both from the water balance pass
	// (or supplied verbatim in user-defined recharge mode, in which case
	// QuickFlow is zero).
	L0        *Raster
	QuickFlow *Raster

	// L is the final local recharge surface, B the baseflow index in
	// [0,1], Vri each pixel's proportional contribution to domain
	// recharge, and Qb the baseflow depth B·L0.
	L   *Raster
	B   *Raster
	Vri *Raster
	Qb  *Raster

	// Passes is the ordered list of computation passes executed by Run.
	Passes []ModelPass
}

// NewModel creates a model for the given configuration with the default
// pass sequence. The configuration is not validated until Run.
func NewModel(cfg Config) *Model {
	m := &Model{Config: cfg}
	if cfg.Elevation != nil {
		m.Grid = cfg.Elevation.GridDef
	}
	m.Passes = []ModelPass{
		checkInputs(),
		waterBalance(),
		routeFlow(),
		solveBaseflow(),
		contributionIndex(),
	}
	return m
}

// Run executes the model passes in order, failing fast on the first
// error. Validation runs before any raster computation begins.
func (m *Model) Run() error {
	for _, pass := range m.Passes {
		if err := pass(m); err != nil {
			return err
		}
	}
	return nil
}

// checkInputs returns a pass that validates the full configuration; it
// performs no computation and has no side effects beyond inspection.
func checkInputs() ModelPass {
	return func(m *Model) error { return m.Config.Validate() }
}

// contributionIndex returns a pass that computes Vri, each pixel's share
// of the domain recharge total. If the domain total is zero the index is
// zero everywhere.
func contributionIndex() ModelPass {
	return func(m *Model) error {
		m.Vri = NewRaster(m.Grid)
		total := m.L.Sum()
		if total == 0 {
			return nil
		}
		for row := 0; row < m.Grid.Ny; row++ {
			for col := 0; col < m.Grid.Nx; col++ {
				m.Vri.Set(m.L.Get(row, col)/total, row, col)
			}
		}
		return nil
	}
}
