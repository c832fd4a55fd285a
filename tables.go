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

// NumSoilGroups is the number of hydrologic soil permeability groups
// (A–D, coded 1–4 in the soil group raster).
const NumSoilGroups = 4

// BiophysicalParameters holds the runoff and evapotranspiration parameters
// for one land cover class.
type BiophysicalParameters struct {
	// CN holds the SCS curve number for each of the four soil groups.
	// A value of zero means runoff is undefined for that combination and
	// quickflow is taken as zero.
	CN [NumSoilGroups]float64

	// Kc holds the monthly crop coefficients scaling reference
	// evapotranspiration to actual land cover water use; index 0 is
	// January.
	Kc [12]float64
}

// BiophysicalTable maps land cover codes to their parameters. Every code
// present in the land cover raster must have an entry; missing codes are
// an input error, not a silent default.
type BiophysicalTable map[int]BiophysicalParameters

// MonthlyAlpha holds twelve monthly weighting coefficients redistributing
// the annual recharge coefficient by month. The table need not sum to any
// fixed total, although it typically sums to one.
type MonthlyAlpha [12]float64

// uniformAlpha returns the weights used when no monthly alpha table is
// supplied: the same coefficient (typically 1/12) for every month.
func uniformAlpha(alphaM float64) MonthlyAlpha {
	var a MonthlyAlpha
	for m := range a {
		a[m] = alphaM
	}
	return a
}

// checkCoverage returns an error naming the first land cover code in lulc
// that has no entry in the table, or the first soil group outside 1–4.
func (t BiophysicalTable) checkCoverage(lulc, soil *IntRaster) error {
	for row := 0; row < lulc.Ny; row++ {
		for col := 0; col < lulc.Nx; col++ {
			code := lulc.Get(row, col)
			if _, ok := t[code]; !ok {
				return fmt.Errorf("swy: land cover code %d at pixel (%d,%d) has no entry "+
					"in the biophysical table; every code in the land cover raster "+
					"must be parameterized", code, row, col)
			}
			if g := soil.Get(row, col); g < 1 || g > NumSoilGroups {
				return fmt.Errorf("swy: soil group %d at pixel (%d,%d) is outside the "+
					"defined range 1–%d", g, row, col, NumSoilGroups)
			}
		}
	}
	return nil
}
