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

import (
	"fmt"
	"path/filepath"
	"sort"
)

// Validate checks the configuration eagerly, before any raster pass
// begins. Errors identify the offending month, code, or raster and are
// unrecoverable: the run aborts rather than silently degrading.
func (c Config) Validate() error {
	if c.Climate == nil {
		return fmt.Errorf("swy: no climate input was supplied; choose one of the " +
			"gridded, climate zones, or user-defined recharge modes")
	}
	if c.Elevation == nil {
		return fmt.Errorf("swy: no elevation raster was supplied")
	}
	grid := c.Elevation.GridDef
	if grid.Nx < 1 || grid.Ny < 1 || grid.Dx <= 0 || grid.Dy <= 0 {
		return fmt.Errorf("swy: elevation raster has a degenerate grid "+
			"(%dx%d cells of %gx%g)", grid.Nx, grid.Ny, grid.Dx, grid.Dy)
	}
	if err := c.Climate.validate(grid); err != nil {
		return err
	}
	if c.StreamThreshold <= 0 {
		return fmt.Errorf("swy: the flow accumulation threshold must be positive "+
			"(got %g)", c.StreamThreshold)
	}
	if c.Beta < 0 || c.Gamma < 0 {
		return fmt.Errorf("swy: the baseflow coefficients must be non-negative "+
			"(beta=%g, gamma=%g)", c.Beta, c.Gamma)
	}
	if c.Climate.mode == modeUserRecharge {
		// Land cover, soil groups, and the biophysical table are bypassed
		// along with the water balance.
		return nil
	}
	if c.LandCover == nil {
		return fmt.Errorf("swy: no land cover raster was supplied")
	}
	if c.SoilGroups == nil {
		return fmt.Errorf("swy: no soil group raster was supplied")
	}
	if err := grid.alignedWith(c.LandCover.GridDef, "land cover"); err != nil {
		return err
	}
	if err := grid.alignedWith(c.SoilGroups.GridDef, "soil groups"); err != nil {
		return err
	}
	if len(c.Biophysical) == 0 {
		return fmt.Errorf("swy: the biophysical table is empty")
	}
	return c.Biophysical.checkCoverage(c.LandCover, c.SoilGroups)
}

// ValidateMonthlyFiles checks that matches, a map from calendar month to
// the file paths that resolved to it, holds exactly one path for each of
// the twelve months. label names the input kind (for example
// "precipitation") in the error. Ambiguous months are reported before
// missing ones so that a duplicated file is not misdiagnosed.
func ValidateMonthlyFiles(label string, matches map[int][]string) error {
	for month := 1; month <= 12; month++ {
		if paths := matches[month]; len(paths) > 1 {
			sorted := append([]string{}, paths...)
			sort.Strings(sorted)
			return fmt.Errorf("swy: %d %s files match month %d (%v); exactly one is "+
				"required", len(paths), label, month, sorted)
		}
	}
	for month := 1; month <= 12; month++ {
		if len(matches[month]) == 0 {
			return fmt.Errorf("swy: no %s file matches month %d; exactly one is "+
				"required for each of the twelve months", label, month)
		}
	}
	for month := range matches {
		if month < 1 || month > 12 {
			return fmt.Errorf("swy: %s files match month %d, which is not a "+
				"calendar month", label, month)
		}
	}
	return nil
}

// ValidateOutputVector confirms that the designated output vector path is
// not identical to the input aggregation zone path, which would
// destructively overwrite the input. The check runs before any
// computation begins.
func ValidateOutputVector(zonePath, outputPath string) error {
	if filepath.Clean(zonePath) == filepath.Clean(outputPath) {
		return fmt.Errorf("swy: the output vector path %q is the same as the "+
			"aggregation zone path; writing the results would overwrite the input",
			outputPath)
	}
	return nil
}
