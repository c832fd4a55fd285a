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

	"github.com/ctessum/geom"
	"github.com/ctessum/sparse"
)

// GridDef describes the georeference shared by all rasters in a model run.
// X0 and Y0 are the coordinates of the upper-left corner of the grid;
// rows advance southward and columns advance eastward.
type GridDef struct {
	Nx, Ny int     // number of columns and rows
	X0, Y0 float64 // upper-left corner
	Dx, Dy float64 // cell edge lengths (both positive)
}

// Equal reports whether g and o describe the same grid.
func (g GridDef) Equal(o GridDef) bool {
	return g.Nx == o.Nx && g.Ny == o.Ny &&
		g.X0 == o.X0 && g.Y0 == o.Y0 && g.Dx == o.Dx && g.Dy == o.Dy
}

// CellCenter returns the map coordinates of the center of cell (row, col).
func (g GridDef) CellCenter(row, col int) geom.Point {
	return geom.Point{
		X: g.X0 + (float64(col)+0.5)*g.Dx,
		Y: g.Y0 - (float64(row)+0.5)*g.Dy,
	}
}

// CellArea returns the area of a single grid cell.
func (g GridDef) CellArea() float64 { return g.Dx * g.Dy }

// Cells returns the total number of cells in the grid.
func (g GridDef) Cells() int { return g.Nx * g.Ny }

// Raster is a georeferenced grid of float64 values.
type Raster struct {
	GridDef
	Data *sparse.DenseArray // Shape = [Ny, Nx]
}

// NewRaster creates a zero-filled raster on grid g.
func NewRaster(g GridDef) *Raster {
	return &Raster{GridDef: g, Data: sparse.ZerosDense(g.Ny, g.Nx)}
}

// Get returns the value of cell (row, col).
func (r *Raster) Get(row, col int) float64 { return r.Data.Get(row, col) }

// Set sets the value of cell (row, col).
func (r *Raster) Set(v float64, row, col int) { r.Data.Set(v, row, col) }

// Copy returns a deep copy of r.
func (r *Raster) Copy() *Raster {
	return &Raster{GridDef: r.GridDef, Data: r.Data.Copy()}
}

// Sum returns the sum of all cell values.
func (r *Raster) Sum() float64 { return r.Data.Sum() }

// IntRaster is a georeferenced grid of integer codes (land cover classes,
// soil groups, climate zones).
type IntRaster struct {
	GridDef
	Data *sparse.DenseArrayInt // Shape = [Ny, Nx]
}

// NewIntRaster creates a zero-filled integer raster on grid g.
func NewIntRaster(g GridDef) *IntRaster {
	return &IntRaster{GridDef: g, Data: sparse.ZerosDenseInt(g.Ny, g.Nx)}
}

// Get returns the code of cell (row, col).
func (r *IntRaster) Get(row, col int) int { return r.Data.Get(row, col) }

// Set sets the code of cell (row, col).
func (r *IntRaster) Set(v, row, col int) { r.Data.Set(v, row, col) }

// alignedWith returns an error unless o shares r's grid. name identifies
// the offending raster in the error message.
func (g GridDef) alignedWith(o GridDef, name string) error {
	if !g.Equal(o) {
		return fmt.Errorf("swy: raster %s is not aligned with the model grid: "+
			"have %dx%d cells of %gx%g at (%g,%g), want %dx%d cells of %gx%g at (%g,%g)",
			name, o.Nx, o.Ny, o.Dx, o.Dy, o.X0, o.Y0,
			g.Nx, g.Ny, g.Dx, g.Dy, g.X0, g.Y0)
	}
	return nil
}
