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

package swyio

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/maseology/mmio"
	"github.com/spatialmodel/swy"
)

// trailingInt matches the trailing integer in a file stem, the convention
// by which monthly raster files name their calendar month
// (precip_mm_3.asc, eto12.asc).
var trailingInt = regexp.MustCompile(`(\d+)$`)

// MatchMonthlyRasters lists the files with extension ext in dir and maps
// each calendar month to the paths whose names end in that month number.
// Files without a trailing integer, or with one outside 1–12, are mapped
// under their parsed value (or skipped when there is none) so that
// swy.ValidateMonthlyFiles can report them; this function itself does not
// judge completeness.
func MatchMonthlyRasters(dir, ext string) (map[int][]string, error) {
	if !mmio.DirExists(dir) {
		return nil, fmt.Errorf("swyio: the monthly raster directory %s does not exist", dir)
	}
	matches := make(map[int][]string)
	paths, err := mmio.FileListExt(dir, ext)
	if err != nil {
		return nil, fmt.Errorf("swyio: problem listing the monthly raster directory %s: %v", dir, err)
	}
	for _, path := range paths {
		stem := mmio.FileName(path, false)
		m := trailingInt.FindStringSubmatch(stem)
		if m == nil {
			continue
		}
		month, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		matches[month] = append(matches[month], path)
	}
	return matches, nil
}

// ReadMonthlyRasters matches and reads the twelve monthly rasters in dir,
// validating that exactly one file resolves per month. label names the
// input kind in validation errors.
func ReadMonthlyRasters(dir, ext, label string) ([12]*swy.Raster, error) {
	var rasters [12]*swy.Raster
	matches, err := MatchMonthlyRasters(dir, ext)
	if err != nil {
		return rasters, err
	}
	if err := swy.ValidateMonthlyFiles(label, matches); err != nil {
		return rasters, err
	}
	for month := 1; month <= 12; month++ {
		if rasters[month-1], err = ReadRaster(matches[month][0]); err != nil {
			return rasters, err
		}
	}
	return rasters, nil
}

// ReadRaster reads an ESRI ASCII grid raster.
func ReadRaster(path string) (*swy.Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("swyio: the raster %s does not appear to exist or "+
			"cannot be opened: %v", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	header := make(map[string]float64)
	var values []float64
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) == 2 && len(values) == 0 {
			if v, err := strconv.ParseFloat(fields[1], 64); err == nil {
				header[strings.ToLower(fields[0])] = v
				continue
			}
		}
		for _, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("swyio: the raster %s contains the non-numeric "+
					"value %q", path, field)
			}
			values = append(values, v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("swyio: problem reading the raster %s: %v", path, err)
	}

	for _, key := range []string{"ncols", "nrows", "xllcorner", "yllcorner", "cellsize"} {
		if _, ok := header[key]; !ok {
			return nil, fmt.Errorf("swyio: the raster %s is missing the header "+
				"field %q", path, key)
		}
	}
	g := swy.GridDef{
		Nx: int(header["ncols"]),
		Ny: int(header["nrows"]),
		Dx: header["cellsize"],
		Dy: header["cellsize"],
	}
	g.X0 = header["xllcorner"]
	g.Y0 = header["yllcorner"] + float64(g.Ny)*g.Dy
	if len(values) != g.Cells() {
		return nil, fmt.Errorf("swyio: the raster %s declares %dx%d cells but "+
			"contains %d values", path, g.Nx, g.Ny, len(values))
	}

	r := swy.NewRaster(g)
	for row := 0; row < g.Ny; row++ {
		for col := 0; col < g.Nx; col++ {
			r.Set(values[row*g.Nx+col], row, col)
		}
	}
	return r, nil
}

// ReadIntRaster reads an ESRI ASCII grid raster of integer codes. Values
// must be whole numbers.
func ReadIntRaster(path string) (*swy.IntRaster, error) {
	r, err := ReadRaster(path)
	if err != nil {
		return nil, err
	}
	out := swy.NewIntRaster(r.GridDef)
	for row := 0; row < r.Ny; row++ {
		for col := 0; col < r.Nx; col++ {
			v := r.Get(row, col)
			if v != math.Trunc(v) {
				return nil, fmt.Errorf("swyio: the raster %s holds integer codes but "+
					"contains the fractional value %g at (%d,%d)", path, v, row, col)
			}
			out.Set(int(v), row, col)
		}
	}
	return out, nil
}

// WriteRaster writes r as an ESRI ASCII grid, overwriting any existing
// file at path. The format carries a single cell size, so rasters with
// rectangular cells cannot be persisted.
func WriteRaster(path string, r *swy.Raster) error {
	if r.Dx != r.Dy {
		return fmt.Errorf("swyio: cannot write raster %s: ASCII grids require "+
			"square cells but this raster has %gx%g", path, r.Dx, r.Dy)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("swyio: problem creating the output raster %s: %v", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "ncols %d\n", r.Nx)
	fmt.Fprintf(w, "nrows %d\n", r.Ny)
	fmt.Fprintf(w, "xllcorner %g\n", r.X0)
	fmt.Fprintf(w, "yllcorner %g\n", r.Y0-float64(r.Ny)*r.Dy)
	fmt.Fprintf(w, "cellsize %g\n", r.Dx)
	for row := 0; row < r.Ny; row++ {
		for col := 0; col < r.Nx; col++ {
			if col > 0 {
				fmt.Fprint(w, " ")
			}
			fmt.Fprintf(w, "%g", r.Get(row, col))
		}
		fmt.Fprintln(w)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("swyio: problem writing the output raster %s: %v", path, err)
	}
	return nil
}
