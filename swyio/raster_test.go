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
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spatialmodel/swy"
)

const testGridContent = `ncols 3
nrows 2
xllcorner 1180000
yllcorner 689998
cellsize 1
1 2 3
4 5 6
`

func TestReadRaster(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dem.asc")
	if err := os.WriteFile(path, []byte(testGridContent), 0644); err != nil {
		t.Fatal(err)
	}
	r, err := ReadRaster(path)
	if err != nil {
		t.Fatal(err)
	}
	if r.Nx != 3 || r.Ny != 2 {
		t.Fatalf("grid is %dx%d, want 3x2", r.Nx, r.Ny)
	}
	// The header's lower-left corner becomes the upper-left origin.
	if r.X0 != 1180000 || r.Y0 != 690000 {
		t.Errorf("origin = (%g,%g), want (1180000,690000)", r.X0, r.Y0)
	}
	want := [][]float64{{1, 2, 3}, {4, 5, 6}}
	for row := 0; row < 2; row++ {
		for col := 0; col < 3; col++ {
			if v := r.Get(row, col); v != want[row][col] {
				t.Errorf("value(%d,%d) = %g, want %g", row, col, v, want[row][col])
			}
		}
	}
}

func TestReadRasterErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	if _, err := ReadRaster(filepath.Join(dir, "missing.asc")); err == nil {
		t.Error("expected an error for a nonexistent raster")
	}
	// Declared size does not match the value count.
	if _, err := ReadRaster(write("short.asc",
		"ncols 3\nnrows 2\nxllcorner 0\nyllcorner 0\ncellsize 1\n1 2 3\n")); err == nil {
		t.Error("expected an error for a truncated raster")
	}
	// Header field missing.
	if _, err := ReadRaster(write("nohdr.asc",
		"ncols 2\nnrows 1\nxllcorner 0\ncellsize 1\n1 2\n")); err == nil {
		t.Error("expected an error for the missing yllcorner header")
	}
	// Non-numeric data.
	if _, err := ReadRaster(write("bad.asc",
		"ncols 2\nnrows 1\nxllcorner 0\nyllcorner 0\ncellsize 1\n1 x\n")); err == nil {
		t.Error("expected an error for non-numeric data")
	}
}

func TestWriteRasterRoundTrip(t *testing.T) {
	g := swy.GridDef{Nx: 4, Ny: 3, X0: 1180000, Y0: 690000, Dx: 2, Dy: 2}
	r := swy.NewRaster(g)
	for row := 0; row < g.Ny; row++ {
		for col := 0; col < g.Nx; col++ {
			r.Set(float64(row*g.Nx+col)/8, row, col)
		}
	}

	path := filepath.Join(t.TempDir(), "out.asc")
	if err := WriteRaster(path, r); err != nil {
		t.Fatal(err)
	}
	back, err := ReadRaster(path)
	if err != nil {
		t.Fatal(err)
	}
	if !back.GridDef.Equal(g) {
		t.Fatalf("round trip changed the grid: %+v != %+v", back.GridDef, g)
	}
	for row := 0; row < g.Ny; row++ {
		for col := 0; col < g.Nx; col++ {
			if back.Get(row, col) != r.Get(row, col) {
				t.Errorf("value(%d,%d) = %g, want %g",
					row, col, back.Get(row, col), r.Get(row, col))
			}
		}
	}
}

func TestWriteRasterRectangularCells(t *testing.T) {
	r := swy.NewRaster(swy.GridDef{Nx: 2, Ny: 2, Dx: 1, Dy: 2})
	if err := WriteRaster(filepath.Join(t.TempDir(), "bad.asc"), r); err == nil {
		t.Error("expected an error for rectangular cells")
	}
}

func TestReadIntRaster(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lulc.asc")
	if err := os.WriteFile(path, []byte(testGridContent), 0644); err != nil {
		t.Fatal(err)
	}
	r, err := ReadIntRaster(path)
	if err != nil {
		t.Fatal(err)
	}
	if r.Get(1, 2) != 6 {
		t.Errorf("value(1,2) = %d, want 6", r.Get(1, 2))
	}

	frac := filepath.Join(dir, "frac.asc")
	content := "ncols 2\nnrows 1\nxllcorner 0\nyllcorner 0\ncellsize 1\n1 2.5\n"
	if err := os.WriteFile(frac, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadIntRaster(frac); err == nil {
		t.Error("expected an error for the fractional code 2.5")
	}
}

// writeMonthlyDir fills a directory with one raster per month plus any
// extra files, all carrying the same 1x1 grid.
func writeMonthlyDir(t *testing.T, names []string) string {
	t.Helper()
	dir := t.TempDir()
	content := "ncols 1\nnrows 1\nxllcorner 0\nyllcorner 0\ncellsize 1\n7\n"
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestReadMonthlyRasters(t *testing.T) {
	var names []string
	for m := 1; m <= 12; m++ {
		names = append(names, fmt.Sprintf("precip_mm_%d.asc", m))
	}
	dir := writeMonthlyDir(t, names)
	rasters, err := ReadMonthlyRasters(dir, ".asc", "precipitation")
	if err != nil {
		t.Fatal(err)
	}
	for m, r := range rasters {
		if r == nil {
			t.Fatalf("no raster for month %d", m+1)
		}
		if r.Get(0, 0) != 7 {
			t.Errorf("month %d value = %g, want 7", m+1, r.Get(0, 0))
		}
	}
}

func TestReadMonthlyRastersThirteen(t *testing.T) {
	// Both precip_3 and precip_03 resolve to March; the ambiguity must
	// be reported, not silently resolved.
	var names []string
	for m := 1; m <= 12; m++ {
		names = append(names, fmt.Sprintf("precip_%d.asc", m))
	}
	names = append(names, "precip_03.asc")
	dir := writeMonthlyDir(t, names)
	_, err := ReadMonthlyRasters(dir, ".asc", "precipitation")
	if err == nil {
		t.Fatal("expected an error for thirteen files")
	}
	if !strings.Contains(err.Error(), "month 3") {
		t.Errorf("error %q does not name the ambiguous month", err)
	}
}

func TestReadMonthlyRastersEleven(t *testing.T) {
	var names []string
	for m := 1; m <= 12; m++ {
		if m == 6 {
			continue
		}
		names = append(names, fmt.Sprintf("eto_%d.asc", m))
	}
	dir := writeMonthlyDir(t, names)
	_, err := ReadMonthlyRasters(dir, ".asc", "evapotranspiration")
	if err == nil {
		t.Fatal("expected an error for eleven files")
	}
	if !strings.Contains(err.Error(), "month 6") {
		t.Errorf("error %q does not name the missing month", err)
	}
}

func TestMatchMonthlyRasters(t *testing.T) {
	dir := writeMonthlyDir(t, []string{
		"precip_1.asc", "precip_2.asc", "notes.asc", "precip_1.txt",
	})
	matches, err := MatchMonthlyRasters(dir, ".asc")
	if err != nil {
		t.Fatal(err)
	}
	if len(matches[1]) != 1 || len(matches[2]) != 1 {
		t.Errorf("matches = %v, want one file each for months 1 and 2", matches)
	}
	// Files without a trailing month number and files with another
	// extension are ignored.
	for m, paths := range matches {
		if m != 1 && m != 2 {
			t.Errorf("unexpected match for month %d: %v", m, paths)
		}
	}

	if _, err := MatchMonthlyRasters(filepath.Join(dir, "nope"), ".asc"); err == nil {
		t.Error("expected an error for a nonexistent directory")
	}
}
