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
	"math"
	"testing"
)

const testTolerance = 1.e-6

// different reports whether a and b differ by more than tolerance in a
// relative sense.
func different(a, b, tolerance float64) bool {
	if a == b {
		return false
	}
	return 2*math.Abs(a-b)/math.Abs(a+b) > tolerance ||
		math.IsNaN(a) || math.IsNaN(b)
}

// testGrid returns the 10x10 grid of 1x1 m cells used by the regression
// fixture.
func testGrid() GridDef {
	return GridDef{Nx: 10, Ny: 10, X0: 1180000, Y0: 690000, Dx: 1, Dy: 1}
}

// testElevation slopes downward to the west (elevation equals the column
// number), so every pixel drains due west and the leftmost column holds
// the outlets.
func testElevation() *Raster {
	g := testGrid()
	r := NewRaster(g)
	for row := 0; row < g.Ny; row++ {
		for col := 0; col < g.Nx; col++ {
			r.Set(float64(col), row, col)
		}
	}
	return r
}

// testBiophysical parameterizes the fixture's two land cover classes.
// Soil groups C and D carry curve number zero, meaning runoff is
// undefined there and quickflow is zero.
func testBiophysical() BiophysicalTable {
	kc := func(v float64) (out [12]float64) {
		for m := range out {
			out[m] = v
		}
		return
	}
	return BiophysicalTable{
		0: {CN: [NumSoilGroups]float64{50, 50, 0, 0}, Kc: kc(0.7)},
		1: {CN: [NumSoilGroups]float64{72, 82, 0, 0}, Kc: kc(0.4)},
	}
}

// testLandCover covers the northern half of the domain with class 0 and
// the southern half with class 1.
func testLandCover() *IntRaster {
	g := testGrid()
	r := NewIntRaster(g)
	for row := 5; row < g.Ny; row++ {
		for col := 0; col < g.Nx; col++ {
			r.Set(1, row, col)
		}
	}
	return r
}

// testSoilGroups cycles the four soil groups by row.
func testSoilGroups() *IntRaster {
	g := testGrid()
	r := NewIntRaster(g)
	for row := 0; row < g.Ny; row++ {
		for col := 0; col < g.Nx; col++ {
			r.Set(row%4+1, row, col)
		}
	}
	return r
}

// testClimate returns the fixture climate: precipitation of month+10 mm
// falling in a single event, and reference evapotranspiration equal to
// the month number.
func testClimate() *ClimateInput {
	g := testGrid()
	constRaster := func(v float64) *Raster {
		r := NewRaster(g)
		for row := 0; row < g.Ny; row++ {
			for col := 0; col < g.Nx; col++ {
				r.Set(v, row, col)
			}
		}
		return r
	}
	var precip, et0 [12]*Raster
	var events [12]float64
	for m := 0; m < 12; m++ {
		precip[m] = constRaster(float64(m + 11))
		et0[m] = constRaster(float64(m + 1))
		events[m] = 1
	}
	return GriddedClimate(precip, et0, events)
}

// testConfig assembles the full regression configuration. The stream
// threshold of 1000 exceeds the largest possible accumulation on the
// 10x10 grid, so no pixel is classified as a stream.
func testConfig() Config {
	return Config{
		Biophysical:     testBiophysical(),
		Climate:         testClimate(),
		LandCover:       testLandCover(),
		SoilGroups:      testSoilGroups(),
		Elevation:       testElevation(),
		AlphaAnnual:     1. / 12.,
		Beta:            1,
		Gamma:           1,
		StreamThreshold: 1000,
	}
}

// meanRaster returns the mean of all cell values.
func meanRaster(r *Raster) float64 {
	return r.Sum() / float64(r.Cells())
}

func TestRunRegression(t *testing.T) {
	m := NewModel(testConfig())
	if err := m.Run(); err != nil {
		t.Fatal(err)
	}

	// Annual local recharge is uniform along each row of the fixture.
	wantL0 := []float64{
		143.4, 143.4, 143.4, 143.4, 143.4,
		159.22235050469138, 166.8, 166.8, 166.7340480181428, 159.22235050469138,
	}
	wantQF := []float64{
		0, 0, 0, 0, 0,
		7.577649495308634, 0, 0, 0.06595198185721306, 7.577649495308634,
	}
	for row := 0; row < 10; row++ {
		for col := 0; col < 10; col++ {
			if l0 := m.L0.Get(row, col); different(l0, wantL0[row], testTolerance) {
				t.Errorf("L0(%d,%d) = %g, want %g", row, col, l0, wantL0[row])
			}
			qf := m.QuickFlow.Get(row, col)
			if wantQF[row] == 0 {
				if qf != 0 {
					t.Errorf("QuickFlow(%d,%d) = %g, want 0", row, col, qf)
				}
			} else if different(qf, wantQF[row], testTolerance) {
				t.Errorf("QuickFlow(%d,%d) = %g, want %g", row, col, qf, wantQF[row])
			}
		}
	}

	// With no stream pixels, all local recharge survives to L and the
	// contribution index sums to one over the domain.
	if sum := m.Vri.Sum(); different(sum, 1, testTolerance) {
		t.Errorf("domain Vri sum = %g, want 1", sum)
	}
	if qb := meanRaster(m.Qb); different(qb, 151.83791355429952, testTolerance) {
		t.Errorf("mean baseflow depth = %g, want 151.83791355429952", qb)
	}
	if b := m.B.Get(0, 0); different(b, 0.9993031358885017, testTolerance) {
		t.Errorf("B(0,0) = %g, want 0.9993031358885017", b)
	}
	if b := m.B.Get(5, 9); different(b, 0.9488817074177078, testTolerance) {
		t.Errorf("B(5,9) = %g, want 0.9488817074177078", b)
	}
	for row := 0; row < 10; row++ {
		for col := 0; col < 10; col++ {
			if l, l0 := m.L.Get(row, col), m.L0.Get(row, col); l != l0 {
				t.Fatalf("L(%d,%d) = %g differs from L0 = %g on a non-stream pixel",
					row, col, l, l0)
			}
		}
	}
}

// A monthly alpha table holding a uniform twelfth must reproduce the
// default behavior.
func TestRunMonthlyAlpha(t *testing.T) {
	base := NewModel(testConfig())
	if err := base.Run(); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig()
	var alpha MonthlyAlpha
	for m := range alpha {
		alpha[m] = 1. / 12.
	}
	cfg.Alpha = &alpha
	withTable := NewModel(cfg)
	if err := withTable.Run(); err != nil {
		t.Fatal(err)
	}

	for row := 0; row < 10; row++ {
		for col := 0; col < 10; col++ {
			a, b := base.L0.Get(row, col), withTable.L0.Get(row, col)
			if different(a, b, testTolerance) {
				t.Fatalf("L0(%d,%d): uniform table gives %g, default gives %g",
					row, col, b, a)
			}
		}
	}
}

// A single climate zone with the same event count as the gridded fixture
// must reproduce the gridded results exactly.
func TestRunClimateZones(t *testing.T) {
	base := NewModel(testConfig())
	if err := base.Run(); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig()
	g := testGrid()
	zones := NewIntRaster(g)
	var precip, et0 [12]*Raster
	for m := 0; m < 12; m++ {
		precip[m] = cfg.Climate.Precip(m + 1)
		et0[m] = cfg.Climate.ET0(m + 1)
	}
	var events [12]float64
	for m := range events {
		events[m] = 1
	}
	cfg.Climate = ZonedClimate(precip, et0, zones, map[int][12]float64{0: events})
	zoned := NewModel(cfg)
	if err := zoned.Run(); err != nil {
		t.Fatal(err)
	}

	for row := 0; row < 10; row++ {
		for col := 0; col < 10; col++ {
			a, b := base.Qb.Get(row, col), zoned.Qb.Get(row, col)
			if a != b {
				t.Fatalf("Qb(%d,%d): zoned climate gives %g, gridded gives %g",
					row, col, b, a)
			}
		}
	}
}

// An unmapped climate zone code must abort the run rather than default
// to zero rain events.
func TestRunClimateZoneMissing(t *testing.T) {
	cfg := testConfig()
	g := testGrid()
	zones := NewIntRaster(g)
	zones.Set(7, 3, 3)
	var precip, et0 [12]*Raster
	for m := 0; m < 12; m++ {
		precip[m] = cfg.Climate.Precip(m + 1)
		et0[m] = cfg.Climate.ET0(m + 1)
	}
	cfg.Climate = ZonedClimate(precip, et0, zones, map[int][12]float64{0: {1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}})
	if err := NewModel(cfg).Run(); err == nil {
		t.Fatal("expected an error for the unmapped climate zone 7")
	}
}

// In user-defined recharge mode the supplied raster passes through the
// water balance verbatim and feeds the baseflow solver with zero
// quickflow.
func TestRunUserRecharge(t *testing.T) {
	base := NewModel(testConfig())
	if err := base.Run(); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig()
	cfg.Climate = UserRecharge(base.L0.Copy())
	cfg.Biophysical = nil
	cfg.LandCover = nil
	cfg.SoilGroups = nil
	m := NewModel(cfg)
	if err := m.Run(); err != nil {
		t.Fatal(err)
	}

	for row := 0; row < 10; row++ {
		for col := 0; col < 10; col++ {
			if l0, want := m.L0.Get(row, col), base.L0.Get(row, col); l0 != want {
				t.Fatalf("L0(%d,%d) = %g, want the supplied recharge value %g",
					row, col, l0, want)
			}
			if qf := m.QuickFlow.Get(row, col); qf != 0 {
				t.Fatalf("QuickFlow(%d,%d) = %g, want 0 in user-defined recharge mode",
					row, col, qf)
			}
		}
	}
	// Without quickflow the baseflow index rises and so does the mean
	// baseflow depth.
	if qb := meanRaster(m.Qb); different(qb, 153.28598676412602, testTolerance) {
		t.Errorf("mean baseflow depth = %g, want 153.28598676412602", qb)
	}
}

// Two runs of the same configuration must produce identical surfaces.
func TestRunDeterministic(t *testing.T) {
	a := NewModel(testConfig())
	if err := a.Run(); err != nil {
		t.Fatal(err)
	}
	b := NewModel(testConfig())
	if err := b.Run(); err != nil {
		t.Fatal(err)
	}
	for row := 0; row < 10; row++ {
		for col := 0; col < 10; col++ {
			if a.L.Get(row, col) != b.L.Get(row, col) ||
				a.B.Get(row, col) != b.B.Get(row, col) ||
				a.Vri.Get(row, col) != b.Vri.Get(row, col) {
				t.Fatalf("runs differ at (%d,%d)", row, col)
			}
		}
	}
}
