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

// Package swyio decodes the file formats consumed and produced by the
// seasonal water yield model: CSV parameter tables, monthly raster
// directories, ASCII grid rasters, and shapefile vectors. The model core
// itself only ever sees decoded arrays and tables.
package swyio

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spatialmodel/swy"
)

// monthColumns are the per-month column headers of the climate zone
// events table, in calendar order.
var monthColumns = []string{"jan", "feb", "mar", "apr", "may", "jun",
	"jul", "aug", "sep", "oct", "nov", "dec"}

// readCSV reads path and returns the header (lower-cased) and data rows.
func readCSV(path string) (header []string, rows [][]string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("swyio: the table %s does not appear to exist "+
			"or cannot be opened: %v", path, err)
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("swyio: problem parsing the table %s: %v", path, err)
	}
	if len(records) < 2 {
		return nil, nil, fmt.Errorf("swyio: the table %s has no data rows", path)
	}
	header = records[0]
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}
	return header, records[1:], nil
}

// columnIndex returns the position of each named column in header, or an
// error naming the first column that is missing.
func columnIndex(path string, header []string, names ...string) (map[string]int, error) {
	idx := make(map[string]int, len(names))
	for _, name := range names {
		found := -1
		for i, h := range header {
			if h == name {
				found = i
				break
			}
		}
		if found < 0 {
			return nil, fmt.Errorf("swyio: the table %s is missing the required "+
				"column %q (found columns %v)", path, name, header)
		}
		idx[name] = found
	}
	return idx, nil
}

func parseFloat(path, column, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("swyio: the %q value %q in table %s is not a number",
			column, s, path)
	}
	return v, nil
}

func parseInt(path, column, s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("swyio: the %q value %q in table %s is not an integer",
			column, s, path)
	}
	return v, nil
}

// ReadBiophysicalTable reads a biophysical parameter table mapping land
// cover codes to four curve numbers (columns cn_a through cn_d) and
// twelve monthly crop coefficients (columns kc_1 through kc_12).
func ReadBiophysicalTable(path string) (swy.BiophysicalTable, error) {
	header, rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	names := []string{"lucode", "cn_a", "cn_b", "cn_c", "cn_d"}
	for m := 1; m <= 12; m++ {
		names = append(names, fmt.Sprintf("kc_%d", m))
	}
	idx, err := columnIndex(path, header, names...)
	if err != nil {
		return nil, err
	}

	table := make(swy.BiophysicalTable, len(rows))
	for _, row := range rows {
		code, err := parseInt(path, "lucode", row[idx["lucode"]])
		if err != nil {
			return nil, err
		}
		if _, ok := table[code]; ok {
			return nil, fmt.Errorf("swyio: land cover code %d appears more than "+
				"once in the biophysical table %s", code, path)
		}
		var p swy.BiophysicalParameters
		for i, soil := range []string{"cn_a", "cn_b", "cn_c", "cn_d"} {
			if p.CN[i], err = parseFloat(path, soil, row[idx[soil]]); err != nil {
				return nil, err
			}
		}
		for m := 0; m < 12; m++ {
			col := fmt.Sprintf("kc_%d", m+1)
			if p.Kc[m], err = parseFloat(path, col, row[idx[col]]); err != nil {
				return nil, err
			}
		}
		table[code] = p
	}
	return table, nil
}

// ReadRainEvents reads a rain events table with columns "month" and
// "events" and returns the number of rain events for each of the twelve
// months. Every month must appear exactly once.
func ReadRainEvents(path string) ([12]float64, error) {
	var events [12]float64
	header, rows, err := readCSV(path)
	if err != nil {
		return events, err
	}
	idx, err := columnIndex(path, header, "month", "events")
	if err != nil {
		return events, err
	}
	var seen [12]bool
	for _, row := range rows {
		month, err := parseInt(path, "month", row[idx["month"]])
		if err != nil {
			return events, err
		}
		if month < 1 || month > 12 {
			return events, fmt.Errorf("swyio: month %d in the rain events table %s "+
				"is not a calendar month", month, path)
		}
		if seen[month-1] {
			return events, fmt.Errorf("swyio: month %d appears more than once in "+
				"the rain events table %s", month, path)
		}
		seen[month-1] = true
		if events[month-1], err = parseFloat(path, "events", row[idx["events"]]); err != nil {
			return events, err
		}
	}
	for m, ok := range seen {
		if !ok {
			return events, fmt.Errorf("swyio: month %d is missing from the rain "+
				"events table %s", m+1, path)
		}
	}
	return events, nil
}

// ReadClimateZoneEvents reads a climate zone events table with a "cz_id"
// column and one column per month (jan through dec), returning the
// monthly rain event counts for each zone.
func ReadClimateZoneEvents(path string) (map[int][12]float64, error) {
	header, rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	names := append([]string{"cz_id"}, monthColumns...)
	idx, err := columnIndex(path, header, names...)
	if err != nil {
		return nil, err
	}
	zones := make(map[int][12]float64, len(rows))
	for _, row := range rows {
		zone, err := parseInt(path, "cz_id", row[idx["cz_id"]])
		if err != nil {
			return nil, err
		}
		if _, ok := zones[zone]; ok {
			return nil, fmt.Errorf("swyio: climate zone %d appears more than once "+
				"in the events table %s", zone, path)
		}
		var ev [12]float64
		for m, col := range monthColumns {
			if ev[m], err = parseFloat(path, col, row[idx[col]]); err != nil {
				return nil, err
			}
		}
		zones[zone] = ev
	}
	return zones, nil
}

// ReadMonthlyAlpha reads a monthly alpha table with columns "month" and
// "alpha". Every month must appear exactly once.
func ReadMonthlyAlpha(path string) (*swy.MonthlyAlpha, error) {
	header, rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	idx, err := columnIndex(path, header, "month", "alpha")
	if err != nil {
		return nil, err
	}
	var alpha swy.MonthlyAlpha
	var seen [12]bool
	for _, row := range rows {
		month, err := parseInt(path, "month", row[idx["month"]])
		if err != nil {
			return nil, err
		}
		if month < 1 || month > 12 {
			return nil, fmt.Errorf("swyio: month %d in the monthly alpha table %s "+
				"is not a calendar month", month, path)
		}
		if seen[month-1] {
			return nil, fmt.Errorf("swyio: month %d appears more than once in the "+
				"monthly alpha table %s", month, path)
		}
		seen[month-1] = true
		if alpha[month-1], err = parseFloat(path, "alpha", row[idx["alpha"]]); err != nil {
			return nil, err
		}
	}
	for m, ok := range seen {
		if !ok {
			return nil, fmt.Errorf("swyio: month %d is missing from the monthly "+
				"alpha table %s", m+1, path)
		}
	}
	return &alpha, nil
}
