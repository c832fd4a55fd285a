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
	"strings"

	"github.com/ctessum/geom/encoding/shp"
	"github.com/ctessum/geom/proj"
	goshp "github.com/jonas-p/go-shp"
	"github.com/maseology/mmio"

	"github.com/spatialmodel/swy"
)

// shapefileSidecars are the extensions sharing a shapefile's base name.
var shapefileSidecars = []string{".shp", ".shx", ".dbf", ".prj"}

// ReadAOI reads the aggregation zone polygons from a shapefile. If
// gridSR is non-nil the zone geometries are reprojected into it. The
// returned prj string holds the raw contents of the .prj sidecar (empty
// when there is none) for reuse on the output vector.
func ReadAOI(path string, gridSR *proj.SR) (zones []*swy.AggregationZone, prj string, err error) {
	base := strings.TrimSuffix(path, ".shp")
	d, err := shp.NewDecoder(base + ".shp")
	if err != nil {
		return nil, "", fmt.Errorf("swyio: there was a problem reading the aggregation "+
			"zone shapefile %s: %v", path, err)
	}
	defer d.Close()

	var trans proj.Transformer
	if gridSR != nil {
		sr, err := d.SR()
		if err != nil {
			return nil, "", fmt.Errorf("swyio: there was a problem reading the projection "+
				"information for the aggregation zone shapefile %s: %v", path, err)
		}
		if trans, err = sr.NewTransform(gridSR); err != nil {
			return nil, "", fmt.Errorf("swyio: there was a problem creating a spatial "+
				"reprojector for the aggregation zone shapefile %s: %v", path, err)
		}
	}

	for {
		var z swy.AggregationZone
		if ok := d.DecodeRow(&z); !ok {
			break
		}
		if trans != nil {
			if z.Geom, err = z.Transform(trans); err != nil {
				return nil, "", fmt.Errorf("swyio: there was a problem spatially "+
					"reprojecting aggregation zone %d in %s: %v", z.FID, path, err)
			}
		}
		zones = append(zones, &z)
	}
	if err := d.Error(); err != nil {
		return nil, "", fmt.Errorf("swyio: problem reading the aggregation zone "+
			"shapefile %s: %v", path, err)
	}

	if b, readErr := os.ReadFile(base + ".prj"); readErr == nil {
		prj = string(b)
	}
	return zones, prj, nil
}

// WriteAggregateVector writes the aggregated results vector: a fresh copy
// of the zone polygons carrying vri_sum and qb attribute fields. A
// pre-existing vector at path is deleted and recreated rather than
// appended to, so reruns are idempotent. prj, if non-empty, is written as
// the .prj sidecar.
func WriteAggregateVector(path string, zones []*swy.AggregationZone, totals []swy.ZoneTotals, prj string) error {
	byFID := make(map[int]swy.ZoneTotals, len(totals))
	for _, t := range totals {
		byFID[t.FID] = t
	}

	base := strings.TrimSuffix(path, ".shp")
	for _, ext := range shapefileSidecars {
		if _, ok := mmio.FileExists(base + ext); ok {
			mmio.DeleteFile(base + ext)
		}
	}

	e, err := shp.NewEncoderFromFields(base+".shp", goshp.POLYGON,
		goshp.NumberField("FID", 10),
		goshp.FloatField("vri_sum", 14, 8),
		goshp.FloatField("qb", 14, 8))
	if err != nil {
		return fmt.Errorf("swyio: error creating the output vector %s: %v", path, err)
	}
	for _, z := range zones {
		t, ok := byFID[z.FID]
		if !ok {
			return fmt.Errorf("swyio: no aggregated totals were computed for zone %d", z.FID)
		}
		if err := e.EncodeFields(z.Geom, t.FID, t.VriSum, t.Qb); err != nil {
			return fmt.Errorf("swyio: error writing zone %d to the output vector %s: %v",
				z.FID, path, err)
		}
	}
	e.Close()

	if prj != "" {
		f, err := os.Create(base + ".prj")
		if err != nil {
			return fmt.Errorf("swyio: error creating the output prj file: %v", err)
		}
		fmt.Fprint(f, prj)
		f.Close()
	}
	return nil
}
