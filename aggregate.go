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
	"github.com/ctessum/geom/index/rtree"
	"github.com/ctessum/unit"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// AggregationZone is one polygon of the aggregation zone vector. It owns
// no raster data; it is used only as a spatial mask for summation.
type AggregationZone struct {
	geom.Geom
	FID int `shp:"FID"`
}

// ZoneTotals holds the aggregated outputs for one zone.
type ZoneTotals struct {
	FID int

	// VriSum is the summed recharge contribution index: the fraction of
	// the domain's recharge generated within the zone.
	VriSum float64

	// Qb is the mean baseflow depth over the zone [mm].
	Qb float64

	// RechargeVolume is the total recharge volume in the zone and
	// BaseflowVolume the total baseflow volume [m³].
	RechargeVolume *unit.Unit
	BaseflowVolume *unit.Unit
}

const mmToM = 1. / 1000.

// Aggregate sums the recharge contribution index and averages baseflow
// depth within each zone, and converts the zone's recharge and baseflow
// depths to volumes. A pixel belongs to a zone when its center falls
// inside (or on the edge of) the zone polygon. Zone identifiers must be
// unique; each zone's totals are computed independently of all others.
func Aggregate(zones []*AggregationZone, vri, qb, l *Raster) ([]ZoneTotals, error) {
	if err := vri.alignedWith(qb.GridDef, "baseflow depth"); err != nil {
		return nil, err
	}
	if err := vri.alignedWith(l.GridDef, "local recharge"); err != nil {
		return nil, err
	}

	index := rtree.NewTree(25, 50)
	slot := make(map[*AggregationZone]int, len(zones))
	seen := make(map[int]bool, len(zones))
	for i, z := range zones {
		if seen[z.FID] {
			return nil, fmt.Errorf("swy: aggregation zone identifier %d appears more "+
				"than once; zone identifiers must be unique", z.FID)
		}
		seen[z.FID] = true
		if _, ok := z.Geom.(geom.Polygonal); !ok {
			return nil, fmt.Errorf("swy: aggregation zone %d is not polygonal (%T)",
				z.FID, z.Geom)
		}
		index.Insert(z)
		slot[z] = i
	}

	totals := make([]ZoneTotals, len(zones))
	qbDepths := make([][]float64, len(zones))
	lSums := make([]float64, len(zones))
	for i := range totals {
		totals[i].FID = zones[i].FID
	}

	g := vri.GridDef
	for row := 0; row < g.Ny; row++ {
		for col := 0; col < g.Nx; col++ {
			center := g.CellCenter(row, col)
			for _, zI := range index.SearchIntersect(center.Bounds()) {
				z := zI.(*AggregationZone)
				if center.Within(z.Geom.(geom.Polygonal)) == geom.Outside {
					continue
				}
				i := slot[z]
				totals[i].VriSum += vri.Get(row, col)
				qbDepths[i] = append(qbDepths[i], qb.Get(row, col))
				lSums[i] += l.Get(row, col)
			}
		}
	}

	area := g.CellArea()
	for i := range totals {
		if len(qbDepths[i]) > 0 {
			totals[i].Qb = stat.Mean(qbDepths[i], nil)
		}
		totals[i].RechargeVolume = unit.New(lSums[i]*mmToM*area, unit.Meter3)
		totals[i].BaseflowVolume = unit.New(floats.Sum(qbDepths[i])*mmToM*area, unit.Meter3)
	}
	return totals, nil
}

// Aggregate computes the per-zone totals from the model's finished
// surfaces.
func (m *Model) Aggregate(zones []*AggregationZone) ([]ZoneTotals, error) {
	if m.Vri == nil || m.Qb == nil || m.L == nil {
		return nil, fmt.Errorf("swy: the model has not been run; no surfaces to aggregate")
	}
	return Aggregate(zones, m.Vri, m.Qb, m.L)
}
