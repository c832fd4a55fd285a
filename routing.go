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
	"math"
)

// d8Offsets is the fixed neighbor scan order for steepest descent:
// cardinals before diagonals. The first neighbor achieving the maximum
// distance-weighted drop wins, which makes flow directions deterministic
// on flat-ish terrain.
var d8Offsets = [8]struct {
	dr, dc int
	dist   float64
}{
	{0, 1, 1},  // E
	{-1, 0, 1}, // N
	{0, -1, 1}, // W
	{1, 0, 1},  // S
	{-1, 1, math.Sqrt2},  // NE
	{-1, -1, math.Sqrt2}, // NW
	{1, -1, math.Sqrt2},  // SW
	{1, 1, math.Sqrt2},   // SE
}

// FlowNetwork is a single-flow-direction drainage network over the raster
// arena: a directed acyclic graph where every pixel drains to exactly one
// downslope neighbor, except sinks and pixels with no lower neighbor,
// which terminate their chain at themselves.
type FlowNetwork struct {
	Grid GridDef

	// Downslope holds, for each pixel index (row*Nx+col), the index of
	// its steepest-descent receiver; a pixel that is its own receiver is
	// a sink.
	Downslope []int32

	// Order is a topological ordering of the pixel indices from sources
	// (no inflow) to outlets: every pixel appears after all pixels that
	// drain into it.
	Order []int32

	// Accum is the flow accumulation count: one for the pixel itself
	// plus the accumulated counts of all pixels draining into it.
	Accum []float64

	// Stream marks pixels whose accumulation meets or exceeds the
	// classification threshold.
	Stream []bool
}

// NewFlowNetwork derives the drainage network from the elevation raster
// using D8 steepest descent and classifies stream pixels against
// threshold, a flow accumulation count. Identical terrain and threshold
// always yield an identical network.
func NewFlowNetwork(elevation *Raster, threshold float64) (*FlowNetwork, error) {
	g := elevation.GridDef
	n := g.Cells()
	if n == 0 {
		return nil, fmt.Errorf("swy: cannot route flow over an empty elevation raster")
	}

	f := &FlowNetwork{
		Grid:      g,
		Downslope: make([]int32, n),
		Accum:     make([]float64, n),
		Stream:    make([]bool, n),
	}

	// Steepest-descent receiver for every pixel. Only strictly lower
	// neighbors count; a pixel with no lower neighbor is a local sink.
	for row := 0; row < g.Ny; row++ {
		for col := 0; col < g.Nx; col++ {
			idx := int32(row*g.Nx + col)
			z := elevation.Get(row, col)
			best := idx
			bestDrop := 0.0
			for _, o := range d8Offsets {
				nr, nc := row+o.dr, col+o.dc
				if nr < 0 || nr >= g.Ny || nc < 0 || nc >= g.Nx {
					continue
				}
				drop := (z - elevation.Get(nr, nc)) / o.dist
				if drop > bestDrop {
					bestDrop = drop
					best = int32(nr*g.Nx + nc)
				}
			}
			f.Downslope[idx] = best
		}
	}

	// Topological order from sources to outlets (Kahn's algorithm seeded
	// in row-major order for determinism). Each pixel's sources complete
	// before the pixel itself is processed; recharge and baseflow
	// propagate strictly downslope, so this ordering is a correctness
	// invariant, not an optimization.
	indegree := make([]int32, n)
	for i, to := range f.Downslope {
		if to != int32(i) {
			indegree[to]++
		}
	}
	f.Order = make([]int32, 0, n)
	queue := make([]int32, 0, n)
	for i := int32(0); i < int32(n); i++ {
		if indegree[i] == 0 {
			queue = append(queue, i)
		}
	}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		f.Order = append(f.Order, i)
		if to := f.Downslope[i]; to != i {
			indegree[to]--
			if indegree[to] == 0 {
				queue = append(queue, to)
			}
		}
	}
	if len(f.Order) != n {
		// Strict descent cannot produce a cycle; this guards against a
		// corrupted network.
		return nil, fmt.Errorf("swy: flow network is not acyclic: ordered %d of %d pixels",
			len(f.Order), n)
	}

	// Flow accumulation as a topological sum over the DAG.
	for i := range f.Accum {
		f.Accum[i] = 1
	}
	for _, i := range f.Order {
		if to := f.Downslope[i]; to != i {
			f.Accum[to] += f.Accum[i]
		}
	}
	for i, a := range f.Accum {
		f.Stream[i] = a >= threshold
	}
	return f, nil
}

// Sink reports whether pixel index i terminates its drainage chain.
func (f *FlowNetwork) Sink(i int32) bool { return f.Downslope[i] == i }

// routeFlow returns the pass deriving the flow network from the elevation
// raster. The network is computed once, independent of climate, and
// cached on the model for the baseflow phase.
func routeFlow() ModelPass {
	return func(m *Model) error {
		net, err := NewFlowNetwork(m.Elevation, m.StreamThreshold)
		if err != nil {
			return err
		}
		m.Network = net
		return nil
	}
}
