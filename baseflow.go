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

import "math"

// solveBaseflow returns the pass that propagates local recharge along the
// flow network to produce the baseflow index B, the baseflow depth Qb,
// and the final local recharge surface L.
//
// A single forward pass over the topological order is sufficient:
// dependencies only flow upslope to downslope, so no fixed-point
// iteration is needed. At each pixel the pass accumulates the running sum
// of local recharge and quickflow contributed by the pixel itself and all
// pixels upstream of it, then sets
//
//	B = clamp(beta * (ΣL0 / (ΣL0 + ΣQF + 1))^gamma, 0, 1)
//
// so that upstream quickflow dampens the index. On stream pixels the
// fraction B of local recharge is attributed to baseflow generation and
// removed from the recharge surface (L = L0·(1−B)) so water is not
// double-counted; elsewhere L = L0.
func solveBaseflow() ModelPass {
	return func(m *Model) error {
		net := m.Network
		n := m.Grid.Cells()

		sumL := make([]float64, n)
		sumQF := make([]float64, n)
		for i := int32(0); i < int32(n); i++ {
			sumL[i] = m.L0.Data.Get1d(int(i))
			sumQF[i] = m.QuickFlow.Data.Get1d(int(i))
		}
		for _, i := range net.Order {
			if to := net.Downslope[i]; to != i {
				sumL[to] += sumL[i]
				sumQF[to] += sumQF[i]
			}
		}

		m.B = NewRaster(m.Grid)
		m.Qb = NewRaster(m.Grid)
		m.L = NewRaster(m.Grid)
		for row := 0; row < m.Grid.Ny; row++ {
			for col := 0; col < m.Grid.Nx; col++ {
				i := row*m.Grid.Nx + col
				b := m.Beta * math.Pow(sumL[i]/(sumL[i]+sumQF[i]+1), m.Gamma)
				if b < 0 {
					b = 0
				} else if b > 1 {
					b = 1
				}
				l0 := m.L0.Get(row, col)
				m.B.Set(b, row, col)
				m.Qb.Set(b*l0, row, col)
				if net.Stream[i] {
					m.L.Set(l0*(1-b), row, col)
				} else {
					m.L.Set(l0, row, col)
				}
			}
		}
		return nil
	}
}
