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

// retention returns the SCS retention parameter S [mm] for curve number
// cn. A curve number of zero (or less) means runoff is undefined for the
// land cover/soil group combination and the caller treats quickflow as
// zero.
func retention(cn float64) float64 {
	if cn <= 0 {
		return 0
	}
	return 25.4 * (1000/cn - 10)
}

// quickflow returns the monthly quickflow depth [mm] for precipitation
// depth p [mm] falling in n rain events on a surface with curve number
// cn, using the SCS curve number relation applied per event. The result
// is clamped to the non-negative range and to no more than the available
// precipitation.
func quickflow(p, n, cn float64) float64 {
	if cn <= 0 || n <= 0 || p <= 0 {
		return 0
	}
	s := retention(cn)
	perEvent := p / n
	ia := 0.2 * s // initial abstraction
	if perEvent <= ia {
		return 0
	}
	q := n * (perEvent - ia) * (perEvent - ia) / (perEvent + 0.8*s)
	if q < 0 {
		return 0
	}
	if q > p {
		return p
	}
	return q
}

// actualET returns the monthly actual evapotranspiration [mm]: reference
// evapotranspiration scaled by the crop coefficient, clamped to the water
// locally available after quickflow is removed.
func actualET(et0, kc, available float64) float64 {
	aet := kc * et0
	if aet > available {
		aet = available
	}
	if aet < 0 {
		return 0
	}
	return aet
}

// waterBalance returns the pass computing annual local recharge L0 and
// annual quickflow for every pixel. For each month, quickflow is removed
// from precipitation first, evapotranspiration is taken from the
// remainder, and whatever is left recharges locally; negative monthly
// recharge is clamped to zero as an expected boundary condition of the
// model, not an error. Monthly contributions are weighted by the monthly
// alpha coefficients relative to a uniform twelfth.
//
// In user-defined recharge mode the pass is bypassed entirely: L0 is
// taken verbatim from the supplied raster and quickflow is zero.
func waterBalance() ModelPass {
	return func(m *Model) error {
		m.QuickFlow = NewRaster(m.Grid)
		if m.Climate.mode == modeUserRecharge {
			m.L0 = m.Climate.recharge.Copy()
			return nil
		}
		m.L0 = NewRaster(m.Grid)

		alpha := uniformAlpha(m.AlphaAnnual)
		if m.Alpha != nil {
			alpha = *m.Alpha
		}

		for row := 0; row < m.Grid.Ny; row++ {
			for col := 0; col < m.Grid.Nx; col++ {
				params := m.Biophysical[m.LandCover.Get(row, col)]
				cn := params.CN[m.SoilGroups.Get(row, col)-1]

				var annualL, annualQF float64
				for month := 1; month <= 12; month++ {
					p := m.Climate.Precip(month).Get(row, col)
					et0 := m.Climate.ET0(month).Get(row, col)
					n, err := m.Climate.rainEvents(row, col, month)
					if err != nil {
						return err
					}

					qf := quickflow(p, n, cn)
					aet := actualET(et0, params.Kc[month-1], p-qf)
					recharge := math.Max(p-qf-aet, 0)

					annualL += 12 * alpha[month-1] * recharge
					annualQF += qf
				}
				m.L0.Set(annualL, row, col)
				m.QuickFlow.Set(annualQF, row, col)
			}
		}
		return nil
	}
}
