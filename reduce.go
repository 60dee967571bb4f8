/*
Copyright © 2019 the SwathGrid authors.
This file is part of SwathGrid.

SwathGrid is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

SwathGrid is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with SwathGrid.  If not, see <http://www.gnu.org/licenses/>.
*/

package swathgrid

import "fmt"

// A GriddedPoint is one populated grid cell after reduction, with its
// center in geographic coordinates and 1-based grid indices.
type GriddedPoint struct {
	Lon, Lat float64
	Row, Col int
	Count    int
	Mean     float64
}

// ComputeCellMeans reduces the accumulated per-cell sums in acc to
// means, dividing by the accumulated weight (area-weighted passes) or
// by the count (unweighted passes). Cells whose resulting mean is
// below minValid are demoted to count 0 and excluded from later
// compaction. The filter runs after the division, so the denominator
// is always the true unfiltered weight. It returns the number of cells
// that survive.
func (acc *Accumulator) ComputeCellMeans(minValid float64) int {
	survivors := 0
	for i, count := range acc.Counts.Elements {
		if count == 0 {
			continue
		}
		mean := acc.Sums.Elements[i]
		if acc.Weights != nil {
			weight := acc.Weights.Elements[i]
			if weight <= 0 {
				acc.Counts.Elements[i] = 0
				continue
			}
			mean /= weight
		} else if count > 1 {
			mean /= count
		}
		if mean < minValid {
			acc.Counts.Elements[i] = 0
			continue
		}
		acc.Sums.Elements[i] = mean
		survivors++
	}
	return survivors
}

// CompactCells scans the reduced accumulator in row-major order and
// returns the populated cells as a dense list, one GriddedPoint per
// surviving cell. Cell centers are converted back to geographic
// coordinates through p; a nil p means the grid is already in
// geographic coordinates. ComputeCellMeans must have been called
// first; the result length equals its return value.
func (grid *GridDef) CompactCells(acc *Accumulator, n int, p Projector) ([]GriddedPoint, error) {
	points := make([]GriddedPoint, 0, n)
	for row := 0; row < grid.Ny; row++ {
		for col := 0; col < grid.Nx; col++ {
			count := acc.Counts.Get(row, col)
			if count == 0 {
				continue
			}
			center := grid.CellCenter(row, col)
			lon, lat := center.X, center.Y
			if p != nil {
				var err error
				lon, lat, err = p.Unproject(center.X, center.Y)
				if err != nil {
					return nil, fmt.Errorf("swathgrid.CompactCells: unprojecting cell (%d,%d): %v", row, col, err)
				}
			}
			points = append(points, GriddedPoint{
				Lon: lon, Lat: lat,
				Row: row + 1, Col: col + 1,
				Count: int(count),
				Mean:  acc.Sums.Get(row, col),
			})
		}
	}
	if len(points) != n {
		return nil, fmt.Errorf("swathgrid.CompactCells: expected %d populated cells but found %d", n, len(points))
	}
	return points, nil
}
