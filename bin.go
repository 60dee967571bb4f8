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

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/ctessum/geom"
	"github.com/ctessum/sparse"
)

// An Accumulator holds the per-cell running totals for one regridding
// pass. It is zero-initialized by NewAccumulator, mutated by
// GridDef.Bin, consumed once by ComputeCellMeans/CompactCells, and
// then discarded; accumulators are not reused across passes.
type Accumulator struct {
	// Counts is the number of quadrilaterals that contributed to each
	// cell.
	Counts *sparse.DenseArray

	// Weights is the accumulated area-overlap fraction per cell. It is
	// nil when area weighting is disabled.
	Weights *sparse.DenseArray

	// Sums is the accumulated (possibly fraction-scaled) data value
	// per cell. After ComputeCellMeans it holds per-cell means instead.
	Sums *sparse.DenseArray
}

// NewAccumulator creates a zeroed accumulator for one regridding pass
// onto grid. If areaWeighted is true, quadrilateral contributions will
// be scaled by the fraction of the quadrilateral's area overlapping
// each cell; otherwise every overlapped cell receives the full value.
func NewAccumulator(grid *GridDef, areaWeighted bool) *Accumulator {
	acc := &Accumulator{
		Counts: sparse.ZerosDense(grid.Ny, grid.Nx),
		Sums:   sparse.ZerosDense(grid.Ny, grid.Nx),
	}
	if areaWeighted {
		acc.Weights = sparse.ZerosDense(grid.Ny, grid.Nx)
	}
	return acc
}

// AreaWeighted reports whether the accumulator scales contributions by
// area-overlap fractions.
func (acc *Accumulator) AreaWeighted() bool { return acc.Weights != nil }

// cellContribution is one quadrilateral's contribution to one grid
// cell, staged so that the shared accumulator only needs to be locked
// once per quadrilateral.
type cellContribution struct {
	row, col int
	fraction float64
}

// Bin allocates each quadrilateral's data value to the grid cells it
// overlaps, accumulating per-cell counts, weights and sums into acc.
// data[i] is the value carried by quads[i]. The quadrilaterals must be
// in the same coordinate system as the grid.
//
// Quadrilaterals are processed in parallel. Degenerate (zero-area)
// quadrilaterals and quadrilaterals outside the grid are silently
// skipped; the returned count is the number of quadrilaterals that
// contributed to at least one cell.
func (grid *GridDef) Bin(quads []Quad, data []float64, acc *Accumulator) (int, error) {
	if len(quads) != len(data) {
		return 0, fmt.Errorf("swathgrid.Bin: %d quadrilaterals but %d data values", len(quads), len(data))
	}
	var (
		mu     sync.Mutex
		binned int
	)
	nprocs := runtime.GOMAXPROCS(0)
	var wg sync.WaitGroup
	wg.Add(nprocs)
	for procnum := 0; procnum < nprocs; procnum++ {
		go func(procnum int) {
			defer wg.Done()
			scratch := make([]geom.Point, 0, 16)
			contribs := make([]cellContribution, 0, 16)
			localBinned := 0
			for i := procnum; i < len(quads); i += nprocs {
				contribs = grid.quadContributions(&quads[i], acc.AreaWeighted(), contribs[:0], scratch)
				if len(contribs) == 0 {
					continue
				}
				localBinned++
				v := data[i]
				mu.Lock()
				for _, cc := range contribs {
					acc.Counts.AddVal(1, cc.row, cc.col)
					if acc.Weights != nil {
						acc.Weights.AddVal(cc.fraction, cc.row, cc.col)
					}
					acc.Sums.AddVal(cc.fraction*v, cc.row, cc.col)
				}
				mu.Unlock()
			}
			mu.Lock()
			binned += localBinned
			mu.Unlock()
		}(procnum)
	}
	wg.Wait()
	return binned, nil
}

// quadContributions determines which cells q overlaps and with what
// fraction, appending to out. For unweighted binning every cell in the
// bounding-box range gets fraction 1.
func (grid *GridDef) quadContributions(q *Quad, areaWeighted bool, out []cellContribution, scratch []geom.Point) []cellContribution {
	b := q.Bounds()
	firstRow, lastRow, firstCol, lastCol, ok := grid.cellRange(b)
	if !ok {
		return out
	}

	// Fast path: a quadrilateral whose bounding box maps to a single
	// cell that either lies strictly in the grid interior or fully
	// contains the box needs no clipping; it contributes its whole
	// value with weight 1.
	if firstRow == lastRow && firstCol == lastCol {
		cell := grid.CellBounds(firstRow, firstCol)
		if grid.interiorCell(firstRow, firstCol) || boundsContain(cell, b) {
			return append(out, cellContribution{row: firstRow, col: firstCol, fraction: 1})
		}
	}

	if !areaWeighted {
		for row := firstRow; row <= lastRow; row++ {
			for col := firstCol; col <= lastCol; col++ {
				out = append(out, cellContribution{row: row, col: col, fraction: 1})
			}
		}
		return out
	}

	quadArea := quadrilateralArea(q)
	if quadArea <= 0 { // degenerate quadrilateral
		return out
	}
	for row := firstRow; row <= lastRow; row++ {
		for col := firstCol; col <= lastCol; col++ {
			fraction := clippedQuadArea(grid.CellBounds(row, col), q, scratch) / quadArea
			if fraction > 0 {
				out = append(out, cellContribution{row: row, col: col, fraction: fraction})
			}
		}
	}
	return out
}

// boundsContain reports whether inner lies entirely within outer,
// boundaries included.
func boundsContain(outer, inner *geom.Bounds) bool {
	return inner.Min.X >= outer.Min.X && inner.Max.X <= outer.Max.X &&
		inner.Min.Y >= outer.Min.Y && inner.Max.Y <= outer.Max.Y
}
