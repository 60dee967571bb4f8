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
	"sort"
)

// A PointRecord is one regridded point already placed on a target
// grid: the output of one regridding pass, and the input to temporal
// aggregation. Row, Col and Layer are 1-based grid indices. Value2
// optionally carries a second co-regridded variable; it is zero when
// unused.
type PointRecord struct {
	Lon, Lat  float64
	Elevation float64
	Col, Row  int
	Layer     int
	Value     float64
	Value2    float64
}

// windowCell accumulates the PointRecords that hit one grid cell
// within one aggregation window. index is the input position of the
// first contributing record, or -1 while the cell is untouched.
type windowCell struct {
	index         int64
	count         int
	value, value2 float64
}

// A WindowAggregator regroups gridded point records emitted once per
// original timestep into coarser timesteps (for example hourly passes
// into daily ones), averaging duplicate hits on the same grid cell
// within each window. The dimensions bound the 1-based Layer, Row and
// Col indices of the input records; records outside the bounds are
// silently skipped, consistent with the regridding core's handling of
// malformed inputs.
type WindowAggregator struct {
	MaxLayers, MaxRows, MaxCols int

	cells []windowCell // per-window scratch, reused across windows
}

// NewWindowAggregator creates an aggregator for grids of the given
// dimensions. maxLayers may be 1 for single-layer (surface) data.
func NewWindowAggregator(maxLayers, maxRows, maxCols int) (*WindowAggregator, error) {
	if maxLayers < 1 || maxRows < 1 || maxCols < 1 {
		return nil, fmt.Errorf("swathgrid.NewWindowAggregator: dimensions %d×%d×%d must be positive", maxLayers, maxRows, maxCols)
	}
	return &WindowAggregator{
		MaxLayers: maxLayers,
		MaxRows:   maxRows,
		MaxCols:   maxCols,
		cells:     make([]windowCell, maxLayers*maxRows*maxCols),
	}, nil
}

// Aggregate regroups recs, which holds the concatenated per-timestep
// point records of many regridding passes (pointsPerStep[i] records
// for original timestep i), into windows of stepsPerWindow consecutive
// timesteps. The last window may cover fewer timesteps. Within a
// window, records that hit the same (layer, row, col) cell are merged
// into one record whose Value (and Value2) is the mean of the
// contributors and whose remaining fields are copied from the first
// contributor.
//
// recs is compacted in place: merged windows are written over the
// front of the slice, in the order the surviving cells were first
// visited in the input. The compaction is safe because output
// positions never pass input positions (output ≤ input per window);
// avoiding a second slice is deliberate, since aggregation runs over
// bulk data. Records beyond the returned total are garbage afterwards.
//
// It returns the number of output records per window and their total.
// A window with no input records produces zero output records.
func (w *WindowAggregator) Aggregate(stepsPerWindow int, pointsPerStep []int, recs []PointRecord) (pointsPerWindow []int, total int, err error) {
	if stepsPerWindow < 1 {
		return nil, 0, fmt.Errorf("swathgrid.Aggregate: stepsPerWindow %d must be positive", stepsPerWindow)
	}
	nIn := 0
	for i, n := range pointsPerStep {
		if n < 0 {
			return nil, 0, fmt.Errorf("swathgrid.Aggregate: negative point count %d for timestep %d", n, i)
		}
		nIn += n
	}
	if nIn > len(recs) {
		return nil, 0, fmt.Errorf("swathgrid.Aggregate: timestep counts total %d but only %d records given", nIn, len(recs))
	}

	nWindows := (len(pointsPerStep) + stepsPerWindow - 1) / stepsPerWindow
	pointsPerWindow = make([]int, 0, nWindows)
	inPos := 0
	for step := 0; step < len(pointsPerStep); step += stepsPerWindow {
		last := step + stepsPerWindow
		if last > len(pointsPerStep) {
			last = len(pointsPerStep)
		}
		windowPoints := 0
		for _, n := range pointsPerStep[step:last] {
			windowPoints += n
		}
		out := w.aggregateWindow(recs, inPos, windowPoints, total)
		pointsPerWindow = append(pointsPerWindow, out)
		total += out
		inPos += windowPoints
	}
	return pointsPerWindow, total, nil
}

// aggregateWindow merges the windowPoints records starting at inPos
// into unique-cell records written starting at outPos, returning how
// many it wrote.
func (w *WindowAggregator) aggregateWindow(recs []PointRecord, inPos, windowPoints, outPos int) int {
	for i := range w.cells {
		w.cells[i] = windowCell{index: -1}
	}

	for i := inPos; i < inPos+windowPoints; i++ {
		r := &recs[i]
		if r.Layer < 1 || r.Layer > w.MaxLayers ||
			r.Row < 1 || r.Row > w.MaxRows ||
			r.Col < 1 || r.Col > w.MaxCols {
			continue
		}
		cell := &w.cells[((r.Layer-1)*w.MaxRows+(r.Row-1))*w.MaxCols+(r.Col-1)]
		if cell.index == -1 {
			cell.index = int64(i)
		}
		cell.count++
		cell.value += r.Value
		cell.value2 += r.Value2
	}

	// Sorting by first-visit index both separates populated cells from
	// untouched ones (which sort to the front) and restores the input
	// order for output.
	sort.Slice(w.cells, func(i, j int) bool {
		return w.cells[i].index < w.cells[j].index
	})

	n := 0
	for i := range w.cells {
		cell := &w.cells[i]
		if cell.index == -1 {
			continue
		}
		r := recs[cell.index] // first contributor's metadata
		r.Value = cell.value / float64(cell.count)
		r.Value2 = cell.value2 / float64(cell.count)
		recs[outPos+n] = r
		n++
	}
	return n
}
