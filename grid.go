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
	"math"
	"os"
	"path/filepath"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/ctessum/geom/index/rtree"
	"github.com/ctessum/geom/proj"
	goshp "github.com/jonas-p/go-shp"
)

// GridDef specifies the regular target grid that swath data is
// regridded to. Cell (row, col) occupies
// [X0+col*Dx, X0+(col+1)*Dx) × [Y0+row*Dy, Y0+(row+1)*Dy).
type GridDef struct {
	Name   string
	Nx, Ny int
	Dx, Dy float64
	X0, Y0 float64
	Cells  []*GridCell
	SR     *proj.SR
	Extent geom.Polygon

	bounds *geom.Bounds
	rtree  *rtree.Rtree
}

// GridCell defines an individual cell in a grid.
type GridCell struct {
	geom.Polygonal
	Row, Col int
}

// NewGridRegular creates a new regular grid, where all grid cells are
// the same size. sr is the grid's spatial reference; it may be nil for
// a grid in geographic coordinates.
func NewGridRegular(name string, nx, ny int, dx, dy, x0, y0 float64, sr *proj.SR) (*GridDef, error) {
	if nx <= 0 || ny <= 0 {
		return nil, fmt.Errorf("swathgrid.NewGridRegular: grid dimensions %d×%d must be positive", nx, ny)
	}
	if dx <= 0 || dy <= 0 {
		return nil, fmt.Errorf("swathgrid.NewGridRegular: cell size %g×%g must be positive", dx, dy)
	}
	grid := &GridDef{
		Name: name,
		Nx:   nx, Ny: ny,
		Dx: dx, Dy: dy,
		X0: x0, Y0: y0,
		SR: sr,
	}
	grid.rtree = rtree.NewTree(25, 50)
	grid.Cells = make([]*GridCell, nx*ny)
	i := 0
	for iy := 0; iy < ny; iy++ {
		for ix := 0; ix < nx; ix++ {
			cell := new(GridCell)
			x := x0 + float64(ix)*dx
			y := y0 + float64(iy)*dy
			cell.Row, cell.Col = iy, ix
			cell.Polygonal = geom.Polygon([]geom.Path{{
				{X: x, Y: y}, {X: x + dx, Y: y},
				{X: x + dx, Y: y + dy}, {X: x, Y: y + dy}, {X: x, Y: y}}})
			grid.rtree.Insert(cell)
			grid.Cells[i] = cell
			i++
		}
	}
	grid.Extent = geom.Polygon([]geom.Path{{{X: x0, Y: y0},
		{X: x0 + dx*float64(nx), Y: y0},
		{X: x0 + dx*float64(nx), Y: y0 + dy*float64(ny)},
		{X: x0, Y: y0 + dy*float64(ny)}, {X: x0, Y: y0}}})
	grid.bounds = grid.Extent.Bounds()
	return grid, nil
}

// Bounds returns the bounding box of the whole grid.
func (grid *GridDef) Bounds() *geom.Bounds {
	return grid.bounds
}

// CellBounds returns the rectangle occupied by cell (row, col).
func (grid *GridDef) CellBounds(row, col int) *geom.Bounds {
	return &geom.Bounds{
		Min: geom.Point{
			X: grid.X0 + float64(col)*grid.Dx,
			Y: grid.Y0 + float64(row)*grid.Dy,
		},
		Max: geom.Point{
			X: grid.X0 + float64(col+1)*grid.Dx,
			Y: grid.Y0 + float64(row+1)*grid.Dy,
		},
	}
}

// CellCenter returns the center point of cell (row, col).
func (grid *GridDef) CellCenter(row, col int) geom.Point {
	return geom.Point{
		X: grid.X0 + (float64(col)+0.5)*grid.Dx,
		Y: grid.Y0 + (float64(row)+0.5)*grid.Dy,
	}
}

// cellRange converts a bounding box to the inclusive range of cell
// indices it touches, clamped to the grid. ok is false if b does not
// overlap the grid at all.
func (grid *GridDef) cellRange(b *geom.Bounds) (firstRow, lastRow, firstCol, lastCol int, ok bool) {
	if !b.Overlaps(grid.bounds) {
		return 0, 0, 0, 0, false
	}
	firstCol = int(math.Floor((b.Min.X - grid.X0) / grid.Dx))
	lastCol = int(math.Floor((b.Max.X - grid.X0) / grid.Dx))
	firstRow = int(math.Floor((b.Min.Y - grid.Y0) / grid.Dy))
	lastRow = int(math.Floor((b.Max.Y - grid.Y0) / grid.Dy))
	if firstCol < 0 {
		firstCol = 0
	}
	if firstRow < 0 {
		firstRow = 0
	}
	if lastCol > grid.Nx-1 {
		lastCol = grid.Nx - 1
	}
	if lastRow > grid.Ny-1 {
		lastRow = grid.Ny - 1
	}
	return firstRow, lastRow, firstCol, lastCol, true
}

// interiorCell reports whether cell (row, col) touches no border of
// the grid.
func (grid *GridDef) interiorCell(row, col int) bool {
	return row > 0 && row < grid.Ny-1 && col > 0 && col < grid.Nx-1
}

// GetIndex returns the row and column indices of point p in the grid.
// withinGrid is false if p is not within the grid. Usually there will
// be only one row and column for each point, but if the point lies on
// a shared edge among multiple grid cells, all of the overlapping grid
// cells are returned.
func (grid *GridDef) GetIndex(p geom.Point) (rows, cols []int, withinGrid bool) {
	for _, cI := range grid.rtree.SearchIntersect(p.Bounds()) {
		c := cI.(*GridCell)
		rows = append(rows, c.Row)
		cols = append(cols, c.Col)
	}
	withinGrid = len(rows) > 0
	return rows, cols, withinGrid
}

// WriteToShp writes the grid definition to a shapefile in directory
// outdir.
func (grid *GridDef) WriteToShp(outdir string) error {
	for _, ext := range []string{".shp", ".prj", ".dbf", ".shx"} {
		os.Remove(filepath.Join(outdir, grid.Name+ext))
	}
	fields := make([]goshp.Field, 2)
	fields[0] = goshp.NumberField("row", 10)
	fields[1] = goshp.NumberField("col", 10)
	shpf, err := shp.NewEncoderFromFields(filepath.Join(outdir, grid.Name+".shp"),
		goshp.POLYGON, fields...)
	if err != nil {
		return err
	}
	for _, cell := range grid.Cells {
		data := []interface{}{cell.Row, cell.Col}
		if err = shpf.EncodeFields(cell.Polygonal, data...); err != nil {
			return err
		}
	}
	shpf.Close()
	return nil
}
