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

	"gonum.org/v1/gonum/floats"
)

// RegridConfig is a holder for the configuration information for one
// regridding pass.
type RegridConfig struct {
	// GridProj is the grid projection in Proj4 format. Leave empty for
	// a grid in geographic (longitude/latitude) coordinates.
	GridProj string

	X0, Y0 float64 // lower left corner of the grid
	Dx, Dy float64 // cell size, in the units of the grid projection
	Nx, Ny int     // number of columns and rows

	// AreaWeighted selects area-weighted binning: each swath cell's
	// contribution to a grid cell is scaled by the fraction of the
	// swath cell's area overlapping it.
	AreaWeighted bool

	// MinValid excludes grid cells whose regridded mean falls below it.
	MinValid float64

	// CellWidth and CellHeight, if positive, derive swath cell corners
	// from centers and this fixed cell size instead of interpolating
	// corners from the center array.
	CellWidth, CellHeight float64
}

// Setup creates the grid and projector described by the configuration.
func (c *RegridConfig) Setup() (*GridDef, Projector, error) {
	var projector Projector
	var grid *GridDef
	var err error
	if c.GridProj != "" {
		sp, err := NewSRProjector(c.GridProj)
		if err != nil {
			return nil, nil, fmt.Errorf("swathgrid: setting up regridding: %v", err)
		}
		projector = sp
		grid, err = NewGridRegular("grid", c.Nx, c.Ny, c.Dx, c.Dy, c.X0, c.Y0, sp.SR)
		if err != nil {
			return nil, nil, fmt.Errorf("swathgrid: setting up regridding: %v", err)
		}
		return grid, projector, nil
	}
	grid, err = NewGridRegular("grid", c.Nx, c.Ny, c.Dx, c.Dy, c.X0, c.Y0, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("swathgrid: setting up regridding: %v", err)
	}
	return grid, nil, nil
}

// buildQuads derives one quadrilateral per swath cell from the swath's
// cell centers, either from the configured fixed cell size or by
// corner interpolation across the center array.
func (c *RegridConfig) buildQuads(sd *SwathData, projector Projector) ([]Quad, error) {
	if c.CellWidth > 0 && c.CellHeight > 0 {
		return QuadsFromCenters(sd.Lon.Elements, sd.Lat.Elements, c.CellWidth, c.CellHeight, projector)
	}
	cornerLon, cornerLat := InterpolateCorners(sd.Ny, sd.Nx, sd.Lon.Elements, sd.Lat.Elements)
	return QuadsFromCorners(
		cornerLon[SW], cornerLat[SW],
		cornerLon[SE], cornerLat[SE],
		cornerLon[NW], cornerLat[NW],
		cornerLon[NE], cornerLat[NE],
		projector)
}

// Regrid regrids variable varName of the swath scene sd onto the
// configured grid. It returns the full gridded field and the compacted
// list of populated cells. An empty point list (no swath cells
// overlapping the grid, or all means below MinValid) is not an error;
// callers report it as "no points in subset".
func (c *RegridConfig) Regrid(sd *SwathData, varName string) (*GriddedData, []GriddedPoint, error) {
	dv, ok := sd.Data[varName]
	if !ok {
		return nil, nil, fmt.Errorf("swathgrid: no variable %s in swath data", varName)
	}
	grid, projector, err := c.Setup()
	if err != nil {
		return nil, nil, err
	}
	quads, err := c.buildQuads(sd, projector)
	if err != nil {
		return nil, nil, fmt.Errorf("swathgrid: building swath quadrilaterals: %v", err)
	}
	acc := NewAccumulator(grid, c.AreaWeighted)
	if _, err := grid.Bin(quads, dv.Data.Elements, acc); err != nil {
		return nil, nil, err
	}
	n := acc.ComputeCellMeans(c.MinValid)
	points, err := grid.CompactCells(acc, n, projector)
	if err != nil {
		return nil, nil, err
	}

	gd := &GriddedData{
		Nx: c.Nx, Ny: c.Ny,
		Dx: c.Dx, Dy: c.Dy,
		X0: c.X0, Y0: c.Y0,
		Proj:   c.GridProj,
		Counts: acc.Counts,
		Data: map[string]DataVar{
			varName: {
				Description: dv.Description + " (gridded mean)",
				Units:       dv.Units,
				Data:        acc.Sums,
			},
		},
	}
	return gd, points, nil
}

// TotalMass returns the sum over populated cells of mean·count, a
// quick conservation diagnostic for a regridding pass.
func TotalMass(points []GriddedPoint) float64 {
	v := make([]float64, len(points))
	for i, p := range points {
		v[i] = p.Mean * float64(p.Count)
	}
	return floats.Sum(v)
}
