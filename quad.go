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

// Package swathgrid regrids irregular quadrilateral data cells—typically
// satellite swath pixels with four corner vertices and one data value
// each—onto regular rectangular grids, and re-aggregates already-gridded
// point records into coarser time steps. Cell corners can be supplied
// directly, derived from cell centers and a fixed cell size, or
// interpolated from a rectangular array of cell centers.
package swathgrid

import (
	"fmt"

	"github.com/ctessum/geom"
)

// Indices of the vertices of a Quad, in counterclockwise order.
const (
	SW = iota
	SE
	NE
	NW
)

// A Quad is a single source data cell: a simple (non-self-intersecting)
// quadrilateral with vertices in counterclockwise order (SW, SE, NE, NW).
// Vertices are either geographic coordinates or projected planar
// coordinates, depending on how the Quad was built.
type Quad [4]geom.Point

// Bounds returns the axis-aligned bounding box of q.
func (q *Quad) Bounds() *geom.Bounds {
	b := geom.NewBoundsPoint(q[SW])
	for _, p := range q[1:] {
		if p.X < b.Min.X {
			b.Min.X = p.X
		}
		if p.X > b.Max.X {
			b.Max.X = p.X
		}
		if p.Y < b.Min.Y {
			b.Min.Y = p.Y
		}
		if p.Y > b.Max.Y {
			b.Max.Y = p.Y
		}
	}
	return b
}

// Polygon returns q as a closed polygon ring.
func (q *Quad) Polygon() geom.Polygon {
	return geom.Polygon{{q[SW], q[SE], q[NE], q[NW], q[SW]}}
}

// Area returns the unsigned area of q.
func (q *Quad) Area() float64 {
	return quadrilateralArea(q)
}

// projectPoint applies p to a geographic coordinate pair, or passes the
// pair through unchanged if p is nil.
func projectPoint(p Projector, lon, lat float64) (geom.Point, error) {
	if p == nil {
		return geom.Point{X: lon, Y: lat}, nil
	}
	x, y, err := p.Project(lon, lat)
	if err != nil {
		return geom.Point{}, err
	}
	return geom.Point{X: x, Y: y}, nil
}

// QuadsFromCorners assembles quadrilaterals from four independently
// supplied corner coordinate arrays, reordering them into the canonical
// counterclockwise (SW, SE, NE, NW) vertex layout. Swath products
// typically store the four corners of each pixel as separate variables;
// all eight arrays must have the same length. If p is non-nil, each
// vertex is projected from geographic to grid coordinates.
func QuadsFromCorners(swLon, swLat, seLon, seLat, nwLon, nwLat, neLon, neLat []float64, p Projector) ([]Quad, error) {
	n := len(swLon)
	for _, a := range [][]float64{swLat, seLon, seLat, nwLon, nwLat, neLon, neLat} {
		if len(a) != n {
			return nil, fmt.Errorf("swathgrid.QuadsFromCorners: mismatched corner array lengths %d and %d", n, len(a))
		}
	}
	quads := make([]Quad, n)
	for i := 0; i < n; i++ {
		var err error
		if quads[i][SW], err = projectPoint(p, swLon[i], swLat[i]); err != nil {
			return nil, fmt.Errorf("swathgrid.QuadsFromCorners: %v", err)
		}
		if quads[i][SE], err = projectPoint(p, seLon[i], seLat[i]); err != nil {
			return nil, fmt.Errorf("swathgrid.QuadsFromCorners: %v", err)
		}
		if quads[i][NE], err = projectPoint(p, neLon[i], neLat[i]); err != nil {
			return nil, fmt.Errorf("swathgrid.QuadsFromCorners: %v", err)
		}
		if quads[i][NW], err = projectPoint(p, nwLon[i], nwLat[i]); err != nil {
			return nil, fmt.Errorf("swathgrid.QuadsFromCorners: %v", err)
		}
	}
	return quads, nil
}

// QuadsFromCenters derives quadrilaterals from cell centers and a fixed
// cell size: the corners of each cell are center ± (cellWidth/2,
// cellHeight/2). If p is non-nil, each corner is projected from
// geographic to grid coordinates after it is derived.
func QuadsFromCenters(lon, lat []float64, cellWidth, cellHeight float64, p Projector) ([]Quad, error) {
	if len(lon) != len(lat) {
		return nil, fmt.Errorf("swathgrid.QuadsFromCenters: mismatched center array lengths %d and %d", len(lon), len(lat))
	}
	if cellWidth <= 0 || cellHeight <= 0 {
		return nil, fmt.Errorf("swathgrid.QuadsFromCenters: nonpositive cell size %g×%g", cellWidth, cellHeight)
	}
	halfW, halfH := cellWidth/2, cellHeight/2
	quads := make([]Quad, len(lon))
	for i := range lon {
		corners := [4][2]float64{
			SW: {lon[i] - halfW, lat[i] - halfH},
			SE: {lon[i] + halfW, lat[i] - halfH},
			NE: {lon[i] + halfW, lat[i] + halfH},
			NW: {lon[i] - halfW, lat[i] + halfH},
		}
		for j, c := range corners {
			pt, err := projectPoint(p, c[0], c[1])
			if err != nil {
				return nil, fmt.Errorf("swathgrid.QuadsFromCenters: %v", err)
			}
			quads[i][j] = pt
		}
	}
	return quads, nil
}
