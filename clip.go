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
	"math"

	"github.com/ctessum/geom"
)

// clipPolygonRect clips the polygon p (open ring, at least 3 vertices)
// to the axis-aligned rectangle b using the Liang–Barsky parametric
// algorithm: each polygon edge is clipped against all four rectangle
// half-planes in a single pass, with "turning vertices" inserted at
// rectangle corners where the polygon boundary wraps around them
// outside the rectangle. The clipped polygon is appended to out[:0] and
// returned; passing a scratch slice with spare capacity avoids
// per-edge allocation. The result has at most 2*len(p)+2 vertices.
//
// Results that are not meaningful polygons are discarded: fewer than 3
// vertices, and the 5-vertex "hat" artifact whose last three vertices
// are collinear. In both cases an empty slice is returned; callers
// treat empty as "no overlap".
func clipPolygonRect(p []geom.Point, b *geom.Bounds, out []geom.Point) []geom.Point {
	out = out[:0]
	if len(p) < 3 {
		return out
	}
	xMin, yMin, xMax, yMax := b.Min.X, b.Min.Y, b.Max.X, b.Max.Y
	inf := math.Inf(1)

	x1, y1 := p[len(p)-1].X, p[len(p)-1].Y
	for vertex := 0; vertex < len(p); vertex++ {
		x2, y2 := p[vertex].X, p[vertex].Y
		deltaX := x2 - x1
		deltaY := y2 - y1

		// Entry/exit boundaries in the direction of travel. For an edge
		// with no motion along an axis, the "out" boundary is the one
		// nearest the edge so that turning vertices land on the correct
		// side of the rectangle.
		var xIn, xOut, yIn, yOut float64
		if deltaX > 0 || (deltaX == 0 && x1 > xMax) {
			xIn, xOut = xMin, xMax
		} else {
			xIn, xOut = xMax, xMin
		}
		if deltaY > 0 || (deltaY == 0 && y1 > yMax) {
			yIn, yOut = yMin, yMax
		} else {
			yIn, yOut = yMax, yMin
		}

		// Parametric entry/exit values on each axis. A motionless axis
		// entered the slab infinitely long ago; it exits infinitely far
		// ahead when inside the slab and infinitely long ago when
		// outside (the edge can never reach the slab).
		var tInX, tOutX float64
		if deltaX != 0 {
			tInX = (xIn - x1) / deltaX
			tOutX = (xOut - x1) / deltaX
		} else {
			tInX = -inf
			if xMin <= x1 && x1 <= xMax {
				tOutX = inf
			} else {
				tOutX = -inf
			}
		}
		var tInY, tOutY float64
		if deltaY != 0 {
			tInY = (yIn - y1) / deltaY
			tOutY = (yOut - y1) / deltaY
		} else {
			tInY = -inf
			if yMin <= y1 && y1 <= yMax {
				tOutY = inf
			} else {
				tOutY = -inf
			}
		}

		var tIn1, tIn2 float64
		if tInX < tInY {
			tIn1, tIn2 = tInX, tInY
		} else {
			tIn1, tIn2 = tInY, tInX
		}

		if tIn1 <= 1 {
			if 0 < tIn1 { // Edge crosses into the first slab: corner turning vertex.
				out = append(out, geom.Point{X: xIn, Y: yIn})
			}
			if tIn2 <= 1 {
				tOut1 := math.Min(tOutX, tOutY)
				if 0 < tIn2 || 0 < tOut1 {
					if tIn2 <= tOut1 { // Edge has a visible segment.
						if 0 < tIn2 {
							if tInX > tInY {
								out = append(out, geom.Point{X: xIn, Y: y1 + tInX*deltaY})
							} else {
								out = append(out, geom.Point{X: x1 + tInY*deltaX, Y: yIn})
							}
						}
						if tOut1 < 1 {
							if tOutX < tOutY {
								out = append(out, geom.Point{X: xOut, Y: y1 + tOutX*deltaY})
							} else {
								out = append(out, geom.Point{X: x1 + tOutY*deltaX, Y: yOut})
							}
						} else {
							out = append(out, geom.Point{X: x2, Y: y2})
						}
					} else { // Edge passes a corner region: second turning vertex.
						if tInX > tInY {
							out = append(out, geom.Point{X: xIn, Y: yOut})
						} else {
							out = append(out, geom.Point{X: xOut, Y: yIn})
						}
					}
				}
			}
		}
		x1, y1 = x2, y2
	}

	if len(out) < 3 {
		return out[:0]
	}
	if len(out) == 5 && triangleArea(out[2], out[3], out[4]) == 0 {
		return out[:0]
	}
	return out
}
