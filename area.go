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

// triangleArea returns the unsigned area of the triangle (a, b, c).
func triangleArea(a, b, c geom.Point) float64 {
	return math.Abs((b.X-a.X)*(c.Y-a.Y)-(c.X-a.X)*(b.Y-a.Y)) / 2
}

// quadrilateralArea returns the unsigned area of q, half the magnitude of
// the cross product of its diagonals. The formula holds for any simple
// (convex or concave) quadrilateral.
func quadrilateralArea(q *Quad) float64 {
	return math.Abs((q[NE].X-q[SW].X)*(q[NW].Y-q[SE].Y)-(q[NW].X-q[SE].X)*(q[NE].Y-q[SW].Y)) / 2
}

// signedArea returns the shoelace-formula area of the polygon p. The
// result is positive when the vertices are in counterclockwise order and
// negative when they are clockwise.
func signedArea(p []geom.Point) float64 {
	if len(p) < 3 {
		return 0
	}
	a := 0.
	j := len(p) - 1
	for i := range p {
		a += (p[j].X + p[i].X) * (p[i].Y - p[j].Y)
		j = i
	}
	return a / 2
}

// polygonArea returns the unsigned area of the polygon p, dispatching to
// the specialized triangle and quadrilateral formulas for small vertex
// counts.
func polygonArea(p []geom.Point) float64 {
	switch len(p) {
	case 0, 1, 2:
		return 0
	case 3:
		return triangleArea(p[0], p[1], p[2])
	case 4:
		q := Quad{p[0], p[1], p[2], p[3]}
		return quadrilateralArea(&q)
	default:
		return math.Abs(signedArea(p))
	}
}

// clippedQuadArea returns the area of the part of q that lies inside the
// rectangle b. scratch, if non-nil, is reused for the clip output to
// avoid allocation; it is overwritten.
func clippedQuadArea(b *geom.Bounds, q *Quad, scratch []geom.Point) float64 {
	return polygonArea(clipPolygonRect(q[:], b, scratch))
}
