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

import "math"

const (
	// antimeridianVicinity is how close (degrees) a cell-center
	// longitude must be to ±180° before wraparound clamping kicks in.
	antimeridianVicinity = 1

	// antimeridianClamp replaces longitudes that would wrap across
	// ±180° during corner averaging.
	antimeridianClamp = 179.99

	// stretchedCellLimit is the maximum distance (degrees longitude)
	// an interpolated corner may lie from its cell center before the
	// cell is considered a projection artifact and collapsed. The
	// value is empirically tuned against satellite swath data; do not
	// change it without revalidating.
	stretchedCellLimit = 3
)

// unwrapLongitude returns lon adjusted for averaging with quantities
// near the reference longitude ref. When ref is within
// antimeridianVicinity degrees of the ±180° discontinuity and lon lies
// on the opposite side of it, lon is clamped to ±antimeridianClamp with
// the sign of ref so that the average does not land near 0°.
func unwrapLongitude(ref, lon float64) float64 {
	if math.Abs(ref) >= 180-antimeridianVicinity && lon*ref < 0 {
		return math.Copysign(antimeridianClamp, ref)
	}
	return lon
}

func clampLongitude(lon float64) float64 {
	return math.Max(-180, math.Min(180, lon))
}

func clampLatitude(lat float64) float64 {
	return math.Max(-90, math.Min(90, lat))
}

// InterpolateCorners derives the four corners of every cell in an
// ny×nx rectangular array of cell centers (row-major longitude and
// latitude arrays of length ny*nx; row 0 is the southernmost). The
// corner shared by four adjacent cells is the average of their centers;
// corners along the array border are extrapolated from the midpoint of
// the two nearest centers and the nearest interior corner, and the four
// outermost corners are extrapolated diagonally through the adjacent
// cell center. All results are clamped to valid geographic ranges.
//
// Two swath pathologies are handled without failing. Near the
// antimeridian, centers on opposite sides of ±180° are clamped to
// ±179.99° matching the reference center's sign before averaging, so
// interpolated corners cannot wrap to ≈0°. And a cell whose computed
// corners end up more than 3° of longitude from its center is a
// stretched projection artifact: all four of its corners collapse to
// the center point.
//
// Degenerate input (ny < 2 or nx < 2) collapses every corner to its
// cell center. The returned arrays are indexed by the SW, SE, NE and
// NW constants; each has length ny*nx.
func InterpolateCorners(ny, nx int, lon, lat []float64) (cornerLon, cornerLat [4][]float64) {
	n := ny * nx
	for c := 0; c < 4; c++ {
		cornerLon[c] = make([]float64, n)
		cornerLat[c] = make([]float64, n)
	}
	if ny < 2 || nx < 2 {
		for c := 0; c < 4; c++ {
			copy(cornerLon[c], lon[:n])
			copy(cornerLat[c], lat[:n])
		}
		return cornerLon, cornerLat
	}

	// Junction grid: jLon[jr*(nx+1)+jc] is the corner point shared by
	// the cells meeting at row boundary jr and column boundary jc.
	jLon := make([]float64, (ny+1)*(nx+1))
	jLat := make([]float64, (ny+1)*(nx+1))
	jIdx := func(jr, jc int) int { return jr*(nx+1) + jc }
	cIdx := func(r, c int) int { return r*nx + c }

	// Interior junctions: average of the four surrounding centers,
	// unwrapped against the first (southwest) center near ±180°.
	for jr := 1; jr < ny; jr++ {
		for jc := 1; jc < nx; jc++ {
			refLon := lon[cIdx(jr-1, jc-1)]
			sumLon := refLon +
				unwrapLongitude(refLon, lon[cIdx(jr-1, jc)]) +
				unwrapLongitude(refLon, lon[cIdx(jr, jc-1)]) +
				unwrapLongitude(refLon, lon[cIdx(jr, jc)])
			sumLat := lat[cIdx(jr-1, jc-1)] + lat[cIdx(jr-1, jc)] +
				lat[cIdx(jr, jc-1)] + lat[cIdx(jr, jc)]
			j := jIdx(jr, jc)
			jLon[j] = clampLongitude(sumLon / 4)
			jLat[j] = clampLatitude(sumLat / 4)
		}
	}

	// extrapolate computes a border junction from the two nearest
	// centers a and b and the nearest interior junction: the midpoint
	// of a and b, pushed outward by its distance from the interior
	// junction.
	extrapolate := func(aLon, aLat, bLon, bLat float64, interior int) (float64, float64) {
		midLon := (aLon + unwrapLongitude(aLon, bLon)) / 2
		midLat := (aLat + bLat) / 2
		eLon := 2*midLon - unwrapLongitude(aLon, jLon[interior])
		eLat := 2*midLat - jLat[interior]
		return clampLongitude(eLon), clampLatitude(eLat)
	}

	// South and north border junctions.
	for jc := 1; jc < nx; jc++ {
		a, b := cIdx(0, jc-1), cIdx(0, jc)
		jLon[jIdx(0, jc)], jLat[jIdx(0, jc)] =
			extrapolate(lon[a], lat[a], lon[b], lat[b], jIdx(1, jc))
		a, b = cIdx(ny-1, jc-1), cIdx(ny-1, jc)
		jLon[jIdx(ny, jc)], jLat[jIdx(ny, jc)] =
			extrapolate(lon[a], lat[a], lon[b], lat[b], jIdx(ny-1, jc))
	}
	// West and east border junctions.
	for jr := 1; jr < ny; jr++ {
		a, b := cIdx(jr-1, 0), cIdx(jr, 0)
		jLon[jIdx(jr, 0)], jLat[jIdx(jr, 0)] =
			extrapolate(lon[a], lat[a], lon[b], lat[b], jIdx(jr, 1))
		a, b = cIdx(jr-1, nx-1), cIdx(jr, nx-1)
		jLon[jIdx(jr, nx)], jLat[jIdx(jr, nx)] =
			extrapolate(lon[a], lat[a], lon[b], lat[b], jIdx(jr, nx-1))
	}

	// Outermost junctions: extrapolate diagonally from the single
	// adjacent interior junction through the corner cell's center.
	diagonal := func(center, interior, target int) {
		refLon := lon[center]
		jLon[target] = clampLongitude(2*refLon - unwrapLongitude(refLon, jLon[interior]))
		jLat[target] = clampLatitude(2*lat[center] - jLat[interior])
	}
	diagonal(cIdx(0, 0), jIdx(1, 1), jIdx(0, 0))
	diagonal(cIdx(0, nx-1), jIdx(1, nx-1), jIdx(0, nx))
	diagonal(cIdx(ny-1, 0), jIdx(ny-1, 1), jIdx(ny, 0))
	diagonal(cIdx(ny-1, nx-1), jIdx(ny-1, nx-1), jIdx(ny, nx))

	// Distribute junctions to per-cell corners, collapsing stretched
	// cells onto their centers.
	for r := 0; r < ny; r++ {
		for c := 0; c < nx; c++ {
			i := cIdx(r, c)
			corners := [4]int{
				SW: jIdx(r, c),
				SE: jIdx(r, c+1),
				NE: jIdx(r+1, c+1),
				NW: jIdx(r+1, c),
			}
			stretched := false
			for _, j := range corners {
				if math.Abs(jLon[j]-lon[i]) > stretchedCellLimit {
					stretched = true
					break
				}
			}
			for k, j := range corners {
				if stretched {
					cornerLon[k][i] = lon[i]
					cornerLat[k][i] = lat[i]
				} else {
					cornerLon[k][i] = jLon[j]
					cornerLat[k][i] = jLat[j]
				}
			}
		}
	}
	return cornerLon, cornerLat
}
