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
	"testing"
)

func TestUnwrapLongitude(t *testing.T) {
	tests := []struct {
		ref, lon, want float64
	}{
		{ref: 10, lon: 20, want: 20},
		{ref: -10, lon: 20, want: 20},
		{ref: 179.5, lon: -179.5, want: 179.99},
		{ref: -179.5, lon: 179.5, want: -179.99},
		{ref: 179.5, lon: 178, want: 178},
		{ref: 178, lon: -179.5, want: -179.5}, // Reference too far from ±180°.
	}
	for i, test := range tests {
		if got := unwrapLongitude(test.ref, test.lon); got != test.want {
			t.Errorf("test %d: expected %g, got %g", i, test.want, got)
		}
	}
}

// For a regular 1°-spaced grid of centers, every interpolated corner
// must land exactly half a cell from its center, on borders and in the
// interior alike.
func TestInterpolateCornersRegular(t *testing.T) {
	const ny, nx = 3, 3
	lon := make([]float64, ny*nx)
	lat := make([]float64, ny*nx)
	for r := 0; r < ny; r++ {
		for c := 0; c < nx; c++ {
			lon[r*nx+c] = 10 + float64(c)
			lat[r*nx+c] = 40 + float64(r)
		}
	}
	cornerLon, cornerLat := InterpolateCorners(ny, nx, lon, lat)
	offsets := [4][2]float64{
		SW: {-0.5, -0.5},
		SE: {0.5, -0.5},
		NE: {0.5, 0.5},
		NW: {-0.5, 0.5},
	}
	for i := 0; i < ny*nx; i++ {
		for k, off := range offsets {
			if got, want := cornerLon[k][i], lon[i]+off[0]; got != want {
				t.Errorf("cell %d corner %d: expected longitude %g, got %g", i, k, want, got)
			}
			if got, want := cornerLat[k][i], lat[i]+off[1]; got != want {
				t.Errorf("cell %d corner %d: expected latitude %g, got %g", i, k, want, got)
			}
		}
	}
}

// Cells straddling the antimeridian must not average to corners near
// 0° longitude. The western cell keeps all of its corners within
// [179°, 180°]; the eastern cell is detected as stretched and
// collapses onto its center.
func TestInterpolateCornersAntimeridian(t *testing.T) {
	const ny, nx = 2, 2
	lon := []float64{179.5, -179.5, 179.5, -179.5}
	lat := []float64{0, 0, 1, 1}
	cornerLon, cornerLat := InterpolateCorners(ny, nx, lon, lat)

	for k := 0; k < 4; k++ {
		if got := cornerLon[k][0]; got < 179 || got > 180 {
			t.Errorf("west cell corner %d: expected longitude in [179,180], got %g", k, got)
		}
	}
	if got := cornerLon[NE][0]; different(got, 179.745, 1e-9) {
		t.Errorf("west cell NE corner: expected longitude 179.745, got %g", got)
	}
	if got := cornerLat[NE][0]; different(got, 0.5, 1e-9) {
		t.Errorf("west cell NE corner: expected latitude 0.5, got %g", got)
	}
	for k := 0; k < 4; k++ {
		if cornerLon[k][1] != -179.5 || cornerLat[k][1] != 0 {
			t.Errorf("east cell corner %d: expected collapse to center, got (%g,%g)",
				k, cornerLon[k][1], cornerLat[k][1])
		}
	}
}

// A junction more than 3° of longitude from a cell's center marks the
// cell as a projection artifact; its corners collapse to the center.
func TestInterpolateCornersStretched(t *testing.T) {
	const ny, nx = 2, 2
	lon := []float64{0, 10, 0, 10}
	lat := []float64{0, 0, 1, 1}
	cornerLon, cornerLat := InterpolateCorners(ny, nx, lon, lat)
	for i := 0; i < ny*nx; i++ {
		for k := 0; k < 4; k++ {
			if cornerLon[k][i] != lon[i] || cornerLat[k][i] != lat[i] {
				t.Errorf("cell %d corner %d: expected collapse to center, got (%g,%g)",
					i, k, cornerLon[k][i], cornerLat[k][i])
			}
		}
	}
}

// Degenerate arrays (a single row or column) have no junctions to
// average; corners collapse to centers.
func TestInterpolateCornersDegenerate(t *testing.T) {
	lon := []float64{-10, 0, 10}
	lat := []float64{5, 6, 7}
	cornerLon, cornerLat := InterpolateCorners(1, 3, lon, lat)
	for i := range lon {
		for k := 0; k < 4; k++ {
			if cornerLon[k][i] != lon[i] || cornerLat[k][i] != lat[i] {
				t.Errorf("cell %d corner %d: expected (%g,%g), got (%g,%g)",
					i, k, lon[i], lat[i], cornerLon[k][i], cornerLat[k][i])
			}
		}
	}
}

func TestClampRanges(t *testing.T) {
	if got := clampLongitude(181); got != 180 {
		t.Errorf("expected 180, got %g", got)
	}
	if got := clampLongitude(-200); got != -180 {
		t.Errorf("expected -180, got %g", got)
	}
	if got := clampLatitude(90.1); got != 90 {
		t.Errorf("expected 90, got %g", got)
	}
	if got := clampLatitude(math.Inf(-1)); got != -90 {
		t.Errorf("expected -90, got %g", got)
	}
}
