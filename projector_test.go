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

const testProj = "+proj=lcc +lat_1=33.000000 +lat_2=45.000000 +lat_0=40.000000 " +
	"+lon_0=-97.000000 +x_0=0 +y_0=0 +a=6370997.000000 +b=6370997.000000 +to_meter=1"

func TestSRProjectorRoundTrip(t *testing.T) {
	p, err := NewSRProjector(testProj)
	if err != nil {
		t.Fatal(err)
	}
	// The projection origin maps to the planar origin.
	x, y, err := p.Project(-97, 40)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(x) > 1e-4 || math.Abs(y) > 1e-4 {
		t.Errorf("expected origin to project to (0,0), got (%g,%g)", x, y)
	}

	coords := [][2]float64{{-97, 40}, {-120, 34}, {-75, 45.5}}
	for _, c := range coords {
		x, y, err := p.Project(c[0], c[1])
		if err != nil {
			t.Fatal(err)
		}
		lon, lat, err := p.Unproject(x, y)
		if err != nil {
			t.Fatal(err)
		}
		if different(lon, c[0], 1e-6) || different(lat, c[1], 1e-6) {
			t.Errorf("round trip of (%g,%g) gave (%g,%g)", c[0], c[1], lon, lat)
		}
	}
}

func TestNewSRProjectorInvalid(t *testing.T) {
	if _, err := NewSRProjector("+proj=nosuchprojection"); err == nil {
		t.Fatal("expected error for unknown projection")
	}
}
