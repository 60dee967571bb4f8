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
	"testing"

	"github.com/kr/pretty"
)

// testSwath is a 2×2 scene whose cells, given a 1°×1° fixed cell size,
// exactly tile the grid [0,2]°×[0,2]°.
func testSwath() *SwathData {
	return &SwathData{
		Ny: 2, Nx: 2,
		Lon: denseFrom([]int{2, 2}, 0.5, 1.5, 0.5, 1.5),
		Lat: denseFrom([]int{2, 2}, 0.5, 0.5, 1.5, 1.5),
		Data: map[string]DataVar{
			"ColumnAmountNO2": {
				Description: "tropospheric NO2 column",
				Units:       "molec/cm2",
				Data:        denseFrom([]int{2, 2}, 1, 2, 3, 4),
			},
		},
	}
}

func TestRegrid(t *testing.T) {
	c := &RegridConfig{
		X0: 0, Y0: 0,
		Dx: 1, Dy: 1,
		Nx: 2, Ny: 2,
		AreaWeighted: true,
		CellWidth:    1,
		CellHeight:   1,
	}
	gd, points, err := c.Regrid(testSwath(), "ColumnAmountNO2")
	if err != nil {
		t.Fatal(err)
	}
	want := []GriddedPoint{
		{Lon: 0.5, Lat: 0.5, Row: 1, Col: 1, Count: 1, Mean: 1},
		{Lon: 1.5, Lat: 0.5, Row: 1, Col: 2, Count: 1, Mean: 2},
		{Lon: 0.5, Lat: 1.5, Row: 2, Col: 1, Count: 1, Mean: 3},
		{Lon: 1.5, Lat: 1.5, Row: 2, Col: 2, Count: 1, Mean: 4},
	}
	if diff := pretty.Diff(want, points); len(diff) != 0 {
		t.Fatal(diff)
	}
	if got := TotalMass(points); got != 10 {
		t.Errorf("expected total mass 10, got %g", got)
	}
	if gd.Nx != 2 || gd.Ny != 2 || gd.Proj != "" {
		t.Errorf("unexpected gridded data definition: %+v", gd)
	}
	dv, ok := gd.Data["ColumnAmountNO2"]
	if !ok {
		t.Fatal("expected gridded variable ColumnAmountNO2")
	}
	if got := dv.Data.Get(1, 0); got != 3 {
		t.Errorf("expected gridded mean 3, got %g", got)
	}
	if got := gd.Counts.Get(0, 1); got != 1 {
		t.Errorf("expected count 1, got %g", got)
	}
}

// A grid placed away from the swath produces an empty point list, not
// an error.
func TestRegridNoOverlap(t *testing.T) {
	c := &RegridConfig{
		X0: 100, Y0: 100,
		Dx: 1, Dy: 1,
		Nx: 2, Ny: 2,
		AreaWeighted: true,
		CellWidth:    1,
		CellHeight:   1,
	}
	_, points, err := c.Regrid(testSwath(), "ColumnAmountNO2")
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 0 {
		t.Errorf("expected no points, got %d", len(points))
	}
}

// The validity filter drops cells below MinValid from the compacted
// points but keeps the rest.
func TestRegridMinValid(t *testing.T) {
	c := &RegridConfig{
		X0: 0, Y0: 0,
		Dx: 1, Dy: 1,
		Nx: 2, Ny: 2,
		AreaWeighted: true,
		MinValid:     2.5,
		CellWidth:    1,
		CellHeight:   1,
	}
	_, points, err := c.Regrid(testSwath(), "ColumnAmountNO2")
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].Mean != 3 || points[1].Mean != 4 {
		t.Errorf("expected means 3 and 4, got %g and %g", points[0].Mean, points[1].Mean)
	}
}

func TestRegridUnknownVariable(t *testing.T) {
	c := &RegridConfig{X0: 0, Y0: 0, Dx: 1, Dy: 1, Nx: 2, Ny: 2}
	if _, _, err := c.Regrid(testSwath(), "nope"); err == nil {
		t.Fatal("expected error for unknown variable")
	}
}

// Corner interpolation and fixed cell size must agree for a regular
// swath: with centers on a regular 1° array, interpolated corners are
// the same center±0.5° squares the fixed size produces.
func TestRegridInterpolatedCorners(t *testing.T) {
	fixed := &RegridConfig{
		X0: 0, Y0: 0, Dx: 1, Dy: 1, Nx: 2, Ny: 2,
		AreaWeighted: true, CellWidth: 1, CellHeight: 1,
	}
	interp := &RegridConfig{
		X0: 0, Y0: 0, Dx: 1, Dy: 1, Nx: 2, Ny: 2,
		AreaWeighted: true,
	}
	_, wantPoints, err := fixed.Regrid(testSwath(), "ColumnAmountNO2")
	if err != nil {
		t.Fatal(err)
	}
	_, gotPoints, err := interp.Regrid(testSwath(), "ColumnAmountNO2")
	if err != nil {
		t.Fatal(err)
	}
	if diff := pretty.Diff(wantPoints, gotPoints); len(diff) != 0 {
		t.Fatal(diff)
	}
}
