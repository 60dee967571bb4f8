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
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/sparse"
	"github.com/kr/pretty"
)

func tempNCF(t *testing.T) *os.File {
	f, err := os.Create(filepath.Join(t.TempDir(), "test.ncf"))
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func denseFrom(shape []int, vals ...float64) *sparse.DenseArray {
	d := sparse.ZerosDense(shape...)
	copy(d.Elements, vals)
	return d
}

func TestSwathDataRoundTrip(t *testing.T) {
	d := &SwathData{
		Ny: 2, Nx: 3,
		Lon: denseFrom([]int{2, 3}, 10, 11, 12, 10, 11, 12),
		Lat: denseFrom([]int{2, 3}, 40, 40, 40, 41, 41, 41),
		Data: map[string]DataVar{
			"ColumnAmountNO2": {
				Description: "tropospheric NO2 column",
				Units:       "molec/cm2",
				Data:        denseFrom([]int{2, 3}, 1, 2, 3, 4, 5, 6),
			},
		},
	}
	f := tempNCF(t)
	defer f.Close()
	if err := d.Write(f); err != nil {
		t.Fatal(err)
	}
	got, err := ReadSwath(f)
	if err != nil {
		t.Fatal(err)
	}
	if diff := pretty.Diff(d, got); len(diff) != 0 {
		t.Fatal(diff)
	}
}

func TestGriddedDataRoundTrip(t *testing.T) {
	d := &GriddedData{
		Nx: 2, Ny: 2,
		Dx: 0.5, Dy: 0.25,
		X0: -10, Y0: 30,
		Counts: denseFrom([]int{2, 2}, 1, 0, 2, 0),
		Data: map[string]DataVar{
			"ColumnAmountNO2": {
				Description: "tropospheric NO2 column",
				Units:       "molec/cm2",
				Data:        denseFrom([]int{2, 2}, 5, 0, 7, 0),
			},
		},
	}
	f := tempNCF(t)
	defer f.Close()
	if err := d.Write(f); err != nil {
		t.Fatal(err)
	}
	got, err := ReadGriddedData(f)
	if err != nil {
		t.Fatal(err)
	}
	if diff := pretty.Diff(d, got); len(diff) != 0 {
		t.Fatal(diff)
	}
}

func TestGriddedDataGrid(t *testing.T) {
	d := &GriddedData{
		Nx: 4, Ny: 2,
		Dx: 1, Dy: 1,
		X0: -2, Y0: 40,
	}
	grid, err := d.Grid()
	if err != nil {
		t.Fatal(err)
	}
	if grid.Nx != 4 || grid.Ny != 2 || grid.X0 != -2 || grid.Y0 != 40 {
		t.Errorf("unexpected grid definition: %+v", grid)
	}
	if len(grid.Cells) != 8 {
		t.Errorf("expected 8 cells, got %d", len(grid.Cells))
	}
}

// Points skips empty cells, uses 1-based indices and reports the cell
// centers as coordinates for an unprojected grid.
func TestGriddedDataPoints(t *testing.T) {
	d := &GriddedData{
		Nx: 2, Ny: 2,
		Dx: 1, Dy: 1,
		X0: 0, Y0: 0,
		Counts: denseFrom([]int{2, 2}, 1, 0, 0, 3),
		Data: map[string]DataVar{
			"a": {Data: denseFrom([]int{2, 2}, 5, 0, 0, 8)},
			"b": {Data: denseFrom([]int{2, 2}, 50, 0, 0, 80)},
		},
	}
	points, err := d.Points("a", "b")
	if err != nil {
		t.Fatal(err)
	}
	want := []PointRecord{
		{Lon: 0.5, Lat: 0.5, Layer: 1, Row: 1, Col: 1, Value: 5, Value2: 50},
		{Lon: 1.5, Lat: 1.5, Layer: 1, Row: 2, Col: 2, Value: 8, Value2: 80},
	}
	if diff := pretty.Diff(want, points); len(diff) != 0 {
		t.Fatal(diff)
	}

	if _, err := d.Points("missing", ""); err == nil {
		t.Error("expected error for unknown variable")
	}
	if _, err := d.Points("a", "missing"); err == nil {
		t.Error("expected error for unknown second variable")
	}
}
