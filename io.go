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
	"os"
	"sort"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

const (
	// Version gives the version number.
	Version = "1.2.1"

	// DataVersion is the version of the swath and gridded data formats
	// that this version of the code requires as input and produces as
	// output.
	DataVersion = "1.1.0"
)

// A DataVar is one named data variable with its metadata.
type DataVar struct {
	Description string // variable description
	Units       string // variable units
	Data        *sparse.DenseArray
}

// SwathData holds one satellite swath scene: an Ny×Nx array of cell
// centers with one or more data variables on the same layout.
type SwathData struct {
	Ny, Nx int

	// Lon and Lat are the cell-center coordinates, shape [Ny, Nx].
	Lon, Lat *sparse.DenseArray

	// Data maps variable names to swath data variables, shape [Ny, Nx].
	Data map[string]DataVar
}

// ReadSwath reads a swath scene from a netcdf file. Variables named
// "Longitude" and "Latitude" become the cell-center coordinates; all
// other variables become data variables.
func ReadSwath(rw cdf.ReaderWriterAt) (*SwathData, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("swathgrid.ReadSwath: %v", err)
	}
	o := new(SwathData)
	o.Ny = int(f.Header.GetAttribute("", "rows").([]int32)[0])
	o.Nx = int(f.Header.GetAttribute("", "columns").([]int32)[0])

	dataVersion := f.Header.GetAttribute("", "data_version").(string)
	if dataVersion != DataVersion {
		return nil, fmt.Errorf("swathgrid.ReadSwath: data version %s is incompatible "+
			"with the required version %s", dataVersion, DataVersion)
	}

	o.Data = make(map[string]DataVar)
	for _, v := range f.Header.Variables() {
		data, err := readNCF(f, v)
		if err != nil {
			return nil, fmt.Errorf("swathgrid.ReadSwath: %v", err)
		}
		switch v {
		case "Longitude":
			o.Lon = data
		case "Latitude":
			o.Lat = data
		default:
			o.Data[v] = DataVar{
				Description: f.Header.GetAttribute(v, "description").(string),
				Units:       f.Header.GetAttribute(v, "units").(string),
				Data:        data,
			}
		}
	}
	if o.Lon == nil || o.Lat == nil {
		return nil, fmt.Errorf("swathgrid.ReadSwath: missing Longitude or Latitude variable")
	}
	return o, nil
}

// Write writes the swath scene to netcdf file w.
func (d *SwathData) Write(w *os.File) error {
	h := cdf.NewHeader([]string{"y", "x"}, []int{d.Ny, d.Nx})
	h.AddAttribute("", "comment", "SwathGrid satellite swath scene file")
	h.AddAttribute("", "rows", []int32{int32(d.Ny)})
	h.AddAttribute("", "columns", []int32{int32(d.Nx)})
	h.AddAttribute("", "data_version", DataVersion)

	h.AddVariable("Longitude", []string{"y", "x"}, []float32{0})
	h.AddAttribute("Longitude", "units", "degrees_east")
	h.AddVariable("Latitude", []string{"y", "x"}, []float32{0})
	h.AddAttribute("Latitude", "units", "degrees_north")

	for _, name := range sortedVarNames(d.Data) {
		dd := d.Data[name]
		h.AddVariable(name, []string{"y", "x"}, []float32{0})
		h.AddAttribute(name, "description", dd.Description)
		h.AddAttribute(name, "units", dd.Units)
	}
	h.Define()

	f, err := cdf.Create(w, h)
	if err != nil {
		return err
	}
	if err = writeNCF(f, "Longitude", d.Lon); err != nil {
		return fmt.Errorf("swathgrid: writing variable Longitude to netcdf file: %v", err)
	}
	if err = writeNCF(f, "Latitude", d.Lat); err != nil {
		return fmt.Errorf("swathgrid: writing variable Latitude to netcdf file: %v", err)
	}
	for _, name := range sortedVarNames(d.Data) {
		if err = writeNCF(f, name, d.Data[name].Data); err != nil {
			return fmt.Errorf("swathgrid: writing variable %s to netcdf file: %v", name, err)
		}
	}
	return cdf.UpdateNumRecs(w)
}

// GriddedData holds the result of regridding one or more swath
// variables onto a regular grid.
type GriddedData struct {
	Nx, Ny int
	Dx, Dy float64
	X0, Y0 float64

	// Proj is the grid projection in Proj4 format, or empty for a grid
	// in geographic coordinates.
	Proj string

	// Counts is the number of quadrilaterals that contributed to each
	// cell, shape [Ny, Nx].
	Counts *sparse.DenseArray

	// Data maps variable names to per-cell means, shape [Ny, Nx].
	// Cells with a zero count hold no meaningful value.
	Data map[string]DataVar
}

// Write writes d to netcdf file w. Variables are written in sorted
// name order so output files are reproducible.
func (d *GriddedData) Write(w *os.File) error {
	h := cdf.NewHeader([]string{"y", "x"}, []int{d.Ny, d.Nx})
	h.AddAttribute("", "comment", "SwathGrid regridded swath data file")
	h.AddAttribute("", "x0", []float64{d.X0})
	h.AddAttribute("", "y0", []float64{d.Y0})
	h.AddAttribute("", "dx", []float64{d.Dx})
	h.AddAttribute("", "dy", []float64{d.Dy})
	h.AddAttribute("", "nx", []int32{int32(d.Nx)})
	h.AddAttribute("", "ny", []int32{int32(d.Ny)})
	h.AddAttribute("", "grid_proj", d.Proj)
	h.AddAttribute("", "data_version", DataVersion)

	h.AddVariable("CellCounts", []string{"y", "x"}, []float32{0})
	h.AddAttribute("CellCounts", "description", "number of swath cells contributing to each grid cell")
	h.AddAttribute("CellCounts", "units", "count")

	names := sortedVarNames(d.Data)
	for _, name := range names {
		dd := d.Data[name]
		h.AddVariable(name, []string{"y", "x"}, []float32{0})
		h.AddAttribute(name, "description", dd.Description)
		h.AddAttribute(name, "units", dd.Units)
	}
	h.Define()

	f, err := cdf.Create(w, h)
	if err != nil {
		return err
	}
	if err = writeNCF(f, "CellCounts", d.Counts); err != nil {
		return fmt.Errorf("swathgrid: writing variable CellCounts to netcdf file: %v", err)
	}
	for _, name := range names {
		if err = writeNCF(f, name, d.Data[name].Data); err != nil {
			return fmt.Errorf("swathgrid: writing variable %s to netcdf file: %v", name, err)
		}
	}
	return cdf.UpdateNumRecs(w)
}

// ReadGriddedData reads the output of a previous regridding pass from
// a netcdf file.
func ReadGriddedData(rw cdf.ReaderWriterAt) (*GriddedData, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("swathgrid.ReadGriddedData: %v", err)
	}
	o := new(GriddedData)
	o.X0 = f.Header.GetAttribute("", "x0").([]float64)[0]
	o.Y0 = f.Header.GetAttribute("", "y0").([]float64)[0]
	o.Dx = f.Header.GetAttribute("", "dx").([]float64)[0]
	o.Dy = f.Header.GetAttribute("", "dy").([]float64)[0]
	o.Nx = int(f.Header.GetAttribute("", "nx").([]int32)[0])
	o.Ny = int(f.Header.GetAttribute("", "ny").([]int32)[0])
	o.Proj = f.Header.GetAttribute("", "grid_proj").(string)

	dataVersion := f.Header.GetAttribute("", "data_version").(string)
	if dataVersion != DataVersion {
		return nil, fmt.Errorf("swathgrid.ReadGriddedData: data version %s is incompatible "+
			"with the required version %s", dataVersion, DataVersion)
	}

	o.Data = make(map[string]DataVar)
	for _, v := range f.Header.Variables() {
		data, err := readNCF(f, v)
		if err != nil {
			return nil, fmt.Errorf("swathgrid.ReadGriddedData: %v", err)
		}
		if v == "CellCounts" {
			o.Counts = data
			continue
		}
		o.Data[v] = DataVar{
			Description: f.Header.GetAttribute(v, "description").(string),
			Units:       f.Header.GetAttribute(v, "units").(string),
			Data:        data,
		}
	}
	if o.Counts == nil {
		return nil, fmt.Errorf("swathgrid.ReadGriddedData: missing CellCounts variable")
	}
	return o, nil
}

// Grid returns the grid definition the data was regridded to.
func (d *GriddedData) Grid() (*GridDef, error) {
	if d.Proj == "" {
		return NewGridRegular("gridded", d.Nx, d.Ny, d.Dx, d.Dy, d.X0, d.Y0, nil)
	}
	projector, err := NewSRProjector(d.Proj)
	if err != nil {
		return nil, err
	}
	return NewGridRegular("gridded", d.Nx, d.Ny, d.Dx, d.Dy, d.X0, d.Y0, projector.SR)
}

// Points converts the populated cells of variable varName (and, if
// varName2 is nonempty, a second variable on the same grid) into point
// records suitable for temporal aggregation.
func (d *GriddedData) Points(varName, varName2 string) ([]PointRecord, error) {
	dd, ok := d.Data[varName]
	if !ok {
		return nil, fmt.Errorf("swathgrid.Points: no variable %s in gridded data", varName)
	}
	var dd2 *sparse.DenseArray
	if varName2 != "" {
		v2, ok := d.Data[varName2]
		if !ok {
			return nil, fmt.Errorf("swathgrid.Points: no variable %s in gridded data", varName2)
		}
		dd2 = v2.Data
	}
	var projector Projector
	if d.Proj != "" {
		p, err := NewSRProjector(d.Proj)
		if err != nil {
			return nil, fmt.Errorf("swathgrid.Points: %v", err)
		}
		projector = p
	}
	var points []PointRecord
	for row := 0; row < d.Ny; row++ {
		for col := 0; col < d.Nx; col++ {
			if d.Counts.Get(row, col) == 0 {
				continue
			}
			x := d.X0 + (float64(col)+0.5)*d.Dx
			y := d.Y0 + (float64(row)+0.5)*d.Dy
			lon, lat := x, y
			if projector != nil {
				var err error
				lon, lat, err = projector.Unproject(x, y)
				if err != nil {
					return nil, fmt.Errorf("swathgrid.Points: unprojecting cell (%d,%d): %v", row, col, err)
				}
			}
			p := PointRecord{
				Lon: lon, Lat: lat,
				Row: row + 1, Col: col + 1, Layer: 1,
				Value: dd.Data.Get(row, col),
			}
			if dd2 != nil {
				p.Value2 = dd2.Get(row, col)
			}
			points = append(points, p)
		}
	}
	return points, nil
}

func sortedVarNames(data map[string]DataVar) []string {
	names := make([]string, 0, len(data))
	for n := range data {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// readNCF reads variable Var from f into a dense array, converting
// from the float32 file representation.
func readNCF(f *cdf.File, Var string) (*sparse.DenseArray, error) {
	dims := f.Header.Lengths(Var)
	r := f.Reader(Var, nil, nil)
	data := sparse.ZerosDense(dims...)
	tmp := make([]float32, len(data.Elements))
	if _, err := r.Read(tmp); err != nil {
		return nil, fmt.Errorf("reading variable %s: %v", Var, err)
	}
	for i, v := range tmp {
		data.Elements[i] = float64(v)
	}
	return data, nil
}

// writeNCF writes data to variable Var in f, converting to the
// float32 file representation.
func writeNCF(f *cdf.File, Var string, data *sparse.DenseArray) error {
	// Check that data matches dimensions.
	n := 1
	for _, v := range data.Shape {
		n *= v
	}
	if len(data.Elements) != n {
		return fmt.Errorf("dims are %d but array length is %d", n, len(data.Elements))
	}
	data32 := make([]float32, len(data.Elements))
	for i, e := range data.Elements {
		data32[i] = float32(e)
	}
	end := f.Header.Lengths(Var)
	start := make([]int, len(end))
	w := f.Writer(Var, start, end)
	_, err := w.Write(data32)
	return err
}
