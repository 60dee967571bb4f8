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

	"github.com/ctessum/geom/proj"
)

// A Projector converts geographic coordinates to the planar coordinate
// system of a target grid and back. Where a Projector is accepted, nil
// means the grid is in geographic (longitude/latitude) coordinates
// directly and no conversion happens.
type Projector interface {
	// Project converts a geographic coordinate pair to grid coordinates.
	Project(lon, lat float64) (x, y float64, err error)

	// Unproject converts grid coordinates back to a geographic
	// coordinate pair.
	Unproject(x, y float64) (lon, lat float64, err error)
}

// SRProjector is a Projector backed by a Proj4 spatial reference.
type SRProjector struct {
	// SR is the spatial reference of the grid.
	SR *proj.SR

	forward, inverse proj.Transformer
}

// NewSRProjector creates a Projector that converts between geographic
// coordinates and the grid projection described by gridProj, which must
// be in Proj4 format (e.g. "+proj=lcc +lat_1=33 +lat_2=45 ...").
func NewSRProjector(gridProj string) (*SRProjector, error) {
	gridSR, err := proj.Parse(gridProj)
	if err != nil {
		return nil, fmt.Errorf("swathgrid: parsing grid projection '%s': %v", gridProj, err)
	}
	longlatSR, err := proj.Parse("+proj=longlat")
	if err != nil {
		return nil, fmt.Errorf("swathgrid: creating geographic spatial reference: %v", err)
	}
	forward, err := longlatSR.NewTransform(gridSR)
	if err != nil {
		return nil, fmt.Errorf("swathgrid: creating forward transform: %v", err)
	}
	inverse, err := gridSR.NewTransform(longlatSR)
	if err != nil {
		return nil, fmt.Errorf("swathgrid: creating inverse transform: %v", err)
	}
	return &SRProjector{SR: gridSR, forward: forward, inverse: inverse}, nil
}

// Project implements the Projector interface.
func (s *SRProjector) Project(lon, lat float64) (x, y float64, err error) {
	return s.forward(lon, lat)
}

// Unproject implements the Projector interface.
func (s *SRProjector) Unproject(x, y float64) (lon, lat float64, err error) {
	return s.inverse(x, y)
}
