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

// Command swathgrid regrids satellite swath scenes onto regular grids
// and aggregates gridded passes across time windows.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/BurntSushi/toml"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/spatialmodel/swathgrid"
)

var configFile string

// configData holds the configuration for the regrid and aggregate
// commands, read from a TOML file. Paths can include environment
// variables.
type configData struct {
	// Grid describes the target grid.
	Grid swathgrid.RegridConfig

	// SwathFiles are the netcdf swath scenes to regrid, one per
	// original timestep, in time order.
	SwathFiles []string

	// Variable is the name of the swath variable to regrid.
	Variable string

	// Variable2 optionally names a second variable to carry through
	// temporal aggregation alongside Variable.
	Variable2 string

	// OutputDir is the directory regridded netcdf files and the grid
	// shapefile are written to.
	OutputDir string

	// StepsPerWindow is the number of original timesteps merged into
	// each aggregation window (e.g. 24 for hourly input and daily
	// output).
	StepsPerWindow int
}

func readConfig(filename string) (*configData, error) {
	config := new(configData)
	if _, err := toml.DecodeFile(os.ExpandEnv(filename), config); err != nil {
		return nil, fmt.Errorf("swathgrid: problem reading configuration file: %v", err)
	}
	for i, f := range config.SwathFiles {
		config.SwathFiles[i] = os.ExpandEnv(f)
	}
	config.OutputDir = os.ExpandEnv(config.OutputDir)
	if config.StepsPerWindow == 0 {
		config.StepsPerWindow = 1
	}
	return config, nil
}

var root = &cobra.Command{
	Use:   "swathgrid",
	Short: "Regrid satellite swath data onto regular grids.",
	Long: `swathgrid reads satellite swath scenes, allocates each swath pixel's
data to the cells of a regular target grid (optionally weighting by the
overlapping area fraction), and can aggregate many regridded passes
into coarser time steps. Configuration is read from a TOML file given
with the --config flag.`,
	SilenceUsage:      true,
	DisableAutoGenTag: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("SwathGrid v%s\n", swathgrid.Version)
	},
	DisableAutoGenTag: true,
}

var gridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Write the target grid to a shapefile.",
	Long: `grid creates the target grid described by the configuration file and
writes its cell polygons to a shapefile in the output directory, for
inspection in GIS tools.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := readConfig(configFile)
		if err != nil {
			return err
		}
		grid, _, err := config.Grid.Setup()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(config.OutputDir, os.ModePerm); err != nil {
			return err
		}
		log.WithFields(log.Fields{
			"nx": grid.Nx, "ny": grid.Ny, "dir": config.OutputDir,
		}).Info("writing grid shapefile")
		return grid.WriteToShp(config.OutputDir)
	},
	DisableAutoGenTag: true,
}

var regridCmd = &cobra.Command{
	Use:   "regrid",
	Short: "Regrid swath scenes onto the target grid.",
	Long: `regrid reads each configured swath scene, allocates the configured
variable onto the target grid, and writes one regridded netcdf file
per scene to the output directory. Scenes with no points in the grid
subset are reported and skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := readConfig(configFile)
		if err != nil {
			return err
		}
		if len(config.SwathFiles) == 0 {
			return fmt.Errorf("swathgrid: no SwathFiles in configuration")
		}
		if err := os.MkdirAll(config.OutputDir, os.ModePerm); err != nil {
			return err
		}
		for _, fname := range config.SwathFiles {
			points, err := regridFile(config, fname)
			if err != nil {
				return err
			}
			if points == 0 {
				log.WithField("file", fname).Warn("no points in subset")
			}
		}
		return nil
	},
	DisableAutoGenTag: true,
}

func regridFile(config *configData, fname string) (int, error) {
	f, err := os.Open(fname)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	sd, err := swathgrid.ReadSwath(f)
	if err != nil {
		return 0, err
	}
	gd, points, err := config.Grid.Regrid(sd, config.Variable)
	if err != nil {
		return 0, err
	}
	if config.Variable2 != "" {
		gd2, _, err := config.Grid.Regrid(sd, config.Variable2)
		if err != nil {
			return 0, err
		}
		for name, dv := range gd2.Data {
			gd.Data[name] = dv
		}
	}
	log.WithFields(log.Fields{
		"file":   fname,
		"points": len(points),
		"mass":   swathgrid.TotalMass(points),
	}).Info("regridded swath scene")
	if len(points) == 0 {
		return 0, nil
	}
	out := filepath.Join(config.OutputDir, griddedName(fname))
	w, err := os.Create(out)
	if err != nil {
		return 0, err
	}
	defer w.Close()
	if err := gd.Write(w); err != nil {
		return 0, err
	}
	return len(points), nil
}

// griddedName derives the output file name for a regridded scene.
func griddedName(swathFile string) string {
	base := filepath.Base(swathFile)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "_gridded.ncf"
}

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Aggregate regridded passes into coarser time steps.",
	Long: `aggregate reads the regridded netcdf files produced by the regrid
command (one per original timestep, in time order), merges them into
windows of StepsPerWindow timesteps with duplicate grid-cell hits
averaged, and prints the aggregated point records.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := readConfig(configFile)
		if err != nil {
			return err
		}
		if len(config.SwathFiles) == 0 {
			return fmt.Errorf("swathgrid: no SwathFiles in configuration")
		}

		var recs []swathgrid.PointRecord
		pointsPerStep := make([]int, 0, len(config.SwathFiles))
		for _, fname := range config.SwathFiles {
			gridded := filepath.Join(config.OutputDir, griddedName(fname))
			points, err := readGriddedPoints(gridded, config)
			if err != nil {
				// Scenes with no points in the subset have no gridded file;
				// they contribute an empty timestep.
				if os.IsNotExist(err) {
					points = nil
				} else {
					return err
				}
			}
			recs = append(recs, points...)
			pointsPerStep = append(pointsPerStep, len(points))
		}

		agg, err := swathgrid.NewWindowAggregator(1, config.Grid.Ny, config.Grid.Nx)
		if err != nil {
			return err
		}
		pointsPerWindow, total, err := agg.Aggregate(config.StepsPerWindow, pointsPerStep, recs)
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{
			"windows": len(pointsPerWindow),
			"points":  total,
		}).Info("aggregated gridded passes")
		return printPoints(os.Stdout, recs[:total], pointsPerWindow, config.Variable2 != "")
	},
	DisableAutoGenTag: true,
}

func readGriddedPoints(fname string, config *configData) ([]swathgrid.PointRecord, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	gd, err := swathgrid.ReadGriddedData(f)
	if err != nil {
		return nil, err
	}
	return gd.Points(config.Variable, config.Variable2)
}

func printPoints(w *os.File, recs []swathgrid.PointRecord, pointsPerWindow []int, hasValue2 bool) error {
	tw := tabwriter.NewWriter(w, 0, 8, 1, ' ', 0)
	fmt.Fprintln(tw, "window\tlongitude\tlatitude\trow\tcol\tvalue\tvalue2")
	i := 0
	for window, n := range pointsPerWindow {
		for ; n > 0; n-- {
			r := recs[i]
			i++
			if hasValue2 {
				fmt.Fprintf(tw, "%d\t%.5f\t%.5f\t%d\t%d\t%g\t%g\n",
					window, r.Lon, r.Lat, r.Row, r.Col, r.Value, r.Value2)
			} else {
				fmt.Fprintf(tw, "%d\t%.5f\t%.5f\t%d\t%d\t%g\t\n",
					window, r.Lon, r.Lat, r.Row, r.Col, r.Value)
			}
		}
	}
	return tw.Flush()
}

func main() {
	root.PersistentFlags().StringVar(&configFile, "config", "swathgrid.toml",
		"path to the configuration file")
	root.AddCommand(versionCmd, gridCmd, regridCmd, aggregateCmd)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
