/*
Copyright © 2026 the RandomWalk authors.
This file is part of RandomWalk.

RandomWalk is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

RandomWalk is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with RandomWalk.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package rwutil is the command-line interface of RandomWalk.
package rwutil

import (
	"fmt"
	"strings"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/randomwalk"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	fieldSets := []*pflag.FlagSet{fieldCmd.Flags(), walkCmd.Flags()}

	// Options are the configuration options available to RandomWalk.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel is the minimum level of log messages: one of
              debug, info, warning or error.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Grid.Width",
			usage: `
              Grid.Width is the number of grid cells along x.`,
			defaultVal: 50,
			flagsets:   fieldSets,
		},
		{
			name: "Grid.Height",
			usage: `
              Grid.Height is the number of grid cells along y.`,
			defaultVal: 50,
			flagsets:   fieldSets,
		},
		{
			name: "Start",
			usage: `
              Start is the x and y index of the cell the walks start at.`,
			defaultVal: []int{0, 0},
			flagsets:   fieldSets,
		},
		{
			name: "Target",
			usage: `
              Target is the x and y index of the cell the walks end at.`,
			defaultVal: []int{10, 10},
			flagsets:   fieldSets,
		},
		{
			name: "TimeSteps",
			usage: `
              TimeSteps is the number of time steps between the start and
              the target observations.`,
			shorthand:  "t",
			defaultVal: 40,
			flagsets:   fieldSets,
		},
		{
			name: "ExtraSteps",
			usage: `
              ExtraSteps pads TimeSteps to make the target reachable when the
              observations are far apart.`,
			defaultVal: 0,
			flagsets:   fieldSets,
		},
		{
			name: "Boundary",
			usage: `
              Boundary specifies what happens to moves that leave the grid or
              hit an obstacle: 'renormalize', 'discard' or 'reflect'.`,
			defaultVal: "renormalize",
			flagsets:   fieldSets,
		},
		{
			name: "Obstacles",
			usage: `
              Obstacles is a list of cells ('x,y') or rectangles
              ('x1,y1:x2,y2') that cannot be entered.`,
			defaultVal: []string{},
			flagsets:   fieldSets,
		},
		{
			name: "Kernel.Type",
			usage: `
              Kernel.Type is the movement kernel: 'simple', 'biased',
              'correlated', 'biased-correlated', 'normal' or 'levy'.
              'correlated' and 'biased-correlated' build a pool of fields.`,
			shorthand:  "k",
			defaultVal: "simple",
			flagsets:   fieldSets,
		},
		{
			name: "Kernel.Diffusion",
			usage: `
              Kernel.Diffusion is the variance of the 'normal' kernel.`,
			defaultVal: 1.0,
			flagsets:   fieldSets,
		},
		{
			name: "Kernel.Size",
			usage: `
              Kernel.Size is the odd side length of the 'normal' kernel.`,
			defaultVal: 7,
			flagsets:   fieldSets,
		},
		{
			name: "Kernel.Probability",
			usage: `
              Kernel.Probability is the probability of moving in
              Kernel.Direction for the biased kernels.`,
			defaultVal: 0.5,
			flagsets:   fieldSets,
		},
		{
			name: "Kernel.Direction",
			usage: `
              Kernel.Direction is the preferred direction of the biased
              kernels: 'stay', 'north', 'east', 'south' or 'west'.`,
			defaultVal: "north",
			flagsets:   fieldSets,
		},
		{
			name: "Kernel.Persistence",
			usage: `
              Kernel.Persistence is the probability of repeating the
              previous heading for the correlated kernels.`,
			defaultVal: 0.5,
			flagsets:   fieldSets,
		},
		{
			name: "Kernel.JumpProbability",
			usage: `
              Kernel.JumpProbability is the total probability of a jump in
              the 'levy' kernel.`,
			defaultVal: 0.2,
			flagsets:   fieldSets,
		},
		{
			name: "Kernel.JumpDistance",
			usage: `
              Kernel.JumpDistance is the length of the jumps of the 'levy'
              kernel, in cells.`,
			defaultVal: 10,
			flagsets:   fieldSets,
		},
		{
			name: "LandCover.File",
			usage: `
              LandCover.File is the path to a grid of land-cover class ids
              with one row of whitespace-separated ids per line. If it is
              empty and LandCover.Classes is set, a synthetic grid is used.
              It can include environment variables.`,
			defaultVal: "",
			flagsets:   fieldSets,
		},
		{
			name: "LandCover.Classes",
			usage: `
              LandCover.Classes is the path to a TOML table of land-cover
              classes. Setting it makes the field and the 'landcover' walker
              cap move lengths per class. It can include environment
              variables.`,
			defaultVal: "",
			flagsets:   fieldSets,
		},
		{
			name: "LandCover.Seed",
			usage: `
              LandCover.Seed seeds the noise of synthetic land-cover grids.`,
			defaultVal: 1,
			flagsets:   fieldSets,
		},
		{
			name: "LandCover.Frequency",
			usage: `
              LandCover.Frequency is the base noise frequency of synthetic
              land-cover grids, in cycles per cell.`,
			defaultVal: 0.05,
			flagsets:   fieldSets,
		},
		{
			name: "Workers",
			usage: `
              Workers is the number of goroutines used to build fields and
              sample walks. Zero uses all available processors.`,
			defaultVal: 0,
			flagsets:   fieldSets,
		},
		{
			name: "CacheDir",
			usage: `
              CacheDir is a directory where computed fields are stored and
              reused when the same field configuration is requested again.
              Caching is disabled if it is empty.`,
			defaultVal: "",
			flagsets:   fieldSets,
		},
		{
			name: "FieldFile",
			usage: `
              FieldFile is the path to a field written by the 'field'
              command. If it is set, the field options are ignored.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{walkCmd.Flags()},
		},
		{
			name: "Walker.Type",
			usage: `
              Walker.Type is the sampling algorithm: 'standard', 'correlated',
              'multistep', 'landcover' or 'levy'.`,
			shorthand:  "w",
			defaultVal: "standard",
			flagsets:   []*pflag.FlagSet{walkCmd.Flags()},
		},
		{
			name: "Walker.MaxStepSize",
			usage: `
              Walker.MaxStepSize is the longest move of the 'multistep'
              walker.`,
			defaultVal: 2,
			flagsets:   []*pflag.FlagSet{walkCmd.Flags()},
		},
		{
			name: "Walker.AxisAligned",
			usage: `
              Walker.AxisAligned restricts 'multistep' moves to the row and
              column of the current cell.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{walkCmd.Flags()},
		},
		{
			name: "Walker.InitialHeading",
			usage: `
              Walker.InitialHeading is the heading the 'correlated' walker
              starts with.`,
			defaultVal: "stay",
			flagsets:   []*pflag.FlagSet{walkCmd.Flags()},
		},
		{
			name: "Walker.JumpProbability",
			usage: `
              Walker.JumpProbability is the probability that a step of the
              'levy' walker is a jump.`,
			defaultVal: 0.05,
			flagsets:   []*pflag.FlagSet{walkCmd.Flags()},
		},
		{
			name: "Walker.JumpDistance",
			usage: `
              Walker.JumpDistance is the length of the jumps of the 'levy'
              walker. It defaults to Kernel.JumpDistance if it is zero.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{walkCmd.Flags()},
		},
		{
			name: "Count",
			usage: `
              Count is the number of walks to sample.`,
			shorthand:  "n",
			defaultVal: 10,
			flagsets:   []*pflag.FlagSet{walkCmd.Flags()},
		},
		{
			name: "Seed",
			usage: `
              Seed is the random seed of the sampled walks. Equal seeds and
              configurations give equal walks.`,
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{walkCmd.Flags()},
		},
		{
			name: "InputFile",
			usage: `
              InputFile is the path to walks written by the 'walk' command.
              It can include environment variables.`,
			defaultVal: "walks.jsonl",
			flagsets:   []*pflag.FlagSet{analyzeCmd.Flags(), plotCmd.Flags()},
		},
		{
			name: "Thresholds",
			usage: `
              Thresholds are the minimum shares of moves in one direction
              and of repeated moves for a walk to be classified as biased
              or correlated.`,
			defaultVal: []string{"0.25", "0.5"},
			flagsets:   []*pflag.FlagSet{analyzeCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path to the output: a gob field for 'field',
              JSON lines for 'walk' and a PNG image for 'plot'. It can
              include environment variables.`,
			shorthand:  "o",
			defaultVal: "walks.jsonl",
			flagsets:   []*pflag.FlagSet{fieldCmd.Flags(), walkCmd.Flags(), plotCmd.Flags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile is the path to the desired logfile location. It can include
              environment variables. If LogFile is left blank, the logfile will be saved in
              the same location as the OutputFile.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{fieldCmd.Flags(), walkCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("RANDOMWALK")
	Cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case []int:
				if option.shorthand == "" {
					set.IntSlice(option.name, option.defaultVal.([]int), option.usage)
				} else {
					set.IntSliceP(option.name, option.shorthand, option.defaultVal.([]int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
		}
		Cfg.BindPFlag(option.name, option.flagsets[0].Lookup(option.name))
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(fieldCmd)
	Root.AddCommand(walkCmd)
	Root.AddCommand(analyzeCmd)
	Root.AddCommand(plotCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("randomwalk: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "randomwalk",
	Short: "Reconstruct movement paths with constrained random walks.",
	Long: `RandomWalk reconstructs plausible movement paths between two observations
by sampling random walks that are guaranteed to reach the second observation
in a given number of time steps. Use the subcommands specified below to access
the model functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'RANDOMWALK_var' where 'var' is the
name of the variable to be set, with dots replaced by underscores.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of RandomWalk.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("RandomWalk v%s\n", randomwalk.Version)
	},
	DisableAutoGenTag: true,
}

// fieldCmd computes a field and saves it.
var fieldCmd = &cobra.Command{
	Use:   "field",
	Short: "Compute and save a reachability field.",
	Long: `field computes the reachability field of the configured grid, target and
kernel and saves it to OutputFile, so that the 'walk' command can sample from it
later through the FieldFile option.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ReadConfig(Cfg)
		if err != nil {
			return err
		}
		log, closeLog, err := newLogger(cmd, c)
		if err != nil {
			return err
		}
		defer closeLog()
		return SaveField(c, log)
	},
	DisableAutoGenTag: true,
}

// walkCmd samples walks.
var walkCmd = &cobra.Command{
	Use:   "walk",
	Short: "Sample walks from the start to the target.",
	Long: `walk samples Count walks from Start to Target with the configured walker and
writes them to OutputFile, one JSON list of {x, y, t} steps per line.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ReadConfig(Cfg)
		if err != nil {
			return err
		}
		log, closeLog, err := newLogger(cmd, c)
		if err != nil {
			return err
		}
		defer closeLog()
		return Walks(c, log)
	},
	DisableAutoGenTag: true,
}

// analyzeCmd classifies walks.
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Classify sampled walks.",
	Long: `analyze reads walks from InputFile and prints, for each walk, whether it
resembles a simple, biased or correlated random walk.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		th, err := checkThresholds(Cfg.GetStringSlice("Thresholds"))
		if err != nil {
			return err
		}
		return AnalyzeFile(expand(Cfg.GetString("InputFile")), th, cmd.OutOrStdout())
	},
	DisableAutoGenTag: true,
}

// plotCmd draws walks.
var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Draw sampled walks.",
	Long:  `plot reads walks from InputFile and draws them to the PNG image OutputFile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return PlotFile(expand(Cfg.GetString("InputFile")), expand(Cfg.GetString("OutputFile")))
	},
	DisableAutoGenTag: true,
}
