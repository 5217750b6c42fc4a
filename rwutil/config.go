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

package rwutil

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/randomwalk"
	"github.com/spf13/cast"
)

// Config is a parsed and validated configuration.
type Config struct {
	Width, Height int
	Start, Target randomwalk.Cell

	// Steps is the number of steps of each walk and the horizon of the
	// field: TimeSteps plus ExtraSteps.
	Steps int

	Boundary  randomwalk.BoundaryPolicy
	Obstacles [][2]randomwalk.Cell

	Kernel KernelConfig

	LandCoverFile, LandCoverClasses string
	LandCoverSeed                   int64
	LandCoverFrequency              float64

	Workers   int
	CacheDir  string
	FieldFile string

	Walker WalkerConfig
	Count  int
	Seed   uint64

	OutputFile, LogFile, LogLevel string
}

// KernelConfig holds the kernel options.
type KernelConfig struct {
	Type            string
	Diffusion       float64
	Size            int
	Probability     float64
	Direction       randomwalk.Direction
	Persistence     float64
	JumpProbability float64
	JumpDistance    int
}

// WalkerConfig holds the walker options.
type WalkerConfig struct {
	Type            string
	MaxStepSize     int
	AxisAligned     bool
	InitialHeading  randomwalk.Direction
	JumpProbability float64
	JumpDistance    int
}

// ReadConfig reads the configuration from cfg.
func ReadConfig(cfg *viper.Viper) (*Config, error) {
	c := &Config{
		Width:              cfg.GetInt("Grid.Width"),
		Height:             cfg.GetInt("Grid.Height"),
		LandCoverFile:      expand(cfg.GetString("LandCover.File")),
		LandCoverClasses:   expand(cfg.GetString("LandCover.Classes")),
		LandCoverSeed:      cast.ToInt64(cfg.Get("LandCover.Seed")),
		LandCoverFrequency: cfg.GetFloat64("LandCover.Frequency"),
		Workers:            cfg.GetInt("Workers"),
		CacheDir:           expand(cfg.GetString("CacheDir")),
		FieldFile:          expand(cfg.GetString("FieldFile")),
		Count:              cfg.GetInt("Count"),
		Seed:               cast.ToUint64(cfg.Get("Seed")),
		LogLevel:           cfg.GetString("LogLevel"),
	}
	var err error
	if c.Width <= 0 || c.Height <= 0 {
		return nil, fmt.Errorf("randomwalk: Grid.Width and Grid.Height must be positive, but are %d and %d",
			c.Width, c.Height)
	}
	if c.Start, err = checkCell("Start", cfg.Get("Start")); err != nil {
		return nil, err
	}
	if c.Target, err = checkCell("Target", cfg.Get("Target")); err != nil {
		return nil, err
	}
	timeSteps, extra := cfg.GetInt("TimeSteps"), cfg.GetInt("ExtraSteps")
	if timeSteps <= 0 || extra < 0 {
		return nil, fmt.Errorf("randomwalk: TimeSteps must be positive and ExtraSteps non-negative, but are %d and %d",
			timeSteps, extra)
	}
	c.Steps = timeSteps + extra
	if c.Boundary, err = randomwalk.ParseBoundaryPolicy(strings.ToLower(cfg.GetString("Boundary"))); err != nil {
		return nil, err
	}
	if c.Obstacles, err = checkObstacles(cfg.GetStringSlice("Obstacles")); err != nil {
		return nil, err
	}
	c.Kernel = KernelConfig{
		Type:            strings.ToLower(cfg.GetString("Kernel.Type")),
		Diffusion:       cfg.GetFloat64("Kernel.Diffusion"),
		Size:            cfg.GetInt("Kernel.Size"),
		Probability:     cfg.GetFloat64("Kernel.Probability"),
		Persistence:     cfg.GetFloat64("Kernel.Persistence"),
		JumpProbability: cfg.GetFloat64("Kernel.JumpProbability"),
		JumpDistance:    cfg.GetInt("Kernel.JumpDistance"),
	}
	if c.Kernel.Direction, err = randomwalk.ParseDirection(strings.ToLower(cfg.GetString("Kernel.Direction"))); err != nil {
		return nil, err
	}
	c.Walker = WalkerConfig{
		Type:            strings.ToLower(cfg.GetString("Walker.Type")),
		MaxStepSize:     cfg.GetInt("Walker.MaxStepSize"),
		AxisAligned:     cfg.GetBool("Walker.AxisAligned"),
		JumpProbability: cfg.GetFloat64("Walker.JumpProbability"),
		JumpDistance:    cfg.GetInt("Walker.JumpDistance"),
	}
	if c.Walker.JumpDistance == 0 {
		c.Walker.JumpDistance = c.Kernel.JumpDistance
	}
	if c.Walker.InitialHeading, err = randomwalk.ParseDirection(strings.ToLower(cfg.GetString("Walker.InitialHeading"))); err != nil {
		return nil, err
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.Count <= 0 {
		return nil, fmt.Errorf("randomwalk: Count must be positive, but is %d", c.Count)
	}
	if c.OutputFile, err = checkOutputFile(cfg.GetString("OutputFile")); err != nil {
		return nil, err
	}
	c.LogFile = checkLogFile(expand(cfg.GetString("LogFile")), c.OutputFile)
	return c, nil
}

// expand expands environment variables in s.
func expand(s string) string { return os.ExpandEnv(s) }

// checkCell parses a cell given as a list of two integers, or as a
// string 'x,y'.
func checkCell(name string, v interface{}) (randomwalk.Cell, error) {
	if s, ok := v.(string); ok {
		v = strings.Split(strings.Trim(s, "[]"), ",")
	}
	xy, err := cast.ToIntSliceE(v)
	if err != nil || len(xy) != 2 {
		return randomwalk.Cell{}, fmt.Errorf("randomwalk: %s must be a pair of integers, but is %v", name, v)
	}
	return randomwalk.Cell{X: xy[0], Y: xy[1]}, nil
}

// checkObstacles parses cells 'x,y' and rectangles 'x1,y1:x2,y2'.
func checkObstacles(s []string) ([][2]randomwalk.Cell, error) {
	var o [][2]randomwalk.Cell
	for _, r := range s {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		corners := strings.Split(r, ":")
		if len(corners) > 2 {
			return nil, fmt.Errorf("randomwalk: invalid obstacle %q", r)
		}
		var rect [2]randomwalk.Cell
		for i, corner := range corners {
			c, err := checkCell("obstacle", strings.Split(corner, ","))
			if err != nil {
				return nil, err
			}
			rect[i] = c
		}
		if len(corners) == 1 {
			rect[1] = rect[0]
		}
		o = append(o, rect)
	}
	return o, nil
}

// checkOutputFile expands any environment variables in f and makes sure
// its directory exists.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf("randomwalk: OutputFile must be specified")
	}
	f = expand(f)
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("randomwalk: the OutputFile directory doesn't exist: %v", err)
	}
	return f, nil
}

// checkLogFile fills in a default value for the log file path if one isn't
// specified.
func checkLogFile(logFile, outputFile string) string {
	if logFile == "" {
		logFile = strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + ".log"
	}
	return logFile
}

// checkThresholds parses the biased and correlated analysis thresholds.
func checkThresholds(s []string) (randomwalk.Thresholds, error) {
	if len(s) != 2 {
		return randomwalk.Thresholds{}, fmt.Errorf("randomwalk: Thresholds must have 2 values, but has %d", len(s))
	}
	b, err := cast.ToFloat64E(s[0])
	if err != nil {
		return randomwalk.Thresholds{}, fmt.Errorf("randomwalk: invalid biased threshold: %v", err)
	}
	c, err := cast.ToFloat64E(s[1])
	if err != nil {
		return randomwalk.Thresholds{}, fmt.Errorf("randomwalk: invalid correlated threshold: %v", err)
	}
	return randomwalk.Thresholds{Biased: b, Correlated: c}, nil
}
