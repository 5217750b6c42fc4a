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
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/randomwalk"
	"github.com/spatialmodel/randomwalk/internal/hash"
	"github.com/spatialmodel/randomwalk/kernels"
	"github.com/spatialmodel/randomwalk/landcover"
	"github.com/spf13/cobra"
)

// newLogger returns a logger that writes to the command output and to
// the log file.
func newLogger(cmd *cobra.Command, c *Config) (*logrus.Logger, func(), error) {
	logfile, err := os.Create(c.LogFile)
	if err != nil {
		return nil, nil, fmt.Errorf("randomwalk: problem creating log file: %v", err)
	}
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		logfile.Close()
		return nil, nil, fmt.Errorf("randomwalk: invalid LogLevel: %v", err)
	}
	log := logrus.New()
	log.Out = io.MultiWriter(cmd.OutOrStdout(), logfile)
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		DisableColors:   true,
	})
	return log, func() { logfile.Close() }, nil
}

// isPool returns whether the kernel type needs a pool of fields.
func (k KernelConfig) isPool() bool {
	return k.Type == "correlated" || k.Type == "biased-correlated"
}

// kernel builds the single kernel of the configuration.
func (k KernelConfig) kernel() (*randomwalk.Kernel, error) {
	var g randomwalk.Generator
	switch k.Type {
	case "simple":
		g = kernels.SimpleRW{}
	case "biased":
		g = kernels.Biased{Probability: k.Probability, Direction: k.Direction}
	case "normal":
		g = kernels.Normal{Diffusion: k.Diffusion, Width: k.Size}
	case "levy":
		g = kernels.Levy{JumpProbability: k.JumpProbability, JumpDistance: k.JumpDistance}
	default:
		return nil, fmt.Errorf("randomwalk: invalid Kernel.Type %q", k.Type)
	}
	return randomwalk.BuildKernel(g)
}

// poolKernels builds the per-heading kernels of the configuration.
func (k KernelConfig) poolKernels() (map[int]*randomwalk.Kernel, error) {
	switch k.Type {
	case "correlated":
		return randomwalk.BuildKernels(kernels.Correlated{Persistence: k.Persistence})
	case "biased-correlated":
		return randomwalk.BuildKernels(kernels.BiasedCorrelated{
			Probability: k.Probability, Direction: k.Direction, Persistence: k.Persistence})
	}
	return nil, fmt.Errorf("randomwalk: Kernel.Type %q does not build a pool", k.Type)
}

// landCover returns the land-cover grid and class table, or nils if no
// class table is configured.
func landCover(c *Config) (*sparse.DenseArrayInt, *landcover.Table, error) {
	if c.LandCoverClasses == "" {
		return nil, nil, nil
	}
	f, err := os.Open(c.LandCoverClasses)
	if err != nil {
		return nil, nil, fmt.Errorf("randomwalk: problem opening LandCover.Classes: %v", err)
	}
	defer f.Close()
	table, err := landcover.ReadTable(f)
	if err != nil {
		return nil, nil, err
	}
	if c.LandCoverFile == "" {
		g, err := landcover.Synthetic(table, c.Width, c.Height, c.LandCoverSeed, c.LandCoverFrequency)
		return g, table, err
	}
	gf, err := os.Open(c.LandCoverFile)
	if err != nil {
		return nil, nil, fmt.Errorf("randomwalk: problem opening LandCover.File: %v", err)
	}
	defer gf.Close()
	g, err := landcover.ReadGrid(gf)
	if err != nil {
		return nil, nil, err
	}
	return g, table, nil
}

// fieldKey identifies a field configuration in the cache.
type fieldKey struct {
	Width, Height int
	Target, Start randomwalk.Cell
	Steps         int
	Boundary      randomwalk.BoundaryPolicy
	Obstacles     [][2]randomwalk.Cell
	Kernel        KernelConfig
	LandCover     []int
	MaxSteps      map[int]int
}

// BuildField builds the field of c, reading it from the cache directory
// if it has been built before.
func BuildField(c *Config, log logrus.FieldLogger) (randomwalk.Field, error) {
	grid, table, err := landCover(c)
	if err != nil {
		return nil, err
	}
	opts := []randomwalk.BuildOption{
		randomwalk.Grid(c.Width, c.Height),
		randomwalk.Target(c.Target),
		randomwalk.Start(c.Start),
		randomwalk.Horizon(c.Steps),
		randomwalk.Boundary(c.Boundary),
		randomwalk.Workers(c.Workers),
		randomwalk.Logger(log),
	}
	for _, r := range c.Obstacles {
		opts = append(opts, randomwalk.RectObstacle(r[0], r[1]))
	}
	key := fieldKey{Width: c.Width, Height: c.Height, Target: c.Target, Start: c.Start,
		Steps: c.Steps, Boundary: c.Boundary, Obstacles: c.Obstacles, Kernel: c.Kernel}

	if c.Kernel.isPool() {
		if grid != nil {
			return nil, fmt.Errorf("randomwalk: land cover cannot be combined with Kernel.Type %q", c.Kernel.Type)
		}
		ks, err := c.Kernel.poolKernels()
		if err != nil {
			return nil, err
		}
		opts = append(opts, randomwalk.PoolKernels(ks, randomwalk.ByHeading),
			randomwalk.StartKey(int(c.Walker.InitialHeading)))
	} else {
		k, err := c.Kernel.kernel()
		if err != nil {
			return nil, err
		}
		if grid != nil {
			ks, err := landcover.Kernels(k, table.MaxStepSizes())
			if err != nil {
				return nil, err
			}
			opts = append(opts, randomwalk.FieldKernels(ks, grid))
			key.LandCover, key.MaxSteps = grid.Elements, table.MaxStepSizes()
		} else {
			opts = append(opts, randomwalk.UseKernel(k))
		}
	}

	var cacheFile string
	if c.CacheDir != "" {
		cacheFile = filepath.Join(c.CacheDir, hash.Key(key)+".gob")
		if f, err := readField(cacheFile, c.Kernel.isPool()); err == nil {
			log.WithField("file", cacheFile).Info("randomwalk: loaded cached field")
			return f, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			log.WithError(err).Warn("randomwalk: ignoring unreadable cached field")
		}
	}

	b, err := randomwalk.NewBuilder(opts...)
	if err != nil {
		return nil, err
	}
	var f randomwalk.Field
	if c.Kernel.isPool() {
		f, err = b.BuildPool()
	} else {
		f, err = b.Build()
	}
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"kernel":  c.Kernel.Type,
		"horizon": c.Steps,
	}).Info("randomwalk: built field")
	if cacheFile != "" {
		if err := writeField(cacheFile, f); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func writeField(path string, f randomwalk.Field) error {
	w, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("randomwalk: problem creating field file: %v", err)
	}
	switch v := f.(type) {
	case *randomwalk.DynamicProgram:
		err = v.Save(w)
	case *randomwalk.Pool:
		err = v.Save(w)
	}
	if err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func readField(path string, pool bool) (randomwalk.Field, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	br := bufio.NewReader(r)
	if pool {
		return randomwalk.LoadPool(br)
	}
	return randomwalk.Load(br)
}

// SaveField builds the field of c and writes it to c.OutputFile.
func SaveField(c *Config, log logrus.FieldLogger) error {
	f, err := BuildField(c, log)
	if err != nil {
		return err
	}
	if err := writeField(c.OutputFile, f); err != nil {
		return err
	}
	log.WithField("file", c.OutputFile).Info("randomwalk: saved field")
	return nil
}

// NewWalker returns the walker of c.
func NewWalker(c *Config, grid *sparse.DenseArrayInt, table *landcover.Table) (randomwalk.Walker, error) {
	switch c.Walker.Type {
	case "standard", "swg":
		return randomwalk.StandardWalker{}, nil
	case "correlated", "cwg":
		return randomwalk.CorrelatedWalker{Initial: c.Walker.InitialHeading}, nil
	case "multistep", "msw":
		return randomwalk.MultiStepWalker{MaxStepSize: c.Walker.MaxStepSize, AxisAligned: c.Walker.AxisAligned}, nil
	case "landcover", "lcw":
		if grid == nil {
			return nil, fmt.Errorf("randomwalk: the landcover walker needs LandCover.Classes")
		}
		return randomwalk.LandCoverWalker{MaxStepSizes: table.MaxStepSizes(), LandCover: grid}, nil
	case "levy", "lw":
		return randomwalk.LevyWalker{JumpProbability: c.Walker.JumpProbability, JumpDistance: c.Walker.JumpDistance}, nil
	}
	return nil, fmt.Errorf("randomwalk: invalid Walker.Type %q", c.Walker.Type)
}

// Walks samples c.Count walks and writes them to c.OutputFile as JSON
// lines.
func Walks(c *Config, log logrus.FieldLogger) error {
	start := time.Now()
	var (
		f   randomwalk.Field
		err error
	)
	if c.FieldFile != "" {
		f, err = readField(c.FieldFile, c.Kernel.isPool())
	} else {
		f, err = BuildField(c, log)
	}
	if err != nil {
		return err
	}
	grid, table, err := landCover(c)
	if err != nil {
		return err
	}
	w, err := NewWalker(c, grid, table)
	if err != nil {
		return err
	}
	walks, err := randomwalk.GenerateBatch(w, f, c.Count, c.Start, c.Steps, c.Seed,
		randomwalk.BatchWorkers(c.Workers), randomwalk.BatchLog(log))
	if err != nil {
		return err
	}
	out, err := os.Create(c.OutputFile)
	if err != nil {
		return fmt.Errorf("randomwalk: problem creating output file: %v", err)
	}
	if err := WriteWalks(out, walks); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"walker":   w.Name(false),
		"walks":    len(walks),
		"file":     c.OutputFile,
		"duration": time.Since(start),
	}).Info("randomwalk: wrote walks")
	return nil
}

// WriteWalks writes one JSON-encoded walk per line.
func WriteWalks(w io.Writer, walks []randomwalk.Walk) error {
	e := json.NewEncoder(w)
	for i, wk := range walks {
		if err := e.Encode(wk); err != nil {
			return fmt.Errorf("randomwalk: writing walk %d: %v", i, err)
		}
	}
	return nil
}

// ReadWalks reads walks written by WriteWalks.
func ReadWalks(r io.Reader) ([]randomwalk.Walk, error) {
	var walks []randomwalk.Walk
	d := json.NewDecoder(r)
	for {
		var w randomwalk.Walk
		if err := d.Decode(&w); err == io.EOF {
			return walks, nil
		} else if err != nil {
			return nil, fmt.Errorf("randomwalk: reading walk %d: %v", len(walks), err)
		}
		walks = append(walks, w)
	}
}

// AnalyzeFile classifies the walks in path and prints one line per walk
// to w.
func AnalyzeFile(path string, th randomwalk.Thresholds, w io.Writer) error {
	r, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("randomwalk: problem opening InputFile: %v", err)
	}
	defer r.Close()
	walks, err := ReadWalks(r)
	if err != nil {
		return err
	}
	for i, wk := range walks {
		a, err := randomwalk.Analyze(wk, th)
		if err != nil {
			return fmt.Errorf("randomwalk: walk %d: %w", i, err)
		}
		switch a.Model {
		case randomwalk.BiasedModel:
			fmt.Fprintf(w, "%d\t%v\t%v\t%.3f\n", i, a.Model, a.Direction, a.Bias)
		case randomwalk.CorrelatedModel:
			fmt.Fprintf(w, "%d\t%v\t%.3f\n", i, a.Model, a.Persistence)
		default:
			fmt.Fprintf(w, "%d\t%v\n", i, a.Model)
		}
	}
	return nil
}
