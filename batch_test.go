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

package randomwalk

import (
	"errors"
	"fmt"
	"runtime"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func steps(walks []Walk) [][]Step {
	o := make([][]Step, len(walks))
	for i, w := range walks {
		o[i] = w.Steps()
	}
	return o
}

func TestBatchReproducible(t *testing.T) {
	dp := scenario(t, 10)
	a, err := GenerateBatch(StandardWalker{}, dp, 40, Cell{0, 0}, 10, 7, BatchWorkers(1))
	if err != nil {
		t.Fatal(err)
	}
	b, err := GenerateBatch(StandardWalker{}, dp, 40, Cell{0, 0}, 10, 7, BatchWorkers(8))
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 40 {
		t.Fatalf("have %d walks, want 40", len(a))
	}
	if diff := cmp.Diff(steps(a), steps(b)); diff != "" {
		t.Errorf("1 worker (-) vs 8 workers (+):\n%s", diff)
	}
	for _, w := range a {
		checkWalk(t, w, Cell{0, 0}, Cell{4, 4}, 10, unitMove)
	}
	c, err := GenerateBatch(StandardWalker{}, dp, 40, Cell{0, 0}, 10, 8)
	if err != nil {
		t.Fatal(err)
	}
	if cmp.Equal(steps(a), steps(c)) {
		t.Error("different seeds gave the same batch")
	}
}

func TestGeneratePaths(t *testing.T) {
	pool := buildPool(t, correlatedKernels(t, 0.6), ByHeading)
	a, err := CorrelatedWalker{Initial: South}.GeneratePaths(pool, 10, Cell{0, 0}, 12, newRand(5))
	if err != nil {
		t.Fatal(err)
	}
	b, err := CorrelatedWalker{Initial: South}.GeneratePaths(pool, 10, Cell{0, 0}, 12, newRand(5))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(steps(a), steps(b)); diff != "" {
		t.Errorf("(-a +b):\n%s", diff)
	}
	if _, err := (StandardWalker{}).GeneratePaths(scenario(t, 8), 0, Cell{0, 0}, 8, newRand(1)); !errors.Is(err, ErrQuantity) {
		t.Errorf("have error %v, want %v", err, ErrQuantity)
	}
}

func TestBatchAtomic(t *testing.T) {
	dp := scenario(t, 8)
	walks, err := GenerateBatch(StandardWalker{}, dp, 25, Cell{0, 0}, 7, 1, BatchWorkers(4))
	if !errors.Is(err, ErrNoPathExists) {
		t.Errorf("have error %v, want %v", err, ErrNoPathExists)
	}
	if walks != nil {
		t.Errorf("have %d walks after a failure, want none", len(walks))
	}
	if _, err := GenerateBatch(CorrelatedWalker{}, dp, 5, Cell{0, 0}, 8, 1); !errors.Is(err, ErrRequiresMultipleDynamicPrograms) {
		t.Errorf("have error %v, want %v", err, ErrRequiresMultipleDynamicPrograms)
	}
}

func TestBatchLog(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	_, err := GenerateBatch(StandardWalker{}, scenario(t, 8), 3, Cell{0, 0}, 8, 1, BatchLog(log))
	if err != nil {
		t.Fatal(err)
	}
	entries := hook.AllEntries()
	if len(entries) != 2 {
		t.Fatalf("have %d log entries, want 2", len(entries))
	}
	id := entries[0].Data["batch"]
	if id == nil || id != entries[1].Data["batch"] {
		t.Errorf("batch ids %v and %v", id, entries[1].Data["batch"])
	}
	if w := entries[1].Data["walker"]; w != "swg" {
		t.Errorf("walker: have %v, want swg", w)
	}
}

func BenchmarkBatch(b *testing.B) {
	dp := build(b, Grid(50, 50), Target(Cell{40, 40}), Horizon(100), UseKernel(simpleKernel(b)))
	procs := []int{1, 2, 4, 8, 16}
	var t1 time.Duration
	for _, nprocs := range procs {
		if nprocs > 2*runtime.NumCPU() {
			break
		}
		b.Run(fmt.Sprintf("procs=%d", nprocs), func(b *testing.B) {
			start := time.Now()
			for i := 0; i < b.N; i++ {
				if _, err := GenerateBatch(StandardWalker{}, dp, 200, Cell{5, 5}, 100, uint64(i), BatchWorkers(nprocs)); err != nil {
					b.Fatal(err)
				}
			}
			d := time.Since(start) / time.Duration(b.N)
			if nprocs == 1 {
				t1 = d
			}
			if t1 > 0 {
				fmt.Printf("For %v procs\ttime = %v\tscale eff = %.3g\n",
					nprocs, d, float64(t1)/float64(d)/float64(nprocs))
			}
		})
	}
}
