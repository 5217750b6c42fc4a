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
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type batchConfig struct {
	workers int
	log     logrus.FieldLogger
}

// BatchOption configures GenerateBatch.
type BatchOption func(*batchConfig)

// BatchWorkers sets the number of walks sampled concurrently. The default
// is runtime.GOMAXPROCS(0).
func BatchWorkers(n int) BatchOption {
	return func(c *batchConfig) {
		if n > 0 {
			c.workers = n
		}
	}
}

// BatchLog sets the logger for batch diagnostics.
func BatchLog(l logrus.FieldLogger) BatchOption {
	return func(c *batchConfig) {
		c.log = l
	}
}

// GenerateBatch samples qty walks with w in parallel. Walk i draws from
// its own random stream seeded by (seed, i), so the result only depends
// on the arguments and not on scheduling. The first error aborts the
// batch and no walks are returned.
func GenerateBatch(w Walker, f Field, qty int, start Cell, timeSteps int, seed uint64, opts ...BatchOption) ([]Walk, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrQuantity, qty)
	}
	cfg := batchConfig{workers: runtime.GOMAXPROCS(0), log: logrus.StandardLogger()}
	for _, o := range opts {
		o(&cfg)
	}
	s, err := w.prepare(f)
	if err != nil {
		return nil, err
	}
	log := cfg.log.WithFields(logrus.Fields{
		"batch":  uuid.New().String(),
		"walker": w.Name(true),
		"qty":    qty,
	})
	begin := time.Now()
	log.Debug("randomwalk: starting batch")

	walks := make([]Walk, qty)
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(cfg.workers)
	for i := 0; i < qty; i++ {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			rng := rand.New(rand.NewPCG(seed, uint64(i)))
			walk, err := sample(s, f, start, timeSteps, rng)
			if err != nil {
				return fmt.Errorf("randomwalk: walk %d: %w", i, err)
			}
			walks[i] = walk
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.WithError(err).Debug("randomwalk: batch failed")
		return nil, err
	}
	log.WithField("duration", time.Since(begin)).Debug("randomwalk: finished batch")
	return walks, nil
}
