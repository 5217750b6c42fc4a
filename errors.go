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

// Package randomwalk reconstructs movement paths between two observations
// by sampling random walks that are conditioned to reach a target cell of
// a bounded grid within a fixed number of time steps.
//
// A DynamicProgram holds, for every time step and grid cell, the
// probability of reaching the target at the horizon. It is computed once
// by backward induction and then shared read-only by the Walkers that
// sample concrete Walks from it.
package randomwalk

import "errors"

var (
	// ErrRequiresSingleDynamicProgram is returned when a single field is
	// needed but a Pool (or pool kernels) was supplied.
	ErrRequiresSingleDynamicProgram = errors.New("randomwalk: walker requires a single dynamic program")

	// ErrRequiresMultipleDynamicPrograms is returned when a Pool is needed
	// but a single DynamicProgram (or a single kernel) was supplied.
	ErrRequiresMultipleDynamicPrograms = errors.New("randomwalk: walker requires a pool of dynamic programs")

	// ErrNoPathExists means the target cannot be reached from the
	// current cell in the remaining number of steps.
	ErrNoPathExists = errors.New("randomwalk: no path exists")

	// ErrInconsistentPath means a sampled walk did not end on the target.
	ErrInconsistentPath = errors.New("randomwalk: inconsistent path")

	// ErrRandomDistribution means a set of weights could not be
	// normalized into a probability distribution.
	ErrRandomDistribution = errors.New("randomwalk: weights cannot be normalized")

	// ErrInconsistentPool is returned when a DynamicProgram inserted in a
	// Pool disagrees with the existing members on grid, target, horizon
	// or boundary policy.
	ErrInconsistentPool = errors.New("randomwalk: inconsistent dynamic program pool")

	// ErrLandCoverMismatch is returned when a land-cover grid does not
	// cover the field or lacks a step size for one of its classes.
	ErrLandCoverMismatch = errors.New("randomwalk: land cover does not match field")

	ErrKernelSize         = errors.New("randomwalk: kernel size must be a positive odd number")
	ErrRotation           = errors.New("randomwalk: rotation must be a multiple of 90 degrees")
	ErrNoGrid             = errors.New("randomwalk: grid size not set")
	ErrNoHorizon          = errors.New("randomwalk: horizon not set")
	ErrNoKernel           = errors.New("randomwalk: kernel not set")
	ErrOutOfBounds        = errors.New("randomwalk: cell out of bounds")
	ErrTargetBlocked      = errors.New("randomwalk: target is an obstacle")
	ErrFieldShape         = errors.New("randomwalk: field grid has wrong shape")
	ErrMissingFieldKernel = errors.New("randomwalk: no kernel for field type")
	ErrTimeSteps          = errors.New("randomwalk: time steps out of range")
	ErrQuantity           = errors.New("randomwalk: quantity must be positive")
	ErrCorruptField       = errors.New("randomwalk: corrupt dynamic program")
	ErrWalkTooShort       = errors.New("randomwalk: walk too short")
	ErrInvalidWalk        = errors.New("randomwalk: invalid walk")
)
