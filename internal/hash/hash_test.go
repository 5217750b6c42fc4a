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

package hash

import "testing"

type config struct {
	Width, Height int
	Kernels       map[int]float64
	Start         *[2]int
}

func TestKey(t *testing.T) {
	a := config{Width: 5, Height: 5, Kernels: map[int]float64{0: 0.2, 1: 0.3, 2: 0.5}, Start: &[2]int{0, 0}}
	b := config{Width: 5, Height: 5, Kernels: map[int]float64{2: 0.5, 1: 0.3, 0: 0.2}, Start: &[2]int{0, 0}}
	if Key(a) != Key(b) {
		t.Errorf("equal configurations have different keys %s and %s", Key(a), Key(b))
	}
	for i := 0; i < 10; i++ {
		if k := Key(a, "reflect"); k != Key(b, "reflect") {
			t.Fatalf("iteration %d: keys differ", i)
		}
	}
	c := a
	c.Start = &[2]int{1, 0}
	if Key(a) == Key(c) {
		t.Errorf("different configurations have the same key %s", Key(a))
	}
	if len(Key(a)) != 32 {
		t.Errorf("have key length %d, want 32", len(Key(a)))
	}
}
