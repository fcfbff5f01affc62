// Package shape builds highlight regions around a grid cell, organized by
// distance level.
package shape

import (
	"slices"

	"github.com/gekko3d/hexfield/hexrt/rt/hex"
)

// Result is an ordered list of distance levels. Level 0 is the query center.
type Result [][]int

// Len returns the number of indices across all levels.
func (r Result) Len() int {
	n := 0
	for _, level := range r {
		n += len(level)
	}
	return n
}

// LevelOf returns the first level containing index, or -1.
func (r Result) LevelOf(index int) int {
	for i, level := range r {
		if slices.Contains(level, index) {
			return i
		}
	}
	return -1
}

// Levels flattens r into an index -> level map. When an index appears on more
// than one level the nearest level wins.
func (r Result) Levels() map[int]int {
	out := make(map[int]int, r.Len())
	for i, level := range r {
		for _, idx := range level {
			if _, ok := out[idx]; !ok {
				out[idx] = i
			}
		}
	}
	return out
}

// Query runs shape queries against a grid. With FilterBounds set, Invalid
// indices are removed from every level.
type Query struct {
	Grid         hex.Grid
	FilterBounds bool
}

func NewQuery(grid hex.Grid, filterBounds bool) Query {
	return Query{Grid: grid, FilterBounds: filterBounds}
}

// Ring computes each requested distance independently and merges the results
// level by level. The longest result is the backbone and the others append
// their per-level entries to it. Level 0 is forced to [center].
func (q Query) Ring(center int, distances ...int) Result {
	if !q.Grid.Contains(center) {
		return nil
	}
	if len(distances) == 0 {
		distances = []int{1}
	}

	parts := make([]Result, 0, len(distances))
	for _, d := range distances {
		if d < 0 {
			continue
		}
		levels := make(Result, d+1)
		levels[d] = q.Grid.Ring(center, d)
		parts = append(parts, q.bounded(levels))
	}
	merged := merge(parts)
	if len(merged) == 0 {
		merged = Result{nil}
	}
	merged[0] = []int{center}
	return merged
}

// HexagonSpiral returns [center], ring 1, ..., ring maxDistance.
func (q Query) HexagonSpiral(center, maxDistance int) Result {
	return q.bounded(Result(q.Grid.SpiralUpTo(center, maxDistance)))
}

// Star is the per-level union of axis walks on all three cube axes in both
// directions. Level 0 is forced to [center].
func (q Query) Star(center, distance int) Result {
	if !q.Grid.Contains(center) || distance < 0 {
		return nil
	}
	parts := make([]Result, 0, 3)
	for _, axis := range []hex.Axis{hex.AxisQ, hex.AxisR, hex.AxisS} {
		parts = append(parts, q.bounded(Result(q.Grid.Axis(center, distance, axis, hex.Both))))
	}
	merged := merge(parts)
	merged[0] = []int{center}
	return merged
}

func (q Query) bounded(r Result) Result {
	if !q.FilterBounds {
		return r
	}
	for i, level := range r {
		kept := level[:0:0]
		for _, idx := range level {
			if q.Grid.Contains(idx) {
				kept = append(kept, idx)
			}
		}
		r[i] = kept
	}
	return r
}

// merge never drops entries from a shorter input.
func merge(parts []Result) Result {
	if len(parts) == 0 {
		return nil
	}
	longest := 0
	for i, p := range parts {
		if len(p) > len(parts[longest]) {
			longest = i
		}
	}
	out := make(Result, len(parts[longest]))
	for i, level := range parts[longest] {
		out[i] = append([]int(nil), level...)
	}
	for i, p := range parts {
		if i == longest {
			continue
		}
		for lvl, level := range p {
			out[lvl] = append(out[lvl], level...)
		}
	}
	return out
}

// FilterIndices drops empty levels, de-duplicates each level and optionally
// discards level 0. Indices within a level come back sorted.
func FilterIndices(r Result, removeCenter bool) Result {
	out := make(Result, 0, len(r))
	for i, level := range r {
		if i == 0 && removeCenter {
			continue
		}
		if len(level) == 0 {
			continue
		}
		out = append(out, normalize(level))
	}
	return out
}

// Equal compares two results level by level, ignoring order within a level.
func Equal(a, b Result) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !slices.Equal(normalize(a[i]), normalize(b[i])) {
			return false
		}
	}
	return true
}

func normalize(level []int) []int {
	set := slices.Clone(level)
	slices.Sort(set)
	return slices.Compact(set)
}
