package bvh

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type Hit struct {
	Hit   bool
	T     float32
	Index int
}

// IntersectAABB is a slab test. It returns the entry distance along dir.
func IntersectAABB(origin, dir, bmin, bmax mgl32.Vec3, tMax float32) (float32, bool) {
	tNear := float32(0)
	tFar := tMax
	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < bmin[axis] || origin[axis] > bmax[axis] {
				return 0, false
			}
			continue
		}
		inv := 1 / dir[axis]
		t0 := (bmin[axis] - origin[axis]) * inv
		t1 := (bmax[axis] - origin[axis]) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tNear = max(tNear, t0)
		tFar = min(tFar, t1)
		if tNear > tFar {
			return 0, false
		}
	}
	return tNear, true
}

// Narrow refines a leaf candidate. It returns the hit distance and whether
// the instance was really hit.
type Narrow func(index int, origin, dir mgl32.Vec3, tBox float32) (float32, bool)

// Raycast returns the nearest leaf accepted by narrow within tMax. A nil
// narrow accepts the box hit.
func (t *Tree) Raycast(origin, dir mgl32.Vec3, tMax float32, narrow Narrow) Hit {
	best := Hit{T: float32(math.Inf(1)), Index: -1}
	if t == nil || len(t.Nodes) == 0 {
		return Hit{Index: -1}
	}

	stack := make([]int32, 0, 64)
	stack = append(stack, 0)
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.Nodes[idx]

		tBox, ok := IntersectAABB(origin, dir, n.Min, n.Max, min(tMax, best.T))
		if !ok {
			continue
		}
		if n.IsLeaf() {
			hitT, accepted := tBox, true
			if narrow != nil {
				hitT, accepted = narrow(int(n.LeafFirst), origin, dir, tBox)
			}
			if accepted && hitT <= tMax && hitT < best.T {
				best = Hit{Hit: true, T: hitT, Index: int(n.LeafFirst)}
			}
			continue
		}
		stack = append(stack, n.Left, n.Right)
	}
	if !best.Hit {
		return Hit{Index: -1}
	}
	return best
}
