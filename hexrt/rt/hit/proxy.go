package hit

import (
	"github.com/gekko3d/hexfield/hexrt/rt/bvh"
	"github.com/gekko3d/hexfield/hexrt/rt/hex"
	"github.com/go-gl/mathgl/mgl32"
)

const maxDistance = 1e6

// Positions is the part of the instance pool the grid proxy is built from.
type Positions interface {
	Len() int
	Position(index int) mgl32.Vec3
	Generation() uint64
}

// Proxy is the grid's collision stand-in: one box per instance in a BVH,
// refined by an exact point-in-hexagon test on the instance plane.
type Proxy struct {
	Size        float32
	Orientation hex.Orientation
	Thickness   float32

	tree    *bvh.Tree
	centers []mgl32.Vec3
}

func NewProxy(src Positions, size float32, orientation hex.Orientation) *Proxy {
	p := &Proxy{Size: size, Orientation: orientation, Thickness: 0.01}
	n := src.Len()
	p.centers = make([]mgl32.Vec3, n)
	bounds := make([][2]mgl32.Vec3, n)
	ext := mgl32.Vec3{size, size, p.Thickness}
	for i := 0; i < n; i++ {
		c := src.Position(i)
		p.centers[i] = c
		bounds[i] = [2]mgl32.Vec3{c.Sub(ext), c.Add(ext)}
	}
	p.tree = bvh.Build(bounds)
	return p
}

func (p *Proxy) Len() int {
	return len(p.centers)
}

func (p *Proxy) Tree() *bvh.Tree {
	return p.tree
}

// Raycast returns the instance index hit by r, or hex.Invalid.
func (p *Proxy) Raycast(r Ray) (int, float32) {
	if p == nil || len(p.centers) == 0 {
		return hex.Invalid, 0
	}
	h := p.tree.Raycast(r.Origin, r.Dir, maxDistance, p.narrow)
	if !h.Hit {
		return hex.Invalid, 0
	}
	return h.Index, h.T
}

func (p *Proxy) narrow(index int, origin, dir mgl32.Vec3, tBox float32) (float32, bool) {
	c := p.centers[index]
	t := tBox
	if dir.Z() != 0 {
		t = (c.Z() - origin.Z()) / dir.Z()
		if t < 0 {
			return 0, false
		}
	}
	pt := origin.Add(dir.Mul(t))
	return t, hex.Contains(c.Vec2(), pt.Vec2(), p.Size, p.Orientation)
}
