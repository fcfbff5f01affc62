package hit

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type Ray struct {
	Origin mgl32.Vec3
	Dir    mgl32.Vec3
}

func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// Camera turns a normalized device coordinate into a world ray.
type Camera interface {
	Ray(ndc mgl32.Vec2) Ray
}

// PixelToNDC maps a pixel to [-1,1] on both axes with Y pointing up.
// A degenerate viewport maps everything to the center.
func PixelToNDC(x, y, width, height float64) mgl32.Vec2 {
	if width <= 0 || height <= 0 {
		return mgl32.Vec2{}
	}
	return mgl32.Vec2{
		float32(2*x/width - 1),
		float32(1 - 2*y/height),
	}
}

// OrthoCamera looks down -Z at the grid plane and frames HalfWidth by
// HalfHeight world units around Center.
type OrthoCamera struct {
	Center     mgl32.Vec2
	HalfWidth  float32
	HalfHeight float32
	Height     float32
}

func (c OrthoCamera) Ray(ndc mgl32.Vec2) Ray {
	h := c.Height
	if h == 0 {
		h = 10
	}
	return Ray{
		Origin: mgl32.Vec3{c.Center.X() + ndc.X()*c.HalfWidth, c.Center.Y() + ndc.Y()*c.HalfHeight, h},
		Dir:    mgl32.Vec3{0, 0, -1},
	}
}

// PerspectiveCamera unprojects through the inverse view-projection matrix.
type PerspectiveCamera struct {
	Eye    mgl32.Vec3
	Target mgl32.Vec3
	Up     mgl32.Vec3
	FovY   float32 // radians
	Aspect float32
	Near   float32
	Far    float32
}

func (c PerspectiveCamera) View() mgl32.Mat4 {
	up := c.Up
	if up.Len() == 0 {
		up = mgl32.Vec3{0, 1, 0}
	}
	return mgl32.LookAtV(c.Eye, c.Target, up)
}

func (c PerspectiveCamera) Projection() mgl32.Mat4 {
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(c.FovY, aspect, c.Near, c.Far)
}

func (c PerspectiveCamera) ViewProj() mgl32.Mat4 {
	return c.Projection().Mul4(c.View())
}

func (c PerspectiveCamera) Ray(ndc mgl32.Vec2) Ray {
	inv := c.ViewProj().Inv()
	near := inv.Mul4x1(mgl32.Vec4{ndc.X(), ndc.Y(), -1, 1})
	far := inv.Mul4x1(mgl32.Vec4{ndc.X(), ndc.Y(), 1, 1})
	n := near.Vec3().Mul(1 / near.W())
	f := far.Vec3().Mul(1 / far.W())
	return Ray{Origin: n, Dir: f.Sub(n).Normalize()}
}

// FramingDistance is how far a perspective camera with the given vertical
// field of view must sit to see height world units.
func FramingDistance(height float64, fovY float32) float64 {
	return height / 2 / math.Tan(float64(fovY)/2)
}

func (c OrthoCamera) ViewProj() mgl32.Mat4 {
	h := c.Height
	if h == 0 {
		h = 10
	}
	eye := mgl32.Vec3{c.Center.X(), c.Center.Y(), h}
	view := mgl32.LookAtV(eye, mgl32.Vec3{c.Center.X(), c.Center.Y(), 0}, mgl32.Vec3{0, 1, 0})
	proj := mgl32.Ortho(-c.HalfWidth, c.HalfWidth, -c.HalfHeight, c.HalfHeight, 0.01, 2*h)
	return proj.Mul4(view)
}
