package hit

import (
	"github.com/gekko3d/hexfield/hexrt/rt/bvh"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Collidable is an object drawn next to the grid that can take the pointer.
type Collidable interface {
	ID() uuid.UUID
	Intersect(r Ray) (float32, bool)
}

// BoxOverlay is an axis aligned collidable such as a menu panel.
type BoxOverlay struct {
	Id   uuid.UUID
	Name string
	Min  mgl32.Vec3
	Max  mgl32.Vec3
}

func NewBoxOverlay(name string, min, max mgl32.Vec3) *BoxOverlay {
	return &BoxOverlay{Id: uuid.New(), Name: name, Min: min, Max: max}
}

func (b *BoxOverlay) ID() uuid.UUID { return b.Id }

func (b *BoxOverlay) Intersect(r Ray) (float32, bool) {
	return bvh.IntersectAABB(r.Origin, r.Dir, b.Min, b.Max, maxDistance)
}
