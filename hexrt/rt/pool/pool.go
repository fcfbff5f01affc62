// Package pool owns the CPU-side copy of the GPU-rendered hexagon instances.
package pool

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// AnimationState is what the renderer reads for an instance every draw.
// Offset is (dx, dy, dz, strength).
type AnimationState struct {
	Offset      mgl32.Vec4
	Color       mgl32.Vec4
	LastHitTime float64
}

func (s AnimationState) Strength() float32 {
	return s.Offset.W()
}

// NeutralColor is the resting instance color.
var NeutralColor = mgl32.Vec4{1, 1, 1, 1}

func NeutralState() AnimationState {
	return AnimationState{Color: NeutralColor, LastHitTime: -1}
}

type Instance struct {
	Index    int
	Position mgl32.Vec3
	Anim     AnimationState
}

// Placement gives the fixed world position of a slot.
type Placement interface {
	Position(index int) mgl32.Vec3
}

type PlacementFunc func(index int) mgl32.Vec3

func (f PlacementFunc) Position(index int) mgl32.Vec3 { return f(index) }

// Pool is a resizable slice of fully initialized instance slots. It also
// tracks which slots changed since the last upload.
type Pool struct {
	instances []Instance
	placement Placement
	neutral   AnimationState

	dirtyIndices []int
	dirtyBitset  []uint64
	needsRebuild bool
	generation   uint64
}

func New(placement Placement) *Pool {
	return &Pool{
		placement: placement,
		neutral:   NeutralState(),
	}
}

// SetNeutral changes the state given to newly allocated slots.
func (p *Pool) SetNeutral(s AnimationState) {
	p.neutral = s
}

func (p *Pool) SetPlacement(placement Placement) {
	p.placement = placement
}

func (p *Pool) position(index int) mgl32.Vec3 {
	if p.placement == nil {
		return mgl32.Vec3{}
	}
	return p.placement.Position(index)
}

func (p *Pool) newSlot(index int) Instance {
	return Instance{Index: index, Position: p.position(index), Anim: p.neutral}
}

// Resize makes the pool hold exactly target slots. An empty pool is bulk
// allocated, a larger target appends only the difference and a smaller one
// drops the highest indices. Existing slots keep their position and state.
// It reports whether the count changed. A negative target panics.
func (p *Pool) Resize(target int) bool {
	if target < 0 {
		panic(fmt.Sprintf("pool: resize to negative count %d", target))
	}
	current := len(p.instances)
	switch {
	case target == current:
		return false
	case current == 0:
		slots := make([]Instance, target)
		for i := range slots {
			slots[i] = p.newSlot(i)
		}
		p.instances = slots
	case target > current:
		grown := make([]Instance, target)
		copy(grown, p.instances)
		for i := current; i < target; i++ {
			grown[i] = p.newSlot(i)
		}
		p.instances = grown
	default:
		clear(p.instances[target:])
		p.instances = p.instances[:target:target]
	}

	p.resetDirty(target)
	for i := current; i < target; i++ {
		p.markDirty(i)
	}
	p.needsRebuild = true
	p.generation++
	return true
}

// Reposition recomputes every slot's world position from the current
// placement. Animation state is kept.
func (p *Pool) Reposition() {
	for i := range p.instances {
		p.instances[i].Position = p.position(i)
	}
	p.needsRebuild = true
}

func (p *Pool) Len() int {
	return len(p.instances)
}

// Generation increments on every count change.
func (p *Pool) Generation() uint64 {
	return p.generation
}

func (p *Pool) Contains(index int) bool {
	return index >= 0 && index < len(p.instances)
}

func (p *Pool) Instance(index int) (Instance, bool) {
	if !p.Contains(index) {
		return Instance{}, false
	}
	return p.instances[index], true
}

// Instances exposes the slots for read-only iteration.
func (p *Pool) Instances() []Instance {
	return p.instances
}

func (p *Pool) Position(index int) mgl32.Vec3 {
	if !p.Contains(index) {
		return mgl32.Vec3{}
	}
	return p.instances[index].Position
}

func (p *Pool) Animation(index int) AnimationState {
	if !p.Contains(index) {
		return AnimationState{}
	}
	return p.instances[index].Anim
}

// SetAnimation stores s for index and marks it for upload. Writes to indices
// outside the pool are ignored and reported as false.
func (p *Pool) SetAnimation(index int, s AnimationState) bool {
	if !p.Contains(index) {
		return false
	}
	if p.instances[index].Anim != s {
		p.instances[index].Anim = s
		p.markDirty(index)
	}
	return true
}

func (p *Pool) SetOffset(index int, offset mgl32.Vec4) bool {
	s := p.Animation(index)
	s.Offset = offset
	return p.SetAnimation(index, s)
}

func (p *Pool) SetColor(index int, color mgl32.Vec4) bool {
	s := p.Animation(index)
	s.Color = color
	return p.SetAnimation(index, s)
}

func (p *Pool) resetDirty(n int) {
	words := (n + 63) / 64
	if old := len(p.dirtyBitset); cap(p.dirtyBitset) >= words {
		p.dirtyBitset = p.dirtyBitset[:words]
		if words > old {
			clear(p.dirtyBitset[old:])
		}
	} else {
		grown := make([]uint64, words)
		copy(grown, p.dirtyBitset)
		p.dirtyBitset = grown
	}
	kept := p.dirtyIndices[:0]
	for _, idx := range p.dirtyIndices {
		if idx < n {
			kept = append(kept, idx)
		}
	}
	p.dirtyIndices = kept
	// Drop bits past the new end of the last word.
	if rem := n % 64; rem != 0 && words > 0 {
		p.dirtyBitset[words-1] &= (uint64(1) << rem) - 1
	}
}

func (p *Pool) markDirty(index int) {
	word, bit := index/64, uint(index%64)
	if word >= len(p.dirtyBitset) {
		return
	}
	if p.dirtyBitset[word]&(1<<bit) != 0 {
		return
	}
	p.dirtyBitset[word] |= 1 << bit
	p.dirtyIndices = append(p.dirtyIndices, index)
}

// DirtyIndices lists slots written since the last ClearDirty, in write order.
func (p *Pool) DirtyIndices() []int {
	return p.dirtyIndices
}

// NeedsRebuild reports that the slot count or positions changed, so a full
// upload is required.
func (p *Pool) NeedsRebuild() bool {
	return p.needsRebuild
}

func (p *Pool) ClearDirty() {
	clear(p.dirtyBitset)
	p.dirtyIndices = p.dirtyIndices[:0]
	p.needsRebuild = false
}
