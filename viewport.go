package hexfield

import (
	"github.com/gekko3d/hexfield/hexrt/rt/layout"
)

// Viewport is the layout input: the framebuffer in pixels and how much of
// the grid plane the camera frames.
type Viewport struct {
	Width  int
	Height int
	// WorldHeight is the visible height of the grid plane in world units.
	WorldHeight float64
	OffAxis     layout.OffAxis
}

func (v Viewport) Aspect() float64 {
	if v.Height <= 0 {
		return 1
	}
	return float64(v.Width) / float64(v.Height)
}

// VisibleSize is the framed area of the grid plane.
func (v Viewport) VisibleSize() (float64, float64) {
	if v.Width <= 0 || v.Height <= 0 || v.WorldHeight <= 0 {
		return 0, 0
	}
	return v.WorldHeight * v.Aspect(), v.WorldHeight
}

// WorldSize is the area the grid must cover, widened for an off-axis viewer.
func (v Viewport) WorldSize() (float64, float64) {
	w, h := v.VisibleSize()
	if w == 0 || v.OffAxis.Distance <= 0 {
		return w, h
	}
	return layout.AdjustForOffAxisCamera(w, h, v.OffAxis)
}

type PointerEvent struct {
	X, Y           float64
	ViewportWidth  float64
	ViewportHeight float64
}

// PointerEvents queues pointer moves between frames.
type PointerEvents struct {
	events []PointerEvent
}

func (p *PointerEvents) Push(e PointerEvent) {
	p.events = append(p.events, e)
}

func (p *PointerEvents) Len() int {
	return len(p.events)
}

// Drain hands every queued event to fn in arrival order and empties the queue.
func (p *PointerEvents) Drain(fn func(PointerEvent)) {
	for _, e := range p.events {
		fn(e)
	}
	p.events = p.events[:0]
}

// Latest keeps only the most recent event.
func (p *PointerEvents) Latest() (PointerEvent, bool) {
	if len(p.events) == 0 {
		return PointerEvent{}, false
	}
	e := p.events[len(p.events)-1]
	p.events = p.events[:0]
	return e, true
}

// ViewportModule provides the Viewport resource. Install it before
// PlatformWindowModule to choose how much of the plane is framed.
type ViewportModule struct {
	Width       int
	Height      int
	WorldHeight float64
	OffAxis     layout.OffAxis
}

func (m ViewportModule) Install(app *App, cmd *Commands) {
	if _, ok := Resource[Viewport](app); ok {
		return
	}
	worldHeight := m.WorldHeight
	if worldHeight <= 0 {
		worldHeight = DefaultWorldHeight
	}
	cmd.AddResources(&Viewport{
		Width:       m.Width,
		Height:      m.Height,
		WorldHeight: worldHeight,
		OffAxis:     m.OffAxis,
	})
}
