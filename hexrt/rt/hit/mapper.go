// Package hit maps pointer positions to grid instances and overlay objects
// and keeps the highlight region derived from the last hit.
package hit

import (
	"github.com/gekko3d/hexfield/hexrt/rt/bvh"
	"github.com/gekko3d/hexfield/hexrt/rt/hex"
	"github.com/gekko3d/hexfield/hexrt/rt/shape"
)

type Kind int

const (
	None Kind = iota
	Grid
	Overlay
)

func (k Kind) String() string {
	switch k {
	case Grid:
		return "grid"
	case Overlay:
		return "overlay"
	default:
		return "none"
	}
}

// Result describes one pointer update.
type Result struct {
	Kind    Kind
	Index   int
	Overlay Collidable
	T       float32
	// Changed is set when the cached region or overlay was replaced.
	Changed bool
}

type Mapper struct {
	Camera   Camera
	Overlays []Collidable
	// Radius is the outermost ring of the highlight region.
	Radius int
	// ClearOnMiss drops the cached region and overlay when the pointer
	// leaves everything.
	ClearOnMiss bool

	grid       hex.Grid
	size       float32
	positions  Positions
	proxy      *Proxy
	proxyGen   uint64
	proxyStale bool
	lastIndex  int
	region     shape.Result
	overlay    Collidable
	generation uint64
}

func NewMapper(cam Camera, radius int) *Mapper {
	return &Mapper{
		Camera:    cam,
		Radius:    max(radius, 1),
		lastIndex: hex.Invalid,
	}
}

// SetGrid points the mapper at new grid geometry. The proxy is rebuilt on
// the next update and the next grid hit recomputes its region.
func (m *Mapper) SetGrid(grid hex.Grid, size float32, positions Positions) {
	m.grid = grid
	m.size = size
	m.positions = positions
	m.proxyStale = true
	m.lastIndex = hex.Invalid
}

func (m *Mapper) AddOverlay(c Collidable) {
	m.Overlays = append(m.Overlays, c)
}

func (m *Mapper) currentProxy() *Proxy {
	if m.positions == nil {
		return nil
	}
	if m.proxy == nil || m.proxyStale || m.proxyGen != m.positions.Generation() {
		m.proxy = NewProxy(m.positions, m.size, m.grid.Orientation)
		m.proxyGen = m.positions.Generation()
		m.proxyStale = false
	}
	return m.proxy
}

// Tree returns the current grid proxy hierarchy, building it if needed.
func (m *Mapper) Tree() *bvh.Tree {
	if p := m.currentProxy(); p != nil {
		return p.Tree()
	}
	return nil
}

// Update handles one pointer move in viewport pixels.
func (m *Mapper) Update(pixelX, pixelY, viewportWidth, viewportHeight float64) Result {
	if m.Camera == nil {
		return Result{Kind: None, Index: hex.Invalid}
	}
	return m.Cast(m.Camera.Ray(PixelToNDC(pixelX, pixelY, viewportWidth, viewportHeight)))
}

// Cast tests r against the grid proxy first and the overlays second.
func (m *Mapper) Cast(r Ray) Result {
	if idx, t := m.currentProxy().Raycast(r); idx != hex.Invalid {
		res := Result{Kind: Grid, Index: idx, T: t}
		if idx != m.lastIndex {
			m.lastIndex = idx
			m.region = m.ringRegion(idx)
			m.overlay = nil
			m.generation++
			res.Changed = true
		}
		return res
	}

	var best Collidable
	bestT := float32(maxDistance)
	for _, o := range m.Overlays {
		if t, ok := o.Intersect(r); ok && t < bestT {
			best, bestT = o, t
		}
	}
	if best != nil {
		res := Result{Kind: Overlay, Index: hex.Invalid, Overlay: best, T: bestT}
		if m.overlay != best || m.region != nil {
			m.overlay = best
			m.region = nil
			m.lastIndex = hex.Invalid
			m.generation++
			res.Changed = true
		}
		return res
	}

	res := Result{Kind: None, Index: hex.Invalid}
	if m.ClearOnMiss && (m.region != nil || m.overlay != nil) {
		m.Reset()
		res.Changed = true
	}
	return res
}

func (m *Mapper) ringRegion(center int) shape.Result {
	distances := make([]int, m.Radius)
	for i := range distances {
		distances[i] = i + 1
	}
	return shape.FilterIndices(shape.NewQuery(m.grid, true).Ring(center, distances...), false)
}

// Region returns the cached highlight region and its generation. The
// generation grows every time the region or overlay is replaced.
func (m *Mapper) Region() (shape.Result, uint64) {
	return m.region, m.generation
}

func (m *Mapper) Overlay() Collidable {
	return m.overlay
}

func (m *Mapper) LastIndex() int {
	return m.lastIndex
}

// Reset drops every cached hit.
func (m *Mapper) Reset() {
	m.region = nil
	m.overlay = nil
	m.lastIndex = hex.Invalid
	m.generation++
}
