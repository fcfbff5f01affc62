package hex

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var sqrt3 = math.Sqrt(3)

// Metrics are the sizing and spacing of one hexagon. Size is the circumradius.
type Metrics struct {
	Orientation       Orientation
	Size              float64
	Width             float64
	Height            float64
	Gap               float64
	HorizontalSpacing float64
	VerticalSpacing   float64
}

// NewMetrics computes spacing for hexagons of circumradius size separated by
// padding*size along every edge.
func NewMetrics(size, padding float64, orientation Orientation) Metrics {
	m := Metrics{Orientation: orientation, Size: size, Gap: padding * size}
	switch orientation {
	case FlatTop:
		m.Width = 2 * size
		m.Height = sqrt3 * size
		m.HorizontalSpacing = 1.5*size + m.Gap*sqrt3/2
		m.VerticalSpacing = m.Height + m.Gap
	default:
		m.Width = sqrt3 * size
		m.Height = 2 * size
		m.HorizontalSpacing = m.Width + m.Gap
		m.VerticalSpacing = 1.5*size + m.Gap*sqrt3/2
	}
	return m
}

// Area of a regular hexagon with circumradius size.
func Area(size float64) float64 {
	return 3 * sqrt3 / 2 * size * size
}

// SizeForArea inverts Area.
func SizeForArea(area float64) float64 {
	if area <= 0 {
		return 0
	}
	return math.Sqrt(2 * area / (3 * sqrt3))
}

func shifted(v int, parity Parity) bool {
	if parity == EvenShift {
		return v&1 == 0
	}
	return v&1 == 1
}

// Placer assigns world positions to grid indices. The grid is centered on
// the origin in the XY plane with row 0 at the top.
type Placer struct {
	Grid    Grid
	Metrics Metrics
	Depth   float32
}

func NewPlacer(grid Grid, metrics Metrics) Placer {
	return Placer{Grid: grid, Metrics: metrics}
}

func (p Placer) local(o Offset) (float64, float64) {
	m := p.Metrics
	x := float64(o.Column) * m.HorizontalSpacing
	y := float64(o.Row) * m.VerticalSpacing
	if p.Grid.Orientation == FlatTop {
		if shifted(o.Column, p.Grid.Parity) {
			y += m.VerticalSpacing / 2
		}
	} else if shifted(o.Row, p.Grid.Parity) {
		x += m.HorizontalSpacing / 2
	}
	return x, y
}

func (p Placer) extent() (float64, float64) {
	m := p.Metrics
	w := float64(max(p.Grid.Columns-1, 0)) * m.HorizontalSpacing
	h := float64(max(p.Grid.Rows-1, 0)) * m.VerticalSpacing
	if p.Grid.Orientation == FlatTop {
		h += m.VerticalSpacing / 2
	} else {
		w += m.HorizontalSpacing / 2
	}
	return w, h
}

// Position returns the world center of index. Indices past the grid keep
// following the row-major layout so a pool may be placed before the grid
// dimensions settle.
func (p Placer) Position(index int) mgl32.Vec3 {
	if index < 0 || p.Grid.Columns <= 0 {
		return mgl32.Vec3{0, 0, p.Depth}
	}
	x, y := p.local(p.Grid.Offset(index))
	w, h := p.extent()
	return mgl32.Vec3{float32(x - w/2), float32(h/2 - y), p.Depth}
}

// Contains reports whether point lies inside the hexagon of circumradius
// size centered on center.
func Contains(center, point mgl32.Vec2, size float32, orientation Orientation) bool {
	dx := abs32(point.X() - center.X())
	dy := abs32(point.Y() - center.Y())
	if orientation == FlatTop {
		dx, dy = dy, dx
	}
	inner := size * float32(sqrt3) / 2
	if dx > inner || dy > size {
		return false
	}
	return dy <= size-dx/float32(sqrt3)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
