// Package layout sizes the hex grid so that it tiles a viewing area.
package layout

import (
	"fmt"
	"math"

	"github.com/gekko3d/hexfield/hexrt/rt/hex"
)

// Layout is the result of Compute. InstanceCount is always Columns*Rows.
type Layout struct {
	Columns       int
	Rows          int
	InstanceSize  float64
	InstanceCount int
	Padding       float64
	Orientation   hex.Orientation
	Metrics       hex.Metrics
}

func (l Layout) Grid(parity hex.Parity) hex.Grid {
	return hex.NewGrid(l.Columns, l.Rows, l.Orientation, parity)
}

func (l Layout) Placer(parity hex.Parity) hex.Placer {
	return hex.NewPlacer(l.Grid(parity), l.Metrics)
}

// Compute derives the hexagon size from the area each of desiredCount
// instances would cover, then counts columns and rows so the tiling always
// overscans the area.
func Compute(width, height float64, desiredCount int, padding float64, orientation hex.Orientation) Layout {
	l := Layout{Padding: padding, Orientation: orientation}
	if width <= 0 || height <= 0 || desiredCount <= 0 {
		return l
	}

	size := hex.SizeForArea(width * height / float64(desiredCount))
	m := hex.NewMetrics(size, padding, orientation)

	l.InstanceSize = size
	l.Metrics = m
	l.Columns = int(math.Ceil((width+m.Gap)/m.HorizontalSpacing)) + 1
	l.Rows = int(math.Floor((height+m.Height/2)/m.VerticalSpacing)) + 1
	l.InstanceCount = l.Columns * l.Rows
	return l
}

// OffAxis describes a viewer displaced from the grid's normal axis by X or Y
// world units while looking at the grid center from Distance.
type OffAxis struct {
	X        float64
	Y        float64
	Distance float64
}

// maxGrazing keeps frustum edges from running parallel to the grid plane.
const maxGrazing = 89 * math.Pi / 180

// AdjustForOffAxisCamera rescales an on-axis visible width/height for a viewer
// offset along exactly one axis. The offset axis grows to cover the far side
// of the tilted frustum symmetrically and the other axis grows with the depth
// of that far edge. Offsetting both axes at once is a contract violation.
func AdjustForOffAxisCamera(width, height float64, cam OffAxis) (float64, float64) {
	if cam.X != 0 && cam.Y != 0 {
		panic(fmt.Sprintf("layout: off-axis correction needs a single offset axis, got x=%g y=%g", cam.X, cam.Y))
	}
	if cam.Distance <= 0 || (cam.X == 0 && cam.Y == 0) {
		return width, height
	}

	if cam.X != 0 {
		w, h := offAxisSpan(width, height, cam.X, cam.Distance)
		return w, h
	}
	h, w := offAxisSpan(height, width, cam.Y, cam.Distance)
	return w, h
}

// offAxisSpan works in the plane containing the offset axis. along is the
// extent on that axis, across the perpendicular extent.
func offAxisSpan(along, across, offset, distance float64) (float64, float64) {
	axisLen := math.Hypot(offset, distance)
	phi := math.Atan2(offset, distance)
	theta := math.Atan2(along/2, axisLen)

	hitX := func(angle float64) float64 {
		angle = math.Max(-maxGrazing, math.Min(maxGrazing, angle))
		return offset - distance*math.Tan(angle)
	}
	near := hitX(phi - theta)
	far := hitX(phi + theta)
	span := 2 * math.Max(math.Abs(near), math.Abs(far))

	// Depth along the view axis of the far edge, compared with the on-axis
	// reference depth.
	edge := far
	if math.Abs(near) > math.Abs(far) {
		edge = near
	}
	depth := (offset*offset - edge*offset + distance*distance) / axisLen
	scale := math.Max(1, depth/axisLen)
	return span, across * scale
}
