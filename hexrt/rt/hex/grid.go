package hex

type Axis int

const (
	AxisQ Axis = iota
	AxisR
	AxisS
)

func (a Axis) String() string {
	switch a {
	case AxisQ:
		return "q"
	case AxisR:
		return "r"
	case AxisS:
		return "s"
	}
	return "unknown"
}

type AxisDirection int

const (
	Left AxisDirection = iota
	Right
	Both
)

// axisSteps holds the (right, left) direction indices that walk along each
// axis while keeping that axis coordinate fixed.
var axisSteps = [3][2]int{
	AxisQ: {2, 5},
	AxisR: {1, 4},
	AxisS: {0, 3},
}

// Grid is a rectangular offset grid of Columns x Rows cells, linearly indexed
// row by row.
type Grid struct {
	Columns     int
	Rows        int
	Orientation Orientation
	Parity      Parity
}

func NewGrid(columns, rows int, orientation Orientation, parity Parity) Grid {
	return Grid{Columns: columns, Rows: rows, Orientation: orientation, Parity: parity}
}

func (g Grid) Count() int {
	if g.Columns <= 0 || g.Rows <= 0 {
		return 0
	}
	return g.Columns * g.Rows
}

func (g Grid) InBounds(o Offset) bool {
	return o.Column >= 0 && o.Column < g.Columns && o.Row >= 0 && o.Row < g.Rows
}

func (g Grid) Contains(index int) bool {
	return index >= 0 && index < g.Count()
}

// Index returns the linear index of o, or Invalid when o lies off the grid.
func (g Grid) Index(o Offset) int {
	if !g.InBounds(o) {
		return Invalid
	}
	return OffsetToIndex(o.Column, o.Row, g.Columns)
}

func (g Grid) Offset(index int) Offset {
	return IndexToOffset(index, g.Columns)
}

func (g Grid) Cube(index int) Cube {
	return OffsetToCube(g.Offset(index), g.Orientation, g.Parity)
}

func (g Grid) CubeIndex(c Cube) int {
	return g.Index(CubeToOffset(c, g.Orientation, g.Parity))
}

// RingCubes walks to the cell distance steps away in direction 4 and then
// traces the six edges of the ring. It yields 6*distance cells, or just the
// center for distance 0.
func RingCubes(center Cube, distance int) []Cube {
	if distance < 0 {
		return nil
	}
	if distance == 0 {
		return []Cube{center}
	}
	out := make([]Cube, 0, 6*distance)
	c := center.Add(Direction(4, false).Scale(distance))
	for side := 0; side < 6; side++ {
		for step := 0; step < distance; step++ {
			out = append(out, c)
			c = Neighbor(c, side, false)
		}
	}
	return out
}

// Ring returns the indices at exactly distance steps from center. Cells off
// the grid appear as Invalid.
func (g Grid) Ring(center, distance int) []int {
	if !g.Contains(center) {
		return nil
	}
	cubes := RingCubes(g.Cube(center), distance)
	out := make([]int, len(cubes))
	for i, c := range cubes {
		out[i] = g.CubeIndex(c)
	}
	return out
}

// SpiralUpTo returns one level per distance in [0, maxDistance]; level i is
// Ring(center, i).
func (g Grid) SpiralUpTo(center, maxDistance int) [][]int {
	if !g.Contains(center) || maxDistance < 0 {
		return nil
	}
	levels := make([][]int, 0, maxDistance+1)
	for d := 0; d <= maxDistance; d++ {
		levels = append(levels, g.Ring(center, d))
	}
	return levels
}

// Axis walks along one cube axis. Level 0 is the center and level i holds the
// cell(s) i steps away: one per walked direction.
func (g Grid) Axis(center, distance int, axis Axis, direction AxisDirection) [][]int {
	if !g.Contains(center) || distance < 0 || axis < AxisQ || axis > AxisS {
		return nil
	}
	var dirs []int
	switch direction {
	case Right:
		dirs = []int{axisSteps[axis][0]}
	case Left:
		dirs = []int{axisSteps[axis][1]}
	default:
		dirs = []int{axisSteps[axis][0], axisSteps[axis][1]}
	}

	origin := g.Cube(center)
	levels := make([][]int, distance+1)
	levels[0] = []int{center}
	for d := 1; d <= distance; d++ {
		level := make([]int, 0, len(dirs))
		for _, dir := range dirs {
			level = append(level, g.CubeIndex(origin.Add(Direction(dir, false).Scale(d))))
		}
		levels[d] = level
	}
	return levels
}

// Neighbors returns the six direct (or diagonal) neighbor indices of index.
func (g Grid) Neighbors(index int, diagonal bool) [6]int {
	var out [6]int
	c := g.Cube(index)
	for d := 0; d < 6; d++ {
		if !g.Contains(index) {
			out[d] = Invalid
			continue
		}
		out[d] = g.CubeIndex(Neighbor(c, d, diagonal))
	}
	return out
}
