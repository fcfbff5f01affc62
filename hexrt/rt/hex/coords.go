// Package hex implements the coordinate math of the hexagonal instance grid:
// offset and cube coordinates, neighbor steps, rings, spirals and axis walks.
//
// Every function is pure and total. Indices that fall outside the grid are
// reported as Invalid, never as an error, and callers filter them.
package hex

// Invalid is the sentinel index for cells outside the grid.
const Invalid = -1

type Orientation int

const (
	// PointyTop hexagons stagger every other row.
	PointyTop Orientation = iota
	// FlatTop hexagons stagger every other column.
	FlatTop
)

func (o Orientation) String() string {
	switch o {
	case PointyTop:
		return "pointy-top"
	case FlatTop:
		return "flat-top"
	}
	return "unknown"
}

// Parity selects which rows (pointy-top) or columns (flat-top) are shoved
// by half a cell.
type Parity int

const (
	OddShift Parity = iota
	EvenShift
)

func (p Parity) String() string {
	if p == EvenShift {
		return "even"
	}
	return "odd"
}

type Offset struct {
	Column int
	Row    int
}

// Cube coordinates keep Q+R+S == 0.
type Cube struct {
	Q, R, S int
}

func NewCube(q, r int) Cube {
	return Cube{Q: q, R: r, S: -q - r}
}

func (c Cube) Valid() bool {
	return c.Q+c.R+c.S == 0
}

func (c Cube) Add(o Cube) Cube {
	return Cube{Q: c.Q + o.Q, R: c.R + o.R, S: c.S + o.S}
}

func (c Cube) Sub(o Cube) Cube {
	return Cube{Q: c.Q - o.Q, R: c.R - o.R, S: c.S - o.S}
}

func (c Cube) Scale(k int) Cube {
	return Cube{Q: c.Q * k, R: c.R * k, S: c.S * k}
}

// Distance is the hex-distance between two cells.
func Distance(a, b Cube) int {
	d := a.Sub(b)
	return max(abs(d.Q), abs(d.R), abs(d.S))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Direct neighbors. Opposite directions are three entries apart.
var directions = [6]Cube{
	{Q: 1, R: -1, S: 0},
	{Q: 1, R: 0, S: -1},
	{Q: 0, R: 1, S: -1},
	{Q: -1, R: 1, S: 0},
	{Q: -1, R: 0, S: 1},
	{Q: 0, R: -1, S: 1},
}

// First-ring diagonal neighbors, two steps away along a cell corner.
var diagonals = [6]Cube{
	{Q: 2, R: -1, S: -1},
	{Q: 1, R: 1, S: -2},
	{Q: -1, R: 2, S: -1},
	{Q: -2, R: 1, S: 1},
	{Q: -1, R: -1, S: 2},
	{Q: 1, R: -2, S: 1},
}

// Direction returns the difference vector for direction d; d wraps modulo 6.
func Direction(d int, diagonal bool) Cube {
	d = ((d % 6) + 6) % 6
	if diagonal {
		return diagonals[d]
	}
	return directions[d]
}

func Neighbor(c Cube, direction int, diagonal bool) Cube {
	return c.Add(Direction(direction, diagonal))
}

// OffsetToCube converts using the parity-adjusted formula for the given
// orientation. Pointy-top grids branch on the row, flat-top grids on the column.
func OffsetToCube(o Offset, orientation Orientation, parity Parity) Cube {
	switch orientation {
	case FlatTop:
		q := o.Column
		var r int
		if parity == EvenShift {
			r = o.Row - (o.Column+(o.Column&1))/2
		} else {
			r = o.Row - (o.Column-(o.Column&1))/2
		}
		return NewCube(q, r)
	default:
		r := o.Row
		var q int
		if parity == EvenShift {
			q = o.Column - (o.Row+(o.Row&1))/2
		} else {
			q = o.Column - (o.Row-(o.Row&1))/2
		}
		return NewCube(q, r)
	}
}

func CubeToOffset(c Cube, orientation Orientation, parity Parity) Offset {
	switch orientation {
	case FlatTop:
		col := c.Q
		var row int
		if parity == EvenShift {
			row = c.R + (c.Q+(c.Q&1))/2
		} else {
			row = c.R + (c.Q-(c.Q&1))/2
		}
		return Offset{Column: col, Row: row}
	default:
		row := c.R
		var col int
		if parity == EvenShift {
			col = c.Q + (c.R+(c.R&1))/2
		} else {
			col = c.Q + (c.R-(c.R&1))/2
		}
		return Offset{Column: col, Row: row}
	}
}

// OffsetToIndex maps (column, row) to row*numColumns+column. Columns outside
// [0, numColumns) and negative rows map to Invalid.
func OffsetToIndex(column, row, numColumns int) int {
	if numColumns <= 0 || column < 0 || column >= numColumns || row < 0 {
		return Invalid
	}
	return row*numColumns + column
}

// IndexToOffset is the inverse of OffsetToIndex. Negative indices and
// non-positive column counts yield an offset of (Invalid, Invalid).
func IndexToOffset(index, numColumns int) Offset {
	if index < 0 || numColumns <= 0 {
		return Offset{Column: Invalid, Row: Invalid}
	}
	return Offset{Column: index % numColumns, Row: index / numColumns}
}
