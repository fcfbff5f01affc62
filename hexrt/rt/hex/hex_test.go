package hex

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var conventions = []struct {
	name        string
	orientation Orientation
	parity      Parity
}{
	{"odd-r", PointyTop, OddShift},
	{"even-r", PointyTop, EvenShift},
	{"odd-q", FlatTop, OddShift},
	{"even-q", FlatTop, EvenShift},
}

func TestIndexOffsetRoundTrip(t *testing.T) {
	for _, cols := range []int{1, 3, 10, 17} {
		for row := 0; row < 12; row++ {
			for col := 0; col < cols; col++ {
				idx := OffsetToIndex(col, row, cols)
				require.NotEqual(t, Invalid, idx)
				assert.Equal(t, Offset{Column: col, Row: row}, IndexToOffset(idx, cols))
			}
		}
	}
}

func TestOffsetToIndexOutOfBounds(t *testing.T) {
	assert.Equal(t, Invalid, OffsetToIndex(-1, 0, 10))
	assert.Equal(t, Invalid, OffsetToIndex(10, 0, 10))
	assert.Equal(t, Invalid, OffsetToIndex(0, -1, 10))
	assert.Equal(t, Invalid, OffsetToIndex(0, 0, 0))

	g := NewGrid(10, 8, PointyTop, OddShift)
	assert.Equal(t, Invalid, g.Index(Offset{Column: 3, Row: 8}))
	assert.Equal(t, 23, g.Index(Offset{Column: 3, Row: 2}))
}

func TestCubeConversionsKeepInvariant(t *testing.T) {
	for _, cv := range conventions {
		t.Run(cv.name, func(t *testing.T) {
			for row := -5; row < 12; row++ {
				for col := -5; col < 12; col++ {
					o := Offset{Column: col, Row: row}
					c := OffsetToCube(o, cv.orientation, cv.parity)
					require.True(t, c.Valid(), "q+r+s != 0 for %v -> %v", o, c)
					assert.Equal(t, o, CubeToOffset(c, cv.orientation, cv.parity))

					for d := 0; d < 6; d++ {
						n := Neighbor(c, d, false)
						assert.True(t, n.Valid())
						assert.Equal(t, 1, Distance(c, n))

						diag := Neighbor(c, d, true)
						assert.True(t, diag.Valid())
						assert.Equal(t, 2, Distance(c, diag))
					}
				}
			}
		})
	}
}

func TestDirectionWraps(t *testing.T) {
	assert.Equal(t, Direction(0, false), Direction(6, false))
	assert.Equal(t, Direction(5, true), Direction(-1, true))
	for d := 0; d < 3; d++ {
		assert.Equal(t, Cube{}, Direction(d, false).Add(Direction(d+3, false)))
	}
}

func TestRingSizes(t *testing.T) {
	center := NewCube(2, -3)
	assert.Equal(t, []Cube{center}, RingCubes(center, 0))
	assert.Nil(t, RingCubes(center, -1))

	for d := 1; d <= 6; d++ {
		ring := RingCubes(center, d)
		require.Len(t, ring, 6*d)
		seen := make(map[Cube]struct{}, len(ring))
		for _, c := range ring {
			assert.True(t, c.Valid())
			assert.Equal(t, d, Distance(center, c))
			seen[c] = struct{}{}
		}
		assert.Len(t, seen, 6*d, "ring %d visits a cell twice", d)
	}
}

func TestGridRingScenario(t *testing.T) {
	g := NewGrid(10, 8, PointyTop, OddShift)
	require.Equal(t, Offset{Column: 3, Row: 2}, g.Offset(23))

	assert.Equal(t, []int{23}, g.Ring(23, 0))

	ring := g.Ring(23, 2)
	require.Len(t, ring, 12)
	for _, idx := range ring {
		require.True(t, g.Contains(idx), "index %d should be on the grid", idx)
		assert.Equal(t, 2, Distance(g.Cube(23), g.Cube(idx)))
	}

	corner := g.Ring(0, 2)
	require.Len(t, corner, 12)
	invalid := 0
	for _, idx := range corner {
		if idx == Invalid {
			invalid++
			continue
		}
		assert.True(t, g.Contains(idx))
	}
	assert.Greater(t, invalid, 0, "a corner ring must fall partly off the grid")
}

func TestSpiralLevelsMatchRings(t *testing.T) {
	for _, cv := range conventions {
		g := NewGrid(9, 7, cv.orientation, cv.parity)
		spiral := g.SpiralUpTo(31, 4)
		require.Len(t, spiral, 5)
		for i, level := range spiral {
			assert.Equal(t, g.Ring(31, i), level, "%s level %d", cv.name, i)
		}
	}
	assert.Nil(t, NewGrid(3, 3, PointyTop, OddShift).SpiralUpTo(99, 2))
}

func TestAxisWalk(t *testing.T) {
	g := NewGrid(20, 20, PointyTop, OddShift)
	center := g.Index(Offset{Column: 10, Row: 10})
	origin := g.Cube(center)

	for _, axis := range []Axis{AxisQ, AxisR, AxisS} {
		both := g.Axis(center, 3, axis, Both)
		require.Len(t, both, 4)
		assert.Equal(t, []int{center}, both[0])
		for d := 1; d <= 3; d++ {
			require.Len(t, both[d], 2)
			for _, idx := range both[d] {
				c := g.Cube(idx)
				assert.Equal(t, d, Distance(origin, c))
				switch axis {
				case AxisQ:
					assert.Equal(t, origin.Q, c.Q)
				case AxisR:
					assert.Equal(t, origin.R, c.R)
				case AxisS:
					assert.Equal(t, origin.S, c.S)
				}
			}
		}

		left := g.Axis(center, 3, axis, Left)
		right := g.Axis(center, 3, axis, Right)
		for d := 1; d <= 3; d++ {
			assert.ElementsMatch(t, both[d], append(append([]int{}, left[d]...), right[d]...))
		}
	}
}

func TestNeighborsOffGrid(t *testing.T) {
	g := NewGrid(4, 4, FlatTop, EvenShift)
	n := g.Neighbors(0, false)
	invalid := 0
	for _, idx := range n {
		if idx == Invalid {
			invalid++
		}
	}
	assert.Greater(t, invalid, 0)
	assert.Equal(t, [6]int{Invalid, Invalid, Invalid, Invalid, Invalid, Invalid}, g.Neighbors(-3, true))
}

func TestPlacementMatchesNeighborSpacing(t *testing.T) {
	const size = 0.5
	for _, cv := range conventions {
		t.Run(cv.name, func(t *testing.T) {
			g := NewGrid(6, 5, cv.orientation, cv.parity)
			p := NewPlacer(g, NewMetrics(size, 0, cv.orientation))
			want := float32(math.Sqrt(3) * size)
			for idx := 0; idx < g.Count(); idx++ {
				for _, n := range g.Neighbors(idx, false) {
					if n == Invalid {
						continue
					}
					dist := p.Position(idx).Sub(p.Position(n)).Len()
					assert.InDelta(t, want, dist, 1e-4, "%d -> %d", idx, n)
				}
			}
		})
	}
}

func TestPlacementIsCentered(t *testing.T) {
	g := NewGrid(5, 5, PointyTop, OddShift)
	p := NewPlacer(g, NewMetrics(1, 0.1, PointyTop))
	var sum mgl32.Vec3
	minX, maxX := float32(math.Inf(1)), float32(math.Inf(-1))
	for i := 0; i < g.Count(); i++ {
		pos := p.Position(i)
		sum = sum.Add(pos)
		minX = min(minX, pos.X())
		maxX = max(maxX, pos.X())
	}
	assert.InDelta(t, 0, minX+maxX, 1e-4)
	assert.InDelta(t, 0, sum.Y()/float32(g.Count()), 1e-4)
}

func TestMetricsArea(t *testing.T) {
	size := SizeForArea(Area(1.75))
	assert.InDelta(t, 1.75, size, 1e-9)
	assert.Equal(t, 0.0, SizeForArea(-1))

	m := NewMetrics(1, 0, FlatTop)
	assert.InDelta(t, 1.5, m.HorizontalSpacing, 1e-9)
	assert.InDelta(t, math.Sqrt(3), m.VerticalSpacing, 1e-9)
}

func TestContains(t *testing.T) {
	c := mgl32.Vec2{1, 1}
	assert.True(t, Contains(c, c, 1, PointyTop))
	assert.True(t, Contains(c, mgl32.Vec2{1, 1.95}, 1, PointyTop))
	assert.False(t, Contains(c, mgl32.Vec2{1.95, 1}, 1, PointyTop))
	assert.True(t, Contains(c, mgl32.Vec2{1.95, 1}, 1, FlatTop))
	assert.False(t, Contains(c, mgl32.Vec2{1.8, 1.8}, 1, PointyTop))
}
