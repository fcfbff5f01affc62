package anim

import (
	"math"
	"testing"

	"github.com/gekko3d/hexfield/hexrt/rt/hex"
	"github.com/gekko3d/hexfield/hexrt/rt/pool"
	"github.com/gekko3d/hexfield/hexrt/rt/shape"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietConfig() Config {
	cfg := DefaultConfig()
	cfg.Ambient.Amplitude = 0
	cfg.Intro.Enabled = false
	return cfg
}

func newGridPool(cols, rows int) (hex.Grid, *pool.Pool) {
	g := hex.NewGrid(cols, rows, hex.PointyTop, hex.OddShift)
	p := pool.New(hex.NewPlacer(g, hex.NewMetrics(1, 0, hex.PointyTop)))
	p.Resize(g.Count())
	return g, p
}

func region(g hex.Grid, center, radius int) shape.Result {
	d := make([]int, 0, radius)
	for i := 1; i <= radius; i++ {
		d = append(d, i)
	}
	return shape.FilterIndices(shape.NewQuery(g, true).Ring(center, d...), false)
}

func TestHitLevelZeroSnaps(t *testing.T) {
	cfg := quietConfig()
	g, p := newGridPool(10, 8)
	c := NewCompositor(cfg)

	trig := NewTrigger(region(g, 23, 3), 0)
	c.Tick(p, g, 0, trig)

	s := p.Animation(23)
	assert.Equal(t, float32(1), s.Strength())
	assert.Equal(t, cfg.Hit.SaturatedColor, s.Color)
	assert.Equal(t, 0.0, s.LastHitTime)
	assert.InDelta(t, cfg.Hit.Lift, s.Offset.Z(), 1e-6)

	// Held while the region stays current.
	for i := 1; i < 20; i++ {
		c.Tick(p, g, float64(i)/60, trig)
		assert.Equal(t, float32(1), p.Animation(23).Strength())
	}
}

func TestHitDecaysMonotonicallyToBandFloor(t *testing.T) {
	cfg := quietConfig()
	g, p := newGridPool(10, 8)
	c := NewCompositor(cfg)

	r := region(g, 23, 8)
	trig := NewTrigger(r, 0)
	near := r[2][0]
	band := cfg.Hit.Band(2)

	c.Tick(p, g, 0, trig)
	require.Equal(t, band.Peak, p.Animation(near).Strength())

	prev := band.Peak
	for i := 1; i < 200; i++ {
		c.Tick(p, g, float64(i)/60, trig)
		cur := p.Animation(near).Strength()
		assert.LessOrEqual(t, cur, prev, "strength rose without a fresh hit at frame %d", i)
		assert.GreaterOrEqual(t, cur, band.Floor)
		prev = cur
	}
	assert.InDelta(t, band.Floor, prev, 1e-6)
	assert.Equal(t, band.Color, p.Animation(near).Color)
}

func TestFarLevelsUseLowerFloor(t *testing.T) {
	cfg := quietConfig()
	near, far := cfg.Hit.Band(3), cfg.Hit.Band(7)
	assert.Less(t, far.Floor, near.Floor)
	assert.Greater(t, far.Decay, near.Decay)
}

func TestHitFadesOutsideRegion(t *testing.T) {
	cfg := quietConfig()
	g, p := newGridPool(10, 8)
	c := NewCompositor(cfg)

	c.Tick(p, g, 0, NewTrigger(region(g, 23, 2), 0))
	require.Equal(t, float32(1), p.Animation(23).Strength())

	prev := float32(1)
	for i := 1; i < 100; i++ {
		c.Tick(p, g, float64(i)/60, nil)
		cur := p.Animation(23).Strength()
		assert.LessOrEqual(t, cur, prev)
		prev = cur
	}
	assert.Equal(t, float32(0), prev)
	assert.Equal(t, cfg.Hit.NeutralColor, p.Animation(23).Color)
}

func TestReenteringResetsToLevelPeak(t *testing.T) {
	cfg := quietConfig()
	g, p := newGridPool(10, 8)
	c := NewCompositor(cfg)

	r := region(g, 23, 3)
	idx := r[1][0]
	band := cfg.Hit.Band(1)

	first := NewTrigger(r, 0)
	for i := 0; i < 40; i++ {
		c.Tick(p, g, float64(i)/60, first)
	}
	require.Less(t, p.Animation(idx).Strength(), band.Peak)

	second := NewTrigger(r, 1)
	c.Tick(p, g, 1, second)
	assert.Equal(t, band.Peak, p.Animation(idx).Strength())
	assert.Equal(t, 1.0, p.Animation(idx).LastHitTime)
}

func TestStaleTriggerIndicesIgnored(t *testing.T) {
	g, p := newGridPool(10, 8)
	c := NewCompositor(quietConfig())
	trig := NewTrigger(shape.Result{{500}, {501, 3}}, 0)

	p.Resize(45)
	written := c.Tick(p, hex.NewGrid(9, 5, g.Orientation, g.Parity), 0, trig)
	assert.Equal(t, 45, written)
	assert.Equal(t, cfgBand(c, 1).Peak, p.Animation(3).Strength())
}

func cfgBand(c *Compositor, level int) HitBand {
	return c.Config.Hit.Band(level)
}

type countingSlots struct {
	*pool.Pool
	writes map[int]int
}

func (s *countingSlots) SetAnimation(i int, a pool.AnimationState) bool {
	s.writes[i]++
	return s.Pool.SetAnimation(i, a)
}

func TestTickFlushesEachInstanceOnce(t *testing.T) {
	g, p := newGridPool(6, 4)
	slots := &countingSlots{Pool: p, writes: map[int]int{}}
	c := NewCompositor(DefaultConfig())

	assert.Equal(t, 24, c.Tick(slots, g, 0.1, NewTrigger(region(g, 7, 2), 0)))
	require.Len(t, slots.writes, 24)
	for i, n := range slots.writes {
		assert.Equal(t, 1, n, "instance %d flushed %d times", i, n)
	}
}

func TestIntroOneShot(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Ambient.Amplitude = 0
	cfg.Intro.Duration = 1
	g, p := newGridPool(8, 4)
	c := NewCompositor(cfg)

	c.Tick(p, g, 10, nil)
	assert.False(t, c.IntroDone())

	c.Tick(p, g, 10.5, nil)
	// Column 1 runs at the base rate and is mid-wave.
	assert.Greater(t, p.Animation(1).Offset.Z(), float32(0), "instances rise during the intro")

	c.Tick(p, g, 11.01, nil)
	assert.True(t, c.IntroDone())
	for _, inst := range p.Instances() {
		assert.Equal(t, float32(0), inst.Anim.Offset.Z())
	}

	// Same count: the intro stays finished.
	p.Resize(32)
	c.Tick(p, g, 20, nil)
	assert.True(t, c.IntroDone())

	// A resize restarts it.
	p.Resize(16)
	c.Tick(p, g, 30, nil)
	assert.False(t, c.IntroDone())
}

func TestIntroThresholdAndStagger(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Ambient.Amplitude = 0
	cfg.Intro.IndexThreshold = 8
	g, p := newGridPool(8, 4)
	c := NewCompositor(cfg)

	c.Tick(p, g, 0, nil)
	c.Tick(p, g, 0.4, nil)

	assert.Equal(t, float32(0), p.Animation(8).Offset.Z(), "index past the threshold must not move")
	// Column 0 is in the mod-7 bucket and runs ahead of column 1.
	assert.NotEqual(t, p.Animation(0).Offset.Z(), p.Animation(1).Offset.Z())

	intro := IntroLayer{Config: cfg.Intro}
	for col := 0; col < 8; col++ {
		lift := intro.Lift(Cell{Column: col}, cfg.Intro.Duration)
		assert.InDelta(t, 0, lift, 1e-5, "column %d must settle by the end of the intro", col)
	}
}

func TestAmbientIsContinuousAndPhaseShifted(t *testing.T) {
	amb := AmbientLayer{Config: DefaultConfig().Ambient}
	a := amb.Offset(Cell{Column: 1, Row: 2}, 3.0)
	b := amb.Offset(Cell{Column: 1, Row: 2}, 3.0+1e-4)
	assert.InDelta(t, a.Z(), b.Z(), 1e-3)
	assert.NotEqual(t, amb.Offset(Cell{Column: 0}, 3.0).Z(), amb.Offset(Cell{Column: 4}, 3.0).Z())
	assert.LessOrEqual(t, math.Abs(float64(a.Z())), float64(amb.Config.Amplitude))
}

func TestOverrideReplacesOffsetOverAmbient(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Intro.Enabled = false
	g, p := newGridPool(6, 4)
	c := NewCompositor(cfg)
	c.SetOverrides(map[int]Override{5: {Offset: mgl32.Vec3{0, 0, 0.8}, Strength: 0.3}})

	c.Tick(p, g, 1.7, NewTrigger(region(g, 5, 1), 1))

	cell := Cell{Index: 5, Column: g.Offset(5).Column, Row: g.Offset(5).Row}
	amb := c.Ambient.Offset(cell, 1.7)
	s := p.Animation(5)
	assert.InDelta(t, amb.Z()+0.8, s.Offset.Z(), 1e-6)
	assert.Equal(t, float32(0.3), s.Strength())
	// The hit layer still colored it.
	assert.Equal(t, cfg.Hit.SaturatedColor, s.Color)
}

func TestReleasedOverrideLeavesNoOffset(t *testing.T) {
	g, p := newGridPool(6, 4)
	c := NewCompositor(quietConfig())
	c.SetOverrides(map[int]Override{5: {Offset: mgl32.Vec3{0.5, -0.25, 0.8}, Strength: 0.3}})

	c.Tick(p, g, 0, nil)
	assert.Equal(t, mgl32.Vec4{0.5, -0.25, 0.8, 0.3}, p.Animation(5).Offset)

	c.SetOverrides(nil)
	c.Tick(p, g, 1.0/60, nil)
	released := p.Animation(5).Offset
	assert.Equal(t, float32(0), released.X())
	assert.Equal(t, float32(0), released.Y())
	assert.Less(t, released.W(), float32(0.3))

	for i := 2; i < 300; i++ {
		c.Tick(p, g, float64(i)/60, nil)
	}
	assert.Equal(t, mgl32.Vec4{}, p.Animation(5).Offset)
}

func TestSwitchingOverrideContextMovesOffset(t *testing.T) {
	g, p := newGridPool(6, 4)
	c := NewCompositor(quietConfig())
	c.SetOverrides(map[int]Override{5: {Offset: mgl32.Vec3{0.5, 0.5, 0}, Strength: 0.3}})
	c.Tick(p, g, 0, nil)

	c.SetOverrides(map[int]Override{7: {Offset: mgl32.Vec3{-0.5, 0, 0}, Strength: 0.3}})
	c.Tick(p, g, 1.0/60, nil)
	assert.Equal(t, float32(0), p.Animation(5).Offset.X())
	assert.Equal(t, float32(0), p.Animation(5).Offset.Y())
	assert.Equal(t, float32(-0.5), p.Animation(7).Offset.X())
}

func TestLayerOrderIsExplicit(t *testing.T) {
	c := NewCompositor(quietConfig())
	names := make([]string, 0, len(c.Layers))
	for _, l := range c.Layers {
		names = append(names, l.Name())
	}
	assert.Equal(t, []string{"ambient", "intro", "hit", "override"}, names)

	c.Layers = append(c.Layers, LayerFunc{Label: "mute", Fn: func(_ Sample, s pool.AnimationState) pool.AnimationState {
		s.Offset = mgl32.Vec4{}
		return s
	}})
	f := c.Begin(1, 0, NewTrigger(shape.Result{{0}}, 0))
	out := c.Compose(f, Cell{}, pool.NeutralState())
	assert.Equal(t, mgl32.Vec4{}, out.Offset)
	assert.Equal(t, c.Config.Hit.SaturatedColor, out.Color)
}

func TestEasingByName(t *testing.T) {
	fn, ok := EasingByName("out-cubic")
	require.True(t, ok)
	assert.InDelta(t, 1, fn(1, 0, 1, 1), 1e-6)
	_, ok = EasingByName("wobble")
	assert.False(t, ok)
}
