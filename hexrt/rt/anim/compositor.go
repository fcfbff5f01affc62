// Package anim composes the per-frame animation of every grid instance from
// an ordered list of layers: ambient, intro, hit reaction and override.
package anim

import (
	"maps"

	"github.com/gekko3d/hexfield/hexrt/rt/hex"
	"github.com/gekko3d/hexfield/hexrt/rt/pool"
)

// Slots is the instance storage the compositor reads and flushes to.
type Slots interface {
	Len() int
	Animation(index int) pool.AnimationState
	SetAnimation(index int, s pool.AnimationState) bool
}

type Compositor struct {
	Config  Config
	Ambient AmbientLayer
	Layers  []Layer

	introDone  bool
	introStart float64
	lastCount  int
	overrides  map[int]Override
	frame      Frame
}

func NewCompositor(cfg Config) *Compositor {
	c := &Compositor{
		Config:    cfg,
		Ambient:   AmbientLayer{Config: cfg.Ambient},
		lastCount: -1,
	}
	c.Layers = []Layer{
		c.Ambient,
		IntroLayer{Config: cfg.Intro},
		HitLayer{Config: cfg.Hit},
		OverrideLayer{},
	}
	return c
}

// SetOverrides replaces the override set. Passing nil clears it.
func (c *Compositor) SetOverrides(overrides map[int]Override) {
	c.overrides = maps.Clone(overrides)
}

func (c *Compositor) Overrides() map[int]Override {
	return c.overrides
}

// IntroDone reports whether the one-shot intro has finished for the current
// instance count.
func (c *Compositor) IntroDone() bool {
	return c.introDone || !c.Config.Intro.Enabled
}

// Begin prepares the shared frame state. A change in instance count restarts
// the intro.
func (c *Compositor) Begin(count int, elapsed float64, trigger *Trigger) *Frame {
	if count != c.lastCount {
		c.lastCount = count
		c.introDone = false
		c.introStart = elapsed
	}
	if !c.introDone && elapsed-c.introStart > c.Config.Intro.Duration {
		c.introDone = true
	}

	c.frame = Frame{
		Elapsed:     elapsed,
		Count:       count,
		IntroActive: !c.IntroDone(),
		IntroStart:  c.introStart,
		Trigger:     trigger,
		Overrides:   c.overrides,
	}
	return &c.frame
}

// Compose runs every layer in order over s for one instance.
func (c *Compositor) Compose(f *Frame, cell Cell, s pool.AnimationState) pool.AnimationState {
	in := Sample{
		Cell:    cell,
		Frame:   f,
		Ambient: c.Ambient.Offset(cell, f.Elapsed),
	}
	for _, layer := range c.Layers {
		s = layer.Apply(in, s)
	}
	return s
}

// Tick composes every slot once and flushes each result exactly once.
// It returns the number of slots written.
func (c *Compositor) Tick(slots Slots, grid hex.Grid, elapsed float64, trigger *Trigger) int {
	n := slots.Len()
	f := c.Begin(n, elapsed, trigger)
	written := 0
	for i := 0; i < n; i++ {
		o := grid.Offset(i)
		cell := Cell{Index: i, Column: o.Column, Row: o.Row}
		if slots.SetAnimation(i, c.Compose(f, cell, slots.Animation(i))) {
			written++
		}
	}
	return written
}
