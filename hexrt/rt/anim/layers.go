package anim

import (
	"math"

	"github.com/gekko3d/hexfield/hexrt/rt/pool"
	"github.com/go-gl/mathgl/mgl32"
)

// Frame is the per-frame input shared by every instance.
type Frame struct {
	Elapsed float64
	Count   int

	IntroActive bool
	IntroStart  float64

	Trigger   *Trigger
	Overrides map[int]Override
}

// Cell identifies the instance a layer is working on.
type Cell struct {
	Index  int
	Column int
	Row    int
}

// Sample is what a layer sees besides the accumulated state.
type Sample struct {
	Cell
	Frame *Frame
	// Ambient is the ambient offset for this cell, so later layers can keep
	// ambient motion underneath their own values.
	Ambient mgl32.Vec4
}

// Layer transforms the accumulated state for one instance. Layers only
// write the fields they own; everything else carries forward.
type Layer interface {
	Name() string
	Apply(in Sample, s pool.AnimationState) pool.AnimationState
}

// LayerFunc adapts a plain function to Layer.
type LayerFunc struct {
	Label string
	Fn    func(in Sample, s pool.AnimationState) pool.AnimationState
}

func (l LayerFunc) Name() string { return l.Label }

func (l LayerFunc) Apply(in Sample, s pool.AnimationState) pool.AnimationState {
	return l.Fn(in, s)
}

// AmbientLayer writes a phase-shifted sine to the Z offset. It is the base
// of the frame: it replaces the whole offset vector, so nothing a later layer
// wrote last frame carries over. Strength in W is left to the hit layer.
type AmbientLayer struct {
	Config AmbientConfig
}

func (AmbientLayer) Name() string { return "ambient" }

func (l AmbientLayer) Offset(c Cell, elapsed float64) mgl32.Vec4 {
	cfg := l.Config
	phase := float64(cfg.Speed)*elapsed + float64(cfg.ColumnPhase)*float64(c.Column) + float64(cfg.RowPhase)*float64(c.Row)
	return mgl32.Vec4{0, 0, cfg.Amplitude * float32(math.Sin(phase)), 0}
}

func (l AmbientLayer) Apply(in Sample, s pool.AnimationState) pool.AnimationState {
	s.Offset[0] = in.Ambient.X()
	s.Offset[1] = in.Ambient.Y()
	s.Offset[2] = in.Ambient.Z()
	return s
}

// IntroLayer lifts instances in a staggered wave while the intro is active.
// The lift returns to zero by the end of the wave so the layer can switch off
// without a jump.
type IntroLayer struct {
	Config IntroConfig
}

func (IntroLayer) Name() string { return "intro" }

func (l IntroLayer) rate(column int) float64 {
	cfg := l.Config
	r := cfg.BaseRate
	switch {
	case column%7 == 0:
		r = cfg.Mod7Rate
	case column%5 == 0:
		r = cfg.Mod5Rate
	case column%3 == 0:
		r = cfg.Mod3Rate
	}
	return math.Max(1, r)
}

// Lift returns the intro Z offset for a cell t seconds into the intro.
func (l IntroLayer) Lift(c Cell, t float64) float32 {
	cfg := l.Config
	if cfg.Duration <= 0 {
		return 0
	}
	p := float32(math.Min(1, math.Max(0, t*l.rate(c.Column)/cfg.Duration)))
	if cfg.Easing != nil {
		p = cfg.Easing(p, 0, 1, 1)
	}
	return cfg.Elevation * float32(math.Sin(math.Pi*float64(p)))
}

func (l IntroLayer) Apply(in Sample, s pool.AnimationState) pool.AnimationState {
	f := in.Frame
	if !f.IntroActive || !l.Config.Enabled {
		return s
	}
	if l.Config.IndexThreshold > 0 && in.Index >= l.Config.IndexThreshold {
		return s
	}
	s.Offset[2] += l.Lift(in.Cell, f.Elapsed-f.IntroStart)
	return s
}

// HitLayer reacts to the current hit region. Level 0 snaps to full strength
// and the saturated color, other levels start at their band peak and decay
// each frame toward the band floor. Instances outside the region decay to
// zero and fade back to neutral.
type HitLayer struct {
	Config HitConfig
}

func (HitLayer) Name() string { return "hit" }

func (l HitLayer) Apply(in Sample, s pool.AnimationState) pool.AnimationState {
	cfg := l.Config
	strength := s.Offset.W()
	trig := in.Frame.Trigger

	level, inside := trig.Level(in.Index)
	switch {
	case inside && level == 0:
		strength = 1
		s.Color = cfg.SaturatedColor
		if s.LastHitTime < trig.Stamp {
			s.LastHitTime = trig.Stamp
		}
	case inside:
		band := cfg.Band(level)
		if s.LastHitTime < trig.Stamp {
			strength = band.Peak
			s.LastHitTime = trig.Stamp
		} else if strength > band.Floor {
			strength = max(band.Floor, strength-band.Decay)
		}
		s.Color = blend(s.Color, band.Color, cfg.ColorBlend)
	default:
		strength = max(0, strength-cfg.OutsideDecay)
		s.Color = blend(s.Color, cfg.NeutralColor, cfg.ColorBlend)
	}

	s.Offset[3] = strength
	s.Offset[2] += strength * cfg.Lift
	return s
}

func blend(from, to mgl32.Vec4, t float32) mgl32.Vec4 {
	if t >= 1 {
		return to
	}
	out := from.Add(to.Sub(from).Mul(t))
	// Snap once the remaining gap is invisible.
	if to.Sub(out).Len() < 1e-3 {
		return to
	}
	return out
}

// Override pins an instance's offset and strength for a layout context.
type Override struct {
	Offset   mgl32.Vec3
	Strength float32
}

// OverrideLayer replaces offset and strength for the frame's override set.
// Ambient motion is kept underneath.
type OverrideLayer struct{}

func (OverrideLayer) Name() string { return "override" }

func (OverrideLayer) Apply(in Sample, s pool.AnimationState) pool.AnimationState {
	o, ok := in.Frame.Overrides[in.Index]
	if !ok {
		return s
	}
	s.Offset = mgl32.Vec4{
		in.Ambient.X() + o.Offset.X(),
		in.Ambient.Y() + o.Offset.Y(),
		in.Ambient.Z() + o.Offset.Z(),
		o.Strength,
	}
	return s
}
