package anim

import "github.com/gekko3d/hexfield/hexrt/rt/shape"

// Trigger is a hit region prepared for per-instance lookup. Stamp must grow
// with every new region; instances whose LastHitTime is older than Stamp
// treat the region as a fresh hit.
type Trigger struct {
	Stamp  float64
	levels map[int]int
}

func NewTrigger(region shape.Result, stamp float64) *Trigger {
	if len(region) == 0 {
		return nil
	}
	return &Trigger{Stamp: stamp, levels: region.Levels()}
}

// Level reports the distance level of index within the region. A nil
// trigger contains nothing.
func (t *Trigger) Level(index int) (int, bool) {
	if t == nil {
		return 0, false
	}
	lvl, ok := t.levels[index]
	return lvl, ok
}

func (t *Trigger) Len() int {
	if t == nil {
		return 0
	}
	return len(t.levels)
}
