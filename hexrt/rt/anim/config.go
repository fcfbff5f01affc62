package anim

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween/ease"
)

type AmbientConfig struct {
	Amplitude   float32
	Speed       float32 // radians per second
	ColumnPhase float32
	RowPhase    float32
}

type IntroConfig struct {
	Enabled   bool
	Duration  float64
	Elevation float32
	// Instances at or above IndexThreshold skip the intro. Zero or less
	// means every instance takes part.
	IndexThreshold int
	// Rates scale how fast an instance runs through the wave; columns are
	// bucketed by divisibility by 7, 5 and 3. Rates below 1 are raised to 1
	// so that every instance finishes within Duration.
	BaseRate float64
	Mod3Rate float64
	Mod5Rate float64
	Mod7Rate float64
	Easing   ease.TweenFunc
}

// HitBand configures the reaction for levels up to MaxLevel. A negative
// MaxLevel matches every level.
type HitBand struct {
	MaxLevel int
	Peak     float32
	Floor    float32
	Decay    float32 // strength lost per frame
	Color    mgl32.Vec4
}

type HitConfig struct {
	// Lift pushes an instance toward the viewer by strength*Lift.
	Lift           float32
	SaturatedColor mgl32.Vec4
	NeutralColor   mgl32.Vec4
	ColorBlend     float32 // fraction of the color gap closed per frame
	OutsideDecay   float32
	Bands          []HitBand
}

type Config struct {
	Ambient AmbientConfig
	Intro   IntroConfig
	Hit     HitConfig
}

func DefaultConfig() Config {
	return Config{
		Ambient: AmbientConfig{
			Amplitude:   0.04,
			Speed:       1.2,
			ColumnPhase: 0.35,
			RowPhase:    0.5,
		},
		Intro: IntroConfig{
			Enabled:        true,
			Duration:       2.5,
			Elevation:      0.6,
			IndexThreshold: 0,
			BaseRate:       1.0,
			Mod3Rate:       1.25,
			Mod5Rate:       1.5,
			Mod7Rate:       2.0,
			Easing:         ease.OutCubic,
		},
		Hit: HitConfig{
			Lift:           0.35,
			SaturatedColor: mgl32.Vec4{1, 0.27, 0, 1},
			NeutralColor:   mgl32.Vec4{1, 1, 1, 1},
			ColorBlend:     0.12,
			OutsideDecay:   0.02,
			Bands: []HitBand{
				{MaxLevel: 6, Peak: 0.85, Floor: 0.5, Decay: 0.01, Color: mgl32.Vec4{1, 0.65, 0, 1}},
				{MaxLevel: -1, Peak: 0.5, Floor: 0.2, Decay: 0.02, Color: mgl32.Vec4{1, 0.85, 0.6, 1}},
			},
		},
	}
}

// Band returns the band for a level >= 1.
func (h HitConfig) Band(level int) HitBand {
	for _, b := range h.Bands {
		if b.MaxLevel < 0 || level <= b.MaxLevel {
			return b
		}
	}
	return HitBand{MaxLevel: -1, Color: h.NeutralColor}
}

var easings = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"in-quad":      ease.InQuad,
	"out-quad":     ease.OutQuad,
	"in-out-quad":  ease.InOutQuad,
	"in-cubic":     ease.InCubic,
	"out-cubic":    ease.OutCubic,
	"in-out-cubic": ease.InOutCubic,
	"out-sine":     ease.OutSine,
	"in-out-sine":  ease.InOutSine,
}

// EasingByName looks up an easing curve by its kebab-case name.
func EasingByName(name string) (ease.TweenFunc, bool) {
	fn, ok := easings[name]
	return fn, ok
}
