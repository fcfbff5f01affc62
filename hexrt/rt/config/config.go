// Package config loads hexfield settings from TOML and override tables from
// YAML.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gekko3d/hexfield/hexrt/rt/anim"
	"github.com/gekko3d/hexfield/hexrt/rt/hex"
	"github.com/go-gl/mathgl/mgl32"
)

// EnvVar names the config file used by the demo binary.
const EnvVar = "HEXFIELD_CONFIG"

type Config struct {
	Grid     GridConfig     `toml:"grid"`
	Camera   CameraConfig   `toml:"camera"`
	Ambient  AmbientConfig  `toml:"ambient"`
	Intro    IntroConfig    `toml:"intro"`
	Hit      HitConfig      `toml:"hit"`
	Override OverrideConfig `toml:"override"`
	Logging  LoggingConfig  `toml:"logging"`
	Window   WindowConfig   `toml:"window"`
}

type GridConfig struct {
	DesiredCount int     `toml:"desired_count"`
	Padding      float64 `toml:"padding"` // gap as a fraction of the hexagon size
	Orientation  string  `toml:"orientation"`
	Parity       string  `toml:"parity"`
}

type CameraConfig struct {
	OffsetX  float64 `toml:"offset_x"`
	OffsetY  float64 `toml:"offset_y"`
	Distance float64 `toml:"distance"`
	FovY     float64 `toml:"fov_y"` // degrees
}

type AmbientConfig struct {
	Amplitude   float32 `toml:"amplitude"`
	Speed       float32 `toml:"speed"`
	ColumnPhase float32 `toml:"column_phase"`
	RowPhase    float32 `toml:"row_phase"`
}

type IntroConfig struct {
	Enabled        bool    `toml:"enabled"`
	Duration       float64 `toml:"duration"`
	Elevation      float32 `toml:"elevation"`
	IndexThreshold int     `toml:"index_threshold"`
	BaseRate       float64 `toml:"base_rate"`
	Mod3Rate       float64 `toml:"mod3_rate"`
	Mod5Rate       float64 `toml:"mod5_rate"`
	Mod7Rate       float64 `toml:"mod7_rate"`
	Easing         string  `toml:"easing"`
}

type BandConfig struct {
	MaxLevel int     `toml:"max_level"`
	Peak     float32 `toml:"peak"`
	Floor    float32 `toml:"floor"`
	Decay    float32 `toml:"decay"`
	Color    string  `toml:"color"`
}

type HitConfig struct {
	Radius         int          `toml:"radius"`
	ClearOnMiss    bool         `toml:"clear_on_miss"`
	Lift           float32      `toml:"lift"`
	SaturatedColor string       `toml:"saturated_color"`
	NeutralColor   string       `toml:"neutral_color"`
	ColorBlend     float32      `toml:"color_blend"`
	OutsideDecay   float32      `toml:"outside_decay"`
	Bands          []BandConfig `toml:"bands"`
}

type OverrideConfig struct {
	Table   string `toml:"table"`
	Context string `toml:"context"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "console" or "json"
}

type WindowConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
}

// Load reads a TOML file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func Parse(data []byte) (*Config, error) {
	cfg := Defaults()
	// Bands in the file replace the default set rather than merging into it.
	var fileBands struct {
		Hit struct {
			Bands []BandConfig `toml:"bands"`
		} `toml:"hit"`
	}
	if _, err := toml.Decode(string(data), &fileBands); err != nil {
		return nil, err
	}
	if len(fileBands.Hit.Bands) > 0 {
		cfg.Hit.Bands = nil
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnv loads the file named by EnvVar, or returns the defaults when
// it is unset.
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return Defaults(), nil
	}
	return Load(path)
}

func Defaults() *Config {
	a := anim.DefaultConfig()
	return &Config{
		Grid: GridConfig{
			DesiredCount: 600,
			Padding:      0.08,
			Orientation:  "pointy",
			Parity:       "odd",
		},
		Camera: CameraConfig{
			Distance: 20,
			FovY:     45,
		},
		Ambient: AmbientConfig(a.Ambient),
		Intro: IntroConfig{
			Enabled:        a.Intro.Enabled,
			Duration:       a.Intro.Duration,
			Elevation:      a.Intro.Elevation,
			IndexThreshold: a.Intro.IndexThreshold,
			BaseRate:       a.Intro.BaseRate,
			Mod3Rate:       a.Intro.Mod3Rate,
			Mod5Rate:       a.Intro.Mod5Rate,
			Mod7Rate:       a.Intro.Mod7Rate,
			Easing:         "out-cubic",
		},
		Hit: HitConfig{
			Radius:         8,
			Lift:           a.Hit.Lift,
			SaturatedColor: "orangered",
			NeutralColor:   "white",
			ColorBlend:     a.Hit.ColorBlend,
			OutsideDecay:   a.Hit.OutsideDecay,
			Bands: []BandConfig{
				{MaxLevel: 6, Peak: 0.85, Floor: 0.5, Decay: 0.01, Color: "orange"},
				{MaxLevel: -1, Peak: 0.5, Floor: 0.2, Decay: 0.02, Color: "#ffd899"},
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "hexfield",
		},
	}
}

// Validate checks every enumerated or parsed field.
func (c *Config) Validate() error {
	if c.Grid.DesiredCount < 0 {
		return fmt.Errorf("grid.desired_count must not be negative, got %d", c.Grid.DesiredCount)
	}
	if c.Camera.OffsetX != 0 && c.Camera.OffsetY != 0 {
		return fmt.Errorf("camera: offset_x and offset_y cannot both be set (got %g, %g)", c.Camera.OffsetX, c.Camera.OffsetY)
	}
	if c.Camera.FovY <= 0 || c.Camera.FovY >= 180 {
		return fmt.Errorf("camera.fov_y must be between 0 and 180 degrees, got %g", c.Camera.FovY)
	}
	if _, err := c.Orientation(); err != nil {
		return err
	}
	if _, err := c.Parity(); err != nil {
		return err
	}
	if _, err := c.Anim(); err != nil {
		return err
	}
	return nil
}

func (c *Config) Orientation() (hex.Orientation, error) {
	switch strings.ToLower(c.Grid.Orientation) {
	case "", "pointy", "pointy-top":
		return hex.PointyTop, nil
	case "flat", "flat-top":
		return hex.FlatTop, nil
	}
	return 0, fmt.Errorf("grid.orientation: unknown value %q", c.Grid.Orientation)
}

func (c *Config) Parity() (hex.Parity, error) {
	switch strings.ToLower(c.Grid.Parity) {
	case "", "odd":
		return hex.OddShift, nil
	case "even":
		return hex.EvenShift, nil
	}
	return 0, fmt.Errorf("grid.parity: unknown value %q", c.Grid.Parity)
}

// Anim converts the animation sections into compositor settings.
func (c *Config) Anim() (anim.Config, error) {
	out := anim.Config{Ambient: anim.AmbientConfig(c.Ambient)}

	easing, ok := anim.EasingByName(c.Intro.Easing)
	if !ok {
		return out, fmt.Errorf("intro.easing: unknown curve %q", c.Intro.Easing)
	}
	out.Intro = anim.IntroConfig{
		Enabled:        c.Intro.Enabled,
		Duration:       c.Intro.Duration,
		Elevation:      c.Intro.Elevation,
		IndexThreshold: c.Intro.IndexThreshold,
		BaseRate:       c.Intro.BaseRate,
		Mod3Rate:       c.Intro.Mod3Rate,
		Mod5Rate:       c.Intro.Mod5Rate,
		Mod7Rate:       c.Intro.Mod7Rate,
		Easing:         easing,
	}

	var err error
	h := anim.HitConfig{
		Lift:         c.Hit.Lift,
		ColorBlend:   c.Hit.ColorBlend,
		OutsideDecay: c.Hit.OutsideDecay,
	}
	if h.SaturatedColor, err = ParseColor(c.Hit.SaturatedColor); err != nil {
		return out, fmt.Errorf("hit.saturated_color: %w", err)
	}
	if h.NeutralColor, err = ParseColor(c.Hit.NeutralColor); err != nil {
		return out, fmt.Errorf("hit.neutral_color: %w", err)
	}
	for i, b := range c.Hit.Bands {
		var col mgl32.Vec4
		if col, err = ParseColor(b.Color); err != nil {
			return out, fmt.Errorf("hit.bands[%d].color: %w", i, err)
		}
		if b.Floor > b.Peak {
			return out, fmt.Errorf("hit.bands[%d]: floor %.2f above peak %.2f", i, b.Floor, b.Peak)
		}
		h.Bands = append(h.Bands, anim.HitBand{
			MaxLevel: b.MaxLevel,
			Peak:     b.Peak,
			Floor:    b.Floor,
			Decay:    b.Decay,
			Color:    col,
		})
	}
	out.Hit = h
	return out, nil
}
