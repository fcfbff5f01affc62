package config

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/colornames"
)

// ParseColor accepts an SVG color name or #rrggbb / #rrggbbaa.
func ParseColor(s string) (mgl32.Vec4, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return mgl32.Vec4{}, fmt.Errorf("empty color")
	}
	if !strings.HasPrefix(s, "#") {
		c, ok := colornames.Map[s]
		if !ok {
			return mgl32.Vec4{}, fmt.Errorf("unknown color name %q", s)
		}
		return mgl32.Vec4{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255}, nil
	}

	raw, err := hex.DecodeString(s[1:])
	if err != nil || (len(raw) != 3 && len(raw) != 4) {
		return mgl32.Vec4{}, fmt.Errorf("bad hex color %q", s)
	}
	out := mgl32.Vec4{1, 1, 1, 1}
	for i, b := range raw {
		out[i] = float32(b) / 255
	}
	return out, nil
}
