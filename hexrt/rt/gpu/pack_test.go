package gpu

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/gekko3d/hexfield/hexrt/rt/pool"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f32At(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

func TestPackInstancesLayout(t *testing.T) {
	insts := []pool.Instance{
		{Index: 0, Position: mgl32.Vec3{1, 2, 3}, Anim: pool.NeutralState()},
		{Index: 1, Position: mgl32.Vec3{4, 5, 6}, Anim: pool.AnimationState{
			Offset: mgl32.Vec4{0.1, 0.2, 0.3, 0.9},
			Color:  mgl32.Vec4{1, 0.5, 0, 1},
		}},
	}
	buf := PackInstances(insts, 0.75)
	require.Len(t, buf, 2*InstanceStride)

	assert.Equal(t, float32(1), f32At(buf, 0))
	assert.Equal(t, float32(3), f32At(buf, 8))
	assert.Equal(t, float32(0.75), f32At(buf, 12))
	assert.Equal(t, float32(1), f32At(buf, 32), "neutral color red")

	second := buf[InstanceStride:]
	assert.Equal(t, float32(4), f32At(second, 0))
	assert.Equal(t, float32(0.3), f32At(second, 24))
	assert.Equal(t, float32(0.9), f32At(second, 28))
	assert.Equal(t, float32(0.5), f32At(second, 36))
}

func TestCoalesce(t *testing.T) {
	assert.Nil(t, Coalesce(nil))
	assert.Equal(t, []DirtyRange{{First: 1, Count: 3}, {First: 7, Count: 1}, {First: 9, Count: 2}},
		Coalesce([]int{9, 2, 1, 7, 3, 10, 2}))
}

func TestPackCamera(t *testing.T) {
	buf := PackCamera(mgl32.Ident4(), 800, 600)
	require.Len(t, buf, CameraSize)
	assert.Equal(t, float32(1), f32At(buf, 0))
	assert.Equal(t, float32(0), f32At(buf, 4))
	assert.Equal(t, float32(1), f32At(buf, 60))
	assert.Equal(t, float32(800), f32At(buf, 64))
	assert.Equal(t, float32(600), f32At(buf, 68))
}
