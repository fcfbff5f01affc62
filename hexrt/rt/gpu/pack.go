package gpu

import (
	"encoding/binary"
	"math"
	"slices"

	"github.com/gekko3d/hexfield/hexrt/rt/pool"
	"github.com/go-gl/mathgl/mgl32"
)

// InstanceStride is the size of one instance record:
//
//	struct HexInstance {
//	  position: vec4<f32>; -- xyz, w = instance size
//	  offset:   vec4<f32>; -- dx, dy, dz, strength
//	  color:    vec4<f32>;
//	}
const InstanceStride = 48

// CameraSize holds view_proj followed by the viewport in pixels.
const CameraSize = 80

func putVec4(buf []byte, v mgl32.Vec4) {
	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v[i]))
	}
}

// PackInstance writes one record into buf, which must hold InstanceStride bytes.
func PackInstance(buf []byte, inst pool.Instance, size float32) {
	putVec4(buf[0:16], inst.Position.Vec4(size))
	putVec4(buf[16:32], inst.Anim.Offset)
	putVec4(buf[32:48], inst.Anim.Color)
}

// PackInstances packs every instance in slot order.
func PackInstances(instances []pool.Instance, size float32) []byte {
	buf := make([]byte, len(instances)*InstanceStride)
	for i, inst := range instances {
		PackInstance(buf[i*InstanceStride:], inst, size)
	}
	return buf
}

// DirtyRange is a contiguous run of changed instances.
type DirtyRange struct {
	First int
	Count int
}

// Coalesce groups dirty indices into contiguous runs, smallest index first.
func Coalesce(dirty []int) []DirtyRange {
	if len(dirty) == 0 {
		return nil
	}
	sorted := append([]int(nil), dirty...)
	slices.Sort(sorted)

	var out []DirtyRange
	cur := DirtyRange{First: sorted[0], Count: 1}
	for _, idx := range sorted[1:] {
		switch {
		case idx == cur.First+cur.Count-1:
			// duplicate
		case idx == cur.First+cur.Count:
			cur.Count++
		default:
			out = append(out, cur)
			cur = DirtyRange{First: idx, Count: 1}
		}
	}
	return append(out, cur)
}

func PackCamera(viewProj mgl32.Mat4, width, height float32) []byte {
	buf := make([]byte, CameraSize)
	for i, v := range viewProj {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	putVec4(buf[64:], mgl32.Vec4{width, height, 0, 0})
	return buf
}
