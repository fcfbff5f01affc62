// Package gpu mirrors the instance pool and collision proxy into GPU storage
// buffers.
package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/hexfield/hexrt/rt/bvh"
	"github.com/gekko3d/hexfield/hexrt/rt/pool"
)

// Source is what the uploader reads each frame.
type Source interface {
	Instances() []pool.Instance
	DirtyIndices() []int
	NeedsRebuild() bool
	ClearDirty()
}

type BufferManager struct {
	Device *wgpu.Device

	CameraBuf    *wgpu.Buffer
	InstancesBuf *wgpu.Buffer
	BVHNodesBuf  *wgpu.Buffer
	// BVHNodeCount is how many nodes of BVHNodesBuf are current.
	BVHNodeCount int

	// Headroom in instances reserved on growth so small resizes reuse the buffer.
	Headroom int

	// Stats for the last upload.
	FullUploads    int
	PartialWrites  int
	BytesUploaded  int
	BufferRecreate int
}

func NewBufferManager(device *wgpu.Device) *BufferManager {
	return &BufferManager{Device: device, Headroom: 256}
}

// ensureBuffer grows buf when data does not fit and writes data at offset 0.
// It reports whether the buffer was recreated.
func (m *BufferManager) ensureBuffer(name string, buf **wgpu.Buffer, data []byte, usage wgpu.BufferUsage, headroom int) bool {
	neededSize := uint64(len(data) + headroom)
	if neededSize%4 != 0 {
		neededSize += 4 - (neededSize % 4)
	}
	if neededSize == 0 {
		neededSize = 4
	}

	current := *buf
	recreated := false
	if current == nil || current.GetSize() < neededSize {
		if current != nil {
			current.Release()
		}
		newBuf, err := m.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: name,
			Size:  neededSize,
			Usage: usage | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			panic(err)
		}
		*buf = newBuf
		recreated = true
		m.BufferRecreate++
	}
	if len(data) > 0 {
		m.Device.GetQueue().WriteBuffer(*buf, 0, data)
		m.BytesUploaded += len(data)
	}
	return recreated
}

// UploadInstances writes the pool into the instance buffer. A rebuild (or a
// recreated buffer) writes everything; otherwise only dirty runs are sent.
// It reports whether bind groups referencing the buffer must be rebuilt.
func (m *BufferManager) UploadInstances(src Source, size float32) bool {
	m.FullUploads, m.PartialWrites, m.BytesUploaded = 0, 0, 0
	defer src.ClearDirty()

	instances := src.Instances()
	if src.NeedsRebuild() || m.InstancesBuf == nil {
		m.FullUploads++
		return m.ensureBuffer("HexInstances", &m.InstancesBuf, PackInstances(instances, size),
			wgpu.BufferUsageStorage, m.Headroom*InstanceStride)
	}

	queue := m.Device.GetQueue()
	for _, r := range Coalesce(src.DirtyIndices()) {
		if r.First+r.Count > len(instances) {
			continue
		}
		data := PackInstances(instances[r.First:r.First+r.Count], size)
		queue.WriteBuffer(m.InstancesBuf, uint64(r.First*InstanceStride), data)
		m.PartialWrites++
		m.BytesUploaded += len(data)
	}
	return false
}

// UploadBVH replaces the collision proxy nodes read by the bounds pass.
func (m *BufferManager) UploadBVH(nodes []byte) bool {
	m.BVHNodeCount = len(nodes) / bvh.NodeSize
	return m.ensureBuffer("HexBVHNodes", &m.BVHNodesBuf, nodes, wgpu.BufferUsageStorage, 0)
}

func (m *BufferManager) UploadCamera(data []byte) bool {
	return m.ensureBuffer("HexCamera", &m.CameraBuf, data, wgpu.BufferUsageUniform, 0)
}

func (m *BufferManager) Release() {
	for _, b := range []**wgpu.Buffer{&m.CameraBuf, &m.InstancesBuf, &m.BVHNodesBuf} {
		if *b != nil {
			(*b).Release()
			*b = nil
		}
	}
}
