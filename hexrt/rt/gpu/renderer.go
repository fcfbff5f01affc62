package gpu

import (
	"fmt"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// VerticesPerHex covers six triangles fanned around the center.
const VerticesPerHex = 18

const hexShader = `
const CORNER_PHASE: f32 = PHASE;

struct Camera {
  view_proj: mat4x4<f32>,
  viewport: vec4<f32>,
};

struct HexInstance {
  position: vec4<f32>,
  offset: vec4<f32>,
  color: vec4<f32>,
};

@group(0) @binding(0) var<uniform> camera: Camera;
@group(0) @binding(1) var<storage, read> instances: array<HexInstance>;

struct VsOut {
  @builtin(position) clip: vec4<f32>,
  @location(0) color: vec4<f32>,
};

@vertex
fn vs_main(@builtin(vertex_index) vid: u32, @builtin(instance_index) iid: u32) -> VsOut {
  let inst = instances[iid];
  let tri = vid / 3u;
  let corner = vid % 3u;
  var local = vec2<f32>(0.0, 0.0);
  if (corner != 0u) {
    let k = f32(tri + corner - 1u);
    let a = radians(60.0 * k + CORNER_PHASE);
    local = vec2<f32>(cos(a), sin(a));
  }
  let size = inst.position.w;
  let world = vec3<f32>(inst.position.xy + local * size, inst.position.z) + inst.offset.xyz;
  var out: VsOut;
  out.clip = camera.view_proj * vec4<f32>(world, 1.0);
  let shade = 0.75 + 0.25 * inst.offset.w;
  out.color = vec4<f32>(inst.color.rgb * shade, inst.color.a);
  return out;
}

@fragment
fn fs_main(v: VsOut) -> @location(0) vec4<f32> {
  return v.color;
}
`

// boxEdges lists the 12 edges of a box as pairs of corner numbers. Bit 0 of
// a corner picks max x, bit 1 max y and bit 2 max z.
var boxEdges = [BoundsVerticesPerNode]uint32{
	0, 1, 2, 3, 4, 5, 6, 7, // along x
	0, 2, 1, 3, 4, 6, 5, 7, // along y
	0, 4, 1, 5, 2, 6, 3, 7, // along z
}

// BoundsVerticesPerNode is two line vertices for each box edge.
const BoundsVerticesPerNode = 24

// boundsShader outlines every node of the collision proxy. BVHNode follows
// bvh.NodeSize.
const boundsShader = `
struct Camera {
  view_proj: mat4x4<f32>,
  viewport: vec4<f32>,
};

struct BVHNode {
  aabb_min: vec4<f32>,
  aabb_max: vec4<f32>,
  left: i32,
  right: i32,
  leaf_first: i32,
  leaf_count: i32,
  pad: vec4<i32>,
};

@group(0) @binding(0) var<uniform> camera: Camera;
@group(0) @binding(1) var<storage, read> nodes: array<BVHNode>;

struct VsOut {
  @builtin(position) clip: vec4<f32>,
  @location(0) color: vec4<f32>,
};

@vertex
fn vs_main(@builtin(vertex_index) vid: u32, @builtin(instance_index) iid: u32) -> VsOut {
  var edges = array<u32, 24>(EDGES);
  let node = nodes[iid];
  let corner = edges[vid];
  let p = select(node.aabb_min.xyz, node.aabb_max.xyz, vec3<bool>((corner & 1u) != 0u, (corner & 2u) != 0u, (corner & 4u) != 0u));
  var out: VsOut;
  out.clip = camera.view_proj * vec4<f32>(p, 1.0);
  if (node.left < 0 && node.right < 0) {
    out.color = vec4<f32>(1.0, 0.85, 0.2, 0.9);
  } else {
    out.color = vec4<f32>(0.2, 0.8, 1.0, 0.35);
  }
  return out;
}

@fragment
fn fs_main(v: VsOut) -> @location(0) vec4<f32> {
  return v.color;
}
`

func boundsShaderCode() string {
	parts := make([]string, len(boxEdges))
	for i, c := range boxEdges {
		parts[i] = fmt.Sprintf("%du", c)
	}
	return strings.Replace(boundsShader, "EDGES", strings.Join(parts, ", "), 1)
}

// HexRenderer draws every instance as a flat hexagon. With ShowBounds set it
// also outlines the collision proxy boxes uploaded by the buffer manager.
type HexRenderer struct {
	Device         *wgpu.Device
	Pipeline       *wgpu.RenderPipeline
	BoundsPipeline *wgpu.RenderPipeline
	// FlatTop rotates the corners by 30 degrees.
	FlatTop    bool
	ShowBounds bool

	bindGroup   *wgpu.BindGroup
	boundCamera *wgpu.Buffer
	boundInst   *wgpu.Buffer

	boundsGroup  *wgpu.BindGroup
	boundsCamera *wgpu.Buffer
	boundsNodes  *wgpu.Buffer
}

func NewHexRenderer(device *wgpu.Device, format wgpu.TextureFormat, flatTop bool) (*HexRenderer, error) {
	// Pointy-top corners start at 30 degrees, flat-top at 0.
	phase := "30.0"
	if flatTop {
		phase = "0.0"
	}
	code := strings.Replace(hexShader, "PHASE;", phase+";", 1)
	pipeline, err := newPipeline(device, format, "Hex", code, wgpu.PrimitiveTopologyTriangleList)
	if err != nil {
		return nil, err
	}
	bounds, err := newPipeline(device, format, "HexBounds", boundsShaderCode(), wgpu.PrimitiveTopologyLineList)
	if err != nil {
		pipeline.Release()
		return nil, err
	}
	return &HexRenderer{Device: device, Pipeline: pipeline, BoundsPipeline: bounds, FlatTop: flatTop}, nil
}

func newPipeline(device *wgpu.Device, format wgpu.TextureFormat, label, code string, topology wgpu.PrimitiveTopology) (*wgpu.RenderPipeline, error) {
	shader, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          label + "Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: code},
	})
	if err != nil {
		return nil, fmt.Errorf("%s shader: %w", label, err)
	}
	defer shader.Release()

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: label + "Pipeline",
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format: format,
				Blend: &wgpu.BlendState{
					Color: wgpu.BlendComponent{
						Operation: wgpu.BlendOperationAdd,
						SrcFactor: wgpu.BlendFactorSrcAlpha,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
					},
					Alpha: wgpu.BlendComponent{
						Operation: wgpu.BlendOperationAdd,
						SrcFactor: wgpu.BlendFactorOne,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
					},
				},
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  topology,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%s pipeline: %w", label, err)
	}
	return pipeline, nil
}

// bind rebuilds the bind group when either buffer was recreated.
func (r *HexRenderer) bind(m *BufferManager) error {
	if r.bindGroup != nil && r.boundCamera == m.CameraBuf && r.boundInst == m.InstancesBuf {
		return nil
	}
	if r.bindGroup != nil {
		r.bindGroup.Release()
	}
	bg, err := r.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "HexBG",
		Layout: r.Pipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: m.CameraBuf, Size: CameraSize},
			{Binding: 1, Buffer: m.InstancesBuf, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return fmt.Errorf("hex bind group: %w", err)
	}
	r.bindGroup = bg
	r.boundCamera = m.CameraBuf
	r.boundInst = m.InstancesBuf
	return nil
}

func (r *HexRenderer) bindBounds(m *BufferManager) error {
	if r.boundsGroup != nil && r.boundsCamera == m.CameraBuf && r.boundsNodes == m.BVHNodesBuf {
		return nil
	}
	if r.boundsGroup != nil {
		r.boundsGroup.Release()
	}
	bg, err := r.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "HexBoundsBG",
		Layout: r.BoundsPipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: m.CameraBuf, Size: CameraSize},
			{Binding: 1, Buffer: m.BVHNodesBuf, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return fmt.Errorf("bounds bind group: %w", err)
	}
	r.boundsGroup = bg
	r.boundsCamera = m.CameraBuf
	r.boundsNodes = m.BVHNodesBuf
	return nil
}

func (r *HexRenderer) drawBounds(m *BufferManager) bool {
	return r.ShowBounds && r.BoundsPipeline != nil && m.BVHNodesBuf != nil && m.BVHNodeCount > 0
}

// Draw records one clear-and-draw pass into view and submits it.
func (r *HexRenderer) Draw(m *BufferManager, view *wgpu.TextureView, count int, clear wgpu.Color) error {
	if m.CameraBuf == nil || m.InstancesBuf == nil {
		return nil
	}
	if err := r.bind(m); err != nil {
		return err
	}
	bounds := r.drawBounds(m)
	if bounds {
		if err := r.bindBounds(m); err != nil {
			return err
		}
	}

	encoder, err := r.Device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("command encoder: %w", err)
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: clear,
		}},
	})
	if count > 0 {
		pass.SetPipeline(r.Pipeline)
		pass.SetBindGroup(0, r.bindGroup, nil)
		pass.Draw(VerticesPerHex, uint32(count), 0, 0)
	}
	if bounds {
		pass.SetPipeline(r.BoundsPipeline)
		pass.SetBindGroup(0, r.boundsGroup, nil)
		pass.Draw(BoundsVerticesPerNode, uint32(m.BVHNodeCount), 0, 0)
	}
	if err := pass.End(); err != nil {
		return fmt.Errorf("render pass: %w", err)
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("encoder finish: %w", err)
	}
	m.Device.GetQueue().Submit(cmd)
	return nil
}

func (r *HexRenderer) Release() {
	for _, bg := range []**wgpu.BindGroup{&r.bindGroup, &r.boundsGroup} {
		if *bg != nil {
			(*bg).Release()
			*bg = nil
		}
	}
	for _, p := range []**wgpu.RenderPipeline{&r.Pipeline, &r.BoundsPipeline} {
		if *p != nil {
			(*p).Release()
			*p = nil
		}
	}
}
