package hexfield

import (
	"fmt"
	"reflect"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/gekko3d/hexfield/hexrt/rt/gpu"
	"github.com/gekko3d/hexfield/hexrt/rt/hex"
)

type GpuState struct {
	surface       *wgpu.Surface
	adapter       *wgpu.Adapter
	device        *wgpu.Device
	queue         *wgpu.Queue
	surfaceConfig *wgpu.SurfaceConfiguration

	Buffers    *gpu.BufferManager
	Renderer   *gpu.HexRenderer
	ClearColor wgpu.Color

	uploadedGen       uint64
	uploadedRelayouts int
}

func createGpuState(s *WindowState, orientation hex.Orientation) *GpuState {
	instance := wgpu.CreateInstance(nil)
	defer instance.Release()
	// wraps GLFW window into a wgpu surface.
	surface := instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(s.windowGlfw))
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		panic(err)
	}
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Hexfield Device",
	})
	if err != nil {
		panic(err)
	}
	queue := device.GetQueue()

	caps := surface.GetCapabilities(adapter)
	surfaceConfig := wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(max(s.FramebufferWidth, 1)),
		Height:      uint32(max(s.FramebufferHeight, 1)),
		PresentMode: wgpu.PresentModeFifo, // vsync
		AlphaMode:   caps.AlphaModes[0],
	}
	surface.Configure(adapter, device, &surfaceConfig)

	renderer, err := gpu.NewHexRenderer(device, surfaceConfig.Format, orientation == hex.FlatTop)
	if err != nil {
		panic(err)
	}

	return &GpuState{
		surface:       surface,
		adapter:       adapter,
		device:        device,
		queue:         queue,
		surfaceConfig: &surfaceConfig,
		Buffers:       gpu.NewBufferManager(device),
		Renderer:      renderer,
		ClearColor:    wgpu.Color{R: 0.05, G: 0.05, B: 0.08, A: 1},
	}
}

// ShowBounds reports whether the collision proxy outlines are drawn.
func (g *GpuState) ShowBounds() bool {
	return g.Renderer.ShowBounds
}

func (g *GpuState) SetShowBounds(show bool) {
	g.Renderer.ShowBounds = show
}

func (g *GpuState) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if g.surfaceConfig.Width == uint32(width) && g.surfaceConfig.Height == uint32(height) {
		return
	}
	g.surfaceConfig.Width = uint32(width)
	g.surfaceConfig.Height = uint32(height)
	g.surface.Configure(g.adapter, g.device, g.surfaceConfig)
}

func (g *GpuState) Release() {
	g.Renderer.Release()
	g.Buffers.Release()
	g.surface.Release()
	g.device.Release()
	g.adapter.Release()
}

// GpuModule creates the wgpu device on the shared window. Install it after
// PlatformWindowModule and before HexGridModule.
type GpuModule struct {
	Orientation hex.Orientation
}

func (m GpuModule) Install(app *App, cmd *Commands) {
	if app.hasResource(reflect.TypeOf(GpuState{})) {
		return
	}
	ws, ok := Resource[WindowState](app)
	if !ok {
		panic("GpuModule needs a WindowState; install PlatformWindowModule first")
	}
	app.addResources(createGpuState(ws, m.Orientation))
}

// hexRenderSystem mirrors the session into GPU buffers and draws a frame.
func hexRenderSystem(g *GpuState, session *Session, viewport *Viewport, cmd *Commands) {
	g.resize(viewport.Width, viewport.Height)

	viewProj, _ := session.ViewProj()
	g.Buffers.UploadCamera(gpu.PackCamera(viewProj, float32(viewport.Width), float32(viewport.Height)))
	g.Buffers.UploadInstances(session.Pool, float32(session.Layout().InstanceSize))

	if gen := session.Pool.Generation(); gen != g.uploadedGen || session.Stats.Relayouts != g.uploadedRelayouts {
		if tree := session.Mapper.Tree(); tree != nil {
			g.Buffers.UploadBVH(tree.Bytes())
		}
		g.uploadedGen = gen
		g.uploadedRelayouts = session.Stats.Relayouts
	}

	if err := g.present(session.Pool.Len()); err != nil {
		cmd.Logger().Errorf("render: %v", err)
	}
}

func (g *GpuState) present(count int) error {
	nextTexture, err := g.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("get current texture: %w", err)
	}
	defer nextTexture.Release()

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("create view: %w", err)
	}
	defer view.Release()

	if err := g.Renderer.Draw(g.Buffers, view, count, g.ClearColor); err != nil {
		return err
	}
	g.surface.Present()
	return nil
}
