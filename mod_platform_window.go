package hexfield

import (
	"reflect"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// WindowState is the shared GLFW window.
type WindowState struct {
	windowGlfw *glfw.Window

	WindowWidth       int
	WindowHeight      int
	FramebufferWidth  int
	FramebufferHeight int
	windowTitle       string
}

func createWindowState(windowWidth int, windowHeight int, windowTitle string) *WindowState {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		panic(err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // no OpenGL context, wgpu owns the surface
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(windowWidth, windowHeight, windowTitle, nil, nil)
	if err != nil {
		panic(err)
	}

	fbw, fbh := win.GetFramebufferSize()
	return &WindowState{
		windowGlfw:        win,
		WindowWidth:       windowWidth,
		WindowHeight:      windowHeight,
		FramebufferWidth:  fbw,
		FramebufferHeight: fbh,
		windowTitle:       windowTitle,
	}
}

func (s *WindowState) ShouldClose() bool {
	return s.windowGlfw.ShouldClose()
}

func (s *WindowState) Destroy() {
	s.windowGlfw.Destroy()
	glfw.Terminate()
}

// PlatformWindowModule ensures a single shared GLFW window (WindowState) is
// created and wires its cursor and framebuffer callbacks to the pointer
// queue and the viewport.
type PlatformWindowModule struct {
	Width  int
	Height int
	Title  string
}

// NewPlatformWindow creates a module that provides a shared WindowState resource.
// If Width/Height are zero, sensible defaults are used.
func NewPlatformWindow(width, height int, title string) *PlatformWindowModule {
	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 720
	}
	if title == "" {
		title = "hexfield"
	}
	return &PlatformWindowModule{
		Width:  width,
		Height: height,
		Title:  title,
	}
}

// Install provides the WindowState resource if missing.
func (m PlatformWindowModule) Install(app *App, cmd *Commands) {
	if app.hasResource(reflect.TypeOf(WindowState{})) {
		return
	}

	ws := createWindowState(m.Width, m.Height, m.Title)
	app.addResources(ws)

	viewport, ok := Resource[Viewport](app)
	if !ok {
		viewport = &Viewport{WorldHeight: DefaultWorldHeight}
		app.addResources(viewport)
	}
	viewport.Width, viewport.Height = ws.FramebufferWidth, ws.FramebufferHeight

	events, ok := Resource[PointerEvents](app)
	if !ok {
		events = &PointerEvents{}
		app.addResources(events)
	}

	ws.windowGlfw.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		ws.FramebufferWidth, ws.FramebufferHeight = width, height
		viewport.Width, viewport.Height = width, height
	})
	ws.windowGlfw.SetSizeCallback(func(w *glfw.Window, width, height int) {
		ws.WindowWidth, ws.WindowHeight = width, height
	})
	// Cursor positions arrive in window coordinates.
	ws.windowGlfw.SetCursorPosCallback(func(w *glfw.Window, x, y float64) {
		events.Push(PointerEvent{
			X:              x,
			Y:              y,
			ViewportWidth:  float64(ws.WindowWidth),
			ViewportHeight: float64(ws.WindowHeight),
		})
	})

	app.Logger().Infof("window %q %dx%d (framebuffer %dx%d)",
		m.Title, m.Width, m.Height, ws.FramebufferWidth, ws.FramebufferHeight)
}
