package hexfield

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	KeyEscape int = iota
	KeySpace
	KeyM
	KeyO
	KeyF3
	Key1
	Key2
	Key3
	keyCount
)

type InputModule struct{}

// Input holds key states sampled once per frame.
type Input struct {
	Pressed      [keyCount]bool
	JustPressed  [keyCount]bool
	JustReleased [keyCount]bool
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Input{})
	cmd.UseSystem(
		System(inputSystem).
			InStage(Prelude),
	)
}

// inputSystem polls window events, so cursor callbacks fill the pointer
// queue before PreUpdate. Closing the window or pressing Escape stops the app.
func inputSystem(s *WindowState, input *Input, cmd *Commands) {
	glfw.PollEvents()

	for key, glfwKey := range keyToGlfw {
		action := s.windowGlfw.GetKey(glfwKey)
		input.update(key, glfw.Press == action)
	}

	if s.ShouldClose() || input.JustPressed[KeyEscape] {
		cmd.Stop()
	}
}

func (input *Input) update(key int, down bool) {
	input.JustPressed[key] = down && !input.Pressed[key]
	input.JustReleased[key] = !down && input.Pressed[key]
	input.Pressed[key] = down
}

var keyToGlfw = map[int]glfw.Key{
	KeyEscape: glfw.KeyEscape,
	KeySpace:  glfw.KeySpace,
	KeyM:      glfw.KeyM,
	KeyO:      glfw.KeyO,
	KeyF3:     glfw.KeyF3,
	Key1:      glfw.Key1,
	Key2:      glfw.Key2,
	Key3:      glfw.Key3,
}
