package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"runtime"

	"github.com/gekko3d/hexfield"
	"github.com/gekko3d/hexfield/hexrt/rt/config"
	"github.com/gekko3d/hexfield/hexrt/rt/hit"
	"github.com/gekko3d/hexfield/hexrt/rt/layout"
	"github.com/go-gl/mathgl/mgl32"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "Path to a TOML config (defaults to $"+config.EnvVar+")")
	debug := flag.Bool("debug", false, "Log at debug level and print profiler reports")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *debug {
		cfg.Logging.Level = "debug"
	}

	var overrides *config.OverrideTable
	if cfg.Override.Table != "" {
		if overrides, err = config.LoadOverrideTable(cfg.Override.Table); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	orientation, _ := cfg.Orientation()
	fov := mgl32.DegToRad(float32(cfg.Camera.FovY))
	camera := &hit.PerspectiveCamera{
		Eye:    mgl32.Vec3{float32(cfg.Camera.OffsetX), float32(cfg.Camera.OffsetY), float32(cfg.Camera.Distance)},
		Target: mgl32.Vec3{0, 0, 0},
		Up:     mgl32.Vec3{0, 1, 0},
		FovY:   fov,
		Near:   0.1,
		Far:    float32(cfg.Camera.Distance) * 4,
	}
	worldHeight := 2 * cfg.Camera.Distance * math.Tan(float64(fov)/2)

	app := hexfield.NewAppBuilder().
		UseModule(
			hexfield.LoggingModule{Prefix: "hexfield", Level: cfg.Logging.Level, Format: cfg.Logging.Format},
			hexfield.TimeModule{},
			hexfield.ProfilerModule{LogEvery: profilerEvery(*debug)},
			hexfield.ViewportModule{
				Width:       cfg.Window.Width,
				Height:      cfg.Window.Height,
				WorldHeight: worldHeight,
				OffAxis: layout.OffAxis{
					X:        cfg.Camera.OffsetX,
					Y:        cfg.Camera.OffsetY,
					Distance: cfg.Camera.Distance,
				},
			},
			hexfield.NewPlatformWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title),
			hexfield.InputModule{},
			hexfield.GpuModule{Orientation: orientation},
			hexfield.HexGridModule{Config: cfg, Overrides: overrides, Camera: camera},
			demoModule{menuContext: menuContext(cfg, overrides)},
		).
		Build()

	app.Run()

	if ws, ok := hexfield.Resource[hexfield.WindowState](app); ok {
		if g, ok := hexfield.Resource[hexfield.GpuState](app); ok {
			g.Release()
		}
		ws.Destroy()
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadFromEnv()
}

func profilerEvery(debug bool) uint64 {
	if debug {
		return 300
	}
	return 0
}

// menuContext picks the override context toggled with M.
func menuContext(cfg *config.Config, overrides *config.OverrideTable) string {
	if cfg.Override.Context != "" {
		return cfg.Override.Context
	}
	if names := overrides.Names(); len(names) > 0 {
		return names[0]
	}
	return ""
}

type demoModule struct {
	menuContext string
}

type demoState struct {
	menuContext string
}

func (m demoModule) Install(app *hexfield.App, cmd *hexfield.Commands) {
	cmd.AddResources(&demoState{menuContext: m.menuContext})
	cmd.UseSystem(hexfield.System(demoKeysSystem).InStage(hexfield.PreUpdate))
	cmd.UseSystem(hexfield.System(demoBoundsSystem).InStage(hexfield.PreRender))
}

// O outlines the hit-test boxes.
func demoBoundsSystem(input *hexfield.Input, g *hexfield.GpuState) {
	if input.JustPressed[hexfield.KeyO] {
		g.SetShowBounds(!g.ShowBounds())
	}
}

func demoKeysSystem(input *hexfield.Input, session *hexfield.Session, state *demoState, cmd *hexfield.Commands) {
	if input.JustPressed[hexfield.KeyM] && state.menuContext != "" {
		next := state.menuContext
		if session.OverrideContext() == next {
			next = ""
		}
		session.SetOverrideContext(next)
		cmd.Logger().Infof("override context: %q", next)
	}
	if input.JustPressed[hexfield.KeyF3] {
		logger := cmd.Logger()
		logger.SetDebug(!logger.DebugEnabled())
	}
}
