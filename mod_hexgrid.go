package hexfield

import (
	"reflect"

	"github.com/gekko3d/hexfield/hexrt/rt/config"
	"github.com/gekko3d/hexfield/hexrt/rt/hit"
)

// DefaultWorldHeight frames this many world units vertically when no
// Viewport resource was provided.
const DefaultWorldHeight = 12

// HexGridModule installs a Session and the systems that drive it:
// layout and pointer handling in PreUpdate, animation in Update and, when
// a GpuState is present, upload and draw in Render.
type HexGridModule struct {
	Config    *config.Config
	Overrides *config.OverrideTable
	// Camera overrides the default orthographic camera.
	Camera hit.Camera
}

func (m HexGridModule) Install(app *App, cmd *Commands) {
	cfg := m.Config
	if cfg == nil {
		cfg = config.Defaults()
	}
	opts, err := SessionOptionsFromConfig(cfg)
	if err != nil {
		panic(err)
	}
	opts.Camera = m.Camera
	opts.Overrides = m.Overrides
	opts.Logger = app.Logger()

	session := NewSession(opts)
	if cfg.Override.Context != "" {
		session.SetOverrideContext(cfg.Override.Context)
	}
	cmd.AddResources(session)

	if !app.hasResource(reflect.TypeOf(Clock{})) {
		TimeModule{}.Install(app, cmd)
	}
	if !app.hasResource(reflect.TypeOf(Viewport{})) {
		cmd.AddResources(&Viewport{
			Width:       cfg.Window.Width,
			Height:      cfg.Window.Height,
			WorldHeight: DefaultWorldHeight,
		})
	}
	if !app.hasResource(reflect.TypeOf(PointerEvents{})) {
		cmd.AddResources(&PointerEvents{})
	}

	cmd.UseSystem(System(hexLayoutSystem).InStage(PreUpdate))
	cmd.UseSystem(System(hexPointerSystem).InStage(PreUpdate))
	cmd.UseSystem(System(hexAnimationSystem).InStage(Update))

	if app.hasResource(reflect.TypeOf(Profiler{})) {
		cmd.UseSystem(System(hexStatsSystem).InStage(PostUpdate))
	}
	if app.hasResource(reflect.TypeOf(GpuState{})) {
		cmd.UseSystem(System(hexRenderSystem).InStage(Render))
	}

	app.Logger().Infof("hex grid session %s: desired=%d orientation=%s parity=%s",
		session.ID, session.DesiredCount, session.Orientation, session.Parity)
}

func hexLayoutSystem(viewport *Viewport, session *Session) {
	session.ApplyViewport(*viewport)
}

// Only the latest move matters; hit testing is not needed for every
// intermediate position.
func hexPointerSystem(events *PointerEvents, session *Session) {
	if e, ok := events.Latest(); ok {
		session.HandlePointer(e)
	}
}

func hexAnimationSystem(clock *Clock, session *Session) {
	session.Tick(clock.Elapsed)
}

func hexStatsSystem(session *Session, profiler *Profiler) {
	st := session.Stats
	profiler.SetCount("instances", st.Instances)
	profiler.SetCount("written", st.Written)
	profiler.SetCount("dirty", st.Dirty)
	profiler.SetCount("region", st.RegionCells)
	profiler.SetCount("layout_hits", st.LayoutHits)
	profiler.SetCount("layout_misses", st.LayoutMisses)
	profiler.SetCount("relayouts", st.Relayouts)
}
