package hexfield

import (
	"github.com/gekko3d/hexfield/hexrt/rt/anim"
	"github.com/gekko3d/hexfield/hexrt/rt/config"
	"github.com/gekko3d/hexfield/hexrt/rt/hex"
	"github.com/gekko3d/hexfield/hexrt/rt/hit"
	"github.com/gekko3d/hexfield/hexrt/rt/layout"
	"github.com/gekko3d/hexfield/hexrt/rt/pool"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// stampStep keeps consecutive trigger stamps strictly increasing when two
// regions arrive within one clock reading.
const stampStep = 1e-6

type SessionOptions struct {
	DesiredCount int
	Padding      float64
	Orientation  hex.Orientation
	Parity       hex.Parity
	Anim         anim.Config
	// Radius is the outermost ring of the pointer highlight.
	Radius      int
	ClearOnMiss bool
	// Camera defaults to an orthographic camera that frames the viewport.
	Camera    hit.Camera
	Overrides *config.OverrideTable
	Logger    Logger
}

// SessionOptionsFromConfig maps a loaded config onto session options.
func SessionOptionsFromConfig(cfg *config.Config) (SessionOptions, error) {
	o, err := cfg.Orientation()
	if err != nil {
		return SessionOptions{}, err
	}
	p, err := cfg.Parity()
	if err != nil {
		return SessionOptions{}, err
	}
	a, err := cfg.Anim()
	if err != nil {
		return SessionOptions{}, err
	}
	return SessionOptions{
		DesiredCount: cfg.Grid.DesiredCount,
		Padding:      cfg.Grid.Padding,
		Orientation:  o,
		Parity:       p,
		Anim:         a,
		Radius:       cfg.Hit.Radius,
		ClearOnMiss:  cfg.Hit.ClearOnMiss,
	}, nil
}

// SessionStats is refreshed every tick.
type SessionStats struct {
	Instances    int
	Written      int
	Dirty        int
	RegionCells  int
	LayoutHits   int
	LayoutMisses int
	Relayouts    int
}

// Session owns the grid state of one view: layout, instances, the
// animation compositor and the pointer hit cache. Nothing outside it holds
// hit or region state.
type Session struct {
	ID uuid.UUID

	DesiredCount int
	Orientation  hex.Orientation
	Parity       hex.Parity

	Pool       *pool.Pool
	Compositor *anim.Compositor
	Mapper     *hit.Mapper
	Stats      SessionStats

	layouts   *layout.Cache
	current   layout.Layout
	grid      hex.Grid
	placer    hex.Placer
	viewport  Viewport
	ortho     *hit.OrthoCamera
	overrides *config.OverrideTable
	context   string

	trigger    *anim.Trigger
	triggerGen uint64
	lastStamp  float64

	logger Logger
}

func NewSession(opts SessionOptions) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = NewNopLogger()
	}
	s := &Session{
		ID:           uuid.New(),
		DesiredCount: opts.DesiredCount,
		Orientation:  opts.Orientation,
		Parity:       opts.Parity,
		Pool:         pool.New(nil),
		Compositor:   anim.NewCompositor(opts.Anim),
		layouts:      layout.NewCache(opts.Padding),
		overrides:    opts.Overrides,
		logger:       logger,
	}
	if neutral := opts.Anim.Hit.NeutralColor; neutral != (mgl32.Vec4{}) {
		s.Pool.SetNeutral(pool.AnimationState{Color: neutral, LastHitTime: -1})
	}

	cam := opts.Camera
	if cam == nil {
		s.ortho = &hit.OrthoCamera{}
		cam = s.ortho
	}
	s.Mapper = hit.NewMapper(cam, opts.Radius)
	s.Mapper.ClearOnMiss = opts.ClearOnMiss
	return s
}

func (s *Session) Grid() hex.Grid {
	return s.grid
}

func (s *Session) Layout() layout.Layout {
	return s.current
}

func (s *Session) Viewport() Viewport {
	return s.viewport
}

// ApplyViewport recomputes the layout for v and, when it changed, resizes
// and repositions the pool before returning. It reports whether the grid
// geometry changed.
func (s *Session) ApplyViewport(v Viewport) bool {
	s.viewport = v
	s.fitCamera(v)

	w, h := v.WorldSize()
	l := s.layouts.Get(w, h, s.DesiredCount, s.Orientation)
	s.Stats.LayoutHits, s.Stats.LayoutMisses = s.layouts.Hits, s.layouts.Misses
	if l == s.current && s.Pool.Len() == l.InstanceCount {
		return false
	}

	s.current = l
	s.grid = l.Grid(s.Parity)
	s.placer = l.Placer(s.Parity)
	s.Pool.SetPlacement(s.placer)
	s.Pool.Resize(l.InstanceCount)
	s.Pool.Reposition()
	s.Mapper.SetGrid(s.grid, float32(l.InstanceSize), s.Pool)
	s.Stats.Relayouts++

	s.logger.Debugf("layout %dx%d size=%.3f instances=%d for %.2fx%.2f world units",
		l.Columns, l.Rows, l.InstanceSize, l.InstanceCount, w, h)
	return true
}

func (s *Session) fitCamera(v Viewport) {
	switch c := s.Mapper.Camera.(type) {
	case *hit.OrthoCamera:
		w, h := v.VisibleSize()
		c.HalfWidth, c.HalfHeight = float32(w/2), float32(h/2)
	case *hit.PerspectiveCamera:
		c.Aspect = float32(v.Aspect())
	}
}

// ViewProj is the camera matrix the renderer should use, if the camera
// provides one.
func (s *Session) ViewProj() (mgl32.Mat4, bool) {
	if vp, ok := s.Mapper.Camera.(interface{ ViewProj() mgl32.Mat4 }); ok {
		return vp.ViewProj(), true
	}
	return mgl32.Ident4(), false
}

// HandlePointer runs hit testing for one pointer move.
func (s *Session) HandlePointer(e PointerEvent) hit.Result {
	res := s.Mapper.Update(e.X, e.Y, e.ViewportWidth, e.ViewportHeight)
	if res.Changed {
		s.logger.Debugf("pointer %s hit index=%d", res.Kind, res.Index)
	}
	return res
}

// Trigger returns the hit trigger for the current region, rebuilding it
// with a fresh stamp when the mapper replaced the region.
func (s *Session) Trigger(elapsed float64) *anim.Trigger {
	region, gen := s.Mapper.Region()
	if gen != s.triggerGen {
		s.triggerGen = gen
		s.lastStamp = max(elapsed, s.lastStamp+stampStep)
		s.trigger = anim.NewTrigger(region, s.lastStamp)
	}
	return s.trigger
}

// Tick composes one animation frame at elapsed seconds and returns the
// number of instances written.
func (s *Session) Tick(elapsed float64) int {
	trig := s.Trigger(elapsed)
	written := s.Compositor.Tick(s.Pool, s.grid, elapsed, trig)

	s.Stats.Instances = s.Pool.Len()
	s.Stats.Written = written
	s.Stats.Dirty = len(s.Pool.DirtyIndices())
	s.Stats.RegionCells = trig.Len()
	return written
}

// SetOverrideContext switches the override set, for example when a menu
// opens. An empty name clears overrides. It reports whether the context
// is known.
func (s *Session) SetOverrideContext(name string) bool {
	s.context = name
	if name == "" {
		s.Compositor.SetOverrides(nil)
		return true
	}
	if !s.overrides.Has(name) {
		s.logger.Warnf("unknown override context %q", name)
		s.Compositor.SetOverrides(nil)
		return false
	}
	s.Compositor.SetOverrides(s.overrides.Get(name))
	return true
}

func (s *Session) OverrideContext() string {
	return s.context
}

func (s *Session) SetOverrideTable(t *config.OverrideTable) {
	s.overrides = t
	s.SetOverrideContext(s.context)
}
