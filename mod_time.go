package hexfield

import (
	"time"
)

// TimeSource supplies the current time. Tests swap in a manual source.
type TimeSource interface {
	Now() time.Time
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

// ManualTime is a TimeSource advanced explicitly.
type ManualTime struct {
	T time.Time
}

func (m *ManualTime) Now() time.Time { return m.T }

func (m *ManualTime) Advance(d time.Duration) {
	m.T = m.T.Add(d)
}

// Clock is the per-frame time resource. Elapsed is measured from Start and
// never decreases.
type Clock struct {
	Start   time.Time
	Now     time.Time
	Elapsed float64 // seconds
	Dt      time.Duration
	Frame   uint64

	source TimeSource
}

func NewClock(source TimeSource) *Clock {
	if source == nil {
		source = wallClock{}
	}
	now := source.Now()
	return &Clock{Start: now, Now: now, source: source}
}

// Advance samples the source once for a new frame.
func (c *Clock) Advance() {
	now := c.source.Now()
	if now.Before(c.Now) {
		now = c.Now
	}
	c.Dt = now.Sub(c.Now)
	c.Now = now
	c.Elapsed = now.Sub(c.Start).Seconds()
	c.Frame++
}

func (c *Clock) DtSeconds() float64 {
	return c.Dt.Seconds()
}

type TimeModule struct {
	Source TimeSource
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(NewClock(mod.Source))
	cmd.UseSystem(System(timeSystem).InStage(Prelude))
}

func timeSystem(clock *Clock) {
	clock.Advance()
}
