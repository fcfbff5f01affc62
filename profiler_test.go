package hexfield

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProfilerScopes(t *testing.T) {
	p := NewProfiler()
	p.BeginScope("github.com/gekko3d/hexfield.hexAnimationSystem")
	time.Sleep(time.Millisecond)
	p.EndScope("github.com/gekko3d/hexfield.hexAnimationSystem")
	p.BeginScope("other")
	p.EndScope("other")

	assert.Equal(t, []string{"hexfield.hexAnimationSystem", "other"}, p.Order)
	assert.GreaterOrEqual(t, p.Scopes["hexfield.hexAnimationSystem"], time.Millisecond)
	assert.GreaterOrEqual(t, p.Total(), time.Millisecond)

	p.SetCount("instances", 42)
	out := p.GetStatsString()
	assert.Contains(t, out, "hexfield.hexAnimationSystem")
	assert.Contains(t, out, "instances")

	p.Reset()
	assert.Equal(t, time.Duration(0), p.Total())
	assert.Len(t, p.Order, 2)
}

func TestProfilerModuleReportInstallsClock(t *testing.T) {
	app := NewAppBuilder().UseModule(ProfilerModule{LogEvery: 2}).Build()
	_, ok := Resource[Clock](app)
	assert.True(t, ok)
	app.Step()
	app.Step()
	clock, _ := Resource[Clock](app)
	assert.Equal(t, uint64(2), clock.Frame)
}
