package hexfield

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockResource1 struct {
	name string
}
type MockResource2 struct {
	name string
}

func NewMockResource1(name string) *MockResource1 {
	return &MockResource1{name: name}
}
func NewMockResource2(name string) *MockResource2 {
	return &MockResource2{name: name}
}

func TestApp_addResources(t *testing.T) {
	app := newApp()

	resource1 := NewMockResource1("Resource1")
	app.addResources(resource1)
	assert.Contains(t, app.resources, reflect.TypeOf(resource1).Elem(), "Resource1 should be in resources map.")

	// Expect panic when trying to add the same type of resource again
	require.PanicsWithValue(t, fmt.Sprintf("%s is already in resources", reflect.TypeOf(resource1)), func() {
		app.addResources(resource1)
	})

	resource2 := NewMockResource2("Resource2")
	app.addResources(resource2)
	assert.Contains(t, app.resources, reflect.TypeOf(resource2).Elem(), "Resource2 should be in resources map.")

	got, ok := Resource[MockResource2](app)
	require.True(t, ok)
	assert.Same(t, resource2, got)

	require.Panics(t, func() { app.addResources(MockResource1{}) }, "resources must be pointers")
}

type traceResource struct {
	calls []string
}

func TestApp_SystemsRunInStageOrder(t *testing.T) {
	app := newApp()
	trace := &traceResource{}
	app.addResources(trace)

	app.UseSystem(System(func(tr *traceResource) { tr.calls = append(tr.calls, "render") }).InStage(Render))
	app.UseSystem(System(func(tr *traceResource) { tr.calls = append(tr.calls, "update") }))
	app.UseSystem(System(func(tr *traceResource) { tr.calls = append(tr.calls, "prelude") }).InStage(Prelude))
	app.UseSystem(System(func(tr *traceResource) { tr.calls = append(tr.calls, "update2") }))

	app.Step()
	assert.Equal(t, []string{"prelude", "update", "update2", "render"}, trace.calls)
	assert.Equal(t, uint64(1), app.Frames())
}

func TestApp_UseStage(t *testing.T) {
	app := newApp()
	custom := Stage{Name: "Physics"}
	app.UseStage(custom, AfterStage(Update))
	assert.Equal(t, []string{"Prelude", "PreUpdate", "Update", "Physics", "PostUpdate",
		"PreRender", "Render", "PostRender", "Finale"}, app.Stages())

	assert.Panics(t, func() { app.UseStage(custom, BeforeStage(Render)) })
	assert.Panics(t, func() { app.UseStage(Stage{Name: "X"}, BeforeStage(Stage{Name: "Nope"})) })
	assert.Panics(t, func() { app.UseSystem(System(func() {}).InStage(Stage{Name: "Nope"})) })
}

func TestApp_UnresolvedDependencyPanics(t *testing.T) {
	app := newApp()
	app.UseSystem(System(func(r *MockResource1) {}))
	assert.Panics(t, app.Step)
}

func TestApp_RunUntilStopped(t *testing.T) {
	app := newApp()
	counter := &MockResource1{}
	app.addResources(counter)
	frames := 0
	app.UseSystem(System(func(r *MockResource1, cmd *Commands) {
		frames++
		if frames == 5 {
			cmd.Stop()
		}
	}))

	app.Run()
	assert.Equal(t, 5, frames)
	assert.True(t, app.Stopped())
}

func TestApp_ProfilerTimesSystems(t *testing.T) {
	app := newApp()
	p := NewProfiler()
	app.addResources(p)
	app.UseSystem(System(timedSystem))
	app.Step()

	require.Len(t, p.Order, 1)
	assert.Contains(t, p.Order[0], "timedSystem")
	assert.Contains(t, p.GetStatsString(), "timedSystem")
}

func timedSystem() {}
