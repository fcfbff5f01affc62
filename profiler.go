package hexfield

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"
)

// Profiler keeps the last duration of every system scope and named
// counters set by systems.
type Profiler struct {
	Scopes     map[string]time.Duration
	StartTimes map[string]time.Time
	Counts     map[string]int
	Order      []string
}

func NewProfiler() *Profiler {
	return &Profiler{
		Scopes:     make(map[string]time.Duration),
		StartTimes: make(map[string]time.Time),
		Counts:     make(map[string]int),
		Order:      make([]string, 0),
	}
}

func (p *Profiler) BeginScope(name string) {
	name = shortScope(name)
	p.StartTimes[name] = time.Now()
	if _, seen := p.Scopes[name]; !seen {
		p.Order = append(p.Order, name)
		p.Scopes[name] = 0
	}
}

func (p *Profiler) EndScope(name string) {
	name = shortScope(name)
	if start, ok := p.StartTimes[name]; ok {
		p.Scopes[name] = time.Since(start)
	}
}

// shortScope drops the import path from function names.
func shortScope(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}

func (p *Profiler) SetCount(name string, count int) {
	p.Counts[name] = count
}

func (p *Profiler) Reset() {
	for k := range p.Scopes {
		p.Scopes[k] = 0
	}
}

func (p *Profiler) Total() time.Duration {
	var total time.Duration
	for _, d := range p.Scopes {
		total += d
	}
	return total
}

func (p *Profiler) GetStatsString() string {
	var sb strings.Builder

	sb.WriteString("Timings (CPU):\n")
	for _, name := range p.Order {
		ms := float64(p.Scopes[name].Microseconds()) / 1000.0
		sb.WriteString(fmt.Sprintf("  %-32s: %.2f ms\n", name, ms))
	}

	sb.WriteString("\nStats:\n")
	keys := make([]string, 0, len(p.Counts))
	for k := range p.Counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("  %-32s: %d\n", k, p.Counts[k]))
	}

	return sb.String()
}

// ProfilerModule times every system and logs a report every LogEvery
// frames at debug level. Zero disables the report.
type ProfilerModule struct {
	LogEvery uint64
}

type profilerReport struct {
	every uint64
}

func (m ProfilerModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(NewProfiler())
	if m.LogEvery == 0 {
		return
	}
	if !app.hasResource(reflect.TypeOf(Clock{})) {
		TimeModule{}.Install(app, cmd)
	}
	cmd.AddResources(&profilerReport{every: m.LogEvery})
	cmd.UseSystem(System(profilerReportSystem).InStage(Finale))
}

func profilerReportSystem(p *Profiler, report *profilerReport, clock *Clock, cmd *Commands) {
	if clock.Frame == 0 || clock.Frame%report.every != 0 {
		return
	}
	logger := cmd.Logger()
	if logger.DebugEnabled() {
		logger.Debugf("frame %d (%.1f ms)\n%s", clock.Frame, float64(clock.Dt.Microseconds())/1000, p.GetStatsString())
	}
}
