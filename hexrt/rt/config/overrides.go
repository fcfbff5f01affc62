package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/gekko3d/hexfield/hexrt/rt/anim"
	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

type overrideFile struct {
	Contexts []overrideContext `yaml:"contexts"`
}

type overrideContext struct {
	Name  string          `yaml:"name"`
	Cells []overrideEntry `yaml:"cells"`
}

type overrideEntry struct {
	Index    int        `yaml:"index"`
	Offset   [3]float32 `yaml:"offset"`
	Strength float32    `yaml:"strength"`
}

// OverrideTable holds the pinned instances for each named layout context,
// for example the cells lifted behind an open menu.
type OverrideTable struct {
	contexts map[string]map[int]anim.Override
}

// LoadOverrideTable loads override contexts from a YAML file.
func LoadOverrideTable(path string) (*OverrideTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read override table: %w", err)
	}
	t, err := ParseOverrideTable(raw)
	if err != nil {
		return nil, fmt.Errorf("parse override table: %w", err)
	}
	return t, nil
}

func ParseOverrideTable(raw []byte) (*OverrideTable, error) {
	var f overrideFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	t := &OverrideTable{contexts: make(map[string]map[int]anim.Override, len(f.Contexts))}
	for _, ctx := range f.Contexts {
		if ctx.Name == "" {
			return nil, fmt.Errorf("override context without a name")
		}
		if _, dup := t.contexts[ctx.Name]; dup {
			return nil, fmt.Errorf("override context %q defined twice", ctx.Name)
		}
		cells := make(map[int]anim.Override, len(ctx.Cells))
		for _, c := range ctx.Cells {
			if c.Index < 0 {
				return nil, fmt.Errorf("override context %q: negative index %d", ctx.Name, c.Index)
			}
			cells[c.Index] = anim.Override{Offset: mgl32.Vec3(c.Offset), Strength: c.Strength}
		}
		t.contexts[ctx.Name] = cells
	}
	return t, nil
}

// Get returns the overrides for a context, or nil if none defined.
func (t *OverrideTable) Get(name string) map[int]anim.Override {
	if t == nil {
		return nil
	}
	return t.contexts[name]
}

func (t *OverrideTable) Has(name string) bool {
	if t == nil {
		return false
	}
	_, ok := t.contexts[name]
	return ok
}

// Names lists the contexts in sorted order.
func (t *OverrideTable) Names() []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, len(t.contexts))
	for name := range t.contexts {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (t *OverrideTable) Count() int {
	if t == nil {
		return 0
	}
	return len(t.contexts)
}
