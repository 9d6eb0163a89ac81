package entity

import (
	"fmt"
	"sort"
	"strings"

	"github.com/milk9111/spaceout/ecs"
	"github.com/milk9111/spaceout/prefabs"
)

// BuildContext carries what earlier builds produced so later ones can
// refer to them before the registry commits.
type BuildContext struct {
	built map[string]ecs.Entity
}

func NewBuildContext() *BuildContext {
	return &BuildContext{built: make(map[string]ecs.Entity)}
}

// Lookup finds an entity built earlier under name, then falls back to the
// world registry.
func (ctx *BuildContext) Lookup(w *ecs.World, name string) (ecs.Entity, bool) {
	if ctx != nil {
		if e, ok := ctx.built[strings.ToLower(name)]; ok {
			return e, true
		}
	}
	return w.Registry().LookupByType(name)
}

func (ctx *BuildContext) remember(name string, e ecs.Entity) {
	if ctx == nil {
		return
	}
	ctx.built[strings.ToLower(name)] = e
}

type buildFn func(w *ecs.World, override any, ctx *BuildContext) (ecs.Entity, error)

var prefabRegistry = map[string]buildFn{
	"player":         buildPlayer,
	"camera":         buildCamera,
	"sun":            buildSun,
	"debris":         buildDebris,
	"asteroid_field": buildField,
}

// Prefabs lists the names Build accepts.
func Prefabs() []string {
	names := make([]string, 0, len(prefabRegistry))
	for name := range prefabRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build loads the named prefab, overlays override on it and registers the
// result with the world. override may be nil or any value that encodes to
// a mapping of prefab fields.
func Build(w *ecs.World, prefab string, override any, ctx *BuildContext) (ecs.Entity, error) {
	if w == nil {
		return nil, fmt.Errorf("build entity: world is nil")
	}
	builder, ok := prefabRegistry[prefab]
	if !ok {
		return nil, fmt.Errorf("build entity: %w: %s", prefabs.ErrUnknownPrefab, prefab)
	}
	e, err := builder(w, override, ctx)
	if err != nil {
		return nil, fmt.Errorf("build entity: %s: %w", prefab, err)
	}
	ctx.remember(prefab, e)
	return e, nil
}

func loadWithOverride[T any](load func() (*T, error), override any) (*T, error) {
	spec, err := load()
	if err != nil {
		return nil, err
	}
	if err := prefabs.DecodeInto(override, spec); err != nil {
		return nil, err
	}
	return spec, nil
}

func buildPlayer(w *ecs.World, override any, _ *BuildContext) (ecs.Entity, error) {
	spec, err := loadWithOverride(prefabs.LoadPlayerSpec, override)
	if err != nil {
		return nil, err
	}
	p := NewPlayerFromSpec(w, spec)
	w.Registry().RegisterDynamic(p)
	return p, nil
}

func buildCamera(w *ecs.World, override any, ctx *BuildContext) (ecs.Entity, error) {
	spec, err := loadWithOverride(prefabs.LoadCameraSpec, override)
	if err != nil {
		return nil, err
	}
	c := NewCameraFromSpec(spec)
	if spec.Target != "" {
		target, ok := ctx.Lookup(w, spec.Target)
		if !ok {
			return nil, fmt.Errorf("camera target %q not found", spec.Target)
		}
		c.Follow(target)
	}
	w.Registry().RegisterPassive(c)
	return c, nil
}

func buildSun(w *ecs.World, override any, _ *BuildContext) (ecs.Entity, error) {
	spec, err := loadWithOverride(prefabs.LoadSunSpec, override)
	if err != nil {
		return nil, err
	}
	s := NewSunFromSpec(spec)
	w.Registry().RegisterLight(s)
	return s, nil
}

func buildDebris(w *ecs.World, override any, ctx *BuildContext) (ecs.Entity, error) {
	spec, err := loadWithOverride(prefabs.LoadDebrisSpec, override)
	if err != nil {
		return nil, err
	}
	var anchor ecs.Entity
	if c, ok := ctx.Lookup(w, "camera"); ok {
		anchor = c
	} else if p, ok := ctx.Lookup(w, "player"); ok {
		anchor = p
	}
	d := NewDebrisFromSpec(spec, anchor)
	w.Registry().RegisterPassive(d)
	return d, nil
}

func buildField(w *ecs.World, override any, _ *BuildContext) (ecs.Entity, error) {
	spec, err := loadWithOverride(prefabs.LoadFieldSpec, override)
	if err != nil {
		return nil, err
	}
	asteroid, err := prefabs.LoadAsteroidSpec()
	if err != nil {
		return nil, err
	}
	diamond, err := prefabs.LoadDiamondSpec()
	if err != nil {
		return nil, err
	}

	f := NewAsteroidField(w, spec, asteroid)
	f.SetLootSpec(diamond)
	w.Registry().RegisterPassive(f)
	return f, nil
}
