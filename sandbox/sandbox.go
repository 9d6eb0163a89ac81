package sandbox

import (
	"context"
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/spaceout/ecs"
	"github.com/milk9111/spaceout/ecs/entity"
	"github.com/milk9111/spaceout/prefabs"
	"go.uber.org/zap"
)

// Scene is what a sandbox script built.
type Scene struct {
	Player *entity.Player
	Camera *entity.Camera
	Sun    *entity.Sun
	Debris *entity.Debris
	Fields []*entity.AsteroidField
}

// Load runs the named script from the prefab scripts directory.
func Load(ctx context.Context, w *ecs.World, name string) (*Scene, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("sandbox: load %s: %w", name, err)
	}
	scene, err := Build(ctx, w, src)
	if err != nil {
		return nil, fmt.Errorf("sandbox: %s: %w", name, err)
	}
	return scene, nil
}

// Build runs src against w. The script composes the starting world with
// the builder functions sun, player, camera, debris and field; each takes
// an optional map that overrides fields of the matching prefab. Every
// entity is staged through the registry's pending path.
func Build(ctx context.Context, w *ecs.World, src []byte) (*Scene, error) {
	if w == nil {
		return nil, fmt.Errorf("world is nil")
	}
	b := &builder{
		world: w,
		scene: &Scene{},
		ctx:   entity.NewBuildContext(),
		log:   w.Logger().Named("sandbox"),
	}

	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	for name, fn := range b.functions() {
		if err := script.Add(name, fn); err != nil {
			return nil, fmt.Errorf("add %s: %w", name, err)
		}
	}

	if _, err := script.RunContext(ctx); err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}
	b.log.Info("sandbox built",
		zap.Bool("player", b.scene.Player != nil),
		zap.Int("fields", len(b.scene.Fields)),
		zap.Int("pending", w.Registry().PendingCount()))
	return b.scene, nil
}

type builder struct {
	world *ecs.World
	scene *Scene
	ctx   *entity.BuildContext
	log   *zap.Logger
}

func (b *builder) functions() map[string]*tengo.UserFunction {
	return map[string]*tengo.UserFunction{
		"sun":    b.prefabFunc("sun", "sun"),
		"player": b.prefabFunc("player", "player"),
		"camera": b.prefabFunc("camera", "camera"),
		"debris": b.prefabFunc("debris", "debris"),
		"field":  b.prefabFunc("field", "asteroid_field"),
	}
}

// prefabFunc exposes entity.Build for one prefab. The function returns
// the built entity's position as {x, y, z}.
func (b *builder) prefabFunc(name, prefab string) *tengo.UserFunction {
	return &tengo.UserFunction{Name: name, Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) > 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		var override any
		if len(args) == 1 && args[0] != tengo.UndefinedValue {
			switch args[0].(type) {
			case *tengo.Map, *tengo.ImmutableMap:
				override = tengo.ToInterface(args[0])
			default:
				return nil, tengo.ErrInvalidArgumentType{
					Name:     "override",
					Expected: "map",
					Found:    args[0].TypeName(),
				}
			}
		}

		e, err := entity.Build(b.world, prefab, override, b.ctx)
		if err != nil {
			return nil, err
		}
		b.record(e)
		b.log.Debug("built entity", zap.String("prefab", prefab), zap.String("type", e.Type()))
		return positionObject(e), nil
	}}
}

func (b *builder) record(e ecs.Entity) {
	switch v := e.(type) {
	case *entity.Player:
		b.scene.Player = v
	case *entity.Camera:
		b.scene.Camera = v
	case *entity.Sun:
		b.scene.Sun = v
	case *entity.Debris:
		b.scene.Debris = v
	case *entity.AsteroidField:
		b.scene.Fields = append(b.scene.Fields, v)
	}
}

func positionObject(e ecs.Entity) tengo.Object {
	p := e.Position()
	return &tengo.Map{Value: map[string]tengo.Object{
		"x": &tengo.Float{Value: float64(p.X())},
		"y": &tengo.Float{Value: float64(p.Y())},
		"z": &tengo.Float{Value: float64(p.Z())},
	}}
}
