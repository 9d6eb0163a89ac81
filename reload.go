package main

import (
	"context"
	"errors"

	"github.com/milk9111/spaceout/ecs"
	"github.com/milk9111/spaceout/ecs/entity"
	"github.com/milk9111/spaceout/prefabs"
	"github.com/milk9111/spaceout/render"
	"github.com/milk9111/spaceout/sandbox"
	"go.uber.org/zap"
)

// watch forwards prefab edits to the tick goroutine until ctx is done or
// the watcher closes.
func (g *Game) watch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-g.watcher.Events:
			if !ok {
				return
			}
			g.reload(change)
		case err, ok := <-g.watcher.Errors:
			if !ok {
				return
			}
			g.log.Warn("prefab watcher error", zap.Error(err))
		}
	}
}

func (g *Game) reload(change prefabs.Change) {
	if change.Script {
		g.log.Info("sandbox script changed, restart to rebuild", zap.String("file", change.Name))
		return
	}

	spec, err := prefabs.Reload(change.Name)
	if errors.Is(err, prefabs.ErrUnknownPrefab) {
		g.log.Debug("ignoring file", zap.String("file", change.Name))
		return
	}
	if err != nil {
		g.log.Warn("prefab reload failed", zap.String("file", change.Name), zap.Error(err))
		return
	}

	g.world.Enqueue(func(w *ecs.World) {
		if applyPrefab(w, g.scene, g.renderer, spec) {
			g.log.Info("prefab reloaded", zap.String("file", change.Name))
		} else {
			g.log.Info("prefab changed, applies to entities built from now on", zap.String("file", change.Name))
		}
	})
}

// applyPrefab pushes a reloaded spec into the live entities it tunes. It
// must run on the tick goroutine and reports whether anything changed.
func applyPrefab(w *ecs.World, scene *sandbox.Scene, r *render.Renderer, spec any) bool {
	switch s := spec.(type) {
	case *prefabs.AsteroidSpec:
		n := 0
		eachField(w, func(f *entity.AsteroidField) {
			f.SetAsteroidSpec(s)
			n++
		})
		return n > 0
	case *prefabs.DiamondSpec:
		n := 0
		eachField(w, func(f *entity.AsteroidField) {
			f.SetLootSpec(s)
			n++
		})
		return n > 0
	case *prefabs.CameraSpec:
		if scene == nil || scene.Camera == nil {
			return false
		}
		scene.Camera.SetZoom(s.Zoom)
		scene.Camera.XOffset = s.XOffset
		scene.Camera.YOffset = s.YOffset
		return true
	case *prefabs.SunSpec:
		if scene == nil || scene.Sun == nil {
			return false
		}
		if s.Size > 0 {
			scene.Sun.Size = s.Size
		}
		scene.Sun.Intensity = s.Intensity
		if s.Color.Color != nil {
			scene.Sun.Color = s.Color.Color
		}
		return true
	case *prefabs.PaletteSpec:
		if r == nil {
			return false
		}
		r.SetPalette(render.PaletteFromSpec(s))
		return true
	}
	return false
}

func eachField(w *ecs.World, fn func(*entity.AsteroidField)) {
	w.Registry().EachPassive(func(e ecs.Entity) {
		if f, ok := e.(*entity.AsteroidField); ok && !f.Removed() {
			fn(f)
		}
	})
}
