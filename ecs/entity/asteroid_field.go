package entity

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/spaceout/common"
	"github.com/milk9111/spaceout/ecs"
	"github.com/milk9111/spaceout/prefabs"
	"go.uber.org/zap"
)

// Spawn rotations use whole-degree angles in [0, 90).
const fieldRotationDegrees = 90

func DefaultFieldSpec() prefabs.FieldSpec {
	return prefabs.FieldSpec{
		Name:             "asteroid_field",
		Range:            prefabs.Vec3Spec{X: 1500, Y: 1500, Z: 150},
		Speed:            prefabs.Vec3Spec{X: 3000, Y: 3000, Z: 300},
		NumAsteroids:     30,
		InitialAsteroids: 20,
		ReleaseInterval:  5,
		MinSize:          8,
		MaxSize:          45,
	}
}

// AsteroidField keeps a population of asteroids inside a box around its
// location. It releases a new asteroid every ReleaseInterval seconds while
// it manages no more than NumAsteroids, and wraps asteroids that drift
// past twice its range back to the opposite side.
type AsteroidField struct {
	ecs.Base

	Range           mgl32.Vec3
	Speed           mgl32.Vec3
	NumAsteroids    int
	ReleaseInterval float32
	MinSize         float32
	MaxSize         float32

	world        *ecs.World
	log          *zap.Logger
	asteroidSpec prefabs.AsteroidSpec
	lootSpec     *prefabs.DiamondSpec

	elapsed float32
	managed []*Asteroid
	toAdd   []*Asteroid
}

// NewAsteroidField creates a field and immediately releases
// InitialAsteroids asteroids into the world. The field itself is not
// registered; use SpawnAsteroidField for that.
func NewAsteroidField(w *ecs.World, spec *prefabs.FieldSpec, asteroid *prefabs.AsteroidSpec) *AsteroidField {
	s := DefaultFieldSpec()
	if spec != nil {
		s = *spec
	}
	if s.MaxSize < s.MinSize {
		s.MaxSize = s.MinSize
	}

	f := &AsteroidField{
		Base:            ecs.NewBase("AsteroidField", s.Location.Vec()),
		Range:           s.Range.Vec(),
		Speed:           s.Speed.Vec(),
		NumAsteroids:    s.NumAsteroids,
		ReleaseInterval: s.ReleaseInterval,
		MinSize:         s.MinSize,
		MaxSize:         s.MaxSize,
		world:           w,
		log:             w.Logger().With(zap.String("field", s.Name)),
		asteroidSpec:    withAsteroidDefaults(asteroid),
	}

	for i := 0; i < s.InitialAsteroids; i++ {
		f.SpawnOne()
	}
	f.log.Debug("asteroid field created",
		zap.Int("initial", s.InitialAsteroids),
		zap.Int("cap", s.NumAsteroids))
	return f
}

// SpawnAsteroidField creates a field and registers it as a passive entity.
func SpawnAsteroidField(w *ecs.World, spec *prefabs.FieldSpec, asteroid *prefabs.AsteroidSpec) *AsteroidField {
	f := NewAsteroidField(w, spec, asteroid)
	w.Registry().RegisterPassive(f)
	return f
}

// SetAsteroidSpec changes the tunables used by asteroids released from now
// on. Asteroids already in the world keep theirs.
func (f *AsteroidField) SetAsteroidSpec(spec *prefabs.AsteroidSpec) {
	f.asteroidSpec = withAsteroidDefaults(spec)
}

func (f *AsteroidField) AsteroidSpec() prefabs.AsteroidSpec {
	return f.asteroidSpec
}

// SetLootSpec sets the diamond prefab dropped by every asteroid the field
// tracks or releases later.
func (f *AsteroidField) SetLootSpec(spec *prefabs.DiamondSpec) {
	f.lootSpec = spec
	for _, a := range f.managed {
		a.SetLootSpec(spec)
	}
	for _, a := range f.toAdd {
		a.SetLootSpec(spec)
	}
}

// Elapsed is the time since the last timed release.
func (f *AsteroidField) Elapsed() float32 {
	return f.elapsed
}

// Managed is the number of asteroids the field currently tracks, including
// ones waiting to be attached.
func (f *AsteroidField) Managed() int {
	return len(f.managed) + len(f.toAdd)
}

// Asteroids returns the attached asteroids. Callers must not modify it.
func (f *AsteroidField) Asteroids() []*Asteroid {
	return f.managed
}

// Adopt queues a to be tracked by the field from the next update on.
func (f *AsteroidField) Adopt(a *Asteroid) {
	if a == nil {
		return
	}
	a.field = f
	f.toAdd = append(f.toAdd, a)
}

// SpawnOne releases one asteroid at a random point inside the field's
// range with a random size, orientation and push.
func (f *AsteroidField) SpawnOne() *Asteroid {
	rng := f.world.Rand()

	var offset, impulse mgl32.Vec3
	for i := 0; i < 3; i++ {
		offset[i] = common.RandomSign(rng) * rng.Float32() * f.Range[i]
		impulse[i] = common.RandomSign(rng) * rng.Float32() * f.Speed[i]
	}
	size := f.MinSize + rng.Float32()*(f.MaxSize-f.MinSize+1)
	rotation := common.RandomWholeRotation(rng, fieldRotationDegrees)

	a := SpawnAsteroid(f.world, f.Location.Add(offset), rotation, size, &f.asteroidSpec)
	a.SetLootSpec(f.lootSpec)
	a.ApplyImpulse(impulse)
	f.Adopt(a)
	return a
}

type wrapMove struct {
	asteroid *Asteroid
	to       mgl32.Vec3
}

func (f *AsteroidField) Update(dt float32) {
	f.elapsed += dt
	if f.Managed() <= f.NumAsteroids && f.elapsed >= f.ReleaseInterval {
		f.SpawnOne()
		f.elapsed = 0
	}

	var detached []*Asteroid
	var moves []wrapMove
	for _, a := range f.managed {
		if a.Removed() {
			detached = append(detached, a)
			continue
		}
		if to, wrapped := f.wrap(a.Position()); wrapped {
			moves = append(moves, wrapMove{asteroid: a, to: to})
		}
	}

	for _, m := range moves {
		m.asteroid.Teleport(m.to)
	}
	if len(detached) > 0 {
		f.detach(detached)
	}
	if len(f.toAdd) > 0 {
		// offspring can be born past the bound; wrap them before they join
		for _, a := range f.toAdd {
			if a.Removed() {
				continue
			}
			if to, wrapped := f.wrap(a.Position()); wrapped {
				a.Teleport(to)
			}
		}
		f.managed = append(f.managed, f.toAdd...)
		clear(f.toAdd)
		f.toAdd = f.toAdd[:0]
	}
}

// wrap returns the position mirrored to the opposite bound on every axis
// that lies beyond location ± 2×range.
func (f *AsteroidField) wrap(pos mgl32.Vec3) (mgl32.Vec3, bool) {
	wrapped := false
	for i := 0; i < 3; i++ {
		limit := 2 * f.Range[i]
		hi := f.Location[i] + limit
		lo := f.Location[i] - limit
		switch {
		case pos[i] > hi:
			pos[i] = lo
			wrapped = true
		case pos[i] < lo:
			pos[i] = hi
			wrapped = true
		}
	}
	return pos, wrapped
}

func (f *AsteroidField) detach(gone []*Asteroid) {
	drop := make(map[*Asteroid]struct{}, len(gone))
	for _, a := range gone {
		drop[a] = struct{}{}
	}
	kept := f.managed[:0]
	for _, a := range f.managed {
		if _, ok := drop[a]; ok {
			continue
		}
		kept = append(kept, a)
	}
	clear(f.managed[len(kept):])
	f.managed = kept
}

// Cleanup releases the field's bookkeeping. The asteroids stay in the
// world.
func (f *AsteroidField) Cleanup() {
	for _, a := range f.managed {
		a.field = nil
	}
	for _, a := range f.toAdd {
		a.field = nil
	}
	f.managed = nil
	f.toAdd = nil
}
