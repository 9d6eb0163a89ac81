package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/spaceout/common"
	"github.com/milk9111/spaceout/ecs"
	"github.com/milk9111/spaceout/ecs/component"
	"github.com/milk9111/spaceout/prefabs"
	"go.uber.org/zap"
)

// Offspring rotations are built from angles in [0, 100) degrees.
const offspringRotationDegrees = 100

// DefaultAsteroidSpec returns the built-in asteroid tunables.
func DefaultAsteroidSpec() prefabs.AsteroidSpec {
	return prefabs.AsteroidSpec{
		Name:         "asteroid",
		Model:        "asteroid",
		Health:       100,
		Damage:       10,
		Restitution:  0.5,
		MassFactor:   10,
		LootSize:     10,
		LootAmount:   25,
		Divisions:    3,
		OffsetSpread: 10,
		Spin:         0.015,
		Layer: prefabs.CollisionLayerSpec{
			Category: prefabs.CategorySpec(component.CategoryPlanet),
			Mask: prefabs.CategorySpec(component.CategoryShip | component.CategoryWall |
				component.CategoryPlanet | component.CategoryPickup | component.CategoryProjectile),
		},
	}
}

func withAsteroidDefaults(spec *prefabs.AsteroidSpec) prefabs.AsteroidSpec {
	def := DefaultAsteroidSpec()
	if spec == nil {
		return def
	}
	out := *spec
	if out.Model == "" {
		out.Model = def.Model
	}
	if out.Health <= 0 {
		out.Health = def.Health
	}
	if out.MassFactor <= 0 {
		out.MassFactor = def.MassFactor
	}
	if out.LootAmount < 0 {
		out.LootAmount = 0
	}
	if out.Divisions <= 0 {
		out.Divisions = def.Divisions
	}
	if out.Layer.Category == 0 {
		out.Layer = def.Layer
	}
	return out
}

// Asteroid is a destructible rock. Once its health runs out it either
// splits into smaller asteroids or, when small enough, breaks into loot.
type Asteroid struct {
	*ecs.DynamicEntity

	world  *ecs.World
	spec   prefabs.AsteroidSpec
	size   float32
	health int
	field  *AsteroidField
	loot   *prefabs.DiamondSpec
}

// NewAsteroid creates an asteroid and its rigid body. It is not registered;
// use SpawnAsteroid for that.
func NewAsteroid(w *ecs.World, location mgl32.Vec3, rotation mgl32.Quat, size float32, spec *prefabs.AsteroidSpec) *Asteroid {
	s := withAsteroidDefaults(spec)
	if size <= 0 {
		size = 1
	}
	a := &Asteroid{
		world:  w,
		spec:   s,
		size:   size,
		health: s.Health,
	}
	a.DynamicEntity = ecs.NewDynamicEntity(w.Physics(), asteroidLabel(size, s.Health), ecs.BodyDef{
		Shape:       ecs.Sphere(size),
		Mass:        size * s.MassFactor,
		Restitution: s.Restitution,
		Layer:       s.Layer.Layer(),
		Position:    location,
		Rotation:    rotation,
		Owner:       a,
	})
	a.Model = ecs.ModelHandle(s.Model)
	a.Scale = size
	if s.Spin != 0 {
		a.SetSpin(s.Spin)
	}
	return a
}

// SpawnAsteroid creates an asteroid and stages it in the world registry.
func SpawnAsteroid(w *ecs.World, location mgl32.Vec3, rotation mgl32.Quat, size float32, spec *prefabs.AsteroidSpec) *Asteroid {
	a := NewAsteroid(w, location, rotation, size, spec)
	w.Registry().RegisterDynamic(a)
	return a
}

func asteroidLabel(size float32, health int) string {
	return fmt.Sprintf("Asteroid (size %g health %d)", size, health)
}

func (a *Asteroid) Size() float32 {
	return a.size
}

func (a *Asteroid) Field() *AsteroidField {
	return a.field
}

func (a *Asteroid) CurrentHealth() int {
	return a.health
}

// Hurt subtracts amount from the asteroid's health. Negative amounts count
// as zero. Damage after destruction is ignored.
func (a *Asteroid) Hurt(amount int) {
	if a == nil || a.Removed() {
		return
	}
	if amount < 0 {
		amount = 0
	}
	a.health -= amount
	a.Label = asteroidLabel(a.size, a.health)
	if a.health <= 0 {
		a.explode()
	}
}

func (a *Asteroid) Heal(amount int) {
	if a == nil || a.Removed() || amount <= 0 {
		return
	}
	a.health += amount
	a.Label = asteroidLabel(a.size, a.health)
}

func (a *Asteroid) Damage() int {
	return a.spec.Damage
}

func (a *Asteroid) Owner() ecs.Entity {
	return a
}

// explode flags the asteroid for removal and stages its replacements.
func (a *Asteroid) explode() {
	a.Remove()

	log := a.world.Logger()
	if a.size <= a.spec.LootSize {
		registry := a.world.Registry()
		for i := 0; i < a.spec.LootAmount; i++ {
			d := NewDiamond(a.world, a.offspringLocation(0), a.offspringRotation(), a.loot)
			registry.RegisterDynamic(d)
		}
		log.Debug("asteroid broke into loot",
			zap.Float32("size", a.size),
			zap.Int("diamonds", a.spec.LootAmount))
		return
	}

	childSize := a.size / float32(a.spec.Divisions)
	for i := 0; i < a.spec.Divisions; i++ {
		child := SpawnAsteroid(a.world, a.offspringLocation(a.size), a.offspringRotation(), childSize, &a.spec)
		child.loot = a.loot
		if a.field != nil {
			a.field.Adopt(child)
		}
	}
	log.Debug("asteroid split",
		zap.Float32("size", a.size),
		zap.Int("children", a.spec.Divisions),
		zap.Float32("child_size", childSize))
}

// offspringLocation picks a random point in a cube around the asteroid,
// in its local frame. margin pushes every axis outward by that much.
func (a *Asteroid) offspringLocation(margin float32) mgl32.Vec3 {
	spread := a.spec.OffsetSpread
	if spread < 0 {
		spread = 0
	}
	offset := common.RandomOffset(a.world.Rand(), spread, margin)
	return a.Location.Add(common.RotateVector(a.Orientation, offset))
}

func (a *Asteroid) offspringRotation() mgl32.Quat {
	return common.RandomRotation(a.world.Rand(), offspringRotationDegrees)
}

// SetLootSpec sets the prefab used for the diamonds this asteroid and its
// offspring drop. Nil selects the built-in diamond.
func (a *Asteroid) SetLootSpec(spec *prefabs.DiamondSpec) {
	a.loot = spec
}
