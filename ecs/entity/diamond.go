package entity

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/spaceout/ecs"
	"github.com/milk9111/spaceout/ecs/component"
	"github.com/milk9111/spaceout/prefabs"
)

func DefaultDiamondSpec() prefabs.DiamondSpec {
	return prefabs.DiamondSpec{
		Name:        "diamond",
		Model:       "diamond",
		Kind:        "diamond",
		Radius:      1.5,
		Mass:        1,
		Restitution: 0.2,
		StopSpeed:   0.3,
		Lifetime:    120,
		Layer: prefabs.CollisionLayerSpec{
			Category: prefabs.CategorySpec(component.CategoryPickup),
			Mask:     prefabs.CategorySpec(component.CategoryShip | component.CategoryWall | component.CategoryPlanet),
		},
	}
}

// Diamond is loot dropped by small asteroids. It drifts to a stop and is
// picked up by any Collector it touches.
type Diamond struct {
	*ecs.DynamicEntity

	kind      string
	stopSpeed float32
	lifetime  float32
	age       float32
}

func NewDiamond(w *ecs.World, location mgl32.Vec3, rotation mgl32.Quat, spec *prefabs.DiamondSpec) *Diamond {
	s := DefaultDiamondSpec()
	if spec != nil {
		s = *spec
	}
	if s.Radius <= 0 {
		s.Radius = 1
	}
	if s.Kind == "" {
		s.Kind = "diamond"
	}
	if s.Layer.Category == 0 {
		s.Layer = DefaultDiamondSpec().Layer
	}

	d := &Diamond{kind: s.Kind, stopSpeed: s.StopSpeed, lifetime: s.Lifetime}
	d.DynamicEntity = ecs.NewDynamicEntity(w.Physics(), "Diamond", ecs.BodyDef{
		Shape:       ecs.Sphere(s.Radius),
		Mass:        s.Mass,
		Restitution: s.Restitution,
		Layer:       s.Layer.Layer(),
		Position:    location,
		Rotation:    rotation,
		Owner:       d,
	})
	d.Model = ecs.ModelHandle(s.Model)
	return d
}

func (d *Diamond) PickupKind() string {
	return d.kind
}

// Expired reports whether the diamond has outlived its lifetime. A zero
// lifetime never expires.
func (d *Diamond) Expired() bool {
	return d.lifetime > 0 && d.age >= d.lifetime
}

// Update syncs the transform and bleeds off StopSpeed of the velocity per
// second.
func (d *Diamond) Update(dt float32) {
	d.DynamicEntity.Update(dt)
	d.age += dt
	if d.stopSpeed <= 0 || dt <= 0 {
		return
	}
	keep := 1 - d.stopSpeed*dt
	if keep < 0 {
		keep = 0
	}
	d.SetVelocity(d.Velocity().Mul(keep))
}
