package ecs

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/spaceout/ecs/component"
)

// Dynamic is an Entity backed by a rigid body. *DynamicEntity and every
// type embedding it satisfy it.
type Dynamic interface {
	Entity
	Body() BodyHandle
}

// DynamicEntity mirrors a rigid body. The body is authoritative; Location
// and Orientation are refreshed from it by Update.
type DynamicEntity struct {
	Base

	// Scale is passed to the renderer with the model.
	Scale float32

	engine      PhysicsEngine
	body        BodyHandle
	shape       Shape
	mass        float32
	restitution float32
	layer       component.CollisionLayer
}

// NewDynamicEntity creates exactly one rigid body in engine. def.Owner is
// reported in contact events; when nil the DynamicEntity itself is used.
func NewDynamicEntity(engine PhysicsEngine, label string, def BodyDef) *DynamicEntity {
	if def.Rotation == (mgl32.Quat{}) {
		def.Rotation = mgl32.QuatIdent()
	}
	d := &DynamicEntity{
		Base: Base{
			Label:       label,
			Location:    def.Position,
			Orientation: def.Rotation,
		},
		Scale:       1,
		engine:      engine,
		shape:       def.Shape,
		mass:        def.Mass,
		restitution: def.Restitution,
		layer:       def.Layer,
	}
	if def.Owner == nil {
		def.Owner = d
	}
	if engine != nil {
		d.body = engine.CreateBody(def)
	}
	return d
}

func (d *DynamicEntity) Body() BodyHandle {
	if d == nil {
		return 0
	}
	return d.body
}

func (d *DynamicEntity) Shape() Shape                    { return d.shape }
func (d *DynamicEntity) Mass() float32                   { return d.mass }
func (d *DynamicEntity) Restitution() float32            { return d.restitution }
func (d *DynamicEntity) Layer() component.CollisionLayer { return d.layer }

// Update copies the world transform of the rigid body into the cached
// position and rotation. It does not step the simulation.
func (d *DynamicEntity) Update(float32) {
	d.syncTransform()
}

func (d *DynamicEntity) syncTransform() {
	if d == nil || d.engine == nil || !d.body.Valid() {
		return
	}
	d.Location, d.Orientation = d.engine.Transform(d.body)
}

// Draw submits the cached transform and scale.
func (d *DynamicEntity) Draw(r Renderer) {
	if d == nil || r == nil || d.Model == "" {
		return
	}
	r.DrawModel(d.Model, d.Location, d.Orientation, d.Scale)
}

// Cleanup removes the rigid body from the physics engine. The registry
// calls it while reaping, before the entity is dropped.
func (d *DynamicEntity) Cleanup() {
	if d == nil || d.engine == nil || !d.body.Valid() {
		return
	}
	d.engine.DestroyBody(d.body)
	d.engine = nil
}

// Teleport moves the rigid body to position. Orientation and velocity are
// kept.
func (d *DynamicEntity) Teleport(position mgl32.Vec3) {
	if d == nil || d.engine == nil || !d.body.Valid() {
		return
	}
	_, rot := d.engine.Transform(d.body)
	d.engine.SetTransform(d.body, position, rot)
	d.Location = position
	d.Orientation = rot
}

// SetTransform writes position and rotation into the rigid body.
func (d *DynamicEntity) SetTransform(position mgl32.Vec3, rotation mgl32.Quat) {
	if d == nil || d.engine == nil || !d.body.Valid() {
		return
	}
	d.engine.SetTransform(d.body, position, rotation)
	d.Location = position
	d.Orientation = rotation
}

func (d *DynamicEntity) ApplyImpulse(impulse mgl32.Vec3) {
	if d == nil || d.engine == nil || !d.body.Valid() {
		return
	}
	d.engine.ApplyImpulse(d.body, impulse)
}

func (d *DynamicEntity) Velocity() mgl32.Vec3 {
	if d == nil || d.engine == nil || !d.body.Valid() {
		return mgl32.Vec3{}
	}
	return d.engine.Velocity(d.body)
}

func (d *DynamicEntity) SetVelocity(v mgl32.Vec3) {
	if d == nil || d.engine == nil || !d.body.Valid() {
		return
	}
	d.engine.SetVelocity(d.body, v)
}

// SetSpin sets the angular velocity when the engine supports it.
func (d *DynamicEntity) SetSpin(w float32) {
	if d == nil || d.engine == nil || !d.body.Valid() {
		return
	}
	if s, ok := d.engine.(Spinner); ok {
		s.SetAngularVelocity(d.body, w)
	}
}
