package ecs

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/spaceout/ecs/component"
)

// BodyHandle identifies a rigid body inside a PhysicsEngine. Zero is never
// a valid handle.
type BodyHandle uint32

func (h BodyHandle) Valid() bool {
	return h != 0
}

type ShapeKind int

const (
	ShapeSphere ShapeKind = iota
	ShapeBox
)

// Shape describes the collision volume of a rigid body.
type Shape struct {
	Kind        ShapeKind
	Radius      float32
	HalfExtents mgl32.Vec3
}

func Sphere(radius float32) Shape {
	return Shape{Kind: ShapeSphere, Radius: radius}
}

func Box(halfExtents mgl32.Vec3) Shape {
	return Shape{Kind: ShapeBox, HalfExtents: halfExtents}
}

// BoundingRadius is the radius of the smallest sphere around the shape.
func (s Shape) BoundingRadius() float32 {
	if s.Kind == ShapeBox {
		return s.HalfExtents.Len()
	}
	return s.Radius
}

// BodyDef is everything a PhysicsEngine needs to create a rigid body.
type BodyDef struct {
	Shape       Shape
	Mass        float32
	Restitution float32
	Layer       component.CollisionLayer
	Position    mgl32.Vec3
	Rotation    mgl32.Quat

	// Owner is reported back in contact events.
	Owner Entity
}

// ContactEvent is produced when two mask-permitted bodies start touching.
type ContactEvent struct {
	A, B  Entity
	Point mgl32.Vec3
}

// PhysicsEngine is the rigid-body simulation the entities are backed by.
// Transforms returned are world space. Contact events are queued while
// Step runs and handed to the contact handler after the step completes,
// so handlers may create or destroy bodies.
type PhysicsEngine interface {
	CreateBody(def BodyDef) BodyHandle
	Transform(h BodyHandle) (mgl32.Vec3, mgl32.Quat)
	SetTransform(h BodyHandle, position mgl32.Vec3, rotation mgl32.Quat)
	ApplyImpulse(h BodyHandle, impulse mgl32.Vec3)
	Velocity(h BodyHandle) mgl32.Vec3
	SetVelocity(h BodyHandle, v mgl32.Vec3)
	DestroyBody(h BodyHandle)
	Step(dt float32)
	SetContactHandler(fn func(ContactEvent))
}

// Spinner is implemented by engines that can spin a body about its
// simulated axis.
type Spinner interface {
	SetAngularVelocity(h BodyHandle, w float32)
}
