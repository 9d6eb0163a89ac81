package ecs

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"
)

const collisionTypeBody cp.CollisionType = 1

const defaultIterations = 10

// PhysicsWorld is a PhysicsEngine backed by a Chipmunk space. Chipmunk
// simulates the X/Y plane; Z position and velocity are integrated per body
// alongside it, and contacts are confirmed in 3D before they are reported.
type PhysicsWorld struct {
	space         *cp.Space
	handlersReady bool
	log           *zap.Logger

	nextHandle    BodyHandle
	bodies        map[BodyHandle]*bodyState
	shapeToHandle map[*cp.Shape]BodyHandle
	touching      map[bodyPair]struct{}

	contacts  ContactQueue
	onContact func(ContactEvent)
}

type bodyState struct {
	owner  Entity
	body   *cp.Body
	shape  *cp.Shape
	sphere bool
	radius float64
	depth  float64

	z    float64
	vz   float64
	mass float64

	// orientation is the rotation at the last SetTransform; baseAngle is the
	// Chipmunk angle at that moment. Spin accumulated since then is applied
	// about Z on read.
	orientation mgl32.Quat
	baseAngle   float64
}

type bodyPair struct {
	lo, hi BodyHandle
}

func makePair(a, b BodyHandle) bodyPair {
	if a > b {
		a, b = b, a
	}
	return bodyPair{lo: a, hi: b}
}

// NewPhysicsWorld creates an empty zero-gravity space.
func NewPhysicsWorld(iterations int, log *zap.Logger) *PhysicsWorld {
	if iterations <= 0 {
		iterations = defaultIterations
	}
	if log == nil {
		log = zap.NewNop()
	}
	space := cp.NewSpace()
	space.Iterations = uint(iterations)
	space.SetGravity(cp.Vector{})

	pw := &PhysicsWorld{
		space:         space,
		log:           log,
		bodies:        make(map[BodyHandle]*bodyState),
		shapeToHandle: make(map[*cp.Shape]BodyHandle),
		touching:      make(map[bodyPair]struct{}),
	}
	pw.setupHandlers()
	return pw
}

// Space returns the underlying Chipmunk space.
func (pw *PhysicsWorld) Space() *cp.Space {
	if pw == nil {
		return nil
	}
	return pw.space
}

// BodyCount returns the number of live rigid bodies.
func (pw *PhysicsWorld) BodyCount() int {
	if pw == nil {
		return 0
	}
	return len(pw.bodies)
}

// HasBody reports whether h refers to a live rigid body.
func (pw *PhysicsWorld) HasBody(h BodyHandle) bool {
	if pw == nil {
		return false
	}
	_, ok := pw.bodies[h]
	return ok
}

func (pw *PhysicsWorld) SetContactHandler(fn func(ContactEvent)) {
	if pw == nil {
		return
	}
	pw.onContact = fn
}

func (pw *PhysicsWorld) CreateBody(def BodyDef) BodyHandle {
	if pw == nil || pw.space == nil {
		return 0
	}

	mass := float64(def.Mass)
	if mass <= 0 {
		mass = 1
	}

	st := &bodyState{owner: def.Owner, mass: mass}
	var moment float64
	switch def.Shape.Kind {
	case ShapeBox:
		w := float64(def.Shape.HalfExtents.X() * 2)
		h := float64(def.Shape.HalfExtents.Y() * 2)
		if w <= 0 || h <= 0 {
			w, h = 1, 1
		}
		moment = cp.MomentForBox(mass, w, h)
		st.body = cp.NewBody(mass, moment)
		st.shape = cp.NewBox(st.body, w, h, 0)
		st.radius = float64(def.Shape.BoundingRadius())
		st.depth = float64(def.Shape.HalfExtents.Z())
	default:
		r := float64(def.Shape.Radius)
		if r <= 0 {
			r = 1
		}
		moment = cp.MomentForCircle(mass, 0, r, cp.Vector{})
		st.body = cp.NewBody(mass, moment)
		st.shape = cp.NewCircle(st.body, r, cp.Vector{})
		st.sphere = true
		st.radius = r
		st.depth = r
	}

	layer := def.Layer.Normalized()
	st.shape.SetElasticity(float64(def.Restitution))
	st.shape.SetFriction(0.5)
	st.shape.SetCollisionType(collisionTypeBody)
	st.shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, uint(layer.Category), uint(layer.Mask)))

	rot := def.Rotation
	if rot == (mgl32.Quat{}) {
		rot = mgl32.QuatIdent()
	}
	st.body.SetPosition(cp.Vector{X: float64(def.Position.X()), Y: float64(def.Position.Y())})
	st.z = float64(def.Position.Z())
	st.orientation = rot
	st.baseAngle = st.body.Angle()

	pw.space.AddBody(st.body)
	pw.space.AddShape(st.shape)

	pw.nextHandle++
	h := pw.nextHandle
	pw.bodies[h] = st
	pw.shapeToHandle[st.shape] = h
	return h
}

func (pw *PhysicsWorld) Transform(h BodyHandle) (mgl32.Vec3, mgl32.Quat) {
	st := pw.state(h)
	if st == nil {
		return mgl32.Vec3{}, mgl32.QuatIdent()
	}
	p := st.body.Position()
	spin := st.body.Angle() - st.baseAngle
	rot := st.orientation
	if spin != 0 {
		rot = mgl32.QuatRotate(float32(spin), mgl32.Vec3{0, 0, 1}).Mul(rot).Normalize()
	}
	return mgl32.Vec3{float32(p.X), float32(p.Y), float32(st.z)}, rot
}

func (pw *PhysicsWorld) SetTransform(h BodyHandle, position mgl32.Vec3, rotation mgl32.Quat) {
	st := pw.state(h)
	if st == nil {
		return
	}
	if rotation == (mgl32.Quat{}) {
		rotation = mgl32.QuatIdent()
	}
	st.body.SetPosition(cp.Vector{X: float64(position.X()), Y: float64(position.Y())})
	st.z = float64(position.Z())
	st.orientation = rotation
	st.baseAngle = st.body.Angle()
}

func (pw *PhysicsWorld) ApplyImpulse(h BodyHandle, impulse mgl32.Vec3) {
	st := pw.state(h)
	if st == nil {
		return
	}
	st.body.ApplyImpulseAtWorldPoint(cp.Vector{X: float64(impulse.X()), Y: float64(impulse.Y())}, st.body.Position())
	st.vz += float64(impulse.Z()) / st.mass
}

func (pw *PhysicsWorld) Velocity(h BodyHandle) mgl32.Vec3 {
	st := pw.state(h)
	if st == nil {
		return mgl32.Vec3{}
	}
	v := st.body.Velocity()
	return mgl32.Vec3{float32(v.X), float32(v.Y), float32(st.vz)}
}

func (pw *PhysicsWorld) SetVelocity(h BodyHandle, v mgl32.Vec3) {
	st := pw.state(h)
	if st == nil {
		return
	}
	st.body.SetVelocityVector(cp.Vector{X: float64(v.X()), Y: float64(v.Y())})
	st.vz = float64(v.Z())
}

// DestroyBody removes the body and its shape from the space. Unknown or
// already destroyed handles are ignored.
func (pw *PhysicsWorld) DestroyBody(h BodyHandle) {
	st := pw.state(h)
	if st == nil {
		return
	}
	pw.space.RemoveShape(st.shape)
	pw.space.RemoveBody(st.body)
	delete(pw.shapeToHandle, st.shape)
	delete(pw.bodies, h)
	for pair := range pw.touching {
		if pair.lo == h || pair.hi == h {
			delete(pw.touching, pair)
		}
	}
}

// Step advances the simulation, then hands the contacts that began during
// the step to the contact handler. Handlers run after the space unlocks.
func (pw *PhysicsWorld) Step(dt float32) {
	if pw == nil || pw.space == nil || dt <= 0 {
		return
	}
	for _, st := range pw.bodies {
		st.z += st.vz * float64(dt)
	}
	pw.space.Step(float64(dt))

	events := pw.contacts.Drain()
	if pw.onContact == nil {
		return
	}
	for _, evt := range events {
		pw.onContact(evt)
	}
}

func (pw *PhysicsWorld) state(h BodyHandle) *bodyState {
	if pw == nil || !h.Valid() {
		return nil
	}
	return pw.bodies[h]
}

// overlapping confirms a planar contact in three dimensions.
func overlapping(a, b *bodyState) bool {
	dz := a.z - b.z
	if a.sphere && b.sphere {
		pa := a.body.Position()
		pb := b.body.Position()
		dx := pa.X - pb.X
		dy := pa.Y - pb.Y
		reach := a.radius + b.radius
		return dx*dx+dy*dy+dz*dz <= reach*reach
	}
	return math.Abs(dz) <= a.depth+b.depth
}

func (pw *PhysicsWorld) setupHandlers() {
	if pw == nil || pw.handlersReady || pw.space == nil {
		return
	}

	handler := pw.space.NewCollisionHandler(collisionTypeBody, collisionTypeBody)
	handler.UserData = pw
	handler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*PhysicsWorld)
		if !ok || world == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		ha, okA := world.shapeToHandle[shapeA]
		hb, okB := world.shapeToHandle[shapeB]
		if !okA || !okB {
			return true
		}
		a := world.bodies[ha]
		b := world.bodies[hb]
		if a == nil || b == nil {
			return true
		}

		pair := makePair(ha, hb)
		if !overlapping(a, b) {
			delete(world.touching, pair)
			return false
		}
		if _, seen := world.touching[pair]; seen {
			return true
		}
		world.touching[pair] = struct{}{}

		point := contactPoint(arb, a, b)
		if a.owner != nil && b.owner != nil {
			world.contacts.Push(ContactEvent{A: a.owner, B: b.owner, Point: point})
		}
		return true
	}
	handler.SeparateFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) {
		world, ok := userData.(*PhysicsWorld)
		if !ok || world == nil {
			return
		}
		shapeA, shapeB := arb.Shapes()
		ha, okA := world.shapeToHandle[shapeA]
		hb, okB := world.shapeToHandle[shapeB]
		if !okA || !okB {
			return
		}
		delete(world.touching, makePair(ha, hb))
	}

	pw.handlersReady = true
}

func contactPoint(arb *cp.Arbiter, a, b *bodyState) mgl32.Vec3 {
	set := arb.ContactPointSet()
	var x, y float64
	if set.Count > 0 {
		x = set.Points[0].PointA.X
		y = set.Points[0].PointA.Y
	} else {
		pa := a.body.Position()
		pb := b.body.Position()
		x = (pa.X + pb.X) / 2
		y = (pa.Y + pb.Y) / 2
	}
	z := a.z
	if reach := a.depth + b.depth; reach > 0 {
		z = a.z + (b.z-a.z)*a.depth/reach
	}
	return mgl32.Vec3{float32(x), float32(y), float32(z)}
}

// SetAngularVelocity spins the body about Z in radians per second.
func (pw *PhysicsWorld) SetAngularVelocity(h BodyHandle, w float32) {
	st := pw.state(h)
	if st == nil {
		return
	}
	st.body.SetAngularVelocity(float64(w))
}
