package ecs

import (
	"math/rand/v2"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// System updates a world each tick, after every entity has been updated.
type System interface {
	Update(w *World)
}

// World owns the entity registry, the physics engine and system order.
// Tick must be called from a single goroutine; other goroutines talk to
// the world through Enqueue.
type World struct {
	registry *Registry
	physics  PhysicsEngine
	systems  *Scheduler
	contacts ContactQueue

	mu       sync.Mutex
	deferred []func(*World)

	log    *zap.Logger
	rng    *rand.Rand
	tick   uint64
	lastDT float32
}

// NewWorld creates an empty world driven by physics. seed feeds the random
// source shared by every procedural spawner.
func NewWorld(physics PhysicsEngine, log *zap.Logger, seed uint64) *World {
	if log == nil {
		log = zap.NewNop()
	}
	w := &World{
		registry: NewRegistry(),
		physics:  physics,
		systems:  NewScheduler(),
		log:      log,
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
	if physics != nil {
		physics.SetContactHandler(w.contacts.Push)
	}
	return w
}

func (w *World) Registry() *Registry {
	if w == nil {
		return nil
	}
	return w.registry
}

func (w *World) Physics() PhysicsEngine {
	if w == nil {
		return nil
	}
	return w.physics
}

// Rand is the world's random source. It is not safe for concurrent use.
func (w *World) Rand() *rand.Rand {
	if w == nil {
		return nil
	}
	return w.rng
}

func (w *World) Logger() *zap.Logger {
	if w == nil || w.log == nil {
		return zap.NewNop()
	}
	return w.log
}

// Ticks returns the number of completed ticks.
func (w *World) Ticks() uint64 {
	if w == nil {
		return 0
	}
	return w.tick
}

// DeltaTime is the step of the tick in progress, or of the last one.
func (w *World) DeltaTime() float32 {
	if w == nil {
		return 0
	}
	return w.lastDT
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	if w == nil {
		return
	}
	w.systems.Add(s)
}

// Enqueue schedules fn to run on the tick goroutine at the start of the
// next tick. Safe to call from any goroutine.
func (w *World) Enqueue(fn func(*World)) {
	if w == nil || fn == nil {
		return
	}
	w.mu.Lock()
	w.deferred = append(w.deferred, fn)
	w.mu.Unlock()
}

func (w *World) drainDeferred() {
	w.mu.Lock()
	pending := w.deferred
	w.deferred = nil
	w.mu.Unlock()

	for _, fn := range pending {
		fn(w)
	}
}

// Tick advances the world by dt seconds.
func (w *World) Tick(dt float32) {
	if w == nil {
		return
	}

	w.drainDeferred()
	w.registry.CommitPending()

	if w.physics != nil {
		w.physics.Step(dt)
	}

	w.lastDT = dt
	w.registry.Update(dt)
	w.systems.Update(w)

	for _, evt := range w.contacts.Drain() {
		w.resolveContact(evt)
	}

	if n := w.registry.ReapRemoved(); n > 0 {
		w.log.Debug("reaped entities", zap.Int("count", n), zap.Uint64("tick", w.tick))
	}
	w.tick++
}

// resolveContact applies damage and loot collection for one contact pair,
// in both directions.
func (w *World) resolveContact(evt ContactEvent) {
	if evt.A == nil || evt.B == nil {
		return
	}
	w.applyContact(evt.A, evt.B, evt.Point)
	w.applyContact(evt.B, evt.A, evt.Point)
}

func (w *World) applyContact(target, other Entity, point mgl32.Vec3) {
	if target.Removed() {
		return
	}
	if pickup, ok := other.(Pickup); ok {
		if collector, ok := target.(Collector); ok && !pickup.Removed() {
			collector.Collect(pickup)
			pickup.Remove()
			return
		}
	}
	health, ok := target.(Health)
	if !ok {
		return
	}
	projectile, ok := other.(Projectile)
	if !ok {
		return
	}
	if projectile.Owner() == target {
		return
	}
	health.Hurt(projectile.Damage())
	w.log.Debug("entity hit",
		zap.String("target", target.Type()),
		zap.String("by", other.Type()),
		zap.Int("damage", projectile.Damage()),
		zap.Float32s("point", point[:]))
}

// Close releases every entity and its physics resources.
func (w *World) Close() {
	if w == nil {
		return
	}
	w.drainDeferred()
	w.registry.Clear()
}
