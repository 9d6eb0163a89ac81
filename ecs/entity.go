package ecs

import (
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
)

// EntityID is a registry-assigned identifier for dynamic entities. IDs are
// handed out monotonically and never reused.
type EntityID uint64

func (id EntityID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

func (id EntityID) Valid() bool {
	return id > 0
}

// ModelHandle is an opaque reference to a renderable model.
type ModelHandle string

// Entity is anything with a position, a type label and per-frame hooks.
type Entity interface {
	Type() string
	Position() mgl32.Vec3
	Rotation() mgl32.Quat

	// Removed reports whether the entity is waiting to be reaped.
	Removed() bool
	// Remove sets the removal flag. The flag is one-way.
	Remove()

	Update(dt float32)
	Draw(r Renderer)
	Cleanup()
}

// Base holds the state every entity shares. For passive entities and
// lights it is the authoritative transform; dynamic entities overwrite it
// from the physics engine every tick.
type Base struct {
	Label       string
	Location    mgl32.Vec3
	Orientation mgl32.Quat
	Model       ModelHandle

	removeFlag bool
}

// NewBase returns a Base at location with the identity rotation.
func NewBase(label string, location mgl32.Vec3) Base {
	return Base{Label: label, Location: location, Orientation: mgl32.QuatIdent()}
}

func (b *Base) Type() string {
	if b == nil {
		return ""
	}
	return b.Label
}

func (b *Base) Position() mgl32.Vec3 {
	if b == nil {
		return mgl32.Vec3{}
	}
	return b.Location
}

func (b *Base) Rotation() mgl32.Quat {
	if b == nil {
		return mgl32.QuatIdent()
	}
	return b.Orientation
}

func (b *Base) Removed() bool {
	return b != nil && b.removeFlag
}

func (b *Base) Remove() {
	if b == nil {
		return
	}
	b.removeFlag = true
}

// Update is a no-op for entities without behaviour.
func (b *Base) Update(float32) {}

// Draw submits the model at the entity transform with unit scale.
func (b *Base) Draw(r Renderer) {
	if b == nil || r == nil || b.Model == "" {
		return
	}
	r.DrawModel(b.Model, b.Location, b.Orientation, 1)
}

func (b *Base) Cleanup() {}
