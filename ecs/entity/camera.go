package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/spaceout/ecs"
	"github.com/milk9111/spaceout/prefabs"
)

// Camera follows an entity at an offset. Renderers read its position and
// zoom every frame.
type Camera struct {
	ecs.Base

	Zoom    float32
	XOffset float32
	YOffset float32

	target ecs.Entity
}

func NewCamera(w *ecs.World) (*Camera, error) {
	spec, err := prefabs.LoadCameraSpec()
	if err != nil {
		return nil, fmt.Errorf("camera: load spec: %w", err)
	}
	c := NewCameraFromSpec(spec)
	if spec.Target != "" {
		if target, ok := w.Registry().LookupByType(spec.Target); ok {
			c.Follow(target)
		}
	}
	return c, nil
}

func NewCameraFromSpec(spec *prefabs.CameraSpec) *Camera {
	var s prefabs.CameraSpec
	if spec != nil {
		s = *spec
	}
	zoom := s.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	return &Camera{
		Base:    ecs.NewBase("Camera", s.Start.Vec()),
		Zoom:    zoom,
		XOffset: s.XOffset,
		YOffset: s.YOffset,
	}
}

// Follow makes the camera track e. Nil detaches the camera.
func (c *Camera) Follow(e ecs.Entity) {
	c.target = e
	if e != nil {
		c.Location = c.followPoint(e)
	}
}

func (c *Camera) Target() ecs.Entity {
	return c.target
}

func (c *Camera) SetZoom(zoom float32) {
	if zoom <= 0 {
		return
	}
	c.Zoom = zoom
}

func (c *Camera) followPoint(e ecs.Entity) mgl32.Vec3 {
	return e.Position().Add(mgl32.Vec3{c.XOffset, c.YOffset, 0})
}

// Update moves the camera onto its target. A target flagged for removal is
// dropped and the camera stays where it is.
func (c *Camera) Update(float32) {
	if c.target == nil {
		return
	}
	if c.target.Removed() {
		c.target = nil
		return
	}
	c.Location = c.followPoint(c.target)
}
