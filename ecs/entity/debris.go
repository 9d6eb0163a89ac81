package entity

import (
	"fmt"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/spaceout/ecs"
	"github.com/milk9111/spaceout/prefabs"
)

// Debris is a cloud of dust specks scattered in a cube around an anchor.
// Specks that fall more than Range away from the anchor on an axis are
// moved to the other side, so the cloud always surrounds the anchor.
type Debris struct {
	ecs.Base

	Range float32
	Size  float32

	anchor    ecs.Entity
	particles []mgl32.Vec3
}

func NewDebris(anchor ecs.Entity) (*Debris, error) {
	spec, err := prefabs.LoadDebrisSpec()
	if err != nil {
		return nil, fmt.Errorf("debris: load spec: %w", err)
	}
	return NewDebrisFromSpec(spec, anchor), nil
}

// NewDebrisFromSpec scatters spec.Count specks. The same seed always
// yields the same cloud.
func NewDebrisFromSpec(spec *prefabs.DebrisSpec, anchor ecs.Entity) *Debris {
	var s prefabs.DebrisSpec
	if spec != nil {
		s = *spec
	}
	if s.Range <= 0 {
		s.Range = 1
	}
	if s.Size <= 0 {
		s.Size = 1
	}

	center := mgl32.Vec3{}
	if anchor != nil {
		center = anchor.Position()
	}
	d := &Debris{
		Base:      ecs.NewBase("Debris", center),
		Range:     s.Range,
		Size:      s.Size,
		anchor:    anchor,
		particles: make([]mgl32.Vec3, 0, max(s.Count, 0)),
	}
	d.Model = ecs.ModelHandle(s.Model)

	rng := rand.New(rand.NewPCG(s.Seed, s.Seed))
	for i := 0; i < s.Count; i++ {
		var p mgl32.Vec3
		for axis := range p {
			p[axis] = center[axis] + (rng.Float32()*2-1)*s.Range
		}
		d.particles = append(d.particles, p)
	}
	return d
}

// Particles returns the speck positions. Callers must not modify it.
func (d *Debris) Particles() []mgl32.Vec3 {
	return d.particles
}

func (d *Debris) SetAnchor(e ecs.Entity) {
	d.anchor = e
}

func (d *Debris) Update(float32) {
	if d.anchor == nil {
		return
	}
	if d.anchor.Removed() {
		d.anchor = nil
		return
	}
	center := d.anchor.Position()
	d.Location = center
	span := 2 * d.Range
	for i := range d.particles {
		for axis := 0; axis < 3; axis++ {
			delta := d.particles[i][axis] - center[axis]
			if delta > d.Range {
				d.particles[i][axis] -= span
			} else if delta < -d.Range {
				d.particles[i][axis] += span
			}
		}
	}
}

func (d *Debris) Draw(r ecs.Renderer) {
	if d.Model == "" || r == nil {
		return
	}
	for _, p := range d.particles {
		r.DrawModel(d.Model, p, d.Orientation, d.Size)
	}
}
