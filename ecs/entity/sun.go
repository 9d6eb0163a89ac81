package entity

import (
	"fmt"
	"image/color"

	"github.com/milk9111/spaceout/ecs"
	"github.com/milk9111/spaceout/prefabs"
)

// Sun is a light source drawn at its size.
type Sun struct {
	ecs.Base

	Size      float32
	Intensity float32
	Color     color.Color
}

func NewSun() (*Sun, error) {
	spec, err := prefabs.LoadSunSpec()
	if err != nil {
		return nil, fmt.Errorf("sun: load spec: %w", err)
	}
	return NewSunFromSpec(spec), nil
}

func NewSunFromSpec(spec *prefabs.SunSpec) *Sun {
	var s prefabs.SunSpec
	if spec != nil {
		s = *spec
	}
	if s.Size <= 0 {
		s.Size = 1
	}
	sun := &Sun{
		Base:      ecs.NewBase("Sun", s.Location.Vec()),
		Size:      s.Size,
		Intensity: s.Intensity,
		Color:     s.Color.Color,
	}
	sun.Model = ecs.ModelHandle(s.Model)
	return sun
}

func (s *Sun) Draw(r ecs.Renderer) {
	if s.Model == "" || r == nil {
		return
	}
	r.DrawModel(s.Model, s.Location, s.Orientation, s.Size)
}
