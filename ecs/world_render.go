package ecs

import "github.com/go-gl/mathgl/mgl32"

// Renderer receives one draw call per drawable entity per frame.
type Renderer interface {
	DrawModel(model ModelHandle, position mgl32.Vec3, rotation mgl32.Quat, scale float32)
}

// Draw walks the live registry and submits every entity to r.
func (w *World) Draw(r Renderer) {
	if w == nil || r == nil {
		return
	}
	w.registry.Draw(r)
}
