package render

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
)

// DrawPhysics overlays the planar collision shapes of space using the
// projection of the current frame. Call it after Begin.
func (r *Renderer) DrawPhysics(space *cp.Space) {
	if r.screen == nil || space == nil {
		return
	}
	cp.DrawSpace(space, &physicsDrawer{r: r})
}

type physicsDrawer struct {
	r *Renderer
}

func (d *physicsDrawer) project(v cp.Vector) (float32, float32) {
	return d.r.Project(mgl32.Vec3{float32(v.X), float32(v.Y), 0})
}

func (d *physicsDrawer) line(a, b cp.Vector, c color.Color) {
	ax, ay := d.project(a)
	bx, by := d.project(b)
	vector.StrokeLine(d.r.screen, ax, ay, bx, by, 1, c, false)
}

func (d *physicsDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	c := fcolorToRGBA(outline)
	x, y := d.project(pos)
	sr := float32(radius) * d.r.zoom
	if sr < 1 {
		sr = 1
	}
	vector.StrokeCircle(d.r.screen, x, y, sr, 1, c, false)

	// angle indicator
	tip := cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}
	d.line(pos, tip, c)
}

func (d *physicsDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.line(a, b, fcolorToRGBA(fill))
}

func (d *physicsDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.line(a, b, fcolorToRGBA(outline))
	if radius > 0 {
		d.DrawCircle(a, 0, radius, outline, fill, data)
		d.DrawCircle(b, 0, radius, outline, fill, data)
	}
}

func (d *physicsDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count == 0 {
		return
	}
	c := fcolorToRGBA(outline)
	for i := 0; i < count; i++ {
		d.line(verts[i], verts[(i+1)%count], c)
	}
}

func (d *physicsDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	x, y := d.project(pos)
	vector.FillCircle(d.r.screen, x, y, float32(size)/2, fcolorToRGBA(fill), false)
}

func (d *physicsDrawer) Flags() uint {
	return cp.DRAW_SHAPES | cp.DRAW_COLLISION_POINTS
}

func (d *physicsDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1.0, B: 0.2, A: 1.0}
}

func (d *physicsDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	if shape == nil || shape.Body() == nil {
		return cp.FColor{R: 1, G: 1, B: 1, A: 1}
	}
	if shape.Body().IsSleeping() {
		return cp.FColor{R: 0.4, G: 0.4, B: 0.4, A: 1.0}
	}
	return cp.FColor{R: 0.9, G: 0.4, B: 0.9, A: 1.0}
}

func (d *physicsDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 0.7, G: 0.7, B: 0.7, A: 1.0}
}

func (d *physicsDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1.0, G: 0.1, B: 0.1, A: 1.0}
}

func (d *physicsDrawer) Data() interface{} {
	return nil
}

func fcolorToRGBA(c cp.FColor) color.RGBA {
	clamp := func(v float32) uint8 {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		return uint8(v * 255)
	}
	return color.RGBA{R: clamp(c.R), G: clamp(c.G), B: clamp(c.B), A: clamp(c.A)}
}
