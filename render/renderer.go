package render

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/spaceout/ecs"
	"github.com/milk9111/spaceout/prefabs"
	"golang.org/x/image/colornames"
)

// Palette maps model handles to fill colours.
type Palette struct {
	Background color.Color
	Fallback   color.Color
	Models     map[ecs.ModelHandle]color.Color
}

func DefaultPalette() Palette {
	return Palette{
		Background: colornames.Black,
		Fallback:   colornames.Magenta,
		Models: map[ecs.ModelHandle]color.Color{
			"asteroid": colornames.Burlywood,
			"diamond":  colornames.Aquamarine,
			"ship":     colornames.Lavender,
			"sun":      colornames.Gold,
			"debris":   colornames.Slategray,
		},
	}
}

// PaletteFromSpec overlays spec on the default palette.
func PaletteFromSpec(spec *prefabs.PaletteSpec) Palette {
	p := DefaultPalette()
	if spec == nil {
		return p
	}
	if spec.Background.Color != nil {
		p.Background = spec.Background.Color
	}
	for name, c := range spec.Models {
		if c.Color != nil {
			p.Models[ecs.ModelHandle(name)] = c.Color
		}
	}
	return p
}

func (p Palette) colorFor(model ecs.ModelHandle) color.Color {
	if c, ok := p.Models[model]; ok {
		return c
	}
	return p.Fallback
}

// Renderer draws the world top-down: x and y project onto the screen around
// the camera centre and z is dropped. Every model is a filled disc whose
// radius is its scale.
type Renderer struct {
	width   float32
	height  float32
	palette Palette

	screen *ebiten.Image
	center mgl32.Vec3
	zoom   float32
	drawn  int
}

func New(width, height int, palette Palette) *Renderer {
	return &Renderer{
		width:   float32(width),
		height:  float32(height),
		palette: palette,
		zoom:    1,
	}
}

func (r *Renderer) SetPalette(p Palette) {
	r.palette = p
}

// Begin clears screen and starts a frame centred on center.
func (r *Renderer) Begin(screen *ebiten.Image, center mgl32.Vec3, zoom float32) {
	if zoom <= 0 {
		zoom = 1
	}
	r.screen = screen
	r.center = center
	r.zoom = zoom
	r.drawn = 0
	if screen != nil {
		screen.Fill(r.palette.Background)
	}
}

// Drawn is the number of models submitted this frame that were on screen.
func (r *Renderer) Drawn() int {
	return r.drawn
}

// Project maps a world position to screen coordinates.
func (r *Renderer) Project(p mgl32.Vec3) (float32, float32) {
	x := (p.X()-r.center.X())*r.zoom + r.width/2
	y := (p.Y()-r.center.Y())*r.zoom + r.height/2
	return x, y
}

// Visible reports whether a disc at p with the given world radius overlaps
// the screen.
func (r *Renderer) Visible(p mgl32.Vec3, radius float32) bool {
	x, y := r.Project(p)
	sr := r.screenRadius(radius)
	return x+sr >= 0 && y+sr >= 0 && x-sr <= r.width && y-sr <= r.height
}

func (r *Renderer) screenRadius(scale float32) float32 {
	sr := scale * r.zoom
	if sr < 1 {
		sr = 1
	}
	return sr
}

func (r *Renderer) DrawModel(model ecs.ModelHandle, position mgl32.Vec3, rotation mgl32.Quat, scale float32) {
	if r.screen == nil || !r.Visible(position, scale) {
		return
	}
	x, y := r.Project(position)
	sr := r.screenRadius(scale)
	clr := r.palette.colorFor(model)
	vector.FillCircle(r.screen, x, y, sr, clr, true)

	// heading marker so spin is visible
	if sr >= 4 {
		h := rotation.Rotate(mgl32.Vec3{1, 0, 0})
		vector.StrokeLine(r.screen, x, y, x+h.X()*sr, y+h.Y()*sr, 1, colornames.Black, true)
	}
	r.drawn++
}
