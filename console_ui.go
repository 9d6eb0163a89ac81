package main

import (
	"image/color"
	"strings"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

const consoleLinesShown = 12

// consolePanel is the in-game command prompt: the recent console output
// above a text input. Submitted lines go to submit, which must only queue
// them; the world runs them on its next tick.
type consolePanel struct {
	ui     *ebitenui.UI
	output *widget.Text
	input  *widget.TextInput
	open   bool
}

func newConsolePanel(width int, submit func(string)) *consolePanel {
	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	var face ebtext.Face = goFace

	p := &consolePanel{}
	p.output = widget.NewText(
		widget.TextOpts.Text("", &face, color.NRGBA{R: 0xdd, G: 0xdd, B: 0xdd, A: 0xff}),
	)
	p.input = widget.NewTextInput(
		widget.TextInputOpts.WidgetOpts(widget.WidgetOpts.MinSize(width-20, 20)),
		widget.TextInputOpts.Image(&widget.TextInputImage{
			Idle:     imageui.NewNineSliceColor(color.NRGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}),
			Disabled: imageui.NewNineSliceColor(color.NRGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff}),
		}),
		widget.TextInputOpts.Color(&widget.TextInputColor{
			Idle:     color.White,
			Disabled: color.Gray{Y: 120},
			Caret:    color.White,
		}),
		widget.TextInputOpts.Face(&face),
		widget.TextInputOpts.SubmitOnEnter(true),
		widget.TextInputOpts.SubmitHandler(func(args *widget.TextInputChangedEventArgs) {
			if line := consoleLine(args.InputText); line != "" {
				submit(line)
			}
			p.input.SetText("")
		}),
	)

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(imageui.NewNineSliceColor(color.NRGBA{A: 200})),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(4),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 8, Bottom: 8, Left: 10, Right: 10}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionCenter,
				VerticalPosition:   widget.AnchorLayoutPositionEnd,
				StretchHorizontal:  true,
			}),
		),
	)
	panel.AddChild(p.output)
	panel.AddChild(p.input)

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)

	p.ui = &ebitenui.UI{Container: root}
	return p
}

// Toggle opens or closes the prompt, clearing whatever was typed.
func (p *consolePanel) Toggle() {
	p.open = !p.open
	p.input.SetText("")
	p.input.Focus(p.open)
}

func (p *consolePanel) Open() bool {
	return p.open
}

func (p *consolePanel) SetLines(lines []string) {
	p.output.Label = strings.Join(tailLines(lines, consoleLinesShown), "\n")
}

func (p *consolePanel) Update() {
	if p.open {
		p.ui.Update()
	}
}

func (p *consolePanel) Draw(screen *ebiten.Image) {
	if p.open {
		p.ui.Draw(screen)
	}
}

// consoleLine strips the toggle key from typed text.
func consoleLine(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, "`", ""))
}

func tailLines(lines []string, n int) []string {
	if n <= 0 {
		return nil
	}
	if len(lines) > n {
		return lines[len(lines)-n:]
	}
	return lines
}
