package autograph

import (
	"image"
	"image/color"

	"gioui.org/app"
	"gioui.org/f32"
	"gioui.org/font/gofont"
	"gioui.org/io/pointer"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

// namePlaceholder is the hint of the name field, echoed under the surface while the field is empty.
const namePlaceholder = "Nome do Assinante"

var (
	defaultBkgColor     = color.NRGBA{R: 0xf4, G: 0xf4, B: 0xf4, A: 0xff}
	defaultSurfaceColor = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	defaultAlertColor   = color.NRGBA{R: 245, G: 228, B: 215, A: 0xff}
	defaultAlertText    = color.NRGBA{R: 3, G: 18, B: 14, A: 0xff}
)

// Gui is the signing window: a drawing surface, the name field, the action buttons and the preview
// of the last composed signature.
type Gui struct {
	cfg struct {
		window struct {
			w, h  unit.Dp
			title string
		}
		// surfaceHeight is the height of the drawing surface, the width follows the window.
		surfaceHeight unit.Dp
		// dir is the folder the signature is saved into.
		dir string
	}
	session *Session
	theme   *material.Theme

	name        widget.Editor
	clearBtn    widget.Clickable
	generateBtn widget.Clickable
	downloadBtn widget.Clickable
	dismissBtn  widget.Clickable

	// alert is the blocking message shown over the window, if any.
	alert string
	// saved is the path of the last saved signature.
	saved string
}

// NewGUI initializes the Gio interface around the session.
// The signatures are saved into the dir folder.
func NewGUI(s *Session, dir string) *Gui {
	g := &Gui{
		session: s,
		theme:   material.NewTheme(gofont.Collection()),
		name: widget.Editor{
			SingleLine: true,
			Submit:     true,
		},
	}
	w, h := s.Pad().Size()

	g.cfg.window.w = unit.Dp(w + 40)
	g.cfg.window.h = unit.Dp(h + footerHeight + 360)
	g.cfg.window.title = "Assinatura Digital"
	g.cfg.surfaceHeight = unit.Dp(h)
	g.cfg.dir = dir

	return g
}

// Run is the core method of the Gio GUI application.
// It processes the window events until the window is closed.
func (g *Gui) Run() error {
	var ops op.Ops

	w := app.NewWindow(
		app.Title(g.cfg.window.title),
		app.Size(g.cfg.window.w, g.cfg.window.h),
	)

	for e := range w.Events() {
		switch e := e.(type) {
		case system.FrameEvent:
			gtx := layout.NewContext(&ops, e)
			g.draw(gtx)
			e.Frame(gtx.Ops)
		case system.DestroyEvent:
			return e.Err
		}
	}
	return nil
}

// draw lays out the whole window for the current frame.
func (g *Gui) draw(gtx C) {
	g.update(gtx)

	paint.Fill(gtx.Ops, defaultBkgColor)

	layout.UniformInset(unit.Dp(20)).Layout(gtx, func(gtx C) D {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(g.layoutSurface),
			layout.Rigid(func(gtx C) D {
				return layout.Center.Layout(gtx, material.Caption(g.theme, g.nameEcho()).Layout)
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(12)}.Layout),
			layout.Rigid(func(gtx C) D {
				return material.Editor(g.theme, &g.name, namePlaceholder).Layout(gtx)
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(12)}.Layout),
			layout.Rigid(g.layoutButtons),
			layout.Rigid(layout.Spacer{Height: unit.Dp(12)}.Layout),
			layout.Flexed(1, g.layoutPreview),
		)
	})

	if g.alert != "" {
		g.displayMessage(gtx, defaultAlertColor, defaultAlertText, g.alert)
	}
}

// update reacts to the button clicks of the previous frame.
func (g *Gui) update(gtx C) {
	if g.dismissBtn.Clicked() {
		g.alert = ""
	}
	if g.alert != "" {
		return
	}
	if g.clearBtn.Clicked() {
		g.clear()
	}
	if g.generateBtn.Clicked() && g.canGenerate() {
		g.generate()
	}
	for _, e := range g.name.Events() {
		if _, ok := e.(widget.SubmitEvent); ok && g.canGenerate() {
			g.generate()
		}
	}
	if g.downloadBtn.Clicked() {
		g.download()
	}
}

// layoutSurface resizes the surface to the available width, then draws it and registers the pointer handlers.
func (g *Gui) layoutSurface(gtx C) D {
	size := image.Pt(gtx.Constraints.Max.X, gtx.Dp(g.cfg.surfaceHeight))
	g.session.Resize(size.X, size.Y)

	for _, e := range gtx.Events(g) {
		if e, ok := e.(pointer.Event); ok && g.alert == "" {
			g.handlePointer(e)
		}
	}

	defer clip.Rect{Max: size}.Push(gtx.Ops).Pop()
	paint.ColorOp{Color: defaultSurfaceColor}.Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)

	paint.NewImageOp(g.session.Pad().Image()).Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)

	pointer.InputOp{
		Tag:   g,
		Grab:  true,
		Types: pointer.Press | pointer.Drag | pointer.Release | pointer.Leave | pointer.Cancel,
	}.Add(gtx.Ops)

	return D{Size: size}
}

// layoutButtons shows either the generate or the download button, depending on whether a
// signature has been composed. Clearing the surface brings back the generate button.
func (g *Gui) layoutButtons(gtx C) D {
	children := []layout.FlexChild{
		layout.Rigid(material.Button(g.theme, &g.clearBtn, "Limpar").Layout),
	}
	if g.canGenerate() {
		children = append(children,
			layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
			layout.Rigid(material.Button(g.theme, &g.generateBtn, "Gerar").Layout),
		)
	} else {
		children = append(children,
			layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
			layout.Rigid(material.Button(g.theme, &g.downloadBtn, "Baixar").Layout),
		)
	}
	return layout.Flex{Axis: layout.Horizontal}.Layout(gtx, children...)
}

func (g *Gui) layoutPreview(gtx C) D {
	img := g.session.Preview()
	if img == nil {
		return D{}
	}
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Flexed(1, func(gtx C) D {
			return widget.Image{
				Src:      paint.NewImageOp(img),
				Fit:      widget.ScaleDown,
				Position: layout.N,
			}.Layout(gtx)
		}),
		layout.Rigid(func(gtx C) D {
			if g.saved == "" {
				return D{}
			}
			return material.Caption(g.theme, g.saved).Layout(gtx)
		}),
	)
}

// canGenerate reports whether the generate action is offered: only while there is no preview.
func (g *Gui) canGenerate() bool {
	return g.session.Artifact() == nil
}

// nameEcho returns the caption shown under the signature line, following the name as it is typed.
func (g *Gui) nameEcho() string {
	if s := g.name.Text(); s != "" {
		return s
	}
	return namePlaceholder
}

// handlePointer translates the Gio pointer events into surface strokes.
// Gio reports the positions relative to the surface already.
func (g *Gui) handlePointer(e pointer.Event) {
	pad := g.session.Pad()
	pt := toPoint(e.Position)

	var ev PointerEvent = MouseEvent{Offset: pt}
	if e.Source == pointer.Touch {
		te := &TouchEvent{Touches: []Point{pt}}
		if e.Type == pointer.Release || e.Type == pointer.Cancel {
			te = &TouchEvent{Changed: []Point{pt}}
		}
		ev = te
	}

	switch e.Type {
	case pointer.Press:
		pad.Begin(ev)
	case pointer.Drag:
		pad.Extend(ev)
	case pointer.Release, pointer.Cancel, pointer.Leave:
		pad.End()
	}
}

// clear wipes the surface and hides the preview.
func (g *Gui) clear() {
	g.session.Clear()
	g.saved = ""
}

// generate composes the signature, showing an alert if the name or the signature is missing.
func (g *Gui) generate() {
	g.saved = ""
	if _, err := g.session.Generate(g.name.Text()); err != nil {
		g.alert = err.Error()
	}
}

// download saves the last composed signature. It does nothing if there is none.
func (g *Gui) download() {
	path, err := g.session.Save(g.cfg.dir)
	if err != nil {
		g.alert = err.Error()
		return
	}
	g.saved = path
}

// displayMessage shows a blocking message over the window, dismissed with the OK button.
func (g *Gui) displayMessage(gtx C, bgcol, fgcol color.NRGBA, msg string) {
	// Swallow the pointer events, so the surface below is not reachable.
	defer clip.Rect{Max: gtx.Constraints.Max}.Push(gtx.Ops).Pop()
	pointer.InputOp{Tag: &g.alert, Types: pointer.Press | pointer.Release}.Add(gtx.Ops)
	paint.ColorOp{Color: color.NRGBA{A: 0x80}}.Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)

	layout.Center.Layout(gtx, func(gtx C) D {
		gtx.Constraints.Min = image.Point{}
		gtx.Constraints.Max.X = gtx.Dp(unit.Dp(360))

		return layout.Stack{}.Layout(gtx,
			layout.Expanded(func(gtx C) D {
				paint.FillShape(gtx.Ops, bgcol, clip.Rect{Max: gtx.Constraints.Min}.Op())
				return D{Size: gtx.Constraints.Min}
			}),
			layout.Stacked(func(gtx C) D {
				return layout.UniformInset(unit.Dp(16)).Layout(gtx, func(gtx C) D {
					return layout.Flex{Axis: layout.Vertical, Alignment: layout.Middle}.Layout(gtx,
						layout.Rigid(func(gtx C) D {
							lbl := material.Body1(g.theme, msg)
							lbl.Color = fgcol
							return lbl.Layout(gtx)
						}),
						layout.Rigid(layout.Spacer{Height: unit.Dp(12)}.Layout),
						layout.Rigid(material.Button(g.theme, &g.dismissBtn, "OK").Layout),
					)
				})
			}),
		)
	})
}

// toPoint converts a Gio position into a surface point.
func toPoint(p f32.Point) Point {
	return Point{X: float64(p.X), Y: float64(p.Y)}
}
