package autograph

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/vector"
)

// Pad is the drawing surface the signature is captured on.
// It translates a sequence of begin/extend/end pointer events into continuous strokes.
//
// A Pad is not safe for concurrent use: it is meant to be driven by a single event loop.
type Pad struct {
	img     *image.NRGBA
	raster  *vector.Rasterizer
	style   StrokeStyle
	drawing bool
	last    Point
}

// NewPad creates a fully transparent surface of the given size.
func NewPad(width, height int) *Pad {
	p := &Pad{
		img:   imaging.New(width, height, color.Transparent),
		style: DefaultStrokeStyle,
	}
	p.raster = vector.NewRasterizer(width, height)
	return p
}

// Begin starts a new stroke at the event position.
// Events without a usable contact point are ignored.
func (p *Pad) Begin(e PointerEvent) {
	pt, ok := e.Locate()
	if !ok {
		return
	}
	p.drawing = true
	p.last = pt
}

// Extend draws a segment from the last recorded position to the event position.
// It does nothing if no stroke is in progress.
func (p *Pad) Extend(e PointerEvent) {
	if !p.drawing {
		return
	}
	if e.Source() == Touch {
		e.PreventDefault()
	}
	pt, ok := e.Locate()
	if !ok {
		return
	}
	drawSegment(p.img, p.raster, p.last, pt, p.style)
	p.last = pt
}

// End finishes the current stroke. Calling it without a stroke in progress has no effect.
func (p *Pad) End() {
	p.drawing = false
}

// Reset clears the whole surface, discarding the ink.
func (p *Pad) Reset() {
	draw.Draw(p.img, p.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

// Resize changes the surface dimension to the displayed size. The previously drawn pixels
// are restored at the origin and the stroke style is applied again on the new surface.
// It reports whether the surface has been resized, which is not the case if the size already matches.
func (p *Pad) Resize(width, height int) bool {
	if w, h := p.Size(); w == width && h == height {
		return false
	}
	old := p.img

	p.img = imaging.New(width, height, color.Transparent)
	p.raster = vector.NewRasterizer(width, height)
	p.SetStyle(p.style)
	if width > 0 && height > 0 {
		p.img = imaging.Paste(p.img, old, image.Point{})
	}
	return true
}

// Load copies an existing image onto the surface, starting from the origin.
// The source pixels replace the surface content as they are, without blending.
func (p *Pad) Load(src image.Image) {
	if p.img.Bounds().Empty() {
		return
	}
	p.img = imaging.Paste(p.img, imgToNRGBA(src), image.Point{})
}

// Image returns the surface pixel buffer. The returned image must be treated as read only.
func (p *Pad) Image() *image.NRGBA {
	return p.img
}

// Size returns the surface dimension.
func (p *Pad) Size() (int, int) {
	return p.img.Bounds().Dx(), p.img.Bounds().Dy()
}

// Drawing reports whether a stroke is in progress.
func (p *Pad) Drawing() bool {
	return p.drawing
}

// Style returns the stroke style.
func (p *Pad) Style() StrokeStyle {
	return p.style
}

// SetStyle changes the stroke style. A zero width or a missing color falls back to the default pen.
func (p *Pad) SetStyle(s StrokeStyle) {
	if s.Width <= 0 {
		s.Width = DefaultStrokeStyle.Width
	}
	if s.Color == nil {
		s.Color = DefaultStrokeStyle.Color
	}
	p.style = s
}
