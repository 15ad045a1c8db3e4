package autograph

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// kappa is the control point distance used to approximate a quarter circle with a cubic Bézier curve.
const kappa = 0.5522847498

// StrokeStyle describes how the signature strokes are painted.
// Caps and joins are always round.
type StrokeStyle struct {
	Width float64
	Color color.Color
}

// DefaultStrokeStyle is the pen used on a freshly created surface.
var DefaultStrokeStyle = StrokeStyle{
	Width: 2,
	Color: color.Black,
}

// drawSegment draws a straight line between p0 and p1 with round caps.
// Consecutive segments share their end points, so the overlapping caps produce round joins.
// A zero length segment is rendered as a dot with the diameter of the stroke.
func drawSegment(dst draw.Image, z *vector.Rasterizer, p0, p1 Point, style StrokeStyle) {
	r := style.Width / 2
	if r <= 0 {
		return
	}

	// Unit direction of the segment. Any direction is fine for a dot.
	dx, dy := p1.X-p0.X, p1.Y-p0.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		dx, dy = 1, 0
	} else {
		dx, dy = dx/length, dy/length
	}

	// The rasterizer covers only the area touched by the stroke.
	rect := image.Rect(
		int(math.Floor(math.Min(p0.X, p1.X)-r))-1,
		int(math.Floor(math.Min(p0.Y, p1.Y)-r))-1,
		int(math.Ceil(math.Max(p0.X, p1.X)+r))+1,
		int(math.Ceil(math.Max(p0.Y, p1.Y)+r))+1,
	)
	if !rect.Overlaps(dst.Bounds()) {
		return
	}
	z.Reset(rect.Dx(), rect.Dy())
	z.DrawOp = draw.Over

	ox, oy := float64(rect.Min.X), float64(rect.Min.Y)
	pt := func(x, y float64) (float32, float32) {
		return float32(x - ox), float32(y - oy)
	}
	// u is the normal of the segment, v its direction, both scaled to the stroke radius.
	ux, uy := -dy*r, dx*r
	vx, vy := dx*r, dy*r
	k := kappa

	z.MoveTo(pt(p0.X+ux, p0.Y+uy))
	z.LineTo(pt(p1.X+ux, p1.Y+uy))
	// Round cap around p1.
	cubeTo(z, pt,
		p1.X+ux+k*vx, p1.Y+uy+k*vy,
		p1.X+vx+k*ux, p1.Y+vy+k*uy,
		p1.X+vx, p1.Y+vy,
	)
	cubeTo(z, pt,
		p1.X+vx-k*ux, p1.Y+vy-k*uy,
		p1.X-ux+k*vx, p1.Y-uy+k*vy,
		p1.X-ux, p1.Y-uy,
	)
	z.LineTo(pt(p0.X-ux, p0.Y-uy))
	// Round cap around p0.
	cubeTo(z, pt,
		p0.X-ux-k*vx, p0.Y-uy-k*vy,
		p0.X-vx-k*ux, p0.Y-vy-k*uy,
		p0.X-vx, p0.Y-vy,
	)
	cubeTo(z, pt,
		p0.X-vx+k*ux, p0.Y-vy+k*uy,
		p0.X+ux-k*vx, p0.Y+uy-k*vy,
		p0.X+ux, p0.Y+uy,
	)
	z.ClosePath()

	z.Draw(dst, rect, image.NewUniform(style.Color), image.Point{})
}

// drawRule draws a horizontal line of the given thickness between x0 and x1, centered on y.
func drawRule(dst draw.Image, x0, x1, y, thickness float64, col color.Color) {
	if x1 <= x0 || thickness <= 0 {
		return
	}
	half := thickness / 2
	rect := image.Rect(
		int(math.Floor(x0)), int(math.Floor(y-half)),
		int(math.Ceil(x1)), int(math.Ceil(y+half)),
	)
	ox, oy := float32(rect.Min.X), float32(rect.Min.Y)

	z := vector.NewRasterizer(rect.Dx(), rect.Dy())
	z.DrawOp = draw.Over
	z.MoveTo(float32(x0)-ox, float32(y-half)-oy)
	z.LineTo(float32(x1)-ox, float32(y-half)-oy)
	z.LineTo(float32(x1)-ox, float32(y+half)-oy)
	z.LineTo(float32(x0)-ox, float32(y+half)-oy)
	z.ClosePath()
	z.Draw(dst, rect, image.NewUniform(col), image.Point{})
}

// cubeTo adds a cubic Bézier curve to the rasterizer path, translating every point with pt.
func cubeTo(z *vector.Rasterizer, pt func(x, y float64) (float32, float32), bx, by, cx, cy, dx, dy float64) {
	x1, y1 := pt(bx, by)
	x2, y2 := pt(cx, cy)
	x3, y3 := pt(dx, dy)
	z.CubeTo(x1, y1, x2, y2, x3, y3)
}
