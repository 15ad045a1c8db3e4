package autograph

import (
	"errors"
	"image"

	"github.com/esimov/autograph/utils"
)

// ErrNoInk is returned when every pixel of the drawing surface is fully transparent.
var ErrNoInk = errors.New("no ink on the drawing surface")

// Bounds is the tight bounding box of the ink, in surface coordinates. Both edges are inclusive.
type Bounds struct {
	MinX, MinY int
	MaxX, MaxY int
}

// Width returns the horizontal extent of the ink, measured between the outermost pixel centers.
func (b Bounds) Width() int { return b.MaxX - b.MinX }

// Height returns the vertical extent of the ink, measured between the outermost pixel centers.
func (b Bounds) Height() int { return b.MaxY - b.MinY }

// DetectInk checks if there is at least one visible pixel on the surface.
// It returns the surface for further processing or ErrNoInk if nothing has been drawn yet.
func DetectInk(img *image.NRGBA) (*image.NRGBA, error) {
	// The alpha channel is the fourth component of every pixel.
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 0 {
			return img, nil
		}
	}
	return nil, ErrNoInk
}

// ComputeBounds scans every pixel of the surface and returns the bounding box of the pixels
// having a non-zero alpha value. It reports false if there is no visible pixel at all.
func ComputeBounds(img *image.NRGBA) (Bounds, bool) {
	var (
		rect  = img.Bounds()
		dx    = rect.Dx()
		dy    = rect.Dy()
		found bool
	)
	b := Bounds{MinX: dx, MinY: dy}

	for y := 0; y < dy; y++ {
		i := img.PixOffset(rect.Min.X, rect.Min.Y+y)
		for x := 0; x < dx; x++ {
			if img.Pix[i+3] > 0 {
				b.MinX = utils.Min(x, b.MinX)
				b.MaxX = utils.Max(x, b.MaxX)
				b.MinY = utils.Min(y, b.MinY)
				b.MaxY = utils.Max(y, b.MaxY)
				found = true
			}
			i += 4
		}
	}
	if !found {
		return Bounds{}, false
	}
	return b, true
}
