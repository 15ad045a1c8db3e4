package autograph

import (
	"image"
)

// luminance returns the perceived brightness of an RGB triplet, in the 0-255 range.
func luminance(r, g, b uint8) float64 {
	return float64(r)*0.299 + float64(g)*0.587 + float64(b)*0.114
}

// KnockOut converts a scanned signature into ink on a transparent background.
// Every pixel brighter than threshold becomes fully transparent, the rest of the pixels are kept as they are.
// This way a signature written on white paper can be placed on the drawing surface.
func KnockOut(src *image.NRGBA, threshold uint8) *image.NRGBA {
	var (
		bounds = src.Bounds()
		dst    = image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		dx     = bounds.Dx()
		dy     = bounds.Dy()
	)

	for y := 0; y < dy; y++ {
		si := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		di := dst.PixOffset(0, y)
		for x := 0; x < dx; x++ {
			r, g, b, a := src.Pix[si], src.Pix[si+1], src.Pix[si+2], src.Pix[si+3]
			if a > 0 && luminance(r, g, b) <= float64(threshold) {
				dst.Pix[di+0] = r
				dst.Pix[di+1] = g
				dst.Pix[di+2] = b
				dst.Pix[di+3] = a
			}
			si += 4
			di += 4
		}
	}

	return dst
}
