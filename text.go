package autograph

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// nameFontSize is the size in pixels of the signer's name printed under the rule.
const nameFontSize = 16

// newNameFace loads the face used to print the signer's name.
// At 72 DPI one point maps to one pixel.
func newNameFace() (font.Face, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("could not parse the font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    nameFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create the font face: %w", err)
	}
	return face, nil
}

// drawStringCentered draws s horizontally centered on cx, with its baseline at y.
func drawStringCentered(dst draw.Image, face font.Face, s string, cx, y int, col color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
	}
	width := d.MeasureString(s)
	d.Dot = fixed.Point26_6{
		X: fixed.I(cx) - width/2,
		Y: fixed.I(y),
	}
	d.DrawString(s)
}
