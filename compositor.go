package autograph

import (
	"errors"
	"image"
	"image/color"
	"math"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/esimov/autograph/imop"
	"golang.org/x/image/font"
)

// The user facing validation errors.
var (
	ErrMissingName      = errors.New("please enter your full name")
	ErrMissingSignature = errors.New("please sign before continuing")
)

const (
	// footerHeight is the extra space added under the surface for the rule and the name.
	footerHeight = 40
	// inkGap is the distance between the bottom of the ink and the original surface height.
	inkGap = 15
	// ruleInset is the horizontal margin of the rule on both sides.
	ruleInset = 50
	// ruleOffset is the vertical position of the rule relative to the surface height.
	ruleOffset = 5
	// nameOffset is the baseline of the name relative to the surface height.
	nameOffset = 30
)

// Compositor lays a captured signature over a rule and the signer's name.
type Compositor struct {
	// The font face caches glyphs and must not be used concurrently.
	mu   sync.Mutex
	face font.Face
}

// NewCompositor initializes a Compositor with the default font.
func NewCompositor() (*Compositor, error) {
	face, err := newNameFace()
	if err != nil {
		return nil, err
	}
	return &Compositor{face: face}, nil
}

// Generate composes the surface with the signer's name and encodes the result as PNG.
// The output keeps the surface width and is footerHeight pixels taller.
// The surface is only read, never modified.
func (c *Compositor) Generate(name string, surface *image.NRGBA) (*Artifact, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrMissingName
	}
	if _, err := DetectInk(surface); err != nil {
		return nil, ErrMissingSignature
	}

	var (
		w = surface.Bounds().Dx()
		h = surface.Bounds().Dy()
	)
	out := imaging.New(w, h+footerHeight, color.White)

	b, ok := ComputeBounds(surface)
	op := imop.InitOp()
	op.Draw(out, surface, placeSignature(b, ok, w, h))

	// The 1px rule is shifted half a pixel down so it fills row h+ruleOffset alone
	// instead of covering two rows at half intensity.
	drawRule(out, ruleInset, float64(w-ruleInset), float64(h+ruleOffset)+0.5, 1, color.Black)

	c.mu.Lock()
	drawStringCentered(out, c.face, name, w/2, h+nameOffset, color.Black)
	c.mu.Unlock()

	data, err := encodePNG(out)
	if err != nil {
		return nil, err
	}
	return &Artifact{Name: name, Image: out, Data: data}, nil
}

// placeSignature returns the translation applied to the whole surface.
// The ink is centered horizontally and its bottom edge rests inkGap pixels above the surface height.
// Without ink bounds the surface is kept where it is.
func placeSignature(b Bounds, ok bool, w, h int) image.Point {
	if !ok {
		return image.Point{}
	}
	offX := float64(w-b.Width())/2 - float64(b.MinX)
	offY := float64(h-b.Height()-inkGap) - float64(b.MinY)

	return image.Pt(int(math.Round(offX)), int(math.Round(offY)))
}
