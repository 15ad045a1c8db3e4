// Package imop implements the Porter-Duff compositing operators used to lay
// the captured signature over the exported canvas.
package imop

import (
	"fmt"
	"image"
	"math"
)

// Supported composition operations.
const (
	Clear   = "clear"
	Copy    = "copy"
	Dst     = "dst"
	SrcOver = "src_over"
	DstOver = "dst_over"
	SrcIn   = "src_in"
	DstIn   = "dst_in"
	SrcOut  = "src_out"
	DstOut  = "dst_out"
	SrcAtop = "src_atop"
	DstAtop = "dst_atop"
	Xor     = "xor"
)

// factors returns the weights applied to the source and to the destination
// for the given source and destination alpha values.
type factors func(as, ab float64) (fa, fb float64)

var operators = map[string]factors{
	Clear:   func(as, ab float64) (float64, float64) { return 0, 0 },
	Copy:    func(as, ab float64) (float64, float64) { return 1, 0 },
	Dst:     func(as, ab float64) (float64, float64) { return 0, 1 },
	SrcOver: func(as, ab float64) (float64, float64) { return 1, 1 - as },
	DstOver: func(as, ab float64) (float64, float64) { return 1 - ab, 1 },
	SrcIn:   func(as, ab float64) (float64, float64) { return ab, 0 },
	DstIn:   func(as, ab float64) (float64, float64) { return 0, as },
	SrcOut:  func(as, ab float64) (float64, float64) { return 1 - ab, 0 },
	DstOut:  func(as, ab float64) (float64, float64) { return 0, 1 - as },
	SrcAtop: func(as, ab float64) (float64, float64) { return ab, 1 - as },
	DstAtop: func(as, ab float64) (float64, float64) { return 1 - ab, as },
	Xor:     func(as, ab float64) (float64, float64) { return 1 - ab, 1 - as },
}

// Composite holds the currently selected composition operation.
type Composite struct {
	current string
}

// InitOp returns a Composite using SrcOver, the default canvas operation.
func InitOp() *Composite {
	return &Composite{current: SrcOver}
}

// Set changes the composition operation.
func (op *Composite) Set(cop string) error {
	if _, ok := operators[cop]; !ok {
		return fmt.Errorf("unsupported composite operation: %q", cop)
	}
	op.current = cop
	return nil
}

// Get returns the active composition operation.
func (op *Composite) Get() string {
	return op.current
}

// Draw composes src onto dst in place, with the top-left corner of src placed at pt.
// Only the area where src and dst overlap is affected.
func (op *Composite) Draw(dst, src *image.NRGBA, pt image.Point) {
	fn := operators[op.current]

	sb := src.Bounds()
	r := sb.Sub(sb.Min).Add(pt).Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	// Translation from dst to src coordinates.
	delta := sb.Min.Sub(pt)

	for y := r.Min.Y; y < r.Max.Y; y++ {
		di := dst.PixOffset(r.Min.X, y)
		si := src.PixOffset(r.Min.X+delta.X, y+delta.Y)
		for x := r.Min.X; x < r.Max.X; x++ {
			s := src.Pix[si : si+4 : si+4]
			d := dst.Pix[di : di+4 : di+4]

			as := float64(s[3]) / 255
			ab := float64(d[3]) / 255
			fa, fb := fn(as, ab)

			// The channels are stored unpremultiplied.
			wa, wb := fa*as, fb*ab
			ao := wa + wb
			if ao <= 0 {
				d[0], d[1], d[2], d[3] = 0, 0, 0, 0
			} else {
				for c := 0; c < 3; c++ {
					v := (wa*float64(s[c]) + wb*float64(d[c])) / ao
					d[c] = clamp(v)
				}
				d[3] = clamp(ao * 255)
			}
			si += 4
			di += 4
		}
	}
}

func clamp(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
