package autograph

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/esimov/autograph/utils"
)

// decodeImg decodes a signature image from an io.Reader into an *image.NRGBA.
func decodeImg(r io.Reader) (*image.NRGBA, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("could not read the signature image: %w", err)
	}

	ctype := utils.DetectContentType(data)
	if !strings.Contains(ctype, "image") {
		return nil, fmt.Errorf("the signature should be an image file, got %s", ctype)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("could not decode the signature image: %w", err)
	}

	return imgToNRGBA(img), nil
}

// encodePNG encodes an image losslessly as PNG.
func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("could not encode the image: %w", err)
	}
	return buf.Bytes(), nil
}

// imgToNRGBA converts any image type to *image.NRGBA with min-point at (0, 0).
// A zero-based NRGBA image is returned as is, without copy.
func imgToNRGBA(img image.Image) *image.NRGBA {
	if dst, ok := img.(*image.NRGBA); ok && dst.Bounds().Min == (image.Point{}) {
		return dst
	}
	return imaging.Clone(img)
}

// DecodeSignature decodes a PNG or JPEG signature into a drawing surface sized image.
func DecodeSignature(r io.Reader) (*image.NRGBA, error) {
	return decodeImg(r)
}
