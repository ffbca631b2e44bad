package imaging

import (
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	apperr "github.com/ironsheep/imagegen-service/internal/errors"
)

// ParseHexColor parses a "#RRGGBB" or "RRGGBB" string into an opaque color.
func ParseHexColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, apperr.Wrap(apperr.KindInput, "imaging.parse_color", "invalid hex color "+s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// HexString formats the RGB channels of c as "#rrggbb".
func HexString(c color.NRGBA) string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

// FillColor returns a width x height image filled with an opaque RGB color.
func FillColor(rgb [3]uint8, width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, apperr.Newf(apperr.KindInput, "imaging.fill", "invalid fill size %dx%d", width, height)
	}
	return imaging.New(width, height, color.NRGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}), nil
}

// BlendColor mixes every pixel of img half and half with an RGB color.
//
// Each channel becomes pixel/2 + color/2 using integer halving, and the
// result is fully opaque.
func BlendColor(img image.Image, rgb [3]uint8) *image.NRGBA {
	dst := imaging.Clone(img)
	half := [3]uint8{rgb[0] / 2, rgb[1] / 2, rgb[2] / 2}
	for i := 0; i+3 < len(dst.Pix); i += 4 {
		dst.Pix[i+0] = dst.Pix[i+0]/2 + half[0]
		dst.Pix[i+1] = dst.Pix[i+1]/2 + half[1]
		dst.Pix[i+2] = dst.Pix[i+2]/2 + half[2]
		dst.Pix[i+3] = 255
	}
	return dst
}
