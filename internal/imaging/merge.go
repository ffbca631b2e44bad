package imaging

import (
	"image"
	"image/draw"
	"math"

	"github.com/anthonynsimon/bild/blend"
	"github.com/disintegration/imaging"

	apperr "github.com/ironsheep/imagegen-service/internal/errors"
)

// Merge crops base and layer to their common size and averages them with
// equal weight on every channel, alpha included.
func Merge(base, layer image.Image) *image.NRGBA {
	b, l := CropToCommon(base, layer)
	return imaging.Clone(blend.Opacity(b, l, 0.5))
}

// Resize scales img to exactly width x height with filter. Aspect ratio is
// not preserved.
func Resize(img image.Image, width, height int, filter imaging.ResampleFilter) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, apperr.Newf(apperr.KindInput, "imaging.resize", "invalid resize target %dx%d", width, height)
	}
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return imaging.Clone(img), nil
	}
	return imaging.Resize(img, width, height, filter), nil
}

// FitSize returns the largest width x height with the aspect ratio of src
// that fits inside a maxW x maxH box. Sources are enlarged as well as
// shrunk. Neither side drops below 1.
func FitSize(src image.Rectangle, maxW, maxH int) (int, int) {
	sw, sh := src.Dx(), src.Dy()
	if sw <= 0 || sh <= 0 {
		return maxW, maxH
	}
	k := math.Min(float64(maxW)/float64(sw), float64(maxH)/float64(sh))
	w := max(int(math.Round(float64(sw)*k)), 1)
	h := max(int(math.Round(float64(sh)*k)), 1)
	return w, h
}

// ResizeToFit scales img to the largest size that fits inside width x height
// while keeping its aspect ratio.
func ResizeToFit(img image.Image, width, height int, filter imaging.ResampleFilter) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, apperr.Newf(apperr.KindInput, "imaging.resize", "invalid resize target %dx%d", width, height)
	}
	w, h := FitSize(img.Bounds(), width, height)
	return Resize(img, w, h, filter)
}

// Overlay alpha-composites layer onto dst with its top-left corner at pos.
// Pixels falling outside dst are clipped. dst is modified in place.
func Overlay(dst *image.NRGBA, layer image.Image, pos image.Point) {
	out := imaging.Overlay(dst, layer, pos, 1.0)
	draw.Draw(dst, dst.Bounds(), out, image.Point{}, draw.Src)
}
