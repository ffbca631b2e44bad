package imaging

import (
	"image"
	"sort"
	"strings"

	"github.com/disintegration/imaging"

	apperr "github.com/ironsheep/imagegen-service/internal/errors"
)

var resampleFilters = map[string]imaging.ResampleFilter{
	"nearest":    imaging.NearestNeighbor,
	"box":        imaging.Box,
	"linear":     imaging.Linear,
	"triangle":   imaging.Linear,
	"catmullrom": imaging.CatmullRom,
	"gaussian":   imaging.Gaussian,
	"lanczos":    imaging.Lanczos,
	"lanczos3":   imaging.Lanczos,
}

// ParseFilter maps a resample filter name to an imaging filter.
// Names are case-insensitive.
func ParseFilter(name string) (imaging.ResampleFilter, error) {
	f, ok := resampleFilters[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return imaging.ResampleFilter{}, apperr.Newf(apperr.KindConfig, "imaging.parse_filter", "unknown resize filter %q", name)
	}
	return f, nil
}

// Op names a single-image transform.
type Op string

const (
	OpFlipV     Op = "flipv"
	OpFlipH     Op = "fliph"
	OpRotate90  Op = "rotate90"
	OpRotate180 Op = "rotate180"
	OpRotate270 Op = "rotate270"
	OpGrayscale Op = "grayscale"
	OpInvert    Op = "invert"
	OpBlur      Op = "blur"
)

var transforms = map[Op]func(img image.Image, sigma float64) *image.NRGBA{
	OpFlipV:     func(img image.Image, _ float64) *image.NRGBA { return imaging.FlipV(img) },
	OpFlipH:     func(img image.Image, _ float64) *image.NRGBA { return imaging.FlipH(img) },
	OpRotate90:  func(img image.Image, _ float64) *image.NRGBA { return imaging.Rotate270(img) },
	OpRotate180: func(img image.Image, _ float64) *image.NRGBA { return imaging.Rotate180(img) },
	OpRotate270: func(img image.Image, _ float64) *image.NRGBA { return imaging.Rotate90(img) },
	OpGrayscale: func(img image.Image, _ float64) *image.NRGBA { return imaging.Grayscale(img) },
	OpInvert:    func(img image.Image, _ float64) *image.NRGBA { return imaging.Invert(img) },
	OpBlur:      imaging.Blur,
}

// Ops lists the supported transform names in sorted order.
func Ops() []Op {
	ops := make([]Op, 0, len(transforms))
	for op := range transforms {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}

// ParseOp validates a transform name.
func ParseOp(name string) (Op, error) {
	op := Op(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := transforms[op]; !ok {
		return "", apperr.Newf(apperr.KindInput, "imaging.parse_op", "unknown image operation %q", name)
	}
	return op, nil
}

// Transform applies op to img. sigma is only used by OpBlur.
//
// Rotations are clockwise. The imaging package rotates counter-clockwise,
// so rotate90 and rotate270 are swapped on the way through.
func Transform(img image.Image, op Op, sigma float64) (*image.NRGBA, error) {
	fn, ok := transforms[op]
	if !ok {
		return nil, apperr.Newf(apperr.KindInput, "imaging.transform", "unknown image operation %q", op)
	}
	return fn(img, sigma), nil
}
