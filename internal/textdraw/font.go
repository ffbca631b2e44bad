package textdraw

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Scale is the glyph scale in pixels.
type Scale struct {
	X float64
	Y float64
}

// Uniform returns a Scale with equal X and Y.
func Uniform(s float64) Scale {
	return Scale{X: s, Y: s}
}

// VMetrics holds vertical metrics at a given scale. Descent is negative
// (below the baseline).
type VMetrics struct {
	Ascent  float64
	Descent float64
	LineGap float64
}

// LineHeight is the baseline-to-baseline distance.
func (m VMetrics) LineHeight() float64 {
	return m.Ascent - m.Descent + m.LineGap
}

// Font is a parsed OpenType/TrueType font. It is immutable and safe to
// share between goroutines; faces are created per draw call.
type Font struct {
	otf *opentype.Font

	// unscaled metrics in font units
	upem    float64
	ascent  float64
	descent float64
	lineGap float64
}

// ParseFont parses TrueType or OpenType font data.
func ParseFont(data []byte) (*Font, error) {
	otf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	upem := otf.UnitsPerEm()
	var buf sfnt.Buffer
	m, err := otf.Metrics(&buf, fixed.I(int(upem)), font.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("failed to read font metrics: %w", err)
	}

	f := &Font{
		otf:     otf,
		upem:    float64(upem),
		ascent:  fixedToFloat64(m.Ascent),
		descent: fixedToFloat64(m.Descent),
	}
	f.lineGap = fixedToFloat64(m.Height) - f.ascent - f.descent
	if f.lineGap < 0 {
		f.lineGap = 0
	}
	if f.ascent+f.descent <= 0 {
		return nil, fmt.Errorf("font has degenerate vertical metrics")
	}
	return f, nil
}

// unitScale converts font units to pixels for a pixel height.
func (f *Font) unitScale(pixelHeight float64) float64 {
	return pixelHeight / (f.ascent + f.descent)
}

// VMetrics implements Face.
func (f *Font) VMetrics(scale Scale) VMetrics {
	k := f.unitScale(scale.Y)
	return VMetrics{
		Ascent:  f.ascent * k,
		Descent: -f.descent * k,
		LineGap: f.lineGap * k,
	}
}

// AdvanceWidth implements Face. It sums the per-glyph advances without kerning.
func (f *Font) AdvanceWidth(text string, scale Scale) float64 {
	var buf sfnt.Buffer
	ppem := fixed.I(int(f.upem))
	var units float64
	for _, r := range text {
		idx, err := f.otf.GlyphIndex(&buf, r)
		if err != nil {
			continue
		}
		adv, err := f.otf.GlyphAdvance(&buf, idx, ppem, font.HintingNone)
		if err != nil {
			continue
		}
		units += fixedToFloat64(adv)
	}
	return units * f.unitScale(scale.X)
}

// DrawString implements Face. baseline is the left end of the baseline.
func (f *Font) DrawString(dst draw.Image, src image.Image, text string, scale Scale, baseline image.Point) error {
	if scale.X <= 0 || scale.Y <= 0 {
		return nil
	}
	ppem := f.upem * f.unitScale(scale.Y)
	face, err := opentype.NewFace(f.otf, &opentype.FaceOptions{
		Size:    ppem,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return fmt.Errorf("failed to create font face: %w", err)
	}
	defer face.Close()

	if scale.X == scale.Y {
		d := &font.Drawer{
			Dst:  dst,
			Src:  src,
			Face: face,
			Dot:  fixed.P(baseline.X, baseline.Y),
		}
		d.DrawString(text)
		return nil
	}

	// Non-uniform scale: rasterize at Scale.Y into a coverage mask, then
	// stretch the mask horizontally.
	vm := f.VMetrics(Scale{X: scale.Y, Y: scale.Y})
	ascent := int(math.Ceil(vm.Ascent))
	height := ascent + int(math.Ceil(-vm.Descent))
	width := int(math.Ceil(f.AdvanceWidth(text, Scale{X: scale.Y, Y: scale.Y}))) + 1
	if width <= 0 || height <= 0 {
		return nil
	}

	mask := image.NewAlpha(image.Rect(0, 0, width, height))
	d := &font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P(0, ascent),
	}
	d.DrawString(text)

	stretched := int(math.Round(float64(width) * scale.X / scale.Y))
	if stretched <= 0 {
		return nil
	}
	scaled := imaging.Resize(mask, stretched, height, imaging.Linear)

	origin := image.Pt(baseline.X, baseline.Y-ascent)
	r := image.Rectangle{Min: origin, Max: origin.Add(scaled.Bounds().Size())}
	draw.DrawMask(dst, r, src, image.Point{}, scaled, image.Point{}, draw.Over)
	return nil
}

// Name returns the font family name, or an empty string.
func (f *Font) Name() string {
	name, err := f.otf.Name(nil, sfnt.NameIDFamily)
	if err != nil {
		return ""
	}
	return name
}

// fixedToFloat64 converts fixed.Int26_6 to float64.
func fixedToFloat64(x fixed.Int26_6) float64 {
	return float64(x) / 64.0
}
