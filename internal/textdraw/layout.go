package textdraw

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"
)

// Face is what layout and drawing need from a font.
type Face interface {
	VMetrics(scale Scale) VMetrics
	AdvanceWidth(text string, scale Scale) float64
	DrawString(dst draw.Image, src image.Image, text string, scale Scale, baseline image.Point) error
}

// Line is one positioned line of text.
type Line struct {
	Text  string
	Index int
	Width float64
	// Origin is the left end of the line's baseline.
	Origin image.Point
}

// SplitLines splits text on line breaks. A trailing line break does not
// start a new line and a "\r" before "\n" is dropped.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// Layout computes the draw position of every non-empty line of text,
// centered on anchor.
func Layout(face Face, text string, scale Scale, anchor image.Point) []Line {
	lines := SplitLines(text)
	n := len(lines)
	if n == 0 {
		return nil
	}

	lineHeight := face.VMetrics(scale).LineHeight()
	mid := float64(n-1) / 2

	out := make([]Line, 0, n)
	for i, text := range lines {
		if text == "" {
			continue
		}
		width := face.AdvanceWidth(text, scale)
		offset := int(math.Round((float64(i) - mid) * lineHeight))
		out = append(out, Line{
			Text:  text,
			Index: i,
			Width: width,
			Origin: image.Point{
				X: anchor.X - int(width)/2,
				Y: anchor.Y + offset,
			},
		})
	}
	return out
}

// Draw lays out text around anchor and renders every line onto dst in c.
// It returns the placed lines.
func Draw(dst draw.Image, c color.Color, face Face, text string, scale Scale, anchor image.Point) ([]Line, error) {
	lines := Layout(face, text, scale, anchor)
	src := image.NewUniform(c)
	for _, line := range lines {
		if err := face.DrawString(dst, src, line.Text, scale, line.Origin); err != nil {
			return nil, err
		}
	}
	return lines, nil
}
