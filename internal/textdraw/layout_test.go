package textdraw

import (
	"image"
	"image/color"
	"image/draw"
	"reflect"
	"testing"
)

// fixedFace has a constant line height and a fixed advance per rune.
type fixedFace struct {
	lineHeight float64
	advance    float64
	calls      []drawCall
}

type drawCall struct {
	text   string
	origin image.Point
}

func (f *fixedFace) VMetrics(Scale) VMetrics {
	return VMetrics{Ascent: f.lineHeight, Descent: 0}
}

func (f *fixedFace) AdvanceWidth(text string, _ Scale) float64 {
	return float64(len([]rune(text))) * f.advance
}

func (f *fixedFace) DrawString(_ draw.Image, _ image.Image, text string, _ Scale, baseline image.Point) error {
	f.calls = append(f.calls, drawCall{text: text, origin: baseline})
	return nil
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"one", []string{"one"}},
		{"one\ntwo", []string{"one", "two"}},
		{"one\n", []string{"one"}},
		{"one\r\ntwo", []string{"one", "two"}},
		{"a\n\nb", []string{"a", "", "b"}},
		{"\n", []string{""}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := SplitLines(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitLines(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLayout_TwoLines(t *testing.T) {
	face := &fixedFace{lineHeight: 30, advance: 10}
	lines := Layout(face, "Hello\nHi", Uniform(30), image.Pt(100, 100))

	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Origin.Y != 85 {
		t.Errorf("line 0 Y = %d, want 85", lines[0].Origin.Y)
	}
	if lines[1].Origin.Y != 115 {
		t.Errorf("line 1 Y = %d, want 115", lines[1].Origin.Y)
	}
	// each line centered on its own width
	if lines[0].Origin.X != 100-25 {
		t.Errorf("line 0 X = %d, want 75", lines[0].Origin.X)
	}
	if lines[1].Origin.X != 100-10 {
		t.Errorf("line 1 X = %d, want 90", lines[1].Origin.X)
	}
}

func TestLayout_OddLineHeightRoundsSymmetrically(t *testing.T) {
	face := &fixedFace{lineHeight: 25, advance: 4}
	lines := Layout(face, "ab\ncd", Uniform(25), image.Pt(100, 100))

	// round(12.5) = 13 on both sides
	if lines[0].Origin.Y != 87 || lines[1].Origin.Y != 113 {
		t.Errorf("got Y %d/%d, want 87/113", lines[0].Origin.Y, lines[1].Origin.Y)
	}
}

func TestLayout_SingleLineOnAnchor(t *testing.T) {
	face := &fixedFace{lineHeight: 40, advance: 8}
	lines := Layout(face, "abcd", Uniform(40), image.Pt(50, 60))

	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Origin != image.Pt(34, 60) {
		t.Errorf("origin = %v, want (34,60)", lines[0].Origin)
	}
}

func TestLayout_EmptyLinesKeepTheirSlot(t *testing.T) {
	face := &fixedFace{lineHeight: 20, advance: 10}
	lines := Layout(face, "a\n\nb", Uniform(20), image.Pt(0, 100))

	if len(lines) != 2 {
		t.Fatalf("expected 2 drawn lines, got %d", len(lines))
	}
	if lines[0].Index != 0 || lines[1].Index != 2 {
		t.Errorf("indices = %d,%d, want 0,2", lines[0].Index, lines[1].Index)
	}
	if lines[0].Origin.Y != 80 || lines[1].Origin.Y != 120 {
		t.Errorf("Y = %d,%d, want 80,120", lines[0].Origin.Y, lines[1].Origin.Y)
	}
}

func TestLayout_Empty(t *testing.T) {
	face := &fixedFace{lineHeight: 20, advance: 10}
	if lines := Layout(face, "", Uniform(20), image.Pt(0, 0)); len(lines) != 0 {
		t.Errorf("expected no lines, got %d", len(lines))
	}
}

func TestDraw_IssuesOneCallPerLine(t *testing.T) {
	face := &fixedFace{lineHeight: 30, advance: 10}
	dst := image.NewNRGBA(image.Rect(0, 0, 200, 200))

	lines, err := Draw(dst, color.White, face, "top\n\nbottom", Uniform(30), image.Pt(100, 100))
	if err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	if len(face.calls) != 2 || len(lines) != 2 {
		t.Fatalf("expected 2 draw calls, got %d", len(face.calls))
	}
	want := []drawCall{
		{text: "top", origin: image.Pt(85, 70)},
		{text: "bottom", origin: image.Pt(70, 130)},
	}
	if !reflect.DeepEqual(face.calls, want) {
		t.Errorf("calls = %+v, want %+v", face.calls, want)
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{"short", "Hi", 20, "Hi"},
		{"wraps", "the quick brown fox", 10, "the quick\nbrown fox"},
		{"disabled", "the quick brown fox", 0, "the quick brown fox"},
		{"keeps breaks", "a\nb", 10, "a\nb"},
		{"splits long word", "abcdefghijklmnopqrstuvwxyz hi", 10, "abcdefghij\nklmnopqrst\nuvwxyz hi"},
		{"word of exact width", "abcde fg", 5, "abcde\nfg"},
		{"long word after short", "hi abcdefgh", 4, "hi\nabcd\nefgh"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Wrap(tt.text, tt.width); got != tt.want {
				t.Errorf("Wrap(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
			}
		})
	}
}
