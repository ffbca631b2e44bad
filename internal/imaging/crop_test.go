package imaging

import (
	"encoding/base64"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func TestNewResult(t *testing.T) {
	img := createPatternImage(100, 50)

	result, err := NewResult(img)
	if err != nil {
		t.Fatalf("NewResult failed: %v", err)
	}

	if result.Width != 100 || result.Height != 50 {
		t.Errorf("dimensions: got %dx%d, want 100x50", result.Width, result.Height)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", result.MimeType)
	}

	data, err := base64.StdEncoding.DecodeString(result.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	decoded, err := png.Decode(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}
	if decoded.Bounds().Dx() != 100 {
		t.Errorf("decoded width: got %d, want 100", decoded.Bounds().Dx())
	}
}

func TestCropToCommon(t *testing.T) {
	tests := []struct {
		name         string
		aW, aH       int
		bW, bH       int
		wantW, wantH int
	}{
		{"same size", 50, 50, 50, 50, 50, 50},
		{"a wider", 80, 40, 50, 60, 50, 40},
		{"b larger", 20, 30, 100, 100, 20, 30},
		{"mixed", 100, 10, 10, 100, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := createInMemoryImage(tt.aW, tt.aH, color.NRGBA{255, 0, 0, 255})
			b := createInMemoryImage(tt.bW, tt.bH, color.NRGBA{0, 0, 255, 255})

			ca, cb := CropToCommon(a, b)
			for _, img := range []struct {
				label string
				w, h  int
			}{
				{"a", ca.Bounds().Dx(), ca.Bounds().Dy()},
				{"b", cb.Bounds().Dx(), cb.Bounds().Dy()},
			} {
				if img.w != tt.wantW || img.h != tt.wantH {
					t.Errorf("%s: got %dx%d, want %dx%d", img.label, img.w, img.h, tt.wantW, tt.wantH)
				}
			}
		})
	}
}

func TestCropToCommon_KeepsTopLeft(t *testing.T) {
	a := createPatternImage(100, 100)
	b := createInMemoryImage(50, 50, color.NRGBA{0, 0, 0, 255})

	ca, _ := CropToCommon(a, b)
	// The 50x50 top-left of the pattern is entirely the red quadrant.
	if got := nrgbaAt(ca, 49, 49); got != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("pixel (49,49): got %v, want red", got)
	}
}
