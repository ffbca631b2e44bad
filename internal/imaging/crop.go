package imaging

import (
	"encoding/base64"
	"image"

	"github.com/disintegration/imaging"
)

// Result is an encoded image returned to MCP clients.
type Result struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// NewResult PNG-encodes img into a Result.
func NewResult(img image.Image) (*Result, error) {
	data, err := EncodePNG(img)
	if err != nil {
		return nil, err
	}
	return &Result{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		MimeType:    "image/png",
	}, nil
}

// CropToCommon crops both images from their top-left corners to the largest
// size both can provide: min width by min height.
func CropToCommon(a, b image.Image) (*image.NRGBA, *image.NRGBA) {
	ab, bb := a.Bounds(), b.Bounds()
	w := min(ab.Dx(), bb.Dx())
	h := min(ab.Dy(), bb.Dy())

	ca := imaging.Crop(a, image.Rect(ab.Min.X, ab.Min.Y, ab.Min.X+w, ab.Min.Y+h))
	cb := imaging.Crop(b, image.Rect(bb.Min.X, bb.Min.Y, bb.Min.X+w, bb.Min.Y+h))
	return ca, cb
}
