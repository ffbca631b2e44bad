package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder

	apperr "github.com/ironsheep/imagegen-service/internal/errors"
)

// Decode decodes image bytes, detecting the container format from the data.
//
// Supported formats are PNG, JPEG, GIF, BMP, TIFF and WebP. Bytes that match
// none of them produce a decode-kind error.
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, apperr.New(apperr.KindDecode, "imaging.decode", "empty image data")
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDecode, "imaging.decode", "failed to decode image", err)
	}
	return img, nil
}

// DecodeConfig returns the dimensions and format name of encoded image data
// without decoding the pixels.
func DecodeConfig(data []byte) (image.Config, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return image.Config{}, "", apperr.Wrap(apperr.KindDecode, "imaging.decode_config", "failed to read image header", err)
	}
	return cfg, format, nil
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
