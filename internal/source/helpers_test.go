package source

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	apperr "github.com/ironsheep/imagegen-service/internal/errors"
)

// fakeFetcher serves canned responses keyed by URL and records requests.
type fakeFetcher struct {
	mu        sync.Mutex
	responses map[string]fakeResponse
	requested []string
}

type fakeResponse struct {
	body   []byte
	status int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{responses: make(map[string]fakeResponse)}
}

func (f *fakeFetcher) serve(url string, status int, body []byte) {
	f.responses[url] = fakeResponse{body: body, status: status}
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requested = append(f.requested, url)

	resp, ok := f.responses[url]
	if !ok {
		return nil, apperr.New(apperr.KindTransport, "fake.fetch", "no route to "+url)
	}
	if resp.status >= 300 {
		return nil, apperr.Wrap(apperr.KindTransport, "fake.fetch", "failed to fetch "+url,
			&StatusError{URL: url, StatusCode: resp.status, Body: resp.body})
	}
	return resp.body, nil
}

func (f *fakeFetcher) urls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requested...)
}

// fakeAssets is an in-memory AssetReader.
type fakeAssets map[string][]byte

func (a fakeAssets) GetBytes(_ context.Context, name string) ([]byte, error) {
	data, ok := a[name]
	if !ok {
		return nil, apperr.New(apperr.KindInput, "fake.assets", "failed to read asset "+name)
	}
	return data, nil
}

// pngBytes encodes a solid color PNG for testing.
func pngBytes(t *testing.T, width, height int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func nrgbaAt(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}
