package source

import (
	"context"
	"encoding/base64"
	"image"
	"log/slog"
	"strings"

	"github.com/disintegration/imaging"

	apperr "github.com/ironsheep/imagegen-service/internal/errors"
	imgcodec "github.com/ironsheep/imagegen-service/internal/imaging"
	"github.com/ironsheep/imagegen-service/internal/logging"
	"github.com/ironsheep/imagegen-service/internal/workpool"
)

// defaultColorSize is the edge length of a synthesized color image when no
// size is requested.
const defaultColorSize = 1024

// DefaultMaxPixels bounds the decoded area of a source image.
const DefaultMaxPixels = 64 << 20

// AssetReader supplies the bytes of local files.
type AssetReader interface {
	GetBytes(ctx context.Context, name string) ([]byte, error)
}

// Options configures a Resolver.
type Options struct {
	Fetcher Fetcher
	Assets  AssetReader
	Pool    *workpool.Pool
	// AllowLocalFiles enables File sources.
	AllowLocalFiles bool
	// MaxPixels rejects images whose header declares a larger area.
	// Zero means DefaultMaxPixels.
	MaxPixels int
	Logger    *slog.Logger
}

// Resolver turns Sources into images. It is safe for concurrent use.
type Resolver struct {
	fetcher         Fetcher
	assets          AssetReader
	pool            *workpool.Pool
	allowLocalFiles bool
	maxPixels       int
	logger          *slog.Logger
}

// NewResolver creates a Resolver. A nil pool gets one sized to GOMAXPROCS.
func NewResolver(opts Options) *Resolver {
	pool := opts.Pool
	if pool == nil {
		pool = workpool.New(0)
	}
	maxPixels := opts.MaxPixels
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	return &Resolver{
		fetcher:         opts.Fetcher,
		assets:          opts.Assets,
		pool:            pool,
		allowLocalFiles: opts.AllowLocalFiles,
		maxPixels:       maxPixels,
		logger:          logging.OrDefault(opts.Logger),
	}
}

// Resolve produces the image described by src.
//
// A non-zero size makes the result exactly size x size. Zero keeps the
// natural dimensions, except for colors which default to 1024 square.
func (r *Resolver) Resolve(ctx context.Context, src Source, size uint32) (image.Image, error) {
	if c, ok := src.(Color); ok {
		return r.fill(ctx, c, size)
	}

	data, err := r.acquire(ctx, src, size)
	if err != nil {
		r.logger.Debug("failed to acquire image", "source", Describe(src), "error", err)
		return nil, err
	}
	if err := r.checkHeader(src, data); err != nil {
		return nil, err
	}

	img, err := workpool.Run(ctx, r.pool, "source.decode", func() (image.Image, error) {
		return imgcodec.Decode(data)
	})
	if err != nil {
		return nil, err
	}

	if size == 0 {
		return img, nil
	}
	b := img.Bounds()
	if b.Dx() == int(size) && b.Dy() == int(size) {
		return img, nil
	}
	return workpool.Run(ctx, r.pool, "source.resize", func() (image.Image, error) {
		return imaging.Resize(img, int(size), int(size), imaging.NearestNeighbor), nil
	})
}

// checkHeader reads the image header and rejects oversized images before
// any pixels are decoded.
func (r *Resolver) checkHeader(src Source, data []byte) error {
	cfg, format, err := imgcodec.DecodeConfig(data)
	if err != nil {
		return err
	}
	r.logger.Debug("decoding image", "source", Describe(src), "format", format, "width", cfg.Width, "height", cfg.Height)
	if cfg.Width*cfg.Height > r.maxPixels {
		return apperr.Newf(apperr.KindSizeLimit, "source.decode",
			"Image too large (%dx%d), must be at most %d pixels", cfg.Width, cfg.Height, r.maxPixels)
	}
	return nil
}

func (r *Resolver) fill(ctx context.Context, c Color, size uint32) (image.Image, error) {
	if size == 0 {
		size = defaultColorSize
	}
	return workpool.Run(ctx, r.pool, "source.fill", func() (image.Image, error) {
		return imgcodec.FillColor([3]uint8{c.R, c.G, c.B}, int(size), int(size))
	})
}

// acquire returns the encoded bytes for every non-color source.
func (r *Resolver) acquire(ctx context.Context, src Source, size uint32) ([]byte, error) {
	switch v := src.(type) {
	case Base64:
		data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(v.Data))
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInput, "source.base64", "Invalid base64 string provided", err)
		}
		return data, nil
	case File:
		if !r.allowLocalFiles {
			return nil, apperr.New(apperr.KindInput, "source.file", "Local file input is disabled.")
		}
		if r.assets == nil {
			return nil, apperr.New(apperr.KindInternal, "source.file", "no asset store configured")
		}
		return r.assets.GetBytes(ctx, v.Path)
	case GithubAsset:
		if err := r.requireFetcher(); err != nil {
			return nil, err
		}
		return fetchGithubAsset(ctx, r.fetcher, v)
	case DiscordProfile:
		return r.fetch(ctx, DiscordAvatarURL(v, size))
	case GithubProfile:
		return r.fetch(ctx, GithubAvatarURL(v, size))
	case Imgur:
		return r.fetch(ctx, ImgurURL(v, size))
	case nil:
		return nil, apperr.New(apperr.KindInput, "source.resolve", "missing image source")
	default:
		return nil, apperr.Newf(apperr.KindInternal, "source.resolve", "unhandled source %s", src.Tag())
	}
}

func (r *Resolver) fetch(ctx context.Context, url string) ([]byte, error) {
	if err := r.requireFetcher(); err != nil {
		return nil, err
	}
	return r.fetcher.Fetch(ctx, url)
}

func (r *Resolver) requireFetcher() error {
	if r.fetcher == nil {
		return apperr.New(apperr.KindInternal, "source.fetch", "no fetcher configured")
	}
	return nil
}
