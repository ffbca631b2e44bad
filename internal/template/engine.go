package template

import (
	"context"
	"image"
	"log/slog"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	apperr "github.com/ironsheep/imagegen-service/internal/errors"
	imgcodec "github.com/ironsheep/imagegen-service/internal/imaging"
	"github.com/ironsheep/imagegen-service/internal/logging"
	"github.com/ironsheep/imagegen-service/internal/source"
	"github.com/ironsheep/imagegen-service/internal/textdraw"
	"github.com/ironsheep/imagegen-service/internal/workpool"
)

// Assets supplies base images and fonts.
type Assets interface {
	GetBytes(ctx context.Context, name string) ([]byte, error)
	GetFont(ctx context.Context, name string) (*textdraw.Font, error)
}

// Resolver turns overlay sources into images.
type Resolver interface {
	Resolve(ctx context.Context, src source.Source, size uint32) (image.Image, error)
}

// Options configures an Engine.
type Options struct {
	Assets      Assets
	Resolver    Resolver
	Pool        *workpool.Pool
	Filter      imaging.ResampleFilter
	DefaultFont string
	Logger      *slog.Logger
}

// Engine validates and processes templates. It holds no per-request state
// and is safe for concurrent use.
type Engine struct {
	assets      Assets
	resolver    Resolver
	pool        *workpool.Pool
	filter      imaging.ResampleFilter
	defaultFont string
	logger      *slog.Logger
}

// NewEngine creates an Engine.
func NewEngine(opts Options) *Engine {
	pool := opts.Pool
	if pool == nil {
		pool = workpool.New(0)
	}
	return &Engine{
		assets:      opts.Assets,
		resolver:    opts.Resolver,
		pool:        pool,
		filter:      opts.Filter,
		defaultFont: opts.DefaultFont,
		logger:      logging.OrDefault(opts.Logger),
	}
}

// Validate checks that in supplies exactly one image per Overlay and one
// text per DrawText in t.
func (e *Engine) Validate(t *Template, in Input) error {
	overlays, texts := t.Counts()
	if len(in.Images) != overlays {
		return apperr.Newf(apperr.KindInput, "template.validate", "Invalid number of images, expected %d", overlays)
	}
	if len(in.Texts) != texts {
		return apperr.Newf(apperr.KindInput, "template.validate", "Invalid number of texts, expected %d", texts)
	}
	return nil
}

// boundOverlay pairs an Overlay operation with its input image.
type boundOverlay struct {
	op  Overlay
	src source.Source
}

// bindOverlays filters t's operations down to overlays and zips them with
// the input images in order.
func bindOverlays(t *Template, images []source.Source) []boundOverlay {
	var bound []boundOverlay
	for _, op := range t.Operations {
		if o, ok := op.(Overlay); ok {
			bound = append(bound, boundOverlay{op: o, src: images[len(bound)]})
		}
	}
	return bound
}

// Process renders t with in and returns the final image. The input is
// validated first.
func (e *Engine) Process(ctx context.Context, t *Template, in Input) (*image.NRGBA, error) {
	if err := e.Validate(t, in); err != nil {
		return nil, err
	}
	start := time.Now()

	base, err := e.loadBase(ctx, t.Startfile)
	if err != nil {
		return nil, err
	}

	layers, err := e.resolveOverlays(ctx, bindOverlays(t, in.Images))
	if err != nil {
		return nil, err
	}

	nextLayer, nextText := 0, 0
	for i, op := range t.Operations {
		switch v := op.(type) {
		case Overlay:
			err = e.applyOverlay(ctx, base, v, layers[nextLayer])
			nextLayer++
		case DrawText:
			err = e.applyText(ctx, base, v, in.Texts[nextText])
			nextText++
		default:
			err = apperr.Newf(apperr.KindInternal, "template.process", "unknown operation %T", op)
		}
		if err != nil {
			e.logger.Debug("template operation failed", "template", t.Name, "index", i, "operation", op.Name(), "error", err)
			return nil, err
		}
	}

	e.logger.Debug("template processed",
		"template", t.Name,
		"operations", len(t.Operations),
		"duration", time.Since(start))
	return base, nil
}

// loadBase decodes the template's base image into a private mutable copy.
func (e *Engine) loadBase(ctx context.Context, name string) (*image.NRGBA, error) {
	data, err := e.assets.GetBytes(ctx, name)
	if err != nil {
		return nil, err
	}
	return workpool.Run(ctx, e.pool, "template.base", func() (*image.NRGBA, error) {
		img, err := imgcodec.Decode(data)
		if err != nil {
			return nil, err
		}
		return imaging.Clone(img), nil
	})
}

// resolveOverlays resolves every bound source concurrently. Results keep
// the binding order.
func (e *Engine) resolveOverlays(ctx context.Context, bound []boundOverlay) ([]image.Image, error) {
	layers := make([]image.Image, len(bound))
	g, gctx := errgroup.WithContext(ctx)
	for i, b := range bound {
		g.Go(func() error {
			img, err := e.resolver.Resolve(gctx, b.src, b.op.InputSize)
			if err != nil {
				return err
			}
			layers[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return layers, nil
}

func (e *Engine) applyOverlay(ctx context.Context, dst *image.NRGBA, op Overlay, layer image.Image) error {
	return e.pool.Do(ctx, "template.overlay", func() error {
		resized, err := imgcodec.ResizeToFit(layer, int(op.Resize[0]), int(op.Resize[1]), e.filter)
		if err != nil {
			return err
		}
		imgcodec.Overlay(dst, resized, image.Pt(int(op.Coords[0]), int(op.Coords[1])))
		return nil
	})
}

func (e *Engine) applyText(ctx context.Context, dst *image.NRGBA, op DrawText, text string) error {
	name := op.Font
	if name == "" {
		name = e.defaultFont
	}
	face, err := e.assets.GetFont(ctx, name)
	if err != nil {
		return err
	}

	wrapped := textdraw.Wrap(text, op.MaxWidth)
	anchor := image.Pt(int(op.Coords[0]), int(op.Coords[1]))
	return e.pool.Do(ctx, "template.drawtext", func() error {
		_, err := textdraw.Draw(dst, op.Color, face, wrapped, op.Scale, anchor)
		return err
	})
}
