// Package service implements the request-level operations shared by the
// HTTP and MCP front ends: template rendering, single-image transforms,
// color fills, color blends and merges.
package service

import (
	"context"
	"image"
	"image/color"
	"log/slog"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	apperr "github.com/ironsheep/imagegen-service/internal/errors"
	imgcodec "github.com/ironsheep/imagegen-service/internal/imaging"
	"github.com/ironsheep/imagegen-service/internal/logging"
	"github.com/ironsheep/imagegen-service/internal/source"
	"github.com/ironsheep/imagegen-service/internal/template"
	"github.com/ironsheep/imagegen-service/internal/workpool"
)

// InputSize is the square size images are resolved at for transforms,
// blends and merges.
const InputSize = 256

// Catalog looks up configured templates.
type Catalog interface {
	Template(name string) (*template.Template, error)
	TemplateList() []*template.Template
}

// Renderer validates and processes templates.
type Renderer interface {
	Validate(t *template.Template, in template.Input) error
	Process(ctx context.Context, t *template.Template, in template.Input) (*image.NRGBA, error)
}

// Resolver turns sources into images.
type Resolver interface {
	Resolve(ctx context.Context, src source.Source, size uint32) (image.Image, error)
}

// Options configures a Service.
type Options struct {
	Catalog  Catalog
	Renderer Renderer
	Resolver Resolver
	Pool     *workpool.Pool

	BlurSigma     float64
	ColorfillSize uint32
	// TextMaxLen caps the length, in characters, of each template text.
	// Zero means no cap.
	TextMaxLen int

	Logger *slog.Logger
}

// Service is safe for concurrent use.
type Service struct {
	catalog       Catalog
	renderer      Renderer
	resolver      Resolver
	pool          *workpool.Pool
	blurSigma     float64
	colorfillSize uint32
	textMaxLen    int
	logger        *slog.Logger
}

// New creates a Service.
func New(opts Options) *Service {
	pool := opts.Pool
	if pool == nil {
		pool = workpool.New(0)
	}
	return &Service{
		catalog:       opts.Catalog,
		renderer:      opts.Renderer,
		resolver:      opts.Resolver,
		pool:          pool,
		blurSigma:     opts.BlurSigma,
		colorfillSize: opts.ColorfillSize,
		textMaxLen:    opts.TextMaxLen,
		logger:        logging.OrDefault(opts.Logger),
	}
}

// TemplateInfo summarizes a template for listings.
type TemplateInfo struct {
	Name   string `json:"name"`
	Images int    `json:"images"`
	Texts  int    `json:"texts"`
}

// Templates lists the configured templates in configuration order.
func (s *Service) Templates() []TemplateInfo {
	list := s.catalog.TemplateList()
	out := make([]TemplateInfo, 0, len(list))
	for _, t := range list {
		images, texts := t.Counts()
		out = append(out, TemplateInfo{Name: t.Name, Images: images, Texts: texts})
	}
	return out
}

// Template renders the template called name with in.
func (s *Service) Template(ctx context.Context, name string, in template.Input) (*image.NRGBA, error) {
	t, err := s.catalog.Template(name)
	if err != nil {
		return nil, err
	}
	if s.textMaxLen > 0 {
		for i, text := range in.Texts {
			if n := utf8.RuneCountInString(text); n > s.textMaxLen {
				return nil, apperr.Newf(apperr.KindInput, "service.template",
					"Text %d is too long (%d characters), must be at most %d", i, n, s.textMaxLen)
			}
		}
	}
	if err := s.renderer.Validate(t, in); err != nil {
		return nil, err
	}

	img, err := s.renderer.Process(ctx, t, in)
	if err != nil {
		s.logger.Warn("template render failed", "template", name, "error", err)
		return nil, err
	}
	s.logger.Info("template rendered", "template", name, "images", len(in.Images), "texts", len(in.Texts))
	return img, nil
}

// Transform resolves src and applies a single-image operation.
func (s *Service) Transform(ctx context.Context, op imgcodec.Op, src source.Source) (image.Image, error) {
	if _, err := imgcodec.ParseOp(string(op)); err != nil {
		return nil, err
	}
	img, err := s.resolver.Resolve(ctx, src, InputSize)
	if err != nil {
		return nil, err
	}
	return workpool.Run(ctx, s.pool, "service.transform", func() (image.Image, error) {
		return imgcodec.Transform(img, op, s.blurSigma)
	})
}

// Color returns a solid square of the configured fill size.
func (s *Service) Color(ctx context.Context, r, g, b uint8) (image.Image, error) {
	size := int(s.colorfillSize)
	s.logger.Debug("color fill", "color", imgcodec.HexString(color.NRGBA{R: r, G: g, B: b, A: 255}), "size", size)
	return workpool.Run(ctx, s.pool, "service.color", func() (image.Image, error) {
		return imgcodec.FillColor([3]uint8{r, g, b}, size, size)
	})
}

// ColorBlend resolves src and mixes it half and half with a color.
func (s *Service) ColorBlend(ctx context.Context, src source.Source, r, g, b uint8) (image.Image, error) {
	img, err := s.resolver.Resolve(ctx, src, InputSize)
	if err != nil {
		return nil, err
	}
	return workpool.Run(ctx, s.pool, "service.colorblend", func() (image.Image, error) {
		return imgcodec.BlendColor(img, [3]uint8{r, g, b}), nil
	})
}

// Merge resolves exactly two sources and averages them over their common
// top-left area.
func (s *Service) Merge(ctx context.Context, srcs []source.Source) (image.Image, error) {
	if len(srcs) != 2 {
		return nil, apperr.New(apperr.KindInput, "service.merge", "Invalid number of images, expected 2")
	}

	var imgs [2]image.Image
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range srcs {
		g.Go(func() error {
			img, err := s.resolver.Resolve(gctx, src, InputSize)
			if err != nil {
				return err
			}
			imgs[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return workpool.Run(ctx, s.pool, "service.merge", func() (image.Image, error) {
		return imgcodec.Merge(imgs[0], imgs[1]), nil
	})
}
