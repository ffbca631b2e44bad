// Package config loads the service configuration from a TOML or YAML file.
//
// Derived values are computed once at load: the resize filter name becomes
// an imaging.ResampleFilter and template tables become template.Template
// values. A configuration that fails any check is rejected as a whole.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	apperr "github.com/ironsheep/imagegen-service/internal/errors"
	imgcodec "github.com/ironsheep/imagegen-service/internal/imaging"
	"github.com/ironsheep/imagegen-service/internal/logging"
	"github.com/ironsheep/imagegen-service/internal/template"
	"github.com/ironsheep/imagegen-service/internal/textdraw"
)

// Environment variables that override file settings.
const (
	EnvHTTPAddr        = "IMAGEGEN_HTTP_ADDR"
	EnvLogLevel        = "IMAGEGEN_LOG_LEVEL"
	EnvAllowLocalFiles = "IMAGEGEN_ALLOW_LOCAL_FILES"
)

// Defaults applied to unset fields.
const (
	DefaultHTTPAddr           = ":8000"
	DefaultResizeFilter       = "lanczos"
	DefaultColorfillImageSize = 512
	DefaultBlurSigma          = 3.0
	DefaultTextMaxLen         = 256
	DefaultUserAgent          = "imagegen-service"
	DefaultFetchTimeout       = "15s"
	DefaultRedisPrefix        = "imagegen:asset:"
)

// Config is the full service configuration.
type Config struct {
	Templates           []TemplateSpec `toml:"templates" yaml:"templates"`
	DefaultFont         string         `toml:"default_font" yaml:"default_font"`
	TextMaxLen          int            `toml:"textdraw_text_max_len" yaml:"textdraw_text_max_len"`
	BlurSigma           float64        `toml:"blur_sigma" yaml:"blur_sigma"`
	ColorfillImageSize  uint32         `toml:"colorfill_image_size" yaml:"colorfill_image_size"`
	AllowLocalFileInput bool           `toml:"allow_local_file_input" yaml:"allow_local_file_input"`
	ResizeFilter        string         `toml:"resize_filter" yaml:"resize_filter"`
	Workers             int            `toml:"workers" yaml:"workers"`

	HTTP   HTTPConfig   `toml:"http" yaml:"http"`
	Log    LogConfig    `toml:"log" yaml:"log"`
	Assets AssetsConfig `toml:"assets" yaml:"assets"`
	Fetch  FetchConfig  `toml:"fetch" yaml:"fetch"`

	filter    imaging.ResampleFilter
	templates map[string]*template.Template
	ordered   []*template.Template
}

// HTTPConfig configures the HTTP listener.
type HTTPConfig struct {
	Addr string `toml:"addr" yaml:"addr"`
	// CORSOrigins lists allowed origins. Empty allows all.
	CORSOrigins []string `toml:"cors_origins" yaml:"cors_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
	Dir    string `toml:"dir" yaml:"dir"`
	File   string `toml:"file" yaml:"file"`
}

// AssetsConfig selects where templates, base images and fonts are read from.
type AssetsConfig struct {
	// Backend is "file" (default) or "redis".
	Backend     string `toml:"backend" yaml:"backend"`
	Root        string `toml:"root" yaml:"root"`
	RedisAddr   string `toml:"redis_addr" yaml:"redis_addr"`
	RedisPrefix string `toml:"redis_prefix" yaml:"redis_prefix"`
}

// FetchConfig configures the outbound HTTP client.
type FetchConfig struct {
	UserAgent string `toml:"user_agent" yaml:"user_agent"`
	Timeout   string `toml:"timeout" yaml:"timeout"`

	timeout time.Duration
}

// TemplateSpec is the file form of a template.
type TemplateSpec struct {
	Name       string          `toml:"name" yaml:"name"`
	Startfile  string          `toml:"startfile" yaml:"startfile"`
	Operations []OperationSpec `toml:"operations" yaml:"operations"`
}

// OperationSpec is the file form of an operation. Exactly one field is set.
type OperationSpec struct {
	Overlay  *OverlaySpec  `toml:"overlay" yaml:"overlay"`
	DrawText *DrawTextSpec `toml:"drawtext" yaml:"drawtext"`
}

// OverlaySpec is the file form of template.Overlay.
type OverlaySpec struct {
	Coords    []uint32 `toml:"coords" yaml:"coords"`
	Resize    []uint32 `toml:"resize" yaml:"resize"`
	InputSize uint32   `toml:"input_size" yaml:"input_size"`
}

// DrawTextSpec is the file form of template.DrawText.
type DrawTextSpec struct {
	Coords   []uint32  `toml:"coords" yaml:"coords"`
	Color    []int     `toml:"color" yaml:"color"`
	// ColorHex is an opaque "#rrggbb" alternative to Color.
	ColorHex string    `toml:"color_hex" yaml:"color_hex"`
	Scale    []float64 `toml:"scale" yaml:"scale"`
	MaxWidth int       `toml:"max_width" yaml:"max_width"`
	Font     string    `toml:"font" yaml:"font"`
}

// Load reads path, applies .env and environment overrides, fills defaults,
// and validates the result.
//
// A .env file next to the working directory is loaded first when present.
// The format is chosen by extension: .toml, .yaml or .yml.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, apperr.Wrap(apperr.KindConfig, "config.load", "failed to load .env", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindConfig, "config.load", "failed to read config file", err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes configuration data in the format named by ext and
// finalizes it like Load.
func Parse(data []byte, ext string) (*Config, error) {
	cfg := &Config{}

	var err error
	switch strings.ToLower(ext) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, apperr.Newf(apperr.KindConfig, "config.parse", "unsupported config format %q", ext)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindConfig, "config.parse", "failed to parse config", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvHTTPAddr); v != "" {
		c.HTTP.Addr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvAllowLocalFiles); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.AllowLocalFileInput = b
		}
	}
}

func (c *Config) applyDefaults() {
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = DefaultHTTPAddr
	}
	if c.ResizeFilter == "" {
		c.ResizeFilter = DefaultResizeFilter
	}
	if c.ColorfillImageSize == 0 {
		c.ColorfillImageSize = DefaultColorfillImageSize
	}
	if c.BlurSigma == 0 {
		c.BlurSigma = DefaultBlurSigma
	}
	if c.TextMaxLen == 0 {
		c.TextMaxLen = DefaultTextMaxLen
	}
	if c.Assets.Backend == "" {
		c.Assets.Backend = "file"
	}
	if c.Assets.RedisPrefix == "" {
		c.Assets.RedisPrefix = DefaultRedisPrefix
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = DefaultUserAgent
	}
	if c.Fetch.Timeout == "" {
		c.Fetch.Timeout = DefaultFetchTimeout
	}
}

// finalize validates the configuration and computes derived values.
func (c *Config) finalize() error {
	const op = "config.validate"

	filter, err := imgcodec.ParseFilter(c.ResizeFilter)
	if err != nil {
		return err
	}
	c.filter = filter

	timeout, err := time.ParseDuration(c.Fetch.Timeout)
	if err != nil || timeout < 0 {
		return apperr.Newf(apperr.KindConfig, op, "invalid fetch timeout %q", c.Fetch.Timeout)
	}
	c.Fetch.timeout = timeout

	if c.DefaultFont == "" {
		return apperr.New(apperr.KindConfig, op, "default_font is required")
	}
	if c.TextMaxLen < 0 {
		return apperr.New(apperr.KindConfig, op, "textdraw_text_max_len must not be negative")
	}
	if c.BlurSigma < 0 {
		return apperr.New(apperr.KindConfig, op, "blur_sigma must not be negative")
	}
	if c.Workers < 0 {
		return apperr.New(apperr.KindConfig, op, "workers must not be negative")
	}
	switch c.Assets.Backend {
	case "file":
	case "redis":
		if c.Assets.RedisAddr == "" {
			return apperr.New(apperr.KindConfig, op, "assets.redis_addr is required for the redis backend")
		}
	default:
		return apperr.Newf(apperr.KindConfig, op, "unknown assets backend %q", c.Assets.Backend)
	}

	c.templates = make(map[string]*template.Template, len(c.Templates))
	c.ordered = make([]*template.Template, 0, len(c.Templates))
	for i, spec := range c.Templates {
		t, err := spec.build()
		if err != nil {
			return apperr.Wrap(apperr.KindConfig, op, fmt.Sprintf("template %d", i), err)
		}
		if _, dup := c.templates[t.Name]; dup {
			return apperr.Newf(apperr.KindConfig, op, "duplicate template name %q", t.Name)
		}
		c.templates[t.Name] = t
		c.ordered = append(c.ordered, t)
	}
	return nil
}

func (s TemplateSpec) build() (*template.Template, error) {
	t := &template.Template{
		Name:       s.Name,
		Startfile:  s.Startfile,
		Operations: make([]template.Operation, 0, len(s.Operations)),
	}
	for i, o := range s.Operations {
		op, err := o.build()
		if err != nil {
			return nil, apperr.Newf(apperr.KindConfig, "config.template", "template %s operation %d: %s", s.Name, i, apperr.MessageOf(err))
		}
		t.Operations = append(t.Operations, op)
	}
	if err := t.Check(); err != nil {
		return nil, err
	}
	return t, nil
}

func (o OperationSpec) build() (template.Operation, error) {
	const op = "config.operation"
	switch {
	case o.Overlay != nil && o.DrawText != nil:
		return nil, apperr.New(apperr.KindConfig, op, "operation sets both overlay and drawtext")
	case o.Overlay != nil:
		coords, err := pair(o.Overlay.Coords, "coords")
		if err != nil {
			return nil, err
		}
		resize, err := pair(o.Overlay.Resize, "resize")
		if err != nil {
			return nil, err
		}
		return template.Overlay{Coords: coords, Resize: resize, InputSize: o.Overlay.InputSize}, nil
	case o.DrawText != nil:
		dt := o.DrawText
		coords, err := pair(dt.Coords, "coords")
		if err != nil {
			return nil, err
		}
		if len(dt.Scale) != 2 {
			return nil, apperr.Newf(apperr.KindConfig, op, "scale must have 2 values, got %d", len(dt.Scale))
		}
		var c color.NRGBA
		switch len(dt.Color) {
		case 0:
			if dt.ColorHex != "" {
				hex, err := imgcodec.ParseHexColor(dt.ColorHex)
				if err != nil {
					return nil, apperr.Newf(apperr.KindConfig, op, "invalid color_hex %q", dt.ColorHex)
				}
				c = hex
			}
		case 4:
			if dt.ColorHex != "" {
				return nil, apperr.New(apperr.KindConfig, op, "set either color or color_hex, not both")
			}
			for _, v := range dt.Color {
				if v < 0 || v > 255 {
					return nil, apperr.Newf(apperr.KindConfig, op, "color component %d out of range", v)
				}
			}
			c = color.NRGBA{R: uint8(dt.Color[0]), G: uint8(dt.Color[1]), B: uint8(dt.Color[2]), A: uint8(dt.Color[3])}
		default:
			return nil, apperr.Newf(apperr.KindConfig, op, "color must have 4 values, got %d", len(dt.Color))
		}
		return template.DrawText{
			Coords:   coords,
			Color:    c,
			Scale:    textdraw.Scale{X: dt.Scale[0], Y: dt.Scale[1]},
			MaxWidth: dt.MaxWidth,
			Font:     dt.Font,
		}, nil
	default:
		return nil, apperr.New(apperr.KindConfig, op, "operation sets neither overlay nor drawtext")
	}
}

func pair(v []uint32, field string) ([2]uint32, error) {
	if len(v) != 2 {
		return [2]uint32{}, apperr.Newf(apperr.KindConfig, "config.operation", "%s must have 2 values, got %d", field, len(v))
	}
	return [2]uint32{v[0], v[1]}, nil
}

// Filter returns the parsed resize filter.
func (c *Config) Filter() imaging.ResampleFilter {
	return c.filter
}

// FetchTimeout returns the parsed outbound request timeout.
func (c *Config) FetchTimeout() time.Duration {
	return c.Fetch.timeout
}

// Template returns the template called name.
func (c *Config) Template(name string) (*template.Template, error) {
	t, ok := c.templates[name]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "config.template", "The requested image template is not found")
	}
	return t, nil
}

// TemplateList returns every template in file order.
func (c *Config) TemplateList() []*template.Template {
	return c.ordered
}

// Fonts returns the default font and every font named by a template,
// without duplicates.
func (c *Config) Fonts() []string {
	seen := map[string]bool{c.DefaultFont: true}
	fonts := []string{c.DefaultFont}
	for _, t := range c.ordered {
		for _, op := range t.Operations {
			if dt, ok := op.(template.DrawText); ok && dt.Font != "" && !seen[dt.Font] {
				seen[dt.Font] = true
				fonts = append(fonts, dt.Font)
			}
		}
	}
	return fonts
}

// Logging returns the logging settings.
func (c *Config) Logging() logging.Config {
	return logging.Config{
		Level:  c.Log.Level,
		Format: c.Log.Format,
		Dir:    c.Log.Dir,
		File:   c.Log.File,
	}
}
