package template

import (
	"fmt"
	"image/color"

	apperr "github.com/ironsheep/imagegen-service/internal/errors"
	"github.com/ironsheep/imagegen-service/internal/source"
	"github.com/ironsheep/imagegen-service/internal/textdraw"
)

// Operation is one step of a Template. The set of implementations is
// closed: Overlay and DrawText.
type Operation interface {
	// Name returns "overlay" or "drawtext".
	Name() string
	isOperation()
}

// Overlay pastes an input image onto the working image.
type Overlay struct {
	// Coords is the top-left corner of the pasted image.
	Coords [2]uint32
	// Resize is the width and height the image is scaled to before pasting.
	Resize [2]uint32
	// InputSize is the square size the source is resolved at. Zero keeps
	// the natural size.
	InputSize uint32
}

// DrawText renders input text centered on Coords.
type DrawText struct {
	Coords [2]uint32
	// Color defaults to fully transparent.
	Color color.NRGBA
	Scale textdraw.Scale
	// MaxWidth is the word wrap width in characters. Zero disables wrapping.
	MaxWidth int
	// Font names the font asset. Empty selects the default font.
	Font string
}

func (Overlay) Name() string  { return "overlay" }
func (DrawText) Name() string { return "drawtext" }

func (Overlay) isOperation()  {}
func (DrawText) isOperation() {}

// Template is a named, ordered list of operations applied to a base image.
type Template struct {
	Name       string
	Startfile  string
	Operations []Operation
}

// Counts returns the number of Overlay and DrawText operations.
func (t *Template) Counts() (overlays, texts int) {
	for _, op := range t.Operations {
		switch op.(type) {
		case Overlay:
			overlays++
		case DrawText:
			texts++
		}
	}
	return overlays, texts
}

// Check reports structural problems in a template definition.
func (t *Template) Check() error {
	const op = "template.check"
	if t.Name == "" {
		return apperr.New(apperr.KindConfig, op, "template has no name")
	}
	if t.Startfile == "" {
		return apperr.Newf(apperr.KindConfig, op, "template %s has no startfile", t.Name)
	}
	for i, o := range t.Operations {
		switch v := o.(type) {
		case Overlay:
			if v.Resize[0] == 0 || v.Resize[1] == 0 {
				return apperr.Newf(apperr.KindConfig, op, "template %s operation %d: overlay resize must be positive", t.Name, i)
			}
		case DrawText:
			if v.Scale.X <= 0 || v.Scale.Y <= 0 {
				return apperr.Newf(apperr.KindConfig, op, "template %s operation %d: text scale must be positive", t.Name, i)
			}
			if v.MaxWidth < 0 {
				return apperr.Newf(apperr.KindConfig, op, "template %s operation %d: negative max width", t.Name, i)
			}
		case nil:
			return apperr.Newf(apperr.KindConfig, op, "template %s operation %d is empty", t.Name, i)
		default:
			return apperr.Newf(apperr.KindConfig, op, "template %s operation %d: unknown operation %T", t.Name, i, o)
		}
	}
	return nil
}

func (t *Template) String() string {
	o, d := t.Counts()
	return fmt.Sprintf("%s(%s, %d overlays, %d texts)", t.Name, t.Startfile, o, d)
}

// Input is the per-request data bound to a template.
type Input struct {
	Texts  []string    `json:"texts"`
	Images source.List `json:"images"`
}
