package httpapi

import (
	"encoding/json"
	"errors"
	"image"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"

	apperr "github.com/ironsheep/imagegen-service/internal/errors"
	"github.com/ironsheep/imagegen-service/internal/imaging"
	"github.com/ironsheep/imagegen-service/internal/service"
	"github.com/ironsheep/imagegen-service/internal/source"
	"github.com/ironsheep/imagegen-service/internal/template"
)

// kindJSONParse marks a request body that is not valid JSON.
const kindJSONParse = "json_parse"

type handlers struct {
	svc    *service.Service
	logger *slog.Logger
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handlers) listTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"templates": h.svc.Templates()})
}

func (h *handlers) renderTemplate(c *gin.Context) {
	body, ok := readJSON(c)
	if !ok {
		return
	}
	var raw struct {
		Texts  []string        `json:"texts"`
		Images json.RawMessage `json:"images"`
	}
	if err := sonic.Unmarshal(body, &raw); err != nil {
		writeJSONError(c, http.StatusBadRequest, kindJSONParse, err.Error())
		return
	}
	in := template.Input{Texts: raw.Texts}
	if len(raw.Images) > 0 {
		if err := in.Images.UnmarshalJSON(raw.Images); err != nil {
			writeError(c, err)
			return
		}
	}

	img, err := h.svc.Template(c.Request.Context(), c.Param("name"), in)
	respondImage(c, img, err)
}

func (h *handlers) transform(op imaging.Op) gin.HandlerFunc {
	return func(c *gin.Context) {
		src, ok := readSource(c)
		if !ok {
			return
		}
		img, err := h.svc.Transform(c.Request.Context(), op, src)
		respondImage(c, img, err)
	}
}

func (h *handlers) color(c *gin.Context) {
	rgb, ok := queryRGB(c)
	if !ok {
		return
	}
	img, err := h.svc.Color(c.Request.Context(), rgb[0], rgb[1], rgb[2])
	respondImage(c, img, err)
}

func (h *handlers) colorBlend(c *gin.Context) {
	rgb, ok := queryRGB(c)
	if !ok {
		return
	}
	src, ok := readSource(c)
	if !ok {
		return
	}
	img, err := h.svc.ColorBlend(c.Request.Context(), src, rgb[0], rgb[1], rgb[2])
	respondImage(c, img, err)
}

func (h *handlers) merge(c *gin.Context) {
	body, ok := readJSON(c)
	if !ok {
		return
	}
	var srcs source.List
	if err := srcs.UnmarshalJSON(body); err != nil {
		writeError(c, err)
		return
	}
	img, err := h.svc.Merge(c.Request.Context(), srcs)
	respondImage(c, img, err)
}

// readBody reads the request body up to MaxBodySize.
func readBody(c *gin.Context) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(c, apperr.Newf(apperr.KindSizeLimit, "http.read_body", "Request body too large, must be below %d", MaxBodySize))
			return nil, false
		}
		writeJSONError(c, http.StatusBadRequest, "json_io", err.Error())
		return nil, false
	}
	return body, true
}

// readJSON reads the body and rejects anything that is not valid JSON.
func readJSON(c *gin.Context) ([]byte, bool) {
	body, ok := readBody(c)
	if !ok {
		return nil, false
	}
	if !sonic.Valid(body) {
		writeJSONError(c, http.StatusBadRequest, kindJSONParse, "request body is not valid JSON")
		return nil, false
	}
	return body, true
}

func readSource(c *gin.Context) (source.Source, bool) {
	body, ok := readJSON(c)
	if !ok {
		return nil, false
	}
	src, err := source.Parse(body)
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return src, true
}

// queryRGB parses the r, g and b query parameters.
func queryRGB(c *gin.Context) ([3]uint8, bool) {
	var rgb [3]uint8
	for i, name := range []string{"r", "g", "b"} {
		raw, present := c.GetQuery(name)
		if !present {
			writeError(c, apperr.Newf(apperr.KindInput, "http.query", "missing query parameter %q", name))
			return rgb, false
		}
		v, err := strconv.ParseUint(raw, 10, 8)
		if err != nil {
			writeError(c, apperr.Newf(apperr.KindInput, "http.query", "query parameter %q must be an integer in 0..255", name))
			return rgb, false
		}
		rgb[i] = uint8(v)
	}
	return rgb, true
}

func respondImage(c *gin.Context, img image.Image, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	data, err := imaging.EncodePNG(img)
	if err != nil {
		writeError(c, apperr.Wrap(apperr.KindInternal, "http.encode", "failed to encode image", err))
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}
