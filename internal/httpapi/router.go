// Package httpapi serves the image generation operations over HTTP with gin.
//
// Routes:
//
//	POST /template/:name   render a template, body {"texts": [...], "images": [...]}
//	GET  /templates        list templates with their image and text counts
//	POST /:op              single-image transform, body is an image source
//	GET  /color            solid color square, query r, g, b
//	POST /colorblend       blend an image source with query r, g, b
//	POST /merge            merge a two-element array of image sources
//	GET  /healthz          liveness probe
//
// Images are returned as image/png. Failures are returned as
// {"error": {"kind": "...", "message": "..."}}.
package httpapi

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ironsheep/imagegen-service/internal/imaging"
	"github.com/ironsheep/imagegen-service/internal/logging"
	"github.com/ironsheep/imagegen-service/internal/service"
)

// MaxBodySize caps request bodies in bytes.
const MaxBodySize = 16 << 20

// Options configures the router.
type Options struct {
	Service *service.Service
	Logger  *slog.Logger
	// CORSOrigins lists allowed origins. Empty allows all.
	CORSOrigins []string
	Debug       bool
}

// New builds the gin engine with recovery, request id, logging and CORS
// middleware.
func New(opts Options) *gin.Engine {
	if opts.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	logger := logging.OrDefault(opts.Logger)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestIDMiddleware())
	engine.Use(loggingMiddleware(logger))
	engine.Use(responseTimeMiddleware())

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", RequestIDHeader, ResponseTimeHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(opts.CORSOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = opts.CORSOrigins
	}
	engine.Use(cors.New(corsCfg))

	h := &handlers{svc: opts.Service, logger: logger}

	engine.GET("/healthz", h.health)
	engine.GET("/templates", h.listTemplates)
	engine.POST("/template/:name", h.renderTemplate)
	engine.GET("/color", h.color)
	engine.POST("/colorblend", h.colorBlend)
	engine.POST("/merge", h.merge)
	for _, op := range imaging.Ops() {
		engine.POST("/"+string(op), h.transform(op))
	}
	return engine
}
