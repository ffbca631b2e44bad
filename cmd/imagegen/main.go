package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ironsheep/imagegen-service/internal/assets"
	"github.com/ironsheep/imagegen-service/internal/config"
	"github.com/ironsheep/imagegen-service/internal/httpapi"
	"github.com/ironsheep/imagegen-service/internal/logging"
	"github.com/ironsheep/imagegen-service/internal/server"
	"github.com/ironsheep/imagegen-service/internal/service"
	"github.com/ironsheep/imagegen-service/internal/source"
	"github.com/ironsheep/imagegen-service/internal/template"
	"github.com/ironsheep/imagegen-service/internal/workpool"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const shutdownTimeout = 10 * time.Second

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintln(out, "imagegen - image generation service")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Usage: imagegen [options]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Options:")
	flag.PrintDefaults()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Environment variables:")
	fmt.Fprintf(out, "  %s=:8000         HTTP listen address\n", config.EnvHTTPAddr)
	fmt.Fprintf(out, "  %s=debug         Log level\n", config.EnvLogLevel)
	fmt.Fprintf(out, "  %s=true  Accept {\"file\": ...} image sources\n", config.EnvAllowLocalFiles)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "By default the service listens for HTTP. With --mcp it speaks the MCP")
	fmt.Fprintln(out, "protocol over stdin/stdout instead.")
}

func main() {
	var (
		configPath  = flag.String("config", "imagegen.toml", "path to the TOML or YAML config file")
		mcp         = flag.Bool("mcp", false, "serve MCP over stdio instead of HTTP")
		showVersion = flag.Bool("version", false, "print version information")
	)
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Printf("imagegen %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	}

	if err := run(*configPath, *mcp); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, mcp bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, logCloser, err := logging.Setup(cfg.Logging())
	if err != nil {
		return err
	}
	defer logCloser.Close()

	logger.Debug("starting", "version", Version, "built", BuildTime, "commit", GitCommit, "mcp", mcp)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, closeStorage := newStorage(cfg)
	defer closeStorage()

	cache := assets.NewCache(storage, logger)
	fonts := cfg.Fonts()
	if err := cache.Preload(ctx, fonts...); err != nil {
		return fmt.Errorf("preload fonts: %w", err)
	}
	logger.Info("fonts loaded", "count", len(fonts))

	pool := workpool.New(cfg.Workers)
	fetcher := source.NewHTTPFetcher(source.FetchOptions{
		UserAgent: cfg.Fetch.UserAgent,
		Timeout:   cfg.FetchTimeout(),
	}, logger)
	resolver := source.NewResolver(source.Options{
		Fetcher:         fetcher,
		Assets:          cache,
		Pool:            pool,
		AllowLocalFiles: cfg.AllowLocalFileInput,
		Logger:          logger,
	})
	engine := template.NewEngine(template.Options{
		Assets:      cache,
		Resolver:    resolver,
		Pool:        pool,
		Filter:      cfg.Filter(),
		DefaultFont: cfg.DefaultFont,
		Logger:      logger,
	})
	svc := service.New(service.Options{
		Catalog:       cfg,
		Renderer:      engine,
		Resolver:      resolver,
		Pool:          pool,
		BlurSigma:     cfg.BlurSigma,
		ColorfillSize: cfg.ColorfillImageSize,
		TextMaxLen:    cfg.TextMaxLen,
		Logger:        logger,
	})

	if mcp {
		return server.New(svc, logger, Version).Run(ctx)
	}
	return serveHTTP(ctx, cfg, svc, logger)
}

func newStorage(cfg *config.Config) (assets.Storage, func() error) {
	if cfg.Assets.Backend == "redis" {
		s := assets.NewRedisStorage(cfg.Assets.RedisAddr, cfg.Assets.RedisPrefix)
		return s, s.Close
	}
	return assets.NewFileStorage(cfg.Assets.Root), func() error { return nil }
}

func serveHTTP(ctx context.Context, cfg *config.Config, svc *service.Service, logger *slog.Logger) error {
	srv := &http.Server{
		Addr: cfg.HTTP.Addr,
		Handler: httpapi.New(httpapi.Options{
			Service:     svc,
			Logger:      logger,
			CORSOrigins: cfg.HTTP.CORSOrigins,
			Debug:       logging.ParseLevel(cfg.Log.Level) == slog.LevelDebug,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
