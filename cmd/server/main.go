package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"coviddash/internal/api"
	"coviddash/internal/app"
	"coviddash/internal/config"
	"coviddash/internal/fetch"
	"coviddash/internal/logging"
	"coviddash/internal/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.SlogLevel(), os.Stdout)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("exiting", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// 1. Initialize Echo (Starts Instantly)
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(logging.EchoLevel(cfg.SlogLevel()))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(logging.RequestLogger(logger))
	if cfg.RateLimitRPS > 0 {
		e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(cfg.RateLimitRPS))))
	}

	// 2. Initialize Handler with NIL data
	// The API is live but answers 503 until the first snapshot lands
	h := api.NewHandler(nil, api.Options{
		CountryLabel:   cfg.CountryLabel,
		DefaultRegions: cfg.DefaultRegions,
		Metrics:        m,
		Gatherer:       reg,
	})
	h.RegisterRoutes(e)

	pipeline := &app.Pipeline{
		Source: fetch.NewClient(fetch.Options{
			URL:        cfg.SourceURL,
			Timeout:    cfg.HTTPTimeout,
			Attempts:   cfg.FetchAttempts,
			RetryDelay: cfg.RetryDelay,
			Logger:     logger,
		}),
		Metrics: m,
		Logger:  logger,
	}

	g, gctx := errgroup.WithContext(ctx)

	// 3. Launch ETL in Background
	g.Go(func() error {
		return pipeline.Serve(gctx, h, cfg.RefreshInterval)
	})

	// 4. Start Server
	g.Go(func() error {
		logger.Info("server ready, data loading in background", "addr", cfg.Addr(), "source", cfg.SourceURL)
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
