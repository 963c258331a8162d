// Package main provides resourced, the HTTP server that hands the resource
// payload to the rendering layer.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cory-johannsen/resources/internal/api"
	"github.com/cory-johannsen/resources/internal/config"
	"github.com/cory-johannsen/resources/internal/observability"
	"github.com/cory-johannsen/resources/internal/resource"
	"github.com/cory-johannsen/resources/internal/server"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file; empty = defaults and environment only")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging, "resourced")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	loader, err := resource.NewLoader(cfg.Source.Location, logger, resource.WithTimeout(cfg.Source.Timeout))
	if err != nil {
		logger.Fatal("configuring resource loader", zap.Error(err))
	}
	logger.Info("starting resourced",
		zap.String("http_addr", cfg.HTTP.Addr()),
		zap.String("source", loader.Location()),
	)

	handler := api.NewHandler(loader, cfg.HTTP.AllowedOrigins, logger)
	httpSvc := server.NewHTTPService(&http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      handler.Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}, cfg.HTTP.ShutdownTimeout, logger)
	if _, err := httpSvc.Listen(); err != nil {
		logger.Fatal("binding http listener", zap.String("addr", cfg.HTTP.Addr()), zap.Error(err))
	}

	lc := server.NewLifecycle(logger)
	lc.Add("http", httpSvc)

	logger.Info("resourced ready", zap.Duration("startup", time.Since(start)))
	if err := lc.Run(context.Background()); err != nil {
		logger.Fatal("resourced stopped with error", zap.Error(err))
	}
}
