// Package main runs the dashboard HTTP API.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"saludcl/internal/charts"
	"saludcl/internal/config"
	"saludcl/internal/fetcher"
	"saludcl/internal/logger"
	"saludcl/internal/pipeline"
	"saludcl/internal/server"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file (default "+config.DefaultPath+" if present)")
	addr := flag.String("addr", "", "Listen address, overrides server.addr")
	warm := flag.Bool("warm", false, "Load the default dataset before accepting requests")

	flag.Parse()

	cfg, err := config.Resolve(*configFile)
	if err != nil {
		logger.NewLogger("error").Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	log := logger.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	log.Info("starting dashboard", "config", cfg.String())

	theme, err := charts.NewTheme(cfg.Theme)
	if err != nil {
		log.Error("invalid theme", "error", err)
		os.Exit(1)
	}

	session := pipeline.NewSession(fetcher.NewClient(cfg.Source, log), log)

	if *warm {
		start := time.Now()

		table, err := session.Analysis(context.Background(), cfg.Source.Limit)
		if err != nil {
			log.Warn("warm-up failed, first request will retry", "error", err)
		} else {
			log.Info("dataset loaded", "rows", table.Len(), "duration", time.Since(start))
		}
	}

	srv := server.New(cfg, session, charts.NewRenderer(theme, cfg.Charts), log).HTTPServer()

	serverErrors := make(chan error, 1)

	go func() {
		log.Info("listening", "addr", srv.Addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutdown signal received")
	case err := <-serverErrors:
		log.Error("server error", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
