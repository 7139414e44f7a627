package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"interaction-quality-go/internal/config"
	"interaction-quality-go/internal/logger"
	"interaction-quality-go/internal/metrics"
	"interaction-quality-go/internal/processor"
	"interaction-quality-go/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New().WithError(err).Fatal("invalid configuration")
	}
	log := logger.NewWith(cfg.Environment, cfg.LogLevel, os.Stdout)
	log.WithField("service", "interaction-quality-go").Info("starting service")

	rec := metrics.New()
	engine, err := processor.FromConfig(cfg, log, rec)
	if err != nil {
		log.WithError(err).Fatal("failed to build engine")
	}

	handler := server.New(engine, server.Options{
		Metrics:     rec,
		Logger:      log,
		DatasetPath: cfg.DatasetPath,
		Workers:     cfg.BatchWorkers,
		Timeout:     cfg.RequestTimeout,
	}).Handler()

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 20*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("shutdown failed")
		}
	}()

	log.WithField("addr", addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("server terminated")
	}
	log.Info("server stopped")
}
