package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vet-care-reminders/internal/config"
	"vet-care-reminders/internal/platform/logger"
	"vet-care-reminders/internal/router"
)

// @title Vet Care Reminders API
// @version 1.0
// @description Ciclos de vacunación y desparasitación por animal y avisos por WhatsApp.
// @BasePath /
func main() {
	cfg, err := config.Load(os.Getenv("VETCARE_CONFIG"))
	if err != nil {
		logger.NewFromEnv().Error("config error", map[string]any{"error": err})
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.Log.App,
	})
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := router.New(ctx, router.Options{Config: *cfg, Log: log})
	if err != nil {
		log.Error("startup error", map[string]any{"error": err})
		os.Exit(1)
	}
	defer func() { _ = app.Close() }()

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      app.Handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("starting server", map[string]any{"addr": cfg.Server.Addr})
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", map[string]any{"error": err})
		os.Exit(1)
	}
	log.Info("server stopped", nil)
}
