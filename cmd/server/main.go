package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"breakerbox/internal/auth"
	"breakerbox/internal/config"
	"breakerbox/internal/database"
	"breakerbox/internal/logger"
	"breakerbox/internal/routes"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	logr := logger.New(cfg)
	defer logr.Sync()

	db, err := database.New(cfg.DatabaseURL, cfg)
	if err != nil {
		logr.Fatal("failed to connect to database", zap.Error(err))
	}

	// the server only verifies tokens; signing happens in panelctl
	jwtMgr, err := auth.NewJWTManager("", cfg.JWTPublicKeyPath, cfg.JWTIssuer)
	if err != nil {
		logr.Fatal("failed to init jwt manager", zap.Error(err))
	}

	r := routes.NewRouter(database.NewPanelStore(db), jwtMgr, cfg, logr)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logr.Info("server started",
			zap.String("port", cfg.Port),
			zap.Bool("metrics", cfg.MetricsEnabled),
			zap.Int("default_total_slots", cfg.DefaultTotalSlots))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logr.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := shutdown(ctx, server, db); err != nil {
		logr.Fatal("server forced to shutdown", zap.Error(err))
	}

	logr.Info("server exited gracefully")
}

// shutdown drains the HTTP server, then closes the database pool
func shutdown(ctx context.Context, server *http.Server, db io.Closer) error {
	if err := server.Shutdown(ctx); err != nil {
		_ = db.Close()
		return err
	}
	return db.Close()
}
