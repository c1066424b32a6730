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

	"github.com/gin-gonic/gin"

	"github.com/tanisheesh/portfolio-api/config"
	"github.com/tanisheesh/portfolio-api/internal/handlers"
	"github.com/tanisheesh/portfolio-api/internal/middleware"
	"github.com/tanisheesh/portfolio-api/pkg/logger"
	"go.uber.org/zap"
)

// Serves the old domain and sends every request to the new site
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		Environment: cfg.Server.AppEnv,
		ServiceName: "portfolio-redirect",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ObservabilityMiddleware())
	router.NoRoute(handlers.NewRedirectHandler(cfg.Redirect.Target).Redirect)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Redirect.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("Redirect server started",
			zap.String("port", cfg.Redirect.Port),
			zap.String("target", cfg.Redirect.Target))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Redirect server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Redirect server forced to shutdown", zap.Error(err))
	}
	logger.Info("Redirect server exited")
}
