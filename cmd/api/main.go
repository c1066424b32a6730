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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tanisheesh/portfolio-api/config"
	"github.com/tanisheesh/portfolio-api/internal/handlers"
	"github.com/tanisheesh/portfolio-api/internal/middleware"
	"github.com/tanisheesh/portfolio-api/internal/ratelimit"
	"github.com/tanisheesh/portfolio-api/internal/services"
	"github.com/tanisheesh/portfolio-api/internal/validation"
	"github.com/tanisheesh/portfolio-api/pkg/github"
	"github.com/tanisheesh/portfolio-api/pkg/httpclient"
	"github.com/tanisheesh/portfolio-api/pkg/logger"
	"github.com/tanisheesh/portfolio-api/pkg/mail"
	"github.com/tanisheesh/portfolio-api/pkg/metrics"
	"github.com/tanisheesh/portfolio-api/pkg/profiling"
	"github.com/tanisheesh/portfolio-api/pkg/retry"
	"github.com/tanisheesh/portfolio-api/pkg/tracing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// registerAPIRoutes registers the public API under /api
func registerAPIRoutes(
	api *gin.RouterGroup,
	cfg *config.Config,
	generalRateLimiter *middleware.RateLimiter,
	contactHandler *handlers.ContactHandler,
	projectsHandler *handlers.ProjectsHandler,
	healthHandler *handlers.HealthHandler,
) {
	// Utility endpoints
	api.GET("/healthcheck", generalRateLimiter.Middleware(), healthHandler.Healthcheck)
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	api.GET("/projects", generalRateLimiter.Middleware(), projectsHandler.GetProjects)

	// The contact form is limited by the fixed-window limiter inside the service
	api.POST("/contact", middleware.BodySizeLimitMiddleware(cfg.Contact.MaxBodyBytes), contactHandler.Submit)
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting portfolio API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	// Background workers stop when this is cancelled during shutdown
	appCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(tracing.Config{
		ServiceName:       cfg.Observability.ServiceName,
		ServiceNamespace:  cfg.Observability.ServiceNamespace,
		ServiceVersion:    cfg.Observability.ServiceVersion,
		ServiceInstanceID: cfg.Observability.ServiceInstanceID,
		Environment:       cfg.Server.AppEnv,
		Endpoint:          cfg.Observability.ExporterEndpoint,
	})
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	stopProfiling, err := profiling.Start(cfg.Profiling, cfg.Observability, cfg.Server.AppEnv)
	if err != nil {
		logger.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer stopProfiling()

	// Start infrastructure metrics collection
	metrics.RecordInfrastructureMetrics(appCtx)

	// Contact form rate limiter, owned here and injected into the service
	contactLimiter := ratelimit.NewWindowLimiter(cfg.Contact.RateLimit, cfg.Contact.RateWindow, nil)
	contactLimiter.StartJanitor(appCtx, cfg.Contact.JanitorInterval, func(removed, remaining int) {
		metrics.ContactRateLimitEntries.Set(float64(remaining))
		if removed > 0 {
			logger.Debug("Swept expired contact rate limit records",
				zap.Int("removed", removed),
				zap.Int("remaining", remaining))
		}
	})

	// Mail transport is optional; without it submissions are accepted but not emailed
	var transport mail.Transport
	if cfg.Mail.IsConfigured() {
		transport = mail.NewSMTPTransport(cfg.Mail)
	} else {
		logger.Warn("SMTP is not configured; contact messages will not be emailed")
	}

	// Initialize HTTP client for external API calls
	httpClient := httpclient.NewStandardClient(10 * time.Second)
	githubRetry := retry.GitHubConfig()
	githubRetry.MaxRetries = cfg.GitHub.MaxRetries
	githubClient := github.NewClient(httpClient, cfg.GitHub.APIURL, cfg.GitHub.Token).WithRetryConfig(githubRetry)

	// Initialize services
	contactService := services.NewContactService(contactLimiter, validation.NewContactValidator(), transport, cfg.Mail)
	projectService := services.NewProjectService(cfg.Projects, githubClient)

	// Warm the projects cache before accepting requests; failures only produce fallback cards
	projectService.Initialize(appCtx)

	// Initialize handlers
	contactHandler := handlers.NewContactHandler(contactService)
	projectsHandler := handlers.NewProjectsHandler(projectService)
	healthHandler := handlers.NewHealthHandler(projectService.IsReady)

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName)) // OpenTelemetry tracing
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware(cfg.IsProduction()))

	// CORS configuration - SECURITY: Only allow specific origins
	allowedOrigins := cfg.Server.AllowedOrigins
	// Allow localhost in development
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:  allowedOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader, "traceparent", "tracestate"},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))

	// SECURITY: token bucket per client IP for the read-only endpoints
	generalRateLimiter := middleware.NewRateLimiter("general", 20, 40) // 20 req/sec, burst of 40
	generalRateLimiter.StartCleanup(appCtx, time.Minute)

	registerAPIRoutes(router.Group("/api"), cfg, generalRateLimiter, contactHandler, projectsHandler, healthHandler)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // SECURITY: 1 MB max header size
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	stopWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
