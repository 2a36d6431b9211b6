package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"cosmossdk.io/log"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nectar-dex/nectar/x/amm/keeper"
)

// Server exposes the pool engine over HTTP.
type Server struct {
	router *gin.Engine
	keeper *keeper.Keeper
	logger log.Logger
	config *Config
}

// NewServer creates a new API server instance
func NewServer(logger log.Logger, k *keeper.Keeper, config *Config) *Server {
	if config == nil {
		config = DefaultConfig()
	}

	s := &Server{
		keeper: k,
		logger: logger.With("module", "api"),
		config: config,
	}
	s.setupRouter()
	return s
}

// setupRouter configures the Gin router with all routes and middleware
func (s *Server) setupRouter() {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()

	// Middleware order matters: recovery first so everything downstream is
	// covered, rate limiting before any handler work.
	s.router.Use(gin.Recovery())
	s.router.Use(SecurityHeadersMiddleware())
	s.router.Use(RequestIDMiddleware())
	s.router.Use(LoggerMiddleware(s.logger))
	s.router.Use(s.CORSMiddleware())
	s.router.Use(RateLimitMiddleware(s.config.RateLimitRPS))

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.registerRoutes()
}

// Router returns the underlying handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// healthCheck returns server health status
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"pools":  len(s.keeper.GetAllPools()),
	})
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests within the configured shutdown timeout.
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:           fmt.Sprintf("%s:%s", s.config.Host, s.config.Port),
		Handler:        s.router,
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	go func() {
		s.logger.Info("API server listening", "host", s.config.Host, "port", s.config.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	s.logger.Info("shutting down API server")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
