package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/develop-mdv/subscriptions-tg-bot/internal/auth"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/config"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/export"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/history"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/logger"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/subscription"
)

// Deps are the handlers and health checks mounted by the server. Nil handlers
// leave their routes unregistered.
type Deps struct {
	Subscriptions *subscription.Handler
	Payments      *history.Handler
	Export        *export.Handler
	Notifier      Notifier
	Checks        map[string]Check
}

type Server struct {
	router  *gin.Engine
	limiter *RateLimiter
	http    *http.Server
}

func New(cfg *config.Config, deps Deps) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RequestLoggingMiddleware())

	router.GET("/health", Health(deps.Checks))
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	limiter := NewRateLimiter(cfg.APIRateLimit, cfg.APIRateBurst, 3*time.Minute)

	protected := router.Group("/api")
	protected.Use(auth.AuthMiddleware(cfg.JWTSecret), limiter.Middleware())
	{
		if h := deps.Subscriptions; h != nil {
			protected.GET("/subscriptions", h.List)
			protected.GET("/subscriptions/:id", h.Get)
			protected.POST("/subscriptions", h.Create)
			protected.PATCH("/subscriptions/:id", h.Update)
			protected.DELETE("/subscriptions/:id", h.Delete)
			protected.GET("/analytics", h.Analytics)
		}
		if h := deps.Export; h != nil {
			protected.GET("/analytics/chart", h.Chart)
			protected.GET("/export", h.Workbook)
		}
		if h := deps.Payments; h != nil {
			protected.GET("/payments", h.List)
		}
		if deps.Notifier != nil {
			protected.POST("/notifications/test", TestNotification(deps.Notifier))
		}
	}

	return &Server{
		router:  router,
		limiter: limiter,
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks serving on port until Shutdown is called.
func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:              ":" + port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("HTTP server listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE, PATCH")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
