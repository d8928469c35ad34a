package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	api "github.com/GriffinCanCode/WebDesk/backend/internal/api/http"
	"github.com/GriffinCanCode/WebDesk/backend/internal/api/middleware"
	"github.com/GriffinCanCode/WebDesk/backend/internal/api/ws"
	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/session"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/tracing"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router  *gin.Engine
	http    *http.Server
	session *session.Manager
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
}

// NewServer builds the router for a session. Metrics and tracer may be nil.
func NewServer(cfg *config.Config, logger *logging.Logger, metrics *monitoring.Metrics, sess *session.Manager, tracer *tracing.Tracer) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	if tracer == nil {
		tracer = tracing.NewWithOptions("webdesk", logger.Logger, tracing.Options{Slow: cfg.Logging.SlowRequest})
	}

	logger.Info("Initializing WebDesk server",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port),
		zap.Strings("origins", cfg.Server.AllowOrigins),
	)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	if metrics != nil {
		router.Use(monitoring.Middleware(metrics))
	}
	router.Use(middleware.CORS(middleware.CORSConfigFor(cfg.Server.AllowOrigins)))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
			zap.Duration("idle_timeout", cfg.RateLimit.IdleTimeout),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitFromConfig(cfg.RateLimit)))
	}

	handlers := api.NewHandlers(sess, metrics, tracer)
	wsHandler := ws.NewHandler(sess, metrics, logger.Component("ws"))

	// Register routes
	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)

	// File tree
	fs := router.Group("/fs")
	fs.GET("/list", handlers.ListDirectory)
	fs.GET("/stat", handlers.StatNode)
	fs.GET("/read", handlers.ReadFile)
	fs.GET("/find", handlers.FindNodes)
	fs.GET("/export", handlers.ExportTree)
	fs.POST("/import", handlers.ImportTree)
	fs.POST("/create", handlers.CreateNode)
	fs.PUT("/write", handlers.WriteFile)
	fs.POST("/rename", handlers.RenameNode)
	fs.POST("/move", handlers.MoveNode)
	fs.POST("/reset", handlers.ResetTree)
	router.DELETE("/fs", handlers.DeleteNode)

	// Windows
	windows := router.Group("/windows")
	windows.GET("", handlers.ListWindows)
	windows.POST("", handlers.LaunchWindow)
	windows.GET("/:id", handlers.GetWindow)
	windows.POST("/:id/focus", handlers.FocusWindow)
	windows.POST("/:id/minimize", handlers.MinimizeWindow)
	windows.POST("/:id/restore", handlers.RestoreWindow)
	windows.POST("/:id/maximize", handlers.MaximizeWindow)
	windows.PUT("/:id/title", handlers.SetWindowTitle)
	windows.PUT("/:id/geometry", handlers.SetWindowGeometry)
	windows.DELETE("/:id", handlers.CloseWindow)

	// App registry
	apps := router.Group("/apps")
	apps.GET("", handlers.ListApps)
	apps.GET("/:id", handlers.GetApp)
	apps.POST("/plugins", handlers.InstallPlugin)
	apps.POST("/plugins/manifest", handlers.InstallManifest)
	apps.DELETE("/plugins/:id", handlers.UninstallPlugin)

	// Settings
	settings := router.Group("/settings")
	settings.GET("", handlers.ListSettings)
	settings.GET("/export", handlers.ExportSettings)
	settings.GET("/:key", handlers.GetSetting)
	settings.PUT("/:key", handlers.UpdateSetting)
	settings.POST("/:key/reset", handlers.ResetSetting)

	// Profiles
	users := router.Group("/users")
	users.GET("", handlers.ListUsers)
	users.POST("", handlers.RegisterUser)
	users.POST("/login", handlers.Login)
	users.DELETE("/:id", handlers.RemoveUser)

	// Notifications and shell logs
	router.GET("/notifications", handlers.DrainNotifications)
	router.POST("/notifications", handlers.PostNotification)
	router.POST("/logs", handlers.StreamLogs)

	// WebSocket
	router.GET("/stream", wsHandler.HandleConnection)

	// Metrics endpoints
	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}
	router.GET("/metrics/json", handlers.GetMetricsJSON)

	logger.Info("Server initialized successfully")

	return &Server{
		router:  router,
		session: sess,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
		http: &http.Server{
			Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.router
}

// Addr returns the configured listen address
func (s *Server) Addr() string {
	return s.http.Addr
}

// Run serves until Shutdown is called
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))

	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
// Hijacked WebSocket connections are not waited on.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.http.Shutdown(ctx)
}
