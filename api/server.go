package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/turbo-ing/2048-scoreproof/internal/scoreboard"
)

// Server wraps the gin engine and the underlying http.Server.
type Server struct {
	router  *gin.Engine
	logger  *zap.Logger
	db      *gorm.DB
	httpSrv *http.Server
}

// NewServer wires middleware, operational endpoints and the scoreboard
// routes into a ready-to-run server.
func NewServer(logger *zap.Logger, db *gorm.DB, service *scoreboard.Service, maxProofBytes int64) *Server {
	server := &Server{
		logger: logger,
		db:     db,
	}

	router := gin.New()

	router.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(logger, true))

	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Trace-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Trace-ID"},
		MaxAge:        12 * time.Hour,
	}))

	router.GET("/healthz", server.healthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	scoreboard.Routes(v1, service, logger, maxProofBytes)

	server.router = router
	return server
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start blocks serving HTTP until Shutdown is called or the listener fails.
func (s *Server) Start(addr string) error {
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting API server", zap.String("addr", addr))
	return s.httpSrv.ListenAndServe()
}

// Shutdown drains in-flight requests, bounded by ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) healthCheck(c *gin.Context) {
	status := gin.H{
		"service":   "scoreproof",
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := s.db.WithContext(c.Request.Context()).Exec("SELECT 1").Error; err != nil {
		status["status"] = "unhealthy"
		status["database"] = "disconnected"
		c.JSON(http.StatusServiceUnavailable, status)
		return
	}

	status["database"] = "connected"
	c.JSON(http.StatusOK, status)
}
