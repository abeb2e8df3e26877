// Package web exposes the report workflow over HTTP.
package web

import (
	"context"
	"net/http"

	"report-agent/config"
	"report-agent/web/handlers"
	"report-agent/web/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	router  *gin.Engine
	service *services.ReportService
	logger  *zap.Logger
	config  *config.Config
}

func NewServer(service *services.ReportService, logger *zap.Logger, cfg *config.Config) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())

	server := &Server{
		router:  router,
		service: service,
		logger:  logger,
		config:  cfg,
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	reportHandler := handlers.NewReportHandler(s.service, s.logger)

	api := s.router.Group("/api")
	api.POST("/report", reportHandler.Generate)
	api.GET("/report/:id", reportHandler.Get)
	api.GET("/report/:id/html", reportHandler.Preview)
	api.GET("/reports", reportHandler.List)
	api.POST("/documents", reportHandler.Ingest)

	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// Router exposes the handler tree for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) Start(ctx context.Context, addr string) error {
	s.logger.Info("Starting web server", zap.String("address", addr))

	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Web server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()

	s.logger.Info("Shutting down web server")
	return srv.Shutdown(context.Background())
}
