package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cozy-creator/cropscan/internal/config"
	"github.com/cozy-creator/cropscan/web"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/logger"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

type Server struct {
	listenAddr string
	ginEngine  *gin.Engine
	inner      *http.Server
}

func NewServer(config *config.Config) (*Server, error) {
	gin.SetMode(getGinMode(config.Environment))
	r := gin.New()
	if limit := config.MaxUploadBytes(); limit > 0 {
		r.MaxMultipartMemory = limit
	}
	r.HandleMethodNotAllowed = true

	templates, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	r.SetHTMLTemplate(templates)

	// Setup logger middleware
	r.Use(logger.SetLogger(
		logger.WithUTC(true),
		logger.WithSkipPath([]string{"/healthz"}),
	))

	// Setup CORS middleware
	r.Use(cors.New(
		cors.Config{
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowOrigins:  []string{"*"},
			AllowHeaders:  []string{"Origin", "Content-Type", "X-Request-ID"},
			ExposeHeaders: []string{"X-Request-ID"},
			MaxAge:        5 * time.Minute,
		},
	))

	// A configured public dir overrides the bundled assets
	if config.PublicDir != "" {
		r.Use(static.Serve("/", static.LocalFile(config.PublicDir, false)))
	}
	r.Use(gin.CustomRecovery(renderServerError))

	return &Server{
		listenAddr: config.Addr(),
		ginEngine:  r,
		inner: &http.Server{
			Handler:           r,
			Addr:              config.Addr(),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

func (s *Server) Addr() string {
	return s.listenAddr
}

func (s *Server) Handler() http.Handler {
	return s.ginEngine
}

func (s *Server) Start() error {
	if err := s.inner.ListenAndServe(); err != nil {
		return err
	}

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := s.inner.Shutdown(ctx); err != nil {
		return err
	}

	return nil
}

func getGinMode(env string) string {
	switch env {
	case "dev":
		return gin.DebugMode
	case "test":
		return gin.TestMode
	default:
		return gin.ReleaseMode
	}
}
