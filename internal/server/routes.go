package server

import (
	"net/http"

	"github.com/cozy-creator/cropscan/internal/api"
	"github.com/cozy-creator/cropscan/internal/api/middleware"
	"github.com/cozy-creator/cropscan/internal/app"
	"github.com/cozy-creator/cropscan/web"
	"github.com/gin-gonic/gin"
)

func (s *Server) SetupRoutes(app *app.App) {
	s.ginEngine.Use(middleware.RequestIDMiddleware)

	// Health check endpoint
	s.ginEngine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	s.ginEngine.StaticFS("/static", http.FS(web.Static()))

	s.ginEngine.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, web.IndexTemplate, gin.H{})
	})
	s.ginEngine.POST("/analyze", handlerWrapper(app, api.Analyze))

	s.ginEngine.NoRoute(func(c *gin.Context) {
		c.HTML(http.StatusNotFound, web.IndexTemplate, gin.H{"error": "Page not found"})
	})
	s.ginEngine.NoMethod(func(c *gin.Context) {
		c.HTML(http.StatusMethodNotAllowed, web.IndexTemplate, gin.H{"error": "Method not allowed"})
	})
}

func handlerWrapper(app *app.App, f func(c *gin.Context)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set("app", app)
		f(ctx)
	}
}

func renderServerError(c *gin.Context, _ any) {
	c.HTML(http.StatusInternalServerError, web.IndexTemplate, gin.H{"error": "Server error occurred"})
	c.Abort()
}
