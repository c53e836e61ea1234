package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/travis-tran03/leetcode-jar/internal/config"
	"github.com/travis-tran03/leetcode-jar/internal/core"
)

// SetupRoutes configures all the application routes. Global middleware
// (logging, recovery, CORS) is expected to be applied to router beforehand.
func SetupRoutes(router *gin.Engine, appConfig *config.Config, logger *zap.Logger, tracker *core.Tracker) {
	h := NewTrackerHandler(tracker, logger)

	router.GET("/health", h.Health)

	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/ping", h.Ping)
		apiGroup.GET("/data", h.GetData)
		apiGroup.POST("/mark", h.Mark)
		apiGroup.POST("/close-day", h.CloseDay)
		apiGroup.POST("/init", h.InitUsers)

		apiGroup.GET("/totals", h.Totals)
		apiGroup.GET("/status", h.Status)
		apiGroup.GET("/history", h.History)

		apiGroup.GET("/export-csv", h.ExportCSV)
		apiGroup.GET("/export-json", h.ExportJSON)
	}

	if appConfig != nil && appConfig.StaticDir != "" {
		files := http.FileServer(http.Dir(appConfig.StaticDir))
		router.NoRoute(func(c *gin.Context) {
			if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
				c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
				return
			}
			files.ServeHTTP(c.Writer, c.Request)
		})
		logger.Info("Serving static site", zap.String("dir", appConfig.StaticDir))
	}

	logger.Info("API routes configured", zap.String("mode", tracker.Mode()))
}
