package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/travis-tran03/leetcode-jar/internal/config"
	"github.com/travis-tran03/leetcode-jar/internal/core"
	"github.com/travis-tran03/leetcode-jar/internal/middleware"
)

// NewRouter builds the gin engine with the global middleware and all routes.
func NewRouter(appConfig *config.Config, logger *zap.Logger, tracker *core.Tracker) *gin.Engine {
	if strings.ToLower(appConfig.GinMode) == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	if appConfig.ClientURL != "" {
		router.Use(middleware.CORSMiddleware(appConfig.ClientURL))
		logger.Info("CORS Middleware enabled", zap.String("clientURL", appConfig.ClientURL))
	} else {
		logger.Warn("CORS Middleware SKIPPED: CLIENT_URL is not configured")
	}

	SetupRoutes(router, appConfig, logger, tracker)
	return router
}

// Serve runs the HTTP server until ctx is done, then shuts it down
// gracefully.
func Serve(ctx context.Context, appConfig *config.Config, logger *zap.Logger, tracker *core.Tracker) error {
	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:              serverAddr,
		Handler:           NewRouter(appConfig, logger, tracker),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Attempting graceful shutdown of HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("Server exiting gracefully")
	return nil
}
