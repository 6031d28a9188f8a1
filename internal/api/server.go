package api

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pfrederiksen/ai-events/internal/logger"
	"github.com/pfrederiksen/ai-events/internal/metrics"
)

const (
	APIKeyHeader    = "X-API-Key"
	shutdownTimeout = 30 * time.Second
)

// NewServer creates the gin engine with all routes configured.
// The events endpoint requires apiKey; health and metrics are open.
func NewServer(handler *Handler, apiKey string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.CustomRecovery(recoveryHandler))
	r.Use(accessLog(handler.metrics))

	setupRoutes(r, handler, apiKey)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler, apiKey string) {
	r.GET("/health", handler.GetHealth)
	r.GET("/metrics", handler.GetMetrics)

	events := r.Group("/", authMiddleware(apiKey))
	{
		events.GET("/ai-events", handler.GetAIEvents)
		events.GET("/ai-events.ics", handler.GetAIEventsICS)
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":     "AI Events",
			"version":     handler.version,
			"description": "Scrapes the Microsoft events listing and returns AI-related events",
			"endpoints": map[string]string{
				"events":  "/ai-events (requires X-API-Key header)",
				"ics":     "/ai-events.ics (requires X-API-Key header)",
				"health":  "/health",
				"metrics": "/metrics",
			},
		})
	})

	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
}

// authMiddleware checks the X-API-Key header, falling back to Authorization: Bearer.
func authMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		providedKey := c.GetHeader(APIKeyHeader)
		if providedKey == "" {
			authHeader := c.GetHeader("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				providedKey = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if providedKey == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "API key is required",
				Message: "Provide API key in X-API-Key header or Authorization: Bearer <key>",
			})
			return
		}

		if apiKey == "" || subtle.ConstantTimeCompare([]byte(providedKey), []byte(apiKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Error: "Invalid API key",
			})
			return
		}

		c.Next()
	}
}

// accessLog writes one structured line per request and counts it.
func accessLog(recorder *metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := c.Writer.Status()
		recorder.ObserveRequest(path, status)

		fields := logger.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  status,
			"latency": time.Since(start).String(),
			"client":  c.ClientIP(),
			"agent":   c.Request.UserAgent(),
			"bytes":   c.Writer.Size(),
		}
		if msg := c.Errors.String(); msg != "" {
			fields["errors"] = msg
		}

		if status >= http.StatusInternalServerError {
			logger.Warn("HTTP request", fields)
		} else {
			logger.Info("HTTP request", fields)
		}
	}
}

func recoveryHandler(c *gin.Context, recovered any) {
	logger.Error("Panic while serving request", logger.Fields{
		"path":  c.Request.URL.Path,
		"panic": fmt.Sprint(recovered),
	}, nil)
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
}

// ListenAndServe runs the server on addr until ctx is cancelled, then shuts it down gracefully.
// Scrapes running at shutdown time have shutdownTimeout to finish.
func ListenAndServe(ctx context.Context, addr string, engine http.Handler, requestTimeout time.Duration) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      requestTimeout + 30*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", logger.Fields{"addr": addr})
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("HTTP server error: %w", err)
		}
		close(serverErr)
	}()

	select {
	case err, ok := <-serverErr:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown: %w", err)
	}

	logger.Info("HTTP server stopped", nil)
	return nil
}
