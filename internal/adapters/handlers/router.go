package handlers

import (
	"net/http"
	"time"

	"github.com/LaibaFaraz/HealMind/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProvideRouter настраивает и возвращает HTTP-роутер
func ProvideRouter(h *Handler, m *metrics.Metrics, logger *zap.Logger) http.Handler {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	router.GET("/healthz", h.Health)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	api := router.Group("/api")
	{
		api.POST("/connections", h.CreateConnection)
		api.GET("/connections", h.GetConnections)
		api.DELETE("/connections/:sessionId", h.DeleteConnection)
		api.GET("/connections/:sessionId/check", h.CheckConnection)

		api.POST("/tracking/start", h.StartTracking)
		api.POST("/tracking/stop", h.StopTracking)
		api.GET("/tracking/state", h.GetState)

		api.POST("/messages", h.SendMessage)

		api.POST("/stress/run", h.RunStress)
		api.GET("/stress/predictions", h.GetPredictions)
	}
	return router
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		logger.Debug("http запрос",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(started)),
		)
	}
}
