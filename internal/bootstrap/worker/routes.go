package worker

import (
	"context"
	"net/http"

	"cashflow-sentinel/internal/api/rest"
	"cashflow-sentinel/internal/models"

	"github.com/gin-gonic/gin"
)

type batchDetector interface {
	RunDetection(ctx context.Context) (int, error)
}

type alertStats interface {
	GetAlertStats(ctx context.Context) (map[models.Severity]int64, error)
	ResetAlertStats(ctx context.Context) error
}

// SetupRoutes настраивает служебные маршруты воркера. stats может быть nil
func SetupRoutes(router *gin.Engine, detector batchDetector, stats alertStats) {
	api := router.Group("/api/v1")
	{
		api.POST("/detection/run", func(c *gin.Context) {
			n, err := detector.RunDetection(c.Request.Context())
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run anomaly detection"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"message": "Anomaly detection completed", "anomaliesFound": n})
		})

		api.GET("/alerts/stats", func(c *gin.Context) {
			if stats == nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Redis is not available"})
				return
			}
			counts, err := stats.GetAlertStats(c.Request.Context())
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get alert stats"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"alerts_by_severity": counts})
		})

		api.DELETE("/alerts/stats", func(c *gin.Context) {
			if stats == nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Redis is not available"})
				return
			}
			if err := stats.ResetAlertStats(c.Request.Context()); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset alert stats"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"message": "Alert stats cleared"})
		})
	}

	// Используем общие endpoints (health, events, stats)
	rest.SetupCommonEndpoints(router)
}
