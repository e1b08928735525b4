package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pulse/database"
	"pulse/metrics"
)

func GlobalStatistics(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := db.GlobalStatistics(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

type cleanupRequest struct {
	OlderThanDays int `json:"older_than_days" binding:"required"`
}

func CleanupLogs(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cleanupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := db.CleanupOldLogs(c.Request.Context(), req.OlderThanDays)
		if err != nil {
			respondError(c, err)
			return
		}

		metrics.LogsCleaned.Add(float64(result.DeletedCount))
		c.JSON(http.StatusOK, result)
	}
}
