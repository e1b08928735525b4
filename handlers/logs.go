package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pulse/database"
	"pulse/metrics"
	"pulse/models"
)

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func CreateLog(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateLogRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		rec, err := db.CreateLog(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}

		metrics.LogsIngested.WithLabelValues(string(rec.Status)).Inc()
		c.JSON(http.StatusCreated, rec)
	}
}

func GetLog(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid log ID"})
			return
		}

		rec, err := db.GetLog(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

// UpdateLog binds the payload as a raw field map so fields outside the
// allow-list can be detected and dropped rather than rejected.
func UpdateLog(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid log ID"})
			return
		}

		var fields map[string]any
		if err := c.ShouldBindJSON(&fields); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		rec, err := db.UpdateLog(c.Request.Context(), id, fields)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

func DeleteLog(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid log ID"})
			return
		}

		if err := db.DeleteLog(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "log deleted"})
	}
}

func SearchLogs(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var params models.SearchParams
		if err := c.ShouldBindQuery(&params); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		resp, err := db.SearchLogs(c.Request.Context(), params)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func ErrorLogs(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))

		resp, err := db.ErrorLogs(c.Request.Context(), limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func HighDurationLogs(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		threshold, err := strconv.ParseInt(c.Query("threshold_ms"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "threshold_ms is required and must be an integer"})
			return
		}
		limit, _ := strconv.Atoi(c.Query("limit"))
		offset, _ := strconv.Atoi(c.Query("offset"))

		resp, err := db.HighDurationLogs(c.Request.Context(), threshold, limit, offset)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func LogsByDateRange(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		start, err := time.Parse(time.RFC3339, c.Query("start_date"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start_date is required (RFC3339)"})
			return
		}
		end, err := time.Parse(time.RFC3339, c.Query("end_date"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end_date is required (RFC3339)"})
			return
		}
		limit, _ := strconv.Atoi(c.Query("limit"))
		offset, _ := strconv.Atoi(c.Query("offset"))

		resp, err := db.LogsByDateRange(c.Request.Context(), start, end, limit, offset)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}
