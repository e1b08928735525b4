package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pulse/database"
)

func LogsByService(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		serviceName := c.Param("name")
		limit, _ := strconv.Atoi(c.Query("limit"))
		offset, _ := strconv.Atoi(c.Query("offset"))

		// Optional status narrows the listing to one outcome.
		status := c.Query("status")

		ctx := c.Request.Context()
		var (
			resp any
			err  error
		)
		if status != "" {
			resp, err = db.LogsByServiceAndStatus(ctx, serviceName, status, limit, offset)
		} else {
			resp, err = db.LogsByService(ctx, serviceName, limit, offset)
		}
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func ServiceStatistics(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := db.ServiceStatistics(c.Request.Context(), c.Param("name"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

func RecentServices(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))

		services, err := db.RecentServices(c.Request.Context(), limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"services": services, "total": len(services)})
	}
}
