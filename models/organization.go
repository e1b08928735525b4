package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization is a weak-reference collaborator entity. Logs point at it
// by id; the store never owns or cascades into it.
type Organization struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"organization_name"`
	CreatedAt time.Time `json:"created_at"`
}

// OrganizationOverview is one row of the cross-organization statistics
// listing, ordered by log volume.
type OrganizationOverview struct {
	OrganizationID   uuid.UUID  `json:"organization_id"`
	OrganizationName *string    `json:"organization_name"`
	TotalLogs        int64      `json:"total_logs"`
	SuccessCount     int64      `json:"success_count"`
	ErrorCount       int64      `json:"error_count"`
	AvgDurationMs    *float64   `json:"avg_duration_ms"`
	LastActivity     *time.Time `json:"last_activity"`
	SuccessRate      *float64   `json:"success_rate,omitempty"`
	ErrorRate        *float64   `json:"error_rate,omitempty"`
	HealthScore      *float64   `json:"health_score,omitempty"`
}

// ServiceOverview is per-service statistics within one organization.
type ServiceOverview struct {
	ServiceName   string     `json:"service_name"`
	TotalRequests int64      `json:"total_requests"`
	SuccessCount  int64      `json:"success_count"`
	ErrorCount    int64      `json:"error_count"`
	AvgDurationMs *float64   `json:"avg_duration_ms"`
	LastRequest   *time.Time `json:"last_request"`
	SuccessRate   *float64   `json:"success_rate,omitempty"`
	ErrorRate     *float64   `json:"error_rate,omitempty"`
}
