package models

import (
	"time"
)

// Statistics is the raw aggregate over a scope plus derived rates.
// Rates are only present when at least one log exists in the scope;
// duration aggregates are nil for an empty scope.
type Statistics struct {
	TotalLogs        int64      `json:"total_logs"`
	SuccessCount     int64      `json:"success_count"`
	ErrorCount       int64      `json:"error_count"`
	PendingCount     int64      `json:"pending_count"`
	AvgDurationMs    *float64   `json:"avg_duration_ms"`
	MinDurationMs    *int64     `json:"min_duration_ms"`
	MaxDurationMs    *int64     `json:"max_duration_ms"`
	MedianDurationMs *float64   `json:"median_duration_ms"`
	P95DurationMs    *float64   `json:"p95_duration_ms"`
	FirstLogDate     *time.Time `json:"first_log_date"`
	LastLogDate      *time.Time `json:"last_log_date"`
	SuccessRate      *float64   `json:"success_rate,omitempty"`
	ErrorRate        *float64   `json:"error_rate,omitempty"`
	Availability     *float64   `json:"availability,omitempty"`
}

// ServiceStatistics scopes the aggregate to one service name.
type ServiceStatistics struct {
	Statistics
	ServiceName string `json:"service_name"`
}

// OrganizationStatistics scopes the aggregate to one organization and
// adds distinct-service/distinct-operation counts and the health score
// (100 - error_rate) in place of availability.
type OrganizationStatistics struct {
	Statistics
	UniqueServices   int64           `json:"unique_services"`
	UniqueOperations int64           `json:"unique_operations"`
	HealthScore      *float64        `json:"health_score,omitempty"`
	Organization     OrganizationRef `json:"organization"`
}

// GlobalStatistics is the unscoped aggregate across all organizations
// and services.
type GlobalStatistics struct {
	Statistics
	UniqueServices      int64 `json:"unique_services"`
	UniqueOrganizations int64 `json:"unique_organizations"`
}
