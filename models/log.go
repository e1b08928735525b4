package models

import (
	"time"

	"github.com/google/uuid"
)

// Status is the closed set of outcomes a log record can carry.
// Anything outside these three values is a validation failure.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
	StatusPending Status = "pending"
)

func (s Status) Valid() bool {
	switch s {
	case StatusSuccess, StatusError, StatusPending:
		return true
	}
	return false
}

// LogRecord is one persisted execution-event entry.
// OrganizationName is derived from OrganizationID at read time and is
// never stored on the logs table.
type LogRecord struct {
	ID               uuid.UUID      `json:"id"`
	ServiceName      string         `json:"service_name"`
	StartDate        time.Time      `json:"start_date"`
	StartTimes       int            `json:"start_times"`
	DurationMs       int64          `json:"duration_ms"`
	Status           Status         `json:"status"`
	LogDescription   *string        `json:"log_description"`
	ErrorDetails     *string        `json:"error_details"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	Tags             []string       `json:"tags,omitempty"`
	CorrelationID    *string        `json:"correlation_id"`
	OrganizationID   *uuid.UUID     `json:"organization_id"`
	OrganizationName *string        `json:"organization_name"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        *time.Time     `json:"updated_at"`

	// PerformanceCategory is only populated on search results.
	PerformanceCategory string `json:"performance_category,omitempty"`
}

// CreateLogRequest is the ingestion payload. Status defaults to pending,
// StartDate to the server clock and ID to a fresh UUID when omitted.
type CreateLogRequest struct {
	ID               *uuid.UUID     `json:"id"`
	ServiceName      string         `json:"service_name" binding:"required"`
	StartDate        *time.Time     `json:"start_date"`
	StartTimes       int            `json:"start_times"`
	DurationMs       int64          `json:"duration_ms"`
	Status           string         `json:"status"`
	LogDescription   *string        `json:"log_description"`
	ErrorDetails     *string        `json:"error_details"`
	Metadata         map[string]any `json:"metadata"`
	Tags             []string       `json:"tags"`
	CorrelationID    *string        `json:"correlation_id"`
	OrganizationID   *uuid.UUID     `json:"organization_id"`
	OrganizationName *string        `json:"organization_name"`
}

// SearchParams is the sparse filter set for log search. Empty fields
// contribute no predicate clause. Dates are RFC3339 strings, parsed at
// query-build time.
type SearchParams struct {
	ServiceName      string   `form:"service_name"`
	Status           string   `form:"status"`
	OrganizationID   string   `form:"organization_id"`
	OrganizationName string   `form:"organization_name"`
	StartDate        string   `form:"start_date"`
	EndDate          string   `form:"end_date"`
	MinDuration      *int64   `form:"min_duration"`
	MaxDuration      *int64   `form:"max_duration"`
	Tags             []string `form:"tags"`
	CorrelationID    string   `form:"correlation_id"`
	Limit            int      `form:"limit"`
	Offset           int      `form:"offset"`
}

// Pagination is the uniform envelope for every listing operation.
type Pagination struct {
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

// OrganizationRef identifies the organization a listing was scoped to.
// Name is nil when the id no longer resolves.
type OrganizationRef struct {
	ID   uuid.UUID `json:"id"`
	Name *string   `json:"name"`
}

// PerformanceBreakdown buckets a result page by duration:
// >10s HIGH, >1s MEDIUM, else LOW.
type PerformanceBreakdown struct {
	High   int `json:"HIGH"`
	Medium int `json:"MEDIUM"`
	Low    int `json:"LOW"`
}

type SearchMetrics struct {
	ResultsCount         int                  `json:"results_count"`
	PerformanceBreakdown PerformanceBreakdown `json:"performance_breakdown"`
}

// LogListResponse is the response envelope for search and listing
// operations. Organization and SearchMetrics are present only where the
// operation produces them.
type LogListResponse struct {
	Data          []LogRecord      `json:"data"`
	Pagination    Pagination       `json:"pagination"`
	Organization  *OrganizationRef `json:"organization,omitempty"`
	SearchMetrics *SearchMetrics   `json:"search_metrics,omitempty"`
}

// CleanupResult reports a retention sweep. EstimatedBefore is counted
// before deletion; concurrent inserts mean it is not guaranteed to equal
// DeletedCount.
type CleanupResult struct {
	DeletedCount    int64     `json:"deleted_count"`
	EstimatedBefore int64     `json:"estimated_before"`
	OlderThanDays   int       `json:"older_than_days"`
	CleanupDate     time.Time `json:"cleanup_date"`
}
