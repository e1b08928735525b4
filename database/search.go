package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pulse/models"
)

// performanceCaseSQL buckets rows by duration for the search response.
// Only column names and constants, nothing caller-supplied.
const performanceCaseSQL = `CASE
			WHEN duration_ms > 10000 THEN 'HIGH'
			WHEN duration_ms > 1000 THEN 'MEDIUM'
			ELSE 'LOW'
		END AS performance_category`

// runListQuery executes one predicate as exactly two storage round
// trips: a count query, then a data query with the same filter. Rows
// are batch-enriched before returning.
func (db *DB) runListQuery(ctx context.Context, qb *QueryBuilder, projection, orderBy string, limit, offset int, includeCategory bool) ([]models.LogRecord, int64, error) {
	var total int64
	if err := db.q.QueryRow(ctx, qb.CountQuery(), qb.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count logs: %w", err)
	}

	args := append(qb.Args(), limit, offset)
	rows, err := db.q.Query(ctx, qb.DataQuery(projection, orderBy), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query logs: %w", err)
	}
	defer rows.Close()

	logs, err := scanLogs(rows, includeCategory)
	if err != nil {
		return nil, 0, err
	}

	enrichLogs(ctx, db.Orgs, db.log, logs)
	return logs, total, nil
}

func newPagination(total int64, limit, offset, count int) models.Pagination {
	return models.Pagination{
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+count) < total,
	}
}

// organizationRef resolves the display name for a scope header. A
// missing organization yields a nil name, never a failure.
func (db *DB) organizationRef(ctx context.Context, id uuid.UUID) *models.OrganizationRef {
	name, err := db.Orgs.LookupName(ctx, id)
	if err != nil {
		db.log.Warn().Err(err).Str("organization_id", id.String()).
			Msg("Failed to resolve organization name")
	}
	return &models.OrganizationRef{ID: id, Name: name}
}

func performanceBreakdown(logs []models.LogRecord) models.PerformanceBreakdown {
	var b models.PerformanceBreakdown
	for i := range logs {
		switch logs[i].PerformanceCategory {
		case "HIGH":
			b.High++
		case "MEDIUM":
			b.Medium++
		default:
			b.Low++
		}
	}
	return b
}

// SearchLogs composes the supplied subset of filters into one
// conjunctive predicate. Absent filters contribute no clause; zero
// filters match everything.
func (db *DB) SearchLogs(ctx context.Context, params models.SearchParams) (*models.LogListResponse, error) {
	start := time.Now()
	defer func() {
		db.log.Debug().
			Dur("duration", time.Since(start)).
			Str("service_name", params.ServiceName).
			Str("status", params.Status).
			Msg("SearchLogs")
	}()

	var orgID *uuid.UUID
	if params.OrganizationID != "" {
		parsed, err := uuid.Parse(params.OrganizationID)
		if err != nil {
			return nil, newValidationError("organization_id", "invalid identifier format")
		}
		orgID = &parsed
	} else if params.OrganizationName != "" {
		name := params.OrganizationName
		resolved, err := db.resolveOrganization(ctx, nil, &name)
		if err != nil {
			return nil, err
		}
		orgID = resolved
	}

	qb := NewQueryBuilder()

	if params.ServiceName != "" {
		serviceName, err := validateServiceName(params.ServiceName)
		if err != nil {
			return nil, err
		}
		qb.AddCondition(columnServiceName, serviceName)
	}
	if params.Status != "" {
		status, err := validateStatus(params.Status)
		if err != nil {
			return nil, err
		}
		qb.AddCondition(columnStatus, status)
	}
	if orgID != nil {
		qb.AddCondition(columnOrganizationID, *orgID)
	}
	if err := qb.AddDateRange(columnStartDate, params.StartDate, params.EndDate); err != nil {
		return nil, err
	}
	if params.MinDuration != nil {
		minDuration, err := validateDuration("min_duration", *params.MinDuration)
		if err != nil {
			return nil, err
		}
		qb.AddLowerBound(columnDurationMs, minDuration)
	}
	if params.MaxDuration != nil {
		maxDuration, err := validateDuration("max_duration", *params.MaxDuration)
		if err != nil {
			return nil, err
		}
		qb.AddUpperBound(columnDurationMs, maxDuration)
	}
	if len(params.Tags) > 0 {
		qb.AddTagOverlap(columnTags, params.Tags)
	}
	if params.CorrelationID != "" {
		correlationID, err := validateCorrelationID(&params.CorrelationID)
		if err != nil {
			return nil, err
		}
		if correlationID != nil {
			qb.AddCondition(columnCorrelationID, *correlationID)
		}
	}

	limit := clampLimit(params.Limit)
	offset := clampOffset(params.Offset)

	projection := logColumns + ",\n\t\t" + performanceCaseSQL
	logs, total, err := db.runListQuery(ctx, qb, projection, columnStartDate+" DESC", limit, offset, true)
	if err != nil {
		return nil, err
	}

	resp := &models.LogListResponse{
		Data:       logs,
		Pagination: newPagination(total, limit, offset, len(logs)),
		SearchMetrics: &models.SearchMetrics{
			ResultsCount:         len(logs),
			PerformanceBreakdown: performanceBreakdown(logs),
		},
	}
	if orgID != nil {
		resp.Organization = db.organizationRef(ctx, *orgID)
	}
	return resp, nil
}

// LogsByOrganization lists an organization's logs, newest first.
func (db *DB) LogsByOrganization(ctx context.Context, orgID uuid.UUID, limit, offset int) (*models.LogListResponse, error) {
	qb := NewQueryBuilder()
	qb.AddCondition(columnOrganizationID, orgID)

	limit = clampLimit(limit)
	offset = clampOffset(offset)

	logs, total, err := db.runListQuery(ctx, qb, logColumns, columnStartDate+" DESC", limit, offset, false)
	if err != nil {
		return nil, err
	}

	return &models.LogListResponse{
		Data:         logs,
		Pagination:   newPagination(total, limit, offset, len(logs)),
		Organization: db.organizationRef(ctx, orgID),
	}, nil
}

// LogsByOrganizationName resolves the name to an id first; a name that
// matches nothing is NotFoundError rather than an empty page.
func (db *DB) LogsByOrganizationName(ctx context.Context, name string, limit, offset int) (*models.LogListResponse, error) {
	orgID, err := db.resolveOrganization(ctx, nil, &name)
	if err != nil {
		return nil, err
	}
	return db.LogsByOrganization(ctx, *orgID, limit, offset)
}

func (db *DB) LogsByService(ctx context.Context, serviceName string, limit, offset int) (*models.LogListResponse, error) {
	name, err := validateServiceName(serviceName)
	if err != nil {
		return nil, err
	}

	qb := NewQueryBuilder()
	qb.AddCondition(columnServiceName, name)

	limit = clampLimit(limit)
	offset = clampOffset(offset)

	logs, total, err := db.runListQuery(ctx, qb, logColumns, columnStartDate+" DESC", limit, offset, false)
	if err != nil {
		return nil, err
	}

	return &models.LogListResponse{
		Data:       logs,
		Pagination: newPagination(total, limit, offset, len(logs)),
	}, nil
}

func (db *DB) LogsByServiceAndStatus(ctx context.Context, serviceName, status string, limit, offset int) (*models.LogListResponse, error) {
	name, err := validateServiceName(serviceName)
	if err != nil {
		return nil, err
	}
	validStatus, err := validateStatus(status)
	if err != nil {
		return nil, err
	}

	qb := NewQueryBuilder()
	qb.AddCondition(columnServiceName, name)
	qb.AddCondition(columnStatus, validStatus)

	limit = clampLimit(limit)
	offset = clampOffset(offset)

	logs, total, err := db.runListQuery(ctx, qb, logColumns, columnStartDate+" DESC", limit, offset, false)
	if err != nil {
		return nil, err
	}

	return &models.LogListResponse{
		Data:       logs,
		Pagination: newPagination(total, limit, offset, len(logs)),
	}, nil
}

func (db *DB) LogsByStatus(ctx context.Context, status string, limit, offset int) (*models.LogListResponse, error) {
	validStatus, err := validateStatus(status)
	if err != nil {
		return nil, err
	}

	qb := NewQueryBuilder()
	qb.AddCondition(columnStatus, validStatus)

	limit = clampLimit(limit)
	offset = clampOffset(offset)

	logs, total, err := db.runListQuery(ctx, qb, logColumns, columnStartDate+" DESC", limit, offset, false)
	if err != nil {
		return nil, err
	}

	return &models.LogListResponse{
		Data:       logs,
		Pagination: newPagination(total, limit, offset, len(logs)),
	}, nil
}

// ErrorLogs is a convenience view over the error status.
func (db *DB) ErrorLogs(ctx context.Context, limit int) (*models.LogListResponse, error) {
	return db.LogsByStatus(ctx, string(models.StatusError), limit, 0)
}

// HighDurationLogs lists records slower than the threshold, slowest
// first.
func (db *DB) HighDurationLogs(ctx context.Context, thresholdMs int64, limit, offset int) (*models.LogListResponse, error) {
	threshold, err := validateDuration("threshold_ms", thresholdMs)
	if err != nil {
		return nil, err
	}

	qb := NewQueryBuilder()
	qb.AddGreaterThan(columnDurationMs, threshold)

	limit = clampLimit(limit)
	offset = clampOffset(offset)

	logs, total, err := db.runListQuery(ctx, qb, logColumns, columnDurationMs+" DESC", limit, offset, false)
	if err != nil {
		return nil, err
	}

	return &models.LogListResponse{
		Data:       logs,
		Pagination: newPagination(total, limit, offset, len(logs)),
	}, nil
}

const maxDateRangeDays = 365

// LogsByDateRange lists logs with start_date inside [start, end].
func (db *DB) LogsByDateRange(ctx context.Context, start, end time.Time, limit, offset int) (*models.LogListResponse, error) {
	if start.After(end) {
		return nil, newValidationError("start_date", "cannot be after end_date")
	}
	if end.Sub(start) > maxDateRangeDays*24*time.Hour {
		return nil, newValidationError("end_date", "date range cannot exceed %d days", maxDateRangeDays)
	}

	qb := NewQueryBuilder()
	qb.AddLowerBound(columnStartDate, start)
	qb.AddUpperBound(columnStartDate, end)

	limit = clampLimit(limit)
	offset = clampOffset(offset)

	logs, total, err := db.runListQuery(ctx, qb, logColumns, columnStartDate+" DESC", limit, offset, false)
	if err != nil {
		return nil, err
	}

	return &models.LogListResponse{
		Data:       logs,
		Pagination: newPagination(total, limit, offset, len(logs)),
	}, nil
}

const maxRecentServices = 50

// RecentServices returns the distinct service names active within the
// last seven days.
func (db *DB) RecentServices(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 || limit > maxRecentServices {
		limit = maxRecentServices
	}

	query := `
		SELECT DISTINCT service_name
		FROM logs
		WHERE start_date > NOW() - INTERVAL '7 days'
		ORDER BY service_name
		LIMIT $1
	`

	rows, err := db.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent services: %w", err)
	}
	defer rows.Close()

	services := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan service name: %w", err)
		}
		services = append(services, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating services: %w", err)
	}

	return services, nil
}
