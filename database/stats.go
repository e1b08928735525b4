package database

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"pulse/models"
)

// statisticsAggregateSQL is the raw aggregate shared by every scope.
// PERCENTILE_CONT is the continuous-interpolation percentile the store
// guarantees, interpolating between order statistics rather than
// picking the nearest rank.
const statisticsAggregateSQL = `
	COUNT(*) AS total_logs,
	COUNT(CASE WHEN status = 'success' THEN 1 END) AS success_count,
	COUNT(CASE WHEN status = 'error' THEN 1 END) AS error_count,
	COUNT(CASE WHEN status = 'pending' THEN 1 END) AS pending_count,
	AVG(duration_ms) AS avg_duration_ms,
	MIN(duration_ms) AS min_duration_ms,
	MAX(duration_ms) AS max_duration_ms,
	PERCENTILE_CONT(0.5) WITHIN GROUP (ORDER BY duration_ms) AS median_duration_ms,
	PERCENTILE_CONT(0.95) WITHIN GROUP (ORDER BY duration_ms) AS p95_duration_ms,
	MIN(start_date) AS first_log_date,
	MAX(start_date) AS last_log_date`

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// deriveRates computes the second-pass fields. Rates are omitted, not
// divided-by-zero, when the scope is empty.
func deriveRates(s *models.Statistics) {
	if s.TotalLogs == 0 {
		return
	}
	successRate := round2(float64(s.SuccessCount) / float64(s.TotalLogs) * 100)
	errorRate := round2(float64(s.ErrorCount) / float64(s.TotalLogs) * 100)
	s.SuccessRate = &successRate
	s.ErrorRate = &errorRate
}

func scanStatistics(row rowScanner, extra ...any) (*models.Statistics, error) {
	var s models.Statistics
	dest := []any{
		&s.TotalLogs,
		&s.SuccessCount,
		&s.ErrorCount,
		&s.PendingCount,
		&s.AvgDurationMs,
		&s.MinDurationMs,
		&s.MaxDurationMs,
		&s.MedianDurationMs,
		&s.P95DurationMs,
		&s.FirstLogDate,
		&s.LastLogDate,
	}
	dest = append(dest, extra...)

	if err := row.Scan(dest...); err != nil {
		return nil, fmt.Errorf("failed to scan statistics: %w", err)
	}
	return &s, nil
}

// ServiceStatistics aggregates one service's logs in a single query.
func (db *DB) ServiceStatistics(ctx context.Context, serviceName string) (*models.ServiceStatistics, error) {
	name, err := validateServiceName(serviceName)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM logs
		WHERE service_name = $1
	`, statisticsAggregateSQL)

	stats, err := scanStatistics(db.q.QueryRow(ctx, query, name))
	if err != nil {
		return nil, err
	}
	deriveRates(stats)

	return &models.ServiceStatistics{Statistics: *stats, ServiceName: name}, nil
}

// OrganizationStatistics aggregates one organization's logs, adding
// distinct-service and distinct-operation counts plus the health score.
func (db *DB) OrganizationStatistics(ctx context.Context, orgID uuid.UUID) (*models.OrganizationStatistics, error) {
	query := fmt.Sprintf(`
		SELECT %s,
		COUNT(DISTINCT service_name) AS unique_services,
		COUNT(DISTINCT correlation_id) AS unique_operations
		FROM logs
		WHERE organization_id = $1
	`, statisticsAggregateSQL)

	var uniqueServices, uniqueOperations int64
	stats, err := scanStatistics(db.q.QueryRow(ctx, query, orgID), &uniqueServices, &uniqueOperations)
	if err != nil {
		return nil, err
	}
	deriveRates(stats)

	result := &models.OrganizationStatistics{
		Statistics:       *stats,
		UniqueServices:   uniqueServices,
		UniqueOperations: uniqueOperations,
		Organization:     *db.organizationRef(ctx, orgID),
	}
	if result.ErrorRate != nil {
		health := round2(100 - *result.ErrorRate)
		result.HealthScore = &health
	}
	return result, nil
}

// GlobalStatistics aggregates across all services and organizations.
func (db *DB) GlobalStatistics(ctx context.Context) (*models.GlobalStatistics, error) {
	query := fmt.Sprintf(`
		SELECT %s,
		COUNT(DISTINCT service_name) AS unique_services,
		COUNT(DISTINCT organization_id) AS unique_organizations
		FROM logs
	`, statisticsAggregateSQL)

	var uniqueServices, uniqueOrganizations int64
	stats, err := scanStatistics(db.q.QueryRow(ctx, query), &uniqueServices, &uniqueOrganizations)
	if err != nil {
		return nil, err
	}
	deriveRates(stats)
	if stats.ErrorRate != nil {
		availability := round2(100 - *stats.ErrorRate)
		stats.Availability = &availability
	}

	return &models.GlobalStatistics{
		Statistics:          *stats,
		UniqueServices:      uniqueServices,
		UniqueOrganizations: uniqueOrganizations,
	}, nil
}

const maxOverviewLimit = 100

// OrganizationsOverview returns per-organization aggregates ordered by
// log volume. Names come from a LEFT JOIN so an organization deleted
// out from under its logs still appears, with a nil name.
func (db *DB) OrganizationsOverview(ctx context.Context, limit int) ([]models.OrganizationOverview, error) {
	if limit <= 0 || limit > maxOverviewLimit {
		limit = maxOverviewLimit
	}

	query := `
		SELECT
			l.organization_id,
			o.organization_name,
			COUNT(*) AS total_logs,
			COUNT(CASE WHEN l.status = 'success' THEN 1 END) AS success_count,
			COUNT(CASE WHEN l.status = 'error' THEN 1 END) AS error_count,
			AVG(l.duration_ms) AS avg_duration_ms,
			MAX(l.start_date) AS last_activity
		FROM logs l
		LEFT JOIN organizations o ON l.organization_id = o.id
		WHERE l.organization_id IS NOT NULL
		GROUP BY l.organization_id, o.organization_name
		ORDER BY total_logs DESC
		LIMIT $1
	`

	rows, err := db.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query organizations overview: %w", err)
	}
	defer rows.Close()

	overview := []models.OrganizationOverview{}
	for rows.Next() {
		var row models.OrganizationOverview
		err := rows.Scan(
			&row.OrganizationID,
			&row.OrganizationName,
			&row.TotalLogs,
			&row.SuccessCount,
			&row.ErrorCount,
			&row.AvgDurationMs,
			&row.LastActivity,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan overview row: %w", err)
		}

		if row.TotalLogs > 0 {
			successRate := round2(float64(row.SuccessCount) / float64(row.TotalLogs) * 100)
			errorRate := round2(float64(row.ErrorCount) / float64(row.TotalLogs) * 100)
			health := round2(100 - errorRate)
			row.SuccessRate = &successRate
			row.ErrorRate = &errorRate
			row.HealthScore = &health
		}
		overview = append(overview, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating overview: %w", err)
	}

	return overview, nil
}

// OrganizationServices returns per-service aggregates within one
// organization, busiest first.
func (db *DB) OrganizationServices(ctx context.Context, orgID uuid.UUID) ([]models.ServiceOverview, error) {
	query := `
		SELECT
			service_name,
			COUNT(*) AS total_requests,
			COUNT(CASE WHEN status = 'success' THEN 1 END) AS success_count,
			COUNT(CASE WHEN status = 'error' THEN 1 END) AS error_count,
			AVG(duration_ms) AS avg_duration_ms,
			MAX(start_date) AS last_request
		FROM logs
		WHERE organization_id = $1
		GROUP BY service_name
		ORDER BY total_requests DESC
	`

	rows, err := db.q.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to query organization services: %w", err)
	}
	defer rows.Close()

	services := []models.ServiceOverview{}
	for rows.Next() {
		var row models.ServiceOverview
		err := rows.Scan(
			&row.ServiceName,
			&row.TotalRequests,
			&row.SuccessCount,
			&row.ErrorCount,
			&row.AvgDurationMs,
			&row.LastRequest,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service row: %w", err)
		}

		if row.TotalRequests > 0 {
			successRate := round2(float64(row.SuccessCount) / float64(row.TotalRequests) * 100)
			errorRate := round2(float64(row.ErrorCount) / float64(row.TotalRequests) * 100)
			row.SuccessRate = &successRate
			row.ErrorRate = &errorRate
		}
		services = append(services, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating services: %w", err)
	}

	return services, nil
}
