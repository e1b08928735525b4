package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"pulse/models"
)

type rowScanner interface {
	Scan(dest ...any) error
}

type rowsScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanLog(row rowScanner, includeCategory bool) (*models.LogRecord, error) {
	var rec models.LogRecord

	dest := []any{
		&rec.ID,
		&rec.ServiceName,
		&rec.StartDate,
		&rec.StartTimes,
		&rec.DurationMs,
		&rec.Status,
		&rec.LogDescription,
		&rec.ErrorDetails,
		&rec.Metadata,
		&rec.Tags,
		&rec.CorrelationID,
		&rec.OrganizationID,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	}
	if includeCategory {
		dest = append(dest, &rec.PerformanceCategory)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &rec, nil
}

func scanLogs(rows rowsScanner, includeCategory bool) ([]models.LogRecord, error) {
	logs := []models.LogRecord{}

	for rows.Next() {
		rec, err := scanLog(rows, includeCategory)
		if err != nil {
			return nil, fmt.Errorf("failed to scan log: %w", err)
		}
		logs = append(logs, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating logs: %w", err)
	}

	return logs, nil
}

// resolveOrganization prefers an explicit id and falls back to a
// name→id lookup. A supplied name that matches no organization is a
// hard NotFoundError, never a silent nil.
func (db *DB) resolveOrganization(ctx context.Context, id *uuid.UUID, name *string) (*uuid.UUID, error) {
	if id != nil {
		return id, nil
	}
	if name == nil {
		return nil, nil
	}

	orgName, err := validateOrganizationName(*name)
	if err != nil {
		return nil, err
	}

	orgID, err := db.Orgs.LookupID(ctx, orgName)
	if err != nil {
		return nil, err
	}
	if orgID == nil {
		return nil, newNotFoundError("organization", orgName)
	}
	return orgID, nil
}

// CreateLog validates and normalizes the request, resolves the
// organization reference, applies the error-details status correction,
// assigns defaults and persists the record. The returned record carries
// the resolved organization name.
func (db *DB) CreateLog(ctx context.Context, req models.CreateLogRequest) (*models.LogRecord, error) {
	serviceName, err := validateServiceName(req.ServiceName)
	if err != nil {
		return nil, err
	}

	statusInput := req.Status
	if statusInput == "" {
		statusInput = string(models.StatusPending)
	}
	status, err := validateStatus(statusInput)
	if err != nil {
		return nil, err
	}

	orgID, err := db.resolveOrganization(ctx, req.OrganizationID, req.OrganizationName)
	if err != nil {
		return nil, err
	}

	logDescription, err := validateTextField("log_description", req.LogDescription, MaxDescriptionLength)
	if err != nil {
		return nil, err
	}
	errorDetails, err := validateTextField("error_details", req.ErrorDetails, MaxDescriptionLength)
	if err != nil {
		return nil, err
	}

	// Documented policy: error details with a non-error status is a
	// contradiction; the status wins an auto-correction, logged.
	if errorDetails != nil && status != models.StatusError {
		db.log.Warn().
			Str("service_name", serviceName).
			Str("requested_status", string(status)).
			Msg("Auto-corrected status to 'error' because error details are present")
		status = models.StatusError
	}

	durationMs, err := validateDuration("duration_ms", req.DurationMs)
	if err != nil {
		return nil, err
	}
	correlationID, err := validateCorrelationID(req.CorrelationID)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	if req.ID != nil {
		id = *req.ID
	}
	startDate := time.Now().UTC()
	if req.StartDate != nil {
		startDate = *req.StartDate
	}
	startTimes := req.StartTimes
	if startTimes < 0 {
		startTimes = 0
	}

	query := fmt.Sprintf(`
		INSERT INTO logs (
			id, service_name, start_date, start_times, duration_ms,
			status, log_description, error_details, metadata, tags,
			correlation_id, organization_id, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW()
		)
		RETURNING %s
	`, logColumns)

	rec, err := scanLog(db.q.QueryRow(ctx, query,
		id, serviceName, startDate, startTimes, durationMs,
		status, logDescription, errorDetails, req.Metadata, req.Tags,
		correlationID, orgID,
	), false)
	if err != nil {
		return nil, fmt.Errorf("failed to create log: %w", err)
	}

	enrichLog(ctx, db.Orgs, db.log, rec)

	db.log.Info().
		Str("log_id", rec.ID.String()).
		Str("service_name", rec.ServiceName).
		Msg("Log created")
	return rec, nil
}

// GetLog fetches one record by id, enriched with the organization name.
func (db *DB) GetLog(ctx context.Context, id uuid.UUID) (*models.LogRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM logs
		WHERE id = $1
	`, logColumns)

	rec, err := scanLog(db.q.QueryRow(ctx, query, id), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, newNotFoundError("log", id.String())
		}
		return nil, fmt.Errorf("failed to get log: %w", err)
	}

	enrichLog(ctx, db.Orgs, db.log, rec)
	return rec, nil
}

// DeleteLog removes a record unconditionally. There are no cascading
// dependents; a missing id is NotFoundError.
func (db *DB) DeleteLog(ctx context.Context, id uuid.UUID) error {
	result, err := db.q.Exec(ctx, `DELETE FROM logs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete log: %w", err)
	}
	if result.RowsAffected() == 0 {
		return newNotFoundError("log", id.String())
	}

	db.log.Info().Str("log_id", id.String()).Msg("Log deleted")
	return nil
}
