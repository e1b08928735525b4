package database

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"pulse/models"
)

// updateAllowList is the only set of fields a caller may mutate.
// Anything else in the payload is dropped with a warning, not an error.
var updateAllowList = map[string]struct{}{
	columnServiceName:    {},
	columnStatus:         {},
	columnLogDescription: {},
	columnErrorDetails:   {},
	columnDurationMs:     {},
	columnStartTimes:     {},
	columnMetadata:       {},
	columnTags:           {},
	columnCorrelationID:  {},
	columnOrganizationID: {},
}

// UpdateLog applies an allow-listed partial update. organization_name in
// the payload is translated to organization_id up front and discarded.
// Every surviving field is revalidated with the create rules. A payload
// with no surviving fields is a no-op returning the current record.
func (db *DB) UpdateLog(ctx context.Context, id uuid.UUID, payload map[string]any) (*models.LogRecord, error) {
	existing, err := db.GetLog(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]any, len(payload))
	for k, v := range payload {
		fields[k] = v
	}

	if raw, ok := fields["organization_name"]; ok {
		if name, isString := raw.(string); isString && strings.TrimSpace(name) != "" {
			orgID, err := db.resolveOrganization(ctx, nil, &name)
			if err != nil {
				return nil, err
			}
			fields[columnOrganizationID] = *orgID
			delete(fields, "organization_name")
		}
	}

	set, args, err := buildLogUpdate(fields, db.log)
	if err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return existing, nil
	}

	set = append(set, "updated_at = NOW()")
	query := fmt.Sprintf(`
		UPDATE logs
		SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(set, ", "), len(args)+1, logColumns)
	args = append(args, id)

	rec, err := scanLog(db.q.QueryRow(ctx, query, args...), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, newNotFoundError("log", id.String())
		}
		return nil, fmt.Errorf("failed to update log: %w", err)
	}

	enrichLog(ctx, db.Orgs, db.log, rec)

	db.log.Info().Str("log_id", id.String()).Msg("Log updated")
	return rec, nil
}

// buildLogUpdate turns a raw field map into SET assignments and bound
// args ($1..$n). Fields are processed in a fixed order so the rendered
// SQL is deterministic. Nil values are skipped, matching the create
// path's treatment of absent fields.
func buildLogUpdate(fields map[string]any, log zerolog.Logger) ([]string, []any, error) {
	for name := range fields {
		if _, ok := updateAllowList[name]; !ok {
			log.Warn().Str("field", name).Msg("Dropped disallowed update field")
		}
	}

	set := []string{}
	args := []any{}
	add := func(column string, value any) {
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)+1))
		args = append(args, value)
	}

	if v, ok := fields[columnServiceName]; ok && v != nil {
		s, err := coerceString(columnServiceName, v)
		if err != nil {
			return nil, nil, err
		}
		name, err := validateServiceName(s)
		if err != nil {
			return nil, nil, err
		}
		add(columnServiceName, name)
	}

	if v, ok := fields[columnLogDescription]; ok && v != nil {
		s, err := coerceString(columnLogDescription, v)
		if err != nil {
			return nil, nil, err
		}
		value, err := validateTextField(columnLogDescription, &s, MaxDescriptionLength)
		if err != nil {
			return nil, nil, err
		}
		add(columnLogDescription, value)
	}

	var newErrorDetails *string
	errorDetailsTouched := false
	if v, ok := fields[columnErrorDetails]; ok && v != nil {
		s, err := coerceString(columnErrorDetails, v)
		if err != nil {
			return nil, nil, err
		}
		value, err := validateTextField(columnErrorDetails, &s, MaxDescriptionLength)
		if err != nil {
			return nil, nil, err
		}
		add(columnErrorDetails, value)
		newErrorDetails = value
		errorDetailsTouched = true
	}

	if v, ok := fields[columnDurationMs]; ok && v != nil {
		n, err := coerceInt64(columnDurationMs, v)
		if err != nil {
			return nil, nil, err
		}
		duration, err := validateDuration(columnDurationMs, n)
		if err != nil {
			return nil, nil, err
		}
		add(columnDurationMs, duration)
	}

	if v, ok := fields[columnStartTimes]; ok && v != nil {
		n, err := coerceInt64(columnStartTimes, v)
		if err != nil {
			return nil, nil, err
		}
		if n < 0 {
			n = 0
		}
		add(columnStartTimes, n)
	}

	if v, ok := fields[columnMetadata]; ok && v != nil {
		m, err := coerceMap(columnMetadata, v)
		if err != nil {
			return nil, nil, err
		}
		add(columnMetadata, m)
	}

	if v, ok := fields[columnTags]; ok && v != nil {
		tags, err := coerceStringSlice(columnTags, v)
		if err != nil {
			return nil, nil, err
		}
		add(columnTags, tags)
	}

	if v, ok := fields[columnCorrelationID]; ok && v != nil {
		s, err := coerceString(columnCorrelationID, v)
		if err != nil {
			return nil, nil, err
		}
		value, err := validateCorrelationID(&s)
		if err != nil {
			return nil, nil, err
		}
		add(columnCorrelationID, value)
	}

	if v, ok := fields[columnOrganizationID]; ok && v != nil {
		orgID, err := coerceUUID(columnOrganizationID, v)
		if err != nil {
			return nil, nil, err
		}
		add(columnOrganizationID, orgID)
	}

	var status *models.Status
	if v, ok := fields[columnStatus]; ok && v != nil {
		s, err := coerceString(columnStatus, v)
		if err != nil {
			return nil, nil, err
		}
		validated, err := validateStatus(s)
		if err != nil {
			return nil, nil, err
		}
		status = &validated
	}

	// Same correction law as create: non-null error details force the
	// status to error unless the caller explicitly set it to error.
	if errorDetailsTouched && newErrorDetails != nil && (status == nil || *status != models.StatusError) {
		log.Warn().Msg("Auto-corrected status to 'error' because error details are present")
		corrected := models.StatusError
		status = &corrected
	}
	if status != nil {
		add(columnStatus, *status)
	}

	return set, args, nil
}

// Update payloads arrive as decoded JSON, so numbers are float64 and
// arrays are []any; tests and internal callers pass native Go types.
// The coercions accept both and fail with a field-naming error.

func coerceString(field string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", newValidationError(field, "must be a string")
	}
	return s, nil
}

func coerceInt64(field string, v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		if n != math.Trunc(n) {
			return 0, newValidationError(field, "must be an integer")
		}
		return int64(n), nil
	default:
		return 0, newValidationError(field, "must be an integer")
	}
}

func coerceStringSlice(field string, v any) ([]string, error) {
	switch s := v.(type) {
	case []string:
		return s, nil
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			str, ok := item.(string)
			if !ok {
				return nil, newValidationError(field, "must be a list of strings")
			}
			out = append(out, str)
		}
		return out, nil
	default:
		return nil, newValidationError(field, "must be a list of strings")
	}
}

func coerceMap(field string, v any) (map[string]any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, newValidationError(field, "must be an object")
	}
	return m, nil
}

func coerceUUID(field string, v any) (uuid.UUID, error) {
	switch id := v.(type) {
	case uuid.UUID:
		return id, nil
	case string:
		parsed, err := uuid.Parse(id)
		if err != nil {
			return uuid.Nil, newValidationError(field, "invalid identifier format")
		}
		return parsed, nil
	default:
		return uuid.Nil, newValidationError(field, "invalid identifier format")
	}
}
