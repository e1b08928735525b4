package database

import (
	"fmt"
	"strings"
	"time"
)

const (
	columnID             = "id"
	columnServiceName    = "service_name"
	columnStartDate      = "start_date"
	columnStartTimes     = "start_times"
	columnDurationMs     = "duration_ms"
	columnStatus         = "status"
	columnLogDescription = "log_description"
	columnErrorDetails   = "error_details"
	columnMetadata       = "metadata"
	columnTags           = "tags"
	columnCorrelationID  = "correlation_id"
	columnOrganizationID = "organization_id"
	columnCreatedAt      = "created_at"
	columnUpdatedAt      = "updated_at"
)

// logColumns is the shared projection for every log query so scans stay
// aligned with a single column order.
const logColumns = "id, service_name, start_date, start_times, duration_ms, " +
	"status, log_description, error_details, metadata, tags, correlation_id, " +
	"organization_id, created_at, updated_at"

// QueryBuilder accumulates (clause, bound value) pairs and joins them
// with AND. Values are never interpolated into the SQL text; only safe
// column names and operators appear in clauses.
type QueryBuilder struct {
	conditions []string
	args       []any
	argCount   int
}

func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{
		conditions: []string{},
		args:       []any{},
		argCount:   1,
	}
}

func (qb *QueryBuilder) add(column, op string, value any) {
	qb.conditions = append(qb.conditions, fmt.Sprintf("%s %s $%d", column, op, qb.argCount))
	qb.args = append(qb.args, value)
	qb.argCount++
}

func (qb *QueryBuilder) AddCondition(column string, value any) {
	qb.add(column, "=", value)
}

func (qb *QueryBuilder) AddLowerBound(column string, value any) {
	qb.add(column, ">=", value)
}

func (qb *QueryBuilder) AddUpperBound(column string, value any) {
	qb.add(column, "<=", value)
}

func (qb *QueryBuilder) AddGreaterThan(column string, value any) {
	qb.add(column, ">", value)
}

// AddTagOverlap matches rows whose tag array intersects the given set
// ("any tag" semantics, not "all tags").
func (qb *QueryBuilder) AddTagOverlap(column string, tags []string) {
	qb.conditions = append(qb.conditions, fmt.Sprintf("%s && $%d", column, qb.argCount))
	qb.args = append(qb.args, tags)
	qb.argCount++
}

// AddDateRange parses optional RFC3339 bounds and emits one clause per
// bound. When both are present the range must be ordered.
func (qb *QueryBuilder) AddDateRange(column, start, end string) error {
	var startTime, endTime time.Time

	if start != "" {
		t, err := time.Parse(time.RFC3339, start)
		if err != nil {
			return newValidationError("start_date", "invalid format (expected RFC3339): %v", err)
		}
		startTime = t
	}
	if end != "" {
		t, err := time.Parse(time.RFC3339, end)
		if err != nil {
			return newValidationError("end_date", "invalid format (expected RFC3339): %v", err)
		}
		endTime = t
	}

	if start != "" && end != "" && startTime.After(endTime) {
		return newValidationError("start_date", "cannot be after end_date")
	}

	if start != "" {
		qb.AddLowerBound(column, startTime)
	}
	if end != "" {
		qb.AddUpperBound(column, endTime)
	}
	return nil
}

// WhereClause renders the accumulated predicate, or "" when no filter
// was added (match all).
func (qb *QueryBuilder) WhereClause() string {
	if len(qb.conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(qb.conditions, " AND ")
}

func (qb *QueryBuilder) Args() []any {
	return qb.args
}

func (qb *QueryBuilder) NextArgNum() int {
	return qb.argCount
}

// CountQuery and DataQuery render the two artifacts of one predicate:
// same filter, different projection and ordering.
func (qb *QueryBuilder) CountQuery() string {
	return strings.TrimSpace(fmt.Sprintf("SELECT COUNT(*) FROM logs %s", qb.WhereClause()))
}

func (qb *QueryBuilder) DataQuery(projection, orderBy string) string {
	return fmt.Sprintf(`
		SELECT %s
		FROM logs
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, projection, qb.WhereClause(), orderBy, qb.argCount, qb.argCount+1)
}
