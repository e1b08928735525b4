package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulse/models"
)

func seedLog(t *testing.T, db *DB, req models.CreateLogRequest) *models.LogRecord {
	t.Helper()
	rec, err := db.CreateLog(context.Background(), req)
	require.NoError(t, err)
	return rec
}

func TestSearchLogs_NoFilters(t *testing.T) {
	db := GetTestDB()
	CleanupTestDB(t, db)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedLog(t, db, models.CreateLogRequest{
			ServiceName: "feed-service",
			StartDate:   timePtr(base.Add(time.Duration(i) * time.Hour)),
			Status:      "success",
		})
	}

	resp, err := db.SearchLogs(ctx, models.SearchParams{Limit: 2})
	require.NoError(t, err)

	assert.Equal(t, int64(5), resp.Pagination.Total)
	assert.Equal(t, 2, resp.Pagination.Limit)
	assert.Equal(t, 0, resp.Pagination.Offset)
	assert.True(t, resp.Pagination.HasMore)
	require.Len(t, resp.Data, 2)

	// Newest first.
	assert.True(t, resp.Data[0].StartDate.After(resp.Data[1].StartDate))

	// Last page flips has_more off.
	resp, err = db.SearchLogs(ctx, models.SearchParams{Limit: 2, Offset: 4})
	require.NoError(t, err)
	assert.Len(t, resp.Data, 1)
	assert.False(t, resp.Pagination.HasMore)
}

func TestSearchLogs_LimitClamping(t *testing.T) {
	db := GetTestDB()
	CleanupTestDB(t, db)
	ctx := context.Background()

	seedLog(t, db, models.CreateLogRequest{ServiceName: "feed-service"})

	resp, err := db.SearchLogs(ctx, models.SearchParams{Limit: 5000, Offset: -3})
	require.NoError(t, err)
	assert.Equal(t, MaxLimit, resp.Pagination.Limit)
	assert.Equal(t, 0, resp.Pagination.Offset)

	resp, err = db.SearchLogs(ctx, models.SearchParams{})
	require.NoError(t, err)
	assert.Equal(t, DefaultLimit, resp.Pagination.Limit)
}

func TestSearchLogs_Filters(t *testing.T) {
	db := GetTestDB()
	CleanupTestDB(t, db)
	ctx := context.Background()

	orgID := CreateTestOrganization(t, db, "Acme Corp")

	seedLog(t, db, models.CreateLogRequest{
		ServiceName:    "auth-service",
		Status:         "success",
		DurationMs:     500,
		Tags:           []string{"prod", "auth"},
		CorrelationID:  strPtr("req-100"),
		OrganizationID: &orgID,
	})
	seedLog(t, db, models.CreateLogRequest{
		ServiceName:  "auth-service",
		Status:       "error",
		ErrorDetails: strPtr("token expired"),
		DurationMs:   2500,
		Tags:         []string{"prod"},
	})
	seedLog(t, db, models.CreateLogRequest{
		ServiceName: "billing-service",
		Status:      "success",
		DurationMs:  15000,
		Tags:        []string{"staging"},
	})

	t.Run("by service", func(t *testing.T) {
		resp, err := db.SearchLogs(ctx, models.SearchParams{ServiceName: "auth-service"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.Pagination.Total)
	})

	t.Run("by service and status", func(t *testing.T) {
		resp, err := db.SearchLogs(ctx, models.SearchParams{
			ServiceName: "auth-service",
			Status:      "error",
		})
		require.NoError(t, err)
		require.Len(t, resp.Data, 1)
		assert.Equal(t, models.StatusError, resp.Data[0].Status)
	})

	t.Run("by duration window", func(t *testing.T) {
		minDur := int64(1000)
		maxDur := int64(10000)
		resp, err := db.SearchLogs(ctx, models.SearchParams{
			MinDuration: &minDur,
			MaxDuration: &maxDur,
		})
		require.NoError(t, err)
		require.Len(t, resp.Data, 1)
		assert.Equal(t, int64(2500), resp.Data[0].DurationMs)
	})

	t.Run("by tag overlap", func(t *testing.T) {
		resp, err := db.SearchLogs(ctx, models.SearchParams{
			Tags: []string{"auth", "staging"},
		})
		require.NoError(t, err)
		// Any-tag semantics: one record tagged auth, one tagged staging.
		assert.Equal(t, int64(2), resp.Pagination.Total)
	})

	t.Run("by correlation id", func(t *testing.T) {
		resp, err := db.SearchLogs(ctx, models.SearchParams{CorrelationID: "req-100"})
		require.NoError(t, err)
		require.Len(t, resp.Data, 1)
	})

	t.Run("by organization id with scope header", func(t *testing.T) {
		resp, err := db.SearchLogs(ctx, models.SearchParams{
			OrganizationID: orgID.String(),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.Pagination.Total)
		require.NotNil(t, resp.Organization)
		assert.Equal(t, orgID, resp.Organization.ID)
		require.NotNil(t, resp.Organization.Name)
		assert.Equal(t, "Acme Corp", *resp.Organization.Name)
	})

	t.Run("by organization name", func(t *testing.T) {
		resp, err := db.SearchLogs(ctx, models.SearchParams{
			OrganizationName: "Acme Corp",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.Pagination.Total)
	})

	t.Run("unknown organization name", func(t *testing.T) {
		_, err := db.SearchLogs(ctx, models.SearchParams{
			OrganizationName: "Nobody Here",
		})
		var notFoundErr *NotFoundError
		require.ErrorAs(t, err, &notFoundErr)
	})

	t.Run("no match is empty page, not error", func(t *testing.T) {
		resp, err := db.SearchLogs(ctx, models.SearchParams{ServiceName: "ghost-service"})
		require.NoError(t, err)
		assert.Empty(t, resp.Data)
		assert.Equal(t, int64(0), resp.Pagination.Total)
		assert.False(t, resp.Pagination.HasMore)
	})
}

func TestSearchLogs_PerformanceBreakdown(t *testing.T) {
	db := GetTestDB()
	CleanupTestDB(t, db)
	ctx := context.Background()

	seedLog(t, db, models.CreateLogRequest{ServiceName: "mix-service", DurationMs: 500})
	seedLog(t, db, models.CreateLogRequest{ServiceName: "mix-service", DurationMs: 1000})
	seedLog(t, db, models.CreateLogRequest{ServiceName: "mix-service", DurationMs: 5000})
	seedLog(t, db, models.CreateLogRequest{ServiceName: "mix-service", DurationMs: 10000})
	seedLog(t, db, models.CreateLogRequest{ServiceName: "mix-service", DurationMs: 20000})

	resp, err := db.SearchLogs(ctx, models.SearchParams{ServiceName: "mix-service"})
	require.NoError(t, err)

	require.NotNil(t, resp.SearchMetrics)
	assert.Equal(t, 5, resp.SearchMetrics.ResultsCount)
	// Boundaries are exclusive: exactly 1000 is LOW, exactly 10000 is
	// MEDIUM.
	assert.Equal(t, 1, resp.SearchMetrics.PerformanceBreakdown.High)
	assert.Equal(t, 2, resp.SearchMetrics.PerformanceBreakdown.Medium)
	assert.Equal(t, 2, resp.SearchMetrics.PerformanceBreakdown.Low)

	for _, rec := range resp.Data {
		assert.Contains(t, []string{"HIGH", "MEDIUM", "LOW"}, rec.PerformanceCategory)
	}
}

func TestSearchLogs_InvalidInputs(t *testing.T) {
	db := GetTestDB()
	CleanupTestDB(t, db)
	ctx := context.Background()

	var validationErr *ValidationError

	_, err := db.SearchLogs(ctx, models.SearchParams{OrganizationID: "not-a-uuid"})
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "organization_id", validationErr.Field)

	_, err = db.SearchLogs(ctx, models.SearchParams{StartDate: "yesterday"})
	require.ErrorAs(t, err, &validationErr)

	_, err = db.SearchLogs(ctx, models.SearchParams{
		StartDate: "2026-02-01T00:00:00Z",
		EndDate:   "2026-01-01T00:00:00Z",
	})
	require.ErrorAs(t, err, &validationErr)

	_, err = db.SearchLogs(ctx, models.SearchParams{Status: "broken"})
	require.ErrorAs(t, err, &validationErr)
}

func TestLogsByOrganization(t *testing.T) {
	db := GetTestDB()
	CleanupTestDB(t, db)
	ctx := context.Background()

	orgID := CreateTestOrganization(t, db, "Acme Corp")
	otherID := CreateTestOrganization(t, db, "Beta Corp")

	seedLog(t, db, models.CreateLogRequest{ServiceName: "svc-a", OrganizationID: &orgID})
	seedLog(t, db, models.CreateLogRequest{ServiceName: "svc-b", OrganizationID: &orgID})
	seedLog(t, db, models.CreateLogRequest{ServiceName: "svc-c", OrganizationID: &otherID})

	resp, err := db.LogsByOrganization(ctx, orgID, 10, 0)
	require.NoError(t, err)

	assert.Equal(t, int64(2), resp.Pagination.Total)
	require.NotNil(t, resp.Organization)
	require.NotNil(t, resp.Organization.Name)
	assert.Equal(t, "Acme Corp", *resp.Organization.Name)

	byName, err := db.LogsByOrganizationName(ctx, "Beta Corp", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), byName.Pagination.Total)

	_, err = db.LogsByOrganizationName(ctx, "Nobody", 10, 0)
	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
}

func TestLogsByOrganization_UnknownIDHasNilName(t *testing.T) {
	db := GetTestDB()
	CleanupTestDB(t, db)

	resp, err := db.LogsByOrganization(context.Background(), uuid.New(), 10, 0)
	require.NoError(t, err)
	assert.Empty(t, resp.Data)
	require.NotNil(t, resp.Organization)
	assert.Nil(t, resp.Organization.Name)
}

func TestLogsByServiceAndStatus(t *testing.T) {
	db := GetTestDB()
	CleanupTestDB(t, db)
	ctx := context.Background()

	seedLog(t, db, models.CreateLogRequest{ServiceName: "api", Status: "success"})
	seedLog(t, db, models.CreateLogRequest{ServiceName: "api", Status: "error", ErrorDetails: strPtr("boom")})
	seedLog(t, db, models.CreateLogRequest{ServiceName: "worker", Status: "error", ErrorDetails: strPtr("boom")})

	resp, err := db.LogsByService(ctx, "api", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Pagination.Total)

	resp, err = db.LogsByServiceAndStatus(ctx, "api", "error", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Pagination.Total)

	resp, err = db.ErrorLogs(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Pagination.Total)
}

func TestHighDurationLogs(t *testing.T) {
	db := GetTestDB()
	CleanupTestDB(t, db)
	ctx := context.Background()

	seedLog(t, db, models.CreateLogRequest{ServiceName: "slow", DurationMs: 30000})
	seedLog(t, db, models.CreateLogRequest{ServiceName: "slow", DurationMs: 12000})
	seedLog(t, db, models.CreateLogRequest{ServiceName: "fast", DurationMs: 100})

	resp, err := db.HighDurationLogs(ctx, 10000, 10, 0)
	require.NoError(t, err)

	require.Len(t, resp.Data, 2)
	// Slowest first.
	assert.Equal(t, int64(30000), resp.Data[0].DurationMs)
	assert.Equal(t, int64(12000), resp.Data[1].DurationMs)

	_, err = db.HighDurationLogs(ctx, -1, 10, 0)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestLogsByDateRange(t *testing.T) {
	db := GetTestDB()
	CleanupTestDB(t, db)
	ctx := context.Background()

	jan := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	seedLog(t, db, models.CreateLogRequest{ServiceName: "range-svc", StartDate: timePtr(jan)})
	seedLog(t, db, models.CreateLogRequest{ServiceName: "range-svc", StartDate: timePtr(feb)})
	seedLog(t, db, models.CreateLogRequest{ServiceName: "range-svc", StartDate: timePtr(mar)})

	resp, err := db.LogsByDateRange(ctx,
		time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
		10, 0)
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.True(t, resp.Data[0].StartDate.Equal(feb))

	var validationErr *ValidationError

	_, err = db.LogsByDateRange(ctx, mar, jan, 10, 0)
	require.ErrorAs(t, err, &validationErr)

	_, err = db.LogsByDateRange(ctx, jan, jan.AddDate(2, 0, 0), 10, 0)
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "end_date", validationErr.Field)
}

func TestRecentServices(t *testing.T) {
	db := GetTestDB()
	CleanupTestDB(t, db)
	ctx := context.Background()

	now := time.Now().UTC()
	seedLog(t, db, models.CreateLogRequest{ServiceName: "fresh-a", StartDate: timePtr(now.Add(-time.Hour))})
	seedLog(t, db, models.CreateLogRequest{ServiceName: "fresh-a", StartDate: timePtr(now.Add(-2 * time.Hour))})
	seedLog(t, db, models.CreateLogRequest{ServiceName: "fresh-b", StartDate: timePtr(now.Add(-24 * time.Hour))})
	seedLog(t, db, models.CreateLogRequest{ServiceName: "stale", StartDate: timePtr(now.AddDate(0, 0, -10))})

	services, err := db.RecentServices(ctx, 50)
	require.NoError(t, err)

	assert.Equal(t, []string{"fresh-a", "fresh-b"}, services)
}
