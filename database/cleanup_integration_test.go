package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulse/models"
)

func TestCleanupOldLogs(t *testing.T) {
	db := GetTestDB()
	CleanupTestDB(t, db)
	ctx := context.Background()

	now := time.Now().UTC()
	old := seedLog(t, db, models.CreateLogRequest{
		ServiceName: "retention-svc",
		StartDate:   timePtr(now.AddDate(0, 0, -31)),
	})
	recent := seedLog(t, db, models.CreateLogRequest{
		ServiceName: "retention-svc",
		StartDate:   timePtr(now.AddDate(0, 0, -29)),
	})

	result, err := db.CleanupOldLogs(ctx, 30)
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.DeletedCount)
	assert.Equal(t, int64(1), result.EstimatedBefore)
	assert.Equal(t, 30, result.OlderThanDays)
	assert.WithinDuration(t, now, result.CleanupDate, 5*time.Second)

	_, err = db.GetLog(ctx, old.ID)
	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr)

	_, err = db.GetLog(ctx, recent.ID)
	require.NoError(t, err)
}

func TestCleanupOldLogs_NothingToDelete(t *testing.T) {
	db := GetTestDB()
	CleanupTestDB(t, db)
	ctx := context.Background()

	seedLog(t, db, models.CreateLogRequest{ServiceName: "retention-svc"})

	result, err := db.CleanupOldLogs(ctx, 30)
	require.NoError(t, err)

	assert.Equal(t, int64(0), result.DeletedCount)
	assert.Equal(t, int64(0), result.EstimatedBefore)
	assert.Equal(t, 30, result.OlderThanDays)
}

func TestCleanupOldLogs_RejectsBadThreshold(t *testing.T) {
	db := GetTestDB()
	CleanupTestDB(t, db)
	ctx := context.Background()

	for _, days := range []int{0, -7} {
		_, err := db.CleanupOldLogs(ctx, days)
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr, "threshold %d should be rejected", days)
		assert.Equal(t, "older_than_days", validationErr.Field)
	}
}
