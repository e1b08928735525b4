package database

import (
	"context"
	"fmt"
	"time"

	"pulse/models"
)

// CleanupOldLogs deletes every record with start_date older than the
// day threshold. The pre-count and the deleted row count are both
// reported; they can differ under concurrent writes since the two
// statements do not share a snapshot.
func (db *DB) CleanupOldLogs(ctx context.Context, olderThanDays int) (*models.CleanupResult, error) {
	if olderThanDays < 1 {
		return nil, newValidationError("older_than_days", "must be at least 1")
	}

	countQuery := `
		SELECT COUNT(*)
		FROM logs
		WHERE start_date < NOW() - ($1 * INTERVAL '1 day')
	`

	var estimatedBefore int64
	if err := db.q.QueryRow(ctx, countQuery, olderThanDays).Scan(&estimatedBefore); err != nil {
		return nil, fmt.Errorf("failed to count old logs: %w", err)
	}

	result := &models.CleanupResult{
		EstimatedBefore: estimatedBefore,
		OlderThanDays:   olderThanDays,
		CleanupDate:     time.Now().UTC(),
	}
	if estimatedBefore == 0 {
		return result, nil
	}

	deleteQuery := `
		DELETE FROM logs
		WHERE start_date < NOW() - ($1 * INTERVAL '1 day')
	`

	tag, err := db.q.Exec(ctx, deleteQuery, olderThanDays)
	if err != nil {
		return nil, fmt.Errorf("failed to delete old logs: %w", err)
	}
	result.DeletedCount = tag.RowsAffected()

	db.log.Info().
		Int64("deleted_count", result.DeletedCount).
		Int("older_than_days", olderThanDays).
		Msg("Cleaned up old logs")
	return result, nil
}
