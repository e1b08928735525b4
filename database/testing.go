package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"pulse/config"
)

var (
	testDB *DB
)

// GetTestDB returns the shared test database connection.
// Available after TestMain has run and SetupTestDB succeeded.
func GetTestDB() *DB {
	return testDB
}

// SetupTestDB creates a test database connection and runs migrations.
// Should be called once in TestMain, not in individual tests.
// Migrations are embedded inline for test isolation.
func SetupTestDB(dbURL string) (*DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := Connect(ctx, config.DatabaseConfig{URL: dbURL, MaxConns: 5, MinConns: 1})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	if err := runTestMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

func runTestMigrations(db *DB) error {
	ctx := context.Background()

	migrations := []string{
		`
		CREATE TABLE IF NOT EXISTS organizations (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			organization_name VARCHAR(255) UNIQUE NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_organizations_name ON organizations(organization_name);
		`,
		`
		CREATE TABLE IF NOT EXISTS logs (
			id UUID PRIMARY KEY,
			service_name VARCHAR(255) NOT NULL,
			start_date TIMESTAMPTZ NOT NULL,
			start_times INTEGER NOT NULL DEFAULT 0,
			duration_ms BIGINT NOT NULL DEFAULT 0,
			status VARCHAR(20) NOT NULL,
			log_description TEXT,
			error_details TEXT,
			metadata JSONB,
			tags TEXT[],
			correlation_id VARCHAR(100),
			organization_id UUID,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ
		);
		CREATE INDEX IF NOT EXISTS idx_logs_start_date ON logs(start_date DESC);
		CREATE INDEX IF NOT EXISTS idx_logs_service_name ON logs(service_name);
		CREATE INDEX IF NOT EXISTS idx_logs_status ON logs(status);
		CREATE INDEX IF NOT EXISTS idx_logs_organization_id ON logs(organization_id);
		CREATE INDEX IF NOT EXISTS idx_logs_tags ON logs USING GIN (tags);
		`,
	}

	for _, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return err
		}
	}

	return nil
}

// CleanupTestDB truncates all tables for a fresh test state.
// Call this at the start of each integration test.
func CleanupTestDB(t *testing.T, db *DB) {
	t.Helper()

	ctx := context.Background()
	_, err := db.Pool.Exec(ctx, "TRUNCATE TABLE logs, organizations CASCADE")
	require.NoError(t, err)
}

// CreateTestOrganization inserts an organization and returns its id.
func CreateTestOrganization(t *testing.T, db *DB, name string) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := db.Pool.QueryRow(context.Background(),
		`INSERT INTO organizations (organization_name) VALUES ($1) RETURNING id`,
		name,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

// TeardownTestDB closes the test database connection.
// Safe to call with nil DB (no-op).
func TeardownTestDB(db *DB) {
	if db != nil {
		db.Close()
	}
}
