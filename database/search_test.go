package database

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulse/models"
)

// fakeQuerier records every statement so tests can assert how many
// storage round trips an operation performs.
type fakeQuerier struct {
	queryRowSQL []string
	querySQL    []string
	execSQL     []string
}

func (q *fakeQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	q.queryRowSQL = append(q.queryRowSQL, sql)
	return fakeRow{}
}

func (q *fakeQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.querySQL = append(q.querySQL, sql)
	return emptyRows{}, nil
}

func (q *fakeQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.execSQL = append(q.execSQL, sql)
	return pgconn.CommandTag{}, nil
}

type fakeRow struct{}

func (fakeRow) Scan(dest ...any) error {
	for _, d := range dest {
		if n, ok := d.(*int64); ok {
			*n = 0
		}
	}
	return nil
}

// emptyRows is a zero-row pgx.Rows; only the methods the scan loop
// touches are implemented.
type emptyRows struct{ pgx.Rows }

func (emptyRows) Next() bool { return false }
func (emptyRows) Err() error { return nil }
func (emptyRows) Close()     {}

func newFakeDB(q Querier, dir OrganizationDirectory) *DB {
	return &DB{q: q, Orgs: dir, log: zerolog.Nop()}
}

func TestRunListQuery_TwoRoundTrips(t *testing.T) {
	q := &fakeQuerier{}
	db := newFakeDB(q, &fakeDirectory{})

	qb := NewQueryBuilder()
	qb.AddCondition(columnServiceName, "auth-service")

	_, total, err := db.runListQuery(context.Background(), qb, logColumns, "start_date DESC", 10, 0, false)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	// One count query, one data query, nothing else.
	require.Len(t, q.queryRowSQL, 1)
	assert.True(t, strings.HasPrefix(q.queryRowSQL[0], "SELECT COUNT(*)"))
	require.Len(t, q.querySQL, 1)
	assert.Contains(t, q.querySQL[0], "LIMIT")
	assert.Empty(t, q.execSQL)
}

func TestSearchLogs_TwoRoundTrips(t *testing.T) {
	q := &fakeQuerier{}
	dir := &fakeDirectory{}
	db := newFakeDB(q, dir)

	resp, err := db.SearchLogs(context.Background(), models.SearchParams{
		ServiceName: "auth-service",
		Status:      "error",
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Data)

	assert.Len(t, q.queryRowSQL, 1)
	assert.Len(t, q.querySQL, 1)
	// An empty page has no organization ids to resolve.
	assert.Equal(t, 0, dir.batchCalls)
	assert.Equal(t, 0, dir.lookupNameCalls)
}
