package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// OrganizationDirectory resolves organization references for enrichment
// and name-based filtering. Lookups return nil (not an error) when the
// id or name has no match; only storage failures are errors.
//
// BatchLookupNames must be a single round trip regardless of how many
// ids are passed.
type OrganizationDirectory interface {
	LookupName(ctx context.Context, id uuid.UUID) (*string, error)
	LookupID(ctx context.Context, name string) (*uuid.UUID, error)
	BatchLookupNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

type pgOrganizationDirectory struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

func (d *pgOrganizationDirectory) LookupName(ctx context.Context, id uuid.UUID) (*string, error) {
	query := `
		SELECT organization_name
		FROM organizations
		WHERE id = $1
	`

	var name string
	err := d.pool.QueryRow(ctx, query, id).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up organization name: %w", err)
	}
	return &name, nil
}

func (d *pgOrganizationDirectory) LookupID(ctx context.Context, name string) (*uuid.UUID, error) {
	query := `
		SELECT id
		FROM organizations
		WHERE organization_name = $1
	`

	var id uuid.UUID
	err := d.pool.QueryRow(ctx, query, name).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up organization id: %w", err)
	}
	return &id, nil
}

func (d *pgOrganizationDirectory) BatchLookupNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	query := `
		SELECT id, organization_name
		FROM organizations
		WHERE id = ANY($1)
	`

	rows, err := d.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to batch look up organization names: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan organization row: %w", err)
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating organizations: %w", err)
	}

	return names, nil
}
