package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"pulse/models"
)

// enrichLog resolves OrganizationName for a single record. A missing
// organization or a failed lookup leaves the name nil with a warning;
// enrichment never fails the containing operation.
func enrichLog(ctx context.Context, dir OrganizationDirectory, log zerolog.Logger, rec *models.LogRecord) {
	if rec == nil || rec.OrganizationID == nil {
		return
	}

	name, err := dir.LookupName(ctx, *rec.OrganizationID)
	if err != nil {
		log.Warn().Err(err).
			Str("organization_id", rec.OrganizationID.String()).
			Msg("Failed to resolve organization name")
		return
	}
	if name == nil {
		log.Warn().
			Str("organization_id", rec.OrganizationID.String()).
			Msg("Organization not found during enrichment")
		return
	}
	rec.OrganizationName = name
}

// enrichLogs resolves OrganizationName across a whole result page:
// collect the distinct set of organization ids, issue exactly one batch
// lookup, then merge the names back onto every record. A page of 100
// records naming 5 organizations costs one directory call, not 100.
func enrichLogs(ctx context.Context, dir OrganizationDirectory, log zerolog.Logger, recs []models.LogRecord) {
	seen := make(map[uuid.UUID]struct{})
	distinct := []uuid.UUID{}
	for i := range recs {
		if recs[i].OrganizationID == nil {
			continue
		}
		id := *recs[i].OrganizationID
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			distinct = append(distinct, id)
		}
	}
	if len(distinct) == 0 {
		return
	}

	names, err := dir.BatchLookupNames(ctx, distinct)
	if err != nil {
		log.Warn().Err(err).Int("organizations", len(distinct)).
			Msg("Failed to batch resolve organization names")
		return
	}

	for i := range recs {
		if recs[i].OrganizationID == nil {
			continue
		}
		if name, ok := names[*recs[i].OrganizationID]; ok {
			n := name
			recs[i].OrganizationName = &n
		} else {
			log.Warn().
				Str("organization_id", recs[i].OrganizationID.String()).
				Msg("Organization not found during enrichment")
		}
	}
}
