package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pitchside/football-sync/internal/domain/team"
	qb "github.com/pitchside/football-sync/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) Upsert(ctx context.Context, t team.Team) error {
	insertModel := teamInsertModel{
		ID:      t.ID,
		Name:    t.Name,
		LogoURL: t.LogoURL,
		Country: t.Country,
		Venue:   t.Venue,
		Founded: intPtrToNullInt32(t.Founded),
	}

	query, args, err := qb.InsertModel("teams", insertModel, `
ON CONFLICT (id)
DO UPDATE SET
	name       = EXCLUDED.name,
	logo_url   = EXCLUDED.logo_url,
	country    = EXCLUDED.country,
	venue      = EXCLUDED.venue,
	founded    = EXCLUDED.founded,
	updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert team query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert team id=%d: %w", t.ID, err)
	}
	return nil
}
