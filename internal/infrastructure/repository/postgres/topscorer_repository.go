package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pitchside/football-sync/internal/domain/topscorer"
	qb "github.com/pitchside/football-sync/internal/platform/querybuilder"
)

type topScorerInsertModel struct {
	LeagueID    int64  `db:"league_id"`
	Season      int    `db:"season"`
	Rank        int    `db:"rank"`
	PlayerName  string `db:"player_name"`
	TeamID      int64  `db:"team_id"`
	TeamName    string `db:"team_name"`
	Goals       int    `db:"goals"`
	Assists     int    `db:"assists"`
	Appearances int    `db:"appearances"`
}

type TopScorerRepository struct {
	db *sqlx.DB
}

func NewTopScorerRepository(db *sqlx.DB) *TopScorerRepository {
	return &TopScorerRepository{db: db}
}

func (r *TopScorerRepository) Upsert(ctx context.Context, t topscorer.TopScorer) error {
	insertModel := topScorerInsertModel{
		LeagueID:    t.LeagueID,
		Season:      t.Season,
		Rank:        t.Rank,
		PlayerName:  t.PlayerName,
		TeamID:      t.TeamID,
		TeamName:    t.TeamName,
		Goals:       t.Goals,
		Assists:     t.Assists,
		Appearances: t.Appearances,
	}

	query, args, err := qb.InsertModel("top_scorers", insertModel, `
ON CONFLICT (league_id, season, player_name, team_id)
DO UPDATE SET
	rank        = EXCLUDED.rank,
	team_name   = EXCLUDED.team_name,
	goals       = EXCLUDED.goals,
	assists     = EXCLUDED.assists,
	appearances = EXCLUDED.appearances,
	updated_at  = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert top scorer query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert top scorer league_id=%d player=%s: %w", t.LeagueID, t.PlayerName, err)
	}
	return nil
}
