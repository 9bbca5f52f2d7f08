package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pitchside/football-sync/internal/domain/standing"
	qb "github.com/pitchside/football-sync/internal/platform/querybuilder"
)

type standingInsertModel struct {
	LeagueID       int64  `db:"league_id"`
	Season         int    `db:"season"`
	TeamID         int64  `db:"team_id"`
	TeamName       string `db:"team_name"`
	Rank           int    `db:"rank"`
	Points         int    `db:"points"`
	Played         int    `db:"played"`
	Won            int    `db:"won"`
	Draw           int    `db:"draw"`
	Lost           int    `db:"lost"`
	GoalsFor       int    `db:"goals_for"`
	GoalsAgainst   int    `db:"goals_against"`
	GoalDifference int    `db:"goal_difference"`
	Form           string `db:"form"`
}

type StandingRepository struct {
	db *sqlx.DB
}

func NewStandingRepository(db *sqlx.DB) *StandingRepository {
	return &StandingRepository{db: db}
}

func (r *StandingRepository) Upsert(ctx context.Context, s standing.Standing) error {
	insertModel := standingInsertModel{
		LeagueID:       s.LeagueID,
		Season:         s.Season,
		TeamID:         s.TeamID,
		TeamName:       s.TeamName,
		Rank:           s.Rank,
		Points:         s.Points,
		Played:         s.Played,
		Won:            s.Won,
		Draw:           s.Draw,
		Lost:           s.Lost,
		GoalsFor:       s.GoalsFor,
		GoalsAgainst:   s.GoalsAgainst,
		GoalDifference: s.GoalDifference,
		Form:           s.Form,
	}

	query, args, err := qb.InsertModel("standings", insertModel, `
ON CONFLICT (league_id, season, team_id)
DO UPDATE SET
	team_name       = EXCLUDED.team_name,
	rank            = EXCLUDED.rank,
	points          = EXCLUDED.points,
	played          = EXCLUDED.played,
	won             = EXCLUDED.won,
	draw            = EXCLUDED.draw,
	lost            = EXCLUDED.lost,
	goals_for       = EXCLUDED.goals_for,
	goals_against   = EXCLUDED.goals_against,
	goal_difference = EXCLUDED.goal_difference,
	form            = EXCLUDED.form,
	updated_at      = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert standing query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert standing league_id=%d team_id=%d: %w", s.LeagueID, s.TeamID, err)
	}
	return nil
}
