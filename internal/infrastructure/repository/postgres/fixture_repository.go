package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pitchside/football-sync/internal/domain/fixture"
	qb "github.com/pitchside/football-sync/internal/platform/querybuilder"
)

type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

func (r *FixtureRepository) Upsert(ctx context.Context, f fixture.Fixture) error {
	stats, err := marshalStatistics(f.Statistics)
	if err != nil {
		return err
	}

	insertModel := fixtureInsertModel{
		ID:         f.ID,
		LeagueID:   f.LeagueID,
		Season:     f.Season,
		HomeTeamID: f.HomeTeamID,
		AwayTeamID: f.AwayTeamID,
		KickoffAt:  f.KickoffAt,
		Venue:      f.Venue,
		Status:     f.Status,
		GoalsHome:  intPtrToNullInt64(f.GoalsHome),
		GoalsAway:  intPtrToNullInt64(f.GoalsAway),
		Statistics: stats,
	}

	query, args, err := qb.InsertModel("fixtures", insertModel, `
ON CONFLICT (id)
DO UPDATE SET
	league_id    = EXCLUDED.league_id,
	season       = EXCLUDED.season,
	home_team_id = EXCLUDED.home_team_id,
	away_team_id = EXCLUDED.away_team_id,
	kickoff_at   = EXCLUDED.kickoff_at,
	venue        = EXCLUDED.venue,
	status       = EXCLUDED.status,
	goals_home   = EXCLUDED.goals_home,
	goals_away   = EXCLUDED.goals_away,
	statistics   = EXCLUDED.statistics,
	updated_at   = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert fixture query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert fixture id=%d: %w", f.ID, err)
	}
	return nil
}

func (r *FixtureRepository) ListFinishedBefore(ctx context.Context, cutoff time.Time) ([]fixture.Fixture, error) {
	statuses := fixture.FinishedStatuses()
	values := make([]any, 0, len(statuses))
	for _, status := range statuses {
		values = append(values, status)
	}

	query, args, err := qb.Select(fixtureSelectColumns...).From("fixtures").
		Where(
			qb.In("status", values),
			qb.Lt("kickoff_at", cutoff),
		).
		OrderBy("kickoff_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select finished fixtures query: %w", err)
	}

	var rows []fixtureTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select finished fixtures: %w", err)
	}

	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// Archive copies the fixture and its AI summary (when one exists) into the
// archive tables and deletes the live rows, all inside one transaction.
// Running it again for the same fixture is a no-op: the archive copy is kept
// and there is nothing left to delete. Returns whether a new archive row was
// written.
func (r *FixtureRepository) Archive(ctx context.Context, f fixture.Fixture, archivedAt time.Time) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx archive fixture: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	existsQuery, existsArgs, err := qb.Select("id").From("fixtures_archive").
		Where(qb.Eq("id", f.ID)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build select archived fixture query: %w", err)
	}

	var archivedID int64
	err = tx.GetContext(ctx, &archivedID, existsQuery, existsArgs...)
	alreadyArchived := err == nil
	if err != nil && !isNotFound(err) {
		return false, fmt.Errorf("select archived fixture id=%d: %w", f.ID, err)
	}

	if !alreadyArchived {
		stats, err := marshalStatistics(f.Statistics)
		if err != nil {
			return false, err
		}
		insertModel := fixtureArchiveInsertModel{
			ID:         f.ID,
			LeagueID:   f.LeagueID,
			Season:     f.Season,
			HomeTeamID: f.HomeTeamID,
			AwayTeamID: f.AwayTeamID,
			KickoffAt:  f.KickoffAt,
			Venue:      f.Venue,
			Status:     f.Status,
			GoalsHome:  intPtrToNullInt64(f.GoalsHome),
			GoalsAway:  intPtrToNullInt64(f.GoalsAway),
			Statistics: stats,
			ArchivedAt: archivedAt,
		}
		query, args, err := qb.InsertModel("fixtures_archive", insertModel, "ON CONFLICT (id) DO NOTHING")
		if err != nil {
			return false, fmt.Errorf("build insert archived fixture query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return false, fmt.Errorf("insert archived fixture id=%d: %w", f.ID, err)
		}
	}

	if err := r.archiveSummary(ctx, tx, f.ID, archivedAt); err != nil {
		return false, err
	}

	deleteQuery, deleteArgs, err := qb.DeleteFrom("fixtures").Where(qb.Eq("id", f.ID)).ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete fixture query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return false, fmt.Errorf("delete fixture id=%d: %w", f.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit archive fixture tx: %w", err)
	}
	return !alreadyArchived, nil
}

func (r *FixtureRepository) archiveSummary(ctx context.Context, tx *sqlx.Tx, fixtureID int64, archivedAt time.Time) error {
	selectQuery, selectArgs, err := qb.Select("fixture_id", "headline", "analysis", "key_moments", "created_at").
		From("ai_summaries").
		Where(qb.Eq("fixture_id", fixtureID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build select ai summary query: %w", err)
	}

	var summary aiSummaryTableModel
	err = tx.GetContext(ctx, &summary, selectQuery, selectArgs...)
	if isNotFound(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("select ai summary fixture_id=%d: %w", fixtureID, err)
	}

	insertModel := aiSummaryArchiveInsertModel{
		FixtureID:  summary.FixtureID,
		Headline:   summary.Headline,
		Analysis:   summary.Analysis,
		KeyMoments: summary.KeyMoments,
		CreatedAt:  summary.CreatedAt,
		ArchivedAt: archivedAt,
	}
	insertQuery, insertArgs, err := qb.InsertModel("ai_summaries_archive", insertModel, "ON CONFLICT (fixture_id) DO NOTHING")
	if err != nil {
		return fmt.Errorf("build insert archived ai summary query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("insert archived ai summary fixture_id=%d: %w", fixtureID, err)
	}

	deleteQuery, deleteArgs, err := qb.DeleteFrom("ai_summaries").Where(qb.Eq("fixture_id", fixtureID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete ai summary query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("delete ai summary fixture_id=%d: %w", fixtureID, err)
	}
	return nil
}
