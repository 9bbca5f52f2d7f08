package postgres

import (
	"database/sql"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/pitchside/football-sync/internal/domain/fixture"
)

type fixtureTableModel struct {
	ID         int64         `db:"id"`
	LeagueID   int64         `db:"league_id"`
	Season     int           `db:"season"`
	HomeTeamID int64         `db:"home_team_id"`
	AwayTeamID int64         `db:"away_team_id"`
	KickoffAt  time.Time     `db:"kickoff_at"`
	Venue      string        `db:"venue"`
	Status     string        `db:"status"`
	GoalsHome  sql.NullInt64 `db:"goals_home"`
	GoalsAway  sql.NullInt64 `db:"goals_away"`
	Statistics string        `db:"statistics"`
	UpdatedAt  time.Time     `db:"updated_at"`
}

var fixtureSelectColumns = []string{
	"id",
	"league_id",
	"season",
	"home_team_id",
	"away_team_id",
	"kickoff_at",
	"venue",
	"status",
	"goals_home",
	"goals_away",
	"statistics",
	"updated_at",
}

// fixtureInsertModel carries the columns written on upsert; created_at and
// updated_at stay with the database defaults.
type fixtureInsertModel struct {
	ID         int64         `db:"id"`
	LeagueID   int64         `db:"league_id"`
	Season     int           `db:"season"`
	HomeTeamID int64         `db:"home_team_id"`
	AwayTeamID int64         `db:"away_team_id"`
	KickoffAt  time.Time     `db:"kickoff_at"`
	Venue      string        `db:"venue"`
	Status     string        `db:"status"`
	GoalsHome  sql.NullInt64 `db:"goals_home"`
	GoalsAway  sql.NullInt64 `db:"goals_away"`
	Statistics string        `db:"statistics"`
}

type fixtureArchiveInsertModel struct {
	ID         int64         `db:"id"`
	LeagueID   int64         `db:"league_id"`
	Season     int           `db:"season"`
	HomeTeamID int64         `db:"home_team_id"`
	AwayTeamID int64         `db:"away_team_id"`
	KickoffAt  time.Time     `db:"kickoff_at"`
	Venue      string        `db:"venue"`
	Status     string        `db:"status"`
	GoalsHome  sql.NullInt64 `db:"goals_home"`
	GoalsAway  sql.NullInt64 `db:"goals_away"`
	Statistics string        `db:"statistics"`
	ArchivedAt time.Time     `db:"archived_at"`
}

type aiSummaryTableModel struct {
	FixtureID  int64     `db:"fixture_id"`
	Headline   string    `db:"headline"`
	Analysis   string    `db:"analysis"`
	KeyMoments string    `db:"key_moments"`
	CreatedAt  time.Time `db:"created_at"`
}

type aiSummaryArchiveInsertModel struct {
	FixtureID  int64     `db:"fixture_id"`
	Headline   string    `db:"headline"`
	Analysis   string    `db:"analysis"`
	KeyMoments string    `db:"key_moments"`
	CreatedAt  time.Time `db:"created_at"`
	ArchivedAt time.Time `db:"archived_at"`
}

func marshalStatistics(stats map[string]any) (string, error) {
	if len(stats) == 0 {
		return "{}", nil
	}
	raw, err := sonic.Marshal(stats)
	if err != nil {
		return "", fmt.Errorf("marshal fixture statistics: %w", err)
	}
	return string(raw), nil
}

func unmarshalStatistics(raw string) map[string]any {
	if raw == "" || raw == "{}" || raw == "null" {
		return nil
	}
	var out map[string]any
	if err := sonic.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (m fixtureTableModel) toDomain() fixture.Fixture {
	return fixture.Fixture{
		ID:         m.ID,
		LeagueID:   m.LeagueID,
		Season:     m.Season,
		HomeTeamID: m.HomeTeamID,
		AwayTeamID: m.AwayTeamID,
		KickoffAt:  m.KickoffAt,
		Venue:      m.Venue,
		Status:     m.Status,
		GoalsHome:  nullInt64ToIntPtr(m.GoalsHome),
		GoalsAway:  nullInt64ToIntPtr(m.GoalsAway),
		Statistics: unmarshalStatistics(m.Statistics),
		UpdatedAt:  m.UpdatedAt,
	}
}
