package usecase

import (
	"context"
	"time"
)

// ExternalFixture is a fixture row as returned by the sports data provider,
// already normalized to domain status values and UTC kickoff times.
type ExternalFixture struct {
	ExternalID         int64
	LeagueID           int64
	Season             int
	HomeTeamExternalID int64
	AwayTeamExternalID int64
	KickoffAt          time.Time
	Venue              string
	Status             string
	GoalsHome          *int
	GoalsAway          *int
}

type ExternalTeam struct {
	ExternalID int64
	Name       string
	LogoURL    string
	Country    string
	Venue      string
	Founded    *int
}

type ExternalStanding struct {
	TeamExternalID int64
	TeamName       string
	Rank           int
	Points         int
	Played         int
	Won            int
	Draw           int
	Lost           int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	Form           string
}

type ExternalTopScorer struct {
	PlayerName     string
	TeamExternalID int64
	TeamName       string
	Goals          int
	Assists        int
	Appearances    int
}

// SportsDataProvider abstracts the upstream football data API. Implementations
// must not retry failed requests; callers decide what a failure means per step.
type SportsDataProvider interface {
	FixturesByDateRange(ctx context.Context, leagueID int64, season int, from, to time.Time) ([]ExternalFixture, error)
	FixtureStatistics(ctx context.Context, fixtureID int64) (map[string]any, error)
	TeamByID(ctx context.Context, teamID int64) (ExternalTeam, error)
	StandingsByLeagueSeason(ctx context.Context, leagueID int64, season int) ([]ExternalStanding, error)
	TopScorersByLeagueSeason(ctx context.Context, leagueID int64, season int) ([]ExternalTopScorer, error)
}
