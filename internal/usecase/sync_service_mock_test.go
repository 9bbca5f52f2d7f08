package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
)

type providerMock struct {
	mock.Mock
}

func (m *providerMock) FixturesByDateRange(ctx context.Context, leagueID int64, season int, from, to time.Time) ([]ExternalFixture, error) {
	args := m.Called(ctx, leagueID, season, from, to)
	fixtures, _ := args.Get(0).([]ExternalFixture)
	return fixtures, args.Error(1)
}

func (m *providerMock) FixtureStatistics(ctx context.Context, fixtureID int64) (map[string]any, error) {
	args := m.Called(ctx, fixtureID)
	stats, _ := args.Get(0).(map[string]any)
	return stats, args.Error(1)
}

func (m *providerMock) TeamByID(ctx context.Context, teamID int64) (ExternalTeam, error) {
	args := m.Called(ctx, teamID)
	team, _ := args.Get(0).(ExternalTeam)
	return team, args.Error(1)
}

func (m *providerMock) StandingsByLeagueSeason(ctx context.Context, leagueID int64, season int) ([]ExternalStanding, error) {
	args := m.Called(ctx, leagueID, season)
	standings, _ := args.Get(0).([]ExternalStanding)
	return standings, args.Error(1)
}

func (m *providerMock) TopScorersByLeagueSeason(ctx context.Context, leagueID int64, season int) ([]ExternalTopScorer, error) {
	args := m.Called(ctx, leagueID, season)
	scorers, _ := args.Get(0).([]ExternalTopScorer)
	return scorers, args.Error(1)
}

func TestSyncService_SyncLeagueStandings_UsingMock(t *testing.T) {
	t.Parallel()

	provider := &providerMock{}
	provider.
		On("StandingsByLeagueSeason", mock.Anything, int64(39), 2026).
		Return([]ExternalStanding{
			{TeamExternalID: 40, TeamName: "Arsenal", Rank: 1, Points: 30},
			{TeamExternalID: 50, TeamName: "Liverpool", Rank: 2, Points: 28},
		}, nil).
		Once()

	st := &stubStandingRepo{}
	service := newTestSyncService(provider, &stubFixtureRepo{}, &stubTeamRepo{}, st, &stubTopScorerRepo{})

	got := service.SyncLeagueStandings(context.Background(), 39)
	if got != 2 {
		t.Fatalf("expected 2 standings stored, got %d", got)
	}
	provider.AssertExpectations(t)
}

func TestSyncService_SyncLeagueStandings_FetchFailureUsingMock(t *testing.T) {
	t.Parallel()

	provider := &providerMock{}
	provider.
		On("StandingsByLeagueSeason", mock.Anything, int64(39), 2026).
		Return(nil, errors.New("provider down")).
		Once()

	st := &stubStandingRepo{}
	service := newTestSyncService(provider, &stubFixtureRepo{}, &stubTeamRepo{}, st, &stubTopScorerRepo{})

	got := service.SyncLeagueStandings(context.Background(), 39)
	if got != 0 {
		t.Fatalf("expected zero standings on fetch failure, got %d", got)
	}
	if len(st.upserts) != 0 {
		t.Fatalf("expected no standings stored, got %d", len(st.upserts))
	}
	provider.AssertExpectations(t)
}
