package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/pitchside/football-sync/internal/domain/fixture"
	"github.com/pitchside/football-sync/internal/domain/standing"
	"github.com/pitchside/football-sync/internal/domain/team"
	"github.com/pitchside/football-sync/internal/domain/topscorer"
)

var syncTestNow = time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)

func newTestSyncService(p SportsDataProvider, fx *stubFixtureRepo, tm *stubTeamRepo, st *stubStandingRepo, ts *stubTopScorerRepo) *SyncService {
	s := NewSyncService(p, fx, tm, st, ts, SyncConfig{Season: 2026}, nil)
	s.now = func() time.Time { return syncTestNow }
	return s
}

func TestSyncService_Run_CountsPerLeague(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{
		fixtureBatches: [][]ExternalFixture{
			{
				{ExternalID: 1001, HomeTeamExternalID: 40, AwayTeamExternalID: 50, KickoffAt: syncTestNow.Add(5 * 24 * time.Hour), Status: "NS"},
				{ExternalID: 1002, HomeTeamExternalID: 40, AwayTeamExternalID: 60, KickoffAt: syncTestNow.Add(10 * 24 * time.Hour), Status: "NS"},
			},
			{
				{ExternalID: 1000, HomeTeamExternalID: 50, AwayTeamExternalID: 60, KickoffAt: syncTestNow.Add(-3 * 24 * time.Hour), Status: "FT"},
			},
		},
		standings: []ExternalStanding{
			{TeamExternalID: 40, TeamName: "Arsenal", Rank: 1, Points: 30},
			{TeamExternalID: 50, TeamName: "Liverpool", Rank: 2, Points: 28},
			{TeamExternalID: 60, TeamName: "Chelsea", Rank: 3, Points: 25},
		},
		topScorers: []ExternalTopScorer{
			{PlayerName: "E. Haaland", TeamExternalID: 50, Goals: 18},
			{PlayerName: "M. Salah", TeamExternalID: 50, Goals: 15},
		},
	}
	fx := &stubFixtureRepo{}
	tm := &stubTeamRepo{}
	st := &stubStandingRepo{}
	ts := &stubTopScorerRepo{}

	service := newTestSyncService(provider, fx, tm, st, ts)
	got, err := service.Run(context.Background(), []int64{39})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if got.LeaguesProcessed != 1 {
		t.Fatalf("expected 1 league processed, got %d", got.LeaguesProcessed)
	}
	counts, ok := got.PerLeague["39"]
	if !ok {
		t.Fatalf("missing per-league counts: %+v", got.PerLeague)
	}
	if counts.Fixtures != 3 {
		t.Fatalf("expected 3 fixtures, got %d", counts.Fixtures)
	}
	if counts.Teams != 3 {
		t.Fatalf("expected 3 teams, got %d", counts.Teams)
	}
	if counts.Standings != 3 {
		t.Fatalf("expected 3 standings, got %d", counts.Standings)
	}
	if counts.TopScorers != 2 {
		t.Fatalf("expected 2 top scorers, got %d", counts.TopScorers)
	}
	if got.Archived != 0 {
		t.Fatalf("expected no archived fixtures, got %d", got.Archived)
	}
	if got.Timestamp.IsZero() {
		t.Fatalf("expected a run timestamp")
	}
	if len(fx.upserts) != 3 {
		t.Fatalf("expected 3 fixture upserts, got %d", len(fx.upserts))
	}
	if fx.upserts[2].Status != fixture.StatusFullTime {
		t.Fatalf("expected normalized status %q, got %q", fixture.StatusFullTime, fx.upserts[2].Status)
	}
}

func TestSyncService_Run_StatsFetchOnlyNearKickoff(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{
		fixtureBatches: [][]ExternalFixture{
			{
				{ExternalID: 20, HomeTeamExternalID: 1, AwayTeamExternalID: 2, KickoffAt: syncTestNow.Add(20 * time.Hour), Status: "NS"},
				{ExternalID: 72, HomeTeamExternalID: 1, AwayTeamExternalID: 2, KickoffAt: syncTestNow.Add(72 * time.Hour), Status: "NS"},
			},
			{
				{ExternalID: 90, HomeTeamExternalID: 1, AwayTeamExternalID: 2, KickoffAt: syncTestNow.Add(-2 * time.Hour), Status: "FT"},
			},
		},
		statistics: map[string]any{"shots_on_goal": 7},
	}
	fx := &stubFixtureRepo{}

	service := newTestSyncService(provider, fx, &stubTeamRepo{}, &stubStandingRepo{}, &stubTopScorerRepo{})
	result := service.SyncLeagueFixtures(context.Background(), 39)
	if result.Fixtures != 3 {
		t.Fatalf("expected 3 fixtures stored, got %d", result.Fixtures)
	}

	if len(provider.statsCalls) != 1 || provider.statsCalls[0] != 20 {
		t.Fatalf("expected statistics fetch for fixture 20 only, got %v", provider.statsCalls)
	}
	for _, row := range fx.upserts {
		if row.ID == 20 && row.Statistics == nil {
			t.Fatalf("expected statistics on near-kickoff fixture")
		}
		if row.ID != 20 && row.Statistics != nil {
			t.Fatalf("unexpected statistics on fixture %d", row.ID)
		}
	}
}

func TestSyncService_SyncLeagueFixtures_StatsFailureKeepsFixture(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{
		fixtureBatches: [][]ExternalFixture{
			{{ExternalID: 20, HomeTeamExternalID: 1, AwayTeamExternalID: 2, KickoffAt: syncTestNow.Add(20 * time.Hour), Status: "NS"}},
			{},
		},
		statsErr: errors.New("rate limited"),
	}
	fx := &stubFixtureRepo{}

	service := newTestSyncService(provider, fx, &stubTeamRepo{}, &stubStandingRepo{}, &stubTopScorerRepo{})
	result := service.SyncLeagueFixtures(context.Background(), 39)
	if result.Fixtures != 1 {
		t.Fatalf("expected fixture stored despite stats failure, got %d", result.Fixtures)
	}
	if fx.upserts[0].Statistics != nil {
		t.Fatalf("expected no statistics payload")
	}
}

func TestSyncService_SyncLeagueFixtures_WindowFetchFailureZeroesStep(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{fixtureErr: errors.New("upstream 500")}
	fx := &stubFixtureRepo{}

	service := newTestSyncService(provider, fx, &stubTeamRepo{}, &stubStandingRepo{}, &stubTopScorerRepo{})
	result := service.SyncLeagueFixtures(context.Background(), 39)
	if result.Fixtures != 0 || result.Teams != 0 {
		t.Fatalf("expected zero counts, got %+v", result)
	}
	if len(fx.upserts) != 0 {
		t.Fatalf("expected no upserts, got %d", len(fx.upserts))
	}
}

func TestSyncService_ArchiveFinishedFixtures_Empty(t *testing.T) {
	t.Parallel()

	fx := &stubFixtureRepo{}
	service := newTestSyncService(&stubProvider{}, fx, &stubTeamRepo{}, &stubStandingRepo{}, &stubTopScorerRepo{})

	got := service.ArchiveFinishedFixtures(context.Background())
	if got.Archived != 0 || got.Deleted != 0 {
		t.Fatalf("expected empty result, got %+v", got)
	}
	wantCutoff := syncTestNow.Add(-24 * time.Hour)
	if !fx.listCutoff.Equal(wantCutoff) {
		t.Fatalf("expected cutoff %v, got %v", wantCutoff, fx.listCutoff)
	}
}

func TestSyncService_ArchiveFinishedFixtures_MovesCandidates(t *testing.T) {
	t.Parallel()

	fx := &stubFixtureRepo{
		finished: []fixture.Fixture{
			{ID: 1, Status: fixture.StatusFullTime},
			{ID: 2, Status: fixture.StatusAfterExtraTime},
		},
	}
	service := newTestSyncService(&stubProvider{}, fx, &stubTeamRepo{}, &stubStandingRepo{}, &stubTopScorerRepo{})

	got := service.ArchiveFinishedFixtures(context.Background())
	if got.Archived != 2 || got.Deleted != 2 {
		t.Fatalf("expected {2 2}, got %+v", got)
	}
	if len(fx.archivedIDs) != 2 || fx.archivedIDs[0] != 1 || fx.archivedIDs[1] != 2 {
		t.Fatalf("unexpected archived ids: %v", fx.archivedIDs)
	}
}

func TestSyncService_ArchiveFinishedFixtures_ListFailureIsNonFatal(t *testing.T) {
	t.Parallel()

	fx := &stubFixtureRepo{listErr: errors.New("relation does not exist")}
	service := newTestSyncService(&stubProvider{}, fx, &stubTeamRepo{}, &stubStandingRepo{}, &stubTopScorerRepo{})

	got := service.ArchiveFinishedFixtures(context.Background())
	if got.Archived != 0 || got.Deleted != 0 {
		t.Fatalf("expected zero result, got %+v", got)
	}

	// The run as a whole must still succeed.
	result, err := service.Run(context.Background(), []int64{39})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if result.Archived != 0 {
		t.Fatalf("expected zero archived, got %d", result.Archived)
	}
}

func TestSyncService_Run_StandingsFailureIsolated(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{
		fixtureBatches: [][]ExternalFixture{
			{{ExternalID: 1, HomeTeamExternalID: 10, AwayTeamExternalID: 20, KickoffAt: syncTestNow.Add(5 * 24 * time.Hour), Status: "NS"}},
			{},
		},
		standingsErr: errors.New("too many requests"),
		topScorers: []ExternalTopScorer{
			{PlayerName: "K. Mbappé", TeamExternalID: 10, Goals: 12},
		},
	}

	service := newTestSyncService(provider, &stubFixtureRepo{}, &stubTeamRepo{}, &stubStandingRepo{}, &stubTopScorerRepo{})
	got, err := service.Run(context.Background(), []int64{140})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	counts := got.PerLeague["140"]
	if counts.Standings != 0 {
		t.Fatalf("expected zero standings, got %d", counts.Standings)
	}
	if counts.Fixtures != 1 || counts.Teams != 2 || counts.TopScorers != 1 {
		t.Fatalf("expected other steps untouched, got %+v", counts)
	}
}

func TestSyncService_SyncLeagueTopScorers_CapsAtLimit(t *testing.T) {
	t.Parallel()

	rows := make([]ExternalTopScorer, 0, 25)
	for i := 0; i < 25; i++ {
		rows = append(rows, ExternalTopScorer{
			PlayerName:     fmt.Sprintf("Player %02d", i+1),
			TeamExternalID: int64(i + 1),
			Goals:          25 - i,
		})
	}
	provider := &stubProvider{topScorers: rows}
	ts := &stubTopScorerRepo{}

	service := newTestSyncService(provider, &stubFixtureRepo{}, &stubTeamRepo{}, &stubStandingRepo{}, ts)
	got := service.SyncLeagueTopScorers(context.Background(), 39)
	if got != 20 {
		t.Fatalf("expected cap of 20, got %d", got)
	}
	if len(ts.upserts) != 20 {
		t.Fatalf("expected 20 upserts, got %d", len(ts.upserts))
	}
	if ts.upserts[0].Rank != 1 || ts.upserts[19].Rank != 20 {
		t.Fatalf("unexpected rank assignment: first=%d last=%d", ts.upserts[0].Rank, ts.upserts[19].Rank)
	}
}

func TestSyncService_Run_RejectsInvalidLeagueID(t *testing.T) {
	t.Parallel()

	service := newTestSyncService(&stubProvider{}, &stubFixtureRepo{}, &stubTeamRepo{}, &stubStandingRepo{}, &stubTopScorerRepo{})
	_, err := service.Run(context.Background(), []int64{39, 0})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSyncService_Run_DefaultsToConfiguredLeagues(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{}
	service := NewSyncService(provider, &stubFixtureRepo{}, &stubTeamRepo{}, &stubStandingRepo{}, &stubTopScorerRepo{},
		SyncConfig{Season: 2026, DefaultLeagueIDs: []int64{39, 140}}, nil)
	service.now = func() time.Time { return syncTestNow }

	got, err := service.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if got.LeaguesProcessed != 2 {
		t.Fatalf("expected 2 leagues, got %d", got.LeaguesProcessed)
	}
	if _, ok := got.PerLeague["39"]; !ok {
		t.Fatalf("missing league 39: %+v", got.PerLeague)
	}
	if _, ok := got.PerLeague["140"]; !ok {
		t.Fatalf("missing league 140: %+v", got.PerLeague)
	}
}

func TestSyncService_Run_MissingDependency(t *testing.T) {
	t.Parallel()

	service := newTestSyncService(&stubProvider{}, &stubFixtureRepo{}, &stubTeamRepo{}, &stubStandingRepo{}, &stubTopScorerRepo{})
	service.provider = nil

	_, err := service.Run(context.Background(), []int64{39})
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

type stubProvider struct {
	fixtureBatches [][]ExternalFixture
	fixtureCalls   int
	fixtureErr     error
	statistics     map[string]any
	statsErr       error
	statsCalls     []int64
	teamErr        error
	standings      []ExternalStanding
	standingsErr   error
	topScorers     []ExternalTopScorer
	topScorersErr  error
}

func (s *stubProvider) FixturesByDateRange(_ context.Context, _ int64, _ int, _, _ time.Time) ([]ExternalFixture, error) {
	if s.fixtureErr != nil {
		return nil, s.fixtureErr
	}
	if s.fixtureCalls >= len(s.fixtureBatches) {
		return nil, nil
	}
	batch := s.fixtureBatches[s.fixtureCalls]
	s.fixtureCalls++
	return batch, nil
}

func (s *stubProvider) FixtureStatistics(_ context.Context, fixtureID int64) (map[string]any, error) {
	s.statsCalls = append(s.statsCalls, fixtureID)
	if s.statsErr != nil {
		return nil, s.statsErr
	}
	return s.statistics, nil
}

func (s *stubProvider) TeamByID(_ context.Context, teamID int64) (ExternalTeam, error) {
	if s.teamErr != nil {
		return ExternalTeam{}, s.teamErr
	}
	return ExternalTeam{ExternalID: teamID, Name: fmt.Sprintf("Team %d", teamID)}, nil
}

func (s *stubProvider) StandingsByLeagueSeason(_ context.Context, _ int64, _ int) ([]ExternalStanding, error) {
	if s.standingsErr != nil {
		return nil, s.standingsErr
	}
	return s.standings, nil
}

func (s *stubProvider) TopScorersByLeagueSeason(_ context.Context, _ int64, _ int) ([]ExternalTopScorer, error) {
	if s.topScorersErr != nil {
		return nil, s.topScorersErr
	}
	return s.topScorers, nil
}

type stubFixtureRepo struct {
	upserts     []fixture.Fixture
	upsertErr   error
	finished    []fixture.Fixture
	listErr     error
	listCutoff  time.Time
	archiveErr  error
	archivedIDs []int64
}

func (s *stubFixtureRepo) Upsert(_ context.Context, f fixture.Fixture) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.upserts = append(s.upserts, f)
	return nil
}

func (s *stubFixtureRepo) ListFinishedBefore(_ context.Context, cutoff time.Time) ([]fixture.Fixture, error) {
	s.listCutoff = cutoff
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]fixture.Fixture, len(s.finished))
	copy(out, s.finished)
	return out, nil
}

func (s *stubFixtureRepo) Archive(_ context.Context, f fixture.Fixture, _ time.Time) (bool, error) {
	if s.archiveErr != nil {
		return false, s.archiveErr
	}
	s.archivedIDs = append(s.archivedIDs, f.ID)
	return true, nil
}

type stubTeamRepo struct {
	upserts   []team.Team
	upsertErr error
}

func (s *stubTeamRepo) Upsert(_ context.Context, row team.Team) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.upserts = append(s.upserts, row)
	return nil
}

type stubStandingRepo struct {
	upserts   []standing.Standing
	upsertErr error
}

func (s *stubStandingRepo) Upsert(_ context.Context, row standing.Standing) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.upserts = append(s.upserts, row)
	return nil
}

type stubTopScorerRepo struct {
	upserts   []topscorer.TopScorer
	upsertErr error
}

func (s *stubTopScorerRepo) Upsert(_ context.Context, row topscorer.TopScorer) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.upserts = append(s.upserts, row)
	return nil
}
