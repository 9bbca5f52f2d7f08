package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/pitchside/football-sync/internal/domain/fixture"
	"github.com/pitchside/football-sync/internal/domain/standing"
	"github.com/pitchside/football-sync/internal/domain/team"
	"github.com/pitchside/football-sync/internal/domain/topscorer"
	"github.com/pitchside/football-sync/internal/metrics"
	"github.com/pitchside/football-sync/internal/platform/logging"
)

const (
	defaultArchiveGrace    = 24 * time.Hour
	defaultUpcomingWindow  = 14 * 24 * time.Hour
	defaultRecentWindow    = 7 * 24 * time.Hour
	defaultStatsWindow     = 48 * time.Hour
	defaultTopScorersLimit = 20
)

// SyncConfig carries the tunables of a sync run. Zero values fall back to the
// production defaults, so tests can set only what they care about.
type SyncConfig struct {
	Season           int
	DefaultLeagueIDs []int64
	ArchiveGrace     time.Duration
	UpcomingWindow   time.Duration
	RecentWindow     time.Duration
	StatsWindow      time.Duration
	TopScorersLimit  int
}

func (c SyncConfig) withDefaults() SyncConfig {
	if c.Season <= 0 {
		c.Season = time.Now().UTC().Year()
	}
	if c.ArchiveGrace <= 0 {
		c.ArchiveGrace = defaultArchiveGrace
	}
	if c.UpcomingWindow <= 0 {
		c.UpcomingWindow = defaultUpcomingWindow
	}
	if c.RecentWindow <= 0 {
		c.RecentWindow = defaultRecentWindow
	}
	if c.StatsWindow <= 0 {
		c.StatsWindow = defaultStatsWindow
	}
	if c.TopScorersLimit <= 0 {
		c.TopScorersLimit = defaultTopScorersLimit
	}
	return c
}

// SyncService drives the periodic data refresh: archive finished fixtures,
// then sync fixtures, teams, standings and top scorers league by league.
// Steps are strictly sequential; the provider client paces outbound calls.
type SyncService struct {
	provider   SportsDataProvider
	fixtures   fixture.Repository
	teams      team.Repository
	standings  standing.Repository
	topScorers topscorer.Repository
	cfg        SyncConfig
	logger     *logging.Logger
	now        func() time.Time
}

func NewSyncService(
	provider SportsDataProvider,
	fixtures fixture.Repository,
	teams team.Repository,
	standings standing.Repository,
	topScorers topscorer.Repository,
	cfg SyncConfig,
	logger *logging.Logger,
) *SyncService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SyncService{
		provider:   provider,
		fixtures:   fixtures,
		teams:      teams,
		standings:  standings,
		topScorers: topScorers,
		cfg:        cfg.withDefaults(),
		logger:     logger,
		now:        time.Now,
	}
}

// ArchiveResult reports how many fixtures were moved to the archive tables.
// Copy and delete happen in one transaction per fixture, so both counts
// always match.
type ArchiveResult struct {
	Archived int `json:"archived"`
	Deleted  int `json:"deleted"`
}

// FixtureSyncResult reports the per-league fixture step outcome.
type FixtureSyncResult struct {
	Fixtures int
	Teams    int
}

// LeagueCounts aggregates the per-league step outcomes for one run.
type LeagueCounts struct {
	Fixtures   int `json:"fixtures"`
	Teams      int `json:"teams"`
	Standings  int `json:"standings"`
	TopScorers int `json:"topScorers"`
}

// RunResult is the summary of a full sync run.
type RunResult struct {
	Timestamp        time.Time               `json:"timestamp"`
	Archived         int                     `json:"archived"`
	LeaguesProcessed int                     `json:"leaguesProcessed"`
	PerLeague        map[string]LeagueCounts `json:"perLeague"`
}

// Run executes the whole pipeline: one archival pass, then every league in
// order. Individual step failures are logged and zeroed, never escalated; Run
// only errors on broken wiring, an invalid league list, or a cancelled
// context.
func (s *SyncService) Run(ctx context.Context, leagueIDs []int64) (RunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.Run")
	defer span.End()

	started := s.now()
	if s.provider == nil || s.fixtures == nil || s.teams == nil || s.standings == nil || s.topScorers == nil {
		return RunResult{}, fmt.Errorf("%w: sync service is missing a dependency", ErrConfiguration)
	}
	if len(leagueIDs) == 0 {
		leagueIDs = s.cfg.DefaultLeagueIDs
	}
	if len(leagueIDs) == 0 {
		return RunResult{}, fmt.Errorf("%w: no leagues to process", ErrInvalidInput)
	}
	for _, id := range leagueIDs {
		if id <= 0 {
			return RunResult{}, fmt.Errorf("%w: league id %d must be positive", ErrInvalidInput, id)
		}
	}

	archive := s.ArchiveFinishedFixtures(ctx)

	perLeague := make(map[string]LeagueCounts, len(leagueIDs))
	for _, leagueID := range leagueIDs {
		if err := ctx.Err(); err != nil {
			return RunResult{}, err
		}
		fx := s.SyncLeagueFixtures(ctx, leagueID)
		counts := LeagueCounts{
			Fixtures:   fx.Fixtures,
			Teams:      fx.Teams,
			Standings:  s.SyncLeagueStandings(ctx, leagueID),
			TopScorers: s.SyncLeagueTopScorers(ctx, leagueID),
		}
		perLeague[strconv.FormatInt(leagueID, 10)] = counts
	}

	metrics.RunDuration.Observe(s.now().Sub(started).Seconds())
	return RunResult{
		Timestamp:        s.now().UTC(),
		Archived:         archive.Archived,
		LeaguesProcessed: len(perLeague),
		PerLeague:        perLeague,
	}, nil
}

// ArchiveFinishedFixtures moves fixtures that finished more than the archive
// grace period ago into the archive tables. A failing candidate query skips
// the pass entirely; a failing move skips that fixture only.
func (s *SyncService) ArchiveFinishedFixtures(ctx context.Context) ArchiveResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.ArchiveFinishedFixtures")
	defer span.End()

	cutoff := s.now().UTC().Add(-s.cfg.ArchiveGrace)
	candidates, err := s.fixtures.ListFinishedBefore(ctx, cutoff)
	if err != nil {
		s.logger.WarnContext(ctx, "archival candidate query failed, skipping pass", "error", err)
		metrics.StepFailures.WithLabelValues("archive").Inc()
		return ArchiveResult{}
	}

	archivedAt := s.now().UTC()
	moved := 0
	for _, f := range candidates {
		if _, err := s.fixtures.Archive(ctx, f, archivedAt); err != nil {
			s.logger.ErrorContext(ctx, "fixture archive failed", "fixtureID", f.ID, "error", err)
			metrics.StepFailures.WithLabelValues("archive").Inc()
			continue
		}
		moved++
		metrics.FixturesArchived.Inc()
	}
	if moved > 0 {
		s.logger.InfoContext(ctx, "archived finished fixtures", "count", moved, "cutoff", cutoff)
	}
	return ArchiveResult{Archived: moved, Deleted: moved}
}

// SyncLeagueFixtures fetches the upcoming and recent fixture windows for a
// league, enriches near-kickoff fixtures with match statistics, upserts them,
// and then upserts every team referenced by the stored fixtures. A failing
// window fetch zeroes the whole step for this league.
func (s *SyncService) SyncLeagueFixtures(ctx context.Context, leagueID int64) FixtureSyncResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncLeagueFixtures")
	defer span.End()

	now := s.now().UTC()
	upcoming, err := s.provider.FixturesByDateRange(ctx, leagueID, s.cfg.Season, now, now.Add(s.cfg.UpcomingWindow))
	if err != nil {
		s.logger.WarnContext(ctx, "upcoming fixtures fetch failed", "leagueID", leagueID, "error", err)
		metrics.StepFailures.WithLabelValues("fixtures").Inc()
		return FixtureSyncResult{}
	}
	recent, err := s.provider.FixturesByDateRange(ctx, leagueID, s.cfg.Season, now.Add(-s.cfg.RecentWindow), now)
	if err != nil {
		s.logger.WarnContext(ctx, "recent fixtures fetch failed", "leagueID", leagueID, "error", err)
		metrics.StepFailures.WithLabelValues("fixtures").Inc()
		return FixtureSyncResult{}
	}

	teamIDs := make(map[int64]struct{})
	stored := 0
	for _, ext := range append(upcoming, recent...) {
		row := fixture.Fixture{
			ID:         ext.ExternalID,
			LeagueID:   leagueID,
			Season:     s.cfg.Season,
			HomeTeamID: ext.HomeTeamExternalID,
			AwayTeamID: ext.AwayTeamExternalID,
			KickoffAt:  ext.KickoffAt.UTC(),
			Venue:      ext.Venue,
			Status:     fixture.NormalizeStatus(ext.Status),
			GoalsHome:  ext.GoalsHome,
			GoalsAway:  ext.GoalsAway,
		}
		if row.ID <= 0 {
			s.logger.WarnContext(ctx, "skipping fixture without id", "leagueID", leagueID)
			continue
		}
		if s.withinStatsWindow(now, row.KickoffAt) {
			stats, err := s.provider.FixtureStatistics(ctx, row.ID)
			if err != nil {
				s.logger.WarnContext(ctx, "fixture statistics fetch failed", "fixtureID", row.ID, "error", err)
			} else {
				row.Statistics = stats
			}
		}
		if err := s.fixtures.Upsert(ctx, row); err != nil {
			s.logger.ErrorContext(ctx, "fixture upsert failed", "fixtureID", row.ID, "error", err)
			continue
		}
		stored++
		metrics.RowsUpserted.WithLabelValues("fixture").Inc()
		if row.HomeTeamID > 0 {
			teamIDs[row.HomeTeamID] = struct{}{}
		}
		if row.AwayTeamID > 0 {
			teamIDs[row.AwayTeamID] = struct{}{}
		}
	}

	return FixtureSyncResult{
		Fixtures: stored,
		Teams:    s.syncTeams(ctx, teamIDs),
	}
}

func (s *SyncService) withinStatsWindow(now, kickoff time.Time) bool {
	return kickoff.After(now) && kickoff.Sub(now) <= s.cfg.StatsWindow
}

func (s *SyncService) syncTeams(ctx context.Context, ids map[int64]struct{}) int {
	ordered := make([]int64, 0, len(ids))
	for id := range ids {
		ordered = append(ordered, id)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })

	stored := 0
	for _, id := range ordered {
		ext, err := s.provider.TeamByID(ctx, id)
		if err != nil {
			s.logger.WarnContext(ctx, "team fetch failed", "teamID", id, "error", err)
			metrics.StepFailures.WithLabelValues("teams").Inc()
			continue
		}
		row := team.Team{
			ID:      ext.ExternalID,
			Name:    ext.Name,
			LogoURL: ext.LogoURL,
			Country: ext.Country,
			Venue:   ext.Venue,
			Founded: ext.Founded,
		}
		if err := row.Validate(); err != nil {
			s.logger.WarnContext(ctx, "skipping invalid team", "teamID", id, "error", err)
			continue
		}
		if err := s.teams.Upsert(ctx, row); err != nil {
			s.logger.ErrorContext(ctx, "team upsert failed", "teamID", id, "error", err)
			continue
		}
		stored++
		metrics.RowsUpserted.WithLabelValues("team").Inc()
	}
	return stored
}

// SyncLeagueStandings refreshes the league table. Any failure zeroes the step.
func (s *SyncService) SyncLeagueStandings(ctx context.Context, leagueID int64) int {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncLeagueStandings")
	defer span.End()

	rows, err := s.provider.StandingsByLeagueSeason(ctx, leagueID, s.cfg.Season)
	if err != nil {
		s.logger.WarnContext(ctx, "standings fetch failed", "leagueID", leagueID, "error", err)
		metrics.StepFailures.WithLabelValues("standings").Inc()
		return 0
	}

	stored := 0
	for _, ext := range rows {
		if ext.TeamExternalID <= 0 || ext.Rank <= 0 {
			continue
		}
		row := standing.Standing{
			LeagueID:       leagueID,
			Season:         s.cfg.Season,
			TeamID:         ext.TeamExternalID,
			TeamName:       ext.TeamName,
			Rank:           ext.Rank,
			Points:         ext.Points,
			Played:         ext.Played,
			Won:            ext.Won,
			Draw:           ext.Draw,
			Lost:           ext.Lost,
			GoalsFor:       ext.GoalsFor,
			GoalsAgainst:   ext.GoalsAgainst,
			GoalDifference: ext.GoalDifference,
			Form:           ext.Form,
		}
		if err := s.standings.Upsert(ctx, row); err != nil {
			s.logger.ErrorContext(ctx, "standing upsert failed", "leagueID", leagueID, "teamID", row.TeamID, "error", err)
			continue
		}
		stored++
		metrics.RowsUpserted.WithLabelValues("standing").Inc()
	}
	return stored
}

// SyncLeagueTopScorers refreshes the scoring chart, keeping at most the
// configured limit of entries. Any failure zeroes the step.
func (s *SyncService) SyncLeagueTopScorers(ctx context.Context, leagueID int64) int {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncLeagueTopScorers")
	defer span.End()

	rows, err := s.provider.TopScorersByLeagueSeason(ctx, leagueID, s.cfg.Season)
	if err != nil {
		s.logger.WarnContext(ctx, "top scorers fetch failed", "leagueID", leagueID, "error", err)
		metrics.StepFailures.WithLabelValues("top_scorers").Inc()
		return 0
	}
	if len(rows) > s.cfg.TopScorersLimit {
		rows = rows[:s.cfg.TopScorersLimit]
	}

	stored := 0
	for i, ext := range rows {
		if ext.PlayerName == "" || ext.TeamExternalID <= 0 {
			continue
		}
		row := topscorer.TopScorer{
			LeagueID:    leagueID,
			Season:      s.cfg.Season,
			Rank:        i + 1,
			PlayerName:  ext.PlayerName,
			TeamID:      ext.TeamExternalID,
			TeamName:    ext.TeamName,
			Goals:       ext.Goals,
			Assists:     ext.Assists,
			Appearances: ext.Appearances,
		}
		if err := s.topScorers.Upsert(ctx, row); err != nil {
			s.logger.ErrorContext(ctx, "top scorer upsert failed", "leagueID", leagueID, "player", row.PlayerName, "error", err)
			continue
		}
		stored++
		metrics.RowsUpserted.WithLabelValues("top_scorer").Inc()
	}
	return stored
}
