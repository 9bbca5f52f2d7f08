package apifootball

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/pitchside/football-sync/internal/domain/fixture"
	"github.com/pitchside/football-sync/internal/metrics"
	"github.com/pitchside/football-sync/internal/platform/logging"
	"github.com/pitchside/football-sync/internal/platform/pacing"
	"github.com/pitchside/football-sync/internal/usecase"
	bytebufferpool "github.com/valyala/bytebufferpool"
)

const (
	defaultBaseURL    = "https://v3.football.api-sports.io"
	apiKeyHeader      = "x-apisports-key"
	maxBodyBytes      = 6 << 20
	maxErrorBodyBytes = 512
	providerDateOnly  = "2006-01-02"
)

var apiKeyParamRegex = regexp.MustCompile(`(?i)(x-apisports-key|apikey)=[^&\s"']+`)

// ProviderError is a non-2xx answer from the upstream API. The request is
// never retried; callers inspect StatusCode and Body to decide what to do.
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider status=%d body=%s", e.StatusCode, e.Body)
}

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	Logger     *logging.Logger
	Pacer      *pacing.Pacer
}

// Client talks to the API-Football v3 REST API. It implements
// usecase.SportsDataProvider and paces every outbound call through the
// configured pacer before it leaves the process.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *logging.Logger
	pacer      *pacing.Pacer
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 30 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		logger:     logger,
		pacer:      cfg.Pacer,
	}
}

func (c *Client) FixturesByDateRange(ctx context.Context, leagueID int64, season int, from, to time.Time) ([]usecase.ExternalFixture, error) {
	if leagueID <= 0 {
		return nil, fmt.Errorf("league id must be greater than zero")
	}

	query := url.Values{}
	query.Set("league", strconv.FormatInt(leagueID, 10))
	query.Set("season", strconv.Itoa(season))
	query.Set("from", from.UTC().Format(providerDateOnly))
	query.Set("to", to.UTC().Format(providerDateOnly))
	query.Set("timezone", "UTC")

	var envelope fixturesEnvelope
	if err := c.doJSON(ctx, "fixtures", "/fixtures", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch fixtures league_id=%d: %w", leagueID, err)
	}

	out := make([]usecase.ExternalFixture, 0, len(envelope.Response))
	for _, item := range envelope.Response {
		if item.Fixture.ID <= 0 {
			continue
		}
		kickoff := parseProviderDateTime(item.Fixture.Date)
		if kickoff == nil {
			continue
		}
		out = append(out, usecase.ExternalFixture{
			ExternalID:         item.Fixture.ID,
			LeagueID:           item.League.ID,
			Season:             item.League.Season,
			HomeTeamExternalID: item.Teams.Home.ID,
			AwayTeamExternalID: item.Teams.Away.ID,
			KickoffAt:          *kickoff,
			Venue:              strings.TrimSpace(item.Fixture.Venue.Name),
			Status:             fixture.NormalizeStatus(item.Fixture.Status.Short),
			GoalsHome:          item.Goals.Home,
			GoalsAway:          item.Goals.Away,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].KickoffAt.Before(out[j].KickoffAt)
		}
		return out[i].ExternalID < out[j].ExternalID
	})
	return out, nil
}

func (c *Client) FixtureStatistics(ctx context.Context, fixtureID int64) (map[string]any, error) {
	if fixtureID <= 0 {
		return nil, fmt.Errorf("fixture id must be greater than zero")
	}

	query := url.Values{}
	query.Set("fixture", strconv.FormatInt(fixtureID, 10))

	var envelope statisticsEnvelope
	if err := c.doJSON(ctx, "fixtures_statistics", "/fixtures/statistics", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch fixture statistics fixture_id=%d: %w", fixtureID, err)
	}

	out := make(map[string]any, len(envelope.Response))
	for _, entry := range envelope.Response {
		values := make(map[string]any, len(entry.Statistics))
		for _, item := range entry.Statistics {
			key := normalizeStatTypeName(item.Type)
			if key == "" {
				continue
			}
			values[key] = item.Value
		}
		key := strings.TrimSpace(entry.Team.Name)
		if key == "" {
			key = strconv.FormatInt(entry.Team.ID, 10)
		}
		out[key] = values
	}
	return out, nil
}

func (c *Client) TeamByID(ctx context.Context, teamID int64) (usecase.ExternalTeam, error) {
	if teamID <= 0 {
		return usecase.ExternalTeam{}, fmt.Errorf("team id must be greater than zero")
	}

	query := url.Values{}
	query.Set("id", strconv.FormatInt(teamID, 10))

	var envelope teamsEnvelope
	if err := c.doJSON(ctx, "teams", "/teams", query, &envelope); err != nil {
		return usecase.ExternalTeam{}, fmt.Errorf("fetch team team_id=%d: %w", teamID, err)
	}
	if len(envelope.Response) == 0 {
		return usecase.ExternalTeam{}, fmt.Errorf("team %d missing from provider response", teamID)
	}

	item := envelope.Response[0]
	return usecase.ExternalTeam{
		ExternalID: item.Team.ID,
		Name:       strings.TrimSpace(item.Team.Name),
		LogoURL:    strings.TrimSpace(item.Team.Logo),
		Country:    strings.TrimSpace(item.Team.Country),
		Venue:      strings.TrimSpace(item.Venue.Name),
		Founded:    item.Team.Founded,
	}, nil
}

func (c *Client) StandingsByLeagueSeason(ctx context.Context, leagueID int64, season int) ([]usecase.ExternalStanding, error) {
	if leagueID <= 0 {
		return nil, fmt.Errorf("league id must be greater than zero")
	}

	query := url.Values{}
	query.Set("league", strconv.FormatInt(leagueID, 10))
	query.Set("season", strconv.Itoa(season))

	var envelope standingsEnvelope
	if err := c.doJSON(ctx, "standings", "/standings", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch standings league_id=%d: %w", leagueID, err)
	}

	out := make([]usecase.ExternalStanding, 0, 24)
	for _, entry := range envelope.Response {
		// Cup competitions split the table into groups; flatten them all.
		for _, group := range entry.League.Standings {
			for _, item := range group {
				if item.Team.ID <= 0 || item.Rank <= 0 {
					continue
				}
				out = append(out, usecase.ExternalStanding{
					TeamExternalID: item.Team.ID,
					TeamName:       strings.TrimSpace(item.Team.Name),
					Rank:           item.Rank,
					Points:         item.Points,
					Played:         item.All.Played,
					Won:            item.All.Win,
					Draw:           item.All.Draw,
					Lost:           item.All.Lose,
					GoalsFor:       item.All.Goals.For,
					GoalsAgainst:   item.All.Goals.Against,
					GoalDifference: item.GoalsDiff,
					Form:           strings.TrimSpace(item.Form),
				})
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rank != out[j].Rank {
			return out[i].Rank < out[j].Rank
		}
		return out[i].TeamExternalID < out[j].TeamExternalID
	})
	return out, nil
}

func (c *Client) TopScorersByLeagueSeason(ctx context.Context, leagueID int64, season int) ([]usecase.ExternalTopScorer, error) {
	if leagueID <= 0 {
		return nil, fmt.Errorf("league id must be greater than zero")
	}

	query := url.Values{}
	query.Set("league", strconv.FormatInt(leagueID, 10))
	query.Set("season", strconv.Itoa(season))

	var envelope topScorersEnvelope
	if err := c.doJSON(ctx, "players_topscorers", "/players/topscorers", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch top scorers league_id=%d: %w", leagueID, err)
	}

	out := make([]usecase.ExternalTopScorer, 0, len(envelope.Response))
	for _, entry := range envelope.Response {
		if len(entry.Statistics) == 0 {
			continue
		}
		stat := entry.Statistics[0]
		out = append(out, usecase.ExternalTopScorer{
			PlayerName:     strings.TrimSpace(entry.Player.Name),
			TeamExternalID: stat.Team.ID,
			TeamName:       strings.TrimSpace(stat.Team.Name),
			Goals:          intValue(stat.Goals.Total),
			Assists:        intValue(stat.Goals.Assists),
			Appearances:    intValue(stat.Games.Appearences),
		})
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, endpoint, path string, query url.Values, target any) error {
	if c.pacer != nil {
		if err := c.pacer.Wait(ctx); err != nil {
			return err
		}
	}

	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}
	c.logger.DebugContext(ctx, "apifootball request", "request", c.requestPreview(fullURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ProviderRequests.WithLabelValues(endpoint, "transport_error").Inc()
		return fmt.Errorf("send request: %s", sanitizeSensitiveText(err.Error(), c.apiKey))
	}
	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	_ = resp.Body.Close()
	if readErr != nil {
		metrics.ProviderRequests.WithLabelValues(endpoint, "read_error").Inc()
		return fmt.Errorf("read response body: %w", readErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.ProviderRequests.WithLabelValues(endpoint, "http_error").Inc()
		c.logger.WarnContext(ctx, "apifootball request rejected",
			"url", sanitizeSensitiveText(fullURL, c.apiKey),
			"status", resp.StatusCode,
		)
		return crerr.WithStack(&ProviderError{
			StatusCode: resp.StatusCode,
			Body:       abbreviateBody(raw),
		})
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		metrics.ProviderRequests.WithLabelValues(endpoint, "decode_error").Inc()
		return fmt.Errorf("decode provider payload: %w", err)
	}

	metrics.ProviderRequests.WithLabelValues(endpoint, "ok").Inc()
	return nil
}

func (c *Client) requestPreview(fullURL string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	buf.WriteString(http.MethodGet)
	buf.WriteString(" ")
	buf.WriteString(sanitizeSensitiveText(fullURL, c.apiKey))
	buf.WriteString(" ")
	buf.WriteString(apiKeyHeader)
	buf.WriteString(": REDACTED")
	return buf.String()
}

func sanitizeSensitiveText(value, key string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if key != "" {
		value = strings.ReplaceAll(value, key, "REDACTED")
	}
	return apiKeyParamRegex.ReplaceAllString(value, "$1=REDACTED")
}

func abbreviateBody(raw []byte) string {
	body := strings.TrimSpace(string(raw))
	if len(body) > maxErrorBodyBytes {
		body = body[:maxErrorBodyBytes] + "..."
	}
	return body
}

func parseProviderDateTime(raw string) *time.Time {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}

	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			v := parsed.UTC()
			return &v
		}
	}
	return nil
}

func normalizeStatTypeName(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	raw = strings.ReplaceAll(raw, "_", " ")
	raw = strings.ReplaceAll(raw, "-", " ")
	return strings.Join(strings.Fields(raw), " ")
}

func intValue(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
