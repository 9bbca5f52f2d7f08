package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/pitchside/football-sync/external/apifootball"
	"github.com/pitchside/football-sync/internal/config"
	"github.com/pitchside/football-sync/internal/infrastructure/repository/postgres"
	"github.com/pitchside/football-sync/internal/interfaces/httpapi"
	"github.com/pitchside/football-sync/internal/platform/logging"
	"github.com/pitchside/football-sync/internal/platform/pacing"
	"github.com/pitchside/football-sync/internal/usecase"
)

// Application bundles the HTTP server with the resources it owns.
type Application struct {
	Server *http.Server

	db *sqlx.DB
}

func NewApplication(cfg config.Config, logger *logging.Logger, httpLogger *slog.Logger) (*Application, error) {
	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	fixtureRepo := postgres.NewFixtureRepository(db)
	teamRepo := postgres.NewTeamRepository(db)
	standingRepo := postgres.NewStandingRepository(db)
	topScorerRepo := postgres.NewTopScorerRepository(db)

	pacer := pacing.NewPacer(cfg.PacingInterval)
	provider := apifootball.NewClient(apifootball.ClientConfig{
		BaseURL: cfg.ProviderBaseURL,
		APIKey:  cfg.ProviderAPIKey,
		Timeout: cfg.ProviderTimeout,
		Logger:  logger,
		Pacer:   pacer,
	})

	syncSvc := usecase.NewSyncService(
		provider,
		fixtureRepo,
		teamRepo,
		standingRepo,
		topScorerRepo,
		usecase.SyncConfig{
			Season:           cfg.Season,
			DefaultLeagueIDs: cfg.DefaultLeagueIDs,
			ArchiveGrace:     cfg.ArchiveGrace,
			UpcomingWindow:   cfg.UpcomingWindow,
			RecentWindow:     cfg.RecentWindow,
			StatsWindow:      cfg.StatsWindow,
			TopScorersLimit:  cfg.TopScorersLimit,
		},
		logger,
	)

	handler := httpapi.NewHandler(syncSvc, httpLogger)
	router := httpapi.NewRouter(handler, httpLogger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = db.Close()
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &Application{Server: server, db: db}, nil
}

func (a *Application) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
