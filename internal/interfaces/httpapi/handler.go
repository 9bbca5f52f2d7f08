package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/pitchside/football-sync/internal/usecase"
)

// SyncRunner executes a full data sync for the given leagues. An empty league
// list means "use the configured defaults".
type SyncRunner interface {
	Run(ctx context.Context, leagueIDs []int64) (usecase.RunResult, error)
}

type Handler struct {
	syncService SyncRunner
	logger      *slog.Logger
	validator   *validator.Validate
}

func NewHandler(syncService SyncRunner, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		syncService: syncService,
		logger:      logger,
		validator:   validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeJSON(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}
