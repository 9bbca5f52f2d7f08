package httpapi

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pitchside/football-sync/internal/usecase"
)

type syncRequest struct {
	LeagueIDs []int64 `validate:"omitempty,dive,gt=0"`
}

// RunSync triggers a full sync pass. Leagues come from the `league` and
// `leagues` query parameters; without either the configured defaults apply.
func (h *Handler) RunSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSync")
	defer span.End()

	leagueIDs, err := parseLeagueIDs(r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	request := syncRequest{LeagueIDs: leagueIDs}
	if err := h.validator.Struct(request); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: league ids must be positive", usecase.ErrInvalidInput))
		return
	}

	result, err := h.syncService.Run(ctx, leagueIDs)
	if err != nil {
		h.logger.ErrorContext(ctx, "sync run failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, syncResponse{
		Success:          true,
		Timestamp:        result.Timestamp,
		Archived:         result.Archived,
		LeaguesProcessed: result.LeaguesProcessed,
		PerLeague:        result.PerLeague,
	})
}

// parseLeagueIDs merges the `league` and `leagues` query parameters into one
// deduplicated, order-preserving list. Both accept comma-separated values and
// may repeat.
func parseLeagueIDs(query url.Values) ([]int64, error) {
	raw := make([]string, 0, 4)
	raw = append(raw, query["league"]...)
	raw = append(raw, query["leagues"]...)

	seen := make(map[int64]struct{}, len(raw))
	out := make([]int64, 0, len(raw))
	for _, value := range raw {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid league id %q", usecase.ErrInvalidInput, part)
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out, nil
}
