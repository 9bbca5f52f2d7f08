package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/pitchside/football-sync/internal/usecase"
)

type syncResponse struct {
	Success          bool                            `json:"success"`
	Timestamp        time.Time                       `json:"timestamp"`
	Archived         int                             `json:"archived"`
	LeaguesProcessed int                             `json:"leaguesProcessed"`
	PerLeague        map[string]usecase.LeagueCounts `json:"perLeague"`
}

type failureResponse struct {
	Success   bool      `json:"success"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	ctx, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	writeJSON(ctx, w, mapErrorStatus(err), failureResponse{
		Success:   false,
		Error:     err.Error(),
		Timestamp: time.Now().UTC(),
	})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	ctx, span := startSpan(ctx, "httpapi.writeInternalError")
	defer span.End()

	writeJSON(ctx, w, http.StatusInternalServerError, failureResponse{
		Success:   false,
		Error:     "internal server error",
		Timestamp: time.Now().UTC(),
	})
}

func mapErrorStatus(err error) int {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, usecase.ErrDependencyUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
