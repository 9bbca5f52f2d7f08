package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/pitchside/football-sync/internal/usecase"
)

func TestWriteError_InvalidInput(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: bad league id", usecase.ErrInvalidInput))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["success"].(bool); got {
		t.Fatalf("expected success=false")
	}
	if got, _ := body["error"].(string); got == "" {
		t.Fatalf("expected error message in body")
	}
	if got, _ := body["timestamp"].(string); got == "" {
		t.Fatalf("expected timestamp in body")
	}
}

func TestWriteError_DefaultsToInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: missing provider key", usecase.ErrConfiguration))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
}

func TestMapErrorStatus(t *testing.T) {
	cases := map[error]int{
		usecase.ErrInvalidInput:          http.StatusBadRequest,
		usecase.ErrUnauthorized:          http.StatusUnauthorized,
		usecase.ErrDependencyUnavailable: http.StatusServiceUnavailable,
		usecase.ErrConfiguration:         http.StatusInternalServerError,
		fmt.Errorf("plain failure"):      http.StatusInternalServerError,
	}
	for err, want := range cases {
		if got := mapErrorStatus(err); got != want {
			t.Fatalf("expected %d for %v, got %d", want, err, got)
		}
	}
}
