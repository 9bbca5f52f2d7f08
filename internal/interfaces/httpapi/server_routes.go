package httpapi

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.Handle("GET /metrics", promhttp.Handler())
}

func registerSyncRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	var sync http.Handler = http.HandlerFunc(handler.RunSync)
	if strings.TrimSpace(internalJobToken) != "" {
		sync = RequireInternalJobToken(internalJobToken, sync)
	}

	// Cron schedulers vary: some only issue GET, others POST.
	mux.Handle("GET /api/v1/sync", sync)
	mux.Handle("POST /api/v1/sync", sync)
}
