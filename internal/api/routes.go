package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	chain := Chain(
		Recovery(h.logger),
		Logging(h.logger),
	)

	mux.Handle("GET /api/v1/digest/status", chain(http.HandlerFunc(h.DigestStatus)))
	mux.Handle("POST /api/v1/digest/trigger", chain(http.HandlerFunc(h.TriggerDigest)))
	mux.Handle("GET /api/v1/jobs/{id}", chain(http.HandlerFunc(h.GetJob)))
	mux.Handle("POST /api/v1/welcome", chain(http.HandlerFunc(h.SendWelcome)))
}
