package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Dependencies, auth adminAuth, sink string, startupTime time.Time, responder func(zerolog.Logger) Responder) *routeHandlers {
	catalog := deps.Database.Catalog()
	return &routeHandlers{
		healthHandler:      newHealthHandler(startupTime, responder),
		projectHandler:     newProjectHandler(catalog, responder),
		applicationHandler: newApplicationHandler(catalog, deps.Relay, deps.Notifier, sink, responder),
		suggestionHandler:  newSuggestionHandler(catalog, deps.Suggester, responder),
		authHandler:        newAuthHandler(auth, responder),
		imageHandler:       newImageHandler(deps.Images, responder),
	}
}

type healthHandler struct {
	responder   Responder
	startupTime time.Time
}

func newHealthHandler(startupTime time.Time, responder func(zerolog.Logger) Responder) healthHandler {
	return healthHandler{
		responder:   responder(log.With().Str("handlerName", "healthHandler").Logger()),
		startupTime: startupTime,
	}
}

// health reports liveness and uptime
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]any
// @Router /health [get]
func (h healthHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, map[string]any{
			"status":    "ok",
			"startedAt": h.startupTime.UTC().Format(time.RFC3339),
			"uptime":    time.Since(h.startupTime).Round(time.Second).String(),
		})
	}
}
