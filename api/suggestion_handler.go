package api

import (
	"net/http"

	"github.com/rpupo63/intern-hub-backend/database"
	"github.com/rpupo63/intern-hub-backend/errs"
	"github.com/rpupo63/intern-hub-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type suggestionHandler struct {
	responder Responder
	logger    zerolog.Logger
	catalog   *database.Catalog
	suggester ProjectSuggester
}

func newSuggestionHandler(catalog *database.Catalog, suggester ProjectSuggester, responder func(zerolog.Logger) Responder) suggestionHandler {
	logger := log.With().Str("handlerName", "suggestionHandler").Logger()

	return suggestionHandler{
		responder: responder(logger),
		logger:    logger,
		catalog:   catalog,
		suggester: suggester,
	}
}

// suggestProjects asks the model which projects fit an applicant
// @Summary Suggest projects
// @Tags Suggestions
// @Accept json
// @Produce json
// @Param profile body services.ApplicantProfile true "Specialization and skills"
// @Success 200 {object} SuggestionResponse "Suggestions, possibly empty"
// @Failure 400 {object} ErrorResponse "Bad Request - missing fields"
// @Failure 408 {object} ErrorResponse "Request context ended during the model call"
// @Failure 502 {object} ErrorResponse "AI could not generate suggestions"
// @Router /suggestions [post]
func (h suggestionHandler) suggestProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var profile services.ApplicantProfile
		if err := decodeJSON(w, r, "profile", &profile); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := profile.Validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if h.suggester == nil {
			h.responder.WriteError(w, errs.NewSuggestionsDisabledError())
			return
		}

		listing := h.catalog.ListProjects(r.Context())
		suggestions, err := h.suggester.Suggest(r.Context(), profile, listing.Projects)
		if h.responder.CheckContextTimeout(w, r) {
			return
		}
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Debug().Int("count", len(suggestions)).Msg("suggestions generated")
		h.responder.WriteJSON(w, SuggestionResponse{SuggestedProjects: suggestions})
	}
}
