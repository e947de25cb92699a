package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rpupo63/intern-hub-backend/database"
	"github.com/rpupo63/intern-hub-backend/errs"
	"github.com/rpupo63/intern-hub-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

// Where accepted applications are written.
const (
	SinkStore = "store"
	SinkRelay = "relay"
	SinkBoth  = "both"
)

type applicationHandler struct {
	responder Responder
	logger    zerolog.Logger
	catalog   *database.Catalog
	relay     ApplicationRelay
	notifier  ApplicationNotifier
	sink      string
}

func newApplicationHandler(catalog *database.Catalog, relay ApplicationRelay, notifier ApplicationNotifier, sink string, responder func(zerolog.Logger) Responder) applicationHandler {
	logger := log.With().Str("handlerName", "applicationHandler").Logger()

	switch sink {
	case SinkStore, SinkRelay, SinkBoth:
	default:
		logger.Warn().Str("sink", sink).Msg("unknown application sink, using store")
		sink = SinkStore
	}
	if relay == nil && sink != SinkStore {
		logger.Warn().Str("sink", sink).Msg("no form relay configured, using store")
		sink = SinkStore
	}

	return applicationHandler{
		responder: responder(logger),
		logger:    logger,
		catalog:   catalog,
		relay:     relay,
		notifier:  notifier,
		sink:      sink,
	}
}

func (req SubmitApplicationRequest) application() *models.Application {
	ids := make([]string, 0, len(req.ProjectIDs)+1)
	seen := make(map[string]bool)
	for _, id := range append(append([]string{}, req.ProjectIDs...), req.ProjectID) {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	return &models.Application{
		Name:           strings.TrimSpace(req.Name),
		Location:       strings.TrimSpace(req.Location),
		Specialization: strings.TrimSpace(req.Specialization),
		Skills:         strings.TrimSpace(req.Skills),
		GradYear:       strings.TrimSpace(req.GradYear),
		College:        strings.TrimSpace(req.College),
		Contact:        strings.TrimSpace(req.Contact),
		Email:          strings.TrimSpace(req.Email),
		WorkType:       req.WorkType,
		ProjectIDs:     datatypes.NewJSONSlice(ids),
	}
}

// submitApplication validates and records an expression of interest
// @Summary Submit application
// @Tags Applications
// @Accept json
// @Produce json
// @Param application body SubmitApplicationRequest true "Applicant details"
// @Success 201 {object} SubmitApplicationResponse "Accepted"
// @Failure 400 {object} ErrorResponse "Bad Request - field errors in fields"
// @Failure 408 {object} ErrorResponse "Request context ended before the application was written"
// @Router /applications [post]
func (h applicationHandler) submitApplication() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SubmitApplicationRequest
		if err := decodeJSON(w, r, "application", &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		app := req.application()
		if err := models.ValidateApplication(app); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		titles, err := h.resolveTitles(r.Context(), app.ProjectIDs)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		app.ProjectInterests = datatypes.NewJSONSlice(titles)
		app.CreatedAt = time.Now().UTC()

		// Nothing is written once the client has gone away.
		if h.responder.CheckContextTimeout(w, r) {
			return
		}

		id, err := h.persist(r.Context(), app)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if h.notifier != nil {
			if err := h.notifier.ApplicationReceived(r.Context(), app); err != nil {
				h.logger.Warn().Err(err).Str("applicationID", id).Msg("admin notification failed")
			}
		}

		h.logger.Info().Str("applicationID", id).Strs("projectIds", app.ProjectIDs).Msg("application received")
		h.responder.WriteJSONStatus(w, http.StatusCreated, SubmitApplicationResponse{
			ID:               id,
			Status:           "success",
			ProjectInterests: titles,
		})
	}
}

// resolveTitles maps the selected ids to project titles. Every id must name a
// listed project.
func (h applicationHandler) resolveTitles(ctx context.Context, ids []string) ([]string, error) {
	listing := h.catalog.ListProjects(ctx)
	byID := make(map[string]string, len(listing.Projects))
	for _, p := range listing.Projects {
		byID[p.ID] = p.Title
	}

	titles := make([]string, 0, len(ids))
	for _, id := range ids {
		title, ok := byID[id]
		if !ok {
			return nil, errs.NewValidationError(map[string]string{"projectIds": "Please select a project from the list."})
		}
		titles = append(titles, title)
	}
	return titles, nil
}

func (h applicationHandler) persist(ctx context.Context, app *models.Application) (string, error) {
	switch h.sink {
	case SinkRelay:
		if err := h.relay.Submit(ctx, app); err != nil {
			return "", err
		}
		return "", nil
	case SinkBoth:
		id, err := h.catalog.AddApplication(ctx, app)
		if err != nil {
			return "", wrapDatabaseError("create", "application", err)
		}
		if err := h.relay.Submit(ctx, app); err != nil {
			h.logger.Warn().Err(err).Str("applicationID", id).Msg("form relay failed, application kept in store")
		}
		return id, nil
	default:
		id, err := h.catalog.AddApplication(ctx, app)
		if err != nil {
			return "", wrapDatabaseError("create", "application", err)
		}
		return id, nil
	}
}

// getAllApplications lists applications by applicant name
// @Summary Get all applications
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ApplicationCollection "Applications"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /admin/applications [get]
func (h applicationHandler) getAllApplications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		applications := h.catalog.ListApplications(r.Context())
		h.responder.WriteJSON(w, ApplicationCollection{
			Applications: applications,
			Total:        len(applications),
		})
	}
}
