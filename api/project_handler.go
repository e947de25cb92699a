package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/intern-hub-backend/database"
	"github.com/rpupo63/intern-hub-backend/errs"
	"github.com/rpupo63/intern-hub-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	catalog   *database.Catalog
}

func newProjectHandler(catalog *database.Catalog, responder func(zerolog.Logger) Responder) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: responder(logger),
		logger:    logger,
		catalog:   catalog,
	}
}

// projectInput is the editable content of a project. Code and order are
// assigned by the store and are ignored when sent.
type projectInput struct {
	Title         string   `json:"title"`
	Objective     string   `json:"objective"`
	Deliverables  []string `json:"deliverables"`
	Tools         []string `json:"tools"`
	LongTermScope string   `json:"longTermScope"`
	ImageURL      string   `json:"imageUrl"`
	ImageHint     string   `json:"imageHint"`
}

func (in projectInput) project() *models.Project {
	return &models.Project{
		Title:         strings.TrimSpace(in.Title),
		Objective:     strings.TrimSpace(in.Objective),
		Deliverables:  datatypes.NewJSONSlice(trimAll(in.Deliverables)),
		Tools:         datatypes.NewJSONSlice(trimAll(in.Tools)),
		LongTermScope: strings.TrimSpace(in.LongTermScope),
		ImageURL:      strings.TrimSpace(in.ImageURL),
		ImageHint:     strings.TrimSpace(in.ImageHint),
	}
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// getAllProjects lists projects in display order
// @Summary Get all projects
// @Description Lists projects by display order. When the store can't be read the built-in list is returned with fallback=true.
// @Tags Projects
// @Produce json
// @Success 200 {object} ProjectCollection "List of projects"
// @Router /projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listing := h.catalog.ListProjects(r.Context())
		h.responder.WriteJSON(w, ProjectCollection{
			Projects: listing.Projects,
			Total:    len(listing.Projects),
			Fallback: listing.Fallback,
		})
	}
}

// getProject retrieves a specific project by ID
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID"
// @Success 200 {object} models.Project "Project details"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /project/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "projectID")
		if projectID == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing projectID"))
			return
		}

		project, err := h.catalog.GetProject(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// createProject adds a project with the next code and order
// @Summary Create project
// @Tags Projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param project body projectInput true "Project content"
// @Success 201 {object} models.Project "Created project"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /project [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input projectInput
		if err := decodeJSON(w, r, "project", &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project := input.project()
		if err := models.ValidateProject(project); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		created, err := h.catalog.AddProject(r.Context(), project)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "project", err))
			return
		}

		h.logger.Info().Str("admin", ctxGetAdmin(r.Context())).Str("code", created.Code).Msg("project created")
		h.responder.WriteJSONStatus(w, http.StatusCreated, created)
	}
}

// updateProject applies a partial update to a project
// @Summary Update project
// @Tags Projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param projectID path string true "Project ID"
// @Param project body models.ProjectPatch true "Fields to change"
// @Success 200 {object} models.Project "Updated project"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /project/{projectID} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "projectID")
		if projectID == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing projectID"))
			return
		}

		var patch models.ProjectPatch
		if err := decodeJSON(w, r, "project", &patch); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		trimPatch(&patch)
		if err := models.ValidateProjectPatch(patch); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		updated, err := h.catalog.UpdateProject(r.Context(), projectID, patch)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "project", err))
			return
		}

		h.logger.Info().Str("admin", ctxGetAdmin(r.Context())).Str("projectID", projectID).Msg("project updated")
		h.responder.WriteJSON(w, updated)
	}
}

func trimPatch(patch *models.ProjectPatch) {
	for _, s := range []*string{patch.Title, patch.Objective, patch.LongTermScope, patch.ImageURL, patch.ImageHint} {
		if s != nil {
			*s = strings.TrimSpace(*s)
		}
	}
	if patch.Deliverables != nil {
		trimmed := trimAll(*patch.Deliverables)
		patch.Deliverables = &trimmed
	}
	if patch.Tools != nil {
		trimmed := trimAll(*patch.Tools)
		patch.Tools = &trimmed
	}
}

// deleteProject deletes a project by ID
// @Summary Delete project
// @Tags Projects
// @Produce json
// @Security BearerAuth
// @Param projectID path string true "Project ID"
// @Success 200 {object} map[string]string "Success message"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /project/{projectID} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "projectID")
		if projectID == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing projectID"))
			return
		}

		if err := h.catalog.DeleteProject(r.Context(), projectID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "project", err))
			return
		}

		h.logger.Info().Str("admin", ctxGetAdmin(r.Context())).Str("projectID", projectID).Msg("project deleted")
		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "project deleted successfully",
		})
	}
}

// reorderProjects sets the display order of several projects at once
// @Summary Reorder projects
// @Tags Projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param order body ReorderRequest true "New positions"
// @Success 200 {object} ProjectCollection "Projects in their new order"
// @Failure 400 {object} ErrorResponse "Bad Request - unknown or duplicate id"
// @Router /projects/order [put]
func (h projectHandler) reorderProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ReorderRequest
		if err := decodeJSON(w, r, "order", &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := models.ValidateReorder(req.Order); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.catalog.ReorderProjects(r.Context(), req.Order); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("reorder", "projects", err))
			return
		}

		h.logger.Info().Str("admin", ctxGetAdmin(r.Context())).Int("moves", len(req.Order)).Msg("projects reordered")
		listing := h.catalog.ListProjects(r.Context())
		h.responder.WriteJSON(w, ProjectCollection{
			Projects: listing.Projects,
			Total:    len(listing.Projects),
			Fallback: listing.Fallback,
		})
	}
}
