package api

import (
	"context"
	"io"

	"github.com/rpupo63/intern-hub-backend/database"
	"github.com/rpupo63/intern-hub-backend/models"
	"github.com/rpupo63/intern-hub-backend/services"
)

// ProjectSuggester recommends projects for an applicant.
type ProjectSuggester interface {
	Suggest(ctx context.Context, profile services.ApplicantProfile, projects []*models.Project) ([]services.ProjectSuggestion, error)
}

// ApplicationNotifier tells admins about a new application.
type ApplicationNotifier interface {
	ApplicationReceived(ctx context.Context, app *models.Application) error
}

// ApplicationRelay forwards an application to an external form endpoint.
type ApplicationRelay interface {
	Submit(ctx context.Context, app *models.Application) error
}

// ImageUploader stores an image and returns its public URL.
type ImageUploader interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}

// Dependencies is everything the handlers call into. Optional collaborators
// are left nil when not configured.
type Dependencies struct {
	Database  database.Database
	Suggester ProjectSuggester
	Notifier  ApplicationNotifier
	Relay     ApplicationRelay
	Images    ImageUploader
}

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	healthHandler      healthHandler
	projectHandler     projectHandler
	applicationHandler applicationHandler
	suggestionHandler  suggestionHandler
	authHandler        authHandler
	imageHandler       imageHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string            `json:"error" example:"validation failed"`
	Status  string            `json:"status" example:"error"`
	Field   string            `json:"field,omitempty" example:"title"`
	Fields  map[string]string `json:"fields,omitempty"`
	Details string            `json:"details,omitempty" example:"Additional error details"`
	Cause   string            `json:"cause,omitempty" example:"Underlying error cause"`
}

// ProjectCollection is the body of GET /projects
type ProjectCollection struct {
	Projects []*models.Project `json:"projects"`
	Total    int               `json:"total"`
	Fallback bool              `json:"fallback"`
}

// ApplicationCollection is the body of GET /admin/applications
type ApplicationCollection struct {
	Applications []*models.Application `json:"applications"`
	Total        int                   `json:"total"`
}

// SubmitApplicationRequest is the body of POST /applications
type SubmitApplicationRequest struct {
	Name           string          `json:"name"`
	Location       string          `json:"location"`
	Specialization string          `json:"specialization"`
	Skills         string          `json:"skills"`
	GradYear       string          `json:"gradYear"`
	College        string          `json:"college"`
	Contact        string          `json:"contact"`
	Email          string          `json:"email"`
	WorkType       models.WorkType `json:"workType"`
	ProjectIDs     []string        `json:"projectIds"`
	// ProjectID is accepted for single-select forms and merged into ProjectIDs.
	ProjectID string `json:"projectId,omitempty"`
}

// SubmitApplicationResponse is returned after a successful submission
type SubmitApplicationResponse struct {
	ID               string   `json:"id,omitempty"`
	Status           string   `json:"status"`
	ProjectInterests []string `json:"projectInterests"`
}

// SuggestionResponse is the body of POST /suggestions
type SuggestionResponse struct {
	SuggestedProjects []services.ProjectSuggestion `json:"suggestedProjects"`
}

// ReorderRequest is the body of PUT /projects/order
type ReorderRequest struct {
	Order []models.OrderUpdate `json:"order"`
}

// LoginRequest is the body of POST /admin/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries a bearer token for admin routes
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

// ImageUploadResponse is returned after an image upload
type ImageUploadResponse struct {
	ImageURL string `json:"imageUrl"`
}
