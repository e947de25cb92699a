package database

import (
	"context"

	"github.com/rpupo63/intern-hub-backend/models"
)

// ProjectStore persists project listings. Implementations must make Add and
// Reorder atomic: concurrent adds never share a code, and a reorder either
// lands completely or not at all.
type ProjectStore interface {
	FindAll(ctx context.Context) ([]*models.Project, error)
	FindByID(ctx context.Context, id string) (*models.Project, error)
	// Add assigns the id, code and order of project and inserts it.
	Add(ctx context.Context, project *models.Project) error
	// Update applies patch to the project with the given id. A missing id is not an error.
	Update(ctx context.Context, id string, patch models.ProjectPatch) error
	Reorder(ctx context.Context, moves []models.OrderUpdate) error
	Delete(ctx context.Context, id string) error
	// Seed inserts projects only when the store has never held any. It
	// reports whether anything was written.
	Seed(ctx context.Context, projects []*models.Project) (bool, error)
}

// ApplicationStore persists applicant submissions.
type ApplicationStore interface {
	FindAll(ctx context.Context) ([]*models.Application, error)
	Add(ctx context.Context, application *models.Application) (string, error)
}
