package database

import (
	"context"
	"sync"

	"github.com/rpupo63/intern-hub-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ProjectListing is the result of listing projects. Fallback is set when the
// projects come from the built-in list rather than the store.
type ProjectListing struct {
	Projects []*models.Project
	Fallback bool
}

// Catalog applies the read/write failure policy on top of the stores: reads
// never fail (they degrade to built-in or empty data and log), writes return
// their error to the caller.
type Catalog struct {
	projects     ProjectStore
	applications ApplicationStore
	logger       zerolog.Logger

	seedMu sync.Mutex
}

func NewCatalog(projects ProjectStore, applications ApplicationStore) *Catalog {
	return &Catalog{
		projects:     projects,
		applications: applications,
		logger:       log.With().Str("component", "catalog").Logger(),
	}
}

// ListProjects returns projects in display order. An empty store that never
// held projects is seeded once with the built-in list.
func (c *Catalog) ListProjects(ctx context.Context) ProjectListing {
	projects, err := c.projects.FindAll(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("FALLBACK: could not fetch projects, serving built-in list")
		return c.fallback()
	}
	if len(projects) > 0 {
		return ProjectListing{Projects: projects}
	}
	return c.seedEmptyStore(ctx)
}

func (c *Catalog) seedEmptyStore(ctx context.Context) ProjectListing {
	c.seedMu.Lock()
	defer c.seedMu.Unlock()

	drafts, err := SeedDrafts()
	if err != nil {
		c.logger.Error().Err(err).Msg("built-in project list is unreadable")
		return ProjectListing{Projects: []*models.Project{}, Fallback: true}
	}

	seeded, err := c.projects.Seed(ctx, drafts)
	if err != nil {
		c.logger.Warn().Err(err).Msg("FALLBACK: could not seed projects, serving built-in list")
		return c.fallback()
	}
	if seeded {
		c.logger.Info().Int("count", len(drafts)).Msg("seeded initial projects")
	}

	projects, err := c.projects.FindAll(ctx)
	if err != nil || len(projects) == 0 {
		if err != nil {
			c.logger.Warn().Err(err).Msg("FALLBACK: could not re-read projects after seeding")
		}
		return c.fallback()
	}
	return ProjectListing{Projects: projects}
}

func (c *Catalog) fallback() ProjectListing {
	projects, err := FallbackProjects()
	if err != nil {
		c.logger.Error().Err(err).Msg("built-in project list is unreadable")
		projects = []*models.Project{}
	}
	return ProjectListing{Projects: projects, Fallback: true}
}

// GetProject returns one project by id.
func (c *Catalog) GetProject(ctx context.Context, id string) (*models.Project, error) {
	return c.projects.FindByID(ctx, id)
}

// AddProject stores project with a freshly allocated code and order.
func (c *Catalog) AddProject(ctx context.Context, project *models.Project) (*models.Project, error) {
	if err := c.projects.Add(ctx, project); err != nil {
		return nil, err
	}
	c.logger.Info().Str("projectID", project.ID).Str("code", project.Code).Int("order", project.Order).Msg("project added")
	return project, nil
}

// UpdateProject applies patch to an existing project and returns the stored
// result. A missing project is reported before any write happens.
func (c *Catalog) UpdateProject(ctx context.Context, id string, patch models.ProjectPatch) (*models.Project, error) {
	if _, err := c.projects.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if err := c.projects.Update(ctx, id, patch); err != nil {
		return nil, err
	}
	return c.projects.FindByID(ctx, id)
}

// ReorderProjects rewrites display orders in a single batch.
func (c *Catalog) ReorderProjects(ctx context.Context, moves []models.OrderUpdate) error {
	return c.projects.Reorder(ctx, moves)
}

// DeleteProject removes an existing project. Other projects keep their code and order.
func (c *Catalog) DeleteProject(ctx context.Context, id string) error {
	if _, err := c.projects.FindByID(ctx, id); err != nil {
		return err
	}
	return c.projects.Delete(ctx, id)
}

// ListApplications returns applications ordered by name, or an empty list
// when the store can't be read.
func (c *Catalog) ListApplications(ctx context.Context) []*models.Application {
	applications, err := c.applications.FindAll(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("FALLBACK: could not fetch applications, returning empty list")
		return []*models.Application{}
	}
	if applications == nil {
		return []*models.Application{}
	}
	return applications
}

// AddApplication stores a submission and returns its id.
func (c *Catalog) AddApplication(ctx context.Context, application *models.Application) (string, error) {
	return c.applications.Add(ctx, application)
}
