package database

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rpupo63/intern-hub-backend/errs"
	"github.com/rpupo63/intern-hub-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProjectStore struct{ mock.Mock }

func (m *mockProjectStore) FindAll(ctx context.Context) ([]*models.Project, error) {
	args := m.Called()
	projects, _ := args.Get(0).([]*models.Project)
	return projects, args.Error(1)
}

func (m *mockProjectStore) FindByID(ctx context.Context, id string) (*models.Project, error) {
	args := m.Called(id)
	project, _ := args.Get(0).(*models.Project)
	return project, args.Error(1)
}

func (m *mockProjectStore) Add(ctx context.Context, project *models.Project) error {
	return m.Called(project).Error(0)
}

func (m *mockProjectStore) Update(ctx context.Context, id string, patch models.ProjectPatch) error {
	return m.Called(id, patch).Error(0)
}

func (m *mockProjectStore) Reorder(ctx context.Context, moves []models.OrderUpdate) error {
	return m.Called(moves).Error(0)
}

func (m *mockProjectStore) Delete(ctx context.Context, id string) error {
	return m.Called(id).Error(0)
}

func (m *mockProjectStore) Seed(ctx context.Context, projects []*models.Project) (bool, error) {
	args := m.Called(projects)
	return args.Bool(0), args.Error(1)
}

type mockApplicationStore struct{ mock.Mock }

func (m *mockApplicationStore) FindAll(ctx context.Context) ([]*models.Application, error) {
	args := m.Called()
	applications, _ := args.Get(0).([]*models.Application)
	return applications, args.Error(1)
}

func (m *mockApplicationStore) Add(ctx context.Context, application *models.Application) (string, error) {
	args := m.Called(application)
	return args.String(0), args.Error(1)
}

func TestCatalogListProjectsFallsBackWhenStoreFails(t *testing.T) {
	projects := &mockProjectStore{}
	projects.On("FindAll").Return(nil, errors.New("connection refused"))

	listing := NewCatalog(projects, &mockApplicationStore{}).ListProjects(context.Background())

	require.True(t, listing.Fallback)
	require.NotEmpty(t, listing.Projects)
	require.Equal(t, "seed-1", listing.Projects[0].ID)
	require.Equal(t, "PROJ-001", listing.Projects[0].Code)
	projects.AssertNotCalled(t, "Seed", mock.Anything)
}

func TestCatalogListProjectsFallsBackWhenSeedFails(t *testing.T) {
	projects := &mockProjectStore{}
	projects.On("FindAll").Return([]*models.Project{}, nil)
	projects.On("Seed", mock.Anything).Return(false, errors.New("read-only"))

	listing := NewCatalog(projects, &mockApplicationStore{}).ListProjects(context.Background())

	require.True(t, listing.Fallback)
	require.NotEmpty(t, listing.Projects)
}

func TestCatalogListProjectsReturnsStoredProjects(t *testing.T) {
	stored := []*models.Project{{ID: "x", Code: "PROJ-004", Order: 1}}
	projects := &mockProjectStore{}
	projects.On("FindAll").Return(stored, nil)

	listing := NewCatalog(projects, &mockApplicationStore{}).ListProjects(context.Background())

	require.False(t, listing.Fallback)
	require.Equal(t, stored, listing.Projects)
}

func TestCatalogSeedsEmptyStoreOnce(t *testing.T) {
	catalog := New(newTestDB(t)).Catalog()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			listing := catalog.ListProjects(ctx)
			assert.False(t, listing.Fallback)
		}()
	}
	wg.Wait()

	drafts, err := SeedDrafts()
	require.NoError(t, err)
	listing := catalog.ListProjects(ctx)
	require.Len(t, listing.Projects, len(drafts))
	require.NotEqual(t, "seed-1", listing.Projects[0].ID)
}

func TestCatalogAddThenList(t *testing.T) {
	catalog := New(newTestDB(t)).Catalog()
	ctx := context.Background()

	initial := catalog.ListProjects(ctx)
	added, err := catalog.AddProject(ctx, newProject("Brand new project"))
	require.NoError(t, err)
	require.Equal(t, models.FormatProjectCode(len(initial.Projects)+1), added.Code)
	require.Equal(t, len(initial.Projects)+1, added.Order)

	listing := catalog.ListProjects(ctx)
	require.Len(t, listing.Projects, len(initial.Projects)+1)
	require.Equal(t, added.ID, listing.Projects[len(listing.Projects)-1].ID)
}

func TestCatalogUpdateAndDeleteMissingProject(t *testing.T) {
	catalog := New(newTestDB(t)).Catalog()
	ctx := context.Background()

	title := "Whatever"
	_, err := catalog.UpdateProject(ctx, "missing", models.ProjectPatch{Title: &title})
	require.True(t, errs.IsNotFound(err))

	require.True(t, errs.IsNotFound(catalog.DeleteProject(ctx, "missing")))
}

func TestCatalogListApplicationsNeverFails(t *testing.T) {
	applications := &mockApplicationStore{}
	applications.On("FindAll").Return(nil, errors.New("timeout")).Once()
	applications.On("FindAll").Return(nil, nil).Once()

	catalog := NewCatalog(&mockProjectStore{}, applications)

	failed := catalog.ListApplications(context.Background())
	require.NotNil(t, failed)
	require.Empty(t, failed)

	empty := catalog.ListApplications(context.Background())
	require.NotNil(t, empty)
	require.Empty(t, empty)
}

func TestCatalogAddApplicationPropagatesError(t *testing.T) {
	applications := &mockApplicationStore{}
	applications.On("Add", mock.Anything).Return("", errors.New("disk full"))

	_, err := NewCatalog(&mockProjectStore{}, applications).AddApplication(context.Background(), &models.Application{Name: "Ana"})
	require.ErrorContains(t, err, "disk full")
}
