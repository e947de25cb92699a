package mongodb

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/rpupo63/intern-hub-backend/errs"
	"github.com/rpupo63/intern-hub-backend/models"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// newTestRepos connects to the replica set named by MONGO_URI and returns
// repos over a database private to the test.
func newTestRepos(t *testing.T) (*ProjectRepo, *ApplicationRepo) {
	t.Helper()
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}
	ctx := context.Background()

	client, err := Connect(ctx, uri)
	require.NoError(t, err)

	name := "test_" + strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	if len(name) > 60 {
		name = name[:60]
	}
	db := client.Database(name)
	require.NoError(t, db.Drop(ctx))
	require.NoError(t, EnsureIndexes(ctx, db))
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	return NewProjectRepo(client, db), NewApplicationRepo(db)
}

func testProject(title string) *models.Project {
	return &models.Project{
		Title:         title,
		Objective:     "Build something useful for the team",
		Deliverables:  []string{"Prototype"},
		Tools:         []string{"Go", "MongoDB"},
		LongTermScope: "Grow into a product used by every team",
		ImageURL:      "https://placehold.co/600x400.png",
		ImageHint:     "code screen",
	}
}

func addProjects(t *testing.T, repo *ProjectRepo, n int) []*models.Project {
	t.Helper()
	added := make([]*models.Project, 0, n)
	for i := 1; i <= n; i++ {
		p := testProject(fmt.Sprintf("Project %d", i))
		require.NoError(t, repo.Add(context.Background(), p))
		added = append(added, p)
	}
	return added
}

func requireOrders(t *testing.T, repo *ProjectRepo, want map[string]int) {
	t.Helper()
	projects, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, len(want))
	for _, p := range projects {
		require.Equal(t, want[p.ID], p.Order, p.Code)
	}
}

func TestMongoProjectRepoAddAssignsSequentialCodes(t *testing.T) {
	repo, _ := newTestRepos(t)
	added := addProjects(t, repo, 3)

	for i, p := range added {
		require.Equal(t, models.FormatProjectCode(i+1), p.Code)
		require.Equal(t, i+1, p.Order)
		require.NotEmpty(t, p.ID)
	}

	stored, err := repo.FindByID(context.Background(), added[1].ID)
	require.NoError(t, err)
	require.Equal(t, "PROJ-002", stored.Code)
	require.Equal(t, []string{"Go", "MongoDB"}, []string(stored.Tools))
}

func TestMongoProjectRepoCodesAreNotReusedAfterDelete(t *testing.T) {
	repo, _ := newTestRepos(t)
	ctx := context.Background()
	added := addProjects(t, repo, 2)

	require.NoError(t, repo.Delete(ctx, added[1].ID))

	next := testProject("Project after delete")
	require.NoError(t, repo.Add(ctx, next))
	require.Equal(t, "PROJ-003", next.Code)
	require.Equal(t, 2, next.Order)

	_, err := repo.FindByID(ctx, added[1].ID)
	require.True(t, errs.IsNotFound(err))
}

func TestMongoProjectRepoReorderUnknownIDChangesNothing(t *testing.T) {
	repo, _ := newTestRepos(t)
	ctx := context.Background()
	added := addProjects(t, repo, 2)
	original := map[string]int{added[0].ID: 1, added[1].ID: 2}

	missing := primitive.NewObjectID().Hex()
	err := repo.Reorder(ctx, []models.OrderUpdate{{ID: added[0].ID, Order: 2}, {ID: added[1].ID, Order: 1}, {ID: missing, Order: 3}})
	require.True(t, errs.IsBatchAbortedError(err))
	requireOrders(t, repo, original)

	err = repo.Reorder(ctx, []models.OrderUpdate{{ID: added[0].ID, Order: 2}, {ID: "not-an-object-id", Order: 1}})
	require.True(t, errs.IsBatchAbortedError(err))
	requireOrders(t, repo, original)

	require.NoError(t, repo.Reorder(ctx, []models.OrderUpdate{{ID: added[0].ID, Order: 2}, {ID: added[1].ID, Order: 1}}))
	requireOrders(t, repo, map[string]int{added[0].ID: 2, added[1].ID: 1})
}

func TestMongoProjectRepoReorderKeepsOrdersUnique(t *testing.T) {
	repo, _ := newTestRepos(t)
	added := addProjects(t, repo, 3)

	err := repo.Reorder(context.Background(), []models.OrderUpdate{{ID: added[0].ID, Order: 2}})
	require.True(t, errs.IsBatchAbortedError(err))
	requireOrders(t, repo, map[string]int{added[0].ID: 1, added[1].ID: 2, added[2].ID: 3})
}

func TestMongoProjectRepoSeedOnlyOnce(t *testing.T) {
	repo, _ := newTestRepos(t)
	ctx := context.Background()

	drafts := func() []*models.Project {
		var out []*models.Project
		for i := 1; i <= 3; i++ {
			p := testProject(fmt.Sprintf("Seeded %d", i))
			p.Code = models.FormatProjectCode(i)
			p.Order = i
			out = append(out, p)
		}
		return out
	}

	seeded, err := repo.Seed(ctx, drafts())
	require.NoError(t, err)
	require.True(t, seeded)

	projects, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 3)
	for _, p := range projects {
		require.NoError(t, repo.Delete(ctx, p.ID))
	}

	seeded, err = repo.Seed(ctx, drafts())
	require.NoError(t, err)
	require.False(t, seeded)

	next := testProject("After the seed")
	require.NoError(t, repo.Add(ctx, next))
	require.Equal(t, "PROJ-004", next.Code)
}

func TestMongoApplicationRepoOrdersByName(t *testing.T) {
	_, repo := newTestRepos(t)
	ctx := context.Background()

	for _, name := range []string{"Zoe", "Adam", "Maya"} {
		id, err := repo.Add(ctx, &models.Application{Name: name, WorkType: models.WorkTypeIndividual, ProjectIDs: []string{"p1"}})
		require.NoError(t, err)
		require.NotEmpty(t, id)
	}

	applications, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, applications, 3)
	require.Equal(t, "Adam", applications[0].Name)
	require.Equal(t, "Zoe", applications[2].Name)
}
