package mongodb

import (
	"testing"

	"github.com/rpupo63/intern-hub-backend/models"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestProjectDocumentUsesCamelCaseFields(t *testing.T) {
	doc := newProjectDocument(&models.Project{
		ID:            "ignored",
		Code:          "PROJ-007",
		Title:         "Search relevance",
		Deliverables:  []string{"Ranking model"},
		LongTermScope: "Power every search box",
		ImageURL:      "https://placehold.co/600x400.png",
		Order:         7,
	})
	raw, err := bson.Marshal(doc)
	require.NoError(t, err)

	var fields bson.M
	require.NoError(t, bson.Unmarshal(raw, &fields))
	require.NotContains(t, fields, "_id")
	require.Equal(t, "PROJ-007", fields["code"])
	require.Equal(t, "Power every search box", fields["longTermScope"])
	require.Equal(t, "https://placehold.co/600x400.png", fields["imageUrl"])
	require.EqualValues(t, 7, fields["order"])
	require.Len(t, fields["tools"], 0)
}

func TestProjectDocumentModelExposesHexID(t *testing.T) {
	id := primitive.NewObjectID()
	project := projectDocument{ID: id, Code: "PROJ-002", Order: 2}.model()
	require.Equal(t, id.Hex(), project.ID)
	require.Equal(t, "PROJ-002", project.Code)
}

func TestPatchFieldsSetsOnlyPatchedContent(t *testing.T) {
	title := "Renamed"
	tools := []string{"Go"}
	set := patchFields(models.ProjectPatch{Title: &title, Tools: &tools})
	require.Equal(t, bson.M{"title": "Renamed", "tools": []string{"Go"}}, set)
	require.Empty(t, patchFields(models.ProjectPatch{}))
}
