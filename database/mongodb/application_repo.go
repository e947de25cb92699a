package mongodb

import (
	"context"
	"time"

	"github.com/rpupo63/intern-hub-backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type applicationDocument struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Name             string             `bson:"name"`
	Location         string             `bson:"location"`
	Specialization   string             `bson:"specialization"`
	Skills           string             `bson:"skills"`
	GradYear         string             `bson:"gradYear"`
	College          string             `bson:"college"`
	Contact          string             `bson:"contact"`
	Email            string             `bson:"email"`
	WorkType         string             `bson:"workType"`
	ProjectIDs       []string           `bson:"projectIds"`
	ProjectInterests []string           `bson:"projectInterests"`
	CreatedAt        time.Time          `bson:"createdAt"`
}

func (d applicationDocument) model() *models.Application {
	return &models.Application{
		ID:               d.ID.Hex(),
		Name:             d.Name,
		Location:         d.Location,
		Specialization:   d.Specialization,
		Skills:           d.Skills,
		GradYear:         d.GradYear,
		College:          d.College,
		Contact:          d.Contact,
		Email:            d.Email,
		WorkType:         models.WorkType(d.WorkType),
		ProjectIDs:       d.ProjectIDs,
		ProjectInterests: d.ProjectInterests,
		CreatedAt:        d.CreatedAt,
	}
}

type ApplicationRepo struct {
	applications *mongo.Collection
}

func NewApplicationRepo(db *mongo.Database) *ApplicationRepo {
	return &ApplicationRepo{applications: db.Collection(applicationsCollection)}
}

func (r *ApplicationRepo) FindAll(ctx context.Context) ([]*models.Application, error) {
	cursor, err := r.applications.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []applicationDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	applications := make([]*models.Application, 0, len(docs))
	for _, doc := range docs {
		applications = append(applications, doc.model())
	}
	return applications, nil
}

func (r *ApplicationRepo) Add(ctx context.Context, application *models.Application) (string, error) {
	createdAt := application.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	doc := applicationDocument{
		ID:               primitive.NewObjectID(),
		Name:             application.Name,
		Location:         application.Location,
		Specialization:   application.Specialization,
		Skills:           application.Skills,
		GradYear:         application.GradYear,
		College:          application.College,
		Contact:          application.Contact,
		Email:            application.Email,
		WorkType:         string(application.WorkType),
		ProjectIDs:       append([]string{}, application.ProjectIDs...),
		ProjectInterests: append([]string{}, application.ProjectInterests...),
		CreatedAt:        createdAt,
	}
	if _, err := r.applications.InsertOne(ctx, doc); err != nil {
		return "", err
	}
	application.ID = doc.ID.Hex()
	application.CreatedAt = createdAt
	return application.ID, nil
}
