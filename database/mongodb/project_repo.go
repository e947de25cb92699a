package mongodb

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rpupo63/intern-hub-backend/errs"
	"github.com/rpupo63/intern-hub-backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type projectDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Code          string             `bson:"code"`
	Title         string             `bson:"title"`
	Objective     string             `bson:"objective"`
	Deliverables  []string           `bson:"deliverables"`
	Tools         []string           `bson:"tools"`
	LongTermScope string             `bson:"longTermScope"`
	ImageURL      string             `bson:"imageUrl"`
	ImageHint     string             `bson:"imageHint"`
	Order         int                `bson:"order"`
}

func newProjectDocument(p *models.Project) projectDocument {
	return projectDocument{
		Code:          p.Code,
		Title:         p.Title,
		Objective:     p.Objective,
		Deliverables:  append([]string{}, p.Deliverables...),
		Tools:         append([]string{}, p.Tools...),
		LongTermScope: p.LongTermScope,
		ImageURL:      p.ImageURL,
		ImageHint:     p.ImageHint,
		Order:         p.Order,
	}
}

func (d projectDocument) model() *models.Project {
	return &models.Project{
		ID:            d.ID.Hex(),
		Code:          d.Code,
		Title:         d.Title,
		Objective:     d.Objective,
		Deliverables:  d.Deliverables,
		Tools:         d.Tools,
		LongTermScope: d.LongTermScope,
		ImageURL:      d.ImageURL,
		ImageHint:     d.ImageHint,
		Order:         d.Order,
	}
}

type counterDocument struct {
	Name  string `bson:"_id"`
	Value int    `bson:"value"`
}

type ProjectRepo struct {
	client   *mongo.Client
	projects *mongo.Collection
	counters *mongo.Collection

	allocMu sync.Mutex
}

func NewProjectRepo(client *mongo.Client, db *mongo.Database) *ProjectRepo {
	return &ProjectRepo{
		client:   client,
		projects: db.Collection(projectsCollection),
		counters: db.Collection(countersCollection),
	}
}

// FindAll returns all projects ordered by display order
func (r *ProjectRepo) FindAll(ctx context.Context) ([]*models.Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "code", Value: 1}})
	cursor, err := r.projects.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []projectDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	projects := make([]*models.Project, 0, len(docs))
	for _, doc := range docs {
		projects = append(projects, doc.model())
	}
	return projects, nil
}

func (r *ProjectRepo) FindByID(ctx context.Context, id string) (*models.Project, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errs.NewNotFound("project")
	}
	var doc projectDocument
	err = r.projects.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.NewNotFound("project")
	}
	if err != nil {
		return nil, err
	}
	return doc.model(), nil
}

// Add allocates code and order and inserts the project in one transaction.
// Concurrent transactions conflict on the counter document and are retried by
// the driver.
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	r.allocMu.Lock()
	defer r.allocMu.Unlock()

	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		codes, orders, err := r.allocationState(sc)
		if err != nil {
			return nil, err
		}
		highWater, err := r.readCounter(sc, models.ProjectCodeSequence)
		if err != nil {
			return nil, err
		}

		code, number := models.NextProjectCode(codes, highWater)
		doc := newProjectDocument(project)
		doc.ID = primitive.NewObjectID()
		doc.Code = code
		doc.Order = models.NextOrder(orders)

		if _, err := r.projects.InsertOne(sc, doc); err != nil {
			return nil, err
		}
		if err := r.writeCounter(sc, models.ProjectCodeSequence, number); err != nil {
			return nil, err
		}

		project.ID = doc.ID.Hex()
		project.Code = doc.Code
		project.Order = doc.Order
		return nil, nil
	})
	return err
}

func (r *ProjectRepo) Update(ctx context.Context, id string, patch models.ProjectPatch) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	set := patchFields(patch)
	if len(set) == 0 {
		return nil
	}
	_, err = r.projects.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": set})
	return err
}

// patchFields maps a patch to a $set document.
func patchFields(patch models.ProjectPatch) bson.M {
	set := bson.M{}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Objective != nil {
		set["objective"] = *patch.Objective
	}
	if patch.Deliverables != nil {
		set["deliverables"] = *patch.Deliverables
	}
	if patch.Tools != nil {
		set["tools"] = *patch.Tools
	}
	if patch.LongTermScope != nil {
		set["longTermScope"] = *patch.LongTermScope
	}
	if patch.ImageURL != nil {
		set["imageUrl"] = *patch.ImageURL
	}
	if patch.ImageHint != nil {
		set["imageHint"] = *patch.ImageHint
	}
	return set
}

// Reorder sets every listed order inside one transaction. An unknown id, or
// two projects ending up with the same order, aborts the transaction.
func (r *ProjectRepo) Reorder(ctx context.Context, moves []models.OrderUpdate) error {
	r.allocMu.Lock()
	defer r.allocMu.Unlock()

	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		// Writing the counter document makes a concurrent Add conflict with this transaction.
		_, err := r.counters.UpdateOne(sc,
			bson.M{"_id": models.ProjectCodeSequence},
			bson.M{"$inc": bson.M{"reorders": 1}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return nil, fmt.Errorf("touch counter %s: %w", models.ProjectCodeSequence, err)
		}

		for _, move := range moves {
			objectID, err := primitive.ObjectIDFromHex(move.ID)
			if err != nil {
				return nil, errs.NewBatchAbortedError("reorder", fmt.Sprintf("project %s not found", move.ID))
			}
			result, err := r.projects.UpdateOne(sc, bson.M{"_id": objectID}, bson.M{"$set": bson.M{"order": move.Order}})
			if err != nil {
				return nil, err
			}
			if result.MatchedCount == 0 {
				return nil, errs.NewBatchAbortedError("reorder", fmt.Sprintf("project %s not found", move.ID))
			}
		}

		_, orders, err := r.allocationState(sc)
		if err != nil {
			return nil, err
		}
		if order, dup := models.DuplicateOrder(orders); dup {
			return nil, errs.NewBatchAbortedError("reorder", fmt.Sprintf("order %d would be shared by more than one project", order))
		}
		return nil, nil
	})
	return err
}

func (r *ProjectRepo) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	_, err = r.projects.DeleteOne(ctx, bson.M{"_id": objectID})
	return err
}

// Seed inserts projects if the collection is empty and no code was ever allocated.
func (r *ProjectRepo) Seed(ctx context.Context, projects []*models.Project) (bool, error) {
	if len(projects) == 0 {
		return false, nil
	}
	r.allocMu.Lock()
	defer r.allocMu.Unlock()

	session, err := r.client.StartSession()
	if err != nil {
		return false, fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	seeded, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		count, err := r.projects.CountDocuments(sc, bson.M{})
		if err != nil {
			return false, err
		}
		highWater, err := r.readCounter(sc, models.ProjectCodeSequence)
		if err != nil {
			return false, err
		}
		if count > 0 || highWater > 0 {
			return false, nil
		}

		docs := make([]interface{}, 0, len(projects))
		for _, project := range projects {
			doc := newProjectDocument(project)
			doc.ID = primitive.NewObjectID()
			docs = append(docs, doc)
		}
		if _, err := r.projects.InsertMany(sc, docs); err != nil {
			return false, err
		}
		if err := r.writeCounter(sc, models.ProjectCodeSequence, len(projects)); err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		return false, err
	}
	done, _ := seeded.(bool)
	return done, nil
}

func (r *ProjectRepo) allocationState(ctx context.Context) ([]string, []int, error) {
	opts := options.Find().SetProjection(bson.M{"code": 1, "order": 1})
	cursor, err := r.projects.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("read project codes: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []projectDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, nil, fmt.Errorf("read project codes: %w", err)
	}
	codes := make([]string, 0, len(docs))
	orders := make([]int, 0, len(docs))
	for _, doc := range docs {
		codes = append(codes, doc.Code)
		orders = append(orders, doc.Order)
	}
	return codes, orders, nil
}

func (r *ProjectRepo) readCounter(ctx context.Context, name string) (int, error) {
	var counter counterDocument
	err := r.counters.FindOne(ctx, bson.M{"_id": name}).Decode(&counter)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read counter %s: %w", name, err)
	}
	return counter.Value, nil
}

func (r *ProjectRepo) writeCounter(ctx context.Context, name string, value int) error {
	_, err := r.counters.UpdateOne(ctx,
		bson.M{"_id": name},
		bson.M{"$set": bson.M{"value": value}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("write counter %s: %w", name, err)
	}
	return nil
}
