// Package mongodb stores projects and applications in MongoDB. Add, Reorder
// and Seed run inside multi-document transactions, so the server must be a
// replica set member.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	projectsCollection     = "projects"
	applicationsCollection = "applications"
	countersCollection     = "counters"
)

// Connect opens a client for uri and verifies it with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the unique code index and the sort indexes.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	projectIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_projects_code"),
		},
		{
			Keys:    bson.D{{Key: "order", Value: 1}},
			Options: options.Index().SetName("idx_projects_order"),
		},
	}
	if _, err := db.Collection(projectsCollection).Indexes().CreateMany(ctx, projectIndexes); err != nil {
		return fmt.Errorf("failed to create project indexes: %w", err)
	}

	nameIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetName("idx_applications_name"),
	}
	if _, err := db.Collection(applicationsCollection).Indexes().CreateOne(ctx, nameIndex); err != nil {
		return fmt.Errorf("failed to create application name index: %w", err)
	}
	return nil
}
