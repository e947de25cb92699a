package database

import (
	"gorm.io/gorm"
)

type Database struct {
	projectRepo     ProjectStore
	applicationRepo ApplicationStore
	catalog         *Catalog
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return NewWithStores(NewProjectRepo(db), NewApplicationRepo(db))
}

// NewWithStores builds a Database over any store implementation.
func NewWithStores(projects ProjectStore, applications ApplicationStore) Database {
	return Database{
		projectRepo:     projects,
		applicationRepo: applications,
		catalog:         NewCatalog(projects, applications),
	}
}

// Accessor methods for each repository

func (d Database) ProjectRepo() ProjectStore {
	return d.projectRepo
}

func (d Database) ApplicationRepo() ApplicationStore {
	return d.applicationRepo
}

// Catalog returns the read-tolerant view used by request handlers.
func (d Database) Catalog() *Catalog {
	return d.catalog
}
