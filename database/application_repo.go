package database

import (
	"context"
	"time"

	"github.com/rpupo63/intern-hub-backend/models"
	"gorm.io/gorm"
)

type ApplicationRepo struct {
	db *gorm.DB
}

func NewApplicationRepo(db *gorm.DB) *ApplicationRepo {
	return &ApplicationRepo{db}
}

// FindAll returns all applications ordered by applicant name
func (r *ApplicationRepo) FindAll(ctx context.Context) ([]*models.Application, error) {
	var applications []*models.Application
	err := r.db.WithContext(ctx).Order("name asc").Find(&applications).Error
	return applications, err
}

// Add inserts a new application and returns its generated id
func (r *ApplicationRepo) Add(ctx context.Context, application *models.Application) (string, error) {
	application.ID = ""
	if application.CreatedAt.IsZero() {
		application.CreatedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(application).Error; err != nil {
		return "", err
	}
	return application.ID, nil
}
