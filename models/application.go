package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WorkType is how an applicant intends to work on a project.
type WorkType string

const (
	WorkTypeTeam       WorkType = "Team"
	WorkTypeIndividual WorkType = "Individual"
)

// Valid reports whether w is one of the known work types.
func (w WorkType) Valid() bool {
	return w == WorkTypeTeam || w == WorkTypeIndividual
}

// Application is an applicant's expression of interest. It is never updated
// after creation.
type Application struct {
	ID               string                      `json:"id" gorm:"column:id;type:text;primaryKey"`
	Name             string                      `json:"name" gorm:"column:name;type:text;not null;index:idx_applications_name"`
	Location         string                      `json:"location" gorm:"column:location;type:text;not null"`
	Specialization   string                      `json:"specialization" gorm:"column:specialization;type:text;not null"`
	Skills           string                      `json:"skills" gorm:"column:skills;type:text;not null"`
	GradYear         string                      `json:"gradYear" gorm:"column:grad_year;type:text;not null"`
	College          string                      `json:"college" gorm:"column:college;type:text;not null"`
	Contact          string                      `json:"contact" gorm:"column:contact;type:text;not null"`
	Email            string                      `json:"email" gorm:"column:email;type:text;not null"`
	WorkType         WorkType                    `json:"workType" gorm:"column:work_type;type:text;not null"`
	ProjectIDs       datatypes.JSONSlice[string] `json:"projectIds" gorm:"column:project_ids"`
	ProjectInterests datatypes.JSONSlice[string] `json:"projectInterests" gorm:"column:project_interests"`
	CreatedAt        time.Time                   `json:"createdAt" gorm:"column:created_at;not null"`
}

func (Application) TableName() string {
	return "applications"
}

// BeforeCreate assigns an opaque identifier when the caller left it empty.
func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
