package database

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rpupo63/intern-hub-backend/errs"
	"github.com/rpupo63/intern-hub-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// projectAllocationLockKey identifies the advisory lock serializing code
// allocation across server instances sharing one PostgreSQL database.
const projectAllocationLockKey = 7_310_042

type ProjectRepo struct {
	db *gorm.DB

	// allocMu serializes allocation within this process; the advisory lock
	// covers other processes.
	allocMu sync.Mutex
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

// FindAll returns all projects ordered by display order
func (r *ProjectRepo) FindAll(ctx context.Context) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.WithContext(ctx).Order("display_order asc").Order("code asc").Find(&projects).Error
	return projects, err
}

// FindByID returns a project by its ID
func (r *ProjectRepo) FindByID(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("project")
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Add inserts a new project, allocating its code and order in the same transaction
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	r.allocMu.Lock()
	defer r.allocMu.Unlock()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockAllocation(tx); err != nil {
			return err
		}

		var codes []string
		if err := tx.Model(&models.Project{}).Pluck("code", &codes).Error; err != nil {
			return fmt.Errorf("read project codes: %w", err)
		}
		var orders []int
		if err := tx.Model(&models.Project{}).Pluck("display_order", &orders).Error; err != nil {
			return fmt.Errorf("read project orders: %w", err)
		}
		highWater, err := readSequence(tx, models.ProjectCodeSequence)
		if err != nil {
			return err
		}

		code, number := models.NextProjectCode(codes, highWater)
		project.ID = ""
		project.Code = code
		project.Order = models.NextOrder(orders)

		if err := tx.Create(project).Error; err != nil {
			return err
		}
		return writeSequence(tx, models.ProjectCodeSequence, number)
	})
}

// Update applies a partial content update to an existing project
func (r *ProjectRepo) Update(ctx context.Context, id string, patch models.ProjectPatch) error {
	columns := patch.Columns()
	if len(columns) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", id).Updates(columns).Error
}

// Reorder rewrites the display order of several projects at once. The batch
// is rolled back if an id is unknown or if two projects would end up sharing
// an order value.
func (r *ProjectRepo) Reorder(ctx context.Context, moves []models.OrderUpdate) error {
	r.allocMu.Lock()
	defer r.allocMu.Unlock()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockAllocation(tx); err != nil {
			return err
		}

		for _, move := range moves {
			result := tx.Model(&models.Project{}).Where("id = ?", move.ID).Update("display_order", move.Order)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return errs.NewBatchAbortedError("reorder", fmt.Sprintf("project %s not found", move.ID))
			}
		}

		var orders []int
		if err := tx.Model(&models.Project{}).Pluck("display_order", &orders).Error; err != nil {
			return fmt.Errorf("read project orders: %w", err)
		}
		if order, dup := models.DuplicateOrder(orders); dup {
			return errs.NewBatchAbortedError("reorder", fmt.Sprintf("order %d would be shared by more than one project", order))
		}
		return nil
	})
}

// Delete removes a project from the database by id
func (r *ProjectRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Project{}).Error
}

// Seed writes the initial projects if no project was ever stored
func (r *ProjectRepo) Seed(ctx context.Context, projects []*models.Project) (bool, error) {
	r.allocMu.Lock()
	defer r.allocMu.Unlock()

	seeded := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockAllocation(tx); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Project{}).Count(&count).Error; err != nil {
			return err
		}
		highWater, err := readSequence(tx, models.ProjectCodeSequence)
		if err != nil {
			return err
		}
		if count > 0 || highWater > 0 || len(projects) == 0 {
			return nil
		}

		if err := tx.CreateInBatches(projects, 100).Error; err != nil {
			return err
		}
		if err := writeSequence(tx, models.ProjectCodeSequence, len(projects)); err != nil {
			return err
		}
		seeded = true
		return nil
	})
	return seeded, err
}

func lockAllocation(tx *gorm.DB) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", projectAllocationLockKey).Error; err != nil {
		return fmt.Errorf("acquire allocation lock: %w", err)
	}
	return nil
}

func readSequence(tx *gorm.DB, name string) (int, error) {
	var seq models.Sequence
	result := tx.Where("name = ?", name).Limit(1).Find(&seq)
	if result.Error != nil {
		return 0, fmt.Errorf("read sequence %s: %w", name, result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, nil
	}
	return seq.Value, nil
}

func writeSequence(tx *gorm.DB, name string, value int) error {
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&models.Sequence{Name: name, Value: value}).Error
	if err != nil {
		return fmt.Errorf("write sequence %s: %w", name, err)
	}
	return nil
}
