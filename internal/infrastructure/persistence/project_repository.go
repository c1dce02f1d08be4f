package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/worklane/backend/internal/domain/marketplace"
	"github.com/worklane/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProjectRepository implements ProjectRepository using GORM
type GormProjectRepository struct {
	db *gorm.DB
}

// NewGormProjectRepository creates a new GormProjectRepository
func NewGormProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

// FindByID finds a project by ID
func (r *GormProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*marketplace.Project, error) {
	var project marketplace.Project
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

// FindByClient finds all projects owned by a client, newest first
func (r *GormProjectRepository) FindByClient(ctx context.Context, clientID uuid.UUID) ([]marketplace.Project, error) {
	var projects []marketplace.Project
	if err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// FindByAssignee finds all projects assigned to a freelancer, most recently updated first
func (r *GormProjectRepository) FindByAssignee(ctx context.Context, freelancerID uuid.UUID) ([]marketplace.Project, error) {
	var projects []marketplace.Project
	if err := r.db.WithContext(ctx).
		Where("assigned_to = ?", freelancerID).
		Order("updated_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// FindOpen finds all open projects, newest first
func (r *GormProjectRepository) FindOpen(ctx context.Context) ([]marketplace.Project, error) {
	var projects []marketplace.Project
	if err := r.db.WithContext(ctx).
		Where("status = ?", marketplace.ProjectStatusOpen).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Create persists a new project
func (r *GormProjectRepository) Create(ctx context.Context, project *marketplace.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// Update persists changes to an existing project
func (r *GormProjectRepository) Update(ctx context.Context, project *marketplace.Project) error {
	result := r.db.WithContext(ctx).Save(project)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormProjectRepository implements ProjectRepository
var _ marketplace.ProjectRepository = (*GormProjectRepository)(nil)
