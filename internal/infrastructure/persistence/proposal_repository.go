package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/worklane/backend/internal/domain/marketplace"
	"github.com/worklane/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProposalRepository implements ProposalRepository using GORM
type GormProposalRepository struct {
	db *gorm.DB
}

// NewGormProposalRepository creates a new GormProposalRepository
func NewGormProposalRepository(db *gorm.DB) *GormProposalRepository {
	return &GormProposalRepository{db: db}
}

// FindByID finds a proposal by ID
func (r *GormProposalRepository) FindByID(ctx context.Context, id uuid.UUID) (*marketplace.Proposal, error) {
	var proposal marketplace.Proposal
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&proposal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &proposal, nil
}

// FindByProject finds all proposals for a project, newest first
func (r *GormProposalRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]marketplace.Proposal, error) {
	var proposals []marketplace.Proposal
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&proposals).Error; err != nil {
		return nil, err
	}
	return proposals, nil
}

// CountByProject counts proposals for a project
func (r *GormProposalRepository) CountByProject(ctx context.Context, projectID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&marketplace.Proposal{}).
		Where("project_id = ?", projectID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create persists a new proposal
func (r *GormProposalRepository) Create(ctx context.Context, proposal *marketplace.Proposal) error {
	return r.db.WithContext(ctx).Create(proposal).Error
}

// DecideAndAssign records the decision with a conditional update so only one
// of any set of concurrent decisions lands, and assigns the project in the
// same transaction when the decision is an acceptance.
func (r *GormProposalRepository) DecideAndAssign(ctx context.Context, proposal *marketplace.Proposal, project *marketplace.Project) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&marketplace.Proposal{}).
			Where("id = ? AND status = ?", proposal.ID, marketplace.ProposalStatusPending).
			Updates(map[string]interface{}{
				"status":     proposal.Status,
				"updated_at": proposal.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrInvalidState
		}

		if project == nil {
			return nil
		}

		result = tx.Model(&marketplace.Project{}).
			Where("id = ? AND status = ?", project.ID, marketplace.ProjectStatusOpen).
			Updates(map[string]interface{}{
				"status":      project.Status,
				"assigned_to": project.AssignedTo,
				"updated_at":  project.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrInvalidState
		}
		return nil
	})
}

// Ensure GormProposalRepository implements ProposalRepository
var _ marketplace.ProposalRepository = (*GormProposalRepository)(nil)
