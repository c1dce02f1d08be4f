package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/worklane/backend/internal/domain/escrow"
	"github.com/worklane/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormMilestoneRepository implements MilestoneRepository using GORM
type GormMilestoneRepository struct {
	db *gorm.DB
}

// NewGormMilestoneRepository creates a new GormMilestoneRepository
func NewGormMilestoneRepository(db *gorm.DB) *GormMilestoneRepository {
	return &GormMilestoneRepository{db: db}
}

// FindByID finds a milestone by ID
func (r *GormMilestoneRepository) FindByID(ctx context.Context, id uuid.UUID) (*escrow.Milestone, error) {
	var milestone escrow.Milestone
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&milestone).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &milestone, nil
}

// FindByProject finds all milestones for a project, oldest first
func (r *GormMilestoneRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]escrow.Milestone, error) {
	var milestones []escrow.Milestone
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&milestones).Error; err != nil {
		return nil, err
	}
	return milestones, nil
}

// Create persists a new milestone
func (r *GormMilestoneRepository) Create(ctx context.Context, milestone *escrow.Milestone) error {
	return r.db.WithContext(ctx).Create(milestone).Error
}

// FundWithDeposit commits the pending -> funded transition and the deposit
// ledger entry atomically
func (r *GormMilestoneRepository) FundWithDeposit(ctx context.Context, milestone *escrow.Milestone, deposit *escrow.Transaction) error {
	return r.transition(ctx, milestone, escrow.MilestoneStatusPending, deposit)
}

// ReleaseWithPayout commits the funded -> paid transition and, when payout is
// non-nil, the payout ledger entry atomically
func (r *GormMilestoneRepository) ReleaseWithPayout(ctx context.Context, milestone *escrow.Milestone, payout *escrow.Transaction) error {
	return r.transition(ctx, milestone, escrow.MilestoneStatusFunded, payout)
}

// transition performs the compare-and-swap status update. The WHERE clause
// pins the expected prior status; zero rows affected means another caller
// already moved the milestone and the whole transaction rolls back.
func (r *GormMilestoneRepository) transition(ctx context.Context, milestone *escrow.Milestone, from escrow.MilestoneStatus, ledgerEntry *escrow.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&escrow.Milestone{}).
			Where("id = ? AND status = ?", milestone.ID, from).
			Updates(map[string]interface{}{
				"status":     milestone.Status,
				"updated_at": milestone.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrInvalidState
		}

		if ledgerEntry == nil {
			return nil
		}
		return tx.Create(ledgerEntry).Error
	})
}

// Ensure GormMilestoneRepository implements MilestoneRepository
var _ escrow.MilestoneRepository = (*GormMilestoneRepository)(nil)
