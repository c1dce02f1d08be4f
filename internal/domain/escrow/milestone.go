package escrow

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/worklane/backend/internal/domain/shared"
)

// PlatformFeeRate is the surcharge added to every escrow deposit, charged to
// the client on top of the milestone amount. The payout to the freelancer is
// always the nominal amount; the difference is the platform's retained margin.
var PlatformFeeRate = decimal.NewFromFloat(0.10)

// MilestoneStatus represents the escrow state of a milestone
type MilestoneStatus string

const (
	MilestoneStatusPending MilestoneStatus = "pending"
	MilestoneStatusFunded  MilestoneStatus = "funded"
	MilestoneStatusPaid    MilestoneStatus = "paid"
)

// IsValid checks if the status is a valid MilestoneStatus
func (s MilestoneStatus) IsValid() bool {
	switch s {
	case MilestoneStatusPending, MilestoneStatusFunded, MilestoneStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of MilestoneStatus
func (s MilestoneStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// The milestone lifecycle is strictly monotonic: pending -> funded -> paid.
func (s MilestoneStatus) CanTransitionTo(target MilestoneStatus) bool {
	switch s {
	case MilestoneStatusPending:
		return target == MilestoneStatusFunded
	case MilestoneStatusFunded:
		return target == MilestoneStatusPaid
	case MilestoneStatusPaid:
		return false // Terminal state
	}
	return false
}

// Milestone represents a priced unit of project work whose payment lifecycle
// is tracked independently of the project's own status.
type Milestone struct {
	shared.BaseEntity
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index"`
	Title     string
	Amount    decimal.Decimal
	Status    MilestoneStatus
	DueDate   *time.Time
}

// NewMilestone creates a new pending milestone
func NewMilestone(projectID uuid.UUID, title string, amount decimal.Decimal, dueDate *time.Time) (*Milestone, error) {
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Project ID cannot be empty")
	}
	if title == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Title cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Amount must be positive")
	}

	return &Milestone{
		BaseEntity: shared.NewBaseEntity(),
		ProjectID:  projectID,
		Title:      title,
		Amount:     amount,
		Status:     MilestoneStatusPending,
		DueDate:    dueDate,
	}, nil
}

// DepositAmount returns the amount a client deposits when funding the
// milestone: the nominal amount plus the platform fee, rounded to cents.
func (m *Milestone) DepositAmount() decimal.Decimal {
	return m.Amount.Add(m.Amount.Mul(PlatformFeeRate)).Round(2)
}

// PayoutAmount returns the amount released to the freelancer: the nominal
// amount exactly. The fee is retained, never re-charged or re-paid.
func (m *Milestone) PayoutAmount() decimal.Decimal {
	return m.Amount.Round(2)
}

// IsFunded reports whether the milestone holds escrowed funds
func (m *Milestone) IsFunded() bool {
	return m.Status == MilestoneStatusFunded
}

// transitionTo moves the milestone along its lifecycle. The repository is
// responsible for making the same check conditionally at the database, so
// concurrent callers cannot both pass.
func (m *Milestone) transitionTo(target MilestoneStatus) error {
	if !m.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot move milestone from %s to %s", m.Status, target))
	}
	m.Status = target
	m.UpdatedAt = time.Now()
	return nil
}

// Fund marks the milestone funded (pending -> funded)
func (m *Milestone) Fund() error {
	return m.transitionTo(MilestoneStatusFunded)
}

// Release marks the milestone paid (funded -> paid)
func (m *Milestone) Release() error {
	return m.transitionTo(MilestoneStatusPaid)
}
