package marketplace

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/worklane/backend/internal/domain/shared"
)

// ProposalStatus represents the status of a proposal
type ProposalStatus string

const (
	ProposalStatusPending  ProposalStatus = "pending"
	ProposalStatusAccepted ProposalStatus = "accepted"
	ProposalStatusRejected ProposalStatus = "rejected"
)

// IsValid checks if the status is a valid ProposalStatus
func (s ProposalStatus) IsValid() bool {
	switch s {
	case ProposalStatusPending, ProposalStatusAccepted, ProposalStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of ProposalStatus
func (s ProposalStatus) String() string {
	return string(s)
}

// IsDecision reports whether the status is a terminal client decision
func (s ProposalStatus) IsDecision() bool {
	return s == ProposalStatusAccepted || s == ProposalStatusRejected
}

// Proposal represents a freelancer's bid on an open project. It is decided
// exactly once by the project owner and immutable afterward.
type Proposal struct {
	shared.BaseEntity
	ProjectID    uuid.UUID `gorm:"type:uuid;not null;index"`
	FreelancerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Price        decimal.Decimal
	CoverLetter  string
	Status       ProposalStatus
}

// NewProposal creates a new pending proposal
func NewProposal(projectID, freelancerID uuid.UUID, price decimal.Decimal, coverLetter string) (*Proposal, error) {
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Project ID cannot be empty")
	}
	if freelancerID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Freelancer ID cannot be empty")
	}
	if price.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Price must be positive")
	}
	if coverLetter == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Cover letter cannot be empty")
	}

	return &Proposal{
		BaseEntity:   shared.NewBaseEntity(),
		ProjectID:    projectID,
		FreelancerID: freelancerID,
		Price:        price,
		CoverLetter:  coverLetter,
		Status:       ProposalStatusPending,
	}, nil
}

// Decide marks the proposal accepted or rejected. Only pending proposals
// can be decided, and only once.
func (p *Proposal) Decide(status ProposalStatus) error {
	if !status.IsDecision() {
		return shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("%s is not a proposal decision", status))
	}
	if p.Status != ProposalStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Proposal already %s", p.Status))
	}

	p.Status = status
	p.UpdatedAt = time.Now()

	return nil
}

// IsPending reports whether the proposal is still awaiting a decision
func (p *Proposal) IsPending() bool {
	return p.Status == ProposalStatusPending
}
