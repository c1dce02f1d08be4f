package marketplace

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/worklane/backend/internal/domain/shared"
)

// ProjectStatus represents the status of a project
type ProjectStatus string

const (
	ProjectStatusOpen       ProjectStatus = "open"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
)

// IsValid checks if the status is a valid ProjectStatus
func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusOpen, ProjectStatusInProgress, ProjectStatusCompleted:
		return true
	}
	return false
}

// String returns the string representation of ProjectStatus
func (s ProjectStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s ProjectStatus) CanTransitionTo(target ProjectStatus) bool {
	switch s {
	case ProjectStatusOpen:
		return target == ProjectStatusInProgress
	case ProjectStatusInProgress:
		return target == ProjectStatusCompleted
	case ProjectStatusCompleted:
		return false // Terminal state
	}
	return false
}

// Project represents a client's posted engagement. It is created open,
// becomes in_progress when a proposal is accepted, and completed when all
// work is delivered.
type Project struct {
	shared.BaseEntity
	ClientID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Title      string
	Service    string
	Budget     string
	Deadline   string
	Details    string
	Status     ProjectStatus
	AssignedTo *uuid.UUID `gorm:"type:uuid;index"` // Freelancer working the project, nil until a proposal is accepted
}

// NewProject creates a new open project owned by the given client
func NewProject(clientID uuid.UUID, title, service, budget, deadline, details string) (*Project, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Client ID cannot be empty")
	}
	if title == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Title cannot be empty")
	}
	if service == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Service cannot be empty")
	}
	if budget == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Budget cannot be empty")
	}
	if deadline == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Deadline cannot be empty")
	}

	return &Project{
		BaseEntity: shared.NewBaseEntity(),
		ClientID:   clientID,
		Title:      title,
		Service:    service,
		Budget:     budget,
		Deadline:   deadline,
		Details:    details,
		Status:     ProjectStatusOpen,
	}, nil
}

// IsOwnedBy reports whether the given user owns the project
func (p *Project) IsOwnedBy(userID uuid.UUID) bool {
	return p.ClientID == userID
}

// IsAssignedTo reports whether the given freelancer is assigned to the project
func (p *Project) IsAssignedTo(userID uuid.UUID) bool {
	return p.AssignedTo != nil && *p.AssignedTo == userID
}

// IsOpen reports whether the project still accepts proposals
func (p *Project) IsOpen() bool {
	return p.Status == ProjectStatusOpen
}

// Assign assigns the project to a freelancer, transitioning open -> in_progress.
// Called when the owning client accepts a proposal.
func (p *Project) Assign(freelancerID uuid.UUID) error {
	if freelancerID == uuid.Nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Freelancer ID cannot be empty")
	}
	if !p.Status.CanTransitionTo(ProjectStatusInProgress) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot assign project in %s status", p.Status))
	}

	p.Status = ProjectStatusInProgress
	p.AssignedTo = &freelancerID
	p.UpdatedAt = time.Now()

	return nil
}

// UpdateDetails updates the editable project fields. Allowed in any status;
// the owner remains responsible for not changing scope mid-engagement.
func (p *Project) UpdateDetails(title, service, budget, deadline, details string) error {
	if title == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Title cannot be empty")
	}

	p.Title = title
	p.Service = service
	p.Budget = budget
	p.Deadline = deadline
	p.Details = details
	p.UpdatedAt = time.Now()

	return nil
}
