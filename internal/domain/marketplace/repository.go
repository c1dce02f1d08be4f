package marketplace

import (
	"context"

	"github.com/google/uuid"
)

// ProjectRepository defines the interface for project persistence
type ProjectRepository interface {
	// FindByID finds a project by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Project, error)

	// FindByClient finds all projects owned by a client, newest first
	FindByClient(ctx context.Context, clientID uuid.UUID) ([]Project, error)

	// FindByAssignee finds all projects assigned to a freelancer, most recently updated first
	FindByAssignee(ctx context.Context, freelancerID uuid.UUID) ([]Project, error)

	// FindOpen finds all open projects, newest first
	FindOpen(ctx context.Context) ([]Project, error)

	// Create persists a new project
	Create(ctx context.Context, project *Project) error

	// Update persists changes to an existing project
	Update(ctx context.Context, project *Project) error
}

// ProposalRepository defines the interface for proposal persistence
type ProposalRepository interface {
	// FindByID finds a proposal by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Proposal, error)

	// FindByProject finds all proposals for a project, newest first
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]Proposal, error)

	// CountByProject counts proposals for a project
	CountByProject(ctx context.Context, projectID uuid.UUID) (int64, error)

	// Create persists a new proposal
	Create(ctx context.Context, proposal *Proposal) error

	// DecideAndAssign atomically records a decision on a pending proposal and,
	// when the decision is an acceptance, assigns the project in the same
	// database transaction. The proposal row is updated with a conditional
	// "status = pending" guard so concurrent decisions resolve to exactly one
	// winner; the loser receives shared.ErrInvalidState.
	DecideAndAssign(ctx context.Context, proposal *Proposal, project *Project) error
}
