package marketplace

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/worklane/backend/internal/application/access"
	appnotification "github.com/worklane/backend/internal/application/notification"
	"github.com/worklane/backend/internal/domain/identity"
	"github.com/worklane/backend/internal/domain/marketplace"
	"github.com/worklane/backend/internal/domain/notification"
	"github.com/worklane/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProposalService handles proposal submission and decisions
type ProposalService struct {
	proposalRepo marketplace.ProposalRepository
	projectRepo  marketplace.ProjectRepository
	dispatcher   *appnotification.Dispatcher
	guard        *access.Guard
	logger       *zap.Logger
}

// NewProposalService creates a new proposal service
func NewProposalService(
	proposalRepo marketplace.ProposalRepository,
	projectRepo marketplace.ProjectRepository,
	dispatcher *appnotification.Dispatcher,
	guard *access.Guard,
	logger *zap.Logger,
) *ProposalService {
	return &ProposalService{
		proposalRepo: proposalRepo,
		projectRepo:  projectRepo,
		dispatcher:   dispatcher,
		guard:        guard,
		logger:       logger,
	}
}

// SubmitProposal records a freelancer's bid on an open project and notifies
// the project owner
func (s *ProposalService) SubmitProposal(ctx context.Context, principal identity.Principal, projectID uuid.UUID, req SubmitProposalRequest) (*ProposalResponse, error) {
	if err := s.guard.RequireRole(principal, identity.RoleFreelancer); err != nil {
		return nil, err
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid price")
	}

	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !project.IsOpen() {
		return nil, shared.NewDomainError("INVALID_STATE", "Project is no longer accepting proposals")
	}

	proposal, err := marketplace.NewProposal(projectID, principal.UserID, price, req.CoverLetter)
	if err != nil {
		return nil, err
	}

	if err := s.proposalRepo.Create(ctx, proposal); err != nil {
		return nil, err
	}

	s.logger.Info("proposal submitted",
		zap.String("proposal_id", proposal.ID.String()),
		zap.String("project_id", projectID.String()),
		zap.String("freelancer_id", principal.UserID.String()),
	)

	s.dispatcher.Dispatch(appnotification.Message{
		UserID:  project.ClientID,
		Type:    notification.TypeProposalNew,
		Title:   "New proposal received",
		Content: fmt.Sprintf("A freelancer submitted a proposal on %q", project.Title),
		Link:    "/projects/" + project.ID.String() + "/proposals",
	})

	resp := toProposalResponse(proposal)
	return &resp, nil
}

// ListByProject returns all proposals for a project. Only the owner may read
// its proposal list.
func (s *ProposalService) ListByProject(ctx context.Context, principal identity.Principal, projectID uuid.UUID) ([]ProposalResponse, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if err := s.guard.RequireOwnership(principal, func(p identity.Principal) bool {
		return project.IsOwnedBy(p.UserID)
	}); err != nil {
		return nil, err
	}

	proposals, err := s.proposalRepo.FindByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	responses := make([]ProposalResponse, len(proposals))
	for i, p := range proposals {
		responses[i] = toProposalResponse(&p)
	}
	return responses, nil
}

// Decide records the owning client's decision on a pending proposal. Accepting
// assigns the project to the proposing freelancer in the same database
// transaction; a concurrent second decision on the same proposal loses with
// INVALID_STATE. Sibling proposals on the project stay pending even after an
// acceptance; the client dispositions them individually.
func (s *ProposalService) Decide(ctx context.Context, principal identity.Principal, proposalID uuid.UUID, req DecideProposalRequest) (*ProposalResponse, error) {
	status := marketplace.ProposalStatus(req.Status)

	proposal, err := s.proposalRepo.FindByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}

	project, err := s.projectRepo.FindByID(ctx, proposal.ProjectID)
	if err != nil {
		return nil, err
	}

	if err := s.guard.RequireOwnership(principal, func(p identity.Principal) bool {
		return project.IsOwnedBy(p.UserID)
	}); err != nil {
		return nil, err
	}

	if err := proposal.Decide(status); err != nil {
		return nil, err
	}

	var assign *marketplace.Project
	if status == marketplace.ProposalStatusAccepted {
		if err := project.Assign(proposal.FreelancerID); err != nil {
			return nil, err
		}
		assign = project
	}

	if err := s.proposalRepo.DecideAndAssign(ctx, proposal, assign); err != nil {
		return nil, err
	}

	s.logger.Info("proposal decided",
		zap.String("proposal_id", proposal.ID.String()),
		zap.String("status", status.String()),
	)

	s.notifyDecision(proposal, project, status)

	resp := toProposalResponse(proposal)
	return &resp, nil
}

func (s *ProposalService) notifyDecision(proposal *marketplace.Proposal, project *marketplace.Project, status marketplace.ProposalStatus) {
	notifType := notification.TypeProposalRejected
	title := "Proposal not selected"
	content := fmt.Sprintf("Your proposal on %q was not selected", project.Title)
	if status == marketplace.ProposalStatusAccepted {
		notifType = notification.TypeProposalAccepted
		title = "Proposal accepted"
		content = fmt.Sprintf("Your proposal on %q was accepted", project.Title)
	}

	s.dispatcher.Dispatch(appnotification.Message{
		UserID:  proposal.FreelancerID,
		Type:    notifType,
		Title:   title,
		Content: content,
		Link:    "/projects/" + project.ID.String(),
	})
}
