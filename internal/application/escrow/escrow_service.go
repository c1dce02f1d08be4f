package escrow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/worklane/backend/internal/application/access"
	appnotification "github.com/worklane/backend/internal/application/notification"
	"github.com/worklane/backend/internal/domain/escrow"
	"github.com/worklane/backend/internal/domain/identity"
	"github.com/worklane/backend/internal/domain/marketplace"
	"github.com/worklane/backend/internal/domain/notification"
	"github.com/worklane/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Service handles milestone escrow operations
type Service struct {
	milestoneRepo escrow.MilestoneRepository
	projectRepo   marketplace.ProjectRepository
	dispatcher    *appnotification.Dispatcher
	guard         *access.Guard
	logger        *zap.Logger
}

// NewService creates a new escrow service
func NewService(
	milestoneRepo escrow.MilestoneRepository,
	projectRepo marketplace.ProjectRepository,
	dispatcher *appnotification.Dispatcher,
	guard *access.Guard,
	logger *zap.Logger,
) *Service {
	return &Service{
		milestoneRepo: milestoneRepo,
		projectRepo:   projectRepo,
		dispatcher:    dispatcher,
		guard:         guard,
		logger:        logger,
	}
}

// CreateMilestone adds a pending milestone to a project the caller owns
func (s *Service) CreateMilestone(ctx context.Context, principal identity.Principal, projectID uuid.UUID, req CreateMilestoneRequest) (*MilestoneResponse, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if err := s.guard.RequireOwnership(principal, func(p identity.Principal) bool {
		return project.IsOwnedBy(p.UserID)
	}); err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid amount")
	}

	var dueDate *time.Time
	if req.DueDate != "" {
		parsed, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Due date must be YYYY-MM-DD")
		}
		dueDate = &parsed
	}

	milestone, err := escrow.NewMilestone(projectID, req.Title, amount, dueDate)
	if err != nil {
		return nil, err
	}

	if err := s.milestoneRepo.Create(ctx, milestone); err != nil {
		return nil, err
	}

	s.logger.Info("milestone created",
		zap.String("milestone_id", milestone.ID.String()),
		zap.String("project_id", projectID.String()),
	)

	resp := toMilestoneResponse(milestone)
	return &resp, nil
}

// FundMilestone moves a pending milestone into escrow. The owning client is
// charged the milestone amount plus the platform fee, recorded as a deposit
// ledger entry in the same database transaction as the status change. Exactly
// one of any set of concurrent fund attempts succeeds.
func (s *Service) FundMilestone(ctx context.Context, principal identity.Principal, milestoneID uuid.UUID) (*FundMilestoneResponse, error) {
	milestone, project, err := s.loadMilestoneAndProject(ctx, milestoneID)
	if err != nil {
		return nil, err
	}

	if err := s.guard.RequireOwnership(principal, func(p identity.Principal) bool {
		return project.IsOwnedBy(p.UserID)
	}); err != nil {
		return nil, err
	}

	if err := milestone.Fund(); err != nil {
		return nil, err
	}

	deposit, err := escrow.NewDeposit(principal.UserID, milestone.ID, milestone.DepositAmount())
	if err != nil {
		return nil, err
	}

	if err := s.milestoneRepo.FundWithDeposit(ctx, milestone, deposit); err != nil {
		return nil, err
	}

	s.logger.Info("milestone funded",
		zap.String("milestone_id", milestone.ID.String()),
		zap.String("charged", deposit.Amount.StringFixed(2)),
	)

	if project.AssignedTo != nil {
		s.dispatcher.Dispatch(appnotification.Message{
			UserID:  *project.AssignedTo,
			Type:    notification.TypeMilestoneFunded,
			Title:   "Milestone funded",
			Content: fmt.Sprintf("Milestone %q on %q is now in escrow", milestone.Title, project.Title),
			Link:    "/projects/" + project.ID.String(),
		})
	}

	return &FundMilestoneResponse{
		Milestone: toMilestoneResponse(milestone),
		Charged:   deposit.Amount.StringFixed(2),
	}, nil
}

// ReleaseMilestone pays out a funded milestone. The payout goes to the
// project's assigned freelancer for the nominal amount; the fee collected at
// funding time is retained. A project with no assignee still completes the
// transition, it just writes no payout entry.
func (s *Service) ReleaseMilestone(ctx context.Context, principal identity.Principal, milestoneID uuid.UUID) (*MilestoneResponse, error) {
	milestone, project, err := s.loadMilestoneAndProject(ctx, milestoneID)
	if err != nil {
		return nil, err
	}

	if err := s.guard.RequireOwnership(principal, func(p identity.Principal) bool {
		return project.IsOwnedBy(p.UserID)
	}); err != nil {
		return nil, err
	}

	if err := milestone.Release(); err != nil {
		return nil, err
	}

	var payout *escrow.Transaction
	if project.AssignedTo != nil {
		payout, err = escrow.NewPayout(*project.AssignedTo, milestone.ID, milestone.PayoutAmount())
		if err != nil {
			return nil, err
		}
	}

	if err := s.milestoneRepo.ReleaseWithPayout(ctx, milestone, payout); err != nil {
		return nil, err
	}

	s.logger.Info("milestone released",
		zap.String("milestone_id", milestone.ID.String()),
		zap.Bool("payout_written", payout != nil),
	)

	if project.AssignedTo != nil {
		s.dispatcher.Dispatch(appnotification.Message{
			UserID:  *project.AssignedTo,
			Type:    notification.TypeMilestonePaid,
			Title:   "Payment released",
			Content: fmt.Sprintf("Payment released for milestone %q on %q", milestone.Title, project.Title),
			Link:    "/projects/" + project.ID.String(),
		})
	}

	resp := toMilestoneResponse(milestone)
	return &resp, nil
}

// RequestRelease lets the assigned freelancer nudge the client to release a
// funded milestone. It changes no escrow state; it only notifies the owner.
func (s *Service) RequestRelease(ctx context.Context, principal identity.Principal, milestoneID uuid.UUID) error {
	milestone, project, err := s.loadMilestoneAndProject(ctx, milestoneID)
	if err != nil {
		return err
	}

	if err := s.guard.RequireOwnership(principal, func(p identity.Principal) bool {
		return project.IsAssignedTo(p.UserID)
	}); err != nil {
		return err
	}

	if !milestone.IsFunded() {
		return shared.NewDomainError("INVALID_STATE", "Only funded milestones can be requested for release")
	}

	s.dispatcher.Dispatch(appnotification.Message{
		UserID:  project.ClientID,
		Type:    notification.TypeMilestoneRequest,
		Title:   "Release requested",
		Content: fmt.Sprintf("The freelancer requested release of milestone %q on %q", milestone.Title, project.Title),
		Link:    "/projects/" + project.ID.String(),
	})

	return nil
}

// GetProjectMilestones returns a project's milestones, oldest first. Read
// paths are permissive where write paths are strict: an anonymous caller gets
// an empty list, not an error.
func (s *Service) GetProjectMilestones(ctx context.Context, principal identity.Principal, projectID uuid.UUID) ([]MilestoneResponse, error) {
	if principal.IsZero() {
		return []MilestoneResponse{}, nil
	}

	milestones, err := s.milestoneRepo.FindByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	responses := make([]MilestoneResponse, len(milestones))
	for i, m := range milestones {
		responses[i] = toMilestoneResponse(&m)
	}
	return responses, nil
}

func (s *Service) loadMilestoneAndProject(ctx context.Context, milestoneID uuid.UUID) (*escrow.Milestone, *marketplace.Project, error) {
	milestone, err := s.milestoneRepo.FindByID(ctx, milestoneID)
	if err != nil {
		return nil, nil, err
	}

	project, err := s.projectRepo.FindByID(ctx, milestone.ProjectID)
	if err != nil {
		return nil, nil, err
	}

	return milestone, project, nil
}
