package marketplace

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/worklane/backend/internal/application/access"
	appnotification "github.com/worklane/backend/internal/application/notification"
	"github.com/worklane/backend/internal/domain/identity"
	"github.com/worklane/backend/internal/domain/marketplace"
	"github.com/worklane/backend/internal/domain/notification"
	"go.uber.org/zap"
)

// ProjectService handles project lifecycle operations
type ProjectService struct {
	projectRepo marketplace.ProjectRepository
	userRepo    identity.UserRepository
	dispatcher  *appnotification.Dispatcher
	guard       *access.Guard
	logger      *zap.Logger
}

// NewProjectService creates a new project service
func NewProjectService(
	projectRepo marketplace.ProjectRepository,
	userRepo identity.UserRepository,
	dispatcher *appnotification.Dispatcher,
	guard *access.Guard,
	logger *zap.Logger,
) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		dispatcher:  dispatcher,
		guard:       guard,
		logger:      logger,
	}
}

// CreateProject posts a new open project owned by the caller and fans a
// best-effort announcement out to every freelancer
func (s *ProjectService) CreateProject(ctx context.Context, principal identity.Principal, req CreateProjectRequest) (*ProjectResponse, error) {
	if err := s.guard.RequireRole(principal, identity.RoleClient); err != nil {
		return nil, err
	}

	project, err := marketplace.NewProject(principal.UserID, req.Title, req.Service, req.Budget, req.Deadline, req.Details)
	if err != nil {
		return nil, err
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("project created",
		zap.String("project_id", project.ID.String()),
		zap.String("client_id", principal.UserID.String()),
	)

	s.announceProject(ctx, project)

	resp := toProjectResponse(project)
	return &resp, nil
}

// GetProject returns one project. Readable by anyone, including anonymous
// callers; project listings are public.
func (s *ProjectService) GetProject(ctx context.Context, id uuid.UUID) (*ProjectResponse, error) {
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := toProjectResponse(project)
	return &resp, nil
}

// ListOpenProjects returns all projects still accepting proposals, newest first
func (s *ProjectService) ListOpenProjects(ctx context.Context) ([]ProjectResponse, error) {
	projects, err := s.projectRepo.FindOpen(ctx)
	if err != nil {
		return nil, err
	}
	return toProjectResponses(projects), nil
}

// ListMyProjects returns the projects the caller owns, newest first
func (s *ProjectService) ListMyProjects(ctx context.Context, principal identity.Principal) ([]ProjectResponse, error) {
	if err := s.guard.RequireAuthenticated(principal); err != nil {
		return nil, err
	}

	projects, err := s.projectRepo.FindByClient(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	return toProjectResponses(projects), nil
}

// ListAssignedProjects returns the projects the caller is working on
func (s *ProjectService) ListAssignedProjects(ctx context.Context, principal identity.Principal) ([]ProjectResponse, error) {
	if err := s.guard.RequireRole(principal, identity.RoleFreelancer); err != nil {
		return nil, err
	}

	projects, err := s.projectRepo.FindByAssignee(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	return toProjectResponses(projects), nil
}

// UpdateProject updates a project's editable fields. Only the owner may edit.
func (s *ProjectService) UpdateProject(ctx context.Context, principal identity.Principal, id uuid.UUID, req UpdateProjectRequest) (*ProjectResponse, error) {
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.guard.RequireOwnership(principal, func(p identity.Principal) bool {
		return project.IsOwnedBy(p.UserID)
	}); err != nil {
		return nil, err
	}

	if err := project.UpdateDetails(req.Title, req.Service, req.Budget, req.Deadline, req.Details); err != nil {
		return nil, err
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}

	resp := toProjectResponse(project)
	return &resp, nil
}

func (s *ProjectService) announceProject(ctx context.Context, project *marketplace.Project) {
	freelancerIDs, err := s.userRepo.FindIDsByRole(ctx, identity.RoleFreelancer)
	if err != nil {
		// Announcement is best-effort; the project itself is already saved
		s.logger.Warn("failed to load freelancers for project announcement",
			zap.String("project_id", project.ID.String()),
			zap.Error(err),
		)
		return
	}

	s.dispatcher.DispatchAll(freelancerIDs, appnotification.Message{
		Type:    notification.TypeProjectNew,
		Title:   "New project posted",
		Content: fmt.Sprintf("%q is open for proposals", project.Title),
		Link:    "/projects/" + project.ID.String(),
	})
}
