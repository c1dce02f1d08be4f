package escrow

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/worklane/backend/internal/application/access"
	appnotification "github.com/worklane/backend/internal/application/notification"
	"github.com/worklane/backend/internal/domain/escrow"
	"github.com/worklane/backend/internal/domain/identity"
	"github.com/worklane/backend/internal/domain/marketplace"
	"github.com/worklane/backend/internal/domain/notification"
	"github.com/worklane/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// MockMilestoneRepository is a mock implementation of MilestoneRepository
type MockMilestoneRepository struct {
	mock.Mock
}

func (m *MockMilestoneRepository) FindByID(ctx context.Context, id uuid.UUID) (*escrow.Milestone, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*escrow.Milestone), args.Error(1)
}

func (m *MockMilestoneRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]escrow.Milestone, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]escrow.Milestone), args.Error(1)
}

func (m *MockMilestoneRepository) Create(ctx context.Context, milestone *escrow.Milestone) error {
	args := m.Called(ctx, milestone)
	return args.Error(0)
}

func (m *MockMilestoneRepository) FundWithDeposit(ctx context.Context, milestone *escrow.Milestone, deposit *escrow.Transaction) error {
	args := m.Called(ctx, milestone, deposit)
	return args.Error(0)
}

func (m *MockMilestoneRepository) ReleaseWithPayout(ctx context.Context, milestone *escrow.Milestone, payout *escrow.Transaction) error {
	args := m.Called(ctx, milestone, payout)
	return args.Error(0)
}

// MockProjectRepository is a mock implementation of ProjectRepository
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*marketplace.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*marketplace.Project), args.Error(1)
}

func (m *MockProjectRepository) FindByClient(ctx context.Context, clientID uuid.UUID) ([]marketplace.Project, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]marketplace.Project), args.Error(1)
}

func (m *MockProjectRepository) FindByAssignee(ctx context.Context, freelancerID uuid.UUID) ([]marketplace.Project, error) {
	args := m.Called(ctx, freelancerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]marketplace.Project), args.Error(1)
}

func (m *MockProjectRepository) FindOpen(ctx context.Context) ([]marketplace.Project, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]marketplace.Project), args.Error(1)
}

func (m *MockProjectRepository) Create(ctx context.Context, project *marketplace.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) Update(ctx context.Context, project *marketplace.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

// MockNotificationRepository backs the dispatcher in tests
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]notification.Notification, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]notification.Notification), args.Error(1)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type escrowFixture struct {
	service       *Service
	milestoneRepo *MockMilestoneRepository
	projectRepo   *MockProjectRepository
	notifRepo     *MockNotificationRepository
	dispatcher    *appnotification.Dispatcher
}

func newEscrowFixture() *escrowFixture {
	milestoneRepo := new(MockMilestoneRepository)
	projectRepo := new(MockProjectRepository)
	notifRepo := new(MockNotificationRepository)
	dispatcher := appnotification.NewDispatcher(notifRepo, zap.NewNop(), 16)

	return &escrowFixture{
		service:       NewService(milestoneRepo, projectRepo, dispatcher, access.NewGuard(), zap.NewNop()),
		milestoneRepo: milestoneRepo,
		projectRepo:   projectRepo,
		notifRepo:     notifRepo,
		dispatcher:    dispatcher,
	}
}

func openProjectFor(t *testing.T, clientID uuid.UUID) *marketplace.Project {
	project, err := marketplace.NewProject(clientID, "Landing page", "web", "$1000", "2026-10-01", "details")
	require.NoError(t, err)
	return project
}

func assignedProjectFor(t *testing.T, clientID, freelancerID uuid.UUID) *marketplace.Project {
	project := openProjectFor(t, clientID)
	require.NoError(t, project.Assign(freelancerID))
	return project
}

func pendingMilestoneFor(t *testing.T, projectID uuid.UUID, amount string) *escrow.Milestone {
	m, err := escrow.NewMilestone(projectID, "Phase 1", decimal.RequireFromString(amount), nil)
	require.NoError(t, err)
	return m
}

func TestService_FundMilestone(t *testing.T) {
	t.Run("should charge amount plus platform fee", func(t *testing.T) {
		f := newEscrowFixture()
		clientID := uuid.New()
		client := identity.Principal{UserID: clientID, Role: identity.RoleClient}
		project := openProjectFor(t, clientID)
		milestone := pendingMilestoneFor(t, project.ID, "100")

		f.milestoneRepo.On("FindByID", mock.Anything, milestone.ID).Return(milestone, nil)
		f.projectRepo.On("FindByID", mock.Anything, project.ID).Return(project, nil)
		f.milestoneRepo.On("FundWithDeposit", mock.Anything, milestone, mock.MatchedBy(func(tx *escrow.Transaction) bool {
			return tx.Type == escrow.TransactionTypeDeposit &&
				tx.Amount.Equal(decimal.RequireFromString("110.00")) &&
				tx.UserID == clientID
		})).Return(nil)

		resp, err := f.service.FundMilestone(context.Background(), client, milestone.ID)

		require.NoError(t, err)
		assert.Equal(t, "110.00", resp.Charged)
		assert.Equal(t, "funded", resp.Milestone.Status)
		f.milestoneRepo.AssertExpectations(t)
	})

	t.Run("should reject non-owner", func(t *testing.T) {
		f := newEscrowFixture()
		project := openProjectFor(t, uuid.New())
		milestone := pendingMilestoneFor(t, project.ID, "100")
		stranger := identity.Principal{UserID: uuid.New(), Role: identity.RoleClient}

		f.milestoneRepo.On("FindByID", mock.Anything, milestone.ID).Return(milestone, nil)
		f.projectRepo.On("FindByID", mock.Anything, project.ID).Return(project, nil)

		_, err := f.service.FundMilestone(context.Background(), stranger, milestone.ID)

		assert.ErrorIs(t, err, shared.ErrUnauthorized)
		f.milestoneRepo.AssertNotCalled(t, "FundWithDeposit", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should reject funding a funded milestone", func(t *testing.T) {
		f := newEscrowFixture()
		clientID := uuid.New()
		client := identity.Principal{UserID: clientID, Role: identity.RoleClient}
		project := openProjectFor(t, clientID)
		milestone := pendingMilestoneFor(t, project.ID, "100")
		require.NoError(t, milestone.Fund())

		f.milestoneRepo.On("FindByID", mock.Anything, milestone.ID).Return(milestone, nil)
		f.projectRepo.On("FindByID", mock.Anything, project.ID).Return(project, nil)

		_, err := f.service.FundMilestone(context.Background(), client, milestone.ID)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("should notify assignee after funding", func(t *testing.T) {
		f := newEscrowFixture()
		clientID := uuid.New()
		freelancerID := uuid.New()
		client := identity.Principal{UserID: clientID, Role: identity.RoleClient}
		project := assignedProjectFor(t, clientID, freelancerID)
		milestone := pendingMilestoneFor(t, project.ID, "200")

		f.milestoneRepo.On("FindByID", mock.Anything, milestone.ID).Return(milestone, nil)
		f.projectRepo.On("FindByID", mock.Anything, project.ID).Return(project, nil)
		f.milestoneRepo.On("FundWithDeposit", mock.Anything, milestone, mock.Anything).Return(nil)
		f.notifRepo.On("Create", mock.Anything, mock.MatchedBy(func(n *notification.Notification) bool {
			return n.UserID == freelancerID && n.Type == notification.TypeMilestoneFunded
		})).Return(nil)

		_, err := f.service.FundMilestone(context.Background(), client, milestone.ID)
		require.NoError(t, err)

		f.dispatcher.Close() // drain the queue before asserting
		f.notifRepo.AssertExpectations(t)
	})
}

func TestService_ReleaseMilestone(t *testing.T) {
	t.Run("should pay out nominal amount to assignee", func(t *testing.T) {
		f := newEscrowFixture()
		clientID := uuid.New()
		freelancerID := uuid.New()
		client := identity.Principal{UserID: clientID, Role: identity.RoleClient}
		project := assignedProjectFor(t, clientID, freelancerID)
		milestone := pendingMilestoneFor(t, project.ID, "100")
		require.NoError(t, milestone.Fund())

		f.milestoneRepo.On("FindByID", mock.Anything, milestone.ID).Return(milestone, nil)
		f.projectRepo.On("FindByID", mock.Anything, project.ID).Return(project, nil)
		f.milestoneRepo.On("ReleaseWithPayout", mock.Anything, milestone, mock.MatchedBy(func(tx *escrow.Transaction) bool {
			return tx.Type == escrow.TransactionTypePayout &&
				tx.Amount.Equal(decimal.RequireFromString("100.00")) &&
				tx.UserID == freelancerID
		})).Return(nil)
		f.notifRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		resp, err := f.service.ReleaseMilestone(context.Background(), client, milestone.ID)

		require.NoError(t, err)
		assert.Equal(t, "paid", resp.Status)
		f.milestoneRepo.AssertExpectations(t)
	})

	t.Run("should transition without payout when project has no assignee", func(t *testing.T) {
		f := newEscrowFixture()
		clientID := uuid.New()
		client := identity.Principal{UserID: clientID, Role: identity.RoleClient}
		project := openProjectFor(t, clientID)
		milestone := pendingMilestoneFor(t, project.ID, "100")
		require.NoError(t, milestone.Fund())

		f.milestoneRepo.On("FindByID", mock.Anything, milestone.ID).Return(milestone, nil)
		f.projectRepo.On("FindByID", mock.Anything, project.ID).Return(project, nil)
		f.milestoneRepo.On("ReleaseWithPayout", mock.Anything, milestone, (*escrow.Transaction)(nil)).Return(nil)

		resp, err := f.service.ReleaseMilestone(context.Background(), client, milestone.ID)

		require.NoError(t, err)
		assert.Equal(t, "paid", resp.Status)
		f.milestoneRepo.AssertExpectations(t)
	})

	t.Run("should reject releasing an unfunded milestone", func(t *testing.T) {
		f := newEscrowFixture()
		clientID := uuid.New()
		client := identity.Principal{UserID: clientID, Role: identity.RoleClient}
		project := openProjectFor(t, clientID)
		milestone := pendingMilestoneFor(t, project.ID, "100")

		f.milestoneRepo.On("FindByID", mock.Anything, milestone.ID).Return(milestone, nil)
		f.projectRepo.On("FindByID", mock.Anything, project.ID).Return(project, nil)

		_, err := f.service.ReleaseMilestone(context.Background(), client, milestone.ID)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

func TestService_RequestRelease(t *testing.T) {
	t.Run("should notify owner without changing state", func(t *testing.T) {
		f := newEscrowFixture()
		clientID := uuid.New()
		freelancerID := uuid.New()
		freelancer := identity.Principal{UserID: freelancerID, Role: identity.RoleFreelancer}
		project := assignedProjectFor(t, clientID, freelancerID)
		milestone := pendingMilestoneFor(t, project.ID, "100")
		require.NoError(t, milestone.Fund())

		f.milestoneRepo.On("FindByID", mock.Anything, milestone.ID).Return(milestone, nil)
		f.projectRepo.On("FindByID", mock.Anything, project.ID).Return(project, nil)
		f.notifRepo.On("Create", mock.Anything, mock.MatchedBy(func(n *notification.Notification) bool {
			return n.UserID == clientID && n.Type == notification.TypeMilestoneRequest
		})).Return(nil)

		err := f.service.RequestRelease(context.Background(), freelancer, milestone.ID)
		require.NoError(t, err)

		assert.Equal(t, escrow.MilestoneStatusFunded, milestone.Status)
		f.dispatcher.Close()
		f.notifRepo.AssertExpectations(t)
	})

	t.Run("should reject callers other than the assignee", func(t *testing.T) {
		f := newEscrowFixture()
		clientID := uuid.New()
		project := assignedProjectFor(t, clientID, uuid.New())
		milestone := pendingMilestoneFor(t, project.ID, "100")
		require.NoError(t, milestone.Fund())
		outsider := identity.Principal{UserID: uuid.New(), Role: identity.RoleFreelancer}

		f.milestoneRepo.On("FindByID", mock.Anything, milestone.ID).Return(milestone, nil)
		f.projectRepo.On("FindByID", mock.Anything, project.ID).Return(project, nil)

		err := f.service.RequestRelease(context.Background(), outsider, milestone.ID)

		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("should reject unfunded milestone", func(t *testing.T) {
		f := newEscrowFixture()
		clientID := uuid.New()
		freelancerID := uuid.New()
		freelancer := identity.Principal{UserID: freelancerID, Role: identity.RoleFreelancer}
		project := assignedProjectFor(t, clientID, freelancerID)
		milestone := pendingMilestoneFor(t, project.ID, "100")

		f.milestoneRepo.On("FindByID", mock.Anything, milestone.ID).Return(milestone, nil)
		f.projectRepo.On("FindByID", mock.Anything, project.ID).Return(project, nil)

		err := f.service.RequestRelease(context.Background(), freelancer, milestone.ID)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

func TestService_GetProjectMilestones(t *testing.T) {
	t.Run("anonymous caller gets empty list", func(t *testing.T) {
		f := newEscrowFixture()

		resp, err := f.service.GetProjectMilestones(context.Background(), identity.Principal{}, uuid.New())

		require.NoError(t, err)
		assert.Empty(t, resp)
		f.milestoneRepo.AssertNotCalled(t, "FindByProject", mock.Anything, mock.Anything)
	})

	t.Run("authenticated caller gets milestones oldest first", func(t *testing.T) {
		f := newEscrowFixture()
		projectID := uuid.New()
		caller := identity.Principal{UserID: uuid.New(), Role: identity.RoleFreelancer}
		first := pendingMilestoneFor(t, projectID, "100")
		second := pendingMilestoneFor(t, projectID, "200")

		f.milestoneRepo.On("FindByProject", mock.Anything, projectID).
			Return([]escrow.Milestone{*first, *second}, nil)

		resp, err := f.service.GetProjectMilestones(context.Background(), caller, projectID)

		require.NoError(t, err)
		require.Len(t, resp, 2)
		assert.Equal(t, first.ID.String(), resp[0].ID)
		assert.Equal(t, second.ID.String(), resp[1].ID)
	})
}

func TestService_CreateMilestone(t *testing.T) {
	t.Run("should create pending milestone for owner", func(t *testing.T) {
		f := newEscrowFixture()
		clientID := uuid.New()
		client := identity.Principal{UserID: clientID, Role: identity.RoleClient}
		project := openProjectFor(t, clientID)

		f.projectRepo.On("FindByID", mock.Anything, project.ID).Return(project, nil)
		f.milestoneRepo.On("Create", mock.Anything, mock.MatchedBy(func(m *escrow.Milestone) bool {
			return m.Status == escrow.MilestoneStatusPending && m.ProjectID == project.ID
		})).Return(nil)

		resp, err := f.service.CreateMilestone(context.Background(), client, project.ID, CreateMilestoneRequest{
			Title:  "Phase 1",
			Amount: "250.00",
		})

		require.NoError(t, err)
		assert.Equal(t, "pending", resp.Status)
		assert.Equal(t, "250.00", resp.Amount)
	})

	t.Run("should reject invalid amount", func(t *testing.T) {
		f := newEscrowFixture()
		clientID := uuid.New()
		client := identity.Principal{UserID: clientID, Role: identity.RoleClient}
		project := openProjectFor(t, clientID)

		f.projectRepo.On("FindByID", mock.Anything, project.ID).Return(project, nil)

		_, err := f.service.CreateMilestone(context.Background(), client, project.ID, CreateMilestoneRequest{
			Title:  "Phase 1",
			Amount: "not-a-number",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	})
}
