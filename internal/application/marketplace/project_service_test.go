package marketplace

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/worklane/backend/internal/application/access"
	appnotification "github.com/worklane/backend/internal/application/notification"
	"github.com/worklane/backend/internal/domain/identity"
	"github.com/worklane/backend/internal/domain/marketplace"
	"github.com/worklane/backend/internal/domain/notification"
	"github.com/worklane/backend/internal/domain/shared"
	"go.uber.org/zap"
)

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

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindIDsByRole(ctx context.Context, role identity.Role) ([]uuid.UUID, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
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

type projectFixture struct {
	service     *ProjectService
	projectRepo *MockProjectRepository
	userRepo    *MockUserRepository
	notifRepo   *MockNotificationRepository
	dispatcher  *appnotification.Dispatcher
}

func newProjectFixture() *projectFixture {
	projectRepo := new(MockProjectRepository)
	userRepo := new(MockUserRepository)
	notifRepo := new(MockNotificationRepository)
	dispatcher := appnotification.NewDispatcher(notifRepo, zap.NewNop(), 16)

	return &projectFixture{
		service:     NewProjectService(projectRepo, userRepo, dispatcher, access.NewGuard(), zap.NewNop()),
		projectRepo: projectRepo,
		userRepo:    userRepo,
		notifRepo:   notifRepo,
		dispatcher:  dispatcher,
	}
}

func TestProjectService_CreateProject(t *testing.T) {
	validReq := CreateProjectRequest{
		Title:    "Landing page",
		Service:  "web",
		Budget:   "$1000",
		Deadline: "2026-10-01",
		Details:  "details",
	}

	t.Run("should create open project and announce to freelancers", func(t *testing.T) {
		f := newProjectFixture()
		client := identity.Principal{UserID: uuid.New(), Role: identity.RoleClient}
		freelancerIDs := []uuid.UUID{uuid.New(), uuid.New()}

		f.projectRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *marketplace.Project) bool {
			return p.IsOpen() && p.IsOwnedBy(client.UserID)
		})).Return(nil)
		f.userRepo.On("FindIDsByRole", mock.Anything, identity.RoleFreelancer).Return(freelancerIDs, nil)
		for _, id := range freelancerIDs {
			id := id
			f.notifRepo.On("Create", mock.Anything, mock.MatchedBy(func(n *notification.Notification) bool {
				return n.UserID == id && n.Type == notification.TypeProjectNew
			})).Return(nil).Once()
		}

		resp, err := f.service.CreateProject(context.Background(), client, validReq)

		require.NoError(t, err)
		assert.Equal(t, "open", resp.Status)

		f.dispatcher.Close()
		f.notifRepo.AssertExpectations(t)
	})

	t.Run("announcement failure does not fail the create", func(t *testing.T) {
		f := newProjectFixture()
		client := identity.Principal{UserID: uuid.New(), Role: identity.RoleClient}

		f.projectRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.userRepo.On("FindIDsByRole", mock.Anything, identity.RoleFreelancer).
			Return(nil, errors.New("connection refused"))

		resp, err := f.service.CreateProject(context.Background(), client, validReq)

		require.NoError(t, err)
		assert.Equal(t, "open", resp.Status)
	})

	t.Run("should reject freelancers", func(t *testing.T) {
		f := newProjectFixture()
		freelancer := identity.Principal{UserID: uuid.New(), Role: identity.RoleFreelancer}

		_, err := f.service.CreateProject(context.Background(), freelancer, validReq)

		assert.ErrorIs(t, err, shared.ErrForbidden)
		f.projectRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("should reject anonymous callers", func(t *testing.T) {
		f := newProjectFixture()

		_, err := f.service.CreateProject(context.Background(), identity.Principal{}, validReq)

		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})
}

func TestProjectService_UpdateProject(t *testing.T) {
	t.Run("owner edits the project", func(t *testing.T) {
		f := newProjectFixture()
		clientID := uuid.New()
		client := identity.Principal{UserID: clientID, Role: identity.RoleClient}
		project := newOpenProject(t, clientID)

		f.projectRepo.On("FindByID", mock.Anything, project.ID).Return(project, nil)
		f.projectRepo.On("Update", mock.Anything, project).Return(nil)

		resp, err := f.service.UpdateProject(context.Background(), client, project.ID, UpdateProjectRequest{
			Title:    "Landing page v2",
			Service:  "web",
			Budget:   "$1500",
			Deadline: "2026-11-01",
			Details:  "more details",
		})

		require.NoError(t, err)
		assert.Equal(t, "Landing page v2", resp.Title)
	})

	t.Run("non-owner cannot edit", func(t *testing.T) {
		f := newProjectFixture()
		project := newOpenProject(t, uuid.New())
		stranger := identity.Principal{UserID: uuid.New(), Role: identity.RoleClient}

		f.projectRepo.On("FindByID", mock.Anything, project.ID).Return(project, nil)

		_, err := f.service.UpdateProject(context.Background(), stranger, project.ID, UpdateProjectRequest{
			Title: "Hijacked",
		})

		assert.ErrorIs(t, err, shared.ErrUnauthorized)
		f.projectRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestProjectService_Listings(t *testing.T) {
	t.Run("open listing is public", func(t *testing.T) {
		f := newProjectFixture()
		project := newOpenProject(t, uuid.New())

		f.projectRepo.On("FindOpen", mock.Anything).Return([]marketplace.Project{*project}, nil)

		resp, err := f.service.ListOpenProjects(context.Background())

		require.NoError(t, err)
		require.Len(t, resp, 1)
		assert.Equal(t, project.ID.String(), resp[0].ID)
	})

	t.Run("my projects requires authentication", func(t *testing.T) {
		f := newProjectFixture()

		_, err := f.service.ListMyProjects(context.Background(), identity.Principal{})

		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("assigned projects requires the freelancer role", func(t *testing.T) {
		f := newProjectFixture()
		client := identity.Principal{UserID: uuid.New(), Role: identity.RoleClient}

		_, err := f.service.ListAssignedProjects(context.Background(), client)

		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}
