package identity

import (
	"context"

	"github.com/worklane/backend/internal/domain/identity"
	"github.com/worklane/backend/internal/domain/shared"
	"github.com/worklane/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// TokenIssuer mints session tokens for authenticated users
type TokenIssuer interface {
	Generate(user *identity.User) (string, error)
}

// AuthService handles registration and login
type AuthService struct {
	userRepo identity.UserRepository
	tokens   TokenIssuer
	logger   *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo identity.UserRepository, tokens TokenIssuer, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// Register creates a user account and returns a session token. The admin role
// cannot be self-assigned; request binding restricts role to client or
// freelancer and the service enforces it again.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	role := identity.Role(req.Role)
	if role == identity.RoleAdmin || !role.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Role must be client or freelancer")
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Email is already registered")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := identity.NewUser(req.Name, req.Email, hash, role)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role.String()),
	)

	return s.issue(user)
}

// Login verifies credentials and returns a session token. Unknown email and
// wrong password report the same error; login never confirms which was wrong.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid email or password")
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid email or password")
	}

	return s.issue(user)
}

func (s *AuthService) issue(user *identity.User) (*AuthResponse, error) {
	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Token: token,
		User:  toUserResponse(user),
	}, nil
}
