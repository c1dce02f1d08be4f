package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/worklane/backend/internal/application/access"
	"github.com/worklane/backend/internal/domain/identity"
	"github.com/worklane/backend/internal/domain/notification"
	"go.uber.org/zap"
)

// listLimit caps how many notifications the inbox returns
const listLimit = 20

// UnreadCache caches per-user unread counts. Implementations fail open:
// a miss or an unreachable backend falls through to the database.
type UnreadCache interface {
	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, bool)
	SetUnreadCount(ctx context.Context, userID uuid.UUID, count int64)
	Invalidate(ctx context.Context, userID uuid.UUID)
}

// Service handles notification read operations
type Service struct {
	repo   notification.Repository
	cache  UnreadCache
	guard  *access.Guard
	logger *zap.Logger
}

// NewService creates a new notification service
func NewService(repo notification.Repository, cache UnreadCache, guard *access.Guard, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		guard:  guard,
		logger: logger,
	}
}

// List returns the caller's most recent notifications, newest first
func (s *Service) List(ctx context.Context, principal identity.Principal) ([]NotificationResponse, error) {
	if err := s.guard.RequireAuthenticated(principal); err != nil {
		return nil, err
	}

	notifications, err := s.repo.FindByUser(ctx, principal.UserID, listLimit)
	if err != nil {
		return nil, err
	}

	responses := make([]NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = toNotificationResponse(&n)
	}
	return responses, nil
}

// UnreadCount returns how many of the caller's notifications are unread
func (s *Service) UnreadCount(ctx context.Context, principal identity.Principal) (int64, error) {
	if err := s.guard.RequireAuthenticated(principal); err != nil {
		return 0, err
	}

	if s.cache != nil {
		if count, ok := s.cache.GetUnreadCount(ctx, principal.UserID); ok {
			return count, nil
		}
	}

	count, err := s.repo.CountUnread(ctx, principal.UserID)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		s.cache.SetUnreadCount(ctx, principal.UserID, count)
	}
	return count, nil
}

// MarkRead marks one of the caller's notifications read. The repository
// scopes the update to the caller, so marking another user's notification
// is a silent no-op rather than an information leak.
func (s *Service) MarkRead(ctx context.Context, principal identity.Principal, id uuid.UUID) error {
	if err := s.guard.RequireAuthenticated(principal); err != nil {
		return err
	}

	if err := s.repo.MarkRead(ctx, id, principal.UserID); err != nil {
		return err
	}

	s.invalidate(ctx, principal.UserID)
	return nil
}

// MarkAllRead marks all of the caller's notifications read
func (s *Service) MarkAllRead(ctx context.Context, principal identity.Principal) error {
	if err := s.guard.RequireAuthenticated(principal); err != nil {
		return err
	}

	if err := s.repo.MarkAllRead(ctx, principal.UserID); err != nil {
		return err
	}

	s.invalidate(ctx, principal.UserID)
	return nil
}

func (s *Service) invalidate(ctx context.Context, userID uuid.UUID) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, userID)
	}
}
