package notification

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for notification persistence
type Repository interface {
	// Create persists a new notification
	Create(ctx context.Context, notification *Notification) error

	// FindByUser finds a user's most recent notifications, newest first,
	// capped at limit
	FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]Notification, error)

	// CountUnread counts a user's unread notifications
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)

	// MarkRead marks one notification read. The update is scoped to the
	// recipient, so a caller cannot mark another user's notification.
	MarkRead(ctx context.Context, id, userID uuid.UUID) error

	// MarkAllRead marks all of a user's notifications read
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}
