package notification

import (
	"github.com/google/uuid"
	"github.com/worklane/backend/internal/domain/shared"
)

// Type categorizes what happened; the frontend keys icons and links off it
type Type string

const (
	TypeProposalNew      Type = "proposal_new"
	TypeProposalAccepted Type = "proposal_accepted"
	TypeProposalRejected Type = "proposal_rejected"
	TypeMilestoneFunded  Type = "milestone_funded"
	TypeMilestonePaid    Type = "milestone_paid"
	TypeMilestoneRequest Type = "milestone_request"
	TypeProjectNew       Type = "project_new"
)

// IsValid checks if the type is a valid notification Type
func (t Type) IsValid() bool {
	switch t {
	case TypeProposalNew, TypeProposalAccepted, TypeProposalRejected,
		TypeMilestoneFunded, TypeMilestonePaid, TypeMilestoneRequest, TypeProjectNew:
		return true
	}
	return false
}

// String returns the string representation of the Type
func (t Type) String() string {
	return string(t)
}

// Notification is a best-effort message for a single recipient. Losing one
// never fails the operation that produced it.
type Notification struct {
	shared.BaseEntity
	UserID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Type    Type
	Title   string
	Content string
	Link    string // Optional in-app destination, e.g. /projects/<id>
	Read    bool
}

// NewNotification creates an unread notification for the given recipient
func NewNotification(userID uuid.UUID, notifType Type, title, content, link string) (*Notification, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "User ID cannot be empty")
	}
	if !notifType.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid notification type")
	}
	if title == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Title cannot be empty")
	}
	if content == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Content cannot be empty")
	}

	return &Notification{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Type:       notifType,
		Title:      title,
		Content:    content,
		Link:       link,
		Read:       false,
	}, nil
}
