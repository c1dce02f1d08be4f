package identity

import "github.com/google/uuid"

// Principal is the authenticated caller's identity as resolved from the
// session token. Operations receive it explicitly; nothing reads it from
// ambient state.
type Principal struct {
	UserID uuid.UUID
	Role   Role
}

// IsZero reports whether no principal was resolved (anonymous caller).
func (p Principal) IsZero() bool {
	return p.UserID == uuid.Nil
}
