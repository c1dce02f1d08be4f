package access

import (
	"github.com/worklane/backend/internal/domain/identity"
	"github.com/worklane/backend/internal/domain/shared"
)

// Guard centralizes the authorization checks application services run before
// touching state. Every check takes the caller's principal explicitly.
type Guard struct{}

// NewGuard creates a new access guard
func NewGuard() *Guard {
	return &Guard{}
}

// RequireAuthenticated fails with UNAUTHORIZED when no principal was resolved
func (g *Guard) RequireAuthenticated(principal identity.Principal) error {
	if principal.IsZero() {
		return shared.ErrUnauthorized
	}
	return nil
}

// RequireRole fails with UNAUTHORIZED for anonymous callers and FORBIDDEN
// for authenticated callers holding a different role. Admins pass every
// role check.
func (g *Guard) RequireRole(principal identity.Principal, role identity.Role) error {
	if err := g.RequireAuthenticated(principal); err != nil {
		return err
	}
	if principal.Role == identity.RoleAdmin {
		return nil
	}
	if principal.Role != role {
		return shared.ErrForbidden
	}
	return nil
}

// RequireAdmin fails unless the caller is an administrator
func (g *Guard) RequireAdmin(principal identity.Principal) error {
	return g.RequireRole(principal, identity.RoleAdmin)
}

// RequireOwnership fails unless the caller owns the resource, as reported by
// the owns predicate. Ownership is never implied by role; an admin still has
// to pass the predicate for owner-scoped operations.
func (g *Guard) RequireOwnership(principal identity.Principal, owns func(identity.Principal) bool) error {
	if err := g.RequireAuthenticated(principal); err != nil {
		return err
	}
	if !owns(principal) {
		return shared.ErrUnauthorized
	}
	return nil
}
