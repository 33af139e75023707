// Package service implements the domain logic on top of the
// repositories: review and bookmark management, recommendations,
// external metadata sync, penalties and analytics. Services never
// authenticate anybody; every call receives an already-authenticated
// Principal and only performs authorization checks against it.
package service

import "github.com/movielog/movielog/internal/model"

// Principal is the authenticated caller handed in by the HTTP layer
// after JWT verification.
type Principal struct {
	UserID string
	Role   string
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool { return p.Role == model.RoleAdmin }
