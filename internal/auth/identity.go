package auth

import (
	"context"

	"realestate/internal/model"
)

// Identity is the authenticated user attached to a request.
// The zero value is an anonymous visitor.
type Identity struct {
	SessionID   string     `json:"-"`
	UserID      uint       `json:"user_id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	Role        model.Role `json:"user_type"`
}

// IsLoggedIn reports whether the request carries a live session.
func (i Identity) IsLoggedIn() bool {
	return i.UserID != 0
}

// UserType returns the role of a logged in user, or "" for visitors.
func (i Identity) UserType() model.Role {
	if !i.IsLoggedIn() {
		return ""
	}
	return i.Role
}

// HasRole reports whether the user is logged in with role r.
func (i Identity) HasRole(r model.Role) bool {
	return i.IsLoggedIn() && i.Role == r
}

func (i Identity) IsOwner() bool  { return i.HasRole(model.RoleOwner) }
func (i Identity) IsTenant() bool { return i.HasRole(model.RoleTenant) }
func (i Identity) IsAdmin() bool  { return i.HasRole(model.RoleAdmin) }

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the identity stored in ctx, or an anonymous one.
func FromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(identityKey{}).(Identity)
	return id
}
