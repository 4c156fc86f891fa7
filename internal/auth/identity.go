package auth

import (
	"context"
	"slices"

	"event-service/internal/apperror"
	"event-service/internal/user"
)

var (
	ErrUnauthenticated = apperror.New(apperror.ErrUnauthenticated, "unauthenticated", "could not validate credentials")
	ErrForbidden       = apperror.New(apperror.ErrForbidden, "forbidden", "not enough permissions")
)

// Identity is the verified caller of a request
type Identity struct {
	UserID int
	Email  string
	Role   user.Role
}

func (id Identity) IsAdmin() bool {
	return id.Role == user.RoleAdmin
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the caller stored by the Authenticate middleware
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// RequireRole returns ErrForbidden unless the caller holds one of roles.
func RequireRole(id Identity, roles ...user.Role) error {
	if slices.Contains(roles, id.Role) {
		return nil
	}
	return ErrForbidden
}
