package session

import (
	"context"

	"swiftlogix/internal/repository"
)

// has_role RPCで管理者かどうかを聞く
type Resolver struct {
	roles repository.RoleChecker
}

func NewResolver(roles repository.RoleChecker) *Resolver {
	return &Resolver{roles: roles}
}

func (r *Resolver) IsAdmin(ctx context.Context, userID string) (bool, error) {
	return r.roles.HasRole(ctx, userID, repository.RoleAdmin)
}
