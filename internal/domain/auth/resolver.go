package auth

import (
	"context"
	"strings"
)

type Repository interface {
	GetCaller(ctx context.Context, userID string) (*Caller, error)
}

// Resolver maps an authenticated identity to its tenant. There is no
// caching: role and family membership are immutable after creation, so
// a fresh lookup per request is never stale.
type Resolver struct {
	repo Repository
}

func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve returns the caller for an identity, or ErrUserNotFound for a
// pre-membership identity.
func (r *Resolver) Resolve(ctx context.Context, identity string) (*Caller, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return nil, ErrUserNotFound
	}
	return r.repo.GetCaller(ctx, identity)
}
