package middleware

import (
	"context"

	"github.com/google/uuid"
)

// Principal is the authenticated user a request acts for.
type Principal struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
