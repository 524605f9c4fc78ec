package auth

import (
	"context"
	"strings"
)

type ownerContextKey struct{}

// WithOwner binds the authenticated owner identifier to the context. It is
// called exactly once per request, by the bearer middleware, after token
// verification succeeds and before any business logic runs. Because the value
// lives on the request context, it dies with the request on every exit path.
func WithOwner(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerContextKey{}, strings.TrimSpace(ownerID))
}

// OwnerFromContext extracts the owner identifier if one was bound.
func OwnerFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v, ok := ctx.Value(ownerContextKey{}).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// RequireOwner returns the bound owner identifier or ErrNoOwnerContext.
// Every scoped operation resolves its owner through this call; no operation
// accepts an owner identifier from request input.
func RequireOwner(ctx context.Context) (string, error) {
	id, ok := OwnerFromContext(ctx)
	if !ok {
		return "", ErrNoOwnerContext
	}
	return id, nil
}
