package auth

import "errors"

var (
	// ErrNoOwnerContext means a scoped operation ran before an owner identity
	// was bound to the request. This is a request-setup bug, never a normal
	// user-facing condition; callers must not swallow it.
	ErrNoOwnerContext = errors.New("auth: no owner in context")

	// ErrInvalidToken indicates the bearer token failed verification.
	ErrInvalidToken = errors.New("auth: invalid token")
)
