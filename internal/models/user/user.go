// Package user provides the user identity carried through request contexts.
package user

import "context"

// User identifies an authenticated caller. Only the id is known to
// this service; registration and credentials live elsewhere.
type User struct {
	ID string
}

type ctxKey struct{}

// NewContext returns a new context with the given user attached.
func NewContext(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// FromContext extracts the user from the context, if any.
func FromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ctxKey{}).(*User)
	return u, ok
}
