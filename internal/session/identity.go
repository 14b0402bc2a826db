// Package session issues and verifies session tokens and carries the
// authenticated identity through a request.
package session

import "context"

// Identity is the authenticated user behind a request. The zero value is
// an anonymous visitor.
type Identity struct {
	UserID uint
}

// Anonymous reports whether no user is logged in.
func (i Identity) Anonymous() bool {
	return i.UserID == 0
}

// Is reports whether the identity belongs to userID.
func (i Identity) Is(userID uint) bool {
	return !i.Anonymous() && i.UserID == userID
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the identity stored in ctx, or the anonymous identity.
func FromContext(ctx context.Context) Identity {
	if ctx == nil {
		return Identity{}
	}
	id, _ := ctx.Value(identityKey{}).(Identity)
	return id
}
