package auth

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrTooManyAttempts    = errors.New("too many sign-in attempts, try again later")
)

// Identity is the authenticated user as seen by the rest of the service.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type Session struct {
	Token     string    `json:"token"`
	User      Identity  `json:"user"`
	ExpiresAt time.Time `json:"expires_at"`
}

type EventKind string

const (
	EventSignUp  EventKind = "sign_up"
	EventSignIn  EventKind = "sign_in"
	EventSignOut EventKind = "sign_out"
)

// Event is delivered to subscribers whenever a user logs in or out.
type Event struct {
	Kind EventKind
	User Identity
	At   time.Time
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying the identity.
func NewContext(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity stored by NewContext, if any.
func FromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(*Identity)
	return id, ok && id != nil
}
