package domain

import "time"

// Identity represents an authenticated user identity from the identity provider.
type Identity struct {
	UserID    string
	Email     string
	SessionID string
	ExpiresAt time.Time
}

// AuthSession is the outcome of a successful sign-in.
type AuthSession struct {
	Token     string
	ExpiresAt time.Time
	Identity  Identity
}

// SignUpResult describes a newly registered account. Accounts created
// through the password flow must confirm their email before signing in.
type SignUpResult struct {
	UserID              string
	PendingConfirmation bool
}

// SignUpPendingMessage is returned to clients after a sign-up that still
// requires email confirmation.
const SignUpPendingMessage = "Sign up successful! Please check your email for a confirmation link."

// CachedIdentity holds validated identity data stored in the session cache.
type CachedIdentity struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ToIdentity converts a cache entry back into an Identity.
func (c CachedIdentity) ToIdentity() *Identity {
	return &Identity{
		UserID:    c.UserID,
		Email:     c.Email,
		SessionID: c.SessionID,
		ExpiresAt: c.ExpiresAt,
	}
}

// NewCachedIdentity builds a cache entry from an Identity.
func NewCachedIdentity(id *Identity) CachedIdentity {
	return CachedIdentity{
		UserID:    id.UserID,
		Email:     id.Email,
		SessionID: id.SessionID,
		ExpiresAt: id.ExpiresAt,
	}
}
