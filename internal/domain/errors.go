package domain

import "errors"

// Authentication errors.
var (
	ErrAuthFailed           = errors.New("authentication failed")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrSessionInactive      = errors.New("session is not active")
	ErrMissingIdentity      = errors.New("missing identity in session")
	ErrMissingSessionToken  = errors.New("missing session token")
	ErrIdentityExists       = errors.New("an account with this email already exists")
	ErrRegistrationRejected = errors.New("registration rejected by identity provider")
)

// Authorization errors.
var (
	ErrTherapistNotFound  = errors.New("therapist not found")
	ErrNotTherapist       = errors.New("account is not authorized as a therapist")
	ErrPatientNotAssigned = errors.New("patient is not assigned to this therapist")
)

// Token errors.
var (
	ErrTokenGeneration    = errors.New("token generation failed")
	ErrInvalidAccessToken = errors.New("invalid access token")
	ErrTokenSecretWeak    = errors.New("access token secret too weak")
)

// Input errors.
var (
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrInvalidDateRange     = errors.New("invalid date range")
	ErrConfirmationRequired = errors.New("confirmation phrase does not match")
	ErrMalformedSummary     = errors.New("malformed summary record")
)

// External service errors.
var (
	ErrIdentityProviderUnavailable = errors.New("identity provider unavailable")
	ErrStoreUnavailable            = errors.New("record store unavailable")
	ErrAdminNotConfigured          = errors.New("admin API not configured")
)

// Rate limiting errors.
var (
	ErrRateLimited = errors.New("rate limit exceeded")
)
