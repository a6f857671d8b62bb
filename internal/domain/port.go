package domain

//go:generate mockgen -source=port.go -destination=../mocks/mock_port.go -package=mocks

import (
	"context"
	"time"
)

// IdentityProvider performs authentication against the external identity service.
type IdentityProvider interface {
	SignIn(ctx context.Context, email, password string) (*AuthSession, error)
	SignUp(ctx context.Context, email, password string) (*SignUpResult, error)
	SignOut(ctx context.Context, sessionToken string) error
}

// SessionValidator resolves a session token to the identity that owns it.
type SessionValidator interface {
	ValidateSession(ctx context.Context, sessionToken string) (*Identity, error)
}

// SessionCache stores recently validated identities keyed by session token.
type SessionCache interface {
	Get(ctx context.Context, sessionToken string) (*CachedIdentity, bool)
	Set(ctx context.Context, sessionToken string, identity CachedIdentity)
	Delete(ctx context.Context, sessionToken string)
}

// TherapistRepository looks up therapist rows. A missing row is reported
// as ErrTherapistNotFound.
type TherapistRepository interface {
	FindTherapist(ctx context.Context, id string) (*Therapist, error)
}

// PatientRepository reads therapist-to-patient assignments.
type PatientRepository interface {
	ListAssignedPatients(ctx context.Context, therapistID string) ([]Patient, error)
	IsAssigned(ctx context.Context, therapistID, patientID string) (bool, error)
}

// SummaryRepository reads and purges stored summaries.
type SummaryRepository interface {
	ListSummaries(ctx context.Context, patientID string, r DateRange) ([]RawSummary, error)
	DeleteAllSummaries(ctx context.Context) (int64, error)
}

// AccessTokenIssuer signs dashboard access tokens.
type AccessTokenIssuer interface {
	IssueAccessToken(identity *Identity, role string) (token string, expiresAt time.Time, err error)
}

// AccessClaims is the verified content of a dashboard access token.
type AccessClaims struct {
	Subject   string
	Email     string
	SessionID string
	Role      string
}

// AccessTokenVerifier checks dashboard access tokens.
type AccessTokenVerifier interface {
	VerifyAccessToken(token string) (*AccessClaims, error)
}
