package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"aegis-dashboard/internal/domain"
)

// SessionResult is the auth state a client renders from.
type SessionResult struct {
	Screen      domain.Screen
	Identity    *domain.Identity
	IsTherapist bool
	AccessToken string
	ExpiresAt   time.Time
}

// GetSession resolves a session token into the screen to show and, for
// therapists, a short-lived dashboard access token.
type GetSession struct {
	validate  *ValidateSession
	authorize *AuthorizeTherapist
	issuer    domain.AccessTokenIssuer
	logger    *slog.Logger
}

// NewGetSession creates a new GetSession usecase.
func NewGetSession(v *ValidateSession, a *AuthorizeTherapist, t domain.AccessTokenIssuer, l *slog.Logger) *GetSession {
	return &GetSession{validate: v, authorize: a, issuer: t, logger: l}
}

// Execute validates sessionToken, runs the therapist check and issues a token.
// Rejected or absent sessions resolve to the sign-in screen rather than an error.
func (uc *GetSession) Execute(ctx context.Context, sessionToken string) (*SessionResult, error) {
	identity, err := uc.validate.Execute(ctx, sessionToken)
	if err != nil {
		if isSessionRejection(err) {
			return &SessionResult{Screen: domain.ResolveScreen(domain.ScreenInput{Configured: true})}, nil
		}
		return nil, err
	}

	status := domain.TherapistDenied
	if uc.authorize.Execute(ctx, identity.UserID) {
		status = domain.TherapistConfirmed
	}

	result := &SessionResult{
		Screen: domain.ResolveScreen(domain.ScreenInput{
			Configured: true,
			HasSession: true,
			Therapist:  status,
		}),
		Identity:    identity,
		IsTherapist: status == domain.TherapistConfirmed,
	}
	if !result.IsTherapist {
		return result, nil
	}

	token, expiresAt, err := uc.issuer.IssueAccessToken(identity, domain.RoleTherapist)
	if err != nil {
		uc.logger.ErrorContext(ctx, "failed to issue access token", "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrTokenGeneration, err)
	}
	result.AccessToken = token
	result.ExpiresAt = expiresAt
	return result, nil
}

func isSessionRejection(err error) bool {
	return errors.Is(err, domain.ErrMissingSessionToken) ||
		errors.Is(err, domain.ErrAuthFailed) ||
		errors.Is(err, domain.ErrSessionInactive) ||
		errors.Is(err, domain.ErrMissingIdentity)
}
