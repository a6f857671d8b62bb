package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"aegis-dashboard/internal/domain"
)

// SignIn authenticates a therapist with email and password.
type SignIn struct {
	idp    domain.IdentityProvider
	logger *slog.Logger
}

// NewSignIn creates a new SignIn usecase.
func NewSignIn(idp domain.IdentityProvider, l *slog.Logger) *SignIn {
	return &SignIn{idp: idp, logger: l}
}

// Execute returns a session for valid credentials.
func (uc *SignIn) Execute(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	email = normalizeEmail(email)

	session, err := uc.idp.SignIn(ctx, email, password)
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			uc.logger.ErrorContext(ctx, "sign-in failed", "error", err)
		}
		return nil, err
	}

	uc.logger.InfoContext(ctx, "user signed in", "user_id", session.Identity.UserID)
	return session, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
