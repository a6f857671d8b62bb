package usecase

import (
	"context"
	"errors"
	"log/slog"

	"aegis-dashboard/internal/domain"
)

// SignUp registers a new account. Registration alone never grants
// dashboard access; a therapist row must also exist.
type SignUp struct {
	idp    domain.IdentityProvider
	logger *slog.Logger
}

// NewSignUp creates a new SignUp usecase.
func NewSignUp(idp domain.IdentityProvider, l *slog.Logger) *SignUp {
	return &SignUp{idp: idp, logger: l}
}

// Execute registers email/password and reports whether confirmation is pending.
func (uc *SignUp) Execute(ctx context.Context, email, password string) (*domain.SignUpResult, error) {
	result, err := uc.idp.SignUp(ctx, normalizeEmail(email), password)
	if err != nil {
		if errors.Is(err, domain.ErrIdentityProviderUnavailable) {
			uc.logger.ErrorContext(ctx, "sign-up failed", "error", err)
		} else {
			uc.logger.InfoContext(ctx, "sign-up rejected", "error", err)
		}
		return nil, err
	}

	uc.logger.InfoContext(ctx, "account registered",
		"user_id", result.UserID,
		"pending_confirmation", result.PendingConfirmation)
	return result, nil
}
