package usecase

import (
	"context"
	"log/slog"

	"aegis-dashboard/internal/domain"
)

// SignOut revokes a session and evicts it from the validation cache.
type SignOut struct {
	idp    domain.IdentityProvider
	cache  domain.SessionCache
	logger *slog.Logger
}

// NewSignOut creates a new SignOut usecase.
func NewSignOut(idp domain.IdentityProvider, c domain.SessionCache, l *slog.Logger) *SignOut {
	return &SignOut{idp: idp, cache: c, logger: l}
}

// Execute signs out sessionToken.
func (uc *SignOut) Execute(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return domain.ErrMissingSessionToken
	}

	// Evict first so a failed revoke cannot leave a cached identity behind.
	uc.cache.Delete(ctx, sessionToken)

	if err := uc.idp.SignOut(ctx, sessionToken); err != nil {
		uc.logger.ErrorContext(ctx, "sign-out failed", "error", err)
		return err
	}
	return nil
}
