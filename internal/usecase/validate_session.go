package usecase

import (
	"context"
	"log/slog"

	"aegis-dashboard/internal/domain"
	"aegis-dashboard/internal/metrics"

	"golang.org/x/sync/singleflight"
)

// ValidateSession orchestrates session validation with a cache-through
// strategy. Concurrent misses for one token share a single provider call.
type ValidateSession struct {
	validator domain.SessionValidator
	cache     domain.SessionCache
	logger    *slog.Logger
	group     singleflight.Group
}

// NewValidateSession creates a new ValidateSession usecase.
func NewValidateSession(v domain.SessionValidator, c domain.SessionCache, l *slog.Logger) *ValidateSession {
	return &ValidateSession{validator: v, cache: c, logger: l}
}

// Execute returns the identity owning sessionToken.
func (uc *ValidateSession) Execute(ctx context.Context, sessionToken string) (*domain.Identity, error) {
	if sessionToken == "" {
		return nil, domain.ErrMissingSessionToken
	}

	if cached, found := uc.cache.Get(ctx, sessionToken); found {
		metrics.RecordCacheLookup(true)
		return cached.ToIdentity(), nil
	}
	metrics.RecordCacheLookup(false)

	// The shared call outlives any single caller; the gateway bounds it.
	ch := uc.group.DoChan(sessionToken, func() (any, error) {
		callCtx := context.WithoutCancel(ctx)
		identity, err := uc.validator.ValidateSession(callCtx, sessionToken)
		if err != nil {
			return nil, err
		}
		uc.cache.Set(callCtx, sessionToken, domain.NewCachedIdentity(identity))
		return identity, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		identity := *res.Val.(*domain.Identity)
		return &identity, nil
	}
}
