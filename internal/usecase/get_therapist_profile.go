package usecase

import (
	"context"
	"errors"
	"log/slog"

	"aegis-dashboard/internal/domain"
)

// GetTherapistProfile loads the signed-in therapist's row.
type GetTherapistProfile struct {
	therapists domain.TherapistRepository
	logger     *slog.Logger
}

// NewGetTherapistProfile creates a new GetTherapistProfile usecase.
func NewGetTherapistProfile(r domain.TherapistRepository, l *slog.Logger) *GetTherapistProfile {
	return &GetTherapistProfile{therapists: r, logger: l}
}

// Execute returns the therapist row. A row removed after the access token
// was issued surfaces as ErrNotTherapist.
func (uc *GetTherapistProfile) Execute(ctx context.Context, therapistID string) (*domain.Therapist, error) {
	t, err := uc.therapists.FindTherapist(ctx, therapistID)
	if err != nil {
		if errors.Is(err, domain.ErrTherapistNotFound) {
			return nil, domain.ErrNotTherapist
		}
		uc.logger.ErrorContext(ctx, "failed to load therapist profile", "error", err)
		return nil, err
	}
	return t, nil
}
