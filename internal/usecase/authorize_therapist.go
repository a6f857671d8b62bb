package usecase

import (
	"context"
	"errors"
	"log/slog"

	"aegis-dashboard/internal/domain"
	"aegis-dashboard/internal/metrics"
)

// AuthorizeTherapist decides whether a subject may use the dashboard.
type AuthorizeTherapist struct {
	therapists domain.TherapistRepository
	logger     *slog.Logger
}

// NewAuthorizeTherapist creates a new AuthorizeTherapist usecase.
func NewAuthorizeTherapist(r domain.TherapistRepository, l *slog.Logger) *AuthorizeTherapist {
	return &AuthorizeTherapist{therapists: r, logger: l}
}

// Execute reports whether subject has a therapist row. A missing row is a
// normal denial; any other failure is logged and also denies.
func (uc *AuthorizeTherapist) Execute(ctx context.Context, subject string) bool {
	_, err := uc.therapists.FindTherapist(ctx, subject)
	switch {
	case err == nil:
		metrics.RecordAuthorization("granted")
		return true
	case errors.Is(err, domain.ErrTherapistNotFound):
		metrics.RecordAuthorization("denied")
		uc.logger.InfoContext(ctx, "subject is not a therapist", "user_id", subject)
		return false
	default:
		metrics.RecordAuthorization("error")
		uc.logger.ErrorContext(ctx, "therapist lookup failed, denying access", "user_id", subject, "error", err)
		return false
	}
}
