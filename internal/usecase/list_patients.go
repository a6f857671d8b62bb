package usecase

import (
	"context"
	"log/slog"

	"aegis-dashboard/internal/domain"
)

// ListPatients returns the patients assigned to a therapist.
type ListPatients struct {
	patients domain.PatientRepository
	logger   *slog.Logger
}

// NewListPatients creates a new ListPatients usecase.
func NewListPatients(r domain.PatientRepository, l *slog.Logger) *ListPatients {
	return &ListPatients{patients: r, logger: l}
}

// Execute lists assigned patients ordered by display id.
func (uc *ListPatients) Execute(ctx context.Context, therapistID string) ([]domain.Patient, error) {
	patients, err := uc.patients.ListAssignedPatients(ctx, therapistID)
	if err != nil {
		uc.logger.ErrorContext(ctx, "failed to list patients", "error", err)
		return nil, err
	}
	return patients, nil
}
