package postgres

import (
	"context"
	"fmt"

	"aegis-dashboard/internal/domain"
)

// PatientRepository reads teens through therapist_teen_assignments.
// Implements domain.PatientRepository.
type PatientRepository struct {
	db PgxIface
}

// NewPatientRepository creates a PatientRepository.
func NewPatientRepository(db PgxIface) *PatientRepository {
	return &PatientRepository{db: db}
}

// ListAssignedPatients returns the teens assigned to therapistID ordered by
// display id.
func (r *PatientRepository) ListAssignedPatients(ctx context.Context, therapistID string) ([]domain.Patient, error) {
	const query = `
		SELECT t.id, t.unique_display_id, t.consent_to_share
		FROM therapist_teen_assignments a
		INNER JOIN teens t ON t.id = a.teen_id
		WHERE a.therapist_id = $1
		ORDER BY t.unique_display_id`

	rows, err := r.db.Query(ctx, query, therapistID)
	if err != nil {
		return nil, fmt.Errorf("%w: list patients: %v", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	patients := make([]domain.Patient, 0)
	for rows.Next() {
		var p domain.Patient
		if err := rows.Scan(&p.ID, &p.UniqueDisplayID, &p.ConsentToShare); err != nil {
			return nil, fmt.Errorf("%w: scan patient: %v", domain.ErrStoreUnavailable, err)
		}
		patients = append(patients, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate patients: %v", domain.ErrStoreUnavailable, err)
	}
	return patients, nil
}

// IsAssigned reports whether patientID is assigned to therapistID.
func (r *PatientRepository) IsAssigned(ctx context.Context, therapistID, patientID string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM therapist_teen_assignments
			WHERE therapist_id = $1 AND teen_id = $2
		)`

	var ok bool
	if err := r.db.QueryRow(ctx, query, therapistID, patientID).Scan(&ok); err != nil {
		return false, fmt.Errorf("%w: check assignment: %v", domain.ErrStoreUnavailable, err)
	}
	return ok, nil
}
