package postgres

import (
	"context"
	"errors"
	"fmt"

	"aegis-dashboard/internal/domain"

	"github.com/jackc/pgx/v5"
)

// TherapistRepository reads the therapists table.
// Implements domain.TherapistRepository.
type TherapistRepository struct {
	db PgxIface
}

// NewTherapistRepository creates a TherapistRepository.
func NewTherapistRepository(db PgxIface) *TherapistRepository {
	return &TherapistRepository{db: db}
}

// FindTherapist returns the therapist row for id, or ErrTherapistNotFound.
func (r *TherapistRepository) FindTherapist(ctx context.Context, id string) (*domain.Therapist, error) {
	const query = `SELECT id, full_name FROM therapists WHERE id = $1`

	var t domain.Therapist
	var fullName *string
	err := r.db.QueryRow(ctx, query, id).Scan(&t.ID, &fullName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTherapistNotFound
		}
		return nil, fmt.Errorf("%w: find therapist: %v", domain.ErrStoreUnavailable, err)
	}
	if fullName != nil {
		t.FullName = *fullName
	}
	return &t, nil
}
