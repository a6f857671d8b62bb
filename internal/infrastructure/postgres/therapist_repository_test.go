package postgres

import (
	"context"
	"errors"
	"testing"

	"aegis-dashboard/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindTherapist_Found(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTherapistRepository(mock)

	name := "Dr. Rivera"
	mock.ExpectQuery(`SELECT id, full_name FROM therapists WHERE id = \$1`).
		WithArgs("user-123").
		WillReturnRows(pgxmock.NewRows([]string{"id", "full_name"}).AddRow("user-123", &name))

	therapist, err := repo.FindTherapist(context.Background(), "user-123")
	require.NoError(t, err)
	assert.Equal(t, "user-123", therapist.ID)
	assert.Equal(t, "Dr. Rivera", therapist.FullName)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindTherapist_NoRows(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTherapistRepository(mock)

	mock.ExpectQuery(`SELECT id, full_name FROM therapists WHERE id = \$1`).
		WithArgs("user-404").
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.FindTherapist(context.Background(), "user-404")
	assert.ErrorIs(t, err, domain.ErrTherapistNotFound)
	assert.NotErrorIs(t, err, domain.ErrStoreUnavailable)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindTherapist_QueryFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTherapistRepository(mock)

	mock.ExpectQuery(`SELECT id, full_name FROM therapists WHERE id = \$1`).
		WithArgs("user-123").
		WillReturnError(errors.New("connection reset"))

	_, err = repo.FindTherapist(context.Background(), "user-123")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.NotErrorIs(t, err, domain.ErrTherapistNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}
