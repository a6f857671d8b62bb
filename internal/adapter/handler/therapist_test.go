package handler

import (
	"net/http"
	"testing"

	"aegis-dashboard/internal/domain"
	"aegis-dashboard/internal/mocks"
	"aegis-dashboard/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestTherapistHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	therapists := mocks.NewMockTherapistRepository(ctrl)
	patients := mocks.NewMockPatientRepository(ctrl)
	l := discardLogger()

	h := NewTherapistHandler(usecase.NewGetTherapistProfile(therapists, l), usecase.NewListPatients(patients, l))
	e := newTestEcho()
	e.GET("/v1/therapist", h.Profile, asTherapist("u1"))
	e.GET("/v1/patients", h.Patients, asTherapist("u1"))
	e.GET("/v1/unauthenticated", h.Patients)

	t.Run("profile", func(t *testing.T) {
		therapists.EXPECT().FindTherapist(gomock.Any(), "u1").Return(&domain.Therapist{ID: "u1", FullName: "Dr. Reyes"}, nil)

		rec := doJSON(e, http.MethodGet, "/v1/therapist", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "Dr. Reyes", body["full_name"])
		assert.Equal(t, "u1@example.com", body["email"])
	})

	t.Run("revoked therapist", func(t *testing.T) {
		therapists.EXPECT().FindTherapist(gomock.Any(), "u1").Return(nil, domain.ErrTherapistNotFound)

		rec := doJSON(e, http.MethodGet, "/v1/therapist", "", nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("patients", func(t *testing.T) {
		patients.EXPECT().ListAssignedPatients(gomock.Any(), "u1").Return([]domain.Patient{
			{ID: "p1", UniqueDisplayID: "T-001", ConsentToShare: true},
			{ID: "p2", UniqueDisplayID: "T-002"},
		}, nil)

		rec := doJSON(e, http.MethodGet, "/v1/patients", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		list := decode(t, rec)["patients"].([]any)
		require.Len(t, list, 2)
		assert.Equal(t, "T-001", list[0].(map[string]any)["unique_display_id"])
	})

	t.Run("empty caseload renders empty list", func(t *testing.T) {
		patients.EXPECT().ListAssignedPatients(gomock.Any(), "u1").Return(nil, nil)

		rec := doJSON(e, http.MethodGet, "/v1/patients", "", nil)
		assert.JSONEq(t, `{"patients":[]}`, rec.Body.String())
	})

	t.Run("missing claims", func(t *testing.T) {
		rec := doJSON(e, http.MethodGet, "/v1/unauthenticated", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
