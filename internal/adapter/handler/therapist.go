package handler

import (
	"net/http"

	"aegis-dashboard/internal/domain"
	"aegis-dashboard/internal/usecase"
	"aegis-dashboard/middleware"

	"github.com/labstack/echo/v4"
)

// TherapistHandler serves the signed-in therapist's profile and caseload.
type TherapistHandler struct {
	profile  *usecase.GetTherapistProfile
	patients *usecase.ListPatients
}

// NewTherapistHandler creates a new therapist handler.
func NewTherapistHandler(profile *usecase.GetTherapistProfile, patients *usecase.ListPatients) *TherapistHandler {
	return &TherapistHandler{profile: profile, patients: patients}
}

type therapistResponse struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
}

type patientResponse struct {
	ID              string `json:"id"`
	UniqueDisplayID string `json:"unique_display_id"`
	ConsentToShare  bool   `json:"consent_to_share"`
}

// Profile handles GET /v1/therapist.
func (h *TherapistHandler) Profile(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	t, err := h.profile.Execute(c.Request().Context(), claims.Subject)
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusOK, therapistResponse{ID: t.ID, FullName: t.FullName, Email: claims.Email})
}

// Patients handles GET /v1/patients.
func (h *TherapistHandler) Patients(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	patients, err := h.patients.Execute(c.Request().Context(), claims.Subject)
	if err != nil {
		return mapDomainError(err)
	}

	out := make([]patientResponse, 0, len(patients))
	for _, p := range patients {
		out = append(out, patientResponse{
			ID:              p.ID,
			UniqueDisplayID: p.UniqueDisplayID,
			ConsentToShare:  p.ConsentToShare,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"patients": out})
}

func requireClaims(c echo.Context) (*domain.AccessClaims, error) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return claims, nil
}
