package handler

import (
	"net/http"

	"aegis-dashboard/internal/usecase"

	"github.com/labstack/echo/v4"
)

// AdminHandler serves destructive maintenance operations.
type AdminHandler struct {
	purge *usecase.PurgeSummaries
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(purge *usecase.PurgeSummaries) *AdminHandler {
	return &AdminHandler{purge: purge}
}

type purgeRequest struct {
	Confirmation string `json:"confirmation" validate:"required"`
}

// PurgeSummaries handles DELETE /v1/admin/summaries.
func (h *AdminHandler) PurgeSummaries(c echo.Context) error {
	var req purgeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	n, err := h.purge.Execute(c.Request().Context(), req.Confirmation)
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"deleted": n})
}
