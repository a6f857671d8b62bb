package handler

import (
	"net/http"
	"time"

	"aegis-dashboard/internal/domain"
	"aegis-dashboard/internal/usecase"

	"github.com/labstack/echo/v4"
)

// SessionHandler reports which screen the client should render.
type SessionHandler struct {
	uc *usecase.GetSession
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(uc *usecase.GetSession) *SessionHandler {
	return &SessionHandler{uc: uc}
}

type sessionResponse struct {
	Screen         domain.Screen `json:"screen"`
	User           *userResponse `json:"user,omitempty"`
	IsTherapist    bool          `json:"is_therapist"`
	AccessToken    string        `json:"access_token,omitempty"`
	AccessTokenExp *time.Time    `json:"access_token_expires_at,omitempty"`
}

// Handle processes GET /v1/auth/session.
func (h *SessionHandler) Handle(c echo.Context) error {
	result, err := h.uc.Execute(c.Request().Context(), c.Request().Header.Get(SessionTokenHeader))
	if err != nil {
		return mapDomainError(err)
	}

	resp := sessionResponse{
		Screen:      result.Screen,
		IsTherapist: result.IsTherapist,
		AccessToken: result.AccessToken,
	}
	if result.Identity != nil {
		resp.User = &userResponse{ID: result.Identity.UserID, Email: result.Identity.Email}
	}
	if result.AccessToken != "" {
		exp := result.ExpiresAt
		resp.AccessTokenExp = &exp
	}
	return c.JSON(http.StatusOK, resp)
}
