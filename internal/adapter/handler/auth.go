package handler

import (
	"net/http"
	"time"

	"aegis-dashboard/internal/domain"
	"aegis-dashboard/internal/usecase"

	"github.com/labstack/echo/v4"
)

// SessionTokenHeader carries the identity provider session token.
const SessionTokenHeader = "X-Session-Token"

// AuthHandler serves the sign-in, sign-up and sign-out endpoints.
type AuthHandler struct {
	signIn  *usecase.SignIn
	signUp  *usecase.SignUp
	signOut *usecase.SignOut
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(in *usecase.SignIn, up *usecase.SignUp, out *usecase.SignOut) *AuthHandler {
	return &AuthHandler{signIn: in, signUp: up, signOut: out}
}

type signInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type signUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type signInResponse struct {
	SessionToken string       `json:"session_token"`
	ExpiresAt    time.Time    `json:"expires_at"`
	User         userResponse `json:"user"`
}

type signUpResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// SignIn handles POST /v1/auth/sign-in.
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	session, err := h.signIn.Execute(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(http.StatusOK, signInResponse{
		SessionToken: session.Token,
		ExpiresAt:    session.ExpiresAt,
		User: userResponse{
			ID:    session.Identity.UserID,
			Email: session.Identity.Email,
		},
	})
}

// SignUp handles POST /v1/auth/sign-up.
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.signUp.Execute(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return mapDomainError(err)
	}

	resp := signUpResponse{Status: "registered", Message: "Sign up successful."}
	if result.PendingConfirmation {
		resp = signUpResponse{Status: "pending_confirmation", Message: domain.SignUpPendingMessage}
	}
	return c.JSON(http.StatusAccepted, resp)
}

// SignOut handles POST /v1/auth/sign-out.
func (h *AuthHandler) SignOut(c echo.Context) error {
	token := c.Request().Header.Get(SessionTokenHeader)
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "session token not found")
	}

	if err := h.signOut.Execute(c.Request().Context(), token); err != nil {
		return mapDomainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
