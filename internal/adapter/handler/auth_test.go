package handler

import (
	"net/http"
	"testing"
	"time"

	"aegis-dashboard/internal/domain"
	"aegis-dashboard/internal/mocks"
	"aegis-dashboard/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newAuthEcho(t *testing.T) (*echo.Echo, *mocks.MockIdentityProvider, *mocks.MockSessionCache) {
	t.Helper()
	ctrl := gomock.NewController(t)
	idp := mocks.NewMockIdentityProvider(ctrl)
	cache := mocks.NewMockSessionCache(ctrl)
	l := discardLogger()

	h := NewAuthHandler(usecase.NewSignIn(idp, l), usecase.NewSignUp(idp, l), usecase.NewSignOut(idp, cache, l))
	e := newTestEcho()
	e.POST("/v1/auth/sign-in", h.SignIn)
	e.POST("/v1/auth/sign-up", h.SignUp)
	e.POST("/v1/auth/sign-out", h.SignOut)
	return e, idp, cache
}

func TestAuthHandler_SignIn(t *testing.T) {
	e, idp, _ := newAuthEcho(t)
	exp := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	idp.EXPECT().SignIn(gomock.Any(), "dr@example.com", "hunter22").Return(&domain.AuthSession{
		Token:     "session-token",
		ExpiresAt: exp,
		Identity:  domain.Identity{UserID: "u1", Email: "dr@example.com"},
	}, nil)

	rec := doJSON(e, http.MethodPost, "/v1/auth/sign-in", `{"email":"dr@example.com","password":"hunter22"}`, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "session-token", body["session_token"])
	assert.Equal(t, "u1", body["user"].(map[string]any)["id"])
}

func TestAuthHandler_SignInValidation(t *testing.T) {
	e, _, _ := newAuthEcho(t)

	for _, body := range []string{`{"email":"not-an-email","password":"x"}`, `{"email":"a@b.co"}`, `{bad json`} {
		rec := doJSON(e, http.MethodPost, "/v1/auth/sign-in", body, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestAuthHandler_SignInBadCredentials(t *testing.T) {
	e, idp, _ := newAuthEcho(t)
	idp.EXPECT().SignIn(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, domain.ErrInvalidCredentials)

	rec := doJSON(e, http.MethodPost, "/v1/auth/sign-in", `{"email":"dr@example.com","password":"wrong"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_SignUp(t *testing.T) {
	e, idp, _ := newAuthEcho(t)
	idp.EXPECT().SignUp(gomock.Any(), "new@example.com", "long-password").
		Return(&domain.SignUpResult{UserID: "u2", PendingConfirmation: true}, nil)

	rec := doJSON(e, http.MethodPost, "/v1/auth/sign-up", `{"email":"new@example.com","password":"long-password"}`, nil)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "pending_confirmation", body["status"])
	assert.Equal(t, domain.SignUpPendingMessage, body["message"])
}

func TestAuthHandler_SignUpShortPassword(t *testing.T) {
	e, _, _ := newAuthEcho(t)
	rec := doJSON(e, http.MethodPost, "/v1/auth/sign-up", `{"email":"new@example.com","password":"short"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "password must be at least 8 characters long")
}

func TestAuthHandler_SignUpConflict(t *testing.T) {
	e, idp, _ := newAuthEcho(t)
	idp.EXPECT().SignUp(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, domain.ErrIdentityExists)

	rec := doJSON(e, http.MethodPost, "/v1/auth/sign-up", `{"email":"dup@example.com","password":"long-password"}`, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAuthHandler_SignOut(t *testing.T) {
	e, idp, cache := newAuthEcho(t)
	cache.EXPECT().Delete(gomock.Any(), "tok")
	idp.EXPECT().SignOut(gomock.Any(), "tok").Return(nil)

	rec := doJSON(e, http.MethodPost, "/v1/auth/sign-out", "", map[string]string{SessionTokenHeader: "tok"})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(e, http.MethodPost, "/v1/auth/sign-out", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
