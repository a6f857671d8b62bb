package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"aegis-dashboard/internal/domain"
	"aegis-dashboard/internal/mocks"
	"aegis-dashboard/utils/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestAccessToken(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		setup    func(v *mocks.MockAccessTokenVerifier)
		wantCode int
	}{
		{
			name:     "missing header",
			setup:    func(*mocks.MockAccessTokenVerifier) {},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "wrong scheme",
			header:   "Basic abc",
			setup:    func(*mocks.MockAccessTokenVerifier) {},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:   "invalid token",
			header: "Bearer bad",
			setup: func(v *mocks.MockAccessTokenVerifier) {
				v.EXPECT().VerifyAccessToken("bad").Return(nil, domain.ErrInvalidAccessToken)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:   "wrong role",
			header: "Bearer tok",
			setup: func(v *mocks.MockAccessTokenVerifier) {
				v.EXPECT().VerifyAccessToken("tok").Return(&domain.AccessClaims{Subject: "u1", Role: "patient"}, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name:   "therapist",
			header: "bearer tok",
			setup: func(v *mocks.MockAccessTokenVerifier) {
				v.EXPECT().VerifyAccessToken("tok").Return(&domain.AccessClaims{Subject: "u1", Role: domain.RoleTherapist}, nil)
			},
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			v := mocks.NewMockAccessTokenVerifier(ctrl)
			tt.setup(v)

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := serve(AccessToken(v, domain.RoleTherapist), req)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestAccessToken_PropagatesClaims(t *testing.T) {
	ctrl := gomock.NewController(t)
	v := mocks.NewMockAccessTokenVerifier(ctrl)
	v.EXPECT().VerifyAccessToken("tok").Return(&domain.AccessClaims{Subject: "u1", Role: domain.RoleTherapist}, nil)

	e := echo.New()
	var gotSubject, gotCtxID string
	e.GET("/test", func(c echo.Context) error {
		claims, ok := ClaimsFrom(c)
		assert.True(t, ok)
		gotSubject = claims.Subject
		gotCtxID, _ = c.Request().Context().Value(logger.TherapistIDKey).(string)
		return c.NoContent(http.StatusOK)
	}, AccessToken(v, domain.RoleTherapist))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer tok")
	e.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "u1", gotSubject)
	assert.Equal(t, "u1", gotCtxID)
}
