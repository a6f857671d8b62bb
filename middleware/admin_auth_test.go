package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdminAuth(t *testing.T) {
	const secret = "admin-secret-for-bulk-operations"

	tests := []struct {
		name     string
		secret   string
		header   string
		wantCode int
	}{
		{"valid", secret, secret, http.StatusOK},
		{"missing header", secret, "", http.StatusUnauthorized},
		{"wrong secret", secret, "nope", http.StatusForbidden},
		{"unconfigured rejects everything", "", "anything", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/test", nil)
			if tt.header != "" {
				req.Header.Set("X-Admin-Auth", tt.header)
			}
			rec := serve(AdminAuth(tt.secret), req)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
