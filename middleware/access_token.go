package middleware

import (
	"net/http"
	"strings"

	"aegis-dashboard/internal/domain"
	"aegis-dashboard/utils/logger"

	"github.com/labstack/echo/v4"
)

// ClaimsContextKey is the echo context key holding *domain.AccessClaims.
const ClaimsContextKey = "aegis.claims"

// AccessToken requires a Bearer access token carrying requiredRole.
func AccessToken(verifier domain.AccessTokenVerifier, requiredRole string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			claims, err := verifier.VerifyAccessToken(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if claims.Role != requiredRole {
				return echo.NewHTTPError(http.StatusForbidden, "therapist access required")
			}

			c.Set(ClaimsContextKey, claims)
			req := c.Request()
			c.SetRequest(req.WithContext(logger.WithTherapistID(req.Context(), claims.Subject)))
			return next(c)
		}
	}
}

// ClaimsFrom returns the claims stored by AccessToken.
func ClaimsFrom(c echo.Context) (*domain.AccessClaims, bool) {
	claims, ok := c.Get(ClaimsContextKey).(*domain.AccessClaims)
	return claims, ok && claims != nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
