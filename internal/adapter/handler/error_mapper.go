package handler

import (
	"errors"
	"net/http"

	"aegis-dashboard/internal/domain"

	"github.com/labstack/echo/v4"
)

// mapDomainError converts a domain error into an appropriate echo.HTTPError.
func mapDomainError(err error) *echo.HTTPError {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrInvalidDateRange):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())

	case errors.Is(err, domain.ErrConfirmationRequired):
		return echo.NewHTTPError(http.StatusBadRequest, "confirmation phrase does not match")

	case errors.Is(err, domain.ErrRegistrationRejected):
		return echo.NewHTTPError(http.StatusBadRequest, "registration rejected")

	case errors.Is(err, domain.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")

	case errors.Is(err, domain.ErrAuthFailed),
		errors.Is(err, domain.ErrSessionInactive),
		errors.Is(err, domain.ErrMissingIdentity),
		errors.Is(err, domain.ErrMissingSessionToken),
		errors.Is(err, domain.ErrInvalidAccessToken):
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")

	case errors.Is(err, domain.ErrNotTherapist),
		errors.Is(err, domain.ErrTherapistNotFound):
		return echo.NewHTTPError(http.StatusForbidden, "therapist access required")

	case errors.Is(err, domain.ErrPatientNotAssigned):
		return echo.NewHTTPError(http.StatusForbidden, "patient is not assigned to you")

	case errors.Is(err, domain.ErrIdentityExists):
		return echo.NewHTTPError(http.StatusConflict, "an account with this email already exists")

	case errors.Is(err, domain.ErrRateLimited):
		return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")

	case errors.Is(err, domain.ErrIdentityProviderUnavailable):
		return echo.NewHTTPError(http.StatusBadGateway, "identity provider unavailable")

	case errors.Is(err, domain.ErrStoreUnavailable):
		return echo.NewHTTPError(http.StatusInternalServerError, "record store unavailable")

	case errors.Is(err, domain.ErrAdminNotConfigured):
		return echo.NewHTTPError(http.StatusInternalServerError, "internal configuration error")

	case errors.Is(err, domain.ErrTokenGeneration),
		errors.Is(err, domain.ErrTokenSecretWeak):
		return echo.NewHTTPError(http.StatusInternalServerError, "token generation error")

	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
