package token

import (
	"errors"
	"fmt"
	"time"

	"aegis-dashboard/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the shortest HS256 secret accepted.
const MinSecretLength = 32

// JWTConfig holds access token configuration.
type JWTConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// accessClaims is the JWT body of a dashboard access token.
type accessClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	Sid   string `json:"sid"`
	jwt.RegisteredClaims
}

// JWTService issues and verifies dashboard access tokens.
// Implements domain.AccessTokenIssuer and domain.AccessTokenVerifier.
type JWTService struct {
	cfg JWTConfig
	now func() time.Time
}

// NewJWTService creates a JWT service, rejecting weak secrets.
func NewJWTService(cfg JWTConfig) (*JWTService, error) {
	if len(cfg.Secret) < MinSecretLength {
		return nil, fmt.Errorf("%w: need at least %d bytes", domain.ErrTokenSecretWeak, MinSecretLength)
	}
	return &JWTService{cfg: cfg, now: time.Now}, nil
}

// IssueAccessToken signs a token for identity carrying role.
func (j *JWTService) IssueAccessToken(identity *domain.Identity, role string) (string, time.Time, error) {
	now := j.now()
	expiresAt := now.Add(j.cfg.TTL)
	claims := accessClaims{
		Email: identity.Email,
		Role:  role,
		Sid:   identity.SessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.cfg.Issuer,
			Audience:  jwt.ClaimStrings{j.cfg.Audience},
			Subject:   identity.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(j.cfg.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %v", domain.ErrTokenGeneration, err)
	}
	return signed, expiresAt, nil
}

// VerifyAccessToken validates signature, issuer, audience and expiry.
func (j *JWTService) VerifyAccessToken(tokenStr string) (*domain.AccessClaims, error) {
	claims := &accessClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (any, error) {
		return []byte(j.cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.cfg.Issuer),
		jwt.WithAudience(j.cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, errors.Join(domain.ErrInvalidAccessToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", domain.ErrInvalidAccessToken)
	}

	return &domain.AccessClaims{
		Subject:   claims.Subject,
		Email:     claims.Email,
		SessionID: claims.Sid,
		Role:      claims.Role,
	}, nil
}
