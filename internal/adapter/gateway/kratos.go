package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"aegis-dashboard/internal/domain"

	kratos "github.com/ory/kratos-client-go"
)

const kratosCallTimeout = 3 * time.Second

// Kratos message id for "an account with the same identifier exists already".
const kratosDuplicateIdentifierID = "4000007"

// KratosGateway implements domain.IdentityProvider and domain.SessionValidator
// against the Kratos public API using native (token based) flows.
type KratosGateway struct {
	client *kratos.APIClient
}

// NewKratosGateway creates a new Kratos gateway with tuned HTTP transport.
func NewKratosGateway(baseURL string, timeout time.Duration) *KratosGateway {
	configuration := kratos.NewConfiguration()
	configuration.Servers = []kratos.ServerConfiguration{
		{URL: baseURL},
	}

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
	}
	configuration.HTTPClient = &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}

	return &KratosGateway{client: kratos.NewAPIClient(configuration)}
}

// SignIn exchanges email and password for a session token.
func (g *KratosGateway) SignIn(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*kratosCallTimeout)
	defer cancel()

	flow, resp, err := g.client.FrontendAPI.CreateNativeLoginFlow(ctx).Execute()
	if err != nil {
		return nil, unavailable(resp, err)
	}

	body := kratos.UpdateLoginFlowWithPasswordMethod{
		Identifier: email,
		Method:     "password",
		Password:   password,
	}
	result, resp, err := g.client.FrontendAPI.
		UpdateLoginFlow(ctx).
		Flow(flow.Id).
		UpdateLoginFlowBody(kratos.UpdateLoginFlowWithPasswordMethodAsUpdateLoginFlowBody(&body)).
		Execute()
	if err != nil {
		if resp != nil {
			switch resp.StatusCode {
			case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
				return nil, domain.ErrInvalidCredentials
			}
		}
		return nil, unavailable(resp, err)
	}

	token := result.GetSessionToken()
	if token == "" {
		return nil, fmt.Errorf("%w: login returned no session token", domain.ErrIdentityProviderUnavailable)
	}

	session := result.GetSession()
	identity, err := identityFromSession(&session)
	if err != nil {
		return nil, err
	}

	return &domain.AuthSession{
		Token:     token,
		ExpiresAt: identity.ExpiresAt,
		Identity:  *identity,
	}, nil
}

// SignUp registers a password identity. The account is pending until the
// email address is confirmed.
func (g *KratosGateway) SignUp(ctx context.Context, email, password string) (*domain.SignUpResult, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*kratosCallTimeout)
	defer cancel()

	flow, resp, err := g.client.FrontendAPI.CreateNativeRegistrationFlow(ctx).Execute()
	if err != nil {
		return nil, unavailable(resp, err)
	}

	body := kratos.UpdateRegistrationFlowWithPasswordMethod{
		Method:   "password",
		Password: password,
		Traits:   map[string]interface{}{"email": email},
	}
	result, resp, err := g.client.FrontendAPI.
		UpdateRegistrationFlow(ctx).
		Flow(flow.Id).
		UpdateRegistrationFlowBody(kratos.UpdateRegistrationFlowWithPasswordMethodAsUpdateRegistrationFlowBody(&body)).
		Execute()
	if err != nil {
		if resp != nil {
			switch {
			case resp.StatusCode == http.StatusConflict, isDuplicateIdentifier(err):
				return nil, domain.ErrIdentityExists
			case resp.StatusCode == http.StatusBadRequest:
				return nil, fmt.Errorf("%w: %s", domain.ErrRegistrationRejected, openAPIBody(err))
			}
		}
		return nil, unavailable(resp, err)
	}

	identity := result.GetIdentity()
	return &domain.SignUpResult{
		UserID:              identity.Id,
		PendingConfirmation: result.GetSessionToken() == "",
	}, nil
}

// SignOut revokes a session token. Tokens Kratos no longer knows are
// treated as already signed out.
func (g *KratosGateway) SignOut(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return domain.ErrMissingSessionToken
	}

	ctx, cancel := context.WithTimeout(ctx, kratosCallTimeout)
	defer cancel()

	resp, err := g.client.FrontendAPI.
		PerformNativeLogout(ctx).
		PerformNativeLogoutBody(kratos.PerformNativeLogoutBody{SessionToken: sessionToken}).
		Execute()
	if err != nil {
		if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			return nil
		}
		return unavailable(resp, err)
	}
	return nil
}

// ValidateSession resolves a session token through /sessions/whoami.
func (g *KratosGateway) ValidateSession(ctx context.Context, sessionToken string) (*domain.Identity, error) {
	if sessionToken == "" {
		return nil, domain.ErrMissingSessionToken
	}

	ctx, cancel := context.WithTimeout(ctx, kratosCallTimeout)
	defer cancel()

	session, resp, err := g.client.FrontendAPI.ToSession(ctx).XSessionToken(sessionToken).Execute()
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, domain.ErrAuthFailed
		}
		return nil, unavailable(resp, err)
	}

	return identityFromSession(session)
}

// HealthCheck reports whether the Kratos public API answers.
func (g *KratosGateway) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, kratosCallTimeout)
	defer cancel()

	_, resp, err := g.client.MetadataAPI.GetVersion(ctx).Execute()
	if err != nil {
		return unavailable(resp, err)
	}
	return nil
}

func identityFromSession(session *kratos.Session) (*domain.Identity, error) {
	if session == nil {
		return nil, domain.ErrMissingIdentity
	}
	if session.Active != nil && !*session.Active {
		return nil, domain.ErrSessionInactive
	}
	if !session.HasIdentity() {
		return nil, domain.ErrMissingIdentity
	}

	ident := session.GetIdentity()
	if ident.Id == "" {
		return nil, domain.ErrMissingIdentity
	}

	email := ""
	if traits, ok := ident.Traits.(map[string]interface{}); ok {
		if emailStr, ok := traits["email"].(string); ok {
			email = emailStr
		}
	}

	return &domain.Identity{
		UserID:    ident.Id,
		Email:     email,
		SessionID: session.Id,
		ExpiresAt: session.GetExpiresAt(),
	}, nil
}

func unavailable(resp *http.Response, err error) error {
	if resp != nil {
		return fmt.Errorf("%w: kratos returned status %d", domain.ErrIdentityProviderUnavailable, resp.StatusCode)
	}
	return fmt.Errorf("%w: %w", domain.ErrIdentityProviderUnavailable, err)
}

func openAPIBody(err error) string {
	var apiErr *kratos.GenericOpenAPIError
	if errors.As(err, &apiErr) {
		return strings.TrimSpace(string(apiErr.Body()))
	}
	return err.Error()
}

func isDuplicateIdentifier(err error) bool {
	var apiErr *kratos.GenericOpenAPIError
	if !errors.As(err, &apiErr) {
		return false
	}
	body := apiErr.Body()
	return bytes.Contains(body, []byte(kratosDuplicateIdentifierID)) ||
		bytes.Contains(body, []byte("exists already"))
}
