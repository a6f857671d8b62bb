// Package apiclient is a small client for the dashboard HTTP API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrNotTherapist is returned when the session is valid but lacks dashboard access.
var ErrNotTherapist = errors.New("signed-in account is not a therapist")

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client talks to one dashboard server.
type Client struct {
	baseURL      string
	http         *http.Client
	sessionToken string
	adminSecret  string
}

// New creates a client for baseURL.
func New(baseURL string, timeout time.Duration, sessionToken, adminSecret string) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		http:         &http.Client{Timeout: timeout},
		sessionToken: sessionToken,
		adminSecret:  adminSecret,
	}
}

// SignInResult is the body of a successful sign-in.
type SignInResult struct {
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

// User identifies an account.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// SessionState is the body of GET /v1/auth/session.
type SessionState struct {
	Screen      string `json:"screen"`
	User        *User  `json:"user"`
	IsTherapist bool   `json:"is_therapist"`
	AccessToken string `json:"access_token"`
}

// Patient is one assigned patient.
type Patient struct {
	ID              string `json:"id"`
	UniqueDisplayID string `json:"unique_display_id"`
	ConsentToShare  bool   `json:"consent_to_share"`
}

// Summary is one summary as rendered by the API.
type Summary struct {
	ID                string    `json:"id"`
	CreatedAt         time.Time `json:"created_at"`
	MoodCues          []string  `json:"mood_cues"`
	PossibleStressors []string  `json:"possible_stressors"`
	SuggestedFollowUp string    `json:"suggested_follow_up"`
	Display           struct {
		MoodCues          string `json:"mood_cues"`
		PossibleStressors string `json:"possible_stressors"`
		SuggestedFollowUp string `json:"suggested_follow_up"`
	} `json:"display"`
}

// SessionGroup is one session inside a day.
type SessionGroup struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Summaries []Summary `json:"summaries"`
}

// DayGroup is one calendar day of sessions.
type DayGroup struct {
	Date     string         `json:"date"`
	Count    int            `json:"count"`
	Sessions []SessionGroup `json:"sessions"`
}

// Sessions is the body of GET /v1/patients/:id/sessions.
type Sessions struct {
	GapMinutes  float64    `json:"gap_minutes"`
	Timezone    string     `json:"timezone"`
	Total       int        `json:"total"`
	Quarantined int        `json:"quarantined"`
	Days        []DayGroup `json:"days"`
}

// SessionQuery narrows a sessions request. Empty fields and a nil Gap use
// server defaults.
type SessionQuery struct {
	Start    string
	End      string
	Gap      *float64
	Timezone string
}

// SignIn exchanges credentials for a session token.
func (c *Client) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	var out SignInResult
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/v1/auth/sign-in", nil, body, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Session reports the state of the configured session token.
func (c *Client) Session(ctx context.Context) (*SessionState, error) {
	var out SessionState
	h := http.Header{"X-Session-Token": []string{c.sessionToken}}
	if err := c.do(ctx, http.MethodGet, "/v1/auth/session", nil, nil, h, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Patients lists the therapist's assigned patients.
func (c *Client) Patients(ctx context.Context) ([]Patient, error) {
	h, err := c.bearer(ctx)
	if err != nil {
		return nil, err
	}
	var out struct {
		Patients []Patient `json:"patients"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/patients", nil, nil, h, &out); err != nil {
		return nil, err
	}
	return out.Patients, nil
}

// Sessions fetches a patient's summaries grouped into sessions.
func (c *Client) Sessions(ctx context.Context, patientID string, q SessionQuery) (*Sessions, error) {
	h, err := c.bearer(ctx)
	if err != nil {
		return nil, err
	}
	v := url.Values{}
	if q.Start != "" {
		v.Set("start", q.Start)
	}
	if q.End != "" {
		v.Set("end", q.End)
	}
	if q.Gap != nil {
		v.Set("gap", strconv.FormatFloat(*q.Gap, 'f', -1, 64))
	}
	if q.Timezone != "" {
		v.Set("tz", q.Timezone)
	}

	var out Sessions
	path := "/v1/patients/" + url.PathEscape(patientID) + "/sessions"
	if err := c.do(ctx, http.MethodGet, path, v, nil, h, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PurgeSummaries deletes every summary. confirmation must be the exact phrase.
func (c *Client) PurgeSummaries(ctx context.Context, confirmation string) (int64, error) {
	h := http.Header{"X-Admin-Auth": []string{c.adminSecret}}
	var out struct {
		Deleted int64 `json:"deleted"`
	}
	body := map[string]string{"confirmation": confirmation}
	if err := c.do(ctx, http.MethodDelete, "/v1/admin/summaries", nil, body, h, &out); err != nil {
		return 0, err
	}
	return out.Deleted, nil
}

// bearer resolves the session into an access token header.
func (c *Client) bearer(ctx context.Context) (http.Header, error) {
	if c.sessionToken == "" {
		return nil, errors.New("no session token configured; run aegisctl login")
	}
	state, err := c.Session(ctx)
	if err != nil {
		return nil, err
	}
	if !state.IsTherapist || state.AccessToken == "" {
		if state.User == nil {
			return nil, &APIError{Status: http.StatusUnauthorized, Message: "session is no longer valid"}
		}
		return nil, ErrNotTherapist
	}
	return http.Header{"Authorization": []string{"Bearer " + state.AccessToken}}, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, headers http.Header, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(data, &e)
		if e.Message == "" {
			e.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: e.Message}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
