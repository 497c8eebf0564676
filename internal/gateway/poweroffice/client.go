// Package poweroffice is a minimal client for the PowerOffice Go API. It
// authenticates with the integration's application/client key pair and
// fetches the reference lists reconciliation needs; it performs no business
// logic.
package poweroffice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrAuthFailed indicates the key pair was rejected.
	ErrAuthFailed = errors.New("poweroffice: authentication failed")
	// ErrRequestFailed indicates a non-2xx API response.
	ErrRequestFailed = errors.New("poweroffice: request failed")
)

// Client wraps interactions with the PowerOffice Go API.
type Client struct {
	authURL    string
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a new client.
func NewClient(authURL, baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		authURL:    strings.TrimRight(authURL, "/"),
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// Authenticate exchanges the key pair for an access token.
func (c *Client) Authenticate(ctx context.Context, applicationKey, clientKey string) (*Session, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/OAuth/Token", c.authURL), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(applicationKey, clientKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("poweroffice: token request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: status %d", ErrAuthFailed, resp.StatusCode)
	}
	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("poweroffice: decode token: %w", err)
	}
	if token.AccessToken == "" {
		return nil, ErrAuthFailed
	}
	return &Session{client: c, accessToken: token.AccessToken}, nil
}

// Session is an authenticated API session.
type Session struct {
	client      *Client
	accessToken string
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

func (s *Session) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.client.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.accessToken)
	resp, err := s.client.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("poweroffice: %s: %w", path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: %s: status %d", ErrAuthFailed, path, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: %s: status %d", ErrRequestFailed, path, resp.StatusCode)
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("poweroffice: decode %s: %w", path, err)
	}
	return json.Unmarshal(env.Data, out)
}

// Account is a general ledger account entry.
type Account struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	VATCode     string `json:"vatCode"`
}

// Accounts fetches the chart of accounts.
func (s *Session) Accounts(ctx context.Context) ([]Account, error) {
	var accounts []Account
	if err := s.get(ctx, "/GeneralLedgerAccount", &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// Department is an organisational unit entry.
type Department struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Departments fetches the department list.
func (s *Session) Departments(ctx context.Context) ([]Department, error) {
	var departments []Department
	if err := s.get(ctx, "/Department", &departments); err != nil {
		return nil, err
	}
	return departments, nil
}

// Project is a project registry entry.
type Project struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Projects fetches the project list.
func (s *Session) Projects(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := s.get(ctx, "/Project", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}
