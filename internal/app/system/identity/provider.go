// internal/app/system/identity/provider.go
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Provider is the account-administration surface of the external identity
// provider. Token issuance, password verification, and sign-in live on the
// provider; this service only provisions and removes accounts.
type Provider interface {
	// Create provisions a new identity and returns its subject id. When
	// password is empty the account is created disabled, to be activated
	// by the password-setup flow.
	Create(ctx context.Context, email, password string) (uid string, err error)
	// Delete removes an identity.
	Delete(ctx context.Context, uid string) error
	// SetPassword sets the password on a disabled (invited) account and
	// enables it.
	SetPassword(ctx context.Context, uid, password string) error
	// ExistsByEmail reports whether an identity already uses the email.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// ErrEmailTaken is returned by Create when the email is already registered.
var ErrEmailTaken = errors.New("email already registered with identity provider")

// AdminClient talks to the identity provider's admin REST API.
type AdminClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewAdminClient creates a client for the provider admin API.
func NewAdminClient(baseURL, apiKey string) *AdminClient {
	return &AdminClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type createAccountRequest struct {
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Disabled bool   `json:"disabled"`
}

type accountResponse struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

func (c *AdminClient) Create(ctx context.Context, email, password string) (string, error) {
	body := createAccountRequest{
		Email:    email,
		Password: password,
		Disabled: password == "",
	}
	var resp accountResponse
	status, err := c.do(ctx, http.MethodPost, "/v1/accounts", body, &resp)
	if err != nil {
		return "", err
	}
	switch status {
	case http.StatusOK, http.StatusCreated:
		return resp.UID, nil
	case http.StatusConflict:
		return "", ErrEmailTaken
	default:
		return "", fmt.Errorf("identity provider create: unexpected status %d", status)
	}
}

func (c *AdminClient) Delete(ctx context.Context, uid string) error {
	status, err := c.do(ctx, http.MethodDelete, "/v1/accounts/"+url.PathEscape(uid), nil, nil)
	if err != nil {
		return err
	}
	// 404 means the identity is already gone, which is the desired state.
	if status != http.StatusOK && status != http.StatusNoContent && status != http.StatusNotFound {
		return fmt.Errorf("identity provider delete: unexpected status %d", status)
	}
	return nil
}

func (c *AdminClient) SetPassword(ctx context.Context, uid, password string) error {
	body := map[string]any{"password": password, "disabled": false}
	status, err := c.do(ctx, http.MethodPost, "/v1/accounts/"+url.PathEscape(uid)+"/password", body, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusNoContent {
		return fmt.Errorf("identity provider set password: unexpected status %d", status)
	}
	return nil
}

func (c *AdminClient) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var resp accountResponse
	status, err := c.do(ctx, http.MethodGet,
		"/v1/accounts:lookup?email="+url.QueryEscape(email), nil, &resp)
	if err != nil {
		return false, err
	}
	switch status {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("identity provider lookup: unexpected status %d", status)
	}
}

func (c *AdminClient) do(ctx context.Context, method, path string, body, out any) (int, error) {
	var rd *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		rd = bytes.NewReader(raw)
	} else {
		rd = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode identity provider response: %w", err)
		}
	}
	return resp.StatusCode, nil
}
