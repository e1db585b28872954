// Package authsvc provides a client for an external credential
// verification service. RaceNight never stores passwords itself; logins
// are checked against this service and accounts are provisioned from
// the identity it returns.
package authsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/abrezinsky/racenight/internal/logger"
)

// ErrInvalidCredentials is returned when the service rejects the login.
var ErrInvalidCredentials = errors.New("authsvc: invalid credentials")

// Identity is the verified account identity returned by the service
type Identity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// verifyResponse is the wire response from the verify endpoint
type verifyResponse struct {
	Outcome  string   `json:"outcome"`
	Error    string   `json:"error,omitempty"`
	Identity Identity `json:"identity"`
}

// Client defines the interface for credential verification
type Client interface {
	// Verify checks an email/password pair and returns the identity on success
	Verify(ctx context.Context, email, password string) (*Identity, error)
	// BaseURL returns the configured service base URL
	BaseURL() string
	// SetBaseURL updates the service base URL
	SetBaseURL(url string)
}

// Ensure HTTPClient implements Client
var _ Client = (*HTTPClient)(nil)

// HTTPClient is a real HTTP client for the verification service
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	log        logger.Logger
}

// NewHTTPClient creates a new verification client
func NewHTTPClient(baseURL string, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// NewHTTPClientWithHTTPClient creates a verification client with a custom http.Client
func NewHTTPClientWithHTTPClient(baseURL string, httpClient *http.Client, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: httpClient,
		log:        log,
	}
}

// BaseURL returns the configured service base URL
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// SetBaseURL updates the service base URL
func (c *HTTPClient) SetBaseURL(url string) {
	c.baseURL = url
}

// Verify checks an email/password pair against the service
func (c *HTTPClient) Verify(ctx context.Context, email, password string) (*Identity, error) {
	payload, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	apiURL := fmt.Sprintf("%s/api/verify", c.baseURL)
	c.log.Debug("Credential verification request", "url", apiURL, "email", email)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to auth service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debug("Credential verification response", "status", resp.StatusCode)

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrInvalidCredentials
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth service returned status %d: %s", resp.StatusCode, string(body))
	}

	var response verifyResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if response.Outcome != "success" {
		if response.Error != "" {
			c.log.Debug("Credential verification refused", "error", response.Error)
		}
		return nil, ErrInvalidCredentials
	}
	if response.Identity.Email == "" {
		return nil, fmt.Errorf("auth service returned no identity")
	}
	return &response.Identity, nil
}
