package authsvc

import (
	"context"
	"strings"
)

// MockClient is a mock verification client for testing
type MockClient struct {
	identities map[string]Identity // email -> identity
	passwords  map[string]string   // email -> accepted password
	acceptAll  bool
	verifyErr  error
	baseURL    string
}

// MockOption configures the mock client
type MockOption func(*MockClient)

// WithIdentity registers an account the mock will verify. Any password
// is accepted unless one is set with WithPassword.
func WithIdentity(identity Identity) MockOption {
	return func(m *MockClient) {
		m.identities[identity.Email] = identity
	}
}

// WithPassword pins the accepted password for an email
func WithPassword(email, password string) MockOption {
	return func(m *MockClient) {
		m.passwords[email] = password
	}
}

// WithAcceptAll makes the mock accept any credentials, synthesizing an
// identity from the email. Used for development without a real
// verification service.
func WithAcceptAll() MockOption {
	return func(m *MockClient) {
		m.acceptAll = true
	}
}

// WithVerifyError sets an error to return from Verify
func WithVerifyError(err error) MockOption {
	return func(m *MockClient) {
		m.verifyErr = err
	}
}

// WithBaseURL sets the base URL
func WithBaseURL(url string) MockOption {
	return func(m *MockClient) {
		m.baseURL = url
	}
}

// NewMockClient creates a new mock verification client
func NewMockClient(opts ...MockOption) *MockClient {
	m := &MockClient{
		identities: make(map[string]Identity),
		passwords:  make(map[string]string),
		baseURL:    "http://mock-auth",
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Verify checks against the registered identities
func (m *MockClient) Verify(ctx context.Context, email, password string) (*Identity, error) {
	if m.verifyErr != nil {
		return nil, m.verifyErr
	}
	identity, ok := m.identities[email]
	if !ok {
		if !m.acceptAll {
			return nil, ErrInvalidCredentials
		}
		name := email
		if at := strings.Index(email, "@"); at > 0 {
			name = email[:at]
		}
		identity = Identity{Name: name, Email: email}
	}
	if want, pinned := m.passwords[email]; pinned && want != password {
		return nil, ErrInvalidCredentials
	}
	return &identity, nil
}

// BaseURL returns the configured base URL
func (m *MockClient) BaseURL() string {
	return m.baseURL
}

// SetBaseURL updates the base URL
func (m *MockClient) SetBaseURL(url string) {
	m.baseURL = url
}

// Ensure MockClient implements Client
var _ Client = (*MockClient)(nil)
