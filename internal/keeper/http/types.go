package http

import (
	"context"
	"time"
)

// TokenManager is the slice of *authsdk.Manager the API serves.
type TokenManager interface {
	AccessToken(ctx context.Context, forceValidate bool) (string, error)
	Login(ctx context.Context, name, password string) (int, bool)
	Refresh(ctx context.Context) (int, bool)
	TenantID(token string) (string, bool)
	Logout(ctx context.Context) error
}

// TokenResponse is returned by GET /v1/token.
type TokenResponse struct {
	// AccessToken is the bearer credential.
	AccessToken string `json:"access_token"`

	// TokenType is always "Bearer".
	TokenType string `json:"token_type"`

	// ExpiresAt is read from the token's exp claim when present.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// LoginRequest is the body of POST /v1/login.
type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// OperationResponse reports the auth server's answer to a login or refresh.
type OperationResponse struct {
	// Status is the auth server's HTTP status.
	Status int `json:"status"`

	// Success is true when new tokens were installed.
	Success bool `json:"success"`
}

// TenantResponse is returned by GET /v1/tenant.
type TenantResponse struct {
	TenantID string `json:"tenant_id"`
}

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the status of the keeper's dependencies.
type HealthChecks struct {
	// Store is the secure store status.
	Store string `json:"store"`
}
