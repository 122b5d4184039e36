// Package securestore defines the key/value collaborator used to persist
// credentials across process restarts, along with an in-memory driver.
//
// Concrete drivers live under drivers/: sqlite (encrypted at rest) and
// keyring (the host's credential manager).
package securestore

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("securestore: not found")

// Logical keys for the four secrets a session persists.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyUsername     = "username"
	KeyPassword     = "password"
)

// Keys lists every key a session writes, in a stable order.
var Keys = []string{KeyAccessToken, KeyRefreshToken, KeyUsername, KeyPassword}

// Store persists opaque string secrets. Implementations must be safe for
// concurrent use.
type Store interface {
	// Save creates or overwrites the value for key.
	Save(ctx context.Context, key, value string) error

	// Load returns the value for key or ErrNotFound.
	Load(ctx context.Context, key string) (string, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Pinger is implemented by stores backed by a connection that can go away.
type Pinger interface {
	Ping(ctx context.Context) error
}

// LoadOrEmpty returns the stored value or "" when the key is absent. Any other
// failure is returned so the caller can decide whether it matters.
func LoadOrEmpty(ctx context.Context, s Store, key string) (string, error) {
	v, err := s.Load(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return v, err
}
