// Package keyring stores secrets in the host credential manager (macOS
// Keychain, Secret Service on Linux, Windows Credential Manager).
package keyring

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/tokenkeeper/pkg/securestore"
	"github.com/zalando/go-keyring"
)

// DefaultService is the service name entries are filed under.
const DefaultService = "tokenkeeper"

// Store writes each secret as its own keyring entry under a shared service.
type Store struct {
	service string
}

var _ securestore.Store = (*Store)(nil)

func NewStore(service string) *Store {
	if service == "" {
		service = DefaultService
	}
	return &Store{service: service}
}

// Probe checks the keyring is usable by writing and removing a throwaway
// entry. Headless Linux hosts commonly have no Secret Service running.
func (s *Store) Probe() error {
	const probeKey = "tokenkeeper::probe"
	if err := keyring.Set(s.service, probeKey, "probe"); err != nil {
		return fmt.Errorf("keyring unavailable: %w", err)
	}
	_ = keyring.Delete(s.service, probeKey) // Best-effort cleanup
	return nil
}

func (s *Store) Save(_ context.Context, key, value string) error {
	return keyring.Set(s.service, key, value)
}

func (s *Store) Load(_ context.Context, key string) (string, error) {
	v, err := keyring.Get(s.service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", securestore.ErrNotFound
	}
	return v, err
}

func (s *Store) Delete(_ context.Context, key string) error {
	err := keyring.Delete(s.service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
