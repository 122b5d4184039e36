package authsdk

import (
	"context"
	"time"

	"github.com/aussiebroadwan/tokenkeeper/pkg/jwtx"
	"github.com/aussiebroadwan/tokenkeeper/pkg/metrics"
	"github.com/aussiebroadwan/tokenkeeper/pkg/securestore"
)

// tokenState is the single identity a Manager tracks. Expiries are derived
// from the tokens and only ever assigned through setAccess and setRefresh.
type tokenState struct {
	access     string
	refresh    string
	accessExp  time.Time
	refreshExp time.Time
	username   string
	password   string
}

// expiryOf returns the token's expiry, or the zero time which every check
// treats as already expired.
func expiryOf(token string) time.Time {
	exp, _ := jwtx.ExtractExpiry(token)
	return exp
}

func (s *tokenState) setAccess(token string) {
	s.access = token
	s.accessExp = expiryOf(token)
}

func (s *tokenState) setRefresh(token string) {
	s.refresh = token
	s.refreshExp = expiryOf(token)
}

func (s *tokenState) hasCredentials() bool {
	return s.username != "" && s.password != ""
}

func (m *Manager) snapshot() tokenState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// persist writes key/value pairs to the store before the caller publishes
// them in memory. Failures are logged and counted, never returned.
func (m *Manager) persist(ctx context.Context, kv ...string) {
	// The network call already succeeded, a cancelled caller must not drop
	// the write.
	ctx = context.WithoutCancel(ctx)

	for i := 0; i+1 < len(kv); i += 2 {
		if err := m.store.Save(ctx, kv[i], kv[i+1]); err != nil {
			m.logger(ctx).Warn("secure store write failed", "key", kv[i], "error", err)
			m.metrics.RecordStoreError("save")
		}
	}
}

func (m *Manager) setTokens(ctx context.Context, access, refresh string) {
	m.persist(ctx,
		securestore.KeyAccessToken, access,
		securestore.KeyRefreshToken, refresh,
	)

	m.mu.Lock()
	m.state.setAccess(access)
	m.state.setRefresh(refresh)
	exp := m.state.accessExp
	m.mu.Unlock()

	m.metrics.SetAccessTokenExpiry(exp)
}

func (m *Manager) setAccess(ctx context.Context, access string) {
	m.persist(ctx, securestore.KeyAccessToken, access)

	m.mu.Lock()
	m.state.setAccess(access)
	exp := m.state.accessExp
	m.mu.Unlock()

	m.metrics.SetAccessTokenExpiry(exp)
}

func (m *Manager) setCredentials(ctx context.Context, username, password string) {
	m.persist(ctx,
		securestore.KeyUsername, username,
		securestore.KeyPassword, password,
	)

	m.mu.Lock()
	m.state.username = username
	m.state.password = password
	m.mu.Unlock()
}

// restore loads every secret from the store. Absent keys stay empty.
func (m *Manager) restore(ctx context.Context) error {
	values := make(map[string]string, len(securestore.Keys))
	for _, key := range securestore.Keys {
		v, err := securestore.LoadOrEmpty(ctx, m.store, key)
		if err != nil {
			m.metrics.RecordStoreError("load")
			return err
		}
		values[key] = v
	}

	m.mu.Lock()
	m.state.setAccess(values[securestore.KeyAccessToken])
	m.state.setRefresh(values[securestore.KeyRefreshToken])
	m.state.username = values[securestore.KeyUsername]
	m.state.password = values[securestore.KeyPassword]
	st := m.state
	m.mu.Unlock()

	m.metrics.SetAccessTokenExpiry(st.accessExp)

	m.logger(ctx).Info("session restored",
		"has_access_token", st.access != "",
		"has_refresh_token", st.refresh != "",
		"has_credentials", st.hasCredentials(),
		"access_expires_at", st.accessExp,
		"refresh_expires_at", st.refreshExp,
	)
	return nil
}

// clear forgets everything, in memory and in the store. Deletes are attempted
// for every key, the first failure is returned.
func (m *Manager) clear(ctx context.Context) error {
	var firstErr error
	for _, key := range securestore.Keys {
		if err := m.store.Delete(ctx, key); err != nil {
			m.metrics.RecordStoreError("delete")
			m.logger(ctx).Warn("secure store delete failed", "key", key, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	m.mu.Lock()
	m.state = tokenState{}
	m.mu.Unlock()

	m.metrics.SetAccessTokenExpiry(time.Time{})
	return firstErr
}

// recordOutcome keeps the metric labels in one place.
func (m *Manager) recordOutcome(op string, o outcome) {
	switch {
	case o.ok:
		m.metrics.RecordOperation(op, metrics.ResultOK)
	case o.inProgress:
		m.metrics.RecordOperation(op, metrics.ResultInProgress)
	default:
		m.metrics.RecordOperation(op, metrics.ResultFailed)
	}
}
