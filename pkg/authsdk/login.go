package authsdk

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/aussiebroadwan/tokenkeeper/pkg/cryptox"
	"github.com/aussiebroadwan/tokenkeeper/pkg/jwtx"
	"github.com/aussiebroadwan/tokenkeeper/pkg/metrics"
)

// Login authenticates with name and password and installs the returned token
// pair. Credentials are stored according to the CredentialPolicy. A failed
// login never changes the current tokens.
func (m *Manager) Login(ctx context.Context, name, password string) (int, bool) {
	m.authMu.Lock()
	defer m.authMu.Unlock()

	if m.policy == PersistOnAttempt {
		m.setCredentials(ctx, name, password)
	}

	o := m.login(ctx, metrics.OpLogin, name, password)
	if o.ok && m.policy == PersistOnSuccess {
		m.setCredentials(ctx, name, password)
	}

	return o.status, o.ok
}

// login performs the network call and installs tokens on success. The caller
// holds authMu.
func (m *Manager) login(ctx context.Context, op, name, password string) outcome {
	log := m.logger(ctx).With("op", op, "user", name)

	start := time.Now()
	resp := m.client.PostJSON(m.outboundContext(ctx), m.tokenURL, LoginRequest{Name: name, Password: password})
	m.metrics.ObserveDuration(op, time.Since(start))

	o := outcomeOf(resp)
	if o.ok {
		var pair TokenPair
		if err := json.Unmarshal(resp.Body, &pair); err != nil || pair.Access == "" || pair.Refresh == "" {
			o.ok = false
			o.message = "invalid login response"
			o.err = err
		} else {
			m.setTokens(ctx, pair.Access, pair.Refresh)
			o.token = pair.Access
		}
	}

	m.recordOutcome(op, o)
	if !o.ok {
		log.Info("login failed", "status", o.status, "message", o.message)
		return o
	}

	log.Info("logged in",
		"status", o.status,
		"access_fp", cryptox.Fingerprint(o.token),
		"access_expires_at", expiryOf(o.token),
	)
	return o
}

// reauthenticate logs in again with the stored credentials because the
// refresh token can no longer be used.
func (m *Manager) reauthenticate(ctx context.Context) (string, error) {
	m.authMu.Lock()
	defer m.authMu.Unlock()

	log := m.logger(ctx)

	// Another caller may have replaced the pair while we waited for the lock.
	st := m.snapshot()
	now := m.now()
	if !jwtx.ExpiresWithin(st.refreshExp, m.threshold, now) && !jwtx.ExpiresWithin(st.accessExp, m.threshold, now) {
		log.Debug("session renewed while waiting, skipping reauthentication")
		return st.access, nil
	}

	if !st.hasCredentials() {
		m.metrics.RecordOperation(metrics.OpReauth, metrics.ResultNoCreds)
		log.Info("reauthentication needed but no credentials are stored")
		return "", newTokenError(KindCredentialsMissing, outcome{})
	}

	if !m.reauth.Allow() {
		m.metrics.RecordOperation(metrics.OpReauth, metrics.ResultThrottled)
		log.Warn("reauthentication attempts exhausted", "user", st.username)
		return "", newTokenError(KindAuthFailed, outcome{
			status:  http.StatusTooManyRequests,
			message: "reauthentication attempts exhausted",
		})
	}

	o := m.login(ctx, metrics.OpReauth, st.username, st.password)
	if !o.ok {
		return "", newTokenError(KindAuthFailed, o)
	}
	return o.token, nil
}
