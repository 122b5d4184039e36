package authsdk

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/aussiebroadwan/tokenkeeper/pkg/cryptox"
	"github.com/aussiebroadwan/tokenkeeper/pkg/metrics"
)

// Refresh exchanges the refresh token for a new access token. If another
// refresh is already running it returns (409, false) immediately without
// touching the network. A failed refresh leaves the session unchanged.
func (m *Manager) Refresh(ctx context.Context) (int, bool) {
	o := m.refresh(ctx)
	return o.status, o.ok
}

func (m *Manager) refresh(ctx context.Context) outcome {
	log := m.logger(ctx)

	if !m.beginRefresh() {
		log.Warn("refresh rejected, another refresh is in flight")
		o := outcome{
			status:     http.StatusConflict,
			message:    ErrRefreshInProgress.Message,
			inProgress: true,
		}
		m.recordOutcome(metrics.OpRefresh, o)
		return o
	}
	defer m.endRefresh()

	m.authMu.Lock()
	defer m.authMu.Unlock()

	start := time.Now()
	resp := m.client.PostJSON(m.outboundContext(ctx), m.tokenURL, RefreshRequest{Refresh: m.snapshot().refresh})
	m.metrics.ObserveDuration(metrics.OpRefresh, time.Since(start))

	o := outcomeOf(resp)
	if o.ok {
		var body AccessResponse
		if err := json.Unmarshal(resp.Body, &body); err != nil || body.Access == "" {
			o.ok = false
			o.message = "invalid refresh response"
			o.err = err
		} else {
			m.setAccess(ctx, body.Access)
			o.token = body.Access
		}
	}

	m.recordOutcome(metrics.OpRefresh, o)
	if !o.ok {
		log.Info("refresh failed", "status", o.status, "message", o.message)
		return o
	}

	log.Info("access token refreshed",
		"status", o.status,
		"access_fp", cryptox.Fingerprint(o.token),
		"expires_at", expiryOf(o.token),
	)
	return o
}

// beginRefresh claims the in-progress flag, reporting false if it was
// already held.
func (m *Manager) beginRefresh() bool {
	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	if m.refreshing {
		return false
	}
	m.refreshing = true
	return true
}

func (m *Manager) endRefresh() {
	m.refreshMu.Lock()
	m.refreshing = false
	m.refreshMu.Unlock()
}
