package authsdk

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/tokenkeeper/pkg/httpx"
	"github.com/aussiebroadwan/tokenkeeper/pkg/jwtx"
	"github.com/aussiebroadwan/tokenkeeper/pkg/metrics"
	"github.com/aussiebroadwan/tokenkeeper/pkg/securestore"
	"github.com/aussiebroadwan/tokenkeeper/pkg/slogx"
	"golang.org/x/time/rate"
)

// Transport posts a JSON payload to url. *httpx.Client implements it.
type Transport interface {
	PostJSON(ctx context.Context, url string, payload any) httpx.Response
}

// CredentialPolicy controls when login credentials are written to the store.
type CredentialPolicy int

const (
	// PersistOnSuccess stores credentials only after the server accepted them.
	PersistOnSuccess CredentialPolicy = iota
	// PersistOnAttempt stores credentials before the login call, whatever
	// its outcome.
	PersistOnAttempt
)

func (p CredentialPolicy) String() string {
	if p == PersistOnAttempt {
		return "on-attempt"
	}
	return "on-success"
}

// ParseCredentialPolicy accepts "on-success" and "on-attempt".
func ParseCredentialPolicy(s string) (CredentialPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "on-success":
		return PersistOnSuccess, nil
	case "on-attempt":
		return PersistOnAttempt, nil
	default:
		return PersistOnSuccess, fmt.Errorf("authsdk: unknown credential policy %q", s)
	}
}

// Options configures a Manager. Only TokenURL is usually needed.
type Options struct {
	// TokenURL is the login and refresh endpoint. Defaults to the Korea
	// production endpoint.
	TokenURL string

	// Client defaults to httpx.NewClient(Timeout).
	Client Transport
	// Timeout bounds each network call when Client is nil.
	Timeout time.Duration

	// Store defaults to an in-memory store.
	Store securestore.Store

	// Threshold is the near-expiry look-ahead, default 60s.
	Threshold time.Duration

	CredentialPolicy CredentialPolicy

	// ReauthLimit caps logins made on the caller's behalf with stored
	// credentials. The zero value disables the cap.
	ReauthLimit httpx.RateLimitConfig

	Logger  *slog.Logger
	Metrics *metrics.Metrics

	// Now defaults to time.Now.
	Now func() time.Time
}

// Manager keeps one identity's token pair valid. It is safe for concurrent
// use.
type Manager struct {
	client    Transport
	store     securestore.Store
	tokenURL  string
	threshold time.Duration
	policy    CredentialPolicy
	reauth    *rate.Limiter
	log       *slog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time

	mu    sync.RWMutex
	state tokenState

	// authMu serialises everything that replaces the token pair.
	authMu sync.Mutex

	refreshMu  sync.Mutex
	refreshing bool
}

// outcome is the normalised result of one network operation.
type outcome struct {
	status     int
	ok         bool
	message    string
	token      string
	inProgress bool
	err        error
}

func outcomeOf(resp httpx.Response) outcome {
	return outcome{
		status:  resp.StatusCode,
		ok:      resp.OK(),
		message: resp.Message,
		err:     resp.Err,
	}
}

// New builds a Manager and restores any session found in the store.
func New(ctx context.Context, opts Options) (*Manager, error) {
	m := &Manager{
		client:    opts.Client,
		store:     opts.Store,
		tokenURL:  opts.TokenURL,
		threshold: opts.Threshold,
		policy:    opts.CredentialPolicy,
		reauth:    opts.ReauthLimit.NewLimiter(),
		log:       opts.Logger,
		metrics:   opts.Metrics,
		now:       opts.Now,
	}

	if m.tokenURL == "" {
		m.tokenURL = Endpoint{Region: RegionKorea}.TokenURL()
	}
	if m.client == nil {
		m.client = httpx.NewClient(opts.Timeout)
	}
	if m.store == nil {
		m.store = securestore.NewMemory()
	}
	if m.threshold <= 0 {
		m.threshold = jwtx.DefaultNearExpiryThreshold
	}
	if m.log == nil {
		m.log = slogx.FromContext(ctx)
	}
	if m.now == nil {
		m.now = time.Now
	}

	if err := m.restore(ctx); err != nil {
		return nil, fmt.Errorf("authsdk: restore session: %w", err)
	}

	return m, nil
}

// AccessToken returns an access token. With forceValidate false the cached
// token is returned as is, possibly empty or expired. Otherwise the token is
// refreshed, or the session re-established with stored credentials, when it
// is within the near-expiry threshold.
func (m *Manager) AccessToken(ctx context.Context, forceValidate bool) (string, error) {
	st := m.snapshot()
	if !forceValidate {
		return st.access, nil
	}

	now := m.now()

	if jwtx.ExpiresWithin(st.refreshExp, m.threshold, now) {
		return m.reauthenticate(ctx)
	}

	if !jwtx.ExpiresWithin(st.accessExp, m.threshold, now) {
		m.logger(ctx).Debug("access token still valid", "expires_at", st.accessExp)
		return st.access, nil
	}

	o := m.refresh(ctx)
	switch {
	case o.inProgress:
		return "", newTokenError(KindRefreshInProgress, o)
	case !o.ok:
		return "", newTokenError(KindRefreshFailed, o)
	}
	return o.token, nil
}

// RefreshToken returns the cached refresh token.
func (m *Manager) RefreshToken() string {
	return m.snapshot().refresh
}

// HasCredentials reports whether a username and password are stored.
func (m *Manager) HasCredentials() bool {
	st := m.snapshot()
	return st.hasCredentials()
}

// TenantID reads the "tenant_id" claim of token.
func (m *Manager) TenantID(token string) (string, bool) {
	return jwtx.ExtractTenant(token)
}

// IsNearExpiry reports whether token expires within the Manager's threshold.
func (m *Manager) IsNearExpiry(token string) bool {
	return jwtx.IsNearExpiry(token, m.threshold, m.now())
}

// Logout forgets the session. Memory is always cleared, the returned error
// reports secrets that could not be deleted from the store.
func (m *Manager) Logout(ctx context.Context) error {
	m.authMu.Lock()
	defer m.authMu.Unlock()

	if err := m.clear(ctx); err != nil {
		return fmt.Errorf("authsdk: logout: %w", err)
	}

	m.logger(ctx).Info("logged out")
	return nil
}

// logger prefers the request scoped logger when the call came in through an
// instrumented handler.
func (m *Manager) logger(ctx context.Context) *slog.Logger {
	if _, ok := slogx.RequestID(ctx); ok {
		return slogx.FromContext(ctx)
	}
	return m.log
}

// outboundContext carries the Manager's logger to the transport unless the
// call already has a request scoped one.
func (m *Manager) outboundContext(ctx context.Context) context.Context {
	if _, ok := slogx.RequestID(ctx); ok {
		return ctx
	}
	return slogx.WithContext(ctx, m.log)
}

var _ Transport = (*httpx.Client)(nil)

