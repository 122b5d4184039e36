package authsdk_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/tokenkeeper/pkg/authsdk"
	"github.com/aussiebroadwan/tokenkeeper/pkg/securestore"
	"github.com/aussiebroadwan/tokenkeeper/pkg/slogx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var signingKey = []byte("authsdk-test")

var jti atomic.Int64

// mintToken returns a signed JWT expiring ttl from now.
func mintToken(t *testing.T, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"exp":       time.Now().Add(ttl).Unix(),
		"tenant_id": "tenant-1",
		"jti":       jti.Add(1),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	require.NoError(t, err)
	return token
}

// tokenServer fakes the login/refresh endpoint. Both operations share one URL
// and are told apart by the request body, as the real server does.
type tokenServer struct {
	t   *testing.T
	srv *httptest.Server

	logins    atomic.Int32
	refreshes atomic.Int32

	mu            sync.Mutex
	loginStatus   int
	refreshStatus int
	loginBody     string
	refreshBody   string
	password      string
	block         chan struct{}
	entered       chan struct{}
	lastRefresh   string
}

func newTokenServer(t *testing.T) *tokenServer {
	t.Helper()
	s := &tokenServer{t: t}
	s.srv = httptest.NewServer(s)
	t.Cleanup(s.srv.Close)
	return s
}

func (s *tokenServer) URL() string { return s.srv.URL + "/2025-03-25/user" }

func (s *tokenServer) set(fn func(s *tokenServer)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s)
}

func (s *tokenServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Content-Type") != "application/json" {
		w.WriteHeader(http.StatusUnsupportedMediaType)
		return
	}

	var body map[string]string
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if _, ok := body["name"]; ok {
		s.handleLogin(w, body)
		return
	}
	s.handleRefresh(w, r, body)
}

func (s *tokenServer) handleLogin(w http.ResponseWriter, body map[string]string) {
	s.logins.Add(1)

	s.mu.Lock()
	status, override, password := s.loginStatus, s.loginBody, s.password
	s.mu.Unlock()

	if status == 0 && password != "" && body["password"] != password {
		status = http.StatusUnauthorized
	}
	if status != 0 && status != http.StatusOK {
		w.WriteHeader(status)
		return
	}

	if override != "" {
		_, _ = w.Write([]byte(override))
		return
	}
	_ = json.NewEncoder(w).Encode(authsdk.TokenPair{
		Access:  mintToken(s.t, 10*time.Minute),
		Refresh: mintToken(s.t, 24*time.Hour),
	})
}

func (s *tokenServer) handleRefresh(w http.ResponseWriter, r *http.Request, body map[string]string) {
	s.refreshes.Add(1)

	s.mu.Lock()
	s.lastRefresh = body["refresh"]
	status, override, block, entered := s.refreshStatus, s.refreshBody, s.block, s.entered
	s.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		select {
		case <-block:
		case <-r.Context().Done():
			return
		}
	}

	if status != 0 && status != http.StatusOK {
		w.WriteHeader(status)
		return
	}

	if override != "" {
		_, _ = w.Write([]byte(override))
		return
	}
	_ = json.NewEncoder(w).Encode(authsdk.AccessResponse{Access: mintToken(s.t, 10*time.Minute)})
}

// session is what gets seeded into a store before the Manager starts.
type session struct {
	access, refresh    string
	username, password string
}

func seed(t *testing.T, store securestore.Store, s session) {
	t.Helper()
	ctx := context.Background()
	for key, value := range map[string]string{
		securestore.KeyAccessToken:  s.access,
		securestore.KeyRefreshToken: s.refresh,
		securestore.KeyUsername:     s.username,
		securestore.KeyPassword:     s.password,
	} {
		if value != "" {
			require.NoError(t, store.Save(ctx, key, value))
		}
	}
}

func newManager(t *testing.T, srv *tokenServer, store securestore.Store, mutate ...func(*authsdk.Options)) *authsdk.Manager {
	t.Helper()

	opts := authsdk.Options{
		TokenURL: srv.URL(),
		Timeout:  2 * time.Second,
		Store:    store,
		Logger:   slogx.Discard(),
	}
	for _, fn := range mutate {
		fn(&opts)
	}

	m, err := authsdk.New(context.Background(), opts)
	require.NoError(t, err)
	return m
}

type brokenStore struct {
	securestore.Store
	saveErr error
	loadErr error
}

func (b brokenStore) Save(ctx context.Context, key, value string) error {
	if b.saveErr != nil {
		return b.saveErr
	}
	return b.Store.Save(ctx, key, value)
}

func (b brokenStore) Load(ctx context.Context, key string) (string, error) {
	if b.loadErr != nil {
		return "", b.loadErr
	}
	return b.Store.Load(ctx, key)
}
