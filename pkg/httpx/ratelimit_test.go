package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/tokenkeeper/pkg/httpx"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func hit(h http.Handler, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/login", nil)
	req.RemoteAddr = remote
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIPKeyExtractor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "127.0.0.1:40000"
	require.Equal(t, "127.0.0.1", httpx.IPKeyExtractor(req))

	// forwarding headers are caller controlled and never trusted
	req.Header.Set("X-Real-IP", "10.0.0.7")
	req.Header.Set("X-Forwarded-For", "203.0.113.1, 10.0.0.7")
	require.Equal(t, "127.0.0.1", httpx.IPKeyExtractor(req))

	req.RemoteAddr = "not-a-hostport"
	require.Equal(t, "not-a-hostport", httpx.IPKeyExtractor(req))
}

func TestRateLimitIgnoresForwardedFor(t *testing.T) {
	h := httpx.RateLimitByIP(httpx.PerMinute(2))(okHandler)

	codes := make([]int, 0, 3)
	for _, xff := range []string{"198.51.100.1", "198.51.100.2", "198.51.100.3"} {
		req := httptest.NewRequest(http.MethodPost, "/v1/login", nil)
		req.RemoteAddr = "127.0.0.1:5000"
		req.Header.Set("X-Forwarded-For", xff)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	require.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimitByIP(t *testing.T) {
	h := httpx.RateLimitByIP(httpx.PerMinute(2))(okHandler)

	require.Equal(t, http.StatusOK, hit(h, "127.0.0.1:1").Code)
	require.Equal(t, http.StatusOK, hit(h, "127.0.0.1:2").Code)

	rec := hit(h, "127.0.0.1:3")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
	require.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	require.Equal(t, "1m0s", rec.Header().Get("X-RateLimit-Window"))
	require.Contains(t, rec.Body.String(), "rate_limit_exceeded")

	// other clients keep their own bucket
	require.Equal(t, http.StatusOK, hit(h, "127.0.0.2:1").Code)
}

func TestRateLimitAllowsUnkeyedRequests(t *testing.T) {
	h := httpx.RateLimitMiddleware(httpx.PerMinute(1), func(*http.Request) string { return "" })(okHandler)

	for range 3 {
		require.Equal(t, http.StatusOK, hit(h, "127.0.0.1:1").Code)
	}
}

func TestRateLimitConfigLimiter(t *testing.T) {
	t.Run("per minute", func(t *testing.T) {
		l := httpx.PerMinute(3).NewLimiter()
		require.Equal(t, 3, l.Burst())
		require.InDelta(t, 3.0/60.0, float64(l.Limit()), 1e-9)

		for range 3 {
			require.True(t, l.Allow())
		}
		require.False(t, l.Allow())
	})

	t.Run("zero disables limiting", func(t *testing.T) {
		l := httpx.RateLimitConfig{}.NewLimiter()
		require.Equal(t, rate.Inf, l.Limit())
		for range 100 {
			require.True(t, l.Allow())
		}
	})
}

func TestParseRateLimitFromEnv(t *testing.T) {
	def := httpx.RateLimitConfig{RequestsPerWindow: 10, Window: time.Minute, Burst: 10}

	t.Run("no overrides", func(t *testing.T) {
		require.Equal(t, def, httpx.ParseRateLimitFromEnv("KEEPERTEST", def))
	})

	t.Run("valid overrides", func(t *testing.T) {
		t.Setenv("RATELIMIT_KEEPERTEST_REQUESTS", "50")
		t.Setenv("RATELIMIT_KEEPERTEST_WINDOW_SEC", "30")
		t.Setenv("RATELIMIT_KEEPERTEST_BURST", "5")

		got := httpx.ParseRateLimitFromEnv("KEEPERTEST", def)
		require.Equal(t, httpx.RateLimitConfig{RequestsPerWindow: 50, Window: 30 * time.Second, Burst: 5}, got)
	})

	t.Run("invalid values keep defaults", func(t *testing.T) {
		t.Setenv("RATELIMIT_KEEPERTEST_REQUESTS", "lots")
		t.Setenv("RATELIMIT_KEEPERTEST_WINDOW_SEC", "-10")
		t.Setenv("RATELIMIT_KEEPERTEST_BURST", "0")

		require.Equal(t, def, httpx.ParseRateLimitFromEnv("KEEPERTEST", def))
	})
}

func BenchmarkRateLimitMiddleware(b *testing.B) {
	h := httpx.RateLimitByIP(httpx.RateLimitConfig{RequestsPerWindow: 1_000_000, Window: time.Minute, Burst: 1000})(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "127.0.0.1:12345"

	for b.Loop() {
		h.ServeHTTP(httptest.NewRecorder(), req)
	}
}
