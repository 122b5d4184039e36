package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/tokenkeeper/pkg/httpx"
	"github.com/aussiebroadwan/tokenkeeper/pkg/metrics"
	"github.com/aussiebroadwan/tokenkeeper/pkg/securestore"
	"github.com/aussiebroadwan/tokenkeeper/pkg/slogx"

	_ "github.com/aussiebroadwan/tokenkeeper/api/keeper" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	manager      TokenManager
	store        securestore.Store
	metrics      *metrics.Metrics
	apiToken     string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
}

// NewRouter builds the local API. apiToken, when set, must be presented as a
// bearer token on every /v1 route.
func NewRouter(
	manager TokenManager,
	st securestore.Store,
	m *metrics.Metrics,
	apiToken, buildVersion string,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		manager:      manager,
		store:        st,
		metrics:      m,
		apiToken:     apiToken,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerToken()
	r.registerSession()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Token Keeper API
//	@version		0.1.0
//	@description	Local credential helper that keeps one identity's access token valid.
//	@description
//	@description				Tokens are refreshed, or the session re-established with stored credentials, on demand.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/tokenkeeper
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						127.0.0.1:8090
//	@BasePath					/
//
//	@schemes					http
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Shared API token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerToken() {
	// Reads are mostly served from memory - lenient rate limit
	r.Mux.Handle("GET /v1/token",
		httpx.Chain(&TokenHandler{Manager: r.manager},
			httpx.StaticBearer(r.apiToken),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /v1/tenant",
		httpx.Chain(&TenantHandler{Manager: r.manager},
			httpx.StaticBearer(r.apiToken),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSession() {
	// POST /login - strict rate limit (credentials go to the auth server)
	r.Mux.Handle("POST /v1/login",
		httpx.Chain(&LoginHandler{Manager: r.manager},
			httpx.StaticBearer(r.apiToken),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/refresh",
		httpx.Chain(&RefreshHandler{Manager: r.manager},
			httpx.StaticBearer(r.apiToken),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("POST /v1/logout",
		httpx.Chain(&LogoutHandler{Manager: r.manager},
			httpx.StaticBearer(r.apiToken),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /metrics", r.metrics.Handler())
}
