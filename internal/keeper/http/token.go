package http

import (
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/tokenkeeper/pkg/httpx"
	"github.com/aussiebroadwan/tokenkeeper/pkg/jwtx"
)

// TokenHandler serves GET /v1/token.
type TokenHandler struct {
	Manager TokenManager
}

// ServeHTTP godoc
//
//	@Summary		Get an access token
//	@Description	Returns the current access token. With validate=true (the default) the token is refreshed,
//	@Description	or the session re-established with stored credentials, when it is about to expire.
//	@Tags			Token
//	@Produce		json
//	@Param			validate	query		bool				false	"Check expiry before returning (default true)"
//	@Success		200			{object}	TokenResponse		"access_token, token_type, expires_at"
//	@Failure		400			{object}	httpx.ErrorBody		"invalid validate parameter"
//	@Failure		401			{object}	httpx.ErrorBody		"no stored credentials to log in with"
//	@Failure		404			{object}	httpx.ErrorBody		"no session"
//	@Failure		409			{object}	httpx.ErrorBody		"refresh in progress, retry"
//	@Failure		502			{object}	httpx.ErrorBody		"auth server rejected the refresh or login"
//	@Security		BearerAuth
//	@Router			/v1/token [get].
func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	validate := true
	if v := r.URL.Query().Get("validate"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "validate must be a boolean")
			return
		}
		validate = b
	}

	token, err := h.Manager.AccessToken(r.Context(), validate)
	if err != nil {
		writeTokenError(w, err)
		return
	}
	if token == "" {
		httpx.WriteError(w, http.StatusNotFound, "no_session", "no access token, log in first")
		return
	}

	resp := TokenResponse{AccessToken: token, TokenType: "Bearer"}
	if exp, ok := jwtx.ExtractExpiry(token); ok {
		resp.ExpiresAt = &exp
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// TenantHandler serves GET /v1/tenant.
type TenantHandler struct {
	Manager TokenManager
}

// ServeHTTP godoc
//
//	@Summary		Get the tenant of the current session
//	@Description	Reads the tenant_id claim of the cached access token without contacting the auth server.
//	@Tags			Token
//	@Produce		json
//	@Success		200	{object}	TenantResponse	"tenant_id"
//	@Failure		404	{object}	httpx.ErrorBody	"no session or no tenant claim"
//	@Security		BearerAuth
//	@Router			/v1/tenant [get].
func (h *TenantHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token, err := h.Manager.AccessToken(r.Context(), false)
	if err != nil {
		writeTokenError(w, err)
		return
	}

	tenant, ok := h.Manager.TenantID(token)
	if !ok {
		httpx.WriteError(w, http.StatusNotFound, "no_tenant", "access token carries no tenant")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, TenantResponse{TenantID: tenant})
}
