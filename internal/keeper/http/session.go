package http

import (
	"encoding/json"
	"net/http"

	"github.com/aussiebroadwan/tokenkeeper/pkg/httpx"
	"github.com/aussiebroadwan/tokenkeeper/pkg/slogx"
)

// maxLoginBody bounds the login request body.
const maxLoginBody = 4 << 10

// LoginHandler serves POST /v1/login.
type LoginHandler struct {
	Manager TokenManager
}

// ServeHTTP godoc
//
//	@Summary		Log in
//	@Description	Logs in with a name and password and stores the resulting token pair.
//	@Tags			Session
//	@Accept			json
//	@Produce		json
//	@Param			body	body		LoginRequest		true	"credentials"
//	@Success		200		{object}	OperationResponse	"status, success"
//	@Failure		400		{object}	httpx.ErrorBody		"malformed body"
//	@Failure		429		{object}	httpx.ErrorBody		"too many attempts"
//	@Failure		502		{object}	httpx.ErrorBody		"auth server rejected the login"
//	@Security		BearerAuth
//	@Router			/v1/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body LoginRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxLoginBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "body must be {\"name\", \"password\"}")
		return
	}
	if body.Name == "" || body.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "name and password are required")
		return
	}

	status, ok := h.Manager.Login(r.Context(), body.Name, body.Password)
	if !ok {
		slogx.FromContext(r.Context()).Info("login rejected", "user", body.Name, "status", status)
	}
	writeOperation(w, "login_failed", status, ok)
}

// RefreshHandler serves POST /v1/refresh.
type RefreshHandler struct {
	Manager TokenManager
}

// ServeHTTP godoc
//
//	@Summary		Refresh the access token
//	@Description	Exchanges the refresh token for a new access token. Returns 409 when a refresh is already running.
//	@Tags			Session
//	@Produce		json
//	@Success		200	{object}	OperationResponse	"status, success"
//	@Failure		409	{object}	httpx.ErrorBody		"refresh in progress, retry"
//	@Failure		502	{object}	httpx.ErrorBody		"auth server rejected the refresh"
//	@Security		BearerAuth
//	@Router			/v1/refresh [post].
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status, ok := h.Manager.Refresh(r.Context())
	if !ok && status == http.StatusConflict {
		w.Header().Set("Retry-After", "1")
		httpx.WriteJSON(w, http.StatusConflict, httpx.ErrorBody{
			Error:          "refresh_in_progress",
			Description:    "refresh already in progress",
			UpstreamStatus: status,
		})
		return
	}
	writeOperation(w, "refresh_failed", status, ok)
}

// LogoutHandler serves POST /v1/logout.
type LogoutHandler struct {
	Manager TokenManager
}

// ServeHTTP godoc
//
//	@Summary		Log out
//	@Description	Forgets the tokens and stored credentials, in memory and in the secure store.
//	@Tags			Session
//	@Success		204
//	@Failure		500	{object}	httpx.ErrorBody	"secure store could not be cleared"
//	@Security		BearerAuth
//	@Router			/v1/logout [post].
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.Manager.Logout(r.Context()); err != nil {
		slogx.FromContext(r.Context()).Error("logout failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "store_error", "secure store could not be cleared")
		return
	}
	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}
