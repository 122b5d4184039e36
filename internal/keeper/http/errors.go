package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/tokenkeeper/pkg/authsdk"
	"github.com/aussiebroadwan/tokenkeeper/pkg/httpx"
)

// writeTokenError maps an authsdk error kind onto a local status. Failures
// that came from the auth server are reported as 502 with its status attached.
func writeTokenError(w http.ResponseWriter, err error) {
	var te *authsdk.TokenError
	if !errors.As(err, &te) {
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	body := httpx.ErrorBody{
		Error:       te.Kind.String(),
		Description: te.Message,
	}

	code := http.StatusBadGateway
	switch te.Kind {
	case authsdk.KindCredentialsMissing:
		code = http.StatusUnauthorized
	case authsdk.KindRefreshInProgress:
		code = http.StatusConflict
		w.Header().Set("Retry-After", "1")
	default:
		body.UpstreamStatus = te.StatusCode
	}

	httpx.WriteJSON(w, code, body)
}

// writeOperation answers a login or refresh with the auth server's verdict.
func writeOperation(w http.ResponseWriter, errCode string, status int, ok bool) {
	switch {
	case ok:
		httpx.WriteJSON(w, http.StatusOK, OperationResponse{Status: status, Success: true})
	default:
		httpx.WriteJSON(w, http.StatusBadGateway, httpx.ErrorBody{
			Error:          errCode,
			Description:    http.StatusText(status),
			UpstreamStatus: status,
		})
	}
}
