package httpx

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the JSON shape of every error the daemon writes.
type ErrorBody struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`

	// UpstreamStatus is the auth server's status when the failure came from it.
	UpstreamStatus int `json:"upstream_status,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
// It automatically sets the Content-Type header and Cache-Control headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes an ErrorBody with the given status code.
func WriteError(w http.ResponseWriter, code int, errCode, desc string) {
	WriteJSON(w, code, ErrorBody{Error: errCode, Description: desc})
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// Every response from the daemon can carry a token.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
