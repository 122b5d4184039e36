package slogx

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/tokenkeeper/pkg/idx"
)

// Transport is an http.RoundTripper that stamps outbound requests with a
// request id and logs their outcome through the logger found in the request
// context. Bodies are never logged, they carry credentials.
type Transport struct {
	Base http.RoundTripper
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	reqID, ok := RequestID(ctx)
	if !ok {
		reqID = idx.New()
	}

	// RoundTrippers must not modify the caller's request
	req = req.Clone(ctx)
	req.Header.Set(idx.HeaderRequestID, reqID.String())

	log := FromContext(ctx).With(
		"req_id", reqID.String(),
		"method", req.Method,
		"host", req.URL.Host,
		"path", req.URL.Path,
	)

	start := time.Now()
	resp, err := t.base().RoundTrip(req)
	duration := time.Since(start).Milliseconds()

	if err != nil {
		log.Warn("outbound_request_failed", "duration_ms", duration, "error", err)
		return nil, err
	}

	log.Debug("outbound_request", "status", resp.StatusCode, "duration_ms", duration)
	return resp, nil
}
