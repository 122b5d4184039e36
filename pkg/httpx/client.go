package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/aussiebroadwan/tokenkeeper/pkg/slogx"
	"github.com/hashicorp/go-cleanhttp"
)

// DefaultTimeout bounds a single request when the client has none configured.
const DefaultTimeout = 5 * time.Second

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

// Status codes reported for failures that never produced a server response.
const (
	// StatusEncodeFailed covers payloads that can't be encoded and
	// URLs that can't be parsed.
	StatusEncodeFailed = http.StatusNotAcceptable
	// StatusTransportFailed covers connection errors and timeouts.
	StatusTransportFailed = http.StatusInternalServerError
)

// ErrTimeout is wrapped into Response.Err when a request exceeds its timeout.
var ErrTimeout = errors.New("httpx: request timed out")

// Response is the normalised outcome of a request. It is always populated,
// transport failures included, so callers branch on StatusCode alone.
type Response struct {
	StatusCode int
	// Body is the raw response body on 2xx, nil otherwise.
	Body []byte
	// Message is the body text on 2xx, or a description of the failure.
	Message string
	// Err is set for failures that happened before a response was read.
	Err error
}

// OK reports whether the response carries a 2xx status.
func (r Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client executes JSON POST requests.
type Client struct {
	http    *http.Client
	timeout time.Duration
}

// NewClient builds a Client on a pooled cleanhttp transport wrapped with
// outbound request logging. A non-positive timeout selects DefaultTimeout.
func NewClient(timeout time.Duration) *Client {
	hc := cleanhttp.DefaultPooledClient()
	hc.Transport = &slogx.Transport{Base: hc.Transport}
	return NewClientWith(hc, timeout)
}

// NewClientWith wraps an existing http.Client.
func NewClientWith(hc *http.Client, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{http: hc, timeout: timeout}
}

// Timeout returns the per-request timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// PostJSON encodes payload as JSON and POSTs it to rawURL.
func (c *Client) PostJSON(ctx context.Context, rawURL string, payload any) Response {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		if err == nil {
			err = fmt.Errorf("httpx: invalid url %q", rawURL)
		}
		return Response{StatusCode: StatusEncodeFailed, Message: "invalid url", Err: err}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Response{StatusCode: StatusEncodeFailed, Message: "encode payload", Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return Response{StatusCode: StatusEncodeFailed, Message: "build request", Err: err}
	}
	req.ContentLength = int64(len(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return transportFailure(err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return transportFailure(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slogx.FromContext(ctx).Debug("request rejected", "url", u.Redacted(), "status", resp.StatusCode)
		return Response{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	return Response{StatusCode: resp.StatusCode, Body: data, Message: string(data)}
}

func transportFailure(err error) Response {
	if isTimeout(err) {
		return Response{
			StatusCode: StatusTransportFailed,
			Message:    "timed out",
			Err:        fmt.Errorf("%w: %w", ErrTimeout, err),
		}
	}
	return Response{StatusCode: StatusTransportFailed, Message: err.Error(), Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
