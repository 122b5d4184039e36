package authsdk

import (
	"fmt"
	"net/http"
)

// Kind classifies why a token could not be produced.
type Kind int

const (
	// KindRefreshFailed means the refresh call did not yield a usable access token.
	KindRefreshFailed Kind = iota + 1
	// KindAuthFailed means logging in again with stored credentials failed.
	KindAuthFailed
	// KindCredentialsMissing means a login was needed but no credentials are stored.
	KindCredentialsMissing
	// KindRefreshInProgress means another refresh was running. Retry later.
	KindRefreshInProgress
)

func (k Kind) String() string {
	switch k {
	case KindRefreshFailed:
		return "refresh_failed"
	case KindAuthFailed:
		return "auth_failed"
	case KindCredentialsMissing:
		return "credentials_missing"
	case KindRefreshInProgress:
		return "refresh_in_progress"
	default:
		return "unknown"
	}
}

// TokenError is returned by AccessToken when no valid token can be produced.
// StatusCode is the status of the call that failed, or zero when no call was
// made.
type TokenError struct {
	Kind       Kind
	StatusCode int
	Message    string

	// Err is the underlying cause, if any (e.g. httpx.ErrTimeout).
	Err error
}

func (e *TokenError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("authsdk: %s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("authsdk: %s (%d): %s", e.Kind, e.StatusCode, e.Message)
}

func (e *TokenError) Unwrap() error {
	return e.Err
}

// Is matches any *TokenError of the same kind, so the sentinels below work
// with errors.Is regardless of status and message.
func (e *TokenError) Is(target error) bool {
	t, ok := target.(*TokenError)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrRefreshFailed      = &TokenError{Kind: KindRefreshFailed, Message: "failed to refresh token"}
	ErrAuthFailed         = &TokenError{Kind: KindAuthFailed, Message: "failed to reauthenticate"}
	ErrCredentialsMissing = &TokenError{Kind: KindCredentialsMissing, Message: "username/password not stored"}
	ErrRefreshInProgress  = &TokenError{Kind: KindRefreshInProgress, StatusCode: http.StatusConflict, Message: "refresh already in progress"}
)

var sentinels = map[Kind]*TokenError{
	KindRefreshFailed:      ErrRefreshFailed,
	KindAuthFailed:         ErrAuthFailed,
	KindCredentialsMissing: ErrCredentialsMissing,
	KindRefreshInProgress:  ErrRefreshInProgress,
}

func newTokenError(kind Kind, o outcome) *TokenError {
	msg := sentinels[kind].Message
	if o.message != "" && o.message != msg {
		msg += ": " + o.message
	}

	return &TokenError{
		Kind:       kind,
		StatusCode: o.status,
		Message:    msg,
		Err:        o.err,
	}
}
