package authsdk_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/aussiebroadwan/tokenkeeper/pkg/authsdk"
	"github.com/aussiebroadwan/tokenkeeper/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestTokenErrorMatchesByKind(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("get token: %w", &authsdk.TokenError{
		Kind:       authsdk.KindRefreshFailed,
		StatusCode: http.StatusBadGateway,
		Message:    "failed to refresh token: Bad Gateway",
	})

	require.ErrorIs(t, err, authsdk.ErrRefreshFailed)
	require.False(t, errors.Is(err, authsdk.ErrAuthFailed))
	require.False(t, errors.Is(err, authsdk.ErrRefreshInProgress))
}

func TestTokenErrorUnwrapsCause(t *testing.T) {
	t.Parallel()

	err := &authsdk.TokenError{Kind: authsdk.KindAuthFailed, StatusCode: 500, Message: "timed out", Err: httpx.ErrTimeout}
	require.ErrorIs(t, err, httpx.ErrTimeout)
	require.ErrorIs(t, err, authsdk.ErrAuthFailed)
}

func TestTokenErrorString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "authsdk: credentials_missing: username/password not stored", authsdk.ErrCredentialsMissing.Error())
	require.Equal(t, "authsdk: refresh_in_progress (409): refresh already in progress", authsdk.ErrRefreshInProgress.Error())
}
