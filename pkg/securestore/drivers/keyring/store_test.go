package keyring_test

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/tokenkeeper/pkg/securestore"
	"github.com/aussiebroadwan/tokenkeeper/pkg/securestore/drivers/keyring"
	"github.com/stretchr/testify/require"
	gokeyring "github.com/zalando/go-keyring"
)

// The mock provider is process global, so these tests don't run in parallel.

func TestStore(t *testing.T) {
	gokeyring.MockInit()
	ctx := context.Background()
	s := keyring.NewStore("tokenkeeper-test")

	require.NoError(t, s.Probe())

	_, err := s.Load(ctx, securestore.KeyAccessToken)
	require.ErrorIs(t, err, securestore.ErrNotFound)

	require.NoError(t, s.Save(ctx, securestore.KeyAccessToken, "a1"))
	v, err := s.Load(ctx, securestore.KeyAccessToken)
	require.NoError(t, err)
	require.Equal(t, "a1", v)

	require.NoError(t, s.Delete(ctx, securestore.KeyAccessToken))
	require.NoError(t, s.Delete(ctx, securestore.KeyAccessToken), "missing entries delete cleanly")

	_, err = s.Load(ctx, securestore.KeyAccessToken)
	require.ErrorIs(t, err, securestore.ErrNotFound)
}

func TestServicesAreIsolated(t *testing.T) {
	gokeyring.MockInit()
	ctx := context.Background()

	a := keyring.NewStore("service-a")
	b := keyring.NewStore("")

	require.NoError(t, a.Save(ctx, securestore.KeyUsername, "alice"))

	_, err := b.Load(ctx, securestore.KeyUsername)
	require.ErrorIs(t, err, securestore.ErrNotFound)
}

func TestProbeFailure(t *testing.T) {
	gokeyring.MockInitWithError(gokeyring.ErrUnsupportedPlatform)
	t.Cleanup(gokeyring.MockInit)

	require.Error(t, keyring.NewStore("").Probe())
}
