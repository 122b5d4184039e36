package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFingerprint(t *testing.T) {
	fp1a := Fingerprint("test-token-1")
	fp1b := Fingerprint("test-token-1")
	fp2 := Fingerprint("test-token-2")

	require.Equal(t, fp1a, fp1b, "fingerprint should be deterministic")
	require.NotEqual(t, fp1a, fp2, "different tokens should have different fingerprints")
	require.Len(t, fp1a, 12)
	require.NotContains(t, fp1a, "test-token")

	require.Empty(t, Fingerprint(""))
}

func TestRandomBytes(t *testing.T) {
	a, err := randomBytes(SaltLength)
	require.NoError(t, err)
	require.Len(t, a, SaltLength)

	b, err := randomBytes(SaltLength)
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	for _, n := range []int{0, -1} {
		_, err := randomBytes(n)
		require.Error(t, err)
	}
}
