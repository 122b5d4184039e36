package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// fingerprintBytes is how much of the SHA-256 sum Fingerprint keeps
// (12 chars base64url).
const fingerprintBytes = 9

// Fingerprint returns a short deterministic SHA-256 fingerprint of a secret.
// It lets logs correlate tokens across lines without ever printing one.
// The empty string fingerprints to "".
func Fingerprint(secret string) string {
	if secret == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(secret))
	return base64.RawURLEncoding.EncodeToString(sum[:fingerprintBytes])
}

// randomBytes returns n bytes from the system CSPRNG.
func randomBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("size must be positive, got %d", n)
	}

	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to read random bytes: %w", err)
	}
	return buf, nil
}
