package jwtx

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultNearExpiryThreshold is the look-ahead window used to treat a token
// as expired before it actually is. Refreshing a minute early keeps callers
// from racing the server's clock with a token that dies in flight.
const DefaultNearExpiryThreshold = 60 * time.Second

// Claim names read from token payloads.
const (
	ClaimExpiry   = "exp"
	ClaimTenantID = "tenant_id"
)

// Tokens are never verified here, signature checks belong to whoever issued
// them. The parser is only used for its segment decoding which accepts both
// padded and unpadded base64url.
var parser = jwt.NewParser(jwt.WithPaddingAllowed())

// Some issuers emit payloads in the standard base64 alphabet.
var toURLAlphabet = strings.NewReplacer("+", "-", "/", "_")

// DecodePayload decodes a single JWT segment into a claim map. Both base64
// alphabets are accepted, padded or not. Returns false if the segment does
// not decode or is not a JSON object.
func DecodePayload(segment string) (jwt.MapClaims, bool) {
	raw, err := parser.DecodeSegment(toURLAlphabet.Replace(segment))
	if err != nil {
		return nil, false
	}

	var claims jwt.MapClaims
	if err := json.Unmarshal(raw, &claims); err != nil || claims == nil {
		return nil, false
	}

	return claims, true
}

// ExtractExpiry reads the "exp" claim from token. Only the first two
// segments are required since nothing past the payload is inspected.
func ExtractExpiry(token string) (time.Time, bool) {
	segments := strings.Split(token, ".")
	if len(segments) < 2 {
		return time.Time{}, false
	}

	claims, ok := DecodePayload(segments[1])
	if !ok {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}

	return exp.Time, true
}

// ExtractTenant reads the "tenant_id" claim from token. Unlike ExtractExpiry
// the token must have exactly three segments.
func ExtractTenant(token string) (string, bool) {
	segments := strings.Split(token, ".")
	if len(segments) != 3 {
		return "", false
	}

	claims, ok := DecodePayload(segments[1])
	if !ok {
		return "", false
	}

	tenant, ok := claims[ClaimTenantID].(string)
	if !ok {
		return "", false
	}

	return tenant, true
}

// IsNearExpiry reports whether token expires within threshold of now. A token
// without a readable "exp" claim is always near expiry.
func IsNearExpiry(token string, threshold time.Duration, now time.Time) bool {
	exp, ok := ExtractExpiry(token)
	if !ok {
		return true
	}
	return ExpiresWithin(exp, threshold, now)
}

// ExpiresWithin reports whether now+threshold has reached exp. The zero time
// is treated as already expired.
func ExpiresWithin(exp time.Time, threshold time.Duration, now time.Time) bool {
	if exp.IsZero() {
		return true
	}
	return !now.Add(threshold).Before(exp)
}
