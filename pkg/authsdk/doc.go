/*
Package authsdk keeps a single identity's access and refresh tokens valid.

# Overview

A Manager holds the current access token, refresh token and the credentials
last used to log in. Callers ask it for an access token and it decides
whether the cached value is good enough, whether the access token needs a
refresh, or whether the refresh token itself is stale and a full login with
the stored credentials is required.

	store := securestore.NewMemory()
	mgr, err := authsdk.New(ctx, authsdk.Options{
		TokenURL: authsdk.Endpoint{Region: authsdk.RegionKorea}.TokenURL(),
		Store:    store,
	})

	status, ok := mgr.Login(ctx, "alice", "hunter2")

	token, err := mgr.AccessToken(ctx, true)

# Validity

Both tokens are JWTs. Only the "exp" claim is read, signatures are never
checked. A token counts as expired once now plus the near-expiry threshold
(60 seconds unless configured) reaches its expiry, and a token without a
readable expiry is always expired.

AccessToken(ctx, true) walks this decision:

	refresh token near expiry  -> log in again with stored credentials
	access token near expiry   -> refresh the access token
	otherwise                  -> return the cached access token

AccessToken(ctx, false) returns the cached token without looking at it.

# Concurrency

Refresh is single-flight: while one refresh is running, further calls return
409 straight away instead of waiting. Login, reauthentication and the network
part of a refresh are additionally serialised with each other, so the token
pair is only ever replaced by one operation at a time.

# Persistence

Every change to the tokens or credentials is written to the securestore.Store
before it becomes visible in memory. A failed store write is logged and
counted, the in-memory state remains authoritative for the running process.
New reloads all four secrets from the store and recomputes expiries.

# Errors

AccessToken reports failures as *TokenError values. Match them by kind:

	if errors.Is(err, authsdk.ErrCredentialsMissing) {
		// prompt for a login
	}
	if errors.Is(err, authsdk.ErrRefreshInProgress) {
		// retry shortly
	}

Network failures never surface as raw transport errors. They arrive as a
status code and message, with timeouts additionally matching httpx.ErrTimeout.
*/
package authsdk
