package authsdk

// LoginRequest is the body of a credential login.
type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// RefreshRequest is the body of an access token refresh.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// TokenPair is returned by a successful login.
type TokenPair struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
}

// AccessResponse is returned by a successful refresh.
type AccessResponse struct {
	Access string `json:"access"`
}
