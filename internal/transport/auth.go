package transport

import "net/http"

// Authenticator applies authentication to HTTP requests.
type Authenticator interface {
	Apply(req *http.Request)
}

// NoAuth implements no authentication.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(_ *http.Request) {
	// No authentication applied
}

// BasicAuth implements HTTP basic authentication with fixed credentials.
type BasicAuth struct {
	Username string
	Password string
}

// Apply implements the Authenticator interface for BasicAuth.
func (a *BasicAuth) Apply(req *http.Request) {
	req.SetBasicAuth(a.Username, a.Password)
}

// TokenAuth implements custom header authentication with a token obtained
// at runtime. Token may be set after construction, once an authentication
// handshake has produced it; until then no header is sent.
type TokenAuth struct {
	Header string
	Token  string
}

// Apply implements the Authenticator interface for TokenAuth.
func (a *TokenAuth) Apply(req *http.Request) {
	if a.Token == "" {
		return
	}
	req.Header.Set(a.Header, a.Token)
}
