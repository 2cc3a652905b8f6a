package http

import "net/http"

// Identity is the per-request user identity handed to the services.
// Either field may be empty when the caller is anonymous.
type Identity struct {
	UserID   string
	Username string
}

// IdentityProvider resolves the current user from a request. The
// hosting platform's real authentication sits in front of this service;
// the provider is its in-process stand-in.
type IdentityProvider interface {
	Identify(r *http.Request) Identity
}

// HeaderIdentityProvider trusts the X-User-Id / X-User-Name headers set
// by the upstream gateway.
type HeaderIdentityProvider struct{}

func (HeaderIdentityProvider) Identify(r *http.Request) Identity {
	return Identity{
		UserID:   r.Header.Get("X-User-Id"),
		Username: r.Header.Get("X-User-Name"),
	}
}
