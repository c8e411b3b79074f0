// Package auth carries the authenticated principal through the call
// stack. Session management itself is an external collaborator: a
// Provider resolves the incoming request to a Principal (or nil), and
// every service method receives the principal explicitly instead of
// reading ambient session state.
package auth

import "net/http"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Principal struct {
	ID    string
	Email string
	Role  string
}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// Owns reports whether the principal owns the resource belonging to userID.
func (p *Principal) Owns(userID string) bool {
	return p != nil && p.ID == userID
}

// Provider resolves a request to its authenticated principal. A nil
// principal with a nil error means the request is anonymous.
type Provider interface {
	Authenticate(r *http.Request) (*Principal, error)
}

// HeaderProvider trusts identity headers set by an authenticating
// reverse proxy in front of the API.
type HeaderProvider struct{}

func (HeaderProvider) Authenticate(r *http.Request) (*Principal, error) {
	id := r.Header.Get("X-User-Id")
	if id == "" {
		return nil, nil
	}
	role := r.Header.Get("X-User-Role")
	if role != RoleAdmin {
		role = RoleUser
	}
	return &Principal{
		ID:    id,
		Email: r.Header.Get("X-User-Email"),
		Role:  role,
	}, nil
}
