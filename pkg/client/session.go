package client

import (
	"sync"

	"github.com/amirasaad/bank/pkg/domain/user"
)

// Session holds the bearer token and the user it was issued to.
// The zero value is an empty session and is safe for concurrent use.
type Session struct {
	mu    sync.RWMutex
	token string
	user  *user.User
}

// Get returns the current token and user. Both are zero when logged out.
func (s *Session) Get() (string, *user.User) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.user
}

func (s *Session) Set(token string, u *user.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = u
}

func (s *Session) Clear() {
	s.Set("", nil)
}

// Authenticated reports whether a token is held.
func (s *Session) Authenticated() bool {
	token, _ := s.Get()
	return token != ""
}

// IsAdmin reports whether the session user carries the admin role. It only
// drives presentation; the server enforces roles itself.
func (s *Session) IsAdmin() bool {
	_, u := s.Get()
	return u != nil && u.IsAdmin()
}
