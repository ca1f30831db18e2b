// Package auth turns the bearer token handed over by the sign-in flow into
// the user id the store stamps on follow-ups. Signing in itself happens
// elsewhere; this package only validates tokens.
package auth

import "sync"

// Session holds the currently signed-in staff member. It satisfies
// store.UserSource. The zero value is signed out.
type Session struct {
	manager *JWTManager

	mu     sync.RWMutex
	claims *Claims
}

// NewSession returns a signed-out Session that validates tokens with m.
func NewSession(m *JWTManager) *Session {
	return &Session{manager: m}
}

// SignIn validates token and, if it is good, makes its user current.
// On error the previous user stays signed in.
func (s *Session) SignIn(token string) error {
	if s.manager == nil {
		return ErrInvalidToken
	}
	claims, err := s.manager.Validate(token)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.claims = claims
	s.mu.Unlock()
	return nil
}

// SignOut clears the current user.
func (s *Session) SignOut() {
	s.mu.Lock()
	s.claims = nil
	s.mu.Unlock()
}

// UserID returns the signed-in user's id, or "" when signed out or once
// the sign-in token has expired.
func (s *Session) UserID() string {
	if c := s.current(); c != nil {
		return c.UserID
	}
	return ""
}

// Email returns the signed-in user's email, or "".
func (s *Session) Email() string {
	if c := s.current(); c != nil {
		return c.Email
	}
	return ""
}

func (s *Session) current() *Claims {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.claims == nil {
		return nil
	}
	if exp := s.claims.ExpiresAt; exp != nil && !s.manager.now().Before(exp.Time) {
		return nil
	}
	return s.claims
}
