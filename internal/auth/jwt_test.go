package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestJWTManager(t *testing.T) {
	now := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	m := NewJWTManager("test-secret", time.Hour)
	m.now = func() time.Time { return now }

	token, err := m.Generate("staff-7", "desk@gym.test")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	other := NewJWTManager("other-secret", time.Hour)
	other.now = m.now
	foreign, err := other.Generate("staff-7", "desk@gym.test")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	noUser, err := m.Generate("", "desk@gym.test")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "staff-7"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}

	tests := []struct {
		name    string
		token   string
		at      time.Time
		wantErr error
	}{
		{name: "valid token", token: token, at: now.Add(30 * time.Minute)},
		{name: "expired token", token: token, at: now.Add(2 * time.Hour), wantErr: ErrInvalidToken},
		{name: "wrong secret", token: foreign, at: now, wantErr: ErrInvalidToken},
		{name: "missing user id", token: noUser, at: now, wantErr: ErrInvalidToken},
		{name: "unsigned token", token: unsigned, at: now, wantErr: ErrInvalidToken},
		{name: "garbage", token: "not.a.token", at: now, wantErr: ErrInvalidToken},
		{name: "empty", token: "", at: now, wantErr: ErrMissingToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			at := tt.at
			m.now = func() time.Time { return at }

			claims, err := m.Validate(tt.token)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate failed: %v", err)
			}
			if claims.UserID != "staff-7" {
				t.Errorf("UserID = %q, want staff-7", claims.UserID)
			}
			if claims.Email != "desk@gym.test" {
				t.Errorf("Email = %q, want desk@gym.test", claims.Email)
			}
		})
	}
}

func TestSession(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	s := NewSession(m)

	if s.UserID() != "" {
		t.Fatalf("new session should be signed out, got %q", s.UserID())
	}

	token, err := m.Generate("staff-1", "a@gym.test")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if err := s.SignIn(token); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if s.UserID() != "staff-1" || s.Email() != "a@gym.test" {
		t.Errorf("got user %q <%s>, want staff-1 <a@gym.test>", s.UserID(), s.Email())
	}

	if err := s.SignIn("bad"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("SignIn(bad) error = %v, want ErrInvalidToken", err)
	}
	if s.UserID() != "staff-1" {
		t.Errorf("failed sign-in should keep previous user, got %q", s.UserID())
	}

	s.SignOut()
	if s.UserID() != "" {
		t.Errorf("UserID after SignOut = %q, want empty", s.UserID())
	}
}

func TestSessionWithoutManager(t *testing.T) {
	s := NewSession(nil)
	if err := s.SignIn("anything"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("SignIn error = %v, want ErrInvalidToken", err)
	}
	if s.UserID() != "" {
		t.Errorf("UserID = %q, want empty", s.UserID())
	}
}

func TestSessionExpires(t *testing.T) {
	now := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	m := NewJWTManager("test-secret", time.Hour)
	m.now = func() time.Time { return now }
	s := NewSession(m)

	token, err := m.Generate("staff-1", "a@gym.test")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if err := s.SignIn(token); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	now = now.Add(59 * time.Minute)
	if s.UserID() != "staff-1" {
		t.Errorf("UserID before expiry = %q, want staff-1", s.UserID())
	}

	now = now.Add(time.Minute)
	if s.UserID() != "" || s.Email() != "" {
		t.Errorf("expired session still reports user %q <%s>", s.UserID(), s.Email())
	}
}
