package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSessionRoundTrip(t *testing.T) {
	s := NewSessions("test-secret", time.Hour)

	token, err := s.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	userID, err := s.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if userID != "user-123" {
		t.Fatalf("Verify() userID = %q, want %q", userID, "user-123")
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	s := NewSessions("test-secret", time.Hour)

	token, err := s.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := s.Verify(tampered); err == nil {
		t.Fatal("Verify() accepted a tampered token")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewSessions("secret-a", time.Hour)
	verifier := NewSessions("secret-b", time.Hour)

	token, err := issuer.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if _, err := verifier.Verify(token); err == nil {
		t.Fatal("Verify() accepted a token signed with another secret")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	s := NewSessions("test-secret", time.Minute)

	token, err := s.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	s.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, err := s.Verify(token); err == nil {
		t.Fatal("Verify() accepted an expired token")
	}
}

func TestMiddleware(t *testing.T) {
	s := NewSessions("test-secret", time.Hour)
	token, err := s.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	var gotUserID string
	handler := Middleware(s)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserID(r.Context())
	}))

	t.Run("valid cookie passes through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(s.Cookie(token))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if gotUserID != "user-123" {
			t.Fatalf("UserID() = %q, want %q", gotUserID, "user-123")
		}
	})

	t.Run("missing cookie rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("garbage cookie rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "not-a-token"})
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})
}

func TestClearCookieExpires(t *testing.T) {
	s := NewSessions("test-secret", time.Hour)

	c := s.ClearCookie()
	if c.MaxAge >= 0 {
		t.Fatalf("ClearCookie() MaxAge = %d, want negative", c.MaxAge)
	}
	if c.Name != SessionCookie {
		t.Fatalf("ClearCookie() Name = %q, want %q", c.Name, SessionCookie)
	}
}
