package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dukerupert/behaviorchart/internal/model"
)

const testSecret = "test-secret-0123456789"

func TestTokenRoundTrip(t *testing.T) {
	s := NewSessions(testSecret, time.Hour)

	token, err := s.Token(model.RoleUser)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	claims, err := s.Parse(token, model.RoleUser)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "user" {
		t.Errorf("subject = %q, want user", claims.Subject)
	}
	if claims.ID == "" {
		t.Error("expected a session id")
	}
}

func TestParseWrongRole(t *testing.T) {
	s := NewSessions(testSecret, time.Hour)
	token, _ := s.Token(model.RoleUser)

	if _, err := s.Parse(token, model.RoleAdmin); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("err = %v, want ErrInvalidSession", err)
	}
}

func TestParseWrongSecret(t *testing.T) {
	token, _ := NewSessions(testSecret, time.Hour).Token(model.RoleAdmin)

	other := NewSessions("another-secret-0123456789", time.Hour)
	if _, err := other.Parse(token, model.RoleAdmin); err == nil {
		t.Error("expected error for token signed with another secret")
	}
}

func TestParseExpired(t *testing.T) {
	s := NewSessions(testSecret, time.Hour)
	issued := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return issued }
	token, _ := s.Token(model.RoleUser)

	s.now = func() time.Time { return issued.Add(time.Hour + time.Minute) }
	_, err := s.Parse(token, model.RoleUser)
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Errorf("err = %v, want ErrTokenExpired", err)
	}
}

func TestParseRejectsNoneAlg(t *testing.T) {
	s := NewSessions(testSecret, time.Hour)
	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "admin",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := s.Parse(token, model.RoleAdmin); err == nil {
		t.Error("expected unsigned token to be rejected")
	}
}

func TestTokenUnknownRole(t *testing.T) {
	s := NewSessions(testSecret, time.Hour)
	if _, err := s.Token(model.Role("root")); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestDefaultTTL(t *testing.T) {
	if got := NewSessions(testSecret, 0).TTL(); got != DefaultSessionTTL {
		t.Errorf("TTL = %v, want %v", got, DefaultSessionTTL)
	}
}

func TestIssueAndRead(t *testing.T) {
	s := NewSessions(testSecret, 6*time.Hour)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/login", nil)
	if err := s.Issue(rec, req, model.RoleUser); err != nil {
		t.Fatalf("issue: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != UserCookieName {
		t.Fatalf("cookies = %+v", cookies)
	}
	if cookies[0].MaxAge != 6*60*60 {
		t.Errorf("MaxAge = %d, want %d", cookies[0].MaxAge, 6*60*60)
	}
	if !cookies[0].HttpOnly {
		t.Error("expected HttpOnly cookie")
	}

	next := httptest.NewRequest("GET", "/", nil)
	next.AddCookie(cookies[0])
	ac := s.Read(next)
	if !ac.User || ac.Admin {
		t.Errorf("ac = %+v, want user only", ac)
	}
}

func TestReadBothFlags(t *testing.T) {
	s := NewSessions(testSecret, time.Hour)
	userTok, _ := s.Token(model.RoleUser)
	adminTok, _ := s.Token(model.RoleAdmin)

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: UserCookieName, Value: userTok})
	req.AddCookie(&http.Cookie{Name: AdminCookieName, Value: adminTok})

	ac := s.Read(req)
	if !ac.User || !ac.Admin {
		t.Errorf("ac = %+v, want both flags", ac)
	}
}

func TestReadSwappedCookies(t *testing.T) {
	s := NewSessions(testSecret, time.Hour)
	userTok, _ := s.Token(model.RoleUser)

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: AdminCookieName, Value: userTok})

	if ac := s.Read(req); ac.Admin || ac.User {
		t.Errorf("ac = %+v, a user token must not grant admin", ac)
	}
}

func TestClearOnlyTouchesOwnCookie(t *testing.T) {
	s := NewSessions(testSecret, time.Hour)
	rec := httptest.NewRecorder()
	s.Clear(rec, model.RoleUser)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %d, want 1", len(cookies))
	}
	if cookies[0].Name != UserCookieName || cookies[0].MaxAge >= 0 {
		t.Errorf("cookie = %+v, want expired user cookie", cookies[0])
	}
}
