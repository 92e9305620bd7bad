package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dukerupert/behaviorchart/internal/model"
)

const (
	UserCookieName  = "behaviorchart_user"
	AdminCookieName = "behaviorchart_admin"

	DefaultSessionTTL = 6 * time.Hour
)

var ErrInvalidSession = errors.New("invalid session")

// Claims is the payload of a session cookie. Subject holds the role.
type Claims struct {
	jwt.RegisteredClaims
}

// Sessions issues and verifies the signed cookies that carry the user and
// admin flags. Each role has its own cookie and its own expiry.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessions(secret string, ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Sessions{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *Sessions) TTL() time.Duration {
	return s.ttl
}

func cookieName(role model.Role) string {
	if role == model.RoleAdmin {
		return AdminCookieName
	}
	return UserCookieName
}

// Token signs a session token for role.
func (s *Sessions) Token(role model.Role) (string, error) {
	if !role.Valid() {
		return "", fmt.Errorf("sign session: unknown role %q", role)
	}
	now := s.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   string(role),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return signed, nil
}

// Parse verifies a session token and checks it was issued for role.
func (s *Sessions) Parse(tokenStr string, role model.Role) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithSubject(string(role)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// Issue sets the session cookie for role on the response.
func (s *Sessions) Issue(w http.ResponseWriter, r *http.Request, role model.Role) error {
	token, err := s.Token(role)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName(role),
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.ttl / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
	return nil
}

// Clear removes the session cookie for role only.
func (s *Sessions) Clear(w http.ResponseWriter, role model.Role) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName(role),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// Read derives the AuthContext from the request cookies. Missing, expired
// or tampered cookies leave the corresponding flag unset.
func (s *Sessions) Read(r *http.Request) AuthContext {
	var ac AuthContext
	if c, err := r.Cookie(UserCookieName); err == nil && c.Value != "" {
		if claims, err := s.Parse(c.Value, model.RoleUser); err == nil {
			ac.User = true
			ac.SessionID = claims.ID
		}
	}
	if c, err := r.Cookie(AdminCookieName); err == nil && c.Value != "" {
		if claims, err := s.Parse(c.Value, model.RoleAdmin); err == nil {
			ac.Admin = true
			if ac.SessionID == "" {
				ac.SessionID = claims.ID
			}
		}
	}
	return ac
}
