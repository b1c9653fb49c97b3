package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/team-codebug/blogforge-app/config"
)

const (
	sessionCookieName = "blogforge_session"
	stateCookieName   = "blogforge_oauth_state"
)

// sessionManager issues and verifies the signed session cookie. The cookie
// payload is a JWT whose subject is the user's ID.
type sessionManager struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

func newSessionManager(c map[string]string) *sessionManager {
	return &sessionManager{
		secret: []byte(config.GetString(c, "SESSION_SECRET", "dev-session-secret")),
		ttl:    time.Duration(config.GetInt(c, "SESSION_TTL_HOURS", 24*14)) * time.Hour,
		secure: config.GetBool(c, "SESSION_COOKIE_SECURE", false),
	}
}

func (s *sessionManager) issue(w http.ResponseWriter, userID uuid.UUID) error {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return fmt.Errorf("sign session token: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  now.Add(s.ttl),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (s *sessionManager) read(r *http.Request) (uuid.UUID, error) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return uuid.Nil, err
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	if !token.Valid {
		return uuid.Nil, fmt.Errorf("invalid session token")
	}

	return uuid.Parse(claims.Subject)
}

func (s *sessionManager) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
