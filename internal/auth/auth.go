// Package auth issues and verifies the bearer tokens returned by the login
// endpoint. Tokens are HS256 JWTs carrying the user's id and email; the
// signing secret and lifetime come from configuration.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ignite/gametrade/internal/domain"
)

// ErrInvalidToken covers every verification failure: bad signature, expiry,
// malformed claims. Callers only need to know the token was rejected.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the JWT payload for an authenticated user.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Manager signs and verifies access tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager creates a token manager with the given signing secret and
// token lifetime.
func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the given user.
func (m *Manager) Issue(u *domain.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			Issuer:    "gametrade",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses a token string and returns the user id it was issued for.
func (m *Manager) Verify(tokenString string) (int64, *Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		return 0, nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return 0, nil, ErrInvalidToken
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, nil, ErrInvalidToken
	}
	return userID, claims, nil
}

type contextKey struct{}

// UserID returns the authenticated user's id from a request context, or
// false when the request did not pass through RequireAuth.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(contextKey{}).(int64)
	return id, ok
}

// RequireAuth is middleware that rejects requests without a valid
// "Authorization: Bearer <token>" header and stores the caller's user id
// in the request context.
func (m *Manager) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			w.Header().Set("WWW-Authenticate", "Bearer")
			unauthorized(w, "not authenticated")
			return
		}
		userID, _, err := m.Verify(tokenString)
		if err != nil {
			w.Header().Set("WWW-Authenticate", "Bearer")
			unauthorized(w, "invalid or expired token")
			return
		}
		ctx := context.WithValue(r.Context(), contextKey{}, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":       http.StatusText(http.StatusUnauthorized),
		"detail":      detail,
		"status_code": http.StatusUnauthorized,
	})
}
