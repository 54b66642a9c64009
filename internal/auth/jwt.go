package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/finpal/finpal-be/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// Claims defines the JWT claims structure.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// CurrentUserKey is the context key for the authenticated user.
type contextKey string

const CurrentUserKey = contextKey("currentUser")

// UserResolver resolves a token's user id against the credential store.
type UserResolver interface {
	GetUserByID(id string) (models.User, error)
}

// TokenManager issues and verifies session tokens. Tokens are signed
// HS256 and expire after 24 hours; there is no server-side session
// state and no revocation list.
type TokenManager struct {
	key []byte
}

// NewTokenManager creates a TokenManager with the given signing secret.
func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{key: []byte(secret)}
}

// Generate creates a new JWT for a given user.
func (m *TokenManager) Generate(user models.User) (string, error) {
	expirationTime := time.Now().Add(24 * time.Hour)
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.key)
}

// Validate parses and validates a JWT string.
func (m *TokenManager) Validate(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return m.key, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// Middleware creates a middleware for protecting routes. It extracts
// the bearer token, verifies it, resolves the embedded user id against
// the store and attaches the user to the request context. It is a pure
// gate: no side effects beyond identity attachment.
func (m *TokenManager) Middleware(users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tokenStr string

			// 1. Try to get the token from the Authorization header
			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				parts := strings.Split(authHeader, "Bearer ")
				if len(parts) == 2 {
					tokenStr = parts[1]
				}
			}

			// 2. Fall back to the x-auth-token header the web client sends
			if tokenStr == "" {
				tokenStr = r.Header.Get("x-auth-token")
			}

			// 3. Websocket connects cannot set headers; allow a query
			// parameter there
			if tokenStr == "" {
				tokenStr = r.URL.Query().Get("token")
			}

			// 4. If we still have no token, fail
			if tokenStr == "" {
				unauthorized(w, "Missing auth token")
				return
			}

			// 5. Validate the token
			claims, err := m.Validate(tokenStr)
			if err != nil {
				unauthorized(w, "Invalid auth token")
				return
			}

			// 6. The token may outlive its account; re-check the store
			user, err := users.GetUserByID(claims.UserID)
			if err != nil {
				unauthorized(w, "Invalid auth token")
				return
			}

			ctx := context.WithValue(r.Context(), CurrentUserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"message": msg})
}

// UserFromContext returns the authenticated user attached by Middleware.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(CurrentUserKey).(models.User)
	return user, ok
}
