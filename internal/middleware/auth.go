package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/okarhu/locboard/internal/auth"
)

type key string

// UsernameKey carries the authenticated username through the request context.
const UsernameKey key = "username"

// Username returns the authenticated username from ctx, or "" when absent.
func Username(ctx context.Context) string {
	if v, ok := ctx.Value(UsernameKey).(string); ok {
		return v
	}
	return ""
}

// Auth authenticates a request with either HTTP Basic credentials (checked
// against the credential store) or a Bearer JWT issued by the login endpoint,
// and injects the verified username into the request context. Downstream
// handlers treat that username as an opaque, already-verified identity.
func Auth(secret []byte, credentials *auth.Credentials) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}

			var username string

			switch {
			case strings.HasPrefix(authHeader, "Basic "):
				user, pass, ok := r.BasicAuth()
				if !ok {
					http.Error(w, "invalid authorization header", http.StatusUnauthorized)
					return
				}
				valid, err := credentials.Verify(r.Context(), user, pass)
				if err != nil {
					http.Error(w, "internal server error", http.StatusInternalServerError)
					return
				}
				if !valid {
					http.Error(w, "invalid credentials", http.StatusUnauthorized)
					return
				}
				username = user

			case strings.HasPrefix(authHeader, "Bearer "):
				tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
				token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
					return secret, nil
				}, jwt.WithValidMethods([]string{"HS256"}))
				if err != nil || !token.Valid {
					http.Error(w, "invalid token", http.StatusUnauthorized)
					return
				}
				claims, ok := token.Claims.(jwt.MapClaims)
				if !ok {
					http.Error(w, "invalid token claims", http.StatusUnauthorized)
					return
				}
				username, ok = claims["username"].(string)
				if !ok || username == "" {
					http.Error(w, "invalid token claims", http.StatusUnauthorized)
					return
				}

			default:
				http.Error(w, "unsupported authorization scheme", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UsernameKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
